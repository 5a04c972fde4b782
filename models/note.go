package models

import (
	"strings"
	"time"
)

// Note представляет заметку пользователя с необязательными медиа-вложениями.
// JSON-поля в snake_case, как их ожидает клиент.
type Note struct {
	ID        int64      `json:"id" db:"id"`
	UserID    *int64     `json:"user_id" db:"user_id"` // nil, если владелец удален
	Title     string     `json:"title" db:"title"`
	Content   *string    `json:"content" db:"content"`
	ImageURL  *string    `json:"image_url" db:"image_url"`
	VideoURL  *string    `json:"video_url" db:"video_url"`
	AudioURL  *string    `json:"audio_url" db:"audio_url"`
	Tags      *string    `json:"tags" db:"tags"`
	Pinned    bool       `json:"pinned" db:"pinned"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt *time.Time `json:"updated_at" db:"updated_at"`
}

// TagList разбирает поле tags (через запятую) на отдельные метки без пробелов по краям.
func (n *Note) TagList() []string {
	if n.Tags == nil {
		return nil
	}
	var tags []string
	for _, t := range strings.Split(*n.Tags, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// HasTag сообщает, является ли tag одной из меток заметки целиком.
// Подстрока метки совпадением не считается: "mat" не совпадает с "math".
func (n *Note) HasTag(tag string) bool {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return false
	}
	for _, t := range n.TagList() {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// MediaURLs возвращает все непустые ссылки на медиафайлы заметки.
func (n *Note) MediaURLs() []string {
	var urls []string
	for _, u := range []*string{n.ImageURL, n.VideoURL, n.AudioURL} {
		if u != nil && *u != "" {
			urls = append(urls, *u)
		}
	}
	return urls
}

// NoteSort - ключ сортировки списка заметок.
type NoteSort string

const (
	SortDateDesc  NoteSort = "date_desc"
	SortDateAsc   NoteSort = "date_asc"
	SortTitleAsc  NoteSort = "title_asc"
	SortTitleDesc NoteSort = "title_desc"
)

// ParseNoteSort приводит значение из query-параметра к ключу сортировки.
// Неизвестные значения дают сортировку по умолчанию (сначала новые).
func ParseNoteSort(s string) NoteSort {
	switch NoteSort(strings.ToLower(strings.TrimSpace(s))) {
	case SortDateAsc:
		return SortDateAsc
	case SortTitleAsc:
		return SortTitleAsc
	case SortTitleDesc:
		return SortTitleDesc
	default:
		return SortDateDesc
	}
}

// NoteFilter описывает параметры выборки заметок. Пустые поля не фильтруют.
type NoteFilter struct {
	OwnerID *int64
	Search  string
	Tag     string
	Pinned  *bool
	Sort    NoteSort
}

// NoteInput - данные для создания или обновления заметки.
// Медиа передаются как data-URL строки; пустая строка означает "не менять".
type NoteInput struct {
	UserID  *int64
	Title   string
	Content *string
	Tags    *string
	Pinned  *bool
	Image   string
	Video   string
	Audio   string
}
