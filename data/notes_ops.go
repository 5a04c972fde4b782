package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"allnotes_server_go/media"
	"allnotes_server_go/models"

	"github.com/jmoiron/sqlx"
)

// MediaStorer сохраняет медиафайлы из data-URL и удаляет их по ссылке.
// Реализуется *media.Storage.
type MediaStorer interface {
	Store(payload string, kind media.Kind, dir, prefix string) (string, error)
	Remove(url string) error
}

// Префиксы имен файлов медиа заметок.
const (
	imagePrefix = "img"
	videoPrefix = "vid"
	audioPrefix = "aud"
)

const noteColumns = `id, user_id, title, content, image_url, video_url, audio_url, tags, pinned, created_at, updated_at`

// NoteStore - репозиторий заметок.
type NoteStore struct {
	db      *sqlx.DB
	media   MediaStorer
	log     *slog.Logger
	now     func() time.Time
	cleanup bool
}

// NoteStoreOption настраивает NoteStore.
type NoteStoreOption func(*NoteStore)

// WithNoteClock задает источник времени для created_at/updated_at.
func WithNoteClock(now func() time.Time) NoteStoreOption {
	return func(s *NoteStore) { s.now = now }
}

// WithMediaCleanup включает удаление файлов, на которые заметка перестала
// ссылаться после замены медиа или удаления заметки.
func WithMediaCleanup(enabled bool) NoteStoreOption {
	return func(s *NoteStore) { s.cleanup = enabled }
}

// NewNoteStore создает репозиторий заметок.
func NewNoteStore(db *sqlx.DB, storer MediaStorer, log *slog.Logger, opts ...NoteStoreOption) *NoteStore {
	s := &NoteStore{db: db, media: storer, log: log, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List возвращает все заметки, подходящие под фильтр, без постраничной разбивки.
func (s *NoteStore) List(ctx context.Context, f models.NoteFilter) ([]models.Note, error) {
	var (
		where []string
		args  []any
	)
	if f.OwnerID != nil {
		where = append(where, "user_id = ?")
		args = append(args, *f.OwnerID)
	}
	if q := strings.TrimSpace(f.Search); q != "" {
		like := "%" + escapeLike(q) + "%"
		where = append(where, "(title LIKE ? ESCAPE '!' OR content LIKE ? ESCAPE '!')")
		args = append(args, like, like)
	}
	tag := strings.TrimSpace(f.Tag)
	if tag != "" {
		// Грубый отбор в SQL, точное совпадение метки проверяется ниже.
		where = append(where, "tags LIKE ? ESCAPE '!'")
		args = append(args, "%"+escapeLike(tag)+"%")
	}
	if f.Pinned != nil {
		where = append(where, "pinned = ?")
		args = append(args, *f.Pinned)
	}

	query := `SELECT ` + noteColumns + ` FROM notes`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY ` + orderClause(f.Sort)

	var notes []models.Note
	if err := s.db.SelectContext(ctx, &notes, query, args...); err != nil {
		return nil, fmt.Errorf("List: ошибка получения заметок: %w", err)
	}

	if tag == "" {
		return notes, nil
	}
	matched := notes[:0]
	for _, n := range notes {
		if n.HasTag(tag) {
			matched = append(matched, n)
		}
	}
	return matched, nil
}

func orderClause(sort models.NoteSort) string {
	switch sort {
	case models.SortDateAsc:
		return "created_at ASC, id ASC"
	case models.SortTitleAsc:
		return "title ASC, id ASC"
	case models.SortTitleDesc:
		return "title DESC, id DESC"
	default:
		return "created_at DESC, id DESC"
	}
}

// escapeLike экранирует спецсимволы LIKE символом '!', одинаково понятным MySQL и SQLite.
func escapeLike(s string) string {
	return strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(s)
}

// GetByID извлекает заметку по ID.
func (s *NoteStore) GetByID(ctx context.Context, id int64) (*models.Note, error) {
	note := &models.Note{}
	err := s.db.GetContext(ctx, note, `SELECT `+noteColumns+` FROM notes WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("GetByID: ошибка получения заметки ID %d: %w", id, err)
	}
	return note, nil
}

// noteMedia - ссылки на сохраненные файлы; nil, если файл не передан.
type noteMedia struct {
	image, video, audio *string
}

func (s *NoteStore) storeMedia(in models.NoteInput) (noteMedia, error) {
	var m noteMedia
	slots := []struct {
		payload string
		kind    media.Kind
		prefix  string
		dst     **string
	}{
		{in.Image, media.Image, imagePrefix, &m.image},
		{in.Video, media.Video, videoPrefix, &m.video},
		{in.Audio, media.Audio, audioPrefix, &m.audio},
	}
	for _, slot := range slots {
		url, err := s.media.Store(slot.payload, slot.kind, media.NotesDir, slot.prefix)
		if err != nil {
			return m, fmt.Errorf("сохранение %s: %w", slot.kind, err)
		}
		if url != "" {
			*slot.dst = &url
		}
	}
	return m, nil
}

// Create создает заметку и возвращает ее ID. Медиа сохраняются до вставки строки;
// отсутствующее медиа оставляет соответствующую колонку NULL.
func (s *NoteStore) Create(ctx context.Context, in models.NoteInput) (int64, error) {
	if strings.TrimSpace(in.Title) == "" {
		return 0, validationf("title is required")
	}

	m, err := s.storeMedia(in)
	if err != nil {
		return 0, fmt.Errorf("Create: %w", err)
	}

	pinned := in.Pinned != nil && *in.Pinned
	query := `INSERT INTO notes (user_id, title, content, image_url, video_url, audio_url, tags, pinned, created_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := s.db.ExecContext(ctx, query,
		in.UserID, in.Title, in.Content, m.image, m.video, m.audio, in.Tags, pinned, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("Create: ошибка вставки заметки: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("Create: ошибка получения LastInsertId: %w", err)
	}
	s.log.InfoContext(ctx, "note created", "note_id", id)
	return id, nil
}

// Update обновляет заметку. Колонки, для которых не пришло новое значение,
// не меняются: без нового медиа старая ссылка сохраняется.
// Конкурентные обновления не согласуются, выигрывает последнее.
func (s *NoteStore) Update(ctx context.Context, id int64, in models.NoteInput) error {
	if strings.TrimSpace(in.Title) == "" {
		return validationf("title is required")
	}

	var previous *models.Note
	if s.cleanup && (in.Image != "" || in.Video != "" || in.Audio != "") {
		p, err := s.GetByID(ctx, id)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return fmt.Errorf("Update: %w", err)
		}
		previous = p
	}

	m, err := s.storeMedia(in)
	if err != nil {
		return fmt.Errorf("Update: %w", err)
	}

	set := []string{"title = ?"}
	args := []any{in.Title}
	if in.Content != nil {
		set = append(set, "content = ?")
		args = append(args, *in.Content)
	}
	if in.Tags != nil {
		set = append(set, "tags = ?")
		args = append(args, *in.Tags)
	}
	if in.Pinned != nil {
		set = append(set, "pinned = ?")
		args = append(args, *in.Pinned)
	}
	for _, col := range []struct {
		name string
		url  *string
	}{{"image_url", m.image}, {"video_url", m.video}, {"audio_url", m.audio}} {
		if col.url != nil {
			set = append(set, col.name+" = ?")
			args = append(args, *col.url)
		}
	}
	set = append(set, "updated_at = ?")
	args = append(args, s.now().UTC(), id)

	query := `UPDATE notes SET ` + strings.Join(set, ", ") + ` WHERE id = ?`
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("Update: ошибка обновления заметки ID %d: %w", id, err)
	}
	s.log.InfoContext(ctx, "note updated", "note_id", id)

	if previous != nil {
		s.removeReplaced(ctx, previous, m)
	}
	return nil
}

// Delete удаляет заметку без проверки ее существования.
// Файлы медиа остаются на диске, если очистка не включена.
func (s *NoteStore) Delete(ctx context.Context, id int64) error {
	var previous *models.Note
	if s.cleanup {
		p, err := s.GetByID(ctx, id)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return fmt.Errorf("Delete: %w", err)
		}
		previous = p
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id); err != nil {
		return fmt.Errorf("Delete: ошибка удаления заметки ID %d: %w", id, err)
	}
	s.log.InfoContext(ctx, "note deleted", "note_id", id)

	if previous != nil {
		for _, url := range previous.MediaURLs() {
			s.removeFile(ctx, url)
		}
	}
	return nil
}

func (s *NoteStore) removeReplaced(ctx context.Context, previous *models.Note, m noteMedia) {
	pairs := []struct{ old, replacement *string }{
		{previous.ImageURL, m.image},
		{previous.VideoURL, m.video},
		{previous.AudioURL, m.audio},
	}
	for _, p := range pairs {
		if p.old != nil && *p.old != "" && p.replacement != nil {
			s.removeFile(ctx, *p.old)
		}
	}
}

// removeFile удаляет файл медиа. Ошибка только логируется: строка в БД уже изменена.
func (s *NoteStore) removeFile(ctx context.Context, url string) {
	if err := s.media.Remove(url); err != nil {
		s.log.WarnContext(ctx, "media cleanup failed", "url", url, "error", err)
	}
}
