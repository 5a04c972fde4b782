package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// MediaPayload - data-URL строка с медиафайлом. Любое не строковое значение
// в JSON (число, объект, null) декодируется в пустую строку, то есть "файла нет".
type MediaPayload string

// UnmarshalJSON реализует json.Unmarshaler.
func (p *MediaPayload) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		*p = ""
		return nil
	}
	*p = MediaPayload(s)
	return nil
}

// FlexBool принимает true/false, 0/1 и их строковые формы.
type FlexBool bool

// UnmarshalJSON реализует json.Unmarshaler.
func (f *FlexBool) UnmarshalJSON(b []byte) error {
	raw := strings.Trim(string(bytes.TrimSpace(b)), `"`)
	if raw == "" || raw == "null" {
		*f = false
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fmt.Errorf("invalid boolean value %q", raw)
	}
	*f = FlexBool(v)
	return nil
}

// NoteRequest - тело POST /api/notes и PUT /api/notes/{id}.
type NoteRequest struct {
	UserID  *int64       `json:"userId"`
	Title   string       `json:"title"`
	Content *string      `json:"content"`
	Tags    *string      `json:"tags"`
	Pinned  *FlexBool    `json:"pinned"`
	Image   MediaPayload `json:"image"`
	Video   MediaPayload `json:"video"`
	Audio   MediaPayload `json:"audio"`
}

// Input переводит тело запроса во входные данные репозитория заметок.
func (r *NoteRequest) Input() NoteInput {
	in := NoteInput{
		UserID:  r.UserID,
		Title:   r.Title,
		Content: r.Content,
		Tags:    r.Tags,
		Image:   string(r.Image),
		Video:   string(r.Video),
		Audio:   string(r.Audio),
	}
	if r.Pinned != nil {
		p := bool(*r.Pinned)
		in.Pinned = &p
	}
	return in
}

// OKResponse - ответ без данных.
type OKResponse struct {
	OK bool `json:"ok"`
}

// ErrorResponse - ответ с описанием ошибки.
type ErrorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// IDResponse возвращается после создания записи.
type IDResponse struct {
	OK bool  `json:"ok"`
	ID int64 `json:"id"`
}

// NotesResponse - ответ со списком заметок.
type NotesResponse struct {
	OK   bool   `json:"ok"`
	Data []Note `json:"data"`
}

// UserResponse - ответ с публичным профилем.
type UserResponse struct {
	OK   bool           `json:"ok"`
	User UserPublicInfo `json:"user"`
}

// AvatarResponse - ответ после загрузки фото профиля.
type AvatarResponse struct {
	OK        bool   `json:"ok"`
	AvatarURL string `json:"avatarUrl"`
}

// HealthResponse - ответ проверки состояния сервера.
type HealthResponse struct {
	OK      bool   `json:"ok"`
	DB      string `json:"db"`
	Version string `json:"version"`
}
