package controllers

import (
	"context"
	"log/slog"

	"allnotes_server_go/auth"
	"allnotes_server_go/models"
)

// NoteRepository - операции над заметками, нужные обработчикам.
type NoteRepository interface {
	List(ctx context.Context, f models.NoteFilter) ([]models.Note, error)
	Create(ctx context.Context, in models.NoteInput) (int64, error)
	Update(ctx context.Context, id int64, in models.NoteInput) error
	Delete(ctx context.Context, id int64) error
}

// UserRepository - операции над пользователями, нужные обработчикам.
type UserRepository interface {
	Create(ctx context.Context, req models.SignupRequest) (int64, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	UpdateProfile(ctx context.Context, id int64, req models.ProfileUpdateRequest) (*models.User, error)
	UpdateAvatar(ctx context.Context, id int64, payload string) (string, error)
}

// VersionReporter сообщает версию сервера БД.
type VersionReporter interface {
	Version(ctx context.Context) (string, error)
}

// API объединяет зависимости HTTP-обработчиков. Создается один раз в serve.
type API struct {
	DB           VersionReporter
	Notes        NoteRepository
	Users        UserRepository
	Sessions     auth.SessionStore
	Cookies      auth.CookieSettings
	Log          *slog.Logger
	MaxBodyBytes int64
}
