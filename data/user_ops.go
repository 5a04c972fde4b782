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
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost - стоимость хеширования паролей (10 раундов).
const bcryptCost = 10

const userColumns = `id, name, last_name, username, country, region, commune, sex, birthdate, email, password_hash, avatar_url, created_at`

// dummyHash сравнивается с паролем, когда пользователь не найден, чтобы время
// ответа не выдавало существование email.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("allnotes-dummy-password"), bcryptCost)

// HashPassword генерирует хеш bcrypt для пароля.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return string(bytes), err
}

// CheckPasswordHash сравнивает пароль с хешем.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// UserStore - репозиторий пользователей.
type UserStore struct {
	db      *sqlx.DB
	media   MediaStorer
	log     *slog.Logger
	now     func() time.Time
	cleanup bool
}

// UserStoreOption настраивает UserStore.
type UserStoreOption func(*UserStore)

// WithUserClock задает источник времени для created_at.
func WithUserClock(now func() time.Time) UserStoreOption {
	return func(s *UserStore) { s.now = now }
}

// WithAvatarCleanup включает удаление предыдущего фото профиля после замены.
func WithAvatarCleanup(enabled bool) UserStoreOption {
	return func(s *UserStore) { s.cleanup = enabled }
}

// NewUserStore создает репозиторий пользователей.
func NewUserStore(db *sqlx.DB, storer MediaStorer, log *slog.Logger, opts ...UserStoreOption) *UserStore {
	s := &UserStore{db: db, media: storer, log: log, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// parseBirthdate принимает YYYY-MM-DD или ISO-дату со временем (берется дата).
func parseBirthdate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) > len(models.BirthdateLayout) {
		s = s[:len(models.BirthdateLayout)]
	}
	t, err := time.Parse(models.BirthdateLayout, s)
	if err != nil {
		return time.Time{}, validationf("birthdate must be YYYY-MM-DD")
	}
	return t, nil
}

func missing(fields ...string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) == "" {
			return true
		}
	}
	return false
}

// Create регистрирует пользователя и возвращает его ID.
// Повтор username или email дает ErrDuplicate.
func (s *UserStore) Create(ctx context.Context, req models.SignupRequest) (int64, error) {
	if missing(req.Name, req.LastName, req.Username, req.Region, req.Commune, req.Sex, req.Birthdate, req.Email, req.Password) {
		return 0, validationf("missing required fields")
	}
	if !req.TermsAccepted {
		return 0, validationf("terms and conditions must be accepted")
	}
	birthdate, err := parseBirthdate(req.Birthdate)
	if err != nil {
		return 0, err
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return 0, fmt.Errorf("failed to hash password: %w", err)
	}

	query := `INSERT INTO users (name, last_name, username, country, region, commune, sex, birthdate, email, password_hash, created_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := s.db.ExecContext(ctx, query,
		strings.TrimSpace(req.Name), strings.TrimSpace(req.LastName), strings.TrimSpace(req.Username),
		models.DefaultCountry, req.Region, req.Commune, req.Sex,
		birthdate.Format(models.BirthdateLayout), strings.TrimSpace(req.Email), hash, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to insert user: %w", mapDBError(err))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for user: %w", err)
	}
	s.log.InfoContext(ctx, "user registered", "user_id", id)
	return id, nil
}

// Authenticate проверяет email и пароль. Для неизвестного email и неверного
// пароля возвращается одна и та же ErrInvalidCredentials.
func (s *UserStore) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	if missing(email, password) {
		return nil, validationf("email and password are required")
	}

	user, err := s.GetByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, ErrNotFound) {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !CheckPasswordHash(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// GetByEmail извлекает пользователя по email.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	err := s.db.GetContext(ctx, user, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

// GetByID извлекает пользователя по ID.
func (s *UserStore) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user := &models.User{}
	err := s.db.GetContext(ctx, user, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID %d: %w", id, err)
	}
	return user, nil
}

// UpdateProfile обновляет профиль и возвращает сохраненного пользователя.
// Страна всегда записывается как DefaultCountry. Пустые region, commune, sex
// и birthdate оставляют прежние значения.
func (s *UserStore) UpdateProfile(ctx context.Context, id int64, req models.ProfileUpdateRequest) (*models.User, error) {
	if missing(req.Name, req.LastName, req.Username, req.Email) {
		return nil, validationf("name, lastName, username and email are required")
	}

	set := []string{"name = ?", "last_name = ?", "username = ?", "email = ?", "country = ?"}
	args := []any{
		strings.TrimSpace(req.Name), strings.TrimSpace(req.LastName), strings.TrimSpace(req.Username),
		strings.TrimSpace(req.Email), models.DefaultCountry,
	}
	for _, f := range []struct{ col, val string }{
		{"region", req.Region}, {"commune", req.Commune}, {"sex", req.Sex},
	} {
		if strings.TrimSpace(f.val) != "" {
			set = append(set, f.col+" = ?")
			args = append(args, f.val)
		}
	}
	if strings.TrimSpace(req.Birthdate) != "" {
		birthdate, err := parseBirthdate(req.Birthdate)
		if err != nil {
			return nil, err
		}
		set = append(set, "birthdate = ?")
		args = append(args, birthdate.Format(models.BirthdateLayout))
	}
	args = append(args, id)

	query := `UPDATE users SET ` + strings.Join(set, ", ") + ` WHERE id = ?`
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("failed to update user profile for ID %d: %w", id, mapDBError(err))
	}
	s.log.InfoContext(ctx, "user profile updated", "user_id", id)

	return s.GetByID(ctx, id)
}

// UpdateAvatar сохраняет новое фото профиля и возвращает его URL.
// payload должен быть data-URL изображения; предыдущий файл остается на диске,
// если очистка не включена.
func (s *UserStore) UpdateAvatar(ctx context.Context, id int64, payload string) (string, error) {
	if !media.IsImageDataURL(payload) {
		return "", validationf("invalid image")
	}

	user, err := s.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	url, err := s.media.Store(payload, media.Image, media.AvatarsDir, fmt.Sprintf("avatar-%d", id))
	if err != nil {
		return "", fmt.Errorf("failed to store avatar for user %d: %w", id, err)
	}

	if _, err := s.db.ExecContext(ctx, `UPDATE users SET avatar_url = ? WHERE id = ?`, url, id); err != nil {
		return "", fmt.Errorf("failed to update avatar for user %d: %w", id, err)
	}
	s.log.InfoContext(ctx, "user avatar updated", "user_id", id, "url", url)

	if s.cleanup && user.AvatarURL != nil && *user.AvatarURL != "" && *user.AvatarURL != url {
		if err := s.media.Remove(*user.AvatarURL); err != nil {
			s.log.WarnContext(ctx, "avatar cleanup failed", "url", *user.AvatarURL, "error", err)
		}
	}
	return url, nil
}
