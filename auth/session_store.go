// Package auth хранит сессии пользователей и связывает их с cookie.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"
)

// tokenBytes - длина случайной части токена сессии.
const tokenBytes = 32

// SessionStore сопоставляет непрозрачный токен с ID пользователя.
type SessionStore interface {
	Create(userID int64) (string, error)
	Lookup(token string) (int64, bool)
	Destroy(token string)
}

// Session - запись о входе пользователя.
type Session struct {
	UserID    int64
	CreatedAt time.Time
}

// MemoryStore хранит сессии в памяти процесса. Сессии теряются при перезапуске
// и не разделяются между экземплярами сервера.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]Session
	ttl      time.Duration
	now      func() time.Time
}

// MemoryStoreOption настраивает MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithClock задает источник времени.
func WithClock(now func() time.Time) MemoryStoreOption {
	return func(s *MemoryStore) { s.now = now }
}

// NewMemoryStore создает хранилище. Сессии старше ttl считаются истекшими;
// ttl <= 0 отключает истечение.
func NewMemoryStore(ttl time.Duration, opts ...MemoryStoreOption) *MemoryStore {
	s := &MemoryStore{sessions: make(map[string]Session), ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewToken возвращает 32 криптографически случайных байта в hex.
func NewToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// Create заводит сессию для пользователя и возвращает ее токен.
// Заодно вычищает истекшие сессии.
func (s *MemoryStore) Create(userID int64) (string, error) {
	token, err := NewToken()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.sweepLocked(now)
	s.sessions[token] = Session{UserID: userID, CreatedAt: now}
	return token, nil
}

// Lookup возвращает ID пользователя для действующего токена.
func (s *MemoryStore) Lookup(token string) (int64, bool) {
	if token == "" {
		return 0, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[token]
	if !ok {
		return 0, false
	}
	if s.expired(sess, s.now()) {
		delete(s.sessions, token)
		return 0, false
	}
	return sess.UserID, true
}

// Destroy удаляет сессию. Неизвестный токен игнорируется.
func (s *MemoryStore) Destroy(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

// Sweep удаляет истекшие сессии и возвращает их количество.
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweepLocked(s.now())
}

// Len возвращает число хранимых сессий.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *MemoryStore) sweepLocked(now time.Time) int {
	if s.ttl <= 0 {
		return 0
	}
	removed := 0
	for token, sess := range s.sessions {
		if s.expired(sess, now) {
			delete(s.sessions, token)
			removed++
		}
	}
	return removed
}

func (s *MemoryStore) expired(sess Session, now time.Time) bool {
	return s.ttl > 0 && now.Sub(sess.CreatedAt) >= s.ttl
}
