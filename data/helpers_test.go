package data

import (
	"context"
	"encoding/base64"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"allnotes_server_go/media"

	"github.com/stretchr/testify/require"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01")

func pngDataURL() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// openTestDB открывает SQLite в памяти и приводит схему к целевой.
// Одно соединение: у каждого соединения :memory: своя база.
func openTestDB(t *testing.T) *Database {
	t.Helper()
	db := openEmptyTestDB(t)
	require.NoError(t, NewSynchronizer(db, discardLogger()).SyncAll(context.Background()))
	return db
}

func openEmptyTestDB(t *testing.T) *Database {
	t.Helper()
	db, err := Open(context.Background(), Options{
		Driver:       DriverSQLite,
		DSN:          ":memory:?_foreign_keys=on",
		MaxOpenConns: 1,
	}, discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestStorage(t *testing.T) *media.Storage {
	t.Helper()
	return media.NewStorage(t.TempDir(), discardLogger())
}

// uploadPath переводит URL медиа в путь на диске.
func uploadPath(s *media.Storage, url string) string {
	rel := strings.TrimPrefix(url, media.URLPrefix+"/")
	return filepath.Join(s.Root(), filepath.FromSlash(rel))
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// stepClock выдает возрастающие моменты времени с шагом в минуту.
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func newStepClock() *stepClock {
	return &stepClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Minute)
	return c.now
}

func ptr[T any](v T) *T { return &v }
