// Package media сохраняет медиафайлы, присланные как base64 data-URL,
// в публичную директорию загрузок.
package media

import (
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Kind - вид медиа, определяет набор расширений.
type Kind string

const (
	Image Kind = "image"
	Video Kind = "video"
	Audio Kind = "audio"
)

// Поддиректории загрузок.
const (
	NotesDir   = "notes"
	AvatarsDir = ""
)

// URLPrefix - URL-путь, по которому отдается директория загрузок.
const URLPrefix = "/uploads"

// maxNameAttempts ограничивает подбор свободного имени файла.
const maxNameAttempts = 1000

// ErrInvalidPayload возвращается для data-URL, которые нельзя сохранить.
var ErrInvalidPayload = errors.New("invalid media payload")

type invalidError struct{ msg string }

func (e *invalidError) Error() string        { return e.msg }
func (e *invalidError) Is(target error) bool { return target == ErrInvalidPayload }

func invalidf(format string, args ...any) error {
	return &invalidError{msg: fmt.Sprintf(format, args...)}
}

// Storage пишет файлы в root и выдает ссылки вида /uploads/<dir>/<file>.
type Storage struct {
	root string
	log  *slog.Logger
	now  func() time.Time
}

// Option настраивает Storage.
type Option func(*Storage)

// WithClock задает источник времени для имен файлов.
func WithClock(now func() time.Time) Option {
	return func(s *Storage) { s.now = now }
}

// NewStorage создает хранилище с корнем root.
func NewStorage(root string, log *slog.Logger, opts ...Option) *Storage {
	s := &Storage{root: root, log: log, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Root возвращает корневую директорию загрузок.
func (s *Storage) Root() string { return s.root }

// Store декодирует payload и записывает его в <root>/<dir>/<prefix>-<ms>.<ext>.
// Пустая ссылка без ошибки означает "файла нет": payload пуст или не содержит
// маркера base64. Частично записанные файлы при ошибке не удаляются.
func (s *Storage) Store(payload string, kind Kind, dir, prefix string) (string, error) {
	header, encoded, ok := splitDataURL(payload)
	if !ok {
		return "", nil
	}

	b, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return "", invalidf("%s payload is not valid base64: %v", kind, err)
	}
	if err := verifyContent(kind, b); err != nil {
		return "", err
	}

	target := filepath.Join(s.root, filepath.FromSlash(dir))
	if err := os.MkdirAll(target, 0o755); err != nil {
		return "", fmt.Errorf("create upload directory %s: %w", target, err)
	}

	ext := Extension(kind, header)
	name, err := s.writeUnique(target, prefix, ext, b)
	if err != nil {
		return "", err
	}

	url := path.Join(URLPrefix, dir, name)
	s.log.Info("media stored", "kind", kind, "url", url, "size", humanize.Bytes(uint64(len(b))))
	return url, nil
}

// writeUnique создает файл эксклюзивно. Если имя с текущей миллисекундой занято,
// метка времени увеличивается до первого свободного имени.
func (s *Storage) writeUnique(dir, prefix, ext string, b []byte) (string, error) {
	ms := s.now().UnixMilli()
	for i := 0; i < maxNameAttempts; i++ {
		name := fmt.Sprintf("%s-%d.%s", prefix, ms+int64(i), ext)
		f, err := os.OpenFile(filepath.Join(dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("create media file: %w", err)
		}
		if _, err := f.Write(b); err != nil {
			f.Close()
			return "", fmt.Errorf("write media file %s: %w", name, err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("close media file %s: %w", name, err)
		}
		return name, nil
	}
	return "", fmt.Errorf("no free file name for prefix %s", prefix)
}

// Remove удаляет файл по ссылке, выданной Store. Ссылки вне директории
// загрузок и уже удаленные файлы игнорируются.
func (s *Storage) Remove(url string) error {
	rel, ok := strings.CutPrefix(url, URLPrefix+"/")
	if !ok || rel == "" {
		return nil
	}
	clean := path.Clean("/" + rel)[1:]
	if clean == "" || clean != rel {
		return nil
	}
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(clean)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove media %s: %w", url, err)
	}
	return nil
}
