package media

import (
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01")

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	clock := func() time.Time { return time.UnixMilli(1700000000000) }
	return NewStorage(t.TempDir(), slog.New(slog.NewTextHandler(io.Discard, nil)), WithClock(clock))
}

func dataURL(mime string, b []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(b)
}

// readBack читает файл, на который указывает ссылка из Store.
func readBack(t *testing.T, s *Storage, url string) []byte {
	t.Helper()
	rel := strings.TrimPrefix(url, URLPrefix+"/")
	b, err := os.ReadFile(filepath.Join(s.Root(), filepath.FromSlash(rel)))
	require.NoError(t, err)
	return b
}

func TestStore_RoundTrip(t *testing.T) {
	cases := []struct {
		name    string
		kind    Kind
		mime    string
		content []byte
		wantExt string
	}{
		{"png image", Image, "image/png", pngBytes, ".png"},
		{"jpeg image", Image, "image/jpeg", []byte("\xff\xd8\xff\xe0 jpeg"), ".jpg"},
		{"webm video", Video, "video/webm;codecs=vp9", []byte("video-bytes"), ".webm"},
		{"mp4 video", Video, "video/mp4", []byte("video-bytes"), ".mp4"},
		{"wav audio", Audio, "audio/wav", []byte("audio-bytes"), ".wav"},
		{"mpeg audio", Audio, "audio/mpeg", []byte("audio-bytes"), ".mp3"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestStorage(t)

			url, err := s.Store(dataURL(tc.mime, tc.content), tc.kind, NotesDir, "img")
			require.NoError(t, err)

			assert.True(t, strings.HasPrefix(url, "/uploads/notes/img-1700000000000"), url)
			assert.True(t, strings.HasSuffix(url, tc.wantExt), url)
			assert.Equal(t, tc.content, readBack(t, s, url))
		})
	}
}

func TestStore_NoFile(t *testing.T) {
	s := newTestStorage(t)
	for _, payload := range []string{"", "not a data url", "data:image/png,rawdata"} {
		url, err := s.Store(payload, Image, NotesDir, "img")
		require.NoError(t, err)
		assert.Empty(t, url, "payload %q", payload)
	}
}

func TestStore_AvatarDirectory(t *testing.T) {
	s := newTestStorage(t)

	url, err := s.Store(dataURL("image/png", pngBytes), Image, AvatarsDir, "avatar-5")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/avatar-5-1700000000000.png", url)
}

func TestStore_SameMillisecondGetsNextName(t *testing.T) {
	s := newTestStorage(t)
	payload := dataURL("audio/wav", []byte("a"))

	first, err := s.Store(payload, Audio, NotesDir, "aud")
	require.NoError(t, err)
	second, err := s.Store(payload, Audio, NotesDir, "aud")
	require.NoError(t, err)

	assert.Equal(t, "/uploads/notes/aud-1700000000000.wav", first)
	assert.Equal(t, "/uploads/notes/aud-1700000000001.wav", second)
}

func TestStore_InvalidBase64(t *testing.T) {
	s := newTestStorage(t)
	_, err := s.Store("data:image/png;base64,***", Image, NotesDir, "img")
	assert.True(t, errors.Is(err, ErrInvalidPayload), "got %v", err)
}

func TestStore_RejectsForeignBytesForImage(t *testing.T) {
	s := newTestStorage(t)
	pdf := []byte("%PDF-1.4 fake document")

	_, err := s.Store(dataURL("image/png", pdf), Image, NotesDir, "img")
	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestExtension_Defaults(t *testing.T) {
	assert.Equal(t, "png", Extension(Image, "data:image/gif;base64"))
	assert.Equal(t, "mp4", Extension(Video, "data:video/quicktime;base64"))
	assert.Equal(t, "mp3", Extension(Audio, "data:audio/webm;codecs=opus;base64"))
	assert.Equal(t, "wav", Extension(Audio, "data:audio/x-wav;base64"))
}

func TestIsImageDataURL(t *testing.T) {
	assert.True(t, IsImageDataURL(dataURL("image/jpeg", pngBytes)))
	assert.False(t, IsImageDataURL(dataURL("video/mp4", pngBytes)))
	assert.False(t, IsImageDataURL("data:image/png,raw"))
	assert.False(t, IsImageDataURL(""))
}

func TestRemove(t *testing.T) {
	s := newTestStorage(t)
	url, err := s.Store(dataURL("image/png", pngBytes), Image, NotesDir, "img")
	require.NoError(t, err)

	require.NoError(t, s.Remove(url))
	_, err = os.Stat(filepath.Join(s.Root(), "notes", filepath.Base(url)))
	assert.True(t, os.IsNotExist(err))

	// Повторное удаление и чужие ссылки - не ошибка.
	assert.NoError(t, s.Remove(url))
	assert.NoError(t, s.Remove("https://example.com/x.png"))
	assert.NoError(t, s.Remove("/uploads/../go.mod"))
}
