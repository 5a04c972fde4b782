package media

import (
	"net/http"
	"strings"
)

// base64Marker отделяет заголовок data-URL от данных.
const base64Marker = "base64,"

// extRule - правило выбора расширения: первое совпавшее по подстроке побеждает.
type extRule struct {
	substr string
	ext    string
}

// Правила проверяются по порядку; это не разбор MIME, а поиск подстрок
// в заголовке data-URL.
var (
	imageRules = []extRule{{"png", "png"}, {"jpeg", "jpg"}, {"jpg", "jpg"}}
	videoRules = []extRule{{"mp4", "mp4"}, {"webm", "webm"}}
	audioRules = []extRule{{"mpeg", "mp3"}, {"mp3", "mp3"}, {"wav", "wav"}, {"wave", "wav"}}
)

// splitDataURL делит "data:<mime>;base64,<data>" на заголовок и данные.
// ok=false, если маркера base64 нет.
func splitDataURL(payload string) (header, data string, ok bool) {
	if !strings.Contains(payload, base64Marker) {
		return "", "", false
	}
	i := strings.IndexByte(payload, ',')
	return payload[:i], payload[i+1:], true
}

// Extension выбирает расширение файла по заголовку data-URL.
func Extension(kind Kind, header string) string {
	header = strings.ToLower(header)
	var (
		rules []extRule
		def   string
	)
	switch kind {
	case Video:
		rules, def = videoRules, "mp4"
	case Audio:
		rules, def = audioRules, "mp3"
	default:
		rules, def = imageRules, "png"
	}
	for _, r := range rules {
		if strings.Contains(header, r.substr) {
			return r.ext
		}
	}
	return def
}

// IsImageDataURL сообщает, объявляет ли payload изображение в форме data-URL.
func IsImageDataURL(payload string) bool {
	return strings.HasPrefix(strings.ToLower(payload), "data:image/") && strings.Contains(payload, base64Marker)
}

// verifyContent отклоняет изображения, чьи байты явно принадлежат другому типу.
// Для видео и аудио проверки нет: WebM одинаково используется для обоих.
func verifyContent(kind Kind, b []byte) error {
	if kind != Image {
		return nil
	}
	detected := http.DetectContentType(b)
	for _, foreign := range []string{"video/", "audio/", "application/pdf", "application/zip", "application/x-gzip"} {
		if strings.HasPrefix(detected, foreign) {
			return invalidf("image payload contains %s data", detected)
		}
	}
	return nil
}
