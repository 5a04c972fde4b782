package auth

import (
	"net/http"
	"time"
)

// CookieName - имя cookie с токеном сессии.
const CookieName = "session"

// DefaultMaxAge - срок жизни cookie сессии.
const DefaultMaxAge = 7 * 24 * time.Hour

// CookieSettings определяет атрибуты cookie сессии.
// В production cookie Secure и SameSite=Strict, иначе SameSite=Lax.
type CookieSettings struct {
	Production bool
	MaxAge     time.Duration
}

func (c CookieSettings) base() *http.Cookie {
	sameSite := http.SameSiteLaxMode
	if c.Production {
		sameSite = http.SameSiteStrictMode
	}
	return &http.Cookie{
		Name:     CookieName,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.Production,
		SameSite: sameSite,
	}
}

// Set выставляет cookie с токеном.
func (c CookieSettings) Set(w http.ResponseWriter, token string) {
	maxAge := c.MaxAge
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	cookie := c.base()
	cookie.Value = token
	cookie.MaxAge = int(maxAge / time.Second)
	cookie.Expires = time.Now().Add(maxAge)
	http.SetCookie(w, cookie)
}

// Clear просит браузер удалить cookie; атрибуты совпадают с Set.
func (c CookieSettings) Clear(w http.ResponseWriter) {
	cookie := c.base()
	cookie.MaxAge = -1
	cookie.Expires = time.Unix(0, 0)
	http.SetCookie(w, cookie)
}

// TokenFromRequest возвращает токен из cookie запроса или пустую строку.
func TokenFromRequest(r *http.Request) string {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
