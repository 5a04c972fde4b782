package middleware

import (
	"context"
	"net/http"

	"allnotes_server_go/auth"
)

type contextKey string

// UserIDKey - ключ для хранения ID пользователя в контексте запроса.
const UserIDKey contextKey = "userID"

// Session кладет в контекст ID пользователя, если cookie сессии действительна.
// Доступ не ограничивает: обработчики сами решают, нужен ли вход.
func Session(store auth.SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if userID, ok := store.Lookup(auth.TokenFromRequest(r)); ok {
				r = r.WithContext(WithUserID(r.Context(), userID))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithUserID возвращает контекст с ID пользователя.
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// UserIDFromContext возвращает ID вошедшего пользователя.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(UserIDKey).(int64)
	return id, ok
}
