package controllers

import (
	"fmt"
	"log/slog"
	"net/http"

	"allnotes_server_go/media"
	"allnotes_server_go/middleware"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

// RouterOptions - параметры маршрутизатора, не относящиеся к обработчикам.
type RouterOptions struct {
	UploadsDir     string
	AllowedOrigins []string
}

// NewRouter собирает все маршруты API, раздачу загруженных файлов
// и общие middleware.
func NewRouter(api *API, opts RouterOptions) http.Handler {
	router := mux.NewRouter()
	router.Use(middleware.RequestLogger(api.Log))
	router.Use(middleware.Session(api.Sessions))

	apiRouter := router.PathPrefix("/api").Subrouter()
	apiRouter.HandleFunc("/health", api.HealthCheck).Methods(http.MethodGet)

	apiRouter.HandleFunc("/notes", api.ListNotes).Methods(http.MethodGet)
	apiRouter.HandleFunc("/notes", api.CreateNote).Methods(http.MethodPost)
	apiRouter.HandleFunc("/notes/{id}", api.UpdateNote).Methods(http.MethodPut)
	apiRouter.HandleFunc("/notes/{id}", api.DeleteNote).Methods(http.MethodDelete)

	apiRouter.HandleFunc("/signup", api.Signup).Methods(http.MethodPost)
	apiRouter.HandleFunc("/login", api.Login).Methods(http.MethodPost)
	apiRouter.HandleFunc("/logout", api.Logout).Methods(http.MethodPost)
	apiRouter.HandleFunc("/me", api.CurrentUser).Methods(http.MethodGet)

	apiRouter.HandleFunc("/user/{id}", api.GetUser).Methods(http.MethodGet)
	apiRouter.HandleFunc("/user/{id}", api.UpdateUser).Methods(http.MethodPut)
	apiRouter.HandleFunc("/user/{id}/avatar", api.UploadAvatar).Methods(http.MethodPost)

	// Файлы отдаются без проверки сессии, ссылки на них публичные.
	prefix := media.URLPrefix + "/"
	router.PathPrefix(prefix).Handler(http.StripPrefix(prefix, http.FileServer(http.Dir(opts.UploadsDir))))

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	cors := handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", middleware.RequestIDHeader}),
		handlers.AllowCredentials(),
	)
	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{api.Log}),
		handlers.PrintRecoveryStack(true),
	)
	return recovery(cors(router))
}

// recoveryLogger пишет паники, перехваченные gorilla/handlers, в slog.
type recoveryLogger struct{ log *slog.Logger }

func (l recoveryLogger) Println(v ...interface{}) {
	l.log.Error("panic recovered", "panic", fmt.Sprint(v...))
}
