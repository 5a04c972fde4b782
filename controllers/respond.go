package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"allnotes_server_go/data"
	"allnotes_server_go/media"
	"allnotes_server_go/middleware"
	"allnotes_server_go/models"

	"github.com/gorilla/mux"
)

const (
	msgDuplicate          = "email or username is already registered"
	msgInvalidCredentials = "invalid credentials"
)

func (a *API) respondJSON(w http.ResponseWriter, r *http.Request, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		a.Log.ErrorContext(r.Context(), "failed to encode response", "error", err)
	}
}

func (a *API) respondError(w http.ResponseWriter, r *http.Request, statusCode int, message string) {
	if statusCode >= http.StatusInternalServerError {
		a.Log.ErrorContext(r.Context(), "request failed",
			"request_id", middleware.RequestIDFromContext(r.Context()),
			"status", statusCode, "error", message)
	}
	a.respondJSON(w, r, statusCode, models.ErrorResponse{OK: false, Error: message})
}

// respondStoreError переводит ошибку репозитория в HTTP-статус.
// Прочие ошибки отдаются как 500 с исходным текстом.
func (a *API) respondStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, data.ErrValidation), errors.Is(err, media.ErrInvalidPayload):
		a.respondError(w, r, http.StatusBadRequest, validationMessage(err))
	case errors.Is(err, data.ErrInvalidCredentials):
		a.respondError(w, r, http.StatusUnauthorized, msgInvalidCredentials)
	case errors.Is(err, data.ErrDuplicate):
		a.respondError(w, r, http.StatusConflict, msgDuplicate)
	case errors.Is(err, data.ErrNotFound):
		a.respondError(w, r, http.StatusNotFound, "not found")
	default:
		a.respondError(w, r, http.StatusInternalServerError, err.Error())
	}
}

// validationMessage возвращает текст ошибки проверки без префиксов обертки.
func validationMessage(err error) string {
	var ve *data.ValidationError
	if errors.As(err, &ve) {
		return ve.Msg
	}
	return err.Error()
}

// decodeJSON читает тело запроса в dst, ограничивая его размер.
func (a *API) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	if a.MaxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, a.MaxBodyBytes)
	}
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// pathID извлекает числовой параметр id из пути.
func pathID(r *http.Request) (int64, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}
