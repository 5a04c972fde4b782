package controllers

import (
	"net/http"

	"allnotes_server_go/models"
)

// HealthCheck godoc
// @Summary Проверка состояния сервера
// @Description Возвращает версию сервера БД, если подключение работает
// @Tags Health
// @Produce json
// @Success 200 {object} models.HealthResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/health [get]
func (a *API) HealthCheck(w http.ResponseWriter, r *http.Request) {
	version, err := a.DB.Version(r.Context())
	if err != nil {
		a.respondError(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	a.respondJSON(w, r, http.StatusOK, models.HealthResponse{OK: true, DB: "connected", Version: version})
}
