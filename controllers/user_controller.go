package controllers

import (
	"net/http"

	"allnotes_server_go/middleware"
	"allnotes_server_go/models"
)

// GetUser godoc
// @Summary Профиль пользователя
// @Tags Users
// @Produce json
// @Param id path int true "ID пользователя"
// @Success 200 {object} models.UserResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/user/{id} [get]
func (a *API) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		a.respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	a.writeUser(w, r, id)
}

// CurrentUser возвращает профиль владельца cookie сессии.
func (a *API) CurrentUser(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		a.respondError(w, r, http.StatusUnauthorized, "not logged in")
		return
	}
	a.writeUser(w, r, id)
}

func (a *API) writeUser(w http.ResponseWriter, r *http.Request, id int64) {
	user, err := a.Users.GetByID(r.Context(), id)
	if err != nil {
		a.respondStoreError(w, r, err)
		return
	}
	a.respondJSON(w, r, http.StatusOK, models.UserResponse{OK: true, User: user.Public()})
}

// UpdateUser godoc
// @Summary Обновление профиля
// @Description Страна всегда сохраняется как Chile
// @Tags Users
// @Accept json
// @Produce json
// @Param id path int true "ID пользователя"
// @Success 200 {object} models.UserResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /api/user/{id} [put]
func (a *API) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		a.respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	var req models.ProfileUpdateRequest
	if err := a.decodeJSON(w, r, &req); err != nil {
		a.respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	user, err := a.Users.UpdateProfile(r.Context(), id, req)
	if err != nil {
		a.respondStoreError(w, r, err)
		return
	}
	a.respondJSON(w, r, http.StatusOK, models.UserResponse{OK: true, User: user.Public()})
}

// UploadAvatar godoc
// @Summary Загрузка фото профиля
// @Tags Users
// @Accept json
// @Produce json
// @Param id path int true "ID пользователя"
// @Success 200 {object} models.AvatarResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /api/user/{id}/avatar [post]
func (a *API) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		a.respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	var req models.AvatarRequest
	if err := a.decodeJSON(w, r, &req); err != nil {
		a.respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	url, err := a.Users.UpdateAvatar(r.Context(), id, string(req.Image))
	if err != nil {
		a.respondStoreError(w, r, err)
		return
	}
	a.respondJSON(w, r, http.StatusOK, models.AvatarResponse{OK: true, AvatarURL: url})
}
