package controllers

import (
	"net/http"

	"allnotes_server_go/auth"
	"allnotes_server_go/models"
)

// Signup godoc
// @Summary Регистрация пользователя
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} models.IDResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /api/signup [post]
func (a *API) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := a.decodeJSON(w, r, &req); err != nil {
		a.respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	id, err := a.Users.Create(r.Context(), req)
	if err != nil {
		a.respondStoreError(w, r, err)
		return
	}
	a.respondJSON(w, r, http.StatusOK, models.IDResponse{OK: true, ID: id})
}

// Login godoc
// @Summary Вход пользователя
// @Description При успехе выставляет cookie сессии
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} models.UserResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /api/login [post]
func (a *API) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := a.decodeJSON(w, r, &req); err != nil {
		a.respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	user, err := a.Users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		a.respondStoreError(w, r, err)
		return
	}

	token, err := a.Sessions.Create(user.ID)
	if err != nil {
		a.respondError(w, r, http.StatusInternalServerError, err.Error())
		return
	}
	a.Cookies.Set(w, token)
	a.Log.InfoContext(r.Context(), "user logged in", "user_id", user.ID)
	a.respondJSON(w, r, http.StatusOK, models.UserResponse{OK: true, User: user.Public()})
}

// Logout завершает сессию из cookie и стирает cookie у клиента.
func (a *API) Logout(w http.ResponseWriter, r *http.Request) {
	if token := auth.TokenFromRequest(r); token != "" {
		a.Sessions.Destroy(token)
	}
	a.Cookies.Clear(w)
	a.respondJSON(w, r, http.StatusOK, models.OKResponse{OK: true})
}
