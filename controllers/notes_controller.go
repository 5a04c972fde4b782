package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"allnotes_server_go/middleware"
	"allnotes_server_go/models"
)

// ListNotes godoc
// @Summary Список заметок
// @Description Фильтры: userId, q (title/content), tag (точное совпадение), pinned=0/1, sort
// @Tags Notes
// @Produce json
// @Success 200 {object} models.NotesResponse
// @Router /api/notes [get]
func (a *API) ListNotes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.NoteFilter{
		Search: q.Get("q"),
		Tag:    q.Get("tag"),
		Sort:   models.ParseNoteSort(q.Get("sort")),
	}

	if raw := strings.TrimSpace(q.Get("userId")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			a.respondError(w, r, http.StatusBadRequest, "invalid userId")
			return
		}
		filter.OwnerID = &id
	}
	switch strings.TrimSpace(q.Get("pinned")) {
	case "1", "true":
		v := true
		filter.Pinned = &v
	case "0", "false":
		v := false
		filter.Pinned = &v
	}

	notes, err := a.Notes.List(r.Context(), filter)
	if err != nil {
		a.respondStoreError(w, r, err)
		return
	}
	if notes == nil {
		notes = []models.Note{}
	}
	a.respondJSON(w, r, http.StatusOK, models.NotesResponse{OK: true, Data: notes})
}

// CreateNote godoc
// @Summary Создание заметки
// @Description Медиа передаются как data-URL; без userId заметка принадлежит вошедшему пользователю
// @Tags Notes
// @Accept json
// @Produce json
// @Success 200 {object} models.IDResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /api/notes [post]
func (a *API) CreateNote(w http.ResponseWriter, r *http.Request) {
	var req models.NoteRequest
	if err := a.decodeJSON(w, r, &req); err != nil {
		a.respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.UserID == nil {
		if uid, ok := middleware.UserIDFromContext(r.Context()); ok {
			req.UserID = &uid
		}
	}

	id, err := a.Notes.Create(r.Context(), req.Input())
	if err != nil {
		a.respondStoreError(w, r, err)
		return
	}
	a.respondJSON(w, r, http.StatusOK, models.IDResponse{OK: true, ID: id})
}

// UpdateNote godoc
// @Summary Обновление заметки
// @Tags Notes
// @Accept json
// @Produce json
// @Param id path int true "ID заметки"
// @Success 200 {object} models.OKResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /api/notes/{id} [put]
func (a *API) UpdateNote(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		a.respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	var req models.NoteRequest
	if err := a.decodeJSON(w, r, &req); err != nil {
		a.respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.Notes.Update(r.Context(), id, req.Input()); err != nil {
		a.respondStoreError(w, r, err)
		return
	}
	a.respondJSON(w, r, http.StatusOK, models.OKResponse{OK: true})
}

// DeleteNote удаляет заметку. Отсутствующая заметка не считается ошибкой.
func (a *API) DeleteNote(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		a.respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := a.Notes.Delete(r.Context(), id); err != nil {
		a.respondStoreError(w, r, err)
		return
	}
	a.respondJSON(w, r, http.StatusOK, models.OKResponse{OK: true})
}
