package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hooked/internal/domain/comment"
	"hooked/internal/services/data"
	"hooked/internal/services/social"
)

// ListComments handles GET /v1/user/post/{id}/comments
func ListComments(dataService *data.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := caller(w, r); !ok {
			return
		}
		res, err := dataService.ListComments(r.Context(), chi.URLParam(r, "id"), parseListRequest(r))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// AddComment handles POST /v1/user/post/{id}/comment
func AddComment(svc *social.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := caller(w, r)
		if !ok {
			return
		}
		var req comment.ContentRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_input", "invalid JSON body")
			return
		}
		c, err := svc.AddComment(r.Context(), userID, chi.URLParam(r, "id"), req.Content)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, c)
	}
}

// EditComment handles PUT /v1/user/comment/{id}
func EditComment(svc *social.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := caller(w, r)
		if !ok {
			return
		}
		var req comment.ContentRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_input", "invalid JSON body")
			return
		}
		c, err := svc.EditComment(r.Context(), userID, chi.URLParam(r, "id"), req.Content)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}

// DeleteComment handles DELETE /v1/user/comment/{id}
func DeleteComment(svc *social.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := caller(w, r)
		if !ok {
			return
		}
		if err := svc.DeleteComment(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
			writeServiceError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
