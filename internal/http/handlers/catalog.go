package handlers

import (
	"net/http"

	"hooked/internal/domain/story"
	"hooked/internal/services/data"
)

// SearchSpecies handles GET /v1/species
func SearchSpecies(dataService *data.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := caller(w, r); !ok {
			return
		}
		res, err := dataService.SearchSpecies(r.Context(), parseListRequest(r))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// ListCatches handles GET /v1/user/catches
func ListCatches(dataService *data.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := caller(w, r)
		if !ok {
			return
		}
		res, err := dataService.ListCatches(r.Context(), userID, parseListRequest(r))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// ListStories handles GET /v1/user/stories
func ListStories(dataService *data.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := caller(w, r)
		if !ok {
			return
		}
		res, err := dataService.ListStories(r.Context(), userID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		if res == nil {
			res = []story.Story{}
		}
		writeJSON(w, http.StatusOK, res)
	}
}
