package handlers

import (
	"net/http"

	"hooked/internal/domain/user"
	"hooked/internal/services/data"
	"hooked/internal/services/social"
)

// ListFriends handles GET /v1/user/friends?status=pending|accepted
func ListFriends(dataService *data.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := caller(w, r)
		if !ok {
			return
		}
		status := user.FriendStatus(r.URL.Query().Get("status"))
		switch status {
		case "", user.StatusAccepted, user.StatusPending:
		default:
			writeError(w, http.StatusBadRequest, "invalid_input", "status must be pending or accepted")
			return
		}
		res, err := dataService.ListFriends(r.Context(), userID, status, parseListRequest(r))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// ListSuggestions handles GET /v1/user/friend/suggestions
func ListSuggestions(dataService *data.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := caller(w, r)
		if !ok {
			return
		}
		res, err := dataService.ListSuggestions(r.Context(), userID, parseListRequest(r))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// RequestFriend handles POST /v1/user/friend
func RequestFriend(svc *social.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := caller(w, r)
		if !ok {
			return
		}
		var req struct {
			FriendID string `json:"friendId"`
		}
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_input", "invalid JSON body")
			return
		}
		if err := svc.RequestFriend(r.Context(), userID, req.FriendID); err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"status": string(user.StatusPending)})
	}
}

// ApproveFriend handles POST /v1/user/friend/approve
func ApproveFriend(svc *social.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := caller(w, r)
		if !ok {
			return
		}
		var req struct {
			ID string `json:"id"`
		}
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_input", "invalid JSON body")
			return
		}
		if err := svc.ApproveFriend(r.Context(), userID, req.ID); err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"status": string(user.StatusAccepted)})
	}
}
