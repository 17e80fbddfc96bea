package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"hooked/internal/domain/post"
	"hooked/internal/services/data"
	"hooked/internal/services/social"
)

// maxUpload bounds the whole multipart body of a new post.
const maxUpload = 32 << 20

// ListFeed handles GET /v1/user/feed
func ListFeed(dataService *data.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := caller(w, r)
		if !ok {
			return
		}
		res, err := dataService.ListFeed(r.Context(), userID, parseListRequest(r))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// CreatePost handles the multipart POST /v1/user/post
func CreatePost(svc *social.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := caller(w, r)
		if !ok {
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
		if err := r.ParseMultipartForm(maxUpload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_input", "expected multipart form")
			return
		}
		d, err := draftFromForm(r.MultipartForm)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_input", err.Error())
			return
		}
		p, err := svc.CreatePost(r.Context(), userID, d)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, p)
	}
}

func draftFromForm(form *multipart.Form) (post.Draft, error) {
	get := func(k string) string {
		if v := form.Value[k]; len(v) > 0 {
			return v[0]
		}
		return ""
	}

	d := post.Draft{Description: get("content[description]")}
	if tags := get("tags"); tags != "" {
		for _, t := range strings.Split(tags, ",") {
			if t = strings.TrimSpace(t); t != "" {
				d.Tags = append(d.Tags, t)
			}
		}
	}

	lat, lng := get("location[lat]"), get("location[lng]")
	if lat != "" || lng != "" {
		la, err1 := strconv.ParseFloat(lat, 64)
		ln, err2 := strconv.ParseFloat(lng, 64)
		if err := errors.Join(err1, err2); err != nil {
			return d, fmt.Errorf("bad location: %w", err)
		}
		d.Location = &post.Location{Lat: la, Lng: ln}
	}

	for _, fh := range form.File["images"] {
		if fh.Size > post.MaxImageBytes {
			return d, post.ErrImageTooLarge
		}
		f, err := fh.Open()
		if err != nil {
			return d, err
		}
		b, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return d, err
		}
		d.Images = append(d.Images, b)
	}
	return d, nil
}

// LikePost handles POST /v1/user/post/{id}/like
func LikePost(svc *social.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := caller(w, r)
		if !ok {
			return
		}
		res, err := svc.ToggleLike(r.Context(), userID, chi.URLParam(r, "id"))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}
