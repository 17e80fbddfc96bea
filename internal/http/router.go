package httpx

import (
	"encoding/json"
	"net/http"

	"hooked/internal/config"
	"hooked/internal/http/handlers"
	middlewarex "hooked/internal/http/middleware"
	"hooked/internal/metrics"
	"hooked/internal/services/data"
	"hooked/internal/services/social"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// RouterDependencies holds all dependencies for the HTTP router
type RouterDependencies struct {
	Config        config.Cfg
	DataService   *data.Service
	SocialService *social.Service
	// Limiter is optional; nil disables per-user throttling.
	Limiter middlewarex.Limiter
}

// NewRouter creates the dev API router
func NewRouter(deps RouterDependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	if deps.Config.App.Env == "dev" {
		r.Use(chimw.Logger)
	}
	r.Use(chimw.Recoverer)
	r.Use(metrics.Middleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "ok",
			"env":    deps.Config.App.Env,
		})
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Use(middlewarex.Auth(deps.Config.Sec.JWTSecret))
		if deps.Limiter != nil {
			r.Use(middlewarex.RateLimit(deps.Limiter))
		}

		r.Get("/species", handlers.SearchSpecies(deps.DataService))

		r.Route("/user", func(r chi.Router) {
			r.Get("/feed", handlers.ListFeed(deps.DataService))
			r.Get("/catches", handlers.ListCatches(deps.DataService))
			r.Get("/stories", handlers.ListStories(deps.DataService))

			r.Post("/post", handlers.CreatePost(deps.SocialService))
			r.Route("/post/{id}", func(r chi.Router) {
				r.Post("/like", handlers.LikePost(deps.SocialService))
				r.Get("/comments", handlers.ListComments(deps.DataService))
				r.Post("/comment", handlers.AddComment(deps.SocialService))
			})

			r.Put("/comment/{id}", handlers.EditComment(deps.SocialService))
			r.Delete("/comment/{id}", handlers.DeleteComment(deps.SocialService))

			r.Get("/friends", handlers.ListFriends(deps.DataService))
			r.Post("/friend", handlers.RequestFriend(deps.SocialService))
			r.Get("/friend/suggestions", handlers.ListSuggestions(deps.DataService))
			r.Post("/friend/approve", handlers.ApproveFriend(deps.SocialService))
		})
	})

	return r
}
