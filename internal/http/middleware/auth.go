package middlewarex

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"hooked/internal/auth"
)

// Auth requires a valid HS256 bearer token and stores its subject as the
// caller's user id.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok, err := auth.BearerToken(r.Header.Get("Authorization"))
			if err != nil {
				writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer")
				return
			}
			userID, err := auth.Verify(tok, secret)
			if err != nil {
				log.Debug().Err(err).Str("path", r.URL.Path).Msg("rejected token")
				writeError(w, http.StatusUnauthorized, "unauthorized", "invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}
