package story

import (
	"time"

	"hooked/internal/domain/epoch"
)

// Story is a short-lived video posted by a friend.
type Story struct {
	ID                 string       `json:"id"`
	UserID             string       `json:"userId"`
	UserProfileIconURL string       `json:"userProfileIconUrl"`
	UserFirstName      string       `json:"userFirstName"`
	UserLastName       string       `json:"userLastName"`
	VideoURL           string       `json:"videoUrl"`
	CreatedAt          epoch.Millis `json:"createdAt"`
	ExpiresAt          epoch.Millis `json:"expiresAt"`
}

// DefaultTTL is how long a story stays visible.
const DefaultTTL = 24 * time.Hour

// Expired reports whether the story is no longer visible at now.
func (s Story) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt.Time)
}
