package catch

import (
	"hooked/internal/domain/epoch"
	"hooked/internal/domain/species"
	"hooked/internal/domain/weather"
)

// Catch is an entry in the user's own fishing log.
type Catch struct {
	ID        string           `json:"id"`
	Species   *species.Species `json:"species,omitempty"`
	CreatedAt epoch.Millis     `json:"createdAt"`
	Images    []string         `json:"images,omitempty"`
	Weather   *weather.Weather `json:"weather,omitempty"`
}

// Response is one page of the caller's catches.
type Response struct {
	Page    int     `json:"page"`
	Limit   int     `json:"limit"`
	Total   int     `json:"total"`
	Catches []Catch `json:"catches"`
}
