package client

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"hooked/internal/domain/catch"
	"hooked/internal/domain/species"
	"hooked/internal/domain/story"
	"hooked/internal/domain/weather"
)

// Species searches the species catalogue.
func (c *Client) Species(ctx context.Context, q string, page, limit int) (species.Response, error) {
	query := pageQuery(page, limit)
	if q = strings.TrimSpace(q); q != "" {
		query.Set("q", q)
	}
	var out species.Response
	err := c.getJSON(ctx, "get species", "/v1/species", query, true, &out)
	return out, err
}

// Catches returns one page of the caller's own catches.
func (c *Client) Catches(ctx context.Context, page, limit int) (catch.Response, error) {
	var out catch.Response
	err := c.getJSON(ctx, "get catches", "/v1/user/catches", pageQuery(page, limit), true, &out)
	return out, err
}

// Stories returns the unexpired stories of the caller's friends.
func (c *Client) Stories(ctx context.Context) ([]story.Story, error) {
	var out []story.Story
	err := c.getJSON(ctx, "get stories", "/v1/user/stories", nil, true, &out)
	return out, err
}

// Weather fetches current conditions. The endpoint is public.
func (c *Client) Weather(ctx context.Context, lat, lng float64) (weather.Weather, error) {
	query := url.Values{
		"lat": {strconv.FormatFloat(lat, 'f', -1, 64)},
		"lng": {strconv.FormatFloat(lng, 'f', -1, 64)},
	}
	var out weather.Weather
	err := c.getJSON(ctx, "get weather", "/v1/weather", query, false, &out)
	return out, err
}
