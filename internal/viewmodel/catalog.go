package viewmodel

import (
	"context"

	"hooked/internal/domain/catch"
	"hooked/internal/domain/species"
	"hooked/internal/paging"
)

const (
	SpeciesPageSize = 50
	CatchesPageSize = 50
)

type SpeciesAPI interface {
	Species(ctx context.Context, q string, page, limit int) (species.Response, error)
}

// Species is the searchable species catalogue.
type Species struct {
	*searchList[species.Species]
}

func NewSpecies(api SpeciesAPI, s Settings) *Species {
	fetch := func(ctx context.Context, q string, page, limit int) (paging.Page[species.Species], error) {
		res, err := api.Species(ctx, q, page, limit)
		if err != nil {
			return paging.Page[species.Species]{}, err
		}
		return paging.Page[species.Species]{Items: res.Results, PageNumber: res.Page, PageSize: res.Limit, TotalCount: res.Total}, nil
	}
	return &Species{newSearchList(fetch, SpeciesPageSize, s, "species")}
}

func (sp *Species) ClearErrors() { sp.ClearError() }

type CatchesAPI interface {
	Catches(ctx context.Context, page, limit int) (catch.Response, error)
}

// Catches is the user's own fishing log.
type Catches struct {
	*paging.Controller[catch.Catch, struct{}]
}

func NewCatches(api CatchesAPI, s Settings) *Catches {
	fetch := func(ctx context.Context, _ struct{}, page, limit int) (paging.Page[catch.Catch], error) {
		res, err := api.Catches(ctx, page, limit)
		if err != nil {
			return paging.Page[catch.Catch]{}, err
		}
		return paging.Page[catch.Catch]{Items: res.Catches, PageNumber: res.Page, PageSize: res.Limit, TotalCount: res.Total}, nil
	}
	return &Catches{paging.New(fetch, CatchesPageSize, s.pagingOpts("catches", "Failed to retrieve your catches at this time.")...)}
}

// Load restarts the list from the first page.
func (c *Catches) Load() { c.ResetAndFetch(struct{}{}) }

func (c *Catches) ClearErrors() { c.ClearError() }
