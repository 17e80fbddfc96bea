package paging

import "context"

// Page is a single batch returned by a FetchFunc.
type Page[T any] struct {
	Items      []T
	PageNumber int
	PageSize   int
	TotalCount int
}

// FetchFunc loads one page of results for query. page is 1-indexed.
type FetchFunc[T, Q any] func(ctx context.Context, query Q, page, limit int) (Page[T], error)

// State is the observable state of a Controller.
type State[T any] struct {
	Items        []T
	IsLoading    bool
	ErrorMessage string
	CurrentPage  int
	TotalCount   int

	// IsFetching guards against overlapping fetches. It is distinct from
	// IsLoading, which is meant for display.
	IsFetching bool
}

// LastPage is ceil(totalCount / pageSize) computed with integer division.
func LastPage(totalCount, pageSize int) int {
	return (totalCount + pageSize - 1) / pageSize
}
