package data

// ListRequest represents a paginated list request. Page is 1-indexed.
type ListRequest struct {
	Page  int    `json:"page,omitempty"`
	Limit int    `json:"limit,omitempty"`
	Query string `json:"q,omitempty"`
}

// Validate validates and normalizes list request parameters
func (req *ListRequest) Validate() {
	// Set defaults
	if req.Limit <= 0 {
		req.Limit = 50
	}
	if req.Page < 1 {
		req.Page = 1
	}

	// Apply limits
	if req.Limit > 200 {
		req.Limit = 200
	}
}

// Offset is the number of rows before the requested page.
func (req ListRequest) Offset() int {
	return (req.Page - 1) * req.Limit
}
