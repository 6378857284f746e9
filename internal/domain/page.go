package domain

import "math"

// Pagination defaults.
const (
	DefaultTaskPageLimit = 5
	DefaultLogPageLimit  = 10
	MaxPageLimit         = 100
)

// PageRequest is a normalized 1-based page selection.
type PageRequest struct {
	Page  int
	Limit int
}

// NewPageRequest clamps raw paging input: a page below 1 becomes 1, a limit
// below 1 becomes defaultLimit, and a limit above MaxPageLimit is capped.
// The page is capped so that its offset fits in an int.
func NewPageRequest(page, limit, defaultLimit int) PageRequest {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	if maxPage := math.MaxInt / limit; page > maxPage {
		page = maxPage
	}
	return PageRequest{Page: page, Limit: limit}
}

// Offset is the number of rows skipped before this page. It saturates at
// math.MaxInt instead of overflowing.
func (p PageRequest) Offset() int {
	if p.Page <= 1 || p.Limit <= 0 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return (p.Page - 1) * p.Limit
}

// TotalPages returns ceil(total/limit), or 0 when there is nothing to page.
func TotalPages(total, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
