package listutil

import (
	"net/url"
	"strconv"
)

// PageParams carries pagination parameters parsed from a request.
// Page is 0-indexed to match the backend collection endpoints.
type PageParams struct {
	Page int // 0-indexed page number
	Size int // rows per page
}

// PageInfo carries pagination metadata for rendering.
type PageInfo struct {
	Page       int // current page (0-indexed)
	Size       int // rows per page
	TotalPages int // as reported by the backend
}

// DefaultSize is the default number of rows per page.
const DefaultSize = 10

// SizeOptions are the allowed rows-per-page values.
var SizeOptions = []int{10, 20, 50, 100}

// ParsePageParams extracts page and size from URL query values.
// PRE: none
// POST: returns valid PageParams with defaults applied
func ParsePageParams(q url.Values) PageParams {
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 0 {
		page = 0
	}
	size, _ := strconv.Atoi(q.Get("size"))
	if !isValidSize(size) {
		size = DefaultSize
	}
	return PageParams{Page: page, Size: size}
}

// NewPageInfo computes pagination metadata.
// PRE: totalPages >= 0, size > 0, page >= 0
// POST: returns PageInfo with Page clamped into [0, totalPages)
func NewPageInfo(page, size, totalPages int) PageInfo {
	if size < 1 {
		size = DefaultSize
	}
	if totalPages < 0 {
		totalPages = 0
	}
	if totalPages > 0 && page >= totalPages {
		page = totalPages - 1
	}
	if page < 0 {
		page = 0
	}
	return PageInfo{Page: page, Size: size, TotalPages: totalPages}
}

// HasPrev reports whether an earlier page exists.
// INVARIANT: PageInfo is not mutated
func (p PageInfo) HasPrev() bool {
	return p.Page > 0
}

// HasNext reports whether a later page exists.
// INVARIANT: PageInfo is not mutated
func (p PageInfo) HasNext() bool {
	return p.Page < p.TotalPages-1
}

// Last returns the index of the last page, or 0 when no pages exist.
func (p PageInfo) Last() int {
	if p.TotalPages == 0 {
		return 0
	}
	return p.TotalPages - 1
}

// Window returns the page indexes to display in pagination controls.
// At most 5 buttons are shown around the current page; near a boundary the
// window shifts to stay inside [0, TotalPages) rather than wrapping.
// PRE: PageInfo is valid
// POST: Returns at most 5 page indexes; empty when TotalPages is 0
func (p PageInfo) Window() []int {
	const maxButtons = 5
	if p.TotalPages == 0 {
		return nil
	}
	start := p.Page - maxButtons/2 + 1
	if start < 0 {
		start = 0
	}
	end := start + maxButtons - 1
	if end > p.TotalPages-1 {
		end = p.TotalPages - 1
		start = end - maxButtons + 1
		if start < 0 {
			start = 0
		}
	}
	pages := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}
	return pages
}

// ShowPagination returns true if pagination controls should be displayed.
// PRE: PageInfo is valid
// POST: Returns true if more than one page exists
func (p PageInfo) ShowPagination() bool {
	return p.TotalPages > 1
}

func isValidSize(n int) bool {
	for _, opt := range SizeOptions {
		if n == opt {
			return true
		}
	}
	return false
}
