package pagination

import (
	"strconv"
	"strings"
)

// DefaultPageSize mirrors the remote API's page size when it omits one.
const DefaultPageSize = 50

// Meta reports pagination state for a listing view. TotalPages and
// CurrentPage come from the remote API's own metadata, which is treated as
// the source of truth; the locally clamped request page may diverge from it
// when the remote payload is inconsistent with the item count.
type Meta struct {
	CurrentPage int `json:"current_page"`
	TotalPages  int `json:"total_pages"`
	PageSize    int `json:"page_size"`
	TotalItems  int `json:"total_items"`
}

// ParsePage parses a requested page number, clamping anything that is not a
// positive integer to page 1.
func ParsePage(raw string) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || value < 1 {
		return 1
	}
	return value
}

// Clamp bounds page to the range implied by totalItems and pageSize. Both a
// zero item count and a zero page size collapse to a single page.
func Clamp(page, totalItems, pageSize int) int {
	if page < 1 {
		page = 1
	}
	last := lastPage(totalItems, pageSize)
	if page > last {
		return last
	}
	return page
}

// Slice returns the window of items for the clamped page. The remote API
// returns one page worth of items per call, so this is usually the identity,
// but it keeps local views consistent when a caller holds a full item set
// (sitemap crawls).
func Slice[T any](items []T, page, pageSize int) []T {
	if pageSize <= 0 {
		return items
	}
	page = Clamp(page, len(items), pageSize)
	start := (page - 1) * pageSize
	if start >= len(items) {
		return nil
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// MetaFromRemote builds display metadata from the remote payload fields,
// defaulting anything the remote left zeroed.
func MetaFromRemote(pages, page, size, total int) Meta {
	if size <= 0 {
		size = DefaultPageSize
	}
	if pages < 1 {
		pages = 1
	}
	if page < 1 {
		page = 1
	}
	return Meta{
		CurrentPage: page,
		TotalPages:  pages,
		PageSize:    size,
		TotalItems:  total,
	}
}

func lastPage(totalItems, pageSize int) int {
	if totalItems <= 0 || pageSize <= 0 {
		return 1
	}
	last := (totalItems + pageSize - 1) / pageSize
	if last < 1 {
		return 1
	}
	return last
}
