// Package pagination provides the page request and page result types shared
// by every repository and both transports.
package pagination

// Direction is the sort direction of a page request.
type Direction string

const (
	// Asc sorts in ascending order.
	Asc Direction = "asc"
	// Desc sorts in descending order.
	Desc Direction = "desc"
)

const (
	// DefaultSize is the page size used when the caller supplies none.
	DefaultSize = 10
	// MaxSize caps the page size a caller may request.
	MaxSize = 100
	// DefaultSortBy is the sort field used when the caller supplies none.
	DefaultSortBy = "id"
)

// PageRequest describes which page of a result set to fetch and how to sort it.
// Page is zero-indexed.
type PageRequest struct {
	Page    int
	Size    int
	SortBy  string
	SortDir Direction
}

// NewPageRequest normalizes raw caller input into a valid PageRequest.
// Negative pages become 0, sizes are clamped to [1, MaxSize] with DefaultSize
// for non-positive values, blank sort fields fall back to DefaultSortBy and
// anything other than "desc" (case-insensitive handling is the caller's job)
// sorts ascending. REST and GraphQL both build their requests through here so
// the two transports cannot drift apart.
func NewPageRequest(page, size int, sortBy string, sortDir Direction) PageRequest {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = DefaultSize
	}
	if size > MaxSize {
		size = MaxSize
	}
	if sortBy == "" {
		sortBy = DefaultSortBy
	}
	if sortDir != Desc {
		sortDir = Asc
	}
	return PageRequest{Page: page, Size: size, SortBy: sortBy, SortDir: sortDir}
}

// Offset returns the row offset of the requested page.
func (r PageRequest) Offset() int {
	return r.Page * r.Size
}

// Page is one bounded slice of a result set together with its totals.
type Page[T any] struct {
	Items         []T   `json:"items"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Page          int   `json:"page"`
	Size          int   `json:"size"`
}

// NewPage assembles a Page from the fetched items, the total row count and the
// request that produced them.
func NewPage[T any](items []T, total int64, req PageRequest) Page[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := int(total) / req.Size
	if int(total)%req.Size != 0 {
		totalPages++
	}
	return Page[T]{
		Items:         items,
		TotalElements: total,
		TotalPages:    totalPages,
		Page:          req.Page,
		Size:          req.Size,
	}
}

// Map converts a Page[T] into a Page[U] by applying f to every item,
// preserving the paging metadata.
func Map[T, U any](p Page[T], f func(T) U) Page[U] {
	items := make([]U, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, f(it))
	}
	return Page[U]{
		Items:         items,
		TotalElements: p.TotalElements,
		TotalPages:    p.TotalPages,
		Page:          p.Page,
		Size:          p.Size,
	}
}
