package pagination

import (
	"math"

	"gorm.io/gorm"
)

const (
	// DefaultSize is used when a request does not specify a page size.
	DefaultSize = 20
	// MaxSize caps the page size a caller may request.
	MaxSize = 100
)

// PageRequest holds 0-based pagination parameters parsed from query strings.
type PageRequest struct {
	Page int `form:"page" binding:"omitempty,min=0"`
	Size int `form:"size" binding:"omitempty,min=1,max=100"`
}

// Defaults fills in the default page size when none was provided.
func (p *PageRequest) Defaults() {
	if p.Size == 0 {
		p.Size = DefaultSize
	}
}

// Valid reports whether the request can be served: a non-negative page
// index whose offset fits in an int, and a size between 1 and MaxSize.
func (p PageRequest) Valid() bool {
	if p.Size <= 0 || p.Size > MaxSize {
		return false
	}
	return p.Page >= 0 && p.Page <= math.MaxInt/p.Size
}

// Offset returns the SQL OFFSET for the current page.
func (p PageRequest) Offset() int {
	return p.Page * p.Size
}

// PageResponse wraps a paginated list of items with metadata.
type PageResponse[T any] struct {
	Data       []T   `json:"data"`
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// NewPageResponse creates a PageResponse from the given data and total count.
func NewPageResponse[T any](data []T, page, size int, totalItems int64) PageResponse[T] {
	totalPages := 0
	if size > 0 {
		totalPages = int(math.Ceil(float64(totalItems) / float64(size)))
	}
	if data == nil {
		data = []T{}
	}
	return PageResponse[T]{
		Data:       data,
		Page:       page,
		Size:       size,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}
}

// Paginate returns a GORM scope that applies OFFSET and LIMIT for the given page request.
func Paginate(req PageRequest) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(req.Offset()).Limit(req.Size)
	}
}
