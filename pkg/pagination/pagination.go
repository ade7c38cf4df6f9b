package pagination

import (
	"github.com/angelmondragon/homeservices-backend/pkg/config"
	"github.com/angelmondragon/homeservices-backend/pkg/types"
)

const (
	// DefaultPageSize is the standard page size when none is provided.
	DefaultPageSize = 10
	// MaxPageSize caps how many rows any list query can request.
	MaxPageSize = 100
)

// Params holds offset pagination inputs from controllers or services.
// Page is 1-based.
type Params struct {
	Page     int
	PageSize int
}

// Normalize fills defaults and caps the page size using cfg. A zero cfg uses
// the package defaults.
func (p Params) Normalize(cfg config.PaginationConfig) Params {
	def, max := cfg.PageSize, cfg.MaxPageSize
	if def <= 0 {
		def = DefaultPageSize
	}
	if max <= 0 {
		max = MaxPageSize
	}
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = def
	}
	if p.PageSize > max {
		p.PageSize = max
	}
	return p
}

// Offset is the number of rows skipped before this page.
func (p Params) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// Meta describes this page given the total row count.
func (p Params) Meta(total int64) types.PageMeta {
	pages := 0
	if p.PageSize > 0 {
		pages = int((total + int64(p.PageSize) - 1) / int64(p.PageSize))
	}
	return types.PageMeta{
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalCount: total,
		PageCount:  pages,
	}
}

// NewPage wraps items with their page metadata.
func NewPage[T any](items []T, p Params, total int64) types.Page[T] {
	if items == nil {
		items = []T{}
	}
	return types.Page[T]{Items: items, Meta: p.Meta(total)}
}
