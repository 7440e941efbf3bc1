package listing

import (
	"fmt"
	"strings"

	"motoauto-service/internal/domain/shared"
)

// SortField is a column results can be ordered by
type SortField string

const (
	SortByPrice     SortField = "price"
	SortByYear      SortField = "year"
	SortByMileage   SortField = "mileage"
	SortByCreatedAt SortField = "created_at"
)

// SortOrder is the direction of the ordering
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Paging defaults
const (
	DefaultPageSize = 12
	MaxPageSize     = 100
)

// Filter describes one listing search. Zero values mean "no constraint".
type Filter struct {
	Category     Category     `json:"category,omitempty"`
	PriceMin     *float64     `json:"price_min,omitempty"`
	PriceMax     *float64     `json:"price_max,omitempty"`
	YearMin      *int         `json:"year_min,omitempty"`
	YearMax      *int         `json:"year_max,omitempty"`
	MileageMax   *int         `json:"mileage_max,omitempty"`
	FuelType     FuelType     `json:"fuel_type,omitempty"`
	Transmission Transmission `json:"transmission,omitempty"`
	Location     string       `json:"location,omitempty"`
	Condition    Condition    `json:"condition,omitempty"`
	Query        string       `json:"query,omitempty"`
	SortBy       SortField    `json:"sort_by,omitempty"`
	SortOrder    SortOrder    `json:"sort_order,omitempty"`
	Page         int          `json:"page,omitempty"`
	PageSize     int          `json:"page_size,omitempty"`
	AuctionsOnly bool         `json:"auctions_only,omitempty"`

	// Status is forced to StatusActive by Normalize; public search never
	// exposes other states.
	Status Status `json:"status,omitempty"`
}

// Normalize applies defaults and the active-only policy. It returns a copy.
func (f Filter) Normalize() Filter {
	f.Location = strings.TrimSpace(f.Location)
	f.Query = strings.TrimSpace(f.Query)
	f.Status = StatusActive
	if f.SortBy == "" {
		f.SortBy = SortByCreatedAt
	}
	if f.SortOrder == "" {
		f.SortOrder = SortDesc
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}
	return f
}

// Validate rejects unknown enum values and inverted or negative ranges
func (f Filter) Validate() error {
	if f.Category != "" && !f.Category.Valid() {
		return fmt.Errorf("%w: %v", shared.ErrInvalidFilter, shared.ErrInvalidCategory)
	}
	if err := validateAttributes(f.FuelType, f.Transmission, f.Condition); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidFilter, err)
	}
	switch f.SortBy {
	case "", SortByPrice, SortByYear, SortByMileage, SortByCreatedAt:
	default:
		return fmt.Errorf("%w: unknown sort field %q", shared.ErrInvalidFilter, f.SortBy)
	}
	switch f.SortOrder {
	case "", SortAsc, SortDesc:
	default:
		return fmt.Errorf("%w: unknown sort order %q", shared.ErrInvalidFilter, f.SortOrder)
	}
	if !validOptionalAmount(f.PriceMin) || !validOptionalAmount(f.PriceMax) {
		return fmt.Errorf("%w: price must be a finite number of zero or more", shared.ErrInvalidFilter)
	}
	if f.PriceMin != nil && f.PriceMax != nil && *f.PriceMin > *f.PriceMax {
		return fmt.Errorf("%w: price_min greater than price_max", shared.ErrInvalidFilter)
	}
	if f.YearMin != nil && f.YearMax != nil && *f.YearMin > *f.YearMax {
		return fmt.Errorf("%w: year_min greater than year_max", shared.ErrInvalidFilter)
	}
	if f.MileageMax != nil && *f.MileageMax < 0 {
		return fmt.Errorf("%w: negative mileage", shared.ErrInvalidFilter)
	}
	return nil
}

// Offset is the zero-based index of the first row on the page
func (f Filter) Offset() int {
	return (f.Page - 1) * f.PageSize
}

// Page is one page of search results plus pagination metadata
type Page struct {
	Items      []*Listing `json:"items"`
	TotalCount int        `json:"total_count"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalPages int        `json:"total_pages"`
	HasMore    bool       `json:"has_more"`
}

// TotalPages returns ceil(total/pageSize), never less than 1
func TotalPages(total, pageSize int) int {
	if pageSize < 1 || total <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}

// NewPage assembles the output contract for a normalized filter
func NewPage(items []*Listing, total int, f Filter) *Page {
	if items == nil {
		items = []*Listing{}
	}
	pages := TotalPages(total, f.PageSize)
	return &Page{
		Items:      items,
		TotalCount: total,
		Page:       f.Page,
		PageSize:   f.PageSize,
		TotalPages: pages,
		HasMore:    f.Page < pages,
	}
}
