package listing

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status is the one closed set of listing states used everywhere past the store boundary
type Status string

const (
	StatusDraft   Status = "draft"
	StatusActive  Status = "active"
	StatusSold    Status = "sold"
	StatusExpired Status = "expired"
)

// statusAliases maps every raw status string seen in stored records onto Status.
var statusAliases = map[string]Status{
	"active":   StatusActive,
	"live":     StatusActive,
	"ending":   StatusActive,
	"sold":     StatusSold,
	"expired":  StatusExpired,
	"ended":    StatusExpired,
	"draft":    StatusDraft,
	"pending":  StatusDraft,
	"upcoming": StatusDraft,
}

// ParseStatus maps a raw external status onto Status. Unknown values map to
// StatusDraft and report ok=false so the caller can log them.
func ParseStatus(raw string) (Status, bool) {
	s, ok := statusAliases[strings.ToLower(strings.TrimSpace(raw))]
	if !ok {
		return StatusDraft, false
	}
	return s, true
}

// RawStatuses returns every stored spelling that maps onto s, sorted
func RawStatuses(s Status) []string {
	var raw []string
	for alias, status := range statusAliases {
		if status == s {
			raw = append(raw, alias)
		}
	}
	sort.Strings(raw)
	return raw
}

// Valid reports whether s is one of the four canonical states. Raw aliases
// such as "live" are only accepted through ParseStatus at the store boundary.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusActive, StatusSold, StatusExpired:
		return true
	}
	return false
}

// IsTerminal returns true for states a listing never leaves
func (s Status) IsTerminal() bool {
	return s == StatusSold || s == StatusExpired
}

// Listing is a seller-posted vehicle record
type Listing struct {
	ID           uuid.UUID    `json:"id"`
	OwnerID      uuid.UUID    `json:"owner_id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Price        float64      `json:"price"`
	Currency     string       `json:"currency"`
	Category     Category     `json:"category"`
	Status       Status       `json:"status"`
	Year         *int         `json:"year,omitempty"`
	Mileage      *int         `json:"mileage,omitempty"`
	EngineSize   *int         `json:"engine_size,omitempty"`
	FuelType     FuelType     `json:"fuel_type,omitempty"`
	Transmission Transmission `json:"transmission,omitempty"`
	Condition    Condition    `json:"condition,omitempty"`
	Location     string       `json:"location,omitempty"`
	Images       []string     `json:"images"`
	Views        int          `json:"views"`
	BidCount     int          `json:"bid_count"`
	Featured     bool         `json:"featured"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`

	// Auction fields; AuctionEnd is nil for plain listings.
	AuctionEnd   *time.Time `json:"auction_end_date,omitempty"`
	CurrentBid   *float64   `json:"current_bid,omitempty"`
	ReservePrice *float64   `json:"reserve_price,omitempty"`
	BuyNowPrice  *float64   `json:"buy_now_price,omitempty"`
}

// DefaultCurrency is the currency all prices are quoted in
const DefaultCurrency = "CHF"

// IsAuction returns true if the listing carries an auction end time
func (l *Listing) IsAuction() bool {
	return l.AuctionEnd != nil
}

// IsVisible returns true if the listing shows up in public search
func (l *Listing) IsVisible() bool {
	return l.Status == StatusActive
}

// Patch is a partial update; nil fields are left untouched.
type Patch struct {
	Title        *string       `json:"title,omitempty"`
	Description  *string       `json:"description,omitempty"`
	Price        *float64      `json:"price,omitempty"`
	Category     *Category     `json:"category,omitempty"`
	Status       *Status       `json:"status,omitempty"`
	Year         *int          `json:"year,omitempty"`
	Mileage      *int          `json:"mileage,omitempty"`
	EngineSize   *int          `json:"engine_size,omitempty"`
	FuelType     *FuelType     `json:"fuel_type,omitempty"`
	Transmission *Transmission `json:"transmission,omitempty"`
	Condition    *Condition    `json:"condition,omitempty"`
	Location     *string       `json:"location,omitempty"`
	Images       []string      `json:"images,omitempty"`
}

// IsEmpty returns true if the patch changes nothing
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Price == nil && p.Category == nil &&
		p.Status == nil && p.Year == nil && p.Mileage == nil && p.EngineSize == nil &&
		p.FuelType == nil && p.Transmission == nil && p.Condition == nil && p.Location == nil &&
		p.Images == nil
}

// Apply writes the patch onto l
func (p Patch) Apply(l *Listing) {
	if p.Title != nil {
		l.Title = *p.Title
	}
	if p.Description != nil {
		l.Description = *p.Description
	}
	if p.Price != nil {
		l.Price = *p.Price
	}
	if p.Category != nil {
		l.Category = *p.Category
	}
	if p.Status != nil {
		l.Status = *p.Status
	}
	if p.Year != nil {
		l.Year = p.Year
	}
	if p.Mileage != nil {
		l.Mileage = p.Mileage
	}
	if p.EngineSize != nil {
		l.EngineSize = p.EngineSize
	}
	if p.FuelType != nil {
		l.FuelType = *p.FuelType
	}
	if p.Transmission != nil {
		l.Transmission = *p.Transmission
	}
	if p.Condition != nil {
		l.Condition = *p.Condition
	}
	if p.Location != nil {
		l.Location = *p.Location
	}
	if p.Images != nil {
		l.Images = append([]string(nil), p.Images...)
	}
}
