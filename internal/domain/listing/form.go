package listing

import (
	"fmt"
	"math"
	"strings"
	"time"

	"motoauto-service/internal/domain/shared"
)

// MaxImages is the most images a single listing may carry
const MaxImages = 10

// Form is the seller input for a new listing
type Form struct {
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Price        float64      `json:"price"`
	Category     Category     `json:"category"`
	Year         *int         `json:"year,omitempty"`
	Mileage      *int         `json:"mileage,omitempty"`
	EngineSize   *int         `json:"engine_size,omitempty"`
	FuelType     FuelType     `json:"fuel_type,omitempty"`
	Transmission Transmission `json:"transmission,omitempty"`
	Condition    Condition    `json:"condition,omitempty"`
	Location     string       `json:"location,omitempty"`
	AuctionEnd   *time.Time   `json:"auction_end_date,omitempty"`
	ReservePrice *float64     `json:"reserve_price,omitempty"`
	BuyNowPrice  *float64     `json:"buy_now_price,omitempty"`
}

// Validate checks the form before it reaches the store
func (f *Form) Validate() error {
	f.Title = strings.TrimSpace(f.Title)
	f.Location = strings.TrimSpace(f.Location)
	if f.Title == "" {
		return shared.ErrTitleRequired
	}
	if !validAmount(f.Price) {
		return shared.ErrInvalidPrice
	}
	if !f.Category.Valid() {
		return shared.ErrInvalidCategory
	}
	if err := validateAttributes(f.FuelType, f.Transmission, f.Condition); err != nil {
		return err
	}
	if err := nonNegative(f.Year, f.Mileage, f.EngineSize); err != nil {
		return err
	}
	if !validOptionalAmount(f.ReservePrice) || !validOptionalAmount(f.BuyNowPrice) {
		return shared.ErrInvalidPrice
	}
	return nil
}

// Validate checks the patch values that are present
func (p Patch) Validate() error {
	if p.IsEmpty() {
		return shared.ErrEmptyPatch
	}
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return shared.ErrTitleRequired
	}
	if !validOptionalAmount(p.Price) {
		return shared.ErrInvalidPrice
	}
	if p.Status != nil && !p.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", shared.ErrInvalidRequest, *p.Status)
	}
	if p.Category != nil && !p.Category.Valid() {
		return shared.ErrInvalidCategory
	}
	var fuel FuelType
	var trans Transmission
	var cond Condition
	if p.FuelType != nil {
		fuel = *p.FuelType
	}
	if p.Transmission != nil {
		trans = *p.Transmission
	}
	if p.Condition != nil {
		cond = *p.Condition
	}
	if err := validateAttributes(fuel, trans, cond); err != nil {
		return err
	}
	if p.Images != nil && len(p.Images) > MaxImages {
		return shared.ErrTooManyImages
	}
	return nonNegative(p.Year, p.Mileage, p.EngineSize)
}

// validAmount reports whether v is a finite, non-negative amount
func validAmount(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

func validOptionalAmount(v *float64) bool {
	return v == nil || validAmount(*v)
}

func nonNegative(values ...*int) error {
	for _, v := range values {
		if v != nil && *v < 0 {
			return fmt.Errorf("%w: negative value %d", shared.ErrInvalidRequest, *v)
		}
	}
	return nil
}

// ToListing builds the record inserted for a validated form
func (f Form) ToListing(now time.Time) *Listing {
	return &Listing{
		Title:        f.Title,
		Description:  f.Description,
		Price:        f.Price,
		Currency:     DefaultCurrency,
		Category:     f.Category,
		Status:       StatusActive,
		Year:         f.Year,
		Mileage:      f.Mileage,
		EngineSize:   f.EngineSize,
		FuelType:     f.FuelType,
		Transmission: f.Transmission,
		Condition:    f.Condition,
		Location:     f.Location,
		Images:       []string{},
		AuctionEnd:   f.AuctionEnd,
		ReservePrice: f.ReservePrice,
		BuyNowPrice:  f.BuyNowPrice,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
