package auction

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"motoauto-service/internal/domain/listing"
	"motoauto-service/internal/domain/shared"
)

// DefaultIncrement is the minimum raise over the current bid, in CHF
const DefaultIncrement = 50

// QuickBidOffsets are the suggested raises offered above the current bid
var QuickBidOffsets = [4]float64{100, 250, 500, 1000}

// Messages shown instead of bid controls
const (
	MessageSold         = "auction sold"
	MessageExpired      = "auction expired"
	MessageStartingSoon = "auction starting soon"
)

// BidPolicy computes bid amounts. The zero value is not usable; use NewBidPolicy.
type BidPolicy struct {
	increment float64
}

// NewBidPolicy creates a policy; a non-positive increment falls back to DefaultIncrement
func NewBidPolicy(increment float64) BidPolicy {
	if increment <= 0 || math.IsNaN(increment) || math.IsInf(increment, 0) {
		increment = DefaultIncrement
	}
	return BidPolicy{increment: increment}
}

// Increment returns the configured minimum raise
func (p BidPolicy) Increment() float64 {
	return p.increment
}

// MinimumBid returns the lowest acceptable next bid for current bid c
func (p BidPolicy) MinimumBid(c float64) float64 {
	return normalizeCurrent(c) + p.increment
}

// QuickBids returns the ladder of suggested amounts for current bid c
func (p BidPolicy) QuickBids(c float64) []float64 {
	c = normalizeCurrent(c)
	ladder := make([]float64, len(QuickBidOffsets))
	for i, off := range QuickBidOffsets {
		ladder[i] = c + off
	}
	return ladder
}

// SanitizeAmount strips every non-digit from raw and parses the rest as a
// non-negative integer.
func SanitizeAmount(raw string) (int64, error) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0, shared.ErrBidAmountInvalid
	}
	n, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", shared.ErrBidAmountInvalid, err)
	}
	return n, nil
}

// BidRejection is returned when an amount is below the minimum
type BidRejection struct {
	Amount  int64
	Minimum float64
}

func (r *BidRejection) Error() string {
	return fmt.Sprintf("minimum bid is %.0f %s, got %d", r.Minimum, listing.DefaultCurrency, r.Amount)
}

// Unwrap lets errors.Is match shared.ErrBidBelowMinimum
func (r *BidRejection) Unwrap() error {
	return shared.ErrBidBelowMinimum
}

// ValidateCustom sanitizes raw and accepts it only if it reaches the minimum bid
func (p BidPolicy) ValidateCustom(c float64, raw string) (int64, error) {
	amount, err := SanitizeAmount(raw)
	if err != nil {
		return 0, err
	}
	minimum := p.MinimumBid(c)
	if float64(amount) < minimum {
		return 0, &BidRejection{Amount: amount, Minimum: minimum}
	}
	return amount, nil
}

// Panel is what the bidding UI renders for one auction
type Panel struct {
	AuctionID  string         `json:"auction_id"`
	Status     listing.Status `json:"status"`
	Enabled    bool           `json:"enabled"`
	Message    string         `json:"message,omitempty"`
	CurrentBid float64        `json:"current_bid"`
	MinimumBid float64        `json:"minimum_bid,omitempty"`
	QuickBids  []float64      `json:"quick_bids,omitempty"`
	BuyNow     *float64       `json:"buy_now,omitempty"`
	EndsAt     time.Time      `json:"ends_at"`
}

// Panel evaluates the bidding controls for a at now
func (p BidPolicy) Panel(a *Auction, now time.Time) Panel {
	status := a.EffectiveStatus(now)
	current := a.CurrentBidAmount()
	panel := Panel{
		AuctionID:  a.ID.String(),
		Status:     status,
		CurrentBid: current,
		EndsAt:     a.EndTime(),
	}

	switch status {
	case listing.StatusSold:
		panel.Message = MessageSold
		return panel
	case listing.StatusExpired:
		panel.Message = MessageExpired
		return panel
	case listing.StatusActive:
	default:
		panel.Message = MessageStartingSoon
		return panel
	}

	panel.Enabled = true
	panel.MinimumBid = p.MinimumBid(current)
	panel.QuickBids = p.QuickBids(current)
	if price, ok := a.BuyNow(); ok {
		panel.BuyNow = &price
	}
	return panel
}

func normalizeCurrent(c float64) float64 {
	if math.IsNaN(c) || math.IsInf(c, 0) || c < 0 {
		return 0
	}
	return c
}
