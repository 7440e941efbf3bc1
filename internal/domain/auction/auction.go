package auction

import (
	"math"
	"time"

	"motoauto-service/internal/domain/listing"
	"motoauto-service/internal/domain/shared"

	"github.com/google/uuid"
)

// Auction is a listing that carries bidding fields
type Auction struct {
	listing.Listing
}

// FromListing wraps l as an auction; plain listings are rejected
func FromListing(l *listing.Listing) (*Auction, error) {
	if l == nil || !l.IsAuction() {
		return nil, shared.ErrAuctionNotFound
	}
	return &Auction{Listing: *l}, nil
}

// EndTime returns the auction end instant
func (a *Auction) EndTime() time.Time {
	if a.AuctionEnd == nil {
		return time.Time{}
	}
	return *a.AuctionEnd
}

// EffectiveStatus is the stored status with the end time applied: an active
// auction whose end time has passed is expired.
func (a *Auction) EffectiveStatus(now time.Time) listing.Status {
	if a.Status == listing.StatusActive && !now.Before(a.EndTime()) {
		return listing.StatusExpired
	}
	return a.Status
}

// CanBid returns true if bid controls should be enabled at now
func (a *Auction) CanBid(now time.Time) bool {
	return a.EffectiveStatus(now) == listing.StatusActive
}

// CurrentBidAmount returns the current highest bid, or 0 when it is absent,
// negative or not a finite number.
func (a *Auction) CurrentBidAmount() float64 {
	if a.CurrentBid == nil {
		return 0
	}
	c := *a.CurrentBid
	if math.IsNaN(c) || math.IsInf(c, 0) || c < 0 {
		return 0
	}
	return c
}

// BuyNow returns the buy-now price if one is set
func (a *Auction) BuyNow() (float64, bool) {
	if a.BuyNowPrice == nil || math.IsNaN(*a.BuyNowPrice) || *a.BuyNowPrice < 0 {
		return 0, false
	}
	return *a.BuyNowPrice, true
}

// BidStatus represents the standing of a bid
type BidStatus string

const (
	BidActive  BidStatus = "active"
	BidOutbid  BidStatus = "outbid"
	BidWinning BidStatus = "winning"
)

// Bid is the shape of a bid as the front-end submits it. Bids are not
// persisted or arbitrated by this service.
type Bid struct {
	ID        uuid.UUID `json:"id"`
	ListingID uuid.UUID `json:"listing_id"`
	UserID    uuid.UUID `json:"user_id"`
	Amount    int64     `json:"amount"`
	Status    BidStatus `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
