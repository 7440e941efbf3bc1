package app

import (
	"context"
	"errors"
	"time"

	"motoauto-service/internal/domain/auction"
	"motoauto-service/internal/domain/listing"
	"motoauto-service/internal/domain/shared"
	"motoauto-service/internal/ports/inbound"
	"motoauto-service/internal/ports/outbound"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AuctionService implements the auction read and bid-evaluation use cases
type AuctionService struct {
	listings inbound.ListingSearcher
	store    outbound.ListingStore
	policy   auction.BidPolicy
	now      func() time.Time
	logger   zerolog.Logger
}

type AuctionServiceParams struct {
	Listings inbound.ListingSearcher
	Store    outbound.ListingStore
	Policy   auction.BidPolicy
	Now      func() time.Time
	Logger   zerolog.Logger
}

// NewAuctionService creates a new auction service
func NewAuctionService(params AuctionServiceParams) *AuctionService {
	service := &AuctionService{
		listings: params.Listings,
		store:    params.Store,
		policy:   params.Policy,
		now:      params.Now,
		logger:   params.Logger.With().Str("component", "auction_service").Logger(),
	}
	if service.policy.Increment() <= 0 {
		service.policy = auction.NewBidPolicy(auction.DefaultIncrement)
	}
	if service.now == nil {
		service.now = time.Now
	}
	return service
}

// Search returns one page of active auctions matching filter
func (service *AuctionService) Search(ctx context.Context, filter listing.Filter) (*listing.Page, error) {
	filter.AuctionsOnly = true
	return service.listings.Search(ctx, filter)
}

// Get retrieves an auction by ID
func (service *AuctionService) Get(ctx context.Context, id uuid.UUID) (*auction.Auction, error) {
	l, err := service.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrListingNotFound) {
			return nil, shared.ErrAuctionNotFound
		}
		service.logger.Error().Err(err).Str("auction_id", id.String()).Msg("Failed to load auction")
		return nil, err
	}
	return auction.FromListing(l)
}

// BidPanel evaluates the bid controls for an auction at the current time
func (service *AuctionService) BidPanel(ctx context.Context, id uuid.UUID) (*auction.Panel, error) {
	a, err := service.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	panel := service.policy.Panel(a, service.now())
	return &panel, nil
}

// ValidateBid checks a custom amount against the minimum next bid. A
// below-minimum amount is not an error; it comes back as a rejected check.
func (service *AuctionService) ValidateBid(ctx context.Context, id uuid.UUID, raw string) (*inbound.BidCheck, error) {
	a, err := service.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !a.CanBid(service.now()) {
		service.logger.Warn().
			Str("auction_id", id.String()).
			Str("status", string(a.EffectiveStatus(service.now()))).
			Msg("Auction not accepting bids")
		return nil, shared.ErrBiddingClosed
	}

	current := a.CurrentBidAmount()
	amount, err := service.policy.ValidateCustom(current, raw)

	var rejection *auction.BidRejection
	switch {
	case errors.As(err, &rejection):
		service.logger.Debug().
			Str("auction_id", id.String()).
			Int64("amount", rejection.Amount).
			Float64("minimum_bid", rejection.Minimum).
			Msg("Bid below minimum")
		return &inbound.BidCheck{
			Amount:     rejection.Amount,
			MinimumBid: rejection.Minimum,
			Message:    rejection.Error(),
		}, nil
	case err != nil:
		return nil, err
	}

	return &inbound.BidCheck{
		Amount:     amount,
		Accepted:   true,
		MinimumBid: service.policy.MinimumBid(current),
		Bid: &auction.Bid{
			ID:        uuid.New(),
			ListingID: id,
			Amount:    amount,
			Status:    auction.BidActive,
			CreatedAt: service.now(),
		},
	}, nil
}
