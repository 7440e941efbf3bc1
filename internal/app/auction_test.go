package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"motoauto-service/internal/adapters/memory"
	"motoauto-service/internal/domain/auction"
	"motoauto-service/internal/domain/listing"
	"motoauto-service/internal/domain/shared"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

func newTestAuctionService(t *testing.T, now time.Time) (*AuctionService, *memory.ListingStore) {
	t.Helper()
	store := memory.NewListingStore()
	listings := NewListingService(ListingServiceParams{Store: store, Mutator: store, Logger: zerolog.Nop()})
	service := NewAuctionService(AuctionServiceParams{
		Listings: listings,
		Store:    store,
		Policy:   auction.NewBidPolicy(50),
		Now:      func() time.Time { return now },
		Logger:   zerolog.Nop(),
	})
	return service, store
}

func createAuction(t *testing.T, store *memory.ListingStore, status listing.Status, current float64, end time.Time) uuid.UUID {
	t.Helper()
	id, err := store.Create(context.Background(), &listing.Listing{
		Title:      "Porsche 911",
		Status:     status,
		Category:   listing.CategoryPassengerCars,
		AuctionEnd: &end,
		CurrentBid: &current,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	return id
}

func TestAuctionSearchExcludesPlainListings(t *testing.T) {
	now := time.Now()
	service, store := newTestAuctionService(t, now)
	createAuction(t, store, listing.StatusActive, 1000, now.Add(time.Hour))
	store.Create(context.Background(), &listing.Listing{Title: "Opel Corsa", Status: listing.StatusActive})

	page, err := service.Search(context.Background(), listing.Filter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.TotalCount != 1 || !page.Items[0].IsAuction() {
		t.Fatalf("expected only the auction, got %+v", page)
	}
}

func TestAuctionGetRejectsPlainListing(t *testing.T) {
	service, store := newTestAuctionService(t, time.Now())
	id, _ := store.Create(context.Background(), &listing.Listing{Title: "Opel Corsa", Status: listing.StatusActive})

	if _, err := service.Get(context.Background(), id); !errors.Is(err, shared.ErrAuctionNotFound) {
		t.Fatalf("expected ErrAuctionNotFound got %v", err)
	}
	if _, err := service.Get(context.Background(), uuid.New()); !errors.Is(err, shared.ErrAuctionNotFound) {
		t.Fatalf("expected ErrAuctionNotFound for unknown id got %v", err)
	}
}

func TestBidPanel(t *testing.T) {
	now := time.Now()
	service, store := newTestAuctionService(t, now)
	id := createAuction(t, store, listing.StatusActive, 1000, now.Add(time.Hour))

	panel, err := service.BidPanel(context.Background(), id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !panel.Enabled || panel.MinimumBid != 1050 || panel.QuickBids[0] != 1100 {
		t.Fatalf("unexpected panel %+v", panel)
	}
}

func TestValidateBid(t *testing.T) {
	now := time.Now()
	service, store := newTestAuctionService(t, now)
	id := createAuction(t, store, listing.StatusActive, 1000, now.Add(time.Hour))
	ctx := context.Background()

	check, err := service.ValidateBid(ctx, id, "1,049")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if check.Accepted || check.MinimumBid != 1050 || check.Message == "" {
		t.Fatalf("expected rejection with minimum, got %+v", check)
	}

	check, err = service.ValidateBid(ctx, id, "1050 CHF")
	if err != nil || !check.Accepted || check.Amount != 1050 {
		t.Fatalf("expected accepted 1050 got %+v %v", check, err)
	}
	if check.Bid == nil || check.Bid.ListingID != id || check.Bid.Amount != 1050 || check.Bid.Status != auction.BidActive {
		t.Fatalf("expected bid draft, got %+v", check.Bid)
	}

	if _, err := service.ValidateBid(ctx, id, "abc"); !errors.Is(err, shared.ErrBidAmountInvalid) {
		t.Fatalf("expected ErrBidAmountInvalid got %v", err)
	}
}

func TestValidateBidClosedAuction(t *testing.T) {
	now := time.Now()
	service, store := newTestAuctionService(t, now)
	ctx := context.Background()

	for _, id := range []uuid.UUID{
		createAuction(t, store, listing.StatusSold, 1000, now.Add(time.Hour)),
		createAuction(t, store, listing.StatusActive, 1000, now.Add(-time.Minute)),
		createAuction(t, store, listing.StatusDraft, 0, now.Add(time.Hour)),
	} {
		if _, err := service.ValidateBid(ctx, id, "5000"); !errors.Is(err, shared.ErrBiddingClosed) {
			t.Fatalf("expected ErrBiddingClosed got %v", err)
		}
	}
}
