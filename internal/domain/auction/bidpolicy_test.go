package auction

import (
	"errors"
	"math"
	"strconv"
	"testing"
	"time"

	"motoauto-service/internal/domain/listing"
	"motoauto-service/internal/domain/shared"

	"github.com/google/uuid"
)

func floatPtr(v float64) *float64 { return &v }

func newAuction(status listing.Status, current *float64, end time.Time) *Auction {
	return &Auction{Listing: listing.Listing{
		ID:         uuid.New(),
		Title:      "Audi A4",
		Status:     status,
		CurrentBid: current,
		AuctionEnd: &end,
	}}
}

func TestMinimumBidAndLadder(t *testing.T) {
	p := NewBidPolicy(50)

	if got := p.MinimumBid(1000); got != 1050 {
		t.Fatalf("expected minimum 1050 got %v", got)
	}

	want := []float64{1100, 1250, 1500, 2000}
	got := p.QuickBids(1000)
	if len(got) != len(want) {
		t.Fatalf("expected %d quick bids got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("quick bid %d: expected %v got %v", i, want[i], got[i])
		}
	}
}

func TestLadderIgnoresIncrement(t *testing.T) {
	got := NewBidPolicy(1).QuickBids(0)
	if got[0] != 100 || got[3] != 1000 {
		t.Fatalf("ladder must not depend on increment, got %v", got)
	}
}

func TestNewBidPolicyFallsBackToDefault(t *testing.T) {
	for _, inc := range []float64{0, -5, math.NaN()} {
		if got := NewBidPolicy(inc).Increment(); got != DefaultIncrement {
			t.Fatalf("increment %v: expected default got %v", inc, got)
		}
	}
}

func TestInvalidCurrentBidCountsAsZero(t *testing.T) {
	p := NewBidPolicy(50)
	for _, c := range []float64{-10, math.NaN(), math.Inf(1)} {
		if got := p.MinimumBid(c); got != 50 {
			t.Fatalf("current %v: expected minimum 50 got %v", c, got)
		}
	}

	a := newAuction(listing.StatusActive, nil, time.Now().Add(time.Hour))
	if a.CurrentBidAmount() != 0 {
		t.Fatalf("absent current bid must be 0")
	}
}

func TestValidateCustom(t *testing.T) {
	p := NewBidPolicy(50)
	cases := []struct {
		name    string
		raw     string
		want    int64
		wantErr error
	}{
		{"thousands separator below minimum", "1,049", 0, shared.ErrBidBelowMinimum},
		{"currency suffix at minimum", "1050 CHF", 1050, nil},
		{"above minimum", "2'500", 2500, nil},
		{"no digits", "CHF", 0, shared.ErrBidAmountInvalid},
		{"empty", "", 0, shared.ErrBidAmountInvalid},
		{"overflow", "99999999999999999999999", 0, shared.ErrBidAmountInvalid},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := p.ValidateCustom(1000, tc.raw)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %d got %d", tc.want, got)
			}
		})
	}
}

func TestRejectionCarriesMinimum(t *testing.T) {
	_, err := NewBidPolicy(50).ValidateCustom(1000, "1049")
	var rejection *BidRejection
	if !errors.As(err, &rejection) {
		t.Fatalf("expected BidRejection got %v", err)
	}
	if rejection.Minimum != 1050 || rejection.Amount != 1049 {
		t.Fatalf("unexpected rejection %+v", rejection)
	}
}

func TestMinimumBoundary(t *testing.T) {
	for _, inc := range []float64{1, 50, 75} {
		p := NewBidPolicy(inc)
		for _, c := range []float64{0, 10, 1000, 123456} {
			m := int64(p.MinimumBid(c))
			if _, err := p.ValidateCustom(c, strconv.FormatInt(m-1, 10)); err == nil {
				t.Fatalf("c=%v inc=%v: %d should be rejected", c, inc, m-1)
			}
			if _, err := p.ValidateCustom(c, strconv.FormatInt(m, 10)); err != nil {
				t.Fatalf("c=%v inc=%v: %d should be accepted: %v", c, inc, m, err)
			}
			if _, err := p.ValidateCustom(c, strconv.FormatInt(m+1, 10)); err != nil {
				t.Fatalf("c=%v inc=%v: %d should be accepted: %v", c, inc, m+1, err)
			}
		}
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	for _, raw := range []string{"1,049", "1050 CHF", "  7 7 7 ", "CHF 12'000.-", "0042"} {
		once, err := SanitizeAmount(raw)
		if err != nil {
			t.Fatalf("%q: %v", raw, err)
		}
		twice, err := SanitizeAmount(strconv.FormatInt(once, 10))
		if err != nil {
			t.Fatalf("%q: %v", raw, err)
		}
		if once != twice {
			t.Fatalf("%q: %d != %d", raw, once, twice)
		}
	}
}

func TestPanelGating(t *testing.T) {
	p := NewBidPolicy(50)
	now := time.Now()
	future := now.Add(time.Hour)

	cases := []struct {
		name        string
		auction     *Auction
		wantEnabled bool
		wantMessage string
	}{
		{"sold", newAuction(listing.StatusSold, nil, future), false, MessageSold},
		{"expired", newAuction(listing.StatusExpired, nil, future), false, MessageExpired},
		{"draft", newAuction(listing.StatusDraft, nil, future), false, MessageStartingSoon},
		{"active past end", newAuction(listing.StatusActive, nil, now.Add(-time.Second)), false, MessageExpired},
		{"active", newAuction(listing.StatusActive, floatPtr(1000), future), true, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			panel := p.Panel(tc.auction, now)
			if panel.Enabled != tc.wantEnabled {
				t.Fatalf("expected enabled=%v got %v", tc.wantEnabled, panel.Enabled)
			}
			if panel.Message != tc.wantMessage {
				t.Fatalf("expected message %q got %q", tc.wantMessage, panel.Message)
			}
			if !panel.Enabled && (panel.QuickBids != nil || panel.BuyNow != nil) {
				t.Fatalf("disabled panel must not expose bid controls: %+v", panel)
			}
		})
	}
}

func TestPanelBuyNow(t *testing.T) {
	p := NewBidPolicy(50)
	now := time.Now()

	a := newAuction(listing.StatusActive, floatPtr(1000), now.Add(time.Hour))
	if panel := p.Panel(a, now); panel.BuyNow != nil {
		t.Fatalf("expected no buy-now got %v", *panel.BuyNow)
	}

	a.BuyNowPrice = floatPtr(25000)
	panel := p.Panel(a, now)
	if panel.BuyNow == nil || *panel.BuyNow != 25000 {
		t.Fatalf("expected buy-now 25000 got %v", panel.BuyNow)
	}
	if panel.MinimumBid != 1050 || len(panel.QuickBids) != 4 {
		t.Fatalf("buy-now must not replace the ladder: %+v", panel)
	}
}
