package listing

import (
	"errors"
	"math"
	"testing"
	"time"

	"motoauto-service/internal/domain/shared"
)

func TestParseStatus(t *testing.T) {
	cases := []struct {
		raw    string
		want   Status
		wantOK bool
	}{
		{"active", StatusActive, true},
		{"live", StatusActive, true},
		{"ending", StatusActive, true},
		{" SOLD ", StatusSold, true},
		{"expired", StatusExpired, true},
		{"ended", StatusExpired, true},
		{"draft", StatusDraft, true},
		{"pending", StatusDraft, true},
		{"upcoming", StatusDraft, true},
		{"archived", StatusDraft, false},
		{"", StatusDraft, false},
	}

	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			got, ok := ParseStatus(tc.raw)
			if got != tc.want || ok != tc.wantOK {
				t.Fatalf("expected (%s,%v) got (%s,%v)", tc.want, tc.wantOK, got, ok)
			}
		})
	}
}

func TestRawStatuses(t *testing.T) {
	got := RawStatuses(StatusActive)
	want := []string{"active", "ending", "live"}
	if len(got) != len(want) {
		t.Fatalf("expected %v got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v got %v", want, got)
		}
		if s, _ := ParseStatus(got[i]); s != StatusActive {
			t.Fatalf("%q does not map back to active", got[i])
		}
	}
}

func TestTotalPages(t *testing.T) {
	cases := []struct {
		name      string
		total     int
		size      int
		wantPages int
	}{
		{"no results", 0, 12, 1},
		{"one partial page", 5, 12, 1},
		{"exact pages", 24, 12, 2},
		{"one over", 25, 12, 3},
		{"bad size", 10, 0, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := TotalPages(tc.total, tc.size); got != tc.wantPages {
				t.Fatalf("expected %d got %d", tc.wantPages, got)
			}
		})
	}
}

func TestNewPageZeroResults(t *testing.T) {
	f := Filter{}.Normalize()
	page := NewPage(nil, 0, f)
	if page.TotalPages != 1 || page.HasMore || page.Page != 1 {
		t.Fatalf("unexpected page %+v", page)
	}
	if page.Items == nil {
		t.Fatalf("items must be an empty slice, not nil")
	}
}

func TestNewPageHasMore(t *testing.T) {
	f := Filter{Page: 2, PageSize: 10}.Normalize()
	if page := NewPage(nil, 25, f); !page.HasMore || page.TotalPages != 3 {
		t.Fatalf("page 2 of 3 must have more: %+v", page)
	}
	f.Page = 3
	if page := NewPage(nil, 25, f); page.HasMore {
		t.Fatalf("last page must not have more: %+v", page)
	}
}

func TestNormalizeForcesActive(t *testing.T) {
	f := Filter{Status: StatusSold, PageSize: 500}.Normalize()
	if f.Status != StatusActive {
		t.Fatalf("expected active got %s", f.Status)
	}
	if f.PageSize != MaxPageSize || f.Page != 1 {
		t.Fatalf("unexpected paging %d/%d", f.Page, f.PageSize)
	}
	if f.SortBy != SortByCreatedAt || f.SortOrder != SortDesc {
		t.Fatalf("unexpected sort %s %s", f.SortBy, f.SortOrder)
	}
	if f.Offset() != 0 {
		t.Fatalf("expected offset 0 got %d", f.Offset())
	}
}

func TestFilterValidate(t *testing.T) {
	low, high := 5000.0, 1000.0
	nan, inf := math.NaN(), math.Inf(1)
	y1, y2 := 2020, 2010
	cases := []struct {
		name   string
		filter Filter
	}{
		{"category", Filter{Category: "rowery"}},
		{"fuel", Filter{FuelType: "steam"}},
		{"sort", Filter{SortBy: "views"}},
		{"order", Filter{SortOrder: "up"}},
		{"price range", Filter{PriceMin: &low, PriceMax: &high}},
		{"year range", Filter{YearMin: &y1, YearMax: &y2}},
		{"price min NaN", Filter{PriceMin: &nan}},
		{"price max Inf", Filter{PriceMax: &inf}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.filter.Validate(); !errors.Is(err, shared.ErrInvalidFilter) {
				t.Fatalf("expected ErrInvalidFilter got %v", err)
			}
		})
	}

	ok := Filter{Category: CategoryMotorcycles, FuelType: FuelDiesel, SortBy: SortByPrice, SortOrder: SortAsc}
	if err := ok.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFormValidate(t *testing.T) {
	neg := -1
	inf := math.Inf(1)
	cases := []struct {
		name    string
		form    Form
		wantErr error
	}{
		{"title", Form{Title: "  ", Category: CategoryPassengerCars}, shared.ErrTitleRequired},
		{"price", Form{Title: "Golf", Price: -1, Category: CategoryPassengerCars}, shared.ErrInvalidPrice},
		{"category", Form{Title: "Golf", Category: "bikes"}, shared.ErrInvalidCategory},
		{"condition", Form{Title: "Golf", Category: CategoryPassengerCars, Condition: "mint"}, shared.ErrInvalidCondition},
		{"mileage", Form{Title: "Golf", Category: CategoryPassengerCars, Mileage: &neg}, shared.ErrInvalidRequest},
		{"price NaN", Form{Title: "Golf", Price: math.NaN(), Category: CategoryPassengerCars}, shared.ErrInvalidPrice},
		{"price Inf", Form{Title: "Golf", Price: math.Inf(-1), Category: CategoryPassengerCars}, shared.ErrInvalidPrice},
		{"buy now Inf", Form{Title: "Golf", Price: 100, Category: CategoryPassengerCars, BuyNowPrice: &inf}, shared.ErrInvalidPrice},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.form.Validate(); !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v got %v", tc.wantErr, err)
			}
		})
	}

	f := Form{Title: " Golf VII ", Price: 15000, Category: CategoryPassengerCars}
	if err := f.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	l := f.ToListing(time.Now())
	if l.Status != StatusActive || l.Title != "Golf VII" || l.Currency != DefaultCurrency {
		t.Fatalf("unexpected listing %+v", l)
	}
}

func TestPatchValidate(t *testing.T) {
	nan, inf := math.NaN(), math.Inf(1)
	banana, alias, sold := Status("banana"), Status("live"), StatusSold
	cases := []struct {
		name    string
		patch   Patch
		wantErr error
	}{
		{"empty", Patch{}, shared.ErrEmptyPatch},
		{"price NaN", Patch{Price: &nan}, shared.ErrInvalidPrice},
		{"price Inf", Patch{Price: &inf}, shared.ErrInvalidPrice},
		{"unknown status", Patch{Status: &banana}, shared.ErrInvalidRequest},
		{"status alias", Patch{Status: &alias}, shared.ErrInvalidRequest},
		{"sold", Patch{Status: &sold}, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.patch.Validate()
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v got %v", tc.wantErr, err)
			}
		})
	}
}

func TestPatchApply(t *testing.T) {
	title := "BMW 320d"
	price := 21000.0
	l := &Listing{Title: "BMW", Price: 20000, Location: "Zürich"}

	if err := (Patch{}).Validate(); !errors.Is(err, shared.ErrEmptyPatch) {
		t.Fatalf("expected ErrEmptyPatch got %v", err)
	}

	p := Patch{Title: &title, Price: &price}
	if err := p.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p.Apply(l)
	if l.Title != title || l.Price != price || l.Location != "Zürich" {
		t.Fatalf("unexpected listing after patch %+v", l)
	}
}

func TestSummarize(t *testing.T) {
	end := time.Now().Add(time.Hour)
	items := []*Listing{
		{Status: StatusActive, Views: 12, AuctionEnd: &end},
		{Status: StatusActive, Views: 3},
		{Status: StatusSold, Views: 40},
		{Status: StatusDraft},
		nil,
	}

	got := Summarize(items)
	want := Stats{TotalListings: 4, ActiveListings: 2, DraftListings: 1, SoldListings: 1, Auctions: 1, TotalViews: 55}
	if got != want {
		t.Fatalf("expected %+v got %+v", want, got)
	}
	if empty := Summarize(nil); empty != (Stats{}) {
		t.Fatalf("expected zero stats got %+v", empty)
	}
}
