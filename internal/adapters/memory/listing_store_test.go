package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"motoauto-service/internal/domain/listing"
	"motoauto-service/internal/domain/shared"

	"github.com/google/uuid"
)

func intPtr(v int) *int { return &v }

func seed(t *testing.T, store *ListingStore) {
	t.Helper()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	end := time.Now().Add(48 * time.Hour)
	records := []*listing.Listing{
		{Title: "VW Golf VII", Price: 12000, Category: listing.CategoryPassengerCars, Status: listing.StatusActive, Year: intPtr(2016), Mileage: intPtr(90000), FuelType: listing.FuelDiesel, Location: "Zürich", CreatedAt: base},
		{Title: "Audi A4 Avant", Price: 18500, Category: listing.CategoryPassengerCars, Status: listing.StatusActive, Year: intPtr(2019), Mileage: intPtr(60000), FuelType: listing.FuelPetrol, Location: "Bern", CreatedAt: base.Add(time.Hour), AuctionEnd: &end},
		{Title: "Honda CB500", Price: 5500, Category: listing.CategoryMotorcycles, Status: listing.StatusActive, Year: intPtr(2021), Location: "Basel", CreatedAt: base.Add(2 * time.Hour)},
		{Title: "BMW 320d", Price: 21000, Category: listing.CategoryPassengerCars, Status: listing.StatusSold, Year: intPtr(2020), CreatedAt: base.Add(3 * time.Hour)},
		{Title: "Golf Cart", Price: 3000, Category: listing.CategoryOther, Status: listing.StatusActive, CreatedAt: base.Add(4 * time.Hour), AuctionEnd: &base},
	}
	for _, l := range records {
		if _, err := store.Create(context.Background(), l); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
}

func titles(items []*listing.Listing) []string {
	out := make([]string, len(items))
	for i, l := range items {
		out[i] = l.Title
	}
	return out
}

func TestQueryFilters(t *testing.T) {
	store := NewListingStore()
	seed(t, store)
	minPrice, maxPrice := 5000.0, 20000.0

	cases := []struct {
		name      string
		filter    listing.Filter
		wantTotal int
	}{
		{"active only", listing.Filter{}, 4},
		{"category", listing.Filter{Category: listing.CategoryPassengerCars}, 2},
		{"price range inclusive", listing.Filter{PriceMin: &minPrice, PriceMax: &maxPrice}, 3},
		{"year min skips missing years", listing.Filter{YearMin: intPtr(2018)}, 2},
		{"mileage max", listing.Filter{MileageMax: intPtr(70000)}, 1},
		{"title query is case-insensitive", listing.Filter{Query: "golf"}, 2},
		{"location substring", listing.Filter{Location: "zür"}, 1},
		{"auctions only skips ended auctions", listing.Filter{AuctionsOnly: true}, 1},
		{"fuel", listing.Filter{FuelType: listing.FuelDiesel}, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			items, total, err := store.Query(context.Background(), tc.filter.Normalize())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if total != tc.wantTotal || len(items) != tc.wantTotal {
				t.Fatalf("expected %d results got total=%d items=%v", tc.wantTotal, total, titles(items))
			}
			for _, l := range items {
				if l.Status != listing.StatusActive {
					t.Fatalf("non-active listing %q in results", l.Title)
				}
			}
		})
	}
}

func TestQuerySortAndPage(t *testing.T) {
	store := NewListingStore()
	seed(t, store)

	f := listing.Filter{SortBy: listing.SortByPrice, SortOrder: listing.SortAsc, PageSize: 2}.Normalize()
	items, total, err := store.Query(context.Background(), f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 4 {
		t.Fatalf("expected total 4 got %d", total)
	}
	if got := titles(items); len(got) != 2 || got[0] != "Golf Cart" || got[1] != "Honda CB500" {
		t.Fatalf("unexpected first page %v", got)
	}

	f.Page = 2
	items, _, _ = store.Query(context.Background(), f)
	if got := titles(items); len(got) != 2 || got[0] != "VW Golf VII" || got[1] != "Audi A4 Avant" {
		t.Fatalf("unexpected second page %v", got)
	}

	f.Page = 5
	items, total, _ = store.Query(context.Background(), f)
	if len(items) != 0 || total != 4 {
		t.Fatalf("page past the end must be empty with the full total, got %d/%d", len(items), total)
	}
}

func TestQueryMissingValuesSortLast(t *testing.T) {
	store := NewListingStore()
	seed(t, store)

	for _, order := range []listing.SortOrder{listing.SortAsc, listing.SortDesc} {
		f := listing.Filter{SortBy: listing.SortByYear, SortOrder: order}.Normalize()
		items, _, _ := store.Query(context.Background(), f)
		if last := items[len(items)-1]; last.Year != nil {
			t.Fatalf("%s: expected listing without year last, got %q", order, last.Title)
		}
	}
}

func TestMutations(t *testing.T) {
	store := NewListingStore()
	ctx := context.Background()
	owner := uuid.New()

	id, err := store.Create(ctx, &listing.Listing{OwnerID: owner, Title: "Skoda Octavia", Status: listing.StatusActive})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	images := []string{"https://cdn/1.jpg"}
	if err := store.Update(ctx, id, listing.Patch{Images: images}); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := store.GetByID(ctx, id)
	if err != nil || len(got.Images) != 1 {
		t.Fatalf("expected patched images, got %+v err=%v", got, err)
	}

	got.Images[0] = "mutated"
	again, _ := store.GetByID(ctx, id)
	if again.Images[0] != images[0] {
		t.Fatalf("store must hand out copies")
	}

	owned, _ := store.ListByOwner(ctx, owner)
	if len(owned) != 1 {
		t.Fatalf("expected 1 owned listing got %d", len(owned))
	}

	if err := store.Delete(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.GetByID(ctx, id); !errors.Is(err, shared.ErrListingNotFound) {
		t.Fatalf("expected ErrListingNotFound got %v", err)
	}
	if err := store.Delete(ctx, id); !errors.Is(err, shared.ErrListingNotFound) {
		t.Fatalf("expected ErrListingNotFound on second delete got %v", err)
	}
}
