package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"motoauto-service/internal/domain/listing"
	"motoauto-service/internal/domain/shared"

	"github.com/google/uuid"
)

// ListingStore is an in-process listing store used for local runs and tests.
// It implements both outbound.ListingStore and outbound.ListingMutator.
type ListingStore struct {
	mu       sync.RWMutex
	listings map[uuid.UUID]*listing.Listing
	now      func() time.Time
}

// NewListingStore creates an empty store
func NewListingStore() *ListingStore {
	return &ListingStore{
		listings: make(map[uuid.UUID]*listing.Listing),
		now:      time.Now,
	}
}

// Query returns one page of listings matching filter and the total match count
func (store *ListingStore) Query(ctx context.Context, filter listing.Filter) ([]*listing.Listing, int, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	now := store.now()
	var matched []*listing.Listing
	for _, l := range store.listings {
		if matches(l, filter, now) {
			matched = append(matched, l)
		}
	}

	sortListings(matched, filter.SortBy, filter.SortOrder)

	total := len(matched)
	start := filter.Offset()
	if start > total {
		start = total
	}
	end := start + filter.PageSize
	if end > total || filter.PageSize <= 0 {
		end = total
	}

	page := make([]*listing.Listing, 0, end-start)
	for _, l := range matched[start:end] {
		page = append(page, clone(l))
	}
	return page, total, nil
}

// GetByID retrieves a listing by ID
func (store *ListingStore) GetByID(ctx context.Context, id uuid.UUID) (*listing.Listing, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	l, ok := store.listings[id]
	if !ok {
		return nil, shared.ErrListingNotFound
	}
	return clone(l), nil
}

// ListByOwner retrieves every listing of an owner, newest first
func (store *ListingStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*listing.Listing, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	owned := []*listing.Listing{}
	for _, l := range store.listings {
		if l.OwnerID == ownerID {
			owned = append(owned, clone(l))
		}
	}
	sortListings(owned, listing.SortByCreatedAt, listing.SortDesc)
	return owned, nil
}

// Create inserts l and returns its ID; a nil ID is generated
func (store *ListingStore) Create(ctx context.Context, l *listing.Listing) (uuid.UUID, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	record := clone(l)
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = store.now()
	}
	record.UpdatedAt = record.CreatedAt
	store.listings[record.ID] = record
	return record.ID, nil
}

// Update applies patch to the listing with the given ID
func (store *ListingStore) Update(ctx context.Context, id uuid.UUID, patch listing.Patch) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	l, ok := store.listings[id]
	if !ok {
		return shared.ErrListingNotFound
	}
	patch.Apply(l)
	l.UpdatedAt = store.now()
	return nil
}

// Delete removes the listing with the given ID
func (store *ListingStore) Delete(ctx context.Context, id uuid.UUID) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if _, ok := store.listings[id]; !ok {
		return shared.ErrListingNotFound
	}
	delete(store.listings, id)
	return nil
}

func matches(l *listing.Listing, f listing.Filter, now time.Time) bool {
	if f.Status != "" && l.Status != f.Status {
		return false
	}
	if f.AuctionsOnly && (!l.IsAuction() || !l.AuctionEnd.After(now)) {
		return false
	}
	if f.Category != "" && l.Category != f.Category {
		return false
	}
	if f.FuelType != "" && l.FuelType != f.FuelType {
		return false
	}
	if f.Transmission != "" && l.Transmission != f.Transmission {
		return false
	}
	if f.Condition != "" && l.Condition != f.Condition {
		return false
	}
	if f.PriceMin != nil && l.Price < *f.PriceMin {
		return false
	}
	if f.PriceMax != nil && l.Price > *f.PriceMax {
		return false
	}
	if f.YearMin != nil && (l.Year == nil || *l.Year < *f.YearMin) {
		return false
	}
	if f.YearMax != nil && (l.Year == nil || *l.Year > *f.YearMax) {
		return false
	}
	if f.MileageMax != nil && (l.Mileage == nil || *l.Mileage > *f.MileageMax) {
		return false
	}
	if f.Location != "" && !containsFold(l.Location, f.Location) {
		return false
	}
	if f.Query != "" && !containsFold(l.Title, f.Query) {
		return false
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// sortListings orders like the SQL store: missing values last, ID as tie-break
func sortListings(items []*listing.Listing, by listing.SortField, order listing.SortOrder) {
	desc := order == listing.SortDesc
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		cmp := compareBy(a, b, by)
		switch cmp {
		case onlyA:
			return true
		case onlyB:
			return false
		}
		if cmp != 0 {
			if desc {
				return cmp > 0
			}
			return cmp < 0
		}
		if desc {
			return a.ID.String() > b.ID.String()
		}
		return a.ID.String() < b.ID.String()
	})
}

// results of compareOptional when exactly one side has a value
const (
	onlyA = 2
	onlyB = -2
)

func compareBy(a, b *listing.Listing, by listing.SortField) int {
	switch by {
	case listing.SortByPrice:
		return compareFloat(a.Price, b.Price)
	case listing.SortByYear:
		return compareOptional(a.Year, b.Year)
	case listing.SortByMileage:
		return compareOptional(a.Mileage, b.Mileage)
	default:
		switch {
		case a.CreatedAt.Before(b.CreatedAt):
			return -1
		case a.CreatedAt.After(b.CreatedAt):
			return 1
		}
		return 0
	}
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareOptional(a, b *int) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return onlyB
	case b == nil:
		return onlyA
	}
	return compareFloat(float64(*a), float64(*b))
}

func clone(l *listing.Listing) *listing.Listing {
	c := *l
	c.Images = append([]string{}, l.Images...)
	return &c
}
