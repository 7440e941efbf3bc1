package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"motoauto-service/internal/domain/listing"
	"motoauto-service/internal/domain/shared"
	"motoauto-service/internal/ports/inbound"
	"motoauto-service/internal/ports/outbound"

	"github.com/alitto/pond"
	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Defaults used when ListingServiceParams leaves a field zero
const (
	DefaultCacheTTL      = 30 * time.Second
	DefaultMaxStaleness  = 60 * time.Second
	DefaultUploadWorkers = 4
)

// ListingService implements the listing use cases
type ListingService struct {
	store         outbound.ListingStore
	mutator       outbound.ListingMutator
	blobs         outbound.BlobStore
	cache         outbound.QueryCache
	cacheTTL      time.Duration
	maxStaleness  time.Duration
	uploadWorkers int
	now           func() time.Time
	logger        zerolog.Logger
}

type ListingServiceParams struct {
	Store         outbound.ListingStore
	Mutator       outbound.ListingMutator
	Blobs         outbound.BlobStore
	Cache         outbound.QueryCache
	CacheTTL      time.Duration
	MaxStaleness  time.Duration
	UploadWorkers int
	Now           func() time.Time
	Logger        zerolog.Logger
}

// NewListingService creates a new listing service. Cache may be nil.
func NewListingService(params ListingServiceParams) *ListingService {
	service := &ListingService{
		store:         params.Store,
		mutator:       params.Mutator,
		blobs:         params.Blobs,
		cache:         params.Cache,
		cacheTTL:      params.CacheTTL,
		maxStaleness:  params.MaxStaleness,
		uploadWorkers: params.UploadWorkers,
		now:           params.Now,
		logger:        params.Logger.With().Str("component", "listing_service").Logger(),
	}
	if service.cacheTTL <= 0 {
		service.cacheTTL = DefaultCacheTTL
	}
	if service.maxStaleness <= 0 {
		service.maxStaleness = DefaultMaxStaleness
	}
	if service.uploadWorkers <= 0 {
		service.uploadWorkers = DefaultUploadWorkers
	}
	if service.now == nil {
		service.now = time.Now
	}
	return service
}

// Search returns one page of active listings matching filter
func (service *ListingService) Search(ctx context.Context, filter listing.Filter) (*listing.Page, error) {
	if err := filter.Validate(); err != nil {
		service.logger.Warn().Err(err).Msg("Rejected search filter")
		return nil, err
	}
	normalized := filter.Normalize()

	key, err := searchCacheKey(normalized)
	if err != nil {
		return nil, err
	}

	if service.cache != nil {
		entry, err := service.cache.Get(ctx, key)
		switch {
		case err == nil && service.now().Sub(entry.FetchedAt) <= service.maxStaleness:
			service.logger.Debug().Str("cache_key", key).Msg("Serving search from cache")
			return entry.Page, nil
		case err != nil && !errors.Is(err, shared.ErrCacheMiss):
			service.logger.Warn().Err(err).Str("cache_key", key).Msg("Query cache read failed")
		}
	}

	items, total, err := service.store.Query(ctx, normalized)
	if err != nil {
		service.logger.Error().Err(err).Msg("Listing query failed")
		return nil, err
	}
	page := listing.NewPage(items, total, normalized)

	service.logger.Debug().
		Int("total_count", total).
		Int("page", page.Page).
		Int("total_pages", page.TotalPages).
		Msg("Search completed")

	if service.cache != nil {
		entry := &outbound.CachedPage{Page: page, FetchedAt: service.now()}
		if err := service.cache.Set(ctx, key, entry, service.cacheTTL); err != nil {
			service.logger.Warn().Err(err).Str("cache_key", key).Msg("Query cache write failed")
		}
	}
	return page, nil
}

// searchCacheKey hashes the normalized filter so equal searches share an entry
func searchCacheKey(f listing.Filter) (string, error) {
	raw, err := json.Marshal(f)
	if err != nil {
		return "", fmt.Errorf("failed to encode filter: %w", err)
	}
	return fmt.Sprintf("listings:search:%016x", xxhash.Sum64(raw)), nil
}

// Get retrieves a listing by ID
func (service *ListingService) Get(ctx context.Context, id uuid.UUID) (*listing.Listing, error) {
	l, err := service.store.GetByID(ctx, id)
	if err != nil {
		service.logger.Debug().Err(err).Str("listing_id", id.String()).Msg("Listing lookup failed")
		return nil, err
	}
	return l, nil
}

// ListByOwner retrieves every listing of an owner regardless of status
func (service *ListingService) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*listing.Listing, error) {
	return service.store.ListByOwner(ctx, ownerID)
}

// Create inserts the listing, then uploads its images. Images that fail to
// upload are skipped; the listing keeps the ones that made it, in order.
func (service *ListingService) Create(ctx context.Context, req inbound.CreateListingRequest) (*inbound.CreateListingResult, error) {
	service.logger.Info().
		Str("owner_id", req.OwnerID.String()).
		Str("title", req.Form.Title).
		Int("images", len(req.Images)).
		Msg("Attempting to create listing")

	if err := req.Form.Validate(); err != nil {
		service.logger.Warn().Err(err).Msg("Rejected listing form")
		return nil, err
	}
	if len(req.Images) == 0 {
		return nil, shared.ErrImagesRequired
	}
	if len(req.Images) > listing.MaxImages {
		return nil, shared.ErrTooManyImages
	}

	record := req.Form.ToListing(service.now())
	record.OwnerID = req.OwnerID

	id, err := service.mutator.Create(ctx, record)
	if err != nil {
		service.logger.Error().Err(err).Msg("Failed to insert listing")
		return nil, err
	}
	record.ID = id

	urls, failed := service.uploadImages(ctx, id, req.Images)
	result := &inbound.CreateListingResult{Listing: record, FailedImages: failed}

	if len(urls) > 0 {
		if err := service.mutator.Update(ctx, id, listing.Patch{Images: urls}); err != nil {
			service.logger.Error().Err(err).Str("listing_id", id.String()).Msg("Failed to attach image URLs")
			return result, fmt.Errorf("failed to attach images to listing %s: %w", id, err)
		}
		record.Images = urls
	}

	service.logger.Info().
		Str("listing_id", id.String()).
		Int("uploaded", len(urls)).
		Int("failed", len(failed)).
		Msg("Listing created")

	return result, nil
}

func (service *ListingService) uploadImages(ctx context.Context, id uuid.UUID, images []inbound.ImageUpload) ([]string, []string) {
	uploaded := make([]string, len(images))
	pool := pond.New(service.uploadWorkers, len(images))

	for i, img := range images {
		i, img := i, img
		pool.Submit(func() {
			key := ImageKey(id, i, img.Name)
			url, err := service.blobs.Put(ctx, key, img.ContentType, bytes.NewReader(img.Data), int64(len(img.Data)))
			if err != nil {
				service.logger.Warn().Err(err).Str("key", key).Msg("Image upload failed, skipping")
				return
			}
			uploaded[i] = url
		})
	}
	pool.StopAndWait()

	var urls, failed []string
	for i, url := range uploaded {
		if url == "" {
			failed = append(failed, images[i].Name)
			continue
		}
		urls = append(urls, url)
	}
	return urls, failed
}

// ImageKey returns the storage key of the i-th (zero-based) image of a listing
func ImageKey(id uuid.UUID, i int, name string) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
	if ext == "" {
		ext = "jpg"
	}
	return fmt.Sprintf("%s/%d.%s", id, i+1, ext)
}

// Update patches a listing owned by ownerID
func (service *ListingService) Update(ctx context.Context, ownerID, id uuid.UUID, patch listing.Patch) (*listing.Listing, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	if _, err := service.owned(ctx, ownerID, id); err != nil {
		return nil, err
	}
	if err := service.mutator.Update(ctx, id, patch); err != nil {
		service.logger.Error().Err(err).Str("listing_id", id.String()).Msg("Failed to update listing")
		return nil, err
	}
	service.logger.Info().Str("listing_id", id.String()).Msg("Listing updated")
	return service.store.GetByID(ctx, id)
}

// Delete deletes a listing owned by ownerID
func (service *ListingService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if _, err := service.owned(ctx, ownerID, id); err != nil {
		return err
	}
	if err := service.mutator.Delete(ctx, id); err != nil {
		service.logger.Error().Err(err).Str("listing_id", id.String()).Msg("Failed to delete listing")
		return err
	}
	service.logger.Info().Str("listing_id", id.String()).Msg("Listing deleted")
	return nil
}

func (service *ListingService) owned(ctx context.Context, ownerID, id uuid.UUID) (*listing.Listing, error) {
	l, err := service.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.OwnerID != ownerID {
		service.logger.Warn().
			Str("listing_id", id.String()).
			Str("user_id", ownerID.String()).
			Msg("User does not own listing")
		return nil, shared.ErrNotListingOwner
	}
	return l, nil
}
