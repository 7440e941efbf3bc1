package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"motoauto-service/internal/domain/listing"
	"motoauto-service/internal/domain/shared"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

// ListingRepository implements outbound.ListingStore and outbound.ListingMutator on Postgres
type ListingRepository struct {
	conn   *Connection
	logger zerolog.Logger
}

// NewListingRepository creates a new listing repository
func NewListingRepository(conn *Connection, logger zerolog.Logger) *ListingRepository {
	return &ListingRepository{
		conn:   conn,
		logger: logger.With().Str("component", "listing_repository").Logger(),
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanListing reads one row in listingColumns order plus any extra destinations
func (r *ListingRepository) scanListing(row rowScanner, extra ...interface{}) (*listing.Listing, error) {
	var (
		l                                     listing.Listing
		rawStatus                             string
		category, fuel, transmission, cond    string
		year, mileage, engineSize             sql.NullInt64
		auctionEnd                            sql.NullTime
		currentBid, reservePrice, buyNowPrice sql.NullFloat64
		images                                []string
	)

	dest := []interface{}{
		&l.ID, &l.OwnerID, &l.Title, &l.Description, &l.Price, &l.Currency, &category, &rawStatus,
		&year, &mileage, &engineSize, &fuel, &transmission, &cond, &l.Location, pq.Array(&images),
		&l.Views, &l.BidCount, &l.Featured, &l.CreatedAt, &l.UpdatedAt,
		&auctionEnd, &currentBid, &reservePrice, &buyNowPrice,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	status, ok := listing.ParseStatus(rawStatus)
	if !ok {
		r.logger.Warn().
			Str("listing_id", l.ID.String()).
			Str("status", rawStatus).
			Msg("Unknown listing status, treating as draft")
	}
	l.Status = status
	l.Category = listing.Category(category)
	l.FuelType = listing.FuelType(fuel)
	l.Transmission = listing.Transmission(transmission)
	l.Condition = listing.Condition(cond)
	l.Year = nullInt(year)
	l.Mileage = nullInt(mileage)
	l.EngineSize = nullInt(engineSize)
	l.CurrentBid = nullFloat(currentBid)
	l.ReservePrice = nullFloat(reservePrice)
	l.BuyNowPrice = nullFloat(buyNowPrice)
	if auctionEnd.Valid {
		end := auctionEnd.Time
		l.AuctionEnd = &end
	}
	if images == nil {
		images = []string{}
	}
	l.Images = images
	return &l, nil
}

func nullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

// Query returns one page of listings matching a normalized filter and the total match count
func (r *ListingRepository) Query(ctx context.Context, filter listing.Filter) ([]*listing.Listing, int, error) {
	query, args := BuildListingQuery(filter)

	rows, err := r.conn.GetDB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query listings: %w", err)
	}
	defer rows.Close()

	var (
		items []*listing.Listing
		total int
	)
	for rows.Next() {
		l, err := r.scanListing(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan listing: %w", err)
		}
		items = append(items, l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate listings: %w", err)
	}

	// a page past the end carries no window count
	if len(items) == 0 && filter.Offset() > 0 {
		countQuery, countArgs := BuildListingCountQuery(filter)
		if err := r.conn.GetDB().QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
			return nil, 0, fmt.Errorf("failed to count listings: %w", err)
		}
	}

	return items, total, nil
}

// GetByID retrieves a listing by ID
func (r *ListingRepository) GetByID(ctx context.Context, id uuid.UUID) (*listing.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE id = $1`

	l, err := r.scanListing(r.conn.GetDB().QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shared.ErrListingNotFound
		}
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}
	return l, nil
}

// ListByOwner retrieves every listing of an owner, newest first
func (r *ListingRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*listing.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE owner_id = $1 ORDER BY created_at DESC, id DESC`

	rows, err := r.conn.GetDB().QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list owner listings: %w", err)
	}
	defer rows.Close()

	items := []*listing.Listing{}
	for rows.Next() {
		l, err := r.scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}
		items = append(items, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate listings: %w", err)
	}
	return items, nil
}

// Create inserts a listing and returns the generated ID
func (r *ListingRepository) Create(ctx context.Context, l *listing.Listing) (uuid.UUID, error) {
	query := `
		INSERT INTO listings (owner_id, title, description, price, currency, category, status,
			year, mileage, engine_size, fuel_type, transmission, condition, location, images,
			featured, created_at, updated_at, auction_end_date, current_bid, reserve_price, buy_now_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
		RETURNING id
	`

	images := l.Images
	if images == nil {
		images = []string{}
	}

	var id uuid.UUID
	err := r.conn.GetDB().QueryRowContext(ctx, query,
		l.OwnerID,
		l.Title,
		l.Description,
		l.Price,
		l.Currency,
		string(l.Category),
		string(l.Status),
		l.Year,
		l.Mileage,
		l.EngineSize,
		string(l.FuelType),
		string(l.Transmission),
		string(l.Condition),
		l.Location,
		pq.Array(images),
		l.Featured,
		l.CreatedAt,
		l.UpdatedAt,
		l.AuctionEnd,
		l.CurrentBid,
		l.ReservePrice,
		l.BuyNowPrice,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create listing: %w", err)
	}
	return id, nil
}

// Update applies a partial patch by ID
func (r *ListingRepository) Update(ctx context.Context, id uuid.UUID, patch listing.Patch) error {
	var (
		sets []string
		args []interface{}
	)
	set := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Title != nil {
		set("title", strings.TrimSpace(*patch.Title))
	}
	if patch.Description != nil {
		set("description", *patch.Description)
	}
	if patch.Price != nil {
		set("price", *patch.Price)
	}
	if patch.Category != nil {
		set("category", string(*patch.Category))
	}
	if patch.Status != nil {
		set("status", string(*patch.Status))
	}
	if patch.Year != nil {
		set("year", *patch.Year)
	}
	if patch.Mileage != nil {
		set("mileage", *patch.Mileage)
	}
	if patch.EngineSize != nil {
		set("engine_size", *patch.EngineSize)
	}
	if patch.FuelType != nil {
		set("fuel_type", string(*patch.FuelType))
	}
	if patch.Transmission != nil {
		set("transmission", string(*patch.Transmission))
	}
	if patch.Condition != nil {
		set("condition", string(*patch.Condition))
	}
	if patch.Location != nil {
		set("location", strings.TrimSpace(*patch.Location))
	}
	if patch.Images != nil {
		set("images", pq.Array(patch.Images))
	}
	if len(sets) == 0 {
		return shared.ErrEmptyPatch
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE listings SET %s, updated_at = NOW() WHERE id = $%d", strings.Join(sets, ", "), len(args))

	result, err := r.conn.GetDB().ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update listing: %w", err)
	}
	return expectOneRow(result, shared.ErrListingNotFound)
}

// Delete deletes a listing by ID
func (r *ListingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.conn.GetDB().ExecContext(ctx, `DELETE FROM listings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete listing: %w", err)
	}
	return expectOneRow(result, shared.ErrListingNotFound)
}

func expectOneRow(result sql.Result, notFound error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return notFound
	}
	return nil
}
