package outbound

import (
	"context"

	"motoauto-service/internal/domain/listing"
	"motoauto-service/internal/domain/shared"

	"github.com/google/uuid"
)

// ListingStore defines the read side of the listing store
type ListingStore interface {
	// Query returns one page of listings matching a normalized filter and the
	// total number of matches
	Query(ctx context.Context, filter listing.Filter) ([]*listing.Listing, int, error)

	// GetByID retrieves a listing by ID
	GetByID(ctx context.Context, id uuid.UUID) (*listing.Listing, error)

	// ListByOwner retrieves every listing of an owner, newest first
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*listing.Listing, error)
}

// ListingMutator defines the write side of the listing store
type ListingMutator interface {
	// Create inserts a full record and returns the generated ID
	Create(ctx context.Context, l *listing.Listing) (uuid.UUID, error)

	// Update applies a partial patch by ID
	Update(ctx context.Context, id uuid.UUID, patch listing.Patch) error

	// Delete deletes a listing by ID
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *shared.User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id uuid.UUID) (*shared.User, error)

	// GetByEmail retrieves a user by lowercased email
	GetByEmail(ctx context.Context, email string) (*shared.User, error)
}
