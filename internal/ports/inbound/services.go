package inbound

import (
	"context"

	"motoauto-service/internal/domain/auction"
	"motoauto-service/internal/domain/listing"
	"motoauto-service/internal/domain/shared"

	"github.com/google/uuid"
)

// ListingSearcher runs one listing search
type ListingSearcher interface {
	Search(ctx context.Context, filter listing.Filter) (*listing.Page, error)
}

// ListingService defines the interface for listing operations
type ListingService interface {
	ListingSearcher

	// Get retrieves a listing by ID
	Get(ctx context.Context, id uuid.UUID) (*listing.Listing, error)

	// ListByOwner retrieves the dashboard listings of a user
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*listing.Listing, error)

	// Create creates a listing and uploads its images
	Create(ctx context.Context, req CreateListingRequest) (*CreateListingResult, error)

	// Update patches a listing owned by ownerID
	Update(ctx context.Context, ownerID, id uuid.UUID, patch listing.Patch) (*listing.Listing, error)

	// Delete deletes a listing owned by ownerID
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

// AuctionService defines the interface for auction read and bid-evaluation operations
type AuctionService interface {
	ListingSearcher

	// Get retrieves an auction by ID
	Get(ctx context.Context, id uuid.UUID) (*auction.Auction, error)

	// BidPanel evaluates the bid controls for an auction
	BidPanel(ctx context.Context, id uuid.UUID) (*auction.Panel, error)

	// ValidateBid checks a user-entered custom amount
	ValidateBid(ctx context.Context, id uuid.UUID, raw string) (*BidCheck, error)
}

// AuthService defines the interface for sign-up, sign-in and sessions
type AuthService interface {
	SignUp(ctx context.Context, req SignUpRequest) (*shared.Session, error)
	SignIn(ctx context.Context, req SignInRequest) (*shared.Session, error)
	SignOut(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*shared.User, error)
}

// ImageUpload is one image file attached to a new listing
type ImageUpload struct {
	Name        string
	ContentType string
	Data        []byte
}

// request to create a listing
type CreateListingRequest struct {
	OwnerID uuid.UUID
	Form    listing.Form
	Images  []ImageUpload
}

// CreateListingResult reports the created listing and the images that did not make it
type CreateListingResult struct {
	Listing      *listing.Listing `json:"listing"`
	FailedImages []string         `json:"failed_images,omitempty"`
}

// BidCheck is the outcome of validating a custom bid amount
type BidCheck struct {
	Amount     int64   `json:"amount,omitempty"`
	Accepted   bool    `json:"accepted"`
	MinimumBid float64 `json:"minimum_bid"`
	Message    string  `json:"message,omitempty"`

	// Bid is the submission the client may send once the amount is accepted
	Bid *auction.Bid `json:"bid,omitempty"`
}

// request to sign up
type SignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// request to sign in
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
