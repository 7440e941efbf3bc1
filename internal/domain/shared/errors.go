package shared

import "errors"

// Domain-specific errors
var (
	// Listing errors
	ErrListingNotFound     = errors.New("listing not found")
	ErrNotListingOwner     = errors.New("listing belongs to another user")
	ErrTitleRequired       = errors.New("title is required")
	ErrInvalidPrice        = errors.New("price must be zero or greater")
	ErrInvalidCategory     = errors.New("unknown category")
	ErrInvalidFuelType     = errors.New("unknown fuel type")
	ErrInvalidTransmission = errors.New("unknown transmission type")
	ErrInvalidCondition    = errors.New("unknown vehicle condition")
	ErrImagesRequired      = errors.New("at least one image is required")
	ErrTooManyImages       = errors.New("too many images")
	ErrEmptyPatch          = errors.New("nothing to update")

	// Query errors
	ErrInvalidFilter = errors.New("invalid filter")

	// Auction errors
	ErrAuctionNotFound  = errors.New("auction not found")
	ErrBiddingClosed    = errors.New("auction is not accepting bids")
	ErrBidBelowMinimum  = errors.New("bid amount is below the minimum")
	ErrBidAmountInvalid = errors.New("bid amount must be a whole number")

	// Auth errors
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrNameRequired       = errors.New("name is required")
	ErrEmailTaken         = errors.New("user already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSessionNotFound    = errors.New("session not found")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrUserNotFound       = errors.New("user not found")

	// Storage errors
	ErrBlobUpload = errors.New("blob upload failed")

	// Cache errors
	ErrCacheMiss = errors.New("cache miss")

	// Validation errors
	ErrInvalidRequest = errors.New("invalid request")
	ErrInvalidID      = errors.New("invalid id format")

	// WebSocket message validation errors
	ErrMessageTypeRequired = errors.New("message type is required")
	ErrListingIDRequired   = errors.New("listing_id is required")
	ErrUnknownMessageType  = errors.New("unknown message type")
	ErrSessionClosed       = errors.New("session closed")
)
