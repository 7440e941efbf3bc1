package outbound

import (
	"context"
	"io"
	"time"

	"motoauto-service/internal/domain/listing"
	"motoauto-service/internal/domain/shared"

	"github.com/google/uuid"
)

// BlobStore stores binary objects and hands back public URLs
type BlobStore interface {
	// Put uploads body under key and returns its public URL
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
}

// CachedPage is a search result with the instant it was fetched
type CachedPage struct {
	Page      *listing.Page `json:"page"`
	FetchedAt time.Time     `json:"fetched_at"`
}

// QueryCache keeps recent search results
type QueryCache interface {
	// Get returns shared.ErrCacheMiss when key is absent
	Get(ctx context.Context, key string) (*CachedPage, error)

	// Set stores entry under key for ttl
	Set(ctx context.Context, key string, entry *CachedPage, ttl time.Duration) error
}

// SessionStore keeps sign-in sessions
type SessionStore interface {
	// Create stores a session for userID that expires after ttl
	Create(ctx context.Context, userID uuid.UUID, ttl time.Duration) (*shared.Session, error)

	// Get returns shared.ErrSessionNotFound for unknown or expired tokens
	Get(ctx context.Context, token string) (*shared.Session, error)

	// Delete removes a session; unknown tokens are not an error
	Delete(ctx context.Context, token string) error
}
