package db

import (
	"motoauto-service/internal/ports/outbound"

	"github.com/rs/zerolog"
)

// RepositoryFactory creates and manages all database repositories
type RepositoryFactory struct {
	conn   *Connection
	logger zerolog.Logger
}

// NewRepositoryFactory creates a new repository factory
func NewRepositoryFactory(conn *Connection, logger zerolog.Logger) *RepositoryFactory {
	return &RepositoryFactory{conn: conn, logger: logger}
}

// GetListingRepository returns the listing repository
func (f *RepositoryFactory) GetListingRepository() *ListingRepository {
	return NewListingRepository(f.conn, f.logger)
}

// GetUserRepository returns the user repository
func (f *RepositoryFactory) GetUserRepository() outbound.UserRepository {
	return NewUserRepository(f.conn)
}

// Repositories bundles every repository for dependency injection
type Repositories struct {
	Listings outbound.ListingStore
	Mutator  outbound.ListingMutator
	Users    outbound.UserRepository
}

// GetAllRepositories returns all repositories in a struct for easy dependency injection
func (f *RepositoryFactory) GetAllRepositories() Repositories {
	listings := f.GetListingRepository()
	return Repositories{
		Listings: listings,
		Mutator:  listings,
		Users:    f.GetUserRepository(),
	}
}
