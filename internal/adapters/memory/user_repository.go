package memory

import (
	"context"
	"strings"
	"sync"

	"motoauto-service/internal/domain/shared"

	"github.com/google/uuid"
)

// UserRepository keeps users in process memory
type UserRepository struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]shared.User
	byEmail map[string]uuid.UUID
}

// NewUserRepository creates an empty user repository
func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:    make(map[uuid.UUID]shared.User),
		byEmail: make(map[string]uuid.UUID),
	}
}

// Create stores user; the email must be unused
func (repo *UserRepository) Create(ctx context.Context, user *shared.User) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	email := strings.ToLower(user.Email)
	if _, taken := repo.byEmail[email]; taken {
		return shared.ErrEmailTaken
	}
	repo.byID[user.ID] = *user
	repo.byEmail[email] = user.ID
	return nil
}

// GetByID retrieves a user by ID
func (repo *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*shared.User, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	user, ok := repo.byID[id]
	if !ok {
		return nil, shared.ErrUserNotFound
	}
	return &user, nil
}

// GetByEmail retrieves a user by email
func (repo *UserRepository) GetByEmail(ctx context.Context, email string) (*shared.User, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	id, ok := repo.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, shared.ErrUserNotFound
	}
	user := repo.byID[id]
	return &user, nil
}
