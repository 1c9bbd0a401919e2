package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/explooosion/catalog-console/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// ErrUserNotFound is returned when no account matches the given username
var ErrUserNotFound = errors.New("user not found")

// User is a development server account
type User struct {
	Username     string
	PasswordHash string
	Role         models.Role
}

// UserRepository is the interface that wraps account lookup.
type UserRepository interface {
	// Method GetByUsername retrieves an account by username.
	//
	// If no account with such username exists, ErrUserNotFound is returned.
	GetByUsername(ctx context.Context, username string) (*User, error)
}

// memoryUserRepository implements UserRepository over a fixed seed set
type memoryUserRepository struct {
	users map[string]User
}

// Seed describes one account to create at startup
type Seed struct {
	Username string
	Password string
	Role     models.Role
}

// NewMemoryUserRepository creates a user repository with the given seed
// accounts, hashing each password with bcrypt.
func NewMemoryUserRepository(seeds []Seed) (*memoryUserRepository, error) {
	users := make(map[string]User, len(seeds))
	for _, seed := range seeds {
		hash, err := bcrypt.GenerateFromPassword([]byte(seed.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password for %s: %w", seed.Username, err)
		}
		users[seed.Username] = User{
			Username:     seed.Username,
			PasswordHash: string(hash),
			Role:         seed.Role,
		}
	}
	return &memoryUserRepository{users: users}, nil
}

// GetByUsername retrieves an account by username
func (r *memoryUserRepository) GetByUsername(ctx context.Context, username string) (*User, error) {
	user, ok := r.users[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

// Authenticate checks password against the stored hash for username
func Authenticate(ctx context.Context, repo UserRepository, username, password string) (*User, error) {
	user, err := repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}
	return user, nil
}
