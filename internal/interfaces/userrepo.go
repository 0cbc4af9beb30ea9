package interfaces

import (
	"context"
	"errors"

	"github.com/haguru/signup/internal/models"
)

var (
	// ErrUserExists is returned by AddUser when the username is already taken.
	ErrUserExists = errors.New("username already exists")
	// ErrUserNotFound is returned by DeleteUser when nothing was removed.
	ErrUserNotFound = errors.New("user not found")
)

// UserRepository defines the contract for storing and retrieving User data.
// It is database-agnostic; a missing user is reported as (nil, nil).
type UserRepository interface {
	AddUser(ctx context.Context, user models.User) (string, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	DeleteUser(ctx context.Context, username string) error
	EnsureIndices(ctx context.Context) error
	Close(ctx context.Context) error
}
