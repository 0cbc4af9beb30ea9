package interfaces

import (
	"context"

	"github.com/haguru/signup/internal/models"
)

type UserService interface {
	IsUsernameAvailable(ctx context.Context, username string) (bool, error)
	RegisterUser(ctx context.Context, registration models.Registration) (string, error)
	AuthenticateUser(ctx context.Context, username, password string) (bool, error)
	WithdrawUser(ctx context.Context, username, password string) error
}
