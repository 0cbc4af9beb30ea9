package userservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/haguru/signup/internal/interfaces"
	"github.com/haguru/signup/internal/models"
	"github.com/haguru/signup/pkg/helper"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned when the username is unknown or the password does not match.
var ErrInvalidCredentials = errors.New("invalid credentials")

type UserService struct {
	UserRepo interfaces.UserRepository
	Logger   interfaces.Logger
	Cost     int
}

// NewUserService creates a new UserService instance.
func NewUserService(repo interfaces.UserRepository, logger interfaces.Logger) *UserService {
	return &UserService{
		UserRepo: repo,
		Logger:   logger,
		Cost:     bcrypt.DefaultCost,
	}
}

// IsUsernameAvailable reports whether no account holds username.
func (s *UserService) IsUsernameAvailable(ctx context.Context, username string) (bool, error) {
	funcName := helper.GetFuncName()
	s.Logger.Debug("Entering function", "func", funcName, "user", username)
	defer s.Logger.Debug("Exiting function", "func", funcName, "user", username)

	user, err := s.UserRepo.GetUserByUsername(ctx, username)
	if err != nil {
		s.Logger.Error(ErrRetrievingUser, "func", funcName, "user", username, "error", err)
		return false, fmt.Errorf("%s: %w", ErrRetrievingUser, err)
	}
	return user == nil, nil
}

// RegisterUser hashes the password and adds the user via the repository.
func (s *UserService) RegisterUser(ctx context.Context, registration models.Registration) (string, error) {
	funcName := helper.GetFuncName()
	username := registration.Username
	s.Logger.Debug("Entering function", "func", funcName, "user", username)
	s.Logger.Info("Registering user", "func", funcName, "user", username)
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(registration.Password), s.cost())
	if err != nil {
		s.Logger.Error(ErrFailedToHashPassword, "func", funcName, "user", username, "error", err)
		return "", fmt.Errorf("%s: %w", ErrFailedToHashPassword, err)
	}

	user := models.NewUser(registration, string(hashedPassword))

	userID, err := s.UserRepo.AddUser(ctx, *user)
	if err != nil {
		s.Logger.Error(ErrFailedToRegisterUser, "func", funcName, "user", username, "error", err)
		return "", fmt.Errorf("%s: %w", ErrFailedToRegisterUser, err)
	}
	s.Logger.Info("User registered successfully", "func", funcName, "user", username, "ID", userID)
	s.Logger.Debug("Exiting function", "func", funcName, "user", username)
	return userID, nil
}

// AuthenticateUser verifies a user's credentials.
func (s *UserService) AuthenticateUser(ctx context.Context, username, password string) (bool, error) {
	funcName := helper.GetFuncName()
	s.Logger.Debug("Entering function", "func", funcName, "user", username)
	defer s.Logger.Debug("Exiting function", "func", funcName, "user", username)

	if _, err := s.verify(ctx, funcName, username, password); err != nil {
		return false, err
	}

	s.Logger.Info("User authenticated successfully", "func", funcName, "user", username)
	return true, nil
}

// WithdrawUser deletes the account after re-checking its password.
func (s *UserService) WithdrawUser(ctx context.Context, username, password string) error {
	funcName := helper.GetFuncName()
	s.Logger.Debug("Entering function", "func", funcName, "user", username)
	defer s.Logger.Debug("Exiting function", "func", funcName, "user", username)

	if _, err := s.verify(ctx, funcName, username, password); err != nil {
		return err
	}

	if err := s.UserRepo.DeleteUser(ctx, username); err != nil {
		s.Logger.Error(ErrFailedToDeleteUser, "func", funcName, "user", username, "error", err)
		return fmt.Errorf("%s: %w", ErrFailedToDeleteUser, err)
	}

	s.Logger.Info("User withdrawn", "func", funcName, "user", username)
	return nil
}

func (s *UserService) verify(ctx context.Context, funcName, username, password string) (*models.User, error) {
	user, err := s.UserRepo.GetUserByUsername(ctx, username)
	if err != nil {
		s.Logger.Error(ErrRetrievingUser, "func", funcName, "user", username, "error", err)
		return nil, fmt.Errorf("%s: %w", ErrRetrievingUser, err)
	}
	if user == nil {
		s.Logger.Error(ErrUserNotFound, "func", funcName, "user", username)
		return nil, fmt.Errorf("%s: %w", ErrUserNotFound, ErrInvalidCredentials)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		s.Logger.Error(ErrInvalidPassword, "func", funcName, "user", username)
		return nil, fmt.Errorf("%s: %w", ErrInvalidPassword, ErrInvalidCredentials)
	}
	return user, nil
}

func (s *UserService) cost() int {
	if s.Cost == 0 {
		return bcrypt.DefaultCost
	}
	return s.Cost
}
