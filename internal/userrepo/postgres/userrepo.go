package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/haguru/signup/internal/interfaces"
	"github.com/haguru/signup/internal/models"
	"github.com/haguru/signup/internal/userrepo/constants"
)

// uniqueViolation is the PostgreSQL error code for a unique constraint failure.
const uniqueViolation = "23505"

// PostgresUserRepository implements UserRepository for PostgreSQL databases.
type PostgresUserRepository struct {
	dbClient interfaces.DBClient
	now      func() time.Time
}

// NewPostgresUserRepository creates a new PostgreSQL repository instance.
func NewPostgresUserRepository(dbClient interfaces.DBClient) (interfaces.UserRepository, error) {
	if dbClient == nil {
		return nil, fmt.Errorf("dbClient cannot be nil")
	}
	return &PostgresUserRepository{dbClient: dbClient, now: time.Now}, nil
}

// AddUser saves a new user to PostgreSQL. The client generates the UUID.
func (r *PostgresUserRepository) AddUser(ctx context.Context, user models.User) (string, error) {
	if err := validUsername(user.Username); err != nil {
		return "", err
	}
	createdAt := user.CreatedAt
	if createdAt.IsZero() {
		createdAt = r.now().UTC()
	}

	doc := map[string]interface{}{
		constants.FieldUsername:       user.Username,
		constants.FieldHashedPassword: user.HashedPassword,
		constants.FieldDisplayName:    user.DisplayName,
		constants.FieldEmail:          user.Email,
		constants.FieldCreatedAt:      createdAt,
	}

	insertedID, err := r.dbClient.InsertOne(ctx, constants.UsersCollection, doc)
	if err != nil {
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return "", fmt.Errorf("username '%s': %w", user.Username, interfaces.ErrUserExists)
		}
		return "", fmt.Errorf("failed to add user to PostgreSQL: %w", err)
	}
	strID, ok := insertedID.(string)
	if !ok {
		return "", fmt.Errorf("failed to assert inserted ID to string (expected UUID)")
	}
	return strID, nil
}

// GetUserByUsername retrieves a user from PostgreSQL. A missing user yields (nil, nil).
func (r *PostgresUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	if err := validUsername(username); err != nil {
		return nil, err
	}

	var user models.User
	filter := map[string]interface{}{constants.FieldUsername: username}
	err := r.dbClient.FindOne(ctx, constants.UsersCollection, filter, &user)
	if err != nil {
		if errors.Is(err, interfaces.ErrNoDocument) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by username from PostgreSQL: %w", err)
	}
	return &user, nil
}

// DeleteUser removes the user with the given username.
func (r *PostgresUserRepository) DeleteUser(ctx context.Context, username string) error {
	if err := validUsername(username); err != nil {
		return err
	}

	filter := map[string]interface{}{constants.FieldUsername: username}
	deleted, err := r.dbClient.DeleteOne(ctx, constants.UsersCollection, filter)
	if err != nil {
		return fmt.Errorf("failed to delete user from PostgreSQL: %w", err)
	}
	if deleted == 0 {
		return fmt.Errorf("username '%s': %w", username, interfaces.ErrUserNotFound)
	}
	return nil
}

// EnsureIndices creates the users table; the unique username column doubles as its index.
func (r *PostgresUserRepository) EnsureIndices(ctx context.Context) error {
	return r.dbClient.EnsureSchema(ctx, constants.UsersCollection, constants.UsersTableSchema)
}

// Close closes the PostgreSQL database connection.
func (r *PostgresUserRepository) Close(ctx context.Context) error {
	return r.dbClient.Disconnect(ctx)
}

func validUsername(username string) error {
	if len(username) == 0 || len(username) > constants.MaxUsernameLength {
		return fmt.Errorf("invalid username: must be between 1 and %d characters", constants.MaxUsernameLength)
	}
	return nil
}
