package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/haguru/signup/internal/interfaces"
	"github.com/haguru/signup/internal/models"
	"github.com/haguru/signup/internal/userrepo/constants"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongosdk "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// mongoUser is the BSON shape of a stored user.
type mongoUser struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	Username       string             `bson:"username"`
	HashedPassword string             `bson:"hashed_password"`
	DisplayName    string             `bson:"display_name"`
	Email          string             `bson:"email"`
	CreatedAt      time.Time          `bson:"created_at"`
}

// MongoUserRepository implements UserRepository using the generic DBClient.
type MongoUserRepository struct {
	dbClient interfaces.DBClient
	now      func() time.Time
}

// NewMongoUserRepository creates a new MongoDB repository instance.
func NewMongoUserRepository(dbClient interfaces.DBClient) (interfaces.UserRepository, error) {
	if dbClient == nil {
		return nil, fmt.Errorf("dbClient cannot be nil")
	}
	return &MongoUserRepository{dbClient: dbClient, now: time.Now}, nil
}

// AddUser saves a new user to MongoDB and returns the hex ObjectID.
func (r *MongoUserRepository) AddUser(ctx context.Context, user models.User) (string, error) {
	if err := validUsername(user.Username); err != nil {
		return "", err
	}
	createdAt := user.CreatedAt
	if createdAt.IsZero() {
		createdAt = r.now().UTC()
	}

	doc := bson.M{
		constants.FieldUsername:       user.Username,
		constants.FieldHashedPassword: user.HashedPassword,
		constants.FieldDisplayName:    user.DisplayName,
		constants.FieldEmail:          user.Email,
		constants.FieldCreatedAt:      createdAt,
	}

	insertedID, err := r.dbClient.InsertOne(ctx, constants.UsersCollection, doc)
	if err != nil {
		if mongosdk.IsDuplicateKeyError(err) {
			return "", fmt.Errorf("username '%s': %w", user.Username, interfaces.ErrUserExists)
		}
		return "", fmt.Errorf("failed to add user to MongoDB: %w", err)
	}

	objID, ok := insertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("failed to assert inserted ID to ObjectID")
	}
	return objID.Hex(), nil
}

// GetUserByUsername retrieves a user from MongoDB. A missing user yields (nil, nil).
func (r *MongoUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	if err := validUsername(username); err != nil {
		return nil, err
	}

	var found mongoUser
	filter := bson.M{constants.FieldUsername: username}
	err := r.dbClient.FindOne(ctx, constants.UsersCollection, filter, &found)
	if err != nil {
		if errors.Is(err, interfaces.ErrNoDocument) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by username from MongoDB: %w", err)
	}

	return &models.User{
		ID:             found.ID.Hex(),
		Username:       found.Username,
		HashedPassword: found.HashedPassword,
		DisplayName:    found.DisplayName,
		Email:          found.Email,
		CreatedAt:      found.CreatedAt,
	}, nil
}

// DeleteUser removes the user with the given username.
func (r *MongoUserRepository) DeleteUser(ctx context.Context, username string) error {
	if err := validUsername(username); err != nil {
		return err
	}

	deleted, err := r.dbClient.DeleteOne(ctx, constants.UsersCollection, bson.M{constants.FieldUsername: username})
	if err != nil {
		return fmt.Errorf("failed to delete user from MongoDB: %w", err)
	}
	if deleted == 0 {
		return fmt.Errorf("username '%s': %w", username, interfaces.ErrUserNotFound)
	}
	return nil
}

// EnsureIndices creates a unique index on username.
func (r *MongoUserRepository) EnsureIndices(ctx context.Context) error {
	indexModel := mongosdk.IndexModel{
		Keys:    bson.D{{Key: constants.FieldUsername, Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	return r.dbClient.EnsureSchema(ctx, constants.UsersCollection, indexModel)
}

// Close disconnects the MongoDB client.
func (r *MongoUserRepository) Close(ctx context.Context) error {
	return r.dbClient.Disconnect(ctx)
}

func validUsername(username string) error {
	if len(username) == 0 || len(username) > constants.MaxUsernameLength {
		return fmt.Errorf("invalid username: must be between 1 and %d characters", constants.MaxUsernameLength)
	}
	return nil
}
