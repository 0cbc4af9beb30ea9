package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/haguru/signup/internal/interfaces"
	"github.com/haguru/signup/internal/interfaces/mocks"
	"github.com/haguru/signup/internal/models"
	"github.com/haguru/signup/internal/userrepo/constants"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newRepo(t *testing.T) (*PostgresUserRepository, *mocks.MockDBClient) {
	t.Helper()
	db := mocks.NewMockDBClient(t)
	repo, err := NewPostgresUserRepository(db)
	require.NoError(t, err)
	r := repo.(*PostgresUserRepository)
	r.now = func() time.Time { return fixedNow }
	return r, db
}

func TestPostgresUserRepository_AddUser(t *testing.T) {
	tests := []struct {
		name      string
		insertID  interface{}
		insertErr error
		wantID    string
		wantErr   error
		anyErr    bool
	}{
		{name: "inserted", insertID: "6f1c", wantID: "6f1c"},
		{name: "duplicate username", insertErr: &pq.Error{Code: uniqueViolation}, wantErr: interfaces.ErrUserExists},
		{name: "other failure", insertErr: fmt.Errorf("connection refused"), anyErr: true},
		{name: "unexpected id type", insertID: 42, anyErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, db := newRepo(t)
			db.On("InsertOne", mock.Anything, constants.UsersCollection, map[string]interface{}{
				constants.FieldUsername:       "abc",
				constants.FieldHashedPassword: "hash",
				constants.FieldDisplayName:    "Kim",
				constants.FieldEmail:          "kim@example.com",
				constants.FieldCreatedAt:      fixedNow,
			}).Return(tt.insertID, tt.insertErr).Once()

			got, err := repo.AddUser(context.Background(), models.User{
				Username: "abc", HashedPassword: "hash", DisplayName: "Kim", Email: "kim@example.com",
			})
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.anyErr:
				assert.Error(t, err)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.wantID, got)
			}
		})
	}
}

func TestPostgresUserRepository_GetUserByUsername(t *testing.T) {
	repo, db := newRepo(t)
	filter := map[string]interface{}{constants.FieldUsername: "abc"}
	db.On("FindOne", mock.Anything, constants.UsersCollection, filter, mock.Anything).
		Run(func(args mock.Arguments) {
			u := args.Get(3).(*models.User)
			u.ID = "6f1c"
			u.Username = "abc"
		}).Return(nil).Once()
	db.On("FindOne", mock.Anything, constants.UsersCollection, filter, mock.Anything).
		Return(interfaces.ErrNoDocument).Once()

	user, err := repo.GetUserByUsername(context.Background(), "abc")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "6f1c", user.ID)

	user, err = repo.GetUserByUsername(context.Background(), "abc")
	assert.NoError(t, err)
	assert.Nil(t, user)

	_, err = repo.GetUserByUsername(context.Background(), "")
	assert.Error(t, err)
}

func TestPostgresUserRepository_DeleteUser(t *testing.T) {
	repo, db := newRepo(t)
	filter := map[string]interface{}{constants.FieldUsername: "abc"}
	db.On("DeleteOne", mock.Anything, constants.UsersCollection, filter).Return(int64(1), nil).Once()
	db.On("DeleteOne", mock.Anything, constants.UsersCollection, filter).Return(int64(0), nil).Once()

	assert.NoError(t, repo.DeleteUser(context.Background(), "abc"))
	assert.ErrorIs(t, repo.DeleteUser(context.Background(), "abc"), interfaces.ErrUserNotFound)
}

func TestPostgresUserRepository_EnsureIndicesAndClose(t *testing.T) {
	repo, db := newRepo(t)
	db.On("EnsureSchema", mock.Anything, constants.UsersCollection, constants.UsersTableSchema).Return(nil).Once()
	db.On("Disconnect", mock.Anything).Return(nil).Once()

	assert.NoError(t, repo.EnsureIndices(context.Background()))
	assert.NoError(t, repo.Close(context.Background()))
}
