package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/haguru/signup/config"
	"github.com/haguru/signup/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient() *PostgresDatabaseClient {
	return NewPostgresDatabaseClient(&config.PostgresConfig{
		ValidTables: []string{"users"},
		ValidFields: []string{"id", "username", "hashed_password", "display_name", "email", "created_at"},
	}).(*PostgresDatabaseClient)
}

func TestNewPostgresDatabaseClient_Defaults(t *testing.T) {
	p := newTestClient()
	assert.Equal(t, DefaultMaxOpenConns, p.MaxOpenConns)
	assert.Equal(t, DefaultMaxIdleConns, p.MaxIdleConns)
	assert.Equal(t, DefaultConnMaxLifetime, p.ConnMaxLifetime)

	custom := NewPostgresDatabaseClient(&config.PostgresConfig{
		Options: config.PostgresServerOptions{MaxOpenConns: 3, MaxIdleConns: 1, ConnMaxLifetime: time.Minute},
	}).(*PostgresDatabaseClient)
	assert.Equal(t, 3, custom.MaxOpenConns)
	assert.Equal(t, 1, custom.MaxIdleConns)
	assert.Equal(t, time.Minute, custom.ConnMaxLifetime)
}

func TestPostgresDatabaseClient_BuildInsert(t *testing.T) {
	p := newTestClient()

	query, values, err := p.buildInsert("users", map[string]interface{}{
		"username": "abc",
		"id":       "42",
		"email":    "kim@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO users (email, id, username) VALUES ($1, $2, $3) RETURNING id", query)
	assert.Equal(t, []interface{}{"kim@example.com", "42", "abc"}, values)

	_, _, err = p.buildInsert("accounts", map[string]interface{}{"id": "1"})
	assert.Error(t, err)

	_, _, err = p.buildInsert("users", map[string]interface{}{"id; DROP TABLE users": "1"})
	assert.Error(t, err)
}

func TestPostgresDatabaseClient_BuildSelectAndDelete(t *testing.T) {
	p := newTestClient()
	filter := map[string]interface{}{"username": "abc", "email": "kim@example.com"}

	query, values, err := p.buildSelect("users", []string{"id", "username"}, filter)
	require.NoError(t, err)
	assert.Equal(t, "SELECT id, username FROM users WHERE email = $1 AND username = $2 LIMIT 1", query)
	assert.Equal(t, []interface{}{"kim@example.com", "abc"}, values)

	query, values, err = p.buildDelete("users", map[string]interface{}{"username": "abc"})
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM users WHERE username = $1", query)
	assert.Equal(t, []interface{}{"abc"}, values)

	_, _, err = p.buildDelete("users", map[string]interface{}{"password": "x"})
	assert.Error(t, err)
}

func TestScanTargets(t *testing.T) {
	var user models.User
	columns, pointers, err := scanTargets(&user)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "username", "hashed_password", "display_name", "email", "created_at"}, columns)
	assert.Len(t, pointers, len(columns))

	_, _, err = scanTargets(user)
	assert.Error(t, err)
}

func TestPostgresDatabaseClient_NotConnected(t *testing.T) {
	p := newTestClient()
	ctx := context.Background()

	_, err := p.InsertOne(ctx, "users", map[string]interface{}{"username": "abc"})
	assert.Error(t, err)
	assert.Error(t, p.FindOne(ctx, "users", map[string]interface{}{"username": "abc"}, &models.User{}))
	_, err = p.DeleteOne(ctx, "users", map[string]interface{}{"username": "abc"})
	assert.Error(t, err)
	assert.Error(t, p.Ping(ctx))
	assert.Error(t, p.EnsureSchema(ctx, "users", "CREATE TABLE users ()"))
	assert.NoError(t, p.Disconnect(ctx))
}
