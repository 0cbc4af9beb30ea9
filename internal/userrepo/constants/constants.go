package constants

const (
	UsersCollection = "users"

	FieldID             = "id"
	FieldUsername       = "username"
	FieldHashedPassword = "hashed_password"
	FieldDisplayName    = "display_name"
	FieldEmail          = "email"
	FieldCreatedAt      = "created_at"

	// MaxUsernameLength matches the limit the signup form enforces.
	MaxUsernameLength = 64
)

// UsersTableSchema creates the PostgreSQL users table with a unique username.
const UsersTableSchema = `CREATE TABLE IF NOT EXISTS users (
	id              TEXT PRIMARY KEY,
	username        VARCHAR(64) NOT NULL UNIQUE,
	hashed_password TEXT NOT NULL,
	display_name    VARCHAR(64) NOT NULL,
	email           VARCHAR(254) NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`
