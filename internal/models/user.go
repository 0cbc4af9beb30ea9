package models

import "time"

// User represents an internal user model for the application/database.
type User struct {
	ID             string    `bson:"-" mapstructure:"id" db:"id"`
	Username       string    `bson:"username" mapstructure:"username" db:"username"`
	HashedPassword string    `bson:"hashed_password" mapstructure:"hashed_password" db:"hashed_password"`
	DisplayName    string    `bson:"display_name" mapstructure:"display_name" db:"display_name"`
	Email          string    `bson:"email" mapstructure:"email" db:"email"`
	CreatedAt      time.Time `bson:"created_at" mapstructure:"created_at" db:"created_at"`
}

// Registration carries the plain-text signup data accepted by the user service.
type Registration struct {
	Username    string
	Password    string
	DisplayName string
	Email       string
}

// NewUser creates a new User instance from a registration and an already hashed password.
// Note: No validation is performed here.
func NewUser(registration Registration, hashedPassword string) *User {
	return &User{
		Username:       registration.Username,
		HashedPassword: hashedPassword,
		DisplayName:    registration.DisplayName,
		Email:          registration.Email,
	}
}
