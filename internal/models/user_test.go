package models

import (
	"reflect"
	"testing"
)

func TestNewUser(t *testing.T) {
	type args struct {
		registration   Registration
		hashedPassword string
	}
	tests := []struct {
		name string
		args args
		want *User
	}{
		{
			name: "Create new user from a complete registration",
			args: args{
				registration: Registration{
					Username:    "testuser",
					Password:    "plain",
					DisplayName: "Test User",
					Email:       "test@example.com",
				},
				hashedPassword: "hashed",
			},
			want: &User{
				ID:             "", // ID is left empty for the repository to populate
				Username:       "testuser",
				HashedPassword: "hashed",
				DisplayName:    "Test User",
				Email:          "test@example.com",
			},
		},
		{
			name: "Create new user from an empty registration",
			args: args{},
			want: &User{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewUser(tt.args.registration, tt.args.hashedPassword); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NewUser() = %v, want %v", got, tt.want)
			}
		})
	}
}
