package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validState() FormState {
	return FormState{
		Identifier:           "abc",
		IdentifierVerified:   true,
		Password:             "Secret1",
		PasswordConfirmation: "Secret1",
		DisplayName:          "Kim",
		Email:                "kim@example.com",
		TermsAccepted:        true,
	}
}

func TestEvaluate_AllCombinations(t *testing.T) {
	// Each bit toggles one predicate of the form between satisfied and broken.
	for mask := 0; mask < 1<<7; mask++ {
		s := validState()
		if mask&1 != 0 {
			s.IdentifierVerified = false
		}
		if mask&2 != 0 {
			s.Password = "  "
		}
		if mask&4 != 0 {
			s.PasswordConfirmation = ""
		}
		if mask&8 != 0 {
			s.PasswordConfirmation = s.PasswordConfirmation + "x"
		}
		if mask&16 != 0 {
			s.DisplayName = "\t"
		}
		if mask&32 != 0 {
			s.Email = ""
		}
		if mask&64 != 0 {
			s.TermsAccepted = false
		}

		assert.Equal(t, mask == 0, Evaluate(s), "mask %07b", mask)
		assert.Equal(t, Evaluate(s), Validate(s) == nil, "mask %07b", mask)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *FormState)
		want   error
	}{
		{
			name:   "valid form",
			mutate: func(s *FormState) {},
			want:   nil,
		},
		{
			name:   "identifier not verified",
			mutate: func(s *FormState) { s.IdentifierVerified = false },
			want:   ErrIdentifierNotVerified,
		},
		{
			name:   "blank password",
			mutate: func(s *FormState) { s.Password, s.PasswordConfirmation = " ", " " },
			want:   ErrPasswordRequired,
		},
		{
			name:   "passwords differ",
			mutate: func(s *FormState) { s.Password, s.PasswordConfirmation = "Secret1", "Secret2" },
			want:   ErrPasswordMismatch,
		},
		{
			name:   "password equality is case sensitive",
			mutate: func(s *FormState) { s.PasswordConfirmation = "secret1" },
			want:   ErrPasswordMismatch,
		},
		{
			name:   "password equality is whitespace sensitive",
			mutate: func(s *FormState) { s.PasswordConfirmation = "Secret1 " },
			want:   ErrPasswordMismatch,
		},
		{
			name:   "blank display name",
			mutate: func(s *FormState) { s.DisplayName = "   " },
			want:   ErrDisplayNameRequired,
		},
		{
			name:   "blank email",
			mutate: func(s *FormState) { s.Email = "" },
			want:   ErrEmailRequired,
		},
		{
			name:   "terms unchecked",
			mutate: func(s *FormState) { s.TermsAccepted = false },
			want:   ErrTermsNotAccepted,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validState()
			tt.mutate(&s)
			assert.ErrorIs(t, Validate(s), tt.want)
			if tt.want == nil {
				assert.NoError(t, Validate(s))
			}
		})
	}
}

func TestFailureMessage(t *testing.T) {
	assert.Equal(t, MsgServerFailure, FailureMessage(&ServerError{StatusCode: 500, Message: "boom"}))
	assert.Equal(t, MsgNetworkFailure, FailureMessage(&NetworkError{Op: "check id"}))
}
