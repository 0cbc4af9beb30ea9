// Package form holds the signup form state, its validity predicate and the
// controller that keeps both in sync with the page while identifier checks
// are in flight.
package form

import (
	"errors"
	"strings"
)

var (
	ErrIdentifierNotVerified = errors.New("identifier has not been checked for availability")
	ErrPasswordRequired      = errors.New("password and confirmation are required")
	ErrPasswordMismatch      = errors.New("password confirmation does not match")
	ErrDisplayNameRequired   = errors.New("name is required")
	ErrEmailRequired         = errors.New("email is required")
	ErrTermsNotAccepted      = errors.New("terms must be accepted")
)

// FormState is the transient content of the signup form.
// IdentifierVerified is true only right after a successful availability
// check of the current Identifier value.
type FormState struct {
	Identifier           string
	IdentifierVerified   bool
	Password             string
	PasswordConfirmation string
	DisplayName          string
	Email                string
	TermsAccepted        bool
}

// Validate returns the first predicate the state fails, or nil when the
// form may be submitted. Password equality is exact: no trimming, case-sensitive.
func Validate(s FormState) error {
	switch {
	case !s.IdentifierVerified:
		return ErrIdentifierNotVerified
	case blank(s.Password) || blank(s.PasswordConfirmation):
		return ErrPasswordRequired
	case s.Password != s.PasswordConfirmation:
		return ErrPasswordMismatch
	case blank(s.DisplayName):
		return ErrDisplayNameRequired
	case blank(s.Email):
		return ErrEmailRequired
	case !s.TermsAccepted:
		return ErrTermsNotAccepted
	}
	return nil
}

// Evaluate reports whether the submit control should be enabled.
func Evaluate(s FormState) bool {
	return Validate(s) == nil
}

func blank(v string) bool {
	return strings.TrimSpace(v) == ""
}
