// Package validator provides input validation for the application
package validator

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingField is returned when a required form field is empty
	ErrMissingField = errors.New("missing required field")
	// ErrPasswordMismatch is returned when password and confirmation differ
	ErrPasswordMismatch = errors.New("passwords do not match")
)

// ValidateCredentials validates a login form
func ValidateCredentials(username, password string) error {
	if username == "" {
		return fmt.Errorf("%w: username", ErrMissingField)
	}
	if password == "" {
		return fmt.Errorf("%w: password", ErrMissingField)
	}
	return nil
}

// ValidateSignUp validates a sign-up form
func ValidateSignUp(username, password, confirm string) error {
	if err := ValidateCredentials(username, password); err != nil {
		return err
	}
	if password != confirm {
		return ErrPasswordMismatch
	}
	return nil
}

// ValidateBookInfo validates the fields required to add a book to a collection
func ValidateBookInfo(title, author, coverURL string) error {
	if title == "" {
		return fmt.Errorf("%w: title", ErrMissingField)
	}
	if author == "" {
		return fmt.Errorf("%w: author", ErrMissingField)
	}
	if coverURL == "" {
		return fmt.Errorf("%w: coverUrl", ErrMissingField)
	}
	return nil
}
