// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Schedule inference errors.
	ErrMissingScheduleData     = errors.New("missing schedule data")
	ErrUnresolvedCombination   = errors.New("unresolved bin combination")
	ErrAnchorNotFound          = errors.New("no historical anchor in search window")
	ErrEmptyHistoricalDocument = errors.New("historical document contains no dated entries")

	// Collaborator errors. Network and decode failures from the page and
	// calendar collaborators are wrapped here and propagated unchanged.
	ErrFetchFailed = errors.New("fetch failed")

	// Database errors.
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEntry = errors.New("duplicate entry")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}
