package models

import (
	"errors"
	"fmt"
)

var (
	ErrPermDenied    = errors.New("not enough permissions to execute this action")
	ErrNotFound      = errors.New("not found")
	ErrUsernameTaken = errors.New("the username is already taken")
	ErrInvalidFormat = errors.New("invalid format")
	ErrWeakPasswd    = errors.New("weak password")
)

// ValidationError reports an input that violates a stated precondition.
// It is always surfaced with the offending field, never silently corrected.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
