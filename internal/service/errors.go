package service

import (
	"errors"
	"fmt"
)

// Error kinds. Entity-specific errors wrap one of these so the transport
// layer can map them with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrValidation   = errors.New("validation failed")
)

var (
	ErrUserNotFound       = kindError{kind: ErrNotFound, msg: "User not found"}
	ErrGoalNotFound       = kindError{kind: ErrNotFound, msg: "Goal not found"}
	ErrResourceNotFound   = kindError{kind: ErrNotFound, msg: "Resource not found"}
	ErrTopicNotFound      = kindError{kind: ErrNotFound, msg: "Topic not found"}
	ErrEmailRegistered    = kindError{kind: ErrConflict, msg: "Email already registered"}
	ErrInvalidCredentials = kindError{kind: ErrUnauthorized, msg: "Invalid email or password"}
	ErrIncorrectPassword  = kindError{kind: ErrUnauthorized, msg: "Old password is incorrect"}
)

// kindError carries a client-facing message and unwraps to its kind.
type kindError struct {
	kind error
	msg  string
}

func (e kindError) Error() string { return e.msg }

func (e kindError) Unwrap() error { return e.kind }

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
