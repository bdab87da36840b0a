package store

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation wraps any bad-input rejection raised before a mutation.
	ErrValidation = errors.New("validation failed")

	// ErrDuplicateUsername is returned by RegisterUser when the username is
	// already taken (case-sensitive exact match).
	ErrDuplicateUsername = errors.New("username already exists")

	// ErrSelfDeletionForbidden is returned by DeleteUser when the target is
	// the currently signed-in user.
	ErrSelfDeletionForbidden = errors.New("cannot delete your own account")

	// ErrUserNotFound is returned by user mutations targeting an unknown id.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidTransition is returned by UpdateOrderStatus for a move the
	// order state machine does not allow.
	ErrInvalidTransition = errors.New("invalid order status transition")
)

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
