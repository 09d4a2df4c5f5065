package errors

import (
	"errors"
	"fmt"
)

var (
	ErrAlreadyExists   = errors.New("already exists")
	ErrNotFound        = errors.New("not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrInvalidEmail    = fmt.Errorf("%w: invalid email", ErrInvalidInput)
	ErrInvalidPrice    = fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	ErrInvalidQuantity = fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
	ErrUserNotFound    = fmt.Errorf("user %w", ErrNotFound)
	ErrOrderNotFound   = fmt.Errorf("order %w", ErrNotFound)

	// ErrInvalidStateTransition is returned when an order leaves a terminal status.
	ErrInvalidStateTransition = errors.New("invalid state transition")
	// ErrOrderNotPayable reports that an order is no longer in the created status.
	ErrOrderNotPayable = fmt.Errorf("order not payable: %w", ErrInvalidStateTransition)

	ErrStorage     = errors.New("storage error")
	ErrLockTimeout = fmt.Errorf("%w: lock acquisition timed out", ErrStorage)
)

// Storage wraps a driver failure so callers can match it with ErrStorage.
// Domain sentinels pass through untouched.
func Storage(err error) error {
	if err == nil {
		return nil
	}
	for _, domain := range []error{ErrNotFound, ErrAlreadyExists, ErrInvalidInput, ErrInvalidStateTransition, ErrStorage} {
		if errors.Is(err, domain) {
			return err
		}
	}
	return fmt.Errorf("%w: %w", ErrStorage, err)
}
