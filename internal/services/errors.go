package services

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrMissingUserID   = errors.New("user_id is required")
	ErrInvalidDelta    = errors.New("delta must be a nonzero integer")
	ErrInvalidPoints   = errors.New("points must be a positive integer")
	ErrInvalidPhone    = errors.New("phone is empty after normalization")
	ErrInvalidExpiry   = errors.New("expires_at is not a valid timestamp")
	ErrPersistence     = errors.New("persistence failure")
	ErrValidation      = errors.New("validation failed")
	ErrNothingToUpdate = errors.New("no fields to update")

	ErrBrandNotFound    = errors.New("brand not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrDuplicateSlug    = errors.New("slug already exists")

	// ErrBalanceNotUpdated means the ledger row was written but the cached
	// balance was not incremented.
	ErrBalanceNotUpdated = errors.New("adjustment recorded but balance not updated")
)

// PersistenceError wraps a storage failure with the operation that hit it.
// It matches ErrPersistence and unwraps to the cause.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

func persistence(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}

// validation wraps a request validation message so callers can match
// ErrValidation and still show the message.
func validation(err error) error {
	return fmt.Errorf("%w: %s", ErrValidation, err.Error())
}
