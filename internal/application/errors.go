package application

import (
	"errors"
	"fmt"

	"booking-registry/internal/domain"
)

var ErrNotFound = domain.ErrNotFound
var ErrInvalidRequest = errors.New("invalid request")
var ErrSlotConflict = errors.New("slot already booked for this tenant and start_time_utc")

// Constraint names the uniqueness rule a rejected insert would have broken.
type Constraint string

const (
	ConstraintUnknown        Constraint = "unknown"
	ConstraintSlot           Constraint = "slot"
	ConstraintIdempotencyKey Constraint = "idempotency_key"
)

// ConstraintViolationError is returned by BookingRepo.Insert when the store
// rejects a row on a unique constraint. Stores that cannot tell which
// constraint fired report ConstraintUnknown.
type ConstraintViolationError struct {
	Constraint Constraint
	Err        error
}

func (e *ConstraintViolationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unique constraint violation (%s): %v", e.Constraint, e.Err)
	}
	return fmt.Sprintf("unique constraint violation (%s)", e.Constraint)
}

func (e *ConstraintViolationError) Unwrap() error { return e.Err }

// AsConstraintViolation reports whether err carries a ConstraintViolationError.
func AsConstraintViolation(err error) (*ConstraintViolationError, bool) {
	var cv *ConstraintViolationError
	if errors.As(err, &cv) {
		return cv, true
	}
	return nil, false
}
