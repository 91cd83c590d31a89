package application

import (
	"context"

	"booking-registry/internal/domain"
)

// BookingRepo is the persistent store behind the registry. Implementations
// must enforce uniqueness of (tenant_id, start_time_utc) and of
// idempotency_key atomically on Insert.
type BookingRepo interface {
	// GetByIdempotencyKey returns ErrNotFound when no row holds the key.
	GetByIdempotencyKey(ctx context.Context, key string) (domain.Booking, error)
	// Insert assigns the ID and returns the stored row, or a
	// *ConstraintViolationError when a unique constraint rejects it.
	Insert(ctx context.Context, b domain.Booking) (domain.Booking, error)
	ListByTenant(ctx context.Context, tenantID string) ([]domain.Booking, error)
	Ping(ctx context.Context) error
}
