// Package memstore keeps bookings in process memory. Used for STORAGE=memory
// and by transport tests; data is lost on restart.
package memstore

import (
	"context"
	"sort"
	"sync"

	"booking-registry/internal/application"
	"booking-registry/internal/domain"
)

var _ application.BookingRepo = (*BookingRepo)(nil)

type BookingRepo struct {
	mu     sync.RWMutex
	nextID int64
	byKey  map[string]domain.Booking
	bySlot map[domain.Slot]string
}

func NewBookingRepo() *BookingRepo {
	return &BookingRepo{
		byKey:  make(map[string]domain.Booking),
		bySlot: make(map[domain.Slot]string),
	}
}

func (r *BookingRepo) GetByIdempotencyKey(_ context.Context, key string) (domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.byKey[key]
	if !ok {
		return domain.Booking{}, application.ErrNotFound
	}
	return b, nil
}

// Insert checks the key before the slot, the way a single unique index
// scan would hit it first.
func (r *BookingRepo) Insert(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	if err := ctx.Err(); err != nil {
		return domain.Booking{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byKey[b.IdempotencyKey]; ok {
		return domain.Booking{}, &application.ConstraintViolationError{Constraint: application.ConstraintIdempotencyKey}
	}
	if _, ok := r.bySlot[b.Slot()]; ok {
		return domain.Booking{}, &application.ConstraintViolationError{Constraint: application.ConstraintSlot}
	}
	r.nextID++
	b.ID = r.nextID
	b.CreatedAt = b.CreatedAt.UTC()
	r.byKey[b.IdempotencyKey] = b
	r.bySlot[b.Slot()] = b.IdempotencyKey
	return b, nil
}

func (r *BookingRepo) ListByTenant(_ context.Context, tenantID string) ([]domain.Booking, error) {
	r.mu.RLock()
	out := []domain.Booking{}
	for _, b := range r.byKey {
		if b.TenantID == tenantID {
			out = append(out, b)
		}
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartTimeUTC != out[j].StartTimeUTC {
			return out[i].StartTimeUTC < out[j].StartTimeUTC
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *BookingRepo) Ping(context.Context) error { return nil }
