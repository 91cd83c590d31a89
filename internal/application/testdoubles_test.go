package application

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"booking-registry/internal/domain"
)

var (
	ErrRepo = errors.New("repo error")
)

// fakeBookingRepo enforces both unique constraints under a mutex, like a
// store with atomic single-row inserts would.
type fakeBookingRepo struct {
	mu     sync.Mutex
	rows   []domain.Booking
	nextID int64

	// constraint is what Insert reports on a violation; zero means "report
	// the one that fired".
	constraint Constraint
	getErr     error
	insertErr  error
	listErr    error
	// beforeInsert runs after the lookup and before the row is checked,
	// which lets a test slip a competing insert into the race window.
	beforeInsert func()

	lookups int
	inserts int
}

func (f *fakeBookingRepo) GetByIdempotencyKey(_ context.Context, key string) (domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	if f.getErr != nil {
		return domain.Booking{}, f.getErr
	}
	for _, b := range f.rows {
		if b.IdempotencyKey == key {
			return b, nil
		}
	}
	return domain.Booking{}, ErrNotFound
}

func (f *fakeBookingRepo) Insert(_ context.Context, b domain.Booking) (domain.Booking, error) {
	if hook := f.beforeInsert; hook != nil {
		f.beforeInsert = nil
		hook()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserts++
	if f.insertErr != nil {
		return domain.Booking{}, f.insertErr
	}
	for _, r := range f.rows {
		switch {
		case r.IdempotencyKey == b.IdempotencyKey:
			return domain.Booking{}, &ConstraintViolationError{Constraint: f.reported(ConstraintIdempotencyKey)}
		case r.TenantID == b.TenantID && r.StartTimeUTC == b.StartTimeUTC:
			return domain.Booking{}, &ConstraintViolationError{Constraint: f.reported(ConstraintSlot)}
		}
	}
	f.nextID++
	b.ID = f.nextID
	f.rows = append(f.rows, b)
	return b, nil
}

func (f *fakeBookingRepo) reported(fired Constraint) Constraint {
	if f.constraint != "" {
		return f.constraint
	}
	return fired
}

func (f *fakeBookingRepo) ListByTenant(_ context.Context, tenantID string) ([]domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []domain.Booking
	for _, b := range f.rows {
		if b.TenantID == tenantID {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartTimeUTC < out[j].StartTimeUTC })
	return out, nil
}

func (f *fakeBookingRepo) Ping(context.Context) error { return nil }

func (f *fakeBookingRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows)
}

type fakeClock struct{ t time.Time }

func (c fakeClock) Now() time.Time { return c.t }

type memRecorder struct {
	mu   sync.Mutex
	seen []string
}

func (m *memRecorder) RecordOutcome(op, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seen = append(m.seen, op+":"+outcome)
}
