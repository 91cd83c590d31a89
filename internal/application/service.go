package application

import (
	"context"
	"errors"

	"booking-registry/internal/domain"

	"go.uber.org/zap"
)

// CreateResult is the outcome of a successful CreateOrConfirm.
type CreateResult struct {
	Booking domain.Booking
	Status  domain.CreateStatus
}

// OutcomeRecorder receives one outcome label per registry call.
type OutcomeRecorder interface {
	RecordOutcome(operation, outcome string)
}

const (
	OutcomeCreated           = "created"
	OutcomeConfirmedExisting = "confirmed_existing"
	OutcomeSlotConflict      = "slot_conflict"
	OutcomeInvalidRequest    = "invalid_request"
	OutcomeStoreError        = "store_error"
	OutcomeOK                = "ok"
)

// BookingRegistry mediates every read and write of bookings. It holds no
// mutable state of its own; both uniqueness rules are enforced by the repo.
type BookingRegistry struct {
	repo     BookingRepo
	clock    Clock
	log      *zap.Logger
	recorder OutcomeRecorder
}

type Option func(*BookingRegistry)

func WithClock(c Clock) Option              { return func(s *BookingRegistry) { s.clock = c } }
func WithLogger(l *zap.Logger) Option       { return func(s *BookingRegistry) { s.log = l } }
func WithRecorder(r OutcomeRecorder) Option { return func(s *BookingRegistry) { s.recorder = r } }

func NewBookingRegistry(repo BookingRepo, opts ...Option) *BookingRegistry {
	s := &BookingRegistry{repo: repo}
	for _, opt := range opts {
		opt(s)
	}
	if s.clock == nil {
		s.clock = realClock{}
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.recorder == nil {
		s.recorder = noopRecorder{}
	}
	return s
}

// CreateOrConfirm books the slot for tenantID at startTimeUTC, or returns the
// booking already stored under idempotencyKey. A replayed key always wins,
// even if tenantID or startTimeUTC differ from the stored row.
//
// The lookup-then-insert sequence is racy: a concurrent caller may
// insert between the two steps, and the resulting constraint violation is
// resolved by looking the key up again.
func (s *BookingRegistry) CreateOrConfirm(ctx context.Context, tenantID, startTimeUTC, idempotencyKey string) (CreateResult, error) {
	const op = "create_or_confirm"
	log := s.log.With(
		zap.String("tenant_id", tenantID),
		zap.String("start_time_utc", startTimeUTC),
		zap.String("idempotency_key", idempotencyKey),
	)

	if err := validateInput(createInput{
		TenantID:       tenantID,
		StartTimeUTC:   startTimeUTC,
		IdempotencyKey: idempotencyKey,
	}); err != nil {
		s.recorder.RecordOutcome(op, OutcomeInvalidRequest)
		log.Info("booking.invalid_request", zap.Error(err))
		return CreateResult{}, err
	}

	existing, found, err := s.lookupByKey(ctx, idempotencyKey)
	if err != nil {
		return s.storeError(op, log, err)
	}
	if found {
		return s.confirmed(op, log, existing, "lookup"), nil
	}

	created, err := s.repo.Insert(ctx, domain.Booking{
		TenantID:       tenantID,
		StartTimeUTC:   startTimeUTC,
		IdempotencyKey: idempotencyKey,
		CreatedAt:      s.clock.Now().UTC(),
	})
	if err == nil {
		s.recorder.RecordOutcome(op, OutcomeCreated)
		log.Info("booking.created", zap.Int64("id", created.ID))
		return CreateResult{Booking: created, Status: domain.CreateStatusCreated}, nil
	}

	cv, ok := AsConstraintViolation(err)
	if !ok {
		return s.storeError(op, log, err)
	}

	// Which constraint fired does not decide the outcome: a racing caller
	// holding the same key may also hold the same slot, so the key is
	// always re-checked first.
	existing, found, lerr := s.lookupByKey(ctx, idempotencyKey)
	if lerr != nil {
		return s.storeError(op, log, lerr)
	}
	if found {
		return s.confirmed(op, log, existing, "race"), nil
	}
	if cv.Constraint == ConstraintIdempotencyKey {
		// The store rejected the key yet no row holds it; rows are never
		// deleted by this system, so surface it as a store failure.
		return s.storeError(op, log, err)
	}

	s.recorder.RecordOutcome(op, OutcomeSlotConflict)
	log.Info("booking.slot_conflict", zap.String("constraint", string(cv.Constraint)))
	return CreateResult{}, ErrSlotConflict
}

// ListByTenant returns the tenant's bookings ordered by StartTimeUTC. A
// tenant without bookings yields an empty, non-nil slice.
func (s *BookingRegistry) ListByTenant(ctx context.Context, tenantID string) ([]domain.Booking, error) {
	const op = "list_by_tenant"
	if err := validateInput(listInput{TenantID: tenantID}); err != nil {
		s.recorder.RecordOutcome(op, OutcomeInvalidRequest)
		return nil, err
	}
	out, err := s.repo.ListByTenant(ctx, tenantID)
	if err != nil {
		s.recorder.RecordOutcome(op, OutcomeStoreError)
		s.log.Error("booking.list_failed", zap.String("tenant_id", tenantID), zap.Error(err))
		return nil, err
	}
	if out == nil {
		out = []domain.Booking{}
	}
	s.recorder.RecordOutcome(op, OutcomeOK)
	return out, nil
}

// Ping reports whether the underlying store is reachable.
func (s *BookingRegistry) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

func (s *BookingRegistry) lookupByKey(ctx context.Context, key string) (domain.Booking, bool, error) {
	b, err := s.repo.GetByIdempotencyKey(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return domain.Booking{}, false, nil
	}
	if err != nil {
		return domain.Booking{}, false, err
	}
	return b, true, nil
}

func (s *BookingRegistry) confirmed(op string, log *zap.Logger, b domain.Booking, path string) CreateResult {
	s.recorder.RecordOutcome(op, OutcomeConfirmedExisting)
	log.Info("booking.confirmed_existing", zap.Int64("id", b.ID), zap.String("path", path))
	return CreateResult{Booking: b, Status: domain.CreateStatusConfirmedExisting}
}

func (s *BookingRegistry) storeError(op string, log *zap.Logger, err error) (CreateResult, error) {
	s.recorder.RecordOutcome(op, OutcomeStoreError)
	log.Error("booking.store_error", zap.Error(err))
	return CreateResult{}, err
}

type noopRecorder struct{}

func (noopRecorder) RecordOutcome(string, string) {}
