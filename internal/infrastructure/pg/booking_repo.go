package pg

import (
	"context"
	"errors"
	"fmt"

	"booking-registry/internal/application"
	"booking-registry/internal/domain"
	"booking-registry/internal/infrastructure/logx"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

const (
	pgUniqueViolation = "23505"

	slotConstraint = "bookings_tenant_slot_key"
	keyConstraint  = "bookings_idempotency_key_key"
)

var _ application.BookingRepo = (*BookingRepo)(nil)

type BookingRepo struct{ db *DB }

func NewBookingRepo(db *DB) *BookingRepo { return &BookingRepo{db: db} }

func (r *BookingRepo) GetByIdempotencyKey(ctx context.Context, key string) (domain.Booking, error) {
	const q = `
        SELECT id, tenant_id, start_time_utc, idempotency_key, created_at
        FROM bookings WHERE idempotency_key=$1`
	log := logx.WithFields(ctx).With(
		zap.String("repo", "booking"),
		zap.String("operation", "GetByIdempotencyKey"),
		zap.String("idempotency_key", key),
	)
	var out domain.Booking
	err := r.db.Pool.QueryRow(ctx, q, key).Scan(&out.ID, &out.TenantID, &out.StartTimeUTC, &out.IdempotencyKey, &out.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		log.Debug("sql.query_no_rows")
		return domain.Booking{}, application.ErrNotFound
	}
	if err != nil {
		log.Error("sql.query_failed", zap.Error(err))
		return domain.Booking{}, fmt.Errorf("get booking by idempotency key: %w", err)
	}
	out.CreatedAt = out.CreatedAt.UTC()
	log.Debug("sql.query_success", zap.Int64("id", out.ID))
	return out, nil
}

func (r *BookingRepo) Insert(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	const ins = `
        INSERT INTO bookings(tenant_id, start_time_utc, idempotency_key, created_at)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at`
	log := logx.WithFields(ctx).With(
		zap.String("repo", "booking"),
		zap.String("operation", "Insert"),
		zap.String("tenant_id", b.TenantID),
		zap.String("start_time_utc", b.StartTimeUTC),
		zap.String("idempotency_key", b.IdempotencyKey),
	)
	log.Debug("sql.exec_start")
	b.CreatedAt = b.CreatedAt.UTC()
	if err := r.db.Pool.QueryRow(ctx, ins, b.TenantID, b.StartTimeUTC, b.IdempotencyKey, b.CreatedAt).Scan(&b.ID, &b.CreatedAt); err != nil {
		if cv := constraintViolation(err); cv != nil {
			log.Info("sql.exec_unique_violation", zap.String("constraint", string(cv.Constraint)))
			return domain.Booking{}, cv
		}
		log.Error("sql.exec_failed", zap.Error(err))
		return domain.Booking{}, fmt.Errorf("insert booking: %w", err)
	}
	// TIMESTAMPTZ keeps microseconds; return the stored value, not the input.
	b.CreatedAt = b.CreatedAt.UTC()
	log.Debug("sql.exec_success", zap.Int64("id", b.ID))
	return b, nil
}

func (r *BookingRepo) ListByTenant(ctx context.Context, tenantID string) ([]domain.Booking, error) {
	// COLLATE "C" keeps the order byte-wise regardless of the database locale.
	const q = `
        SELECT id, tenant_id, start_time_utc, idempotency_key, created_at
        FROM bookings WHERE tenant_id=$1
        ORDER BY start_time_utc COLLATE "C", id`
	rows, err := r.db.Pool.Query(ctx, q, tenantID)
	if err != nil {
		logx.WithFields(ctx).Error("sql.query_failed",
			zap.String("repo", "booking"),
			zap.String("operation", "ListByTenant"),
			zap.Error(err),
		)
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	out := []domain.Booking{}
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(&b.ID, &b.TenantID, &b.StartTimeUTC, &b.IdempotencyKey, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		b.CreatedAt = b.CreatedAt.UTC()
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return out, nil
}

func (r *BookingRepo) Ping(ctx context.Context) error { return r.db.Ping(ctx) }

// constraintViolation maps a unique_violation to the constraint it names.
func constraintViolation(err error) *application.ConstraintViolationError {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgUniqueViolation {
		return nil
	}
	c := application.ConstraintUnknown
	switch pgErr.ConstraintName {
	case slotConstraint:
		c = application.ConstraintSlot
	case keyConstraint:
		c = application.ConstraintIdempotencyKey
	}
	return &application.ConstraintViolationError{Constraint: c, Err: err}
}
