package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"booking-registry/internal/application"
	"booking-registry/internal/domain"
	"booking-registry/internal/infrastructure/logx"

	"github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

var _ application.BookingRepo = (*BookingRepo)(nil)

type BookingRepo struct{ db *DB }

func NewBookingRepo(db *DB) *BookingRepo { return &BookingRepo{db: db} }

func (r *BookingRepo) GetByIdempotencyKey(ctx context.Context, key string) (domain.Booking, error) {
	const q = `
        SELECT id, tenant_id, start_time_utc, idempotency_key, created_at
        FROM bookings WHERE idempotency_key = ?`
	b, err := scanBooking(r.db.SQL.QueryRowContext(ctx, q, key))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Booking{}, application.ErrNotFound
	}
	if err != nil {
		logx.WithFields(ctx).Error("sql.query_failed",
			zap.String("repo", "booking"),
			zap.String("operation", "GetByIdempotencyKey"),
			zap.Error(err),
		)
		return domain.Booking{}, fmt.Errorf("get booking by idempotency key: %w", err)
	}
	return b, nil
}

func (r *BookingRepo) Insert(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	const ins = `
        INSERT INTO bookings(tenant_id, start_time_utc, idempotency_key, created_at)
        VALUES (?, ?, ?, ?)`
	log := logx.WithFields(ctx).With(
		zap.String("repo", "booking"),
		zap.String("operation", "Insert"),
		zap.String("tenant_id", b.TenantID),
		zap.String("idempotency_key", b.IdempotencyKey),
	)
	b.CreatedAt = b.CreatedAt.UTC()
	res, err := r.db.SQL.ExecContext(ctx, ins, b.TenantID, b.StartTimeUTC, b.IdempotencyKey, b.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		if cv := constraintViolation(err); cv != nil {
			log.Info("sql.exec_unique_violation", zap.String("constraint", string(cv.Constraint)))
			return domain.Booking{}, cv
		}
		log.Error("sql.exec_failed", zap.Error(err))
		return domain.Booking{}, fmt.Errorf("insert booking: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Booking{}, fmt.Errorf("insert booking: last id: %w", err)
	}
	b.ID = id
	log.Debug("sql.exec_success", zap.Int64("id", id))
	return b, nil
}

func (r *BookingRepo) ListByTenant(ctx context.Context, tenantID string) ([]domain.Booking, error) {
	const q = `
        SELECT id, tenant_id, start_time_utc, idempotency_key, created_at
        FROM bookings WHERE tenant_id = ?
        ORDER BY start_time_utc, id`
	rows, err := r.db.SQL.QueryContext(ctx, q, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	out := []domain.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return out, nil
}

func (r *BookingRepo) Ping(ctx context.Context) error { return r.db.Ping(ctx) }

type scanner interface{ Scan(dest ...any) error }

func scanBooking(s scanner) (domain.Booking, error) {
	var (
		b       domain.Booking
		created string
	)
	if err := s.Scan(&b.ID, &b.TenantID, &b.StartTimeUTC, &b.IdempotencyKey, &created); err != nil {
		return domain.Booking{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("parse created_at %q: %w", created, err)
	}
	b.CreatedAt = t.UTC()
	return b, nil
}

// constraintViolation reads the failing columns from the driver message,
// e.g. "UNIQUE constraint failed: bookings.idempotency_key".
func constraintViolation(err error) *application.ConstraintViolationError {
	var se sqlite3.Error
	if !errors.As(err, &se) || se.ExtendedCode != sqlite3.ErrConstraintUnique {
		return nil
	}
	msg := se.Error()
	c := application.ConstraintUnknown
	switch {
	case strings.Contains(msg, "bookings.idempotency_key"):
		c = application.ConstraintIdempotencyKey
	case strings.Contains(msg, "bookings.tenant_id"):
		c = application.ConstraintSlot
	}
	return &application.ConstraintViolationError{Constraint: c, Err: err}
}
