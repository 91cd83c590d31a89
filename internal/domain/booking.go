package domain

import "time"

// Booking occupies one slot, the (TenantID, StartTimeUTC) pair, and is
// created at most once per IdempotencyKey. Rows are never updated.
type Booking struct {
	ID             int64
	TenantID       string
	StartTimeUTC   string
	IdempotencyKey string
	CreatedAt      time.Time
}

// Slot identifies the tenant/start-time pair a booking holds.
type Slot struct {
	TenantID     string
	StartTimeUTC string
}

func (b Booking) Slot() Slot {
	return Slot{TenantID: b.TenantID, StartTimeUTC: b.StartTimeUTC}
}
