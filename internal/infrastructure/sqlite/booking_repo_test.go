package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"booking-registry/internal/application"
	"booking-registry/internal/application/storetest"
	"booking-registry/internal/domain"
	"booking-registry/internal/infrastructure/sqlite"

	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "bookings.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestBookingRepo_Contract(t *testing.T) {
	t.Parallel()
	storetest.Run(t, func(t *testing.T) application.BookingRepo {
		return sqlite.NewBookingRepo(openTemp(t))
	}, storetest.Options{NamesConstraint: true})
}

func TestOpen_ReopenKeepsRows(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "bookings.db")

	db, err := sqlite.Open(ctx, path)
	require.NoError(t, err)
	reg := application.NewBookingRegistry(sqlite.NewBookingRepo(db))
	first, err := reg.CreateOrConfirm(ctx, "t1", "2025-01-01T10:00:00Z", "k1")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = sqlite.Open(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	reg = application.NewBookingRegistry(sqlite.NewBookingRepo(db))
	again, err := reg.CreateOrConfirm(ctx, "t1", "2025-01-01T10:00:00Z", "k1")
	require.NoError(t, err)
	require.Equal(t, domain.CreateStatusConfirmedExisting, again.Status)
	require.Equal(t, first.Booking.ID, again.Booking.ID)
	require.True(t, first.Booking.CreatedAt.Equal(again.Booking.CreatedAt))
}
