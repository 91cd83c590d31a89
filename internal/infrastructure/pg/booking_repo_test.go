package pg_test

import (
	"context"
	"testing"

	"booking-registry/internal/application"
	"booking-registry/internal/application/storetest"
	"booking-registry/internal/infrastructure/pg"

	"github.com/stretchr/testify/require"
)

func TestBookingRepo_Contract(t *testing.T) {
	db := withPostgres(t)

	storetest.Run(t, func(t *testing.T) application.BookingRepo {
		_, err := db.Pool.Exec(context.Background(), `TRUNCATE bookings RESTART IDENTITY`)
		require.NoError(t, err)
		return pg.NewBookingRepo(db)
	}, storetest.Options{NamesConstraint: true})
}

func TestRunMigrations_Idempotent(t *testing.T) {
	db := withPostgres(t)
	require.NoError(t, pg.RunMigrations(context.Background(), db))
}
