// Package storetest holds behaviour every application.BookingRepo adapter
// must share. Adapter packages call Run from their own tests.
package storetest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"booking-registry/internal/application"
	"booking-registry/internal/domain"

	"github.com/stretchr/testify/require"
)

// Factory returns an empty repo. Called once per subtest.
type Factory func(t *testing.T) application.BookingRepo

// Options describes what an adapter can tell apart.
type Options struct {
	// NamesConstraint reports whether Insert identifies the violated constraint.
	NamesConstraint bool
}

func Run(t *testing.T, newRepo Factory, opts Options) {
	t.Run("InsertAndGet", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		created := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)

		b, err := repo.Insert(ctx, booking("t1", "2025-01-01T10:00:00Z", "k1", created))
		require.NoError(t, err)
		require.NotZero(t, b.ID)

		got, err := repo.GetByIdempotencyKey(ctx, "k1")
		require.NoError(t, err)
		require.Equal(t, b.ID, got.ID)
		require.Equal(t, "t1", got.TenantID)
		require.Equal(t, "2025-01-01T10:00:00Z", got.StartTimeUTC)
		require.True(t, created.Equal(got.CreatedAt))
		require.Equal(t, time.UTC, got.CreatedAt.Location())
	})

	t.Run("InsertMatchesStoredRow", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		created := time.Date(2025, 1, 1, 10, 0, 0, 123456789, time.UTC)

		inserted, err := repo.Insert(ctx, booking("t1", "2025-01-01T10:00:00Z", "k1", created))
		require.NoError(t, err)
		stored, err := repo.GetByIdempotencyKey(ctx, "k1")
		require.NoError(t, err)
		require.Equal(t, inserted, stored)
		require.True(t, inserted.CreatedAt.Equal(stored.CreatedAt))
	})

	t.Run("GetMissing", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.GetByIdempotencyKey(context.Background(), "nope")
		require.ErrorIs(t, err, application.ErrNotFound)
	})

	t.Run("IdsIncrease", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		var prev int64
		for i := 0; i < 5; i++ {
			b, err := repo.Insert(ctx, booking("t1", fmt.Sprintf("2025-01-0%dT10:00:00Z", i+1), fmt.Sprintf("k%d", i), time.Now()))
			require.NoError(t, err)
			require.Greater(t, b.ID, prev)
			prev = b.ID
		}
	})

	t.Run("SlotViolation", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		_, err := repo.Insert(ctx, booking("t1", "2025-01-01T10:00:00Z", "k1", time.Now()))
		require.NoError(t, err)

		_, err = repo.Insert(ctx, booking("t1", "2025-01-01T10:00:00Z", "k2", time.Now()))
		cv, ok := application.AsConstraintViolation(err)
		require.True(t, ok, "got %v", err)
		if opts.NamesConstraint {
			require.Equal(t, application.ConstraintSlot, cv.Constraint)
		}

		_, err = repo.GetByIdempotencyKey(ctx, "k2")
		require.ErrorIs(t, err, application.ErrNotFound)
	})

	t.Run("KeyViolationAcrossTenants", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		_, err := repo.Insert(ctx, booking("t1", "2025-01-01T10:00:00Z", "k1", time.Now()))
		require.NoError(t, err)

		_, err = repo.Insert(ctx, booking("t2", "2025-02-01T10:00:00Z", "k1", time.Now()))
		cv, ok := application.AsConstraintViolation(err)
		require.True(t, ok, "got %v", err)
		if opts.NamesConstraint {
			require.Equal(t, application.ConstraintIdempotencyKey, cv.Constraint)
		}
	})

	t.Run("SameSlotOtherTenant", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		_, err := repo.Insert(ctx, booking("t1", "2025-01-01T10:00:00Z", "k1", time.Now()))
		require.NoError(t, err)
		_, err = repo.Insert(ctx, booking("t2", "2025-01-01T10:00:00Z", "k2", time.Now()))
		require.NoError(t, err)
	})

	t.Run("ListOrderAndIsolation", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		for i, s := range []string{"2025-03-01T00:00:00Z", "2025-01-01T00:00:00Z", "2025-02-01T00:00:00Z"} {
			_, err := repo.Insert(ctx, booking("t1", s, fmt.Sprintf("a%d", i), time.Now()))
			require.NoError(t, err)
		}
		_, err := repo.Insert(ctx, booking("t2", "2024-01-01T00:00:00Z", "b0", time.Now()))
		require.NoError(t, err)

		got, err := repo.ListByTenant(ctx, "t1")
		require.NoError(t, err)
		require.Len(t, got, 3)
		require.Equal(t, "2025-01-01T00:00:00Z", got[0].StartTimeUTC)
		require.Equal(t, "2025-02-01T00:00:00Z", got[1].StartTimeUTC)
		require.Equal(t, "2025-03-01T00:00:00Z", got[2].StartTimeUTC)
		for _, b := range got {
			require.Equal(t, "t1", b.TenantID)
		}

		empty, err := repo.ListByTenant(ctx, "ghost")
		require.NoError(t, err)
		require.NotNil(t, empty)
		require.Empty(t, empty)
	})

	t.Run("ListByteOrder", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		// Uppercase sorts before lowercase byte-wise.
		for i, s := range []string{"b", "B", "a", "A"} {
			_, err := repo.Insert(ctx, booking("t1", s, fmt.Sprintf("o%d", i), time.Now()))
			require.NoError(t, err)
		}
		got, err := repo.ListByTenant(ctx, "t1")
		require.NoError(t, err)
		order := make([]string, 0, len(got))
		for _, b := range got {
			order = append(order, b.StartTimeUTC)
		}
		require.Equal(t, []string{"A", "B", "a", "b"}, order)
	})

	t.Run("ConcurrentSameSlot", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		const n = 16
		var (
			wg         sync.WaitGroup
			mu         sync.Mutex
			ok, failed int
		)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, err := repo.Insert(ctx, booking("t1", "2025-01-01T10:00:00Z", fmt.Sprintf("c%d", i), time.Now()))
				mu.Lock()
				defer mu.Unlock()
				var cv *application.ConstraintViolationError
				switch {
				case err == nil:
					ok++
				case errors.As(err, &cv):
					failed++
				default:
					t.Errorf("unexpected error: %v", err)
				}
			}(i)
		}
		wg.Wait()
		require.Equal(t, 1, ok)
		require.Equal(t, n-1, failed)
	})

	t.Run("ConcurrentSameKeyViaRegistry", func(t *testing.T) {
		reg := application.NewBookingRegistry(newRepo(t))
		const n = 16
		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			results []application.CreateResult
		)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				res, err := reg.CreateOrConfirm(context.Background(), "t1", "2025-01-01T10:00:00Z", "same-key")
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					t.Errorf("unexpected error: %v", err)
					return
				}
				results = append(results, res)
			}()
		}
		wg.Wait()
		require.Len(t, results, n)

		created := 0
		for _, r := range results {
			if r.Status == domain.CreateStatusCreated {
				created++
			}
			require.Equal(t, results[0].Booking.ID, r.Booking.ID)
		}
		require.Equal(t, 1, created)

		list, err := reg.ListByTenant(context.Background(), "t1")
		require.NoError(t, err)
		require.Len(t, list, 1)
	})

	t.Run("ConcurrentSameSlotViaRegistry", func(t *testing.T) {
		reg := application.NewBookingRegistry(newRepo(t))
		const n = 16
		var (
			wg                sync.WaitGroup
			mu                sync.Mutex
			created, conflict int
		)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				res, err := reg.CreateOrConfirm(context.Background(), "t1", "2025-01-01T10:00:00Z", fmt.Sprintf("slot-%d", i))
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil && res.Status == domain.CreateStatusCreated:
					created++
				case errors.Is(err, application.ErrSlotConflict):
					conflict++
				default:
					t.Errorf("unexpected result: %+v, %v", res, err)
				}
			}(i)
		}
		wg.Wait()
		require.Equal(t, 1, created)
		require.Equal(t, n-1, conflict)
	})

	t.Run("RegistryScenarios", func(t *testing.T) {
		reg := application.NewBookingRegistry(newRepo(t))
		ctx := context.Background()

		first, err := reg.CreateOrConfirm(ctx, "t1", "2025-01-01T10:00:00Z", "k1")
		require.NoError(t, err)
		require.Equal(t, domain.CreateStatusCreated, first.Status)

		again, err := reg.CreateOrConfirm(ctx, "t1", "2025-01-01T10:00:00Z", "k1")
		require.NoError(t, err)
		require.Equal(t, domain.CreateStatusConfirmedExisting, again.Status)
		require.Equal(t, first.Booking.ID, again.Booking.ID)

		_, err = reg.CreateOrConfirm(ctx, "t1", "2025-01-01T10:00:00Z", "k2")
		require.ErrorIs(t, err, application.ErrSlotConflict)

		other, err := reg.CreateOrConfirm(ctx, "t2", "2025-01-01T10:00:00Z", "k3")
		require.NoError(t, err)
		require.Equal(t, domain.CreateStatusCreated, other.Status)

		list, err := reg.ListByTenant(ctx, "t1")
		require.NoError(t, err)
		require.Len(t, list, 1)
	})

	t.Run("Ping", func(t *testing.T) {
		require.NoError(t, newRepo(t).Ping(context.Background()))
	})
}

func booking(tenant, start, key string, created time.Time) domain.Booking {
	return domain.Booking{TenantID: tenant, StartTimeUTC: start, IdempotencyKey: key, CreatedAt: created}
}
