package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"booking-registry/internal/application"
	httpserver "booking-registry/internal/infrastructure/http"
	"booking-registry/internal/infrastructure/memstore"
	"booking-registry/pkg/client"

	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	reg := application.NewBookingRegistry(memstore.NewBookingRepo())
	srv := httptest.NewServer(httpserver.NewRouter(httpserver.NewServer(reg)))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_RoundTrip(t *testing.T) {
	t.Parallel()
	c := client.New(newServer(t).URL)
	ctx := context.Background()

	first, err := c.CreateOrConfirm(ctx, "t1", "2025-01-01T10:00:00Z", "k1")
	require.NoError(t, err)
	require.True(t, first.Created)
	require.Equal(t, "t1", first.Booking.TenantID)

	again, err := c.CreateOrConfirm(ctx, "t1", "2025-01-01T10:00:00Z", "k1")
	require.NoError(t, err)
	require.False(t, again.Created)
	require.Equal(t, first.Booking.ID, again.Booking.ID)

	_, err = c.CreateOrConfirm(ctx, "t1", "2025-01-01T10:00:00Z", "k2")
	require.ErrorIs(t, err, client.ErrSlotConflict)

	_, err = c.CreateOrConfirm(ctx, "", "2025-01-01T10:00:00Z", "k3")
	require.ErrorIs(t, err, client.ErrInvalidRequest)
	require.Contains(t, err.Error(), "tenant_id")

	list, err := c.ListByTenant(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, list, 1)

	empty, err := c.ListByTenant(ctx, "nobody")
	require.NoError(t, err)
	require.NotNil(t, empty)
	require.Empty(t, empty)
}

// A response lost after the booking was stored is retried and confirmed.
func TestClient_RetryAfterLostResponseConfirms(t *testing.T) {
	t.Parallel()
	reg := application.NewBookingRegistry(memstore.NewBookingRepo())
	api := httpserver.NewRouter(httpserver.NewServer(reg))
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			api.ServeHTTP(httptest.NewRecorder(), r)
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		api.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	c := client.New(srv.URL, client.WithRetry(time.Millisecond, 2*time.Second))
	res, err := c.CreateOrConfirm(context.Background(), "t1", "2025-01-01T10:00:00Z", "k1")
	require.NoError(t, err)
	require.False(t, res.Created)
	require.EqualValues(t, 2, atomic.LoadInt32(&calls))

	list, err := c.ListByTenant(context.Background(), "t1")
	require.NoError(t, err)
	require.Len(t, list, 1)
}
