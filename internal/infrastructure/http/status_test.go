package httpserver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"booking-registry/internal/application"
	"booking-registry/internal/domain"
	"booking-registry/internal/infrastructure/memstore"
	"booking-registry/internal/infrastructure/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func Test_readyz(t *testing.T) {
	t.Parallel()
	rec := do(t, setup(), http.MethodGet, "/readyz", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "READY", rec.Body.String())
}

func Test_readyz_FailingCheck(t *testing.T) {
	t.Parallel()
	h := setup(WithReadyCheck(func(context.Context) error { return errors.New("db down") }))
	rec := do(t, h, http.MethodGet, "/readyz", nil, nil)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.JSONEq(t, `{"code":503,"message":"db not ready"}`, rec.Body.String())
}

type stubLimiter struct {
	allowed map[string]bool
	err     error
	seen    []string
}

func (s *stubLimiter) Allow(_ context.Context, tenantID string) (bool, error) {
	s.seen = append(s.seen, tenantID)
	if s.err != nil {
		return false, s.err
	}
	return s.allowed[tenantID], nil
}

func TestRateLimit(t *testing.T) {
	t.Parallel()
	lim := &stubLimiter{allowed: map[string]bool{"ok": true}}
	h := setup(WithRateLimiter(lim))

	rec := do(t, h, http.MethodPost, "/bookings", createRequest{"ok", "s", "k1"}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, h, http.MethodPost, "/bookings", createRequest{"busy", "s", "k2"}, nil)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Equal(t, "rate limit exceeded", decodeError(t, rec).Message)

	rec = do(t, h, http.MethodGet, "/bookings", nil, map[string]string{headerTenantID: "busy"})
	require.Equal(t, http.StatusTooManyRequests, rec.Code)

	require.Equal(t, []string{"ok", "busy", "busy"}, lim.seen)
}

func TestRateLimit_FailsOpen(t *testing.T) {
	t.Parallel()
	h := setup(WithRateLimiter(&stubLimiter{err: errors.New("redis down")}))
	rec := do(t, h, http.MethodPost, "/bookings", createRequest{"t1", "s", "k1"}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()
	reg := prometheus.NewRegistry()
	m := metrics.New(reg, reg)
	registry := application.NewBookingRegistry(memstore.NewBookingRepo(), application.WithRecorder(m))
	h := NewRouter(NewServer(registry, WithMetrics(m)))

	require.Equal(t, http.StatusCreated, do(t, h, http.MethodPost, "/bookings", createRequest{"t1", "s", "k1"}, nil).Code)
	require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/bookings", createRequest{"t1", "s", "k1"}, nil).Code)

	rec := do(t, h, http.MethodGet, "/metrics", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, `booking_registry_operations_total{operation="create_or_confirm",outcome="created"} 1`)
	require.Contains(t, body, `booking_registry_operations_total{operation="create_or_confirm",outcome="confirmed_existing"} 1`)
	require.Contains(t, body, `route="/bookings",status="201"`)
}

func TestRequestTimeoutReachesStore(t *testing.T) {
	t.Parallel()
	var deadline bool
	reg := application.NewBookingRegistry(deadlineRepo{seen: &deadline})
	h := NewRouter(NewServer(reg, WithRequestTimeout(time.Second)))

	req := httptest.NewRequest(http.MethodGet, "/bookings?tenant_id=t1", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, deadline)
}

type deadlineRepo struct {
	*memstore.BookingRepo
	seen *bool
}

func (d deadlineRepo) ListByTenant(ctx context.Context, _ string) ([]domain.Booking, error) {
	_, *d.seen = ctx.Deadline()
	return nil, nil
}
