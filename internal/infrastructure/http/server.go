package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"booking-registry/internal/application"
	"booking-registry/internal/domain"
	"booking-registry/internal/infrastructure/logx"

	"github.com/oapi-codegen/runtime"
	"go.uber.org/zap"
)

const (
	headerTenantID       = "X-Tenant-ID"
	headerIdempotencyKey = "X-Idempotency-Key"

	maxBodyBytes = 1 << 20
)

// RateLimiter is satisfied by the redis limiter and its noop twin.
type RateLimiter interface {
	Allow(ctx context.Context, tenantID string) (bool, error)
}

type Observer interface {
	ObserveHTTP(method, route string, status int, d time.Duration)
	Handler() http.Handler
}

type Server struct {
	reg            *application.BookingRegistry
	ping           func(context.Context) error
	limiter        RateLimiter
	metrics        Observer
	requestTimeout time.Duration
}

type Option func(*Server)

func WithReadyCheck(f func(context.Context) error) Option { return func(s *Server) { s.ping = f } }
func WithRateLimiter(l RateLimiter) Option                { return func(s *Server) { s.limiter = l } }
func WithMetrics(m Observer) Option                       { return func(s *Server) { s.metrics = m } }
func WithRequestTimeout(d time.Duration) Option           { return func(s *Server) { s.requestTimeout = d } }

func NewServer(reg *application.BookingRegistry, opts ...Option) *Server {
	s := &Server{reg: reg, ping: reg.Ping}
	for _, o := range opts {
		o(s)
	}
	return s
}

type createRequest struct {
	TenantID       string `json:"tenant_id"`
	StartTimeUTC   string `json:"start_time_utc"`
	IdempotencyKey string `json:"idempotency_key"`
}

type bookingResponse struct {
	ID             int64     `json:"id"`
	TenantID       string    `json:"tenant_id"`
	StartTimeUTC   string    `json:"start_time_utc"`
	IdempotencyKey string    `json:"idempotency_key"`
	CreatedAt      time.Time `json:"created_at"`
}

func toResponse(b domain.Booking) bookingResponse {
	return bookingResponse{
		ID:             b.ID,
		TenantID:       b.TenantID,
		StartTimeUTC:   b.StartTimeUTC,
		IdempotencyKey: b.IdempotencyKey,
		CreatedAt:      b.CreatedAt.UTC(),
	}
}

// CreateBooking handles POST /bookings. The body key wins over the header.
func (s *Server) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var body createRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.IdempotencyKey == "" {
		body.IdempotencyKey = strings.TrimSpace(r.Header.Get(headerIdempotencyKey))
	}
	if !s.allow(w, r, body.TenantID) {
		return
	}
	res, err := s.reg.CreateOrConfirm(r.Context(), body.TenantID, body.StartTimeUTC, body.IdempotencyKey)
	if err != nil {
		s.registryError(w, r, err)
		return
	}
	status := http.StatusCreated
	if res.Status == domain.CreateStatusConfirmedExisting {
		status = http.StatusOK
	}
	writeJSON(w, status, toResponse(res.Booking))
}

// ListBookings handles GET /bookings. Tenant comes from the X-Tenant-ID
// header, else from the tenant_id query parameter.
func (s *Server) ListBookings(w http.ResponseWriter, r *http.Request) {
	tenantID := strings.TrimSpace(r.Header.Get(headerTenantID))
	if tenantID == "" {
		if err := runtime.BindQueryParameter("form", true, false, "tenant_id", r.URL.Query(), &tenantID); err != nil {
			writeError(w, http.StatusBadRequest, "invalid tenant_id")
			return
		}
	}
	if !s.allow(w, r, tenantID) {
		return
	}
	list, err := s.reg.ListByTenant(r.Context(), tenantID)
	if err != nil {
		s.registryError(w, r, err)
		return
	}
	out := make([]bookingResponse, 0, len(list))
	for _, b := range list {
		out = append(out, toResponse(b))
	}
	writeJSON(w, http.StatusOK, out)
}

// allow fails open when the limiter backend is unavailable.
func (s *Server) allow(w http.ResponseWriter, r *http.Request, tenantID string) bool {
	if s.limiter == nil || tenantID == "" {
		return true
	}
	ok, err := s.limiter.Allow(r.Context(), tenantID)
	if err != nil {
		logx.WithFields(r.Context()).Warn("ratelimit.unavailable", zap.Error(err))
		return true
	}
	if !ok {
		writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return false
	}
	return true
}

func (s *Server) registryError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, application.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, application.ErrSlotConflict):
		writeError(w, http.StatusConflict, application.ErrSlotConflict.Error())
	default:
		logx.WithFields(r.Context()).Error("http.store_error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Code: status, Message: msg})
}
