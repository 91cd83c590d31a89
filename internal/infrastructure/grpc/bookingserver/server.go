package bookingserver

import (
	"context"
	"errors"
	"time"

	"booking-registry/internal/application"
	"booking-registry/internal/domain"
	"booking-registry/internal/infrastructure/grpc/bookingpb"
	"booking-registry/internal/infrastructure/logx"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type Server struct {
	Reg *application.BookingRegistry
	Log *zap.Logger
	bookingpb.UnimplementedBookingServiceServer
}

func NewServer(reg *application.BookingRegistry, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{Reg: reg, Log: log}
}

func (s *Server) CreateOrConfirm(ctx context.Context, req *bookingpb.CreateOrConfirmRequest) (*bookingpb.CreateOrConfirmResponse, error) {
	if req.TraceId != "" {
		ctx = logx.ContextWithTraceID(ctx, req.TraceId)
	}
	res, err := s.Reg.CreateOrConfirm(ctx, req.TenantId, req.StartTimeUtc, req.IdempotencyKey)
	if err != nil {
		return nil, s.toStatus(req.TraceId, "grpc_create", err)
	}
	return &bookingpb.CreateOrConfirmResponse{
		Booking: toProto(res.Booking),
		Status:  string(res.Status),
	}, nil
}

func (s *Server) ListByTenant(ctx context.Context, req *bookingpb.ListByTenantRequest) (*bookingpb.ListByTenantResponse, error) {
	if req.TraceId != "" {
		ctx = logx.ContextWithTraceID(ctx, req.TraceId)
	}
	list, err := s.Reg.ListByTenant(ctx, req.TenantId)
	if err != nil {
		return nil, s.toStatus(req.TraceId, "grpc_list", err)
	}
	out := make([]*bookingpb.Booking, 0, len(list))
	for _, b := range list {
		out = append(out, toProto(b))
	}
	return &bookingpb.ListByTenantResponse{Bookings: out}, nil
}

func (s *Server) toStatus(traceID, event string, err error) error {
	log := s.Log.With(zap.String("trace_id", traceID))
	switch {
	case errors.Is(err, application.ErrInvalidRequest):
		log.Warn(event+".invalid_request", zap.Error(err))
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, application.ErrSlotConflict):
		log.Info(event + ".slot_conflict")
		return status.Error(codes.AlreadyExists, err.Error())
	default:
		log.Error(event+".store_error", zap.Error(err))
		return status.Error(codes.Internal, "internal error")
	}
}

func toProto(b domain.Booking) *bookingpb.Booking {
	return &bookingpb.Booking{
		Id:             b.ID,
		TenantId:       b.TenantID,
		StartTimeUtc:   b.StartTimeUTC,
		IdempotencyKey: b.IdempotencyKey,
		CreatedAt:      b.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}
