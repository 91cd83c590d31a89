package bookingserver

import (
	"context"
	"errors"
	"fmt"
	"net"

	"booking-registry/internal/infrastructure/grpc/bookingpb"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// RunServer starts a gRPC server and blocks until ctx is done.
func RunServer(ctx context.Context, addr string, srv bookingpb.BookingServiceServer, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	gs := grpc.NewServer(grpc.Creds(insecure.NewCredentials()))
	bookingpb.RegisterBookingServiceServer(gs, srv)
	errCh := make(chan error, 1)
	go func() {
		log.Info("grpc_server_started", zap.String("addr", lis.Addr().String()))
		errCh <- gs.Serve(lis)
	}()
	select {
	case <-ctx.Done():
		log.Info("grpc_server_stopping")
		gs.GracefulStop()
		return nil
	case err := <-errCh:
		if errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return err
	}
}
