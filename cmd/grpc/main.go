package main

import (
	"context"
	"os/signal"
	"syscall"

	"booking-registry/internal/bootstrap"
	"booking-registry/internal/config"
	"booking-registry/internal/infrastructure/grpc/bookingserver"
	"booking-registry/internal/infrastructure/logx"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func init() { _ = godotenv.Load() }

func main() {
	log := logx.L()
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv, cleanup, err := bootstrap.InitGRPC(ctx)
	if err != nil {
		log.Fatal("bootstrap grpc", zap.Error(err))
	}
	defer cleanup()

	if err := bookingserver.RunServer(ctx, cfg.GRPCAddr, srv, log); err != nil {
		log.Error("grpc server exited", zap.Error(err))
	}
}
