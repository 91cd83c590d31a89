//go:build wireinject

package bootstrap

import (
	"context"

	"booking-registry/internal/infrastructure/grpc/bookingserver"
	httpserver "booking-registry/internal/infrastructure/http"

	"github.com/google/wire"
)

var registrySet = wire.NewSet(
	ProvideLogger,
	ProvideConfig,
	ProvideMetrics,
	ProvideRepo,
	ProvideRegistry,
)

// InitAPI builds the HTTP server and the cleanup for everything it opened.
func InitAPI(ctx context.Context) (*httpserver.Server, func(), error) {
	wire.Build(
		registrySet,
		ProvideRateLimiter,
		ProvideHTTPServer,
	)
	return nil, nil, nil
}

func InitGRPC(ctx context.Context) (*bookingserver.Server, func(), error) {
	wire.Build(
		registrySet,
		ProvideGRPCServer,
	)
	return nil, nil, nil
}
