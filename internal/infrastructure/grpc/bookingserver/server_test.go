package bookingserver

import (
	"context"
	"errors"
	"net"
	"testing"

	"booking-registry/internal/application"
	"booking-registry/internal/domain"
	"booking-registry/internal/infrastructure/grpc/bookingpb"
	"booking-registry/internal/infrastructure/memstore"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

func dial(t *testing.T, repo application.BookingRepo) bookingpb.BookingServiceClient {
	t.Helper()
	const bufSize = 1024 * 1024
	lis := bufconn.Listen(bufSize)
	t.Cleanup(func() { _ = lis.Close() })

	s := grpc.NewServer()
	bookingpb.RegisterBookingServiceServer(s, NewServer(application.NewBookingRegistry(repo), zap.NewNop()))
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	conn, err := grpc.DialContext(context.Background(), "bufnet",
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithContextDialer(func(context.Context, string) (net.Conn, error) {
			return lis.Dial()
		}),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return bookingpb.NewBookingServiceClient(conn)
}

func TestBookingServer_CreateOrConfirm(t *testing.T) {
	cli := dial(t, memstore.NewBookingRepo())
	ctx := context.Background()
	req := &bookingpb.CreateOrConfirmRequest{TenantId: "t1", StartTimeUtc: "2025-01-01T10:00:00Z", IdempotencyKey: "k1", TraceId: "tid-1"}

	first, err := cli.CreateOrConfirm(ctx, req)
	require.NoError(t, err)
	require.Equal(t, string(domain.CreateStatusCreated), first.Status)
	require.NotZero(t, first.Booking.Id)
	require.Equal(t, "k1", first.Booking.IdempotencyKey)

	again, err := cli.CreateOrConfirm(ctx, req)
	require.NoError(t, err)
	require.Equal(t, string(domain.CreateStatusConfirmedExisting), again.Status)
	require.Equal(t, first.Booking.Id, again.Booking.Id)

	_, err = cli.CreateOrConfirm(ctx, &bookingpb.CreateOrConfirmRequest{TenantId: "t1", StartTimeUtc: "2025-01-01T10:00:00Z", IdempotencyKey: "k2"})
	require.Equal(t, codes.AlreadyExists, status.Code(err))

	_, err = cli.CreateOrConfirm(ctx, &bookingpb.CreateOrConfirmRequest{TenantId: "t1"})
	require.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestBookingServer_ListByTenant(t *testing.T) {
	cli := dial(t, memstore.NewBookingRepo())
	ctx := context.Background()
	for _, r := range []*bookingpb.CreateOrConfirmRequest{
		{TenantId: "t1", StartTimeUtc: "2025-02-01T00:00:00Z", IdempotencyKey: "a"},
		{TenantId: "t1", StartTimeUtc: "2025-01-01T00:00:00Z", IdempotencyKey: "b"},
	} {
		_, err := cli.CreateOrConfirm(ctx, r)
		require.NoError(t, err)
	}

	resp, err := cli.ListByTenant(ctx, &bookingpb.ListByTenantRequest{TenantId: "t1"})
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 2)
	require.Equal(t, "b", resp.Bookings[0].IdempotencyKey)
	require.Equal(t, "a", resp.Bookings[1].IdempotencyKey)

	empty, err := cli.ListByTenant(ctx, &bookingpb.ListByTenantRequest{TenantId: "nobody"})
	require.NoError(t, err)
	require.Empty(t, empty.Bookings)

	_, err = cli.ListByTenant(ctx, &bookingpb.ListByTenantRequest{})
	require.Equal(t, codes.InvalidArgument, status.Code(err))
}

type downRepo struct{ *memstore.BookingRepo }

func (downRepo) GetByIdempotencyKey(context.Context, string) (domain.Booking, error) {
	return domain.Booking{}, errors.New("db is gone")
}

func TestBookingServer_StoreErrorIsInternal(t *testing.T) {
	cli := dial(t, downRepo{memstore.NewBookingRepo()})
	_, err := cli.CreateOrConfirm(context.Background(), &bookingpb.CreateOrConfirmRequest{TenantId: "t", StartTimeUtc: "s", IdempotencyKey: "k"})
	require.Equal(t, codes.Internal, status.Code(err))
	require.NotContains(t, status.Convert(err).Message(), "db is gone")
}

func TestRunServer_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- RunServer(ctx, "127.0.0.1:0", NewServer(application.NewBookingRegistry(memstore.NewBookingRepo()), nil), nil)
	}()
	cancel()
	require.NoError(t, <-done)
}
