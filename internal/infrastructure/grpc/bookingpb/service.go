package bookingpb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	ServiceName                   = "bookings.v1.BookingService"
	CreateOrConfirmFullMethodName = "/" + ServiceName + "/CreateOrConfirm"
	ListByTenantFullMethodName    = "/" + ServiceName + "/ListByTenant"
)

type BookingServiceServer interface {
	CreateOrConfirm(context.Context, *CreateOrConfirmRequest) (*CreateOrConfirmResponse, error)
	ListByTenant(context.Context, *ListByTenantRequest) (*ListByTenantResponse, error)
}

// UnimplementedBookingServiceServer can be embedded for forward compatibility.
type UnimplementedBookingServiceServer struct{}

func (UnimplementedBookingServiceServer) CreateOrConfirm(context.Context, *CreateOrConfirmRequest) (*CreateOrConfirmResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateOrConfirm not implemented")
}

func (UnimplementedBookingServiceServer) ListByTenant(context.Context, *ListByTenantRequest) (*ListByTenantResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListByTenant not implemented")
}

func RegisterBookingServiceServer(s grpc.ServiceRegistrar, srv BookingServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*BookingServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateOrConfirm", Handler: createOrConfirmHandler},
		{MethodName: "ListByTenant", Handler: listByTenantHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "bookings/v1/booking.proto",
}

func createOrConfirmHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(CreateOrConfirmRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BookingServiceServer).CreateOrConfirm(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: CreateOrConfirmFullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(BookingServiceServer).CreateOrConfirm(ctx, req.(*CreateOrConfirmRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func listByTenantHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ListByTenantRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BookingServiceServer).ListByTenant(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ListByTenantFullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(BookingServiceServer).ListByTenant(ctx, req.(*ListByTenantRequest))
	}
	return interceptor(ctx, in, info, handler)
}

type BookingServiceClient interface {
	CreateOrConfirm(ctx context.Context, in *CreateOrConfirmRequest, opts ...grpc.CallOption) (*CreateOrConfirmResponse, error)
	ListByTenant(ctx context.Context, in *ListByTenantRequest, opts ...grpc.CallOption) (*ListByTenantResponse, error)
}

type bookingServiceClient struct{ cc grpc.ClientConnInterface }

// NewBookingServiceClient sends every call with the JSON content-subtype.
func NewBookingServiceClient(cc grpc.ClientConnInterface) BookingServiceClient {
	return &bookingServiceClient{cc: cc}
}

func (c *bookingServiceClient) CreateOrConfirm(ctx context.Context, in *CreateOrConfirmRequest, opts ...grpc.CallOption) (*CreateOrConfirmResponse, error) {
	out := new(CreateOrConfirmResponse)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, CreateOrConfirmFullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *bookingServiceClient) ListByTenant(ctx context.Context, in *ListByTenantRequest, opts ...grpc.CallOption) (*ListByTenantResponse, error) {
	out := new(ListByTenantResponse)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, ListByTenantFullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
