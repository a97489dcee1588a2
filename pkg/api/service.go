package api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "photorad.v1.PhotoRad"

const (
	computeDLIMethod       = "/" + ServiceName + "/ComputeDLI"
	describeLocationMethod = "/" + ServiceName + "/DescribeLocation"
	analyzePlantsMethod    = "/" + ServiceName + "/AnalyzePlants"
)

// PhotoRadServer is the server API for the PhotoRad service
type PhotoRadServer interface {
	ComputeDLI(context.Context, *ComputeDLIRequest) (*ComputeDLIResponse, error)
	DescribeLocation(context.Context, *DescribeLocationRequest) (*DescribeLocationResponse, error)
	AnalyzePlants(context.Context, *AnalyzePlantsRequest) (*AnalyzePlantsResponse, error)
}

// UnimplementedPhotoRadServer can be embedded for forward compatibility
type UnimplementedPhotoRadServer struct{}

func (UnimplementedPhotoRadServer) ComputeDLI(context.Context, *ComputeDLIRequest) (*ComputeDLIResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ComputeDLI not implemented")
}

func (UnimplementedPhotoRadServer) DescribeLocation(context.Context, *DescribeLocationRequest) (*DescribeLocationResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method DescribeLocation not implemented")
}

func (UnimplementedPhotoRadServer) AnalyzePlants(context.Context, *AnalyzePlantsRequest) (*AnalyzePlantsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method AnalyzePlants not implemented")
}

// RegisterPhotoRadServer registers srv with a gRPC server
func RegisterPhotoRadServer(s grpc.ServiceRegistrar, srv PhotoRadServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// ServiceDesc describes the PhotoRad service to grpc.Server
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PhotoRadServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ComputeDLI", Handler: computeDLIHandler},
		{MethodName: "DescribeLocation", Handler: describeLocationHandler},
		{MethodName: "AnalyzePlants", Handler: analyzePlantsHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "photorad/v1/photorad",
}

func computeDLIHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ComputeDLIRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PhotoRadServer).ComputeDLI(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: computeDLIMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(PhotoRadServer).ComputeDLI(ctx, req.(*ComputeDLIRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func describeLocationHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(DescribeLocationRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PhotoRadServer).DescribeLocation(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: describeLocationMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(PhotoRadServer).DescribeLocation(ctx, req.(*DescribeLocationRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func analyzePlantsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(AnalyzePlantsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PhotoRadServer).AnalyzePlants(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: analyzePlantsMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(PhotoRadServer).AnalyzePlants(ctx, req.(*AnalyzePlantsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// Client calls the PhotoRad service, always with the JSON codec
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps a client connection
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	return c.cc.Invoke(ctx, method, in, out, opts...)
}

// ComputeDLI returns per-point DLI statistics of a dataset
func (c *Client) ComputeDLI(ctx context.Context, in *ComputeDLIRequest, opts ...grpc.CallOption) (*ComputeDLIResponse, error) {
	out := new(ComputeDLIResponse)
	if err := c.invoke(ctx, computeDLIMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

// DescribeLocation returns the profile of a weather file's site
func (c *Client) DescribeLocation(ctx context.Context, in *DescribeLocationRequest, opts ...grpc.CallOption) (*DescribeLocationResponse, error) {
	out := new(DescribeLocationResponse)
	if err := c.invoke(ctx, describeLocationMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

// AnalyzePlants runs plant selection for a site and grid
func (c *Client) AnalyzePlants(ctx context.Context, in *AnalyzePlantsRequest, opts ...grpc.CallOption) (*AnalyzePlantsResponse, error) {
	out := new(AnalyzePlantsResponse)
	if err := c.invoke(ctx, analyzePlantsMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}
