// Package grpcapi exposes the calculator as the quickcalc.v1.Calculator gRPC
// service. Requests and responses are protobuf well-known types, so the
// service needs no generated code on either side.
package grpcapi

import (
	"context"
	"fmt"
	"log"
	"net"
	"time"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/lemonberrylabs/quickcalc/pkg/expr"
	"github.com/lemonberrylabs/quickcalc/pkg/format"
	"github.com/lemonberrylabs/quickcalc/pkg/stdlib"
	"github.com/lemonberrylabs/quickcalc/pkg/store"
	"github.com/lemonberrylabs/quickcalc/pkg/types"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "quickcalc.v1.Calculator"

const (
	evaluateMethod      = "/" + ServiceName + "/Evaluate"
	listFunctionsMethod = "/" + ServiceName + "/ListFunctions"
)

// errorDomain is the ErrorInfo domain attached to evaluation failures.
const errorDomain = "quickcalc"

// CalculatorServer is the server API for the Calculator service.
type CalculatorServer interface {
	Evaluate(context.Context, *wrapperspb.StringValue) (*wrapperspb.DoubleValue, error)
	ListFunctions(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CalculatorServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Evaluate", Handler: evaluateHandler},
		{MethodName: "ListFunctions", Handler: listFunctionsHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "quickcalc/v1/calculator.proto",
}

// RegisterCalculatorServer registers srv on s.
func RegisterCalculatorServer(s grpc.ServiceRegistrar, srv CalculatorServer) {
	s.RegisterService(&serviceDesc, srv)
}

func evaluateHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CalculatorServer).Evaluate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: evaluateMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CalculatorServer).Evaluate(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func listFunctionsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CalculatorServer).ListFunctions(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: listFunctionsMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(CalculatorServer).ListFunctions(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// Server implements the Calculator gRPC service.
type Server struct {
	store store.Store
	grpc  *grpc.Server
}

// New creates a new gRPC server. Evaluations are recorded in s when it is
// non-nil.
func New(s store.Store) *Server {
	srv := &Server{store: s}

	gs := grpc.NewServer(grpc.UnaryInterceptor(logUnary))
	RegisterCalculatorServer(gs, srv)
	srv.grpc = gs

	return srv
}

// Serve starts listening on the given address and serves gRPC requests.
func (s *Server) Serve(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("grpc listen: %w", err)
	}
	return s.ServeListener(lis)
}

// ServeListener serves gRPC requests on an existing listener.
func (s *Server) ServeListener(lis net.Listener) error {
	return s.grpc.Serve(lis)
}

// GracefulStop gracefully stops the gRPC server.
func (s *Server) GracefulStop() {
	s.grpc.GracefulStop()
}

// Evaluate evaluates the expression in the request.
func (s *Server) Evaluate(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.DoubleValue, error) {
	input := req.GetValue()
	if expr.Normalize(input) == "" {
		return nil, status.Error(codes.InvalidArgument, "expression is required")
	}

	v, err := expr.Evaluate(input)
	formatted := ""
	if err == nil {
		formatted = format.Result(v)
	}
	res := types.NewResult(input, v, formatted, err)
	if s.store != nil {
		if _, serr := s.store.Add(ctx, res); serr != nil {
			log.Printf("Failed to record %q in history: %v", input, serr)
		}
	}

	if err != nil {
		return nil, StatusFromError(err).Err()
	}
	return wrapperspb.Double(v), nil
}

// ListFunctions lists the registered functions and constants. Each element
// is a struct with name, kind ("function" or "constant") and description;
// constants also carry their value.
func (s *Server) ListFunctions(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	var items []any
	for _, name := range stdlib.FunctionNames() {
		items = append(items, map[string]any{
			"name":        name,
			"kind":        "function",
			"description": stdlib.Describe(name),
		})
	}
	for _, name := range stdlib.ConstantNames() {
		v, _ := stdlib.Constant(name)
		items = append(items, map[string]any{
			"name":        name,
			"kind":        "constant",
			"value":       v,
			"description": stdlib.Describe(name),
		})
	}
	list, err := structpb.NewList(items)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to build function list: %v", err)
	}
	return list, nil
}

// StatusFromError converts an evaluation error to a gRPC status. Domain
// errors map to OutOfRange, all other kinds to InvalidArgument. The error
// kind travels as the reason of an attached ErrorInfo.
func StatusFromError(err error) *status.Status {
	kind := types.KindOf(err)
	code := codes.InvalidArgument
	if kind == types.KindDomain {
		code = codes.OutOfRange
	}
	st := status.New(code, err.Error())
	if kind == "" {
		return st
	}
	detailed, derr := st.WithDetails(&errdetails.ErrorInfo{Reason: string(kind), Domain: errorDomain})
	if derr != nil {
		return st
	}
	return detailed
}

// KindFromStatus recovers the error kind attached by StatusFromError.
func KindFromStatus(err error) types.ErrorKind {
	st, ok := status.FromError(err)
	if !ok {
		return ""
	}
	for _, d := range st.Details() {
		if info, ok := d.(*errdetails.ErrorInfo); ok && info.GetDomain() == errorDomain {
			return types.ErrorKind(info.GetReason())
		}
	}
	return ""
}

func logUnary(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	log.Printf("grpc %s %s (%s)", info.FullMethod, status.Code(err), time.Since(start))
	return resp, err
}
