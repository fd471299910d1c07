package grpcapi

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Client calls the Calculator service over an existing connection.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps cc.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Evaluate evaluates an expression remotely. Use KindFromStatus on the
// returned error to get the evaluation error kind.
func (c *Client) Evaluate(ctx context.Context, expression string, opts ...grpc.CallOption) (float64, error) {
	out := new(wrapperspb.DoubleValue)
	if err := c.cc.Invoke(ctx, evaluateMethod, wrapperspb.String(expression), out, opts...); err != nil {
		return 0, err
	}
	return out.GetValue(), nil
}

// ListFunctions returns the raw function and constant listing.
func (c *Client) ListFunctions(ctx context.Context, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, listFunctionsMethod, &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
