package integration

import (
	"context"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	grpcapi "github.com/lemonberrylabs/quickcalc/pkg/api/grpc"
	"github.com/lemonberrylabs/quickcalc/pkg/types"
)

func newCalculatorClient(t *testing.T) *grpcapi.Client {
	t.Helper()
	conn, err := grpc.NewClient(grpcAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("failed to dial %s: %v", grpcAddr, err)
	}
	t.Cleanup(func() { conn.Close() })
	return grpcapi.NewClient(conn)
}

// TestGRPC_Evaluate verifies evaluation over the gRPC service.
func TestGRPC_Evaluate(t *testing.T) {
	client := newCalculatorClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	v, err := client.Evaluate(ctx, "45% of 120")
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if v != 54 {
		t.Errorf("Evaluate = %v, want 54", v)
	}
}

// TestGRPC_EvaluateErrors verifies status codes and error kinds.
func TestGRPC_EvaluateErrors(t *testing.T) {
	client := newCalculatorClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := client.Evaluate(ctx, "ln(0)")
	if status.Code(err) != codes.OutOfRange {
		t.Errorf("ln(0): code = %s, want OutOfRange", status.Code(err))
	}
	if grpcapi.KindFromStatus(err) != types.KindDomain {
		t.Errorf("ln(0): kind = %q", grpcapi.KindFromStatus(err))
	}

	_, err = client.Evaluate(ctx, "2..5")
	if status.Code(err) != codes.InvalidArgument {
		t.Errorf("2..5: code = %s, want InvalidArgument", status.Code(err))
	}
}

// TestGRPC_ListFunctions verifies the registry listing.
func TestGRPC_ListFunctions(t *testing.T) {
	client := newCalculatorClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	list, err := client.ListFunctions(ctx)
	if err != nil {
		t.Fatalf("ListFunctions: %v", err)
	}
	if n := len(list.GetValues()); n != 25 {
		t.Errorf("expected 25 entries (21 functions, 4 constants), got %d", n)
	}
}
