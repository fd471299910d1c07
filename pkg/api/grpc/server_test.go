package grpcapi

import (
	"context"
	"net"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"github.com/lemonberrylabs/quickcalc/pkg/store"
	"github.com/lemonberrylabs/quickcalc/pkg/types"
)

func startTestServer(t *testing.T) (string, store.Store, func()) {
	t.Helper()
	s := store.NewMemory(10)
	srv := New(s)

	lis, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	go srv.grpc.Serve(lis)

	return lis.Addr().String(), s, func() {
		srv.grpc.Stop()
	}
}

func dial(t *testing.T, addr string) *grpc.ClientConn {
	t.Helper()
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("failed to dial: %v", err)
	}
	return conn
}

func TestEvaluate(t *testing.T) {
	addr, s, cleanup := startTestServer(t)
	defer cleanup()

	conn := dial(t, addr)
	defer conn.Close()

	client := NewClient(conn)
	ctx := context.Background()

	tests := []struct {
		expr string
		want float64
	}{
		{"2+3*4", 14},
		{"-2^2", 4},
		{"50% of 80", 40},
		{"= 3(2+1)", 9},
	}
	for _, tt := range tests {
		got, err := client.Evaluate(ctx, tt.expr)
		if err != nil {
			t.Fatalf("Evaluate(%q): %v", tt.expr, err)
		}
		if got != tt.want {
			t.Errorf("Evaluate(%q) = %v, want %v", tt.expr, got, tt.want)
		}
	}

	entries, _ := s.List(ctx, 0)
	if len(entries) != len(tests) {
		t.Errorf("expected %d history entries, got %d", len(tests), len(entries))
	}
}

func TestEvaluateErrors(t *testing.T) {
	addr, _, cleanup := startTestServer(t)
	defer cleanup()

	conn := dial(t, addr)
	defer conn.Close()

	client := NewClient(conn)
	ctx := context.Background()

	tests := []struct {
		expr string
		code codes.Code
		kind types.ErrorKind
	}{
		{"2 # 2", codes.InvalidArgument, types.KindLex},
		{"2+3)", codes.InvalidArgument, types.KindSyntax},
		{"*", codes.InvalidArgument, types.KindArithmetic},
		{"1/0", codes.OutOfRange, types.KindDomain},
		{"", codes.InvalidArgument, ""},
	}
	for _, tt := range tests {
		_, err := client.Evaluate(ctx, tt.expr)
		if err == nil {
			t.Fatalf("Evaluate(%q): expected error", tt.expr)
		}
		if got := status.Code(err); got != tt.code {
			t.Errorf("Evaluate(%q) code = %s, want %s", tt.expr, got, tt.code)
		}
		if got := KindFromStatus(err); got != tt.kind {
			t.Errorf("Evaluate(%q) kind = %q, want %q", tt.expr, got, tt.kind)
		}
	}
}

func TestListFunctions(t *testing.T) {
	addr, _, cleanup := startTestServer(t)
	defer cleanup()

	conn := dial(t, addr)
	defer conn.Close()

	list, err := NewClient(conn).ListFunctions(context.Background())
	if err != nil {
		t.Fatalf("ListFunctions: %v", err)
	}
	var functions, constants int
	for _, v := range list.GetValues() {
		fields := v.GetStructValue().GetFields()
		switch fields["kind"].GetStringValue() {
		case "function":
			functions++
		case "constant":
			constants++
			if fields["name"].GetStringValue() == "pi" && fields["value"].GetNumberValue() < 3.14 {
				t.Errorf("pi value = %v", fields["value"].GetNumberValue())
			}
		}
	}
	if functions != 21 || constants != 4 {
		t.Errorf("got %d functions and %d constants, want 21 and 4", functions, constants)
	}
}
