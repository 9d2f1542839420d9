package server

import (
	"context"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/alfredjeanlab/eventlog/internal/identity"
)

// stubHandler is a no-op gRPC handler used in interceptor tests.
func stubHandler(_ context.Context, _ any) (any, error) {
	return "ok", nil
}

var listInfo = &grpc.UnaryServerInfo{FullMethod: "/eventlog.v1.EventLog/ListEvents"}

func TestAuthInterceptor_Disabled(t *testing.T) {
	resp, err := AuthInterceptor(nil)(context.Background(), nil, listInfo, stubHandler)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if resp != "ok" {
		t.Fatalf("expected 'ok', got %v", resp)
	}
}

func TestAuthInterceptor_HealthExempt(t *testing.T) {
	interceptor := AuthInterceptor(identity.NewVerifier("secret"))
	info := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}
	if _, err := interceptor(context.Background(), nil, info, stubHandler); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestAuthExempt(t *testing.T) {
	for method, want := range map[string]bool{
		"/grpc.health.v1.Health/Check":                                   true,
		"/grpc.health.v1.Health/Watch":                                   true,
		"/grpc.reflection.v1.ServerReflection/ServerReflectionInfo":      false,
		"/grpc.reflection.v1alpha.ServerReflection/ServerReflectionInfo": false,
		"/eventlog.v1.EventLog/ListEvents":                               false,
	} {
		if got := authExempt(method); got != want {
			t.Errorf("authExempt(%q) = %v, want %v", method, got, want)
		}
	}
}

func TestAuthInterceptor_Rejects(t *testing.T) {
	interceptor := AuthInterceptor(identity.NewVerifier("secret"))

	tests := []struct {
		name string
		ctx  context.Context
	}{
		{"missing metadata", context.Background()},
		{"missing header", metadata.NewIncomingContext(context.Background(), metadata.Pairs("other", "value"))},
		{"wrong scheme", metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Token abc"))},
		{"bad token", metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer abc"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := interceptor(tt.ctx, nil, listInfo, stubHandler)
			if status.Code(err) != codes.Unauthenticated {
				t.Fatalf("expected Unauthenticated, got %v", err)
			}
		})
	}
}

func TestAuthInterceptor_StoresIdentity(t *testing.T) {
	v := identity.NewVerifier("secret")
	token, err := v.Issue(identity.User(8), 0)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "Bearer "+token))

	var got identity.Identity
	_, err = AuthInterceptor(v)(ctx, nil, listInfo, func(ctx context.Context, _ any) (any, error) {
		got = identity.FromContext(ctx)
		return nil, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ActorID == nil || *got.ActorID != 8 {
		t.Fatalf("identity = %v", got)
	}
}

func TestRecoveryInterceptor(t *testing.T) {
	_, err := RecoveryInterceptor(context.Background(), nil, listInfo, func(context.Context, any) (any, error) {
		panic("boom")
	})
	if status.Code(err) != codes.Internal {
		t.Fatalf("expected Internal, got %v", err)
	}
}

func TestLoggingInterceptor_PassesThrough(t *testing.T) {
	wantErr := status.Error(codes.NotFound, "missing")
	_, err := LoggingInterceptor(context.Background(), nil, listInfo, func(context.Context, any) (any, error) {
		return nil, wantErr
	})
	if err != wantErr {
		t.Fatalf("expected handler error, got %v", err)
	}
}
