package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/api"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
)

func TestRun_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	srv := NewGRPCServer("127.0.0.1:0", logging.Nop{}, &fakeAuth{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx)
	}()

	select {
	case err := <-done:
		t.Fatalf("server exited too early: %v", err)
	case <-time.After(150 * time.Millisecond):
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error on graceful stop: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop within timeout after context cancel")
	}
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	t.Parallel()

	srv := NewGRPCServer("127.0.0.1:99999", logging.Nop{}, &fakeAuth{}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := srv.Run(ctx); err == nil {
		t.Fatal("expected error for invalid port, got nil")
	}
}

// startBufconn serves s in-process and returns a connected client.
func startBufconn(t *testing.T, s *GRPCServer) api.AuthServiceClient {
	t.Helper()
	lis := bufconn.Listen(1 << 20)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = s.Serve(ctx, lis)
	}()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()
		cancel()
		<-done
	})
	return api.NewAuthServiceClient(conn)
}

func TestEndToEnd_JSONCodecAndGating(t *testing.T) {
	fa := &fakeAuth{result: sampleResult()}
	s, tokens := newTestServer(t, fa)
	client := startBufconn(t, s)
	ctx := context.Background()

	ping, err := client.Ping(ctx, &emptypb.Empty{})
	require.NoError(t, err)
	assert.Equal(t, "OK", ping.Status)

	created, err := client.CreateUser(ctx, &api.CreateUserRequest{Email: "a@x.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "tok", created.Token)
	assert.Equal(t, "u-1", created.User.ID)
	assert.True(t, sampleResult().User.CreatedAt.Equal(created.User.CreatedAt))

	_, err = client.Refresh(ctx, &emptypb.Empty{})
	requireCode(t, err, codes.Unauthenticated, "missing token")

	token, err := tokens.Issue("u-1", "a@x.com")
	require.NoError(t, err)
	authed := metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+token)

	refreshed, err := client.Refresh(authed, &emptypb.Empty{})
	require.NoError(t, err)
	assert.Equal(t, &api.RefreshResponse{Success: true, UserID: "u-1", Email: "a@x.com"}, refreshed)

	_, err = client.ResetPassword(ctx, &api.ResetPasswordRequest{Email: "a@x.com", Code: "1", NewPassword: "newpassword"})
	requireCode(t, err, codes.InvalidArgument, "")
}
