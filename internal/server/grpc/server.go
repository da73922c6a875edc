// Package grpc exposes the auth service over gRPC: the server lifecycle,
// request handlers, the bearer-token interceptor and the mapping of service
// errors to status codes.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/api"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"google.golang.org/grpc"
)

// AuthService is the business logic behind the handlers.
// *services.AuthService implements it.
type AuthService interface {
	CreateUser(ctx context.Context, email, password string) (*services.AuthResult, error)
	Login(ctx context.Context, email, password string) (*services.AuthResult, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, code, newPassword string) error
	Refresh(ctx context.Context) (*services.Identity, error)
}

// TokenVerifier checks bearer tokens. *auth.TokenService implements it.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

var _ api.AuthServiceServer = (*GRPCServer)(nil)

const defaultShutdownTimeout = 10 * time.Second

type GRPCServer struct {
	// ShutdownTimeout bounds GracefulStop; in-flight calls still running
	// afterwards are cut off.
	ShutdownTimeout time.Duration

	address   string
	auth      AuthService
	tokens    TokenVerifier
	logger    logging.Logger
	protected map[string]struct{}
}

// NewGRPCServer wires the handlers. Refresh is the only method that
// requires a token; identity is attached to every other call when a valid
// token is present.
func NewGRPCServer(address string, l logging.Logger, as AuthService, tokens TokenVerifier) *GRPCServer {
	return &GRPCServer{
		ShutdownTimeout: defaultShutdownTimeout,
		address:         address,
		logger:          l.With("module", "grpc_server"),
		auth:            as,
		tokens:          tokens,
		protected: map[string]struct{}{
			api.AuthService_Refresh_FullMethodName: {},
		},
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))
	api.RegisterAuthServiceServer(srv, s)
	return srv
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {
	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is done, then stops gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")

		stopped := make(chan struct{})
		go func() {
			srv.GracefulStop()
			close(stopped)
		}()
		select {
		case <-stopped:
		case <-time.After(s.ShutdownTimeout):
			s.logger.Warn(ctx, "graceful stop timed out, closing connections")
			srv.Stop()
		}
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(lis); err != nil {
		return err
	}
	return nil
}
