package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/api"
	"github.com/dmitrijs2005/gophauth/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
)

type GRPCClient struct {
	endpointURL string
	timeout     time.Duration
	conn        *grpc.ClientConn
	client      api.AuthServiceClient

	mu    sync.RWMutex
	token string
}

func withBearerToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)

	return metadata.NewOutgoingContext(ctx, md)
}

// bearerTokenInterceptor attaches the current session token, if any, to
// every outgoing call.
func (s *GRPCClient) bearerTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if token := s.Token(); token != "" {
		ctx = withBearerToken(ctx, token)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewGRPCClient connects lazily to endpointURL. Every call is bounded by
// timeout when it is positive. Extra dial options are appended after the
// defaults (insecure transport and the bearer interceptor).
func NewGRPCClient(endpointURL string, timeout time.Duration, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, timeout: timeout}
	if err := c.InitGRPCClient(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient(opts ...grpc.DialOption) error {
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.bearerTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(s.endpointURL, opts...)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = api.NewAuthServiceClient(conn)
	return nil
}

func (s *GRPCClient) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

func (s *GRPCClient) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *GRPCClient) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *GRPCClient) Register(ctx context.Context, email, password string) (*Session, error) {
	ctx, cancel := s.callContext(ctx)
	defer cancel()

	resp, err := s.client.CreateUser(ctx, &api.CreateUserRequest{Email: email, Password: password})
	if err != nil {
		return nil, s.mapError(err)
	}
	return s.startSession(resp), nil
}

func (s *GRPCClient) Login(ctx context.Context, email, password string) (*Session, error) {
	ctx, cancel := s.callContext(ctx)
	defer cancel()

	resp, err := s.client.Login(ctx, &api.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, s.mapError(err)
	}
	return s.startSession(resp), nil
}

func (s *GRPCClient) startSession(resp *api.AuthResponse) *Session {
	s.SetToken(resp.Token)
	return &Session{Token: resp.Token, UserID: resp.User.ID, Email: resp.User.Email}
}

func (s *GRPCClient) RequestPasswordReset(ctx context.Context, email string) error {
	ctx, cancel := s.callContext(ctx)
	defer cancel()

	if _, err := s.client.RequestPasswordReset(ctx, &api.RequestPasswordResetRequest{Email: email}); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	ctx, cancel := s.callContext(ctx)
	defer cancel()

	req := &api.ResetPasswordRequest{Email: email, Code: code, NewPassword: newPassword}
	if _, err := s.client.ResetPassword(ctx, req); err != nil {
		return s.mapError(err)
	}
	return nil
}

// WhoAmI asks the server to verify the current token via Refresh.
func (s *GRPCClient) WhoAmI(ctx context.Context) (*Identity, error) {
	ctx, cancel := s.callContext(ctx)
	defer cancel()

	resp, err := s.client.Refresh(ctx, &emptypb.Empty{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return &Identity{UserID: resp.UserID, Email: resp.Email}, nil
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	ctx, cancel := s.callContext(ctx)
	defer cancel()

	resp, err := s.client.Ping(ctx, &emptypb.Empty{})
	if err != nil {
		return s.mapError(err)
	}

	if resp.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

// mapError keeps the server's message for failures shown to the user.
func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return common.Unauthorized(st.Message())
	case codes.AlreadyExists:
		return common.Conflict(st.Message())
	case codes.InvalidArgument:
		return common.BadRequest(st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
