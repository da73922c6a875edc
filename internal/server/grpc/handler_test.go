package grpc

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/api"
	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
)

// ---- fakes ----

type fakeAuth struct {
	result   *services.AuthResult
	identity *services.Identity
	err      error

	calls     []string
	lastEmail string
	lastCode  string
}

func (f *fakeAuth) CreateUser(_ context.Context, email, _ string) (*services.AuthResult, error) {
	f.calls = append(f.calls, "CreateUser")
	f.lastEmail = email
	return f.result, f.err
}

func (f *fakeAuth) Login(_ context.Context, email, _ string) (*services.AuthResult, error) {
	f.calls = append(f.calls, "Login")
	f.lastEmail = email
	return f.result, f.err
}

func (f *fakeAuth) RequestPasswordReset(_ context.Context, email string) error {
	f.calls = append(f.calls, "RequestPasswordReset")
	f.lastEmail = email
	return f.err
}

func (f *fakeAuth) ResetPassword(_ context.Context, email, code, _ string) error {
	f.calls = append(f.calls, "ResetPassword")
	f.lastEmail = email
	f.lastCode = code
	return f.err
}

func (f *fakeAuth) Refresh(ctx context.Context) (*services.Identity, error) {
	f.calls = append(f.calls, "Refresh")
	if f.identity != nil || f.err != nil {
		return f.identity, f.err
	}
	claims, ok := auth.ClaimsFromContext(ctx)
	if !ok {
		return nil, common.Unauthorized("Unauthorized")
	}
	return &services.Identity{UserID: claims.UserID(), Email: claims.Email}, nil
}

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestServer(t *testing.T, fa *fakeAuth) (*GRPCServer, *auth.TokenService) {
	t.Helper()
	tokens, err := auth.NewTokenService(testSecret)
	require.NoError(t, err)
	return NewGRPCServer("127.0.0.1:0", logging.Nop{}, fa, tokens), tokens
}

func requireCode(t *testing.T, err error, code codes.Code, msg string) {
	t.Helper()
	require.Error(t, err)
	st, ok := status.FromError(err)
	require.True(t, ok, "not a status error: %v", err)
	assert.Equal(t, code, st.Code())
	if msg != "" {
		assert.Equal(t, msg, st.Message())
	}
}

func sampleResult() *services.AuthResult {
	return &services.AuthResult{
		Token: "tok",
		User: &models.User{
			ID:        "u-1",
			Email:     "a@x.com",
			CreatedAt: time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC),
		},
	}
}

// ---- tests ----

func TestCreateUser_Success(t *testing.T) {
	fa := &fakeAuth{result: sampleResult()}
	s, _ := newTestServer(t, fa)

	resp, err := s.CreateUser(context.Background(), &api.CreateUserRequest{Email: "a@x.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "tok", resp.Token)
	assert.Equal(t, api.User{ID: "u-1", Email: "a@x.com", CreatedAt: sampleResult().User.CreatedAt}, resp.User)
}

func TestCreateUser_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  *api.CreateUserRequest
	}{
		{"empty email", &api.CreateUserRequest{Password: "password123"}},
		{"bad email", &api.CreateUserRequest{Email: "not-an-email", Password: "password123"}},
		{"short password", &api.CreateUserRequest{Email: "a@x.com", Password: "short"}},
		{"empty password", &api.CreateUserRequest{Email: "a@x.com"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fa := &fakeAuth{result: sampleResult()}
			s, _ := newTestServer(t, fa)

			_, err := s.CreateUser(context.Background(), tt.req)
			requireCode(t, err, codes.InvalidArgument, "")
			assert.Empty(t, fa.calls)
		})
	}
}

func TestCreateUser_ConflictMapsToAlreadyExists(t *testing.T) {
	fa := &fakeAuth{err: common.Conflict("Email already registered")}
	s, _ := newTestServer(t, fa)

	_, err := s.CreateUser(context.Background(), &api.CreateUserRequest{Email: "a@x.com", Password: "password123"})
	requireCode(t, err, codes.AlreadyExists, "Email already registered")
}

func TestLogin_UnauthorizedMapsToUnauthenticated(t *testing.T) {
	fa := &fakeAuth{err: common.Unauthorized("Invalid credentials")}
	s, _ := newTestServer(t, fa)

	_, err := s.Login(context.Background(), &api.LoginRequest{Email: "a@x.com", Password: "x"})
	requireCode(t, err, codes.Unauthenticated, "Invalid credentials")
}

func TestLogin_Success(t *testing.T) {
	fa := &fakeAuth{result: sampleResult()}
	s, _ := newTestServer(t, fa)

	resp, err := s.Login(context.Background(), &api.LoginRequest{Email: "a@x.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "tok", resp.Token)
	assert.Equal(t, "a@x.com", fa.lastEmail)
}

func TestLogin_RequiresFields(t *testing.T) {
	fa := &fakeAuth{}
	s, _ := newTestServer(t, fa)

	_, err := s.Login(context.Background(), &api.LoginRequest{})
	requireCode(t, err, codes.InvalidArgument, "")
	assert.Empty(t, fa.calls)
}

func TestInternalErrorsAreNotLeaked(t *testing.T) {
	fa := &fakeAuth{err: errors.New("pq: connection refused to 10.0.0.5")}
	s, _ := newTestServer(t, fa)

	_, err := s.Login(context.Background(), &api.LoginRequest{Email: "a@x.com", Password: "password123"})
	requireCode(t, err, codes.Internal, "internal error")
}

func TestRequestPasswordReset(t *testing.T) {
	fa := &fakeAuth{}
	s, _ := newTestServer(t, fa)

	resp, err := s.RequestPasswordReset(context.Background(), &api.RequestPasswordResetRequest{Email: "a@x.com"})
	require.NoError(t, err)
	assert.True(t, resp.Success)

	_, err = s.RequestPasswordReset(context.Background(), &api.RequestPasswordResetRequest{})
	requireCode(t, err, codes.InvalidArgument, "")
	assert.Equal(t, []string{"RequestPasswordReset"}, fa.calls)
}

func TestResetPassword(t *testing.T) {
	fa := &fakeAuth{}
	s, _ := newTestServer(t, fa)

	resp, err := s.ResetPassword(context.Background(), &api.ResetPasswordRequest{Email: "a@x.com", Code: "123456", NewPassword: "newpassword"})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "123456", fa.lastCode)
}

func TestResetPassword_BadRequestMapsToInvalidArgument(t *testing.T) {
	fa := &fakeAuth{err: common.BadRequest("Invalid code, 2 attempt(s) remaining")}
	s, _ := newTestServer(t, fa)

	_, err := s.ResetPassword(context.Background(), &api.ResetPasswordRequest{Email: "a@x.com", Code: "000000", NewPassword: "newpassword"})
	requireCode(t, err, codes.InvalidArgument, "Invalid code, 2 attempt(s) remaining")
}

func TestResetPassword_Validation(t *testing.T) {
	for _, req := range []*api.ResetPasswordRequest{
		{Code: "123456", NewPassword: "newpassword"},
		{Email: "a@x.com", NewPassword: "newpassword"},
		{Email: "a@x.com", Code: "123456", NewPassword: "short"},
	} {
		fa := &fakeAuth{}
		s, _ := newTestServer(t, fa)

		_, err := s.ResetPassword(context.Background(), req)
		requireCode(t, err, codes.InvalidArgument, "")
		assert.Empty(t, fa.calls)
	}
}

func TestResetPassword_MalformedCodeReachesService(t *testing.T) {
	for _, code := range []string{"12345", "12a456", " 123456"} {
		fa := &fakeAuth{err: common.BadRequest("Invalid code, 2 attempt(s) remaining")}
		s, _ := newTestServer(t, fa)

		_, err := s.ResetPassword(context.Background(), &api.ResetPasswordRequest{Email: "a@x.com", Code: code, NewPassword: "newpassword"})
		requireCode(t, err, codes.InvalidArgument, "Invalid code, 2 attempt(s) remaining")
		assert.Equal(t, code, fa.lastCode)
	}
}

func TestRefresh(t *testing.T) {
	fa := &fakeAuth{identity: &services.Identity{UserID: "u-1", Email: "a@x.com"}}
	s, _ := newTestServer(t, fa)

	resp, err := s.Refresh(context.Background(), &emptypb.Empty{})
	require.NoError(t, err)
	assert.Equal(t, &api.RefreshResponse{Success: true, UserID: "u-1", Email: "a@x.com"}, resp)
}

func TestRefresh_InvalidTokenMapsToUnauthenticated(t *testing.T) {
	fa := &fakeAuth{err: common.ErrInvalidToken}
	s, _ := newTestServer(t, fa)

	_, err := s.Refresh(context.Background(), &emptypb.Empty{})
	requireCode(t, err, codes.Unauthenticated, "unauthorized")
}

func TestPing(t *testing.T) {
	s, _ := newTestServer(t, &fakeAuth{})

	resp, err := s.Ping(context.Background(), &emptypb.Empty{})
	require.NoError(t, err)
	assert.Equal(t, "OK", resp.Status)
}
