package grpc

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/api"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
)

const minPasswordLength = 8

func invalidArgument(err error) error {
	return status.Error(codes.InvalidArgument, err.Error())
}

func toAuthResponse(r *services.AuthResult) *api.AuthResponse {
	return &api.AuthResponse{
		Token: r.Token,
		User: api.User{
			ID:        r.User.ID,
			Email:     r.User.Email,
			CreatedAt: r.User.CreatedAt,
		},
	}
}

func (s *GRPCServer) CreateUser(ctx context.Context, req *api.CreateUserRequest) (*api.AuthResponse, error) {
	err := validation.Errors{
		"email":    validation.Validate(req.Email, validation.Required, is.Email),
		"password": validation.Validate(req.Password, validation.Required, validation.Length(minPasswordLength, 0)),
	}.Filter()
	if err != nil {
		return nil, invalidArgument(err)
	}

	s.logger.Info(ctx, "Registration request")

	res, err := s.auth.CreateUser(ctx, req.Email, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	s.logger.Info(ctx, "Registered", "user_id", res.User.ID)
	return toAuthResponse(res), nil
}

func (s *GRPCServer) Login(ctx context.Context, req *api.LoginRequest) (*api.AuthResponse, error) {
	err := validation.Errors{
		"email":    validation.Validate(req.Email, validation.Required),
		"password": validation.Validate(req.Password, validation.Required),
	}.Filter()
	if err != nil {
		return nil, invalidArgument(err)
	}

	res, err := s.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return toAuthResponse(res), nil
}

func (s *GRPCServer) RequestPasswordReset(ctx context.Context, req *api.RequestPasswordResetRequest) (*api.SuccessResponse, error) {
	if err := validation.Validate(req.Email, validation.Required); err != nil {
		return nil, invalidArgument(validation.Errors{"email": err})
	}

	if err := s.auth.RequestPasswordReset(ctx, req.Email); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.SuccessResponse{Success: true}, nil
}

func (s *GRPCServer) ResetPassword(ctx context.Context, req *api.ResetPasswordRequest) (*api.SuccessResponse, error) {
	err := validation.Errors{
		"email":       validation.Validate(req.Email, validation.Required),
		"code":        validation.Validate(req.Code, validation.Required),
		"newPassword": validation.Validate(req.NewPassword, validation.Required, validation.Length(minPasswordLength, 0)),
	}.Filter()
	if err != nil {
		return nil, invalidArgument(err)
	}

	if err := s.auth.ResetPassword(ctx, req.Email, req.Code, req.NewPassword); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.SuccessResponse{Success: true}, nil
}

func (s *GRPCServer) Refresh(ctx context.Context, _ *emptypb.Empty) (*api.RefreshResponse, error) {
	id, err := s.auth.Refresh(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.RefreshResponse{Success: true, UserID: id.UserID, Email: id.Email}, nil
}

func (s *GRPCServer) Ping(ctx context.Context, _ *emptypb.Empty) (*api.PingResponse, error) {
	return &api.PingResponse{Status: "OK"}, nil
}
