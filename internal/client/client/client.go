package client

import (
	"context"
)

// Session is what a successful register or login leaves behind.
type Session struct {
	Token  string
	UserID string
	Email  string
}

// Identity is the server's view of the current bearer token.
type Identity struct {
	UserID string
	Email  string
}

type Client interface {
	Close() error
	SetToken(token string)
	Register(ctx context.Context, email, password string) (*Session, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, code, newPassword string) error
	WhoAmI(ctx context.Context) (*Identity, error)
	Ping(ctx context.Context) error
}
