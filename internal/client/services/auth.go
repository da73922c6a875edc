// Package services contains application services for the gophauth client.
// The authentication service runs the account flows against the server and
// keeps the signed-in session in the local metadata store.
package services

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	"github.com/dmitrijs2005/gophauth/internal/client/client"
	"github.com/dmitrijs2005/gophauth/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gophauth/internal/dbx"
)

// ErrNotSignedIn is returned by operations that need a session when there
// is none.
var ErrNotSignedIn = errors.New("not signed in")

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Restore: load a session saved by an earlier run, without contacting the server.
//   - Register / Login: authenticate and persist the session.
//   - ForgotPassword / ResetPassword: the e-mailed code flow.
//   - WhoAmI: verify the session with the server; a rejected token ends it.
//   - Logout: forget the session locally.
type AuthService interface {
	Restore(ctx context.Context) (string, error)
	Register(ctx context.Context, email, password string) (*client.Session, error)
	Login(ctx context.Context, email, password string) (*client.Session, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, code, newPassword string) error
	WhoAmI(ctx context.Context) (*client.Identity, error)
	Logout(ctx context.Context) error
	Email() string
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type authService struct {
	client client.Client
	db     *sql.DB

	mu    sync.RWMutex
	email string
}

// NewAuthService constructs an AuthService bound to the given API client and DB.
func NewAuthService(client client.Client, db *sql.DB) AuthService {
	return &authService{client: client, db: db}
}

func (a *authService) getMetadataRepo(db dbx.DBTX) metadata.Repository {
	return metadata.NewSQLiteRepository(db)
}

// Restore reads the saved token and e-mail and hands the token to the
// client. It returns the e-mail, or "" when nothing was saved.
func (a *authService) Restore(ctx context.Context) (string, error) {
	repo := a.getMetadataRepo(a.db)

	token, err := repo.Get(ctx, metadata.KeyToken)
	if err != nil {
		return "", err
	}
	email, err := repo.Get(ctx, metadata.KeyEmail)
	if err != nil {
		return "", err
	}
	if len(token) == 0 || len(email) == 0 {
		return "", nil
	}

	a.client.SetToken(string(token))
	a.setEmail(string(email))
	return string(email), nil
}

func (a *authService) Register(ctx context.Context, email, password string) (*client.Session, error) {
	s, err := a.client.Register(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := a.saveSession(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (a *authService) Login(ctx context.Context, email, password string) (*client.Session, error) {
	s, err := a.client.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := a.saveSession(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// saveSession persists token and e-mail in a single transaction.
func (a *authService) saveSession(ctx context.Context, s *client.Session) error {
	err := dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := a.getMetadataRepo(tx)
		if err := repo.Set(ctx, metadata.KeyToken, []byte(s.Token)); err != nil {
			return err
		}
		return repo.Set(ctx, metadata.KeyEmail, []byte(s.Email))
	})
	if err != nil {
		return err
	}
	a.setEmail(s.Email)
	return nil
}

func (a *authService) ForgotPassword(ctx context.Context, email string) error {
	return a.client.RequestPasswordReset(ctx, email)
}

func (a *authService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	return a.client.ResetPassword(ctx, email, code, newPassword)
}

func (a *authService) WhoAmI(ctx context.Context) (*client.Identity, error) {
	if a.Email() == "" {
		return nil, ErrNotSignedIn
	}

	id, err := a.client.WhoAmI(ctx)
	if errors.Is(err, client.ErrUnauthorized) {
		if lerr := a.Logout(ctx); lerr != nil {
			return nil, errors.Join(err, lerr)
		}
		return nil, err
	}
	return id, err
}

func (a *authService) Logout(ctx context.Context) error {
	a.client.SetToken("")
	a.setEmail("")
	return a.getMetadataRepo(a.db).Delete(ctx, metadata.KeyToken, metadata.KeyEmail)
}

func (a *authService) Email() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.email
}

func (a *authService) setEmail(email string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.email = email
}

// Ping proxies a liveness check to the underlying client.
func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

// Close releases resources held by the underlying client.
func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}
