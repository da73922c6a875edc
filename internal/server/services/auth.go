// Package services contains server-side business logic. AuthService covers
// registration, login, the password-reset code exchange and token refresh.
package services

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/cryptox"
	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/mailer"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/resetcodes"
)

const (
	// ResetCodeTTL is how long a reset code is accepted after issue.
	ResetCodeTTL = 10 * time.Minute
	// MaxResetAttempts is the number of wrong guesses a code survives.
	MaxResetAttempts = 3
)

// User-facing messages.
const (
	MsgEmailTaken         = "Email already registered"
	MsgInvalidCredentials = "Invalid credentials"
	MsgInvalidCode        = "Invalid or expired code"
	MsgCodeExpired        = "Code expired, please request a new one"
	MsgTooManyAttempts    = "Too many attempts, please request a new code"
	MsgUnauthorized       = "Unauthorized"
	msgWrongCodeFormat    = "Invalid code, %d attempt(s) remaining"
)

// TokenIssuer mints signed identity tokens. *auth.TokenService implements it.
type TokenIssuer interface {
	Issue(userID, email string) (string, error)
}

// AuthResult is returned by CreateUser and Login.
type AuthResult struct {
	Token string
	User  *models.User
}

// Identity is the verified caller returned by Refresh.
type Identity struct {
	UserID string
	Email  string
}

type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      cryptox.PasswordHasher
	tokens      TokenIssuer
	sender      mailer.Sender
	logger      logging.Logger
	now         func() time.Time
}

func NewAuthService(
	db *sql.DB,
	m repomanager.RepositoryManager,
	hasher cryptox.PasswordHasher,
	tokens TokenIssuer,
	sender mailer.Sender,
	logger logging.Logger,
) *AuthService {
	return &AuthService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		tokens:      tokens,
		sender:      sender,
		logger:      logger.With("module", "auth_service"),
		now:         time.Now,
	}
}

// CreateUser registers a new account and signs the caller in. A taken
// e-mail is reported as a Conflict; other storage errors are returned as is.
func (s *AuthService) CreateUser(ctx context.Context, email, password string) (*AuthResult, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user, err := s.repomanager.Users(s.db).Create(ctx, email, hash)
	if err != nil {
		if errors.Is(err, common.ErrDuplicateEmail) {
			return nil, common.Conflict(MsgEmailTaken)
		}
		return nil, err
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID)
	return s.issue(user)
}

// Login always runs a full hash verification, against DummyHash when the
// e-mail is unknown, so both failure paths cost the same.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.repomanager.Users(s.db).FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	hash := cryptox.DummyHash
	if user != nil {
		hash = user.PasswordHash
	}

	ok, verr := s.hasher.Verify(password, hash)
	if user == nil || verr != nil || !ok {
		s.logger.Warn(ctx, "login failed")
		return nil, common.Unauthorized(MsgInvalidCredentials)
	}

	return s.issue(user)
}

// RequestPasswordReset replaces the user's reset code and hands it to the
// sender. It succeeds for unknown e-mails too, without touching storage,
// and does not fail when delivery does.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.repomanager.Users(s.db).FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil
		}
		return err
	}

	var rc *models.ResetCode
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		rc, err = s.repomanager.ResetCodes(tx).ReplaceForUser(ctx, user.ID, s.now())
		return err
	})
	if err != nil {
		return err
	}

	s.logger.Info(ctx, "password reset requested", "user_id", user.ID)
	if err := s.sender.SendResetCode(ctx, user.Email, rc.Code); err != nil {
		s.logger.Warn(ctx, "reset code not queued", "user_id", user.ID, "error", err)
	}
	return nil
}

// ResetPassword checks, in order, that the code is not expired, that it has
// attempts left and that it matches. Expired and exhausted codes are
// removed. Every comparison consumes one attempt; a matching code is then
// deleted with the password change.
func (s *AuthService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	user, err := s.repomanager.Users(s.db).FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.BadRequest(MsgInvalidCode)
		}
		return err
	}

	codes := s.repomanager.ResetCodes(s.db)
	rc, err := codes.FindByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.BadRequest(MsgInvalidCode)
		}
		return err
	}

	if rc.IsExpired(s.now(), ResetCodeTTL) {
		if err := codes.Delete(ctx, rc.ID); err != nil {
			return err
		}
		return common.BadRequest(MsgCodeExpired)
	}

	if rc.Attempts >= MaxResetAttempts {
		if err := codes.Delete(ctx, rc.ID); err != nil {
			return err
		}
		return common.BadRequest(MsgTooManyAttempts)
	}

	// Concurrent requests see the same snapshot, so the comparison is only
	// made after an attempt has been taken atomically.
	attempts, err := codes.ReserveAttempt(ctx, rc.ID, MaxResetAttempts)
	if err != nil {
		switch {
		case errors.Is(err, resetcodes.ErrAttemptsExhausted):
			if err := codes.Delete(ctx, rc.ID); err != nil {
				return err
			}
			return common.BadRequest(MsgTooManyAttempts)
		case errors.Is(err, common.ErrorNotFound):
			return common.BadRequest(MsgInvalidCode)
		default:
			return err
		}
	}

	if subtle.ConstantTimeCompare([]byte(code), []byte(rc.Code)) != 1 {
		s.logger.Warn(ctx, "wrong reset code", "user_id", user.ID, "attempts", attempts)
		return common.BadRequest(fmt.Sprintf(msgWrongCodeFormat, max(0, MaxResetAttempts-attempts)))
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Users(tx).UpdatePasswordHash(ctx, user.ID, hash); err != nil {
			return err
		}
		return s.repomanager.ResetCodes(tx).Delete(ctx, rc.ID)
	})
	if err != nil {
		return err
	}

	s.logger.Info(ctx, "password reset", "user_id", user.ID)
	return nil
}

// Refresh acknowledges the identity attached to ctx by the auth interceptor.
func (s *AuthService) Refresh(ctx context.Context) (*Identity, error) {
	claims, ok := auth.ClaimsFromContext(ctx)
	if !ok {
		return nil, common.Unauthorized(MsgUnauthorized)
	}
	return &Identity{UserID: claims.UserID(), Email: claims.Email}, nil
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("error issuing token: %w", err)
	}
	return &AuthResult{Token: token, User: user}, nil
}
