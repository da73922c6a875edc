package resetcodes

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

// ErrAttemptsExhausted is returned by ReserveAttempt when the code has no
// attempts left.
var ErrAttemptsExhausted = errors.New("reset code attempts exhausted")

// Repository persists the single outstanding reset code of each user.
type Repository interface {
	// ReplaceForUser removes any existing code of the user and stores a
	// fresh one with zero attempts, stamped with createdAt.
	ReplaceForUser(ctx context.Context, userID string, createdAt time.Time) (*models.ResetCode, error)
	// FindByUserID returns common.ErrorNotFound when the user has no code.
	FindByUserID(ctx context.Context, userID string) (*models.ResetCode, error)
	// ReserveAttempt atomically takes one attempt while fewer than limit
	// were taken and returns the new count. It returns ErrAttemptsExhausted
	// when the limit is reached and common.ErrorNotFound when the code is
	// gone.
	ReserveAttempt(ctx context.Context, id string, limit int) (int, error)
	Delete(ctx context.Context, id string) error
}
