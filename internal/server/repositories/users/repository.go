// Package users declares the user store and its PostgreSQL implementation.
package users

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

// Repository persists user records keyed by unique e-mail.
type Repository interface {
	// Create inserts a user. A taken e-mail yields common.ErrDuplicateEmail.
	Create(ctx context.Context, email, passwordHash string) (*models.User, error)
	// FindByEmail returns common.ErrorNotFound when no user has that e-mail.
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UpdatePasswordHash(ctx context.Context, userID, passwordHash string) error
}
