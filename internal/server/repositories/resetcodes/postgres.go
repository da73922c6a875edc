package resetcodes

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/google/uuid"
	"github.com/samber/oops"
)

// PostgresRepository implements Repository over dbx.DBTX. ReplaceForUser
// issues two statements, so callers run it inside a transaction.
type PostgresRepository struct {
	db      dbx.DBTX
	newID   func() string
	newCode func() (string, error)
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db, newID: uuid.NewString, newCode: GenerateCode}
}

func (r *PostgresRepository) ReplaceForUser(ctx context.Context, userID string, createdAt time.Time) (*models.ResetCode, error) {
	code, err := r.newCode()
	if err != nil {
		return nil, err
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM reset_codes WHERE user_id = $1`, userID); err != nil {
		return nil, oops.Code("RESET_CODE_DELETE_BY_USER_FAILED").
			With("operation", "delete reset codes by user").
			With("user_id", userID).
			Wrap(err)
	}

	// A concurrent request may have inserted between the DELETE and here;
	// the conflict clause overwrites its row so one code per user remains.
	query := `
		INSERT INTO reset_codes (id, user_id, code, attempts, created_at)
		VALUES ($1, $2, $3, 0, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET id = EXCLUDED.id, code = EXCLUDED.code, attempts = 0, created_at = EXCLUDED.created_at
		RETURNING id
	`
	rc := &models.ResetCode{UserID: userID, Code: code, CreatedAt: createdAt}

	err = r.db.QueryRowContext(ctx, query, r.newID(), userID, code, createdAt).Scan(&rc.ID)
	if err != nil {
		return nil, oops.Code("RESET_CODE_CREATE_FAILED").
			With("operation", "insert reset code").
			With("user_id", userID).
			Wrap(err)
	}
	return rc, nil
}

func (r *PostgresRepository) FindByUserID(ctx context.Context, userID string) (*models.ResetCode, error) {
	query := `
		SELECT id, user_id, code, attempts, created_at
		FROM reset_codes
		WHERE user_id = $1
	`
	rc := &models.ResetCode{}

	err := r.db.QueryRowContext(ctx, query, userID).
		Scan(&rc.ID, &rc.UserID, &rc.Code, &rc.Attempts, &rc.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, oops.Code("RESET_CODE_FIND_FAILED").
			With("operation", "select reset code by user").
			With("user_id", userID).
			Wrap(err)
	}
	return rc, nil
}

// ReserveAttempt increments the counter only while it is below limit, so
// concurrent callers can never take more than limit attempts between them.
func (r *PostgresRepository) ReserveAttempt(ctx context.Context, id string, limit int) (int, error) {
	query := `
		UPDATE reset_codes SET attempts = attempts + 1
		WHERE id = $1 AND attempts < $2
		RETURNING attempts
	`
	var attempts int

	err := r.db.QueryRowContext(ctx, query, id, limit).Scan(&attempts)
	if err == nil {
		return attempts, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, oops.Code("RESET_CODE_ATTEMPT_FAILED").
			With("operation", "reserve reset code attempt").
			With("id", id).
			Wrap(err)
	}

	// no row updated: either the code is gone or it is used up
	err = r.db.QueryRowContext(ctx, `SELECT attempts FROM reset_codes WHERE id = $1`, id).Scan(&attempts)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, common.ErrorNotFound
		}
		return 0, oops.Code("RESET_CODE_ATTEMPT_FAILED").
			With("operation", "select reset code attempts").
			With("id", id).
			Wrap(err)
	}
	return attempts, ErrAttemptsExhausted
}

// Delete is idempotent: removing an already removed code is not an error.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM reset_codes WHERE id = $1`, id); err != nil {
		return oops.Code("RESET_CODE_DELETE_FAILED").
			With("operation", "delete reset code").
			With("id", id).
			Wrap(err)
	}
	return nil
}
