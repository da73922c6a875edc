package client

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/gophauth/internal/client/migrations"
	"github.com/pressly/goose/v3"
	"github.com/samber/oops"
)

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return oops.Code("GOOSE_DIALECT_FAILED").Wrap(err)
	}

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return oops.Code("MIGRATIONS_FAILED").Wrap(err)
	}
	return nil
}

// InitDatabase opens the session database at dsn and brings its schema up
// to date.
func InitDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, oops.Code("DB_OPEN_FAILED").With("dsn", dsn).Wrap(err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
