package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/GTDGit/catalog_api/internal/utils"
)

// PostgreSQL error classes mapped to application errors.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgNotNullViolation    = "23502"
)

// withTx runs fn inside a transaction, committing when fn returns nil.
func withTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// writeError classifies an insert/update error. A foreign key failure on write
// means the referenced row does not exist.
func writeError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pgUniqueViolation, pgCheckViolation, pgNotNullViolation:
			return fmt.Errorf("%w: %s", utils.ErrConstraintViolation, constraintName(pqErr))
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: referenced row missing (%s)", utils.ErrNotFound, constraintName(pqErr))
		}
	}
	if errors.Is(err, sql.ErrNoRows) {
		return utils.ErrNotFound
	}
	return err
}

// deleteError classifies a delete error. A foreign key failure on delete means
// dependents still reference the row.
func deleteError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pgForeignKeyViolation {
		return fmt.Errorf("%w: %s", utils.ErrProtected, constraintName(pqErr))
	}
	return writeError(err)
}

// notFound turns sql.ErrNoRows into utils.ErrNotFound, keeping what was looked up.
func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, utils.ErrNotFound)
	}
	return err
}

func constraintName(e *pq.Error) string {
	if e.Constraint != "" {
		return e.Constraint
	}
	if e.Detail != "" {
		return e.Detail
	}
	return e.Message
}
