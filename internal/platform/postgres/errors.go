package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/scholar-api/internal/store"
)

// PostgreSQL error codes
const (
	uniqueViolationCode     = "23505"
	foreignKeyViolationCode = "23503"
	checkViolationCode      = "23514"
	notNullViolationCode    = "23502"
)

// MapError translates a database error into the store error vocabulary.
// notFound is returned (wrapped) for sql.ErrNoRows; pass nil to use
// store.ErrNotFound. Errors without a mapping are returned unchanged.
func MapError(err error, notFound error) error {
	if err == nil {
		return nil
	}
	if notFound == nil {
		notFound = store.ErrNotFound
	}

	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			return fmt.Errorf("%w: %s", store.ErrDuplicate, pgErr.ConstraintName)
		case foreignKeyViolationCode:
			return fmt.Errorf("%w: foreign key violation (%s)", store.ErrInvalidEntity, pgErr.ConstraintName)
		case checkViolationCode:
			return fmt.Errorf("%w: check constraint violation (%s)", store.ErrInvalidEntity, pgErr.ConstraintName)
		case notNullViolationCode:
			return fmt.Errorf("%w: not null violation (%s)", store.ErrInvalidEntity, pgErr.ColumnName)
		}
	}

	return err
}

// IsUniqueViolation reports whether err is a PostgreSQL unique constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// IsForeignKeyViolation reports whether err is a PostgreSQL foreign key violation.
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolationCode
}

// CheckRowsAffected returns notFound when an UPDATE or DELETE touched no rows.
func CheckRowsAffected(result sql.Result, notFound error) error {
	if result == nil {
		return fmt.Errorf("nil result provided to CheckRowsAffected")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		if notFound == nil {
			return store.ErrNotFound
		}
		return notFound
	}
	return nil
}
