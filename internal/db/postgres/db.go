// Package postgres implements the repositories on PostgreSQL via database/sql and lib/pq.
package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lib/pq"

	"Vidora/internal/core/users"
)

// pq error codes checked by the repositories
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeInvalidTextRep      = "22P02"
)

func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

func isDuplicateKey(err error) bool {
	return pqCode(err) == codeUniqueViolation || strings.Contains(err.Error(), "duplicate key")
}

func isForeignKey(err error) bool {
	return pqCode(err) == codeForeignKeyViolation || strings.Contains(err.Error(), "foreign key")
}

// isForeignKeyOn reports a foreign key violation on column, relying on the
// default <table>_<column>_fkey constraint names of the migrations
func isForeignKeyOn(err error, column string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || string(pqErr.Code) != codeForeignKeyViolation {
		return false
	}
	return strings.HasSuffix(pqErr.Constraint, "_"+column+"_fkey")
}

// userColumnsReferenced lists the columns that point at users(id)
var userColumnsReferenced = []string{"user_id", "author_id", "uploader_id", "owner_id"}

// isMissingUser reports a write that referenced an account which no longer exists
func isMissingUser(err error) bool {
	for _, column := range userColumnsReferenced {
		if isForeignKeyOn(err, column) {
			return true
		}
	}
	return false
}

// missingUserError wraps users.ErrUserNotFound so handlers answer 401
func missingUserError(err error) error {
	return fmt.Errorf("%w: %v", users.ErrUserNotFound, err)
}

// isInvalidUUID reports a malformed id passed to a uuid column
func isInvalidUUID(err error) bool {
	return pqCode(err) == codeInvalidTextRep
}

// rollback is deferred after BeginTx; it is a no-op once the tx is committed
func rollback(tx *sql.Tx) {
	if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
		slog.Error("failed to rollback transaction", "error", err)
	}
}

func nullStringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
