package database

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes the application reacts to.
const (
	codeUniqueViolation = "23505"
	codeUndefinedTable  = "42P01"
)

// IsUniqueViolation reports whether err is a Postgres unique_violation.
func IsUniqueViolation(err error) bool {
	return hasCode(err, codeUniqueViolation, "duplicate key value violates unique constraint")
}

// IsUndefinedTable reports whether err refers to a relation that does not exist.
func IsUndefinedTable(err error) bool {
	if hasCode(err, codeUndefinedTable, "") {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "relation") && strings.Contains(err.Error(), "does not exist")
}

// hasCode checks the SQLSTATE when the driver error is available and falls
// back to the server message for errors that lost their type on the way up.
func hasCode(err error, code, fallback string) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == code
	}
	return fallback != "" && strings.Contains(err.Error(), fallback)
}
