// Package service holds the per-request business logic between handlers and repositories.
package service

import (
	"context"

	"gorm.io/gorm"
)

// TxRunner runs fn inside one database transaction, committing when fn
// returns nil and rolling back otherwise.
type TxRunner func(ctx context.Context, fn func(tx *gorm.DB) error) error

// GormTx returns a TxRunner backed by db.Transaction.
func GormTx(db *gorm.DB) TxRunner {
	return func(ctx context.Context, fn func(tx *gorm.DB) error) error {
		return db.WithContext(ctx).Transaction(fn)
	}
}

// SchemaEnsurer creates missing tables before a request touches them.
// Forget drops remembered ensures when err shows a table has gone missing
// and reports whether it did.
type SchemaEnsurer interface {
	EnsureUsersTable(ctx context.Context) error
	EnsurePostsTable(ctx context.Context) error
	EnsureLikesTable(ctx context.Context) error
	Forget(err error) bool
}

// withSchema runs ensure and then fn. When fn fails on a table dropped since
// it was ensured, both run once more against a fresh ensure.
func withSchema(ctx context.Context, schema SchemaEnsurer, ensure func(SchemaEnsurer, context.Context) error, fn func() error) error {
	for attempt := 0; ; attempt++ {
		if err := ensure(schema, ctx); err != nil {
			return err
		}
		err := fn()
		if err == nil || attempt > 0 || !schema.Forget(err) {
			return err
		}
	}
}

// PasswordHasher is the credential manager used by UserService.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(stored, candidate string) (bool, error)
}

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	Issue(payload map[string]string) (string, error)
}
