// Package repomanager vends credential store repositories for the configured
// backend and owns schema migrations and transactions.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/accountkeeper/internal/server/repositories/users"
)

// MemoryDSN selects the in-memory backend instead of PostgreSQL.
const MemoryDSN = "memory"

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Users() users.Repository
	// WithTx runs fn with a repository bound to a single transaction.
	WithTx(ctx context.Context, fn func(ctx context.Context, repo users.Repository) error) error
	Close() error
}

// New returns the manager matching dsn.
func New(ctx context.Context, dsn string) (RepositoryManager, error) {
	if dsn == MemoryDSN {
		return NewMemoryRepositoryManager(), nil
	}
	return NewPostgresRepositoryManager(ctx, dsn)
}
