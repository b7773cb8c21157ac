// Package sqlite carries request-scoped transactions through context so
// repositories join the transaction a service opened.
package sqlite

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/bizplan/budget-service/internal/application/port"
	"github.com/bizplan/budget-service/pkg/database"
)

type txKey struct{}

// TxManager implements port.TransactionManager over a shared *sql.DB
type TxManager struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewTxManager creates a transaction manager for db
func NewTxManager(db *sql.DB, logger *zap.Logger) *TxManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TxManager{db: db, logger: logger}
}

// WithTransaction runs fn with a context carrying the transaction. A context
// that already carries one is passed through, so nested calls join it.
func (m *TxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if txFromContext(ctx) != nil {
		return fn(ctx)
	}

	return database.RunInTx(ctx, m.db, m.logger, func(tx *sql.Tx) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

func txFromContext(ctx context.Context) *sql.Tx {
	tx, _ := ctx.Value(txKey{}).(*sql.Tx)
	return tx
}

// Executor covers both *sql.DB and *sql.Tx
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// ExecutorFromContext returns the transaction started by WithTransaction
// when ctx carries one, otherwise db.
func ExecutorFromContext(ctx context.Context, db *sql.DB) Executor {
	if tx := txFromContext(ctx); tx != nil {
		return tx
	}
	return db
}

var _ port.TransactionManager = (*TxManager)(nil)
