package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/example/material-reserve/internal/persistence"
	_ "modernc.org/sqlite"
)

// ConnectionPool manages SQLite database connections with transaction support.
type ConnectionPool struct {
	db *sql.DB
}

// NewConnectionPool opens a SQLite database for the given DSN.
func NewConnectionPool(dsn string) (*ConnectionPool, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite serializes writers; a single connection avoids lock contention
	// between pooled connections.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return &ConnectionPool{db: db}, nil
}

// DB returns the underlying database connection.
func (cp *ConnectionPool) DB() *sql.DB {
	return cp.db
}

// Close closes the connection pool.
func (cp *ConnectionPool) Close() error {
	if cp.db != nil {
		return cp.db.Close()
	}
	return nil
}

// Ping tests the database connection.
func (cp *ConnectionPool) Ping(ctx context.Context) error {
	return cp.db.PingContext(ctx)
}

// TransactionFunc represents a function that executes within a transaction.
type TransactionFunc func(tx *sql.Tx) error

// WithTransaction executes a function within a database transaction. The
// transaction is rolled back when the function returns an error and committed
// otherwise.
func (cp *ConnectionPool) WithTransaction(ctx context.Context, fn TransactionFunc) error {
	tx, err := cp.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction failed (rollback error: %v): %w", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// QueryHelper provides helper methods for common query patterns.
type QueryHelper struct {
	pool *ConnectionPool
}

// NewQueryHelper creates a new query helper.
func NewQueryHelper(pool *ConnectionPool) *QueryHelper {
	return &QueryHelper{pool: pool}
}

// QueryRow executes a query that returns a single row.
func (qh *QueryHelper) QueryRow(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return qh.pool.db.QueryRowContext(ctx, query, args...)
}

// Query executes a query that returns multiple rows.
func (qh *QueryHelper) Query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return qh.pool.db.QueryContext(ctx, query, args...)
}

// Exec executes a query that doesn't return rows.
func (qh *QueryHelper) Exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return qh.pool.db.ExecContext(ctx, query, args...)
}

// QueryRowTx executes a query that returns a single row within a transaction.
func (qh *QueryHelper) QueryRowTx(tx *sql.Tx, query string, args ...interface{}) *sql.Row {
	return tx.QueryRow(query, args...)
}

// QueryTx executes a query that returns multiple rows within a transaction.
func (qh *QueryHelper) QueryTx(tx *sql.Tx, query string, args ...interface{}) (*sql.Rows, error) {
	return tx.Query(query, args...)
}

// ExecTx executes a query that doesn't return rows within a transaction.
func (qh *QueryHelper) ExecTx(tx *sql.Tx, query string, args ...interface{}) (sql.Result, error) {
	return tx.Exec(query, args...)
}

// ErrorMapper maps SQLite errors to persistence layer errors.
type ErrorMapper struct{}

// NewErrorMapper creates a new error mapper.
func NewErrorMapper() *ErrorMapper {
	return &ErrorMapper{}
}

// MapError maps SQLite-specific errors to persistence layer errors.
func (em *ErrorMapper) MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return persistence.ErrNotFound
	}

	errStr := err.Error()

	if strings.Contains(errStr, "UNIQUE constraint failed") {
		return persistence.ErrDuplicate
	}
	if strings.Contains(errStr, "FOREIGN KEY constraint failed") {
		return persistence.ErrForeignKeyViolation
	}
	if strings.Contains(errStr, "CHECK constraint failed") {
		return persistence.ErrConstraintViolation
	}

	return err
}
