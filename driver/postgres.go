// Package driver opens the connections behind the cart storages.
package driver

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresPool is the subset of *pgxpool.Pool the storage layer uses.
type PostgresPool interface {
	// BeginTx starts a new transaction and returns a Tx.
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)

	// Exec executes an SQL command and returns the command tag.
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)

	// QueryRow executes an SQL query and returns a single row.
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row

	// Close closes the pool and all its connections.
	Close()
}

var _ PostgresPool = (*pgxpool.Pool)(nil)

// maxOpenDbConn limits the number of concurrent connections to the database.
// A single cart key never needs more than a handful.
const maxOpenDbConn = 4

// maxDbLifetime is the maximum lifetime of a connection in the pool.
const maxDbLifetime = 5 * time.Minute

// ConnectSQL parses the dsn, builds a pool capped at maxOpenDbConn and
// verifies it by acquiring one connection.
func ConnectSQL(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}

	config.MaxConns = int32(maxOpenDbConn)
	config.MaxConnLifetime = maxDbLifetime

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create postgres pool: %w", err)
	}

	if err = testDB(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres connection error: %w", err)
	}

	return pool, nil
}

// testDB acquires and releases a connection from the pool
func testDB(ctx context.Context, p *pgxpool.Pool) error {
	conn, err := p.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()
	return nil
}
