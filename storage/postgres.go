package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"goflare.io/marketplace/driver"
)

var _ Storage = (*Postgres)(nil)

const (
	createTableSQL = `CREATE TABLE IF NOT EXISTS async_storage (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`
	getItemSQL    = `SELECT value FROM async_storage WHERE key = $1`
	setItemSQL    = `INSERT INTO async_storage (key, value, updated_at) VALUES ($1, $2, now()) ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
	removeItemSQL = `DELETE FROM async_storage WHERE key = $1`
)

type Postgres struct {
	conn               driver.PostgresPool
	transactionManager *driver.TransactionManager
	logger             *zap.Logger
}

func NewPostgres(conn driver.PostgresPool, logger *zap.Logger) *Postgres {
	return &Postgres{
		conn:               conn,
		transactionManager: driver.NewTransactionManager(conn, logger),
		logger:             logger,
	}
}

// Migrate creates the key-value table when it does not exist.
func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.conn.Exec(ctx, createTableSQL); err != nil {
		return fmt.Errorf("failed to create async_storage table: %w", err)
	}
	return nil
}

func (p *Postgres) GetItem(ctx context.Context, key string) (string, bool, error) {
	if err := checkKey(key); err != nil {
		return "", false, err
	}

	var value string
	err := p.conn.QueryRow(ctx, getItemSQL, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get item %s: %w", key, err)
	}

	return value, true, nil
}

func (p *Postgres) SetItem(ctx context.Context, key, value string) error {
	if err := checkKey(key); err != nil {
		return err
	}

	return p.transactionManager.ExecuteSerializableTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, setItemSQL, key, value); err != nil {
			p.logger.Error("Failed to set item", zap.String("key", key), zap.Error(err))
			return fmt.Errorf("failed to set item %s: %w", key, err)
		}
		return nil
	})
}

func (p *Postgres) RemoveItem(ctx context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}

	if _, err := p.conn.Exec(ctx, removeItemSQL, key); err != nil {
		return fmt.Errorf("failed to remove item %s: %w", key, err)
	}
	return nil
}

func (p *Postgres) Close(context.Context) error {
	p.conn.Close()
	return nil
}
