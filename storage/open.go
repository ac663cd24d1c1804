package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"goflare.io/marketplace/config"
	"goflare.io/marketplace/driver"
	"goflare.io/marketplace/models/enum"
)

// Open connects the storage selected by cfg.Storage.Driver.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Storage, error) {
	switch cfg.Storage.Driver {
	case enum.StorageDriverMemory, "":
		return NewMemory(), nil

	case enum.StorageDriverFile:
		return NewFile(cfg.Storage.File), nil

	case enum.StorageDriverRedis:
		client, err := driver.ConnectRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, err
		}
		logger.Info("Connected to redis", zap.String("addr", cfg.Redis.Addr))
		return NewRedis(client, cfg.Redis.TTL), nil

	case enum.StorageDriverPostgres:
		pool, err := driver.ConnectSQL(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, err
		}
		pg := NewPostgres(pool, logger)
		if err = pg.Migrate(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		logger.Info("Connected to postgres")
		return pg, nil

	case enum.StorageDriverMongo:
		db, err := driver.ConnectMongo(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return nil, err
		}
		logger.Info("Connected to mongo", zap.String("database", cfg.Mongo.Database))
		return NewMongo(db), nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Storage.Driver)
}

// Close releases the storage connection when it owns one.
func Close(ctx context.Context, s Storage) error {
	if c, ok := s.(Closer); ok {
		return c.Close(ctx)
	}
	return nil
}
