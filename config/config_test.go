package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v79"
	"go.uber.org/zap/zapcore"

	"goflare.io/marketplace/models/enum"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, enum.StorageDriverMemory, cfg.Storage.Driver)
	assert.Equal(t, DefaultStorageKey, cfg.Cart.Key)
	assert.Equal(t, stripe.CurrencyBRL, cfg.Cart.Currency)
	assert.Equal(t, DefaultWriteTimeout, cfg.Cart.WriteTimeout)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
storage:
  driver: redis
cart:
  key: "cart:test"
  currency: usd
  write_timeout: 2s
redis:
  addr: "redis:6379"
  db: 2
  ttl: 24h
log:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, enum.StorageDriverRedis, cfg.Storage.Driver)
	assert.Equal(t, "cart:test", cfg.Cart.Key)
	assert.Equal(t, stripe.CurrencyUSD, cfg.Cart.Currency)
	assert.Equal(t, 2*time.Second, cfg.Cart.WriteTimeout)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, 24*time.Hour, cfg.Redis.TTL)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "storage:\n  driver: redis\nredis:\n  db: 2\n")
	t.Setenv("CART_STORAGE_DRIVER", "file")
	t.Setenv("CART_FILE", "/tmp/cart.json")
	t.Setenv("REDIS_DB", "5")
	t.Setenv("NATS_URL", "nats://localhost:4222")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, enum.StorageDriverFile, cfg.Storage.Driver)
	assert.Equal(t, "/tmp/cart.json", cfg.Storage.File)
	assert.Equal(t, 5, cfg.Redis.DB)
	assert.Equal(t, "nats://localhost:4222", cfg.NATS.URL)
}

func TestLoad_InvalidIntEnvKeepsValue(t *testing.T) {
	t.Setenv("REDIS_DB", "three")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Zero(t, cfg.Redis.DB)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorContains(t, err, "not found")

	_, err = Load(writeConfig(t, "storage: [\n"))
	require.ErrorContains(t, err, "parse config file")

	_, err = Load(writeConfig(t, "storage:\n  driver: sqlite\n"))
	require.ErrorContains(t, err, "invalid storage driver")

	_, err = Load(writeConfig(t, "cart:\n  write_timeout: -1s\n"))
	require.ErrorContains(t, err, "write_timeout")
}

func TestLogConfig_NewLogger(t *testing.T) {
	logger, err := LogConfig{Level: "warn"}.NewLogger()
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))

	_, err = LogConfig{Level: "loud"}.NewLogger()
	assert.Error(t, err)
}
