// Package config loads the cart store configuration from an optional YAML
// file and the environment. Environment variables win over the file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/stripe/stripe-go/v79"
	"gopkg.in/yaml.v3"

	"goflare.io/marketplace/models/enum"
)

const (
	DefaultStorageKey   = "@GoMarketplace:products"
	DefaultFilePath     = "marketplace.json"
	DefaultWriteTimeout = 5 * time.Second
)

type Config struct {
	Storage  StorageConfig  `yaml:"storage"`
	Cart     CartConfig     `yaml:"cart"`
	Redis    RedisConfig    `yaml:"redis"`
	Postgres PostgresConfig `yaml:"postgres"`
	Mongo    MongoConfig    `yaml:"mongo"`
	NATS     NATSConfig     `yaml:"nats"`
	Log      LogConfig      `yaml:"log"`
}

type StorageConfig struct {
	Driver enum.StorageDriver `yaml:"driver"`
	File   string             `yaml:"file"`
}

type CartConfig struct {
	Key          string          `yaml:"key"`
	Currency     stripe.Currency `yaml:"currency"`
	WriteTimeout time.Duration   `yaml:"write_timeout"`
}

type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

type MongoConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

type NATSConfig struct {
	URL string `yaml:"url"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Load reads path when it is not empty, applies environment overrides and
// fills the remaining defaults. A missing file is an error only when path
// was given explicitly.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("config file %s not found: %w", path, err)
			}
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err = yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if !c.Storage.Driver.Valid() {
		return fmt.Errorf("invalid storage driver %q", c.Storage.Driver)
	}
	if c.Cart.WriteTimeout <= 0 {
		return fmt.Errorf("cart write_timeout must be positive, got %s", c.Cart.WriteTimeout)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Storage.Driver = enum.StorageDriver(getEnv("CART_STORAGE_DRIVER", string(c.Storage.Driver)))
	c.Storage.File = getEnv("CART_FILE", c.Storage.File)
	c.Cart.Key = getEnv("CART_STORAGE_KEY", c.Cart.Key)
	c.Cart.Currency = stripe.Currency(getEnv("CART_CURRENCY", string(c.Cart.Currency)))
	c.Redis.Addr = getEnv("REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = getEnv("REDIS_PASSWORD", c.Redis.Password)
	c.Redis.DB = getEnvInt("REDIS_DB", c.Redis.DB)
	c.Postgres.DSN = getEnv("POSTGRES_DSN", c.Postgres.DSN)
	c.Mongo.URI = getEnv("MONGO_URI", c.Mongo.URI)
	c.Mongo.Database = getEnv("MONGO_DB", c.Mongo.Database)
	c.NATS.URL = getEnv("NATS_URL", c.NATS.URL)
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
}

func (c *Config) applyDefaults() {
	if c.Storage.Driver == "" {
		c.Storage.Driver = enum.StorageDriverMemory
	}
	if c.Storage.File == "" {
		c.Storage.File = DefaultFilePath
	}
	if c.Cart.Key == "" {
		c.Cart.Key = DefaultStorageKey
	}
	if c.Cart.Currency == "" {
		c.Cart.Currency = stripe.CurrencyBRL
	}
	if c.Cart.WriteTimeout == 0 {
		c.Cart.WriteTimeout = DefaultWriteTimeout
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}
	if c.Mongo.URI == "" {
		c.Mongo.URI = "mongodb://localhost:27017"
	}
	if c.Mongo.Database == "" {
		c.Mongo.Database = "marketplace"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
