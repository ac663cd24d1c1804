package cart

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"goflare.io/marketplace/models"
	"goflare.io/marketplace/storage"
)

var _ Repository = (*repository)(nil)

// Repository persists the whole cart collection under a single storage key.
type Repository interface {
	// Load returns the persisted collection. ok is false when nothing was stored.
	Load(ctx context.Context) (products []models.Product, ok bool, err error)
	// Save overwrites the persisted collection with products.
	Save(ctx context.Context, products []models.Product) error
	// Clear removes the persisted collection.
	Clear(ctx context.Context) error
}

type repository struct {
	storage storage.Storage
	key     string
	logger  *zap.Logger
}

func NewRepository(storage storage.Storage, key string, logger *zap.Logger) Repository {
	return &repository{
		storage: storage,
		key:     key,
		logger:  logger,
	}
}

func (r *repository) Load(ctx context.Context) ([]models.Product, bool, error) {
	raw, found, err := r.storage.GetItem(ctx, r.key)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cart: %w", err)
	}
	if !found {
		return nil, false, nil
	}

	products, err := Decode(raw)
	if err != nil {
		return nil, false, err
	}

	return r.sanitize(products), true, nil
}

func (r *repository) Save(ctx context.Context, products []models.Product) error {
	raw, err := Encode(products)
	if err != nil {
		return err
	}

	if err = r.storage.SetItem(ctx, r.key, raw); err != nil {
		return fmt.Errorf("failed to write cart: %w", err)
	}
	return nil
}

func (r *repository) Clear(ctx context.Context) error {
	if err := r.storage.RemoveItem(ctx, r.key); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// sanitize drops entries that would break the collection invariants: an
// empty or repeated id, or a quantity below one. Order is kept.
func (r *repository) sanitize(products []models.Product) []models.Product {
	seen := make(map[string]struct{}, len(products))
	out := make([]models.Product, 0, len(products))

	for _, p := range products {
		if p.ID == "" || p.Quantity < 1 {
			r.logger.Warn("Dropping invalid persisted cart item", zap.String("product_id", p.ID), zap.Int("quantity", p.Quantity))
			continue
		}
		if _, dup := seen[p.ID]; dup {
			r.logger.Warn("Dropping duplicate persisted cart item", zap.String("product_id", p.ID))
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}

	return out
}

// Encode serializes the collection as a JSON array. A nil collection encodes as [].
func Encode(products []models.Product) (string, error) {
	if products == nil {
		products = []models.Product{}
	}

	data, err := json.Marshal(products)
	if err != nil {
		return "", fmt.Errorf("marshal cart failed: %w", err)
	}
	return string(data), nil
}

func Decode(raw string) ([]models.Product, error) {
	var products []models.Product
	if err := json.Unmarshal([]byte(raw), &products); err != nil {
		return nil, fmt.Errorf("unmarshal cart failed: %w", err)
	}
	return products, nil
}
