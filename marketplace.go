package marketplace

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/stripe/stripe-go/v79"
	"go.uber.org/zap"

	"goflare.io/marketplace/cart"
	"goflare.io/marketplace/config"
	"goflare.io/marketplace/models"
	"goflare.io/marketplace/models/enum"
)

var (
	ErrClosed         = errors.New("cart store is closed")
	ErrEmptyProductID = errors.New("product id must not be empty")
	ErrInvalidPrice   = errors.New("product price must be a finite, non-negative number")
)

// Service is the cart state holder. Every mutation updates the in-memory
// collection first and then queues a write of the resulting collection.
type Service interface {
	// Products returns a copy of the current collection in insertion order.
	Products() []models.Product
	AddToCart(item models.Item) *Ack
	Increment(id string) *Ack
	Decrement(id string) *Ack
	// Clear empties the cart and persists the empty collection.
	Clear() *Ack
	Summary() models.Summary
	// Close waits for queued writes, then rejects further mutations.
	Close(ctx context.Context) error
}

type service struct {
	mu       sync.Mutex
	products []models.Product
	closed   bool

	cart         cart.Repository
	writeQueue   *WriteQueue
	eventManager *EventManager
	currency     stripe.Currency

	logger *zap.Logger
}

// NewService builds the store and loads the persisted collection. A failed
// or empty load leaves the cart empty; it is logged and never returned.
// eventManager may be nil.
func NewService(ctx context.Context, cartRepo cart.Repository, eventManager *EventManager, cfg config.CartConfig, logger *zap.Logger) Service {
	s := &service{
		products:     []models.Product{},
		cart:         cartRepo,
		eventManager: eventManager,
		currency:     cfg.Currency,
		logger:       logger,
	}
	s.writeQueue = NewWriteQueue(cfg.WriteTimeout, logger)
	s.initialize(ctx)

	return s
}

func (s *service) initialize(ctx context.Context) {
	products, found, err := s.cart.Load(ctx)
	if err != nil {
		s.logger.Warn("Failed to load cart, starting empty", zap.Error(err))
		return
	}
	if !found {
		s.logger.Debug("No persisted cart found")
		return
	}

	s.mu.Lock()
	s.products = products
	s.mu.Unlock()

	s.logger.Info("Loaded cart from storage", zap.Int("lines", len(products)))
	s.publish(models.NewCartEvent(enum.CartEventTypeLoaded, "", 0, countItems(products)))
}

func (s *service) Products() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	return models.CloneProducts(s.products)
}

func (s *service) AddToCart(item models.Item) *Ack {
	if err := ValidateItem(item); err != nil {
		return completedAck(err)
	}

	return s.update(func(products []models.Product) ([]models.Product, *models.CartEvent) {
		// 商品已存在，數量 +1
		if i := models.IndexOf(products, item.ID); i >= 0 {
			products[i].Quantity++
			return products, models.NewCartEvent(enum.CartEventTypeAdded, item.ID, products[i].Quantity, 0)
		}

		// 商品不存在，新增項目
		products = append(products, models.NewProduct(item))
		return products, models.NewCartEvent(enum.CartEventTypeAdded, item.ID, 1, 0)
	})
}

func (s *service) Increment(id string) *Ack {
	return s.update(func(products []models.Product) ([]models.Product, *models.CartEvent) {
		i := models.IndexOf(products, id)
		if i < 0 {
			return products, nil
		}

		products[i].Quantity++
		return products, models.NewCartEvent(enum.CartEventTypeIncremented, id, products[i].Quantity, 0)
	})
}

func (s *service) Decrement(id string) *Ack {
	return s.update(func(products []models.Product) ([]models.Product, *models.CartEvent) {
		i := models.IndexOf(products, id)
		if i < 0 {
			return products, nil
		}

		if products[i].Quantity > 1 {
			products[i].Quantity--
			return products, models.NewCartEvent(enum.CartEventTypeDecremented, id, products[i].Quantity, 0)
		}

		// 數量歸零，直接移除商品
		products = append(products[:i], products[i+1:]...)
		return products, models.NewCartEvent(enum.CartEventTypeRemoved, id, 0, 0)
	})
}

func (s *service) Clear() *Ack {
	return s.update(func(products []models.Product) ([]models.Product, *models.CartEvent) {
		return []models.Product{}, models.NewCartEvent(enum.CartEventTypeCleared, "", 0, 0)
	})
}

func (s *service) Summary() models.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	return models.NewSummary(s.currency, s.products)
}

func (s *service) Close(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	return s.writeQueue.Shutdown(ctx)
}

// update is the single mutation entry point. fn receives a private copy of
// the current collection; its result becomes the authoritative collection
// and the same result is queued for persistence. The write is submitted
// while the lock is held so storage sees snapshots in mutation order.
func (s *service) update(fn func(products []models.Product) ([]models.Product, *models.CartEvent)) *Ack {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return completedAck(ErrClosed)
	}

	next, event := fn(models.CloneProducts(s.products))
	s.products = next

	snapshot := models.CloneProducts(next)
	ack := s.writeQueue.Submit(func(ctx context.Context) error {
		return s.cart.Save(ctx, snapshot)
	})

	// Events go out under the lock so subscribers see mutation order.
	if event != nil {
		event.Items = countItems(next)
		s.logger.Debug("Cart updated",
			zap.String("event_type", string(event.Type)),
			zap.String("product_id", event.ProductID),
			zap.Int("quantity", event.Quantity))
		s.publish(event)
	}
	s.mu.Unlock()

	return ack
}

func (s *service) publish(event *models.CartEvent) {
	if s.eventManager == nil {
		return
	}
	if err := s.eventManager.Publish(event); err != nil {
		s.logger.Warn("Failed to publish cart event",
			zap.Error(err),
			zap.String("event_type", string(event.Type)),
			zap.String("event_id", event.ID))
	}
}

// ValidateItem rejects items that cannot be stored or summed: an empty id,
// or a price that is NaN, infinite or negative.
func ValidateItem(item models.Item) error {
	if item.ID == "" {
		return ErrEmptyProductID
	}
	if math.IsNaN(item.Price) || math.IsInf(item.Price, 0) || item.Price < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidPrice, item.Price)
	}
	return nil
}

func countItems(products []models.Product) int {
	n := 0
	for _, p := range products {
		n += p.Quantity
	}
	return n
}
