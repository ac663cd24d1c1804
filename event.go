package marketplace

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"goflare.io/marketplace/models"
	"goflare.io/marketplace/models/enum"
)

const eventSubjectPrefix = "cart.event."

// Conn is the part of *nats.Conn the event manager needs.
type Conn interface {
	Publish(subj string, data []byte) error
	Subscribe(subj string, cb nats.MsgHandler) (*nats.Subscription, error)
}

var _ Conn = (*nats.Conn)(nil)

type EventHandler func(context.Context, *models.CartEvent) error

type EventManager struct {
	natsConn Conn
	mu       sync.RWMutex
	handlers map[enum.CartEventType][]EventHandler
	logger   *zap.Logger
}

func NewEventManager(natsConn Conn, logger *zap.Logger) *EventManager {
	return &EventManager{
		natsConn: natsConn,
		handlers: make(map[enum.CartEventType][]EventHandler),
		logger:   logger,
	}
}

func (em *EventManager) RegisterHandler(eventType enum.CartEventType, handler EventHandler) {
	em.mu.Lock()
	defer em.mu.Unlock()

	em.handlers[eventType] = append(em.handlers[eventType], handler)
}

func (em *EventManager) GetHandlers(eventType enum.CartEventType) []EventHandler {
	em.mu.RLock()
	defer em.mu.RUnlock()

	return em.handlers[eventType]
}

func (em *EventManager) Publish(event *models.CartEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal cart event: %w", err)
	}

	if err = em.natsConn.Publish(Subject(event.Type), data); err != nil {
		return fmt.Errorf("publish cart event: %w", err)
	}
	return nil
}

// SubscribeToEvents delivers every cart event to the handlers registered
// for its type.
func (em *EventManager) SubscribeToEvents() (*nats.Subscription, error) {
	return em.natsConn.Subscribe(eventSubjectPrefix+">", func(msg *nats.Msg) {
		var event models.CartEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			em.logger.Error("Failed to unmarshal event", zap.Error(err), zap.String("subject", msg.Subject))
			return
		}
		if event.Type == "" {
			event.Type = enum.CartEventType(strings.TrimPrefix(msg.Subject, eventSubjectPrefix))
		}

		em.dispatch(context.Background(), &event)
	})
}

func (em *EventManager) dispatch(ctx context.Context, event *models.CartEvent) {
	for _, handler := range em.GetHandlers(event.Type) {
		if err := handler(ctx, event); err != nil {
			em.logger.Error("Failed to handle event",
				zap.Error(err),
				zap.String("event_type", string(event.Type)),
				zap.String("event_id", event.ID))
		}
	}
}

func Subject(eventType enum.CartEventType) string {
	return eventSubjectPrefix + string(eventType)
}
