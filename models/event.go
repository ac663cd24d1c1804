package models

import (
	"time"

	"github.com/google/uuid"

	"goflare.io/marketplace/models/enum"
)

type CartEvent struct {
	ID         string             `json:"id"`
	Type       enum.CartEventType `json:"type"`
	ProductID  string             `json:"product_id,omitempty"`
	Quantity   int                `json:"quantity"`
	Items      int                `json:"items"`
	OccurredAt time.Time          `json:"occurred_at"`
}

func NewCartEvent(eventType enum.CartEventType, productID string, quantity, items int) *CartEvent {
	return &CartEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		ProductID:  productID,
		Quantity:   quantity,
		Items:      items,
		OccurredAt: time.Now(),
	}
}
