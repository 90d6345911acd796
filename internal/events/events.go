package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"backoffice/internal/domain"
)

// Type is the routing key of an event.
type Type string

const (
	ProductCreated Type = "product.created"
	ProductUpdated Type = "product.updated"
	ProductDeleted Type = "product.deleted"

	InventoryAdjusted Type = "inventory.adjusted"
	InventoryUpdated  Type = "inventory.updated"
	InventoryLowStock Type = "inventory.low_stock"

	OrderCreated       Type = "order.created"
	OrderStatusChanged Type = "order.status_changed"
	OrderUpdated       Type = "order.updated"
	OrderDeleted       Type = "order.deleted"
)

// Event is a fact about a write that already happened. Key is the id of the entity it concerns.
type Event struct {
	ID         string    `json:"id"`
	Type       Type      `json:"type"`
	Key        string    `json:"key"`
	Payload    any       `json:"payload,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

func New(t Type, key string, payload any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       t,
		Key:        key,
		Payload:    payload,
		OccurredAt: domain.Now(),
	}
}

// Publisher delivers events to subscribers outside the process.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
