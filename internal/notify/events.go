package notify

import (
	"time"

	"github.com/google/uuid"
)

// EventType labels a change notification.
type EventType string

const (
	EventGroupOrderCreated EventType = "group_order.created"
	EventGroupOrderJoined  EventType = "group_order.joined"
	EventGroupOrderStatus  EventType = "group_order.status_changed"
	EventGroupOrderExpired EventType = "group_order.expired"
	EventPaymentRecorded   EventType = "payment.recorded"

	EventItemCreated EventType = "item.created"
	EventItemUpdated EventType = "item.updated"
)

// OrderEvent describes a group order change. Consumers use it to refresh
// dashboards; nothing in order processing depends on delivery.
type OrderEvent struct {
	Type         EventType  `json:"type"`
	GroupOrderID uuid.UUID  `json:"group_order_id"`
	Zone         string     `json:"zone,omitempty"`
	SupplierID   uuid.UUID  `json:"supplier_id,omitempty"`
	VendorID     *uuid.UUID `json:"vendor_id,omitempty"`
	Status       string     `json:"status,omitempty"`
	OccurredAt   time.Time  `json:"occurred_at"`
}

// InventoryEvent describes an item catalog change.
type InventoryEvent struct {
	Type       EventType `json:"type"`
	ItemID     uuid.UUID `json:"item_id"`
	SupplierID uuid.UUID `json:"supplier_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
