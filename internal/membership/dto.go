package membership

import (
	"time"

	"github.com/google/uuid"

	"github.com/rasoilink/rasoilink-backend/internal/pricing"
	"github.com/rasoilink/rasoilink-backend/pkg/db/models"
)

// JoinLine is one requested item quantity inside a join.
type JoinLine struct {
	ItemID     uuid.UUID `json:"item_id"`
	QuantityKg int       `json:"quantity_kg"`
}

// JoinInput carries a vendor's join request for one group order.
// Re-submitting a line for an item the vendor already joined with
// replaces the earlier quantity.
type JoinInput struct {
	VendorID     uuid.UUID
	GroupOrderID uuid.UUID
	Lines        []JoinLine
}

// VendorOrderDTO is one persisted vendor order line.
type VendorOrderDTO struct {
	ID           uuid.UUID `json:"id"`
	GroupOrderID uuid.UUID `json:"group_order_id"`
	ItemID       uuid.UUID `json:"item_id"`
	QuantityKg   int       `json:"quantity_kg"`
	Paid         bool      `json:"paid"`
	PaymentID    *string   `json:"payment_id,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// JoinResultDTO is the vendor's full position in the group order after a
// join, with the price breakdown for all their lines.
type JoinResultDTO struct {
	GroupOrderID uuid.UUID        `json:"group_order_id"`
	Lines        []VendorOrderDTO `json:"lines"`
	Quote        pricing.Quote    `json:"quote"`
}

func toVendorOrderDTO(order *models.VendorOrder) VendorOrderDTO {
	return VendorOrderDTO{
		ID:           order.ID,
		GroupOrderID: order.GroupOrderID,
		ItemID:       order.ItemID,
		QuantityKg:   order.QuantityKg,
		Paid:         order.Paid,
		PaymentID:    order.PaymentID,
		UpdatedAt:    order.UpdatedAt,
	}
}
