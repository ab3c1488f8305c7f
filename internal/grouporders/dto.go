package grouporders

import (
	"time"

	"github.com/google/uuid"

	"github.com/rasoilink/rasoilink-backend/pkg/db/models"
	"github.com/rasoilink/rasoilink-backend/pkg/enums"
)

// CreateInput carries the fields needed to open a group order.
type CreateInput struct {
	SupplierID    uuid.UUID
	Zone          string
	DurationHours int
	ItemIDs       []uuid.UUID
}

// StatusInput carries a supplier's status change request. Proof is
// required when moving to dispatched.
type StatusInput struct {
	Status enums.GroupOrderStatus
	Proof  *ProofInput
}

// ProofInput is the dispatch evidence attached alongside the transition.
type ProofInput struct {
	FileURL string
	Type    enums.ProofType
}

// GroupOrderItemDTO is one offered item with its running total.
type GroupOrderItemDTO struct {
	ItemID          uuid.UUID `json:"item_id"`
	Name            string    `json:"name"`
	PricePerKgPaise int64     `json:"price_per_kg_paise"`
	TotalQtyKg      int       `json:"total_qty_kg"`
}

// GroupOrderDTO is the group order representation returned to clients.
type GroupOrderDTO struct {
	ID         uuid.UUID              `json:"id"`
	SupplierID uuid.UUID              `json:"supplier_id"`
	Zone       string                 `json:"zone"`
	Status     enums.GroupOrderStatus `json:"status"`
	CloseAt    time.Time              `json:"close_at"`
	Items      []GroupOrderItemDTO    `json:"items"`
	CreatedAt  time.Time              `json:"created_at"`
}

// GroupOrdersPageDTO is a cursor-paginated group order listing.
type GroupOrdersPageDTO struct {
	Orders     []GroupOrderDTO `json:"orders"`
	NextCursor string          `json:"next_cursor,omitempty"`
}

// ProofDTO is a stored delivery proof.
type ProofDTO struct {
	ID           uuid.UUID       `json:"id"`
	GroupOrderID uuid.UUID       `json:"group_order_id"`
	FileURL      string          `json:"file_url"`
	Type         enums.ProofType `json:"type"`
	CreatedAt    time.Time       `json:"created_at"`
}

func toDTO(order *models.GroupOrder) GroupOrderDTO {
	items := make([]GroupOrderItemDTO, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, GroupOrderItemDTO{
			ItemID:          item.ItemID,
			Name:            item.Name,
			PricePerKgPaise: item.PricePerKgPaise,
			TotalQtyKg:      item.TotalQtyKg,
		})
	}
	return GroupOrderDTO{
		ID:         order.ID,
		SupplierID: order.SupplierID,
		Zone:       order.Zone,
		Status:     order.Status,
		CloseAt:    order.CloseAt,
		Items:      items,
		CreatedAt:  order.CreatedAt,
	}
}

func toProofDTO(proof *models.DeliveryProof) ProofDTO {
	return ProofDTO{
		ID:           proof.ID,
		GroupOrderID: proof.GroupOrderID,
		FileURL:      proof.FileURL,
		Type:         proof.Type,
		CreatedAt:    proof.CreatedAt,
	}
}
