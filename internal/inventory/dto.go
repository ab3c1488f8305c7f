package inventory

import (
	"time"

	"github.com/google/uuid"

	"github.com/rasoilink/rasoilink-backend/pkg/db/models"
)

// CreateItemInput carries fields for a new wholesale item.
type CreateItemInput struct {
	SupplierID      uuid.UUID
	Name            string
	PricePerKgPaise int64
	AvailableQtyKg  int
	ImageURL        *string
}

// UpdateItemInput carries mutable item fields. Nil pointers leave the
// current value untouched.
type UpdateItemInput struct {
	Name            *string
	PricePerKgPaise *int64
	AvailableQtyKg  *int
	ImageURL        *string
}

// ItemDTO is the item representation returned to clients.
type ItemDTO struct {
	ID              uuid.UUID `json:"id"`
	SupplierID      uuid.UUID `json:"supplier_id"`
	Name            string    `json:"name"`
	PricePerKgPaise int64     `json:"price_per_kg_paise"`
	AvailableQtyKg  int       `json:"available_qty_kg"`
	ImageURL        *string   `json:"image_url,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// ItemsPageDTO is a cursor-paginated item listing.
type ItemsPageDTO struct {
	Items      []ItemDTO `json:"items"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

func toDTO(item *models.Item) ItemDTO {
	return ItemDTO{
		ID:              item.ID,
		SupplierID:      item.SupplierID,
		Name:            item.Name,
		PricePerKgPaise: item.PricePerKgPaise,
		AvailableQtyKg:  item.AvailableQtyKg,
		ImageURL:        item.ImageURL,
		CreatedAt:       item.CreatedAt,
	}
}
