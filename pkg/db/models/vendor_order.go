package models

import (
	"time"

	"github.com/google/uuid"
)

// VendorOrder is one vendor's requested quantity of one item within one
// group order. The (group_order_id, vendor_id, item_id) key is unique:
// repeat submissions upsert the quantity instead of duplicating rows.
type VendorOrder struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	GroupOrderID uuid.UUID `gorm:"column:group_order_id;type:uuid;not null;uniqueIndex:uq_vendor_orders_group_vendor_item"`
	VendorID     uuid.UUID `gorm:"column:vendor_id;type:uuid;not null;uniqueIndex:uq_vendor_orders_group_vendor_item"`
	ItemID       uuid.UUID `gorm:"column:item_id;type:uuid;not null;uniqueIndex:uq_vendor_orders_group_vendor_item"`
	QuantityKg   int       `gorm:"column:quantity_kg;not null"`
	Paid         bool      `gorm:"column:paid;not null;default:false"`
	PaymentID    *string   `gorm:"column:payment_id"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
