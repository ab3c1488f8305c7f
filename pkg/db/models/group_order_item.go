package models

import (
	"time"

	"github.com/google/uuid"
)

// GroupOrderItem is one distinct item offered inside a group order, with
// the name and price snapshotted from the source inventory item.
// TotalQtyKg is derived: it must always equal the sum of vendor order
// quantities for the same (group_order_id, item_id).
type GroupOrderItem struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	GroupOrderID    uuid.UUID `gorm:"column:group_order_id;type:uuid;not null;uniqueIndex:uq_group_order_items_order_item"`
	ItemID          uuid.UUID `gorm:"column:item_id;type:uuid;not null;uniqueIndex:uq_group_order_items_order_item"`
	Name            string    `gorm:"column:name;not null"`
	PricePerKgPaise int64     `gorm:"column:price_per_kg_paise;not null"`
	TotalQtyKg      int       `gorm:"column:total_qty_kg;not null;default:0"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
