package models

import (
	"time"

	"github.com/google/uuid"
)

// Item is a supplier catalog entry. Prices are stored in paise per kg;
// quantities in whole kilograms. Items are never deleted, only updated.
type Item struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SupplierID      uuid.UUID `gorm:"column:supplier_id;type:uuid;not null;index:idx_items_supplier"`
	Name            string    `gorm:"column:name;not null"`
	PricePerKgPaise int64     `gorm:"column:price_per_kg_paise;not null"`
	AvailableQtyKg  int       `gorm:"column:available_qty_kg;not null;default:0"`
	ImageURL        *string   `gorm:"column:image_url"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
