package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/rasoilink/rasoilink-backend/pkg/enums"
)

// DeliveryProof is append-only dispatch evidence attached to a group
// order by its supplier.
type DeliveryProof struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	GroupOrderID uuid.UUID       `gorm:"column:group_order_id;type:uuid;not null;index:idx_delivery_proofs_order"`
	SupplierID   uuid.UUID       `gorm:"column:supplier_id;type:uuid;not null"`
	FileURL      string          `gorm:"column:file_url;not null"`
	Type         enums.ProofType `gorm:"column:type;type:text;not null"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
}
