package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/rasoilink/rasoilink-backend/pkg/enums"
)

// GroupOrder is a supplier-initiated, time-boxed aggregation window for
// one delivery zone. CloseAt is fixed at creation and never extended;
// after creation only Status (and timestamps) change.
type GroupOrder struct {
	ID         uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SupplierID uuid.UUID              `gorm:"column:supplier_id;type:uuid;not null;index:idx_group_orders_supplier"`
	Zone       string                 `gorm:"column:zone;not null;index:idx_group_orders_zone_status"`
	CloseAt    time.Time              `gorm:"column:close_at;not null"`
	Status     enums.GroupOrderStatus `gorm:"column:status;type:text;not null;default:'forming';index:idx_group_orders_zone_status"`
	Items      []GroupOrderItem       `gorm:"foreignKey:GroupOrderID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
