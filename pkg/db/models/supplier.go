package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Supplier is a wholesale seller profile. DeliveryZones holds the zone
// codes the supplier is willing to dispatch to.
type Supplier struct {
	ID            uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID        uuid.UUID      `gorm:"column:user_id;type:uuid;not null;uniqueIndex:uq_suppliers_user"`
	Name          string         `gorm:"column:name;not null"`
	Phone         string         `gorm:"column:phone;not null"`
	DeliveryZones pq.StringArray `gorm:"column:delivery_zones;type:text[];not null;default:ARRAY[]::text[]"`
	CreatedAt     time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

// DeliversTo reports whether the supplier covers the given zone.
func (s *Supplier) DeliversTo(zone string) bool {
	for _, z := range s.DeliveryZones {
		if z == zone {
			return true
		}
	}
	return false
}
