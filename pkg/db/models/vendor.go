package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/rasoilink/rasoilink-backend/pkg/enums"
)

// Vendor is a street-food seller profile. Zone is mutable; vendors can
// move their stall to a different delivery area.
type Vendor struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID      `gorm:"column:user_id;type:uuid;not null;uniqueIndex:uq_vendors_user"`
	Name      string         `gorm:"column:name;not null"`
	Phone     string         `gorm:"column:phone;not null"`
	Zone      string         `gorm:"column:zone;not null"`
	Language  enums.Language `gorm:"column:language;type:text;not null;default:'hi'"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
