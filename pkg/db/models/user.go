package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/rasoilink/rasoilink-backend/pkg/enums"
)

// User is the identity produced by phone/OTP verification. Profile data
// lives on the vendor or supplier row that references it.
type User struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Phone     string          `gorm:"column:phone;not null;uniqueIndex:uq_users_phone"`
	Role      *enums.UserRole `gorm:"column:role;type:text"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
