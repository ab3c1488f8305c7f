package suppliers

import (
	"time"

	"github.com/google/uuid"

	"github.com/rasoilink/rasoilink-backend/pkg/db/models"
)

// RegisterInput carries the fields needed to create a supplier profile.
type RegisterInput struct {
	UserID        uuid.UUID
	Name          string
	Phone         string
	DeliveryZones []string
}

// UpdateInput carries mutable profile fields. Nil leaves the current
// value untouched.
type UpdateInput struct {
	Name          *string
	DeliveryZones []string
}

// SupplierDTO is the supplier profile representation returned to clients.
type SupplierDTO struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Phone         string    `json:"phone"`
	DeliveryZones []string  `json:"delivery_zones"`
	CreatedAt     time.Time `json:"created_at"`
}

func toDTO(supplier *models.Supplier) SupplierDTO {
	return SupplierDTO{
		ID:            supplier.ID,
		Name:          supplier.Name,
		Phone:         supplier.Phone,
		DeliveryZones: append([]string(nil), supplier.DeliveryZones...),
		CreatedAt:     supplier.CreatedAt,
	}
}
