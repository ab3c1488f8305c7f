package vendors

import (
	"time"

	"github.com/google/uuid"

	"github.com/rasoilink/rasoilink-backend/pkg/db/models"
	"github.com/rasoilink/rasoilink-backend/pkg/enums"
)

// RegisterInput carries the fields needed to create a vendor profile.
type RegisterInput struct {
	UserID   uuid.UUID
	Name     string
	Phone    string
	Zone     string
	Language enums.Language
}

// UpdateInput carries mutable profile fields. Nil pointers leave the
// current value untouched.
type UpdateInput struct {
	Name     *string
	Zone     *string
	Language *enums.Language
}

// VendorDTO is the vendor profile representation returned to clients.
type VendorDTO struct {
	ID        uuid.UUID      `json:"id"`
	Name      string         `json:"name"`
	Phone     string         `json:"phone"`
	Zone      string         `json:"zone"`
	Language  enums.Language `json:"language"`
	CreatedAt time.Time      `json:"created_at"`
}

func toDTO(vendor *models.Vendor) VendorDTO {
	return VendorDTO{
		ID:        vendor.ID,
		Name:      vendor.Name,
		Phone:     vendor.Phone,
		Zone:      vendor.Zone,
		Language:  vendor.Language,
		CreatedAt: vendor.CreatedAt,
	}
}
