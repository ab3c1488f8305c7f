package otp

import (
	"github.com/google/uuid"

	"github.com/rasoilink/rasoilink-backend/pkg/enums"
)

// RequestResultDTO acknowledges an OTP issuance.
type RequestResultDTO struct {
	Phone     string `json:"phone"`
	ExpiresIn int    `json:"expires_in_seconds"`
}

// UserDTO is the identity returned after verification.
type UserDTO struct {
	ID         uuid.UUID       `json:"id"`
	Phone      string          `json:"phone"`
	Role       *enums.UserRole `json:"role,omitempty"`
	VendorID   *uuid.UUID      `json:"vendor_id,omitempty"`
	SupplierID *uuid.UUID      `json:"supplier_id,omitempty"`
}

// VerifyResultDTO carries the minted access token and the user it
// belongs to.
type VerifyResultDTO struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}
