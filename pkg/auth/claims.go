package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/rasoilink/rasoilink-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID     uuid.UUID
	Role       enums.UserRole
	VendorID   *uuid.UUID
	SupplierID *uuid.UUID
	Zone       *string
	Language   *enums.Language
	JTI        string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserID     uuid.UUID       `json:"user_id"`
	Role       enums.UserRole  `json:"role,omitempty"`
	VendorID   *uuid.UUID      `json:"vendor_id,omitempty"`
	SupplierID *uuid.UUID      `json:"supplier_id,omitempty"`
	Zone       *string         `json:"zone,omitempty"`
	Language   *enums.Language `json:"language,omitempty"`
	jwt.RegisteredClaims
}
