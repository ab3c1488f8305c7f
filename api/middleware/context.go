package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/rasoilink/rasoilink-backend/pkg/enums"
)

type contextKey string

const ctxIdentity contextKey = "identity"

// Identity is the authenticated caller seeded by the auth middleware.
// Handlers receive it explicitly instead of reaching for globals.
type Identity struct {
	UserID     uuid.UUID
	Role       enums.UserRole
	VendorID   *uuid.UUID
	SupplierID *uuid.UUID
	Zone       *string
	Language   *enums.Language
}

// WithIdentity injects the caller identity into the context.
func WithIdentity(ctx context.Context, identity Identity) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxIdentity, identity)
}

// IdentityFromContext returns the caller identity, if present.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	if ctx == nil {
		return Identity{}, false
	}
	identity, ok := ctx.Value(ctxIdentity).(Identity)
	return identity, ok
}
