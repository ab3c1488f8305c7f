package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/rasoilink/rasoilink-backend/api/middleware"
	"github.com/rasoilink/rasoilink-backend/internal/suppliers"
	"github.com/rasoilink/rasoilink-backend/internal/vendors"
	pkgerrors "github.com/rasoilink/rasoilink-backend/pkg/errors"
)

func requireIdentity(r *http.Request) (middleware.Identity, error) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		return middleware.Identity{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	return identity, nil
}

// resolveVendorID prefers the token claim and falls back to a profile
// lookup so vendors registered after their token was minted still work.
func resolveVendorID(r *http.Request, svc vendors.Service) (uuid.UUID, error) {
	identity, err := requireIdentity(r)
	if err != nil {
		return uuid.Nil, err
	}
	if identity.VendorID != nil {
		return *identity.VendorID, nil
	}
	vendor, err := svc.GetByUser(r.Context(), identity.UserID)
	if err != nil {
		if pkgerrors.CodeOf(err) == pkgerrors.CodeNotFound {
			return uuid.Nil, pkgerrors.New(pkgerrors.CodeForbidden, "vendor profile required")
		}
		return uuid.Nil, err
	}
	return vendor.ID, nil
}

func resolveSupplierID(r *http.Request, svc suppliers.Service) (uuid.UUID, error) {
	identity, err := requireIdentity(r)
	if err != nil {
		return uuid.Nil, err
	}
	if identity.SupplierID != nil {
		return *identity.SupplierID, nil
	}
	supplier, err := svc.GetByUser(r.Context(), identity.UserID)
	if err != nil {
		if pkgerrors.CodeOf(err) == pkgerrors.CodeNotFound {
			return uuid.Nil, pkgerrors.New(pkgerrors.CodeForbidden, "supplier profile required")
		}
		return uuid.Nil, err
	}
	return supplier.ID, nil
}

func parsePathUUID(raw, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid id in path").
			WithDetails(map[string]any{"field": field})
	}
	return id, nil
}
