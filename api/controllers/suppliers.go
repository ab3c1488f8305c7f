package controllers

import (
	"net/http"

	"github.com/rasoilink/rasoilink-backend/api/responses"
	"github.com/rasoilink/rasoilink-backend/api/validators"
	"github.com/rasoilink/rasoilink-backend/internal/suppliers"
	pkgerrors "github.com/rasoilink/rasoilink-backend/pkg/errors"
	"github.com/rasoilink/rasoilink-backend/pkg/logger"
)

type supplierRegisterBody struct {
	Name          string   `json:"name" validate:"required,min=2,max=120"`
	DeliveryZones []string `json:"delivery_zones" validate:"required,min=1,dive,required"`
}

type supplierUpdateBody struct {
	Name          *string  `json:"name" validate:"omitempty,min=2,max=120"`
	DeliveryZones []string `json:"delivery_zones" validate:"omitempty,min=1,dive,required"`
}

// SupplierRegister claims a supplier profile for the authenticated user.
func SupplierRegister(svc suppliers.Service, users userLoader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := requireIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body supplierRegisterBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := users.FindByID(r.Context(), identity.UserID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user"))
			return
		}

		supplier, err := svc.Register(r.Context(), suppliers.RegisterInput{
			UserID:        identity.UserID,
			Name:          body.Name,
			Phone:         user.Phone,
			DeliveryZones: body.DeliveryZones,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, supplier)
	}
}

// SupplierMe returns the caller's supplier profile.
func SupplierMe(svc suppliers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := requireIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		supplier, err := svc.GetByUser(r.Context(), identity.UserID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, supplier)
	}
}

// SupplierUpdate patches the caller's supplier profile.
func SupplierUpdate(svc suppliers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		supplierID, err := resolveSupplierID(r, svc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body supplierUpdateBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		supplier, err := svc.Update(r.Context(), supplierID, suppliers.UpdateInput{
			Name:          body.Name,
			DeliveryZones: body.DeliveryZones,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, supplier)
	}
}
