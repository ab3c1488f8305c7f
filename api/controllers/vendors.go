package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/rasoilink/rasoilink-backend/api/responses"
	"github.com/rasoilink/rasoilink-backend/api/validators"
	"github.com/rasoilink/rasoilink-backend/internal/vendors"
	"github.com/rasoilink/rasoilink-backend/pkg/db/models"
	"github.com/rasoilink/rasoilink-backend/pkg/enums"
	pkgerrors "github.com/rasoilink/rasoilink-backend/pkg/errors"
	"github.com/rasoilink/rasoilink-backend/pkg/logger"
)

// userLoader resolves the phone behind an authenticated user id.
type userLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type vendorRegisterBody struct {
	Name     string `json:"name" validate:"required,min=2,max=120"`
	Zone     string `json:"zone" validate:"required"`
	Language string `json:"language" validate:"omitempty,oneof=hi en"`
}

type vendorUpdateBody struct {
	Name     *string `json:"name" validate:"omitempty,min=2,max=120"`
	Zone     *string `json:"zone" validate:"omitempty"`
	Language *string `json:"language" validate:"omitempty,oneof=hi en"`
}

// VendorRegister claims a vendor profile for the authenticated user.
func VendorRegister(svc vendors.Service, users userLoader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := requireIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body vendorRegisterBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := users.FindByID(r.Context(), identity.UserID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user"))
			return
		}

		language := enums.LanguageHindi
		if body.Language != "" {
			language, _ = enums.ParseLanguage(body.Language)
		}

		vendor, err := svc.Register(r.Context(), vendors.RegisterInput{
			UserID:   identity.UserID,
			Name:     body.Name,
			Phone:    user.Phone,
			Zone:     body.Zone,
			Language: language,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, vendor)
	}
}

// VendorMe returns the caller's vendor profile.
func VendorMe(svc vendors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := requireIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		vendor, err := svc.GetByUser(r.Context(), identity.UserID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, vendor)
	}
}

// VendorUpdate patches the caller's vendor profile.
func VendorUpdate(svc vendors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vendorID, err := resolveVendorID(r, svc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body vendorUpdateBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := vendors.UpdateInput{Name: body.Name, Zone: body.Zone}
		if body.Language != nil {
			language, err := enums.ParseLanguage(*body.Language)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid language"))
				return
			}
			input.Language = &language
		}

		vendor, err := svc.Update(r.Context(), vendorID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, vendor)
	}
}
