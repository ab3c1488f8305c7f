package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/rasoilink/rasoilink-backend/api/responses"
	"github.com/rasoilink/rasoilink-backend/api/validators"
	"github.com/rasoilink/rasoilink-backend/internal/inventory"
	"github.com/rasoilink/rasoilink-backend/internal/suppliers"
	"github.com/rasoilink/rasoilink-backend/pkg/logger"
	"github.com/rasoilink/rasoilink-backend/pkg/pagination"
)

type itemCreateBody struct {
	Name            string  `json:"name" validate:"required,min=2,max=120"`
	PricePerKgPaise int64   `json:"price_per_kg_paise" validate:"required,gt=0"`
	AvailableQtyKg  int     `json:"available_qty_kg" validate:"gte=0"`
	ImageURL        *string `json:"image_url" validate:"omitempty,url"`
}

type itemUpdateBody struct {
	Name            *string `json:"name" validate:"omitempty,min=2,max=120"`
	PricePerKgPaise *int64  `json:"price_per_kg_paise" validate:"omitempty,gt=0"`
	AvailableQtyKg  *int    `json:"available_qty_kg" validate:"omitempty,gte=0"`
	ImageURL        *string `json:"image_url" validate:"omitempty,url"`
}

// ItemCreate adds an item to the caller's catalog.
func ItemCreate(svc inventory.Service, supplierSvc suppliers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		supplierID, err := resolveSupplierID(r, supplierSvc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body itemCreateBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.CreateItem(r.Context(), inventory.CreateItemInput{
			SupplierID:      supplierID,
			Name:            body.Name,
			PricePerKgPaise: body.PricePerKgPaise,
			AvailableQtyKg:  body.AvailableQtyKg,
			ImageURL:        body.ImageURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

// ItemUpdate patches an item the caller owns.
func ItemUpdate(svc inventory.Service, supplierSvc suppliers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		supplierID, err := resolveSupplierID(r, supplierSvc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		itemID, err := parsePathUUID(chi.URLParam(r, "itemId"), "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body itemUpdateBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.UpdateItem(r.Context(), supplierID, itemID, inventory.UpdateItemInput{
			Name:            body.Name,
			PricePerKgPaise: body.PricePerKgPaise,
			AvailableQtyKg:  body.AvailableQtyKg,
			ImageURL:        body.ImageURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

// ItemsList pages through the caller's catalog.
func ItemsList(svc inventory.Service, supplierSvc suppliers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		supplierID, err := resolveSupplierID(r, supplierSvc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cursor := strings.TrimSpace(r.URL.Query().Get("cursor"))

		page, err := svc.ListBySupplier(r.Context(), supplierID, cursor, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}
