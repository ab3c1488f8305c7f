package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/rasoilink/rasoilink-backend/api/middleware"
	"github.com/rasoilink/rasoilink-backend/api/responses"
	"github.com/rasoilink/rasoilink-backend/api/validators"
	"github.com/rasoilink/rasoilink-backend/internal/grouporders"
	"github.com/rasoilink/rasoilink-backend/internal/membership"
	"github.com/rasoilink/rasoilink-backend/internal/suppliers"
	"github.com/rasoilink/rasoilink-backend/internal/vendors"
	"github.com/rasoilink/rasoilink-backend/pkg/enums"
	pkgerrors "github.com/rasoilink/rasoilink-backend/pkg/errors"
	"github.com/rasoilink/rasoilink-backend/pkg/logger"
	"github.com/rasoilink/rasoilink-backend/pkg/pagination"
)

type groupOrderCreateBody struct {
	Zone          string      `json:"zone" validate:"required"`
	DurationHours int         `json:"duration_hours" validate:"omitempty,gt=0"`
	ItemIDs       []uuid.UUID `json:"item_ids" validate:"required,min=1"`
}

type groupOrderJoinBody struct {
	Items []joinLineBody `json:"items" validate:"required,min=1,dive"`
}

type joinLineBody struct {
	ItemID     uuid.UUID `json:"item_id" validate:"required"`
	QuantityKg int       `json:"quantity_kg" validate:"required,gt=0"`
}

type groupOrderStatusBody struct {
	Status       string `json:"status" validate:"required,oneof=closed dispatched delivered"`
	ProofFileURL string `json:"proof_file_url" validate:"omitempty,url"`
	ProofType    string `json:"proof_type" validate:"omitempty,oneof=image audio"`
}

// GroupOrderCreate opens a group order for the caller's supplier.
func GroupOrderCreate(svc grouporders.Service, supplierSvc suppliers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		supplierID, err := resolveSupplierID(r, supplierSvc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body groupOrderCreateBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Create(r.Context(), grouporders.CreateInput{
			SupplierID:    supplierID,
			Zone:          body.Zone,
			DurationHours: body.DurationHours,
			ItemIDs:       body.ItemIDs,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// GroupOrdersList pages the open orders for a zone. Vendors default to
// their own zone; a zone query parameter overrides it.
func GroupOrdersList(svc grouporders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		zone := strings.TrimSpace(r.URL.Query().Get("zone"))
		if zone == "" {
			if identity, ok := middleware.IdentityFromContext(r.Context()); ok && identity.Zone != nil {
				zone = *identity.Zone
			}
		}
		if zone == "" {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "zone is required").
					WithDetails(map[string]any{"field": "zone"}))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cursor := strings.TrimSpace(r.URL.Query().Get("cursor"))

		page, err := svc.ListOpenByZone(r.Context(), zone, cursor, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// GroupOrdersMine pages the caller's own supplier orders.
func GroupOrdersMine(svc grouporders.Service, supplierSvc suppliers.Service, logg *logger.Logger) http.HandlerFunc {
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

// GroupOrderGet loads one group order with its items.
func GroupOrderGet(svc grouporders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := parsePathUUID(chi.URLParam(r, "orderId"), "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Get(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// GroupOrderJoin writes the caller's quantities into the group order.
func GroupOrderJoin(svc membership.Service, vendorSvc vendors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vendorID, err := resolveVendorID(r, vendorSvc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := parsePathUUID(chi.URLParam(r, "orderId"), "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body groupOrderJoinBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lines := make([]membership.JoinLine, 0, len(body.Items))
		for _, item := range body.Items {
			lines = append(lines, membership.JoinLine{ItemID: item.ItemID, QuantityKg: item.QuantityKg})
		}

		result, err := svc.Join(r.Context(), membership.JoinInput{
			VendorID:     vendorID,
			GroupOrderID: orderID,
			Lines:        lines,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// GroupOrderMyOrders returns the caller's lines in the group order.
func GroupOrderMyOrders(svc membership.Service, vendorSvc vendors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vendorID, err := resolveVendorID(r, vendorSvc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := parsePathUUID(chi.URLParam(r, "orderId"), "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.GetVendorOrders(r.Context(), orderID, vendorID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// GroupOrderStatus moves the order along its lifecycle, carrying the
// delivery proof when dispatching.
func GroupOrderStatus(svc grouporders.Service, supplierSvc suppliers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		supplierID, err := resolveSupplierID(r, supplierSvc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := parsePathUUID(chi.URLParam(r, "orderId"), "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body groupOrderStatusBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseGroupOrderStatus(body.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid status"))
			return
		}

		input := grouporders.StatusInput{Status: status}
		if body.ProofFileURL != "" || body.ProofType != "" {
			proofType, err := enums.ParseProofType(body.ProofType)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid proof type"))
				return
			}
			input.Proof = &grouporders.ProofInput{FileURL: body.ProofFileURL, Type: proofType}
		}

		order, err := svc.UpdateStatus(r.Context(), supplierID, orderID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// GroupOrderProofs lists the delivery proofs attached to an order.
func GroupOrderProofs(svc grouporders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := parsePathUUID(chi.URLParam(r, "orderId"), "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		proofs, err := svc.ListProofs(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, proofs)
	}
}
