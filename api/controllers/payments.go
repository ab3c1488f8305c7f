package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/rasoilink/rasoilink-backend/api/responses"
	"github.com/rasoilink/rasoilink-backend/api/validators"
	"github.com/rasoilink/rasoilink-backend/internal/payments"
	"github.com/rasoilink/rasoilink-backend/internal/vendors"
	"github.com/rasoilink/rasoilink-backend/pkg/enums"
	"github.com/rasoilink/rasoilink-backend/pkg/logger"
)

type paymentSimulateBody struct {
	GroupOrderID uuid.UUID `json:"group_order_id" validate:"required"`
	Method       string    `json:"method" validate:"omitempty,oneof=upi card cash"`
}

// PaymentSimulate charges the caller for their unpaid lines in the
// group order through the simulated gateway.
func PaymentSimulate(svc payments.Service, vendorSvc vendors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vendorID, err := resolveVendorID(r, vendorSvc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body paymentSimulateBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		receipt, err := svc.Simulate(r.Context(), body.GroupOrderID, vendorID, enums.PaymentMethod(body.Method))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, receipt)
	}
}
