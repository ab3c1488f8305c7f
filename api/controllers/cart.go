package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/rasoilink/rasoilink-backend/api/responses"
	"github.com/rasoilink/rasoilink-backend/api/validators"
	"github.com/rasoilink/rasoilink-backend/internal/membership"
	"github.com/rasoilink/rasoilink-backend/pkg/logger"
)

type cartQuoteBody struct {
	GroupOrderID uuid.UUID      `json:"group_order_id" validate:"required"`
	Items        []joinLineBody `json:"items" validate:"required,min=1,dive"`
}

// CartQuote prices a prospective cart against a group order without
// persisting anything.
func CartQuote(svc membership.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body cartQuoteBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lines := make([]membership.JoinLine, 0, len(body.Items))
		for _, item := range body.Items {
			lines = append(lines, membership.JoinLine{ItemID: item.ItemID, QuantityKg: item.QuantityKg})
		}

		quote, err := svc.Quote(r.Context(), body.GroupOrderID, lines)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}
