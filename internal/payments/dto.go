package payments

import (
	"time"

	"github.com/google/uuid"

	"github.com/rasoilink/rasoilink-backend/internal/pricing"
	"github.com/rasoilink/rasoilink-backend/pkg/enums"
)

// PaymentDTO is the receipt returned after a simulated charge.
type PaymentDTO struct {
	PaymentID    string              `json:"payment_id"`
	GroupOrderID uuid.UUID           `json:"group_order_id"`
	VendorID     uuid.UUID           `json:"vendor_id"`
	AmountPaise  int64               `json:"amount_paise"`
	Method       enums.PaymentMethod `json:"method"`
	Quote        pricing.Quote       `json:"quote"`
	ChargedAt    time.Time           `json:"charged_at"`
}
