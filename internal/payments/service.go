package payments

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rasoilink/rasoilink-backend/internal/notify"
	"github.com/rasoilink/rasoilink-backend/internal/pricing"
	"github.com/rasoilink/rasoilink-backend/pkg/db/models"
	"github.com/rasoilink/rasoilink-backend/pkg/enums"
	pkgerrors "github.com/rasoilink/rasoilink-backend/pkg/errors"
	"github.com/rasoilink/rasoilink-backend/pkg/logger"
)

// ServiceParams groups dependencies for the payment service.
type ServiceParams struct {
	Repo    vendorOrderRepo
	Orders  orderLoader
	Gateway Gateway
	Events  notify.Publisher
	Logger  *logger.Logger
}

// Service exposes the simulated payment flow.
type Service interface {
	Simulate(ctx context.Context, groupOrderID, vendorID uuid.UUID, method enums.PaymentMethod) (PaymentDTO, error)
}

type service struct {
	repo    vendorOrderRepo
	orders  orderLoader
	gateway Gateway
	events  notify.Publisher
	logg    *logger.Logger
}

// NewService builds a payment service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor order repo is required")
	}
	if params.Orders == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "group order loader is required")
	}
	if params.Gateway == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment gateway is required")
	}
	if params.Events == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "event publisher is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &service{
		repo:    params.Repo,
		orders:  params.Orders,
		gateway: params.Gateway,
		events:  params.Events,
		logg:    params.Logger,
	}, nil
}

// Simulate charges the vendor for all their unpaid lines in the group
// order at the discounted price and marks them paid. When the last
// unpaid line in a forming order is settled the order is closed early.
// Repeat calls after every line is paid return the earlier receipt
// without charging again.
func (s *service) Simulate(ctx context.Context, groupOrderID, vendorID uuid.UUID, method enums.PaymentMethod) (PaymentDTO, error) {
	if groupOrderID == uuid.Nil || vendorID == uuid.Nil {
		return PaymentDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "group order id and vendor id are required")
	}
	if method == "" {
		method = enums.PaymentMethodUPI
	}
	if !method.IsValid() {
		return PaymentDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}

	order, err := s.orders.FindByID(ctx, groupOrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PaymentDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "group order not found")
		}
		return PaymentDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load group order")
	}
	if order.Status == enums.GroupOrderStatusDispatched || order.Status == enums.GroupOrderStatusDelivered {
		return PaymentDTO{}, pkgerrors.New(pkgerrors.CodeStateConflict, "group order is already on its way").
			WithDetails(map[string]string{"status": order.Status.String()})
	}

	lines, err := s.repo.ListByVendor(ctx, groupOrderID, vendorID)
	if err != nil {
		return PaymentDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor orders")
	}
	unpaid := unpaidLines(lines)
	if len(unpaid) == 0 {
		if receipt, ok := priorReceipt(order, vendorID, method, lines); ok {
			return receipt, nil
		}
		return PaymentDTO{}, pkgerrors.New(pkgerrors.CodeStateConflict, "no orders for this vendor")
	}

	quote, err := pricing.BuildQuote(priceLines(order, unpaid))
	if err != nil {
		return PaymentDTO{}, err
	}

	result, err := s.gateway.Charge(ctx, ChargeInput{
		VendorID:     vendorID,
		GroupOrderID: groupOrderID,
		AmountPaise:  quote.DiscountedTotalPaise,
		Method:       method,
	})
	if err != nil {
		return PaymentDTO{}, err
	}

	if err := s.repo.MarkPaid(ctx, groupOrderID, vendorID, result.PaymentID); err != nil {
		return PaymentDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark orders paid")
	}

	s.maybeCloseSettledOrder(ctx, order)

	s.events.PublishOrderChanged(ctx, notify.OrderEvent{
		Type:         notify.EventPaymentRecorded,
		GroupOrderID: order.ID,
		Zone:         order.Zone,
		SupplierID:   order.SupplierID,
		VendorID:     &vendorID,
		Status:       order.Status.String(),
	})

	return PaymentDTO{
		PaymentID:    result.PaymentID,
		GroupOrderID: groupOrderID,
		VendorID:     vendorID,
		AmountPaise:  result.AmountPaise,
		Method:       method,
		Quote:        quote,
		ChargedAt:    result.ChargedAt,
	}, nil
}

// maybeCloseSettledOrder closes a forming order whose lines are now all
// paid. Failures are logged and swallowed: the charge already happened
// and the expiry sweep will close the window anyway.
func (s *service) maybeCloseSettledOrder(ctx context.Context, order *models.GroupOrder) {
	if order.Status != enums.GroupOrderStatusForming {
		return
	}
	ctx = s.logg.WithGroupOrderID(ctx, order.ID.String())
	remaining, err := s.repo.CountUnpaid(ctx, order.ID)
	if err != nil {
		s.logg.Error(ctx, "count unpaid orders", err)
		return
	}
	if remaining > 0 {
		return
	}
	if err := s.orders.UpdateStatus(ctx, order.ID, enums.GroupOrderStatusClosed); err != nil {
		s.logg.Error(ctx, "close settled order", err)
		return
	}
	order.Status = enums.GroupOrderStatusClosed
}

// priorReceipt rebuilds the receipt for a vendor whose lines are all
// paid already, keeping repeat payment requests idempotent.
func priorReceipt(order *models.GroupOrder, vendorID uuid.UUID, method enums.PaymentMethod, lines []models.VendorOrder) (PaymentDTO, bool) {
	if len(lines) == 0 {
		return PaymentDTO{}, false
	}

	var paymentID string
	var chargedAt time.Time
	for _, line := range lines {
		if paymentID == "" && line.PaymentID != nil {
			paymentID = *line.PaymentID
		}
		if line.UpdatedAt.After(chargedAt) {
			chargedAt = line.UpdatedAt
		}
	}
	if paymentID == "" {
		return PaymentDTO{}, false
	}

	quote, err := pricing.BuildQuote(priceLines(order, lines))
	if err != nil {
		return PaymentDTO{}, false
	}

	return PaymentDTO{
		PaymentID:    paymentID,
		GroupOrderID: order.ID,
		VendorID:     vendorID,
		AmountPaise:  quote.DiscountedTotalPaise,
		Method:       method,
		Quote:        quote,
		ChargedAt:    chargedAt,
	}, true
}

func unpaidLines(lines []models.VendorOrder) []models.VendorOrder {
	var unpaid []models.VendorOrder
	for _, line := range lines {
		if !line.Paid {
			unpaid = append(unpaid, line)
		}
	}
	return unpaid
}

func priceLines(order *models.GroupOrder, lines []models.VendorOrder) []pricing.Line {
	offered := make(map[uuid.UUID]models.GroupOrderItem, len(order.Items))
	for _, item := range order.Items {
		offered[item.ItemID] = item
	}

	out := make([]pricing.Line, 0, len(lines))
	for _, line := range lines {
		item, ok := offered[line.ItemID]
		if !ok {
			continue
		}
		out = append(out, pricing.Line{
			ItemID:          item.ItemID,
			Name:            item.Name,
			PricePerKgPaise: item.PricePerKgPaise,
			QuantityKg:      line.QuantityKg,
		})
	}
	return out
}
