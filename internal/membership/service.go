package membership

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
)

// ServiceParams groups dependencies for the membership service.
type ServiceParams struct {
	Repo    memberRepo
	Orders  orderLoader
	Vendors vendorLoader
	Events  notify.Publisher
	Now     func() time.Time
}

// Service exposes vendor participation in group orders.
type Service interface {
	Join(ctx context.Context, input JoinInput) (JoinResultDTO, error)
	GetVendorOrders(ctx context.Context, groupOrderID, vendorID uuid.UUID) (JoinResultDTO, error)
	Quote(ctx context.Context, groupOrderID uuid.UUID, lines []JoinLine) (pricing.Quote, error)
}

type service struct {
	repo    memberRepo
	orders  orderLoader
	vendors vendorLoader
	events  notify.Publisher
	now     func() time.Time
}

// NewService builds a membership service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor order repo is required")
	}
	if params.Orders == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "group order loader is required")
	}
	if params.Vendors == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor loader is required")
	}
	if params.Events == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "event publisher is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:    params.Repo,
		orders:  params.Orders,
		vendors: params.Vendors,
		events:  params.Events,
		now:     now,
	}, nil
}

// Join writes the vendor's requested quantities into the group order.
// The order must still be forming and inside its window, the vendor must
// be in the order's zone, and every item must be one the supplier
// offered. Repeat joins replace the earlier quantities.
func (s *service) Join(ctx context.Context, input JoinInput) (JoinResultDTO, error) {
	if input.VendorID == uuid.Nil || input.GroupOrderID == uuid.Nil {
		return JoinResultDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "vendor id and group order id are required")
	}
	lines, err := normalizeLines(input.Lines)
	if err != nil {
		return JoinResultDTO{}, err
	}

	order, err := s.loadOrder(ctx, input.GroupOrderID)
	if err != nil {
		return JoinResultDTO{}, err
	}
	if order.Status != enums.GroupOrderStatusForming {
		return JoinResultDTO{}, pkgerrors.New(pkgerrors.CodeStateConflict, "group order is no longer accepting joins").
			WithDetails(map[string]string{"status": order.Status.String()})
	}
	if !order.CloseAt.After(s.now()) {
		return JoinResultDTO{}, pkgerrors.New(pkgerrors.CodeStateConflict, "group order window has closed")
	}

	vendor, err := s.vendors.FindByID(ctx, input.VendorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return JoinResultDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
		}
		return JoinResultDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor")
	}
	if vendor.Zone != order.Zone {
		return JoinResultDTO{}, pkgerrors.New(pkgerrors.CodeForbidden, "group order is for a different zone").
			WithDetails(map[string]string{"vendor_zone": vendor.Zone, "order_zone": order.Zone})
	}

	offered := offeredItems(order)
	rows := make([]models.VendorOrder, 0, len(lines))
	for _, line := range lines {
		if _, ok := offered[line.ItemID]; !ok {
			return JoinResultDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "item is not part of this group order").
				WithDetails(map[string]string{"item_id": line.ItemID.String()})
		}
		rows = append(rows, models.VendorOrder{
			GroupOrderID: order.ID,
			VendorID:     vendor.ID,
			ItemID:       line.ItemID,
			QuantityKg:   line.QuantityKg,
		})
	}

	if err := s.repo.UpsertLines(ctx, order.ID, rows); err != nil {
		return JoinResultDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save vendor orders")
	}

	s.events.PublishOrderChanged(ctx, notify.OrderEvent{
		Type:         notify.EventGroupOrderJoined,
		GroupOrderID: order.ID,
		Zone:         order.Zone,
		SupplierID:   order.SupplierID,
		VendorID:     &vendor.ID,
		Status:       order.Status.String(),
	})

	return s.vendorPosition(ctx, order, vendor.ID)
}

// GetVendorOrders returns the vendor's current lines in the group order
// with the price breakdown.
func (s *service) GetVendorOrders(ctx context.Context, groupOrderID, vendorID uuid.UUID) (JoinResultDTO, error) {
	if vendorID == uuid.Nil || groupOrderID == uuid.Nil {
		return JoinResultDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "vendor id and group order id are required")
	}
	order, err := s.loadOrder(ctx, groupOrderID)
	if err != nil {
		return JoinResultDTO{}, err
	}
	return s.vendorPosition(ctx, order, vendorID)
}

// Quote prices a prospective cart against the group order without
// persisting anything.
func (s *service) Quote(ctx context.Context, groupOrderID uuid.UUID, lines []JoinLine) (pricing.Quote, error) {
	if groupOrderID == uuid.Nil {
		return pricing.Quote{}, pkgerrors.New(pkgerrors.CodeValidation, "group order id is required")
	}
	normalized, err := normalizeLines(lines)
	if err != nil {
		return pricing.Quote{}, err
	}
	order, err := s.loadOrder(ctx, groupOrderID)
	if err != nil {
		return pricing.Quote{}, err
	}

	offered := offeredItems(order)
	priceLines := make([]pricing.Line, 0, len(normalized))
	for _, line := range normalized {
		item, ok := offered[line.ItemID]
		if !ok {
			return pricing.Quote{}, pkgerrors.New(pkgerrors.CodeValidation, "item is not part of this group order").
				WithDetails(map[string]string{"item_id": line.ItemID.String()})
		}
		priceLines = append(priceLines, pricing.Line{
			ItemID:          item.ItemID,
			Name:            item.Name,
			PricePerKgPaise: item.PricePerKgPaise,
			QuantityKg:      line.QuantityKg,
		})
	}
	return pricing.BuildQuote(priceLines)
}

func (s *service) loadOrder(ctx context.Context, id uuid.UUID) (*models.GroupOrder, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "group order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load group order")
	}
	return order, nil
}

// vendorPosition reloads the vendor's persisted lines and prices them
// with the quantities on record.
func (s *service) vendorPosition(ctx context.Context, order *models.GroupOrder, vendorID uuid.UUID) (JoinResultDTO, error) {
	rows, err := s.repo.ListByVendor(ctx, order.ID, vendorID)
	if err != nil {
		return JoinResultDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor orders")
	}

	result := JoinResultDTO{GroupOrderID: order.ID, Lines: make([]VendorOrderDTO, 0, len(rows))}
	if len(rows) == 0 {
		return result, nil
	}

	offered := offeredItems(order)
	priceLines := make([]pricing.Line, 0, len(rows))
	for i := range rows {
		result.Lines = append(result.Lines, toVendorOrderDTO(&rows[i]))
		item, ok := offered[rows[i].ItemID]
		if !ok {
			continue
		}
		priceLines = append(priceLines, pricing.Line{
			ItemID:          item.ItemID,
			Name:            item.Name,
			PricePerKgPaise: item.PricePerKgPaise,
			QuantityKg:      rows[i].QuantityKg,
		})
	}

	quote, err := pricing.BuildQuote(priceLines)
	if err != nil {
		return JoinResultDTO{}, err
	}
	result.Quote = quote
	return result, nil
}

func offeredItems(order *models.GroupOrder) map[uuid.UUID]models.GroupOrderItem {
	offered := make(map[uuid.UUID]models.GroupOrderItem, len(order.Items))
	for _, item := range order.Items {
		offered[item.ItemID] = item
	}
	return offered
}

// normalizeLines rejects empty carts, non-positive quantities and
// duplicate item ids.
func normalizeLines(lines []JoinLine) ([]JoinLine, error) {
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one line is required")
	}
	seen := make(map[uuid.UUID]struct{}, len(lines))
	out := make([]JoinLine, 0, len(lines))
	for _, line := range lines {
		if line.ItemID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
		}
		if line.QuantityKg <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
		}
		if _, ok := seen[line.ItemID]; ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "duplicate item in request").
				WithDetails(map[string]string{"item_id": line.ItemID.String()})
		}
		seen[line.ItemID] = struct{}{}
		out = append(out, line)
	}
	return out, nil
}
