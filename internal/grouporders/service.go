package grouporders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rasoilink/rasoilink-backend/internal/notify"
	"github.com/rasoilink/rasoilink-backend/internal/zones"
	"github.com/rasoilink/rasoilink-backend/pkg/config"
	"github.com/rasoilink/rasoilink-backend/pkg/db/models"
	"github.com/rasoilink/rasoilink-backend/pkg/enums"
	pkgerrors "github.com/rasoilink/rasoilink-backend/pkg/errors"
)

// ServiceParams groups dependencies for the group order service.
type ServiceParams struct {
	Repo      orderRepo
	Suppliers supplierLoader
	Zones     zones.Service
	Items     ownedItemsFinder
	Events    notify.Publisher
	Orders    config.OrdersConfig
	Now       func() time.Time
}

// Service exposes the group order lifecycle.
type Service interface {
	Create(ctx context.Context, input CreateInput) (GroupOrderDTO, error)
	Get(ctx context.Context, id uuid.UUID) (GroupOrderDTO, error)
	ListOpenByZone(ctx context.Context, zone string, cursor string, limit int) (GroupOrdersPageDTO, error)
	ListBySupplier(ctx context.Context, supplierID uuid.UUID, cursor string, limit int) (GroupOrdersPageDTO, error)
	UpdateStatus(ctx context.Context, supplierID, orderID uuid.UUID, input StatusInput) (GroupOrderDTO, error)
	ListProofs(ctx context.Context, orderID uuid.UUID) ([]ProofDTO, error)
	CloseExpired(ctx context.Context) (int, error)
}

type service struct {
	repo      orderRepo
	suppliers supplierLoader
	zones     zones.Service
	items     ownedItemsFinder
	events    notify.Publisher
	orders    config.OrdersConfig
	now       func() time.Time
}

// NewService builds a group order service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "group order repo is required")
	}
	if params.Suppliers == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier repo is required")
	}
	if params.Zones == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "zone service is required")
	}
	if params.Items == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item finder is required")
	}
	if params.Events == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "event publisher is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:      params.Repo,
		suppliers: params.Suppliers,
		zones:     params.Zones,
		items:     params.Items,
		events:    params.Events,
		orders:    params.Orders,
		now:       now,
	}, nil
}

// Create opens a group order in the zone, seeding one row per offered
// item with the name and price snapshotted and totals at zero.
func (s *service) Create(ctx context.Context, input CreateInput) (GroupOrderDTO, error) {
	if input.SupplierID == uuid.Nil {
		return GroupOrderDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "supplier id is required")
	}
	if len(input.ItemIDs) == 0 {
		return GroupOrderDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "at least one item is required")
	}
	if err := s.zones.EnsureExists(ctx, input.Zone); err != nil {
		return GroupOrderDTO{}, err
	}

	supplier, err := s.suppliers.FindByID(ctx, input.SupplierID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return GroupOrderDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
		}
		return GroupOrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load supplier")
	}
	if !supplier.DeliversTo(input.Zone) {
		return GroupOrderDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "supplier does not deliver to this zone").
			WithDetails(map[string]string{"zone": input.Zone})
	}

	duration := input.DurationHours
	if duration <= 0 {
		duration = s.orders.DefaultDurationHours
	}
	if s.orders.MaxDurationHours > 0 && duration > s.orders.MaxDurationHours {
		return GroupOrderDTO{}, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("duration cannot exceed %d hours", s.orders.MaxDurationHours))
	}

	items, err := s.items.FindOwnedItems(ctx, input.SupplierID, dedupe(input.ItemIDs))
	if err != nil {
		return GroupOrderDTO{}, err
	}

	now := s.now()
	order := &models.GroupOrder{
		SupplierID: input.SupplierID,
		Zone:       input.Zone,
		CloseAt:    now.Add(time.Duration(duration) * time.Hour),
		Status:     enums.GroupOrderStatusForming,
	}
	for i := range items {
		order.Items = append(order.Items, models.GroupOrderItem{
			ItemID:          items[i].ID,
			Name:            items[i].Name,
			PricePerKgPaise: items[i].PricePerKgPaise,
			TotalQtyKg:      0,
		})
	}

	if err := s.repo.Create(ctx, order); err != nil {
		return GroupOrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create group order")
	}

	s.events.PublishOrderChanged(ctx, notify.OrderEvent{
		Type:         notify.EventGroupOrderCreated,
		GroupOrderID: order.ID,
		Zone:         order.Zone,
		SupplierID:   order.SupplierID,
		Status:       order.Status.String(),
	})
	return toDTO(order), nil
}

// Get loads one group order with its items.
func (s *service) Get(ctx context.Context, id uuid.UUID) (GroupOrderDTO, error) {
	if id == uuid.Nil {
		return GroupOrderDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "group order id is required")
	}
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return GroupOrderDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "group order not found")
		}
		return GroupOrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load group order")
	}
	return toDTO(order), nil
}

// ListOpenByZone returns joinable orders for the vendor's zone.
func (s *service) ListOpenByZone(ctx context.Context, zone string, cursor string, limit int) (GroupOrdersPageDTO, error) {
	if err := s.zones.EnsureExists(ctx, zone); err != nil {
		return GroupOrdersPageDTO{}, err
	}
	orders, nextCursor, err := s.repo.ListOpenByZone(ctx, zone, s.now(), cursor, limit)
	if err != nil {
		return GroupOrdersPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list group orders")
	}
	return toPage(orders, nextCursor), nil
}

// ListBySupplier returns the supplier's own orders.
func (s *service) ListBySupplier(ctx context.Context, supplierID uuid.UUID, cursor string, limit int) (GroupOrdersPageDTO, error) {
	if supplierID == uuid.Nil {
		return GroupOrdersPageDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "supplier id is required")
	}
	orders, nextCursor, err := s.repo.ListBySupplier(ctx, supplierID, cursor, limit)
	if err != nil {
		return GroupOrdersPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list group orders")
	}
	return toPage(orders, nextCursor), nil
}

// UpdateStatus moves the order one step forward along its lifecycle.
// Only the owning supplier may transition, and moving to dispatched
// requires a delivery proof recorded in the same transaction.
func (s *service) UpdateStatus(ctx context.Context, supplierID, orderID uuid.UUID, input StatusInput) (GroupOrderDTO, error) {
	if supplierID == uuid.Nil || orderID == uuid.Nil {
		return GroupOrderDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "supplier id and order id are required")
	}
	if !input.Status.IsValid() {
		return GroupOrderDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return GroupOrderDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "group order not found")
		}
		return GroupOrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load group order")
	}
	if order.SupplierID != supplierID {
		return GroupOrderDTO{}, pkgerrors.New(pkgerrors.CodeForbidden, "group order belongs to another supplier")
	}
	if !order.Status.CanTransitionTo(input.Status) {
		return GroupOrderDTO{}, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move from %s to %s", order.Status, input.Status)).
			WithDetails(map[string]string{"from": order.Status.String(), "to": input.Status.String()})
	}

	var proof *models.DeliveryProof
	if input.Status == enums.GroupOrderStatusDispatched {
		if input.Proof == nil {
			return GroupOrderDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "delivery proof is required to dispatch")
		}
		if strings.TrimSpace(input.Proof.FileURL) == "" {
			return GroupOrderDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "proof file url is required")
		}
		if !input.Proof.Type.IsValid() {
			return GroupOrderDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid proof type")
		}
		proof = &models.DeliveryProof{
			GroupOrderID: order.ID,
			SupplierID:   supplierID,
			FileURL:      input.Proof.FileURL,
			Type:         input.Proof.Type,
		}
	}

	if err := s.repo.UpdateStatusWithProof(ctx, order.ID, input.Status, proof); err != nil {
		return GroupOrderDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update status")
	}
	order.Status = input.Status

	s.events.PublishOrderChanged(ctx, notify.OrderEvent{
		Type:         notify.EventGroupOrderStatus,
		GroupOrderID: order.ID,
		Zone:         order.Zone,
		SupplierID:   order.SupplierID,
		Status:       order.Status.String(),
	})
	return toDTO(order), nil
}

// ListProofs returns the proofs attached to an order.
func (s *service) ListProofs(ctx context.Context, orderID uuid.UUID) ([]ProofDTO, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "group order id is required")
	}
	proofs, err := s.repo.ListProofs(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list proofs")
	}
	dtos := make([]ProofDTO, 0, len(proofs))
	for i := range proofs {
		dtos = append(dtos, toProofDTO(&proofs[i]))
	}
	return dtos, nil
}

// CloseExpired bulk-closes forming orders past their close time and
// returns how many were affected. Already-closed windows are skipped, so
// the sweep is idempotent.
func (s *service) CloseExpired(ctx context.Context) (int, error) {
	ids, err := s.repo.CloseExpired(ctx, s.now())
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "close expired orders")
	}
	for _, id := range ids {
		s.events.PublishOrderChanged(ctx, notify.OrderEvent{
			Type:         notify.EventGroupOrderExpired,
			GroupOrderID: id,
			Status:       enums.GroupOrderStatusClosed.String(),
		})
	}
	return len(ids), nil
}

func toPage(orders []models.GroupOrder, nextCursor string) GroupOrdersPageDTO {
	dtos := make([]GroupOrderDTO, 0, len(orders))
	for i := range orders {
		dtos = append(dtos, toDTO(&orders[i]))
	}
	return GroupOrdersPageDTO{Orders: dtos, NextCursor: nextCursor}
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
