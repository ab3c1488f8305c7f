package inventory

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rasoilink/rasoilink-backend/internal/notify"
	"github.com/rasoilink/rasoilink-backend/pkg/db/models"
	pkgerrors "github.com/rasoilink/rasoilink-backend/pkg/errors"
)

type itemRepo interface {
	Create(ctx context.Context, item *models.Item) error
	Update(ctx context.Context, item *models.Item) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Item, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Item, error)
	ListBySupplier(ctx context.Context, supplierID uuid.UUID, cursor string, limit int) ([]models.Item, string, error)
}

// ServiceParams groups dependencies for the inventory service.
type ServiceParams struct {
	Repo   itemRepo
	Events notify.Publisher
}

// Service exposes wholesale item management for suppliers.
type Service interface {
	CreateItem(ctx context.Context, input CreateItemInput) (ItemDTO, error)
	UpdateItem(ctx context.Context, supplierID, itemID uuid.UUID, input UpdateItemInput) (ItemDTO, error)
	ListBySupplier(ctx context.Context, supplierID uuid.UUID, cursor string, limit int) (ItemsPageDTO, error)
	FindOwnedItems(ctx context.Context, supplierID uuid.UUID, ids []uuid.UUID) ([]models.Item, error)
}

type service struct {
	repo   itemRepo
	events notify.Publisher
}

// NewService builds an inventory service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item repo is required")
	}
	if params.Events == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "event publisher is required")
	}
	return &service{
		repo:   params.Repo,
		events: params.Events,
	}, nil
}

// CreateItem inserts a new item owned by the supplier.
func (s *service) CreateItem(ctx context.Context, input CreateItemInput) (ItemDTO, error) {
	if input.SupplierID == uuid.Nil {
		return ItemDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "supplier id is required")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return ItemDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "item name is required")
	}
	if input.PricePerKgPaise <= 0 {
		return ItemDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
	}
	if input.AvailableQtyKg < 0 {
		return ItemDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "available quantity cannot be negative")
	}

	item := &models.Item{
		SupplierID:      input.SupplierID,
		Name:            name,
		PricePerKgPaise: input.PricePerKgPaise,
		AvailableQtyKg:  input.AvailableQtyKg,
		ImageURL:        input.ImageURL,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return ItemDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create item")
	}

	s.events.PublishInventoryChanged(ctx, notify.InventoryEvent{
		Type:       notify.EventItemCreated,
		ItemID:     item.ID,
		SupplierID: item.SupplierID,
	})
	return toDTO(item), nil
}

// UpdateItem applies changes to an item the supplier owns.
func (s *service) UpdateItem(ctx context.Context, supplierID, itemID uuid.UUID, input UpdateItemInput) (ItemDTO, error) {
	item, err := s.loadOwned(ctx, supplierID, itemID)
	if err != nil {
		return ItemDTO{}, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return ItemDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "item name cannot be blank")
		}
		item.Name = name
	}
	if input.PricePerKgPaise != nil {
		if *input.PricePerKgPaise <= 0 {
			return ItemDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
		}
		item.PricePerKgPaise = *input.PricePerKgPaise
	}
	if input.AvailableQtyKg != nil {
		if *input.AvailableQtyKg < 0 {
			return ItemDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "available quantity cannot be negative")
		}
		item.AvailableQtyKg = *input.AvailableQtyKg
	}
	if input.ImageURL != nil {
		item.ImageURL = input.ImageURL
	}

	if err := s.repo.Update(ctx, item); err != nil {
		return ItemDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update item")
	}

	s.events.PublishInventoryChanged(ctx, notify.InventoryEvent{
		Type:       notify.EventItemUpdated,
		ItemID:     item.ID,
		SupplierID: item.SupplierID,
	})
	return toDTO(item), nil
}

// ListBySupplier returns the supplier's items, newest first.
func (s *service) ListBySupplier(ctx context.Context, supplierID uuid.UUID, cursor string, limit int) (ItemsPageDTO, error) {
	if supplierID == uuid.Nil {
		return ItemsPageDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "supplier id is required")
	}
	items, nextCursor, err := s.repo.ListBySupplier(ctx, supplierID, cursor, limit)
	if err != nil {
		return ItemsPageDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list items")
	}

	dtos := make([]ItemDTO, 0, len(items))
	for i := range items {
		dtos = append(dtos, toDTO(&items[i]))
	}
	return ItemsPageDTO{Items: dtos, NextCursor: nextCursor}, nil
}

// FindOwnedItems loads the requested items and verifies all belong to the
// supplier.
func (s *service) FindOwnedItems(ctx context.Context, supplierID uuid.UUID, ids []uuid.UUID) ([]models.Item, error) {
	if len(ids) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one item is required")
	}
	items, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load items")
	}
	if len(items) != len(ids) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "one or more items not found")
	}
	for i := range items {
		if items[i].SupplierID != supplierID {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "item does not belong to supplier")
		}
	}
	return items, nil
}

func (s *service) loadOwned(ctx context.Context, supplierID, itemID uuid.UUID) (*models.Item, error) {
	if supplierID == uuid.Nil || itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier id and item id are required")
	}
	item, err := s.repo.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
	}
	if item.SupplierID != supplierID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "item does not belong to supplier")
	}
	return item, nil
}
