package grouporders

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/rasoilink/rasoilink-backend/pkg/db/models"
	"github.com/rasoilink/rasoilink-backend/pkg/enums"
)

type orderRepo interface {
	Create(ctx context.Context, order *models.GroupOrder) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.GroupOrder, error)
	ListOpenByZone(ctx context.Context, zone string, now time.Time, cursor string, limit int) ([]models.GroupOrder, string, error)
	ListBySupplier(ctx context.Context, supplierID uuid.UUID, cursor string, limit int) ([]models.GroupOrder, string, error)
	UpdateStatusWithProof(ctx context.Context, id uuid.UUID, status enums.GroupOrderStatus, proof *models.DeliveryProof) error
	ListProofs(ctx context.Context, groupOrderID uuid.UUID) ([]models.DeliveryProof, error)
	CloseExpired(ctx context.Context, now time.Time) ([]uuid.UUID, error)
}

type supplierLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error)
}

type ownedItemsFinder interface {
	FindOwnedItems(ctx context.Context, supplierID uuid.UUID, ids []uuid.UUID) ([]models.Item, error)
}
