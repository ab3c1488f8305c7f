package membership

import (
	"context"

	"github.com/google/uuid"

	"github.com/rasoilink/rasoilink-backend/pkg/db/models"
)

type memberRepo interface {
	UpsertLines(ctx context.Context, groupOrderID uuid.UUID, orders []models.VendorOrder) error
	ListByVendor(ctx context.Context, groupOrderID, vendorID uuid.UUID) ([]models.VendorOrder, error)
}

type orderLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.GroupOrder, error)
}

type vendorLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error)
}
