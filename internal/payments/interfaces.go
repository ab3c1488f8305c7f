package payments

import (
	"context"

	"github.com/google/uuid"

	"github.com/rasoilink/rasoilink-backend/pkg/db/models"
	"github.com/rasoilink/rasoilink-backend/pkg/enums"
)

type vendorOrderRepo interface {
	ListByVendor(ctx context.Context, groupOrderID, vendorID uuid.UUID) ([]models.VendorOrder, error)
	MarkPaid(ctx context.Context, groupOrderID, vendorID uuid.UUID, paymentID string) error
	CountUnpaid(ctx context.Context, groupOrderID uuid.UUID) (int64, error)
}

type orderLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.GroupOrder, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.GroupOrderStatus) error
}
