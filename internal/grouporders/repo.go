package grouporders

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rasoilink/rasoilink-backend/pkg/db/models"
	"github.com/rasoilink/rasoilink-backend/pkg/enums"
	"github.com/rasoilink/rasoilink-backend/pkg/pagination"
)

// Repository encapsulates group order persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a group order repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts the group order together with its seeded item rows in a
// single transaction.
func (r *Repository) Create(ctx context.Context, order *models.GroupOrder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(order).Error
	})
}

// FindByID loads a group order with its items.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.GroupOrder, error) {
	var order models.GroupOrder
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", id).
		First(&order).
		Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOpenByZone returns forming orders in the zone that have not passed
// their close time, newest first.
func (r *Repository) ListOpenByZone(ctx context.Context, zone string, now time.Time, cursor string, limit int) ([]models.GroupOrder, string, error) {
	decodedCursor, err := pagination.ParseCursor(strings.TrimSpace(cursor))
	if err != nil {
		return nil, "", err
	}

	query := r.db.WithContext(ctx).
		Preload("Items").
		Where("zone = ?", zone).
		Where("status = ?", enums.GroupOrderStatusForming).
		Where("close_at > ?", now)

	if decodedCursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID,
		)
	}

	var orders []models.GroupOrder
	err = query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(limit)).
		Find(&orders).
		Error
	if err != nil {
		return nil, "", err
	}

	page, hasMore := pagination.TrimPage(orders, limit)
	nextCursor := ""
	if hasMore {
		last := page[len(page)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return page, nextCursor, nil
}

// ListBySupplier returns the supplier's group orders, newest first.
func (r *Repository) ListBySupplier(ctx context.Context, supplierID uuid.UUID, cursor string, limit int) ([]models.GroupOrder, string, error) {
	decodedCursor, err := pagination.ParseCursor(strings.TrimSpace(cursor))
	if err != nil {
		return nil, "", err
	}

	query := r.db.WithContext(ctx).
		Preload("Items").
		Where("supplier_id = ?", supplierID)

	if decodedCursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID,
		)
	}

	var orders []models.GroupOrder
	err = query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(limit)).
		Find(&orders).
		Error
	if err != nil {
		return nil, "", err
	}

	page, hasMore := pagination.TrimPage(orders, limit)
	nextCursor := ""
	if hasMore {
		last := page[len(page)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return page, nextCursor, nil
}

// UpdateStatus moves the order to the new status.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.GroupOrderStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.GroupOrder{}).
		Where("id = ?", id).
		Update("status", status).
		Error
}

// UpdateStatusWithProof moves the order to the new status and, when a
// proof is supplied, appends it in the same transaction.
func (r *Repository) UpdateStatusWithProof(ctx context.Context, id uuid.UUID, status enums.GroupOrderStatus, proof *models.DeliveryProof) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.GroupOrder{}).
			Where("id = ?", id).
			Update("status", status).
			Error
		if err != nil {
			return err
		}
		if proof != nil {
			return tx.Create(proof).Error
		}
		return nil
	})
}

// CreateProof appends a delivery proof row.
func (r *Repository) CreateProof(ctx context.Context, proof *models.DeliveryProof) error {
	return r.db.WithContext(ctx).Create(proof).Error
}

// ListProofs returns the proofs attached to a group order.
func (r *Repository) ListProofs(ctx context.Context, groupOrderID uuid.UUID) ([]models.DeliveryProof, error) {
	var proofs []models.DeliveryProof
	err := r.db.WithContext(ctx).
		Where("group_order_id = ?", groupOrderID).
		Order("created_at ASC").
		Find(&proofs).
		Error
	return proofs, err
}

// CloseExpired bulk-moves forming orders past their close time to closed
// and returns the affected order IDs.
func (r *Repository) CloseExpired(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	var expired []models.GroupOrder
	err := r.db.WithContext(ctx).
		Select("id").
		Where("status = ?", enums.GroupOrderStatusForming).
		Where("close_at < ?", now).
		Find(&expired).
		Error
	if err != nil {
		return nil, err
	}
	if len(expired) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, 0, len(expired))
	for _, order := range expired {
		ids = append(ids, order.ID)
	}

	err = r.db.WithContext(ctx).
		Model(&models.GroupOrder{}).
		Where("id IN ?", ids).
		Where("status = ?", enums.GroupOrderStatusForming).
		Update("status", enums.GroupOrderStatusClosed).
		Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
