package inventory

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rasoilink/rasoilink-backend/pkg/db/models"
	"github.com/rasoilink/rasoilink-backend/pkg/pagination"
)

// Repository encapsulates wholesale item persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an item repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new item.
func (r *Repository) Create(ctx context.Context, item *models.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// Update persists mutable item fields.
func (r *Repository) Update(ctx context.Context, item *models.Item) error {
	return r.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("id = ?", item.ID).
		Updates(map[string]any{
			"name":               item.Name,
			"price_per_kg_paise": item.PricePerKgPaise,
			"available_qty_kg":   item.AvailableQtyKg,
			"image_url":          item.ImageURL,
		}).
		Error
}

// FindByID loads a single item.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	var item models.Item
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&item).
		Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// FindByIDs loads the given items in one query.
func (r *Repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Item, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var items []models.Item
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&items).
		Error
	return items, err
}

// ListBySupplier returns a cursor-paginated page of the supplier's items.
func (r *Repository) ListBySupplier(ctx context.Context, supplierID uuid.UUID, cursor string, limit int) ([]models.Item, string, error) {
	decodedCursor, err := pagination.ParseCursor(strings.TrimSpace(cursor))
	if err != nil {
		return nil, "", err
	}

	query := r.db.WithContext(ctx).
		Where("supplier_id = ?", supplierID)

	if decodedCursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			decodedCursor.CreatedAt, decodedCursor.CreatedAt, decodedCursor.ID,
		)
	}

	var items []models.Item
	err = query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(limit)).
		Find(&items).
		Error
	if err != nil {
		return nil, "", err
	}

	page, hasMore := pagination.TrimPage(items, limit)
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
