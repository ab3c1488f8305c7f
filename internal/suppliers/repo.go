package suppliers

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rasoilink/rasoilink-backend/pkg/db/models"
)

// Repository encapsulates supplier profile persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a supplier repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts the supplier profile.
func (r *Repository) Create(ctx context.Context, supplier *models.Supplier) error {
	return r.db.WithContext(ctx).Create(supplier).Error
}

// Update persists mutable profile fields.
func (r *Repository) Update(ctx context.Context, supplier *models.Supplier) error {
	return r.db.WithContext(ctx).
		Model(&models.Supplier{}).
		Where("id = ?", supplier.ID).
		Updates(map[string]any{
			"name":           supplier.Name,
			"delivery_zones": supplier.DeliveryZones,
		}).
		Error
}

// FindByID loads a supplier profile.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	var supplier models.Supplier
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&supplier).
		Error
	if err != nil {
		return nil, err
	}
	return &supplier, nil
}

// FindByUserID loads the supplier profile owned by the given user.
func (r *Repository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Supplier, error) {
	var supplier models.Supplier
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&supplier).
		Error
	if err != nil {
		return nil, err
	}
	return &supplier, nil
}
