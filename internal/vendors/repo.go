package vendors

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rasoilink/rasoilink-backend/pkg/db/models"
)

// Repository encapsulates vendor profile persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a vendor repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts the vendor profile.
func (r *Repository) Create(ctx context.Context, vendor *models.Vendor) error {
	return r.db.WithContext(ctx).Create(vendor).Error
}

// Update persists mutable profile fields.
func (r *Repository) Update(ctx context.Context, vendor *models.Vendor) error {
	return r.db.WithContext(ctx).
		Model(&models.Vendor{}).
		Where("id = ?", vendor.ID).
		Updates(map[string]any{
			"name":     vendor.Name,
			"zone":     vendor.Zone,
			"language": vendor.Language,
		}).
		Error
}

// FindByID loads a vendor profile.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error) {
	var vendor models.Vendor
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&vendor).
		Error
	if err != nil {
		return nil, err
	}
	return &vendor, nil
}

// FindByUserID loads the vendor profile owned by the given user.
func (r *Repository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Vendor, error) {
	var vendor models.Vendor
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&vendor).
		Error
	if err != nil {
		return nil, err
	}
	return &vendor, nil
}
