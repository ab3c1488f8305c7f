package zones

import (
	"context"

	"gorm.io/gorm"

	"github.com/rasoilink/rasoilink-backend/pkg/db/models"
)

// Repository encapsulates zone persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a zone repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns all configured zones ordered by code.
func (r *Repository) List(ctx context.Context) ([]models.Zone, error) {
	var zones []models.Zone
	err := r.db.WithContext(ctx).
		Order("code ASC").
		Find(&zones).
		Error
	return zones, err
}

// FindByCode loads a single zone.
func (r *Repository) FindByCode(ctx context.Context, code string) (*models.Zone, error) {
	var zone models.Zone
	err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&zone).
		Error
	if err != nil {
		return nil, err
	}
	return &zone, nil
}

// Exists reports whether a zone code is registered.
func (r *Repository) Exists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Zone{}).
		Where("code = ?", code).
		Count(&count).
		Error
	return count > 0, err
}
