package users

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rasoilink/rasoilink-backend/pkg/db/models"
	"github.com/rasoilink/rasoilink-backend/pkg/enums"
)

// Repository encapsulates user identity persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a user repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindOrCreateByPhone returns the user owning the phone number, creating
// the row on first login.
func (r *Repository) FindOrCreateByPhone(ctx context.Context, phone string) (*models.User, error) {
	user := &models.User{Phone: phone}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "phone"}},
			DoNothing: true,
		}).
		Create(user).
		Error
	if err != nil {
		return nil, err
	}

	// The insert is skipped on conflict, so reload to get the canonical row.
	var existing models.User
	if err := r.db.WithContext(ctx).Where("phone = ?", phone).First(&existing).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

// FindByID loads a user.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&user).
		Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// SetRole locks the user into a role on first profile creation.
func (r *Repository) SetRole(ctx context.Context, userID uuid.UUID, role enums.UserRole) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("role", role).
		Error
}
