package suppliers

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/rasoilink/rasoilink-backend/internal/zones"
	"github.com/rasoilink/rasoilink-backend/pkg/db"
	"github.com/rasoilink/rasoilink-backend/pkg/db/models"
	"github.com/rasoilink/rasoilink-backend/pkg/enums"
	pkgerrors "github.com/rasoilink/rasoilink-backend/pkg/errors"
)

type supplierRepo interface {
	Create(ctx context.Context, supplier *models.Supplier) error
	Update(ctx context.Context, supplier *models.Supplier) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Supplier, error)
}

type userRoleSetter interface {
	SetRole(ctx context.Context, userID uuid.UUID, role enums.UserRole) error
}

// ServiceParams groups dependencies for the supplier service.
type ServiceParams struct {
	Repo     supplierRepo
	Zones    zones.Service
	UserRepo userRoleSetter
}

// Service exposes supplier profile management.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (SupplierDTO, error)
	GetByUser(ctx context.Context, userID uuid.UUID) (SupplierDTO, error)
	Update(ctx context.Context, supplierID uuid.UUID, input UpdateInput) (SupplierDTO, error)
}

type service struct {
	repo     supplierRepo
	zones    zones.Service
	userRepo userRoleSetter
}

// NewService builds a supplier service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier repo is required")
	}
	if params.Zones == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "zone service is required")
	}
	if params.UserRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user repo is required")
	}
	return &service{
		repo:     params.Repo,
		zones:    params.Zones,
		userRepo: params.UserRepo,
	}, nil
}

// Register creates the supplier profile for a verified user and locks the
// user into the supplier role.
func (s *service) Register(ctx context.Context, input RegisterInput) (SupplierDTO, error) {
	if input.UserID == uuid.Nil {
		return SupplierDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return SupplierDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if len(input.DeliveryZones) == 0 {
		return SupplierDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "at least one delivery zone is required")
	}
	if err := s.ensureZones(ctx, input.DeliveryZones); err != nil {
		return SupplierDTO{}, err
	}

	supplier := &models.Supplier{
		UserID:        input.UserID,
		Name:          name,
		Phone:         input.Phone,
		DeliveryZones: pq.StringArray(input.DeliveryZones),
	}
	if err := s.repo.Create(ctx, supplier); err != nil {
		if db.IsUniqueViolation(err, "uq_suppliers_user") {
			return SupplierDTO{}, pkgerrors.New(pkgerrors.CodeConflict, "supplier profile already exists")
		}
		return SupplierDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create supplier")
	}
	if err := s.userRepo.SetRole(ctx, input.UserID, enums.UserRoleSupplier); err != nil {
		return SupplierDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set user role")
	}
	return toDTO(supplier), nil
}

// GetByUser returns the supplier profile owned by the user.
func (s *service) GetByUser(ctx context.Context, userID uuid.UUID) (SupplierDTO, error) {
	if userID == uuid.Nil {
		return SupplierDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	supplier, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SupplierDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "supplier profile not found")
		}
		return SupplierDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load supplier")
	}
	return toDTO(supplier), nil
}

// Update applies the provided profile changes.
func (s *service) Update(ctx context.Context, supplierID uuid.UUID, input UpdateInput) (SupplierDTO, error) {
	if supplierID == uuid.Nil {
		return SupplierDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "supplier id is required")
	}
	supplier, err := s.repo.FindByID(ctx, supplierID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SupplierDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "supplier profile not found")
		}
		return SupplierDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load supplier")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return SupplierDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be blank")
		}
		supplier.Name = name
	}
	if input.DeliveryZones != nil {
		if len(input.DeliveryZones) == 0 {
			return SupplierDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "at least one delivery zone is required")
		}
		if err := s.ensureZones(ctx, input.DeliveryZones); err != nil {
			return SupplierDTO{}, err
		}
		supplier.DeliveryZones = pq.StringArray(input.DeliveryZones)
	}

	if err := s.repo.Update(ctx, supplier); err != nil {
		return SupplierDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update supplier")
	}
	return toDTO(supplier), nil
}

func (s *service) ensureZones(ctx context.Context, codes []string) error {
	for _, code := range codes {
		if err := s.zones.EnsureExists(ctx, code); err != nil {
			return err
		}
	}
	return nil
}
