package vendors

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rasoilink/rasoilink-backend/internal/zones"
	"github.com/rasoilink/rasoilink-backend/pkg/db"
	"github.com/rasoilink/rasoilink-backend/pkg/db/models"
	"github.com/rasoilink/rasoilink-backend/pkg/enums"
	pkgerrors "github.com/rasoilink/rasoilink-backend/pkg/errors"
)

type vendorRepo interface {
	Create(ctx context.Context, vendor *models.Vendor) error
	Update(ctx context.Context, vendor *models.Vendor) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Vendor, error)
}

type userRoleSetter interface {
	SetRole(ctx context.Context, userID uuid.UUID, role enums.UserRole) error
}

// ServiceParams groups dependencies for the vendor service.
type ServiceParams struct {
	Repo     vendorRepo
	Zones    zones.Service
	UserRepo userRoleSetter
}

// Service exposes vendor profile management.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (VendorDTO, error)
	GetByUser(ctx context.Context, userID uuid.UUID) (VendorDTO, error)
	Update(ctx context.Context, vendorID uuid.UUID, input UpdateInput) (VendorDTO, error)
}

type service struct {
	repo     vendorRepo
	zones    zones.Service
	userRepo userRoleSetter
}

// NewService builds a vendor service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vendor repo is required")
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

// Register creates the vendor profile for a verified user and locks the
// user into the vendor role.
func (s *service) Register(ctx context.Context, input RegisterInput) (VendorDTO, error) {
	if input.UserID == uuid.Nil {
		return VendorDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return VendorDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if err := s.zones.EnsureExists(ctx, input.Zone); err != nil {
		return VendorDTO{}, err
	}
	language := input.Language
	if language == "" {
		language = enums.LanguageHindi
	}
	if !language.IsValid() {
		return VendorDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid language")
	}

	vendor := &models.Vendor{
		UserID:   input.UserID,
		Name:     name,
		Phone:    input.Phone,
		Zone:     input.Zone,
		Language: language,
	}
	if err := s.repo.Create(ctx, vendor); err != nil {
		if db.IsUniqueViolation(err, "uq_vendors_user") {
			return VendorDTO{}, pkgerrors.New(pkgerrors.CodeConflict, "vendor profile already exists")
		}
		return VendorDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create vendor")
	}
	if err := s.userRepo.SetRole(ctx, input.UserID, enums.UserRoleVendor); err != nil {
		return VendorDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set user role")
	}
	return toDTO(vendor), nil
}

// GetByUser returns the vendor profile owned by the user.
func (s *service) GetByUser(ctx context.Context, userID uuid.UUID) (VendorDTO, error) {
	if userID == uuid.Nil {
		return VendorDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	vendor, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return VendorDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "vendor profile not found")
		}
		return VendorDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor")
	}
	return toDTO(vendor), nil
}

// Update applies the provided profile changes.
func (s *service) Update(ctx context.Context, vendorID uuid.UUID, input UpdateInput) (VendorDTO, error) {
	if vendorID == uuid.Nil {
		return VendorDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "vendor id is required")
	}
	vendor, err := s.repo.FindByID(ctx, vendorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return VendorDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "vendor profile not found")
		}
		return VendorDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return VendorDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be blank")
		}
		vendor.Name = name
	}
	if input.Zone != nil {
		if err := s.zones.EnsureExists(ctx, *input.Zone); err != nil {
			return VendorDTO{}, err
		}
		vendor.Zone = *input.Zone
	}
	if input.Language != nil {
		if !input.Language.IsValid() {
			return VendorDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid language")
		}
		vendor.Language = *input.Language
	}

	if err := s.repo.Update(ctx, vendor); err != nil {
		return VendorDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update vendor")
	}
	return toDTO(vendor), nil
}
