package vendors

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rasoilink/rasoilink-backend/internal/zones"
	"github.com/rasoilink/rasoilink-backend/pkg/db/models"
	"github.com/rasoilink/rasoilink-backend/pkg/enums"
	pkgerrors "github.com/rasoilink/rasoilink-backend/pkg/errors"
)

type stubVendorRepo struct {
	byID      map[uuid.UUID]*models.Vendor
	byUser    map[uuid.UUID]*models.Vendor
	createErr error
	created   *models.Vendor
	updated   *models.Vendor
}

func newStubVendorRepo() *stubVendorRepo {
	return &stubVendorRepo{
		byID:   map[uuid.UUID]*models.Vendor{},
		byUser: map[uuid.UUID]*models.Vendor{},
	}
}

func (s *stubVendorRepo) Create(ctx context.Context, vendor *models.Vendor) error {
	if s.createErr != nil {
		return s.createErr
	}
	vendor.ID = uuid.New()
	s.created = vendor
	s.byID[vendor.ID] = vendor
	s.byUser[vendor.UserID] = vendor
	return nil
}

func (s *stubVendorRepo) Update(ctx context.Context, vendor *models.Vendor) error {
	s.updated = vendor
	return nil
}

func (s *stubVendorRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error) {
	vendor, ok := s.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return vendor, nil
}

func (s *stubVendorRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Vendor, error) {
	vendor, ok := s.byUser[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return vendor, nil
}

type stubRoleSetter struct {
	userID uuid.UUID
	role   enums.UserRole
}

func (s *stubRoleSetter) SetRole(ctx context.Context, userID uuid.UUID, role enums.UserRole) error {
	s.userID = userID
	s.role = role
	return nil
}

type fakeZones struct {
	known map[string]bool
}

func (s *fakeZones) ListZones(ctx context.Context, lang enums.Language) ([]zones.ZoneDTO, error) {
	return nil, nil
}

func (s *fakeZones) EnsureExists(ctx context.Context, code string) error {
	if !s.known[code] {
		return pkgerrors.New(pkgerrors.CodeNotFound, "zone not found")
	}
	return nil
}

func newTestService(t *testing.T, repo *stubVendorRepo, roles *stubRoleSetter, zoneCodes ...string) Service {
	t.Helper()
	known := map[string]bool{}
	for _, code := range zoneCodes {
		known[code] = true
	}
	svc, err := NewService(ServiceParams{
		Repo:     repo,
		Zones:    &fakeZones{known: known},
		UserRepo: roles,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestRegisterVendor(t *testing.T) {
	repo := newStubVendorRepo()
	roles := &stubRoleSetter{}
	svc := newTestService(t, repo, roles, "karol-bagh")

	userID := uuid.New()
	dto, err := svc.Register(context.Background(), RegisterInput{
		UserID: userID,
		Name:   "Ramesh Chaat Bhandar",
		Phone:  "+919876543210",
		Zone:   "karol-bagh",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if dto.Zone != "karol-bagh" {
		t.Fatalf("unexpected zone %q", dto.Zone)
	}
	if dto.Language != enums.LanguageHindi {
		t.Fatalf("expected hindi default, got %s", dto.Language)
	}
	if roles.role != enums.UserRoleVendor {
		t.Fatalf("expected vendor role assignment, got %s", roles.role)
	}
	if roles.userID != userID {
		t.Fatalf("role set on wrong user")
	}
}

func TestRegisterVendorUnknownZone(t *testing.T) {
	repo := newStubVendorRepo()
	svc := newTestService(t, repo, &stubRoleSetter{}, "karol-bagh")

	_, err := svc.Register(context.Background(), RegisterInput{
		UserID: uuid.New(),
		Name:   "Test",
		Zone:   "rohini",
	})
	if pkgerrors.CodeOf(err) != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if repo.created != nil {
		t.Fatal("vendor should not be created for unknown zone")
	}
}

func TestUpdateVendorZoneAndLanguage(t *testing.T) {
	repo := newStubVendorRepo()
	svc := newTestService(t, repo, &stubRoleSetter{}, "karol-bagh", "lajpat-nagar")

	vendor := &models.Vendor{
		ID:       uuid.New(),
		UserID:   uuid.New(),
		Name:     "Old Name",
		Zone:     "karol-bagh",
		Language: enums.LanguageHindi,
	}
	repo.byID[vendor.ID] = vendor

	newZone := "lajpat-nagar"
	english := enums.LanguageEnglish
	dto, err := svc.Update(context.Background(), vendor.ID, UpdateInput{
		Zone:     &newZone,
		Language: &english,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if dto.Zone != newZone {
		t.Fatalf("zone not updated: %s", dto.Zone)
	}
	if dto.Language != enums.LanguageEnglish {
		t.Fatalf("language not updated: %s", dto.Language)
	}
	if repo.updated == nil {
		t.Fatal("expected repo update call")
	}
}

func TestGetByUserNotFound(t *testing.T) {
	repo := newStubVendorRepo()
	svc := newTestService(t, repo, &stubRoleSetter{}, "karol-bagh")

	_, err := svc.GetByUser(context.Background(), uuid.New())
	if pkgerrors.CodeOf(err) != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
