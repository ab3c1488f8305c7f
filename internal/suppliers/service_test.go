package suppliers

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/rasoilink/rasoilink-backend/internal/zones"
	"github.com/rasoilink/rasoilink-backend/pkg/db/models"
	"github.com/rasoilink/rasoilink-backend/pkg/enums"
	pkgerrors "github.com/rasoilink/rasoilink-backend/pkg/errors"
)

type stubSupplierRepo struct {
	byID    map[uuid.UUID]*models.Supplier
	byUser  map[uuid.UUID]*models.Supplier
	created *models.Supplier
	updated *models.Supplier
}

func newStubSupplierRepo() *stubSupplierRepo {
	return &stubSupplierRepo{
		byID:   map[uuid.UUID]*models.Supplier{},
		byUser: map[uuid.UUID]*models.Supplier{},
	}
}

func (s *stubSupplierRepo) Create(ctx context.Context, supplier *models.Supplier) error {
	supplier.ID = uuid.New()
	s.created = supplier
	s.byID[supplier.ID] = supplier
	s.byUser[supplier.UserID] = supplier
	return nil
}

func (s *stubSupplierRepo) Update(ctx context.Context, supplier *models.Supplier) error {
	s.updated = supplier
	return nil
}

func (s *stubSupplierRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	supplier, ok := s.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return supplier, nil
}

func (s *stubSupplierRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Supplier, error) {
	supplier, ok := s.byUser[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return supplier, nil
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

type stubRoleSetter struct {
	role enums.UserRole
}

func (s *stubRoleSetter) SetRole(ctx context.Context, userID uuid.UUID, role enums.UserRole) error {
	s.role = role
	return nil
}

func newTestService(t *testing.T, repo *stubSupplierRepo, roles *stubRoleSetter, zoneCodes ...string) Service {
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

func TestRegisterSupplier(t *testing.T) {
	repo := newStubSupplierRepo()
	roles := &stubRoleSetter{}
	svc := newTestService(t, repo, roles, "karol-bagh", "chandni-chowk")

	dto, err := svc.Register(context.Background(), RegisterInput{
		UserID:        uuid.New(),
		Name:          "Sharma Wholesale",
		Phone:         "+919812345678",
		DeliveryZones: []string{"karol-bagh", "chandni-chowk"},
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if len(dto.DeliveryZones) != 2 {
		t.Fatalf("expected 2 delivery zones, got %d", len(dto.DeliveryZones))
	}
	if roles.role != enums.UserRoleSupplier {
		t.Fatalf("expected supplier role assignment, got %s", roles.role)
	}
}

func TestRegisterSupplierRequiresZones(t *testing.T) {
	repo := newStubSupplierRepo()
	svc := newTestService(t, repo, &stubRoleSetter{}, "karol-bagh")

	_, err := svc.Register(context.Background(), RegisterInput{
		UserID: uuid.New(),
		Name:   "No Zones",
	})
	if pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRegisterSupplierUnknownZone(t *testing.T) {
	repo := newStubSupplierRepo()
	svc := newTestService(t, repo, &stubRoleSetter{}, "karol-bagh")

	_, err := svc.Register(context.Background(), RegisterInput{
		UserID:        uuid.New(),
		Name:          "Test",
		DeliveryZones: []string{"karol-bagh", "rohini"},
	})
	if pkgerrors.CodeOf(err) != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if repo.created != nil {
		t.Fatal("supplier should not be created with unknown zone")
	}
}

func TestUpdateSupplierZones(t *testing.T) {
	repo := newStubSupplierRepo()
	svc := newTestService(t, repo, &stubRoleSetter{}, "karol-bagh", "lajpat-nagar")

	supplier := &models.Supplier{
		ID:            uuid.New(),
		UserID:        uuid.New(),
		Name:          "Sharma Wholesale",
		DeliveryZones: pq.StringArray{"karol-bagh"},
	}
	repo.byID[supplier.ID] = supplier

	dto, err := svc.Update(context.Background(), supplier.ID, UpdateInput{
		DeliveryZones: []string{"lajpat-nagar"},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(dto.DeliveryZones) != 1 || dto.DeliveryZones[0] != "lajpat-nagar" {
		t.Fatalf("zones not updated: %v", dto.DeliveryZones)
	}
}
