package grouporders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/rasoilink/rasoilink-backend/internal/notify"
	"github.com/rasoilink/rasoilink-backend/internal/zones"
	"github.com/rasoilink/rasoilink-backend/pkg/config"
	"github.com/rasoilink/rasoilink-backend/pkg/db/models"
	"github.com/rasoilink/rasoilink-backend/pkg/enums"
	pkgerrors "github.com/rasoilink/rasoilink-backend/pkg/errors"
)

type stubOrderRepo struct {
	byID        map[uuid.UUID]*models.GroupOrder
	created     *models.GroupOrder
	proofs      []models.DeliveryProof
	lastStatus  enums.GroupOrderStatus
	expiredIDs  []uuid.UUID
	closeCalled bool
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{byID: map[uuid.UUID]*models.GroupOrder{}}
}

func (s *stubOrderRepo) Create(ctx context.Context, order *models.GroupOrder) error {
	order.ID = uuid.New()
	s.created = order
	s.byID[order.ID] = order
	return nil
}

func (s *stubOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.GroupOrder, error) {
	order, ok := s.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return order, nil
}

func (s *stubOrderRepo) ListOpenByZone(ctx context.Context, zone string, now time.Time, cursor string, limit int) ([]models.GroupOrder, string, error) {
	var orders []models.GroupOrder
	for _, order := range s.byID {
		if order.Zone == zone && order.Status == enums.GroupOrderStatusForming && order.CloseAt.After(now) {
			orders = append(orders, *order)
		}
	}
	return orders, "", nil
}

func (s *stubOrderRepo) ListBySupplier(ctx context.Context, supplierID uuid.UUID, cursor string, limit int) ([]models.GroupOrder, string, error) {
	var orders []models.GroupOrder
	for _, order := range s.byID {
		if order.SupplierID == supplierID {
			orders = append(orders, *order)
		}
	}
	return orders, "", nil
}

func (s *stubOrderRepo) UpdateStatusWithProof(ctx context.Context, id uuid.UUID, status enums.GroupOrderStatus, proof *models.DeliveryProof) error {
	s.lastStatus = status
	if order, ok := s.byID[id]; ok {
		order.Status = status
	}
	if proof != nil {
		s.proofs = append(s.proofs, *proof)
	}
	return nil
}

func (s *stubOrderRepo) ListProofs(ctx context.Context, groupOrderID uuid.UUID) ([]models.DeliveryProof, error) {
	return s.proofs, nil
}

func (s *stubOrderRepo) CloseExpired(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	s.closeCalled = true
	return s.expiredIDs, nil
}

type stubSupplierLoader struct {
	suppliers map[uuid.UUID]*models.Supplier
}

func (s *stubSupplierLoader) FindByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	supplier, ok := s.suppliers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return supplier, nil
}

type stubItemsFinder struct {
	items map[uuid.UUID]models.Item
}

func (s *stubItemsFinder) FindOwnedItems(ctx context.Context, supplierID uuid.UUID, ids []uuid.UUID) ([]models.Item, error) {
	var out []models.Item
	for _, id := range ids {
		item, ok := s.items[id]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "one or more items not found")
		}
		if item.SupplierID != supplierID {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "item does not belong to supplier")
		}
		out = append(out, item)
	}
	return out, nil
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

type fixture struct {
	repo       *stubOrderRepo
	supplierID uuid.UUID
	itemA      uuid.UUID
	itemB      uuid.UUID
	now        time.Time
	svc        Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	supplierID := uuid.New()
	itemA := uuid.New()
	itemB := uuid.New()
	now := time.Date(2025, 8, 15, 10, 0, 0, 0, time.UTC)

	repo := newStubOrderRepo()
	svc, err := NewService(ServiceParams{
		Repo: repo,
		Suppliers: &stubSupplierLoader{suppliers: map[uuid.UUID]*models.Supplier{
			supplierID: {
				ID:            supplierID,
				Name:          "Sharma Wholesale",
				DeliveryZones: pq.StringArray{"karol-bagh"},
			},
		}},
		Zones: &fakeZones{known: map[string]bool{"karol-bagh": true, "lajpat-nagar": true}},
		Items: &stubItemsFinder{items: map[uuid.UUID]models.Item{
			itemA: {ID: itemA, SupplierID: supplierID, Name: "Onion", PricePerKgPaise: 2500},
			itemB: {ID: itemB, SupplierID: supplierID, Name: "Tomato", PricePerKgPaise: 3000},
		}},
		Events: notify.NoopPublisher{},
		Orders: config.OrdersConfig{DefaultDurationHours: 2, MaxDurationHours: 48},
		Now:    func() time.Time { return now },
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	return &fixture{
		repo:       repo,
		supplierID: supplierID,
		itemA:      itemA,
		itemB:      itemB,
		now:        now,
		svc:        svc,
	}
}

func TestCreateGroupOrderSeedsItems(t *testing.T) {
	f := newFixture(t)

	dto, err := f.svc.Create(context.Background(), CreateInput{
		SupplierID: f.supplierID,
		Zone:       "karol-bagh",
		ItemIDs:    []uuid.UUID{f.itemA, f.itemB, f.itemA},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if dto.Status != enums.GroupOrderStatusForming {
		t.Fatalf("expected forming, got %s", dto.Status)
	}
	if want := f.now.Add(2 * time.Hour); !dto.CloseAt.Equal(want) {
		t.Fatalf("expected close_at %v, got %v", want, dto.CloseAt)
	}
	if len(dto.Items) != 2 {
		t.Fatalf("expected duplicate item ids collapsed to 2 rows, got %d", len(dto.Items))
	}
	for _, item := range dto.Items {
		if item.TotalQtyKg != 0 {
			t.Fatalf("expected zero seeded total, got %d", item.TotalQtyKg)
		}
	}
	if dto.Items[0].PricePerKgPaise != 2500 {
		t.Fatalf("price not snapshotted: %d", dto.Items[0].PricePerKgPaise)
	}
}

func TestCreateGroupOrderCustomDuration(t *testing.T) {
	f := newFixture(t)

	dto, err := f.svc.Create(context.Background(), CreateInput{
		SupplierID:    f.supplierID,
		Zone:          "karol-bagh",
		DurationHours: 6,
		ItemIDs:       []uuid.UUID{f.itemA},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if want := f.now.Add(6 * time.Hour); !dto.CloseAt.Equal(want) {
		t.Fatalf("expected close_at %v, got %v", want, dto.CloseAt)
	}

	_, err = f.svc.Create(context.Background(), CreateInput{
		SupplierID:    f.supplierID,
		Zone:          "karol-bagh",
		DurationHours: 49,
		ItemIDs:       []uuid.UUID{f.itemA},
	})
	if pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for oversized duration, got %v", err)
	}
}

func TestCreateGroupOrderZoneNotCovered(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), CreateInput{
		SupplierID: f.supplierID,
		Zone:       "lajpat-nagar",
		ItemIDs:    []uuid.UUID{f.itemA},
	})
	if pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for uncovered zone, got %v", err)
	}
}

func TestUpdateStatusOwnershipAndOrder(t *testing.T) {
	f := newFixture(t)

	order := &models.GroupOrder{
		ID:         uuid.New(),
		SupplierID: f.supplierID,
		Zone:       "karol-bagh",
		Status:     enums.GroupOrderStatusForming,
		CloseAt:    f.now.Add(time.Hour),
	}
	f.repo.byID[order.ID] = order

	// Non-owner is rejected before any state check.
	_, err := f.svc.UpdateStatus(context.Background(), uuid.New(), order.ID, StatusInput{
		Status: enums.GroupOrderStatusClosed,
	})
	if pkgerrors.CodeOf(err) != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for non-owner, got %v", err)
	}

	// Skipping a step is a state conflict.
	_, err = f.svc.UpdateStatus(context.Background(), f.supplierID, order.ID, StatusInput{
		Status: enums.GroupOrderStatusDispatched,
	})
	if pkgerrors.CodeOf(err) != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict for skipped step, got %v", err)
	}

	dto, err := f.svc.UpdateStatus(context.Background(), f.supplierID, order.ID, StatusInput{
		Status: enums.GroupOrderStatusClosed,
	})
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	if dto.Status != enums.GroupOrderStatusClosed {
		t.Fatalf("expected closed, got %s", dto.Status)
	}
}

func TestDispatchRequiresProof(t *testing.T) {
	f := newFixture(t)

	order := &models.GroupOrder{
		ID:         uuid.New(),
		SupplierID: f.supplierID,
		Zone:       "karol-bagh",
		Status:     enums.GroupOrderStatusClosed,
		CloseAt:    f.now.Add(-time.Hour),
	}
	f.repo.byID[order.ID] = order

	_, err := f.svc.UpdateStatus(context.Background(), f.supplierID, order.ID, StatusInput{
		Status: enums.GroupOrderStatusDispatched,
	})
	if pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error without proof, got %v", err)
	}

	dto, err := f.svc.UpdateStatus(context.Background(), f.supplierID, order.ID, StatusInput{
		Status: enums.GroupOrderStatusDispatched,
		Proof: &ProofInput{
			FileURL: "https://storage.googleapis.com/rl/delivery-proofs/a.jpg",
			Type:    enums.ProofTypeImage,
		},
	})
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if dto.Status != enums.GroupOrderStatusDispatched {
		t.Fatalf("expected dispatched, got %s", dto.Status)
	}
	if len(f.repo.proofs) != 1 {
		t.Fatalf("expected 1 proof stored, got %d", len(f.repo.proofs))
	}
	if f.repo.proofs[0].SupplierID != f.supplierID {
		t.Fatalf("proof supplier mismatch")
	}
}

func TestCloseExpired(t *testing.T) {
	f := newFixture(t)
	f.repo.expiredIDs = []uuid.UUID{uuid.New(), uuid.New()}

	count, err := f.svc.CloseExpired(context.Background())
	if err != nil {
		t.Fatalf("close expired: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 closed orders, got %d", count)
	}
	if !f.repo.closeCalled {
		t.Fatal("expected repo sweep to run")
	}
}

func TestCloseExpiredEmpty(t *testing.T) {
	f := newFixture(t)

	count, err := f.svc.CloseExpired(context.Background())
	if err != nil {
		t.Fatalf("close expired: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no closed orders, got %d", count)
	}
}
