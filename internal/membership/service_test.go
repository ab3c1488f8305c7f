package membership

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rasoilink/rasoilink-backend/internal/notify"
	"github.com/rasoilink/rasoilink-backend/pkg/db/models"
	"github.com/rasoilink/rasoilink-backend/pkg/enums"
	pkgerrors "github.com/rasoilink/rasoilink-backend/pkg/errors"
)

type lineKey struct {
	vendorID uuid.UUID
	itemID   uuid.UUID
}

type stubMemberRepo struct {
	lines map[lineKey]models.VendorOrder
}

func newStubMemberRepo() *stubMemberRepo {
	return &stubMemberRepo{lines: map[lineKey]models.VendorOrder{}}
}

func (s *stubMemberRepo) UpsertLines(ctx context.Context, groupOrderID uuid.UUID, orders []models.VendorOrder) error {
	for _, order := range orders {
		key := lineKey{vendorID: order.VendorID, itemID: order.ItemID}
		if existing, ok := s.lines[key]; ok {
			existing.QuantityKg = order.QuantityKg
			s.lines[key] = existing
			continue
		}
		order.ID = uuid.New()
		s.lines[key] = order
	}
	return nil
}

func (s *stubMemberRepo) ListByVendor(ctx context.Context, groupOrderID, vendorID uuid.UUID) ([]models.VendorOrder, error) {
	var out []models.VendorOrder
	for _, line := range s.lines {
		if line.GroupOrderID == groupOrderID && line.VendorID == vendorID {
			out = append(out, line)
		}
	}
	return out, nil
}

type stubOrderLoader struct {
	orders map[uuid.UUID]*models.GroupOrder
}

func (s *stubOrderLoader) FindByID(ctx context.Context, id uuid.UUID) (*models.GroupOrder, error) {
	order, ok := s.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return order, nil
}

type stubVendorLoader struct {
	vendors map[uuid.UUID]*models.Vendor
}

func (s *stubVendorLoader) FindByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error) {
	vendor, ok := s.vendors[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return vendor, nil
}

type fixture struct {
	repo     *stubMemberRepo
	orderID  uuid.UUID
	vendorID uuid.UUID
	onionID  uuid.UUID
	tomatoID uuid.UUID
	now      time.Time
	svc      Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	now := time.Date(2025, 8, 15, 10, 0, 0, 0, time.UTC)
	orderID := uuid.New()
	vendorID := uuid.New()
	onionID := uuid.New()
	tomatoID := uuid.New()

	order := &models.GroupOrder{
		ID:         orderID,
		SupplierID: uuid.New(),
		Zone:       "karol-bagh",
		Status:     enums.GroupOrderStatusForming,
		CloseAt:    now.Add(time.Hour),
		Items: []models.GroupOrderItem{
			{GroupOrderID: orderID, ItemID: onionID, Name: "Onion", PricePerKgPaise: 2500},
			{GroupOrderID: orderID, ItemID: tomatoID, Name: "Tomato", PricePerKgPaise: 3000},
		},
	}

	repo := newStubMemberRepo()
	svc, err := NewService(ServiceParams{
		Repo:   repo,
		Orders: &stubOrderLoader{orders: map[uuid.UUID]*models.GroupOrder{orderID: order}},
		Vendors: &stubVendorLoader{vendors: map[uuid.UUID]*models.Vendor{
			vendorID: {ID: vendorID, Name: "Raju Chaat", Zone: "karol-bagh"},
		}},
		Events: notify.NoopPublisher{},
		Now:    func() time.Time { return now },
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	return &fixture{
		repo:     repo,
		orderID:  orderID,
		vendorID: vendorID,
		onionID:  onionID,
		tomatoID: tomatoID,
		now:      now,
		svc:      svc,
	}
}

func TestJoinPersistsLinesAndQuotes(t *testing.T) {
	f := newFixture(t)

	result, err := f.svc.Join(context.Background(), JoinInput{
		VendorID:     f.vendorID,
		GroupOrderID: f.orderID,
		Lines: []JoinLine{
			{ItemID: f.onionID, QuantityKg: 4},
			{ItemID: f.tomatoID, QuantityKg: 2},
		},
	})
	if err != nil {
		t.Fatalf("join: %v", err)
	}

	if len(result.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(result.Lines))
	}
	// 4kg onion at 2500 + 2kg tomato at 3000 = 16000 paise before discount.
	if result.Quote.OriginalTotalPaise != 16000 {
		t.Fatalf("expected original total 16000, got %d", result.Quote.OriginalTotalPaise)
	}
	if result.Quote.DiscountedTotalPaise != 13600 {
		t.Fatalf("expected discounted total 13600, got %d", result.Quote.DiscountedTotalPaise)
	}
	if result.Quote.SavingsPaise != 2400 {
		t.Fatalf("expected savings 2400, got %d", result.Quote.SavingsPaise)
	}
}

func TestJoinReplacesQuantityOnRepeat(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Join(context.Background(), JoinInput{
		VendorID:     f.vendorID,
		GroupOrderID: f.orderID,
		Lines:        []JoinLine{{ItemID: f.onionID, QuantityKg: 4}},
	})
	if err != nil {
		t.Fatalf("first join: %v", err)
	}

	result, err := f.svc.Join(context.Background(), JoinInput{
		VendorID:     f.vendorID,
		GroupOrderID: f.orderID,
		Lines:        []JoinLine{{ItemID: f.onionID, QuantityKg: 7}},
	})
	if err != nil {
		t.Fatalf("second join: %v", err)
	}

	if len(result.Lines) != 1 {
		t.Fatalf("expected a single line after repeat join, got %d", len(result.Lines))
	}
	if result.Lines[0].QuantityKg != 7 {
		t.Fatalf("expected quantity replaced with 7, got %d", result.Lines[0].QuantityKg)
	}
}

func TestJoinRejectsClosedWindow(t *testing.T) {
	f := newFixture(t)
	closed := uuid.New()
	f.svc.(*service).orders.(*stubOrderLoader).orders[closed] = &models.GroupOrder{
		ID:      closed,
		Zone:    "karol-bagh",
		Status:  enums.GroupOrderStatusForming,
		CloseAt: f.now.Add(-time.Minute),
	}

	_, err := f.svc.Join(context.Background(), JoinInput{
		VendorID:     f.vendorID,
		GroupOrderID: closed,
		Lines:        []JoinLine{{ItemID: f.onionID, QuantityKg: 1}},
	})
	if pkgerrors.CodeOf(err) != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict past close time, got %v", err)
	}
}

func TestJoinRejectsNonFormingOrder(t *testing.T) {
	f := newFixture(t)
	dispatched := uuid.New()
	f.svc.(*service).orders.(*stubOrderLoader).orders[dispatched] = &models.GroupOrder{
		ID:      dispatched,
		Zone:    "karol-bagh",
		Status:  enums.GroupOrderStatusDispatched,
		CloseAt: f.now.Add(time.Hour),
	}

	_, err := f.svc.Join(context.Background(), JoinInput{
		VendorID:     f.vendorID,
		GroupOrderID: dispatched,
		Lines:        []JoinLine{{ItemID: f.onionID, QuantityKg: 1}},
	})
	if pkgerrors.CodeOf(err) != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict on dispatched order, got %v", err)
	}
}

func TestJoinRejectsZoneMismatch(t *testing.T) {
	f := newFixture(t)
	other := uuid.New()
	f.svc.(*service).vendors.(*stubVendorLoader).vendors[other] = &models.Vendor{
		ID:   other,
		Name: "Lajpat Dosa",
		Zone: "lajpat-nagar",
	}

	_, err := f.svc.Join(context.Background(), JoinInput{
		VendorID:     other,
		GroupOrderID: f.orderID,
		Lines:        []JoinLine{{ItemID: f.onionID, QuantityKg: 1}},
	})
	if pkgerrors.CodeOf(err) != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for zone mismatch, got %v", err)
	}
}

func TestJoinRejectsForeignItem(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Join(context.Background(), JoinInput{
		VendorID:     f.vendorID,
		GroupOrderID: f.orderID,
		Lines:        []JoinLine{{ItemID: uuid.New(), QuantityKg: 1}},
	})
	if pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for item outside the order, got %v", err)
	}
}

func TestJoinRejectsBadLines(t *testing.T) {
	f := newFixture(t)

	cases := []struct {
		name  string
		lines []JoinLine
	}{
		{name: "empty", lines: nil},
		{name: "zero quantity", lines: []JoinLine{{ItemID: f.onionID, QuantityKg: 0}}},
		{name: "duplicate item", lines: []JoinLine{
			{ItemID: f.onionID, QuantityKg: 1},
			{ItemID: f.onionID, QuantityKg: 2},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Join(context.Background(), JoinInput{
				VendorID:     f.vendorID,
				GroupOrderID: f.orderID,
				Lines:        tc.lines,
			})
			if pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestQuoteDoesNotPersist(t *testing.T) {
	f := newFixture(t)

	quote, err := f.svc.Quote(context.Background(), f.orderID, []JoinLine{
		{ItemID: f.onionID, QuantityKg: 4},
	})
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if quote.DiscountedTotalPaise != 8500 {
		t.Fatalf("expected discounted total 8500, got %d", quote.DiscountedTotalPaise)
	}
	if len(f.repo.lines) != 0 {
		t.Fatalf("quote must not persist lines, found %d", len(f.repo.lines))
	}
}
