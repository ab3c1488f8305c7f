package grouporders

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rasoilink/rasoilink-backend/internal/membership"
	"github.com/rasoilink/rasoilink-backend/internal/notify"
	"github.com/rasoilink/rasoilink-backend/internal/payments"
	"github.com/rasoilink/rasoilink-backend/pkg/config"
	"github.com/rasoilink/rasoilink-backend/pkg/db/models"
	"github.com/rasoilink/rasoilink-backend/pkg/enums"
	"github.com/rasoilink/rasoilink-backend/pkg/logger"
)

func setupLifecycleDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{`
CREATE TABLE IF NOT EXISTS group_orders (
  id TEXT PRIMARY KEY,
  supplier_id TEXT NOT NULL,
  zone TEXT NOT NULL,
  close_at DATETIME NOT NULL,
  status TEXT NOT NULL DEFAULT 'forming',
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS group_order_items (
  id TEXT PRIMARY KEY,
  group_order_id TEXT NOT NULL,
  item_id TEXT NOT NULL,
  name TEXT NOT NULL,
  price_per_kg_paise INTEGER NOT NULL,
  total_qty_kg INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (group_order_id, item_id)
);`, `
CREATE TABLE IF NOT EXISTS vendor_orders (
  id TEXT PRIMARY KEY,
  group_order_id TEXT NOT NULL,
  vendor_id TEXT NOT NULL,
  item_id TEXT NOT NULL,
  quantity_kg INTEGER NOT NULL,
  paid INTEGER NOT NULL DEFAULT 0,
  payment_id TEXT,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (group_order_id, vendor_id, item_id)
);`, `
CREATE TABLE IF NOT EXISTS delivery_proofs (
  id TEXT PRIMARY KEY,
  group_order_id TEXT NOT NULL,
  supplier_id TEXT NOT NULL,
  file_url TEXT NOT NULL,
  type TEXT NOT NULL,
  created_at DATETIME
);`}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

// sqlite has no server-side uuid default, so ids are assigned before the
// insert instead of by the database.
type sqliteOrderRepo struct {
	*Repository
}

func (r sqliteOrderRepo) Create(ctx context.Context, order *models.GroupOrder) error {
	order.ID = uuid.New()
	for i := range order.Items {
		order.Items[i].ID = uuid.New()
		order.Items[i].GroupOrderID = order.ID
	}
	return r.Repository.Create(ctx, order)
}

func (r sqliteOrderRepo) UpdateStatusWithProof(ctx context.Context, id uuid.UUID, status enums.GroupOrderStatus, proof *models.DeliveryProof) error {
	if proof != nil {
		proof.ID = uuid.New()
	}
	return r.Repository.UpdateStatusWithProof(ctx, id, status, proof)
}

type sqliteVendorOrderRepo struct {
	*membership.Repository
}

func (r sqliteVendorOrderRepo) UpsertLines(ctx context.Context, groupOrderID uuid.UUID, orders []models.VendorOrder) error {
	for i := range orders {
		orders[i].ID = uuid.New()
	}
	return r.Repository.UpsertLines(ctx, groupOrderID, orders)
}

type lifecycleVendorLoader struct {
	vendors map[uuid.UUID]*models.Vendor
}

func (s lifecycleVendorLoader) FindByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error) {
	vendor, ok := s.vendors[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return vendor, nil
}

// TestGroupOrderFullLifecycle walks one window end to end against real
// repositories: a supplier opens an order with three items, two vendors
// join, both pay, the order closes itself, and the supplier dispatches
// with a proof.
func TestGroupOrderFullLifecycle(t *testing.T) {
	db := setupLifecycleDB(t)
	ctx := context.Background()
	now := time.Date(2025, 8, 15, 10, 0, 0, 0, time.UTC)

	supplierID := uuid.New()
	vendorA := uuid.New()
	vendorB := uuid.New()
	onionID := uuid.New()
	tomatoID := uuid.New()
	potatoID := uuid.New()

	orderRepo := sqliteOrderRepo{NewRepository(db)}
	orderSvc, err := NewService(ServiceParams{
		Repo: orderRepo,
		Suppliers: &stubSupplierLoader{suppliers: map[uuid.UUID]*models.Supplier{
			supplierID: {
				ID:            supplierID,
				Name:          "Sharma Wholesale",
				DeliveryZones: pq.StringArray{"karol-bagh"},
			},
		}},
		Zones: &fakeZones{known: map[string]bool{"karol-bagh": true}},
		Items: &stubItemsFinder{items: map[uuid.UUID]models.Item{
			onionID:  {ID: onionID, SupplierID: supplierID, Name: "Onion", PricePerKgPaise: 2500},
			tomatoID: {ID: tomatoID, SupplierID: supplierID, Name: "Tomato", PricePerKgPaise: 3000},
			potatoID: {ID: potatoID, SupplierID: supplierID, Name: "Potato", PricePerKgPaise: 2000},
		}},
		Events: notify.NoopPublisher{},
		Orders: config.OrdersConfig{DefaultDurationHours: 2, MaxDurationHours: 48},
		Now:    func() time.Time { return now },
	})
	require.NoError(t, err)

	memberRepo := sqliteVendorOrderRepo{membership.NewRepository(db)}
	memberSvc, err := membership.NewService(membership.ServiceParams{
		Repo:   memberRepo,
		Orders: orderRepo,
		Vendors: lifecycleVendorLoader{vendors: map[uuid.UUID]*models.Vendor{
			vendorA: {ID: vendorA, Name: "Raju Chaat", Zone: "karol-bagh"},
			vendorB: {ID: vendorB, Name: "Meena Dosa", Zone: "karol-bagh"},
		}},
		Events: notify.NoopPublisher{},
		Now:    func() time.Time { return now },
	})
	require.NoError(t, err)

	paySvc, err := payments.NewService(payments.ServiceParams{
		Repo:    memberRepo,
		Orders:  orderRepo,
		Gateway: payments.NewSimulatedGateway(config.PaymentConfig{}),
		Events:  notify.NoopPublisher{},
		Logger:  logger.New(logger.Options{ServiceName: "lifecycle-test", Output: io.Discard}),
	})
	require.NoError(t, err)

	created, err := orderSvc.Create(ctx, CreateInput{
		SupplierID:    supplierID,
		Zone:          "karol-bagh",
		DurationHours: 2,
		ItemIDs:       []uuid.UUID{onionID, tomatoID, potatoID},
	})
	require.NoError(t, err)
	require.Len(t, created.Items, 3)
	assert.Equal(t, enums.GroupOrderStatusForming, created.Status)
	assert.True(t, created.CloseAt.Equal(now.Add(2*time.Hour)))

	_, err = memberSvc.Join(ctx, membership.JoinInput{
		VendorID:     vendorA,
		GroupOrderID: created.ID,
		Lines:        []membership.JoinLine{{ItemID: onionID, QuantityKg: 5}},
	})
	require.NoError(t, err)

	_, err = memberSvc.Join(ctx, membership.JoinInput{
		VendorID:     vendorB,
		GroupOrderID: created.ID,
		Lines: []membership.JoinLine{
			{ItemID: onionID, QuantityKg: 7},
			{ItemID: tomatoID, QuantityKg: 2},
		},
	})
	require.NoError(t, err)

	joined, err := orderSvc.Get(ctx, created.ID)
	require.NoError(t, err)
	totals := map[uuid.UUID]int{}
	for _, item := range joined.Items {
		totals[item.ItemID] = item.TotalQtyKg
	}
	assert.Equal(t, 12, totals[onionID])
	assert.Equal(t, 2, totals[tomatoID])
	assert.Equal(t, 0, totals[potatoID])

	receiptA, err := paySvc.Simulate(ctx, created.ID, vendorA, enums.PaymentMethodUPI)
	require.NoError(t, err)
	// 5kg onion at 2500 paise/kg is 12500 before discount.
	assert.Equal(t, int64(10625), receiptA.AmountPaise)

	afterFirst, err := orderSvc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.GroupOrderStatusForming, afterFirst.Status)

	receiptB, err := paySvc.Simulate(ctx, created.ID, vendorB, enums.PaymentMethodCash)
	require.NoError(t, err)
	// 7kg onion plus 2kg tomato is 23500 before discount.
	assert.Equal(t, int64(19975), receiptB.AmountPaise)

	settled, err := orderSvc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.GroupOrderStatusClosed, settled.Status)

	dispatched, err := orderSvc.UpdateStatus(ctx, supplierID, created.ID, StatusInput{
		Status: enums.GroupOrderStatusDispatched,
		Proof: &ProofInput{
			FileURL: "https://storage.googleapis.com/rl/delivery-proofs/lifecycle.jpg",
			Type:    enums.ProofTypeImage,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, enums.GroupOrderStatusDispatched, dispatched.Status)

	proofs, err := orderSvc.ListProofs(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, proofs, 1)
	assert.Equal(t, enums.ProofTypeImage, proofs[0].Type)
}
