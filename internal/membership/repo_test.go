package membership

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rasoilink/rasoilink-backend/pkg/db/models"
)

func setupVendorOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	groupOrderItems := `
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
);`
	vendorOrders := `
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
);`
	require.NoError(t, db.Exec(groupOrderItems).Error)
	require.NoError(t, db.Exec(vendorOrders).Error)
	return db
}

func seedGroupOrderItem(t *testing.T, db *gorm.DB, groupOrderID, itemID uuid.UUID, name string, pricePaise int64) {
	t.Helper()

	item := &models.GroupOrderItem{
		ID:              uuid.New(),
		GroupOrderID:    groupOrderID,
		ItemID:          itemID,
		Name:            name,
		PricePerKgPaise: pricePaise,
	}
	require.NoError(t, db.Create(item).Error)
}

func line(groupOrderID, vendorID, itemID uuid.UUID, qty int) models.VendorOrder {
	return models.VendorOrder{
		ID:           uuid.New(),
		GroupOrderID: groupOrderID,
		VendorID:     vendorID,
		ItemID:       itemID,
		QuantityKg:   qty,
	}
}

func itemTotals(t *testing.T, db *gorm.DB, groupOrderID uuid.UUID) map[uuid.UUID]int {
	t.Helper()

	var items []models.GroupOrderItem
	require.NoError(t, db.Where("group_order_id = ?", groupOrderID).Find(&items).Error)
	totals := make(map[uuid.UUID]int, len(items))
	for _, item := range items {
		totals[item.ItemID] = item.TotalQtyKg
	}
	return totals
}

func TestRepositoryUpsertLines_recomputesTotals(t *testing.T) {
	db := setupVendorOrdersTestDB(t)
	repo := NewRepository(db)

	groupOrderID := uuid.New()
	onionID := uuid.New()
	tomatoID := uuid.New()
	seedGroupOrderItem(t, db, groupOrderID, onionID, "Onion", 2500)
	seedGroupOrderItem(t, db, groupOrderID, tomatoID, "Tomato", 3000)

	vendorA := uuid.New()
	vendorB := uuid.New()

	err := repo.UpsertLines(context.Background(), groupOrderID, []models.VendorOrder{
		line(groupOrderID, vendorA, onionID, 3),
		line(groupOrderID, vendorA, tomatoID, 2),
	})
	require.NoError(t, err)

	totals := itemTotals(t, db, groupOrderID)
	assert.Equal(t, 3, totals[onionID])
	assert.Equal(t, 2, totals[tomatoID])

	err = repo.UpsertLines(context.Background(), groupOrderID, []models.VendorOrder{
		line(groupOrderID, vendorB, onionID, 4),
	})
	require.NoError(t, err)

	totals = itemTotals(t, db, groupOrderID)
	assert.Equal(t, 7, totals[onionID])
	assert.Equal(t, 2, totals[tomatoID])
}

func TestRepositoryUpsertLines_replacesQuantityOnRejoin(t *testing.T) {
	db := setupVendorOrdersTestDB(t)
	repo := NewRepository(db)

	groupOrderID := uuid.New()
	onionID := uuid.New()
	seedGroupOrderItem(t, db, groupOrderID, onionID, "Onion", 2500)

	vendorID := uuid.New()
	require.NoError(t, repo.UpsertLines(context.Background(), groupOrderID, []models.VendorOrder{
		line(groupOrderID, vendorID, onionID, 3),
	}))
	require.NoError(t, repo.UpsertLines(context.Background(), groupOrderID, []models.VendorOrder{
		line(groupOrderID, vendorID, onionID, 5),
	}))

	lines, err := repo.ListByVendor(context.Background(), groupOrderID, vendorID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].QuantityKg)

	totals := itemTotals(t, db, groupOrderID)
	assert.Equal(t, 5, totals[onionID])
}

func TestRepositoryMarkPaid_andCountUnpaid(t *testing.T) {
	db := setupVendorOrdersTestDB(t)
	repo := NewRepository(db)

	groupOrderID := uuid.New()
	onionID := uuid.New()
	tomatoID := uuid.New()
	seedGroupOrderItem(t, db, groupOrderID, onionID, "Onion", 2500)
	seedGroupOrderItem(t, db, groupOrderID, tomatoID, "Tomato", 3000)

	vendorA := uuid.New()
	vendorB := uuid.New()
	require.NoError(t, repo.UpsertLines(context.Background(), groupOrderID, []models.VendorOrder{
		line(groupOrderID, vendorA, onionID, 3),
		line(groupOrderID, vendorA, tomatoID, 2),
	}))
	require.NoError(t, repo.UpsertLines(context.Background(), groupOrderID, []models.VendorOrder{
		line(groupOrderID, vendorB, onionID, 4),
	}))

	unpaid, err := repo.CountUnpaid(context.Background(), groupOrderID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), unpaid)

	require.NoError(t, repo.MarkPaid(context.Background(), groupOrderID, vendorA, "pay_123"))

	unpaid, err = repo.CountUnpaid(context.Background(), groupOrderID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unpaid)

	lines, err := repo.ListByVendor(context.Background(), groupOrderID, vendorA)
	require.NoError(t, err)
	for _, l := range lines {
		assert.True(t, l.Paid)
		require.NotNil(t, l.PaymentID)
		assert.Equal(t, "pay_123", *l.PaymentID)
	}

	// Paid lines keep their original payment id.
	require.NoError(t, repo.MarkPaid(context.Background(), groupOrderID, vendorA, "pay_456"))
	lines, err = repo.ListByVendor(context.Background(), groupOrderID, vendorA)
	require.NoError(t, err)
	for _, l := range lines {
		require.NotNil(t, l.PaymentID)
		assert.Equal(t, "pay_123", *l.PaymentID)
	}

	unpaidB, err := repo.CountUnpaid(context.Background(), groupOrderID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unpaidB)
}
