package membership

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rasoilink/rasoilink-backend/pkg/db/models"
)

// Repository encapsulates vendor order persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a vendor order repository bound to the
// provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// UpsertLines writes the vendor's order lines and recomputes the group
// order item totals in the same transaction. Conflicts on the
// (group_order_id, vendor_id, item_id) key replace the quantity.
func (r *Repository) UpsertLines(ctx context.Context, groupOrderID uuid.UUID, orders []models.VendorOrder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "group_order_id"},
				{Name: "vendor_id"},
				{Name: "item_id"},
			},
			DoUpdates: clause.AssignmentColumns([]string{"quantity_kg", "updated_at"}),
		}).Create(&orders).Error
		if err != nil {
			return err
		}
		return recomputeTotals(tx, groupOrderID)
	})
}

// ListByVendor returns the vendor's order lines in one group order.
func (r *Repository) ListByVendor(ctx context.Context, groupOrderID, vendorID uuid.UUID) ([]models.VendorOrder, error) {
	var orders []models.VendorOrder
	err := r.db.WithContext(ctx).
		Where("group_order_id = ?", groupOrderID).
		Where("vendor_id = ?", vendorID).
		Order("created_at ASC").
		Find(&orders).
		Error
	return orders, err
}

// ListByGroupOrder returns every vendor order line in the group order.
func (r *Repository) ListByGroupOrder(ctx context.Context, groupOrderID uuid.UUID) ([]models.VendorOrder, error) {
	var orders []models.VendorOrder
	err := r.db.WithContext(ctx).
		Where("group_order_id = ?", groupOrderID).
		Order("created_at ASC").
		Find(&orders).
		Error
	return orders, err
}

// MarkPaid flags the vendor's lines in the group order as paid with the
// gateway's payment id.
func (r *Repository) MarkPaid(ctx context.Context, groupOrderID, vendorID uuid.UUID, paymentID string) error {
	return r.db.WithContext(ctx).
		Model(&models.VendorOrder{}).
		Where("group_order_id = ?", groupOrderID).
		Where("vendor_id = ?", vendorID).
		Where("paid = ?", false).
		Updates(map[string]interface{}{"paid": true, "payment_id": paymentID}).
		Error
}

// CountUnpaid returns how many vendor order lines in the group order are
// still unpaid.
func (r *Repository) CountUnpaid(ctx context.Context, groupOrderID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.VendorOrder{}).
		Where("group_order_id = ?", groupOrderID).
		Where("paid = ?", false).
		Count(&count).
		Error
	return count, err
}

// recomputeTotals rewrites every group order item total from the vendor
// order sums so the derived column never drifts.
func recomputeTotals(tx *gorm.DB, groupOrderID uuid.UUID) error {
	return tx.Exec(`
		UPDATE group_order_items
		SET total_qty_kg = COALESCE((
			SELECT SUM(vo.quantity_kg)
			FROM vendor_orders vo
			WHERE vo.group_order_id = group_order_items.group_order_id
			  AND vo.item_id = group_order_items.item_id
		), 0)
		WHERE group_order_id = ?`, groupOrderID).Error
}
