package payments

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rasoilink/rasoilink-backend/internal/notify"
	"github.com/rasoilink/rasoilink-backend/pkg/config"
	"github.com/rasoilink/rasoilink-backend/pkg/db/models"
	"github.com/rasoilink/rasoilink-backend/pkg/enums"
	pkgerrors "github.com/rasoilink/rasoilink-backend/pkg/errors"
	"github.com/rasoilink/rasoilink-backend/pkg/logger"
)

type stubVendorOrderRepo struct {
	lines         []models.VendorOrder
	markedPayment string
	unpaidCount   int64
}

func (s *stubVendorOrderRepo) ListByVendor(ctx context.Context, groupOrderID, vendorID uuid.UUID) ([]models.VendorOrder, error) {
	var out []models.VendorOrder
	for _, line := range s.lines {
		if line.GroupOrderID == groupOrderID && line.VendorID == vendorID {
			out = append(out, line)
		}
	}
	return out, nil
}

func (s *stubVendorOrderRepo) MarkPaid(ctx context.Context, groupOrderID, vendorID uuid.UUID, paymentID string) error {
	s.markedPayment = paymentID
	for i := range s.lines {
		if s.lines[i].GroupOrderID == groupOrderID && s.lines[i].VendorID == vendorID && !s.lines[i].Paid {
			s.lines[i].Paid = true
			s.lines[i].PaymentID = &paymentID
		}
	}
	return nil
}

func (s *stubVendorOrderRepo) CountUnpaid(ctx context.Context, groupOrderID uuid.UUID) (int64, error) {
	return s.unpaidCount, nil
}

type stubPaymentOrderLoader struct {
	orders     map[uuid.UUID]*models.GroupOrder
	lastStatus enums.GroupOrderStatus
	statusSet  bool
}

func (s *stubPaymentOrderLoader) FindByID(ctx context.Context, id uuid.UUID) (*models.GroupOrder, error) {
	order, ok := s.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return order, nil
}

func (s *stubPaymentOrderLoader) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.GroupOrderStatus) error {
	s.lastStatus = status
	s.statusSet = true
	return nil
}

type fixture struct {
	repo     *stubVendorOrderRepo
	orders   *stubPaymentOrderLoader
	gateway  *SimulatedGateway
	orderID  uuid.UUID
	vendorID uuid.UUID
	svc      Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	orderID := uuid.New()
	vendorID := uuid.New()
	onionID := uuid.New()

	order := &models.GroupOrder{
		ID:         orderID,
		SupplierID: uuid.New(),
		Zone:       "karol-bagh",
		Status:     enums.GroupOrderStatusForming,
		Items: []models.GroupOrderItem{
			{GroupOrderID: orderID, ItemID: onionID, Name: "Onion", PricePerKgPaise: 2500},
		},
	}

	repo := &stubVendorOrderRepo{
		lines: []models.VendorOrder{
			{ID: uuid.New(), GroupOrderID: orderID, VendorID: vendorID, ItemID: onionID, QuantityKg: 4},
		},
		unpaidCount: 1,
	}
	orders := &stubPaymentOrderLoader{orders: map[uuid.UUID]*models.GroupOrder{orderID: order}}

	gateway := NewSimulatedGateway(paymentConfig())
	gateway.now = func() time.Time { return time.Date(2025, 8, 15, 10, 0, 0, 0, time.UTC) }

	svc, err := NewService(ServiceParams{
		Repo:    repo,
		Orders:  orders,
		Gateway: gateway,
		Events:  notify.NoopPublisher{},
		Logger:  logger.New(logger.Options{ServiceName: "payments-test", Output: io.Discard}),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	return &fixture{
		repo:     repo,
		orders:   orders,
		gateway:  gateway,
		orderID:  orderID,
		vendorID: vendorID,
		svc:      svc,
	}
}

func TestSimulateChargesDiscountedTotal(t *testing.T) {
	f := newFixture(t)

	receipt, err := f.svc.Simulate(context.Background(), f.orderID, f.vendorID, enums.PaymentMethodUPI)
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}

	// 4kg onion at 2500 paise/kg is 10000 before discount, 8500 after.
	if receipt.AmountPaise != 8500 {
		t.Fatalf("expected amount 8500, got %d", receipt.AmountPaise)
	}
	if !strings.HasPrefix(receipt.PaymentID, "pay_") {
		t.Fatalf("unexpected payment id %q", receipt.PaymentID)
	}
	if f.repo.markedPayment != receipt.PaymentID {
		t.Fatalf("lines marked with %q, receipt says %q", f.repo.markedPayment, receipt.PaymentID)
	}
}

func TestSimulateClosesFullySettledOrder(t *testing.T) {
	f := newFixture(t)
	f.repo.unpaidCount = 0

	if _, err := f.svc.Simulate(context.Background(), f.orderID, f.vendorID, enums.PaymentMethodUPI); err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if !f.orders.statusSet || f.orders.lastStatus != enums.GroupOrderStatusClosed {
		t.Fatalf("expected order closed after final payment, got set=%v status=%s", f.orders.statusSet, f.orders.lastStatus)
	}
}

func TestSimulateLeavesPartiallyPaidOrderOpen(t *testing.T) {
	f := newFixture(t)
	f.repo.unpaidCount = 3

	if _, err := f.svc.Simulate(context.Background(), f.orderID, f.vendorID, enums.PaymentMethodUPI); err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if f.orders.statusSet {
		t.Fatal("order must stay forming while other vendors are unpaid")
	}
}

func TestSimulateRepeatReturnsPriorReceipt(t *testing.T) {
	f := newFixture(t)

	first, err := f.svc.Simulate(context.Background(), f.orderID, f.vendorID, enums.PaymentMethodUPI)
	if err != nil {
		t.Fatalf("first payment: %v", err)
	}

	second, err := f.svc.Simulate(context.Background(), f.orderID, f.vendorID, enums.PaymentMethodUPI)
	if err != nil {
		t.Fatalf("repeat payment: %v", err)
	}
	if second.PaymentID != first.PaymentID {
		t.Fatalf("expected prior payment id %q, got %q", first.PaymentID, second.PaymentID)
	}
	if second.AmountPaise != first.AmountPaise {
		t.Fatalf("expected prior amount %d, got %d", first.AmountPaise, second.AmountPaise)
	}
	if f.repo.markedPayment != first.PaymentID {
		t.Fatalf("repeat call must not re-mark lines, got %q", f.repo.markedPayment)
	}
}

func TestSimulateNoLinesForVendor(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Simulate(context.Background(), f.orderID, uuid.New(), enums.PaymentMethodUPI)
	if pkgerrors.CodeOf(err) != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict for vendor without lines, got %v", err)
	}
}

func TestSimulateRejectsDispatchedOrder(t *testing.T) {
	f := newFixture(t)
	f.orders.orders[f.orderID].Status = enums.GroupOrderStatusDispatched

	_, err := f.svc.Simulate(context.Background(), f.orderID, f.vendorID, enums.PaymentMethodUPI)
	if pkgerrors.CodeOf(err) != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict for dispatched order, got %v", err)
	}
}

func TestSimulateDefaultsMethodToUPI(t *testing.T) {
	f := newFixture(t)

	receipt, err := f.svc.Simulate(context.Background(), f.orderID, f.vendorID, "")
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if receipt.Method != enums.PaymentMethodUPI {
		t.Fatalf("expected upi default, got %q", receipt.Method)
	}
}

func TestSimulateRejectsUnknownMethod(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Simulate(context.Background(), f.orderID, f.vendorID, enums.PaymentMethod("wallet"))
	if pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSimulateUnknownOrder(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Simulate(context.Background(), uuid.New(), f.vendorID, enums.PaymentMethodUPI)
	if pkgerrors.CodeOf(err) != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func paymentConfig() config.PaymentConfig {
	return config.PaymentConfig{}
}

func demoPaymentConfig() config.PaymentConfig {
	return config.PaymentConfig{DemoFailures: true, DemoFailureRate: 0.5}
}

func TestSimulatedGatewayDemoFailures(t *testing.T) {
	gateway := NewSimulatedGateway(demoPaymentConfig())
	gateway.rand = func() float64 { return 0.0 }

	_, err := gateway.Charge(context.Background(), ChargeInput{AmountPaise: 100})
	if pkgerrors.CodeOf(err) != pkgerrors.CodeDependency {
		t.Fatalf("expected gateway decline, got %v", err)
	}

	gateway.rand = func() float64 { return 0.9 }
	if _, err := gateway.Charge(context.Background(), ChargeInput{AmountPaise: 100}); err != nil {
		t.Fatalf("expected charge above failure rate to pass, got %v", err)
	}
}
