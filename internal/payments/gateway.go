package payments

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/rasoilink/rasoilink-backend/pkg/config"
	"github.com/rasoilink/rasoilink-backend/pkg/enums"
	pkgerrors "github.com/rasoilink/rasoilink-backend/pkg/errors"
)

// ChargeInput describes one charge attempt against the gateway.
type ChargeInput struct {
	VendorID     uuid.UUID
	GroupOrderID uuid.UUID
	AmountPaise  int64
	Method       enums.PaymentMethod
}

// ChargeResult is the gateway's acknowledgement of a successful charge.
type ChargeResult struct {
	PaymentID   string
	AmountPaise int64
	ChargedAt   time.Time
}

// Gateway is the payment processor seam. The launch build ships only
// the simulator; a real UPI integration plugs in behind this interface.
type Gateway interface {
	Charge(ctx context.Context, input ChargeInput) (ChargeResult, error)
}

// SimulatedGateway approves every charge and fabricates a payment id.
// With demo failures enabled it randomly declines a configured fraction
// of charges so client teams can exercise their retry flows.
type SimulatedGateway struct {
	cfg  config.PaymentConfig
	now  func() time.Time
	rand func() float64
}

// NewSimulatedGateway builds the simulator from payment config.
func NewSimulatedGateway(cfg config.PaymentConfig) *SimulatedGateway {
	return &SimulatedGateway{cfg: cfg, now: time.Now, rand: rand.Float64}
}

// Charge approves the amount and returns a fabricated payment id of the
// form pay_<unix>_<suffix>.
func (g *SimulatedGateway) Charge(ctx context.Context, input ChargeInput) (ChargeResult, error) {
	if input.AmountPaise <= 0 {
		return ChargeResult{}, pkgerrors.New(pkgerrors.CodeValidation, "charge amount must be positive")
	}
	if g.cfg.DemoFailures && g.rand() < g.cfg.DemoFailureRate {
		return ChargeResult{}, pkgerrors.New(pkgerrors.CodeDependency, "payment declined by gateway")
	}

	now := g.now().UTC()
	return ChargeResult{
		PaymentID:   fmt.Sprintf("pay_%d_%s", now.Unix(), uuid.NewString()[:8]),
		AmountPaise: input.AmountPaise,
		ChargedAt:   now,
	}, nil
}
