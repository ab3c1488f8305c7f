package notify

import (
	"context"
	"encoding/json"
	"time"

	pubsublib "cloud.google.com/go/pubsub/v2"
	"github.com/sethvargo/go-retry"

	"github.com/rasoilink/rasoilink-backend/pkg/logger"
)

// Publisher emits change notifications. Publishing is best-effort: a
// failed publish is logged and dropped, it never fails the request that
// produced it.
type Publisher interface {
	PublishOrderChanged(ctx context.Context, event OrderEvent)
	PublishInventoryChanged(ctx context.Context, event InventoryEvent)
}

type sendFunc func(ctx context.Context, data []byte, attrs map[string]string) error

// PubSubPublisher pushes events to the configured Pub/Sub topics.
type PubSubPublisher struct {
	orders     sendFunc
	inventory  sendFunc
	logg       *logger.Logger
	maxRetries uint64
}

// NewPubSubPublisher builds a publisher over the two domain topics.
func NewPubSubPublisher(orders, inventory *pubsublib.Publisher, maxRetries int, logg *logger.Logger) *PubSubPublisher {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &PubSubPublisher{
		orders:     wrapPublisher(orders),
		inventory:  wrapPublisher(inventory),
		logg:       logg,
		maxRetries: uint64(maxRetries),
	}
}

func wrapPublisher(p *pubsublib.Publisher) sendFunc {
	if p == nil {
		return nil
	}
	return func(ctx context.Context, data []byte, attrs map[string]string) error {
		result := p.Publish(ctx, &pubsublib.Message{Data: data, Attributes: attrs})
		_, err := result.Get(ctx)
		return err
	}
}

// PublishOrderChanged emits an order event to the orders topic.
func (p *PubSubPublisher) PublishOrderChanged(ctx context.Context, event OrderEvent) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	p.publish(ctx, p.orders, string(event.Type), event)
}

// PublishInventoryChanged emits an inventory event to the inventory topic.
func (p *PubSubPublisher) PublishInventoryChanged(ctx context.Context, event InventoryEvent) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	p.publish(ctx, p.inventory, string(event.Type), event)
}

func (p *PubSubPublisher) publish(ctx context.Context, send sendFunc, eventType string, payload any) {
	if send == nil {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		if p.logg != nil {
			p.logg.Error(ctx, "marshal event payload", err)
		}
		return
	}

	backoff := retry.WithMaxRetries(p.maxRetries, retry.NewExponential(100*time.Millisecond))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := send(ctx, data, map[string]string{"event_type": eventType}); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil && p.logg != nil {
		entry := p.logg.WithField(ctx, "event_type", eventType)
		p.logg.Error(entry, "publish event dropped after retries", err)
	}
}

// NoopPublisher drops all events. Used when Pub/Sub is not configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishOrderChanged(ctx context.Context, event OrderEvent)         {}
func (NoopPublisher) PublishInventoryChanged(ctx context.Context, event InventoryEvent) {}
