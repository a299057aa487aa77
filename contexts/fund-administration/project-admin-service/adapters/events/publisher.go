package events

import (
	"context"
	"log/slog"

	"fundadmin/contexts/fund-administration/project-admin-service/ports"
)

const defaultTopic = "fund-admin.signals"

// EventBus is the slice of the platform bus this adapter needs.
type EventBus interface {
	Publish(ctx context.Context, topic string, event ports.EventEnvelope) error
}

// Publisher forwards signals straight to the platform bus. Deployments that
// need durability use the postgres outbox publisher instead.
type Publisher struct {
	Bus    EventBus
	Topic  string
	Logger *slog.Logger
}

func (p Publisher) Publish(ctx context.Context, event ports.EventEnvelope) error {
	topic := p.Topic
	if topic == "" {
		topic = defaultTopic
	}
	if p.Bus == nil {
		if p.Logger != nil {
			p.Logger.Info("signal emitted without bus",
				"event", "fund_admin_signal_emitted",
				"module", "fund-administration/project-admin-service",
				"layer", "adapter",
				"event_id", event.EventID,
				"event_type", event.EventType,
			)
		}
		return nil
	}
	return p.Bus.Publish(ctx, topic, event)
}

var _ ports.EventPublisher = Publisher{}
