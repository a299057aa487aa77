package workers

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"fundadmin/contexts/fund-administration/project-admin-service/application"
	"fundadmin/contexts/fund-administration/project-admin-service/ports"
)

// OutboxRelay drains pending outbox rows onto the signal bus. Rows are marked
// sent only after a successful publish, so a crashed run redelivers instead of
// dropping.
type OutboxRelay struct {
	Outbox    ports.OutboxRepository
	Publisher ports.EventPublisher
	Clock     ports.Clock
	BatchSize int
	Logger    *slog.Logger
}

func (r OutboxRelay) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(r.Logger)
	limit := r.BatchSize
	if limit <= 0 {
		limit = 100
	}

	pending, err := r.Outbox.ListPendingOutbox(ctx, limit)
	if err != nil {
		logger.Error("fund admin outbox list failed",
			"event", "fund_admin_outbox_list_failed",
			"module", "fund-administration/project-admin-service",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}

	now := time.Now().UTC()
	if r.Clock != nil {
		now = r.Clock.Now().UTC()
	}

	for _, row := range pending {
		var event ports.EventEnvelope
		if err := json.Unmarshal(row.Payload, &event); err != nil {
			return err
		}
		if err := r.Publisher.Publish(ctx, event); err != nil {
			logger.Error("fund admin outbox publish failed",
				"event", "fund_admin_outbox_publish_failed",
				"module", "fund-administration/project-admin-service",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"error", err.Error(),
			)
			return err
		}
		if err := r.Outbox.MarkOutboxSent(ctx, row.OutboxID, now); err != nil {
			return err
		}
	}
	return nil
}
