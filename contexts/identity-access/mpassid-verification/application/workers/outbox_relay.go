package workers

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	application "agora/contexts/identity-access/mpassid-verification/application"
	"agora/contexts/identity-access/mpassid-verification/ports"
)

// Topic for committed grant events relayed from the outbox.
const TopicAuthorizationGranted = "mpassid.authorization_granted"

// OutboxRelay drains pending grant events and publishes them as canonical
// envelopes. Rows are marked published only after a successful publish, so a
// crashed relay re-delivers rather than drops.
type OutboxRelay struct {
	Outbox        ports.OutboxRepository
	Publisher     ports.EventPublisher
	Clock         ports.Clock
	IDGenerator   ports.IDGenerator
	SourceService string
	BatchSize     int
	Logger        *slog.Logger
}

func (r OutboxRelay) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(r.Logger)
	limit := r.BatchSize
	if limit <= 0 {
		limit = 100
	}

	pending, err := r.Outbox.ListPendingOutbox(ctx, limit)
	if err != nil {
		logger.Error("mpassid outbox list failed",
			"event", "mpassid_outbox_list_failed",
			"module", "identity-access/mpassid-verification",
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
		envelope, err := r.envelope(ctx, row)
		if err != nil {
			return err
		}
		if err := r.Publisher.Publish(ctx, TopicAuthorizationGranted, envelope); err != nil {
			logger.Error("mpassid outbox publish failed",
				"event", "mpassid_outbox_publish_failed",
				"module", "identity-access/mpassid-verification",
				"layer", "worker",
				"outbox_id", row.OutboxID,
				"error", err.Error(),
			)
			return err
		}
		if err := r.Outbox.MarkOutboxPublished(ctx, row.OutboxID, now); err != nil {
			return err
		}
	}
	return nil
}

func (r OutboxRelay) envelope(ctx context.Context, row ports.OutboxMessage) (ports.EventEnvelope, error) {
	eventID := row.OutboxID
	if r.IDGenerator != nil {
		generated, err := r.IDGenerator.NewID(ctx)
		if err != nil {
			return ports.EventEnvelope{}, err
		}
		eventID = generated
	}

	var data struct {
		UserID string `json:"user_id"`
	}
	// Partition by user so one user's grants stay ordered.
	_ = json.Unmarshal(row.Payload, &data)

	return ports.EventEnvelope{
		EventID:          eventID,
		EventType:        row.EventType,
		OccurredAt:       row.CreatedAt,
		SourceService:    r.SourceService,
		SchemaVersion:    1,
		PartitionKeyPath: "user_id",
		PartitionKey:     data.UserID,
		Data:             row.Payload,
	}, nil
}
