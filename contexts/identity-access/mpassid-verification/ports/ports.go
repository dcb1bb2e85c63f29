package ports

import (
	"context"
	"time"

	"agora/contexts/identity-access/mpassid-verification/domain/entities"
	contractsv1 "agora/contracts/gen/events/v1"
)

// Clock abstracts current time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// IDGenerator abstracts UUID generation for records and outbox rows.
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// GrantInput is persisted atomically: identity binding, authorization upsert
// and outbox row either all commit or none do.
type GrantInput struct {
	IdentityID      string
	AuthorizationID string
	OutboxID        string
	OrganizationID  string
	UserID          string
	UID             string
	UniqueID        string
	Metadata        map[string]*string
	GrantedAt       time.Time
}

// GrantResult is returned by the repository grant operation.
type GrantResult struct {
	Identity      entities.Identity
	Authorization entities.Authorization
}

// Repository is the write/read boundary for identity bindings and
// authorization records.
//
// Implementations must refuse a grant whose uid is bound to a different user
// (domain error ErrIdentityBoundToOtherUser) or whose unique id belongs to a
// different user's authorization (ErrAuthorizationTaken); the "at most one
// authorization per (name, unique id)" invariant lives at this boundary, not
// in the use cases.
type Repository interface {
	FindIdentity(ctx context.Context, organizationID string, provider string, uid string) (entities.Identity, bool, error)
	FindAuthorizationByUser(ctx context.Context, name string, userID string) (entities.Authorization, bool, error)
	Grant(ctx context.Context, input GrantInput) (GrantResult, error)
}

// OutboxMessage represents a pending relay message.
type OutboxMessage struct {
	OutboxID  string
	EventType string
	Payload   []byte
	CreatedAt time.Time
}

// OutboxRepository supports worker relay polling and acknowledgement.
type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

// EventEnvelope reuses the canonical cross-runtime envelope contract.
type EventEnvelope = contractsv1.Envelope

// EventPublisher publishes canonical envelopes to a topic.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}
