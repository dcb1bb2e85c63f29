package memory

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"agora/contexts/identity-access/mpassid-verification/domain/entities"
	domainerrors "agora/contexts/identity-access/mpassid-verification/domain/errors"
	"agora/contexts/identity-access/mpassid-verification/ports"

	"github.com/google/uuid"
)

// Store is an in-memory adapter implementing the repository and outbox ports.
// It is intended for tests and local development wiring.
type Store struct {
	mu sync.RWMutex

	identities     map[string]entities.Identity
	authorizations map[string]entities.Authorization

	outbox map[string]outboxRow
}

type outboxRow struct {
	ports.OutboxMessage
	PublishedAt *time.Time
}

// NewStore builds an empty deterministic in-memory adapter.
func NewStore() *Store {
	return &Store{
		identities:     make(map[string]entities.Identity),
		authorizations: make(map[string]entities.Authorization),
		outbox:         make(map[string]outboxRow),
	}
}

func (s *Store) FindIdentity(_ context.Context, organizationID string, provider string, uid string) (entities.Identity, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, identity := range s.identities {
		if identity.OrganizationID == organizationID && identity.Provider == provider && identity.UID == uid {
			return identity, true, nil
		}
	}
	return entities.Identity{}, false, nil
}

func (s *Store) FindAuthorizationByUser(_ context.Context, name string, userID string) (entities.Authorization, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, auth := range s.authorizations {
		if auth.Name == name && auth.UserID == userID {
			return auth, true, nil
		}
	}
	return entities.Authorization{}, false, nil
}

// Grant applies the identity binding, authorization upsert and outbox append
// under one lock, mirroring the transactional postgres adapter.
func (s *Store) Grant(_ context.Context, input ports.GrantInput) (ports.GrantResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, identity := range s.identities {
		if identity.OrganizationID == input.OrganizationID &&
			identity.Provider == entities.IdentityProvider &&
			identity.UID == input.UID &&
			identity.UserID != input.UserID {
			return ports.GrantResult{}, domainerrors.ErrIdentityBoundToOtherUser
		}
	}
	for _, auth := range s.authorizations {
		if auth.Name == entities.PolicyName && auth.UniqueID == input.UniqueID && auth.UserID != input.UserID {
			return ports.GrantResult{}, domainerrors.ErrAuthorizationTaken
		}
	}

	identity := entities.Identity{
		IdentityID:     input.IdentityID,
		OrganizationID: input.OrganizationID,
		UserID:         input.UserID,
		Provider:       entities.IdentityProvider,
		UID:            input.UID,
		CreatedAt:      input.GrantedAt.UTC(),
	}
	if existing, ok := s.identities[input.IdentityID]; ok {
		identity.CreatedAt = existing.CreatedAt
	}
	s.identities[input.IdentityID] = identity

	authorization := entities.Authorization{
		AuthorizationID: input.AuthorizationID,
		OrganizationID:  input.OrganizationID,
		UserID:          input.UserID,
		Name:            entities.PolicyName,
		UniqueID:        input.UniqueID,
		Metadata:        cloneMetadata(input.Metadata),
		GrantedAt:       input.GrantedAt.UTC(),
	}
	// Re-authorization replaces the user's existing record in place.
	for id, auth := range s.authorizations {
		if auth.Name == entities.PolicyName && auth.UserID == input.UserID {
			authorization.AuthorizationID = auth.AuthorizationID
			delete(s.authorizations, id)
			break
		}
	}
	s.authorizations[authorization.AuthorizationID] = authorization

	payload, err := json.Marshal(map[string]string{
		"organization_id":  authorization.OrganizationID,
		"user_id":          authorization.UserID,
		"authorization_id": authorization.AuthorizationID,
	})
	if err != nil {
		return ports.GrantResult{}, err
	}
	s.outbox[input.OutboxID] = outboxRow{
		OutboxMessage: ports.OutboxMessage{
			OutboxID:  input.OutboxID,
			EventType: "mpassid.authorization_granted",
			Payload:   payload,
			CreatedAt: input.GrantedAt.UTC(),
		},
	}

	return ports.GrantResult{
		Identity:      identity,
		Authorization: authorization,
	}, nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	rows := make([]ports.OutboxMessage, 0, len(s.outbox))
	for _, row := range s.outbox {
		if row.PublishedAt == nil {
			rows = append(rows, row.OutboxMessage)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].CreatedAt.Before(rows[j].CreatedAt)
	})
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, publishedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.outbox[outboxID]
	if !ok {
		return domainerrors.ErrAuthorizationNotFound
	}
	value := publishedAt.UTC()
	row.PublishedAt = &value
	s.outbox[outboxID] = row
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func cloneMetadata(values map[string]*string) map[string]*string {
	cloned := make(map[string]*string, len(values))
	for key, value := range values {
		if value == nil {
			cloned[key] = nil
			continue
		}
		copied := *value
		cloned[key] = &copied
	}
	return cloned
}
