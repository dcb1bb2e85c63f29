package postgresadapter

import (
	"encoding/json"
	"time"

	"agora/contexts/identity-access/mpassid-verification/domain/entities"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

type identityModel struct {
	IdentityID     string    `gorm:"column:identity_id;primaryKey"`
	OrganizationID string    `gorm:"column:organization_id;uniqueIndex:idx_identity_subject"`
	UserID         string    `gorm:"column:user_id"`
	Provider       string    `gorm:"column:provider;uniqueIndex:idx_identity_subject"`
	UID            string    `gorm:"column:uid;uniqueIndex:idx_identity_subject"`
	CreatedAt      time.Time `gorm:"column:created_at"`
}

func (identityModel) TableName() string { return "mpassid_identities" }

func (m identityModel) toEntity() entities.Identity {
	return entities.Identity{
		IdentityID:     m.IdentityID,
		OrganizationID: m.OrganizationID,
		UserID:         m.UserID,
		Provider:       m.Provider,
		UID:            m.UID,
		CreatedAt:      m.CreatedAt,
	}
}

type authorizationModel struct {
	AuthorizationID string          `gorm:"column:authorization_id;primaryKey"`
	OrganizationID  string          `gorm:"column:organization_id"`
	UserID          string          `gorm:"column:user_id;uniqueIndex:idx_authorization_user"`
	Name            string          `gorm:"column:name;uniqueIndex:idx_authorization_user;uniqueIndex:idx_authorization_signature"`
	UniqueID        string          `gorm:"column:unique_id;uniqueIndex:idx_authorization_signature"`
	Metadata        json.RawMessage `gorm:"column:metadata;type:jsonb"`
	GrantedAt       time.Time       `gorm:"column:granted_at"`
}

func (authorizationModel) TableName() string { return "mpassid_authorizations" }

func (m authorizationModel) toEntity() (entities.Authorization, error) {
	values := map[string]*string{}
	if len(m.Metadata) > 0 {
		if err := json.Unmarshal(m.Metadata, &values); err != nil {
			return entities.Authorization{}, err
		}
	}
	return entities.Authorization{
		AuthorizationID: m.AuthorizationID,
		OrganizationID:  m.OrganizationID,
		UserID:          m.UserID,
		Name:            m.Name,
		UniqueID:        m.UniqueID,
		Metadata:        values,
		GrantedAt:       m.GrantedAt,
	}, nil
}

type outboxModel struct {
	OutboxID    string          `gorm:"column:outbox_id;primaryKey"`
	EventType   string          `gorm:"column:event_type"`
	Payload     json.RawMessage `gorm:"column:payload;type:jsonb"`
	Status      string          `gorm:"column:status;index"`
	CreatedAt   time.Time       `gorm:"column:created_at"`
	PublishedAt *time.Time      `gorm:"column:published_at"`
}

func (outboxModel) TableName() string { return "mpassid_outbox" }

// Models lists the gorm models for platform migrations.
func Models() []any {
	return []any{&identityModel{}, &authorizationModel{}, &outboxModel{}}
}
