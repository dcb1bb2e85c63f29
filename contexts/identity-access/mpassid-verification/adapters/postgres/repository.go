package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"agora/contexts/identity-access/mpassid-verification/domain/entities"
	domainerrors "agora/contexts/identity-access/mpassid-verification/domain/errors"
	"agora/contexts/identity-access/mpassid-verification/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) FindIdentity(ctx context.Context, organizationID string, provider string, uid string) (entities.Identity, bool, error) {
	var row identityModel
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND provider = ? AND uid = ?",
			strings.TrimSpace(organizationID), provider, uid).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Identity{}, false, nil
		}
		return entities.Identity{}, false, err
	}
	return row.toEntity(), true, nil
}

func (r *Repository) FindAuthorizationByUser(ctx context.Context, name string, userID string) (entities.Authorization, bool, error) {
	var row authorizationModel
	err := r.db.WithContext(ctx).
		Where("name = ? AND user_id = ?", name, strings.TrimSpace(userID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Authorization{}, false, nil
		}
		return entities.Authorization{}, false, err
	}
	auth, err := row.toEntity()
	if err != nil {
		return entities.Authorization{}, false, err
	}
	return auth, true, nil
}

// Grant commits the identity binding, the authorization upsert and the outbox
// row in one transaction. Unique indexes on (organization_id, provider, uid)
// and (name, unique_id) back the at-most-one invariants; their violations map
// to domain refusals.
func (r *Repository) Grant(ctx context.Context, input ports.GrantInput) (ports.GrantResult, error) {
	var result ports.GrantResult

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing identityModel
		err := tx.
			Where("organization_id = ? AND provider = ? AND uid = ?",
				input.OrganizationID, entities.IdentityProvider, input.UID).
			First(&existing).
			Error
		switch {
		case err == nil:
			if existing.UserID != input.UserID {
				return domainerrors.ErrIdentityBoundToOtherUser
			}
			result.Identity = existing.toEntity()
		case errors.Is(err, gorm.ErrRecordNotFound):
			row := identityModel{
				IdentityID:     input.IdentityID,
				OrganizationID: input.OrganizationID,
				UserID:         input.UserID,
				Provider:       entities.IdentityProvider,
				UID:            input.UID,
				CreatedAt:      input.GrantedAt.UTC(),
			}
			if err := tx.Create(&row).Error; err != nil {
				if isUniqueViolation(err) {
					return domainerrors.ErrIdentityBoundToOtherUser
				}
				return err
			}
			result.Identity = row.toEntity()
		default:
			return err
		}

		metadataJSON, err := json.Marshal(input.Metadata)
		if err != nil {
			return err
		}
		authRow := authorizationModel{
			AuthorizationID: input.AuthorizationID,
			OrganizationID:  input.OrganizationID,
			UserID:          input.UserID,
			Name:            entities.PolicyName,
			UniqueID:        input.UniqueID,
			Metadata:        metadataJSON,
			GrantedAt:       input.GrantedAt.UTC(),
		}
		err = tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "name"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"organization_id", "unique_id", "metadata", "granted_at",
			}),
		}).Create(&authRow).Error
		if err != nil {
			if isUniqueViolation(err) {
				// (name, unique_id) collision: the signature belongs to
				// another user's record.
				return domainerrors.ErrAuthorizationTaken
			}
			return err
		}

		var committed authorizationModel
		if err := tx.Where("name = ? AND user_id = ?", entities.PolicyName, input.UserID).First(&committed).Error; err != nil {
			return err
		}
		auth, err := committed.toEntity()
		if err != nil {
			return err
		}
		result.Authorization = auth

		payload, err := json.Marshal(map[string]string{
			"organization_id":  auth.OrganizationID,
			"user_id":          auth.UserID,
			"authorization_id": auth.AuthorizationID,
		})
		if err != nil {
			return err
		}
		outboxRow := outboxModel{
			OutboxID:  input.OutboxID,
			EventType: "mpassid.authorization_granted",
			Payload:   payload,
			Status:    outboxStatusPending,
			CreatedAt: input.GrantedAt.UTC(),
		}
		return tx.Create(&outboxRow).Error
	})
	if err != nil {
		return ports.GrantResult{}, err
	}
	return result, nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}

	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:  row.OutboxID,
			EventType: row.EventType,
			Payload:   row.Payload,
			CreatedAt: row.CreatedAt,
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	value := publishedAt.UTC()
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ? AND status = ?", outboxID, outboxStatusPending).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": &value,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrAuthorizationNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
