package queries

import (
	"context"
	"log/slog"
	"strings"

	application "agora/contexts/identity-access/mpassid-verification/application"
	"agora/contexts/identity-access/mpassid-verification/domain/entities"
	domainerrors "agora/contexts/identity-access/mpassid-verification/domain/errors"
	"agora/contexts/identity-access/mpassid-verification/ports"
)

// GetAuthorizationUseCase fetches a user's committed authorization record.
type GetAuthorizationUseCase struct {
	Repository ports.Repository
	Logger     *slog.Logger
}

func (u GetAuthorizationUseCase) Execute(ctx context.Context, userID string) (entities.Authorization, error) {
	if strings.TrimSpace(userID) == "" {
		return entities.Authorization{}, domainerrors.ErrInvalidUserID
	}

	record, found, err := u.Repository.FindAuthorizationByUser(ctx, entities.PolicyName, userID)
	if err != nil {
		application.ResolveLogger(u.Logger).Error("authorization fetch failed",
			"event", "mpassid_get_authorization_failed",
			"module", "identity-access/mpassid-verification",
			"layer", "application",
			"user_id", userID,
			"error", err.Error(),
		)
		return entities.Authorization{}, err
	}
	if !found {
		return entities.Authorization{}, domainerrors.ErrAuthorizationNotFound
	}
	return record, nil
}
