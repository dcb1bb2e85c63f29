package queries

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "agora/contexts/identity-access/mpassid-verification/application"
	"agora/contexts/identity-access/mpassid-verification/domain/authzrule"
	"agora/contexts/identity-access/mpassid-verification/domain/entities"
	domainerrors "agora/contexts/identity-access/mpassid-verification/domain/errors"
	"agora/contexts/identity-access/mpassid-verification/domain/metadata"
	"agora/contexts/identity-access/mpassid-verification/ports"
)

// AuthorizeActionQuery asks whether one user may perform one protected
// action under the action's policy options.
type AuthorizeActionQuery struct {
	UserID  string
	Options map[string]any
}

// AuthorizeActionUseCase loads the user's committed authorization record and
// evaluates the configured rules against it.
type AuthorizeActionUseCase struct {
	Repository ports.Repository
	Authorizer authzrule.Authorizer
	Clock      ports.Clock
	// Expiry bounds the age of a usable authorization; zero means records
	// never expire.
	Expiry time.Duration
	Logger *slog.Logger
}

// Execute returns the rule engine's verdict. A missing or expired
// authorization is an error, not a verdict: the closed error-key vocabulary
// belongs to the rules alone.
func (u AuthorizeActionUseCase) Execute(ctx context.Context, query AuthorizeActionQuery) (authzrule.Verdict, error) {
	if strings.TrimSpace(query.UserID) == "" {
		return authzrule.Verdict{}, domainerrors.ErrInvalidUserID
	}

	logger := application.ResolveLogger(u.Logger)
	record, found, err := u.Repository.FindAuthorizationByUser(ctx, entities.PolicyName, query.UserID)
	if err != nil {
		logger.Error("authorization lookup failed",
			"event", "mpassid_authorize_lookup_failed",
			"module", "identity-access/mpassid-verification",
			"layer", "application",
			"user_id", query.UserID,
			"error", err.Error(),
		)
		return authzrule.Verdict{}, err
	}
	if !found {
		return authzrule.Verdict{}, domainerrors.ErrAuthorizationNotFound
	}
	if record.Expired(u.now(), u.Expiry) {
		logger.Info("authorization expired",
			"event", "mpassid_authorize_expired",
			"module", "identity-access/mpassid-verification",
			"layer", "application",
			"user_id", query.UserID,
			"granted_at", record.GrantedAt,
		)
		return authzrule.Verdict{}, domainerrors.ErrAuthorizationExpired
	}

	verdict := u.Authorizer.Authorize(metadata.FromMap(record.Metadata), authzrule.ParseOptions(query.Options))
	if verdict.Ok() {
		logger.Debug("action authorized",
			"event", "mpassid_authorize_ok",
			"module", "identity-access/mpassid-verification",
			"layer", "application",
			"user_id", query.UserID,
		)
	} else {
		logger.Info("action unauthorized",
			"event", "mpassid_authorize_denied",
			"module", "identity-access/mpassid-verification",
			"layer", "application",
			"user_id", query.UserID,
			"error_key", verdict.ExtraExplanation.Key,
		)
	}
	return verdict, nil
}

func (u AuthorizeActionUseCase) now() time.Time {
	if u.Clock != nil {
		return u.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
