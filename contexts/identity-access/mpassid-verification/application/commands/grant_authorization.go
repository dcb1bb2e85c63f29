package commands

import (
	"context"
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"strings"
	"time"

	application "agora/contexts/identity-access/mpassid-verification/application"
	"agora/contexts/identity-access/mpassid-verification/domain/assertion"
	"agora/contexts/identity-access/mpassid-verification/domain/entities"
	domainerrors "agora/contexts/identity-access/mpassid-verification/domain/errors"
	"agora/contexts/identity-access/mpassid-verification/domain/metadata"
	"agora/contexts/identity-access/mpassid-verification/ports"
)

// GrantAuthorizationCommand carries the decoded outcome of one federation
// sign-in: the subject identifier plus the validated attribute bag.
type GrantAuthorizationCommand struct {
	OrganizationID string
	UserID         string
	SubjectUID     string
	Attributes     assertion.Attributes
}

// GrantAuthorizationResult reports the committed binding and the derived
// contact address.
type GrantAuthorizationResult struct {
	Identity      entities.Identity      `json:"identity"`
	Authorization entities.Authorization `json:"authorization"`
	VerifiedEmail string                 `json:"verified_email"`
}

// GrantAuthorizationUseCase binds the federation identity to the local user
// and commits the normalized metadata as the user's authorization record.
type GrantAuthorizationUseCase struct {
	Repository      ports.Repository
	Clock           ports.Clock
	IDGenerator     ports.IDGenerator
	SecretKeyBase   string
	AutoEmailDomain string
	Logger          *slog.Logger
}

// Execute validates the command, refuses identities already bound elsewhere,
// and upserts the authorization with freshly collected metadata. Repeated
// sign-ins by the same user re-stamp granted_at, postponing expiry.
func (u GrantAuthorizationUseCase) Execute(ctx context.Context, cmd GrantAuthorizationCommand) (GrantAuthorizationResult, error) {
	logger := application.ResolveLogger(u.Logger)

	if strings.TrimSpace(cmd.OrganizationID) == "" {
		return GrantAuthorizationResult{}, domainerrors.ErrInvalidOrganizationID
	}
	if strings.TrimSpace(cmd.UserID) == "" {
		return GrantAuthorizationResult{}, domainerrors.ErrInvalidUserID
	}
	if strings.TrimSpace(cmd.SubjectUID) == "" {
		return GrantAuthorizationResult{}, domainerrors.ErrInvalidSubjectUID
	}

	logger.Info("grant authorization started",
		"event", "mpassid_grant_started",
		"module", "identity-access/mpassid-verification",
		"layer", "application",
		"organization_id", cmd.OrganizationID,
		"user_id", cmd.UserID,
	)

	existing, found, err := u.Repository.FindIdentity(ctx, cmd.OrganizationID, entities.IdentityProvider, cmd.SubjectUID)
	if err != nil {
		logger.Error("identity lookup failed",
			"event", "mpassid_identity_lookup_failed",
			"module", "identity-access/mpassid-verification",
			"layer", "application",
			"organization_id", cmd.OrganizationID,
			"user_id", cmd.UserID,
			"error", err.Error(),
		)
		return GrantAuthorizationResult{}, err
	}
	if found && existing.UserID != cmd.UserID {
		logger.Warn("identity already bound to another user",
			"event", "mpassid_identity_conflict",
			"module", "identity-access/mpassid-verification",
			"layer", "application",
			"organization_id", cmd.OrganizationID,
			"user_id", cmd.UserID,
		)
		return GrantAuthorizationResult{}, domainerrors.ErrIdentityBoundToOtherUser
	}

	identityID := existing.IdentityID
	if !found {
		identityID, err = u.IDGenerator.NewID(ctx)
		if err != nil {
			return GrantAuthorizationResult{}, err
		}
	}
	authorizationID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return GrantAuthorizationResult{}, err
	}
	outboxID, err := u.IDGenerator.NewID(ctx)
	if err != nil {
		return GrantAuthorizationResult{}, err
	}

	collected := metadata.Collect(cmd.Attributes)
	now := u.now()

	result, err := u.Repository.Grant(ctx, ports.GrantInput{
		IdentityID:      identityID,
		AuthorizationID: authorizationID,
		OutboxID:        outboxID,
		OrganizationID:  cmd.OrganizationID,
		UserID:          cmd.UserID,
		UID:             cmd.SubjectUID,
		UniqueID:        u.Signature(cmd.SubjectUID),
		Metadata:        collected.ToMap(),
		GrantedAt:       now,
	})
	if err != nil {
		logger.Error("grant authorization write failed",
			"event", "mpassid_grant_write_failed",
			"module", "identity-access/mpassid-verification",
			"layer", "application",
			"organization_id", cmd.OrganizationID,
			"user_id", cmd.UserID,
			"error", err.Error(),
		)
		return GrantAuthorizationResult{}, err
	}

	logger.Info("grant authorization completed",
		"event", "mpassid_grant_completed",
		"module", "identity-access/mpassid-verification",
		"layer", "application",
		"organization_id", cmd.OrganizationID,
		"user_id", cmd.UserID,
		"authorization_id", result.Authorization.AuthorizationID,
	)

	return GrantAuthorizationResult{
		Identity:      result.Identity,
		Authorization: result.Authorization,
		VerifiedEmail: u.VerifiedEmail(cmd.SubjectUID),
	}, nil
}

// Signature derives the stable unique id of one federation subject. The same
// uid always signs identically, so re-authorizations land on the same record.
func (u GrantAuthorizationUseCase) Signature(uid string) string {
	sum := sha256.Sum256([]byte(entities.IdentityProvider + "-" + uid + "-" + u.SecretKeyBase))
	return hex.EncodeToString(sum[:])
}

// VerifiedEmail derives the auto-generated contact address for a subject.
// The digest keeps the raw federation identifier out of the visible address.
func (u GrantAuthorizationUseCase) VerifiedEmail(uid string) string {
	if u.AutoEmailDomain == "" {
		return ""
	}
	sum := md5.Sum([]byte("MPASSID:" + uid + ":" + u.SecretKeyBase))
	return "mpassid-" + hex.EncodeToString(sum[:]) + "@" + u.AutoEmailDomain
}

func (u GrantAuthorizationUseCase) now() time.Time {
	if u.Clock != nil {
		return u.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
