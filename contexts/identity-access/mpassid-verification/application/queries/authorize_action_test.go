package queries

import (
	"context"
	"errors"
	"testing"
	"time"

	"agora/contexts/identity-access/mpassid-verification/adapters/memory"
	"agora/contexts/identity-access/mpassid-verification/domain/authzrule"
	domainerrors "agora/contexts/identity-access/mpassid-verification/domain/errors"
	"agora/contexts/identity-access/mpassid-verification/domain/schools"
	"agora/contexts/identity-access/mpassid-verification/ports"
)

type fixedClock struct {
	at time.Time
}

func (c fixedClock) Now() time.Time { return c.at }

func seedAuthorization(t *testing.T, store *memory.Store, userID string, grantedAt time.Time, meta map[string]*string) {
	t.Helper()
	_, err := store.Grant(context.Background(), ports.GrantInput{
		IdentityID:      "identity-" + userID,
		AuthorizationID: "authorization-" + userID,
		OutboxID:        "outbox-" + userID,
		OrganizationID:  "org-1",
		UserID:          userID,
		UID:             "uid-" + userID,
		UniqueID:        "sig-" + userID,
		Metadata:        meta,
		GrantedAt:       grantedAt,
	})
	if err != nil {
		t.Fatalf("seed grant failed: %v", err)
	}
}

func newAuthorizeUseCase(t *testing.T, store *memory.Store, now time.Time, expiry time.Duration) AuthorizeActionUseCase {
	t.Helper()
	rules, err := authzrule.Build(authzrule.DefaultRuleOrder(), authzrule.Config{
		Schools: schools.NewStaticDirectory([]schools.School{
			{Code: "00001", Name: "Keskustan ala-aste", Type: schools.TypeElementary},
		}),
	})
	if err != nil {
		t.Fatalf("build rules failed: %v", err)
	}
	return AuthorizeActionUseCase{
		Repository: store,
		Authorizer: authzrule.NewAuthorizer(rules),
		Clock:      fixedClock{at: now},
		Expiry:     expiry,
	}
}

func strp(value string) *string { return &value }

func TestAuthorizeActionVerdicts(t *testing.T) {
	store := memory.NewStore()
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	seedAuthorization(t, store, "user-1", now.Add(-time.Hour), map[string]*string{
		"school_code":         strp("00001"),
		"student_class_level": strp("5"),
		"role":                strp("Oppilas"),
	})

	useCase := newAuthorizeUseCase(t, store, now, 0)

	verdict, err := useCase.Execute(context.Background(), AuthorizeActionQuery{UserID: "user-1"})
	if err != nil {
		t.Fatalf("authorize failed: %v", err)
	}
	if !verdict.Ok() {
		t.Fatalf("expected ok verdict, got %+v", verdict)
	}

	verdict, err = useCase.Execute(context.Background(), AuthorizeActionQuery{
		UserID: "user-1",
		Options: map[string]any{
			"minimum_class_level": 6,
			"maximum_class_level": 10,
		},
	})
	if err != nil {
		t.Fatalf("authorize failed: %v", err)
	}
	if verdict.Ok() || verdict.ExtraExplanation.Key != "class_level_not_allowed" {
		t.Fatalf("expected class level denial, got %+v", verdict)
	}
	if verdict.ExtraExplanation.Params["scope"] != authzrule.ErrorScope {
		t.Fatalf("expected scoped params, got %v", verdict.ExtraExplanation.Params)
	}
}

func TestAuthorizeActionMissingAuthorization(t *testing.T) {
	useCase := newAuthorizeUseCase(t, memory.NewStore(), time.Now(), 0)

	_, err := useCase.Execute(context.Background(), AuthorizeActionQuery{UserID: "user-1"})
	if !errors.Is(err, domainerrors.ErrAuthorizationNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	_, err = useCase.Execute(context.Background(), AuthorizeActionQuery{UserID: "  "})
	if !errors.Is(err, domainerrors.ErrInvalidUserID) {
		t.Fatalf("expected invalid user id, got %v", err)
	}
}

func TestAuthorizeActionExpiry(t *testing.T) {
	store := memory.NewStore()
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	seedAuthorization(t, store, "user-1", now.Add(-48*time.Hour), map[string]*string{
		"school_code": strp("00001"),
	})

	useCase := newAuthorizeUseCase(t, store, now, 24*time.Hour)
	_, err := useCase.Execute(context.Background(), AuthorizeActionQuery{UserID: "user-1"})
	if !errors.Is(err, domainerrors.ErrAuthorizationExpired) {
		t.Fatalf("expected expired, got %v", err)
	}

	// Zero expiry disables the age check entirely.
	useCase = newAuthorizeUseCase(t, store, now, 0)
	if _, err := useCase.Execute(context.Background(), AuthorizeActionQuery{UserID: "user-1"}); err != nil {
		t.Fatalf("expected usable authorization without expiry, got %v", err)
	}
}
