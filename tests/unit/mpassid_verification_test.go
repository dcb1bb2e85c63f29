package unit

import (
	"context"
	"errors"
	"testing"

	mpassid "agora/contexts/identity-access/mpassid-verification"
	domainerrors "agora/contexts/identity-access/mpassid-verification/domain/errors"
	httptransport "agora/contexts/identity-access/mpassid-verification/transport/http"
)

func grantRequest(userID string, uid string) httptransport.GrantAuthorizationRequest {
	return httptransport.GrantAuthorizationRequest{
		OrganizationID: "org-1",
		UserID:         userID,
		SubjectUID:     uid,
		Attributes: map[string][]string{
			"first_name":  {"Maija"},
			"last_name":   {"Meikäläinen"},
			"class_level": {"5"},
			"school_info": {"00000;Keskustan ala-aste"},
			"role":        {"1.2.246.562.10.1;00000;5B;Oppilas"},
		},
	}
}

func TestMpassidGrantAndAuthorize(t *testing.T) {
	module := mpassid.NewInMemoryModule(nil)

	grant, err := module.Handler.GrantAuthorizationHandler(context.Background(), grantRequest("user-1", "uid-1"))
	if err != nil {
		t.Fatalf("grant failed: %v", err)
	}
	if grant.Authorization.AuthorizationID == "" {
		t.Fatalf("expected authorization id")
	}
	if grant.VerifiedEmail == "" {
		t.Fatalf("expected derived verified email")
	}

	verdict, err := module.Handler.AuthorizeActionHandler(
		context.Background(),
		"user-1",
		httptransport.AuthorizeActionRequest{
			Options: map[string]any{"allowed_roles": "oppilas"},
		},
	)
	if err != nil {
		t.Fatalf("authorize failed: %v", err)
	}
	if verdict.Status != "ok" {
		t.Fatalf("expected ok verdict, got %+v", verdict)
	}
}

func TestMpassidAuthorizeDeniedWithExplanation(t *testing.T) {
	module := mpassid.NewInMemoryModule(nil)

	if _, err := module.Handler.GrantAuthorizationHandler(context.Background(), grantRequest("user-1", "uid-1")); err != nil {
		t.Fatalf("grant failed: %v", err)
	}

	verdict, err := module.Handler.AuthorizeActionHandler(
		context.Background(),
		"user-1",
		httptransport.AuthorizeActionRequest{
			Options: map[string]any{
				"minimum_class_level": 6,
				"maximum_class_level": 10,
			},
		},
	)
	if err != nil {
		t.Fatalf("authorize failed: %v", err)
	}
	if verdict.Status != "unauthorized" {
		t.Fatalf("expected unauthorized verdict, got %+v", verdict)
	}
	if verdict.ExtraExplanation == nil || verdict.ExtraExplanation.Key != "class_level_not_allowed" {
		t.Fatalf("unexpected explanation %+v", verdict.ExtraExplanation)
	}
	if verdict.ExtraExplanation.Params["scope"] != "mpassid_action_authorizer.restrictions" {
		t.Fatalf("expected scoped params, got %v", verdict.ExtraExplanation.Params)
	}
}

func TestMpassidIdentityConflictIsRefused(t *testing.T) {
	module := mpassid.NewInMemoryModule(nil)

	if _, err := module.Handler.GrantAuthorizationHandler(context.Background(), grantRequest("user-1", "uid-1")); err != nil {
		t.Fatalf("first grant failed: %v", err)
	}

	_, err := module.Handler.GrantAuthorizationHandler(context.Background(), grantRequest("user-2", "uid-1"))
	if !errors.Is(err, domainerrors.ErrIdentityBoundToOtherUser) {
		t.Fatalf("expected identity conflict, got %v", err)
	}
}

func TestMpassidAuthorizeWithoutGrant(t *testing.T) {
	module := mpassid.NewInMemoryModule(nil)

	_, err := module.Handler.AuthorizeActionHandler(
		context.Background(),
		"user-1",
		httptransport.AuthorizeActionRequest{},
	)
	if !errors.Is(err, domainerrors.ErrAuthorizationNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMpassidGetAuthorization(t *testing.T) {
	module := mpassid.NewInMemoryModule(nil)

	if _, err := module.Handler.GrantAuthorizationHandler(context.Background(), grantRequest("user-1", "uid-1")); err != nil {
		t.Fatalf("grant failed: %v", err)
	}

	record, err := module.Handler.GetAuthorizationHandler(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if record.Name != "mpassid_nids" {
		t.Fatalf("unexpected policy name %q", record.Name)
	}
	if record.Metadata["school_code"] == nil || *record.Metadata["school_code"] != "00000" {
		t.Fatalf("unexpected metadata %v", record.Metadata)
	}
}
