package authzrule

import (
	"testing"

	"agora/contexts/identity-access/mpassid-verification/domain/metadata"
)

func TestRoleRulePassesWhenUnconfigured(t *testing.T) {
	rule := RoleRule{}
	if !rule.Valid(metadata.Metadata{}, Options{}) {
		t.Fatalf("expected pass with no allowed roles")
	}
}

func TestRoleRuleMatchesCaseInsensitively(t *testing.T) {
	rule := RoleRule{}
	opts := Options{AllowedRoles: []string{"oppilas"}}

	meta := metadata.Metadata{Role: strp("Opettaja,Oppilas")}
	if !rule.Valid(meta, opts) {
		t.Fatalf("expected pass when any role matches ignoring case")
	}

	meta = metadata.Metadata{Role: strp("Opettaja")}
	if rule.Valid(meta, opts) {
		t.Fatalf("expected failure for unlisted role")
	}
	if rule.Valid(metadata.Metadata{}, opts) {
		t.Fatalf("expected failure with no role metadata")
	}
}

func TestRoleRuleErrorKey(t *testing.T) {
	rule := RoleRule{}
	if got := rule.ErrorKey(metadata.Metadata{}, Options{}); got != "disallowed_role" {
		t.Fatalf("unexpected error key %q", got)
	}
}
