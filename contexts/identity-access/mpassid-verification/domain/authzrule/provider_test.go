package authzrule

import (
	"testing"

	"agora/contexts/identity-access/mpassid-verification/domain/metadata"
)

func strp(value string) *string { return &value }

func intp(value int) *int { return &value }

func TestProviderRulePassesWhenUnconfigured(t *testing.T) {
	rule := ProviderRule{}
	meta := metadata.Metadata{ProviderCode: strp("1.2.246.562.10.1")}

	if !rule.Valid(meta, Options{}) {
		t.Fatalf("expected pass with no allowed providers")
	}
	if !rule.Valid(metadata.Metadata{}, Options{}) {
		t.Fatalf("expected pass with no provider metadata either")
	}
}

func TestProviderRuleMatchesAnyListedProvider(t *testing.T) {
	rule := ProviderRule{}
	opts := Options{AllowedProviders: []string{"1.2.246.562.10.1", "1.2.246.562.10.2"}}

	meta := metadata.Metadata{ProviderCode: strp("1.2.246.562.10.9,1.2.246.562.10.2")}
	if !rule.Valid(meta, opts) {
		t.Fatalf("expected pass when any provider code matches")
	}

	meta = metadata.Metadata{ProviderCode: strp("1.2.246.562.10.9")}
	if rule.Valid(meta, opts) {
		t.Fatalf("expected failure for unlisted provider")
	}
	if rule.Valid(metadata.Metadata{}, opts) {
		t.Fatalf("expected failure with no provider metadata")
	}
}

func TestProviderRuleErrorKey(t *testing.T) {
	rule := ProviderRule{}
	if got := rule.ErrorKey(metadata.Metadata{}, Options{}); got != "disallowed_provider" {
		t.Fatalf("unexpected error key %q", got)
	}
	if params := rule.ErrorParams(metadata.Metadata{}, Options{}); len(params) != 0 {
		t.Fatalf("expected empty params, got %v", params)
	}
}
