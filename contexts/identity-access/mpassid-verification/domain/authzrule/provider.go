package authzrule

import "agora/contexts/identity-access/mpassid-verification/domain/metadata"

// ProviderRule restricts an action to users whose education provider appears
// in the action's allowed provider list. Matching is exact and
// case-sensitive: provider codes are OIDs, not free text.
type ProviderRule struct{}

func (ProviderRule) Name() string { return RuleProvider }

func (ProviderRule) Valid(meta metadata.Metadata, opts Options) bool {
	if len(opts.AllowedProviders) == 0 {
		return true
	}
	for _, code := range splitList(meta.ProviderCode) {
		if contains(opts.AllowedProviders, code) {
			return true
		}
	}
	return false
}

func (ProviderRule) ErrorKey(metadata.Metadata, Options) string {
	return "disallowed_provider"
}

func (ProviderRule) ErrorParams(metadata.Metadata, Options) map[string]any {
	return map[string]any{}
}
