package authzrule

import (
	"agora/contexts/identity-access/mpassid-verification/domain/metadata"
	"agora/contexts/identity-access/mpassid-verification/domain/schools"

	domainerrors "agora/contexts/identity-access/mpassid-verification/domain/errors"
)

// Rule evaluates one dimension of a metadata record against an action's
// policy options. Implementations are stateless values: Valid, ErrorKey and
// ErrorParams are pure functions of their arguments, so concurrent
// evaluations need no synchronization.
type Rule interface {
	// Name is the registry discriminant of the rule.
	Name() string
	// Valid reports whether the metadata satisfies this dimension.
	Valid(meta metadata.Metadata, opts Options) bool
	// ErrorKey is the stable machine-readable reason reported when Valid is
	// false. Undefined when Valid is true.
	ErrorKey(meta metadata.Metadata, opts Options) string
	// ErrorParams carries interpolation values for the localized end-user
	// message belonging to ErrorKey.
	ErrorParams(meta metadata.Metadata, opts Options) map[string]any
}

// Rule discriminants recognized by the registry.
const (
	RuleProvider         = "provider"
	RuleRole             = "role"
	RuleElementarySchool = "elementary_school"
)

// Config carries the dependencies individual rules need. Rules receive their
// collaborators here, at build time, never through package state.
type Config struct {
	Schools schools.Directory
}

// Builder constructs one rule variant from the shared config.
type Builder func(Config) Rule

// DefaultRegistry maps each known discriminant to its builder. The variant
// set is closed; new rules are added here, not resolved by name at runtime.
func DefaultRegistry() map[string]Builder {
	return map[string]Builder{
		RuleProvider:         func(Config) Rule { return ProviderRule{} },
		RuleRole:             func(Config) Rule { return RoleRule{} },
		RuleElementarySchool: func(cfg Config) Rule { return ElementarySchoolRule{Schools: cfg.Schools} },
	}
}

// Build resolves the configured rule names into rule values, preserving the
// declared order. Unknown names fail loudly: a bad rule list is a deployment
// mistake, not a per-request condition.
func Build(names []string, cfg Config) ([]Rule, error) {
	registry := DefaultRegistry()
	rules := make([]Rule, 0, len(names))
	for _, name := range names {
		builder, ok := registry[name]
		if !ok {
			return nil, domainerrors.ErrUnknownAuthorizationRule
		}
		rules = append(rules, builder(cfg))
	}
	return rules, nil
}

// DefaultRuleOrder is the standard evaluation order: cheap membership checks
// first, the directory-backed school rule last.
func DefaultRuleOrder() []string {
	return []string{RuleProvider, RuleRole, RuleElementarySchool}
}
