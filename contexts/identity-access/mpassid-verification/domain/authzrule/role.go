package authzrule

import (
	"strings"

	"agora/contexts/identity-access/mpassid-verification/domain/metadata"
)

// RoleRule restricts an action to users holding one of the allowed federation
// roles. The user's roles are lower-cased before comparison; configured roles
// are expected lower-case already.
type RoleRule struct{}

func (RoleRule) Name() string { return RuleRole }

func (RoleRule) Valid(meta metadata.Metadata, opts Options) bool {
	if len(opts.AllowedRoles) == 0 {
		return true
	}
	for _, role := range splitList(meta.Role) {
		if contains(opts.AllowedRoles, strings.ToLower(role)) {
			return true
		}
	}
	return false
}

func (RoleRule) ErrorKey(metadata.Metadata, Options) string {
	return "disallowed_role"
}

func (RoleRule) ErrorParams(metadata.Metadata, Options) map[string]any {
	return map[string]any{}
}
