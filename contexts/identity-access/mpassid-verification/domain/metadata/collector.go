package metadata

import (
	"strings"

	"agora/contexts/identity-access/mpassid-verification/domain/assertion"
)

// Collect normalizes a raw federation attribute bag into the canonical
// Metadata record. It is pure and total: malformed or missing attributes
// degrade to nil fields, they never produce an error.
func Collect(attrs assertion.Attributes) Metadata {
	var m Metadata

	// Single-value identity fields. Some federation variants omit the
	// dedicated first-name attribute, in which case the given name stands in.
	m.FirstName = scalar(attrs, assertion.KeyFirstName)
	if m.FirstName == nil {
		m.FirstName = scalar(attrs, assertion.KeyGivenName)
	}
	m.GivenName = scalar(attrs, assertion.KeyGivenName)
	m.LastName = scalar(attrs, assertion.KeyLastName)
	m.StudentClassLevel = scalar(attrs, assertion.KeyClassLevel)

	// School info arrives as "code-or-oid;display name" rows. An all-digit
	// first token is a national institution code, anything else is an OID.
	var codes, oids, names []string
	seenNames := map[string]struct{}{}
	for _, row := range attrs.All(assertion.KeySchoolInfo) {
		parts := splitFields(row)
		identifier := field(parts, 0)
		name := field(parts, 1)
		if isDigits(identifier) {
			codes = append(codes, identifier)
		} else if identifier != "" || name != "" {
			oids = append(oids, identifier)
		}
		if identifier != "" || name != "" {
			if _, seen := seenNames[name]; !seen {
				seenNames[name] = struct{}{}
				names = append(names, name)
			}
		}
	}
	m.SchoolCode = joined(codes)
	m.SchoolOID = joined(oids)
	m.SchoolName = joined(names)

	// Education provider info carries "code;display name" rows. Codes and
	// names stay positionally parallel, duplicates included.
	var providerCodes, providerNames []string
	for _, row := range attrs.All(assertion.KeyProviderInfo) {
		parts := splitFields(row)
		providerCodes = append(providerCodes, field(parts, 0))
		providerNames = append(providerNames, field(parts, 1))
	}
	m.ProviderCode = joined(providerCodes)
	m.ProviderName = joined(providerNames)

	// Role rows are 7-field tuples: provider OID, school code, group/class,
	// role name, role code, school OID, branch OID. Only the group and role
	// name columns feed the canonical record; trailing fields may be absent.
	var groups, roles []string
	for _, row := range attrs.All(assertion.KeyRole) {
		parts := splitFields(row)
		groups = append(groups, field(parts, 2))
		roles = append(roles, field(parts, 3))
	}
	m.Group = joined(groups)
	m.Role = joined(roles)

	return m
}

func scalar(attrs assertion.Attributes, key string) *string {
	value := attrs.First(key)
	if value == "" {
		return nil
	}
	return &value
}

func splitFields(row string) []string {
	parts := strings.Split(row, ";")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func field(parts []string, index int) string {
	if index >= len(parts) {
		return ""
	}
	return parts[index]
}

func isDigits(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func joined(values []string) *string {
	if len(values) == 0 {
		return nil
	}
	result := strings.Join(values, ",")
	if result == "" {
		return nil
	}
	return &result
}
