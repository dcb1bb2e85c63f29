package authzrule

import (
	"strconv"
	"strings"
)

// Options is one protected action's authorization policy. A zero field means
// "no constraint on that dimension".
type Options struct {
	AllowedProviders []string
	AllowedRoles     []string
	MinClassLevel    *int
	MaxClassLevel    *int
}

// ParseOptions reads the external string-keyed policy configuration. Values
// arrive from admin-edited component settings, so each option tolerates both
// its native type and a string rendering. `allowed_municipalities` is the
// legacy spelling of `allowed_providers` kept for old deployments.
func ParseOptions(raw map[string]any) Options {
	opts := Options{
		AllowedProviders: stringList(raw["allowed_providers"]),
		AllowedRoles:     lowered(stringList(raw["allowed_roles"])),
		MinClassLevel:    intOption(raw["minimum_class_level"]),
		MaxClassLevel:    intOption(raw["maximum_class_level"]),
	}
	if len(opts.AllowedProviders) == 0 {
		opts.AllowedProviders = stringList(raw["allowed_municipalities"])
	}
	return opts
}

func stringList(value any) []string {
	var tokens []string
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		tokens = strings.Split(v, ",")
	case []string:
		tokens = v
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				tokens = append(tokens, s)
			}
		}
	default:
		return nil
	}

	var items []string
	for _, token := range tokens {
		token = strings.TrimSpace(token)
		if token != "" {
			items = append(items, token)
		}
	}
	return items
}

func lowered(items []string) []string {
	for i := range items {
		items[i] = strings.ToLower(items[i])
	}
	return items
}

func intOption(value any) *int {
	switch v := value.(type) {
	case int:
		return &v
	case int64:
		n := int(v)
		return &n
	case float64:
		n := int(v)
		return &n
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return nil
		}
		n, err := strconv.Atoi(trimmed)
		if err != nil {
			return nil
		}
		return &n
	default:
		return nil
	}
}

func contains(items []string, target string) bool {
	for _, item := range items {
		if item == target {
			return true
		}
	}
	return false
}

// splitList comma-splits a nullable metadata field into its value list.
func splitList(value *string) []string {
	if value == nil || *value == "" {
		return nil
	}
	return strings.Split(*value, ",")
}
