package authzrule

import (
	"strconv"
	"strings"

	"agora/contexts/identity-access/mpassid-verification/domain/metadata"
	"agora/contexts/identity-access/mpassid-verification/domain/schools"
)

// ElementarySchoolRule gates an action on the user's school and, for schools
// carrying elementary levels, the user's class level.
//
// The class-level bounds only apply when at least one of the user's schools
// has elementary levels (institution types 11, 12, 19). Students in pure high
// schools or vocational institutions pass the level check automatically
// because they are old enough.
type ElementarySchoolRule struct {
	Schools schools.Directory
}

func (ElementarySchoolRule) Name() string { return RuleElementarySchool }

func (r ElementarySchoolRule) Valid(meta metadata.Metadata, opts Options) bool {
	if !r.schoolInRegistry(meta) {
		return false
	}
	if !r.inElementarySchool(meta) {
		return true
	}
	if opts.MinClassLevel == nil && opts.MaxClassLevel == nil {
		return true
	}
	if blank(meta.StudentClassLevel) {
		return false
	}
	for _, level := range classLevels(meta) {
		if (opts.MinClassLevel == nil || level >= *opts.MinClassLevel) &&
			(opts.MaxClassLevel == nil || level <= *opts.MaxClassLevel) {
			return true
		}
	}
	return false
}

func (r ElementarySchoolRule) ErrorKey(meta metadata.Metadata, opts Options) string {
	if !r.schoolInRegistry(meta) {
		return "disallowed_school"
	}
	if blank(meta.StudentClassLevel) {
		return "class_level_not_defined"
	}
	switch {
	case opts.MaxClassLevel == nil:
		return "class_level_not_allowed_min"
	case opts.MinClassLevel == nil:
		return "class_level_not_allowed_max"
	case *opts.MinClassLevel == *opts.MaxClassLevel:
		return "class_level_not_allowed_one"
	}
	return "class_level_not_allowed"
}

func (r ElementarySchoolRule) ErrorParams(meta metadata.Metadata, opts Options) map[string]any {
	params := map[string]any{}
	if !r.schoolInRegistry(meta) || blank(meta.StudentClassLevel) {
		return params
	}
	switch {
	case opts.MaxClassLevel == nil:
		if opts.MinClassLevel != nil {
			params["min"] = *opts.MinClassLevel
		}
	case opts.MinClassLevel == nil:
		params["max"] = *opts.MaxClassLevel
	case *opts.MinClassLevel == *opts.MaxClassLevel:
		params["level"] = *opts.MaxClassLevel
	default:
		params["min"] = *opts.MinClassLevel
		params["max"] = *opts.MaxClassLevel
	}
	return params
}

func (r ElementarySchoolRule) schoolInRegistry(meta metadata.Metadata) bool {
	if r.Schools == nil {
		return false
	}
	for _, code := range splitList(meta.SchoolCode) {
		if _, ok := r.Schools.Lookup(code); ok {
			return true
		}
	}
	return false
}

func (r ElementarySchoolRule) inElementarySchool(meta metadata.Metadata) bool {
	for _, code := range splitList(meta.SchoolCode) {
		school, ok := r.Schools.Lookup(code)
		if ok && school.HasElementaryLevels() {
			return true
		}
	}
	return false
}

// classLevels parses the comma-separated class level tokens. A token's
// leading non-digit prefix is stripped and the remaining leading digits are
// read as the numeric level ("9A" is level 9). A token with no digits parses
// as level 0.
func classLevels(meta metadata.Metadata) []int {
	tokens := splitList(meta.StudentClassLevel)
	levels := make([]int, 0, len(tokens))
	for _, token := range tokens {
		levels = append(levels, parseLevel(token))
	}
	return levels
}

func parseLevel(token string) int {
	start := strings.IndexFunc(token, func(r rune) bool {
		return r >= '0' && r <= '9'
	})
	if start < 0 {
		return 0
	}
	end := start
	for end < len(token) && token[end] >= '0' && token[end] <= '9' {
		end++
	}
	level, err := strconv.Atoi(token[start:end])
	if err != nil {
		return 0
	}
	return level
}

func blank(value *string) bool {
	return value == nil || strings.TrimSpace(*value) == ""
}
