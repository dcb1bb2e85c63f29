package authzrule

import (
	"testing"

	"agora/contexts/identity-access/mpassid-verification/domain/metadata"
	"agora/contexts/identity-access/mpassid-verification/domain/schools"
)

func testDirectory() schools.Directory {
	return schools.NewStaticDirectory([]schools.School{
		{Code: "00001", Name: "Keskustan ala-aste", Type: schools.TypeElementary},
		{Code: "00002", Name: "Pohjoisen yhteiskoulu", Type: schools.TypeElementaryAndHigh},
		{Code: "00003", Name: "Rannan lukio", Type: 15},
	})
}

func TestElementarySchoolRuleRejectsUnknownSchool(t *testing.T) {
	rule := ElementarySchoolRule{Schools: testDirectory()}
	meta := metadata.Metadata{SchoolCode: strp("99999"), StudentClassLevel: strp("8")}

	if rule.Valid(meta, Options{}) {
		t.Fatalf("expected failure for school outside the registry")
	}
	if got := rule.ErrorKey(meta, Options{}); got != "disallowed_school" {
		t.Fatalf("unexpected error key %q", got)
	}
	if params := rule.ErrorParams(meta, Options{}); len(params) != 0 {
		t.Fatalf("expected empty params, got %v", params)
	}
}

func TestElementarySchoolRulePassesNonElementaryStudents(t *testing.T) {
	rule := ElementarySchoolRule{Schools: testDirectory()}
	opts := Options{MinClassLevel: intp(6), MaxClassLevel: intp(10)}

	// High-school institution type: class level bounds do not apply.
	meta := metadata.Metadata{SchoolCode: strp("00003")}
	if !rule.Valid(meta, opts) {
		t.Fatalf("expected pass for non-elementary school without class level")
	}
}

func TestElementarySchoolRulePassesWithoutBounds(t *testing.T) {
	rule := ElementarySchoolRule{Schools: testDirectory()}
	meta := metadata.Metadata{SchoolCode: strp("00001")}

	if !rule.Valid(meta, Options{}) {
		t.Fatalf("expected pass when no class level bounds are configured")
	}
}

func TestElementarySchoolRuleRequiresClassLevelWhenBounded(t *testing.T) {
	rule := ElementarySchoolRule{Schools: testDirectory()}
	opts := Options{MinClassLevel: intp(6), MaxClassLevel: intp(10)}
	meta := metadata.Metadata{SchoolCode: strp("00001")}

	if rule.Valid(meta, opts) {
		t.Fatalf("expected failure for elementary student without class level")
	}
	if got := rule.ErrorKey(meta, opts); got != "class_level_not_defined" {
		t.Fatalf("unexpected error key %q", got)
	}
	if params := rule.ErrorParams(meta, opts); len(params) != 0 {
		t.Fatalf("expected empty params, got %v", params)
	}
}

func TestElementarySchoolRuleEnforcesBounds(t *testing.T) {
	rule := ElementarySchoolRule{Schools: testDirectory()}
	opts := Options{MinClassLevel: intp(6), MaxClassLevel: intp(10)}

	meta := metadata.Metadata{SchoolCode: strp("00001"), StudentClassLevel: strp("5")}
	if rule.Valid(meta, opts) {
		t.Fatalf("expected failure below the minimum level")
	}
	if got := rule.ErrorKey(meta, opts); got != "class_level_not_allowed" {
		t.Fatalf("unexpected error key %q", got)
	}
	params := rule.ErrorParams(meta, opts)
	if params["min"] != 6 || params["max"] != 10 {
		t.Fatalf("unexpected params %v", params)
	}

	meta.StudentClassLevel = strp("7")
	if !rule.Valid(meta, opts) {
		t.Fatalf("expected pass within bounds")
	}

	// Any level within bounds is enough.
	meta.StudentClassLevel = strp("3,8")
	if !rule.Valid(meta, opts) {
		t.Fatalf("expected pass when one of several levels is within bounds")
	}
}

func TestElementarySchoolRuleParsesLetterSuffixedLevels(t *testing.T) {
	rule := ElementarySchoolRule{Schools: testDirectory()}
	opts := Options{MinClassLevel: intp(6), MaxClassLevel: intp(10)}
	meta := metadata.Metadata{SchoolCode: strp("00002"), StudentClassLevel: strp("9A")}

	if !rule.Valid(meta, opts) {
		t.Fatalf("expected 9A to parse as level 9")
	}

	meta.StudentClassLevel = strp("ABC")
	if rule.Valid(meta, opts) {
		t.Fatalf("expected digitless level to parse as 0 and fail")
	}
}

func TestElementarySchoolRuleSingleBoundErrorKeys(t *testing.T) {
	rule := ElementarySchoolRule{Schools: testDirectory()}
	meta := metadata.Metadata{SchoolCode: strp("00001"), StudentClassLevel: strp("5")}

	onlyMin := Options{MinClassLevel: intp(6)}
	if got := rule.ErrorKey(meta, onlyMin); got != "class_level_not_allowed_min" {
		t.Fatalf("unexpected error key %q", got)
	}
	if params := rule.ErrorParams(meta, onlyMin); params["min"] != 6 {
		t.Fatalf("unexpected params %v", params)
	}

	onlyMax := Options{MaxClassLevel: intp(4)}
	if got := rule.ErrorKey(meta, onlyMax); got != "class_level_not_allowed_max" {
		t.Fatalf("unexpected error key %q", got)
	}
	if params := rule.ErrorParams(meta, onlyMax); params["max"] != 4 {
		t.Fatalf("unexpected params %v", params)
	}

	exact := Options{MinClassLevel: intp(6), MaxClassLevel: intp(6)}
	if got := rule.ErrorKey(meta, exact); got != "class_level_not_allowed_one" {
		t.Fatalf("unexpected error key %q", got)
	}
	if params := rule.ErrorParams(meta, exact); params["level"] != 6 {
		t.Fatalf("unexpected params %v", params)
	}
}

func TestElementarySchoolRuleWithoutDirectoryFailsClosed(t *testing.T) {
	rule := ElementarySchoolRule{}
	meta := metadata.Metadata{SchoolCode: strp("00001")}

	if rule.Valid(meta, Options{}) {
		t.Fatalf("expected failure when no directory is wired")
	}
	if got := rule.ErrorKey(meta, Options{}); got != "disallowed_school" {
		t.Fatalf("unexpected error key %q", got)
	}
}
