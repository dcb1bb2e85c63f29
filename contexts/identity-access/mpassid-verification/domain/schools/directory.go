package schools

// School is one row of the national institution registry.
type School struct {
	Code        string
	Name        string
	Type        int
	PostalCodes []string
	DistrictIDs []string
}

// Institution type classifications that include elementary school levels.
// High schools (15) and vocational institutions (21+) are not listed: their
// students are past the class levels the rules constrain.
const (
	TypeElementary        = 11
	TypeElementaryAndHigh = 12
	TypeElementarySpecial = 19
)

// HasElementaryLevels reports whether the institution type carries elementary
// school class levels.
func (s School) HasElementaryLevels() bool {
	switch s.Type {
	case TypeElementary, TypeElementaryAndHigh, TypeElementarySpecial:
		return true
	}
	return false
}

// Directory resolves institution codes to registry rows. Implementations must
// treat unknown or malformed codes as "not found" and must be safe to call
// with attacker-influenced input. The rule engine only ever reads from it.
type Directory interface {
	Lookup(code string) (School, bool)
}

// StaticDirectory is a Directory over a fixed in-memory set of schools,
// supplied wholesale by configuration.
type StaticDirectory struct {
	byCode map[string]School
}

// NewStaticDirectory indexes the given schools by code. Later duplicates win.
func NewStaticDirectory(items []School) *StaticDirectory {
	byCode := make(map[string]School, len(items))
	for _, item := range items {
		byCode[item.Code] = item
	}
	return &StaticDirectory{byCode: byCode}
}

func (d *StaticDirectory) Lookup(code string) (School, bool) {
	school, ok := d.byCode[code]
	return school, ok
}

// Len reports the number of indexed schools.
func (d *StaticDirectory) Len() int {
	return len(d.byCode)
}
