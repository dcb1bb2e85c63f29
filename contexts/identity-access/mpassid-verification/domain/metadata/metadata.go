package metadata

// Metadata is the canonical, normalized per-user attribute record. It is the
// only thing persisted with an authorization and the only input the rule
// engine reads, so it must stay a self-contained value: plain nullable
// strings, no lookups, no behavior beyond (de)serialization.
//
// Multi-valued source attributes are stored comma-joined. A field whose join
// would be empty is nil, never "", so "no data" stays distinguishable from
// data that happens to be blank.
type Metadata struct {
	FirstName         *string `json:"first_name"`
	GivenName         *string `json:"given_name"`
	LastName          *string `json:"last_name"`
	StudentClassLevel *string `json:"student_class_level"`
	SchoolCode        *string `json:"school_code"`
	SchoolOID         *string `json:"school_oid"`
	SchoolName        *string `json:"school_name"`
	ProviderCode      *string `json:"provider_code"`
	ProviderName      *string `json:"provider_name"`
	Group             *string `json:"group"`
	Role              *string `json:"role"`
}

// ToMap flattens the record into a string-keyed mapping suitable for JSON
// persistence. Round-trips exactly through FromMap.
func (m Metadata) ToMap() map[string]*string {
	return map[string]*string{
		"first_name":          m.FirstName,
		"given_name":          m.GivenName,
		"last_name":           m.LastName,
		"student_class_level": m.StudentClassLevel,
		"school_code":         m.SchoolCode,
		"school_oid":          m.SchoolOID,
		"school_name":         m.SchoolName,
		"provider_code":       m.ProviderCode,
		"provider_name":       m.ProviderName,
		"group":               m.Group,
		"role":                m.Role,
	}
}

// FromMap rebuilds a record from its persisted mapping. Unknown keys are
// ignored; missing keys stay nil.
func FromMap(values map[string]*string) Metadata {
	return Metadata{
		FirstName:         values["first_name"],
		GivenName:         values["given_name"],
		LastName:          values["last_name"],
		StudentClassLevel: values["student_class_level"],
		SchoolCode:        values["school_code"],
		SchoolOID:         values["school_oid"],
		SchoolName:        values["school_name"],
		ProviderCode:      values["provider_code"],
		ProviderName:      values["provider_name"],
		Group:             values["group"],
		Role:              values["role"],
	}
}
