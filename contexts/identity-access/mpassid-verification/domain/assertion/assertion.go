package assertion

// Canonical attribute keys produced by the federation decoder. The collector
// only ever reads these keys; SAML attribute names are mapped onto them by the
// adapter layer.
const (
	KeyFirstName    = "first_name"
	KeyGivenName    = "given_name"
	KeyLastName     = "last_name"
	KeyClassLevel   = "class_level"
	KeySchoolInfo   = "school_info"
	KeyProviderInfo = "provider_info"
	KeyRole         = "role"
)

// Attributes is the flat, already-validated attribute bag of one identity
// assertion. Repeated attributes keep their document order. A missing key and
// a key with an empty value list are equivalent.
type Attributes map[string][]string

// First returns the first value of an attribute, or "" when absent.
func (a Attributes) First(key string) string {
	values := a[key]
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// All returns every value of an attribute in order. The returned slice is the
// stored one; callers must not mutate it.
func (a Attributes) All(key string) []string {
	return a[key]
}

// Add appends a value to an attribute, preserving insertion order.
func (a Attributes) Add(key string, value string) {
	a[key] = append(a[key], value)
}
