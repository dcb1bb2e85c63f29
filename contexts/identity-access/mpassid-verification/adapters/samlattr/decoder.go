package samlattr

import (
	"strings"

	"agora/contexts/identity-access/mpassid-verification/domain/assertion"

	"github.com/crewjam/saml"
)

// SAML attribute names of the provider/OID-based federation schema. Older
// municipality-based dictionaries are not mapped; deployments still on one
// must override the attribute map in configuration.
const (
	AttrUID          = "urn:mpass.id:uid"
	AttrFirstName    = "urn:mpass.id:firstName"
	AttrGivenName    = "urn:oid:2.5.4.42"
	AttrLastName     = "urn:oid:2.5.4.4"
	AttrClassLevel   = "urn:mpass.id:classLevel"
	AttrSchoolInfo   = "urn:mpass.id:schoolInfo"
	AttrProviderInfo = "urn:mpass.id:educationProviderInfo"
	AttrRole         = "urn:mpass.id:role"
)

// DefaultAttributeMap maps federation attribute names onto the canonical
// keys the metadata collector reads. Friendly names are included so metadata
// variations between identity provider deployments keep resolving.
func DefaultAttributeMap() map[string]string {
	return map[string]string{
		AttrFirstName:    assertion.KeyFirstName,
		AttrGivenName:    assertion.KeyGivenName,
		AttrLastName:     assertion.KeyLastName,
		AttrClassLevel:   assertion.KeyClassLevel,
		AttrSchoolInfo:   assertion.KeySchoolInfo,
		AttrProviderInfo: assertion.KeyProviderInfo,
		AttrRole:         assertion.KeyRole,

		"firstName":             assertion.KeyFirstName,
		"givenName":             assertion.KeyGivenName,
		"sn":                    assertion.KeyLastName,
		"classLevel":            assertion.KeyClassLevel,
		"schoolInfo":            assertion.KeySchoolInfo,
		"educationProviderInfo": assertion.KeyProviderInfo,
		"role":                  assertion.KeyRole,
	}
}

// Decoder flattens an already-validated SAML assertion into the attribute bag
// the collector consumes. Signature, conditions and status checks belong to
// the service-provider layer that produced the assertion; none are repeated
// here.
type Decoder struct {
	// AttributeMap overrides DefaultAttributeMap when non-nil.
	AttributeMap map[string]string
}

// Decode extracts the mapped attributes, preserving the document order of
// repeated values. Unmapped attributes are dropped.
func (d Decoder) Decode(a *saml.Assertion) assertion.Attributes {
	attrs := assertion.Attributes{}
	if a == nil {
		return attrs
	}
	mapping := d.AttributeMap
	if mapping == nil {
		mapping = DefaultAttributeMap()
	}

	for _, statement := range a.AttributeStatements {
		for _, attribute := range statement.Attributes {
			key, ok := mapping[attribute.Name]
			if !ok {
				key, ok = mapping[attribute.FriendlyName]
			}
			if !ok {
				continue
			}
			for _, value := range attribute.Values {
				trimmed := strings.TrimSpace(value.Value)
				if trimmed == "" {
					continue
				}
				attrs.Add(key, trimmed)
			}
		}
	}
	return attrs
}

// SubjectUID resolves the federation's stable subject identifier: the uid
// attribute when present, the assertion subject's NameID otherwise.
func (d Decoder) SubjectUID(a *saml.Assertion) string {
	if a == nil {
		return ""
	}
	for _, statement := range a.AttributeStatements {
		for _, attribute := range statement.Attributes {
			if attribute.Name != AttrUID && attribute.FriendlyName != "uid" {
				continue
			}
			for _, value := range attribute.Values {
				if trimmed := strings.TrimSpace(value.Value); trimmed != "" {
					return trimmed
				}
			}
		}
	}
	if a.Subject != nil && a.Subject.NameID != nil {
		return strings.TrimSpace(a.Subject.NameID.Value)
	}
	return ""
}
