package entities

import "time"

// PolicyName is the verification workflow this module owns. Authorization
// records are keyed by (user, policy name).
const PolicyName = "mpassid_nids"

// IdentityProvider is the external identity provider discriminant stored on
// identity bindings.
const IdentityProvider = "mpassid"

// Identity binds one federation subject to one local user inside an
// organization. At most one binding may exist per (organization, provider,
// uid), enforced at the storage boundary.
type Identity struct {
	IdentityID     string    `json:"identity_id"`
	OrganizationID string    `json:"organization_id"`
	UserID         string    `json:"user_id"`
	Provider       string    `json:"provider"`
	UID            string    `json:"uid"`
	CreatedAt      time.Time `json:"created_at"`
}

// Authorization is the persisted, re-evaluatable authorization record. The
// metadata mapping is the canonical normalized attribute set committed at
// grant time; rules later evaluate it as-is, however old it has become.
type Authorization struct {
	AuthorizationID string             `json:"authorization_id"`
	OrganizationID  string             `json:"organization_id"`
	UserID          string             `json:"user_id"`
	Name            string             `json:"name"`
	UniqueID        string             `json:"unique_id"`
	Metadata        map[string]*string `json:"metadata"`
	GrantedAt       time.Time          `json:"granted_at"`
}

// Expired reports whether the record's grant is older than the configured
// expiry. A zero expiry means the authorization never expires.
func (a Authorization) Expired(now time.Time, expiry time.Duration) bool {
	if expiry <= 0 {
		return false
	}
	return now.Sub(a.GrantedAt) > expiry
}
