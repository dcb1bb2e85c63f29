package httptransport

import "time"

// GrantAuthorizationRequest is the request body of the callback endpoint,
// carrying the already-validated assertion outcome.
type GrantAuthorizationRequest struct {
	OrganizationID string              `json:"organization_id"`
	UserID         string              `json:"user_id"`
	SubjectUID     string              `json:"subject_uid"`
	Attributes     map[string][]string `json:"attributes"`
}

// GrantFromAssertionRequest carries a validated SAML assertion document,
// base64-encoded, for attribute extraction and grant in one step.
type GrantFromAssertionRequest struct {
	OrganizationID string `json:"organization_id"`
	UserID         string `json:"user_id"`
	Assertion      string `json:"assertion"`
}

// AuthorizationDTO describes one committed authorization record.
type AuthorizationDTO struct {
	AuthorizationID string             `json:"authorization_id"`
	OrganizationID  string             `json:"organization_id"`
	UserID          string             `json:"user_id"`
	Name            string             `json:"name"`
	Metadata        map[string]*string `json:"metadata"`
	GrantedAt       time.Time          `json:"granted_at"`
}

// GrantAuthorizationResponse reports the committed record and derived
// contact address.
type GrantAuthorizationResponse struct {
	Authorization AuthorizationDTO `json:"authorization"`
	VerifiedEmail string           `json:"verified_email,omitempty"`
}

// AuthorizeActionRequest carries one protected action's policy options.
type AuthorizeActionRequest struct {
	Options map[string]any `json:"options"`
}

// ExplanationDTO is the machine-readable reason of a failed authorization.
type ExplanationDTO struct {
	Key    string         `json:"key"`
	Params map[string]any `json:"params"`
}

// VerdictResponse is the tagged verdict union on the wire.
type VerdictResponse struct {
	Status           string          `json:"status"`
	ExtraExplanation *ExplanationDTO `json:"extra_explanation,omitempty"`
}

// ErrorResponse is the uniform error envelope for this module's endpoints.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
