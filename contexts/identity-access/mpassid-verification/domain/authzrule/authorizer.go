package authzrule

import "agora/contexts/identity-access/mpassid-verification/domain/metadata"

// ErrorScope namespaces every rule failure key for message localization.
const ErrorScope = "mpassid_action_authorizer.restrictions"

// Verdict statuses.
const (
	StatusOk           = "ok"
	StatusUnauthorized = "unauthorized"
)

// Explanation is the machine-readable reason of a failed authorization,
// carrying the failing rule's key and message interpolation params.
type Explanation struct {
	Key    string         `json:"key"`
	Params map[string]any `json:"params"`
}

// Verdict is the result of one authorization evaluation. It is computed fresh
// on every call and never cached.
type Verdict struct {
	Status           string       `json:"status"`
	ExtraExplanation *Explanation `json:"extra_explanation,omitempty"`
}

// Ok reports whether the verdict authorizes the action.
func (v Verdict) Ok() bool {
	return v.Status == StatusOk
}

// Authorizer evaluates a fixed ordered rule list against metadata records.
type Authorizer struct {
	rules []Rule
}

// NewAuthorizer builds an authorizer over the given rules. The slice order is
// the evaluation order.
func NewAuthorizer(rules []Rule) Authorizer {
	return Authorizer{rules: append([]Rule(nil), rules...)}
}

// Authorize runs the rules in declared order and returns the first failing
// rule's verdict, or Ok when every rule passes. Evaluation short-circuits:
// surfacing one actionable reason at a time is intentional, so simultaneous
// violations of later rules stay unreported.
func (a Authorizer) Authorize(meta metadata.Metadata, opts Options) Verdict {
	for _, rule := range a.rules {
		if rule.Valid(meta, opts) {
			continue
		}
		params := rule.ErrorParams(meta, opts)
		if params == nil {
			params = map[string]any{}
		}
		params["scope"] = ErrorScope
		return Verdict{
			Status: StatusUnauthorized,
			ExtraExplanation: &Explanation{
				Key:    rule.ErrorKey(meta, opts),
				Params: params,
			},
		}
	}
	return Verdict{Status: StatusOk}
}
