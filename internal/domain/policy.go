package domain

import "time"

// PolicyConfig defines an operator-defined override policy evaluated after the
// statutory verdict. Policies cannot change the statutory outcome; they flag
// evaluations for manual review or mark airline goodwill follow-ups.
type PolicyConfig struct {
	ID          string `json:"id"`
	TenantID    string `json:"tenantId"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Version     string `json:"version"`

	// Expression is a CEL expression over the evaluation context; it must
	// return a bool (triggered / not triggered).
	Expression string `json:"expression"`

	// Action taken when the expression is true.
	Action string `json:"action"`

	// Whether policy is active
	Enabled bool `json:"enabled"`

	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// Policy actions.
const (
	PolicyActionFlagReview = "flag_review"
	PolicyActionGoodwill   = "goodwill"
)

// PolicyResult is the output of evaluating a single policy against an
// eligibility verdict.
type PolicyResult struct {
	PolicyID  string `json:"policyId"`
	TenantID  string `json:"tenantId"`
	Triggered bool   `json:"triggered"`
	Action    string `json:"action,omitempty"`
	Reason    string `json:"reason,omitempty"`
	ProcessMs int64  `json:"processMs"`
}
