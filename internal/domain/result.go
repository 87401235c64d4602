package domain

import (
	"time"
)

// EligibilityResult is the engine's sole artifact: the verdict for one
// disruption record under the selected regime.
type EligibilityResult struct {
	Eligible bool `json:"eligible"`

	// Amount is the currency-symbol-prefixed compensation string, e.g. "€400".
	// Informational verdicts carry sentinel strings such as
	// "Varies by airline" or "To be calculated".
	Amount string `json:"amount"`

	// Confidence is a heuristic signal (50-100) used downstream to gate claim
	// auto-filing. It has no statistical meaning.
	Confidence int `json:"confidence"`

	Message    string `json:"message"`
	Regulation Regime `json:"regulation"`

	// Reason is a short machine-auditable rationale code.
	Reason string `json:"reason,omitempty"`
}

// Evaluation is the persisted audit record wrapping an EligibilityResult with
// its inputs and processing provenance. A wrong verdict is wrong money, so
// every evaluation is stored with enough context to replay the decision.
type Evaluation struct {
	ID           string `json:"id"`
	TenantID     string `json:"tenantId"`
	DisruptionID string `json:"disruptionId"`

	// FlightNumber is denormalized from the disruption record so repeat-claim
	// counts per flight stay a single indexed query.
	FlightNumber string `json:"flightNumber"`

	Result EligibilityResult `json:"result"`

	// PolicyResults holds outcomes of operator-defined CEL override policies
	// applied after the statutory verdict.
	PolicyResults []PolicyResult `json:"policyResults,omitempty"`

	// ReviewRequired is set when any triggered policy requests manual review.
	ReviewRequired bool `json:"reviewRequired"`

	Metadata  EvaluationMetadata `json:"metadata"`
	Timestamp time.Time          `json:"timestamp"`
}

// EvaluationMetadata contains processing provenance.
type EvaluationMetadata struct {
	TraceID          string  `json:"traceId"`
	DistanceKm       float64 `json:"distanceKm"`
	DistanceTier     string  `json:"distanceTier"`
	ClassifierSource string  `json:"classifierSource"` // "llm", "keyword", or "none"
	EngineVersion    string  `json:"engineVersion"`
	TotalMs          int64   `json:"totalMs"`
}

// CheckResponse is the API response for POST /check.
type CheckResponse struct {
	EvaluationID string            `json:"evaluationId"`
	DisruptionID string            `json:"disruptionId"`
	Result       EligibilityResult `json:"result"`

	ReviewRequired bool `json:"reviewRequired,omitempty"`

	Metadata struct {
		TraceID      string  `json:"traceId"`
		DistanceKm   float64 `json:"distanceKm"`
		DistanceTier string  `json:"distanceTier"`
		TotalMs      int64   `json:"totalMs"`
		Version      string  `json:"version"`
	} `json:"metadata"`
}
