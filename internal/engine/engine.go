// Package engine implements the eligibility and compensation rules engine:
// pure decision logic mapping a disruption record to a verdict, an amount,
// a confidence score, and a rationale under the applicable regime.
package engine

import (
	"context"

	"github.com/openclaims/kestrel/internal/circumstances"
	"github.com/openclaims/kestrel/internal/domain"
	"github.com/openclaims/kestrel/internal/geo"
	"github.com/openclaims/kestrel/internal/jurisdiction"
)

// EngineVersion tags evaluation audit records.
const EngineVersion = "kestrel-1.0"

// Engine evaluates disruption records. It is stateless per call; the only
// I/O is the circumstances classifier call (which can never fail an
// evaluation) and the memoized distance lookup.
type Engine struct {
	geo           *geo.Calculator
	circumstances *circumstances.Service
}

// New creates an eligibility engine.
func New(calc *geo.Calculator, circ *circumstances.Service) *Engine {
	return &Engine{geo: calc, circumstances: circ}
}

// Outcome wraps the verdict with audit provenance for persistence and
// policy evaluation. The EligibilityResult inside is the external contract.
type Outcome struct {
	Result           domain.EligibilityResult
	DistanceKm       float64
	DistanceTier     string
	ClassifierSource string
}

// evalInput carries the per-evaluation context shared by the scenario
// calculators.
type evalInput struct {
	rec    *domain.DisruptionRecord
	regime domain.Regime
	km     float64
	tier   string
	out    *Outcome
}

// CheckEligibility is the single exposed decision function: disruption
// record in, eligibility verdict out. Business-rule outcomes are never
// errors; every input yields a complete, well-typed result.
func (e *Engine) CheckEligibility(ctx context.Context, rec *domain.DisruptionRecord) *domain.EligibilityResult {
	return &e.Evaluate(ctx, rec).Result
}

// Evaluate runs the full evaluation and returns the verdict with audit
// provenance. Used by the API and worker layers; CheckEligibility is the
// plain contract on top of it.
func (e *Engine) Evaluate(ctx context.Context, rec *domain.DisruptionRecord) *Outcome {
	regime := jurisdiction.Detect(rec.Airline, rec.DepartureAirport, rec.ArrivalAirport)

	dist := e.geo.Distance(ctx, rec.DepartureAirport, rec.ArrivalAirport)
	km := geo.EffectiveKm(dist)
	tier := geo.Tier(km)

	out := &Outcome{
		DistanceKm:       km,
		DistanceTier:     tier,
		ClassifierSource: circumstances.SourceNone,
	}
	in := &evalInput{rec: rec, regime: regime, km: km, tier: tier, out: out}

	switch rec.Type() {
	case domain.DisruptionCancellation:
		out.Result = e.evaluateCancellation(ctx, in)
	case domain.DisruptionDeniedBoarding:
		out.Result = e.evaluateDeniedBoarding(ctx, in)
	case domain.DisruptionDowngrading:
		out.Result = e.evaluateDowngrade(ctx, in)
	default:
		out.Result = e.evaluateDelay(ctx, in)
	}

	return out
}

// assess runs the circumstances classifier and records its provenance.
func (e *Engine) assess(ctx context.Context, in *evalInput, reason string) circumstances.Assessment {
	a := e.circumstances.Assess(ctx, reason)
	in.out.ClassifierSource = a.Source
	return a
}

// unknownResult is the terminal state for routes no supported regime covers.
// Deliberately not an error: assistance obligations may still apply, but no
// standardized compensation scheme does.
func unknownResult() domain.EligibilityResult {
	return domain.EligibilityResult{
		Eligible:   false,
		Amount:     "N/A",
		Confidence: 80,
		Message:    "This route is not covered by a supported passenger-rights regime. Care and assistance obligations may still apply, but no standardized compensation scheme does.",
		Regulation: domain.RegimeUnknown,
		Reason:     "unsupported route",
	}
}
