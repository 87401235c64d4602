// Package policy provides the CEL-Go based override policy engine. Policies
// are operator-defined expressions evaluated after the statutory verdict;
// they flag evaluations for manual review or goodwill follow-up but never
// change the statutory outcome.
package policy

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/openclaims/kestrel/internal/domain"
)

// Engine compiles and evaluates override policies.
type Engine struct {
	mu               sync.RWMutex
	env              *cel.Env
	compiledPolicies map[string]*CompiledPolicy
	claimCountGetter ClaimCountGetter
	maxWorkers       int
}

// CompiledPolicy holds a pre-compiled CEL program.
type CompiledPolicy struct {
	Config  *domain.PolicyConfig
	Program cel.Program
}

// ClaimCountGetter returns the number of prior evaluations recorded for a
// flight number, used by claim-velocity policies to spot duplicate or bulk
// filings.
type ClaimCountGetter func(ctx context.Context, tenantID, flightNumber string) (int64, error)

// NewEngine creates a policy engine.
func NewEngine(claimCounts ClaimCountGetter, maxWorkers int) (*Engine, error) {
	if maxWorkers <= 0 {
		maxWorkers = 10
	}

	env, err := cel.NewEnv(
		cel.Variable("claim", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("eligible", cel.BoolType),
		cel.Variable("amount", cel.StringType),
		cel.Variable("confidence", cel.IntType),
		cel.Variable("regulation", cel.StringType),
		cel.Variable("disruption_type", cel.StringType),
		cel.Variable("airline", cel.StringType),
		cel.Variable("departure", cel.StringType),
		cel.Variable("arrival", cel.StringType),
		cel.Variable("distance_km", cel.DoubleType),
		cel.Variable("claim_count", cel.IntType),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	return &Engine{
		env:              env,
		compiledPolicies: make(map[string]*CompiledPolicy),
		claimCountGetter: claimCounts,
		maxWorkers:       maxWorkers,
	}, nil
}

// ValidatePolicy compiles and validates a policy without loading it.
func (e *Engine) ValidatePolicy(cfg *domain.PolicyConfig) error {
	if cfg == nil {
		return fmt.Errorf("policy config is required")
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	_, err := e.compilePolicy(cfg)
	return err
}

// LoadPolicy compiles and loads a policy into the engine.
func (e *Engine) LoadPolicy(cfg *domain.PolicyConfig) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	compiled, err := e.compilePolicy(cfg)
	if err != nil {
		return err
	}

	e.compiledPolicies[cfg.ID] = compiled

	return nil
}

// LoadPolicies compiles and loads multiple policies, skipping disabled ones.
func (e *Engine) LoadPolicies(configs []*domain.PolicyConfig) error {
	for _, cfg := range configs {
		if cfg.Enabled {
			if err := e.LoadPolicy(cfg); err != nil {
				return err
			}
		}
	}
	return nil
}

// EvaluateInput holds the evaluation context the policies see.
type EvaluateInput struct {
	TenantID string
	Record   *domain.DisruptionRecord
	Result   *domain.EligibilityResult

	DistanceKm float64
}

// EvaluateAll evaluates all loaded policies in parallel against a verdict.
func (e *Engine) EvaluateAll(ctx context.Context, input *EvaluateInput) ([]domain.PolicyResult, error) {
	e.mu.RLock()
	policies := make([]*CompiledPolicy, 0, len(e.compiledPolicies))
	for _, p := range e.compiledPolicies {
		policies = append(policies, p)
	}
	e.mu.RUnlock()

	if len(policies) == 0 {
		return nil, nil
	}

	var claimCount int64
	if e.claimCountGetter != nil && input.Record.FlightNumber != "" {
		count, err := e.claimCountGetter(ctx, input.TenantID, input.Record.FlightNumber)
		if err == nil {
			claimCount = count
		}
	}

	rec := input.Record
	result := input.Result
	activation := map[string]any{
		"claim": map[string]any{
			"flight_number":   rec.FlightNumber,
			"airline":         rec.Airline,
			"departure":       rec.DepartureAirport,
			"arrival":         rec.ArrivalAirport,
			"disruption_type": rec.Type(),
			"delay_reason":    rec.DelayReason,
			"ticket_price":    rec.TicketPrice,
		},
		"eligible":        result.Eligible,
		"amount":          result.Amount,
		"confidence":      result.Confidence,
		"regulation":      string(result.Regulation),
		"disruption_type": rec.Type(),
		"airline":         rec.Airline,
		"departure":       rec.DepartureAirport,
		"arrival":         rec.ArrivalAirport,
		"distance_km":     input.DistanceKm,
		"claim_count":     claimCount,
	}

	results := make([]domain.PolicyResult, len(policies))
	var wg sync.WaitGroup

	sem := make(chan struct{}, e.maxWorkers)

	for i, p := range policies {
		wg.Add(1)
		go func(idx int, cp *CompiledPolicy) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			results[idx] = evaluatePolicy(cp, activation, input.TenantID)
		}(i, p)
	}

	wg.Wait()

	return results, nil
}

// ReviewRequired reports whether any triggered policy requests manual review.
func ReviewRequired(results []domain.PolicyResult) bool {
	for _, r := range results {
		if r.Triggered && r.Action == domain.PolicyActionFlagReview {
			return true
		}
	}
	return false
}

func evaluatePolicy(p *CompiledPolicy, activation map[string]any, tenantID string) domain.PolicyResult {
	start := time.Now()

	result := domain.PolicyResult{
		PolicyID: p.Config.ID,
		TenantID: tenantID,
	}

	out, _, err := p.Program.Eval(activation)
	if err != nil {
		result.Reason = fmt.Sprintf("evaluation error: %v", err)
		result.ProcessMs = time.Since(start).Milliseconds()
		return result
	}

	if triggered(out) {
		result.Triggered = true
		result.Action = p.Config.Action
		result.Reason = p.Config.Description
	}
	result.ProcessMs = time.Since(start).Milliseconds()

	return result
}

// triggered converts a CEL value to the triggered flag.
func triggered(val ref.Val) bool {
	if b, ok := val.(types.Bool); ok {
		return bool(b)
	}
	return false
}

// PoliciesCount returns the number of loaded policies.
func (e *Engine) PoliciesCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.compiledPolicies)
}

// ReloadPolicies swaps the loaded set atomically. Enables hot-reloading from
// the database without a restart.
func (e *Engine) ReloadPolicies(configs []*domain.PolicyConfig) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	newPolicies := make(map[string]*CompiledPolicy)

	for _, cfg := range configs {
		if !cfg.Enabled {
			continue
		}

		compiled, err := e.compilePolicy(cfg)
		if err != nil {
			return err
		}
		newPolicies[cfg.ID] = compiled
	}

	e.compiledPolicies = newPolicies

	return nil
}

// GetLoadedPolicies returns the currently loaded policy configurations.
func (e *Engine) GetLoadedPolicies() []*domain.PolicyConfig {
	e.mu.RLock()
	defer e.mu.RUnlock()

	policies := make([]*domain.PolicyConfig, 0, len(e.compiledPolicies))
	for _, compiled := range e.compiledPolicies {
		policies = append(policies, compiled.Config)
	}
	return policies
}

// Close clears the loaded policy set.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.compiledPolicies = make(map[string]*CompiledPolicy)
	return nil
}

func (e *Engine) compilePolicy(cfg *domain.PolicyConfig) (*CompiledPolicy, error) {
	ast, issues := e.env.Compile(cfg.Expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("failed to compile policy %s: %w", cfg.ID, issues.Err())
	}

	if ast.OutputType() != cel.BoolType {
		return nil, fmt.Errorf("policy %s: expression must return bool, got %s", cfg.ID, ast.OutputType())
	}

	program, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to create program for policy %s: %w", cfg.ID, err)
	}

	return &CompiledPolicy{
		Config:  cfg,
		Program: program,
	}, nil
}
