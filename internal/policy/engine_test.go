package policy

import (
	"context"
	"testing"

	"github.com/openclaims/kestrel/internal/domain"
)

func TestEngineCreation(t *testing.T) {
	engine, err := NewEngine(nil, 5)
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}
	defer engine.Close()

	if engine.PoliciesCount() != 0 {
		t.Errorf("expected 0 policies, got %d", engine.PoliciesCount())
	}
}

func TestLoadPolicy(t *testing.T) {
	engine, _ := NewEngine(nil, 5)
	defer engine.Close()

	policy := &domain.PolicyConfig{
		ID:         "test-policy-001",
		Name:       "Low confidence",
		Expression: "confidence < 70",
		Action:     domain.PolicyActionFlagReview,
		Enabled:    true,
	}

	if err := engine.LoadPolicy(policy); err != nil {
		t.Fatalf("failed to load policy: %v", err)
	}

	if engine.PoliciesCount() != 1 {
		t.Errorf("expected 1 policy, got %d", engine.PoliciesCount())
	}
}

func TestLoadInvalidPolicy(t *testing.T) {
	engine, _ := NewEngine(nil, 5)
	defer engine.Close()

	policy := &domain.PolicyConfig{
		ID:         "invalid-policy",
		Expression: "this is not valid CEL !!!",
		Enabled:    true,
	}

	if err := engine.LoadPolicy(policy); err == nil {
		t.Error("expected error for invalid CEL expression")
	}
}

func TestNonBoolPolicyRejected(t *testing.T) {
	engine, _ := NewEngine(nil, 5)
	defer engine.Close()

	policy := &domain.PolicyConfig{
		ID:         "non-bool",
		Expression: "confidence + 1",
		Enabled:    true,
	}

	if err := engine.LoadPolicy(policy); err == nil {
		t.Error("expected error for non-bool expression")
	}
}

func evaluationInput(result *domain.EligibilityResult) *EvaluateInput {
	return &EvaluateInput{
		TenantID: "tenant-001",
		Record: &domain.DisruptionRecord{
			FlightNumber:     "LH123",
			Airline:          "Lufthansa",
			DepartureAirport: "FRA",
			ArrivalAirport:   "JFK",
		},
		Result:     result,
		DistanceKm: 6200,
	}
}

func TestEvaluateTriggeredPolicy(t *testing.T) {
	engine, _ := NewEngine(nil, 5)
	defer engine.Close()

	engine.LoadPolicy(&domain.PolicyConfig{
		ID:          "low-confidence",
		Description: "confidence below threshold",
		Expression:  "confidence < 70",
		Action:      domain.PolicyActionFlagReview,
		Enabled:     true,
	})

	results, err := engine.EvaluateAll(context.Background(), evaluationInput(&domain.EligibilityResult{
		Eligible:   true,
		Confidence: 60,
		Regulation: domain.RegimeEU261,
	}))
	if err != nil {
		t.Fatalf("evaluation failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if !results[0].Triggered {
		t.Error("policy should trigger on confidence 60")
	}
	if results[0].Action != domain.PolicyActionFlagReview {
		t.Errorf("action = %q, want flag_review", results[0].Action)
	}
	if !ReviewRequired(results) {
		t.Error("triggered flag_review policy should require review")
	}
}

func TestEvaluateUntriggeredPolicy(t *testing.T) {
	engine, _ := NewEngine(nil, 5)
	defer engine.Close()

	engine.LoadPolicy(&domain.PolicyConfig{
		ID:         "low-confidence",
		Expression: "confidence < 70",
		Action:     domain.PolicyActionFlagReview,
		Enabled:    true,
	})

	results, err := engine.EvaluateAll(context.Background(), evaluationInput(&domain.EligibilityResult{
		Eligible:   true,
		Confidence: 90,
		Regulation: domain.RegimeEU261,
	}))
	if err != nil {
		t.Fatalf("evaluation failed: %v", err)
	}
	if results[0].Triggered {
		t.Error("policy should not trigger on confidence 90")
	}
	if ReviewRequired(results) {
		t.Error("untriggered policies never require review")
	}
}

func TestClaimCountVariable(t *testing.T) {
	getter := func(ctx context.Context, tenantID, flightNumber string) (int64, error) {
		return 120, nil
	}
	engine, _ := NewEngine(getter, 5)
	defer engine.Close()

	engine.LoadPolicy(&domain.PolicyConfig{
		ID:         "repeat-claims",
		Expression: "claim_count > 50",
		Action:     domain.PolicyActionFlagReview,
		Enabled:    true,
	})

	results, err := engine.EvaluateAll(context.Background(), evaluationInput(&domain.EligibilityResult{
		Eligible:   true,
		Confidence: 90,
		Regulation: domain.RegimeEU261,
	}))
	if err != nil {
		t.Fatalf("evaluation failed: %v", err)
	}
	if !results[0].Triggered {
		t.Error("policy should trigger with 120 claims on the flight")
	}
}

func TestGoodwillPolicyDoesNotRequireReview(t *testing.T) {
	engine, _ := NewEngine(nil, 5)
	defer engine.Close()

	engine.LoadPolicy(&domain.PolicyConfig{
		ID:         "goodwill",
		Expression: "!eligible && distance_km > 3500.0",
		Action:     domain.PolicyActionGoodwill,
		Enabled:    true,
	})

	results, _ := engine.EvaluateAll(context.Background(), evaluationInput(&domain.EligibilityResult{
		Eligible:   false,
		Confidence: 90,
		Regulation: domain.RegimeEU261,
	}))
	if !results[0].Triggered {
		t.Error("goodwill policy should trigger")
	}
	if ReviewRequired(results) {
		t.Error("goodwill action does not require review")
	}
}

func TestReloadPolicies(t *testing.T) {
	engine, _ := NewEngine(nil, 5)
	defer engine.Close()

	if err := engine.LoadPolicies(BuiltinPolicies()); err != nil {
		t.Fatalf("builtin policies must compile: %v", err)
	}
	if engine.PoliciesCount() != len(BuiltinPolicies()) {
		t.Errorf("expected %d policies, got %d", len(BuiltinPolicies()), engine.PoliciesCount())
	}

	err := engine.ReloadPolicies([]*domain.PolicyConfig{
		{ID: "only", Expression: "eligible", Action: domain.PolicyActionFlagReview, Enabled: true},
		{ID: "disabled", Expression: "eligible", Action: domain.PolicyActionFlagReview, Enabled: false},
	})
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if engine.PoliciesCount() != 1 {
		t.Errorf("expected 1 policy after reload, got %d", engine.PoliciesCount())
	}
}

func TestValidatePolicyDoesNotLoad(t *testing.T) {
	engine, _ := NewEngine(nil, 5)
	defer engine.Close()

	err := engine.ValidatePolicy(&domain.PolicyConfig{
		ID:         "candidate",
		Expression: "regulation == 'EU261'",
	})
	if err != nil {
		t.Fatalf("validation failed: %v", err)
	}
	if engine.PoliciesCount() != 0 {
		t.Error("validation must not load the policy")
	}
}
