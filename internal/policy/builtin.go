package policy

import "github.com/openclaims/kestrel/internal/domain"

// BuiltinPolicies returns the default policy set loaded when a tenant has no
// policies configured. Operators replace these via the policies API.
func BuiltinPolicies() []*domain.PolicyConfig {
	return []*domain.PolicyConfig{
		{
			ID:          "builtin-low-confidence",
			TenantID:    domain.GlobalTenantID,
			Name:        "Low confidence review",
			Description: "verdict confidence below auto-filing threshold",
			Version:     "1.0",
			Expression:  `confidence < 70`,
			Action:      domain.PolicyActionFlagReview,
			Enabled:     true,
		},
		{
			ID:          "builtin-repeat-claims",
			TenantID:    domain.GlobalTenantID,
			Name:        "Repeat claims on one flight",
			Description: "many claims filed against the same flight number",
			Version:     "1.0",
			Expression:  `claim_count > 50`,
			Action:      domain.PolicyActionFlagReview,
			Enabled:     true,
		},
		{
			ID:          "builtin-long-haul-goodwill",
			TenantID:    domain.GlobalTenantID,
			Name:        "Long-haul goodwill",
			Description: "ineligible long-haul disruption, candidate for goodwill voucher",
			Version:     "1.0",
			Expression:  `!eligible && distance_km > 3500.0`,
			Action:      domain.PolicyActionGoodwill,
			Enabled:     true,
		},
	}
}
