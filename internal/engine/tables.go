package engine

import (
	"fmt"
	"math"

	"github.com/openclaims/kestrel/internal/domain"
	"github.com/openclaims/kestrel/internal/geo"
)

// Statutory compensation tables. Distance tiers are shared across regimes;
// the amount per tier is regime-specific.

// EU261 Articles 4/5/7 base amounts in EUR by distance tier.
var euTierAmounts = map[string]float64{
	geo.TierShort:  250,
	geo.TierMedium: 400,
	geo.TierLong:   600,
}

// UK CAA amounts in GBP. Long-haul 520 GBP is a fixed statutory constant,
// not a currency conversion of the EU 600 EUR figure.
var ukTierAmounts = map[string]float64{
	geo.TierShort:  250,
	geo.TierMedium: 400,
	geo.TierLong:   520,
}

const (
	// Swiss FOCA mirrors the EU tiers converted to CHF.
	swissMultiplier = 1.08

	// Norwegian CAA mirrors the EU tiers converted to NOK.
	norwegianMultiplier = 11.5

	// Canadian APPR cancellation and denied boarding reuse the regional
	// distance-tier model converted to CAD.
	canadianMultiplier = 1.5
)

// Downgrade refund percentages by distance tier (EU261 Article 10 model).
var downgradePercents = map[string]float64{
	geo.TierShort:  0.30,
	geo.TierMedium: 0.50,
	geo.TierLong:   0.75,
}

// US DOT denied-boarding caps (14 CFR Part 250).
const (
	usDeniedBoardingCap200 = 775
	usDeniedBoardingCap400 = 1550
)

// tierAmount returns the regime's distance-tier base amount in its statutory
// currency. Returns 0 for regimes without a distance-tier table.
func tierAmount(regime domain.Regime, tier string) float64 {
	base := euTierAmounts[tier]
	switch regime {
	case domain.RegimeEU261:
		return base
	case domain.RegimeUKCAA:
		return ukTierAmounts[tier]
	case domain.RegimeSwiss:
		return math.Round(base * swissMultiplier)
	case domain.RegimeNorwegian:
		return math.Round(base * norwegianMultiplier)
	case domain.RegimeCanadian:
		return math.Round(base * canadianMultiplier)
	default:
		return 0
	}
}

// canadianDelayAmount returns the APPR delay compensation in CAD by
// delay-hour band and carrier size. Not distance-based.
func canadianDelayAmount(hours float64, carrierSize string) float64 {
	small := carrierSize == domain.CarrierSmall
	switch {
	case hours <= 6:
		if small {
			return 125
		}
		return 400
	case hours <= 9:
		if small {
			return 250
		}
		return 700
	default:
		if small {
			return 500
		}
		return 1000
	}
}

// deniedBoardingThreshold returns the EU/UK Article 4 arrival-delay threshold
// (hours) below which compensation is halved, by distance tier.
func deniedBoardingThreshold(tier string) float64 {
	switch tier {
	case geo.TierShort:
		return 2
	case geo.TierMedium:
		return 3
	default:
		return 4
	}
}

// formatAmount renders a compensation value as the regime's
// currency-symbol-prefixed string, the only externally visible amount
// representation.
func formatAmount(regime domain.Regime, value float64) string {
	return fmt.Sprintf("%s%d", regime.CurrencySymbol(), int(math.Round(value)))
}

// zeroAmount is the formatted zero for ineligible verdicts. Unknown-regime
// verdicts have no statutory currency.
func zeroAmount(regime domain.Regime) string {
	if regime == domain.RegimeUnknown {
		return "N/A"
	}
	return formatAmount(regime, 0)
}

// formatUSD renders informational dollar figures (voluntary denied-boarding
// offers) regardless of the detected regime.
func formatUSD(value float64) string {
	return fmt.Sprintf("$%d", int(math.Round(value)))
}
