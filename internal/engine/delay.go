package engine

import (
	"context"
	"fmt"

	"github.com/openclaims/kestrel/internal/circumstances"
	"github.com/openclaims/kestrel/internal/domain"
)

// evaluateDelay applies the delay scenario: a uniform 3-hour floor, then the
// regime-specific compensation table.
func (e *Engine) evaluateDelay(ctx context.Context, in *evalInput) domain.EligibilityResult {
	rec := in.rec
	hours := ParseHours(rec.DelayDuration)

	// The 3-hour floor applies before any jurisdiction-specific rule.
	if hours < 3 {
		return domain.EligibilityResult{
			Eligible:   false,
			Amount:     zeroAmount(in.regime),
			Confidence: 100,
			Message:    fmt.Sprintf("Delays under 3 hours do not qualify for compensation (reported delay: %.1f hours).", hours),
			Regulation: in.regime,
			Reason:     "insufficient delay duration",
		}
	}

	switch in.regime {
	case domain.RegimeUnknown:
		return unknownResult()

	case domain.RegimeUSDOT:
		// No federally mandated delay compensation; >= 4h is an assistance
		// signal, not a legal entitlement.
		if hours >= 4 {
			return domain.EligibilityResult{
				Eligible:   true,
				Amount:     "Varies by airline",
				Confidence: 60,
				Message:    "US DOT does not mandate delay compensation, but most carriers offer vouchers or rebooking for delays of 4 hours or more. Check the airline's contract of carriage.",
				Regulation: domain.RegimeUSDOT,
				Reason:     "no mandated delay compensation",
			}
		}
		return domain.EligibilityResult{
			Eligible:   false,
			Amount:     zeroAmount(domain.RegimeUSDOT),
			Confidence: 85,
			Message:    "US DOT does not mandate compensation for delays under 4 hours.",
			Regulation: domain.RegimeUSDOT,
			Reason:     "below US assistance threshold",
		}

	case domain.RegimeCanadian:
		// APPR compensates by delay-hour band and carrier size, gated on the
		// delay being within airline control. Keyword-only detector; polarity
		// is the inverse of the extraordinary-circumstances framing. The
		// detector runs either way, so provenance is recorded either way.
		in.out.ClassifierSource = circumstances.SourceKeyword
		if !circumstances.WithinAirlineControl(rec.DelayReason) {
			return domain.EligibilityResult{
				Eligible:   false,
				Amount:     zeroAmount(domain.RegimeCanadian),
				Confidence: 90,
				Message:    "Under the Canadian APPR, compensation is only due for delays within airline control. The reported reason indicates a situation outside the carrier's control.",
				Regulation: domain.RegimeCanadian,
				Reason:     "delay outside airline control",
			}
		}
		amount := canadianDelayAmount(hours, rec.CarrierSize)
		return domain.EligibilityResult{
			Eligible:   true,
			Amount:     formatAmount(domain.RegimeCanadian, amount),
			Confidence: 90,
			Message:    fmt.Sprintf("Under the Canadian APPR a %.1f-hour delay within airline control entitles you to %s.", hours, formatAmount(domain.RegimeCanadian, amount)),
			Regulation: domain.RegimeCanadian,
			Reason:     "appr delay band",
		}
	}

	// EU261, UK CAA, Swiss FOCA, Norwegian CAA: distance-tier table with the
	// extraordinary-circumstances exemption.
	if a := e.assess(ctx, in, rec.DelayReason); a.IsExtraordinary {
		return domain.EligibilityResult{
			Eligible:   false,
			Amount:     zeroAmount(in.regime),
			Confidence: 90,
			Message:    "The delay was caused by extraordinary circumstances (such as severe weather, security risks, or air traffic control restrictions), which exempts the airline from compensation.",
			Regulation: in.regime,
			Reason:     "extraordinary circumstances",
		}
	}

	amount := tierAmount(in.regime, in.tier)
	return domain.EligibilityResult{
		Eligible:   true,
		Amount:     formatAmount(in.regime, amount),
		Confidence: 90,
		Message:    fmt.Sprintf("A delay of %.1f hours on a %s-haul flight (%.0f km) entitles you to %s under %s.", hours, in.tier, in.km, formatAmount(in.regime, amount), in.regime),
		Regulation: in.regime,
		Reason:     "delay distance tier",
	}
}
