package engine

import (
	"context"
	"fmt"
	"math"

	"github.com/openclaims/kestrel/internal/domain"
	"github.com/openclaims/kestrel/internal/geo"
)

// evaluateDeniedBoarding applies the denied-boarding scenario. Volunteers
// are bound by their negotiated deal in every regime; involuntary denial
// uses the US percentage-of-ticket model under DOT Part 250 and the
// distance-tier model elsewhere.
func (e *Engine) evaluateDeniedBoarding(ctx context.Context, in *evalInput) domain.EligibilityResult {
	rec := in.rec

	if rec.DeniedBoardingType == domain.DeniedBoardingVoluntary {
		amount := "$0"
		if rec.CompensationOffered > 0 {
			amount = formatUSD(rec.CompensationOffered)
		}
		return domain.EligibilityResult{
			Eligible:   false,
			Amount:     amount,
			Confidence: 95,
			Message:    "You volunteered to give up your seat, so the compensation you negotiated with the airline applies instead of statutory compensation.",
			Regulation: in.regime,
			Reason:     "voluntary denied boarding",
		}
	}

	switch in.regime {
	case domain.RegimeUnknown:
		return unknownResult()

	case domain.RegimeUSDOT:
		return e.usDeniedBoarding(in)
	}

	// EU261, UK CAA, and the mirroring regimes: Article 4 distance-tier
	// amounts, halved when the re-routing arrives within the tier threshold.
	base := tierAmount(in.regime, in.tier)
	halved := false
	if rec.AlternativeArrivalDelay != "" {
		if ParseHours(rec.AlternativeArrivalDelay) < deniedBoardingThreshold(in.tier) {
			base *= 0.5
			halved = true
		}
	}

	amount := math.Round(base)
	reason := "involuntary denied boarding"
	if halved {
		reason = "re-routing halves compensation"
	}
	return domain.EligibilityResult{
		Eligible:   true,
		Amount:     formatAmount(in.regime, amount),
		Confidence: 90,
		Message:    fmt.Sprintf("Involuntary denied boarding on a %s-haul flight (%.0f km) entitles you to %s under %s.", in.tier, in.km, formatAmount(in.regime, amount), in.regime),
		Regulation: in.regime,
		Reason:     reason,
	}
}

// usDeniedBoarding applies 14 CFR Part 250: compensation is a multiple of
// the one-way fare, capped, and scaled by how late the substitute transport
// arrives relative to the domestic/international thresholds.
func (e *Engine) usDeniedBoarding(in *evalInput) domain.EligibilityResult {
	rec := in.rec

	if rec.TicketPrice <= 0 {
		return domain.EligibilityResult{
			Eligible:   false,
			Amount:     "$0",
			Confidence: 50,
			Message:    "US denied-boarding compensation is a percentage of your one-way fare. Provide the ticket price to compute the amount.",
			Regulation: domain.RegimeUSDOT,
			Reason:     "missing ticket price",
		}
	}

	delay := ParseHours(rec.AlternativeArrivalDelay)
	if delay < 1 {
		return domain.EligibilityResult{
			Eligible:   false,
			Amount:     "$0",
			Confidence: 95,
			Message:    "No compensation is due when the substitute transportation arrives within 1 hour of your original arrival time.",
			Regulation: domain.RegimeUSDOT,
			Reason:     "substitute within one hour",
		}
	}

	domestic := geo.Domestic(rec.DepartureAirport, rec.ArrivalAirport, "US")

	var amount float64
	if (domestic && delay < 2) || (!domestic && delay < 4) {
		amount = math.Min(2*rec.TicketPrice, usDeniedBoardingCap200)
	} else {
		amount = math.Min(4*rec.TicketPrice, usDeniedBoardingCap400)
	}

	return domain.EligibilityResult{
		Eligible:   true,
		Amount:     formatUSD(amount),
		Confidence: 90,
		Message:    fmt.Sprintf("Involuntary denied boarding with a %.1f-hour arrival delay entitles you to %s under US DOT Part 250.", delay, formatUSD(amount)),
		Regulation: domain.RegimeUSDOT,
		Reason:     "part 250 fare multiple",
	}
}
