package engine

import (
	"context"
	"fmt"
	"math"

	"github.com/openclaims/kestrel/internal/domain"
)

// classIndex orders cabin classes for downgrade detection. Unrecognized
// classes return -1.
func classIndex(class string) int {
	switch class {
	case domain.ClassEconomy:
		return 0
	case domain.ClassPremiumEconomy:
		return 1
	case domain.ClassBusiness:
		return 2
	case domain.ClassFirst:
		return 3
	default:
		return -1
	}
}

// evaluateDowngrade applies the downgrade scenario: a percentage refund of
// the ticket price by distance tier (EU261 Article 10 model). Extraordinary
// circumstances never exempt a downgrade; the airline chose the equipment
// or the seating.
func (e *Engine) evaluateDowngrade(ctx context.Context, in *evalInput) domain.EligibilityResult {
	rec := in.rec

	booked := classIndex(rec.BookedClass)
	actual := classIndex(rec.ActualClass)
	if booked < 0 || actual < 0 {
		return domain.EligibilityResult{
			Eligible:   false,
			Amount:     zeroAmount(in.regime),
			Confidence: 60,
			Message:    "Downgrade claims need both the booked and the actually flown cabin class. Provide both to compute the refund.",
			Regulation: in.regime,
			Reason:     "missing cabin class data",
		}
	}
	if actual >= booked {
		return domain.EligibilityResult{
			Eligible:   false,
			Amount:     zeroAmount(in.regime),
			Confidence: 100,
			Message:    fmt.Sprintf("You flew in %s having booked %s, which is not a downgrade.", rec.ActualClass, rec.BookedClass),
			Regulation: in.regime,
			Reason:     "no downgrade detected",
		}
	}

	switch in.regime {
	case domain.RegimeUnknown:
		return unknownResult()
	case domain.RegimeUSDOT:
		return domain.EligibilityResult{
			Eligible:   true,
			Amount:     "Varies by airline",
			Confidence: 65,
			Message:    "US DOT requires a fare-difference refund for a downgrade but does not set a fixed percentage. Claim the difference from the airline.",
			Regulation: domain.RegimeUSDOT,
			Reason:     "fare difference refund",
		}
	}

	pct := downgradePercents[in.tier]

	if rec.TicketPrice <= 0 {
		return domain.EligibilityResult{
			Eligible:   true,
			Amount:     "To be calculated",
			Confidence: 70,
			Message:    fmt.Sprintf("A downgrade on a %s-haul flight entitles you to a %.0f%% refund of your ticket price. Provide the ticket price to compute the amount.", in.tier, pct*100),
			Regulation: in.regime,
			Reason:     "awaiting ticket price",
		}
	}

	refund := math.Min(rec.TicketPrice*pct, rec.TicketPrice)
	return domain.EligibilityResult{
		Eligible:   true,
		Amount:     formatAmount(in.regime, refund),
		Confidence: 95,
		Message:    fmt.Sprintf("A downgrade from %s to %s on a %s-haul flight entitles you to a %.0f%% refund: %s.", rec.BookedClass, rec.ActualClass, in.tier, pct*100, formatAmount(in.regime, refund)),
		Regulation: in.regime,
		Reason:     "downgrade percentage refund",
	}
}
