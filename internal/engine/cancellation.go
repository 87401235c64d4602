package engine

import (
	"context"
	"fmt"
	"math"

	"github.com/openclaims/kestrel/internal/domain"
)

// evaluateCancellation applies the cancellation scenario: the notice-period
// gate first, then the extraordinary-circumstances exemption, then the
// re-routing reduction matrix on top of the distance-tier base amount.
func (e *Engine) evaluateCancellation(ctx context.Context, in *evalInput) domain.EligibilityResult {
	rec := in.rec

	switch in.regime {
	case domain.RegimeUnknown:
		return unknownResult()
	case domain.RegimeUSDOT:
		return domain.EligibilityResult{
			Eligible:   true,
			Amount:     "Varies by airline",
			Confidence: 60,
			Message:    "US DOT requires a refund for a cancelled flight you choose not to take, but does not mandate fixed cancellation compensation. Check the airline's contract of carriage.",
			Regulation: domain.RegimeUSDOT,
			Reason:     "refund entitlement only",
		}
	}

	notice := rec.NoticeGiven
	if notice == "" {
		// Missing notice data is treated as timely notice: the claimant
		// carries the burden of showing short notice.
		notice = domain.NoticeOver14Days
	}

	if notice == domain.NoticeOver14Days {
		return domain.EligibilityResult{
			Eligible:   false,
			Amount:     zeroAmount(in.regime),
			Confidence: 95,
			Message:    "The airline informed you more than 14 days before departure, which exempts it from cancellation compensation.",
			Regulation: in.regime,
			Reason:     "adequate notice",
		}
	}

	if a := e.assess(ctx, in, rec.DelayReason); a.IsExtraordinary {
		return domain.EligibilityResult{
			Eligible:   false,
			Amount:     zeroAmount(in.regime),
			Confidence: 90,
			Message:    "The cancellation was caused by extraordinary circumstances (such as severe weather, security risks, or air traffic control restrictions), which exempts the airline from compensation.",
			Regulation: in.regime,
			Reason:     "extraordinary circumstances",
		}
	}

	base := tierAmount(in.regime, in.tier)

	// The re-routing reduction matrix is an EU261/UK CAA construct; the
	// mirroring regimes apply the full tier amount.
	factor := 1.0
	if in.regime == domain.RegimeEU261 || in.regime == domain.RegimeUKCAA {
		factor = alternativeFactor(notice, coalesceAlternative(rec))
	}

	if factor == 0 {
		return domain.EligibilityResult{
			Eligible:   false,
			Amount:     zeroAmount(in.regime),
			Confidence: 90,
			Message:    "The alternative flight offered kept your schedule change within the statutory limits for the notice period, which exempts the airline from compensation.",
			Regulation: in.regime,
			Reason:     "alternative within limits",
		}
	}

	amount := math.Round(base * factor)
	reason := "cancellation distance tier"
	if factor < 1 {
		reason = "alternative reduces compensation"
	}
	return domain.EligibilityResult{
		Eligible:   true,
		Amount:     formatAmount(in.regime, amount),
		Confidence: 90,
		Message:    fmt.Sprintf("A cancellation with %s notice on a %s-haul flight (%.0f km) entitles you to %s under %s.", notice, in.tier, in.km, formatAmount(in.regime, amount), in.regime),
		Regulation: in.regime,
		Reason:     reason,
	}
}

// alternativeFactor maps the notice period and re-routing offer to a
// compensation multiplier: 0 (fully exempt), 0.5 (halved), or 1 (full).
// Structured schedule differences use separate departure/arrival limits;
// the legacy single timing value is compared against the arrival limit.
func alternativeFactor(notice string, alt alternative) float64 {
	if !alt.offered {
		return 1
	}

	if alt.structured {
		switch notice {
		case domain.Notice7To14Days:
			if alt.depDiff <= 2 && alt.arrDiff <= 4 {
				return 0
			}
		case domain.NoticeUnder7Days:
			if alt.depDiff <= 1 && alt.arrDiff <= 2 {
				return 0
			}
			if alt.depDiff <= 2 && alt.arrDiff <= 3 {
				return 0.5
			}
		}
		return 1
	}

	switch notice {
	case domain.Notice7To14Days:
		if alt.legacyHours <= 4 {
			return 0
		}
	case domain.NoticeUnder7Days:
		if alt.legacyHours <= 2 {
			return 0
		}
		if alt.legacyHours <= 3 {
			return 0.5
		}
	}
	return 1
}
