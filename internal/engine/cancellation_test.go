package engine

import (
	"context"
	"strings"
	"testing"

	"github.com/openclaims/kestrel/internal/domain"
)

func euCancellation(notice string) *domain.DisruptionRecord {
	return &domain.DisruptionRecord{
		FlightNumber:     "LH123",
		Airline:          "Lufthansa",
		DepartureAirport: "FRA",
		ArrivalAirport:   "CDG",
		DisruptionType:   domain.DisruptionCancellation,
		NoticeGiven:      notice,
	}
}

func TestCancellationAdequateNotice(t *testing.T) {
	e := newTestEngine()

	result := e.CheckEligibility(context.Background(), euCancellation(domain.NoticeOver14Days))

	if result.Eligible {
		t.Error("cancellation with >14 days notice should not be eligible")
	}
	if result.Amount != "€0" {
		t.Errorf("amount = %q, want €0", result.Amount)
	}
	if result.Confidence != 95 {
		t.Errorf("confidence = %d, want 95", result.Confidence)
	}
	if !strings.Contains(result.Message, "more than 14 days") {
		t.Errorf("message should mention the notice period: %q", result.Message)
	}
}

func TestCancellationShortNotice(t *testing.T) {
	e := newTestEngine()

	result := e.CheckEligibility(context.Background(), euCancellation(domain.NoticeUnder7Days))

	if !result.Eligible {
		t.Fatalf("short-notice cancellation should be eligible: %+v", result)
	}
	if result.Amount != "€250" {
		t.Errorf("amount = %q, want €250", result.Amount)
	}
}

func TestCancellationMissingNoticeTreatedAsTimely(t *testing.T) {
	e := newTestEngine()

	result := e.CheckEligibility(context.Background(), euCancellation(""))

	if result.Eligible {
		t.Errorf("missing notice should be treated as timely notice: %+v", result)
	}
}

func TestCancellationNoticeMonotonicity(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()

	// Holding everything else fixed, more notice never increases compensation.
	under7 := e.CheckEligibility(ctx, euCancellation(domain.NoticeUnder7Days))
	mid := e.CheckEligibility(ctx, euCancellation(domain.Notice7To14Days))
	over14 := e.CheckEligibility(ctx, euCancellation(domain.NoticeOver14Days))

	if !under7.Eligible || !mid.Eligible {
		t.Fatalf("short-notice verdicts should be eligible: %+v / %+v", under7, mid)
	}
	if over14.Eligible {
		t.Fatalf(">14 days verdict should be ineligible: %+v", over14)
	}
	if under7.Amount != mid.Amount {
		t.Errorf("without an alternative, both short-notice bands pay the full amount: %q vs %q", under7.Amount, mid.Amount)
	}
}

func TestCancellationAlternativeHalvesCompensation(t *testing.T) {
	e := newTestEngine()

	rec := euCancellation(domain.NoticeUnder7Days)
	rec.AlternativeFlight = &domain.AlternativeFlight{
		Offered:                 true,
		DepartureTimeDifference: 1.5,
		ArrivalTimeDifference:   2.5,
	}

	result := e.CheckEligibility(context.Background(), rec)

	if !result.Eligible {
		t.Fatalf("expected eligible with halved amount: %+v", result)
	}
	if result.Amount != "€125" {
		t.Errorf("amount = %q, want €125", result.Amount)
	}
}

func TestCancellationAlternativeWithinLimits(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()

	tests := []struct {
		name   string
		notice string
		alt    domain.AlternativeFlight
	}{
		{"under 7 days tight re-routing", domain.NoticeUnder7Days,
			domain.AlternativeFlight{Offered: true, DepartureTimeDifference: 1, ArrivalTimeDifference: 2}},
		{"7-14 days within limits", domain.Notice7To14Days,
			domain.AlternativeFlight{Offered: true, DepartureTimeDifference: 2, ArrivalTimeDifference: 4}},
		{"negative differences compared by magnitude", domain.NoticeUnder7Days,
			domain.AlternativeFlight{Offered: true, DepartureTimeDifference: -1, ArrivalTimeDifference: -2}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := euCancellation(tc.notice)
			alt := tc.alt
			rec.AlternativeFlight = &alt

			result := e.CheckEligibility(ctx, rec)
			if result.Eligible {
				t.Errorf("re-routing within limits should exempt the airline: %+v", result)
			}
			if result.Amount != "€0" {
				t.Errorf("amount = %q, want €0", result.Amount)
			}
		})
	}
}

func TestCancellationStructuredFieldsWinOverLegacy(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()

	rec := euCancellation(domain.NoticeUnder7Days)
	rec.AlternativeFlight = &domain.AlternativeFlight{
		Offered:                 true,
		DepartureTimeDifference: 1.5,
		ArrivalTimeDifference:   2.5,
	}
	base := *e.CheckEligibility(ctx, rec)

	// Varying the legacy fields must not change the verdict while the
	// structured offer is present.
	rec.AlternativeOffered = true
	rec.AlternativeTiming = "8 hours later"
	withLegacy := *e.CheckEligibility(ctx, rec)

	if withLegacy != base {
		t.Errorf("legacy fields changed the verdict despite structured offer: %+v vs %+v", withLegacy, base)
	}
}

func TestCancellationLegacyTiming(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()

	tests := []struct {
		name         string
		notice       string
		timing       string
		wantEligible bool
		wantAmount   string
	}{
		{"under 7 days within 2 hours", domain.NoticeUnder7Days, "2 hours", false, "€0"},
		{"under 7 days within 3 hours", domain.NoticeUnder7Days, "3 hours", true, "€125"},
		{"under 7 days beyond limits", domain.NoticeUnder7Days, "5 hours", true, "€250"},
		{"7-14 days within 4 hours", domain.Notice7To14Days, "4 hours", false, "€0"},
		{"7-14 days beyond limits", domain.Notice7To14Days, "6 hours", true, "€250"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := euCancellation(tc.notice)
			rec.AlternativeOffered = true
			rec.AlternativeTiming = tc.timing

			result := e.CheckEligibility(ctx, rec)
			if result.Eligible != tc.wantEligible {
				t.Errorf("eligible = %v, want %v (%+v)", result.Eligible, tc.wantEligible, result)
			}
			if result.Amount != tc.wantAmount {
				t.Errorf("amount = %q, want %q", result.Amount, tc.wantAmount)
			}
		})
	}
}

func TestCancellationExtraordinaryCircumstances(t *testing.T) {
	e := newTestEngine()

	rec := euCancellation(domain.NoticeUnder7Days)
	rec.DelayReason = "airport closed by hurricane"

	result := e.CheckEligibility(context.Background(), rec)
	if result.Eligible {
		t.Errorf("extraordinary circumstances should exempt the cancellation: %+v", result)
	}
}

func TestCancellationMirrorRegimesPayFullTier(t *testing.T) {
	e := newTestEngine()

	// The re-routing reduction matrix only applies under EU261 and UK CAA.
	result := e.CheckEligibility(context.Background(), &domain.DisruptionRecord{
		Airline:          "Swiss",
		DepartureAirport: "ZRH",
		ArrivalAirport:   "GVA",
		DisruptionType:   domain.DisruptionCancellation,
		NoticeGiven:      domain.NoticeUnder7Days,
		AlternativeFlight: &domain.AlternativeFlight{
			Offered:                 true,
			DepartureTimeDifference: 1,
			ArrivalTimeDifference:   2,
		},
	})

	if !result.Eligible {
		t.Fatalf("expected eligible: %+v", result)
	}
	if result.Amount != "CHF 270" {
		t.Errorf("amount = %q, want CHF 270", result.Amount)
	}
}

func TestAlternativeFactorTable(t *testing.T) {
	tests := []struct {
		name   string
		notice string
		alt    alternative
		want   float64
	}{
		{"no offer", domain.NoticeUnder7Days, alternative{}, 1},
		{"structured exempt under 7", domain.NoticeUnder7Days, alternative{structured: true, offered: true, depDiff: 1, arrDiff: 2}, 0},
		{"structured halved under 7", domain.NoticeUnder7Days, alternative{structured: true, offered: true, depDiff: 2, arrDiff: 3}, 0.5},
		{"structured full under 7", domain.NoticeUnder7Days, alternative{structured: true, offered: true, depDiff: 3, arrDiff: 5}, 1},
		{"structured exempt 7-14", domain.Notice7To14Days, alternative{structured: true, offered: true, depDiff: 2, arrDiff: 4}, 0},
		{"structured full 7-14", domain.Notice7To14Days, alternative{structured: true, offered: true, depDiff: 3, arrDiff: 5}, 1},
		{"legacy exempt under 7", domain.NoticeUnder7Days, alternative{offered: true, legacyHours: 2}, 0},
		{"legacy halved under 7", domain.NoticeUnder7Days, alternative{offered: true, legacyHours: 3}, 0.5},
		{"legacy full under 7", domain.NoticeUnder7Days, alternative{offered: true, legacyHours: 6}, 1},
		{"legacy exempt 7-14", domain.Notice7To14Days, alternative{offered: true, legacyHours: 4}, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := alternativeFactor(tc.notice, tc.alt); got != tc.want {
				t.Errorf("alternativeFactor(%q, %+v) = %v, want %v", tc.notice, tc.alt, got, tc.want)
			}
		})
	}
}
