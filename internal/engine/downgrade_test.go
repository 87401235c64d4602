package engine

import (
	"context"
	"testing"

	"github.com/openclaims/kestrel/internal/domain"
)

func TestDowngradeRefund(t *testing.T) {
	e := newTestEngine()

	result := e.CheckEligibility(context.Background(), &domain.DisruptionRecord{
		Airline:          "Lufthansa",
		DepartureAirport: "FRA",
		ArrivalAirport:   "IST",
		DisruptionType:   domain.DisruptionDowngrading,
		BookedClass:      domain.ClassBusiness,
		ActualClass:      domain.ClassEconomy,
		TicketPrice:      1000,
	})

	if !result.Eligible {
		t.Fatalf("expected eligible, got %+v", result)
	}
	if result.Amount != "€500" {
		t.Errorf("medium-haul downgrade refunds 50%%: amount = %q, want €500", result.Amount)
	}
	if result.Confidence != 95 {
		t.Errorf("confidence = %d, want 95", result.Confidence)
	}
}

func TestDowngradeTierPercentages(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()

	tests := []struct {
		name       string
		from, to   string
		wantAmount string
	}{
		{"short haul 30%", "FRA", "CDG", "€300"},
		{"medium haul 50%", "FRA", "IST", "€500"},
		{"long haul 75%", "FRA", "JFK", "€750"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := e.CheckEligibility(ctx, &domain.DisruptionRecord{
				Airline:          "Lufthansa",
				DepartureAirport: tc.from,
				ArrivalAirport:   tc.to,
				DisruptionType:   domain.DisruptionDowngrading,
				BookedClass:      domain.ClassFirst,
				ActualClass:      domain.ClassPremiumEconomy,
				TicketPrice:      1000,
			})
			if result.Amount != tc.wantAmount {
				t.Errorf("amount = %q, want %q", result.Amount, tc.wantAmount)
			}
		})
	}
}

func TestDowngradeNotDetected(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()

	tests := []struct {
		name           string
		booked, actual string
	}{
		{"same class", domain.ClassEconomy, domain.ClassEconomy},
		{"upgrade", domain.ClassEconomy, domain.ClassBusiness},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := e.CheckEligibility(ctx, &domain.DisruptionRecord{
				Airline:          "Lufthansa",
				DepartureAirport: "FRA",
				ArrivalAirport:   "CDG",
				DisruptionType:   domain.DisruptionDowngrading,
				BookedClass:      tc.booked,
				ActualClass:      tc.actual,
				TicketPrice:      500,
			})
			if result.Eligible {
				t.Errorf("no downgrade occurred: %+v", result)
			}
			if result.Confidence != 100 {
				t.Errorf("confidence = %d, want 100", result.Confidence)
			}
		})
	}
}

func TestDowngradeMissingClassData(t *testing.T) {
	e := newTestEngine()

	result := e.CheckEligibility(context.Background(), &domain.DisruptionRecord{
		Airline:          "Lufthansa",
		DepartureAirport: "FRA",
		ArrivalAirport:   "CDG",
		DisruptionType:   domain.DisruptionDowngrading,
		BookedClass:      "suite",
		ActualClass:      domain.ClassEconomy,
	})

	if result.Eligible {
		t.Errorf("unrecognized class cannot establish a downgrade: %+v", result)
	}
	if result.Confidence != 60 {
		t.Errorf("confidence = %d, want 60", result.Confidence)
	}
}

func TestDowngradeMissingTicketPrice(t *testing.T) {
	e := newTestEngine()

	result := e.CheckEligibility(context.Background(), &domain.DisruptionRecord{
		Airline:          "Lufthansa",
		DepartureAirport: "FRA",
		ArrivalAirport:   "CDG",
		DisruptionType:   domain.DisruptionDowngrading,
		BookedClass:      domain.ClassBusiness,
		ActualClass:      domain.ClassEconomy,
	})

	if !result.Eligible {
		t.Fatalf("entitlement exists even without the price: %+v", result)
	}
	if result.Amount != "To be calculated" {
		t.Errorf("amount = %q, want To be calculated", result.Amount)
	}
}

func TestDowngradeIgnoresExtraordinaryCircumstances(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()

	// Unlike delays and cancellations, a downgrade is never excused by
	// extraordinary circumstances.
	rec := &domain.DisruptionRecord{
		Airline:          "Lufthansa",
		DepartureAirport: "FRA",
		ArrivalAirport:   "IST",
		DisruptionType:   domain.DisruptionDowngrading,
		BookedClass:      domain.ClassBusiness,
		ActualClass:      domain.ClassEconomy,
		TicketPrice:      1000,
	}
	base := *e.CheckEligibility(ctx, rec)

	rec.DelayReason = "aircraft swap after a hurricane"
	withReason := *e.CheckEligibility(ctx, rec)

	if withReason != base {
		t.Errorf("extraordinary reason changed the downgrade verdict: %+v vs %+v", withReason, base)
	}
	if !withReason.Eligible {
		t.Errorf("downgrade should stay eligible: %+v", withReason)
	}
}

func TestDowngradeUSFareDifference(t *testing.T) {
	e := newTestEngine()

	result := e.CheckEligibility(context.Background(), &domain.DisruptionRecord{
		Airline:          "Delta",
		DepartureAirport: "JFK",
		ArrivalAirport:   "LAX",
		DisruptionType:   domain.DisruptionDowngrading,
		BookedClass:      domain.ClassFirst,
		ActualClass:      domain.ClassEconomy,
		TicketPrice:      2000,
	})

	if !result.Eligible {
		t.Fatalf("expected eligible, got %+v", result)
	}
	if result.Amount != "Varies by airline" {
		t.Errorf("amount = %q, want Varies by airline", result.Amount)
	}
}

func TestDowngradeRefundCappedAtTicketPrice(t *testing.T) {
	if got := downgradePercents["long"]; got > 1 {
		t.Fatalf("refund percentage above 100%%: %v", got)
	}
}
