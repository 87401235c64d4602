package engine

import (
	"context"
	"testing"

	"github.com/openclaims/kestrel/internal/domain"
)

func TestVoluntaryDeniedBoarding(t *testing.T) {
	e := newTestEngine()

	result := e.CheckEligibility(context.Background(), &domain.DisruptionRecord{
		Airline:             "Delta",
		DepartureAirport:    "JFK",
		ArrivalAirport:      "LAX",
		DisruptionType:      domain.DisruptionDeniedBoarding,
		DeniedBoardingType:  domain.DeniedBoardingVoluntary,
		CompensationOffered: 400,
	})

	if result.Eligible {
		t.Error("volunteers are bound by their negotiated deal")
	}
	if result.Amount != "$400" {
		t.Errorf("amount = %q, want $400", result.Amount)
	}
	if result.Confidence != 95 {
		t.Errorf("confidence = %d, want 95", result.Confidence)
	}
}

func TestVoluntaryDeniedBoardingNoOffer(t *testing.T) {
	e := newTestEngine()

	result := e.CheckEligibility(context.Background(), &domain.DisruptionRecord{
		Airline:            "Lufthansa",
		DepartureAirport:   "FRA",
		ArrivalAirport:     "CDG",
		DisruptionType:     domain.DisruptionDeniedBoarding,
		DeniedBoardingType: domain.DeniedBoardingVoluntary,
	})

	if result.Eligible || result.Amount != "$0" {
		t.Errorf("got %+v, want ineligible $0", result)
	}
}

func TestUSDeniedBoardingFareMultiple(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()

	tests := []struct {
		name       string
		from, to   string
		delay      string
		price      float64
		wantAmount string
	}{
		{"domestic short delay 200%", "JFK", "LAX", "1.5 hours", 300, "$600"},
		{"domestic long delay 400%", "JFK", "LAX", "3 hours", 300, "$1200"},
		{"domestic 200% capped", "JFK", "LAX", "1.5 hours", 500, "$775"},
		{"domestic 400% capped", "JFK", "LAX", "3 hours", 500, "$1550"},
		{"international short delay 200%", "JFK", "NRT", "3 hours", 300, "$600"},
		{"international long delay 400%", "JFK", "NRT", "5 hours", 300, "$1200"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := e.CheckEligibility(ctx, &domain.DisruptionRecord{
				Airline:                 "Delta",
				DepartureAirport:        tc.from,
				ArrivalAirport:          tc.to,
				DisruptionType:          domain.DisruptionDeniedBoarding,
				DeniedBoardingType:      domain.DeniedBoardingInvoluntary,
				AlternativeArrivalDelay: tc.delay,
				TicketPrice:             tc.price,
			})
			if !result.Eligible {
				t.Fatalf("expected eligible, got %+v", result)
			}
			if result.Amount != tc.wantAmount {
				t.Errorf("amount = %q, want %q", result.Amount, tc.wantAmount)
			}
			if result.Regulation != domain.RegimeUSDOT {
				t.Errorf("regulation = %q, want US DOT", result.Regulation)
			}
		})
	}
}

func TestUSDeniedBoardingSubstituteWithinOneHour(t *testing.T) {
	e := newTestEngine()

	result := e.CheckEligibility(context.Background(), &domain.DisruptionRecord{
		Airline:                 "Delta",
		DepartureAirport:        "JFK",
		ArrivalAirport:          "LAX",
		DisruptionType:          domain.DisruptionDeniedBoarding,
		DeniedBoardingType:      domain.DeniedBoardingInvoluntary,
		AlternativeArrivalDelay: "45 minutes",
		TicketPrice:             300,
	})

	if result.Eligible {
		t.Errorf("substitute within 1 hour should owe nothing: %+v", result)
	}
}

func TestUSDeniedBoardingMissingTicketPrice(t *testing.T) {
	e := newTestEngine()

	result := e.CheckEligibility(context.Background(), &domain.DisruptionRecord{
		Airline:                 "Delta",
		DepartureAirport:        "JFK",
		ArrivalAirport:          "LAX",
		DisruptionType:          domain.DisruptionDeniedBoarding,
		DeniedBoardingType:      domain.DeniedBoardingInvoluntary,
		AlternativeArrivalDelay: "3 hours",
	})

	if result.Eligible {
		t.Error("missing ticket price cannot produce a fare-multiple amount")
	}
	if result.Confidence != 50 {
		t.Errorf("confidence = %d, want 50", result.Confidence)
	}
}

func TestEUDeniedBoardingFullAmount(t *testing.T) {
	e := newTestEngine()

	result := e.CheckEligibility(context.Background(), &domain.DisruptionRecord{
		Airline:            "Lufthansa",
		DepartureAirport:   "FRA",
		ArrivalAirport:     "JFK",
		DisruptionType:     domain.DisruptionDeniedBoarding,
		DeniedBoardingType: domain.DeniedBoardingInvoluntary,
	})

	if !result.Eligible {
		t.Fatalf("expected eligible, got %+v", result)
	}
	if result.Amount != "€600" {
		t.Errorf("amount = %q, want €600", result.Amount)
	}
}

func TestEUDeniedBoardingReRoutingHalves(t *testing.T) {
	e := newTestEngine()
	ctx := context.Background()

	halved := e.CheckEligibility(ctx, &domain.DisruptionRecord{
		Airline:                 "Lufthansa",
		DepartureAirport:        "FRA",
		ArrivalAirport:          "JFK",
		DisruptionType:          domain.DisruptionDeniedBoarding,
		DeniedBoardingType:      domain.DeniedBoardingInvoluntary,
		AlternativeArrivalDelay: "3 hours",
	})
	if halved.Amount != "€300" {
		t.Errorf("long-haul re-routing under 4 hours should halve to €300, got %q", halved.Amount)
	}

	full := e.CheckEligibility(ctx, &domain.DisruptionRecord{
		Airline:                 "Lufthansa",
		DepartureAirport:        "FRA",
		ArrivalAirport:          "JFK",
		DisruptionType:          domain.DisruptionDeniedBoarding,
		DeniedBoardingType:      domain.DeniedBoardingInvoluntary,
		AlternativeArrivalDelay: "6 hours",
	})
	if full.Amount != "€600" {
		t.Errorf("slow re-routing keeps the full €600, got %q", full.Amount)
	}
}
