package jurisdiction

import (
	"testing"

	"github.com/openclaims/kestrel/internal/domain"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name    string
		airline string
		dep     string
		arr     string
		want    domain.Regime
	}{
		{"intra-EU route", "Lufthansa", "FRA", "CDG", domain.RegimeEU261},
		{"EU airline unknown airports", "Air France", "XXX", "YYY", domain.RegimeEU261},
		{"UK departure", "British Airways", "LHR", "JFK", domain.RegimeUKCAA},
		{"US domestic", "Delta Air Lines", "JFK", "LAX", domain.RegimeUSDOT},
		{"Swiss departure", "Swiss International", "ZRH", "JFK", domain.RegimeSwiss},
		{"Norwegian arrival", "Norwegian Air", "JFK", "OSL", domain.RegimeNorwegian},
		{"Canadian departure", "Air Canada", "YYZ", "LAX", domain.RegimeCanadian},
		{"unsupported route", "Qantas", "SYD", "AKL", domain.RegimeUnknown},
		{"empty inputs", "", "", "", domain.RegimeUnknown},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Detect(tc.airline, tc.dep, tc.arr)
			if got != tc.want {
				t.Errorf("Detect(%q, %q, %q) = %s, want %s", tc.airline, tc.dep, tc.arr, got, tc.want)
			}
		})
	}
}

// Swiss precedence must win even when the EU detector also matches via the
// airline name.
func TestPrecedenceSwissOverEU(t *testing.T) {
	got := Detect("Lufthansa", "ZRH", "FRA")
	if got != domain.RegimeSwiss {
		t.Errorf("expected Swiss FOCA to take precedence, got %s", got)
	}
}

// EU beats UK when both airport detectors match (EU departure, UK arrival).
func TestPrecedenceEUOverUK(t *testing.T) {
	got := Detect("", "CDG", "LHR")
	if got != domain.RegimeEU261 {
		t.Errorf("expected EU261 to take precedence over UK CAA, got %s", got)
	}
}

// UK beats US for a transatlantic route touching both.
func TestPrecedenceUKOverUS(t *testing.T) {
	got := Detect("", "LHR", "JFK")
	if got != domain.RegimeUKCAA {
		t.Errorf("expected UK CAA to take precedence over US DOT, got %s", got)
	}
}

func TestAirlineMatchIsCaseInsensitive(t *testing.T) {
	if !IsUS("UNITED AIRLINES", "", "") {
		t.Error("airline substring match should be case insensitive")
	}
}
