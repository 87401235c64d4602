// Package jurisdiction decides which passenger-rights regime applies to a
// flight. Every scenario calculator consumes this single module so the
// airport and airline lists cannot drift between calculators.
package jurisdiction

import (
	"strings"

	"github.com/openclaims/kestrel/internal/domain"
)

// Airport lists per regime. Detection is a substring-free exact match on the
// normalized IATA code; airline detection is a case-insensitive substring
// match against the free-text carrier name.
var (
	euAirports = []string{
		"FRA", "MUC", "BER", "CDG", "ORY", "NCE", "AMS", "MAD", "BCN",
		"FCO", "MXP", "VIE", "BRU", "LIS", "ATH", "DUB", "CPH", "ARN",
		"HEL", "WAW", "PRG", "BUD", "OTP",
	}
	ukAirports = []string{
		"LHR", "LGW", "STN", "LTN", "MAN", "EDI", "BHX", "GLA",
	}
	usAirports = []string{
		"JFK", "EWR", "LAX", "ORD", "ATL", "DFW", "SFO", "MIA", "SEA",
		"BOS", "IAD", "DEN", "LAS", "PHX", "IAH", "MCO", "CLT", "MSP",
		"DTW", "PHL",
	}
	swissAirports     = []string{"ZRH", "GVA", "BSL", "BRN", "LUG"}
	norwegianAirports = []string{"OSL", "BGO", "TRD", "SVG", "TOS"}
	canadianAirports  = []string{"YYZ", "YVR", "YUL", "YYC", "YOW", "YEG", "YHZ", "YWG"}

	euAirlines = []string{
		"lufthansa", "air france", "klm", "iberia", "ryanair", "vueling",
		"austrian", "brussels airlines", "tap", "sas", "finnair", "lot",
		"ita airways", "condor", "eurowings", "transavia", "wizz",
	}
	ukAirlines = []string{
		"british airways", "virgin atlantic", "easyjet", "jet2",
		"tui airways", "loganair",
	}
	usAirlines = []string{
		"american airlines", "delta", "united", "southwest", "jetblue",
		"alaska airlines", "spirit", "frontier", "hawaiian",
	}
)

// Detect returns the applicable regime for a flight. Multiple detectors may
// match; ties are resolved by the fixed precedence order
// Swiss -> Norwegian -> Canadian -> EU261 -> UK CAA -> US DOT -> Unknown.
func Detect(airline, departureAirport, arrivalAirport string) domain.Regime {
	switch {
	case IsSwiss(airline, departureAirport, arrivalAirport):
		return domain.RegimeSwiss
	case IsNorwegian(airline, departureAirport, arrivalAirport):
		return domain.RegimeNorwegian
	case IsCanadian(airline, departureAirport, arrivalAirport):
		return domain.RegimeCanadian
	case IsEU(airline, departureAirport, arrivalAirport):
		return domain.RegimeEU261
	case IsUK(airline, departureAirport, arrivalAirport):
		return domain.RegimeUKCAA
	case IsUS(airline, departureAirport, arrivalAirport):
		return domain.RegimeUSDOT
	default:
		return domain.RegimeUnknown
	}
}

// IsEU reports whether the EU261 detector matches.
func IsEU(airline, dep, arr string) bool {
	return matchesAirport(euAirports, dep, arr) || matchesAirline(euAirlines, airline)
}

// IsUK reports whether the UK CAA detector matches.
func IsUK(airline, dep, arr string) bool {
	return matchesAirport(ukAirports, dep, arr) || matchesAirline(ukAirlines, airline)
}

// IsUS reports whether the US DOT detector matches.
func IsUS(airline, dep, arr string) bool {
	return matchesAirport(usAirports, dep, arr) || matchesAirline(usAirlines, airline)
}

// IsSwiss reports whether the Swiss FOCA detector matches.
// Airport-only detector: no airline list.
func IsSwiss(_ string, dep, arr string) bool {
	return matchesAirport(swissAirports, dep, arr)
}

// IsNorwegian reports whether the Norwegian CAA detector matches.
// Airport-only detector: no airline list.
func IsNorwegian(_ string, dep, arr string) bool {
	return matchesAirport(norwegianAirports, dep, arr)
}

// IsCanadian reports whether the Canadian APPR detector matches.
// Airport-only detector: no airline list.
func IsCanadian(_ string, dep, arr string) bool {
	return matchesAirport(canadianAirports, dep, arr)
}

func matchesAirport(list []string, dep, arr string) bool {
	dep = strings.ToUpper(strings.TrimSpace(dep))
	arr = strings.ToUpper(strings.TrimSpace(arr))
	for _, code := range list {
		if code == dep || code == arr {
			return true
		}
	}
	return false
}

func matchesAirline(list []string, airline string) bool {
	airline = strings.ToLower(airline)
	if airline == "" {
		return false
	}
	for _, name := range list {
		if strings.Contains(airline, name) {
			return true
		}
	}
	return false
}
