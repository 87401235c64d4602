package engine

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/openclaims/kestrel/internal/domain"
)

var (
	// A trailing \b would reject the bare-h form in "1h30m" (h and 3 are
	// both word characters), so the terminator is an explicit non-letter.
	hoursPattern   = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*h(?:(?:ou)?rs?)?(?:[^a-z]|$)`)
	minutesPattern = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*m(?:in(?:ute)?s?)?\b`)
	barePattern    = regexp.MustCompile(`^\s*(\d+(?:\.\d+)?)\s*$`)
)

// ParseHours parses a free-text duration to hours. Accepts "4 hours 45
// minutes", "2.5 hours", "90 minutes", "1h30m", and bare numbers (hours).
// Malformed input degrades to 0: a malformed duration must still yield a
// complete, well-typed result, never an error.
func ParseHours(text string) float64 {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}

	if m := barePattern.FindStringSubmatch(text); m != nil {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0
		}
		return v
	}

	var hours float64
	matched := false

	if m := hoursPattern.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			hours += v
			matched = true
		}
	}
	if m := minutesPattern.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			hours += v / 60
			matched = true
		}
	}

	if !matched {
		return 0
	}
	return hours
}

// alternative is the coalesced re-routing offer for a cancellation. The
// structured AlternativeFlight fields take precedence over the legacy
// AlternativeOffered/AlternativeTiming pair whenever both are present.
type alternative struct {
	structured bool
	offered    bool

	// Structured: absolute hour differences vs the original schedule.
	depDiff float64
	arrDiff float64

	// Legacy: single parsed hour value from the free-text timing.
	legacyHours float64
}

// coalesceAlternative applies the structured-over-legacy precedence in one
// place so the cancellation calculator never touches the raw fields.
func coalesceAlternative(rec *domain.DisruptionRecord) alternative {
	if af := rec.AlternativeFlight; af != nil {
		return alternative{
			structured: true,
			offered:    af.Offered,
			depDiff:    math.Abs(af.DepartureTimeDifference),
			arrDiff:    math.Abs(af.ArrivalTimeDifference),
		}
	}
	return alternative{
		offered:     rec.AlternativeOffered,
		legacyHours: ParseHours(rec.AlternativeTiming),
	}
}
