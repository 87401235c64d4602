package circumstances

import "strings"

// The keyword fallback is a contract, not an implementation detail: when the
// LLM path fails it must yield the exact same verdicts on every call.
// Matching is plain case-insensitive substring, so compound reasons like
// "snowstorm" or "thunderstorms" still hit "snow" and "storm".

// extraordinaryKeywords covers the statutory exemption categories for
// EU/UK/Swiss/Norwegian regimes.
var extraordinaryKeywords = []string{
	"weather", "storm", "snow", "fog", "ice", "hurricane", "tornado",
	"security", "terrorist", "threat", "bomb", "suspicious",
	"air traffic control", "atc",
	"strike", "industrial action",
	"bird strike", "wildlife",
	"medical emergency", "emergency landing",
}

// airlineControlKeywords is the Canadian APPR variant: situations OUTSIDE
// airline control. The list is near-identical to extraordinaryKeywords but has
// inverted polarity in the calculators and is deliberately maintained as a
// separate copy pending legal review of whether the two may diverge.
var airlineControlKeywords = []string{
	"weather", "storm", "snow", "fog", "ice", "hurricane", "tornado",
	"security", "terrorist", "threat", "bomb", "suspicious",
	"air traffic control", "atc",
	"strike", "industrial action",
	"bird strike", "wildlife",
	"medical emergency", "emergency landing",
}

func matchesAny(reason string, keywords []string) bool {
	reason = strings.ToLower(reason)
	for _, kw := range keywords {
		if strings.Contains(reason, kw) {
			return true
		}
	}
	return false
}

// fallbackCategories maps fallback matches to the category labels the LLM
// path also produces, keeping audit records comparable across both paths.
var fallbackCategories = []struct {
	keywords []string
	category string
}{
	{[]string{"weather", "storm", "snow", "fog", "ice", "hurricane", "tornado"}, "weather"},
	{[]string{"security", "terrorist", "threat", "bomb", "suspicious"}, "security"},
	{[]string{"air traffic control", "atc"}, "air_traffic_control"},
	{[]string{"strike", "industrial action"}, "strike"},
	{[]string{"bird strike", "wildlife"}, "wildlife"},
	{[]string{"medical emergency", "emergency landing"}, "medical"},
}

func matchCategory(reason string) string {
	for _, fc := range fallbackCategories {
		if matchesAny(reason, fc.keywords) {
			return fc.category
		}
	}
	return ""
}
