package domain

// Regime identifies the passenger-rights regulation applied to a disruption.
type Regime string

// Supported regimes. Detection precedence is fixed:
// Swiss -> Norwegian -> Canadian -> EU261 -> UK CAA -> US DOT -> Unknown.
const (
	RegimeEU261     Regime = "EU261"
	RegimeUKCAA     Regime = "UK CAA"
	RegimeUSDOT     Regime = "US DOT"
	RegimeSwiss     Regime = "Swiss FOCA"
	RegimeNorwegian Regime = "Norwegian CAA"
	RegimeCanadian  Regime = "Canadian APPR"
	RegimeUnknown   Regime = "Unknown"
)

// CurrencySymbol returns the prefix used in formatted amount strings for the
// regime's statutory currency. The symbol-prefixed string is the only
// externally visible amount representation.
func (r Regime) CurrencySymbol() string {
	switch r {
	case RegimeEU261:
		return "€"
	case RegimeUKCAA:
		return "£"
	case RegimeUSDOT:
		return "$"
	case RegimeSwiss:
		return "CHF "
	case RegimeNorwegian:
		return "NOK "
	case RegimeCanadian:
		return "CA$"
	default:
		return ""
	}
}

// Currency returns the ISO 4217 code for the regime's statutory currency.
// Used for audit records only; formatted amounts stay symbol-prefixed.
func (r Regime) Currency() string {
	switch r {
	case RegimeEU261:
		return "EUR"
	case RegimeUKCAA:
		return "GBP"
	case RegimeUSDOT:
		return "USD"
	case RegimeSwiss:
		return "CHF"
	case RegimeNorwegian:
		return "NOK"
	case RegimeCanadian:
		return "CAD"
	default:
		return ""
	}
}
