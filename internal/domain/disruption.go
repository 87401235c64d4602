package domain

import (
	"time"
)

// Disruption type values accepted on a DisruptionRecord.
const (
	DisruptionDelay          = "delay"
	DisruptionCancellation   = "cancellation"
	DisruptionDeniedBoarding = "denied_boarding"
	DisruptionDowngrading    = "downgrading"
)

// Notice period values for cancellations.
const (
	NoticeUnder7Days  = "< 7 days"
	Notice7To14Days   = "7-14 days"
	NoticeOver14Days  = "> 14 days"
)

// Denied boarding type values.
const (
	DeniedBoardingVoluntary   = "voluntary"
	DeniedBoardingInvoluntary = "involuntary"
)

// Cabin class values, lowest to highest.
const (
	ClassEconomy        = "economy"
	ClassPremiumEconomy = "premium_economy"
	ClassBusiness       = "business"
	ClassFirst          = "first"
)

// Carrier size values for Canadian APPR delay bands.
const (
	CarrierLarge = "large"
	CarrierSmall = "small"
)

// AlternativeFlight holds the structured re-routing offer attached to a
// cancellation. Time differences are signed hours relative to the original
// schedule; calculators compare absolute values.
type AlternativeFlight struct {
	Offered                 bool    `json:"offered"`
	DepartureTimeDifference float64 `json:"departureTimeDifference"`
	ArrivalTimeDifference   float64 `json:"arrivalTimeDifference"`
}

// DisruptionRecord is the engine input: one passenger disruption, built fresh
// per claim check and immutable for the duration of the evaluation.
type DisruptionRecord struct {
	// Core identifiers
	ID       string `json:"id,omitempty"`
	TenantID string `json:"tenantId,omitempty"`

	FlightNumber     string `json:"flightNumber"`
	Airline          string `json:"airline"`
	DepartureAirport string `json:"departureAirport"`
	ArrivalAirport   string `json:"arrivalAirport"`

	// One of delay | cancellation | denied_boarding | downgrading.
	// Defaults to delay when empty.
	DisruptionType string `json:"disruptionType"`

	// Delay
	DelayDuration string `json:"delayDuration,omitempty"`
	DelayReason   string `json:"delayReason,omitempty"`

	// Cancellation
	NoticeGiven       string             `json:"noticeGiven,omitempty"`
	AlternativeFlight *AlternativeFlight `json:"alternativeFlight,omitempty"`

	// Legacy cancellation fields. Only consulted when the structured
	// AlternativeFlight is absent.
	AlternativeOffered bool   `json:"alternativeOffered,omitempty"`
	AlternativeTiming  string `json:"alternativeTiming,omitempty"`

	// Denied boarding
	DeniedBoardingType      string  `json:"deniedBoardingType,omitempty"`
	AlternativeArrivalDelay string  `json:"alternativeArrivalDelay,omitempty"`
	CompensationOffered     float64 `json:"compensationOffered,omitempty"`

	// Downgrade
	BookedClass string `json:"bookedClass,omitempty"`
	ActualClass string `json:"actualClass,omitempty"`

	// Shared by denied boarding and downgrade
	TicketPrice float64 `json:"ticketPrice,omitempty"`

	// Canadian APPR carrier size ("large" or "small", defaults to large)
	CarrierSize string `json:"carrierSize,omitempty"`

	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// Type returns the disruption type, applying the delay default.
func (r *DisruptionRecord) Type() string {
	if r.DisruptionType == "" {
		return DisruptionDelay
	}
	return r.DisruptionType
}

// CheckRequest is the API request payload for an eligibility check.
type CheckRequest struct {
	FlightNumber     string `json:"flightNumber"`
	Airline          string `json:"airline"`
	DepartureAirport string `json:"departureAirport"`
	ArrivalAirport   string `json:"arrivalAirport"`
	DisruptionType   string `json:"disruptionType,omitempty"`

	DelayDuration string `json:"delayDuration,omitempty"`
	DelayReason   string `json:"delayReason,omitempty"`

	NoticeGiven        string             `json:"noticeGiven,omitempty"`
	AlternativeFlight  *AlternativeFlight `json:"alternativeFlight,omitempty"`
	AlternativeOffered bool               `json:"alternativeOffered,omitempty"`
	AlternativeTiming  string             `json:"alternativeTiming,omitempty"`

	DeniedBoardingType      string  `json:"deniedBoardingType,omitempty"`
	AlternativeArrivalDelay string  `json:"alternativeArrivalDelay,omitempty"`
	CompensationOffered     float64 `json:"compensationOffered,omitempty"`

	BookedClass string  `json:"bookedClass,omitempty"`
	ActualClass string  `json:"actualClass,omitempty"`
	TicketPrice float64 `json:"ticketPrice,omitempty"`
	CarrierSize string  `json:"carrierSize,omitempty"`
}

// ToDisruption converts a request to a DisruptionRecord domain object.
func (c *CheckRequest) ToDisruption() *DisruptionRecord {
	return &DisruptionRecord{
		FlightNumber:            c.FlightNumber,
		Airline:                 c.Airline,
		DepartureAirport:        c.DepartureAirport,
		ArrivalAirport:          c.ArrivalAirport,
		DisruptionType:          c.DisruptionType,
		DelayDuration:           c.DelayDuration,
		DelayReason:             c.DelayReason,
		NoticeGiven:             c.NoticeGiven,
		AlternativeFlight:       c.AlternativeFlight,
		AlternativeOffered:      c.AlternativeOffered,
		AlternativeTiming:       c.AlternativeTiming,
		DeniedBoardingType:      c.DeniedBoardingType,
		AlternativeArrivalDelay: c.AlternativeArrivalDelay,
		CompensationOffered:     c.CompensationOffered,
		BookedClass:             c.BookedClass,
		ActualClass:             c.ActualClass,
		TicketPrice:             c.TicketPrice,
		CarrierSize:             c.CarrierSize,
		CreatedAt:               time.Now().UTC(),
	}
}
