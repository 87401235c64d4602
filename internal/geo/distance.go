// Package geo provides great-circle distances between airports and the
// distance-tier classification shared by every distance-based regime.
package geo

import (
	"context"
	"math"
	"strings"

	"github.com/openclaims/kestrel/internal/domain"
)

const (
	earthRadiusKm = 6371.0
	kmPerMile     = 1.609344

	// FallbackKm is substituted by calculators when an airport code is not in
	// the directory. Preserved behavior; do not change silently.
	FallbackKm = 1000.0
)

// Distance tiers. Thresholds are invariant across regimes even though the
// amount per tier differs by regime.
const (
	TierShort  = "short"  // <= 1500 km
	TierMedium = "medium" // <= 3500 km
	TierLong   = "long"   // > 3500 km
)

// Calculator computes memoized great-circle distances. The cache is optional;
// with a nil cache every call recomputes, which is still cheap and pure.
type Calculator struct {
	cache domain.Cache
}

// NewCalculator creates a distance calculator backed by the given cache.
func NewCalculator(cache domain.Cache) *Calculator {
	return &Calculator{cache: cache}
}

// Distance returns the great-circle distance between two airports.
// Same-code input returns 0 km and valid=true. Unknown codes return
// valid=false; callers substitute FallbackKm.
func (c *Calculator) Distance(ctx context.Context, from, to string) domain.DistanceEntry {
	from = normalizeCode(from)
	to = normalizeCode(to)

	if from == to && from != "" {
		return domain.DistanceEntry{Km: 0, Miles: 0, Valid: true}
	}

	key := from + ":" + to
	if c.cache != nil {
		if entry, err := c.cache.GetDistance(ctx, key); err == nil && entry != nil {
			return *entry
		}
	}

	a, okA := Lookup(from)
	b, okB := Lookup(to)
	if !okA || !okB {
		return domain.DistanceEntry{Valid: false}
	}

	km := haversineKm(a.Lat, a.Lon, b.Lat, b.Lon)
	entry := domain.DistanceEntry{
		Km:    km,
		Miles: km / kmPerMile,
		Valid: true,
	}

	if c.cache != nil {
		// Memoization is best effort; a cache failure never fails the lookup.
		_ = c.cache.SetDistance(ctx, key, &entry)
	}

	return entry
}

// EffectiveKm applies the fallback for invalid lookups.
func EffectiveKm(d domain.DistanceEntry) float64 {
	if !d.Valid {
		return FallbackKm
	}
	return d.Km
}

// Tier classifies a distance in km into short/medium/long.
func Tier(km float64) string {
	switch {
	case km <= 1500:
		return TierShort
	case km <= 3500:
		return TierMedium
	default:
		return TierLong
	}
}

// Domestic reports whether both airports are in the given country. Unknown
// codes are treated as foreign, which biases denied-boarding math toward the
// international thresholds.
func Domestic(from, to, country string) bool {
	a, okA := Lookup(from)
	b, okB := Lookup(to)
	return okA && okB && a.Country == country && b.Country == country
}

func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	la1 := lat1 * math.Pi / 180
	la2 := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(la1)*math.Cos(la2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
