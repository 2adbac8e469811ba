// Package fee computes the baseline price of a delivery job.
//
// The estimate is a pure function of the rate table and its inputs: base fee
// plus great-circle distance times the per-km rate, scaled by the priority
// multiplier. Locations without usable coordinates fall back to a flat fee so
// that bad geodata never blocks job creation.
package fee

import (
	"math"

	"service-bidding/internal/domain"
)

const earthRadiusKm = 6371.0

// RateTable is a versioned fee configuration.
type RateTable struct {
	Version     string
	BaseFee     float64
	PerKm       float64
	FallbackFee float64
	Multipliers map[domain.Priority]float64
}

// DefaultRateTable returns the rate table shipped with the service.
func DefaultRateTable() RateTable {
	return RateTable{
		Version:     "v1",
		BaseFee:     5,
		PerKm:       1.5,
		FallbackFee: 20,
		Multipliers: map[domain.Priority]float64{
			domain.PriorityNormal:  1.0,
			domain.PriorityUrgent:  1.5,
			domain.PriorityExpress: 2.0,
		},
	}
}

// Estimate is the outcome of a fee calculation.
type Estimate struct {
	Amount      float64
	RateVersion string
	DistanceKm  float64
	Fallback    bool
}

// Estimator computes fee estimates from a fixed rate table.
type Estimator struct {
	table RateTable
}

// NewEstimator returns an Estimator over a copy of table.
func NewEstimator(table RateTable) *Estimator {
	mult := make(map[domain.Priority]float64, len(table.Multipliers))
	for k, v := range table.Multipliers {
		mult[k] = v
	}
	table.Multipliers = mult
	return &Estimator{table: table}
}

// Version returns the rate table version.
func (e *Estimator) Version() string { return e.table.Version }

// Estimate prices a trip from pickup to dropoff at the given priority.
func (e *Estimator) Estimate(pickup, dropoff domain.Location, priority domain.Priority) Estimate {
	mult := e.multiplier(priority)
	if !pickup.HasCoordinates() || !dropoff.HasCoordinates() {
		return Estimate{
			Amount:      round2(e.table.FallbackFee * mult),
			RateVersion: e.table.Version,
			Fallback:    true,
		}
	}
	dist := Haversine(*pickup.Lat, *pickup.Lng, *dropoff.Lat, *dropoff.Lng)
	return Estimate{
		Amount:      round2((e.table.BaseFee + dist*e.table.PerKm) * mult),
		RateVersion: e.table.Version,
		DistanceKm:  dist,
	}
}

func (e *Estimator) multiplier(p domain.Priority) float64 {
	if m, ok := e.table.Multipliers[p]; ok && m > 0 {
		return m
	}
	return 1.0
}

// Haversine returns the great-circle distance in kilometres.
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	rad := math.Pi / 180
	dLat := (lat2 - lat1) * rad
	dLng := (lng2 - lng1) * rad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(a)))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
