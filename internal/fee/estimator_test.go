package fee_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"service-bidding/internal/domain"
	"service-bidding/internal/fee"
)

func loc(lat, lng float64) domain.Location {
	return domain.Location{Lat: &lat, Lng: &lng}
}

func TestHaversine_KnownDistance(t *testing.T) {
	t.Parallel()

	// Moscow (Red Square) to Saint Petersburg (Palace Square), ~634 km.
	d := fee.Haversine(55.7539, 37.6208, 59.9391, 30.3159)
	require.InDelta(t, 634, d, 5)
	require.Zero(t, fee.Haversine(10, 10, 10, 10))
}

func TestEstimate_DistanceAndPriority(t *testing.T) {
	t.Parallel()

	e := fee.NewEstimator(fee.DefaultRateTable())
	from, to := loc(0, 0), loc(0, 0.1)
	dist := fee.Haversine(0, 0, 0, 0.1)

	normal := e.Estimate(from, to, domain.PriorityNormal)
	require.False(t, normal.Fallback)
	require.Equal(t, "v1", normal.RateVersion)
	require.InDelta(t, math.Round((5+dist*1.5)*100)/100, normal.Amount, 1e-9)

	urgent := e.Estimate(from, to, domain.PriorityUrgent)
	express := e.Estimate(from, to, domain.PriorityExpress)
	require.InDelta(t, normal.Amount*1.5, urgent.Amount, 0.01)
	require.InDelta(t, normal.Amount*2.0, express.Amount, 0.01)
}

func TestEstimate_FallbackOnMissingCoordinates(t *testing.T) {
	t.Parallel()

	e := fee.NewEstimator(fee.DefaultRateTable())

	got := e.Estimate(domain.Location{Address: "somewhere"}, loc(1, 1), domain.PriorityNormal)
	require.True(t, got.Fallback)
	require.Equal(t, 20.0, got.Amount)

	bad := math.NaN()
	got = e.Estimate(domain.Location{Lat: &bad, Lng: &bad}, loc(1, 1), domain.PriorityExpress)
	require.True(t, got.Fallback)
	require.Equal(t, 40.0, got.Amount)
}

func TestEstimate_Deterministic(t *testing.T) {
	t.Parallel()

	e := fee.NewEstimator(fee.DefaultRateTable())
	a := e.Estimate(loc(55.75, 37.61), loc(55.70, 37.50), domain.PriorityUrgent)
	for i := 0; i < 10; i++ {
		require.Equal(t, a, e.Estimate(loc(55.75, 37.61), loc(55.70, 37.50), domain.PriorityUrgent))
	}
}

func TestEstimate_UnknownPriorityDefaultsToOne(t *testing.T) {
	t.Parallel()

	e := fee.NewEstimator(fee.DefaultRateTable())
	a := e.Estimate(domain.Location{}, domain.Location{}, "")
	require.Equal(t, 20.0, a.Amount)
}

func TestNewEstimator_CopiesMultipliers(t *testing.T) {
	t.Parallel()

	table := fee.DefaultRateTable()
	e := fee.NewEstimator(table)
	table.Multipliers[domain.PriorityNormal] = 10

	got := e.Estimate(domain.Location{}, domain.Location{}, domain.PriorityNormal)
	require.Equal(t, 20.0, got.Amount)
}
