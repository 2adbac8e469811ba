package jobs

import (
	"service-bidding/internal/domain"
	"service-bidding/internal/fee"
)

// FeeEstimator prices a job at creation time.
type FeeEstimator interface {
	Estimate(pickup, dropoff domain.Location, priority domain.Priority) fee.Estimate
}
