package bids

import "service-bidding/internal/domain"

// Bounds limits a bid amount to [Min, Max] times the job's base fee estimate.
type Bounds struct {
	Min float64
	Max float64
}

// Policy holds the amount bounds per job kind. A kind without bounds accepts
// any positive amount.
type Policy map[domain.JobKind]Bounds

// DefaultPolicy returns the bounds the marketplace forms have always offered.
func DefaultPolicy() Policy {
	return Policy{
		domain.KindOrder: {Min: 0.8, Max: 2.5},
		domain.KindP2P:   {Min: 0.5, Max: 3.0},
	}
}

// Allows reports whether amount fits the bounds for job.
func (p Policy) Allows(job domain.Job, amount float64) bool {
	b, ok := p[job.Kind]
	if !ok || job.BaseFeeEstimate <= 0 {
		return true
	}
	lo := round2(b.Min * job.BaseFeeEstimate)
	hi := round2(b.Max * job.BaseFeeEstimate)
	return amount >= lo && amount <= hi
}
