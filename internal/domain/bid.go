package domain

import (
	"time"

	"github.com/google/uuid"
)

// Bid is a courier's proposed price and ETA for a job.
type Bid struct {
	ID         uuid.UUID
	JobID      uuid.UUID
	CourierID  string
	Amount     float64
	EtaMinutes int
	Status     BidStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// AcceptResult is returned by a successful bid acceptance.
type AcceptResult struct {
	Bid                  Bid
	Job                  Job
	Rejected             []Bid
	NotificationFailures int
}

// CancelResult is returned by a successful job cancellation.
type CancelResult struct {
	Job                  Job
	Rejected             []Bid
	NotificationFailures int
}
