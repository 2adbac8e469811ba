package domain

import (
	"time"

	"github.com/google/uuid"
)

// TrackingEvent is an immutable record of a job status change.
type TrackingEvent struct {
	ID          int64
	JobID       uuid.UUID
	Status      JobStatus
	Description string
	Timestamp   time.Time
}
