package domain

import (
	"time"

	"github.com/google/uuid"
)

// NotificationKind names a courier-facing notification.
type NotificationKind string

// Notification kinds.
const (
	NotifyBidAccepted  NotificationKind = "bid_accepted"
	NotifyBidRejected  NotificationKind = "bid_rejected"
	NotifyJobCancelled NotificationKind = "job_cancelled"
)

// Notification is handed to the external delivery channel.
type Notification struct {
	Kind        NotificationKind
	RecipientID string
	JobID       uuid.UUID
	BidID       *uuid.UUID
	Message     string
	CreatedAt   time.Time
}

// Requester identifies the caller of an operation.
type Requester struct {
	ID   string
	Role Role
}
