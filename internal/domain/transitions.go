package domain

// jobTransitions is the job state machine:
// OPEN → ASSIGNED → IN_PROGRESS → DELIVERED, CANCELLED from OPEN or ASSIGNED.
var jobTransitions = map[JobStatus][]JobStatus{
	JobOpen:       {JobAssigned, JobCancelled},
	JobAssigned:   {JobInProgress, JobCancelled},
	JobInProgress: {JobDelivered},
}

// CanTransitionTo reports whether the job state machine allows s → next.
func (s JobStatus) CanTransitionTo(next JobStatus) bool {
	for _, v := range jobTransitions[s] {
		if v == next {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether a bid may leave s for next.
// Only PENDING bids move; every other status is terminal.
func (s BidStatus) CanTransitionTo(next BidStatus) bool {
	if s != BidPending {
		return false
	}
	return next == BidAccepted || next == BidRejected || next == BidWithdrawn
}
