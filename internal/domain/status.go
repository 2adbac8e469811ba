package domain

type (
	// JobKind distinguishes restaurant orders from peer-to-peer parcels.
	JobKind string
	// JobStatus is the lifecycle state of a job.
	JobStatus string
	// Priority scales the fee of a P2P parcel.
	Priority string
	// BidStatus is the lifecycle state of a bid.
	BidStatus string
	// VehicleType is the courier transport class.
	VehicleType string
	// Role is the marketplace role of a requester.
	Role string
)

// Job kinds.
const (
	KindOrder JobKind = "ORDER"
	KindP2P   JobKind = "P2P"
)

// Job statuses.
const (
	JobOpen       JobStatus = "OPEN"
	JobAssigned   JobStatus = "ASSIGNED"
	JobInProgress JobStatus = "IN_PROGRESS"
	JobDelivered  JobStatus = "DELIVERED"
	JobCancelled  JobStatus = "CANCELLED"
)

// Priorities.
const (
	PriorityNormal  Priority = "NORMAL"
	PriorityUrgent  Priority = "URGENT"
	PriorityExpress Priority = "EXPRESS"
)

// Bid statuses.
const (
	BidPending   BidStatus = "PENDING"
	BidAccepted  BidStatus = "ACCEPTED"
	BidRejected  BidStatus = "REJECTED"
	BidWithdrawn BidStatus = "WITHDRAWN"
)

// Vehicle types, ordered by carrying capacity.
const (
	VehicleFoot    VehicleType = "on_foot"
	VehicleScooter VehicleType = "scooter"
	VehicleCar     VehicleType = "car"
)

// Roles.
const (
	RoleCustomer Role = "customer"
	RoleCourier  Role = "courier"
	RoleAdmin    Role = "admin"
)

var allowedKinds = [...]JobKind{KindOrder, KindP2P}

var allowedJobStatuses = [...]JobStatus{
	JobOpen, JobAssigned, JobInProgress, JobDelivered, JobCancelled,
}

var allowedPriorities = [...]Priority{PriorityNormal, PriorityUrgent, PriorityExpress}

var allowedBidStatuses = [...]BidStatus{BidPending, BidAccepted, BidRejected, BidWithdrawn}

var vehicleRank = map[VehicleType]int{
	VehicleFoot:    1,
	VehicleScooter: 2,
	VehicleCar:     3,
}

var allowedRoles = [...]Role{RoleCustomer, RoleCourier, RoleAdmin}

// Valid checks if the JobKind is valid
func (k JobKind) Valid() bool {
	for _, v := range allowedKinds {
		if k == v {
			return true
		}
	}
	return false
}

// Valid checks if the JobStatus is valid
func (s JobStatus) Valid() bool {
	for _, v := range allowedJobStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is possible.
func (s JobStatus) Terminal() bool {
	return s == JobDelivered || s == JobCancelled
}

// Valid checks if the Priority is valid
func (p Priority) Valid() bool {
	for _, v := range allowedPriorities {
		if p == v {
			return true
		}
	}
	return false
}

// Valid checks if the BidStatus is valid
func (s BidStatus) Valid() bool {
	for _, v := range allowedBidStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Valid checks if the VehicleType is valid
func (v VehicleType) Valid() bool {
	_, ok := vehicleRank[v]
	return ok
}

// Fits reports whether a load requiring v can be carried by other.
func (v VehicleType) Fits(other VehicleType) bool {
	need, ok1 := vehicleRank[v]
	have, ok2 := vehicleRank[other]
	return ok1 && ok2 && need <= have
}

// Valid checks if the Role is valid
func (r Role) Valid() bool {
	for _, v := range allowedRoles {
		if r == v {
			return true
		}
	}
	return false
}
