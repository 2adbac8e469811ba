package domain

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Location is a pickup or dropoff point. Coordinates are optional:
// a location given only by address is still a valid location.
type Location struct {
	Address string
	Lat     *float64
	Lng     *float64
}

// HasCoordinates reports whether the location carries usable coordinates.
func (l Location) HasCoordinates() bool {
	if l.Lat == nil || l.Lng == nil {
		return false
	}
	lat, lng := *l.Lat, *l.Lng
	if math.IsNaN(lat) || math.IsNaN(lng) || math.IsInf(lat, 0) || math.IsInf(lng, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// Present reports whether the location was given at all. Coordinates count
// even when they are out of range; pricing falls back for those.
func (l Location) Present() bool {
	return strings.TrimSpace(l.Address) != "" || l.Lat != nil || l.Lng != nil
}

// ParseCoordinates parses "lat,lng". Malformed input yields nil pointers, not an error.
func ParseCoordinates(raw string) (lat, lng *float64) {
	parts := strings.Split(raw, ",")
	if len(parts) != 2 {
		return nil, nil
	}
	la, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	ln, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err1 != nil || err2 != nil {
		return nil, nil
	}
	return &la, &ln
}

// Job is a delivery task open for courier bidding.
type Job struct {
	ID                uuid.UUID
	Kind              JobKind
	Status            JobStatus
	OwnerID           string
	ExternalRef       string
	Description       string
	Pickup            Location
	Dropoff           Location
	Priority          Priority
	VehicleType       VehicleType
	BaseFeeEstimate   float64
	FeeRateVersion    string
	AssignedCourierID *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// JobSpec carries the caller input for a new job.
type JobSpec struct {
	Kind        JobKind
	OwnerID     string
	ExternalRef string
	Description string
	Pickup      Location
	Dropoff     Location
	Priority    Priority
	VehicleType VehicleType
}

// JobFilter narrows the open job listing. Zero values mean "any".
type JobFilter struct {
	Kind    JobKind
	Vehicle VehicleType
}

// Matches reports whether j passes the filter.
func (f JobFilter) Matches(j Job) bool {
	if f.Kind != "" && j.Kind != f.Kind {
		return false
	}
	if f.Vehicle != "" && !j.VehicleType.Fits(f.Vehicle) {
		return false
	}
	return true
}
