package handlers

import (
	"time"

	"github.com/google/uuid"
)

type locationDTO struct {
	Address string   `json:"address"`
	Lat     *float64 `json:"lat,omitempty"`
	Lng     *float64 `json:"lng,omitempty"`
}

type jobDTO struct {
	ID                uuid.UUID   `json:"id"`
	Kind              string      `json:"kind"`
	Status            string      `json:"status"`
	OwnerID           string      `json:"owner_id"`
	ExternalRef       string      `json:"external_ref,omitempty"`
	Description       string      `json:"description"`
	Pickup            locationDTO `json:"pickup"`
	Dropoff           locationDTO `json:"dropoff"`
	Priority          string      `json:"priority"`
	VehicleType       string      `json:"vehicle_type"`
	BaseFeeEstimate   float64     `json:"base_fee_estimate"`
	FeeRateVersion    string      `json:"fee_rate_version"`
	AssignedCourierID *string     `json:"assigned_courier_id"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
}

type createJobRequest struct {
	Kind        string      `json:"kind"`
	Description string      `json:"description"`
	Pickup      locationDTO `json:"pickup"`
	Dropoff     locationDTO `json:"dropoff"`
	Priority    string      `json:"priority,omitempty"`
	VehicleType string      `json:"vehicle_type,omitempty"`
}

type bidDTO struct {
	ID         uuid.UUID `json:"id"`
	JobID      uuid.UUID `json:"job_id"`
	CourierID  string    `json:"courier_id"`
	Amount     float64   `json:"amount"`
	EtaMinutes int       `json:"eta_minutes"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type submitBidRequest struct {
	Amount     float64 `json:"amount"`
	EtaMinutes int     `json:"eta_minutes"`
}

type updateBidRequest struct {
	Action string `json:"action"`
}

type acceptBidResponse struct {
	Bid                  bidDTO   `json:"bid"`
	Job                  jobDTO   `json:"job"`
	Rejected             []bidDTO `json:"rejected"`
	NotificationFailures int      `json:"notification_failures"`
}

type cancelJobResponse struct {
	Job                  jobDTO   `json:"job"`
	Rejected             []bidDTO `json:"rejected"`
	NotificationFailures int      `json:"notification_failures"`
}

type trackingEventDTO struct {
	ID          int64     `json:"id"`
	JobID       uuid.UUID `json:"job_id"`
	Status      string    `json:"status"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}
