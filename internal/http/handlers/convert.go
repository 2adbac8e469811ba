package handlers

import "service-bidding/internal/domain"

func (r createJobRequest) toModel() domain.JobSpec {
	return domain.JobSpec{
		Kind:        domain.JobKind(r.Kind),
		Description: r.Description,
		Pickup:      r.Pickup.toModel(),
		Dropoff:     r.Dropoff.toModel(),
		Priority:    domain.Priority(r.Priority),
		VehicleType: domain.VehicleType(r.VehicleType),
	}
}

func (l locationDTO) toModel() domain.Location {
	return domain.Location{Address: l.Address, Lat: l.Lat, Lng: l.Lng}
}

func locationToResponse(l domain.Location) locationDTO {
	return locationDTO{Address: l.Address, Lat: l.Lat, Lng: l.Lng}
}

func jobToResponse(j domain.Job) jobDTO {
	return jobDTO{
		ID:                j.ID,
		Kind:              string(j.Kind),
		Status:            string(j.Status),
		OwnerID:           j.OwnerID,
		ExternalRef:       j.ExternalRef,
		Description:       j.Description,
		Pickup:            locationToResponse(j.Pickup),
		Dropoff:           locationToResponse(j.Dropoff),
		Priority:          string(j.Priority),
		VehicleType:       string(j.VehicleType),
		BaseFeeEstimate:   j.BaseFeeEstimate,
		FeeRateVersion:    j.FeeRateVersion,
		AssignedCourierID: j.AssignedCourierID,
		CreatedAt:         j.CreatedAt,
		UpdatedAt:         j.UpdatedAt,
	}
}

func jobsToResponse(list []domain.Job) []jobDTO {
	out := make([]jobDTO, 0, len(list))
	for _, j := range list {
		out = append(out, jobToResponse(j))
	}
	return out
}

func bidToResponse(b domain.Bid) bidDTO {
	return bidDTO{
		ID:         b.ID,
		JobID:      b.JobID,
		CourierID:  b.CourierID,
		Amount:     b.Amount,
		EtaMinutes: b.EtaMinutes,
		Status:     string(b.Status),
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}

func bidsToResponse(list []domain.Bid) []bidDTO {
	out := make([]bidDTO, 0, len(list))
	for _, b := range list {
		out = append(out, bidToResponse(b))
	}
	return out
}

func acceptResultToResponse(res domain.AcceptResult) acceptBidResponse {
	return acceptBidResponse{
		Bid:                  bidToResponse(res.Bid),
		Job:                  jobToResponse(res.Job),
		Rejected:             bidsToResponse(res.Rejected),
		NotificationFailures: res.NotificationFailures,
	}
}

func cancelResultToResponse(res domain.CancelResult) cancelJobResponse {
	return cancelJobResponse{
		Job:                  jobToResponse(res.Job),
		Rejected:             bidsToResponse(res.Rejected),
		NotificationFailures: res.NotificationFailures,
	}
}

func eventsToResponse(list []domain.TrackingEvent) []trackingEventDTO {
	out := make([]trackingEventDTO, 0, len(list))
	for _, e := range list {
		out = append(out, trackingEventDTO{
			ID:          e.ID,
			JobID:       e.JobID,
			Status:      string(e.Status),
			Description: e.Description,
			Timestamp:   e.Timestamp,
		})
	}
	return out
}
