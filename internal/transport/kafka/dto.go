package kafka

import (
	"strings"
	"time"

	"service-bidding/internal/domain"
	"service-bidding/internal/service/orders"
)

// EventDTO is the wire form of a restaurant order event.
type EventDTO struct {
	OrderID        string    `json:"order_id"`
	Status         string    `json:"status"`
	CustomerID     string    `json:"customer_id"`
	Description    string    `json:"description"`
	PickupAddress  string    `json:"pickup_address"`
	PickupCoords   string    `json:"pickup_coords"`
	DropoffAddress string    `json:"dropoff_address"`
	DropoffCoords  string    `json:"dropoff_coords"`
	CreatedAt      time.Time `json:"created_at"`
}

// ToDomain converts EventDTO to orders.Event. Coordinates come as "lat,lng";
// malformed ones are dropped and the address is kept.
func ToDomain(dto EventDTO) orders.Event {
	return orders.Event{
		OrderID:     strings.TrimSpace(dto.OrderID),
		Status:      strings.TrimSpace(dto.Status),
		CustomerID:  strings.TrimSpace(dto.CustomerID),
		Description: strings.TrimSpace(dto.Description),
		Pickup:      location(dto.PickupAddress, dto.PickupCoords),
		Dropoff:     location(dto.DropoffAddress, dto.DropoffCoords),
		CreatedAt:   dto.CreatedAt,
	}
}

func location(address, coords string) domain.Location {
	l := domain.Location{Address: strings.TrimSpace(address)}
	if strings.TrimSpace(coords) != "" {
		l.Lat, l.Lng = domain.ParseCoordinates(coords)
	}
	return l
}
