package orders

import (
	"time"

	"service-bidding/internal/domain"
)

// Event is a single restaurant order event
type Event struct {
	OrderID     string
	Status      string
	CustomerID  string
	Description string
	Pickup      domain.Location
	Dropoff     domain.Location
	CreatedAt   time.Time
}
