// Package events names the domain events and their payloads. Services fire
// them after commit; app/listeners consumes them.
package events

import "time"

const (
	OrderPlaced    = "order.placed"
	OrderFulfilled = "order.fulfilled"
	RatingRecorded = "rating.recorded"
)

// Order is the payload of order.placed and order.fulfilled.
type Order struct {
	Event      string    `json:"event"`
	OrderID    uint      `json:"order_id"`
	VenueID    uint      `json:"venue_id"`
	ProfileID  uint      `json:"profile_id"`
	TotalPrice int64     `json:"total_price"`
	ItemCount  int       `json:"item_count"`
	Status     string    `json:"status"`
	PickupCode string    `json:"pickup_code"`
	At         time.Time `json:"at"`
}

// Rating is the payload of rating.recorded. Target is "item" or "venue".
type Rating struct {
	Event    string    `json:"event"`
	Target   string    `json:"target"`
	TargetID uint      `json:"target_id"`
	UserID   uint      `json:"user_id"`
	Value    int       `json:"value"`
	Average  float64   `json:"average"`
	Count    int64     `json:"count"`
	At       time.Time `json:"at"`
}
