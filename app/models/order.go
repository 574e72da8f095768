package models

import "time"

const (
	OrderPending   = "pending"
	OrderFulfilled = "fulfilled"
)

// Order is the immutable snapshot of a checked-out basket. Only Status and
// FulfilledAt change afterwards.
type Order struct {
	ID          uint        `gorm:"primaryKey"                      json:"id"`
	ProfileID   uint        `gorm:"not null;index"                  json:"profile_id"`
	VenueID     uint        `gorm:"not null;index"                  json:"venue_id"`
	TotalPrice  int64       `gorm:"not null"                        json:"total_price"`
	ItemCount   int         `gorm:"not null"                        json:"item_count"`
	Status      string      `gorm:"size:16;not null;index;default:pending" json:"status"`
	PickupCode  string      `gorm:"size:36;not null;uniqueIndex"    json:"pickup_code"`
	FulfilledAt *time.Time  `json:"fulfilled_at"`
	Lines       []OrderLine `gorm:"foreignKey:OrderID"              json:"lines"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

type OrderLine struct {
	ID        uint   `gorm:"primaryKey"     json:"id"`
	OrderID   uint   `gorm:"not null;index" json:"order_id"`
	ItemName  string `gorm:"size:25;not null" json:"item_name"`
	UnitPrice int64  `gorm:"not null"       json:"unit_price"`
	Quantity  int    `gorm:"not null"       json:"quantity"`
}
