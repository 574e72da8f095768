package models

import "time"

// Basket is a student's open cart. Every line belongs to VenueID.
type Basket struct {
	ID        uint         `gorm:"primaryKey"            json:"id"`
	ProfileID uint         `gorm:"not null;uniqueIndex"  json:"profile_id"`
	VenueID   uint         `gorm:"not null;index"        json:"venue_id"`
	ItemCount int          `gorm:"not null;default:0"    json:"item_count"`
	TotalCost int64        `gorm:"not null;default:0"    json:"total_cost"`
	Lines     []BasketLine `gorm:"foreignKey:BasketID"   json:"lines"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// BasketLine holds copies of the menu item taken when it was first added.
type BasketLine struct {
	ID          uint      `gorm:"primaryKey"                                  json:"id"`
	BasketID    uint      `gorm:"not null;uniqueIndex:idx_basket_line_item"   json:"basket_id"`
	ItemName    string    `gorm:"size:25;not null;uniqueIndex:idx_basket_line_item" json:"item_name"`
	UnitCost    int64     `gorm:"not null"                                    json:"unit_cost"`
	Quantity    int       `gorm:"not null;default:1"                          json:"quantity"`
	Description string    `gorm:"type:text"                                   json:"description"`
	ImagePath   string    `gorm:"size:255"                                    json:"image_path"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
