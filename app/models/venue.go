package models

import "time"

// DefaultRating is the average shown before anyone has rated.
const DefaultRating = 5.0

// Venue is a restaurant. Each seller owns at most one.
type Venue struct {
	ID            uint      `gorm:"primaryKey"                          json:"id"`
	SellerID      uint      `gorm:"not null;uniqueIndex"                json:"seller_id"`
	Name          string    `gorm:"size:15;not null;index"              json:"name"`
	RatingAverage float64   `gorm:"type:decimal(3,1);not null;default:5" json:"rating_average"`
	RatingCount   int64     `gorm:"not null;default:0"                  json:"rating_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// MenuItem belongs to a venue. Price is in the smallest currency unit.
type MenuItem struct {
	ID            uint      `gorm:"primaryKey"                          json:"id"`
	VenueID       uint      `gorm:"not null;index"                      json:"venue_id"`
	Name          string    `gorm:"size:25;not null"                    json:"name"`
	Price         int64     `gorm:"not null;default:0"                  json:"price"`
	Description   string    `gorm:"type:text"                           json:"description"`
	ImagePath     string    `gorm:"size:255"                            json:"image_path"`
	Available     bool      `gorm:"not null"                            json:"available"`
	RatingAverage float64   `gorm:"type:decimal(3,1);not null;default:5" json:"rating_average"`
	RatingCount   int64     `gorm:"not null;default:0"                  json:"rating_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
