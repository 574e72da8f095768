package models

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

// ItemRating is one account's score for a menu item.
type ItemRating struct {
	ID        uint      `gorm:"primaryKey"                                 json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_item_rating_rater" json:"user_id"`
	ItemID    uint      `gorm:"not null;uniqueIndex:idx_item_rating_rater;index" json:"item_id"`
	Value     int       `gorm:"not null"                                   json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// VenueRating is one account's score for a venue.
type VenueRating struct {
	ID        uint      `gorm:"primaryKey"                                  json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_venue_rating_rater" json:"user_id"`
	VenueID   uint      `gorm:"not null;uniqueIndex:idx_venue_rating_rater;index" json:"venue_id"`
	Value     int       `gorm:"not null"                                    json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
