package models

import "gorm.io/gorm"

// Residence halls a student can live in.
var Hostels = []string{
	"SR", "GANDHI", "KRISHNA", "RAM", "BUDH", "SHANKAR",
	"VYAS", "RANAPRATAP", "VK", "ASHOK", "MEERA", "BHAGIRATH",
}

// Program (branch) codes that make up part of the student id.
var Branches = []string{
	"A7", "AA", "A8", "A3", "A4", "AB", "A2",
	"A1", "B5", "B1", "B2", "A5", "B4", "B3",
}

const (
	DefaultHostel      = "SR"
	DefaultRoomNo      = 100
	DefaultBranch      = "A7"
	DefaultSellerPhone = "9999999999"
)

// Profile is the student side of an account. ExternalID is derived once at
// creation and never recomputed.
type Profile struct {
	gorm.Model
	UserID     uint   `gorm:"not null;uniqueIndex"         json:"user_id"`
	Name       string `gorm:"size:15;not null"             json:"name"`
	ExternalID string `gorm:"size:64"                      json:"external_id"`
	Hostel     string `gorm:"size:20;not null;default:SR"  json:"hostel"`
	RoomNo     int    `gorm:"not null;default:100"         json:"room_no"`
	Branch     string `gorm:"size:2;not null;default:A7"   json:"branch"`
}

// SellerProfile is the seller side of an account.
type SellerProfile struct {
	gorm.Model
	UserID  uint   `gorm:"not null;uniqueIndex"                 json:"user_id"`
	PhoneNo string `gorm:"size:10;not null;default:9999999999" json:"phone_no"`
}
