package models

import "gorm.io/gorm"

// User is an account. Role is "student" or "seller".
type User struct {
	gorm.Model
	Username  string `gorm:"size:150;not null;uniqueIndex" json:"username"`
	Email     string `gorm:"size:255;not null;index"       json:"email"`
	Password  string `gorm:"size:255;not null"             json:"-"`
	FirstName string `gorm:"size:150"                      json:"first_name"`
	LastName  string `gorm:"size:150"                      json:"last_name"`
	Role      string `gorm:"size:20;not null;index"        json:"role"`
}

func (u User) IsSeller() bool { return u.Role == "seller" }
