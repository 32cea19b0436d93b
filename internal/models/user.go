package models

import "gorm.io/gorm"

// User is a staff account that can log in to manage the inventory.
type User struct {
	gorm.Model
	Name     string `gorm:"size:255;not null"             json:"name"`
	Email    string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password string `gorm:"size:255;not null"             json:"-"` // hashed, never serialised
}
