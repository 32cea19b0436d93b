package models

import "gorm.io/gorm"

// Product is one inventory record, identified by its barcode. Both barcode
// and name carry unique indexes; the database, not the validator, is the
// authority on uniqueness.
type Product struct {
	gorm.Model
	Barcode     string  `gorm:"size:255;not null;uniqueIndex" json:"barcode"`
	Name        string  `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Description string  `gorm:"type:text"                     json:"description"`
	Price       float64 `gorm:"not null;default:0"            json:"price"`
	Quantity    int     `gorm:"not null;default:0"            json:"quantity"`
	Category    string  `gorm:"size:255;not null"             json:"category"`
}
