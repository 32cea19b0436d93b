package models

import "gorm.io/gorm"

// Category is a seeded lookup row backing the dashboard's filter dropdown.
// Products store category as free text; there is deliberately no foreign
// key to this table.
type Category struct {
	gorm.Model
	Name string `gorm:"size:255;not null;uniqueIndex" json:"name"`
}
