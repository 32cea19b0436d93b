package seeders

import (
	"github.com/nkhandel/bookstock/internal/models"
	"gorm.io/gorm"
)

func init() {
	Register("categories", SeedCategories)
}

// CategoryNames is the fixed catalog behind the dashboard's filter
// dropdown. Products keep category as free text, so editing this list
// never rewrites existing records.
var CategoryNames = []string{
	"Fiction",
	"Non-Fiction",
	"Fantasy",
	"Mystery",
	"Biography",
	"History",
	"Children",
	"Horror",
	"Comedy",
	"Romance",
	"Adventure",
	"Documentary",
	"Drama",
	"Comics",
}

// SeedCategories ensures every catalog entry exists. Safe to run any
// number of times; existing rows are left untouched.
func SeedCategories(db *gorm.DB) error {
	for _, name := range CategoryNames {
		var category models.Category
		err := db.FirstOrCreate(&category, models.Category{Name: name}).Error
		if err != nil {
			return err
		}
	}
	return nil
}
