package seeders

import (
	"gorm.io/gorm"

	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/app/models"
)

// CategoryNames is the fixed catalog taxonomy. Every product belongs to
// exactly one of these; the set is not runtime-configurable.
var CategoryNames = []string{
	"Electronics",
	"Books and Literature",
	"Clothing and Apparel",
	"Home and Kitchen",
	"Health and Beauty",
	"Sports and Outdoors",
	"Toys and Games",
	"Automotive",
	"Groceries",
	"Jewelry and Accessories",
	"Office Supplies",
	"Pet Supplies",
	"Music and Instruments",
	"Garden and Tools",
	"Baby Products",
	"Others",
}

func init() {
	Register("categories", SeedCategories)
}

// SeedCategories inserts any category from CategoryNames that does not
// exist yet. Safe to run repeatedly.
func SeedCategories(db *gorm.DB) error {
	for _, name := range CategoryNames {
		var count int64
		if err := db.Model(&models.Category{}).Where("name = ?", name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		if err := db.Create(&models.Category{Name: name}).Error; err != nil {
			return err
		}
	}
	return nil
}
