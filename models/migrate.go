package models

import (
	"gorm.io/gorm"
)

// AutoMigrate creates or updates every table the API uses. Parent tables
// come first so foreign key constraints resolve.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Region{},
		&University{},
		&College{},
		&School{},
		&Module{},
		&Lecturer{},
		&Teaching{},
		&YearRanking{},
		&UniversityRanking{},
		&User{},
		&Profile{},
		&Comment{},
		&Rating{},
		&Follow{},
		&Notification{},
		&VisitHistory{},
	)
}
