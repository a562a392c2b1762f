package models

import (
	"log"

	"gorm.io/gorm"
)

// AutoMigrate creates or updates all tables
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	if err := db.AutoMigrate(
		&QuotaRecord{},
		&VideoAsset{},
		&Like{},
		&Comment{},
		&Follow{},
		&Profile{},
		&AlertRecord{},
		&NotificationLog{},
	); err != nil {
		return err
	}

	log.Println("Database migrations completed")
	return nil
}
