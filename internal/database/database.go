package database

import (
	"log"

	"github.com/tripforge/trip-match-api/internal/config"
	"github.com/tripforge/trip-match-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func Connect(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto Migrate
	err = db.AutoMigrate(
		&models.Country{},
		&models.TripCategory{},
		&models.ThemeTag{},
		&models.Company{},
		&models.Guide{},
		&models.TripTemplate{},
		&models.TripOccurrence{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate: %v", err)
	}

	return db
}
