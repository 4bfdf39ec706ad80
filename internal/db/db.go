package db

import (
	"farejo/internal/models"
	"farejo/internal/utils"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open connects to Postgres and migrates the listing tables.
func Open(dsn string) (*gorm.DB, error) {
	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: utils.GetGormLogger(),
	})
	if err != nil {
		return nil, err
	}
	utils.LogInfo("Database connection established")

	if err := Migrate(conn); err != nil {
		return nil, err
	}
	utils.LogInfo("Database migration completed")
	return conn, nil
}

func Migrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&models.Listing{},
		&models.Sighting{},
		&models.Report{},
	)
}
