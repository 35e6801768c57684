package database

import (
	"gorm.io/gorm"

	"github.com/bran921007/Import-CSV-on-zip-file/internal/models"
)

type Database interface {
	Connect(dsn string) (*gorm.DB, error)
	GetConnection() (*gorm.DB, error)
	Close() error
}

// Migrate creates or updates the tables the import pipeline touches.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Office{},
		&models.WorkSpace{},
		&models.WorkSpaceMedia{},
		&models.UploadCsvImport{},
	)
}
