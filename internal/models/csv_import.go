package models

import "time"

// UploadCsvImport is one queued import request: the archive to process and
// the identity the final notification event correlates to.
type UploadCsvImport struct {
	ID        uint   `gorm:"primaryKey"`
	FileURL   string `gorm:"column:file_url"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (UploadCsvImport) TableName() string {
	return "upload_csv_imports"
}

// PublicURL returns the downloadable location of the archive.
func (u *UploadCsvImport) PublicURL() string {
	return u.FileURL
}
