package models

import "time"

// Office is a centre that owns workspaces. Offices are created elsewhere;
// the import pipeline only checks that the referenced centre exists.
type Office struct {
	ID        string `gorm:"primaryKey"`
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Office) TableName() string {
	return "offices"
}
