package models

import "time"

// WorkSpace is a leasable unit inside a centre. The pair
// (office_id, office_number) is its natural key within an import.
type WorkSpace struct {
	ID           uint    `gorm:"primaryKey"`
	OfficeID     string  `gorm:"column:office_id;index:idx_office_number,unique"`
	OfficeNumber string  `gorm:"column:office_number;index:idx_office_number,unique"`
	Type         *int    `gorm:"column:type"`
	Availability *string `gorm:"column:availability"`
	Description  string  `gorm:"column:description"`
	DeskFrom     string  `gorm:"column:desk_from"`
	DeskTo       string  `gorm:"column:desk_to"`
	Price        string  `gorm:"column:price"`
	Currency     string  `gorm:"column:currency;size:3"`
	Size         string  `gorm:"column:size"`
	Status       bool    `gorm:"column:status"`
	DispOnWeb    bool    `gorm:"column:disp_on_web"`
	// RemUnchangedCSV exempts the workspace from being disabled when it is
	// missing from an import. Read here, never written.
	RemUnchangedCSV bool `gorm:"column:rem_unchanged_csv"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (WorkSpace) TableName() string {
	return "work_spaces"
}

// WorkSpaceMedia is the single image attached to a workspace. A workspace
// holds at most one; an existing row blocks any further assignment.
type WorkSpaceMedia struct {
	ID          uint   `gorm:"primaryKey"`
	WorkspaceID uint   `gorm:"column:workspace_id;index"`
	Name        string `gorm:"column:name"`
	Type        string `gorm:"column:type"`
	URL         string `gorm:"column:url"`
	CreatedAt   time.Time
}

func (WorkSpaceMedia) TableName() string {
	return "work_space_media"
}
