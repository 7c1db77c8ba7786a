// Package models contains database model definitions.
package models

const (
	// DefaultDarkMode is the display mode used when the settings row is created.
	DefaultDarkMode = false

	// DefaultSlideInterval is the slide interval in milliseconds used when the settings row is created.
	DefaultSlideInterval = 3000

	// MinSlideInterval is the smallest accepted slide interval in milliseconds.
	MinSlideInterval = 1000
)

// Settings is the single display configuration record stored in the database.
type Settings struct {
	// ID is the opaque identifier of the record.
	ID string `gorm:"primaryKey;size:64" json:"id" validate:"required"`
	// DarkMode switches the front end to its dark theme.
	DarkMode bool `gorm:"not null" json:"dark_mode"`
	// SlideInterval is the time between slides in milliseconds.
	SlideInterval int `gorm:"not null" json:"slide_interval" validate:"gte=1000"`
}

// TableName pins the table name used by the migrations.
func (Settings) TableName() string {
	return "settings"
}

// DefaultSettings returns the record created on first access, with the given id.
func DefaultSettings(id string) Settings {
	return Settings{
		ID:            id,
		DarkMode:      DefaultDarkMode,
		SlideInterval: DefaultSlideInterval,
	}
}
