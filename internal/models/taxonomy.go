package models

import (
	"gorm.io/gorm"
)

// ThemeTag labels trip character (wildlife, culture, ...). Many-to-many
// with templates.
type ThemeTag struct {
	gorm.Model
	Name string `json:"name" gorm:"uniqueIndex"`
}

// TripCategory is a coarse exclusive classification (safari, private-group,
// ...). Used as a hard filter, never scored.
type TripCategory struct {
	gorm.Model
	Name string `json:"name" gorm:"uniqueIndex"`
}
