package models

import (
	"gorm.io/gorm"
)

// Canonical continent codes stored on Country.Continent.
const (
	ContinentAfrica              = "AFRICA"
	ContinentAsia                = "ASIA"
	ContinentEurope              = "EUROPE"
	ContinentNorthCentralAmerica = "NORTH_AND_CENTRAL_AMERICA"
	ContinentSouthAmerica        = "SOUTH_AMERICA"
	ContinentOceania             = "OCEANIA"
	ContinentAntarctica          = "ANTARCTICA"
)

type Country struct {
	gorm.Model
	Name      string `json:"name" gorm:"uniqueIndex"`
	Continent string `json:"continent"`
}
