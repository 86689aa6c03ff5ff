package models

import (
	"gorm.io/gorm"
)

type Company struct {
	gorm.Model
	Name string `json:"name"`
}

type Guide struct {
	gorm.Model
	Name string `json:"name"`
}
