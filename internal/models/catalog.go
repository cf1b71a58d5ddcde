package models

import (
	"strings"

	"gorm.io/gorm"
)

// Ingredient is static catalog data loaded by the admin import.
type Ingredient struct {
	ID              uint   `gorm:"primarykey" json:"id"`
	Name            string `gorm:"size:200;not null;uniqueIndex:idx_ingredient_name_unit" json:"name" yaml:"name"`
	MeasurementUnit string `gorm:"size:200;not null;uniqueIndex:idx_ingredient_name_unit" json:"measurement_unit" yaml:"measurement_unit"`
	// SearchName is Name folded to lower case in Go. SQLite's LOWER only
	// folds ASCII, so search never lowercases in SQL.
	SearchName string `gorm:"size:200;not null;default:'';index" json:"-" yaml:"-"`
}

func (i *Ingredient) BeforeSave(*gorm.DB) error {
	i.SearchName = strings.ToLower(i.Name)
	return nil
}

type Tag struct {
	ID    uint   `gorm:"primarykey" json:"id"`
	Name  string `gorm:"size:200;not null;uniqueIndex" json:"name" yaml:"name"`
	Color string `gorm:"size:7;not null;uniqueIndex" json:"color" yaml:"color"`
	Slug  string `gorm:"size:200;not null;uniqueIndex" json:"slug" yaml:"slug"`
}
