package models

import (
	"gorm.io/gorm"
)

type Recipe struct {
	gorm.Model
	Name  string       `gorm:"uniqueIndex;not null" json:"name"`
	Items []RecipeItem `gorm:"foreignKey:RecipeID" json:"items"`
}
