package models

import (
	"gorm.io/gorm"
)

type RecipeItem struct {
	gorm.Model
	RecipeID uint `gorm:"not null;index" json:"recipe_id"` // Parent Recipe
	Position int  `gorm:"not null;default:0" json:"position"`

	// The catalog link is by name only, so recipe lines survive catalog
	// edits and bulk imports. Unresolved names fall back at computation
	// time instead of failing.
	IngredientName string  `gorm:"not null" json:"ingredient"`
	PerPersonPL    float64 `gorm:"not null" json:"per_person_pl"`
	Unit           string  `gorm:"not null;default:g" json:"unit"`
	CookingFactor  float64 `gorm:"not null;default:1" json:"fc"`
	Note           string  `json:"note"`
}
