package models

import (
	"gorm.io/gorm"
)

// Ingredient is one catalog entry: how the ingredient is bought, how much of
// it survives preparation, and what it contributes nutritionally. Optional
// attributes stay nil when the kitchen has not filled them in.
type Ingredient struct {
	gorm.Model
	Name         string  `gorm:"uniqueIndex;not null" json:"name"`
	PurchaseUnit string  `gorm:"not null;default:kg" json:"unit_purchase"`
	YieldRatio   float64 `gorm:"not null;default:1" json:"yield_ratio"`

	Price         *float64 `json:"price"`
	KcalPer100g   *float64 `json:"kcal_per_100g"`
	KcalPerUnit   *float64 `json:"kcal_per_unit"`
	DensityGPerML *float64 `json:"density_g_per_ml"`
}
