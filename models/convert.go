package models

import (
	"sort"

	"feira/internal/calc"
)

// CatalogEntry converts a stored ingredient into its calculator form.
func CatalogEntry(record Ingredient) calc.Ingredient {
	return calc.Ingredient{
		Name:          record.Name,
		PurchaseUnit:  record.PurchaseUnit,
		YieldRatio:    record.YieldRatio,
		Price:         record.Price,
		KcalPer100g:   record.KcalPer100g,
		KcalPerUnit:   record.KcalPerUnit,
		DensityGPerML: record.DensityGPerML,
	}
}

// CatalogRecord converts a catalog entry into its database row.
func CatalogRecord(entry calc.Ingredient) Ingredient {
	return Ingredient{
		Name:          entry.Name,
		PurchaseUnit:  entry.PurchaseUnit,
		YieldRatio:    entry.YieldRatio,
		Price:         entry.Price,
		KcalPer100g:   entry.KcalPer100g,
		KcalPerUnit:   entry.KcalPerUnit,
		DensityGPerML: entry.DensityGPerML,
	}
}

// RecipeDefinition converts a stored recipe into its calculator form. Items
// are ordered by their Position column so line order survives storage.
func RecipeDefinition(record Recipe) calc.Recipe {
	items := make([]RecipeItem, len(record.Items))
	copy(items, record.Items)
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Position != items[j].Position {
			return items[i].Position < items[j].Position
		}
		return items[i].ID < items[j].ID
	})

	definition := calc.Recipe{Name: record.Name}
	for _, item := range items {
		definition.Items = append(definition.Items, calc.RecipeItem{
			Ingredient:    item.IngredientName,
			PerPersonPL:   item.PerPersonPL,
			Unit:          item.Unit,
			CookingFactor: item.CookingFactor,
			Note:          item.Note,
		})
	}
	return definition
}

// RecipeRecord converts a recipe definition into its database row, assigning
// Position from line order.
func RecipeRecord(definition calc.Recipe) Recipe {
	record := Recipe{Name: definition.Name}
	for i, item := range definition.Items {
		record.Items = append(record.Items, RecipeItem{
			Position:       i,
			IngredientName: item.Ingredient,
			PerPersonPL:    item.PerPersonPL,
			Unit:           item.Unit,
			CookingFactor:  item.CookingFactor,
			Note:           item.Note,
		})
	}
	return record
}
