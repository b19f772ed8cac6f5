// Package sample carries the starter workspace shipped with the
// application: a small Brazilian grocery catalog and two weeknight recipes.
// Fresh copies are returned on every call so callers can mutate freely.
package sample

import (
	"feira/internal/calc"
)

// Document returns the starter workspace as a bulk interchange document.
func Document() calc.Document {
	return calc.Document{
		Ingredients: Ingredients(),
		Recipes:     Recipes(),
	}
}

// Ingredients returns the starter catalog.
func Ingredients() []calc.Ingredient {
	return []calc.Ingredient{
		{Name: "Cebola", PurchaseUnit: "kg", YieldRatio: 0.88, Price: f(6.90), KcalPer100g: f(40)},
		{Name: "Alho", PurchaseUnit: "kg", YieldRatio: 0.92, Price: f(24.00), KcalPer100g: f(149)},
		{Name: "Tomate", PurchaseUnit: "kg", YieldRatio: 0.90, Price: f(8.50), KcalPer100g: f(18)},
		{Name: "Cenoura", PurchaseUnit: "kg", YieldRatio: 0.85, Price: f(7.90), KcalPer100g: f(41)},
		{Name: "Batata inglesa", PurchaseUnit: "kg", YieldRatio: 0.85, Price: f(5.90), KcalPer100g: f(77)},
		{Name: "Alface americana", PurchaseUnit: "un", YieldRatio: 0.80, Price: f(6.50), KcalPer100g: f(15)},
		{Name: "Peito de frango", PurchaseUnit: "kg", YieldRatio: 0.90, Price: f(22.90), KcalPer100g: f(165)},
		{Name: "Coxão mole (limpo)", PurchaseUnit: "kg", YieldRatio: 0.80, Price: f(34.90), KcalPer100g: f(217)},
		{Name: "Arroz branco (cru)", PurchaseUnit: "kg", YieldRatio: 1.00, Price: f(6.20), KcalPer100g: f(365)},
		{Name: "Feijão carioca (cru)", PurchaseUnit: "kg", YieldRatio: 1.00, Price: f(9.50), KcalPer100g: f(333)},
		{Name: "Azeite", PurchaseUnit: "ml", YieldRatio: 1.00, Price: f(34.90), KcalPer100g: f(884), DensityGPerML: f(0.91)},
		{Name: "Ovo", PurchaseUnit: "un", YieldRatio: 1.00, Price: f(0.90), KcalPerUnit: f(68)},
		{Name: "Leite", PurchaseUnit: "ml", YieldRatio: 1.00, Price: f(5.50), KcalPer100g: f(61), DensityGPerML: f(1.03)},
		{Name: "Farinha de trigo", PurchaseUnit: "kg", YieldRatio: 1.00, Price: f(5.20), KcalPer100g: f(364)},
		{Name: "Mussarela", PurchaseUnit: "kg", YieldRatio: 0.98, Price: f(38.00), KcalPer100g: f(280)},
		{Name: "Tilápia (filé)", PurchaseUnit: "kg", YieldRatio: 0.95, Price: f(42.00), KcalPer100g: f(96)},
	}
}

// Recipes returns the starter recipes.
func Recipes() []calc.Recipe {
	return []calc.Recipe{
		{
			Name: "Frango grelhado + arroz + salada",
			Items: []calc.RecipeItem{
				{Ingredient: "Peito de frango", PerPersonPL: 150, Unit: "g", CookingFactor: 0.88},
				{Ingredient: "Arroz branco (cru)", PerPersonPL: 70, Unit: "g", CookingFactor: 2.7, Note: "Fator de cozimento → peso servido"},
				{Ingredient: "Alface americana", PerPersonPL: 100, Unit: "g", CookingFactor: 1.0},
				{Ingredient: "Tomate", PerPersonPL: 60, Unit: "g", CookingFactor: 1.0},
				{Ingredient: "Cebola", PerPersonPL: 20, Unit: "g", CookingFactor: 0.9},
				{Ingredient: "Azeite", PerPersonPL: 10, Unit: "ml", CookingFactor: 1.0},
			},
		},
		{
			Name: "Tilápia assada + batata + salada",
			Items: []calc.RecipeItem{
				{Ingredient: "Tilápia (filé)", PerPersonPL: 160, Unit: "g", CookingFactor: 0.92},
				{Ingredient: "Batata inglesa", PerPersonPL: 200, Unit: "g", CookingFactor: 0.85},
				{Ingredient: "Alface americana", PerPersonPL: 80, Unit: "g", CookingFactor: 1.0},
				{Ingredient: "Tomate", PerPersonPL: 60, Unit: "g", CookingFactor: 1.0},
				{Ingredient: "Cebola", PerPersonPL: 15, Unit: "g", CookingFactor: 0.9},
				{Ingredient: "Azeite", PerPersonPL: 10, Unit: "ml", CookingFactor: 1.0},
			},
		},
	}
}

func f(v float64) *float64 {
	return &v
}
