package handlers

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"feira/models"
)

func withTestDatabase(t *testing.T) (*gorm.DB, func()) {
	t.Helper()
	original := database
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite database: %v", err)
	}
	if err := db.AutoMigrate(&models.Ingredient{}, &models.Recipe{}, &models.RecipeItem{}); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}
	database = db
	return db, func() {
		database = original
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}
}

func floatPtr(v float64) *float64 {
	return &v
}

// seedCatalog stores a small pantry covering the three purchase units.
func seedCatalog(t *testing.T, db *gorm.DB) {
	t.Helper()
	entries := []models.Ingredient{
		{Name: "Arroz", PurchaseUnit: "kg", YieldRatio: 1, Price: floatPtr(6.5), KcalPer100g: floatPtr(130)},
		{Name: "Azeite", PurchaseUnit: "ml", YieldRatio: 1, Price: floatPtr(0.04), KcalPer100g: floatPtr(884), DensityGPerML: floatPtr(0.91)},
		{Name: "Farinha de trigo", PurchaseUnit: "kg", YieldRatio: 1, KcalPer100g: floatPtr(364)},
		{Name: "Frango (peito)", PurchaseUnit: "kg", YieldRatio: 0.9, Price: floatPtr(17.9), KcalPer100g: floatPtr(165)},
		{Name: "Ovo", PurchaseUnit: "un", YieldRatio: 1, Price: floatPtr(0.9), KcalPerUnit: floatPtr(68)},
	}
	for i := range entries {
		if err := db.Create(&entries[i]).Error; err != nil {
			t.Fatalf("failed to seed ingredient %q: %v", entries[i].Name, err)
		}
	}
}

// seedRecipe stores a two line chicken and rice recipe and returns its ID.
func seedRecipe(t *testing.T, db *gorm.DB) uint {
	t.Helper()
	record := models.Recipe{
		Name: "Frango com arroz",
		Items: []models.RecipeItem{
			{Position: 0, IngredientName: "Frango (peito)", PerPersonPL: 150, Unit: "g", CookingFactor: 0.8},
			{Position: 1, IngredientName: "Arroz", PerPersonPL: 60, Unit: "g", CookingFactor: 2.5, Note: "cru"},
		},
	}
	if err := db.Create(&record).Error; err != nil {
		t.Fatalf("failed to seed recipe: %v", err)
	}
	return record.ID
}
