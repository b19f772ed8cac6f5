package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"feira/models"
)

func pointSQLiteAt(t *testing.T, dbPath string) {
	t.Helper()

	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_URL", "")
	t.Setenv("DATABASE_PATH", dbPath)
}

func writeDocument(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write document: %v", err)
	}
	return path
}

func openStore(t *testing.T, dbPath string) *gorm.DB {
	t.Helper()

	store, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := store.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return store
}

func TestRunReplacesOnlyDocumentSections(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "feira.db")
	pointSQLiteAt(t, dbPath)

	full := `{
  "ingredients": [
    {"name": "Sal", "unitPurchase": "kg", "rl": 1, "price": 3.2, "kcal_per_100g": null, "kcal_per_unit": null, "density_g_per_ml": null},
    {"name": "Ovo", "unitPurchase": "un", "rl": 1, "price": 0.9, "kcal_per_100g": null, "kcal_per_unit": 68, "density_g_per_ml": null},
    {"name": "Sal", "unitPurchase": "kg", "rl": 1, "price": 4.5, "kcal_per_100g": null, "kcal_per_unit": null, "density_g_per_ml": null}
  ],
  "recipes": [
    {"name": "Ovos com sal", "items": [
      {"ingredient": "Ovo", "perPersonPL": 2, "unit": "un", "fc": 1, "note": ""},
      {"ingredient": "Sal", "perPersonPL": 1, "unit": "g", "fc": 1, "note": ""}
    ]}
  ]
}`
	if err := run(writeDocument(t, "full.json", full)); err != nil {
		t.Fatalf("run returned error: %v", err)
	}

	store := openStore(t, dbPath)

	var ingredientCount int64
	if err := store.Model(&models.Ingredient{}).Count(&ingredientCount).Error; err != nil {
		t.Fatalf("count ingredients: %v", err)
	}
	if ingredientCount != 2 {
		t.Fatalf("expected duplicate names collapsed to 2 ingredients, got %d", ingredientCount)
	}

	var sal models.Ingredient
	if err := store.Where("name = ?", "Sal").First(&sal).Error; err != nil {
		t.Fatalf("fetch Sal: %v", err)
	}
	if sal.Price == nil || *sal.Price != 4.5 {
		t.Fatalf("expected the last duplicate to win, got %v", sal.Price)
	}

	var itemCount int64
	if err := store.Model(&models.RecipeItem{}).Count(&itemCount).Error; err != nil {
		t.Fatalf("count recipe items: %v", err)
	}
	if itemCount != 2 {
		t.Fatalf("expected 2 recipe items, got %d", itemCount)
	}

	// A recipes-only document must leave the catalog alone.
	recipesOnly := `{
  "recipes": [
    {"name": "Ovo cozido", "items": [
      {"ingredient": "Ovo", "perPersonPL": 1, "unit": "un", "fc": 1, "note": ""}
    ]}
  ]
}`
	if err := run(writeDocument(t, "recipes.json", recipesOnly)); err != nil {
		t.Fatalf("second run returned error: %v", err)
	}

	if err := store.Model(&models.Ingredient{}).Count(&ingredientCount).Error; err != nil {
		t.Fatalf("recount ingredients: %v", err)
	}
	if ingredientCount != 2 {
		t.Fatalf("expected catalog untouched, got %d ingredients", ingredientCount)
	}

	var recipes []models.Recipe
	if err := store.Find(&recipes).Error; err != nil {
		t.Fatalf("list recipes: %v", err)
	}
	if len(recipes) != 1 || recipes[0].Name != "Ovo cozido" {
		t.Fatalf("expected recipes replaced, got %v", recipes)
	}
}

func TestRunRejectsMissingDocument(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "feira.db")
	pointSQLiteAt(t, dbPath)

	err := run(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "locate document") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunRejectsInvalidDocument(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "feira.db")
	pointSQLiteAt(t, dbPath)

	path := writeDocument(t, "bad.json", `{"ingredients": [{"name": "Sal", "unitPurchase": "saco", "rl": 1}]}`)
	err := run(path)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), `unknown purchase unit "saco"`) {
		t.Fatalf("unexpected error: %v", err)
	}
}
