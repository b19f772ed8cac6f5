package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/gorm"

	"feira/internal/calc"
	"feira/internal/config"
	"feira/internal/db"
	"feira/models"
)

func main() {
	docPath := "feira-dados.json"
	if len(os.Args) > 1 {
		docPath = os.Args[1]
	}

	if err := run(docPath); err != nil {
		fmt.Fprintf(os.Stderr, "import failed: %v\n", err)
		os.Exit(1)
	}
}

func run(docPath string) error {
	if strings.TrimSpace(docPath) == "" {
		return fmt.Errorf("document path must not be empty")
	}

	if _, err := os.Stat(docPath); err != nil {
		return fmt.Errorf("locate document: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	database, err := db.Initialize(cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	if err := db.AutoMigrate(database); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	raw, err := os.ReadFile(docPath)
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}

	doc, err := calc.ParseDocument(raw)
	if err != nil {
		return err
	}
	doc = calc.NormalizeDocument(doc)

	if doc.Ingredients == nil && doc.Recipes == nil {
		fmt.Fprintf(os.Stdout, "Nothing to import: %s carries no sections\n", filepath.Base(docPath))
		return nil
	}

	if err := replaceSections(database, doc); err != nil {
		return err
	}

	parts := make([]string, 0, 2)
	if doc.Ingredients != nil {
		parts = append(parts, fmt.Sprintf("%d ingredients", len(doc.Ingredients)))
	}
	if doc.Recipes != nil {
		parts = append(parts, fmt.Sprintf("%d recipes", len(doc.Recipes)))
	}
	fmt.Fprintf(os.Stdout, "Imported %s from %s\n", strings.Join(parts, " and "), filepath.Base(docPath))
	return nil
}

// replaceSections swaps each section present in the document for its records.
// Sections absent from the document keep whatever the store already holds.
// Hard deletes keep the unique name indexes clear for the incoming rows.
func replaceSections(database *gorm.DB, doc calc.Document) error {
	return database.Transaction(func(tx *gorm.DB) error {
		if doc.Ingredients != nil {
			if err := tx.Unscoped().Where("1 = 1").Delete(&models.Ingredient{}).Error; err != nil {
				return fmt.Errorf("clear ingredients: %w", err)
			}
			for _, entry := range doc.Ingredients {
				record := models.CatalogRecord(entry)
				if err := tx.Create(&record).Error; err != nil {
					return fmt.Errorf("create ingredient %q: %w", entry.Name, err)
				}
			}
		}

		if doc.Recipes != nil {
			if err := tx.Unscoped().Where("1 = 1").Delete(&models.RecipeItem{}).Error; err != nil {
				return fmt.Errorf("clear recipe items: %w", err)
			}
			if err := tx.Unscoped().Where("1 = 1").Delete(&models.Recipe{}).Error; err != nil {
				return fmt.Errorf("clear recipes: %w", err)
			}
			for _, definition := range doc.Recipes {
				record := models.RecipeRecord(definition)
				if err := tx.Create(&record).Error; err != nil {
					return fmt.Errorf("create recipe %q: %w", definition.Name, err)
				}
			}
		}

		return nil
	})
}
