// Package handlers contains the HTTP handlers behind the feira JSON API.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"gorm.io/gorm"

	"feira/internal/calc"
	applog "feira/internal/log"
	"feira/models"
)

// maxImportSize caps the request body accepted by the workspace import.
const maxImportSize = 5 << 20

var database *gorm.DB

// Configure installs the shared database handle used by the HTTP handlers.
func Configure(db *gorm.DB) {
	database = db
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		applog.Error(context.Background(), "failed to encode json response", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// validationMessage strips the package framing from schema violations so API
// clients see just the offending element and reason.
func validationMessage(err error) string {
	var verr *calc.ValidationError
	if errors.As(err, &verr) {
		return fmt.Sprintf("%s: %s", verr.Element, verr.Reason)
	}
	return err.Error()
}

// loadCatalog returns every stored ingredient in calculator form.
func loadCatalog(ctx context.Context) ([]calc.Ingredient, error) {
	var records []models.Ingredient
	if err := database.WithContext(ctx).Order("name asc").Find(&records).Error; err != nil {
		return nil, err
	}
	catalog := make([]calc.Ingredient, 0, len(records))
	for _, record := range records {
		catalog = append(catalog, models.CatalogEntry(record))
	}
	return catalog, nil
}

// knownIngredientNames returns the set of catalog names currently stored.
func knownIngredientNames(ctx context.Context) (map[string]struct{}, error) {
	var names []string
	if err := database.WithContext(ctx).Model(&models.Ingredient{}).Pluck("name", &names).Error; err != nil {
		return nil, err
	}
	known := make(map[string]struct{}, len(names))
	for _, name := range names {
		known[name] = struct{}{}
	}
	return known, nil
}

// findRecipe loads a recipe with its items. A sql.ErrNoRows-style miss is
// reported through gorm.ErrRecordNotFound.
func findRecipe(ctx context.Context, id uint) (models.Recipe, error) {
	var record models.Recipe
	err := database.WithContext(ctx).Preload("Items").First(&record, id).Error
	return record, err
}
