package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"feira/internal/calc"
	applog "feira/internal/log"
	"feira/models"
)

type recipeItemResponse struct {
	Ingredient    string  `json:"ingredient"`
	PerPersonPL   float64 `json:"perPersonPL"`
	Unit          string  `json:"unit"`
	CookingFactor float64 `json:"fc"`
	Note          string  `json:"note"`
}

type recipeResponse struct {
	ID        uint                 `json:"id"`
	Name      string               `json:"name"`
	Items     []recipeItemResponse `json:"items"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

type recipeRequest struct {
	Name  string            `json:"name"`
	Items []calc.RecipeItem `json:"items"`
}

// RecipeResource handles REST-style interactions with stored recipes,
// including the shopping list sub-resource.
func RecipeResource(w http.ResponseWriter, r *http.Request) {
	if database == nil {
		applog.Debug(r.Context(), "recipe request without database")
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/recipes")
	path = strings.Trim(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			listRecipes(w, r)
		case http.MethodPost:
			createRecipe(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}

	segments := strings.Split(path, "/")
	idValue, err := strconv.ParseUint(segments[0], 10, 64)
	if err != nil {
		applog.Debug(r.Context(), "invalid recipe identifier", "identifier", segments[0], "error", err)
		http.NotFound(w, r)
		return
	}
	recipeID := uint(idValue)

	if len(segments) > 1 && segments[1] == "shopping-list" {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		shoppingList(w, r, recipeID)
		return
	}

	switch r.Method {
	case http.MethodGet:
		showRecipe(w, r, recipeID)
	case http.MethodPut:
		updateRecipe(w, r, recipeID)
	case http.MethodDelete:
		deleteRecipe(w, r, recipeID)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func listRecipes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var records []models.Recipe
	if err := database.WithContext(ctx).Preload("Items").Order("name asc").Find(&records).Error; err != nil {
		applog.Error(ctx, "failed to list recipes", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load recipes")
		return
	}

	responses := make([]recipeResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, projectRecipe(record))
	}
	writeJSON(w, http.StatusOK, responses)
}

func showRecipe(w http.ResponseWriter, r *http.Request, recipeID uint) {
	ctx := r.Context()
	record, err := findRecipe(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			applog.Debug(ctx, "recipe not found", "id", recipeID)
			http.NotFound(w, r)
			return
		}
		applog.Error(ctx, "failed to load recipe", "error", err, "id", recipeID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load recipe")
		return
	}
	writeJSON(w, http.StatusOK, projectRecipe(record))
}

func createRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	definition, ok := decodeRecipePayload(w, r)
	if !ok {
		return
	}

	var count int64
	if err := database.WithContext(ctx).Model(&models.Recipe{}).Where("name = ?", definition.Name).Count(&count).Error; err != nil {
		applog.Error(ctx, "failed to check recipe name availability", "error", err, "name", definition.Name)
		writeJSONError(w, http.StatusInternalServerError, "unable to create recipe")
		return
	}
	if count > 0 {
		writeJSONError(w, http.StatusConflict, "recipe already exists")
		return
	}

	record := models.RecipeRecord(definition)
	if err := database.WithContext(ctx).Create(&record).Error; err != nil {
		applog.Error(ctx, "failed to create recipe", "error", err, "name", definition.Name)
		writeJSONError(w, http.StatusInternalServerError, "unable to create recipe")
		return
	}

	created, err := findRecipe(ctx, record.ID)
	if err != nil {
		applog.Error(ctx, "failed to reload recipe after create", "error", err, "id", record.ID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load created recipe")
		return
	}
	writeJSON(w, http.StatusCreated, projectRecipe(created))
}

func updateRecipe(w http.ResponseWriter, r *http.Request, recipeID uint) {
	ctx := r.Context()
	record, err := findRecipe(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			applog.Debug(ctx, "update failed: recipe not found", "id", recipeID)
			http.NotFound(w, r)
			return
		}
		applog.Error(ctx, "failed to load recipe for update", "error", err, "id", recipeID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load recipe")
		return
	}

	definition, ok := decodeRecipePayload(w, r)
	if !ok {
		return
	}

	if definition.Name != record.Name {
		var count int64
		if err := database.WithContext(ctx).Model(&models.Recipe{}).Where("name = ? AND id <> ?", definition.Name, recipeID).Count(&count).Error; err != nil {
			applog.Error(ctx, "failed to check recipe name availability", "error", err, "name", definition.Name)
			writeJSONError(w, http.StatusInternalServerError, "unable to update recipe")
			return
		}
		if count > 0 {
			writeJSONError(w, http.StatusConflict, "recipe already exists")
			return
		}
	}

	replacement := models.RecipeRecord(definition)
	err = database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&record).Update("name", definition.Name).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("recipe_id = ?", recipeID).Delete(&models.RecipeItem{}).Error; err != nil {
			return err
		}
		for i := range replacement.Items {
			replacement.Items[i].RecipeID = recipeID
			if err := tx.Create(&replacement.Items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		applog.Error(ctx, "failed to update recipe", "error", err, "id", recipeID)
		writeJSONError(w, http.StatusInternalServerError, "unable to update recipe")
		return
	}

	updated, err := findRecipe(ctx, recipeID)
	if err != nil {
		applog.Error(ctx, "failed to reload recipe after update", "error", err, "id", recipeID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load updated recipe")
		return
	}
	writeJSON(w, http.StatusOK, projectRecipe(updated))
}

func deleteRecipe(w http.ResponseWriter, r *http.Request, recipeID uint) {
	ctx := r.Context()
	record, err := findRecipe(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			applog.Debug(ctx, "delete failed: recipe not found", "id", recipeID)
			http.NotFound(w, r)
			return
		}
		applog.Error(ctx, "failed to load recipe for delete", "error", err, "id", recipeID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load recipe")
		return
	}

	err = database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("recipe_id = ?", recipeID).Delete(&models.RecipeItem{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&record).Error
	})
	if err != nil {
		applog.Error(ctx, "failed to delete recipe", "error", err, "id", recipeID)
		writeJSONError(w, http.StatusInternalServerError, "unable to delete recipe")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// decodeRecipePayload reads and validates a recipe body. Items must reference
// catalog ingredients that already exist; the calculator tolerates dangling
// names, but accepting them on write would hide typos until list time.
func decodeRecipePayload(w http.ResponseWriter, r *http.Request) (calc.Recipe, bool) {
	ctx := r.Context()

	var payload recipeRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		applog.Debug(ctx, "invalid recipe payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return calc.Recipe{}, false
	}

	definition := calc.Recipe{
		Name:  strings.TrimSpace(payload.Name),
		Items: payload.Items,
	}
	if err := calc.ValidateRecipe(definition); err != nil {
		writeJSONError(w, http.StatusBadRequest, validationMessage(err))
		return calc.Recipe{}, false
	}

	known, err := knownIngredientNames(ctx)
	if err != nil {
		applog.Error(ctx, "failed to load ingredient names", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to validate recipe")
		return calc.Recipe{}, false
	}
	for _, item := range definition.Items {
		if _, ok := known[item.Ingredient]; !ok {
			writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("unknown ingredient %q", item.Ingredient))
			return calc.Recipe{}, false
		}
	}

	return definition, true
}

func projectRecipe(record models.Recipe) recipeResponse {
	definition := models.RecipeDefinition(record)
	items := make([]recipeItemResponse, 0, len(definition.Items))
	for _, item := range definition.Items {
		items = append(items, recipeItemResponse{
			Ingredient:    item.Ingredient,
			PerPersonPL:   item.PerPersonPL,
			Unit:          item.Unit,
			CookingFactor: item.CookingFactor,
			Note:          item.Note,
		})
	}

	return recipeResponse{
		ID:        record.ID,
		Name:      record.Name,
		Items:     items,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
}
