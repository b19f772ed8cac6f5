package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"feira/internal/calc"
	applog "feira/internal/log"
	"feira/models"
)

type ingredientResponse struct {
	ID            uint      `json:"id"`
	Name          string    `json:"name"`
	PurchaseUnit  string    `json:"unitPurchase"`
	YieldRatio    float64   `json:"rl"`
	Price         *float64  `json:"price"`
	KcalPer100g   *float64  `json:"kcal_per_100g"`
	KcalPerUnit   *float64  `json:"kcal_per_unit"`
	DensityGPerML *float64  `json:"density_g_per_ml"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// IngredientResource handles REST-style interactions with the ingredient
// catalog.
func IngredientResource(w http.ResponseWriter, r *http.Request) {
	if database == nil {
		applog.Debug(r.Context(), "ingredient request without database")
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/ingredients")
	path = strings.Trim(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			listIngredients(w, r)
		case http.MethodPost:
			createIngredient(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}

	idValue, err := strconv.ParseUint(path, 10, 64)
	if err != nil {
		applog.Debug(r.Context(), "invalid ingredient identifier", "identifier", path, "error", err)
		http.NotFound(w, r)
		return
	}
	ingredientID := uint(idValue)

	switch r.Method {
	case http.MethodGet:
		showIngredient(w, r, ingredientID)
	case http.MethodPut:
		updateIngredient(w, r, ingredientID)
	case http.MethodDelete:
		deleteIngredient(w, r, ingredientID)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func listIngredients(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var records []models.Ingredient
	if err := database.WithContext(ctx).Order("name asc").Find(&records).Error; err != nil {
		applog.Error(ctx, "failed to list ingredients", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load ingredients")
		return
	}

	responses := make([]ingredientResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, projectIngredient(record))
	}
	writeJSON(w, http.StatusOK, responses)
}

func showIngredient(w http.ResponseWriter, r *http.Request, ingredientID uint) {
	ctx := r.Context()
	var record models.Ingredient
	if err := database.WithContext(ctx).First(&record, ingredientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			applog.Debug(ctx, "ingredient not found", "id", ingredientID)
			http.NotFound(w, r)
			return
		}
		applog.Error(ctx, "failed to load ingredient", "error", err, "id", ingredientID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load ingredient")
		return
	}
	writeJSON(w, http.StatusOK, projectIngredient(record))
}

func createIngredient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var payload calc.Ingredient
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		applog.Debug(ctx, "invalid ingredient payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	payload.Name = strings.TrimSpace(payload.Name)

	if err := calc.ValidateIngredient(payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	var count int64
	if err := database.WithContext(ctx).Model(&models.Ingredient{}).Where("name = ?", payload.Name).Count(&count).Error; err != nil {
		applog.Error(ctx, "failed to check ingredient name availability", "error", err, "name", payload.Name)
		writeJSONError(w, http.StatusInternalServerError, "unable to create ingredient")
		return
	}
	if count > 0 {
		writeJSONError(w, http.StatusConflict, "ingredient already exists")
		return
	}

	record := models.CatalogRecord(payload)
	if err := database.WithContext(ctx).Create(&record).Error; err != nil {
		applog.Error(ctx, "failed to create ingredient", "error", err, "name", payload.Name)
		writeJSONError(w, http.StatusInternalServerError, "unable to create ingredient")
		return
	}

	writeJSON(w, http.StatusCreated, projectIngredient(record))
}

func updateIngredient(w http.ResponseWriter, r *http.Request, ingredientID uint) {
	ctx := r.Context()
	var record models.Ingredient
	if err := database.WithContext(ctx).First(&record, ingredientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			applog.Debug(ctx, "update failed: ingredient not found", "id", ingredientID)
			http.NotFound(w, r)
			return
		}
		applog.Error(ctx, "failed to load ingredient for update", "error", err, "id", ingredientID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load ingredient")
		return
	}

	var payload calc.Ingredient
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		applog.Debug(ctx, "invalid ingredient update payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	payload.Name = strings.TrimSpace(payload.Name)

	if err := calc.ValidateIngredient(payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	if payload.Name != record.Name {
		var count int64
		if err := database.WithContext(ctx).Model(&models.Ingredient{}).Where("name = ? AND id <> ?", payload.Name, ingredientID).Count(&count).Error; err != nil {
			applog.Error(ctx, "failed to check ingredient name availability", "error", err, "name", payload.Name)
			writeJSONError(w, http.StatusInternalServerError, "unable to update ingredient")
			return
		}
		if count > 0 {
			writeJSONError(w, http.StatusConflict, "ingredient already exists")
			return
		}
	}

	record.Name = payload.Name
	record.PurchaseUnit = payload.PurchaseUnit
	record.YieldRatio = payload.YieldRatio
	record.Price = payload.Price
	record.KcalPer100g = payload.KcalPer100g
	record.KcalPerUnit = payload.KcalPerUnit
	record.DensityGPerML = payload.DensityGPerML

	// Save rewrites every column so cleared optional figures become NULL.
	if err := database.WithContext(ctx).Save(&record).Error; err != nil {
		applog.Error(ctx, "failed to update ingredient", "error", err, "id", ingredientID)
		writeJSONError(w, http.StatusInternalServerError, "unable to update ingredient")
		return
	}

	writeJSON(w, http.StatusOK, projectIngredient(record))
}

func deleteIngredient(w http.ResponseWriter, r *http.Request, ingredientID uint) {
	ctx := r.Context()
	var record models.Ingredient
	if err := database.WithContext(ctx).First(&record, ingredientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			applog.Debug(ctx, "delete failed: ingredient not found", "id", ingredientID)
			http.NotFound(w, r)
			return
		}
		applog.Error(ctx, "failed to load ingredient for delete", "error", err, "id", ingredientID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load ingredient")
		return
	}

	// Hard delete so the unique name can be reused by a later entry.
	if err := database.WithContext(ctx).Unscoped().Delete(&record).Error; err != nil {
		applog.Error(ctx, "failed to delete ingredient", "error", err, "id", ingredientID)
		writeJSONError(w, http.StatusInternalServerError, "unable to delete ingredient")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func projectIngredient(record models.Ingredient) ingredientResponse {
	return ingredientResponse{
		ID:            record.ID,
		Name:          record.Name,
		PurchaseUnit:  record.PurchaseUnit,
		YieldRatio:    record.YieldRatio,
		Price:         record.Price,
		KcalPer100g:   record.KcalPer100g,
		KcalPerUnit:   record.KcalPerUnit,
		DensityGPerML: record.DensityGPerML,
		CreatedAt:     record.CreatedAt,
		UpdatedAt:     record.UpdatedAt,
	}
}
