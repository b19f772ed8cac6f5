package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"feira/internal/calc"
	"feira/internal/export"
	applog "feira/internal/log"
	"feira/models"
)

// defaultPeople is the serving count assumed when the query does not name one.
const defaultPeople = 4

func shoppingList(w http.ResponseWriter, r *http.Request, recipeID uint) {
	ctx := r.Context()

	record, err := findRecipe(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			applog.Debug(ctx, "shopping list for unknown recipe", "id", recipeID)
			http.NotFound(w, r)
			return
		}
		applog.Error(ctx, "failed to load recipe for shopping list", "error", err, "id", recipeID)
		writeJSONError(w, http.StatusInternalServerError, "unable to load recipe")
		return
	}

	query := r.URL.Query()

	people := defaultPeople
	if raw := strings.TrimSpace(query.Get("people")); raw != "" {
		people, err = strconv.Atoi(raw)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "people must be an integer")
			return
		}
	}

	target := 0.0
	if raw := strings.TrimSpace(query.Get("target")); raw != "" {
		target, err = strconv.ParseFloat(raw, 64)
		if err != nil || target < 0 {
			writeJSONError(w, http.StatusBadRequest, "target must be a non-negative number of grams")
			return
		}
	}

	format := strings.ToLower(strings.TrimSpace(query.Get("format")))
	switch format {
	case "", "json", "csv":
	default:
		writeJSONError(w, http.StatusBadRequest, "format must be json or csv")
		return
	}

	catalog, err := loadCatalog(ctx)
	if err != nil {
		applog.Error(ctx, "failed to load catalog for shopping list", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to load ingredients")
		return
	}

	rows, summary, err := calc.Compute(catalog, models.RecipeDefinition(record), people, target)
	if err != nil {
		if errors.Is(err, calc.ErrPersonCount) {
			writeJSONError(w, http.StatusBadRequest, "people must be at least 1")
			return
		}
		applog.Error(ctx, "failed to compute shopping list", "error", err, "id", recipeID)
		writeJSONError(w, http.StatusInternalServerError, "unable to compute shopping list")
		return
	}

	applog.Debug(ctx, "shopping list computed", "recipe", record.Name, "people", people, "rows", len(rows))

	if format == "csv" {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="lista-de-compras.csv"`)
		if err := export.WriteCSV(w, rows); err != nil {
			applog.Error(ctx, "failed to write shopping list csv", "error", err, "id", recipeID)
		}
		return
	}

	payload, err := export.MarshalList(rows, summary)
	if err != nil {
		applog.Error(ctx, "failed to encode shopping list", "error", err, "id", recipeID)
		writeJSONError(w, http.StatusInternalServerError, "unable to encode shopping list")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(payload); err != nil {
		applog.Error(ctx, "failed to write shopping list response", "error", err, "id", recipeID)
	}
}
