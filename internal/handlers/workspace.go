package handlers

import (
	"errors"
	"io"
	"net/http"

	"gorm.io/gorm"

	"feira/internal/calc"
	applog "feira/internal/log"
	"feira/models"
)

type importResponse struct {
	Ingredients *int `json:"ingredients"`
	Recipes     *int `json:"recipes"`
}

// WorkspaceExport streams the whole workspace as a bulk document download.
func WorkspaceExport(w http.ResponseWriter, r *http.Request) {
	if database == nil {
		applog.Debug(r.Context(), "workspace export without database")
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()

	catalog, err := loadCatalog(ctx)
	if err != nil {
		applog.Error(ctx, "failed to load catalog for export", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to export workspace")
		return
	}

	var records []models.Recipe
	if err := database.WithContext(ctx).Preload("Items").Order("name asc").Find(&records).Error; err != nil {
		applog.Error(ctx, "failed to load recipes for export", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to export workspace")
		return
	}

	doc := calc.Document{Ingredients: catalog}
	for _, record := range records {
		doc.Recipes = append(doc.Recipes, models.RecipeDefinition(record))
	}

	payload, err := calc.EncodeDocument(doc)
	if err != nil {
		applog.Error(ctx, "failed to encode workspace document", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to export workspace")
		return
	}

	applog.Debug(ctx, "workspace exported", "ingredients", len(doc.Ingredients), "recipes", len(doc.Recipes))

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="feira-dados.json"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(payload); err != nil {
		applog.Error(ctx, "failed to write workspace export", "error", err)
	}
}

// WorkspaceImport replaces workspace sections with the uploaded document. A
// section missing from the document is left untouched; an empty array wipes
// the section.
func WorkspaceImport(w http.ResponseWriter, r *http.Request) {
	if database == nil {
		applog.Debug(r.Context(), "workspace import without database")
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportSize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSONError(w, http.StatusRequestEntityTooLarge, "document too large")
			return
		}
		applog.Error(ctx, "failed to read import body", "error", err)
		writeJSONError(w, http.StatusBadRequest, "unable to read request body")
		return
	}

	doc, err := calc.ParseDocument(body)
	if err != nil {
		applog.Debug(ctx, "rejected workspace document", "error", err)
		writeJSONError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	// The document may repeat a name; storage keys on it, so collapse
	// duplicates before touching the store.
	doc = calc.NormalizeDocument(doc)

	err = database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if doc.Ingredients != nil {
			if err := tx.Unscoped().Where("1 = 1").Delete(&models.Ingredient{}).Error; err != nil {
				return err
			}
			for _, entry := range doc.Ingredients {
				record := models.CatalogRecord(entry)
				if err := tx.Create(&record).Error; err != nil {
					return err
				}
			}
		}
		if doc.Recipes != nil {
			if err := tx.Unscoped().Where("1 = 1").Delete(&models.RecipeItem{}).Error; err != nil {
				return err
			}
			if err := tx.Unscoped().Where("1 = 1").Delete(&models.Recipe{}).Error; err != nil {
				return err
			}
			for _, definition := range doc.Recipes {
				record := models.RecipeRecord(definition)
				if err := tx.Create(&record).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		applog.Error(ctx, "failed to import workspace document", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to import workspace")
		return
	}

	resp := importResponse{}
	if doc.Ingredients != nil {
		n := len(doc.Ingredients)
		resp.Ingredients = &n
	}
	if doc.Recipes != nil {
		n := len(doc.Recipes)
		resp.Recipes = &n
	}

	applog.Info(ctx, "workspace imported",
		"ingredients", len(doc.Ingredients),
		"recipes", len(doc.Recipes),
		"replaced_ingredients", doc.Ingredients != nil,
		"replaced_recipes", doc.Recipes != nil,
	)
	writeJSON(w, http.StatusOK, resp)
}
