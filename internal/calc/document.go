package calc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Defensive bounds for documents arriving from untrusted sources.
const (
	maxDocumentIngredients = 5000
	maxDocumentRecipes     = 1000
	maxRecipeItems         = 500
)

// Ingredient is one catalog entry in the interchange shape: how the
// ingredient is bought and what it contributes nutritionally. Optional
// attributes stay nil and serialize as null.
type Ingredient struct {
	Name          string   `json:"name"`
	PurchaseUnit  string   `json:"unitPurchase"`
	YieldRatio    float64  `json:"rl"`
	Price         *float64 `json:"price"`
	KcalPer100g   *float64 `json:"kcal_per_100g"`
	KcalPerUnit   *float64 `json:"kcal_per_unit"`
	DensityGPerML *float64 `json:"density_g_per_ml"`
}

// RecipeItem is one recipe line: a net weight (or item count) per person of
// one ingredient in one consumption unit.
type RecipeItem struct {
	Ingredient    string  `json:"ingredient"`
	PerPersonPL   float64 `json:"perPersonPL"`
	Unit          string  `json:"unit"`
	CookingFactor float64 `json:"fc"`
	Note          string  `json:"note"`
}

// UnmarshalJSON applies the cooking-factor default: an absent fc means 1.0.
// An explicit zero is kept and treated as neutral at computation time.
func (it *RecipeItem) UnmarshalJSON(data []byte) error {
	type alias RecipeItem
	aux := alias{CookingFactor: 1}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&aux); err != nil {
		return err
	}
	*it = RecipeItem(aux)
	return nil
}

// Recipe names an ordered list of recipe lines.
type Recipe struct {
	Name  string       `json:"name"`
	Items []RecipeItem `json:"items"`
}

// Document is the bulk interchange payload carrying a whole workspace. On
// import a section left null means "keep what you have"; an empty array
// replaces the section with nothing.
type Document struct {
	Ingredients []Ingredient `json:"ingredients"`
	Recipes     []Recipe     `json:"recipes"`
}

// ValidationError reports a schema violation in an imported document and
// names the element that failed.
type ValidationError struct {
	Element string
	Reason  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("calc: invalid document: %s: %s", e.Element, e.Reason)
}

// ParseDocument decodes and validates a bulk workspace document. Unknown
// fields are rejected so typos in hand-edited documents surface instead of
// silently dropping data.
func ParseDocument(data []byte) (Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("calc: decode document: %w", err)
	}
	if err := ValidateDocument(doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// EncodeDocument renders the document in the indented interchange form.
// Null sections are written as empty arrays so exports always carry both.
func EncodeDocument(doc Document) ([]byte, error) {
	if doc.Ingredients == nil {
		doc.Ingredients = []Ingredient{}
	}
	if doc.Recipes == nil {
		doc.Recipes = []Recipe{}
	}
	return json.MarshalIndent(doc, "", "  ")
}

// ValidateDocument checks a document against the interchange schema. The
// first violation found is returned as a *ValidationError. Duplicate catalog
// names are tolerated; the calculator lets the last occurrence win.
func ValidateDocument(doc Document) error {
	if len(doc.Ingredients) > maxDocumentIngredients {
		return &ValidationError{Element: "ingredients", Reason: fmt.Sprintf("more than %d entries", maxDocumentIngredients)}
	}
	if len(doc.Recipes) > maxDocumentRecipes {
		return &ValidationError{Element: "recipes", Reason: fmt.Sprintf("more than %d entries", maxDocumentRecipes)}
	}

	for i, ing := range doc.Ingredients {
		element := fmt.Sprintf("ingredients[%d]", i)
		if strings.TrimSpace(ing.Name) == "" {
			return &ValidationError{Element: element, Reason: "ingredient name is required"}
		}
		if err := validateIngredient(ing, fmt.Sprintf("%s %q", element, ing.Name)); err != nil {
			return err
		}
	}

	for i, recipe := range doc.Recipes {
		element := fmt.Sprintf("recipes[%d]", i)
		if strings.TrimSpace(recipe.Name) == "" {
			return &ValidationError{Element: element, Reason: "recipe name is required"}
		}
		element = fmt.Sprintf("%s %q", element, recipe.Name)
		if len(recipe.Items) > maxRecipeItems {
			return &ValidationError{Element: element, Reason: fmt.Sprintf("more than %d items", maxRecipeItems)}
		}
		for j, item := range recipe.Items {
			if err := validateRecipeItem(item, fmt.Sprintf("%s.items[%d]", element, j)); err != nil {
				return err
			}
		}
	}

	return nil
}

// NormalizeDocument collapses entries that repeat a name within a section.
// The first occurrence keeps its position and the last occurrence supplies
// the value, matching how the calculator indexes the catalog. Nil sections
// stay nil so import semantics are preserved.
func NormalizeDocument(doc Document) Document {
	doc.Ingredients = dedupeIngredients(doc.Ingredients)
	doc.Recipes = dedupeRecipes(doc.Recipes)
	return doc
}

func dedupeIngredients(entries []Ingredient) []Ingredient {
	if entries == nil {
		return nil
	}
	deduped := make([]Ingredient, 0, len(entries))
	index := make(map[string]int, len(entries))
	for _, entry := range entries {
		if at, seen := index[entry.Name]; seen {
			deduped[at] = entry
			continue
		}
		index[entry.Name] = len(deduped)
		deduped = append(deduped, entry)
	}
	return deduped
}

func dedupeRecipes(recipes []Recipe) []Recipe {
	if recipes == nil {
		return nil
	}
	deduped := make([]Recipe, 0, len(recipes))
	index := make(map[string]int, len(recipes))
	for _, recipe := range recipes {
		if at, seen := index[recipe.Name]; seen {
			deduped[at] = recipe
			continue
		}
		index[recipe.Name] = len(deduped)
		deduped = append(deduped, recipe)
	}
	return deduped
}

// ValidateIngredient checks a single catalog entry outside a bulk document.
func ValidateIngredient(ing Ingredient) error {
	if strings.TrimSpace(ing.Name) == "" {
		return &ValidationError{Element: "ingredient", Reason: "ingredient name is required"}
	}
	return validateIngredient(ing, fmt.Sprintf("ingredient %q", ing.Name))
}

// ValidateRecipe checks a single recipe outside a bulk document.
func ValidateRecipe(recipe Recipe) error {
	if strings.TrimSpace(recipe.Name) == "" {
		return &ValidationError{Element: "recipe", Reason: "recipe name is required"}
	}
	element := fmt.Sprintf("recipe %q", recipe.Name)
	if len(recipe.Items) > maxRecipeItems {
		return &ValidationError{Element: element, Reason: fmt.Sprintf("more than %d items", maxRecipeItems)}
	}
	for i, item := range recipe.Items {
		if err := validateRecipeItem(item, fmt.Sprintf("%s.items[%d]", element, i)); err != nil {
			return err
		}
	}
	return nil
}

func validateIngredient(ing Ingredient, element string) error {
	switch ing.PurchaseUnit {
	case "kg", "ml", "un":
	default:
		return &ValidationError{Element: element, Reason: fmt.Sprintf("unknown purchase unit %q", ing.PurchaseUnit)}
	}
	if ing.Price != nil && *ing.Price < 0 {
		return &ValidationError{Element: element, Reason: "price cannot be negative"}
	}
	if ing.KcalPer100g != nil && *ing.KcalPer100g < 0 {
		return &ValidationError{Element: element, Reason: "kcal_per_100g cannot be negative"}
	}
	if ing.KcalPerUnit != nil && *ing.KcalPerUnit < 0 {
		return &ValidationError{Element: element, Reason: "kcal_per_unit cannot be negative"}
	}
	if ing.DensityGPerML != nil && *ing.DensityGPerML <= 0 {
		return &ValidationError{Element: element, Reason: "density_g_per_ml must be positive"}
	}
	return nil
}

func validateRecipeItem(item RecipeItem, element string) error {
	if strings.TrimSpace(item.Ingredient) == "" {
		return &ValidationError{Element: element, Reason: "ingredient reference is required"}
	}
	switch item.Unit {
	case "g", "ml", "un":
	default:
		return &ValidationError{Element: element, Reason: fmt.Sprintf("unknown unit %q", item.Unit)}
	}
	if item.PerPersonPL < 0 {
		return &ValidationError{Element: element, Reason: "perPersonPL cannot be negative"}
	}
	if item.CookingFactor < 0 {
		return &ValidationError{Element: element, Reason: "fc cannot be negative"}
	}
	return nil
}
