// Package calc implements the shopping-list and calorie calculator: a pure
// transformation from an ingredient catalog and a recipe into purchase
// quantities, costs, and nutrition totals. Functions here perform no I/O and
// keep no state between calls; the caller owns both input documents.
package calc

import "errors"

// ErrPersonCount reports a person count below one, which the calculator
// rejects before doing any work.
var ErrPersonCount = errors.New("calc: person count must be at least 1")

// Row is one aggregated shopping-list line with its purchase and nutrition
// figures resolved. Optional figures are nil when the catalog lacks the data
// to derive them.
type Row struct {
	Ingredient      string
	PurchaseUnit    string
	PerPersonPL     float64
	Unit            string
	People          int
	TotalPL         float64
	YieldRatio      float64
	TotalPB         float64
	PurchaseQty     float64
	Price           *float64
	Cost            *float64
	CookingFactor   float64
	ServedPerPerson float64
	ServedTotal     float64
	KcalPerPerson   *float64
	Note            string

	// PurchaseEstimated marks purchase/consumption unit combinations with
	// no exact conversion; PurchaseQty then carries the gross amount
	// unconverted and needs manual correction.
	PurchaseEstimated bool
	// MissingIngredient marks rows whose ingredient is absent from the
	// catalog and was computed with fallback attributes.
	MissingIngredient bool
}

// Summary aggregates the nutrition figures across the whole computed list.
// The ratios stay zero when no weighed group contributes served weight.
type Summary struct {
	KcalPerPerson    float64
	ServedPerPersonG float64
	KcalPerGram      float64
	KcalPer200g      float64
	TotalRecipeKcal  float64
}

type groupKey struct {
	ingredient string
	unit       string
}

type lineGroup struct {
	ingredient string
	unit       string
	perPerson  float64
	fc         float64
	note       string
}

// Compute builds the shopping list and nutrition summary for recipe at the
// given person count. Lines sharing ingredient and unit are aggregated in
// first-occurrence order. A positive targetServedPerPersonG rescales the
// whole recipe so the weighed portion per person lands on the target; any
// other value leaves the recipe unscaled.
func Compute(catalog []Ingredient, recipe Recipe, people int, targetServedPerPersonG float64) ([]Row, Summary, error) {
	if people < 1 {
		return nil, Summary{}, ErrPersonCount
	}

	index := make(map[string]Ingredient, len(catalog))
	for _, ing := range catalog {
		index[ing.Name] = ing
	}

	groups := aggregateItems(recipe.Items)

	currentServed := 0.0
	for _, g := range groups {
		if g.unit != "un" {
			currentServed += g.perPerson * g.fc
		}
	}

	scale := 1.0
	if targetServedPerPersonG > 0 && currentServed > 0 {
		scale = targetServedPerPersonG / currentServed
	}

	rows := make([]Row, 0, len(groups))
	summary := Summary{}
	for _, g := range groups {
		ing, found := index[g.ingredient]

		perPerson := g.perPerson * scale
		totalPL := perPerson * float64(people)

		purchaseUnit := "kg"
		yield := 1.0
		if found {
			purchaseUnit = ing.PurchaseUnit
			if ing.YieldRatio > 0 {
				yield = ing.YieldRatio
			}
		}
		totalPB := totalPL / yield

		purchaseQty, estimated := purchaseQuantity(totalPB, purchaseUnit, g.unit)

		var price, cost *float64
		if found && ing.Price != nil {
			p := *ing.Price
			c := purchaseQty * p
			price, cost = &p, &c
		}

		served := perPerson * g.fc
		servedTotal := totalPL * g.fc

		var kcal *float64
		if found {
			kcal = kcalForServing(ing, served, g.unit)
		}
		if kcal != nil {
			summary.KcalPerPerson += *kcal
		}
		if g.unit != "un" {
			summary.ServedPerPersonG += served
		}

		rows = append(rows, Row{
			Ingredient:        g.ingredient,
			PurchaseUnit:      purchaseUnit,
			PerPersonPL:       perPerson,
			Unit:              g.unit,
			People:            people,
			TotalPL:           totalPL,
			YieldRatio:        yield,
			TotalPB:           totalPB,
			PurchaseQty:       purchaseQty,
			Price:             price,
			Cost:              cost,
			CookingFactor:     g.fc,
			ServedPerPerson:   served,
			ServedTotal:       servedTotal,
			KcalPerPerson:     kcal,
			Note:              g.note,
			PurchaseEstimated: estimated,
			MissingIngredient: !found,
		})
	}

	if summary.ServedPerPersonG > 0 {
		summary.KcalPerGram = summary.KcalPerPerson / summary.ServedPerPersonG
		summary.KcalPer200g = summary.KcalPerGram * 200.0
		summary.TotalRecipeKcal = summary.KcalPerPerson * float64(people)
	}

	return rows, summary, nil
}

// aggregateItems folds recipe lines into one group per ingredient and unit,
// keeping first-occurrence order. Net weights sum; the cooking factor and
// note of the last line win.
func aggregateItems(items []RecipeItem) []*lineGroup {
	groups := make([]*lineGroup, 0, len(items))
	byKey := make(map[groupKey]*lineGroup, len(items))
	for _, item := range items {
		key := groupKey{ingredient: item.Ingredient, unit: item.Unit}
		g, ok := byKey[key]
		if !ok {
			g = &lineGroup{ingredient: item.Ingredient, unit: item.Unit}
			byKey[key] = g
			groups = append(groups, g)
		}
		g.perPerson += item.PerPersonPL
		g.fc = effectiveCookingFactor(item.CookingFactor)
		g.note = item.Note
	}
	return groups
}

// effectiveCookingFactor treats unset or non-positive factors as neutral.
func effectiveCookingFactor(fc float64) float64 {
	if fc <= 0 {
		return 1.0
	}
	return fc
}

// purchaseQuantity converts the gross amount into the ingredient's purchase
// unit. Combinations without an exact conversion keep the gross amount and
// are reported as estimated; no per-unit weight table exists to do better.
func purchaseQuantity(grossTotal float64, purchaseUnit, unit string) (float64, bool) {
	switch {
	case purchaseUnit == "kg" && unit == "g":
		return grossTotal / 1000.0, false
	case purchaseUnit == "ml" && unit == "ml":
		return grossTotal, false
	case purchaseUnit == "un" && unit == "un":
		return grossTotal, false
	default:
		return grossTotal, true
	}
}

// kcalForServing resolves the calorie contribution of one serving. For
// unit-counted lines the serving quantity is a number of items; for g/ml it
// is the served weight, with ml converted to grams through the ingredient
// density (1.0 when unset).
func kcalForServing(ing Ingredient, servingQty float64, unit string) *float64 {
	switch unit {
	case "un":
		if ing.KcalPerUnit == nil {
			return nil
		}
		v := *ing.KcalPerUnit * servingQty
		return &v
	case "g", "ml":
		if ing.KcalPer100g == nil {
			return nil
		}
		grams := servingQty
		if unit == "ml" {
			density := 1.0
			if ing.DensityGPerML != nil {
				density = *ing.DensityGPerML
			}
			grams = servingQty * density
		}
		v := *ing.KcalPer100g * grams / 100.0
		return &v
	default:
		return nil
	}
}
