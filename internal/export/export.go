// Package export renders computed shopping lists in the interchange
// formats: the sixteen-column CSV and the rows-plus-summary JSON document.
// Column names and order are contractual; existing exported lists must stay
// importable by spreadsheet pipelines built on them.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"feira/internal/calc"
)

// columns fixes the exported list layout. Both the CSV header and the JSON
// row objects follow it exactly.
var columns = []struct {
	name  string
	value func(calc.Row) any
}{
	{"Ingrediente", func(r calc.Row) any { return r.Ingredient }},
	{"Un. compra", func(r calc.Row) any { return r.PurchaseUnit }},
	{"PL/pessoa", func(r calc.Row) any { return r.PerPersonPL }},
	{"Un (g/ml/un)", func(r calc.Row) any { return r.Unit }},
	{"Pessoas", func(r calc.Row) any { return r.People }},
	{"PL total", func(r calc.Row) any { return r.TotalPL }},
	{"RL", func(r calc.Row) any { return r.YieldRatio }},
	{"PB total", func(r calc.Row) any { return r.TotalPB }},
	{"Qtd p/ compra", func(r calc.Row) any { return r.PurchaseQty }},
	{"Preço (un. compra)", func(r calc.Row) any { return r.Price }},
	{"Custo", func(r calc.Row) any { return r.Cost }},
	{"FC", func(r calc.Row) any { return r.CookingFactor }},
	{"Peso final/pessoa", func(r calc.Row) any { return r.ServedPerPerson }},
	{"Peso final total", func(r calc.Row) any { return r.ServedTotal }},
	{"kcal/pessoa (ingrediente)", func(r calc.Row) any { return r.KcalPerPerson }},
	{"Obs", func(r calc.Row) any { return r.Note }},
}

// Header returns the canonical CSV header row.
func Header() []string {
	header := make([]string, len(columns))
	for i, col := range columns {
		header[i] = col.name
	}
	return header
}

// Fields renders one row as its sixteen column cells in header order.
// Unknown numeric figures become the missing placeholder; empty notes stay
// empty strings.
func Fields(row calc.Row, missing string) []string {
	record := make([]string, len(columns))
	for i, col := range columns {
		record[i] = cell(col.value(row), missing)
	}
	return record
}

// WriteCSV streams the computed list as CSV, header first. Unknown numeric
// figures become empty cells.
func WriteCSV(w io.Writer, rows []calc.Row) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(Header()); err != nil {
		return fmt.Errorf("export: write csv header: %w", err)
	}

	for _, row := range rows {
		if err := writer.Write(Fields(row, "")); err != nil {
			return fmt.Errorf("export: write csv row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("export: flush csv: %w", err)
	}
	return nil
}

// MarshalList renders rows and summary as the indented JSON list document.
func MarshalList(rows []calc.Row, summary calc.Summary) ([]byte, error) {
	doc := listDocument{
		Rows: make([]listRow, len(rows)),
		Summary: listSummary{
			KcalPerPerson:    summary.KcalPerPerson,
			ServedPerPersonG: summary.ServedPerPersonG,
			KcalPerGram:      summary.KcalPerGram,
			KcalPer200g:      summary.KcalPer200g,
			TotalRecipeKcal:  summary.TotalRecipeKcal,
		},
	}
	for i, row := range rows {
		doc.Rows[i] = listRow{row: row}
	}
	encoded, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export: marshal list: %w", err)
	}
	return encoded, nil
}

// TotalCost sums the rows whose cost is known. Rows without a price stay
// out of the estimate.
func TotalCost(rows []calc.Row) float64 {
	total := 0.0
	for _, row := range rows {
		if row.Cost != nil {
			total += *row.Cost
		}
	}
	return total
}

type listDocument struct {
	Rows    []listRow   `json:"rows"`
	Summary listSummary `json:"summary"`
}

type listSummary struct {
	KcalPerPerson    float64 `json:"kcal_por_pessoa"`
	ServedPerPersonG float64 `json:"peso_servido_por_pessoa_g"`
	KcalPerGram      float64 `json:"kcal_por_grama"`
	KcalPer200g      float64 `json:"kcal_por_200g"`
	TotalRecipeKcal  float64 `json:"kcal_totais_receita"`
}

type listRow struct {
	row calc.Row
}

// MarshalJSON writes the row keyed by column name in column order. Struct
// tags cannot carry the spaces and slashes these names contain, so the
// object is assembled by hand.
func (r listRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(col.name)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		value, err := json.Marshal(col.value(r.row))
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func cell(v any, missing string) string {
	switch value := v.(type) {
	case string:
		return value
	case int:
		return strconv.Itoa(value)
	case float64:
		return formatFloat(value)
	case *float64:
		if value == nil {
			return missing
		}
		return formatFloat(*value)
	default:
		return fmt.Sprint(value)
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
