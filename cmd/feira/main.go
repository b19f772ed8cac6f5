package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"feira/internal/calc"
	"feira/internal/export"
	"feira/internal/sample"
)

var (
	dataFlag   = flag.String("data", "feira-dados.json", "workspace document to load")
	recipeFlag = flag.String("recipe", "", "recipe to compute; omitted lists the recipes in the document")
	peopleFlag = flag.Int("people", 4, "number of people to cook for")
	targetFlag = flag.Float64("target", 0, "target served grams per person; 0 keeps the recipe as written")
	formatFlag = flag.String("format", "table", "output format: table, csv or json")
	outFlag    = flag.String("out", "", "write the list to this file instead of stdout")
	initFlag   = flag.Bool("init", false, "write the starter workspace document to -data and exit")
)

type options struct {
	dataPath string
	recipe   string
	people   int
	target   float64
	format   string
	outPath  string
	initDoc  bool
}

func main() {
	flag.Parse()

	opts := options{
		dataPath: *dataFlag,
		recipe:   *recipeFlag,
		people:   *peopleFlag,
		target:   *targetFlag,
		format:   *formatFlag,
		outPath:  *outFlag,
		initDoc:  *initFlag,
	}

	if err := run(os.Stdout, os.Stderr, opts); err != nil {
		fmt.Fprintf(os.Stderr, "feira: %v\n", err)
		os.Exit(1)
	}
}

func run(stdout, stderr io.Writer, opts options) error {
	if opts.initDoc {
		return writeStarterDocument(stdout, opts.dataPath)
	}

	switch opts.format {
	case "table", "csv", "json":
	default:
		return fmt.Errorf("format must be table, csv or json, got %q", opts.format)
	}
	if opts.target < 0 {
		return fmt.Errorf("target must be a non-negative number of grams")
	}

	doc, err := loadDocument(opts.dataPath)
	if err != nil {
		return err
	}

	if strings.TrimSpace(opts.recipe) == "" {
		return listRecipes(stdout, doc, opts.dataPath)
	}

	recipe, ok := findRecipe(doc, opts.recipe)
	if !ok {
		return fmt.Errorf("recipe %q not found in %s", opts.recipe, opts.dataPath)
	}

	rows, summary, err := calc.Compute(doc.Ingredients, recipe, opts.people, opts.target)
	if err != nil {
		if errors.Is(err, calc.ErrPersonCount) {
			return fmt.Errorf("people must be at least 1")
		}
		return err
	}

	for _, row := range rows {
		if row.MissingIngredient {
			fmt.Fprintf(stderr, "warning: %s: not in the ingredient catalog, computed without price or calories\n", row.Ingredient)
		}
		if row.PurchaseEstimated {
			fmt.Fprintf(stderr, "warning: %s: no automatic conversion to %q, adjust the purchase quantity manually\n", row.Ingredient, row.PurchaseUnit)
		}
	}

	if opts.outPath != "" {
		file, err := os.Create(opts.outPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		if err := render(file, opts.format, rows, summary); err != nil {
			file.Close()
			return err
		}
		return file.Close()
	}
	return render(stdout, opts.format, rows, summary)
}

func loadDocument(path string) (calc.Document, error) {
	if strings.TrimSpace(path) == "" {
		return calc.Document{}, fmt.Errorf("data path must not be empty")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return calc.Document{}, fmt.Errorf("read document: %w", err)
	}

	doc, err := calc.ParseDocument(raw)
	if err != nil {
		return calc.Document{}, err
	}
	return doc, nil
}

// findRecipe prefers an exact name match and falls back to a case-insensitive
// one so shell users need not reproduce accents-and-capitals exactly.
func findRecipe(doc calc.Document, name string) (calc.Recipe, bool) {
	for _, recipe := range doc.Recipes {
		if recipe.Name == name {
			return recipe, true
		}
	}
	for _, recipe := range doc.Recipes {
		if strings.EqualFold(recipe.Name, name) {
			return recipe, true
		}
	}
	return calc.Recipe{}, false
}

func listRecipes(w io.Writer, doc calc.Document, path string) error {
	if len(doc.Recipes) == 0 {
		_, err := fmt.Fprintf(w, "No recipes in %s\n", path)
		return err
	}

	fmt.Fprintf(w, "Recipes in %s:\n", path)
	for _, recipe := range doc.Recipes {
		fmt.Fprintf(w, "  %s (%d items)\n", recipe.Name, len(recipe.Items))
	}
	return nil
}

func render(w io.Writer, format string, rows []calc.Row, summary calc.Summary) error {
	switch format {
	case "csv":
		return export.WriteCSV(w, rows)
	case "json":
		payload, err := export.MarshalList(rows, summary)
		if err != nil {
			return err
		}
		payload = append(payload, '\n')
		_, err = w.Write(payload)
		return err
	default:
		return writeTable(w, rows, summary)
	}
}

func writeTable(w io.Writer, rows []calc.Row, summary calc.Summary) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(export.Header(), "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(export.Fields(row, "—"), "\t"))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("render table: %w", err)
	}

	fmt.Fprintf(w, "\nCusto total estimado: R$ %s\n", formatBRL(export.TotalCost(rows)))
	fmt.Fprintf(w, "kcal por pessoa: %.0f kcal\n", summary.KcalPerPerson)
	fmt.Fprintf(w, "Peso servido por pessoa: %.0f g\n", summary.ServedPerPersonG)
	fmt.Fprintf(w, "kcal por 200 g: %.0f kcal\n", summary.KcalPer200g)
	fmt.Fprintf(w, "kcal totais da receita: %.0f kcal\n", summary.TotalRecipeKcal)
	return nil
}

func writeStarterDocument(stdout io.Writer, path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("data path must not be empty")
	}

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists, refusing to overwrite it", path)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("inspect %s: %w", path, err)
	}

	encoded, err := calc.EncodeDocument(sample.Document())
	if err != nil {
		return err
	}
	encoded = append(encoded, '\n')

	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		return fmt.Errorf("write starter document: %w", err)
	}

	fmt.Fprintf(stdout, "Wrote starter workspace with %d ingredients and %d recipes to %s\n",
		len(sample.Ingredients()), len(sample.Recipes()), path)
	return nil
}

// formatBRL renders a cost the Brazilian way: dots group thousands and a
// comma separates the cents.
func formatBRL(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	dot := strings.LastIndexByte(s, '.')
	intPart, frac := s[:dot], s[dot+1:]

	var b strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(digit)
	}
	return b.String() + "," + frac
}
