// Command linesheet generates order-form workbooks offline from a JSON
// catalog fixture, without the HTTP service or live commerce access.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/linecraft/linesheet"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "linesheet",
		Short: "Generate B2B order-form workbooks from catalog data",
	}
	root.AddCommand(newGenerateCmd())
	return root
}

func newGenerateCmd() *cobra.Command {
	var (
		templatePath string
		inputPath    string
		companyName  string
		outputType   string
		outDir       string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate workbooks from a JSON catalog file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalogs, err := loadCatalogs(inputPath)
			if err != nil {
				return err
			}

			gen := linesheet.NewGenerator(
				linesheet.WithTemplate(templatePath),
				linesheet.WithLogger(slog.Default()),
			)
			result, err := gen.Generate(
				cmd.Context(),
				linesheet.Company{Name: companyName},
				catalogs,
				linesheet.OutputType(outputType),
			)
			if err != nil {
				return err
			}

			for _, f := range result.Files {
				path := filepath.Join(outDir, f.Filename)
				if err := os.WriteFile(path, f.Buffer, 0o644); err != nil {
					return fmt.Errorf("write %q: %w", path, err)
				}
				fmt.Println("wrote", path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&templatePath, "template", "templates/linesheet.xlsx", "template workbook path")
	cmd.Flags().StringVar(&inputPath, "input", "", "JSON file with catalogs")
	cmd.Flags().StringVar(&companyName, "company", "", "company name for headers and filenames")
	cmd.Flags().StringVar(&outputType, "output-type", "combined", "combined or separate")
	cmd.Flags().StringVar(&outDir, "out-dir", ".", "directory for generated files")
	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("company")
	return cmd
}

// catalogJSON mirrors the library model with string prices, matching the
// commerce API's wire shape.
type catalogJSON struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	SeasonYear   string        `json:"seasonYear"`
	StartShip    string        `json:"startShip"`
	CompleteShip string        `json:"completeShip"`
	Products     []productJSON `json:"products"`
}

type productJSON struct {
	Name                string `json:"name"`
	StyleNumber         string `json:"styleNumber"`
	Color               string `json:"color"`
	ColorCode           string `json:"colorCode"`
	Season              string `json:"season"`
	Evergreen           string `json:"evergreen"`
	CountryOfOrigin     string `json:"countryOfOrigin"`
	Fabrication         string `json:"fabrication"`
	MaterialComposition string `json:"materialComposition"`
	Category            string `json:"category"`
	Subcategory         string `json:"subcategory"`
	SizeBreak           string `json:"sizeBreak"`
	Image               string `json:"image"`
	WholesalePrice      string `json:"wholesalePrice"`
	SuggRetailPrice     string `json:"suggRetailPrice"`
}

func loadCatalogs(path string) ([]linesheet.Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalogs %q: %w", path, err)
	}

	var parsed []catalogJSON
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse catalogs %q: %w", path, err)
	}

	out := make([]linesheet.Catalog, 0, len(parsed))
	for _, c := range parsed {
		cat := linesheet.Catalog{
			ID:           c.ID,
			Name:         c.Name,
			SeasonYear:   c.SeasonYear,
			StartShip:    c.StartShip,
			CompleteShip: c.CompleteShip,
		}
		for _, p := range c.Products {
			cat.Products = append(cat.Products, linesheet.Product{
				Name:                p.Name,
				StyleNumber:         p.StyleNumber,
				Color:               p.Color,
				ColorCode:           p.ColorCode,
				Season:              p.Season,
				Evergreen:           p.Evergreen,
				CountryOfOrigin:     p.CountryOfOrigin,
				Fabrication:         p.Fabrication,
				MaterialComposition: p.MaterialComposition,
				Category:            p.Category,
				Subcategory:         p.Subcategory,
				SizeBreak:           p.SizeBreak,
				Image:               p.Image,
				WholesalePrice:      parsePrice(p.WholesalePrice),
				SuggRetailPrice:     parsePrice(p.SuggRetailPrice),
			})
		}
		out = append(out, cat)
	}
	return out, nil
}

func parsePrice(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
