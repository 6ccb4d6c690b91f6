// Package template loads the order-form workbook template, validates its
// layout, and clones template sheets for generated catalogs.
package template

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/linecraft/linesheet/internal/cellref"
)

// Layout declares the coordinate contract between the fixed template and the
// row writer. It is validated once against the loaded template so that a
// drifted template fails fast instead of producing misaligned workbooks.
type Layout struct {
	TemplateSheet string
	SummarySheet  string

	// Header cells stamped per catalog.
	RetailerCell  string
	LinesheetCell string

	// Product region: HeaderRow carries the column labels, data rows start at
	// ProductStartRow, and each data row is cleared across ClearColumns
	// columns before writing.
	HeaderRow       int
	ProductStartRow int
	ClearColumns    int
	RowHeight       float64

	Columns ColumnMap

	// FirstSizeCol is where per-size order-quantity columns begin. Units,
	// total wholesale, and total retail follow immediately after the size
	// columns.
	FirstSizeCol int
}

// ColumnMap names each fixed product attribute column (1-based).
type ColumnMap struct {
	Image               int
	Name                int
	StyleNumber         int
	Color               int
	ColorCode           int
	Season              int
	Evergreen           int
	CountryOfOrigin     int
	Fabrication         int
	MaterialComposition int
	Category            int
	Subcategory         int
	SizeBreak           int
	Wholesale           int
	SuggRetail          int
}

// DefaultLayout matches the shipped order-form template.
func DefaultLayout() Layout {
	return Layout{
		TemplateSheet:   "Linesheet",
		SummarySheet:    "Summary",
		RetailerCell:    "B2",
		LinesheetCell:   "B3",
		HeaderRow:       6,
		ProductStartRow: 7,
		ClearColumns:    30,
		RowHeight:       80,
		Columns: ColumnMap{
			Image:               1,
			Name:                2,
			StyleNumber:         3,
			Color:               4,
			ColorCode:           5,
			Season:              6,
			Evergreen:           7,
			CountryOfOrigin:     8,
			Fabrication:         9,
			MaterialComposition: 10,
			Category:            11,
			Subcategory:         12,
			SizeBreak:           13,
			Wholesale:           14,
			SuggRetail:          15,
		},
		FirstSizeCol: 17,
	}
}

// headerLabels is the expected label for each mapped column on HeaderRow.
func (l Layout) headerLabels() map[int]string {
	return map[int]string{
		l.Columns.Name:        "Product Name",
		l.Columns.StyleNumber: "Style #",
		l.Columns.Color:       "Color",
		l.Columns.Wholesale:   "Wholesale",
		l.Columns.SuggRetail:  "Sugg. Retail",
	}
}

// Validate checks that the template contains the template sheet and that the
// mapped header columns carry their expected labels. A mismatch means the
// template and the writer disagree about the coordinate contract.
func (l Layout) Validate(f *excelize.File) error {
	idx, err := f.GetSheetIndex(l.TemplateSheet)
	if err != nil || idx < 0 {
		return fmt.Errorf("template sheet %q not found", l.TemplateSheet)
	}

	for col, want := range l.headerLabels() {
		cell := cellref.Cell(col, l.HeaderRow)
		got, err := f.GetCellValue(l.TemplateSheet, cell)
		if err != nil {
			return fmt.Errorf("read header cell %s: %w", cell, err)
		}
		if !strings.EqualFold(strings.TrimSpace(got), want) {
			return fmt.Errorf("header mismatch at %s: want %q, got %q", cell, want, got)
		}
	}
	return nil
}

// UnitsCol returns the units column for a row with sizeCount size columns.
func (l Layout) UnitsCol(sizeCount int) int {
	return l.FirstSizeCol + sizeCount
}

// TotalWholesaleCol returns the total-wholesale column for sizeCount sizes.
func (l Layout) TotalWholesaleCol(sizeCount int) int {
	return l.UnitsCol(sizeCount) + 1
}

// TotalRetailCol returns the total-retail column for sizeCount sizes.
func (l Layout) TotalRetailCol(sizeCount int) int {
	return l.UnitsCol(sizeCount) + 2
}
