package template

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/linecraft/linesheet/internal/cellref"
)

// cloneColumns is how many columns CloneSheet copies per row. Wider than the
// product region so blank-but-styled cells to the right survive the copy.
const cloneColumns = 40

// CloneSheet copies the template sheet's values, formulas, styles, column
// widths, and row heights into a new sheet named for the catalog, then stamps
// the company and catalog names into the fixed header cells.
//
// Formula cells are copied by expression only. Re-setting the expression on
// the target drops any shared-formula linkage, which would otherwise resolve
// relative to the template sheet's anchor and corrupt the copy.
func CloneSheet(f *excelize.File, layout Layout, sheetName, companyName, catalogName string) error {
	srcIdx, err := f.GetSheetIndex(layout.TemplateSheet)
	if err != nil || srcIdx < 0 {
		return fmt.Errorf("template sheet %q not found", layout.TemplateSheet)
	}
	if _, err := f.NewSheet(sheetName); err != nil {
		return fmt.Errorf("create sheet %q: %w", sheetName, err)
	}

	rows, err := f.GetRows(layout.TemplateSheet)
	if err != nil {
		return fmt.Errorf("read template rows: %w", err)
	}
	rowCount := len(rows)
	if rowCount < layout.ProductStartRow {
		rowCount = layout.ProductStartRow
	}

	// Styles are duplicated as value objects, not shared by ID, so mutating
	// one sheet's formatting never bleeds into another. The cache keeps the
	// style table from growing per cell.
	styleClones := make(map[int]int)

	for row := 1; row <= rowCount; row++ {
		for col := 1; col <= cloneColumns; col++ {
			cell := cellref.Cell(col, row)

			if styleID, err := f.GetCellStyle(layout.TemplateSheet, cell); err == nil && styleID > 0 {
				cloneID, ok := styleClones[styleID]
				if !ok {
					cloneID, err = cloneStyle(f, styleID)
					if err != nil {
						cloneID = styleID
					}
					styleClones[styleID] = cloneID
				}
				f.SetCellStyle(sheetName, cell, cell, cloneID)
			}

			formula, err := f.GetCellFormula(layout.TemplateSheet, cell)
			if err == nil && formula != "" {
				if err := f.SetCellFormula(sheetName, cell, formula); err != nil {
					return fmt.Errorf("copy formula to %s!%s: %w", sheetName, cell, err)
				}
				continue
			}

			val, err := f.GetCellValue(layout.TemplateSheet, cell)
			if err != nil || val == "" {
				continue
			}
			if err := f.SetCellValue(sheetName, cell, val); err != nil {
				return fmt.Errorf("copy value to %s!%s: %w", sheetName, cell, err)
			}
		}

		if h, err := f.GetRowHeight(layout.TemplateSheet, row); err == nil && h > 0 {
			f.SetRowHeight(sheetName, row, h)
		}
	}

	for col := 1; col <= cloneColumns; col++ {
		name := cellref.MustColumnLetter(col)
		if w, err := f.GetColWidth(layout.TemplateSheet, name); err == nil && w > 0 {
			f.SetColWidth(sheetName, name, name, w)
		}
	}

	if err := f.SetCellValue(sheetName, layout.RetailerCell, companyName); err != nil {
		return fmt.Errorf("stamp retailer cell: %w", err)
	}
	if err := f.SetCellValue(sheetName, layout.LinesheetCell, catalogName); err != nil {
		return fmt.Errorf("stamp linesheet cell: %w", err)
	}
	return nil
}

// cloneStyle materializes a style ID into a fresh style definition.
func cloneStyle(f *excelize.File, styleID int) (int, error) {
	style, err := f.GetStyle(styleID)
	if err != nil {
		return 0, fmt.Errorf("read style %d: %w", styleID, err)
	}
	newID, err := f.NewStyle(style)
	if err != nil {
		return 0, fmt.Errorf("clone style %d: %w", styleID, err)
	}
	return newID, nil
}

// NormalizeFormulas re-sets every formula cell in the workbook from its own
// expression. Row operations can silently re-share formulas; rewriting each
// one leaves every cell with an independent, self-contained formula. Run as
// a final pass before serialization.
func NormalizeFormulas(f *excelize.File) error {
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return fmt.Errorf("read rows of %q: %w", sheet, err)
		}
		for rowIdx := range rows {
			for col := 1; col <= cloneColumns; col++ {
				cell := cellref.Cell(col, rowIdx+1)
				formula, err := f.GetCellFormula(sheet, cell)
				if err != nil || formula == "" {
					continue
				}
				if err := f.SetCellFormula(sheet, cell, formula); err != nil {
					return fmt.Errorf("normalize formula at %s!%s: %w", sheet, cell, err)
				}
			}
		}
	}
	return nil
}

// StripFormulas replaces every formula cell with its last calculated value,
// or clears it when no cached value exists. Destructive recovery used when
// serialization fails on corrupt formulas.
func StripFormulas(f *excelize.File) error {
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return fmt.Errorf("read rows of %q: %w", sheet, err)
		}
		for rowIdx := range rows {
			for col := 1; col <= cloneColumns; col++ {
				cell := cellref.Cell(col, rowIdx+1)
				formula, err := f.GetCellFormula(sheet, cell)
				if err != nil || formula == "" {
					continue
				}
				cached, _ := f.GetCellValue(sheet, cell)
				if err := f.SetCellFormula(sheet, cell, ""); err != nil {
					return fmt.Errorf("strip formula at %s!%s: %w", sheet, cell, err)
				}
				if cached != "" {
					f.SetCellValue(sheet, cell, cached)
				} else {
					f.SetCellValue(sheet, cell, nil)
				}
			}
		}
	}
	return nil
}
