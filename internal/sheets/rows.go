// Package sheets populates cloned catalog sheets with product rows and builds
// the summary rollup sheet.
package sheets

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/linecraft/linesheet/internal/catalog"
	"github.com/linecraft/linesheet/internal/cellref"
	"github.com/linecraft/linesheet/internal/imagefetch"
	"github.com/linecraft/linesheet/internal/sizebreak"
	"github.com/linecraft/linesheet/internal/template"
)

const currencyFormat = `"$"#,##0.00`

// RowWriter writes product rows into a catalog sheet according to the
// template layout. One writer serves one workbook; all mutation of the
// underlying file goes through the single goroutine driving the writer.
type RowWriter struct {
	file    *excelize.File
	layout  template.Layout
	fetcher *imagefetch.Fetcher
	logger  *slog.Logger

	currencyStyle int
	centeredStyle int
}

// NewRowWriter creates a writer bound to one workbook.
func NewRowWriter(f *excelize.File, layout template.Layout, fetcher *imagefetch.Fetcher, logger *slog.Logger) *RowWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &RowWriter{file: f, layout: layout, fetcher: fetcher, logger: logger}
}

// WriteProducts writes one row per product starting at the layout's product
// start row. Product images are prefetched concurrently up front; each
// result lands in its own fixed cell so completion order does not matter.
// A failure on a single product is logged and the remaining products are
// still written.
func (w *RowWriter) WriteProducts(ctx context.Context, sheet string, products []catalog.Product) error {
	var images map[string][]byte
	if w.fetcher != nil {
		refs := make([]string, 0, len(products))
		for _, p := range products {
			refs = append(refs, p.Image)
		}
		images = w.fetcher.Prefetch(ctx, refs)
	}

	for i, p := range products {
		row := w.layout.ProductStartRow + i
		if err := w.writeRow(sheet, row, p, images[p.Image]); err != nil {
			w.logger.Warn("product row failed, continuing",
				"sheet", sheet, "row", row, "style", p.StyleNumber, "error", err)
		}
	}
	return nil
}

func (w *RowWriter) writeRow(sheet string, row int, p catalog.Product, image []byte) error {
	// Sweep the declared product region first so leftover sample content in
	// the template never survives under real data.
	for col := 1; col <= w.layout.ClearColumns; col++ {
		w.file.SetCellValue(sheet, cellref.Cell(col, row), nil)
	}
	w.file.SetRowHeight(sheet, row, w.layout.RowHeight)

	cols := w.layout.Columns
	evergreen := p.Evergreen
	if evergreen == "" {
		evergreen = "No"
	}
	sizeKey := sizebreak.Normalize(p.SizeBreak)

	attrs := []struct {
		col int
		val string
	}{
		{cols.Name, p.Name},
		{cols.StyleNumber, p.StyleNumber},
		{cols.Color, p.Color},
		{cols.ColorCode, p.ColorCode},
		{cols.Season, p.Season},
		{cols.Evergreen, evergreen},
		{cols.CountryOfOrigin, p.CountryOfOrigin},
		{cols.Fabrication, p.Fabrication},
		{cols.MaterialComposition, p.MaterialComposition},
		{cols.Category, p.Category},
		{cols.Subcategory, p.Subcategory},
		{cols.SizeBreak, sizeKey},
	}
	for _, a := range attrs {
		if err := w.file.SetCellValue(sheet, cellref.Cell(a.col, row), a.val); err != nil {
			return fmt.Errorf("write attribute at col %d: %w", a.col, err)
		}
	}

	if err := w.writePrice(sheet, cols.Wholesale, row, p.WholesalePrice); err != nil {
		return err
	}
	if err := w.writePrice(sheet, cols.SuggRetail, row, p.SuggRetailPrice); err != nil {
		return err
	}

	sizes := sizebreak.Sizes(sizeKey)
	if err := w.writeSizeCells(sheet, row, sizes); err != nil {
		return err
	}
	if err := w.writeRowFormulas(sheet, row, len(sizes)); err != nil {
		return err
	}

	if image != nil {
		if err := w.embedImage(sheet, row, p.Image, image); err != nil {
			// A failed embed costs the image, never the row.
			w.logger.Warn("image embed failed", "sheet", sheet, "row", row, "error", err)
		}
	}
	return nil
}

func (w *RowWriter) writePrice(sheet string, col, row int, price decimal.Decimal) error {
	cell := cellref.Cell(col, row)
	if err := w.file.SetCellValue(sheet, cell, price.InexactFloat64()); err != nil {
		return fmt.Errorf("write price at %s: %w", cell, err)
	}
	style, err := w.currency()
	if err != nil {
		return err
	}
	return w.file.SetCellStyle(sheet, cell, cell, style)
}

// writeSizeCells stamps the size labels into the header row above the size
// columns and leaves the order-quantity cells blank but centered for the
// customer to fill in. Blank means blank: a zero would read as an order.
func (w *RowWriter) writeSizeCells(sheet string, row int, sizes []string) error {
	centered, err := w.centered()
	if err != nil {
		return err
	}
	for j, label := range sizes {
		col := w.layout.FirstSizeCol + j
		header := cellref.Cell(col, w.layout.HeaderRow)
		if err := w.file.SetCellValue(sheet, header, label); err != nil {
			return fmt.Errorf("write size heading at %s: %w", header, err)
		}
		cell := cellref.Cell(col, row)
		if err := w.file.SetCellStyle(sheet, cell, cell, centered); err != nil {
			return fmt.Errorf("style size cell %s: %w", cell, err)
		}
	}
	return nil
}

func (w *RowWriter) writeRowFormulas(sheet string, row, sizeCount int) error {
	units := cellref.Cell(w.layout.UnitsCol(sizeCount), row)
	if err := w.file.SetCellFormula(sheet, units, cellref.UnitsFormula(row, w.layout.FirstSizeCol, sizeCount)); err != nil {
		return fmt.Errorf("write units formula at %s: %w", units, err)
	}

	totW := cellref.Cell(w.layout.TotalWholesaleCol(sizeCount), row)
	formula := cellref.TotalFormula(row, w.layout.UnitsCol(sizeCount), w.layout.Columns.Wholesale)
	if err := w.file.SetCellFormula(sheet, totW, formula); err != nil {
		return fmt.Errorf("write wholesale total formula at %s: %w", totW, err)
	}

	totR := cellref.Cell(w.layout.TotalRetailCol(sizeCount), row)
	formula = cellref.TotalFormula(row, w.layout.UnitsCol(sizeCount), w.layout.Columns.SuggRetail)
	if err := w.file.SetCellFormula(sheet, totR, formula); err != nil {
		return fmt.Errorf("write retail total formula at %s: %w", totR, err)
	}
	return nil
}

func (w *RowWriter) embedImage(sheet string, row int, ref string, data []byte) error {
	cell := cellref.Cell(w.layout.Columns.Image, row)
	return w.file.AddPictureFromBytes(sheet, cell, &excelize.Picture{
		Extension: imagefetch.Ext(ref),
		File:      data,
		Format: &excelize.GraphicOptions{
			AutoFit:         true,
			LockAspectRatio: true,
		},
	})
}

func (w *RowWriter) currency() (int, error) {
	if w.currencyStyle != 0 {
		return w.currencyStyle, nil
	}
	fmtStr := currencyFormat
	id, err := w.file.NewStyle(&excelize.Style{CustomNumFmt: &fmtStr})
	if err != nil {
		return 0, fmt.Errorf("create currency style: %w", err)
	}
	w.currencyStyle = id
	return id, nil
}

func (w *RowWriter) centered() (int, error) {
	if w.centeredStyle != 0 {
		return w.centeredStyle, nil
	}
	id, err := w.file.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return 0, fmt.Errorf("create centered style: %w", err)
	}
	w.centeredStyle = id
	return id, nil
}
