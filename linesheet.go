// Package linesheet generates downloadable B2B order-form workbooks from a
// fixed-layout spreadsheet template and commerce catalog data. Each catalog
// becomes a template-derived sheet (or its own workbook in separate mode),
// populated with product rows, size-quantity columns, per-row formulas, and
// embedded product images, plus a summary rollup sheet.
package linesheet

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/linecraft/linesheet/internal/catalog"
	"github.com/linecraft/linesheet/internal/cellref"
	"github.com/linecraft/linesheet/internal/imagefetch"
	"github.com/linecraft/linesheet/internal/sheets"
	"github.com/linecraft/linesheet/internal/template"
)

// Aliases exposing the shared data model to callers of the public API.
type (
	Company       = catalog.Company
	Catalog       = catalog.Catalog
	Product       = catalog.Product
	GeneratedFile = catalog.GeneratedFile
)

// OutputType selects combined (one workbook, one sheet per catalog) or
// separate (one workbook per catalog) output.
type OutputType string

const (
	OutputCombined OutputType = "combined"
	OutputSeparate OutputType = "separate"
)

// MIME types for delivered artifacts.
const (
	MIMEWorkbook = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MIMEZip      = "application/zip"
)

// Result is the outcome of one generation run: a single file for combined
// output, or one file per catalog for separate output.
type Result struct {
	Files []GeneratedFile
}

// Single reports whether the result is one workbook.
func (r *Result) Single() bool { return len(r.Files) == 1 }

// Generator builds order-form workbooks. A Generator is safe for concurrent
// use; each run owns a private workbook instance.
type Generator struct {
	opts    *Options
	fetcher *imagefetch.Fetcher

	// serialize is swapped in tests to simulate serialization failures.
	serialize func(*excelize.File) (*bytes.Buffer, error)
}

// NewGenerator creates a Generator with the given options.
func NewGenerator(opts ...Option) *Generator {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	fetchOpts := []imagefetch.Option{
		imagefetch.WithTimeout(o.fetchTimeout),
		imagefetch.WithConcurrency(o.fetchConcurrency),
		imagefetch.WithLogger(o.logger),
	}
	if o.httpClient != nil {
		fetchOpts = append(fetchOpts, imagefetch.WithHTTPClient(o.httpClient))
	}

	return &Generator{
		opts:      o,
		fetcher:   imagefetch.New(fetchOpts...),
		serialize: func(f *excelize.File) (*bytes.Buffer, error) { return f.WriteToBuffer() },
	}
}

// Generate builds workbooks for the company's catalogs. Separate output with
// a single catalog behaves like combined output.
func (g *Generator) Generate(ctx context.Context, company Company, catalogs []Catalog, output OutputType) (*Result, error) {
	if output == OutputSeparate && len(catalogs) > 1 {
		return g.generateSeparate(ctx, company, catalogs)
	}
	return g.generateCombined(ctx, company, catalogs)
}

func (g *Generator) generateCombined(ctx context.Context, company Company, catalogs []Catalog) (*Result, error) {
	buf, err := g.buildWorkbook(ctx, company, catalogs)
	if err != nil {
		return nil, err
	}

	file := GeneratedFile{
		Buffer:   buf.Bytes(),
		Filename: combinedFilename(company, catalogs),
	}
	if len(catalogs) == 1 {
		file.CatalogID = catalogs[0].ID
	}
	return &Result{Files: []GeneratedFile{file}}, nil
}

func (g *Generator) generateSeparate(ctx context.Context, company Company, catalogs []Catalog) (*Result, error) {
	files := make([]GeneratedFile, 0, len(catalogs))
	for _, c := range catalogs {
		// Each catalog gets a fresh template load so workbooks are
		// independent.
		buf, err := g.buildWorkbook(ctx, company, []Catalog{c})
		if err != nil {
			return nil, fmt.Errorf("catalog %q: %w", c.Name, err)
		}
		files = append(files, GeneratedFile{
			Buffer:    buf.Bytes(),
			Filename:  catalogFilename(company, c),
			CatalogID: c.ID,
		})
	}
	return &Result{Files: files}, nil
}

// buildWorkbook runs the full pipeline for one workbook: clone a sheet per
// catalog, populate products, build the summary, drop the scratch template
// sheet, normalize formulas, and serialize.
func (g *Generator) buildWorkbook(ctx context.Context, company Company, catalogs []Catalog) (*bytes.Buffer, error) {
	f, err := g.acquireTemplate()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	layout := g.opts.layout
	writer := sheets.NewRowWriter(f, layout, g.fetcher, g.opts.logger)

	used := map[string]bool{layout.TemplateSheet: true, layout.SummarySheet: true}
	for _, c := range catalogs {
		sheetName := uniqueSheetName(used, cellref.SafeSheetName(c.Name))
		if err := template.CloneSheet(f, layout, sheetName, company.Name, c.Name); err != nil {
			return nil, fmt.Errorf("%w: clone sheet for catalog %q: %v", ErrTemplate, c.Name, err)
		}
		if err := writer.WriteProducts(ctx, sheetName, c.Products); err != nil {
			return nil, fmt.Errorf("populate catalog %q: %w", c.Name, err)
		}
	}

	estimator, err := sheets.CompileEstimator(g.opts.estimatorExpr)
	if err != nil {
		return nil, err
	}
	summary := sheets.NewSummaryBuilder(f, estimator, g.opts.logger)
	if err := summary.Build(layout.SummarySheet, catalogs); err != nil {
		return nil, err
	}

	// The original template sheet is scratch material once every catalog has
	// its own copy.
	if err := f.DeleteSheet(layout.TemplateSheet); err != nil {
		g.opts.logger.Warn("could not remove template sheet", "error", err)
	}

	if err := template.NormalizeFormulas(f); err != nil {
		return nil, fmt.Errorf("normalize formulas: %w", err)
	}

	return g.serializeWithRecovery(f)
}

// serializeWithRecovery serializes the workbook, and on failure strips every
// formula down to its cached value and retries exactly once.
func (g *Generator) serializeWithRecovery(f *excelize.File) (*bytes.Buffer, error) {
	buf, err := g.serialize(f)
	if err == nil {
		return buf, nil
	}

	g.opts.logger.Error("workbook serialization failed, stripping formulas and retrying once",
		"error", err)
	if stripErr := template.StripFormulas(f); stripErr != nil {
		return nil, fmt.Errorf("%w: strip formulas after %v: %v", ErrSerialize, err, stripErr)
	}

	buf, err = g.serialize(f)
	if err != nil {
		return nil, fmt.Errorf("%w: retry after formula strip: %v", ErrSerialize, err)
	}
	return buf, nil
}

// acquireTemplate returns a fresh template workbook. In permissive mode a
// load failure degrades to an empty workbook carrying only the layout's
// sheet skeleton; otherwise it fails the request.
func (g *Generator) acquireTemplate() (*excelize.File, error) {
	var f *excelize.File
	var err error
	switch {
	case g.opts.templateStore != nil:
		f, err = g.opts.templateStore.Acquire()
	case g.opts.templatePath != "":
		f, err = template.Load(g.opts.templatePath, g.opts.layout)
	default:
		err = fmt.Errorf("no template configured")
	}
	if err == nil {
		return f, nil
	}

	if !g.opts.permissiveTemplate {
		return nil, fmt.Errorf("%w: %v", ErrTemplate, err)
	}

	g.opts.logger.Error("TEMPLATE LOAD FAILED, generating from blank workbook (permissive mode)",
		"error", err)
	return blankTemplate(g.opts.layout), nil
}

// blankTemplate builds a minimal workbook with the layout's template sheet
// and header labels so the rest of the pipeline can proceed.
func blankTemplate(layout template.Layout) *excelize.File {
	f := excelize.NewFile()
	idx, _ := f.NewSheet(layout.TemplateSheet)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	labels := map[int]string{
		layout.Columns.Name:        "Product Name",
		layout.Columns.StyleNumber: "Style #",
		layout.Columns.Color:       "Color",
		layout.Columns.Wholesale:   "Wholesale",
		layout.Columns.SuggRetail:  "Sugg. Retail",
	}
	for col, label := range labels {
		f.SetCellValue(layout.TemplateSheet, cellref.Cell(col, layout.HeaderRow), label)
	}
	return f
}

// uniqueSheetName deduplicates sheet names within one workbook. Catalogs can
// share a name; sheets cannot.
func uniqueSheetName(used map[string]bool, name string) string {
	if name == "" {
		name = "Catalog"
	}
	candidate := name
	for i := 2; used[candidate]; i++ {
		suffix := fmt.Sprintf(" (%d)", i)
		base := name
		if len(base)+len(suffix) > 31 {
			base = base[:31-len(suffix)]
		}
		candidate = base + suffix
	}
	used[candidate] = true
	return candidate
}

func combinedFilename(company Company, catalogs []Catalog) string {
	if len(catalogs) == 1 {
		return catalogFilename(company, catalogs[0])
	}
	return sanitizeFilePart(company.Name) + "_Linesheet.xlsx"
}

func catalogFilename(company Company, c Catalog) string {
	return sanitizeFilePart(company.Name) + "_" + sanitizeFilePart(c.Name) + ".xlsx"
}

// sanitizeFilePart makes a name safe for filenames: spaces become
// underscores and path separators are dropped.
func sanitizeFilePart(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return -1
		}
		return r
	}, s)
	if s == "" {
		return "Linesheet"
	}
	return s
}
