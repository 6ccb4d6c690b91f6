package template

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/linecraft/linesheet/internal/cellref"
)

// newTemplateFixture builds an in-memory workbook matching DefaultLayout:
// header labels on row 6, a styled title, a formula cell, sample product
// content, and explicit widths/heights.
func newTemplateFixture(t *testing.T) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	layout := DefaultLayout()

	_, err := f.NewSheet(layout.TemplateSheet)
	require.NoError(t, err)
	require.NoError(t, f.DeleteSheet("Sheet1"))

	sheet := layout.TemplateSheet
	f.SetCellValue(sheet, "A1", "Order Form")
	f.SetCellValue(sheet, "A2", "Retailer:")
	f.SetCellValue(sheet, "A3", "Linesheet:")

	for col, label := range map[int]string{
		layout.Columns.Name:        "Product Name",
		layout.Columns.StyleNumber: "Style #",
		layout.Columns.Color:       "Color",
		layout.Columns.Wholesale:   "Wholesale",
		layout.Columns.SuggRetail:  "Sugg. Retail",
	} {
		f.SetCellValue(sheet, cellref.Cell(col, layout.HeaderRow), label)
	}

	// Leftover sample row the writer must clear.
	f.SetCellValue(sheet, "B7", "SAMPLE PRODUCT")

	// A formula cell and a styled cell.
	require.NoError(t, f.SetCellFormula(sheet, "Z5", "SUM(N7:N9)"))
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle(sheet, "A1", "A1", bold))

	require.NoError(t, f.SetColWidth(sheet, "B", "B", 28))
	require.NoError(t, f.SetRowHeight(sheet, 1, 32))
	return f
}

func writeFixture(t *testing.T, f *excelize.File) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "linesheet.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

func TestLayoutValidate(t *testing.T) {
	f := newTemplateFixture(t)
	defer f.Close()
	assert.NoError(t, DefaultLayout().Validate(f))
}

func TestLayoutValidate_HeaderMismatch(t *testing.T) {
	f := newTemplateFixture(t)
	defer f.Close()
	layout := DefaultLayout()
	f.SetCellValue(layout.TemplateSheet, cellref.Cell(layout.Columns.Wholesale, layout.HeaderRow), "Price")

	err := layout.Validate(f)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "header mismatch")
}

func TestLayoutValidate_MissingSheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	err := DefaultLayout().Validate(f)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.xlsx"), DefaultLayout())
	assert.Error(t, err)
}

func TestLoad_Valid(t *testing.T) {
	path := writeFixture(t, newTemplateFixture(t))
	f, err := Load(path, DefaultLayout())
	require.NoError(t, err)
	defer f.Close()

	v, _ := f.GetCellValue("Linesheet", "A1")
	assert.Equal(t, "Order Form", v)
}

func TestStore_AcquireIsFresh(t *testing.T) {
	path := writeFixture(t, newTemplateFixture(t))
	store, err := NewStore(path, DefaultLayout())
	require.NoError(t, err)

	f1, err := store.Acquire()
	require.NoError(t, err)
	require.NoError(t, f1.SetCellValue("Linesheet", "A1", "mutated"))
	f1.Close()

	f2, err := store.Acquire()
	require.NoError(t, err)
	defer f2.Close()
	v, _ := f2.GetCellValue("Linesheet", "A1")
	assert.Equal(t, "Order Form", v, "acquired workbooks must not share state")
}

func TestCloneSheet(t *testing.T) {
	f := newTemplateFixture(t)
	defer f.Close()
	layout := DefaultLayout()

	require.NoError(t, CloneSheet(f, layout, "FW25", "Acme Co", "FW25 Collection"))

	v, _ := f.GetCellValue("FW25", "A1")
	assert.Equal(t, "Order Form", v)

	v, _ = f.GetCellValue("FW25", cellref.Cell(layout.Columns.Name, layout.HeaderRow))
	assert.Equal(t, "Product Name", v)

	// Header stamps.
	v, _ = f.GetCellValue("FW25", layout.RetailerCell)
	assert.Equal(t, "Acme Co", v)
	v, _ = f.GetCellValue("FW25", layout.LinesheetCell)
	assert.Equal(t, "FW25 Collection", v)

	// Formula copied as an independent expression.
	formula, err := f.GetCellFormula("FW25", "Z5")
	require.NoError(t, err)
	assert.Equal(t, "SUM(N7:N9)", formula)

	// Column width and row height carried over.
	w, _ := f.GetColWidth("FW25", "B")
	assert.InDelta(t, 28, w, 0.01)
	h, _ := f.GetRowHeight("FW25", 1)
	assert.InDelta(t, 32, h, 0.01)
}

func TestCloneSheet_CarriesStyling(t *testing.T) {
	f := newTemplateFixture(t)
	defer f.Close()
	layout := DefaultLayout()

	require.NoError(t, CloneSheet(f, layout, "FW25", "Acme", "FW25"))

	styleID, err := f.GetCellStyle("FW25", "A1")
	require.NoError(t, err)
	require.NotZero(t, styleID)
	style, err := f.GetStyle(styleID)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold)
}

func TestCloneSheet_MissingTemplateSheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	err := CloneSheet(f, DefaultLayout(), "FW25", "Acme", "FW25")
	assert.Error(t, err)
}

func TestNormalizeFormulas(t *testing.T) {
	f := newTemplateFixture(t)
	defer f.Close()

	require.NoError(t, NormalizeFormulas(f))

	formula, err := f.GetCellFormula("Linesheet", "Z5")
	require.NoError(t, err)
	assert.Equal(t, "SUM(N7:N9)", formula)
}

func TestStripFormulas(t *testing.T) {
	f := newTemplateFixture(t)
	defer f.Close()

	require.NoError(t, StripFormulas(f))

	formula, err := f.GetCellFormula("Linesheet", "Z5")
	require.NoError(t, err)
	assert.Empty(t, formula, "formula cells must be stripped")
}
