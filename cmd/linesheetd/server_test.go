package main

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/linecraft/linesheet"
	"github.com/linecraft/linesheet/internal/cellref"
	"github.com/linecraft/linesheet/internal/commerce"
	"github.com/linecraft/linesheet/internal/template"
)

func writeTemplate(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	layout := template.DefaultLayout()
	_, err := f.NewSheet(layout.TemplateSheet)
	require.NoError(t, err)
	require.NoError(t, f.DeleteSheet("Sheet1"))

	for col, label := range map[int]string{
		layout.Columns.Name:        "Product Name",
		layout.Columns.StyleNumber: "Style #",
		layout.Columns.Color:       "Color",
		layout.Columns.Wholesale:   "Wholesale",
		layout.Columns.SuggRetail:  "Sugg. Retail",
	} {
		f.SetCellValue(layout.TemplateSheet, cellref.Cell(col, layout.HeaderRow), label)
	}

	path := filepath.Join(t.TempDir(), "template.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	g := linesheet.NewGenerator(
		linesheet.WithTemplate(writeTemplate(t)),
		linesheet.WithLogger(logger),
	)
	c := commerce.New("", "", commerce.WithMockData(true), commerce.WithLogger(logger))
	return NewServer(g, c, logger)
}

func postGenerate(t *testing.T, s *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/linesheets/generate", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestGenerate_InvalidBody(t *testing.T) {
	s := newTestServer(t)
	rec := postGenerate(t, s, "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerate_MissingFields(t *testing.T) {
	s := newTestServer(t)
	rec := postGenerate(t, s, `{"companyLocationId":"","catalogIds":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "bad_request", body["code"])
}

func TestGenerate_InvalidOutputType(t *testing.T) {
	s := newTestServer(t)
	rec := postGenerate(t, s, `{"companyLocationId":"loc-1","catalogIds":["c1"],"outputType":"shuffled"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerate_SingleWorkbook(t *testing.T) {
	s := newTestServer(t)
	rec := postGenerate(t, s, `{"companyLocationId":"loc-1","catalogIds":["c1"]}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, linesheet.MIMEWorkbook, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), "Summary")
}

func TestGenerate_SeparateReturnsZip(t *testing.T) {
	s := newTestServer(t)
	rec := postGenerate(t, s, `{"companyLocationId":"loc-1","catalogIds":["c1","c2"],"outputType":"separate"}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, linesheet.MIMEZip, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "linesheets.zip")
	// ZIP local file header magic.
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))
}

func TestGenerate_UpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	g := linesheet.NewGenerator(
		linesheet.WithTemplate(writeTemplate(t)),
		linesheet.WithLogger(logger),
	)
	c := commerce.New(srv.URL, "token", commerce.WithLogger(logger))
	s := NewServer(g, c, logger)

	rec := postGenerate(t, s, `{"companyLocationId":"loc-1","catalogIds":["c1"]}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "upstream_error", body["code"])
}

func TestGenerate_TemplateFailure(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	g := linesheet.NewGenerator(
		linesheet.WithTemplate(filepath.Join(t.TempDir(), "missing.xlsx")),
		linesheet.WithLogger(logger),
	)
	c := commerce.New("", "", commerce.WithMockData(true), commerce.WithLogger(logger))
	s := NewServer(g, c, logger)

	rec := postGenerate(t, s, `{"companyLocationId":"loc-1","catalogIds":["c1"]}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "template_error", body["code"])
}
