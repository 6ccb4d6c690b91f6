package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/linecraft/linesheet"
	"github.com/linecraft/linesheet/internal/bundle"
	"github.com/linecraft/linesheet/internal/commerce"
)

// Server wires the HTTP surface to the generator and the commerce client.
type Server struct {
	generator *linesheet.Generator
	commerce  *commerce.Client
	logger    *slog.Logger
}

// NewServer builds the server.
func NewServer(g *linesheet.Generator, c *commerce.Client, logger *slog.Logger) *Server {
	return &Server{generator: g, commerce: c, logger: logger}
}

// Router returns the configured route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.requestID)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/linesheets/generate", s.handleGenerate).Methods(http.MethodPost)
	return r
}

type ctxKey string

const requestIDKey ctxKey = "request_id"

func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-ID", id)
		ctx := context.WithValue(r.Context(), requestIDKey, id)
		s.logger.Info("request", "id", id, "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

type generateRequest struct {
	CompanyLocationID string   `json:"companyLocationId"`
	CatalogIDs        []string `json:"catalogIds"`
	OutputType        string   `json:"outputType"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	if req.CompanyLocationID == "" || len(req.CatalogIDs) == 0 {
		writeError(w, http.StatusBadRequest, "bad_request", "companyLocationId and catalogIds are required")
		return
	}

	output := linesheet.OutputType(req.OutputType)
	if output == "" {
		output = linesheet.OutputCombined
	}
	if output != linesheet.OutputCombined && output != linesheet.OutputSeparate {
		writeError(w, http.StatusBadRequest, "bad_request", "outputType must be combined or separate")
		return
	}

	ctx := r.Context()
	company, err := s.commerce.CompanyByLocation(ctx, req.CompanyLocationID)
	if err != nil {
		s.writeGenerateError(w, fmt.Errorf("%w: company lookup: %v", linesheet.ErrUpstream, err))
		return
	}
	catalogs, err := s.commerce.CatalogsByIDs(ctx, req.CatalogIDs)
	if err != nil {
		s.writeGenerateError(w, fmt.Errorf("%w: catalog fetch: %v", linesheet.ErrUpstream, err))
		return
	}

	result, err := s.generator.Generate(ctx, company, catalogs, output)
	if err != nil {
		s.writeGenerateError(w, err)
		return
	}

	if result.Single() {
		file := result.Files[0]
		w.Header().Set("Content-Type", linesheet.MIMEWorkbook)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
		w.Write(file.Buffer)
		return
	}

	archive, err := bundle.Zip(result.Files)
	if err != nil {
		s.logger.Error("zip bundling failed", "error", err)
		writeError(w, http.StatusInternalServerError, "bundle_error", "failed to bundle workbooks")
		return
	}
	w.Header().Set("Content-Type", linesheet.MIMEZip)
	w.Header().Set("Content-Disposition", `attachment; filename="linesheets.zip"`)
	w.Write(archive)
}

func (s *Server) writeGenerateError(w http.ResponseWriter, err error) {
	s.logger.Error("generation failed", "error", err)
	switch {
	case errors.Is(err, linesheet.ErrUpstream):
		writeError(w, http.StatusBadGateway, "upstream_error", "failed to load commerce data")
	case errors.Is(err, linesheet.ErrTemplate):
		writeError(w, http.StatusInternalServerError, "template_error", "order-form template is missing or invalid")
	case errors.Is(err, linesheet.ErrSerialize):
		writeError(w, http.StatusInternalServerError, "serialize_error", "workbook could not be serialized")
	default:
		writeError(w, http.StatusInternalServerError, "generate_error", "linesheet generation failed")
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"code": code, "message": message})
}
