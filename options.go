package linesheet

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/linecraft/linesheet/internal/sheets"
	"github.com/linecraft/linesheet/internal/template"
)

// Options holds configuration for a Generator.
type Options struct {
	templatePath       string
	templateStore      *template.Store
	layout             template.Layout
	permissiveTemplate bool
	estimatorExpr      string
	logger             *slog.Logger
	httpClient         *http.Client
	fetchTimeout       time.Duration
	fetchConcurrency   int
}

func defaultOptions() *Options {
	return &Options{
		layout:           template.DefaultLayout(),
		estimatorExpr:    sheets.DefaultEstimatorExpr,
		logger:           slog.Default(),
		fetchTimeout:     10 * time.Second,
		fetchConcurrency: 6,
	}
}

// Option configures the Generator.
type Option func(*Options)

// WithTemplate sets the template file path. Each generation run re-opens the
// template so runs never share workbook state.
func WithTemplate(path string) Option {
	return func(o *Options) { o.templatePath = path }
}

// WithTemplateStore serves templates from a startup-loaded store instead of
// re-reading the file per run. Takes precedence over WithTemplate.
func WithTemplateStore(s *template.Store) Option {
	return func(o *Options) { o.templateStore = s }
}

// WithLayout overrides the default template layout.
func WithLayout(l template.Layout) Option {
	return func(o *Options) { o.layout = l }
}

// WithPermissiveTemplate falls back to an empty workbook when the template
// cannot be loaded, instead of failing the request. Development use only; the
// fallback is logged loudly.
func WithPermissiveTemplate(permissive bool) Option {
	return func(o *Options) { o.permissiveTemplate = permissive }
}

// WithEstimatorExpr sets the summary unit-estimator expression.
func WithEstimatorExpr(src string) Option {
	return func(o *Options) { o.estimatorExpr = src }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithHTTPClient overrides the image-fetch HTTP client, mainly for tests.
func WithHTTPClient(c *http.Client) Option {
	return func(o *Options) { o.httpClient = c }
}

// WithFetchTimeout bounds each image fetch attempt.
func WithFetchTimeout(d time.Duration) Option {
	return func(o *Options) { o.fetchTimeout = d }
}

// WithFetchConcurrency caps concurrent in-flight image fetches per catalog.
func WithFetchConcurrency(n int) Option {
	return func(o *Options) { o.fetchConcurrency = n }
}
