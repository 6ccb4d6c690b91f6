// Command linesheetd serves order-form workbook generation over HTTP.
package main

import (
	"flag"
	"log/slog"
	"net/http"
	"os"

	"github.com/linecraft/linesheet"
	"github.com/linecraft/linesheet/internal/commerce"
	"github.com/linecraft/linesheet/internal/template"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		logger.Error("config load failed", "error", err)
		os.Exit(1)
	}

	store, err := template.NewStore(cfg.TemplatePath, template.DefaultLayout())
	if err != nil {
		if !cfg.PermissiveTemplate {
			logger.Error("template load failed", "path", cfg.TemplatePath, "error", err)
			os.Exit(1)
		}
		logger.Error("template load failed, continuing in permissive mode", "error", err)
		store = nil
	}

	genOpts := []linesheet.Option{
		linesheet.WithLogger(logger),
		linesheet.WithFetchTimeout(cfg.FetchTimeout),
		linesheet.WithPermissiveTemplate(cfg.PermissiveTemplate),
	}
	if store != nil {
		genOpts = append(genOpts, linesheet.WithTemplateStore(store))
	}
	generator := linesheet.NewGenerator(genOpts...)

	commerceOpts := []commerce.Option{commerce.WithLogger(logger)}
	if cfg.Commerce.MockData {
		logger.Warn("commerce client running in MOCK DATA mode")
		commerceOpts = append(commerceOpts, commerce.WithMockData(true))
	}
	client := commerce.New(cfg.Commerce.Endpoint, cfg.Commerce.Token, commerceOpts...)

	srv := NewServer(generator, client, logger)
	logger.Info("listening", "addr", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, srv.Router()); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
