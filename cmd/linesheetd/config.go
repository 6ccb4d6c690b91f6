package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the service configuration, read from a YAML file with
// environment-variable overrides for deployment secrets.
type Config struct {
	Addr         string        `yaml:"addr"`
	TemplatePath string        `yaml:"template_path"`
	FetchTimeout time.Duration `yaml:"fetch_timeout"`

	// PermissiveTemplate falls back to a blank workbook on template load
	// failure. Development only.
	PermissiveTemplate bool `yaml:"permissive_template"`

	Commerce CommerceConfig `yaml:"commerce"`
}

// CommerceConfig configures the upstream GraphQL client.
type CommerceConfig struct {
	Endpoint string `yaml:"endpoint"`
	Token    string `yaml:"token"`

	// MockData serves fixture catalogs instead of live data. Must never be
	// enabled in production.
	MockData bool `yaml:"mock_data"`
}

// LoadConfig reads the YAML config and applies env overrides. A .env file in
// the working directory is loaded first when present.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Addr:         ":8080",
		TemplatePath: "templates/linesheet.xlsx",
		FetchTimeout: 10 * time.Second,
	}

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %q: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config %q: %w", path, err)
		}
	}

	if v := os.Getenv("LINESHEET_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("LINESHEET_TEMPLATE_PATH"); v != "" {
		cfg.TemplatePath = v
	}
	if v := os.Getenv("COMMERCE_ENDPOINT"); v != "" {
		cfg.Commerce.Endpoint = v
	}
	if v := os.Getenv("COMMERCE_TOKEN"); v != "" {
		cfg.Commerce.Token = v
	}

	if !cfg.Commerce.MockData && (cfg.Commerce.Endpoint == "" || cfg.Commerce.Token == "") {
		return nil, fmt.Errorf("commerce endpoint and token are required (set COMMERCE_ENDPOINT / COMMERCE_TOKEN)")
	}
	return cfg, nil
}
