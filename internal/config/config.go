package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"

	"github.com/casperlab/infradash/internal/source"
)

// Config holds runtime configuration for the dashboard service. An empty
// InventoryPath means the built-in dataset is served.
type Config struct {
	Addr            string `env:"ADDR,default=:8080"`
	InventoryPath   string `env:"INVENTORY_PATH"`
	InventoryFormat string `env:"INVENTORY_FORMAT,default=yaml"`
	Title           string `env:"DASHBOARD_TITLE,default=CASPER Infrastructure Resource Distribution"`
}

// Load returns a Config populated from environment variables.
func Load(ctx context.Context) (Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field values that envconfig cannot.
func (c Config) Validate() error {
	switch c.InventoryFormat {
	case source.FormatYAML, source.FormatSQLite:
		return nil
	default:
		return fmt.Errorf("INVENTORY_FORMAT must be %q or %q, got %q",
			source.FormatYAML, source.FormatSQLite, c.InventoryFormat)
	}
}
