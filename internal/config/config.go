// Package config loads the librarybot configuration: the shared core settings
// plus catalog storage and the optional database.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	coreconfig "github.com/m3rciful/librarybot/core/config"
	coredatabase "github.com/m3rciful/librarybot/core/database"
)

const (
	// DriverFile stores the catalog as a JSON file.
	DriverFile = "file"
	// DriverPostgres stores the catalog as a jsonb row.
	DriverPostgres = "postgres"

	defaultCatalogPath = "data/catalog.json"
)

// CatalogConfig selects and configures the catalog store.
type CatalogConfig struct {
	Driver string `yaml:"driver" envconfig:"CATALOG_DRIVER" validate:"oneof=file postgres"`
	Path   string `yaml:"path" envconfig:"CATALOG_PATH" validate:"required_if=Driver file"`
	// Document names the row used by the postgres driver.
	Document string `yaml:"document" envconfig:"CATALOG_DOCUMENT"`
	// SeedPath is imported into an empty postgres store on startup.
	SeedPath    string `yaml:"seed_path" envconfig:"CATALOG_SEED_PATH"`
	SearchLimit int    `yaml:"search_limit" envconfig:"CATALOG_SEARCH_LIMIT" validate:"gte=0,lte=15"`
}

// Config is the application configuration.
type Config struct {
	coreconfig.Config `yaml:",inline"`

	Catalog  CatalogConfig       `yaml:"catalog"`
	Database coredatabase.Config `yaml:"database"`
}

// CoreConfig exposes the embedded core configuration.
func (c *Config) CoreConfig() *coreconfig.Config {
	if c == nil {
		return nil
	}
	return &c.Config
}

// UsesDatabase reports whether the selected catalog driver needs postgres.
func (c *Config) UsesDatabase() bool {
	return c.Catalog.Driver == DriverPostgres
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads the YAML file, applies environment overrides and validates
// everything needed to run the bot. A missing file is allowed so the bot can
// be configured from the environment alone.
func Load(path string) (*Config, error) {
	cfg, err := read(path)
	if err != nil {
		return nil, err
	}
	if err := coreconfig.Normalize(&cfg.Config); err != nil {
		return nil, err
	}
	if err := normalizeCatalog(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadCatalog is Load without the Telegram checks, for offline catalog tooling.
func LoadCatalog(path string) (*Config, error) {
	cfg, err := read(path)
	if err != nil {
		return nil, err
	}
	if err := normalizeCatalog(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func read(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to parse YAML config: %w", err)
			}
		}
	}
	if err := coreconfig.ApplyEnv(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func normalizeCatalog(cfg *Config) error {
	c := &cfg.Catalog
	c.Driver = strings.ToLower(strings.TrimSpace(c.Driver))
	if c.Driver == "" {
		c.Driver = DriverFile
	}
	if c.Driver == DriverFile && strings.TrimSpace(c.Path) == "" {
		c.Path = defaultCatalogPath
	}
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid catalog config: %w", err)
	}
	if cfg.UsesDatabase() {
		db := cfg.Database
		if db.Host == "" || db.Name == "" || db.User == "" {
			return fmt.Errorf("database.host, database.name and database.user are required for the postgres catalog driver")
		}
		if db.Port == "" {
			cfg.Database.Port = "5432"
		}
	}
	return nil
}
