// Package config loads the formbuilder CLI configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formbuilder/pkg/codegen"
	"github.com/goliatone/go-formbuilder/pkg/history"
)

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = ".formbuilder.yaml"

// Config holds the CLI settings. JSON files are accepted since JSON is valid
// YAML.
type Config struct {
	HistoryLimit  int    `yaml:"historyLimit"`
	DefaultFormat string `yaml:"defaultFormat"`
	Theme         string `yaml:"theme"`
	Language      string `yaml:"language"`
	Storage       string `yaml:"storage"`
	Listen        string `yaml:"listen"`
	SchemaModule  string `yaml:"schemaModule"`
	LogLevel      string `yaml:"logLevel"`
	LogFormat     string `yaml:"logFormat"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		HistoryLimit:  history.DefaultLimit,
		DefaultFormat: codegen.FormatJSON,
		Theme:         "light",
		Language:      "en",
		Storage:       "file:" + filepath.Join(".formbuilder", "state.json"),
		Listen:        ":8080",
		SchemaModule:  codegen.DefaultSchemaModule,
		LogLevel:      "info",
		LogFormat:     "text",
	}
}

// Load reads path over the defaults. An empty path tries DefaultFile and
// falls back to the defaults when it does not exist.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values the CLI cannot recover from.
func (c Config) Validate() error {
	if c.HistoryLimit < 0 {
		return errors.New("historyLimit must not be negative")
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown logFormat %q", c.LogFormat)
	}
	return nil
}
