// Package config loads the CLI's optional luac.jsonc project file: JSON
// with comments and trailing commas, via github.com/tailscale/hujson,
// grounded in 256lights-zb/cmd/zb/config.go's mergeFiles. CLI flags always
// override values read here.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/tailscale/hujson"
)

// Config is the luac.jsonc schema: output defaults, the sizeof(size_t)
// width, and verbosity. The luac commands apply only Verbose; OutputDir
// and SizeTWidth are parsed but not read by any command.
type Config struct {
	OutputDir  string `json:"outputDir"`
	SizeTWidth int    `json:"sizeTWidth"` // 4 or 8; defaults to 4 for portability.
	Verbose    bool   `json:"verbose"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{SizeTWidth: 4}
}

// Load reads and merges a hujson config file at path into Default(). A
// missing file is not an error; Default() is returned unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}
	std, err := hujson.Standardize(raw)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := json.Unmarshal(std, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}
