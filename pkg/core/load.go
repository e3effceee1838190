// pkg/core/load.go
package core

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	manifest "github.com/joeydtaylor/steeze-scorefn/pkg/manifest"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// LoadConfig reads a TOML or YAML manifest (by extension) and validates it
// against the parser kinds known to the catalog.
func LoadConfig(path string) (manifest.Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return manifest.Config{}, err
	}
	cfg, err := DecodeConfig(filepath.Ext(path), b)
	if err != nil {
		return manifest.Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// DecodeConfig decodes and validates manifest bytes. ext selects the format;
// anything other than .yaml/.yml is read as TOML.
func DecodeConfig(ext string, b []byte) (manifest.Config, error) {
	var cfg manifest.Config
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return manifest.Config{}, err
		}
	default:
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return manifest.Config{}, err
		}
	}
	if err := cfg.Validate(KnownKind); err != nil {
		return manifest.Config{}, err
	}
	return cfg, nil
}
