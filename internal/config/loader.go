package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFromPath reads a config file (YAML or JSON), fills defaults for
// unset fields, and applies environment overrides. Format is detected by
// extension (.yaml/.yml → YAML, .json → JSON) or by content (first
// non-whitespace char).
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Load(data, filepath.Ext(path))
}

// Load parses config from bytes. ext is the file extension for format
// hint; empty = detect from content.
func Load(data []byte, ext string) (*Config, error) {
	c := Default()
	if err := unmarshal(data, ext, c); err != nil {
		return nil, err
	}
	c.applyEnv()
	return c, nil
}

// FromEnv returns the default config with environment overrides applied,
// for callers running without a config file.
func FromEnv() *Config {
	c := Default()
	c.applyEnv()
	return c
}

func unmarshal(data []byte, ext string, c *Config) error {
	ext = strings.ToLower(ext)
	if ext == ".yml" {
		ext = ".yaml"
	}
	switch ext {
	case ".yaml":
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse config yaml: %w", err)
		}
		return nil
	case ".json":
		if err := json.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse config json: %w", err)
		}
		return nil
	}
	// Detect: try JSON first (starts with {), else YAML.
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		if err := json.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse config json: %w", err)
		}
		return nil
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config yaml: %w", err)
	}
	return nil
}
