package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
)

// Load returns the defaults, overlaid with the file at path when path is not
// empty, overlaid with TRIAGE_* environment variables, and validated.
func Load(path string) (*Config, error) {
	config := Default()
	if path != "" {
		if err := config.mergeFile(path); err != nil {
			return nil, err
		}
	}
	config.ApplyEnv(os.LookupEnv)
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// ParseFile loads a Config from a file on top of the defaults. The file
// extension is used to determine the configuration format (JSON or YAML).
func ParseFile(path string) (*Config, error) {
	config := Default()
	if err := config.mergeFile(path); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json":
		err = c.mergeJSON(data)
	case ".yml", ".yaml":
		err = c.mergeYAML(data)
	default:
		return fmt.Errorf("unsupported file extension: %s", ext)
	}
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// ParseYAML loads a Config from YAML on top of the defaults. Unknown keys are
// rejected.
func ParseYAML(data []byte) (*Config, error) {
	config := Default()
	if err := config.mergeYAML(data); err != nil {
		return nil, err
	}
	return config, nil
}

// ParseJSON loads a Config from JSON on top of the defaults. Unknown keys are
// rejected.
func ParseJSON(data []byte) (*Config, error) {
	config := Default()
	if err := config.mergeJSON(data); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) mergeYAML(data []byte) error {
	return yaml.UnmarshalWithOptions(data, c, yaml.Strict())
}

func (c *Config) mergeJSON(data []byte) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	return decoder.Decode(c)
}
