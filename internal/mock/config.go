package mock

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/studiowebux/sihui/internal/config"
)

// LoadConfig loads a mock configuration from a YAML or JSON file. JSON files may carry comments.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(jsonc.ToJSON(data), &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %s (use .yaml, .yml, or .json)", ext)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func validateConfig(cfg *Config) error {
	if len(cfg.Routes) == 0 {
		return fmt.Errorf("no routes defined")
	}

	for i, route := range cfg.Routes {
		if route.Method == "" {
			return fmt.Errorf("route %d: method is required", i)
		}
		if route.Path == "" {
			return fmt.Errorf("route %d: path is required", i)
		}
		switch route.MatchType {
		case "", MatchExact, MatchPrefix:
		case MatchRegex:
			if _, err := regexp.Compile(route.Path); err != nil {
				return fmt.Errorf("route %d: invalid regex: %w", i, err)
			}
		default:
			return fmt.Errorf("route %d: matchType must be 'exact', 'prefix', or 'regex'", i)
		}
		if route.Status != 0 && (route.Status < 100 || route.Status > 599) {
			return fmt.Errorf("route %d: invalid status %d", i, route.Status)
		}
	}

	return nil
}

// SaveConfig saves a mock configuration to a file
func SaveConfig(cfg *Config, path string) error {
	var data []byte
	var err error

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
	case ".json":
		data, err = json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
	default:
		return fmt.Errorf("unsupported config file format: %s (use .yaml, .yml, or .json)", ext)
	}

	if err := os.WriteFile(path, data, config.FilePermissions); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
