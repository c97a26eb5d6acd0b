package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Environment variables that select the backend
const (
	EnvAPIURL       = "SIHUI_API_URL"
	EnvLegacyAPIURL = "NEXT_PUBLIC_API_URL"
	EnvPassword     = "SIHUI_PASSWORD"
)

// DefaultAPIURL is used when nothing else names a backend
const DefaultAPIURL = "http://localhost:8080/api"

// Settings holds the user-tunable client options
type Settings struct {
	APIURL         string   `yaml:"api_url,omitempty" json:"api_url,omitempty"`
	Timeout        Duration `yaml:"timeout" json:"timeout"`
	Retries        int      `yaml:"retries" json:"retries"`
	RetryDelay     Duration `yaml:"retry_delay" json:"retry_delay"`
	RateLimit      float64  `yaml:"rate_limit" json:"rate_limit"` // requests per second, 0 disables
	HistoryEnabled *bool    `yaml:"history_enabled,omitempty" json:"history_enabled,omitempty"`
	LogLevel       string   `yaml:"log_level,omitempty" json:"log_level,omitempty"`
	Output         string   `yaml:"output,omitempty" json:"output,omitempty"` // json, yaml, text
}

// DefaultSettings returns the settings used when no file exists
func DefaultSettings() Settings {
	enabled := true
	return Settings{
		Timeout:        Duration(10 * time.Second),
		RetryDelay:     Duration(time.Second),
		HistoryEnabled: &enabled,
		LogLevel:       "info",
		Output:         "text",
	}
}

// IsHistoryEnabled reports whether exchanges should be logged locally
func (s Settings) IsHistoryEnabled() bool {
	return s.HistoryEnabled == nil || *s.HistoryEnabled
}

// Load reads settings from path, layering them over the defaults.
// A missing file is not an error. Files ending in .json may contain comments.
func Load(path string) (Settings, error) {
	settings := DefaultSettings()
	if path == "" {
		return settings, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("failed to read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(jsonc.ToJSON(data), &settings); err != nil {
			return settings, fmt.Errorf("failed to parse config file: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &settings); err != nil {
			return settings, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if settings.Timeout <= 0 {
		settings.Timeout = Duration(10 * time.Second)
	}
	if settings.Retries < 0 {
		settings.Retries = 0
	}
	return settings, nil
}

// LoadEnv loads variables from the given .env files into the process environment.
// Existing variables win and missing files are skipped.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", file, err)
		}
	}
	return nil
}

// ResolveAPIURL picks the backend base URL.
// Priority: explicit override, SIHUI_API_URL, NEXT_PUBLIC_API_URL, settings file, built-in default.
func ResolveAPIURL(override string, settings Settings) string {
	candidates := []string{
		override,
		os.Getenv(EnvAPIURL),
		os.Getenv(EnvLegacyAPIURL),
		settings.APIURL,
	}
	for _, c := range candidates {
		if c = strings.TrimSpace(c); c != "" {
			return c
		}
	}
	return DefaultAPIURL
}

// Duration is a time.Duration read from "10s" style strings or millisecond numbers
type Duration time.Duration

// Std returns the standard library value
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

func (d Duration) MarshalYAML() (any, error) {
	return d.String(), nil
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := parseDuration(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*d = parsed
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	parsed, err := parseDuration(strings.Trim(string(data), `"`))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// parseDuration accepts Go duration syntax; bare numbers are milliseconds
func parseDuration(raw string) (Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	if dur, err := time.ParseDuration(raw); err == nil {
		return Duration(dur), nil
	}
	var ms int64
	if _, err := fmt.Sscanf(raw, "%d", &ms); err == nil && fmt.Sprint(ms) == raw {
		return Duration(time.Duration(ms) * time.Millisecond), nil
	}
	return 0, fmt.Errorf("invalid duration %q", raw)
}
