package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/CTAG07/pasties/pkg/templating"
	"github.com/natefinch/atomic"
)

const (
	sourceFile   = "file"
	sourceSQLite = "sqlite"
)

// BuildConfig holds the settings for loading pasties and writing the page.
type BuildConfig struct {
	LogLevel        string `json:"log_level"`
	Source          string `json:"source"`
	DataPath        string `json:"data_path"`
	DatabasePath    string `json:"database_path"`
	TemplateDir     string `json:"template_dir"`
	OutputPath      string `json:"output_path"`
	EmbedRuntime    bool   `json:"embed_runtime"`
	WatchDebounceMs int    `json:"watch_debounce_ms"`
}

// Config is the top-level configuration struct that aggregates all other configs.
type Config struct {
	Build     *BuildConfig               `json:"build_config"`
	Templates *templating.TemplateConfig `json:"template_config"`
}

// DefaultBuildConfig creates a build configuration with default values.
func DefaultBuildConfig() *BuildConfig {
	return &BuildConfig{
		LogLevel:        "info",
		Source:          sourceFile,
		DataPath:        "./data/pasties.yaml",
		DatabasePath:    "./data/pasties.db",
		TemplateDir:     "./data/templates",
		OutputPath:      "./public/index.html",
		EmbedRuntime:    true,
		WatchDebounceMs: 200,
	}
}

// LoadConfig reads the configuration from a JSON file at the given path.
// If the file doesn't exist, it creates one with default values.
func LoadConfig(path string) (*Config, error) {
	// Initialize with default configurations
	config := &Config{
		Build:     DefaultBuildConfig(),
		Templates: templating.DefaultConfig(),
	}

	file, err := os.ReadFile(path)
	if err != nil {
		// If the file doesn't exist, create it with the default config.
		if os.IsNotExist(err) {
			var data []byte
			data, err = json.MarshalIndent(config, "", "  ")
			if err != nil {
				return nil, fmt.Errorf("failed to marshal default config: %w", err)
			}
			if err = atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
				// Warn instead of failing, the build can still run with defaults.
				fmt.Fprintf(os.Stderr, "warning: failed to write default config file: %v\n", err)
			}
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err = json.Unmarshal(file, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err = config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.Build == nil {
		c.Build = DefaultBuildConfig()
	}
	if c.Templates == nil {
		c.Templates = templating.DefaultConfig()
	}
	switch c.Build.Source {
	case sourceFile, sourceSQLite:
	default:
		return fmt.Errorf("invalid source %q: expected %q or %q", c.Build.Source, sourceFile, sourceSQLite)
	}
	if c.Build.OutputPath == "" {
		return fmt.Errorf("output_path must not be empty")
	}
	if c.Templates.ContainerSelector == "" {
		return fmt.Errorf("container_selector must not be empty")
	}
	return nil
}

// newLogger builds the text logger for the configured level.
func newLogger(w io.Writer, level string) *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel}))
}
