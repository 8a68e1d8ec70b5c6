// Package config loads and validates the linkonce configuration.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Source    SourceConfig    `yaml:"source"`
	Wiki      WikiConfig      `yaml:"wiki"`
	Extension ExtensionConfig `yaml:"extension"`
	Index     IndexConfig     `yaml:"index"`
	Events    EventsConfig    `yaml:"events"`
	Output    OutputConfig    `yaml:"output"`
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// SourceConfig describes where wiki page sources come from.
type SourceConfig struct {
	Type      string `yaml:"type"`                // "dir" or "git"
	Path      string `yaml:"path,omitempty"`      // content directory (type: dir)
	URL       string `yaml:"url,omitempty"`       // repository URL (type: git)
	Branch    string `yaml:"branch,omitempty"`    // branch to check out (type: git)
	Workspace string `yaml:"workspace,omitempty"` // clone destination (type: git)
}

// WikiConfig controls site-wide rendering behavior.
type WikiConfig struct {
	Title    string `yaml:"title,omitempty"`
	BasePath string `yaml:"base_path,omitempty"` // URL prefix for wiki pages, e.g. "/wiki/"
}

// ExtensionConfig enables or disables the unique-link directives. The
// directive map is consulted at handler registration time only; a directive
// absent from the map is enabled.
type ExtensionConfig struct {
	Enabled    *bool           `yaml:"enabled,omitempty"`
	Directives map[string]bool `yaml:"directives,omitempty"`
}

// ExtensionEnabled reports whether the extension as a whole is on.
func (e ExtensionConfig) ExtensionEnabled() bool {
	return e.Enabled == nil || *e.Enabled
}

// DirectiveEnabled reports whether a single named directive is on.
func (e ExtensionConfig) DirectiveEnabled(name string) bool {
	if !e.ExtensionEnabled() {
		return false
	}
	enabled, ok := e.Directives[name]
	return !ok || enabled
}

// IndexConfig configures the page title index backing existence checks.
type IndexConfig struct {
	Path string `yaml:"path,omitempty"` // sqlite path, ":memory:" by default
}

// EventsConfig configures the optional NATS link-report publisher.
type EventsConfig struct {
	Enabled bool   `yaml:"enabled"`
	NATSURL string `yaml:"nats_url,omitempty"`
	Subject string `yaml:"subject,omitempty"`
}

// OutputConfig represents output configuration for the render command.
type OutputConfig struct {
	Directory string `yaml:"directory"`
	Clean     bool   `yaml:"clean"` // Clean output directory before render
}

// ServerConfig configures the preview server.
type ServerConfig struct {
	Addr            string `yaml:"addr,omitempty"`
	Watch           bool   `yaml:"watch"`
	ReindexInterval string `yaml:"reindex_interval,omitempty"` // duration, empty/0 disables
	Metrics         bool   `yaml:"metrics"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// Load loads configuration from the specified file
func Load(configPath string) (*Config, error) {
	// Load .env/.env.local if present; existing env wins.
	if err := loadEnvFile(); err != nil {
		fmt.Fprintf(os.Stderr, "Note: .env file not found or couldn't be loaded: %v\n", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expandedData), &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ApplyDefaults(&config)

	if err := ValidateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// loadEnvFile loads environment variables from .env/.env.local files.
// Existing process environment variables are not overwritten.
func loadEnvFile() error {
	envPaths := []string{".env", ".env.local"}
	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err != nil {
			continue
		}
		if err := godotenv.Load(envPath); err == nil {
			fmt.Fprintf(os.Stderr, "Loaded environment variables from %s\n", envPath)
			return nil
		}
	}
	return fmt.Errorf("no .env file found")
}

// Init creates a new configuration file with example content
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	enabled := true
	exampleConfig := Config{
		Source: SourceConfig{
			Type: "dir",
			Path: "./content",
		},
		Wiki: WikiConfig{
			Title:    "Example Wiki",
			BasePath: "/wiki/",
		},
		Extension: ExtensionConfig{
			Enabled: &enabled,
			Directives: map[string]bool{
				"uniquelink":            true,
				"uniquelinkifexists":    true,
				"alreadylinkeduniquely": true,
			},
		},
		Index: IndexConfig{
			Path: ":memory:",
		},
		Output: OutputConfig{
			Directory: "./site",
			Clean:     true,
		},
		Server: ServerConfig{
			Addr:    ":8080",
			Watch:   true,
			Metrics: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}

	data, err := yaml.Marshal(&exampleConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal example config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
