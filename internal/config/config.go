// Package config holds the runtime configuration: LLM provider settings,
// HR backend connection, and logging switches.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all settings.
type Config struct {
	Name string `yaml:"name"`

	// LLM configures the optional extraction service.
	LLM LLMConfig `yaml:"llm"`

	// Backend configures the required HR backend.
	Backend BackendConfig `yaml:"backend"`

	// Logging controls verbosity.
	Logging LoggingConfig `yaml:"logging"`
}

// LLMConfig configures the extraction layer. An empty provider disables it
// entirely; the pipeline then runs on the deterministic layer alone.
type LLMConfig struct {
	Provider string `yaml:"provider"` // gemini, openai, or empty
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url"`
	Timeout  string `yaml:"timeout"`
}

// BackendConfig configures the HR backend client.
type BackendConfig struct {
	BaseURL string `yaml:"base_url"`
	Token   string `yaml:"token"`
	Timeout string `yaml:"timeout"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Verbose bool `yaml:"verbose"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Name: "hrsaathi",
		LLM: LLMConfig{
			Provider: "gemini",
			Model:    "gemini-2.0-flash",
			Timeout:  "10s",
		},
		Backend: BackendConfig{
			Timeout: "20s",
		},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".hrsaathi", "config.yaml")
}

// Load reads a config file and applies environment overrides.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the config to path, creating parent directories.
func (c Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides lets environment variables win over file values.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("GEMINI_API_KEY"); v != "" && (c.LLM.Provider == "gemini" || c.LLM.Provider == "") {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("HRSAATHI_LLM_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("HRSAATHI_BACKEND_URL"); v != "" {
		c.Backend.BaseURL = v
	}
	if v := os.Getenv("HRSAATHI_BACKEND_TOKEN"); v != "" {
		c.Backend.Token = v
	}
}

// Validate checks that required settings are present.
func (c Config) Validate() error {
	if c.Backend.BaseURL == "" {
		return fmt.Errorf("backend.base_url is required")
	}
	switch c.LLM.Provider {
	case "", "gemini", "openai":
	default:
		return fmt.Errorf("unknown llm provider %q", c.LLM.Provider)
	}
	return nil
}

// LLMTimeout parses the LLM timeout with a 10s fallback.
func (c Config) LLMTimeout() time.Duration {
	return parseDuration(c.LLM.Timeout, 10*time.Second)
}

// BackendTimeout parses the backend timeout with a 20s fallback.
func (c Config) BackendTimeout() time.Duration {
	return parseDuration(c.Backend.Timeout, 20*time.Second)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
