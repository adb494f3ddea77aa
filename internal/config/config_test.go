package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Name != "hrsaathi" {
		t.Errorf("Name = %q, want hrsaathi", cfg.Name)
	}
	if cfg.LLM.Provider != "gemini" {
		t.Errorf("LLM.Provider = %q, want gemini", cfg.LLM.Provider)
	}
	if cfg.LLMTimeout() != 10*time.Second {
		t.Errorf("LLMTimeout = %v, want 10s", cfg.LLMTimeout())
	}
	if cfg.BackendTimeout() != 20*time.Second {
		t.Errorf("BackendTimeout = %v, want 20s", cfg.BackendTimeout())
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.LLM.Provider = "openai"
	cfg.LLM.Model = "gpt-4o-mini"
	cfg.Backend.BaseURL = "http://hr.example.com"
	cfg.Backend.Token = "secret"
	cfg.Logging.Verbose = true

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.LLM.Provider != "openai" {
		t.Errorf("LLM.Provider = %q, want openai", loaded.LLM.Provider)
	}
	if loaded.LLM.Model != "gpt-4o-mini" {
		t.Errorf("LLM.Model = %q, want gpt-4o-mini", loaded.LLM.Model)
	}
	if loaded.Backend.BaseURL != "http://hr.example.com" {
		t.Errorf("Backend.BaseURL = %q", loaded.Backend.BaseURL)
	}
	if !loaded.Logging.Verbose {
		t.Error("Logging.Verbose = false, want true")
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LLM.Provider != "gemini" {
		t.Errorf("LLM.Provider = %q, want default gemini", cfg.LLM.Provider)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("{{not yaml"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "gem-key")
	t.Setenv("HRSAATHI_BACKEND_URL", "http://env.example.com")
	t.Setenv("HRSAATHI_BACKEND_TOKEN", "env-token")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LLM.APIKey != "gem-key" {
		t.Errorf("LLM.APIKey = %q, want gem-key", cfg.LLM.APIKey)
	}
	if cfg.Backend.BaseURL != "http://env.example.com" {
		t.Errorf("Backend.BaseURL = %q", cfg.Backend.BaseURL)
	}
	if cfg.Backend.Token != "env-token" {
		t.Errorf("Backend.Token = %q", cfg.Backend.Token)
	}

	// The generic key wins over the provider-specific one.
	t.Setenv("HRSAATHI_LLM_API_KEY", "generic-key")
	cfg, err = Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.LLM.APIKey != "generic-key" {
		t.Errorf("LLM.APIKey = %q, want generic-key", cfg.LLM.APIKey)
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err == nil {
		t.Error("expected error without backend.base_url")
	}

	cfg.Backend.BaseURL = "http://hr.example.com"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate failed: %v", err)
	}

	cfg.LLM.Provider = "azure"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestTimeoutFallbacks(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LLM.Timeout = "garbage"
	if cfg.LLMTimeout() != 10*time.Second {
		t.Errorf("LLMTimeout = %v, want fallback 10s", cfg.LLMTimeout())
	}
	cfg.Backend.Timeout = "-5s"
	if cfg.BackendTimeout() != 20*time.Second {
		t.Errorf("BackendTimeout = %v, want fallback 20s", cfg.BackendTimeout())
	}
}
