package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func validTestConfig() *Config {
	return &Config{
		AI: AIConfig{
			Provider: "gemini",
			Model:    "gemini-2.0-flash",
			Timeout:  60 * time.Second,
		},
		Server: ServerConfig{
			Port: "8080",
			TLS:  TLSConfig{Mode: "disabled"},
		},
		App: AppConfig{
			LogLevel:         "info",
			DefaultFormat:    "json",
			SupportedFormats: []string{"json", "text", "markdown"},
			MaxFileSize:      10 * 1024 * 1024,
			TopKeywords:      30,
			DefaultLanguage:  "en",
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		expectErr bool
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:   "missing API key is allowed",
			mutate: func(c *Config) { c.AI.APIKey = "" },
		},
		{
			name:      "zero AI timeout",
			mutate:    func(c *Config) { c.AI.Timeout = 0 },
			expectErr: true,
		},
		{
			name:      "missing server port",
			mutate:    func(c *Config) { c.Server.Port = "" },
			expectErr: true,
		},
		{
			name:      "zero max file size",
			mutate:    func(c *Config) { c.App.MaxFileSize = 0 },
			expectErr: true,
		},
		{
			name:      "unsupported default language",
			mutate:    func(c *Config) { c.App.DefaultLanguage = "fr" },
			expectErr: true,
		},
		{
			name:      "default format not in supported set",
			mutate:    func(c *Config) { c.App.DefaultFormat = "xml" },
			expectErr: true,
		},
		{
			name:   "vietnamese default language",
			mutate: func(c *Config) { c.App.DefaultLanguage = "vi" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validTestConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.expectErr && err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !tt.expectErr && err != nil {
				t.Fatalf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestValidateTLSConfig(t *testing.T) {
	tests := []struct {
		name      string
		tls       TLSConfig
		expectErr bool
	}{
		{
			name: "disabled mode needs nothing",
			tls:  TLSConfig{Mode: "disabled"},
		},
		{
			name: "server mode with files",
			tls:  TLSConfig{Mode: "server", CertFile: "cert.pem", KeyFile: "key.pem"},
		},
		{
			name: "server mode with content",
			tls:  TLSConfig{Mode: "server", CertContent: "cert", KeyContent: "key"},
		},
		{
			name:      "server mode missing key",
			tls:       TLSConfig{Mode: "server", CertFile: "cert.pem"},
			expectErr: true,
		},
		{
			name:      "both file and content for cert",
			tls:       TLSConfig{Mode: "server", CertFile: "cert.pem", CertContent: "cert", KeyFile: "key.pem"},
			expectErr: true,
		},
		{
			name:      "unknown mode",
			tls:       TLSConfig{Mode: "mutual"},
			expectErr: true,
		},
		{
			name:      "bad min version",
			tls:       TLSConfig{Mode: "server", CertFile: "c", KeyFile: "k", MinVersion: "1.0"},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validTestConfig()
			cfg.Server.TLS = tt.tls

			err := cfg.ValidateTLSConfig()
			if tt.expectErr && err == nil {
				t.Fatal("expected TLS validation error, got nil")
			}
			if !tt.expectErr && err != nil {
				t.Fatalf("unexpected TLS validation error: %v", err)
			}
		})
	}
}

func TestLoadPromptsFromFiles(t *testing.T) {
	t.Run("no files configured", func(t *testing.T) {
		cfg := validTestConfig()
		if err := cfg.loadPromptsFromFiles(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("loads and trims file content", func(t *testing.T) {
		promptFile := filepath.Join(t.TempDir(), "review-en.txt")
		if err := os.WriteFile(promptFile, []byte("  custom review prompt %s \n"), 0600); err != nil {
			t.Fatalf("write prompt file: %v", err)
		}

		cfg := validTestConfig()
		cfg.AI.CustomPrompts.ReviewEnglishFile = promptFile
		if err := cfg.loadPromptsFromFiles(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		loaded := GetLoadedPrompts()
		if loaded.ReviewEnglish != "custom review prompt %s" {
			t.Errorf("unexpected loaded prompt: %q", loaded.ReviewEnglish)
		}

		// Reset the global store for other tests
		setLoadedPrompt(&loadedPrompts.ReviewEnglish, "")
	})

	t.Run("empty prompt file fails", func(t *testing.T) {
		promptFile := filepath.Join(t.TempDir(), "empty.txt")
		if err := os.WriteFile(promptFile, []byte("   \n"), 0600); err != nil {
			t.Fatalf("write prompt file: %v", err)
		}

		cfg := validTestConfig()
		cfg.AI.CustomPrompts.SystemFile = promptFile
		if err := cfg.loadPromptsFromFiles(); err == nil {
			t.Fatal("expected error for empty prompt file")
		}
	})

	t.Run("missing prompt file fails", func(t *testing.T) {
		cfg := validTestConfig()
		cfg.AI.CustomPrompts.SystemFile = "/nonexistent/prompt.txt"
		if err := cfg.loadPromptsFromFiles(); err == nil {
			t.Fatal("expected error for missing prompt file")
		}
	})
}

func TestApplyFallbacks(t *testing.T) {
	t.Run("server API keys from environment", func(t *testing.T) {
		t.Setenv("CVANALYZER_SERVER_APIKEYS", " key-one , key-two ")

		cfg := validTestConfig()
		cfg.applyFallbacks()

		if len(cfg.Server.APIKeys) != 2 {
			t.Fatalf("expected 2 API keys, got %d", len(cfg.Server.APIKeys))
		}
		if cfg.Server.APIKeys[0] != "key-one" || cfg.Server.APIKeys[1] != "key-two" {
			t.Errorf("API keys not trimmed: %v", cfg.Server.APIKeys)
		}
	})

	t.Run("legacy gemini key env", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "legacy-key")

		cfg := validTestConfig()
		cfg.applyFallbacks()

		if cfg.AI.APIKey != "legacy-key" {
			t.Errorf("expected legacy key to be applied, got %q", cfg.AI.APIKey)
		}
	})

	t.Run("service instance is derived", func(t *testing.T) {
		cfg := validTestConfig()
		cfg.Observability.ServiceName = "cv-anylyzer"
		cfg.applyFallbacks()

		if cfg.Observability.ServiceInstance == "" {
			t.Error("expected service instance to be generated")
		}
	})
}
