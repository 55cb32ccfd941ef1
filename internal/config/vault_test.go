package config

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashicorp/vault/api"

	"github.com/ZesyC/cv-anylyzer/internal/errors"
)

func newTestLogger() *errors.Logger {
	logger, _ := errors.New("debug")
	return logger
}

func TestExtractSecretVersion(t *testing.T) {
	tests := []struct {
		name        string
		secret      *api.Secret
		expectError bool
		expected    int64
	}{
		{
			name: "version as int64",
			secret: &api.Secret{
				Data: map[string]interface{}{
					"metadata": map[string]interface{}{"version": int64(42)},
				},
			},
			expected: 42,
		},
		{
			name: "version as float64",
			secret: &api.Secret{
				Data: map[string]interface{}{
					"metadata": map[string]interface{}{"version": float64(42)},
				},
			},
			expected: 42,
		},
		{
			name: "version as string",
			secret: &api.Secret{
				Data: map[string]interface{}{
					"metadata": map[string]interface{}{"version": "42"},
				},
			},
			expected: 42,
		},
		{
			name: "unparseable string version",
			secret: &api.Secret{
				Data: map[string]interface{}{
					"metadata": map[string]interface{}{"version": "not-a-number"},
				},
			},
			expectError: true,
		},
		{
			name: "missing metadata field",
			secret: &api.Secret{
				Data: map[string]interface{}{
					"data": map[string]interface{}{},
				},
			},
			expectError: true,
		},
		{
			name: "missing version field",
			secret: &api.Secret{
				Data: map[string]interface{}{
					"metadata": map[string]interface{}{"other": "value"},
				},
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := extractSecretVersion(tt.secret, "secret/test")

			if tt.expectError {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result != tt.expected {
				t.Errorf("expected version %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestResolveVaultToken(t *testing.T) {
	logger := newTestLogger()

	t.Run("token from config", func(t *testing.T) {
		token, err := resolveVaultToken(VaultConfig{Token: "direct-token"}, logger)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if token != "direct-token" {
			t.Errorf("expected 'direct-token', got %q", token)
		}
	})

	t.Run("token from file is trimmed", func(t *testing.T) {
		tokenFile := filepath.Join(t.TempDir(), "vault-token")
		if err := os.WriteFile(tokenFile, []byte("  file-token  \n"), 0600); err != nil {
			t.Fatalf("write token file: %v", err)
		}

		token, err := resolveVaultToken(VaultConfig{TokenFile: tokenFile}, logger)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if token != "file-token" {
			t.Errorf("expected 'file-token', got %q", token)
		}
	})

	t.Run("missing token file", func(t *testing.T) {
		_, err := resolveVaultToken(VaultConfig{TokenFile: "/nonexistent/token/file"}, logger)
		if err == nil {
			t.Fatal("expected error for missing token file")
		}
		if !strings.Contains(err.Error(), "failed to read vault token file") {
			t.Errorf("unexpected error message: %v", err)
		}
	})

	t.Run("no token provided", func(t *testing.T) {
		_, err := resolveVaultToken(VaultConfig{}, logger)
		if err == nil {
			t.Fatal("expected error when no token is provided")
		}
		if !strings.Contains(err.Error(), "vault token is required") {
			t.Errorf("unexpected error message: %v", err)
		}
	})

	t.Run("whitespace-only token file", func(t *testing.T) {
		tokenFile := filepath.Join(t.TempDir(), "empty-token")
		if err := os.WriteFile(tokenFile, []byte("   \n  \n"), 0600); err != nil {
			t.Fatalf("write token file: %v", err)
		}

		_, err := resolveVaultToken(VaultConfig{TokenFile: tokenFile}, logger)
		if err == nil {
			t.Fatal("expected error for whitespace-only token file")
		}
	})
}

func TestApplyVaultSecretsDisabled(t *testing.T) {
	config := &Config{
		Vault: VaultConfig{Enabled: false},
	}

	if err := ApplyVaultSecrets(config, newTestLogger()); err != nil {
		t.Fatalf("disabled vault should be a no-op, got error: %v", err)
	}
}

func TestApplyVaultSecretsFromServer(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/sys/health" {
			if got := r.Header.Get("X-Vault-Token"); got != "test-token" {
				t.Errorf("unexpected vault token header: %q", got)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v1/sys/health":
			fmt.Fprint(w, `{"initialized":true,"sealed":false,"standby":false,"version":"1.15.0"}`)
		case "/v1/secret/data/cvanalyzer/api-keys":
			fmt.Fprint(w, `{"data":{"data":{"keys":"key-one, key-two"},"metadata":{"version":1}}}`)
		case "/v1/secret/data/cvanalyzer/gemini":
			fmt.Fprint(w, `{"data":{"data":{"api_key":"gemini-secret-key"},"metadata":{"version":2}}}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer ts.Close()

	config := &Config{
		Vault: VaultConfig{
			Enabled: true,
			Address: ts.URL,
			Token:   "test-token",
			Secrets: VaultSecrets{
				APIKeys:   "secret/data/cvanalyzer/api-keys",
				GeminiKey: "secret/data/cvanalyzer/gemini",
			},
		},
	}

	if err := ApplyVaultSecrets(config, newTestLogger()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if config.AI.APIKey != "gemini-secret-key" {
		t.Errorf("expected gemini key from vault, got %q", config.AI.APIKey)
	}
	wantKeys := []string{"key-one", "key-two"}
	if len(config.Server.APIKeys) != len(wantKeys) {
		t.Fatalf("expected %d API keys, got %v", len(wantKeys), config.Server.APIKeys)
	}
	for i, want := range wantKeys {
		if config.Server.APIKeys[i] != want {
			t.Errorf("expected API key[%d] = %q, got %q", i, want, config.Server.APIKeys[i])
		}
	}
}

func TestNewVaultClientDisabled(t *testing.T) {
	client, err := NewVaultClient(VaultConfig{Enabled: false}, newTestLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client != nil {
		t.Error("expected nil client when vault is disabled")
	}
}

func TestGetSecretV2NilClient(t *testing.T) {
	var vc *VaultClient
	if _, err := vc.GetSecretV2("secret/data/test"); err == nil {
		t.Fatal("expected error from nil client")
	}
}
