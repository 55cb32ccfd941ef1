package ai

import (
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/ZesyC/cv-anylyzer/internal/config"
	"github.com/ZesyC/cv-anylyzer/internal/errors"
	"github.com/ZesyC/cv-anylyzer/internal/types"
)

var testLogger = errors.NewLogger(slog.LevelDebug)

func testAIConfig() *config.AIConfig {
	return &config.AIConfig{
		Provider:         "gemini",
		Model:            "test-model",
		Timeout:          30 * time.Second,
		APIKey:           "test-key",
		Temperature:      0.5,
		UseSystemPrompts: true,
		CircuitBreaker: config.CircuitBreakerConfig{
			Enabled:          true,
			MaxRequests:      5,
			Interval:         30 * time.Second,
			Timeout:          45 * time.Second,
			MinRequests:      2,
			FailureThreshold: 0.8,
		},
	}
}

func TestNewServiceUnsupportedProvider(t *testing.T) {
	cfg := testAIConfig()
	cfg.Provider = "openai"

	_, err := NewService(cfg, testLogger)
	if err == nil {
		t.Fatal("Expected error for unsupported provider")
	}
	appErr, ok := err.(*errors.AppError)
	if !ok {
		t.Fatalf("Expected *errors.AppError, got %T", err)
	}
	if appErr.Code != errors.ErrCodeInvalidConfig {
		t.Errorf("Expected code %s, got %s", errors.ErrCodeInvalidConfig, appErr.Code)
	}
}

func TestCircuitBreakerIntegrationWithService(t *testing.T) {
	service, err := NewService(testAIConfig(), testLogger)
	if err != nil {
		// Client construction with a dummy key may fail locally; that is
		// acceptable as long as it does not panic.
		t.Skipf("Could not create service with test key: %v", err)
	}

	if service.config.CircuitBreaker.MaxRequests != 5 {
		t.Errorf("Expected circuit breaker max requests 5, got %d", service.config.CircuitBreaker.MaxRequests)
	}
	if service.config.CircuitBreaker.FailureThreshold != 0.8 {
		t.Errorf("Expected circuit breaker failure threshold 0.8, got %f", service.config.CircuitBreaker.FailureThreshold)
	}

	geminiProvider, ok := service.Provider.(*GeminiProvider)
	if !ok {
		t.Fatal("Service provider is not of type *GeminiProvider")
	}

	stats := geminiProvider.GetCircuitBreakerStats()

	aiOpsStats, ok := stats["ai_operations"].(map[string]any)
	if !ok {
		t.Fatal("AI operations stats should exist and be a map")
	}
	if name, _ := aiOpsStats["name"].(string); name != "AI-Feedback" {
		t.Errorf("Expected circuit breaker name 'AI-Feedback', got '%s'", name)
	}

	modelOpsStats, ok := stats["model_operations"].(map[string]any)
	if !ok {
		t.Fatal("Model operations stats should exist and be a map")
	}
	if name, _ := modelOpsStats["name"].(string); name != "AI-Model" {
		t.Errorf("Expected model circuit breaker name 'AI-Model', got '%s'", name)
	}

	if overallHealthy, _ := stats["overall_healthy"].(bool); !overallHealthy {
		t.Error("Circuit breaker should be healthy initially")
	}
}

func TestRenderReviewPrompt(t *testing.T) {
	req := FeedbackRequest{
		CVText:         "Experience\n- Built APIs serving 10,000 users",
		JobDescription: "",
		Language:       types.LanguageEnglish,
		Checklist: types.SectionChecklist{
			HasExperience: true,
		},
		Bullets: types.BulletStats{Total: 1, Quantified: 1},
	}

	t.Run("english defaults missing JD", func(t *testing.T) {
		prompt := renderReviewPrompt(DefaultReviewPromptEnglish, req)
		if !strings.Contains(prompt, "Not provided") {
			t.Error("Expected missing job description placeholder in English prompt")
		}
		if !strings.Contains(prompt, "Built APIs serving 10,000 users") {
			t.Error("Expected resume text embedded in the prompt")
		}
		if !strings.Contains(prompt, "- Has Experience section: true") {
			t.Error("Expected experience flag rendered as true")
		}
		if !strings.Contains(prompt, "- Quantified bullets: 1/1") {
			t.Error("Expected bullet counts in the prompt")
		}
	})

	t.Run("vietnamese defaults missing JD", func(t *testing.T) {
		viReq := req
		viReq.Language = types.LanguageVietnamese
		prompt := renderReviewPrompt(DefaultReviewPromptVietnamese, viReq)
		if !strings.Contains(prompt, "Không có") {
			t.Error("Expected missing job description placeholder in Vietnamese prompt")
		}
		if !strings.Contains(prompt, "TIẾNG VIỆT") {
			t.Error("Expected Vietnamese language instruction")
		}
	})

	t.Run("provided JD is embedded", func(t *testing.T) {
		jdReq := req
		jdReq.JobDescription = "Looking for a Go engineer"
		prompt := renderReviewPrompt(DefaultReviewPromptEnglish, jdReq)
		if !strings.Contains(prompt, "Looking for a Go engineer") {
			t.Error("Expected job description embedded in the prompt")
		}
		if strings.Contains(prompt, "Not provided") {
			t.Error("Placeholder should not appear when a job description is given")
		}
	})
}

func TestCleanJSONResponse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain json", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  {\"a\":1}\n", `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanJSONResponse(tt.input); got != tt.want {
				t.Errorf("cleanJSONResponse(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestResolvePrompt(t *testing.T) {
	tests := []struct {
		name     string
		loaded   string
		cfg      string
		fallback string
		want     string
	}{
		{"file wins", "from-file", "from-config", "default", "from-file"},
		{"config wins over default", "", "from-config", "default", "from-config"},
		{"default when nothing set", "", "", "default", "default"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolvePrompt(tt.loaded, tt.cfg, tt.fallback); got != tt.want {
				t.Errorf("resolvePrompt() = %q, want %q", got, tt.want)
			}
		})
	}
}
