package ai

import (
	"errors"
	"testing"
	"time"

	"github.com/ZesyC/cv-anylyzer/internal/config"

	"google.golang.org/genai"
)

func enabledBreakerConfig() *config.CircuitBreakerConfig {
	return &config.CircuitBreakerConfig{
		Enabled:          true,
		MaxRequests:      3,
		Interval:         60 * time.Second,
		Timeout:          60 * time.Second,
		MinRequests:      3,
		FailureThreshold: 0.6,
	}
}

func TestCircuitBreakerConfigurationMapping(t *testing.T) {
	cb := NewAICircuitBreaker(enabledBreakerConfig(), nil)
	if cb == nil {
		t.Fatal("Circuit breaker should not be nil")
	}

	stats := cb.GetStats()
	if stats == nil {
		t.Fatal("Circuit breaker stats should not be nil")
	}

	name, ok := stats["name"].(string)
	if !ok {
		t.Fatal("Circuit breaker name not found")
	}
	if name != "AI-Feedback" {
		t.Errorf("Expected circuit breaker name 'AI-Feedback', got '%s'", name)
	}

	state, ok := stats["state"].(string)
	if !ok {
		t.Fatal("Circuit breaker state not found")
	}
	if state != "closed" {
		t.Errorf("Expected initial state 'closed', got '%s'", state)
	}

	enabled, ok := stats["enabled"].(bool)
	if !ok {
		t.Fatal("Circuit breaker enabled status not found")
	}
	if !enabled {
		t.Error("Circuit breaker should be enabled")
	}

	if !cb.IsHealthy() {
		t.Error("Circuit breaker should be healthy initially")
	}
}

func TestModelCircuitBreakerName(t *testing.T) {
	cb := NewModelCircuitBreaker(enabledBreakerConfig(), nil)
	if cb == nil {
		t.Fatal("Model circuit breaker should not be nil")
	}

	stats := cb.GetModelStats()
	name, ok := stats["name"].(string)
	if !ok {
		t.Fatal("Circuit breaker name not found")
	}
	if name != "AI-Model" {
		t.Errorf("Expected circuit breaker name 'AI-Model', got '%s'", name)
	}

	if !cb.IsModelHealthy() {
		t.Error("Model circuit breaker should be healthy initially")
	}
}

func TestCircuitBreakerDisabled(t *testing.T) {
	disabledConfig := &config.CircuitBreakerConfig{
		Enabled: false,
	}

	cb := NewAICircuitBreaker(disabledConfig, nil)
	if cb != nil {
		t.Fatal("Circuit breaker should be nil when disabled")
	}

	// A nil breaker must still execute the wrapped function directly
	wantErr := errors.New("provider failure")
	calls := 0
	_, err := cb.Execute(func() (*genai.GenerateContentResponse, error) {
		calls++
		return nil, wantErr
	})
	if calls != 1 {
		t.Errorf("Expected wrapped function to run once, ran %d times", calls)
	}
	if !errors.Is(err, wantErr) {
		t.Errorf("Expected wrapped error to pass through, got %v", err)
	}

	stats := cb.GetStats()
	if enabled, _ := stats["enabled"].(bool); enabled {
		t.Error("Disabled circuit breaker stats should report enabled=false")
	}
	if !cb.IsHealthy() {
		t.Error("Disabled circuit breaker should report healthy")
	}
}
