package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	apperrors "github.com/ZesyC/cv-anylyzer/internal/errors"
)

// getHealthCheckTimeout returns the configured health check timeout
func (s *Server) getHealthCheckTimeout() time.Duration {
	if s.AppConfig.Observability.HealthCheck.Timeout > 0 {
		return s.AppConfig.Observability.HealthCheck.Timeout
	}
	return 10 * time.Second
}

// healthHandler provides a health check endpoint including AI provider status
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"status":  "healthy",
		"service": "cvanalyzer",
		"version": s.Version,
	}

	aiStatus := s.checkAIHealth()
	response["ai"] = aiStatus
	response["circuit_breakers"] = s.Reports.Feedback().CircuitBreakerStats()

	// Fallback mode is a valid serving configuration; only an unavailable
	// live model degrades the service.
	if live, ok := aiStatus["live"].(bool); ok && live {
		if available, ok := aiStatus["available"].(bool); ok && !available {
			response["status"] = "degraded"
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Failed to encode health response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// checkAIHealth reports the feedback provider mode and, when live, the
// configured model's availability.
func (s *Server) checkAIHealth() map[string]any {
	gen := s.Reports.Feedback()
	if !gen.LiveEnabled() {
		return map[string]any{
			"live": false,
			"mode": "fallback",
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.getHealthCheckTimeout())
	defer cancel()

	status := map[string]any{
		"live": true,
		"mode": "live",
	}

	modelInfo := gen.ModelInfo(ctx)
	if modelInfo == nil {
		status["available"] = false
		return status
	}

	status["available"] = modelInfo.Available
	status["model"] = modelInfo.Name
	if modelInfo.Error != "" {
		status["error"] = modelInfo.Error
	}

	return status
}

// readyHandler reports whether the analysis pipeline is wired and ready
func (s *Server) readyHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ready := s.Reports != nil && s.AppConfig != nil

	response := map[string]any{
		"ready":   ready,
		"service": "cvanalyzer",
	}
	if ready {
		response["feedback_mode"] = "fallback"
		if s.Reports.Feedback().LiveEnabled() {
			response["feedback_mode"] = "live"
		}
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Failed to encode readiness response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// statsHandler provides server statistics including rate limiting info
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]any{
		"service": "cvanalyzer",
		"version": s.Version,
		"server": map[string]any{
			"max_request_size_bytes": s.MaxRequestSize,
		},
	}

	if s.RateLimiter != nil {
		response["rate_limiting"] = s.RateLimiter.GetStats()
	} else {
		response["rate_limiting"] = map[string]any{
			"enabled": false,
		}
	}

	if s.RateLimit != nil {
		response["rate_limit_config"] = map[string]any{
			"enabled":          s.RateLimit.Enabled,
			"requests_per_min": s.RateLimit.RequestsPerMin,
			"burst_capacity":   s.RateLimit.BurstCapacity,
			"by_ip":            s.RateLimit.ByIP,
			"by_api_key":       s.RateLimit.ByAPIKey,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Failed to encode stats response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// writeErrorResponse writes a standardized error envelope
func writeErrorResponse(w http.ResponseWriter, code, message string, errType apperrors.ErrorType, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Type:    string(errType),
		},
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Failed to encode error response: %v", err)
		http.Error(w, "Failed to encode error response", http.StatusInternalServerError)
	}
}
