// Package feedback produces narrative resume feedback, preferring a live AI
// provider and degrading to deterministic fallback content when the provider
// is unconfigured or failing. Generation never returns an error to callers.
package feedback

import (
	"context"

	"github.com/ZesyC/cv-anylyzer/internal/ai"
	"github.com/ZesyC/cv-anylyzer/internal/config"
	"github.com/ZesyC/cv-anylyzer/internal/errors"
	"github.com/ZesyC/cv-anylyzer/internal/types"
)

// Request carries the resume analysis inputs feedback is generated from.
type Request struct {
	CVText         string
	JobDescription string
	Language       types.Language
	Checklist      types.SectionChecklist
	Bullets        types.BulletStats
	Keywords       *types.KeywordAnalysis
}

// Result is a generated feedback tagged with its origin.
type Result struct {
	Feedback types.Feedback
	Source   types.FeedbackSource
	Tokens   *ai.TokenUsage
}

// Generator produces feedback from a live provider with deterministic fallback.
type Generator struct {
	provider ai.AIProvider // nil when live feedback is unavailable
	logger   *errors.Logger
}

// NewGenerator builds a Generator. A missing API key or a provider
// construction failure is not fatal: the generator then serves fallback
// feedback for every request.
func NewGenerator(cfg *config.AIConfig, logger *errors.Logger) *Generator {
	if cfg.APIKey == "" {
		logger.Info("AI API key not configured, serving deterministic fallback feedback")
		return &Generator{logger: logger}
	}

	service, err := ai.NewService(cfg, logger)
	if err != nil {
		logger.Warn("Failed to initialize AI provider, serving deterministic fallback feedback",
			"error", err.Error())
		return &Generator{logger: logger}
	}

	return &Generator{provider: service.Provider, logger: logger}
}

// LiveEnabled reports whether a live AI provider is configured.
func (g *Generator) LiveEnabled() bool {
	return g.provider != nil
}

// ModelInfo returns provider model information for health checks, or nil
// when no live provider is configured.
func (g *Generator) ModelInfo(ctx context.Context) *ai.ModelInfo {
	if g.provider == nil {
		return nil
	}
	return g.provider.GetModelInfo(ctx)
}

// CircuitBreakerStats exposes provider circuit breaker state for the stats
// endpoint.
func (g *Generator) CircuitBreakerStats() map[string]any {
	if gemini, ok := g.provider.(*ai.GeminiProvider); ok {
		return gemini.GetCircuitBreakerStats()
	}
	return map[string]any{"enabled": false}
}

// Close releases the underlying provider.
func (g *Generator) Close() error {
	if g.provider == nil {
		return nil
	}
	return g.provider.Close()
}

// Generate produces feedback for the request. A provider failure is logged
// and answered with fallback content; the caller always gets a complete
// Feedback.
func (g *Generator) Generate(ctx context.Context, req Request) Result {
	if g.provider != nil {
		fb, tokens, err := g.provider.GenerateFeedback(ctx, ai.FeedbackRequest{
			CVText:         req.CVText,
			JobDescription: req.JobDescription,
			Language:       req.Language,
			Checklist:      req.Checklist,
			Bullets:        req.Bullets,
		})
		if err == nil {
			normalizeFeedback(&fb)
			return Result{Feedback: fb, Source: types.FeedbackSourceLive, Tokens: tokens}
		}
		g.logger.Warn("AI feedback generation failed, using deterministic fallback",
			"language", string(req.Language),
			"error", err.Error())
	}

	return Result{Feedback: mockFeedback(req), Source: types.FeedbackSourceFallback}
}

// normalizeFeedback replaces nil slices so responses always serialize as
// JSON arrays.
func normalizeFeedback(fb *types.Feedback) {
	if fb.Strengths == nil {
		fb.Strengths = []string{}
	}
	if fb.Weaknesses == nil {
		fb.Weaknesses = []string{}
	}
	if fb.SectionSuggestions == nil {
		fb.SectionSuggestions = []types.SectionSuggestion{}
	}
	if fb.RewrittenExamples == nil {
		fb.RewrittenExamples = []types.RewrittenExample{}
	}
}
