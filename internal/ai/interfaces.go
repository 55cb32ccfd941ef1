package ai

import (
	"context"

	"github.com/ZesyC/cv-anylyzer/internal/types"
)

// FeedbackRequest carries everything a provider needs to review a resume.
type FeedbackRequest struct {
	CVText         string
	JobDescription string
	Language       types.Language
	Checklist      types.SectionChecklist
	Bullets        types.BulletStats
}

// AIProvider interface for different AI implementations
// All methods return token usage information - callers can ignore it if not needed
type AIProvider interface {
	GenerateFeedback(ctx context.Context, req FeedbackRequest) (types.Feedback, *TokenUsage, error)
	GetModelInfo(ctx context.Context) *ModelInfo
	Close() error
}
