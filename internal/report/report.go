// Package report runs the full analysis pipeline for one uploaded resume:
// text extraction, rule-based analysis, narrative feedback, and assembly of
// the final response.
package report

import (
	"context"
	"strings"

	"github.com/ZesyC/cv-anylyzer/internal/ai"
	"github.com/ZesyC/cv-anylyzer/internal/analysis"
	"github.com/ZesyC/cv-anylyzer/internal/config"
	"github.com/ZesyC/cv-anylyzer/internal/errors"
	"github.com/ZesyC/cv-anylyzer/internal/extract"
	"github.com/ZesyC/cv-anylyzer/internal/feedback"
	"github.com/ZesyC/cv-anylyzer/internal/types"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// Result pairs the assembled report with pipeline metadata consumed by
// logging and metrics. Only the Report is serialized to callers.
type Result struct {
	Report         *types.AnalysisReport
	Source         types.FeedbackSource
	Tokens         *ai.TokenUsage
	Format         types.DocumentFormat
	ExtractedChars int
}

// textExtractor is the extraction seam used by the pipeline.
type textExtractor interface {
	ExtractText(doc types.UploadedDocument) (string, error)
}

// Service orchestrates the analysis pipeline.
type Service struct {
	extractor       textExtractor
	analyzer        *analysis.Analyzer
	feedback        *feedback.Generator
	logger          *errors.Logger
	defaultLanguage types.Language
}

// NewService wires the pipeline from configuration.
func NewService(cfg *config.Config, logger *errors.Logger) *Service {
	return &Service{
		extractor:       extract.NewExtractor(cfg.App.MaxFileSize, logger),
		analyzer:        analysis.NewAnalyzer(cfg.App.TopKeywords),
		feedback:        feedback.NewGenerator(&cfg.AI, logger),
		logger:          logger,
		defaultLanguage: types.Language(cfg.App.DefaultLanguage),
	}
}

// Feedback exposes the feedback generator for health checks and stats.
func (s *Service) Feedback() *feedback.Generator {
	return s.feedback
}

// Close releases pipeline resources.
func (s *Service) Close() error {
	return s.feedback.Close()
}

// Analyze runs the pipeline for one request. Extraction and validation
// failures are returned as *errors.AppError; feedback generation never
// fails the request.
func (s *Service) Analyze(ctx context.Context, req types.AnalyzeRequest) (*Result, error) {
	tracer := otel.Tracer("cvanalyzer.report")
	ctx, span := tracer.Start(ctx, "report.analyze")
	defer span.End()

	language := req.Language
	if language == "" {
		language = s.defaultLanguage
	}
	if !language.Valid() {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidInput,
			"Language must be one of: en, vi", nil)
	}

	span.SetAttributes(
		attribute.String("document.filename", req.Document.Filename),
		attribute.String("document.format", string(req.Document.Format)),
		attribute.String("review.language", string(language)),
		attribute.Bool("review.has_jd", strings.TrimSpace(req.JobDescription) != ""),
	)

	cvText, err := s.extractor.ExtractText(req.Document)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	checklist := s.analyzer.DetectSections(cvText)
	bullets := s.analyzer.CountBullets(cvText)
	keywords := s.analyzer.AnalyzeKeywords(cvText, req.JobDescription)

	fbResult := s.feedback.Generate(ctx, feedback.Request{
		CVText:         cvText,
		JobDescription: req.JobDescription,
		Language:       language,
		Checklist:      checklist,
		Bullets:        bullets,
		Keywords:       keywords,
	})

	span.SetAttributes(
		attribute.String("feedback.source", string(fbResult.Source)),
		attribute.Int("analysis.bullets_total", bullets.Total),
		attribute.Int("analysis.bullets_quantified", bullets.Quantified),
	)

	s.logger.Info("Resume analysis completed",
		"filename", req.Document.Filename,
		"format", string(req.Document.Format),
		"language", string(language),
		"extracted_chars", len(cvText),
		"bullets_total", bullets.Total,
		"bullets_quantified", bullets.Quantified,
		"has_jd", keywords != nil,
		"feedback_source", string(fbResult.Source))

	return &Result{
		Report: &types.AnalysisReport{
			OverallSummary:       fbResult.Feedback.OverallSummary,
			Strengths:            fbResult.Feedback.Strengths,
			Weaknesses:           fbResult.Feedback.Weaknesses,
			SectionChecklist:     checklist,
			JDAnalysis:           keywords,
			SuggestionsBySection: fbResult.Feedback.SectionSuggestions,
			RewrittenExamples:    fbResult.Feedback.RewrittenExamples,
		},
		Source:         fbResult.Source,
		Tokens:         fbResult.Tokens,
		Format:         req.Document.Format,
		ExtractedChars: len(cvText),
	}, nil
}
