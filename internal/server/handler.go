package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	apperrors "github.com/ZesyC/cv-anylyzer/internal/errors"
	"github.com/ZesyC/cv-anylyzer/internal/extract"
	"github.com/ZesyC/cv-anylyzer/internal/observability"
	"github.com/ZesyC/cv-anylyzer/internal/types"

	"go.opentelemetry.io/otel/attribute"
)

// multipartMemoryLimit bounds the in-memory portion of multipart parsing;
// larger uploads spill to temp files.
const multipartMemoryLimit = 8 << 20

// createAnalyzeCVHandler wraps the CV analysis handler with observability
func (s *Server) createAnalyzeCVHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tracer := om.Tracer("cvanalyzer.api")
		ctx, span := tracer.Start(ctx, "api.analyze_cv")
		defer span.End()

		if r.Method != http.MethodPost {
			writeErrorResponse(w, apperrors.ErrCodeInvalidRequest, "Only POST is supported", apperrors.ErrorTypeValidation, http.StatusMethodNotAllowed)
			return
		}

		req, err := s.parseAnalyzeRequest(r)
		if err != nil {
			span.RecordError(err)
			span.SetAttributes(attribute.String("error.type", "validation"))
			s.writeAppError(w, err)
			return
		}

		span.SetAttributes(
			attribute.String("request.filename", req.Document.Filename),
			attribute.String("request.format", string(req.Document.Format)),
			attribute.Int("request.file_size", len(req.Document.Data)),
			attribute.Int("request.jd_length", len(req.JobDescription)),
			attribute.String("request.language", string(req.Language)),
		)

		metrics := om.GetMetrics()
		var result *analysisResult
		trackErr := metrics.TrackAIOperationWithTokens(ctx, "analyze_cv", func(ctx context.Context) *observability.AIOperationResult {
			res, analyzeErr := s.Reports.Analyze(ctx, *req)
			if analyzeErr != nil {
				return &observability.AIOperationResult{Error: analyzeErr}
			}
			result = &analysisResult{res.Report, res.Source, res.ExtractedChars}
			return &observability.AIOperationResult{
				TokenUsage: (*observability.TokenUsage)(res.Tokens),
			}
		}, om)

		if trackErr != nil {
			span.RecordError(trackErr)
			metrics.RecordBusinessMetric(ctx, "resume_analyzed", false, om,
				attribute.String("format", string(req.Document.Format)))
			if code := appErrorCode(trackErr); code == apperrors.ErrCodeExtractionFailed {
				metrics.RecordBusinessMetric(ctx, "extraction_error", false, om,
					attribute.String("format", string(req.Document.Format)))
			}
			s.writeAppError(w, trackErr)
			return
		}

		metrics.RecordBusinessMetric(ctx, "resume_analyzed", true, om,
			attribute.String("format", string(req.Document.Format)),
			attribute.String("feedback.source", string(result.source)))
		if result.source == types.FeedbackSourceFallback {
			metrics.RecordBusinessMetric(ctx, "fallback_served", true, om)
		}

		span.SetAttributes(
			attribute.Bool("success", true),
			attribute.String("feedback.source", string(result.source)),
			attribute.Int("response.extracted_chars", result.extractedChars),
		)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(result.report); err != nil {
			span.RecordError(err)
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

type analysisResult struct {
	report         *types.AnalysisReport
	source         types.FeedbackSource
	extractedChars int
}

// parseAnalyzeRequest extracts the uploaded document and optional fields
// from a multipart form.
func (s *Server) parseAnalyzeRequest(r *http.Request) (*types.AnalyzeRequest, error) {
	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return nil, apperrors.NewValidationError(apperrors.ErrCodeFileTooLarge,
				"Request body exceeds the upload size limit", err)
		}
		return nil, apperrors.NewValidationError(apperrors.ErrCodeInvalidInput,
			"Request must be multipart/form-data", err)
	}

	file, header, err := r.FormFile("cv_file")
	if err != nil {
		return nil, apperrors.NewValidationError(apperrors.ErrCodeInvalidInput,
			"cv_file form field is required", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			s.Logger.Warn("Failed to close uploaded file", "error", closeErr.Error())
		}
	}()

	format, err := extract.DetectFormat(header.Filename)
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(file)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return nil, apperrors.NewValidationError(apperrors.ErrCodeFileTooLarge,
				"Uploaded file exceeds the upload size limit", err)
		}
		return nil, apperrors.NewIOError(apperrors.ErrCodeFileNotReadable,
			"Failed to read uploaded file", err)
	}

	return &types.AnalyzeRequest{
		Document: types.UploadedDocument{
			Filename: header.Filename,
			Format:   format,
			Data:     data,
		},
		JobDescription: r.FormValue("jd_text"),
		Language:       types.Language(strings.TrimSpace(r.FormValue("language"))),
	}, nil
}

// appErrorCode returns the stable code of an AppError, or empty for plain errors.
func appErrorCode(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// statusForError maps AppError codes to HTTP status codes.
func statusForError(err error) int {
	switch appErrorCode(err) {
	case apperrors.ErrCodeUnsupportedFormat,
		apperrors.ErrCodeFileTooLarge,
		apperrors.ErrCodeInvalidInput,
		apperrors.ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case apperrors.ErrCodeExtractionFailed:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// writeAppError serializes an AppError into the standard error envelope.
func (s *Server) writeAppError(w http.ResponseWriter, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		appErr = apperrors.NewInternalError(apperrors.ErrCodeInternalError, "Internal server error", err)
	}
	writeErrorResponse(w, appErr.Code, appErr.Message, appErr.Type, statusForError(appErr))
}

// createRateLimitMiddleware adds observability to rate limiting
func (s *Server) createRateLimitMiddleware(om *observability.ObservabilityManager) func(http.HandlerFunc) http.HandlerFunc {
	originalMiddleware := s.rateLimitMiddleware()

	return func(next http.HandlerFunc) http.HandlerFunc {
		limited := originalMiddleware(next)
		return func(w http.ResponseWriter, r *http.Request) {
			// Wrap the ResponseWriter to detect rate limit responses
			wrapper := &responseWrapper{ResponseWriter: w, statusCode: 200}

			limited(wrapper, r)

			if wrapper.statusCode == http.StatusTooManyRequests {
				metrics := om.GetMetrics()
				metrics.RecordBusinessMetric(r.Context(), "rate_limit_hit", true, om,
					attribute.String("endpoint", r.URL.Path),
					attribute.String("method", r.Method))
			}
		}
	}
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
