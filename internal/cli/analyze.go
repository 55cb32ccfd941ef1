package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/ZesyC/cv-anylyzer/internal/ai"
	"github.com/ZesyC/cv-anylyzer/internal/common"
	"github.com/ZesyC/cv-anylyzer/internal/extract"
	"github.com/ZesyC/cv-anylyzer/internal/report"
	"github.com/ZesyC/cv-anylyzer/internal/types"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [resume-file]",
	Short: "Analyze a resume for structure, keywords, and clarity",
	Long: `Analyze a resume to evaluate its structure, keyword coverage, and the
quality of its bullet points. When a job description is provided, the resume
is also matched against its keywords.

The analysis includes:
- Section checklist (summary, skills, experience, projects, education)
- Keyword match against the job description
- Quantified bullet detection
- Narrative strengths, weaknesses, and rewritten examples`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		// Apply default format if not specified
		if analyzeConfig.OutputFormat == "" {
			analyzeConfig.OutputFormat = cfg.App.DefaultFormat
		}
		// Validate format against supported formats
		return common.ValidateOutputFormat(analyzeConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runAnalyze,
}

var analyzeConfig common.CommandConfig

var (
	analyzeJDFile   string
	analyzeJDText   string
	analyzeLanguage string
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	analyzeCmd.Flags().StringVar(&analyzeConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	analyzeCmd.Flags().StringVar(&analyzeJDFile, "jd-file", "", "Job description file to match the resume against")
	analyzeCmd.Flags().StringVar(&analyzeJDText, "jd-text", "", "Job description text to match the resume against")
	analyzeCmd.Flags().StringVar(&analyzeLanguage, "language", "", "Feedback language: en or vi (default: configured default)")
	analyzeCmd.MarkFlagsMutuallyExclusive("jd-file", "jd-text")

	// Add completion for format flag
	_ = analyzeCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	jobDescription := analyzeJDText
	if analyzeJDFile != "" {
		contents, err := common.NewFileProcessor(logger).ValidateAndReadFiles(analyzeJDFile)
		if err != nil {
			return fmt.Errorf("failed to read job description: %w", err)
		}
		jobDescription = contents[0]
	}

	reportService := report.NewService(cfg, logger)
	defer func() {
		if err := reportService.Close(); err != nil {
			logger.Warn("Failed to close report service", "error", err)
		}
	}()

	createInput := func(contents [][]byte) (types.AnalyzeRequest, error) {
		if len(contents) != 1 {
			return types.AnalyzeRequest{}, fmt.Errorf("expected 1 file path, got %d", len(contents))
		}
		format, err := extract.DetectFormat(args[0])
		if err != nil {
			return types.AnalyzeRequest{}, err
		}
		return types.AnalyzeRequest{
			Document: types.UploadedDocument{
				Filename: filepath.Base(args[0]),
				Format:   format,
				Data:     contents[0],
			},
			JobDescription: jobDescription,
			Language:       types.Language(analyzeLanguage),
		}, nil
	}

	logDetails := func(input types.AnalyzeRequest, cfg common.CommandConfig) {
		logger.Info("Starting resume analysis",
			"filename", input.Document.Filename,
			"format", string(input.Document.Format),
			"jd_chars", len(input.JobDescription),
			"output_format", cfg.OutputFormat)
	}

	// Create a wrapper function that runs the full pipeline
	analyzeOperation := func(ctx context.Context, input types.AnalyzeRequest) (*types.AnalysisReport, *ai.TokenUsage, error) {
		result, err := reportService.Analyze(ctx, input)
		if err != nil {
			return nil, nil, err
		}
		return result.Report, result.Tokens, nil
	}

	err := common.RunReportCommand(
		cmd.Context(),
		logger,
		analyzeConfig,
		args,
		createInput,
		analyzeOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to analyze resume: %w", err)
	}
	logger.Info("Resume analysis completed successfully")
	return nil
}
