package common

import (
	"context"
	"fmt"
	"os"

	"github.com/ZesyC/cv-anylyzer/internal/ai"
	"github.com/ZesyC/cv-anylyzer/internal/errors"
	"github.com/ZesyC/cv-anylyzer/internal/utils"
)

// CreateInputFunc defines how to build the pipeline input from raw file contents.
type CreateInputFunc[Input any] func(contents [][]byte) (Input, error)

// LogDetailsFunc defines how to log the start of an operation.
type LogDetailsFunc[Input any] func(input Input, cfg CommandConfig)

// ReportOperationFunc is a generic signature for pipeline operations with
// context and token usage.
type ReportOperationFunc[Input, Output any] func(context.Context, Input) (Output, *ai.TokenUsage, error)

// RunReportCommand encapsulates the common logic for file-based CLI commands
// with token usage reporting. Input files are read as raw bytes since resume
// documents are binary formats.
func RunReportCommand[Input, Output any](
	ctx context.Context,
	logger *errors.Logger,
	cmdConfig CommandConfig,
	args []string,
	createInput CreateInputFunc[Input],
	operation ReportOperationFunc[Input, Output],
	logDetails LogDetailsFunc[Input],
) error {
	// Pass the logger when creating helpers
	fileProcessor := NewFileProcessor(logger)
	outputHandler := NewOutputHandler(logger)

	contents := make([][]byte, len(args))
	for i, filename := range args {
		if err := utils.ValidateInputFile(filename); err != nil {
			return errors.NewValidationError("INVALID_INPUT_FILE",
				fmt.Sprintf("Invalid file %s", filename), err)
		}

		// Warn about unexpected extensions
		if !utils.IsResumeFile(filename) {
			if logger != nil {
				logger.Warn("File does not have a resume document extension",
					"filename", filename)
			} else {
				fmt.Fprintf(os.Stderr, "Warning: %s does not have a resume document extension\n", filename)
			}
		}

		data, err := fileProcessor.ReadBinaryFile(filename)
		if err != nil {
			return err
		}
		contents[i] = data
	}

	input, err := createInput(contents)
	if err != nil {
		return fmt.Errorf("failed to create input from file contents: %w", err)
	}

	logDetails(input, cmdConfig)

	result, tokenUsage, err := operation(ctx, input)
	if err != nil {
		return err
	}

	// Report token usage
	if tokenUsage != nil {
		if logger != nil {
			logger.Info("AI token usage", "input_tokens", tokenUsage.InputTokens, "output_tokens", tokenUsage.OutputTokens, "total_tokens", tokenUsage.TotalTokens)
		} else {
			fmt.Fprintf(os.Stderr, "AI token usage: input=%d, output=%d, total=%d\n", tokenUsage.InputTokens, tokenUsage.OutputTokens, tokenUsage.TotalTokens)
		}
	}

	return outputHandler.HandleOutput(result, cmdConfig)
}
