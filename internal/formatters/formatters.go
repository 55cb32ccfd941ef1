package formatters

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ZesyC/cv-anylyzer/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "AnalysisReport", &ReportTextFormatter{})
	registry.RegisterFormatter("markdown", "AnalysisReport", &ReportMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	// Try specific formatter first
	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		// Fall back to generic formatter
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.AnalysisReport, *types.AnalysisReport:
		return "AnalysisReport"
	default:
		return "any"
	}
}

func toReport(data any) (types.AnalysisReport, error) {
	switch v := data.(type) {
	case types.AnalysisReport:
		return v, nil
	case *types.AnalysisReport:
		return *v, nil
	default:
		return types.AnalysisReport{}, fmt.Errorf("expected AnalysisReport, got %T", data)
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

func checkMark(present bool) string {
	if present {
		return "yes"
	}
	return "no"
}

// ReportTextFormatter handles text formatting for analysis reports
type ReportTextFormatter struct{}

func (rtf *ReportTextFormatter) Format(data any) (string, error) {
	result, err := toReport(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder

	output.WriteString("=== RESUME ANALYSIS ===\n\n")
	output.WriteString("Summary:\n")
	output.WriteString(result.OverallSummary)
	output.WriteString("\n\n")

	output.WriteString("=== SECTION CHECKLIST ===\n")
	output.WriteString(fmt.Sprintf("Summary:    %s\n", checkMark(result.SectionChecklist.HasSummary)))
	output.WriteString(fmt.Sprintf("Skills:     %s\n", checkMark(result.SectionChecklist.HasSkills)))
	output.WriteString(fmt.Sprintf("Experience: %s\n", checkMark(result.SectionChecklist.HasExperience)))
	output.WriteString(fmt.Sprintf("Projects:   %s\n", checkMark(result.SectionChecklist.HasProjects)))
	output.WriteString(fmt.Sprintf("Education:  %s\n\n", checkMark(result.SectionChecklist.HasEducation)))

	if len(result.Strengths) > 0 {
		output.WriteString("=== STRENGTHS ===\n")
		for _, strength := range result.Strengths {
			output.WriteString(fmt.Sprintf("- %s\n", strength))
		}
		output.WriteString("\n")
	}

	if len(result.Weaknesses) > 0 {
		output.WriteString("=== WEAKNESSES ===\n")
		for _, weakness := range result.Weaknesses {
			output.WriteString(fmt.Sprintf("- %s\n", weakness))
		}
		output.WriteString("\n")
	}

	if result.JDAnalysis != nil {
		output.WriteString("=== JOB DESCRIPTION MATCH ===\n")
		output.WriteString(fmt.Sprintf("Keywords: %s\n", strings.Join(result.JDAnalysis.Keywords, ", ")))
		output.WriteString(fmt.Sprintf("Matched:  %s\n", strings.Join(result.JDAnalysis.Matched, ", ")))
		output.WriteString(fmt.Sprintf("Missing:  %s\n\n", strings.Join(result.JDAnalysis.Missing, ", ")))
	}

	if len(result.SuggestionsBySection) > 0 {
		output.WriteString("=== SUGGESTIONS BY SECTION ===\n\n")
		for _, suggestion := range result.SuggestionsBySection {
			output.WriteString(fmt.Sprintf("%s\n", suggestion.SectionName))
			for _, issue := range suggestion.Issues {
				output.WriteString(fmt.Sprintf("  Issue: %s\n", issue))
			}
			for _, s := range suggestion.Suggestions {
				output.WriteString(fmt.Sprintf("  Suggestion: %s\n", s))
			}
			output.WriteString("\n")
		}
	}

	if len(result.RewrittenExamples) > 0 {
		output.WriteString("=== REWRITTEN EXAMPLES ===\n\n")
		for i, example := range result.RewrittenExamples {
			output.WriteString(fmt.Sprintf("%d. [%s]\n", i+1, example.Section))
			output.WriteString(fmt.Sprintf("   Original: %s\n", example.Original))
			output.WriteString(fmt.Sprintf("   Improved: %s\n\n", example.Improved))
		}
	}

	return output.String(), nil
}

func (rtf *ReportTextFormatter) SupportedType() string {
	return "AnalysisReport"
}

// ReportMarkdownFormatter handles markdown formatting for analysis reports
type ReportMarkdownFormatter struct{}

func (rmf *ReportMarkdownFormatter) Format(data any) (string, error) {
	result, err := toReport(data)
	if err != nil {
		return "", err
	}

	var output strings.Builder

	output.WriteString("# Resume Analysis\n\n")
	output.WriteString("## Summary\n\n")
	output.WriteString(result.OverallSummary)
	output.WriteString("\n\n")

	output.WriteString("## Section Checklist\n\n")
	output.WriteString("| Section | Present |\n|---|---|\n")
	output.WriteString(fmt.Sprintf("| Summary | %s |\n", checkMark(result.SectionChecklist.HasSummary)))
	output.WriteString(fmt.Sprintf("| Skills | %s |\n", checkMark(result.SectionChecklist.HasSkills)))
	output.WriteString(fmt.Sprintf("| Experience | %s |\n", checkMark(result.SectionChecklist.HasExperience)))
	output.WriteString(fmt.Sprintf("| Projects | %s |\n", checkMark(result.SectionChecklist.HasProjects)))
	output.WriteString(fmt.Sprintf("| Education | %s |\n\n", checkMark(result.SectionChecklist.HasEducation)))

	if len(result.Strengths) > 0 {
		output.WriteString("## Strengths\n\n")
		for _, strength := range result.Strengths {
			output.WriteString(fmt.Sprintf("- %s\n", strength))
		}
		output.WriteString("\n")
	}

	if len(result.Weaknesses) > 0 {
		output.WriteString("## Weaknesses\n\n")
		for _, weakness := range result.Weaknesses {
			output.WriteString(fmt.Sprintf("- %s\n", weakness))
		}
		output.WriteString("\n")
	}

	if result.JDAnalysis != nil {
		output.WriteString("## Job Description Match\n\n")
		output.WriteString(fmt.Sprintf("**Keywords:** %s\n\n", strings.Join(result.JDAnalysis.Keywords, ", ")))
		output.WriteString(fmt.Sprintf("**Matched:** %s\n\n", strings.Join(result.JDAnalysis.Matched, ", ")))
		output.WriteString(fmt.Sprintf("**Missing:** %s\n\n", strings.Join(result.JDAnalysis.Missing, ", ")))
	}

	if len(result.SuggestionsBySection) > 0 {
		output.WriteString("## Suggestions by Section\n\n")
		for _, suggestion := range result.SuggestionsBySection {
			output.WriteString(fmt.Sprintf("### %s\n\n", suggestion.SectionName))
			if len(suggestion.Issues) > 0 {
				output.WriteString("**Issues:**\n\n")
				for _, issue := range suggestion.Issues {
					output.WriteString(fmt.Sprintf("- %s\n", issue))
				}
				output.WriteString("\n")
			}
			if len(suggestion.Suggestions) > 0 {
				output.WriteString("**Suggestions:**\n\n")
				for _, s := range suggestion.Suggestions {
					output.WriteString(fmt.Sprintf("- %s\n", s))
				}
				output.WriteString("\n")
			}
		}
	}

	if len(result.RewrittenExamples) > 0 {
		output.WriteString("## Rewritten Examples\n\n")
		for i, example := range result.RewrittenExamples {
			output.WriteString(fmt.Sprintf("### %d. %s\n\n", i+1, example.Section))
			output.WriteString(fmt.Sprintf("**Original:** %s\n\n", example.Original))
			output.WriteString(fmt.Sprintf("**Improved:** %s\n\n", example.Improved))
		}
	}

	return output.String(), nil
}

func (rmf *ReportMarkdownFormatter) SupportedType() string {
	return "AnalysisReport"
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
