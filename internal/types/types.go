package types

// Language selects the narrative language for generated feedback.
type Language string

const (
	LanguageEnglish    Language = "en"
	LanguageVietnamese Language = "vi"
)

// Valid reports whether the language is one of the supported values.
func (l Language) Valid() bool {
	return l == LanguageEnglish || l == LanguageVietnamese
}

// DocumentFormat identifies a supported resume container format.
type DocumentFormat string

const (
	FormatPDF  DocumentFormat = "pdf"
	FormatDOCX DocumentFormat = "docx"
)

// UploadedDocument is a resume file as received from the caller. The raw
// bytes live only for the duration of the request.
type UploadedDocument struct {
	Filename string
	Format   DocumentFormat
	Data     []byte
}

// AnalyzeRequest represents a single analysis request as consumed by the
// pipeline, stripped of transport framing.
type AnalyzeRequest struct {
	Document       UploadedDocument
	JobDescription string
	Language       Language
}

// SectionChecklist records which of the five structural resume sections
// were detected in the extracted text.
type SectionChecklist struct {
	HasSummary    bool `json:"has_summary"`
	HasSkills     bool `json:"has_skills"`
	HasExperience bool `json:"has_experience"`
	HasProjects   bool `json:"has_projects"`
	HasEducation  bool `json:"has_education"`
}

// KeywordAnalysis compares job-description keywords against the resume text.
// Matched and Missing partition Keywords: their union is the full set and
// they never overlap.
type KeywordAnalysis struct {
	Keywords []string `json:"jd_keywords"`
	Matched  []string `json:"matched_keywords"`
	Missing  []string `json:"missing_keywords"`
}

// BulletStats summarizes bullet-point usage in the resume. It feeds the
// fallback narrative and business metrics; it is not part of the wire report.
type BulletStats struct {
	Total      int
	Quantified int
}

// SectionSuggestion carries narrative issues and suggestions for one
// resume section.
type SectionSuggestion struct {
	SectionName string   `json:"section_name"`
	Issues      []string `json:"issues"`
	Suggestions []string `json:"suggestions"`
}

// RewrittenExample pairs an original resume line with an improved rewrite.
type RewrittenExample struct {
	Original string `json:"original"`
	Improved string `json:"improved"`
	Section  string `json:"section"`
}

// Feedback holds the narrative fields of a report, whether produced by the
// AI provider or synthesized by the deterministic fallback.
type Feedback struct {
	OverallSummary     string              `json:"overall_summary"`
	Strengths          []string            `json:"strengths"`
	Weaknesses         []string            `json:"weaknesses"`
	SectionSuggestions []SectionSuggestion `json:"section_suggestions"`
	RewrittenExamples  []RewrittenExample  `json:"rewritten_examples"`
}

// FeedbackSource tags where a Feedback came from.
type FeedbackSource string

const (
	FeedbackSourceLive     FeedbackSource = "live"
	FeedbackSourceFallback FeedbackSource = "fallback"
)

// AnalysisReport is the complete response for one analysis request.
// JDAnalysis is nil when no job description was supplied, and serializes
// as JSON null rather than an empty object.
type AnalysisReport struct {
	OverallSummary       string              `json:"overall_summary"`
	Strengths            []string            `json:"strengths"`
	Weaknesses           []string            `json:"weaknesses"`
	SectionChecklist     SectionChecklist    `json:"section_checklist"`
	JDAnalysis           *KeywordAnalysis    `json:"jd_analysis"`
	SuggestionsBySection []SectionSuggestion `json:"suggestions_by_section"`
	RewrittenExamples    []RewrittenExample  `json:"rewritten_examples"`
}
