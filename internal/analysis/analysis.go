package analysis

import (
	"regexp"
	"strings"

	"github.com/ZesyC/cv-anylyzer/internal/types"
)

// DefaultTopKeywords caps how many keywords are pulled from a job
// description when the caller does not configure a limit.
const DefaultTopKeywords = 30

// sectionSynonyms maps each checklist section to the header phrases that
// mark it as present. Matching is case-insensitive substring search.
var sectionSynonyms = map[string][]string{
	"summary":    {"summary", "profile", "objective", "about me"},
	"skills":     {"skills", "technical skills", "competencies", "expertise"},
	"experience": {"experience", "work experience", "employment", "work history"},
	"projects":   {"projects", "personal projects", "portfolio"},
	"education":  {"education", "academic", "degree", "university", "college"},
}

// stopwords are common English words excluded from keyword extraction.
var stopwords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {}, "in": {},
	"on": {}, "at": {}, "to": {}, "for": {}, "of": {}, "with": {}, "by": {},
	"from": {}, "as": {}, "is": {}, "are": {}, "was": {}, "were": {}, "be": {},
	"been": {}, "being": {}, "have": {}, "has": {}, "had": {}, "do": {},
	"does": {}, "did": {}, "will": {}, "would": {}, "could": {}, "should": {},
	"may": {}, "might": {}, "can": {}, "this": {}, "that": {}, "these": {},
	"those": {}, "i": {}, "you": {}, "he": {}, "she": {}, "it": {}, "we": {},
	"they": {},
}

var (
	wordPattern       = regexp.MustCompile(`[a-z0-9]+`)
	bulletPattern     = regexp.MustCompile(`(?m)^[\s]*[•\-\*◦]+[\s]*.+$`)
	quantifiedPattern = regexp.MustCompile(`\d+%|\d+\+|\d+x|\d+,\d+|\d+ [a-zA-Z]+`)
)

// Analyzer runs the rule-based checks over extracted resume text.
type Analyzer struct {
	topKeywords int
}

// NewAnalyzer creates an analyzer; topKeywords <= 0 uses DefaultTopKeywords.
func NewAnalyzer(topKeywords int) *Analyzer {
	if topKeywords <= 0 {
		topKeywords = DefaultTopKeywords
	}
	return &Analyzer{topKeywords: topKeywords}
}

// DetectSections tests the resume text against the synonym list of each of
// the five checklist sections.
func (a *Analyzer) DetectSections(cvText string) types.SectionChecklist {
	lower := strings.ToLower(cvText)
	present := func(section string) bool {
		for _, synonym := range sectionSynonyms[section] {
			if strings.Contains(lower, synonym) {
				return true
			}
		}
		return false
	}
	return types.SectionChecklist{
		HasSummary:    present("summary"),
		HasSkills:     present("skills"),
		HasExperience: present("experience"),
		HasProjects:   present("projects"),
		HasEducation:  present("education"),
	}
}

// CountBullets counts bullet-point lines and how many of them carry a
// quantified metric (percentages, "N+", "Nx", grouped numbers, number+word).
func (a *Analyzer) CountBullets(cvText string) types.BulletStats {
	bullets := bulletPattern.FindAllString(cvText, -1)
	stats := types.BulletStats{Total: len(bullets)}
	for _, bullet := range bullets {
		if quantifiedPattern.MatchString(bullet) {
			stats.Quantified++
		}
	}
	return stats
}

// ExtractKeywords tokenizes a job description into up to topKeywords unique
// lowercase keywords, dropping stopwords and tokens of length <= 2. Order of
// first appearance is preserved.
func (a *Analyzer) ExtractKeywords(jdText string) []string {
	words := wordPattern.FindAllString(strings.ToLower(jdText), -1)

	keywords := make([]string, 0, a.topKeywords)
	seen := make(map[string]struct{}, len(words))
	for _, word := range words {
		if len(word) <= 2 {
			continue
		}
		if _, stop := stopwords[word]; stop {
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		keywords = append(keywords, word)
		seen[word] = struct{}{}
		if len(keywords) >= a.topKeywords {
			break
		}
	}
	return keywords
}

// CompareKeywords partitions the keyword list into those found in the resume
// text and those absent from it. The two slices always cover the full input
// with no overlap.
func (a *Analyzer) CompareKeywords(cvText string, keywords []string) (matched, missing []string) {
	lower := strings.ToLower(cvText)
	matched = []string{}
	missing = []string{}
	for _, keyword := range keywords {
		if strings.Contains(lower, keyword) {
			matched = append(matched, keyword)
		} else {
			missing = append(missing, keyword)
		}
	}
	return matched, missing
}

// AnalyzeKeywords runs extraction and comparison in one step. It returns nil
// when the job description is empty or whitespace-only, so the report field
// serializes as null rather than an empty object.
func (a *Analyzer) AnalyzeKeywords(cvText, jdText string) *types.KeywordAnalysis {
	if strings.TrimSpace(jdText) == "" {
		return nil
	}
	keywords := a.ExtractKeywords(jdText)
	matched, missing := a.CompareKeywords(cvText, keywords)
	return &types.KeywordAnalysis{
		Keywords: keywords,
		Matched:  matched,
		Missing:  missing,
	}
}
