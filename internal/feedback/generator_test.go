package feedback

import (
	"context"
	"log/slog"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/ZesyC/cv-anylyzer/internal/config"
	"github.com/ZesyC/cv-anylyzer/internal/errors"
	"github.com/ZesyC/cv-anylyzer/internal/types"
)

func testGeneratorConfig() *config.AIConfig {
	return &config.AIConfig{
		Provider:    "gemini",
		Model:       "gemini-2.0-flash",
		Timeout:     30 * time.Second,
		Temperature: 0.4,
	}
}

func fullChecklist() types.SectionChecklist {
	return types.SectionChecklist{
		HasSummary:    true,
		HasSkills:     true,
		HasExperience: true,
		HasProjects:   true,
		HasEducation:  true,
	}
}

func TestGeneratorWithoutAPIKeyServesFallback(t *testing.T) {
	logger := errors.NewLogger(slog.LevelError)
	gen := NewGenerator(testGeneratorConfig(), logger)

	if gen.LiveEnabled() {
		t.Fatal("Generator without API key should not have a live provider")
	}

	result := gen.Generate(context.Background(), Request{
		CVText:    "Experience\n- Built APIs",
		Language:  types.LanguageEnglish,
		Checklist: types.SectionChecklist{HasExperience: true},
		Bullets:   types.BulletStats{Total: 1},
	})

	if result.Source != types.FeedbackSourceFallback {
		t.Errorf("Expected fallback source, got %s", result.Source)
	}
	if result.Tokens != nil {
		t.Error("Fallback feedback should not report token usage")
	}
	if result.Feedback.OverallSummary == "" {
		t.Error("Fallback feedback must include an overall summary")
	}
}

func TestMockFeedbackStructuralCompleteness(t *testing.T) {
	tests := []struct {
		name      string
		checklist types.SectionChecklist
		bullets   types.BulletStats
	}{
		{"complete resume", fullChecklist(), types.BulletStats{Total: 8, Quantified: 4}},
		{"empty resume", types.SectionChecklist{}, types.BulletStats{}},
		{"experience only", types.SectionChecklist{HasExperience: true}, types.BulletStats{Total: 3, Quantified: 1}},
	}

	for _, lang := range []types.Language{types.LanguageEnglish, types.LanguageVietnamese} {
		for _, tt := range tests {
			t.Run(string(lang)+"/"+tt.name, func(t *testing.T) {
				fb := mockFeedback(Request{
					Language:  lang,
					Checklist: tt.checklist,
					Bullets:   tt.bullets,
				})

				if fb.OverallSummary == "" {
					t.Error("Overall summary must not be empty")
				}
				// The filler strengths guarantee at least two entries even
				// for a resume with nothing detected.
				if len(fb.Strengths) < 2 || len(fb.Strengths) > 5 {
					t.Errorf("Expected 2-5 strengths, got %d", len(fb.Strengths))
				}
				if len(fb.Weaknesses) > 5 {
					t.Errorf("Expected at most 5 weaknesses, got %d", len(fb.Weaknesses))
				}
				if len(fb.SectionSuggestions) < 3 {
					t.Errorf("Expected at least 3 section suggestions, got %d", len(fb.SectionSuggestions))
				}
				if len(fb.RewrittenExamples) != 4 {
					t.Errorf("Expected 4 rewritten examples, got %d", len(fb.RewrittenExamples))
				}
				for _, s := range fb.SectionSuggestions {
					if s.SectionName == "" {
						t.Error("Section suggestion must carry a section name")
					}
					if len(s.Suggestions) == 0 {
						t.Errorf("Section %q has no suggestions", s.SectionName)
					}
				}
			})
		}
	}
}

func TestMockFeedbackDeterminism(t *testing.T) {
	req := Request{
		Language:  types.LanguageEnglish,
		Checklist: types.SectionChecklist{HasExperience: true, HasEducation: true},
		Bullets:   types.BulletStats{Total: 6, Quantified: 2},
		Keywords: &types.KeywordAnalysis{
			Keywords: []string{"python", "docker", "kubernetes"},
			Matched:  []string{"python"},
			Missing:  []string{"docker", "kubernetes"},
		},
	}

	first := mockFeedback(req)
	second := mockFeedback(req)
	if !reflect.DeepEqual(first, second) {
		t.Error("Mock feedback must be deterministic for identical inputs")
	}
}

func TestMockFeedbackSummaryReflectsAnalysis(t *testing.T) {
	t.Run("strong resume", func(t *testing.T) {
		fb := mockFeedback(Request{
			Language:  types.LanguageEnglish,
			Checklist: fullChecklist(),
			Bullets:   types.BulletStats{Total: 10, Quantified: 6},
		})
		if !strings.Contains(fb.OverallSummary, "strong") {
			t.Errorf("Expected 'strong' verdict, got %q", fb.OverallSummary)
		}
		if strings.Contains(fb.OverallSummary, "missing") {
			t.Errorf("Complete resume should not list missing sections, got %q", fb.OverallSummary)
		}
	})

	t.Run("developing resume lists missing sections", func(t *testing.T) {
		fb := mockFeedback(Request{
			Language:  types.LanguageEnglish,
			Checklist: types.SectionChecklist{HasExperience: true, HasEducation: true},
			Bullets:   types.BulletStats{Total: 4, Quantified: 1},
		})
		if !strings.Contains(fb.OverallSummary, "developing") {
			t.Errorf("Expected 'developing' verdict, got %q", fb.OverallSummary)
		}
		for _, want := range []string{"professional summary", "skills section", "projects section"} {
			if !strings.Contains(fb.OverallSummary, want) {
				t.Errorf("Expected summary to mention %q, got %q", want, fb.OverallSummary)
			}
		}
		if !strings.Contains(fb.OverallSummary, "1 quantified achievements out of 4") {
			t.Errorf("Expected bullet counts in summary, got %q", fb.OverallSummary)
		}
	})

	t.Run("vietnamese summary", func(t *testing.T) {
		fb := mockFeedback(Request{
			Language:  types.LanguageVietnamese,
			Checklist: fullChecklist(),
			Bullets:   types.BulletStats{Total: 5, Quantified: 3},
		})
		if !strings.Contains(fb.OverallSummary, "Đây là một CV tốt") {
			t.Errorf("Expected Vietnamese summary, got %q", fb.OverallSummary)
		}
	})
}

func TestMockFeedbackKeywordConditions(t *testing.T) {
	manyMatched := &types.KeywordAnalysis{
		Matched: []string{"a", "b", "c", "d", "e", "f"},
		Missing: []string{"g", "h", "i", "j", "k", "l"},
	}

	fb := mockFeedback(Request{
		Language:  types.LanguageEnglish,
		Checklist: fullChecklist(),
		Bullets:   types.BulletStats{Total: 8, Quantified: 4},
		Keywords:  manyMatched,
	})

	foundMatch := false
	for _, s := range fb.Strengths {
		if strings.Contains(s, "6 matches") {
			foundMatch = true
		}
	}
	if !foundMatch {
		t.Errorf("Expected keyword match strength, got %v", fb.Strengths)
	}

	foundMissing := false
	for _, w := range fb.Weaknesses {
		if strings.Contains(w, "6 keywords not found") {
			foundMissing = true
		}
	}
	if !foundMissing {
		t.Errorf("Expected missing keyword weakness, got %v", fb.Weaknesses)
	}
}

func TestMockFeedbackSectionSuggestionVariants(t *testing.T) {
	sectionNames := func(fb types.Feedback) map[string]bool {
		names := make(map[string]bool)
		for _, s := range fb.SectionSuggestions {
			names[s.SectionName] = true
		}
		return names
	}

	t.Run("complete resume", func(t *testing.T) {
		names := sectionNames(mockFeedback(Request{
			Language:  types.LanguageEnglish,
			Checklist: fullChecklist(),
		}))
		for _, want := range []string{"Skills", "Experience", "Projects", "Formatting"} {
			if !names[want] {
				t.Errorf("Expected suggestion for %q, got %v", want, names)
			}
		}
		if names["Summary"] {
			t.Error("Summary suggestion should only appear when the section is missing")
		}
	})

	t.Run("empty resume", func(t *testing.T) {
		names := sectionNames(mockFeedback(Request{
			Language: types.LanguageEnglish,
		}))
		for _, want := range []string{"Skills", "Projects", "Summary", "Formatting"} {
			if !names[want] {
				t.Errorf("Expected suggestion for %q, got %v", want, names)
			}
		}
		if names["Experience"] {
			t.Error("Experience suggestion should only appear when the section is present")
		}
	})
}

func TestNormalizeFeedback(t *testing.T) {
	fb := types.Feedback{OverallSummary: "ok"}
	normalizeFeedback(&fb)

	if fb.Strengths == nil || fb.Weaknesses == nil || fb.SectionSuggestions == nil || fb.RewrittenExamples == nil {
		t.Error("normalizeFeedback must replace nil slices with empty ones")
	}
}
