package analysis

import (
	"reflect"
	"testing"

	"github.com/ZesyC/cv-anylyzer/internal/types"
)

func TestDetectSections(t *testing.T) {
	analyzer := NewAnalyzer(0)

	tests := []struct {
		name string
		text string
		want types.SectionChecklist
	}{
		{
			name: "empty text",
			text: "",
			want: types.SectionChecklist{},
		},
		{
			name: "skills header",
			text: "Skills: Python, Docker",
			want: types.SectionChecklist{HasSkills: true},
		},
		{
			name: "synonym headers",
			text: "Profile\nObjective driven engineer\n\nWork History\nAcme Corp\n\nPortfolio\nSide projects\n\nUniversity of Somewhere",
			want: types.SectionChecklist{
				HasSummary:    true,
				HasExperience: true,
				HasProjects:   true,
				HasEducation:  true,
			},
		},
		{
			name: "case insensitive",
			text: "EDUCATION\nEXPERIENCE\nTECHNICAL SKILLS",
			want: types.SectionChecklist{
				HasSkills:     true,
				HasExperience: true,
				HasEducation:  true,
			},
		},
		{
			name: "mid-sentence mentions count",
			text: "I have experience with many projects and a degree.",
			want: types.SectionChecklist{
				HasExperience: true,
				HasProjects:   true,
				HasEducation:  true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := analyzer.DetectSections(tt.text)
			if got != tt.want {
				t.Errorf("DetectSections() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDetectSectionsMonotonic(t *testing.T) {
	// Adding text never clears a detected section.
	analyzer := NewAnalyzer(0)
	base := "Skills: Go"
	extended := base + "\nEducation\nExperience"

	before := analyzer.DetectSections(base)
	after := analyzer.DetectSections(extended)

	if before.HasSkills && !after.HasSkills {
		t.Error("Extending text must not clear a detected section")
	}
	if !after.HasEducation || !after.HasExperience {
		t.Error("Extended text should add the new sections")
	}
}

func TestCountBullets(t *testing.T) {
	analyzer := NewAnalyzer(0)

	tests := []struct {
		name string
		text string
		want types.BulletStats
	}{
		{"no bullets", "Just a paragraph of text.", types.BulletStats{}},
		{
			name: "mixed bullet markers",
			text: "- first item\n* second item\n• third item\n◦ fourth item",
			want: types.BulletStats{Total: 4},
		},
		{
			name: "quantified percent and multiplier",
			text: "- Reduced latency by 40%\n- Sped up builds 3x\n- Wrote documentation",
			want: types.BulletStats{Total: 3, Quantified: 2},
		},
		{
			name: "grouped number and number plus",
			text: "- Served 10,000 customers\n- Supported 500+ devices",
			want: types.BulletStats{Total: 2, Quantified: 2},
		},
		{
			name: "number followed by word",
			text: "- Led 4 engineers",
			want: types.BulletStats{Total: 1, Quantified: 1},
		},
		{
			name: "indented bullets",
			text: "  - indented item\n\t* tabbed item",
			want: types.BulletStats{Total: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := analyzer.CountBullets(tt.text)
			if got != tt.want {
				t.Errorf("CountBullets() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestExtractKeywords(t *testing.T) {
	analyzer := NewAnalyzer(0)

	t.Run("filters stopwords and short tokens", func(t *testing.T) {
		got := analyzer.ExtractKeywords("We are looking for an engineer with Go and SQL")
		want := []string{"looking", "engineer", "sql"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("ExtractKeywords() = %v, want %v", got, want)
		}
	})

	t.Run("dedupes preserving first appearance", func(t *testing.T) {
		got := analyzer.ExtractKeywords("python docker python kubernetes docker")
		want := []string{"python", "docker", "kubernetes"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("ExtractKeywords() = %v, want %v", got, want)
		}
	})

	t.Run("lowercases tokens", func(t *testing.T) {
		got := analyzer.ExtractKeywords("Python DOCKER FastAPI")
		want := []string{"python", "docker", "fastapi"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("ExtractKeywords() = %v, want %v", got, want)
		}
	})

	t.Run("caps at configured limit", func(t *testing.T) {
		small := NewAnalyzer(2)
		got := small.ExtractKeywords("python docker kubernetes terraform")
		if len(got) != 2 {
			t.Errorf("Expected 2 keywords, got %v", got)
		}
	})
}

func TestCompareKeywords(t *testing.T) {
	analyzer := NewAnalyzer(0)
	cv := "Skills: Python, Docker, PostgreSQL"

	matched, missing := analyzer.CompareKeywords(cv, []string{"python", "docker", "fastapi"})

	if !reflect.DeepEqual(matched, []string{"python", "docker"}) {
		t.Errorf("matched = %v", matched)
	}
	if !reflect.DeepEqual(missing, []string{"fastapi"}) {
		t.Errorf("missing = %v", missing)
	}
}

func TestCompareKeywordsEmptyInput(t *testing.T) {
	analyzer := NewAnalyzer(0)

	matched, missing := analyzer.CompareKeywords("any text", nil)
	if matched == nil || missing == nil {
		t.Error("CompareKeywords must return empty slices, not nil")
	}
	if len(matched) != 0 || len(missing) != 0 {
		t.Errorf("Expected empty results, got %v / %v", matched, missing)
	}
}

func TestAnalyzeKeywords(t *testing.T) {
	analyzer := NewAnalyzer(0)
	cv := "Skills: Python, Docker"

	t.Run("empty JD returns nil", func(t *testing.T) {
		if got := analyzer.AnalyzeKeywords(cv, ""); got != nil {
			t.Errorf("Expected nil, got %+v", got)
		}
	})

	t.Run("whitespace JD returns nil", func(t *testing.T) {
		if got := analyzer.AnalyzeKeywords(cv, "  \n\t "); got != nil {
			t.Errorf("Expected nil, got %+v", got)
		}
	})

	t.Run("partition invariant", func(t *testing.T) {
		got := analyzer.AnalyzeKeywords(cv, "python docker fastapi redis")
		if got == nil {
			t.Fatal("Expected keyword analysis")
		}
		if len(got.Matched)+len(got.Missing) != len(got.Keywords) {
			t.Errorf("Matched and missing must partition keywords: %v / %v / %v",
				got.Matched, got.Missing, got.Keywords)
		}
		seen := make(map[string]bool)
		for _, k := range got.Matched {
			seen[k] = true
		}
		for _, k := range got.Missing {
			if seen[k] {
				t.Errorf("Keyword %q appears in both matched and missing", k)
			}
		}
	})
}
