package ai

import (
	"fmt"

	"github.com/ZesyC/cv-anylyzer/internal/config"
	"github.com/ZesyC/cv-anylyzer/internal/types"
)

// DefaultSystemPrompt is the default system instruction for resume review.
var DefaultSystemPrompt = `You are a professional CV consultant with years of experience reviewing technical resumes. Your core principles are:

- Base every observation on the resume text actually provided
- Give specific, actionable advice rather than generic platitudes
- Prefer concrete metrics and rewritten examples over abstract guidance
- Respond strictly in the requested language and JSON structure`

// DefaultReviewPromptEnglish is the default English review template. The
// placeholders are filled, in order, with: resume text, job description,
// the five section flags, quantified bullet count and total bullet count.
var DefaultReviewPromptEnglish = `Analyze the following resume and provide detailed feedback in ENGLISH.

**CV TO ANALYZE:**
%s

**JOB DESCRIPTION (if provided):**
%s

**BASIC ANALYSIS:**
- Has Summary section: %t
- Has Skills section: %t
- Has Experience section: %t
- Has Projects section: %t
- Has Education section: %t
- Quantified bullets: %d/%d

**REQUIREMENTS:**
Return the result in JSON format with this exact structure:

{
  "overall_summary": "Overall CV assessment (2-3 sentences)",
  "strengths": ["Strength 1", "Strength 2", "Strength 3"],
  "weaknesses": ["Weakness 1", "Weakness 2", "Weakness 3"],
  "section_suggestions": [
    {
      "section_name": "Section name (e.g., Skills, Experience)",
      "issues": ["Issue 1", "Issue 2"],
      "suggestions": ["Improvement suggestion 1", "Improvement suggestion 2"]
    }
  ],
  "rewritten_examples": [
    {
      "original": "Original bullet point from CV",
      "improved": "Improved version with specific metrics",
      "section": "Section name (Experience/Projects)"
    }
  ]
}

**NOTES:**
1. Provide at least 3-5 strengths and 3-5 weaknesses
2. Analyze at least 3-4 sections: Skills, Experience, Projects, Formatting
3. Provide 3-4 examples of improved bullet points with specific metrics
4. Response MUST be in ENGLISH
5. Return ONLY valid JSON, no additional text`

// DefaultReviewPromptVietnamese is the Vietnamese counterpart of
// DefaultReviewPromptEnglish with the same placeholder order.
var DefaultReviewPromptVietnamese = `Bạn hãy phân tích CV dưới đây và đưa ra phản hồi chi tiết bằng TIẾNG VIỆT.

**CV CẦN PHÂN TÍCH:**
%s

**MÔ TẢ CÔNG VIỆC (nếu có):**
%s

**PHÂN TÍCH CƠ BẢN:**
- Có phần Tóm tắt: %t
- Có phần Kỹ năng: %t
- Có phần Kinh nghiệm: %t
- Có phần Dự án: %t
- Có phần Học vấn: %t
- Số điểm có số liệu: %d/%d

**YÊU CẦU:**
Trả về kết quả ở định dạng JSON với cấu trúc sau:

{
  "overall_summary": "Tổng quan về CV (2-3 câu)",
  "strengths": ["Điểm mạnh 1", "Điểm mạnh 2", "Điểm mạnh 3"],
  "weaknesses": ["Điểm yếu 1", "Điểm yếu 2", "Điểm yếu 3"],
  "section_suggestions": [
    {
      "section_name": "Tên phần (VD: Kỹ năng, Kinh nghiệm)",
      "issues": ["Vấn đề 1", "Vấn đề 2"],
      "suggestions": ["Gợi ý cải thiện 1", "Gợi ý cải thiện 2"]
    }
  ],
  "rewritten_examples": [
    {
      "original": "Bullet point gốc từ CV",
      "improved": "Phiên bản cải thiện với số liệu cụ thể",
      "section": "Tên phần (Kinh nghiệm/Dự án)"
    }
  ]
}

**LƯU Ý:**
1. Đưa ra ít nhất 3-5 điểm mạnh và 3-5 điểm yếu
2. Phân tích ít nhất 3-4 phần: Kỹ năng, Kinh nghiệm, Dự án, Định dạng
3. Đưa ra 3-4 ví dụ cải thiện bullet points với số liệu cụ thể
4. Phản hồi PHẢI bằng TIẾNG VIỆT
5. Trả về ĐÚNG định dạng JSON, không thêm text khác`

// resolvePrompt selects the correct prompt string based on priority:
// 1. A prompt loaded from a file.
// 2. A prompt defined directly in the configuration.
// 3. The hardcoded default.
func resolvePrompt(loadedFromFile, fromConfig, fromDefault string) string {
	if loadedFromFile != "" {
		return loadedFromFile
	}
	if fromConfig != "" {
		return fromConfig
	}
	return fromDefault
}

// systemPrompt returns the active system instruction.
func systemPrompt(prompts config.PromptConfig) string {
	return resolvePrompt(config.GetLoadedPrompts().System, prompts.System, DefaultSystemPrompt)
}

// reviewPromptTemplate returns the active review template for a language.
func reviewPromptTemplate(prompts config.PromptConfig, lang types.Language) string {
	loaded := config.GetLoadedPrompts()
	if lang == types.LanguageVietnamese {
		return resolvePrompt(loaded.ReviewVietnamese, prompts.ReviewVietnamese, DefaultReviewPromptVietnamese)
	}
	return resolvePrompt(loaded.ReviewEnglish, prompts.ReviewEnglish, DefaultReviewPromptEnglish)
}

// renderReviewPrompt fills a review template with request content.
func renderReviewPrompt(tmpl string, req FeedbackRequest) string {
	jd := req.JobDescription
	if jd == "" {
		if req.Language == types.LanguageVietnamese {
			jd = "Không có"
		} else {
			jd = "Not provided"
		}
	}
	return fmt.Sprintf(tmpl,
		req.CVText,
		jd,
		req.Checklist.HasSummary,
		req.Checklist.HasSkills,
		req.Checklist.HasExperience,
		req.Checklist.HasProjects,
		req.Checklist.HasEducation,
		req.Bullets.Quantified,
		req.Bullets.Total,
	)
}
