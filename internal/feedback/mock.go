package feedback

import (
	"fmt"
	"strings"

	"github.com/ZesyC/cv-anylyzer/internal/types"
)

// mockCatalog holds the localized strings the deterministic fallback is
// assembled from. One catalog exists per supported language.
type mockCatalog struct {
	// Overall summary. summaryFormat takes: quality word, experience word,
	// quantified count, total count. missingFormat takes the joined list of
	// missing section names.
	summaryFormat string
	missingFormat string
	cvStrong      string
	cvDeveloping  string
	expSolid      string
	expLimited    string

	missingSummaryName  string
	missingSkillsName   string
	missingProjectsName string

	strengthEducation    string
	strengthExperience   string
	strengthProjects     string
	strengthQuantified   string
	strengthKeywords     string // takes matched keyword count
	strengthFillers      []string
	weaknessNoSummary    string
	weaknessNoSkills     string
	weaknessNoProjects   string
	weaknessUnquantified string
	weaknessKeywords     string // takes missing keyword count
	weaknessFillers      []string

	skillsMissing   types.SectionSuggestion
	skillsPresent   types.SectionSuggestion
	experience      types.SectionSuggestion
	projectsPresent types.SectionSuggestion
	projectsMissing types.SectionSuggestion
	summaryMissing  types.SectionSuggestion
	formatting      types.SectionSuggestion

	rewrittenExamples []types.RewrittenExample
}

// mockFeedback synthesizes complete feedback from the rule-based analysis
// alone. The output is deterministic for identical inputs.
func mockFeedback(req Request) types.Feedback {
	cat := &englishMockCatalog
	if req.Language == types.LanguageVietnamese {
		cat = &vietnameseMockCatalog
	}

	checklist := req.Checklist
	bullets := req.Bullets

	var missingSections []string
	if !checklist.HasSummary {
		missingSections = append(missingSections, cat.missingSummaryName)
	}
	if !checklist.HasSkills {
		missingSections = append(missingSections, cat.missingSkillsName)
	}
	if !checklist.HasProjects {
		missingSections = append(missingSections, cat.missingProjectsName)
	}

	quality := cat.cvStrong
	if len(missingSections) > 0 {
		quality = cat.cvDeveloping
	}
	experience := cat.expLimited
	if checklist.HasExperience {
		experience = cat.expSolid
	}

	summary := fmt.Sprintf(cat.summaryFormat, quality, experience, bullets.Quantified, bullets.Total)
	if len(missingSections) > 0 {
		summary += fmt.Sprintf(cat.missingFormat, strings.Join(missingSections, ", "))
	}

	var strengths []string
	if checklist.HasEducation {
		strengths = append(strengths, cat.strengthEducation)
	}
	if checklist.HasExperience {
		strengths = append(strengths, cat.strengthExperience)
	}
	if checklist.HasProjects {
		strengths = append(strengths, cat.strengthProjects)
	}
	if bullets.Quantified > 2 {
		strengths = append(strengths, cat.strengthQuantified)
	}
	if req.Keywords != nil && len(req.Keywords.Matched) > 5 {
		strengths = append(strengths, fmt.Sprintf(cat.strengthKeywords, len(req.Keywords.Matched)))
	}
	if len(strengths) < 3 {
		strengths = append(strengths, cat.strengthFillers...)
	}

	var weaknesses []string
	if !checklist.HasSummary {
		weaknesses = append(weaknesses, cat.weaknessNoSummary)
	}
	if !checklist.HasSkills {
		weaknesses = append(weaknesses, cat.weaknessNoSkills)
	}
	if !checklist.HasProjects {
		weaknesses = append(weaknesses, cat.weaknessNoProjects)
	}
	if bullets.Quantified < 3 {
		weaknesses = append(weaknesses, cat.weaknessUnquantified)
	}
	if req.Keywords != nil && len(req.Keywords.Missing) > 5 {
		weaknesses = append(weaknesses, fmt.Sprintf(cat.weaknessKeywords, len(req.Keywords.Missing)))
	}
	if len(weaknesses) < 3 {
		weaknesses = append(weaknesses, cat.weaknessFillers...)
	}

	var suggestions []types.SectionSuggestion
	if checklist.HasSkills {
		suggestions = append(suggestions, cat.skillsPresent)
	} else {
		suggestions = append(suggestions, cat.skillsMissing)
	}
	if checklist.HasExperience {
		suggestions = append(suggestions, cat.experience)
	}
	if checklist.HasProjects {
		suggestions = append(suggestions, cat.projectsPresent)
	} else {
		suggestions = append(suggestions, cat.projectsMissing)
	}
	if !checklist.HasSummary {
		suggestions = append(suggestions, cat.summaryMissing)
	}
	suggestions = append(suggestions, cat.formatting)

	return types.Feedback{
		OverallSummary:     summary,
		Strengths:          capStrings(strengths, 5),
		Weaknesses:         capStrings(weaknesses, 5),
		SectionSuggestions: suggestions,
		RewrittenExamples:  append([]types.RewrittenExample(nil), cat.rewrittenExamples...),
	}
}

func capStrings(values []string, limit int) []string {
	if len(values) > limit {
		values = values[:limit]
	}
	return values
}

var englishMockCatalog = mockCatalog{
	summaryFormat: "This is a %s CV for a technical role. The resume demonstrates %s experience and includes %d quantified achievements out of %d total bullet points.",
	missingFormat: " However, it's missing: %s.",
	cvStrong:      "strong",
	cvDeveloping:  "developing",
	expSolid:      "solid",
	expLimited:    "limited",

	missingSummaryName:  "professional summary",
	missingSkillsName:   "skills section",
	missingProjectsName: "projects section",

	strengthEducation:  "Clear educational background included",
	strengthExperience: "Work experience section present",
	strengthProjects:   "Showcases relevant projects",
	strengthQuantified: "Some achievements are quantified with metrics",
	strengthKeywords:   "Good keyword match with JD (%d matches)",
	strengthFillers: []string{
		"Structured format that's easy to scan",
		"Focuses on technical background",
	},
	weaknessNoSummary:    "Missing professional summary/objective at the top",
	weaknessNoSkills:     "No dedicated skills section to highlight technical competencies",
	weaknessNoProjects:   "Missing projects section to showcase practical work",
	weaknessUnquantified: "Not enough quantified achievements - add specific metrics and numbers",
	weaknessKeywords:     "Missing key terms from JD (%d keywords not found)",
	weaknessFillers: []string{
		"Bullet points could be more action-oriented",
		"Some sections could benefit from better formatting",
	},

	skillsMissing: types.SectionSuggestion{
		SectionName: "Skills",
		Issues:      []string{"Skills section is missing entirely"},
		Suggestions: []string{
			"Add a dedicated 'Technical Skills' section near the top",
			"Group skills by category (Programming Languages, Frameworks, Tools, etc.)",
			"List specific technologies you've used in projects or work",
		},
	},
	skillsPresent: types.SectionSuggestion{
		SectionName: "Skills",
		Issues:      []string{"Skills may not be prominent enough"},
		Suggestions: []string{
			"Ensure skills section is near the top for visibility",
			"Consider grouping skills by proficiency level or category",
			"Match skills to keywords in the job description",
		},
	},
	experience: types.SectionSuggestion{
		SectionName: "Experience",
		Issues: []string{
			"Some bullet points lack quantifiable metrics",
			"Action verbs could be stronger",
		},
		Suggestions: []string{
			"Start each bullet with strong action verbs (Developed, Implemented, Optimized)",
			"Add specific metrics: percentages, numbers, time saved, users impacted",
			"Follow the STAR format: Situation, Task, Action, Result",
			"Focus on impact and outcomes, not just responsibilities",
		},
	},
	projectsPresent: types.SectionSuggestion{
		SectionName: "Projects",
		Issues:      []string{"Project descriptions could be more impactful"},
		Suggestions: []string{
			"Describe the problem solved and technologies used",
			"Include links to GitHub repos or live demos if available",
			"Mention team size if collaborative, or highlight solo work",
			"Quantify results where possible (users, performance improvements)",
		},
	},
	projectsMissing: types.SectionSuggestion{
		SectionName: "Projects",
		Issues:      []string{"Projects section is missing"},
		Suggestions: []string{
			"Add 2-4 relevant technical projects",
			"Include academic projects, personal projects, or hackathons",
			"For each project: name, technologies, brief description, and impact",
		},
	},
	summaryMissing: types.SectionSuggestion{
		SectionName: "Summary",
		Issues:      []string{"No professional summary or objective"},
		Suggestions: []string{
			"Add a 2-3 sentence summary at the top",
			"Highlight your background, key skills, and career goals",
			"Tailor the summary to the specific role you're applying for",
		},
	},
	formatting: types.SectionSuggestion{
		SectionName: "Formatting",
		Issues:      []string{"General formatting improvements needed"},
		Suggestions: []string{
			"Ensure consistent date formatting (e.g., 'Jan 2023 - Present')",
			"Use clear section headers with adequate spacing",
			"Keep the resume to 1 page (for students/early career)",
			"Use a clean, professional font (11-12pt)",
			"Maintain consistent bullet point style throughout",
		},
	},

	rewrittenExamples: []types.RewrittenExample{
		{
			Original: "Worked on a machine learning project",
			Improved: "Developed a CNN-based image classifier achieving 94% accuracy on 10K+ images, reducing manual labeling time by 60%",
			Section:  "Projects",
		},
		{
			Original: "Responsible for database management",
			Improved: "Optimized PostgreSQL database queries, reducing average response time from 2.3s to 0.4s and improving user experience for 5,000+ daily users",
			Section:  "Experience",
		},
		{
			Original: "Built a web application using React",
			Improved: "Architected and deployed a full-stack React + Node.js web app with 1,000+ monthly active users, implementing JWT authentication and RESTful APIs",
			Section:  "Projects",
		},
		{
			Original: "Assisted team with software development tasks",
			Improved: "Collaborated with 4-person engineering team to deliver 3 major features on time, writing 2,000+ lines of Python code and achieving 95% test coverage",
			Section:  "Experience",
		},
	},
}

var vietnameseMockCatalog = mockCatalog{
	summaryFormat: "Đây là một CV %s cho vị trí kỹ thuật. CV thể hiện kinh nghiệm %s và bao gồm %d thành tích có số liệu cụ thể trong tổng số %d điểm liệt kê.",
	missingFormat: " Tuy nhiên, CV còn thiếu: %s.",
	cvStrong:      "tốt",
	cvDeveloping:  "đang phát triển",
	expSolid:      "vững chắc",
	expLimited:    "hạn chế",

	missingSummaryName:  "tóm tắt chuyên môn",
	missingSkillsName:   "phần kỹ năng",
	missingProjectsName: "phần dự án",

	strengthEducation:  "Có thông tin học vấn rõ ràng",
	strengthExperience: "Có phần kinh nghiệm làm việc",
	strengthProjects:   "Thể hiện các dự án liên quan",
	strengthQuantified: "Một số thành tích được định lượng bằng số liệu",
	strengthKeywords:   "Khớp tốt với từ khóa JD (%d từ khớp)",
	strengthFillers: []string{
		"Định dạng có cấu trúc, dễ đọc",
		"Tập trung vào nền tảng kỹ thuật",
	},
	weaknessNoSummary:    "Thiếu phần tóm tắt chuyên môn/mục tiêu nghề nghiệp ở đầu CV",
	weaknessNoSkills:     "Không có phần kỹ năng riêng để làm nổi bật năng lực kỹ thuật",
	weaknessNoProjects:   "Thiếu phần dự án để thể hiện công việc thực tế",
	weaknessUnquantified: "Chưa đủ thành tích được định lượng - cần thêm số liệu và chỉ số cụ thể",
	weaknessKeywords:     "Thiếu các từ khóa quan trọng từ JD (%d từ không tìm thấy)",
	weaknessFillers: []string{
		"Các điểm liệt kê có thể hành động hơn",
		"Một số phần có thể cải thiện định dạng",
	},

	skillsMissing: types.SectionSuggestion{
		SectionName: "Kỹ năng",
		Issues:      []string{"Thiếu hoàn toàn phần kỹ năng"},
		Suggestions: []string{
			"Thêm phần 'Kỹ năng Kỹ thuật' riêng gần đầu CV",
			"Nhóm kỹ năng theo danh mục (Ngôn ngữ lập trình, Framework, Công cụ, v.v.)",
			"Liệt kê các công nghệ cụ thể đã sử dụng trong dự án hoặc công việc",
		},
	},
	skillsPresent: types.SectionSuggestion{
		SectionName: "Kỹ năng",
		Issues:      []string{"Phần kỹ năng có thể chưa nổi bật"},
		Suggestions: []string{
			"Đảm bảo phần kỹ năng ở gần đầu để dễ nhìn thấy",
			"Cân nhắc nhóm kỹ năng theo mức độ thành thạo hoặc danh mục",
			"Khớp kỹ năng với từ khóa trong mô tả công việc",
		},
	},
	experience: types.SectionSuggestion{
		SectionName: "Kinh nghiệm",
		Issues: []string{
			"Một số điểm liệt kê thiếu số liệu định lượng",
			"Động từ hành động có thể mạnh hơn",
		},
		Suggestions: []string{
			"Bắt đầu mỗi điểm với động từ hành động mạnh (Phát triển, Triển khai, Tối ưu hóa)",
			"Thêm số liệu cụ thể: phần trăm, con số, thời gian tiết kiệm, người dùng được tác động",
			"Theo format STAR: Tình huống, Nhiệm vụ, Hành động, Kết quả",
			"Tập trung vào tác động và kết quả, không chỉ trách nhiệm",
		},
	},
	projectsPresent: types.SectionSuggestion{
		SectionName: "Dự án",
		Issues:      []string{"Mô tả dự án có thể tác động hơn"},
		Suggestions: []string{
			"Mô tả vấn đề được giải quyết và công nghệ sử dụng",
			"Bao gồm link đến GitHub repo hoặc demo trực tiếp nếu có",
			"Đề cập quy mô nhóm nếu làm việc nhóm, hoặc nhấn mạnh công việc cá nhân",
			"Định lượng kết quả khi có thể (người dùng, cải thiện hiệu suất)",
		},
	},
	projectsMissing: types.SectionSuggestion{
		SectionName: "Dự án",
		Issues:      []string{"Thiếu phần dự án"},
		Suggestions: []string{
			"Thêm 2-4 dự án kỹ thuật liên quan",
			"Bao gồm dự án học thuật, dự án cá nhân, hoặc hackathon",
			"Cho mỗi dự án: tên, công nghệ, mô tả ngắn gọn, và tác động",
		},
	},
	summaryMissing: types.SectionSuggestion{
		SectionName: "Tóm tắt",
		Issues:      []string{"Không có tóm tắt chuyên môn hoặc mục tiêu"},
		Suggestions: []string{
			"Thêm tóm tắt 2-3 câu ở đầu CV",
			"Làm nổi bật nền tảng, kỹ năng chính, và mục tiêu nghề nghiệp",
			"Tùy chỉnh tóm tắt theo vị trí cụ thể đang ứng tuyển",
		},
	},
	formatting: types.SectionSuggestion{
		SectionName: "Định dạng",
		Issues:      []string{"Cần cải thiện định dạng chung"},
		Suggestions: []string{
			"Đảm bảo định dạng ngày tháng nhất quán (ví dụ: 'Tháng 1/2023 - Hiện tại')",
			"Sử dụng tiêu đề phần rõ ràng với khoảng cách phù hợp",
			"Giữ CV trong 1 trang (cho sinh viên/người mới vào nghề)",
			"Sử dụng font chuyên nghiệp, rõ ràng (11-12pt)",
			"Duy trì style điểm liệt kê nhất quán trong toàn bộ CV",
		},
	},

	rewrittenExamples: []types.RewrittenExample{
		{
			Original: "Làm việc trên dự án machine learning",
			Improved: "Phát triển bộ phân loại ảnh dựa trên CNN đạt độ chính xác 94% trên 10K+ ảnh, giảm 60% thời gian gán nhãn thủ công",
			Section:  "Dự án",
		},
		{
			Original: "Chịu trách nhiệm quản lý cơ sở dữ liệu",
			Improved: "Tối ưu hóa các truy vấn PostgreSQL, giảm thời gian phản hồi trung bình từ 2.3s xuống 0.4s và cải thiện trải nghiệm cho 5,000+ người dùng hàng ngày",
			Section:  "Kinh nghiệm",
		},
		{
			Original: "Xây dựng ứng dụng web sử dụng React",
			Improved: "Thiết kế và triển khai ứng dụng web full-stack React + Node.js với 1,000+ người dùng hoạt động hàng tháng, triển khai xác thực JWT và RESTful APIs",
			Section:  "Dự án",
		},
		{
			Original: "Hỗ trợ nhóm với các tác vụ phát triển phần mềm",
			Improved: "Cộng tác với nhóm kỹ sư 4 người để hoàn thành 3 tính năng chính đúng hạn, viết 2,000+ dòng code Python và đạt 95% test coverage",
			Section:  "Kinh nghiệm",
		},
	},
}
