package interview

import (
	"fmt"
	"strings"

	"zhipin-server/internal/domain/talent"
)

// Opener is the fixed first message the candidate sends to start a run.
const Opener = "你好，我对这个职位很感兴趣，想了解一下详情。"

const (
	placeholderMissing     = "未填写"
	placeholderUnspecified = "未指定"
	placeholderNegotiable  = "面议"
	placeholderNone        = "无"
)

const descriptionLimit = 500

// BuildCandidatePersonaPrompt renders the system instruction that seeds the
// candidate's chat session. Deterministic; missing optional fields render as
// fixed placeholders.
func BuildCandidatePersonaPrompt(profile *talent.CandidateProfile, jobTitle, companyName string) string {
	name := ""
	if profile != nil && profile.Name != "" {
		name = " " + profile.Name
	}

	var b strings.Builder
	fmt.Fprintf(&b, "你是候选人%s，正在与 %s 的 HR 进行工作相关的对话，讨论 %s 职位。\n\n", name, companyName, jobTitle)
	b.WriteString("你的背景：\n")
	fmt.Fprintf(&b, "- 当前职位：%s\n", orPlaceholder(profileTitle(profile), placeholderMissing))
	fmt.Fprintf(&b, "- 工作年限：%d 年\n", profileYears(profile))
	fmt.Fprintf(&b, "- 技能：%s\n", orPlaceholder(profileSkills(profile), placeholderMissing))
	fmt.Fprintf(&b, "- 个人简介：%s\n\n", orPlaceholder(profileBio(profile), placeholderMissing))
	b.WriteString("对话目标：\n")
	b.WriteString("1. 展示你的技能和经验\n")
	b.WriteString("2. 了解职位详情和公司情况\n")
	b.WriteString("3. 表达对职位的兴趣\n")
	b.WriteString("4. 回答 HR 的问题，展示你的匹配度\n\n")
	b.WriteString("对话规则：\n")
	b.WriteString("- 保持专业，只讨论工作相关话题\n")
	b.WriteString("- 不要聊兴趣爱好、日常生活等无关内容\n")
	b.WriteString("- 回答要真实、专业、有针对性\n")
	b.WriteString("- 主动提问，了解职位详情")
	return b.String()
}

// BuildEmployerPersonaPrompt renders the system instruction that seeds the
// employer's chat session.
func BuildEmployerPersonaPrompt(job *talent.Job, company *talent.Company) string {
	companyName := placeholderMissing
	companyCity := placeholderUnspecified
	companyIntro := placeholderNone
	if company != nil {
		companyName = orPlaceholder(company.Name, placeholderMissing)
		companyCity = orPlaceholder(company.City, placeholderUnspecified)
		companyIntro = orPlaceholder(company.Intro, placeholderNone)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "你是 %s 的 HR，正在与候选人进行工作相关的对话，讨论 %s 职位。\n\n", companyName, job.Title)
	b.WriteString("职位信息：\n")
	fmt.Fprintf(&b, "- 职位名称：%s\n", job.Title)
	fmt.Fprintf(&b, "- 职位描述：%s\n", truncate(job.Description, descriptionLimit))
	fmt.Fprintf(&b, "- 工作城市：%s\n", orPlaceholder(job.City, placeholderUnspecified))
	fmt.Fprintf(&b, "- 薪资范围：%s\n", FormatSalary(job.SalaryMin, job.SalaryMax, job.SalaryCurrency))
	fmt.Fprintf(&b, "- 标签：%s\n\n", orPlaceholder(job.Tags, placeholderNone))
	b.WriteString("公司信息：\n")
	fmt.Fprintf(&b, "- 公司名称：%s\n", companyName)
	fmt.Fprintf(&b, "- 公司城市：%s\n", companyCity)
	fmt.Fprintf(&b, "- 公司简介：%s\n\n", companyIntro)
	b.WriteString("对话目标：\n")
	b.WriteString("1. 了解候选人的技能、经验和匹配度\n")
	b.WriteString("2. 介绍职位和公司的优势\n")
	b.WriteString("3. 回答候选人的问题\n")
	b.WriteString("4. 评估候选人是否适合这个职位\n\n")
	b.WriteString("对话规则：\n")
	b.WriteString("- 保持专业，只讨论工作相关话题\n")
	b.WriteString("- 不要聊兴趣爱好、日常生活等无关内容\n")
	b.WriteString("- 提问要有针对性，评估候选人的能力\n")
	b.WriteString("- 友好、专业地回应候选人的问题")
	return b.String()
}

// BuildEvaluationPrompt renders the scoring instruction: candidate and job
// summaries, the full transcript, and an explicit JSON-only output contract.
func BuildEvaluationPrompt(profile *talent.CandidateProfile, job *talent.Job, companyName string, history []Turn) string {
	var transcript strings.Builder
	for i, t := range history {
		if i > 0 {
			transcript.WriteString("\n\n")
		}
		label := "候选人"
		if t.Role == RoleEmployer {
			label = "招聘方"
		}
		fmt.Fprintf(&transcript, "%s（第%d轮）：%s", label, t.Turn, t.Content)
	}

	var b strings.Builder
	b.WriteString("基于以下对话记录，评估候选人与职位的匹配度（0-100分）。\n\n")
	b.WriteString("候选人资料：\n")
	fmt.Fprintf(&b, "- 姓名：%s\n", orPlaceholder(profileName(profile), placeholderMissing))
	fmt.Fprintf(&b, "- 当前职位：%s\n", orPlaceholder(profileTitle(profile), placeholderMissing))
	fmt.Fprintf(&b, "- 工作年限：%d 年\n", profileYears(profile))
	fmt.Fprintf(&b, "- 技能：%s\n", orPlaceholder(profileSkills(profile), placeholderMissing))
	fmt.Fprintf(&b, "- 个人简介：%s\n\n", orPlaceholder(profileBio(profile), placeholderMissing))
	b.WriteString("职位信息：\n")
	fmt.Fprintf(&b, "- 职位名称：%s\n", job.Title)
	fmt.Fprintf(&b, "- 职位描述：%s\n", truncate(job.Description, descriptionLimit))
	fmt.Fprintf(&b, "- 工作城市：%s\n", orPlaceholder(job.City, placeholderUnspecified))
	fmt.Fprintf(&b, "- 薪资范围：%s\n", FormatSalary(job.SalaryMin, job.SalaryMax, job.SalaryCurrency))
	fmt.Fprintf(&b, "- 标签：%s\n\n", orPlaceholder(job.Tags, placeholderNone))
	fmt.Fprintf(&b, "公司：%s\n\n", orPlaceholder(companyName, placeholderMissing))
	fmt.Fprintf(&b, "对话记录（%d轮）：\n%s\n\n", len(history), transcript.String())
	b.WriteString("请只关注工作相关的匹配度，评估以下方面：\n")
	b.WriteString("1. 技能匹配度\n")
	b.WriteString("2. 工作经验匹配度\n")
	b.WriteString("3. 职位要求匹配度\n")
	b.WriteString("4. 沟通能力和专业度\n\n")
	b.WriteString("返回 JSON 格式（只返回 JSON，不要其他文字）：\n")
	b.WriteString(`{
  "score": 75,
  "reason": "候选人技能匹配度高，工作经验符合要求，沟通专业",
  "strengths": ["技能匹配", "经验相关", "沟通专业"],
  "weaknesses": []
}`)
	return b.String()
}

// FormatSalary renders a currency-aware salary line: a range, an open-ended
// minimum, a capped maximum, or "negotiable" when both bounds are absent.
func FormatSalary(min, max int, currency string) string {
	symbol := "¥"
	if currency == "USD" {
		symbol = "$"
	}
	switch {
	case min > 0 && max > 0:
		return fmt.Sprintf("%s%d - %s%d", symbol, min, symbol, max)
	case min > 0:
		return fmt.Sprintf("%s%d+", symbol, min)
	case max > 0:
		return fmt.Sprintf("最高 %s%d", symbol, max)
	default:
		return placeholderNegotiable
	}
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

func orPlaceholder(s, placeholder string) string {
	if strings.TrimSpace(s) == "" {
		return placeholder
	}
	return s
}

func profileName(p *talent.CandidateProfile) string {
	if p == nil {
		return ""
	}
	return p.Name
}

func profileTitle(p *talent.CandidateProfile) string {
	if p == nil {
		return ""
	}
	return p.Title
}

func profileSkills(p *talent.CandidateProfile) string {
	if p == nil {
		return ""
	}
	return p.Skills
}

func profileBio(p *talent.CandidateProfile) string {
	if p == nil {
		return ""
	}
	return p.Bio
}

func profileYears(p *talent.CandidateProfile) int {
	if p == nil {
		return 0
	}
	return p.YearsExp
}
