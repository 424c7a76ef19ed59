// Package scoring implements the deterministic weighted-feature
// compatibility estimate used for ranking and browsing, independent of any
// AI call. All inputs are structured profile/job fields; no I/O.
package scoring

import (
	"math"
	"regexp"
	"strings"

	"zhipin-server/internal/domain/talent"
)

// Feature weights. The weighted sum is normalized by the applied weights,
// so the result is always on a 0-100 scale.
const (
	weightTitle      = 0.35
	weightSkills     = 0.30
	weightExperience = 0.20
	weightCity       = 0.10
	weightOpenness   = 0.05
)

var techKeywords = []string{
	"java", "python", "javascript", "typescript", "react", "vue", "angular",
	"node", "spring", "后端", "前端", "全栈", "开发", "工程师", "程序员",
	"算法", "架构", "系统", "软件", "编程", "代码", "技术",
}

var nonTechKeywords = []string{
	"运营", "市场", "销售", "客服", "行政", "人事", "财务", "会计",
	"设计", "美工", "文案", "编辑", "策划", "推广", "商务",
}

var tier1Cities = []string{"北京", "上海", "广州", "深圳", "杭州"}

var yearsPattern = regexp.MustCompile(`(\d+)`)

var experienceKeywords = []string{"应届", "1年", "2年", "3年", "5年", "10年"}

// MatchScore computes the 0-100 compatibility estimate for a candidate and
// job pair. Deterministic: identical inputs always yield identical output.
func MatchScore(candidate *talent.CandidateProfile, job *talent.Job) int {
	totalScore := 0.0
	weightSum := 0.0

	totalScore += float64(titleMatch(candidate, job)) * weightTitle
	weightSum += weightTitle

	totalScore += float64(skillsMatch(candidate.Skills, job.Tags)) * weightSkills
	weightSum += weightSkills

	totalScore += float64(experienceMatch(candidate.YearsExp, job.Tags)) * weightExperience
	weightSum += weightExperience

	totalScore += float64(cityMatch(candidate.City, job.City)) * weightCity
	weightSum += weightCity

	openScore := 0
	if job.Status == talent.JobStatusOpen {
		openScore = 100
	}
	totalScore += float64(openScore) * weightOpenness
	weightSum += weightOpenness

	return int(math.Round(totalScore / weightSum))
}

// titleMatch classifies both sides into technical / non-technical and
// scores how well the candidate's skill tokens surface in the job text.
// A cross-category mismatch caps the sub-score hard.
func titleMatch(candidate *talent.CandidateProfile, job *talent.Job) int {
	candidateSkills := strings.ToLower(candidate.Skills)
	candidateTitle := strings.ToLower(candidate.Title)
	jobText := strings.ToLower(job.Title + " " + job.Description + " " + job.Tags)

	candidateIsTech := containsAny(candidateSkills, techKeywords) || containsAny(candidateTitle, techKeywords)
	jobIsTech := containsAny(jobText, techKeywords)
	jobIsNonTech := containsAny(jobText, nonTechKeywords)

	if candidateIsTech && jobIsNonTech {
		return 10
	}
	if !candidateIsTech && jobIsTech {
		return 15
	}

	skills := splitTokens(candidateSkills)
	if len(skills) > 0 {
		matched := 0
		for _, skill := range skills {
			if strings.Contains(jobText, skill) {
				matched++
				continue
			}
			// Loose prefix fallback for compound skill names.
			if prefix := runePrefix(skill, 2); prefix != "" && strings.Contains(jobText, prefix) {
				matched++
			}
		}
		ratio := float64(matched) / float64(len(skills))
		score := int(math.Round(60 + ratio*40))
		if score > 100 {
			score = 100
		}
		return score
	}

	if candidateIsTech && jobIsTech {
		return 60
	}
	return 50
}

// skillsMatch scores mutual-substring overlap between candidate skills and
// job tag tokens. Either side lacking usable tokens yields the neutral 50.
func skillsMatch(candidateSkills, jobTags string) int {
	tags := splitTokens(strings.ToLower(jobTags))
	skills := splitTokens(strings.ToLower(candidateSkills))
	if len(skills) == 0 || len(tags) == 0 {
		return 50
	}

	matched := 0
	for _, skill := range skills {
		for _, tag := range tags {
			if strings.Contains(tag, skill) || strings.Contains(skill, tag) {
				matched++
				break
			}
		}
	}

	ratio := float64(matched) / float64(len(skills))
	score := int(math.Round(ratio * 100))
	if score > 100 {
		score = 100
	}
	return score
}

// experienceMatch extracts a required-years figure from the job tags and
// scores by distance from the candidate's experience. Jobs without an
// explicit requirement score a flat 70.
func experienceMatch(candidateYears int, jobTags string) int {
	requiredYears := 0
	for _, tag := range splitTokens(jobTags) {
		for _, keyword := range experienceKeywords {
			if strings.Contains(tag, keyword) {
				if m := yearsPattern.FindString(tag); m != "" {
					requiredYears = atoiSafe(m)
				}
				break
			}
		}
		if requiredYears > 0 {
			break
		}
	}

	if requiredYears == 0 {
		return 70
	}

	diff := candidateYears - requiredYears
	if diff < 0 {
		diff = -diff
	}
	switch {
	case diff == 0:
		return 100
	case diff <= 1:
		return 90
	case diff <= 2:
		return 70
	case diff <= 3:
		return 50
	default:
		score := 100 - diff*10
		if score < 20 {
			score = 20
		}
		return score
	}
}

// cityMatch compares cities after stripping locale suffixes. Distinct
// tier-1 cities still earn partial credit.
func cityMatch(candidateCity, jobCity string) int {
	if candidateCity == "" || jobCity == "" {
		return 50
	}
	if candidateCity == jobCity {
		return 100
	}

	strip := func(s string) string {
		s = strings.ToLower(s)
		s = strings.ReplaceAll(s, "市", "")
		return strings.ReplaceAll(s, "省", "")
	}
	if strip(candidateCity) == strip(jobCity) {
		return 100
	}

	candidateTier1 := containsAnySubstr(candidateCity, tier1Cities)
	jobTier1 := containsAnySubstr(jobCity, tier1Cities)
	if candidateTier1 && jobTier1 {
		return 60
	}
	return 30
}

// splitTokens splits a comma-separated field on ASCII and CJK separators.
func splitTokens(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '，' || r == '、'
	})
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

func containsAny(haystack string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(haystack, k) {
			return true
		}
	}
	return false
}

func containsAnySubstr(s string, candidates []string) bool {
	for _, c := range candidates {
		if strings.Contains(s, c) {
			return true
		}
	}
	return false
}

func runePrefix(s string, n int) string {
	runes := []rune(s)
	if len(runes) < n {
		return ""
	}
	return string(runes[:n])
}

func atoiSafe(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return n
		}
		n = n*10 + int(r-'0')
	}
	return n
}
