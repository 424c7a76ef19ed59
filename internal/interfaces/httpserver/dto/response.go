package dto

import (
	"time"

	"zhipin-server/internal/domain/interview"
	"zhipin-server/internal/domain/recommend"
	"zhipin-server/internal/domain/talent"
)

// TurnPayload is one transcript entry.
type TurnPayload struct {
	Turn    int    `json:"turn"`
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ConversationPayload is the wire form of an interview conversation.
type ConversationPayload struct {
	ID               string        `json:"id"`
	UserID           string        `json:"user_id"`
	JobID            string        `json:"job_id"`
	Status           string        `json:"status"`
	CurrentTurn      int           `json:"current_turn"`
	History          []TurnPayload `json:"history"`
	MatchScore       *int          `json:"match_score,omitempty"`
	EvaluationReason *string       `json:"evaluation_reason,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// FromConversation converts the domain conversation.
func FromConversation(conv *interview.Conversation) ConversationPayload {
	history := make([]TurnPayload, len(conv.History))
	for i, t := range conv.History {
		history[i] = TurnPayload{Turn: t.Turn, Role: string(t.Role), Content: t.Content}
	}
	return ConversationPayload{
		ID:               conv.PublicID,
		UserID:           conv.UserID,
		JobID:            conv.JobID,
		Status:           string(conv.Status),
		CurrentTurn:      conv.CurrentTurn,
		History:          history,
		MatchScore:       conv.MatchScore,
		EvaluationReason: conv.EvaluationReason,
		CreatedAt:        conv.CreatedAt,
		UpdatedAt:        conv.UpdatedAt,
	}
}

// CompanyPayload is the wire form of an employer organization.
type CompanyPayload struct {
	Name  string `json:"name"`
	City  string `json:"city,omitempty"`
	Intro string `json:"intro,omitempty"`
}

// JobPayload is the wire form of a job.
type JobPayload struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	Description    string          `json:"description,omitempty"`
	City           string          `json:"city,omitempty"`
	SalaryMin      int             `json:"salary_min,omitempty"`
	SalaryMax      int             `json:"salary_max,omitempty"`
	SalaryCurrency string          `json:"salary_currency,omitempty"`
	SalaryText     string          `json:"salary_text"`
	Tags           string          `json:"tags,omitempty"`
	Status         string          `json:"status"`
	Score          *int            `json:"score,omitempty"`
	Company        *CompanyPayload `json:"company,omitempty"`
}

// FromJob converts the domain job.
func FromJob(job *talent.Job) JobPayload {
	payload := JobPayload{
		ID:             job.PublicID,
		Title:          job.Title,
		Description:    job.Description,
		City:           job.City,
		SalaryMin:      job.SalaryMin,
		SalaryMax:      job.SalaryMax,
		SalaryCurrency: job.SalaryCurrency,
		SalaryText:     interview.FormatSalary(job.SalaryMin, job.SalaryMax, job.SalaryCurrency),
		Tags:           job.Tags,
		Status:         string(job.Status),
	}
	if job.Company != nil {
		payload.Company = &CompanyPayload{
			Name:  job.Company.Name,
			City:  job.Company.City,
			Intro: job.Company.Intro,
		}
	}
	return payload
}

// MatchPayload is the wire form of a like/pass decision.
type MatchPayload struct {
	UserID   string `json:"user_id"`
	JobID    string `json:"job_id"`
	Status   string `json:"status"`
	Unlocked bool   `json:"unlocked"`
}

// FromMatch converts the domain match.
func FromMatch(m *talent.Match) MatchPayload {
	return MatchPayload{
		UserID:   m.UserID,
		JobID:    m.JobID,
		Status:   string(m.Status),
		Unlocked: m.Unlocked,
	}
}

// RecommendationPayload is one ranked job with its heuristic score and,
// once an interview has been evaluated, the AI score.
type RecommendationPayload struct {
	Job            JobPayload `json:"job"`
	Score          int        `json:"score"`
	AIScore        *int       `json:"ai_score,omitempty"`
	ConversationID string     `json:"conversation_id,omitempty"`
}

// FromRecommendations converts the ranked list.
func FromRecommendations(recs []recommend.Recommendation) []RecommendationPayload {
	payloads := make([]RecommendationPayload, len(recs))
	for i, rec := range recs {
		payloads[i] = RecommendationPayload{
			Job:            FromJob(rec.Job),
			Score:          rec.Score,
			AIScore:        rec.AIScore,
			ConversationID: rec.ConversationID,
		}
	}
	return payloads
}
