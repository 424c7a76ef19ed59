package entities

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"zhipin-server/internal/domain/interview"
)

// InterviewConversation represents the database schema for AI interview
// conversations. The transcript is stored as a jsonb array of turns.
type InterviewConversation struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	PublicID string `gorm:"type:varchar(50);uniqueIndex;not null"`
	UserID   string `gorm:"type:varchar(50);uniqueIndex:idx_interview_user_job;not null"`
	JobID    string `gorm:"type:varchar(50);uniqueIndex:idx_interview_user_job;not null"`

	Status      interview.Status `gorm:"type:varchar(20);index;not null;default:'pending'"`
	CurrentTurn int              `gorm:"not null;default:0"`
	History     datatypes.JSON   `gorm:"type:jsonb"`

	CandidateSessionID string `gorm:"type:varchar(100)"`
	EmployerSessionID  string `gorm:"type:varchar(100)"`

	MatchScore       *int
	EvaluationReason *string `gorm:"type:text"`
	MatchThreshold   int     `gorm:"not null;default:60"`
}

// TableName specifies the table name for InterviewConversation.
func (InterviewConversation) TableName() string {
	return "interview_conversations"
}

// EtoD converts database entity to domain model
func (c *InterviewConversation) EtoD() (*interview.Conversation, error) {
	history := []interview.Turn{}
	if len(c.History) > 0 {
		if err := json.Unmarshal(c.History, &history); err != nil {
			return nil, fmt.Errorf("decode transcript of %s: %w", c.PublicID, err)
		}
	}

	return &interview.Conversation{
		ID:                 c.ID,
		PublicID:           c.PublicID,
		UserID:             c.UserID,
		JobID:              c.JobID,
		Status:             c.Status,
		CurrentTurn:        c.CurrentTurn,
		History:            history,
		CandidateSessionID: c.CandidateSessionID,
		EmployerSessionID:  c.EmployerSessionID,
		MatchScore:         c.MatchScore,
		EvaluationReason:   c.EvaluationReason,
		MatchThreshold:     c.MatchThreshold,
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
	}, nil
}

// DtoE converts domain model to database entity
func DtoE(conv *interview.Conversation) (*InterviewConversation, error) {
	history, err := json.Marshal(conv.History)
	if err != nil {
		return nil, fmt.Errorf("encode transcript of %s: %w", conv.PublicID, err)
	}

	return &InterviewConversation{
		ID:                 conv.ID,
		PublicID:           conv.PublicID,
		UserID:             conv.UserID,
		JobID:              conv.JobID,
		Status:             conv.Status,
		CurrentTurn:        conv.CurrentTurn,
		History:            datatypes.JSON(history),
		CandidateSessionID: conv.CandidateSessionID,
		EmployerSessionID:  conv.EmployerSessionID,
		MatchScore:         conv.MatchScore,
		EvaluationReason:   conv.EvaluationReason,
		MatchThreshold:     conv.MatchThreshold,
	}, nil
}
