package entities

import "time"

// InterviewTask represents the database schema for the background interview
// queue. Workers claim rows with FOR UPDATE SKIP LOCKED.
type InterviewTask struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	TaskType       string `gorm:"type:varchar(50);not null"`
	ConversationID string `gorm:"type:varchar(50);index;not null"`
	UserID         string `gorm:"type:varchar(50);index;not null"`
	JobID          string `gorm:"type:varchar(50);not null"`

	Status      string `gorm:"type:varchar(20);index;not null;default:'queued'"`
	Error       string `gorm:"type:text"`
	QueuedAt    time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time
	FailedAt    *time.Time
}

// TableName specifies the table name for InterviewTask.
func (InterviewTask) TableName() string {
	return "interview_tasks"
}
