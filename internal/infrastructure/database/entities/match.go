package entities

import (
	"time"

	"zhipin-server/internal/domain/talent"
)

// Match represents the database schema for like/pass decisions. One row per
// (user, job) pair; repeated decisions update in place.
type Match struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	UserID   string             `gorm:"type:varchar(50);uniqueIndex:idx_match_user_job;not null"`
	JobID    string             `gorm:"type:varchar(50);uniqueIndex:idx_match_user_job;not null"`
	Status   talent.MatchStatus `gorm:"type:varchar(20);not null"`
	Unlocked bool               `gorm:"not null;default:false"`
}

// TableName specifies the table name for Match.
func (Match) TableName() string {
	return "matches"
}

// EtoD converts database entity to domain model
func (m *Match) EtoD() *talent.Match {
	return &talent.Match{
		ID:        m.ID,
		UserID:    m.UserID,
		JobID:     m.JobID,
		Status:    m.Status,
		Unlocked:  m.Unlocked,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
