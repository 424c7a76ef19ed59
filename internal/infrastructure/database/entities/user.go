package entities

import (
	"time"

	"zhipin-server/internal/domain/talent"
)

// User represents the database schema for accounts.
type User struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	PublicID       string `gorm:"type:varchar(50);uniqueIndex;not null"`
	SecondMeUserID string `gorm:"type:varchar(64);index"`
	Role           string `gorm:"type:varchar(20);not null;default:'candidate'"`
	Name           string `gorm:"type:varchar(100)"`
	Avatar         string `gorm:"type:varchar(500)"`

	AccessToken    string    `gorm:"type:text"`
	RefreshToken   string    `gorm:"type:text"`
	TokenExpiresAt time.Time `gorm:"type:timestamp"`
}

// TableName specifies the table name for User.
func (User) TableName() string {
	return "users"
}

// EtoD converts database entity to domain model
func (u *User) EtoD() *talent.User {
	return &talent.User{
		ID:             u.ID,
		PublicID:       u.PublicID,
		SecondMeUserID: u.SecondMeUserID,
		Role:           u.Role,
		Name:           u.Name,
		Avatar:         u.Avatar,
		AccessToken:    u.AccessToken,
		RefreshToken:   u.RefreshToken,
		TokenExpiresAt: u.TokenExpiresAt,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

// CandidateProfile represents the database schema for candidate resumes.
type CandidateProfile struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	UserID   string `gorm:"type:varchar(50);uniqueIndex;not null"`
	Name     string `gorm:"type:varchar(100)"`
	Title    string `gorm:"type:varchar(100)"`
	City     string `gorm:"type:varchar(50)"`
	YearsExp int    `gorm:"not null;default:0"`
	Skills   string `gorm:"type:text"`
	Bio      string `gorm:"type:text"`
}

// TableName specifies the table name for CandidateProfile.
func (CandidateProfile) TableName() string {
	return "candidate_profiles"
}

// EtoD converts database entity to domain model
func (p *CandidateProfile) EtoD() *talent.CandidateProfile {
	return &talent.CandidateProfile{
		ID:        p.ID,
		UserID:    p.UserID,
		Name:      p.Name,
		Title:     p.Title,
		City:      p.City,
		YearsExp:  p.YearsExp,
		Skills:    p.Skills,
		Bio:       p.Bio,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
