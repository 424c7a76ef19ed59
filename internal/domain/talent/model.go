package talent

import "time"

// JobStatus reflects whether a job accepts new candidates.
type JobStatus string

const (
	JobStatusOpen   JobStatus = "open"
	JobStatusClosed JobStatus = "closed"
)

// MatchStatus records the candidate's manual or AI-derived decision on a job.
type MatchStatus string

const (
	MatchStatusLiked  MatchStatus = "liked"
	MatchStatusPassed MatchStatus = "passed"
)

// User is an account bound to a SecondMe identity. Tokens are managed by the
// credential provider; the rest of the system never reads them directly.
type User struct {
	ID             uint
	PublicID       string
	SecondMeUserID string
	Role           string
	Name           string
	Avatar         string
	AccessToken    string
	RefreshToken   string
	TokenExpiresAt time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CandidateProfile holds the structured resume fields used by prompts and
// the heuristic scorer. Optional fields are empty strings / zero values.
type CandidateProfile struct {
	ID        uint
	UserID    string
	Name      string
	Title     string
	City      string
	YearsExp  int
	Skills    string
	Bio       string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Company describes the employer organization behind a job.
type Company struct {
	ID    uint
	Name  string
	City  string
	Intro string
}

// Job is an open position published by an employer user.
type Job struct {
	ID             uint
	PublicID       string
	EmployerUserID string
	CompanyID      uint
	Company        *Company
	Title          string
	Description    string
	City           string
	SalaryMin      int
	SalaryMax      int
	SalaryCurrency string
	Tags           string
	Status         JobStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Match links a candidate to a job. The Unlocked flag is flipped by the
// evaluation pipeline when an interview scores at or above the threshold.
type Match struct {
	ID        uint
	UserID    string
	JobID     string
	Status    MatchStatus
	Unlocked  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
