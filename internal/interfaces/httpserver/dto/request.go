package dto

// CreateInterviewRequest starts (or resumes) the interview conversation for
// a job.
type CreateInterviewRequest struct {
	JobID string `json:"job_id" binding:"required"`
}

// MatchDecisionRequest records a manual like/pass decision on a job.
type MatchDecisionRequest struct {
	JobID  string `json:"job_id" binding:"required"`
	Status string `json:"status" binding:"required,oneof=liked passed"`
}
