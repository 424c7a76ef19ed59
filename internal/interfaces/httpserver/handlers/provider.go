package handlers

import (
	"github.com/rs/zerolog"

	"zhipin-server/internal/domain/interview"
	"zhipin-server/internal/domain/recommend"
	"zhipin-server/internal/domain/talent"
)

// Provider wires all HTTP handlers for dependency injection.
type Provider struct {
	Interview *InterviewHandler
	Job       *JobHandler
	Match     *MatchHandler
}

// NewProvider constructs the handler provider with domain services.
func NewProvider(
	interviewService interview.Service,
	recommender recommend.Service,
	jobs talent.JobRepository,
	profiles talent.ProfileRepository,
	matches talent.MatchRepository,
	maxJobs int,
	log zerolog.Logger,
) *Provider {
	return &Provider{
		Interview: NewInterviewHandler(interviewService, log),
		Job:       NewJobHandler(jobs, profiles, recommender, maxJobs, log),
		Match:     NewMatchHandler(matches, log),
	}
}
