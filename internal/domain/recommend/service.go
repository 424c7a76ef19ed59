// Package recommend ranks open jobs for a candidate with the heuristic
// scorer and optionally kicks off background auto interviews for the top
// picks.
package recommend

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"zhipin-server/internal/domain/interview"
	"zhipin-server/internal/domain/scoring"
	"zhipin-server/internal/domain/talent"
)

// TaskEnqueuer schedules a background auto interview for a conversation.
type TaskEnqueuer interface {
	EnqueueAutoInterview(ctx context.Context, conversationID, userID, jobID string) error
}

// Recommendation pairs a job with its heuristic score, the AI evaluation
// score once an interview has been scored, and the conversation driving it.
type Recommendation struct {
	Job            *talent.Job
	Score          int
	AIScore        *int
	ConversationID string
}

// Service produces ranked job recommendations.
type Service interface {
	// Recommend returns up to maxJobs open jobs ranked by heuristic score.
	// With autoStart set it also creates a conversation per job and
	// enqueues a background interview run.
	Recommend(ctx context.Context, userID string, maxJobs int, autoStart bool) ([]Recommendation, error)
}

// DefaultService implements Service.
type DefaultService struct {
	jobs          talent.JobRepository
	profiles      talent.ProfileRepository
	interviews    interview.Service
	conversations interview.Repository
	tasks         TaskEnqueuer
	log           zerolog.Logger
}

// NewService wires the recommendation service.
func NewService(
	jobs talent.JobRepository,
	profiles talent.ProfileRepository,
	interviews interview.Service,
	conversations interview.Repository,
	tasks TaskEnqueuer,
	log zerolog.Logger,
) *DefaultService {
	return &DefaultService{
		jobs:          jobs,
		profiles:      profiles,
		interviews:    interviews,
		conversations: conversations,
		tasks:         tasks,
		log:           log.With().Str("component", "recommend-service").Logger(),
	}
}

// listLimit bounds how many open jobs are scored per request.
const listLimit = 100

func (s *DefaultService) Recommend(ctx context.Context, userID string, maxJobs int, autoStart bool) ([]Recommendation, error) {
	profile, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		return nil, interview.ErrProfileRequired
	}

	jobs, err := s.jobs.ListOpen(ctx, listLimit)
	if err != nil {
		return nil, fmt.Errorf("list open jobs: %w", err)
	}

	recs := make([]Recommendation, 0, len(jobs))
	for _, job := range jobs {
		// A user never interviews against their own posting.
		if job.EmployerUserID == userID {
			continue
		}
		rec := Recommendation{
			Job:   job,
			Score: scoring.MatchScore(profile, job),
		}
		if conv, err := s.conversations.FindByUserAndJob(ctx, userID, job.PublicID); err == nil {
			rec.ConversationID = conv.PublicID
			rec.AIScore = conv.MatchScore
		}
		recs = append(recs, rec)
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Score > recs[j].Score
	})
	if maxJobs > 0 && len(recs) > maxJobs {
		recs = recs[:maxJobs]
	}

	if autoStart {
		for i := range recs {
			// Pairs with a recorded AI score keep their result.
			if recs[i].AIScore != nil {
				continue
			}
			conv, err := s.interviews.CreateOrGet(ctx, userID, recs[i].Job.PublicID)
			if err != nil {
				s.log.Warn().Err(err).Str("job_id", recs[i].Job.PublicID).Msg("skip auto interview")
				continue
			}
			recs[i].ConversationID = conv.PublicID

			if conv.Status.IsTerminal() {
				continue
			}
			if err := s.tasks.EnqueueAutoInterview(ctx, conv.PublicID, userID, recs[i].Job.PublicID); err != nil {
				s.log.Warn().Err(err).Str("conversation_id", conv.PublicID).Msg("enqueue auto interview failed")
			}
		}
	}

	return recs, nil
}

var _ Service = (*DefaultService)(nil)
