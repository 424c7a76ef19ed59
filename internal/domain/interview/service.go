package interview

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"zhipin-server/internal/domain/chat"
	"zhipin-server/internal/domain/talent"
)

var (
	// ErrProfileRequired is returned when the acting user has no candidate
	// profile to interview with.
	ErrProfileRequired = errors.New("candidate profile required")
	// ErrForbidden is returned when the acting user is neither the
	// candidate nor the employer behind the job.
	ErrForbidden = errors.New("not a participant of this conversation")
)

// RunOutcome is the result of an auto run: the final conversation state and,
// when the run reached evaluation, the verdict.
type RunOutcome struct {
	Conversation *Conversation
	Evaluation   *Evaluation
	Matched      bool
}

// EvaluationOutcome is the evaluate operation's result. Memoized runs carry
// only score and reason; strengths/weaknesses are not persisted.
type EvaluationOutcome struct {
	Score      int      `json:"score"`
	Reason     string   `json:"reason"`
	Strengths  []string `json:"strengths,omitempty"`
	Weaknesses []string `json:"weaknesses,omitempty"`
	IsMatched  bool     `json:"is_matched"`
}

// Service is the interview API consumed by the HTTP layer and the
// background workers.
type Service interface {
	// CreateOrGet returns the single conversation for (candidate, job),
	// creating it race-safely when absent.
	CreateOrGet(ctx context.Context, userID, jobID string) (*Conversation, error)
	// Get fetches a conversation for status polling.
	Get(ctx context.Context, publicID, actingUserID string) (*Conversation, error)
	// RunAuto advances the conversation to the configured turn count and
	// evaluates it. obs may be nil for non-streaming callers. Partial
	// progress is persisted before any error is returned.
	RunAuto(ctx context.Context, publicID, actingUserID string, obs TurnObserver) (*RunOutcome, error)
	// Evaluate scores a completed conversation, or returns the memoized
	// verdict when one exists.
	Evaluate(ctx context.Context, publicID, actingUserID string) (*EvaluationOutcome, error)
	// Reset clears the conversation back to pending with an empty
	// transcript and no session handles.
	Reset(ctx context.Context, publicID, actingUserID string) error
}

// DefaultService implements Service.
type DefaultService struct {
	conversations Repository
	jobs          talent.JobRepository
	profiles      talent.ProfileRepository
	matches       talent.MatchRepository
	credentials   chat.CredentialProvider
	orchestrator  *Orchestrator
	evaluator     *Evaluator
	maxTurns      int
	threshold     int
	log           zerolog.Logger
}

// NewService wires the interview service. maxTurns and threshold come from
// configuration; zero values fall back to the defaults.
func NewService(
	conversations Repository,
	jobs talent.JobRepository,
	profiles talent.ProfileRepository,
	matches talent.MatchRepository,
	credentials chat.CredentialProvider,
	orchestrator *Orchestrator,
	evaluator *Evaluator,
	maxTurns int,
	threshold int,
	log zerolog.Logger,
) *DefaultService {
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	if threshold <= 0 {
		threshold = 60
	}
	return &DefaultService{
		conversations: conversations,
		jobs:          jobs,
		profiles:      profiles,
		matches:       matches,
		credentials:   credentials,
		orchestrator:  orchestrator,
		evaluator:     evaluator,
		maxTurns:      maxTurns,
		threshold:     threshold,
		log:           log.With().Str("component", "interview-service").Logger(),
	}
}

// CreateOrGet returns the existing conversation for the pair or creates a
// pending one. The unique (user, job) constraint is the concurrency guard;
// CreateIfAbsent resolves races to a single row.
func (s *DefaultService) CreateOrGet(ctx context.Context, userID, jobID string) (*Conversation, error) {
	if _, err := s.profiles.FindByUserID(ctx, userID); err != nil {
		return nil, ErrProfileRequired
	}
	if _, err := s.jobs.FindByPublicID(ctx, jobID); err != nil {
		return nil, err
	}

	if existing, err := s.conversations.FindByUserAndJob(ctx, userID, jobID); err == nil {
		return existing, nil
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	conv := NewConversation(newConversationID(), userID, jobID, s.threshold)
	return s.conversations.CreateIfAbsent(ctx, conv)
}

// Get fetches the conversation and enforces participant access.
func (s *DefaultService) Get(ctx context.Context, publicID, actingUserID string) (*Conversation, error) {
	conv, err := s.conversations.FindByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	if _, err := s.authorize(ctx, conv, actingUserID); err != nil {
		return nil, err
	}
	return conv, nil
}

// RunAuto drives the conversation to completion and evaluates it.
//
// Failure semantics: a chat failure mid-run persists every appended turn,
// leaves the conversation pending and surfaces the error; a later call
// resumes at the same point. Corrupt persisted history is the one
// unrecoverable case and marks the conversation failed.
func (s *DefaultService) RunAuto(ctx context.Context, publicID, actingUserID string, obs TurnObserver) (*RunOutcome, error) {
	conv, err := s.conversations.FindByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	job, err := s.authorize(ctx, conv, actingUserID)
	if err != nil {
		return nil, err
	}

	if conv.Status == StatusFailed {
		return nil, fmt.Errorf("conversation %s is failed, reset to retry", conv.PublicID)
	}
	if conv.Status == StatusCompleted && conv.Evaluated() {
		return &RunOutcome{
			Conversation: conv,
			Evaluation:   &Evaluation{Score: *conv.MatchScore, Reason: derefOrEmpty(conv.EvaluationReason)},
			Matched:      *conv.MatchScore >= conv.MatchThreshold,
		}, nil
	}

	profile, err := s.profiles.FindByUserID(ctx, conv.UserID)
	if err != nil {
		return nil, ErrProfileRequired
	}

	candidateCred, err := s.credentials.ValidCredential(ctx, conv.UserID)
	if err != nil {
		return nil, fmt.Errorf("candidate: %w", ErrNoCredential)
	}
	employerCred, err := s.credentials.ValidCredential(ctx, job.EmployerUserID)
	if err != nil {
		return nil, fmt.Errorf("employer: %w", ErrNoCredential)
	}

	companyName := ""
	if job.Company != nil {
		companyName = job.Company.Name
	}

	if conv.Status == StatusPending {
		runErr := s.orchestrator.AdvanceStream(ctx, RunInput{
			Conversation:        conv,
			CandidateCredential: candidateCred,
			EmployerCredential:  employerCred,
			CandidatePersona:    BuildCandidatePersonaPrompt(profile, job.Title, companyName),
			EmployerPersona:     BuildEmployerPersonaPrompt(job, job.Company),
			MaxTurns:            s.maxTurns,
		}, obs)

		if errors.Is(runErr, ErrCorruptHistory) {
			conv.Status = StatusFailed
		}
		if err := s.conversations.Update(ctx, conv); err != nil {
			return nil, err
		}
		if runErr != nil {
			return nil, runErr
		}
	}

	eval, err := s.evaluateAndPersist(ctx, conv, profile, job, companyName, candidateCred)
	if err != nil {
		return nil, err
	}

	return &RunOutcome{
		Conversation: conv,
		Evaluation:   eval,
		Matched:      eval.Score >= conv.MatchThreshold,
	}, nil
}

// Evaluate scores a completed conversation. A second call on a scored
// conversation returns the memoized verdict without another chat call.
func (s *DefaultService) Evaluate(ctx context.Context, publicID, actingUserID string) (*EvaluationOutcome, error) {
	conv, err := s.conversations.FindByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	if conv.UserID != actingUserID {
		return nil, ErrForbidden
	}
	if conv.Status != StatusCompleted {
		return nil, fmt.Errorf("%w: current turn %d", ErrNotCompleted, conv.CurrentTurn)
	}

	if conv.Evaluated() {
		return &EvaluationOutcome{
			Score:     *conv.MatchScore,
			Reason:    derefOrEmpty(conv.EvaluationReason),
			IsMatched: *conv.MatchScore >= conv.MatchThreshold,
		}, nil
	}

	job, err := s.jobs.FindByPublicID(ctx, conv.JobID)
	if err != nil {
		return nil, err
	}
	profile, err := s.profiles.FindByUserID(ctx, conv.UserID)
	if err != nil {
		return nil, ErrProfileRequired
	}
	candidateCred, err := s.credentials.ValidCredential(ctx, conv.UserID)
	if err != nil {
		return nil, fmt.Errorf("candidate: %w", ErrNoCredential)
	}

	companyName := ""
	if job.Company != nil {
		companyName = job.Company.Name
	}

	eval, err := s.evaluateAndPersist(ctx, conv, profile, job, companyName, candidateCred)
	if err != nil {
		return nil, err
	}
	return &EvaluationOutcome{
		Score:      eval.Score,
		Reason:     eval.Reason,
		Strengths:  eval.Strengths,
		Weaknesses: eval.Weaknesses,
		IsMatched:  eval.Score >= conv.MatchThreshold,
	}, nil
}

// Reset clears the conversation so the pair can re-match.
func (s *DefaultService) Reset(ctx context.Context, publicID, actingUserID string) error {
	conv, err := s.conversations.FindByPublicID(ctx, publicID)
	if err != nil {
		return err
	}
	if _, err := s.authorize(ctx, conv, actingUserID); err != nil {
		return err
	}
	conv.Reset()
	return s.conversations.Update(ctx, conv)
}

// evaluateAndPersist runs the evaluation pipeline for a completed but
// unscored conversation and applies the match side effect at or above the
// threshold. Already-scored conversations pass through untouched.
func (s *DefaultService) evaluateAndPersist(
	ctx context.Context,
	conv *Conversation,
	profile *talent.CandidateProfile,
	job *talent.Job,
	companyName, candidateCred string,
) (*Evaluation, error) {
	if conv.Evaluated() {
		return &Evaluation{Score: *conv.MatchScore, Reason: derefOrEmpty(conv.EvaluationReason)}, nil
	}

	prompt := BuildEvaluationPrompt(profile, job, companyName, conv.History)
	eval, err := s.evaluator.Evaluate(ctx, candidateCred, prompt)
	if err != nil {
		return nil, fmt.Errorf("evaluate conversation %s: %w", conv.PublicID, err)
	}

	conv.MatchScore = &eval.Score
	conv.EvaluationReason = &eval.Reason
	if err := s.conversations.Update(ctx, conv); err != nil {
		return nil, err
	}

	if eval.Score >= conv.MatchThreshold {
		if _, err := s.matches.Upsert(ctx, conv.UserID, conv.JobID, talent.MatchStatusLiked, true); err != nil {
			return nil, fmt.Errorf("unlock match: %w", err)
		}
		s.log.Info().
			Str("conversation_id", conv.PublicID).
			Int("score", eval.Score).
			Msg("match unlocked")
	}

	return &eval, nil
}

// authorize checks the acting user is the candidate or the job's employer
// and returns the job for further use.
func (s *DefaultService) authorize(ctx context.Context, conv *Conversation, actingUserID string) (*talent.Job, error) {
	job, err := s.jobs.FindByPublicID(ctx, conv.JobID)
	if err != nil {
		return nil, err
	}
	if conv.UserID != actingUserID && job.EmployerUserID != actingUserID {
		return nil, ErrForbidden
	}
	return job, nil
}

func newConversationID() string {
	return "conv_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var _ Service = (*DefaultService)(nil)
