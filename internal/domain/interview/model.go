package interview

import (
	"errors"
	"fmt"
	"time"
)

// Status represents the lifecycle status of an interview conversation.
type Status string

const (
	// StatusPending covers everything from creation up to the last turn.
	StatusPending Status = "pending"
	// StatusCompleted means the configured turn count was reached.
	StatusCompleted Status = "completed"
	// StatusFailed marks an unrecoverable run; reachable from pending only.
	StatusFailed Status = "failed"
)

// IsTerminal returns true if the status allows no further turn advances.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Role identifies which party authored a turn.
type Role string

const (
	RoleCandidate Role = "candidate"
	RoleEmployer  Role = "employer"
)

// Other returns the opposing party.
func (r Role) Other() Role {
	if r == RoleCandidate {
		return RoleEmployer
	}
	return RoleCandidate
}

// Turn is one message within an interview, numbered from 1. Immutable once
// appended.
type Turn struct {
	Turn    int    `json:"turn"`
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// TurnState is the explicit advance state carried alongside the transcript:
// who speaks next and how many turns remain. It is recomputed from the
// transcript so a resumed run never has to infer state from array shape.
type TurnState struct {
	NextRole       Role
	TurnsRemaining int
}

// Done reports whether the interview has produced all its turns.
func (s TurnState) Done() bool {
	return s.TurnsRemaining <= 0
}

var (
	// ErrNotFound is returned when a conversation does not exist.
	ErrNotFound = errors.New("conversation not found")
	// ErrNoCredential is returned when a party has no usable credential.
	// The conversation is left untouched so a retry after re-auth works.
	ErrNoCredential = errors.New("no valid credential")
	// ErrNotCompleted is returned when evaluation is requested before the
	// conversation reached its configured turn count.
	ErrNotCompleted = errors.New("conversation not completed")
	// ErrCorruptHistory is returned when persisted turns are not contiguous
	// from 1 or do not strictly alternate starting with the candidate.
	// Corrupt history is never auto-corrected; reset is the recovery path.
	ErrCorruptHistory = errors.New("corrupt conversation history")
)

// Conversation is the persisted state of one simulated interview between a
// candidate and the employer behind a job. At most one conversation exists
// per (candidate, job) pair.
type Conversation struct {
	ID       uint
	PublicID string
	UserID   string
	JobID    string

	Status      Status
	CurrentTurn int
	History     []Turn

	// Provider session handles for each side of the exchange. Empty until
	// the first message of the respective session; cleared on reset.
	CandidateSessionID string
	EmployerSessionID  string

	MatchScore       *int
	EvaluationReason *string
	MatchThreshold   int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewConversation creates a pending conversation with an empty transcript.
func NewConversation(publicID, userID, jobID string, threshold int) *Conversation {
	now := time.Now().UTC()
	return &Conversation{
		PublicID:       publicID,
		UserID:         userID,
		JobID:          jobID,
		Status:         StatusPending,
		CurrentTurn:    0,
		History:        []Turn{},
		MatchThreshold: threshold,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// TurnStateFor validates the transcript and derives the advance state for a
// run capped at maxTurns. Turn numbers must be contiguous from 1 and roles
// must strictly alternate starting with the candidate.
func (c *Conversation) TurnStateFor(maxTurns int) (TurnState, error) {
	expected := RoleCandidate
	for i, t := range c.History {
		if t.Turn != i+1 {
			return TurnState{}, fmt.Errorf("%w: turn %d recorded at position %d", ErrCorruptHistory, t.Turn, i)
		}
		if t.Role != expected {
			return TurnState{}, fmt.Errorf("%w: turn %d has role %q, want %q", ErrCorruptHistory, t.Turn, t.Role, expected)
		}
		expected = expected.Other()
	}
	return TurnState{
		NextRole:       expected,
		TurnsRemaining: maxTurns - len(c.History),
	}, nil
}

// AppendTurn records the next turn and advances the turn counter. The
// transcript invariant CurrentTurn == len(History) holds after every
// successful append.
func (c *Conversation) AppendTurn(role Role, content string) Turn {
	turn := Turn{
		Turn:    len(c.History) + 1,
		Role:    role,
		Content: content,
	}
	c.History = append(c.History, turn)
	c.CurrentTurn = len(c.History)
	return turn
}

// LastTurn returns the most recent turn, or nil for an empty transcript.
func (c *Conversation) LastTurn() *Turn {
	if len(c.History) == 0 {
		return nil
	}
	return &c.History[len(c.History)-1]
}

// Evaluated reports whether the evaluation pipeline already scored this
// conversation.
func (c *Conversation) Evaluated() bool {
	return c.MatchScore != nil
}

// Reset clears the conversation back to its initial pending state: empty
// transcript, turn 0, no score, and both session handles dropped.
func (c *Conversation) Reset() {
	c.Status = StatusPending
	c.CurrentTurn = 0
	c.History = []Turn{}
	c.MatchScore = nil
	c.EvaluationReason = nil
	c.CandidateSessionID = ""
	c.EmployerSessionID = ""
	c.UpdatedAt = time.Now().UTC()
}
