package interview

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"zhipin-server/internal/domain/chat"
)

// DefaultMaxTurns is the number of alternating turns in a full run.
const DefaultMaxTurns = 5

// RunInput carries everything one advance needs. The orchestrator mutates
// Conversation in place; the caller owns persistence.
type RunInput struct {
	Conversation        *Conversation
	CandidateCredential string
	EmployerCredential  string
	CandidatePersona    string
	EmployerPersona     string
	MaxTurns            int
}

// TurnObserver receives progress while a run is advancing. OnTurnDelta may
// fire many times per turn with the provisional content so far; the turn
// passed to OnTurnCompleted is authoritative and already appended.
type TurnObserver interface {
	OnTurnStarted(t Turn)
	OnTurnDelta(t Turn)
	OnTurnCompleted(t Turn)
}

// Orchestrator drives the alternating candidate/employer exchange. Each
// turn's request body is the previous turn's content, so turns are strictly
// sequential; failures abort immediately and leave every appended turn in
// place for a later resume.
type Orchestrator struct {
	capability chat.Capability
	log        zerolog.Logger
}

// NewOrchestrator builds the orchestrator.
func NewOrchestrator(capability chat.Capability, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		capability: capability,
		log:        log.With().Str("component", "interview-orchestrator").Logger(),
	}
}

// Advance runs the conversation forward until MaxTurns is reached or a chat
// call fails. Safe to re-enter with a partially filled transcript: it picks
// up at the next expected role and never re-sends a completed turn.
func (o *Orchestrator) Advance(ctx context.Context, in RunInput) error {
	return o.advance(ctx, in, nil)
}

// AdvanceStream is Advance with per-chunk observer callbacks for live UIs.
// Turn records are only appended once the underlying call completes; the
// final returned text overwrites any partially accumulated content.
func (o *Orchestrator) AdvanceStream(ctx context.Context, in RunInput, obs TurnObserver) error {
	return o.advance(ctx, in, obs)
}

func (o *Orchestrator) advance(ctx context.Context, in RunInput, obs TurnObserver) error {
	conv := in.Conversation
	maxTurns := in.MaxTurns
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}

	state, err := conv.TurnStateFor(maxTurns)
	if err != nil {
		return err
	}

	for !state.Done() {
		message := Opener
		if last := conv.LastTurn(); last != nil {
			message = last.Content
		}

		result, err := o.sendTurn(ctx, in, state.NextRole, len(conv.History)+1, message, obs)
		if err != nil {
			o.log.Warn().Err(err).
				Str("conversation_id", conv.PublicID).
				Int("turn", len(conv.History)+1).
				Str("role", string(state.NextRole)).
				Msg("interview turn failed")
			return fmt.Errorf("turn %d (%s): %w", len(conv.History)+1, state.NextRole, err)
		}

		turn := conv.AppendTurn(state.NextRole, result.Text)
		o.rememberSession(conv, state.NextRole, result.SessionID)
		if obs != nil {
			obs.OnTurnCompleted(turn)
		}

		state = TurnState{
			NextRole:       state.NextRole.Other(),
			TurnsRemaining: maxTurns - len(conv.History),
		}
	}

	if conv.CurrentTurn >= maxTurns {
		conv.Status = StatusCompleted
	}
	return nil
}

// sendTurn issues one chat call for the given role. The persona prompt is
// only attached on the first message of that party's session; an existing
// session already carries it.
func (o *Orchestrator) sendTurn(ctx context.Context, in RunInput, role Role, turnNumber int, message string, obs TurnObserver) (*chat.Result, error) {
	req := chat.Request{Message: message}
	switch role {
	case RoleCandidate:
		req.Credential = in.CandidateCredential
		req.SessionID = in.Conversation.CandidateSessionID
		if req.SessionID == "" {
			req.SystemPrompt = in.CandidatePersona
		}
	case RoleEmployer:
		req.Credential = in.EmployerCredential
		req.SessionID = in.Conversation.EmployerSessionID
		if req.SessionID == "" {
			req.SystemPrompt = in.EmployerPersona
		}
	}

	if obs == nil {
		return o.capability.Send(ctx, req)
	}

	provisional := Turn{Turn: turnNumber, Role: role}
	obs.OnTurnStarted(provisional)
	return o.capability.SendStream(ctx, req, func(chunk string) {
		provisional.Content += chunk
		obs.OnTurnDelta(provisional)
	})
}

func (o *Orchestrator) rememberSession(conv *Conversation, role Role, sessionID string) {
	if sessionID == "" {
		return
	}
	switch role {
	case RoleCandidate:
		conv.CandidateSessionID = sessionID
	case RoleEmployer:
		conv.EmployerSessionID = sessionID
	}
}
