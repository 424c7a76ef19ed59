package interview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"zhipin-server/internal/domain/chat"
)

type mockCapability struct {
	sendFunc       func(ctx context.Context, req chat.Request) (*chat.Result, error)
	sendStreamFunc func(ctx context.Context, req chat.Request, onChunk chat.ChunkFunc) (*chat.Result, error)
}

func (m *mockCapability) Send(ctx context.Context, req chat.Request) (*chat.Result, error) {
	if m.sendFunc != nil {
		return m.sendFunc(ctx, req)
	}
	return &chat.Result{Text: "ok"}, nil
}

func (m *mockCapability) SendStream(ctx context.Context, req chat.Request, onChunk chat.ChunkFunc) (*chat.Result, error) {
	if m.sendStreamFunc != nil {
		return m.sendStreamFunc(ctx, req, onChunk)
	}
	return &chat.Result{Text: "ok"}, nil
}

type recordingObserver struct {
	started   []Turn
	deltas    []Turn
	completed []Turn
}

func (r *recordingObserver) OnTurnStarted(t Turn)   { r.started = append(r.started, t) }
func (r *recordingObserver) OnTurnDelta(t Turn)     { r.deltas = append(r.deltas, t) }
func (r *recordingObserver) OnTurnCompleted(t Turn) { r.completed = append(r.completed, t) }

func testConversation() *Conversation {
	return NewConversation("conv_test", "user_1", "job_1", 60)
}

func TestOrchestratorAdvanceFullRun(t *testing.T) {
	var requests []chat.Request
	capability := &mockCapability{
		sendFunc: func(_ context.Context, req chat.Request) (*chat.Result, error) {
			requests = append(requests, req)
			return &chat.Result{
				Text:      fmt.Sprintf("reply %d", len(requests)),
				SessionID: "sess-" + req.Credential,
			}, nil
		},
	}
	orch := NewOrchestrator(capability, zerolog.Nop())

	conv := testConversation()
	err := orch.Advance(context.Background(), RunInput{
		Conversation:        conv,
		CandidateCredential: "cand-token",
		EmployerCredential:  "emp-token",
		CandidatePersona:    "candidate persona",
		EmployerPersona:     "employer persona",
		MaxTurns:            5,
	})
	if err != nil {
		t.Fatalf("Advance returned error: %v", err)
	}

	if conv.Status != StatusCompleted {
		t.Errorf("status = %q, want %q", conv.Status, StatusCompleted)
	}
	if conv.CurrentTurn != 5 || len(conv.History) != 5 {
		t.Fatalf("current turn %d, history %d, want 5/5", conv.CurrentTurn, len(conv.History))
	}

	for i, turn := range conv.History {
		if turn.Turn != i+1 {
			t.Errorf("turn %d numbered %d", i+1, turn.Turn)
		}
		wantRole := RoleCandidate
		if i%2 == 1 {
			wantRole = RoleEmployer
		}
		if turn.Role != wantRole {
			t.Errorf("turn %d role = %q, want %q", i+1, turn.Role, wantRole)
		}
	}

	if requests[0].Message != Opener {
		t.Errorf("first message = %q, want opener", requests[0].Message)
	}
	for i := 1; i < len(requests); i++ {
		if requests[i].Message != conv.History[i-1].Content {
			t.Errorf("request %d message = %q, want previous turn content %q", i+1, requests[i].Message, conv.History[i-1].Content)
		}
	}

	// persona only on each side's first message
	if requests[0].SystemPrompt != "candidate persona" {
		t.Errorf("candidate first request system prompt = %q", requests[0].SystemPrompt)
	}
	if requests[1].SystemPrompt != "employer persona" {
		t.Errorf("employer first request system prompt = %q", requests[1].SystemPrompt)
	}
	for i := 2; i < len(requests); i++ {
		if requests[i].SystemPrompt != "" {
			t.Errorf("request %d carries system prompt %q on an existing session", i+1, requests[i].SystemPrompt)
		}
		if requests[i].SessionID == "" {
			t.Errorf("request %d has no session handle", i+1)
		}
	}

	if conv.CandidateSessionID != "sess-cand-token" {
		t.Errorf("candidate session = %q", conv.CandidateSessionID)
	}
	if conv.EmployerSessionID != "sess-emp-token" {
		t.Errorf("employer session = %q", conv.EmployerSessionID)
	}
}

func TestOrchestratorAdvanceResumesWithoutResending(t *testing.T) {
	conv := testConversation()
	conv.AppendTurn(RoleCandidate, "第一轮内容")
	conv.AppendTurn(RoleEmployer, "第二轮内容")
	conv.CandidateSessionID = "sess-cand"
	conv.EmployerSessionID = "sess-emp"

	var requests []chat.Request
	capability := &mockCapability{
		sendFunc: func(_ context.Context, req chat.Request) (*chat.Result, error) {
			requests = append(requests, req)
			return &chat.Result{Text: "resumed reply"}, nil
		},
	}
	orch := NewOrchestrator(capability, zerolog.Nop())

	if err := orch.Advance(context.Background(), RunInput{Conversation: conv, MaxTurns: 5}); err != nil {
		t.Fatalf("Advance returned error: %v", err)
	}

	if len(requests) != 3 {
		t.Fatalf("resumed run made %d calls, want 3", len(requests))
	}
	if requests[0].Message != "第二轮内容" {
		t.Errorf("resumed first message = %q, want last persisted turn content", requests[0].Message)
	}
	if requests[0].SystemPrompt != "" {
		t.Errorf("resumed run re-sent a persona prompt")
	}
	if conv.History[2].Role != RoleCandidate {
		t.Errorf("resumed turn 3 role = %q, want candidate", conv.History[2].Role)
	}
	if conv.Status != StatusCompleted || conv.CurrentTurn != 5 {
		t.Errorf("resumed run ended status=%q turn=%d", conv.Status, conv.CurrentTurn)
	}
}

func TestOrchestratorAdvanceFailureKeepsCompletedTurns(t *testing.T) {
	calls := 0
	capability := &mockCapability{
		sendFunc: func(_ context.Context, req chat.Request) (*chat.Result, error) {
			calls++
			if calls == 3 {
				return nil, errors.New("upstream timeout")
			}
			return &chat.Result{Text: fmt.Sprintf("reply %d", calls)}, nil
		},
	}
	orch := NewOrchestrator(capability, zerolog.Nop())

	conv := testConversation()
	err := orch.Advance(context.Background(), RunInput{Conversation: conv, MaxTurns: 5})
	if err == nil {
		t.Fatal("expected error from failed third turn")
	}
	if !strings.Contains(err.Error(), "turn 3 (candidate)") {
		t.Errorf("error = %q, want turn and role context", err)
	}

	if conv.Status != StatusPending {
		t.Errorf("status after failure = %q, want pending", conv.Status)
	}
	if len(conv.History) != 2 || conv.CurrentTurn != 2 {
		t.Fatalf("history %d, current turn %d, want 2/2", len(conv.History), conv.CurrentTurn)
	}

	// retry picks up at turn 3 and finishes the run
	if err := orch.Advance(context.Background(), RunInput{Conversation: conv, MaxTurns: 5}); err != nil {
		t.Fatalf("retry returned error: %v", err)
	}
	if conv.Status != StatusCompleted || len(conv.History) != 5 {
		t.Errorf("retry ended status=%q history=%d", conv.Status, len(conv.History))
	}
	if calls != 6 {
		t.Errorf("total calls = %d, want 6 (2 ok, 1 failed, 3 retried)", calls)
	}
}

func TestOrchestratorAdvanceRejectsCorruptHistory(t *testing.T) {
	calls := 0
	capability := &mockCapability{
		sendFunc: func(_ context.Context, req chat.Request) (*chat.Result, error) {
			calls++
			return &chat.Result{Text: "ok"}, nil
		},
	}
	orch := NewOrchestrator(capability, zerolog.Nop())

	t.Run("gap in numbering", func(t *testing.T) {
		conv := testConversation()
		conv.History = []Turn{
			{Turn: 1, Role: RoleCandidate, Content: "a"},
			{Turn: 3, Role: RoleEmployer, Content: "b"},
		}
		conv.CurrentTurn = 2
		err := orch.Advance(context.Background(), RunInput{Conversation: conv, MaxTurns: 5})
		if !errors.Is(err, ErrCorruptHistory) {
			t.Errorf("error = %v, want ErrCorruptHistory", err)
		}
	})

	t.Run("broken alternation", func(t *testing.T) {
		conv := testConversation()
		conv.History = []Turn{
			{Turn: 1, Role: RoleCandidate, Content: "a"},
			{Turn: 2, Role: RoleCandidate, Content: "b"},
		}
		conv.CurrentTurn = 2
		err := orch.Advance(context.Background(), RunInput{Conversation: conv, MaxTurns: 5})
		if !errors.Is(err, ErrCorruptHistory) {
			t.Errorf("error = %v, want ErrCorruptHistory", err)
		}
	})

	if calls != 0 {
		t.Errorf("corrupt history triggered %d chat calls, want 0", calls)
	}
}

func TestOrchestratorAdvanceStreamDeltas(t *testing.T) {
	capability := &mockCapability{
		sendStreamFunc: func(_ context.Context, req chat.Request, onChunk chat.ChunkFunc) (*chat.Result, error) {
			onChunk("你好")
			onChunk("，很高兴")
			return &chat.Result{Text: "你好，很高兴认识你"}, nil
		},
	}
	orch := NewOrchestrator(capability, zerolog.Nop())

	conv := testConversation()
	obs := &recordingObserver{}
	if err := orch.AdvanceStream(context.Background(), RunInput{Conversation: conv, MaxTurns: 2}, obs); err != nil {
		t.Fatalf("AdvanceStream returned error: %v", err)
	}

	if len(obs.started) != 2 || len(obs.completed) != 2 {
		t.Fatalf("observer started=%d completed=%d, want 2/2", len(obs.started), len(obs.completed))
	}
	if len(obs.deltas) != 4 {
		t.Errorf("observer deltas = %d, want 4", len(obs.deltas))
	}
	if obs.deltas[0].Content != "你好" || obs.deltas[1].Content != "你好，很高兴" {
		t.Errorf("deltas did not accumulate: %q, %q", obs.deltas[0].Content, obs.deltas[1].Content)
	}

	// appended turn carries the authoritative final text, not the chunks
	if conv.History[0].Content != "你好，很高兴认识你" {
		t.Errorf("turn 1 content = %q", conv.History[0].Content)
	}
	if obs.completed[0].Content != conv.History[0].Content {
		t.Errorf("completed callback content = %q", obs.completed[0].Content)
	}
}
