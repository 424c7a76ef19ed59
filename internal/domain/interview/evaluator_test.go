package interview

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"zhipin-server/internal/domain/chat"
)

func TestEvaluatorParsesWrappedJSON(t *testing.T) {
	capability := &mockCapability{
		sendFunc: func(_ context.Context, req chat.Request) (*chat.Result, error) {
			if req.SessionID != "" {
				t.Errorf("evaluation reused session %q, want fresh session", req.SessionID)
			}
			return &chat.Result{Text: "好的，这是评估结果：\n" + `{
  "score": 82,
  "reason": "技能高度匹配",
  "strengths": ["技能匹配", "经验相关"],
  "weaknesses": ["城市不符"]
}` + "\n希望对你有帮助。"}, nil
		},
	}
	ev := NewEvaluator(capability, zerolog.Nop())

	eval, err := ev.Evaluate(context.Background(), "token", "prompt")
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if eval.Score != 82 {
		t.Errorf("score = %d, want 82", eval.Score)
	}
	if eval.Reason != "技能高度匹配" {
		t.Errorf("reason = %q", eval.Reason)
	}
	if len(eval.Strengths) != 2 || len(eval.Weaknesses) != 1 {
		t.Errorf("strengths=%v weaknesses=%v", eval.Strengths, eval.Weaknesses)
	}
}

func TestEvaluatorClampsScore(t *testing.T) {
	cases := []struct {
		name string
		body string
		want int
	}{
		{"above range", `{"score": 140, "reason": "x"}`, 100},
		{"below range", `{"score": -5, "reason": "x"}`, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			capability := &mockCapability{
				sendFunc: func(_ context.Context, _ chat.Request) (*chat.Result, error) {
					return &chat.Result{Text: tc.body}, nil
				},
			}
			ev := NewEvaluator(capability, zerolog.Nop())
			eval, err := ev.Evaluate(context.Background(), "token", "prompt")
			if err != nil {
				t.Fatalf("Evaluate returned error: %v", err)
			}
			if eval.Score != tc.want {
				t.Errorf("score = %d, want %d", eval.Score, tc.want)
			}
		})
	}
}

func TestEvaluatorFallsBackOnUnparseableOutput(t *testing.T) {
	for _, text := range []string{
		"这个候选人很不错，大概八十分吧。",
		`{"score": "not a number"}`,
		"",
	} {
		capability := &mockCapability{
			sendFunc: func(_ context.Context, _ chat.Request) (*chat.Result, error) {
				return &chat.Result{Text: text}, nil
			},
		}
		ev := NewEvaluator(capability, zerolog.Nop())
		eval, err := ev.Evaluate(context.Background(), "token", "prompt")
		if err != nil {
			t.Fatalf("Evaluate(%q) returned error: %v", text, err)
		}
		if eval.Score != 50 || eval.Reason != "评估解析失败" {
			t.Errorf("Evaluate(%q) = %d/%q, want degraded fallback", text, eval.Score, eval.Reason)
		}
		if eval.Strengths == nil || eval.Weaknesses == nil {
			t.Errorf("fallback returned nil slices")
		}
	}
}

func TestEvaluatorPropagatesChatFailure(t *testing.T) {
	wantErr := errors.New("provider unavailable")
	capability := &mockCapability{
		sendFunc: func(_ context.Context, _ chat.Request) (*chat.Result, error) {
			return nil, wantErr
		},
	}
	ev := NewEvaluator(capability, zerolog.Nop())
	if _, err := ev.Evaluate(context.Background(), "token", "prompt"); !errors.Is(err, wantErr) {
		t.Errorf("error = %v, want chat failure", err)
	}
}
