package interview

import (
	"context"
	"encoding/json"
	"regexp"

	"github.com/rs/zerolog"

	"zhipin-server/internal/domain/chat"
)

// Evaluation is the structured verdict parsed out of the model's free-text
// output. Only Score and Reason are copied onto the conversation.
type Evaluation struct {
	Score      int      `json:"score"`
	Reason     string   `json:"reason"`
	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`
}

// fallbackEvaluation is returned when no JSON block can be parsed from the
// model output. Evaluation must always produce a score once a conversation
// completes, so parse failures degrade instead of propagating.
func fallbackEvaluation() Evaluation {
	return Evaluation{
		Score:      50,
		Reason:     "评估解析失败",
		Strengths:  []string{},
		Weaknesses: []string{},
	}
}

// jsonBlockPattern grabs the first {...} region of the output. The model is
// instructed to return only JSON but routinely wraps it in prose; this is a
// deliberate boundary heuristic, isolated here so it can be swapped for
// structured output if the provider ever supports it.
var jsonBlockPattern = regexp.MustCompile(`(?s)\{.*\}`)

// Evaluator scores a completed transcript with one blocking chat call.
type Evaluator struct {
	capability chat.Capability
	log        zerolog.Logger
}

// NewEvaluator builds the evaluator.
func NewEvaluator(capability chat.Capability, log zerolog.Logger) *Evaluator {
	return &Evaluator{
		capability: capability,
		log:        log.With().Str("component", "interview-evaluator").Logger(),
	}
}

// Evaluate sends the evaluation prompt on a fresh session using the
// candidate's credential and parses the verdict. An error is only returned
// when the chat call itself fails; unparseable output yields the degraded
// fallback result.
func (e *Evaluator) Evaluate(ctx context.Context, credential, prompt string) (Evaluation, error) {
	result, err := e.capability.Send(ctx, chat.Request{
		Credential: credential,
		Message:    prompt,
	})
	if err != nil {
		return Evaluation{}, err
	}
	return e.parse(result.Text), nil
}

func (e *Evaluator) parse(text string) Evaluation {
	block := jsonBlockPattern.FindString(text)
	if block == "" {
		e.log.Warn().Msg("no JSON block in evaluation output")
		return fallbackEvaluation()
	}

	var eval Evaluation
	if err := json.Unmarshal([]byte(block), &eval); err != nil {
		e.log.Warn().Err(err).Msg("unparseable evaluation output")
		return fallbackEvaluation()
	}

	if eval.Score < 0 {
		eval.Score = 0
	}
	if eval.Score > 100 {
		eval.Score = 100
	}
	if eval.Strengths == nil {
		eval.Strengths = []string{}
	}
	if eval.Weaknesses == nil {
		eval.Weaknesses = []string{}
	}
	return eval
}
