package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"zhipin-server/internal/domain/interview"
	"zhipin-server/internal/infrastructure/auth"
	"zhipin-server/internal/infrastructure/metrics"
	"zhipin-server/internal/infrastructure/observability"
	"zhipin-server/internal/interfaces/httpserver/dto"
)

// InterviewHandler exposes HTTP entrypoints for AI interview conversations.
type InterviewHandler struct {
	service interview.Service
	log     zerolog.Logger
}

// NewInterviewHandler constructs the handler.
func NewInterviewHandler(service interview.Service, log zerolog.Logger) *InterviewHandler {
	return &InterviewHandler{
		service: service,
		log:     log.With().Str("handler", "interview").Logger(),
	}
}

// Create handles POST /v1/interviews
// @Summary Create an interview conversation
// @Description Returns the single conversation for the acting candidate and job, creating it when absent.
// @Tags Interviews
// @Accept json
// @Produce json
// @Param request body dto.CreateInterviewRequest true "Create request"
// @Success 200 {object} dto.ConversationPayload
// @Failure 400 {object} map[string]string
// @Router /v1/interviews [post]
func (h *InterviewHandler) Create(c *gin.Context) {
	var req dto.CreateInterviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := auth.UserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing user identity"})
		return
	}

	conv, err := h.service.CreateOrGet(c.Request.Context(), userID, req.JobID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromConversation(conv))
}

// Get handles GET /v1/interviews/:conversation_id
// @Summary Get an interview conversation
// @Tags Interviews
// @Produce json
// @Param conversation_id path string true "Conversation ID"
// @Success 200 {object} dto.ConversationPayload
// @Failure 404 {object} map[string]string
// @Router /v1/interviews/{conversation_id} [get]
func (h *InterviewHandler) Get(c *gin.Context) {
	conv, err := h.service.Get(c.Request.Context(), c.Param("conversation_id"), auth.UserID(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromConversation(conv))
}

// Auto handles GET /v1/interviews/:conversation_id/auto
// @Summary Run the interview to completion, streaming progress
// @Description Advances the candidate/employer exchange to the configured turn count and streams turns, progress and the final score as server-sent events.
// @Tags Interviews
// @Produce text/event-stream
// @Param conversation_id path string true "Conversation ID"
// @Success 200 {string} string "SSE stream"
// @Router /v1/interviews/{conversation_id}/auto [get]
func (h *InterviewHandler) Auto(c *gin.Context) {
	writer := c.Writer
	flusher, ok := writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming not supported"})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	observer := newSSEObserver(writer, flusher, h.log)
	userID := auth.UserID(c)
	conversationID := c.Param("conversation_id")

	// Replay turns persisted by earlier partial runs so reconnecting
	// clients see the full transcript before new turns stream in.
	conv, err := h.service.Get(c.Request.Context(), conversationID, userID)
	if err != nil {
		observer.SendError(err)
		return
	}
	for _, turn := range conv.History {
		observer.sendTurnMessage(turn, false)
	}

	outcome, err := h.service.RunAuto(c.Request.Context(), conversationID, userID, observer)
	if err != nil {
		observer.SendError(err)
		return
	}
	observer.SendScore(outcome)
}

// Evaluate handles POST /v1/interviews/:conversation_id/evaluate
// @Summary Evaluate a completed interview
// @Description Scores the completed transcript against the job and records a match when the score clears the threshold. Candidate-only.
// @Tags Interviews
// @Produce json
// @Param conversation_id path string true "Conversation ID"
// @Success 200 {object} interview.EvaluationOutcome
// @Failure 400 {object} map[string]string
// @Router /v1/interviews/{conversation_id}/evaluate [post]
func (h *InterviewHandler) Evaluate(c *gin.Context) {
	conversationID := c.Param("conversation_id")
	ctx, span := observability.StartEvaluationSpan(c.Request.Context(), conversationID)
	defer span.End()

	outcome, err := h.service.Evaluate(ctx, conversationID, auth.UserID(c))
	if err != nil {
		observability.RecordError(span, err)
		h.respondError(c, err)
		return
	}
	metrics.RecordEvaluation(evaluationOutcomeLabel(outcome.IsMatched))
	c.JSON(http.StatusOK, outcome)
}

func evaluationOutcomeLabel(matched bool) string {
	if matched {
		return "matched"
	}
	return "not_matched"
}

// Reset handles POST /v1/interviews/:conversation_id/reset
// @Summary Reset an interview conversation
// @Description Clears the transcript, sessions and evaluation so the run can start over.
// @Tags Interviews
// @Produce json
// @Param conversation_id path string true "Conversation ID"
// @Success 200 {object} dto.ConversationPayload
// @Failure 404 {object} map[string]string
// @Router /v1/interviews/{conversation_id}/reset [post]
func (h *InterviewHandler) Reset(c *gin.Context) {
	userID := auth.UserID(c)
	if err := h.service.Reset(c.Request.Context(), c.Param("conversation_id"), userID); err != nil {
		h.respondError(c, err)
		return
	}
	conv, err := h.service.Get(c.Request.Context(), c.Param("conversation_id"), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromConversation(conv))
}

func (h *InterviewHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, interview.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, interview.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, interview.ErrNoCredential):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, interview.ErrProfileRequired), errors.Is(err, interview.ErrNotCompleted):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

type sseObserver struct {
	writer  http.ResponseWriter
	flusher http.Flusher
	log     zerolog.Logger
	mu      sync.Mutex
}

func newSSEObserver(w http.ResponseWriter, flusher http.Flusher, log zerolog.Logger) *sseObserver {
	return &sseObserver{
		writer:  w,
		flusher: flusher,
		log:     log,
	}
}

func (o *sseObserver) OnTurnStarted(t interview.Turn) {
	o.sendEvent("progress", map[string]interface{}{
		"turn": t.Turn,
		"role": string(t.Role),
	})
}

func (o *sseObserver) OnTurnDelta(t interview.Turn) {
	o.sendTurnMessage(t, true)
}

func (o *sseObserver) OnTurnCompleted(t interview.Turn) {
	metrics.RecordInterviewTurn(string(t.Role), "completed")
	o.sendTurnMessage(t, false)
}

func (o *sseObserver) sendTurnMessage(t interview.Turn, partial bool) {
	o.sendEvent("message", map[string]interface{}{
		"turn":    t.Turn,
		"role":    string(t.Role),
		"content": t.Content,
		"partial": partial,
	})
}

func (o *sseObserver) SendScore(outcome *interview.RunOutcome) {
	payload := map[string]interface{}{
		"conversation": dto.FromConversation(outcome.Conversation),
		"is_matched":   outcome.Matched,
	}
	if outcome.Evaluation != nil {
		payload["score"] = outcome.Evaluation.Score
		payload["reason"] = outcome.Evaluation.Reason
	}
	o.sendEvent("score", payload)
}

func (o *sseObserver) SendError(err error) {
	o.sendEvent("error", map[string]string{
		"message": err.Error(),
	})
}

func (o *sseObserver) sendEvent(name string, payload interface{}) {
	o.mu.Lock()
	defer o.mu.Unlock()

	data, err := json.Marshal(payload)
	if err != nil {
		o.log.Error().Err(err).Msg("marshal SSE payload")
		return
	}

	fmt.Fprintf(o.writer, "event: %s\n", name)
	fmt.Fprintf(o.writer, "data: %s\n\n", data)
	o.flusher.Flush()
}
