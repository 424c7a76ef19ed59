package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"zhipin-server/internal/domain/talent"
	"zhipin-server/internal/infrastructure/auth"
	"zhipin-server/internal/interfaces/httpserver/dto"
)

// MatchHandler exposes HTTP entrypoints for like/pass decisions.
type MatchHandler struct {
	matches talent.MatchRepository
	log     zerolog.Logger
}

// NewMatchHandler constructs the handler.
func NewMatchHandler(matches talent.MatchRepository, log zerolog.Logger) *MatchHandler {
	return &MatchHandler{
		matches: matches,
		log:     log.With().Str("handler", "match").Logger(),
	}
}

// Create handles POST /v1/matches
// @Summary Record a like/pass decision for a job
// @Description Records the acting candidate's decision. Manual likes never unlock contact details; only a passing AI evaluation does.
// @Tags Matches
// @Accept json
// @Produce json
// @Param request body dto.MatchDecisionRequest true "Decision"
// @Success 200 {object} dto.MatchPayload
// @Failure 400 {object} map[string]string
// @Router /v1/matches [post]
func (h *MatchHandler) Create(c *gin.Context) {
	var req dto.MatchDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := auth.UserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing user identity"})
		return
	}

	// An unlock earned through AI evaluation survives manual re-decisions.
	unlocked := false
	if existing, err := h.matches.FindByUserAndJob(c.Request.Context(), userID, req.JobID); err == nil && existing != nil {
		unlocked = existing.Unlocked
	}

	match, err := h.matches.Upsert(c.Request.Context(), userID, req.JobID, talent.MatchStatus(req.Status), unlocked)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.FromMatch(match))
}

// Get handles GET /v1/matches/:job_id
// @Summary Get the acting candidate's decision for a job
// @Tags Matches
// @Produce json
// @Param job_id path string true "Job ID"
// @Success 200 {object} dto.MatchPayload
// @Failure 404 {object} map[string]string
// @Router /v1/matches/{job_id} [get]
func (h *MatchHandler) Get(c *gin.Context) {
	userID := auth.UserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing user identity"})
		return
	}

	match, err := h.matches.FindByUserAndJob(c.Request.Context(), userID, c.Param("job_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.FromMatch(match))
}
