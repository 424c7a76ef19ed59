package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"zhipin-server/internal/domain/recommend"
	"zhipin-server/internal/domain/scoring"
	"zhipin-server/internal/domain/talent"
	"zhipin-server/internal/infrastructure/auth"
	"zhipin-server/internal/interfaces/httpserver/dto"
)

// JobHandler exposes HTTP entrypoints for job listings and recommendations.
type JobHandler struct {
	jobs        talent.JobRepository
	profiles    talent.ProfileRepository
	recommender recommend.Service
	maxJobs     int
	log         zerolog.Logger
}

// NewJobHandler constructs the handler.
func NewJobHandler(jobs talent.JobRepository, profiles talent.ProfileRepository, recommender recommend.Service, maxJobs int, log zerolog.Logger) *JobHandler {
	return &JobHandler{
		jobs:        jobs,
		profiles:    profiles,
		recommender: recommender,
		maxJobs:     maxJobs,
		log:         log.With().Str("handler", "job").Logger(),
	}
}

// List handles GET /v1/jobs
// @Summary List open jobs
// @Tags Jobs
// @Produce json
// @Param limit query int false "Maximum results"
// @Success 200 {object} map[string]interface{}
// @Router /v1/jobs [get]
func (h *JobHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	jobs, err := h.jobs.ListOpen(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// When the caller has a candidate profile every listing carries its
	// heuristic score; anonymous listings carry none.
	var profile *talent.CandidateProfile
	if userID := auth.UserID(c); userID != "" {
		profile, _ = h.profiles.FindByUserID(c.Request.Context(), userID)
	}

	payloads := make([]dto.JobPayload, len(jobs))
	for i, job := range jobs {
		payloads[i] = dto.FromJob(job)
		if profile != nil {
			score := scoring.MatchScore(profile, job)
			payloads[i].Score = &score
		}
	}
	c.JSON(http.StatusOK, gin.H{"data": payloads})
}

// Get handles GET /v1/jobs/:job_id
// @Summary Get a job by ID
// @Tags Jobs
// @Produce json
// @Param job_id path string true "Job ID"
// @Success 200 {object} dto.JobPayload
// @Failure 404 {object} map[string]string
// @Router /v1/jobs/{job_id} [get]
func (h *JobHandler) Get(c *gin.Context) {
	job, err := h.jobs.FindByPublicID(c.Request.Context(), c.Param("job_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.FromJob(job))
}

// Recommendations handles GET /v1/jobs/recommendations
// @Summary Rank open jobs for the acting candidate
// @Description Scores open jobs against the candidate profile. With auto=true each ranked job also gets a conversation and a queued background interview.
// @Tags Jobs
// @Produce json
// @Param auto query bool false "Queue background interviews"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /v1/jobs/recommendations [get]
func (h *JobHandler) Recommendations(c *gin.Context) {
	userID := auth.UserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing user identity"})
		return
	}

	autoStart, _ := strconv.ParseBool(c.Query("auto"))
	recs, err := h.recommender.Recommend(c.Request.Context(), userID, h.maxJobs, autoStart)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": dto.FromRecommendations(recs)})
}
