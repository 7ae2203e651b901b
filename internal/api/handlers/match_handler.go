package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/talentgate/recruitmatch/internal/models"
	"github.com/talentgate/recruitmatch/internal/services"
	"github.com/talentgate/recruitmatch/internal/utils"
	"github.com/talentgate/recruitmatch/internal/visibility"
)

type MatchHandler struct {
	matches  services.MatchService
	profiles services.ProfileService
	unlocks  services.UnlockService
}

func NewMatchHandler(matches services.MatchService, profiles services.ProfileService, unlocks services.UnlockService) *MatchHandler {
	return &MatchHandler{matches: matches, profiles: profiles, unlocks: unlocks}
}

type InstantMatchRequest struct {
	Text string `json:"text"`
}

// Instant is the anonymous teaser: paste a job description, get a count and
// a capped coarse preview. Never writes match state.
func (h *MatchHandler) Instant(c *gin.Context) {
	var req InstantMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "MatchHandler.Instant", "invalid request body", err))
		return
	}

	res, err := h.matches.MatchText(c.Request.Context(), req.Text, models.KindCandidate, services.MatchOptions{
		Page:     1,
		PageSize: visibility.PreviewCap,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, visibility.Preview(res))
}

// Quick matches pasted CV text against stored job postings.
func (h *MatchHandler) Quick(c *gin.Context) {
	var req InstantMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "MatchHandler.Quick", "invalid request body", err))
		return
	}

	res, err := h.matches.MatchText(c.Request.Context(), req.Text, models.KindJob, services.MatchOptions{
		K:          10,
		ScoreFloor: 40,
		Page:       1,
		PageSize:   10,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, visibility.Jobs(res))
}

// Count is the free tier: total matching candidates and score bands only.
func (h *MatchHandler) Count(c *gin.Context) {
	res, err := h.matches.CountForJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Detailed is the paid tier: full ranked page, persisted match records,
// per-candidate masking until unlocked.
func (h *MatchHandler) Detailed(c *gin.Context) {
	employerID, ok := requireEmployerID(c)
	if !ok {
		return
	}

	jobID := c.Param("id")
	if _, err := h.profiles.GetJobOwned(c.Request.Context(), employerID, jobID, isAdmin(c)); err != nil {
		writeError(c, err)
		return
	}

	res, err := h.matches.MatchForJob(c.Request.Context(), jobID, services.MatchOptions{
		SimilarityFloor: queryFloat(c, "min_similarity", 0),
		ScoreFloor:      queryInt(c, "min_score", 0),
		Page:            queryInt(c, "page", 1),
		PageSize:        queryInt(c, "limit", 20),
		Detailed:        true,
		Persist:         true,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	unlocked, err := h.unlocks.UnlockedCandidateIDs(c.Request.Context(), employerID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, visibility.Page(jobID, res, unlocked))
}
