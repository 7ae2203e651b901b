package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/talentgate/recruitmatch/internal/services"
	"github.com/talentgate/recruitmatch/internal/utils"
)

type JobHandler struct {
	svc services.ProfileService
}

func NewJobHandler(svc services.ProfileService) *JobHandler {
	return &JobHandler{svc: svc}
}

type CreateJobRequest struct {
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	RequiredSkills     []string `json:"required_skills"`
	RequiredExperience int      `json:"required_experience"`
}

func (h *JobHandler) Create(c *gin.Context) {
	employerID, ok := requireEmployerID(c)
	if !ok {
		return
	}

	var req CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "JobHandler.Create", "invalid request body", err))
		return
	}

	job, err := h.svc.CreateJob(c.Request.Context(), employerID, services.CreateJobInput{
		Title:              req.Title,
		Description:        req.Description,
		RequiredSkills:     req.RequiredSkills,
		RequiredExperience: req.RequiredExperience,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, job)
}

func (h *JobHandler) List(c *gin.Context) {
	employerID, ok := requireEmployerID(c)
	if !ok {
		return
	}

	jobs, err := h.svc.ListJobs(c.Request.Context(), employerID, queryInt(c, "page", 1), queryInt(c, "limit", 20))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": jobs})
}

func (h *JobHandler) Get(c *gin.Context) {
	employerID, ok := requireEmployerID(c)
	if !ok {
		return
	}

	job, err := h.svc.GetJobOwned(c.Request.Context(), employerID, c.Param("id"), isAdmin(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

type UpdateJobRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (h *JobHandler) Update(c *gin.Context) {
	employerID, ok := requireEmployerID(c)
	if !ok {
		return
	}

	var req UpdateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "JobHandler.Update", "invalid request body", err))
		return
	}
	if req.Title == nil && req.Description == nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "JobHandler.Update", "no fields to update", nil))
		return
	}

	job, err := h.svc.UpdateJob(c.Request.Context(), employerID, c.Param("id"), services.UpdateJobInput{
		Title:       req.Title,
		Description: req.Description,
	}, isAdmin(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *JobHandler) Delete(c *gin.Context) {
	employerID, ok := requireEmployerID(c)
	if !ok {
		return
	}

	if err := h.svc.DeleteJob(c.Request.Context(), employerID, c.Param("id"), isAdmin(c)); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "job deleted"})
}
