package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jobkit/jobkit/internal/middleware"
	"github.com/jobkit/jobkit/internal/services"
	"github.com/jobkit/jobkit/pkg/response"
)

type JobHandler struct {
	jobService     *services.JobService
	companyService *services.CompanyService
}

func NewJobHandler(jobService *services.JobService, companyService *services.CompanyService) *JobHandler {
	return &JobHandler{jobService: jobService, companyService: companyService}
}

// List returns open jobs with filters
// GET /api/jobs
func (h *JobHandler) List(c *gin.Context) {
	var req services.JobListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.jobService.List(&req, false)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, resp)
}

// GetByID returns one job
// GET /api/jobs/:id
func (h *JobHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid job id")
		return
	}

	job, err := h.jobService.Get(uint(id))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, job)
}

// Create posts a job for the caller's company
// POST /api/company/jobs
func (h *JobHandler) Create(c *gin.Context) {
	var req services.JobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	company, err := h.companyService.CompanyForUser(userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	job, err := h.jobService.Create(company.ID, userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, job)
}

// Update edits a job
// PUT /api/company/jobs/:id
func (h *JobHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid job id")
		return
	}

	var req services.JobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	job, err := h.jobService.Update(uint(id), middleware.GetUserID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, job)
}

// Delete removes a job
// DELETE /api/company/jobs/:id
func (h *JobHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid job id")
		return
	}

	if err := h.jobService.Delete(uint(id), middleware.GetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"message": "job deleted"})
}

// ListForCompany returns the caller's company jobs across all statuses
// GET /api/company/jobs
func (h *JobHandler) ListForCompany(c *gin.Context) {
	var req services.JobListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	company, err := h.companyService.CompanyForUser(middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	resp, err := h.jobService.ListForCompany(company.ID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, resp)
}
