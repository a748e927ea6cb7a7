package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jobkit/jobkit/internal/middleware"
	"github.com/jobkit/jobkit/internal/services"
	"github.com/jobkit/jobkit/pkg/response"
)

type InterviewHandler struct {
	interviewService *services.InterviewService
	companyService   *services.CompanyService
}

func NewInterviewHandler(interviewService *services.InterviewService, companyService *services.CompanyService) *InterviewHandler {
	return &InterviewHandler{interviewService: interviewService, companyService: companyService}
}

// Schedule books an interview on an application
// POST /api/company/interviews
func (h *InterviewHandler) Schedule(c *gin.Context) {
	var req services.ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	interview, err := h.interviewService.Schedule(middleware.GetUserID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, interview)
}

type interviewStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus marks an interview completed or canceled
// PUT /api/interviews/:id/status
func (h *InterviewHandler) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid interview id")
		return
	}

	var req interviewStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	interview, err := h.interviewService.UpdateStatus(uint(id), middleware.GetUserID(c), req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, interview)
}

// ListForCompany returns the caller's company interviews
// GET /api/company/interviews
func (h *InterviewHandler) ListForCompany(c *gin.Context) {
	userID := middleware.GetUserID(c)
	company, err := h.companyService.CompanyForUser(userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	interviews, err := h.interviewService.ListForCompany(company.ID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, interviews)
}

// ListMine returns the caller's interviews as an applicant
// GET /api/interviews
func (h *InterviewHandler) ListMine(c *gin.Context) {
	interviews, err := h.interviewService.ListForApplicant(middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, interviews)
}
