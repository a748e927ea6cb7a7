package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/jobkit/jobkit/internal/middleware"
	"github.com/jobkit/jobkit/internal/services"
	"github.com/jobkit/jobkit/pkg/response"
)

type ResumeHandler struct {
	resumeService *services.ResumeService
}

func NewResumeHandler(resumeService *services.ResumeService) *ResumeHandler {
	return &ResumeHandler{resumeService: resumeService}
}

// Get returns the caller's resume, creating an empty one on first access
// GET /api/resume
func (h *ResumeHandler) Get(c *gin.Context) {
	resume, err := h.resumeService.Get(middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, resume)
}

// Preview returns the resume plus the owner's contact details for rendering
// GET /api/resume/preview
func (h *ResumeHandler) Preview(c *gin.Context) {
	preview, err := h.resumeService.Preview(middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, preview)
}

// Update replaces the resume
// PUT /api/resume
func (h *ResumeHandler) Update(c *gin.Context) {
	var req services.ResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resume, err := h.resumeService.Update(middleware.GetUserID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, resume)
}
