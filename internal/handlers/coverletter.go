package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/jobkit/jobkit/internal/middleware"
	"github.com/jobkit/jobkit/internal/services"
	"github.com/jobkit/jobkit/pkg/response"
)

type CoverLetterHandler struct {
	coverLetterService *services.CoverLetterService
}

func NewCoverLetterHandler(coverLetterService *services.CoverLetterService) *CoverLetterHandler {
	return &CoverLetterHandler{coverLetterService: coverLetterService}
}

// Generate produces a cover letter draft for a job from the caller's resume
// POST /api/cover-letters
func (h *CoverLetterHandler) Generate(c *gin.Context) {
	var req services.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.coverLetterService.Generate(c.Request.Context(), middleware.GetUserID(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
