package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jobkit/jobkit/internal/middleware"
	"github.com/jobkit/jobkit/internal/services"
	"github.com/jobkit/jobkit/pkg/response"
)

type CompanyHandler struct {
	companyService *services.CompanyService
}

func NewCompanyHandler(companyService *services.CompanyService) *CompanyHandler {
	return &CompanyHandler{companyService: companyService}
}

// GetByID returns a company's public profile
// GET /api/companies/:id
func (h *CompanyHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid company id")
		return
	}

	company, err := h.companyService.Get(uint(id))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, company)
}

// GetMine returns the caller's company
// GET /api/company
func (h *CompanyHandler) GetMine(c *gin.Context) {
	company, err := h.companyService.CompanyForUser(middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, company)
}

// Update edits the caller's company profile
// PUT /api/company
func (h *CompanyHandler) Update(c *gin.Context) {
	var req services.CompanyUpdateRequest
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

	updated, err := h.companyService.Update(company.ID, userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, updated)
}
