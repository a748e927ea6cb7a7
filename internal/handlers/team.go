package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jobkit/jobkit/internal/middleware"
	"github.com/jobkit/jobkit/internal/models"
	"github.com/jobkit/jobkit/internal/services"
	"github.com/jobkit/jobkit/pkg/response"
)

type TeamHandler struct {
	teamService    *services.TeamService
	companyService *services.CompanyService
}

func NewTeamHandler(teamService *services.TeamService, companyService *services.CompanyService) *TeamHandler {
	return &TeamHandler{teamService: teamService, companyService: companyService}
}

// company resolves the caller's company and checks the manageTeam capability
// when manage is set.
func (h *TeamHandler) company(c *gin.Context, manage bool) (*models.Company, bool) {
	userID := middleware.GetUserID(c)
	company, err := h.companyService.CompanyForUser(userID)
	if err != nil {
		response.Error(c, err)
		return nil, false
	}
	if manage {
		if err := h.teamService.Can(company.ID, userID, func(p models.Permissions) bool { return p.ManageTeam }); err != nil {
			response.Error(c, err)
			return nil, false
		}
	}
	return company, true
}

// List returns the company's team members
// GET /api/company/team
func (h *TeamHandler) List(c *gin.Context) {
	company, ok := h.company(c, false)
	if !ok {
		return
	}

	members, err := h.teamService.List(company.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, members)
}

// Invite adds a PENDING member
// POST /api/company/team/invites
func (h *TeamHandler) Invite(c *gin.Context) {
	var req services.InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	company, ok := h.company(c, true)
	if !ok {
		return
	}

	member, err := h.teamService.Invite(company.ID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, member)
}

// Update changes a member's role or capability overrides
// PUT /api/company/team/:id
func (h *TeamHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid member id")
		return
	}

	var req services.UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	company, ok := h.company(c, true)
	if !ok {
		return
	}

	member, err := h.teamService.Update(company.ID, uint(id), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, member)
}

// Remove deletes a member
// DELETE /api/company/team/:id
func (h *TeamHandler) Remove(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid member id")
		return
	}

	company, ok := h.company(c, true)
	if !ok {
		return
	}

	if err := h.teamService.Remove(company.ID, uint(id)); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"message": "member removed"})
}

type inviteDecisionRequest struct {
	Token string `json:"token" binding:"required"`
}

// AcceptInvite accepts a pending invitation by token
// POST /api/team/invites/accept
func (h *TeamHandler) AcceptInvite(c *gin.Context) {
	var req inviteDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	member, err := h.teamService.Accept(req.Token, middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, member)
}

// RejectInvite declines a pending invitation by token
// POST /api/team/invites/reject
func (h *TeamHandler) RejectInvite(c *gin.Context) {
	var req inviteDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.teamService.Reject(req.Token); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"message": "invitation declined"})
}
