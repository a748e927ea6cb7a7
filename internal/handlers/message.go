package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jobkit/jobkit/internal/middleware"
	"github.com/jobkit/jobkit/internal/services"
	"github.com/jobkit/jobkit/pkg/response"
)

type MessageHandler struct {
	messagingService *services.MessagingService
	companyService   *services.CompanyService
}

func NewMessageHandler(messagingService *services.MessagingService, companyService *services.CompanyService) *MessageHandler {
	return &MessageHandler{messagingService: messagingService, companyService: companyService}
}

// callerCompanyID resolves the caller's company id for company-side accounts.
// Seekers get nil.
func (h *MessageHandler) callerCompanyID(c *gin.Context) *uint {
	if middleware.GetKind(c) != "company" {
		return nil
	}
	company, err := h.companyService.CompanyForUser(middleware.GetUserID(c))
	if err != nil {
		return nil
	}
	return &company.ID
}

// OpenThread finds or creates the conversation for a (company, applicant,
// job) tuple
// POST /api/messages/threads
func (h *MessageHandler) OpenThread(c *gin.Context) {
	var req services.ThreadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	callerID := middleware.GetUserID(c)
	seedFromApplicant := middleware.GetKind(c) == "seeker"

	result, err := h.messagingService.GetOrCreateThread(callerID, &req, seedFromApplicant)
	if err != nil {
		response.Error(c, err)
		return
	}

	if result.Created {
		response.Created(c, result)
		return
	}
	response.Success(c, result)
}

// ListThreads returns the caller's conversations, most recent first
// GET /api/messages/threads
func (h *MessageHandler) ListThreads(c *gin.Context) {
	threads, err := h.messagingService.ListThreads(middleware.GetUserID(c), h.callerCompanyID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, threads)
}

// ListMessages pages through one thread's messages
// GET /api/messages/threads/:id
func (h *MessageHandler) ListMessages(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid thread id")
		return
	}

	var req services.MessageListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.messagingService.ListMessages(middleware.GetUserID(c), uint(id), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, resp)
}

// Send appends a message to a thread
// POST /api/messages/threads/:id
func (h *MessageHandler) Send(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid thread id")
		return
	}

	var req services.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	msg, err := h.messagingService.SendMessage(middleware.GetUserID(c), uint(id), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, msg)
}

// Stats returns thread counts for the caller
// GET /api/messages/stats
func (h *MessageHandler) Stats(c *gin.Context) {
	stats, err := h.messagingService.Stats(middleware.GetUserID(c), h.callerCompanyID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, stats)
}
