package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/jobkit/jobkit/internal/services"
	"github.com/jobkit/jobkit/pkg/response"
)

type MediaHandler struct {
	mediaService *services.MediaService
}

func NewMediaHandler(mediaService *services.MediaService) *MediaHandler {
	return &MediaHandler{mediaService: mediaService}
}

// Upload forwards a file to the media host
// POST /api/media
func (h *MediaHandler) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file field required")
		return
	}

	result, err := h.mediaService.Upload(header)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Delete removes a previously uploaded file
// DELETE /api/media/:id
func (h *MediaHandler) Delete(c *gin.Context) {
	if err := h.mediaService.Delete(c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"message": "media deleted"})
}
