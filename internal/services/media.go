package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/jobkit/jobkit/internal/config"
	"github.com/jobkit/jobkit/pkg/response"
)

// allowedMediaTypes is the MIME allow-list for uploads: images and PDF only.
var allowedMediaTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"application/pdf": true,
}

type MediaService struct {
	config *config.MediaConfig
	client *http.Client
}

func NewMediaService(cfg *config.MediaConfig) *MediaService {
	return &MediaService{
		config: cfg,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

type UploadResult struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Upload validates the file and forwards it to the media host.
func (s *MediaService) Upload(header *multipart.FileHeader) (*UploadResult, error) {
	maxSize := int64(s.config.MaxSizeMB) * 1024 * 1024
	if header.Size > maxSize {
		return nil, response.NewBadRequest(fmt.Sprintf("file exceeds the %dMB limit", s.config.MaxSizeMB))
	}

	contentType := header.Header.Get("Content-Type")
	if !allowedMediaTypes[contentType] {
		return nil, response.NewBadRequest(fmt.Sprintf("unsupported media type: %s", contentType))
	}

	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", header.Filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, s.config.BaseURL+"/upload", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if s.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.config.APIKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, response.NewServerError(fmt.Sprintf("media host unreachable: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, response.NewServerError(fmt.Sprintf("media host returned %d: %s", resp.StatusCode, string(data)))
	}

	var result UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, response.NewServerError("invalid response from media host")
	}
	return &result, nil
}

// Delete forwards a deletion to the media host. Unknown ids are treated as
// already gone.
func (s *MediaService) Delete(id string) error {
	if id == "" {
		return response.NewBadRequest("media id required")
	}

	req, err := http.NewRequest(http.MethodDelete, s.config.BaseURL+"/media/"+id, nil)
	if err != nil {
		return err
	}
	if s.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.config.APIKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return response.NewServerError(fmt.Sprintf("media host unreachable: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusNotFound {
		return response.NewServerError(fmt.Sprintf("media host returned %d", resp.StatusCode))
	}
	return nil
}
