package services

import (
	"encoding/json"
	"time"

	"github.com/jobkit/jobkit/internal/models"
	"github.com/jobkit/jobkit/pkg/logger"
	"github.com/jobkit/jobkit/pkg/response"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type NotificationService struct {
	db     *gorm.DB
	pusher Pusher
}

// NewNotificationService creates the service. pusher may be nil when no
// real-time channel is configured.
func NewNotificationService(db *gorm.DB, pusher Pusher) *NotificationService {
	return &NotificationService{db: db, pusher: pusher}
}

type CreateNotificationParams struct {
	UserID    uint
	Type      string
	Title     string
	Message   string
	Data      interface{}
	ActionURL string
}

// Create persists a notification and pushes it over the user's live channel.
// Push failure never fails the create.
func (s *NotificationService) Create(p *CreateNotificationParams) (*models.Notification, error) {
	if p.UserID == 0 || p.Type == "" || p.Title == "" || p.Message == "" {
		return nil, response.NewBadRequest("user id, type, title and message are required")
	}

	n := models.Notification{
		UserID:    p.UserID,
		Type:      p.Type,
		Title:     p.Title,
		Message:   p.Message,
		ActionURL: p.ActionURL,
	}
	if p.Data != nil {
		if b, err := json.Marshal(p.Data); err == nil {
			n.Data = datatypes.JSON(b)
		}
	}

	if err := s.db.Create(&n).Error; err != nil {
		return nil, err
	}

	s.pushNew(&n)
	return &n, nil
}

// Notify is the fire-and-forget variant used by other services for their
// secondary effects. Errors are logged and swallowed.
func (s *NotificationService) Notify(p *CreateNotificationParams) {
	if _, err := s.Create(p); err != nil {
		logger.Warn().Err(err).Uint("user_id", p.UserID).Str("type", p.Type).Msg("notification create failed")
	}
}

type NotificationListRequest struct {
	Page       int  `form:"page"`
	PageSize   int  `form:"page_size" binding:"omitempty,max=100"`
	UnreadOnly bool `form:"unread_only"`
}

type NotificationListResponse struct {
	Total       int64                 `json:"total"`
	UnreadCount int64                 `json:"unread_count"`
	Page        int                   `json:"page"`
	PageSize    int                   `json:"page_size"`
	Items       []models.Notification `json:"items"`
}

// List returns a newest-first page. UnreadCount is always the user's total
// unread count, independent of the unread_only page filter.
func (s *NotificationService) List(userID uint, req *NotificationListRequest) (*NotificationListResponse, error) {
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 20
	}

	query := s.db.Model(&models.Notification{}).Where("user_id = ?", userID)
	if req.UnreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var total int64
	query.Count(&total)

	var items []models.Notification
	offset := (req.Page - 1) * req.PageSize
	if err := query.Offset(offset).Limit(req.PageSize).Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, err
	}

	return &NotificationListResponse{
		Total:       total,
		UnreadCount: s.unreadCount(userID),
		Page:        req.Page,
		PageSize:    req.PageSize,
		Items:       items,
	}, nil
}

// MarkRead marks a single notification as read.
func (s *NotificationService) MarkRead(userID, id uint) error {
	now := time.Now()
	result := s.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]interface{}{"is_read": true, "read_at": now})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return response.NewNotFound("notification not found")
	}

	s.pushUnreadCount(userID)
	return nil
}

// MarkAllRead marks every unread notification read and pushes the zero count.
func (s *NotificationService) MarkAllRead(userID uint) error {
	now := time.Now()
	if err := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": now}).Error; err != nil {
		return err
	}

	s.pushUnreadCount(userID)
	return nil
}

// Clear deletes all notifications for the user, irreversibly.
func (s *NotificationService) Clear(userID uint) error {
	return s.db.Where("user_id = ?", userID).Delete(&models.Notification{}).Error
}

func (s *NotificationService) unreadCount(userID uint) int64 {
	var count int64
	s.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count)
	return count
}

func (s *NotificationService) pushNew(n *models.Notification) {
	if s.pusher == nil {
		return
	}
	count := s.unreadCount(n.UserID)
	s.pusher.PushToUser(n.UserID, NotificationEvent{Type: "notification", Notification: n})
	s.pusher.PushToUser(n.UserID, NotificationEvent{Type: "unread_count", UnreadCount: &count})
}

func (s *NotificationService) pushUnreadCount(userID uint) {
	if s.pusher == nil {
		return
	}
	count := s.unreadCount(userID)
	s.pusher.PushToUser(userID, NotificationEvent{Type: "unread_count", UnreadCount: &count})
}
