package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jobkit/jobkit/internal/models"
	"github.com/jobkit/jobkit/pkg/response"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const threadPreviewLen = 500

// MessagingService routes company<->applicant conversations through a single
// thread per (company, applicant, job) tuple.
type MessagingService struct {
	db       *gorm.DB
	notifier *NotificationService
}

func NewMessagingService(db *gorm.DB, notifier *NotificationService) *MessagingService {
	return &MessagingService{db: db, notifier: notifier}
}

type ThreadRequest struct {
	CompanyID   uint   `json:"company_id" binding:"required"`
	ApplicantID uint   `json:"applicant_id" binding:"required"`
	JobID       uint   `json:"job_id" binding:"required"`
	Message     string `json:"message" binding:"required"`
}

type ThreadResult struct {
	Thread  *models.MessageThread `json:"thread"`
	Created bool                  `json:"created"`
	Detail  string                `json:"detail"`
}

// GetOrCreateThread returns the unique thread for the tuple, creating it on
// first contact. The caller must be the job's owning company side or the
// applicant. When seedFromApplicant is set (the application-driven entry
// point), a new thread also receives an initial applicant->company message.
// The composite unique index plus the transaction make concurrent calls
// converge on one thread.
func (s *MessagingService) GetOrCreateThread(callerID uint, req *ThreadRequest, seedFromApplicant bool) (*ThreadResult, error) {
	var job models.Job
	if err := s.db.Preload("Company").First(&job, req.JobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("job not found")
		}
		return nil, err
	}
	if job.CompanyID != req.CompanyID {
		return nil, response.NewBadRequest("job does not belong to this company")
	}

	if err := s.authorizeParty(callerID, req.CompanyID, req.ApplicantID); err != nil {
		return nil, err
	}

	var applicant models.User
	if err := s.db.First(&applicant, req.ApplicantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("applicant not found")
		}
		return nil, err
	}

	var thread models.MessageThread
	created := false

	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("company_id = ? AND applicant_id = ? AND job_id = ?",
			req.CompanyID, req.ApplicantID, req.JobID).First(&thread).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		thread = models.MessageThread{
			CompanyID:     req.CompanyID,
			ApplicantID:   req.ApplicantID,
			JobID:         req.JobID,
			LastMessage:   preview(req.Message),
			LastMessageAt: time.Now(),
			CompanyRead:   !seedFromApplicant,
			ApplicantRead: true,
		}
		if err := tx.Create(&thread).Error; err != nil {
			return err
		}
		created = true

		if seedFromApplicant {
			seed := models.Message{
				ThreadID:   thread.ID,
				SenderID:   req.ApplicantID,
				ReceiverID: job.Company.OwnerID,
				Content:    req.Message,
			}
			if err := tx.Create(&seed).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		// A concurrent request may have won the insert; the unique tuple
		// index turns that into a constraint error that aborts the whole
		// transaction, so look up the surviving thread on a fresh one.
		if fetchErr := s.db.Where("company_id = ? AND applicant_id = ? AND job_id = ?",
			req.CompanyID, req.ApplicantID, req.JobID).First(&thread).Error; fetchErr != nil {
			return nil, err
		}
		created = false
	}

	counterpart := job.Company.Name
	if callerID != req.ApplicantID {
		counterpart = applicant.Name
	}

	return &ThreadResult{
		Thread:  &thread,
		Created: created,
		Detail:  fmt.Sprintf("Conversation with %s about %q", counterpart, job.Title),
	}, nil
}

type SendMessageRequest struct {
	Content     string   `json:"content" binding:"required"`
	Attachments []string `json:"attachments"`
}

// SendMessage appends a message to a thread the caller participates in and
// flags the thread unread for the other party.
func (s *MessagingService) SendMessage(callerID, threadID uint, req *SendMessageRequest) (*models.Message, error) {
	var thread models.MessageThread
	if err := s.db.Preload("Company").First(&thread, threadID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("thread not found")
		}
		return nil, err
	}

	if err := s.authorizeParty(callerID, thread.CompanyID, thread.ApplicantID); err != nil {
		return nil, err
	}

	fromApplicant := callerID == thread.ApplicantID
	receiverID := thread.ApplicantID
	if fromApplicant {
		receiverID = thread.Company.OwnerID
	}

	msg := models.Message{
		ThreadID:   thread.ID,
		SenderID:   callerID,
		ReceiverID: receiverID,
		Content:    req.Content,
	}
	if len(req.Attachments) > 0 {
		if b, err := json.Marshal(req.Attachments); err == nil {
			msg.Attachments = datatypes.JSON(b)
		}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&msg).Error; err != nil {
			return err
		}
		updates := map[string]interface{}{
			"last_message":    preview(req.Content),
			"last_message_at": time.Now(),
		}
		if fromApplicant {
			updates["company_read"] = false
		} else {
			updates["applicant_read"] = false
		}
		return tx.Model(&thread).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.Notify(&CreateNotificationParams{
			UserID:    receiverID,
			Type:      models.NotificationTypeMessage,
			Title:     "New message",
			Message:   preview(req.Content),
			Data:      map[string]interface{}{"thread_id": thread.ID},
			ActionURL: fmt.Sprintf("/messages/%d", thread.ID),
		})
	}

	return &msg, nil
}

// ListThreads returns the caller's threads, most recent activity first.
// Company-side callers see their company's threads.
func (s *MessagingService) ListThreads(userID uint, companyID *uint) ([]models.MessageThread, error) {
	query := s.db.Preload("Company").Preload("Applicant").Preload("Job")
	if companyID != nil {
		query = query.Where("company_id = ?", *companyID)
	} else {
		query = query.Where("applicant_id = ?", userID)
	}

	var threads []models.MessageThread
	if err := query.Order("last_message_at DESC").Find(&threads).Error; err != nil {
		return nil, err
	}
	return threads, nil
}

type MessageListRequest struct {
	Page     int `form:"page"`
	PageSize int `form:"page_size" binding:"omitempty,max=100"`
}

type MessageListResponse struct {
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
	Items    []models.Message `json:"items"`
}

// ListMessages pages through a thread's messages oldest-first and marks the
// thread read for the caller's side.
func (s *MessagingService) ListMessages(callerID, threadID uint, req *MessageListRequest) (*MessageListResponse, error) {
	var thread models.MessageThread
	if err := s.db.First(&thread, threadID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("thread not found")
		}
		return nil, err
	}

	if err := s.authorizeParty(callerID, thread.CompanyID, thread.ApplicantID); err != nil {
		return nil, err
	}

	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 50
	}

	var total int64
	s.db.Model(&models.Message{}).Where("thread_id = ?", threadID).Count(&total)

	var items []models.Message
	offset := (req.Page - 1) * req.PageSize
	if err := s.db.Where("thread_id = ?", threadID).
		Order("created_at ASC").
		Offset(offset).Limit(req.PageSize).
		Find(&items).Error; err != nil {
		return nil, err
	}

	// Mark the caller's side read
	readCol := "applicant_read"
	if callerID != thread.ApplicantID {
		readCol = "company_read"
	}
	if err := s.db.Model(&thread).Update(readCol, true).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Message{}).
		Where("thread_id = ? AND receiver_id = ? AND is_read = ?", threadID, callerID, false).
		Update("is_read", true).Error; err != nil {
		return nil, err
	}

	return &MessageListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    items,
	}, nil
}

type ThreadStats struct {
	TotalThreads  int64 `json:"total_threads"`
	UnreadThreads int64 `json:"unread_threads"`
	MessagesToday int64 `json:"messages_today"`
}

// Stats returns thread totals for the user plus the count of messages sent or
// received since local midnight.
func (s *MessagingService) Stats(userID uint, companyID *uint) (*ThreadStats, error) {
	stats := &ThreadStats{}

	threadQuery := s.db.Model(&models.MessageThread{})
	unreadQuery := s.db.Model(&models.MessageThread{})
	if companyID != nil {
		threadQuery = threadQuery.Where("company_id = ?", *companyID)
		unreadQuery = unreadQuery.Where("company_id = ? AND company_read = ?", *companyID, false)
	} else {
		threadQuery = threadQuery.Where("applicant_id = ?", userID)
		unreadQuery = unreadQuery.Where("applicant_id = ? AND applicant_read = ?", userID, false)
	}
	threadQuery.Count(&stats.TotalThreads)
	unreadQuery.Count(&stats.UnreadThreads)

	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	s.db.Model(&models.Message{}).
		Where("(sender_id = ? OR receiver_id = ?) AND created_at >= ?", userID, userID, midnight).
		Count(&stats.MessagesToday)

	return stats, nil
}

// authorizeParty allows the applicant or the company side (owner or accepted
// team member) of a thread tuple.
func (s *MessagingService) authorizeParty(callerID, companyID, applicantID uint) error {
	if callerID == applicantID {
		return nil
	}

	var company models.Company
	if err := s.db.First(&company, companyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewNotFound("company not found")
		}
		return err
	}
	if company.OwnerID == callerID {
		return nil
	}

	var count int64
	s.db.Model(&models.TeamMember{}).
		Where("company_id = ? AND user_id = ? AND status = ?", companyID, callerID, models.InviteStatusAccepted).
		Count(&count)
	if count > 0 {
		return nil
	}

	return response.NewForbidden("you are not a participant of this conversation")
}

func preview(text string) string {
	text = strings.TrimSpace(text)
	if len(text) <= threadPreviewLen {
		return text
	}
	// Back up to a rune boundary so the cut never produces invalid UTF-8.
	cut := threadPreviewLen
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}
