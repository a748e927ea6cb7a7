package services

import (
	"errors"
	"fmt"

	"github.com/jobkit/jobkit/internal/models"
	"github.com/jobkit/jobkit/pkg/logger"
	"github.com/jobkit/jobkit/pkg/response"
	"gorm.io/gorm"
)

type ApplicationService struct {
	db       *gorm.DB
	team     *TeamService
	notifier *NotificationService
	queue    TaskQueue
	email    *EmailService
}

func NewApplicationService(db *gorm.DB, team *TeamService, notifier *NotificationService, queue TaskQueue, email *EmailService) *ApplicationService {
	return &ApplicationService{db: db, team: team, notifier: notifier, queue: queue, email: email}
}

type ApplyRequest struct {
	JobID       uint   `json:"job_id" binding:"required"`
	ResumeID    *uint  `json:"resume_id"`
	CoverLetter string `json:"cover_letter"`
}

// Apply submits an application for an open job. A seeker can apply to a job
// at most once; the unique index on (job_id, applicant_id) backs that up
// against concurrent submissions.
func (s *ApplicationService) Apply(applicantID uint, req *ApplyRequest) (*models.JobApplication, error) {
	var job models.Job
	if err := s.db.First(&job, req.JobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("job not found")
		}
		return nil, err
	}
	if job.Status != models.JobStatusOpen {
		return nil, response.NewBadRequest("job is not open for applications")
	}

	if req.ResumeID != nil {
		var resume models.Resume
		if err := s.db.First(&resume, *req.ResumeID).Error; err != nil {
			return nil, response.NewBadRequest("resume not found")
		}
		if resume.UserID != applicantID {
			return nil, response.NewForbidden("resume does not belong to you")
		}
	}

	app := models.JobApplication{
		JobID:       req.JobID,
		ApplicantID: applicantID,
		ResumeID:    req.ResumeID,
		CoverLetter: req.CoverLetter,
		Status:      models.ApplicationStatusApplied,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var dup int64
		if err := tx.Model(&models.JobApplication{}).
			Where("job_id = ? AND applicant_id = ?", req.JobID, applicantID).
			Count(&dup).Error; err != nil {
			return err
		}
		if dup > 0 {
			return response.NewConflict("you have already applied to this job")
		}
		if err := tx.Create(&app).Error; err != nil {
			return err
		}
		return tx.Model(&job).
			UpdateColumn("applicant_count", gorm.Expr("applicant_count + 1")).Error
	})
	if err != nil {
		return nil, err
	}

	s.notifyNewApplication(&job, applicantID)
	return &app, nil
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note"`
}

// UpdateStatus moves an application through the pipeline. The caller needs
// the reviewApps capability on the job's company.
func (s *ApplicationService) UpdateStatus(appID, userID uint, req *UpdateStatusRequest) (*models.JobApplication, error) {
	if !models.ValidApplicationStatus(req.Status) {
		return nil, response.NewBadRequest(fmt.Sprintf("invalid application status: %s", req.Status))
	}
	if req.Status == models.ApplicationStatusWithdrawn {
		return nil, response.NewBadRequest("only the applicant can withdraw an application")
	}

	var app models.JobApplication
	if err := s.db.Preload("Job").First(&app, appID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("application not found")
		}
		return nil, err
	}
	if app.Status == models.ApplicationStatusWithdrawn {
		return nil, response.NewConflict("application has been withdrawn")
	}

	if err := s.team.Can(app.Job.CompanyID, userID, func(p models.Permissions) bool { return p.ReviewApps }); err != nil {
		return nil, err
	}

	if err := s.db.Model(&app).Update("status", req.Status).Error; err != nil {
		return nil, err
	}
	app.Status = req.Status

	s.notifier.Notify(&CreateNotificationParams{
		UserID:  app.ApplicantID,
		Type:    models.NotificationTypeStatus,
		Title:   "Application status updated",
		Message: fmt.Sprintf("Your application for %q is now %s", app.Job.Title, req.Status),
		Data: map[string]interface{}{
			"application_id": app.ID,
			"job_id":         app.JobID,
			"status":         req.Status,
			"note":           req.Note,
		},
		ActionURL: fmt.Sprintf("/applications/%d", app.ID),
	})

	return &app, nil
}

// Withdraw lets the applicant pull their own application. The job's applicant
// counter is decremented in the same transaction.
func (s *ApplicationService) Withdraw(appID, applicantID uint) error {
	var app models.JobApplication
	if err := s.db.First(&app, appID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewNotFound("application not found")
		}
		return err
	}
	if app.ApplicantID != applicantID {
		return response.NewForbidden("not your application")
	}
	if app.Status == models.ApplicationStatusWithdrawn {
		return response.NewConflict("application already withdrawn")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&app).Update("status", models.ApplicationStatusWithdrawn).Error; err != nil {
			return err
		}
		return tx.Model(&models.Job{}).
			Where("id = ? AND applicant_count > 0", app.JobID).
			UpdateColumn("applicant_count", gorm.Expr("applicant_count - 1")).Error
	})
}

// Get returns one application. Visible to the applicant and to company users
// with the reviewApps capability.
func (s *ApplicationService) Get(appID, userID uint) (*models.JobApplication, error) {
	var app models.JobApplication
	if err := s.db.Preload("Job").Preload("Job.Company").Preload("Applicant").
		First(&app, appID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("application not found")
		}
		return nil, err
	}

	if app.ApplicantID == userID {
		return &app, nil
	}
	if err := s.team.Can(app.Job.CompanyID, userID, func(p models.Permissions) bool { return p.ReviewApps }); err != nil {
		return nil, err
	}
	return &app, nil
}

type ApplicationListRequest struct {
	Page     int    `form:"page,default=1"`
	PageSize int    `form:"page_size,default=20"`
	Status   string `form:"status"`
}

type ApplicationListResponse struct {
	Total    int64                   `json:"total"`
	Page     int                     `json:"page"`
	PageSize int                     `json:"page_size"`
	Items    []models.JobApplication `json:"items"`
}

// ListForJob returns the applications against one job, for reviewers.
func (s *ApplicationService) ListForJob(jobID, userID uint, req *ApplicationListRequest) (*ApplicationListResponse, error) {
	var job models.Job
	if err := s.db.First(&job, jobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("job not found")
		}
		return nil, err
	}
	if err := s.team.Can(job.CompanyID, userID, func(p models.Permissions) bool { return p.ReviewApps }); err != nil {
		return nil, err
	}

	query := s.db.Model(&models.JobApplication{}).Where("job_id = ?", jobID)
	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}
	return s.page(query.Preload("Applicant"), req)
}

// ListMine returns the caller's own applications, newest first.
func (s *ApplicationService) ListMine(applicantID uint, req *ApplicationListRequest) (*ApplicationListResponse, error) {
	query := s.db.Model(&models.JobApplication{}).Where("applicant_id = ?", applicantID)
	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}
	return s.page(query.Preload("Job").Preload("Job.Company"), req)
}

func (s *ApplicationService) page(query *gorm.DB, req *ApplicationListRequest) (*ApplicationListResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 || req.PageSize > 100 {
		req.PageSize = 20
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var apps []models.JobApplication
	offset := (req.Page - 1) * req.PageSize
	if err := query.Order("created_at DESC").
		Offset(offset).Limit(req.PageSize).
		Find(&apps).Error; err != nil {
		return nil, err
	}

	return &ApplicationListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    apps,
	}, nil
}

// notifyNewApplication tells the company owner about a fresh application, by
// notification and by mail. Both are best effort.
func (s *ApplicationService) notifyNewApplication(job *models.Job, applicantID uint) {
	var applicant models.User
	if err := s.db.First(&applicant, applicantID).Error; err != nil {
		logger.Warn().Err(err).Uint("applicant_id", applicantID).Msg("applicant lookup failed")
		return
	}

	var company models.Company
	if err := s.db.First(&company, job.CompanyID).Error; err != nil {
		logger.Warn().Err(err).Uint("company_id", job.CompanyID).Msg("company lookup failed")
		return
	}

	s.notifier.Notify(&CreateNotificationParams{
		UserID:  company.OwnerID,
		Type:    models.NotificationTypeApplication,
		Title:   "New application",
		Message: fmt.Sprintf("%s applied for %q", applicant.Name, job.Title),
		Data: map[string]interface{}{
			"job_id":       job.ID,
			"applicant_id": applicantID,
		},
		ActionURL: fmt.Sprintf("/company/jobs/%d/applications", job.ID),
	})

	if s.queue == nil || s.email == nil {
		return
	}
	var owner models.User
	if err := s.db.First(&owner, company.OwnerID).Error; err != nil {
		return
	}
	task := &MailTask{
		To:      []string{owner.Email},
		Subject: fmt.Sprintf("[JobKit] New application for %s", job.Title),
		Body:    s.email.ApplicationBody(applicant.Name, job.Title),
	}
	if err := s.queue.Enqueue(task); err != nil {
		logger.Warn().Err(err).Msg("application mail enqueue failed")
	}
}
