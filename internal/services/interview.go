package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/jobkit/jobkit/internal/models"
	"github.com/jobkit/jobkit/pkg/response"
	"gorm.io/gorm"
)

type InterviewService struct {
	db       *gorm.DB
	team     *TeamService
	calendar *CalendarService
	notifier *NotificationService
}

func NewInterviewService(db *gorm.DB, team *TeamService, calendar *CalendarService, notifier *NotificationService) *InterviewService {
	return &InterviewService{db: db, team: team, calendar: calendar, notifier: notifier}
}

type ScheduleRequest struct {
	ApplicationID uint      `json:"application_id" binding:"required"`
	ScheduledAt   time.Time `json:"scheduled_at" binding:"required"`
	DurationMin   int       `json:"duration_min"`
	Location      string    `json:"location"`
	VideoURL      string    `json:"video_url"`
	Notes         string    `json:"notes"`
}

// Schedule books an interview on an application. The slot has to be in the
// future and on a business day of the company's country.
func (s *InterviewService) Schedule(userID uint, req *ScheduleRequest) (*models.Interview, error) {
	var app models.JobApplication
	if err := s.db.Preload("Job").First(&app, req.ApplicationID).Error; err != nil {
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

	if req.ScheduledAt.Before(time.Now()) {
		return nil, response.NewBadRequest("interview time must be in the future")
	}

	var company models.Company
	if err := s.db.First(&company, app.Job.CompanyID).Error; err != nil {
		return nil, err
	}
	if !s.calendar.IsWorkday(req.ScheduledAt, company.Country) {
		return nil, response.NewBadRequest(fmt.Sprintf("%s is not a business day in %s",
			req.ScheduledAt.Format("2006-01-02"), company.Country))
	}

	duration := req.DurationMin
	if duration <= 0 {
		duration = 60
	}

	interview := models.Interview{
		ApplicationID: app.ID,
		CompanyID:     app.Job.CompanyID,
		ApplicantID:   app.ApplicantID,
		ScheduledAt:   req.ScheduledAt,
		DurationMin:   duration,
		Location:      req.Location,
		VideoURL:      req.VideoURL,
		Notes:         req.Notes,
		Status:        models.InterviewStatusScheduled,
		CreatedBy:     userID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&interview).Error; err != nil {
			return err
		}
		return tx.Model(&app).Update("status", models.ApplicationStatusInterview).Error
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(&CreateNotificationParams{
		UserID:  app.ApplicantID,
		Type:    models.NotificationTypeInterview,
		Title:   "Interview scheduled",
		Message: fmt.Sprintf("Interview for %q on %s", app.Job.Title, req.ScheduledAt.Format("Jan 2, 2006 at 15:04")),
		Data: map[string]interface{}{
			"interview_id":   interview.ID,
			"application_id": app.ID,
		},
		ActionURL: fmt.Sprintf("/interviews/%d", interview.ID),
	})

	return &interview, nil
}

// UpdateStatus marks an interview completed or canceled. Company reviewers
// can do either; the applicant can only cancel.
func (s *InterviewService) UpdateStatus(interviewID, userID uint, status string) (*models.Interview, error) {
	if status != models.InterviewStatusCompleted && status != models.InterviewStatusCanceled {
		return nil, response.NewBadRequest(fmt.Sprintf("invalid interview status: %s", status))
	}

	var interview models.Interview
	if err := s.db.First(&interview, interviewID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("interview not found")
		}
		return nil, err
	}
	if interview.Status != models.InterviewStatusScheduled {
		return nil, response.NewConflict("interview is no longer scheduled")
	}

	if interview.ApplicantID == userID {
		if status != models.InterviewStatusCanceled {
			return nil, response.NewForbidden("applicants can only cancel an interview")
		}
	} else if err := s.team.Can(interview.CompanyID, userID, func(p models.Permissions) bool { return p.ReviewApps }); err != nil {
		return nil, err
	}

	if err := s.db.Model(&interview).Update("status", status).Error; err != nil {
		return nil, err
	}
	interview.Status = status

	if interview.ApplicantID != userID {
		s.notifier.Notify(&CreateNotificationParams{
			UserID:  interview.ApplicantID,
			Type:    models.NotificationTypeInterview,
			Title:   "Interview " + status,
			Message: fmt.Sprintf("Your interview on %s is %s", interview.ScheduledAt.Format("Jan 2, 2006"), status),
			Data:    map[string]interface{}{"interview_id": interview.ID},
		})
	}

	return &interview, nil
}

// ListForCompany returns a company's interviews, upcoming first.
func (s *InterviewService) ListForCompany(companyID, userID uint) ([]models.Interview, error) {
	if err := s.team.Can(companyID, userID, func(p models.Permissions) bool { return p.ReviewApps }); err != nil {
		return nil, err
	}

	var interviews []models.Interview
	err := s.db.Where("company_id = ?", companyID).
		Preload("Application").Preload("Application.Applicant").
		Order("scheduled_at ASC").
		Find(&interviews).Error
	return interviews, err
}

// ListForApplicant returns the caller's interviews, upcoming first.
func (s *InterviewService) ListForApplicant(applicantID uint) ([]models.Interview, error) {
	var interviews []models.Interview
	err := s.db.Where("applicant_id = ?", applicantID).
		Preload("Application").Preload("Application.Job").
		Order("scheduled_at ASC").
		Find(&interviews).Error
	return interviews, err
}
