package services

import (
	"errors"
	"fmt"

	"github.com/jobkit/jobkit/internal/models"
	"github.com/jobkit/jobkit/pkg/response"
	"gorm.io/gorm"
)

type JobService struct {
	db   *gorm.DB
	team *TeamService
}

func NewJobService(db *gorm.DB, team *TeamService) *JobService {
	return &JobService{db: db, team: team}
}

type JobRequest struct {
	Title          string `json:"title" binding:"required"`
	Description    string `json:"description"`
	Location       string `json:"location"`
	EmploymentType string `json:"employment_type"`
	Remote         bool   `json:"remote"`
	SalaryMin      *int   `json:"salary_min"`
	SalaryMax      *int   `json:"salary_max"`
	Skills         string `json:"skills"`
	Status         string `json:"status"`
}

type JobListRequest struct {
	Page           int    `form:"page,default=1"`
	PageSize       int    `form:"page_size,default=20"`
	Keyword        string `form:"keyword"`
	Location       string `form:"location"`
	EmploymentType string `form:"employment_type"`
	Remote         *bool  `form:"remote"`
	SalaryMin      *int   `form:"salary_min"`
	CompanyID      uint   `form:"company_id"`
	Status         string `form:"status"`
}

type JobListResponse struct {
	Total    int64        `json:"total"`
	Page     int          `json:"page"`
	PageSize int          `json:"page_size"`
	Items    []models.Job `json:"items"`
}

func validJobStatus(s string) bool {
	switch s {
	case models.JobStatusOpen, models.JobStatusClosed, models.JobStatusDraft:
		return true
	}
	return false
}

// Create posts a new job for the company. The caller needs the createJobs
// capability.
func (s *JobService) Create(companyID, userID uint, req *JobRequest) (*models.Job, error) {
	if err := s.team.Can(companyID, userID, func(p models.Permissions) bool { return p.CreateJobs }); err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = models.JobStatusOpen
	}
	if !validJobStatus(status) {
		return nil, response.NewBadRequest(fmt.Sprintf("invalid job status: %s", status))
	}
	if req.SalaryMin != nil && req.SalaryMax != nil && *req.SalaryMin > *req.SalaryMax {
		return nil, response.NewBadRequest("salary_min cannot exceed salary_max")
	}

	job := models.Job{
		CompanyID:      companyID,
		Title:          req.Title,
		Description:    req.Description,
		Location:       req.Location,
		EmploymentType: req.EmploymentType,
		Remote:         req.Remote,
		SalaryMin:      req.SalaryMin,
		SalaryMax:      req.SalaryMax,
		Skills:         req.Skills,
		Status:         status,
		CreatedBy:      userID,
	}
	if err := s.db.Create(&job).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

// Update edits a job. The caller needs the editJobs capability on the job's
// company.
func (s *JobService) Update(jobID, userID uint, req *JobRequest) (*models.Job, error) {
	var job models.Job
	if err := s.db.First(&job, jobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("job not found")
		}
		return nil, err
	}

	if err := s.team.Can(job.CompanyID, userID, func(p models.Permissions) bool { return p.EditJobs }); err != nil {
		return nil, err
	}

	if req.Status != "" && !validJobStatus(req.Status) {
		return nil, response.NewBadRequest(fmt.Sprintf("invalid job status: %s", req.Status))
	}
	if req.SalaryMin != nil && req.SalaryMax != nil && *req.SalaryMin > *req.SalaryMax {
		return nil, response.NewBadRequest("salary_min cannot exceed salary_max")
	}

	job.Title = req.Title
	job.Description = req.Description
	job.Location = req.Location
	job.EmploymentType = req.EmploymentType
	job.Remote = req.Remote
	job.SalaryMin = req.SalaryMin
	job.SalaryMax = req.SalaryMax
	job.Skills = req.Skills
	if req.Status != "" {
		job.Status = req.Status
	}

	if err := s.db.Save(&job).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

// Delete removes a job posting. The caller needs the deleteJobs capability.
func (s *JobService) Delete(jobID, userID uint) error {
	var job models.Job
	if err := s.db.First(&job, jobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewNotFound("job not found")
		}
		return err
	}

	if err := s.team.Can(job.CompanyID, userID, func(p models.Permissions) bool { return p.DeleteJobs }); err != nil {
		return err
	}

	return s.db.Delete(&job).Error
}

// Get returns one job with its company preloaded.
func (s *JobService) Get(jobID uint) (*models.Job, error) {
	var job models.Job
	if err := s.db.Preload("Company").First(&job, jobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("job not found")
		}
		return nil, err
	}
	return &job, nil
}

// List returns a filtered, paginated page of jobs. Public callers only see
// OPEN jobs; company listings may filter by any status.
func (s *JobService) List(req *JobListRequest, includeAllStatuses bool) (*JobListResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 || req.PageSize > 100 {
		req.PageSize = 20
	}

	query := s.db.Model(&models.Job{})

	if includeAllStatuses {
		if req.Status != "" {
			query = query.Where("status = ?", req.Status)
		}
	} else {
		query = query.Where("status = ?", models.JobStatusOpen)
	}

	if req.Keyword != "" {
		kw := "%" + req.Keyword + "%"
		query = query.Where("title LIKE ? OR description LIKE ? OR skills LIKE ?", kw, kw, kw)
	}
	if req.Location != "" {
		query = query.Where("location LIKE ?", "%"+req.Location+"%")
	}
	if req.EmploymentType != "" {
		query = query.Where("employment_type = ?", req.EmploymentType)
	}
	if req.Remote != nil {
		query = query.Where("remote = ?", *req.Remote)
	}
	if req.SalaryMin != nil {
		query = query.Where("salary_max >= ? OR (salary_max IS NULL AND salary_min >= ?)", *req.SalaryMin, *req.SalaryMin)
	}
	if req.CompanyID != 0 {
		query = query.Where("company_id = ?", req.CompanyID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var jobs []models.Job
	offset := (req.Page - 1) * req.PageSize
	if err := query.Preload("Company").
		Order("created_at DESC").
		Offset(offset).Limit(req.PageSize).
		Find(&jobs).Error; err != nil {
		return nil, err
	}

	return &JobListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    jobs,
	}, nil
}

// ListForCompany returns jobs of one company across all statuses, for the
// company dashboard.
func (s *JobService) ListForCompany(companyID uint, req *JobListRequest) (*JobListResponse, error) {
	req.CompanyID = companyID
	return s.List(req, true)
}
