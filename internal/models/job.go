package models

import (
	"time"

	"gorm.io/gorm"
)

// Job statuses
const (
	JobStatusOpen   = "OPEN"
	JobStatusClosed = "CLOSED"
	JobStatusDraft  = "DRAFT"
)

// Job represents a job posting.
type Job struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	CompanyID      uint           `gorm:"index;not null" json:"company_id"`
	Company        *Company       `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	Title          string         `gorm:"size:200;not null" json:"title"`
	Description    string         `gorm:"type:text" json:"description"`
	Location       string         `gorm:"size:200" json:"location"`
	EmploymentType string         `gorm:"size:50" json:"employment_type"` // full_time, part_time, contract, internship
	Remote         bool           `gorm:"default:false" json:"remote"`
	SalaryMin      *int           `json:"salary_min"`
	SalaryMax      *int           `json:"salary_max"`
	Skills         string         `gorm:"size:1000" json:"skills"` // comma separated
	Status         string         `gorm:"size:20;default:OPEN;index" json:"status"`
	ApplicantCount int            `gorm:"default:0" json:"applicant_count"`
	CreatedBy      uint           `json:"created_by"`
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Job) TableName() string { return "jobs" }
