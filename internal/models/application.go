package models

import (
	"time"

	"gorm.io/gorm"
)

// Application statuses
const (
	ApplicationStatusApplied     = "APPLIED"
	ApplicationStatusReviewing   = "REVIEWING"
	ApplicationStatusShortlisted = "SHORTLISTED"
	ApplicationStatusInterview   = "INTERVIEW"
	ApplicationStatusOffered     = "OFFERED"
	ApplicationStatusRejected    = "REJECTED"
	ApplicationStatusWithdrawn   = "WITHDRAWN"
)

// ValidApplicationStatus reports whether s is a known application status.
func ValidApplicationStatus(s string) bool {
	switch s {
	case ApplicationStatusApplied, ApplicationStatusReviewing, ApplicationStatusShortlisted,
		ApplicationStatusInterview, ApplicationStatusOffered, ApplicationStatusRejected,
		ApplicationStatusWithdrawn:
		return true
	}
	return false
}

// JobApplication records a seeker's application against a job. A seeker can
// apply to a given job at most once.
type JobApplication struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	JobID       uint           `gorm:"uniqueIndex:idx_job_applicant;not null" json:"job_id"`
	Job         *Job           `gorm:"foreignKey:JobID" json:"job,omitempty"`
	ApplicantID uint           `gorm:"uniqueIndex:idx_job_applicant;not null" json:"applicant_id"`
	Applicant   *User          `gorm:"foreignKey:ApplicantID" json:"applicant,omitempty"`
	ResumeID    *uint          `json:"resume_id"`
	CoverLetter string         `gorm:"type:text" json:"cover_letter"`
	Status      string         `gorm:"size:20;default:APPLIED;index" json:"status"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (JobApplication) TableName() string { return "job_applications" }
