package models

import (
	"time"

	"gorm.io/gorm"
)

// Interview statuses
const (
	InterviewStatusScheduled = "SCHEDULED"
	InterviewStatusCompleted = "COMPLETED"
	InterviewStatusCanceled  = "CANCELED"
)

// Interview is a scheduled meeting between a company and an applicant,
// attached to a job application.
type Interview struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	ApplicationID uint            `gorm:"index;not null" json:"application_id"`
	Application   *JobApplication `gorm:"foreignKey:ApplicationID" json:"application,omitempty"`
	CompanyID     uint            `gorm:"index;not null" json:"company_id"`
	ApplicantID   uint            `gorm:"index;not null" json:"applicant_id"`
	ScheduledAt   time.Time       `gorm:"index;not null" json:"scheduled_at"`
	DurationMin   int             `gorm:"default:60" json:"duration_min"`
	Location      string          `gorm:"size:300" json:"location"`
	VideoURL      string          `gorm:"size:500" json:"video_url"`
	Notes         string          `gorm:"type:text" json:"notes"`
	Status        string          `gorm:"size:20;default:SCHEDULED" json:"status"`
	CreatedBy     uint            `json:"created_by"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (Interview) TableName() string { return "interviews" }
