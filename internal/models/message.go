package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MessageThread is the single conversation container for a
// (company, applicant, job) tuple. The composite unique index makes the
// find-or-create path safe under concurrent requests.
type MessageThread struct {
	ID          uint     `gorm:"primaryKey" json:"id"`
	CompanyID   uint     `gorm:"uniqueIndex:idx_thread_tuple;not null" json:"company_id"`
	Company     *Company `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	ApplicantID uint     `gorm:"uniqueIndex:idx_thread_tuple;not null" json:"applicant_id"`
	Applicant   *User    `gorm:"foreignKey:ApplicantID" json:"applicant,omitempty"`
	JobID       uint     `gorm:"uniqueIndex:idx_thread_tuple;not null" json:"job_id"`
	Job         *Job     `gorm:"foreignKey:JobID" json:"job,omitempty"`

	LastMessage   string    `gorm:"size:500" json:"last_message"`
	LastMessageAt time.Time `gorm:"index" json:"last_message_at"`
	// Per-side read markers; a thread is unread for a party until they list
	// its messages.
	CompanyRead   bool `gorm:"default:true" json:"company_read"`
	ApplicantRead bool `gorm:"default:true" json:"applicant_read"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (MessageThread) TableName() string { return "message_threads" }

// Message is a single immutable entry in a thread.
type Message struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	ThreadID    uint           `gorm:"index;not null" json:"thread_id"`
	SenderID    uint           `gorm:"index;not null" json:"sender_id"`
	ReceiverID  uint           `gorm:"index;not null" json:"receiver_id"`
	Content     string         `gorm:"type:text;not null" json:"content"`
	Attachments datatypes.JSON `json:"attachments,omitempty"` // list of media URLs
	IsRead      bool           `gorm:"default:false" json:"is_read"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
}

func (Message) TableName() string { return "messages" }
