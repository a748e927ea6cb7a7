package models

import (
	"time"

	"gorm.io/gorm"
)

// User kinds
const (
	UserKindSeeker  = "seeker"
	UserKindCompany = "company"
)

// User represents a registered account, either a job seeker or a company side
// account. Company users own or belong to exactly one Company.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Email     string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password  string         `gorm:"size:255" json:"-"`
	Name      string         `gorm:"size:100" json:"name"`
	Kind      string         `gorm:"size:20;default:seeker" json:"kind"` // seeker, company
	Avatar    string         `gorm:"size:500" json:"avatar"`
	Phone     string         `gorm:"size:50" json:"phone"`
	Location  string         `gorm:"size:200" json:"location"`
	CompanyID *uint          `gorm:"index" json:"company_id,omitempty"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	LastLogin *time.Time     `json:"last_login"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }
