package models

import (
	"time"

	"gorm.io/gorm"
)

// Company represents an employer profile that posts jobs and reviews applicants.
type Company struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"size:200;not null" json:"name"`
	OwnerID     uint           `gorm:"index;not null" json:"owner_id"`
	Website     string         `gorm:"size:500" json:"website"`
	Logo        string         `gorm:"size:500" json:"logo"`
	Description string         `gorm:"type:text" json:"description"`
	Industry    string         `gorm:"size:100" json:"industry"`
	Location    string         `gorm:"size:200" json:"location"`
	Country     string         `gorm:"size:2;default:US" json:"country"` // ISO code, drives the interview business calendar
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Company) TableName() string { return "companies" }
