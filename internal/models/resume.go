package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Resume is a user's structured resume document. Section contents are stored
// as JSON arrays and rendered by the client.
type Resume struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	UserID     uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	Headline   string         `gorm:"size:200" json:"headline"`
	Summary    string         `gorm:"type:text" json:"summary"`
	Education  datatypes.JSON `json:"education,omitempty"`
	Experience datatypes.JSON `json:"experience,omitempty"`
	Projects   datatypes.JSON `json:"projects,omitempty"`
	Skills     datatypes.JSON `json:"skills,omitempty"`
	Languages  datatypes.JSON `json:"languages,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Resume) TableName() string { return "resumes" }
