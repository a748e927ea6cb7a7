package models

import (
	"time"

	"gorm.io/datatypes"
)

// Notification types
const (
	NotificationTypeApplication = "application"
	NotificationTypeStatus      = "application_status"
	NotificationTypeMessage     = "message"
	NotificationTypeInterview   = "interview"
	NotificationTypeTeamInvite  = "team_invite"
	NotificationTypeSystem      = "system"
)

// Notification is one entry in a user's durable feed.
type Notification struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"index;not null" json:"user_id"`
	Type      string         `gorm:"size:50;not null" json:"type"`
	Title     string         `gorm:"size:200;not null" json:"title"`
	Message   string         `gorm:"type:text;not null" json:"message"`
	Data      datatypes.JSON `json:"data,omitempty"`
	ActionURL string         `gorm:"size:500" json:"action_url,omitempty"`
	IsRead    bool           `gorm:"default:false;index" json:"is_read"`
	ReadAt    *time.Time     `json:"read_at,omitempty"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }
