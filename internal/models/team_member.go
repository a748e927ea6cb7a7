package models

import "time"

// TeamRole is a company collaborator role.
type TeamRole string

const (
	RoleAdmin     TeamRole = "ADMIN"
	RoleHR        TeamRole = "HR"
	RoleRecruiter TeamRole = "RECRUITER"
	RoleViewer    TeamRole = "VIEWER"
)

// Invite statuses
const (
	InviteStatusPending  = "PENDING"
	InviteStatusAccepted = "ACCEPTED"
	InviteStatusRejected = "REJECTED"
	InviteStatusExpired  = "EXPIRED"
)

// Permissions is the full set of capability flags a team member can hold.
type Permissions struct {
	CreateJobs  bool `json:"can_create_jobs"`
	EditJobs    bool `json:"can_edit_jobs"`
	DeleteJobs  bool `json:"can_delete_jobs"`
	ReviewApps  bool `json:"can_review_apps"`
	EditCompany bool `json:"can_edit_company"`
	ManageTeam  bool `json:"can_manage_team"`
}

// rolePermissions is the authoritative role default table. Every role maps to
// every flag; a missing role is the only lookup failure mode.
var rolePermissions = map[TeamRole]Permissions{
	RoleAdmin:     {CreateJobs: true, EditJobs: true, DeleteJobs: true, ReviewApps: true, EditCompany: true, ManageTeam: true},
	RoleHR:        {CreateJobs: true, EditJobs: true, DeleteJobs: false, ReviewApps: true, EditCompany: false, ManageTeam: false},
	RoleRecruiter: {CreateJobs: true, EditJobs: true, DeleteJobs: false, ReviewApps: true, EditCompany: false, ManageTeam: false},
	RoleViewer:    {},
}

// RolePermissions returns the default capability flags for a role.
// The second return value is false for unknown roles.
func RolePermissions(role TeamRole) (Permissions, bool) {
	p, ok := rolePermissions[role]
	return p, ok
}

// ValidTeamRole reports whether role is one of the four known roles.
func ValidTeamRole(role TeamRole) bool {
	_, ok := rolePermissions[role]
	return ok
}

// TeamMember is a company-scoped collaborator record. Capability flags default
// from the role table but can be overridden per member. Removal deletes the
// row outright so the (company, email) slot frees up for a later re-invite.
type TeamMember struct {
	ID          uint     `gorm:"primaryKey" json:"id"`
	CompanyID   uint     `gorm:"uniqueIndex:idx_company_email;not null" json:"company_id"`
	Company     *Company `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	UserID      *uint    `gorm:"index" json:"user_id,omitempty"` // set once the invite is accepted
	Email       string   `gorm:"uniqueIndex:idx_company_email;size:255;not null" json:"email"`
	Name        string   `gorm:"size:100" json:"name"`
	Role        TeamRole `gorm:"size:20;not null" json:"role"`
	Status      string   `gorm:"size:20;default:PENDING" json:"status"`
	InviteToken string   `gorm:"size:64;index" json:"-"`

	CanCreateJobs  bool `json:"can_create_jobs"`
	CanEditJobs    bool `json:"can_edit_jobs"`
	CanDeleteJobs  bool `json:"can_delete_jobs"`
	CanReviewApps  bool `json:"can_review_apps"`
	CanEditCompany bool `json:"can_edit_company"`
	CanManageTeam  bool `json:"can_manage_team"`

	InvitedAt  time.Time  `json:"invited_at"`
	AcceptedAt *time.Time `json:"accepted_at"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (TeamMember) TableName() string { return "team_members" }

// ApplyPermissions copies a permission set onto the member's flags.
func (m *TeamMember) ApplyPermissions(p Permissions) {
	m.CanCreateJobs = p.CreateJobs
	m.CanEditJobs = p.EditJobs
	m.CanDeleteJobs = p.DeleteJobs
	m.CanReviewApps = p.ReviewApps
	m.CanEditCompany = p.EditCompany
	m.CanManageTeam = p.ManageTeam
}

// PermissionSet returns the member's current flags as a Permissions value.
func (m *TeamMember) PermissionSet() Permissions {
	return Permissions{
		CreateJobs:  m.CanCreateJobs,
		EditJobs:    m.CanEditJobs,
		DeleteJobs:  m.CanDeleteJobs,
		ReviewApps:  m.CanReviewApps,
		EditCompany: m.CanEditCompany,
		ManageTeam:  m.CanManageTeam,
	}
}
