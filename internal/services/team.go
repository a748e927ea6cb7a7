package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/jobkit/jobkit/internal/models"
	"github.com/jobkit/jobkit/pkg/logger"
	"github.com/jobkit/jobkit/pkg/response"
	"gorm.io/gorm"
)

// TeamService manages company collaborators and their capability flags.
type TeamService struct {
	db    *gorm.DB
	queue TaskQueue
	email *EmailService
}

func NewTeamService(db *gorm.DB, queue TaskQueue, email *EmailService) *TeamService {
	return &TeamService{db: db, queue: queue, email: email}
}

type InviteRequest struct {
	Email string          `json:"email" binding:"required,email"`
	Name  string          `json:"name"`
	Role  models.TeamRole `json:"role" binding:"required"`
}

// Invite creates a PENDING member whose capability flags are copied from the
// role's default table, then sends the invitation notice best-effort.
func (s *TeamService) Invite(companyID uint, req *InviteRequest) (*models.TeamMember, error) {
	defaults, ok := models.RolePermissions(req.Role)
	if !ok {
		return nil, response.NewBadRequest(fmt.Sprintf("unknown role: %s", req.Role))
	}

	var existing int64
	s.db.Model(&models.TeamMember{}).
		Where("company_id = ? AND email = ?", companyID, req.Email).
		Count(&existing)
	if existing > 0 {
		return nil, response.NewConflict("this email is already on the team")
	}

	token, err := generateInviteToken()
	if err != nil {
		return nil, err
	}

	member := models.TeamMember{
		CompanyID:   companyID,
		Email:       req.Email,
		Name:        req.Name,
		Role:        req.Role,
		Status:      models.InviteStatusPending,
		InviteToken: token,
		InvitedAt:   time.Now(),
	}
	member.ApplyPermissions(defaults)

	if err := s.db.Create(&member).Error; err != nil {
		// A concurrent invite may have won the (company, email) slot between
		// the count and the insert; the unique index reports that as a
		// constraint error.
		var dup int64
		s.db.Model(&models.TeamMember{}).
			Where("company_id = ? AND email = ?", companyID, req.Email).
			Count(&dup)
		if dup > 0 {
			return nil, response.NewConflict("this email is already on the team")
		}
		return nil, err
	}

	s.sendInviteNotice(&member)
	return &member, nil
}

// UpdateMemberRequest carries an optional role change plus per-capability
// overrides. Pointer fields distinguish "not sent" from "set to false".
type UpdateMemberRequest struct {
	Role           *models.TeamRole `json:"role"`
	CanCreateJobs  *bool            `json:"can_create_jobs"`
	CanEditJobs    *bool            `json:"can_edit_jobs"`
	CanDeleteJobs  *bool            `json:"can_delete_jobs"`
	CanReviewApps  *bool            `json:"can_review_apps"`
	CanEditCompany *bool            `json:"can_edit_company"`
	CanManageTeam  *bool            `json:"can_manage_team"`
}

// Update applies a role change and capability overrides. A supplied role,
// changed or not, resets all six flags to that role's defaults; explicit
// overrides then win. Downgrading the company's only ADMIN is rejected.
func (s *TeamService) Update(companyID, memberID uint, req *UpdateMemberRequest) (*models.TeamMember, error) {
	var member models.TeamMember

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND company_id = ?", memberID, companyID).First(&member).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return response.NewNotFound("team member not found")
			}
			return err
		}

		if req.Role != nil {
			defaults, ok := models.RolePermissions(*req.Role)
			if !ok {
				return response.NewBadRequest(fmt.Sprintf("unknown role: %s", *req.Role))
			}
			if member.Role == models.RoleAdmin && *req.Role != models.RoleAdmin {
				count, err := s.adminCount(tx, companyID)
				if err != nil {
					return err
				}
				if count <= 1 {
					return response.NewConflict("cannot change the role of the only admin")
				}
			}
			member.Role = *req.Role
			member.ApplyPermissions(defaults)
		}

		// Overrides win over role defaults
		if req.CanCreateJobs != nil {
			member.CanCreateJobs = *req.CanCreateJobs
		}
		if req.CanEditJobs != nil {
			member.CanEditJobs = *req.CanEditJobs
		}
		if req.CanDeleteJobs != nil {
			member.CanDeleteJobs = *req.CanDeleteJobs
		}
		if req.CanReviewApps != nil {
			member.CanReviewApps = *req.CanReviewApps
		}
		if req.CanEditCompany != nil {
			member.CanEditCompany = *req.CanEditCompany
		}
		if req.CanManageTeam != nil {
			member.CanManageTeam = *req.CanManageTeam
		}

		return tx.Save(&member).Error
	})
	if err != nil {
		return nil, err
	}

	return &member, nil
}

// Remove deletes a member. Removing the company's last ADMIN is rejected; the
// count and delete run in one transaction so concurrent removals cannot both
// pass the guard.
func (s *TeamService) Remove(companyID, memberID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var member models.TeamMember
		if err := tx.Where("id = ? AND company_id = ?", memberID, companyID).First(&member).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return response.NewNotFound("team member not found")
			}
			return err
		}

		if member.Role == models.RoleAdmin {
			count, err := s.adminCount(tx, companyID)
			if err != nil {
				return err
			}
			if count <= 1 {
				return response.NewConflict("cannot remove the only admin of the company")
			}
		}

		return tx.Delete(&member).Error
	})
}

// List returns all members of a company, newest-invited-first, no pagination.
func (s *TeamService) List(companyID uint) ([]models.TeamMember, error) {
	var members []models.TeamMember
	if err := s.db.Where("company_id = ?", companyID).
		Order("invited_at DESC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// Accept marks a pending invite accepted and links it to the accepting user.
func (s *TeamService) Accept(token string, userID uint) (*models.TeamMember, error) {
	member, err := s.pendingByToken(token)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	member.Status = models.InviteStatusAccepted
	member.UserID = &userID
	member.AcceptedAt = &now
	if err := s.db.Save(member).Error; err != nil {
		return nil, err
	}
	return member, nil
}

// Reject marks a pending invite rejected.
func (s *TeamService) Reject(token string) error {
	member, err := s.pendingByToken(token)
	if err != nil {
		return err
	}
	member.Status = models.InviteStatusRejected
	return s.db.Save(member).Error
}

// MemberForUser returns the accepted membership linking a user to a company.
func (s *TeamService) MemberForUser(companyID, userID uint) (*models.TeamMember, error) {
	var member models.TeamMember
	err := s.db.Where("company_id = ? AND user_id = ? AND status = ?",
		companyID, userID, models.InviteStatusAccepted).First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewForbidden("not a member of this company")
		}
		return nil, err
	}
	return &member, nil
}

// Can checks one capability of a user within a company. The company owner
// always passes.
func (s *TeamService) Can(companyID, userID uint, check func(models.Permissions) bool) error {
	var company models.Company
	if err := s.db.First(&company, companyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewNotFound("company not found")
		}
		return err
	}
	if company.OwnerID == userID {
		return nil
	}

	member, err := s.MemberForUser(companyID, userID)
	if err != nil {
		return err
	}
	if !check(member.PermissionSet()) {
		return response.NewForbidden("you do not have permission for this action")
	}
	return nil
}

func (s *TeamService) adminCount(tx *gorm.DB, companyID uint) (int64, error) {
	var count int64
	err := tx.Model(&models.TeamMember{}).
		Where("company_id = ? AND role = ?", companyID, models.RoleAdmin).
		Count(&count).Error
	return count, err
}

func (s *TeamService) pendingByToken(token string) (*models.TeamMember, error) {
	if token == "" {
		return nil, response.NewBadRequest("invite token required")
	}
	var member models.TeamMember
	err := s.db.Where("invite_token = ? AND status = ?", token, models.InviteStatusPending).First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("invitation not found or no longer pending")
		}
		return nil, err
	}
	return &member, nil
}

func (s *TeamService) sendInviteNotice(member *models.TeamMember) {
	if s.queue == nil || s.email == nil {
		return
	}

	var company models.Company
	companyName := "a company"
	if err := s.db.First(&company, member.CompanyID).Error; err == nil {
		companyName = company.Name
	}

	task := &MailTask{
		To:      []string{member.Email},
		Subject: fmt.Sprintf("[JobKit] Invitation to join %s", companyName),
		Body:    s.email.InviteBody(companyName, string(member.Role), member.InviteToken),
	}
	if err := s.queue.Enqueue(task); err != nil {
		logger.Warn().Err(err).Str("email", member.Email).Msg("invite notice enqueue failed")
	}
}

func generateInviteToken() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
