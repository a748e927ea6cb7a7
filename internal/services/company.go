package services

import (
	"errors"

	"github.com/jobkit/jobkit/internal/models"
	"github.com/jobkit/jobkit/pkg/response"
	"gorm.io/gorm"
)

type CompanyService struct {
	db   *gorm.DB
	team *TeamService
}

func NewCompanyService(db *gorm.DB, team *TeamService) *CompanyService {
	return &CompanyService{db: db, team: team}
}

type CompanyUpdateRequest struct {
	Name        string `json:"name"`
	Website     string `json:"website"`
	Logo        string `json:"logo"`
	Description string `json:"description"`
	Industry    string `json:"industry"`
	Location    string `json:"location"`
	Country     string `json:"country"`
}

// Get returns a company's public profile.
func (s *CompanyService) Get(companyID uint) (*models.Company, error) {
	var company models.Company
	if err := s.db.First(&company, companyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("company not found")
		}
		return nil, err
	}
	return &company, nil
}

// Update edits the company profile. The caller needs the editCompany
// capability.
func (s *CompanyService) Update(companyID, userID uint, req *CompanyUpdateRequest) (*models.Company, error) {
	company, err := s.Get(companyID)
	if err != nil {
		return nil, err
	}

	if err := s.team.Can(companyID, userID, func(p models.Permissions) bool { return p.EditCompany }); err != nil {
		return nil, err
	}

	if req.Name != "" {
		company.Name = req.Name
	}
	if req.Country != "" {
		if len(req.Country) != 2 {
			return nil, response.NewBadRequest("country must be a two-letter ISO code")
		}
		company.Country = req.Country
	}
	company.Website = req.Website
	company.Logo = req.Logo
	company.Description = req.Description
	company.Industry = req.Industry
	company.Location = req.Location

	if err := s.db.Save(company).Error; err != nil {
		return nil, err
	}
	return company, nil
}

// CompanyForUser resolves which company the user acts for: the one they own,
// or the one their accepted membership points at.
func (s *CompanyService) CompanyForUser(userID uint) (*models.Company, error) {
	var company models.Company
	err := s.db.Where("owner_id = ?", userID).First(&company).Error
	if err == nil {
		return &company, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var member models.TeamMember
	if err := s.db.Where("user_id = ? AND status = ?", userID, models.InviteStatusAccepted).
		First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewForbidden("no company associated with this account")
		}
		return nil, err
	}
	return s.Get(member.CompanyID)
}
