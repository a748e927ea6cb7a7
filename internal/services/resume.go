package services

import (
	"encoding/json"
	"errors"

	"github.com/jobkit/jobkit/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ResumeService struct {
	db *gorm.DB
}

func NewResumeService(db *gorm.DB) *ResumeService {
	return &ResumeService{db: db}
}

type ResumeRequest struct {
	Headline   string          `json:"headline"`
	Summary    string          `json:"summary"`
	Education  json.RawMessage `json:"education"`
	Experience json.RawMessage `json:"experience"`
	Projects   json.RawMessage `json:"projects"`
	Skills     json.RawMessage `json:"skills"`
	Languages  json.RawMessage `json:"languages"`
}

// Get returns the user's resume, creating an empty one on first access.
func (s *ResumeService) Get(userID uint) (*models.Resume, error) {
	var resume models.Resume
	err := s.db.Where("user_id = ?", userID).First(&resume).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		resume = models.Resume{UserID: userID}
		if err := s.db.Create(&resume).Error; err != nil {
			// Lost a race with a concurrent first access; re-fetch.
			if ferr := s.db.Where("user_id = ?", userID).First(&resume).Error; ferr != nil {
				return nil, err
			}
		}
		return &resume, nil
	}
	if err != nil {
		return nil, err
	}
	return &resume, nil
}

// Update replaces the resume's fields and sections wholesale.
func (s *ResumeService) Update(userID uint, req *ResumeRequest) (*models.Resume, error) {
	resume, err := s.Get(userID)
	if err != nil {
		return nil, err
	}

	resume.Headline = req.Headline
	resume.Summary = req.Summary
	resume.Education = sectionJSON(req.Education)
	resume.Experience = sectionJSON(req.Experience)
	resume.Projects = sectionJSON(req.Projects)
	resume.Skills = sectionJSON(req.Skills)
	resume.Languages = sectionJSON(req.Languages)

	if err := s.db.Save(resume).Error; err != nil {
		return nil, err
	}
	return resume, nil
}

// ResumePreview bundles the resume with the owner's profile fields so a
// client can render the document without a second request.
type ResumePreview struct {
	Name     string         `json:"name"`
	Email    string         `json:"email"`
	Phone    string         `json:"phone,omitempty"`
	Location string         `json:"location,omitempty"`
	Avatar   string         `json:"avatar,omitempty"`
	Resume   *models.Resume `json:"resume"`
}

// Preview returns the resume together with the owner's contact details.
func (s *ResumeService) Preview(userID uint) (*ResumePreview, error) {
	resume, err := s.Get(userID)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, err
	}

	return &ResumePreview{
		Name:     user.Name,
		Email:    user.Email,
		Phone:    user.Phone,
		Location: user.Location,
		Avatar:   user.Avatar,
		Resume:   resume,
	}, nil
}

// sectionJSON normalizes an absent section to an empty JSON array so clients
// never see null sections.
func sectionJSON(raw json.RawMessage) datatypes.JSON {
	if len(raw) == 0 {
		return datatypes.JSON([]byte("[]"))
	}
	return datatypes.JSON(raw)
}
