package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/jobkit/jobkit/internal/config"
	"github.com/jobkit/jobkit/internal/models"
	"github.com/jobkit/jobkit/internal/utils"
	"github.com/jobkit/jobkit/pkg/logger"
	"github.com/jobkit/jobkit/pkg/response"
	"gorm.io/gorm"
)

type AuthService struct {
	db        *gorm.DB
	jwtConfig *config.JWTConfig
	queue     TaskQueue
	email     *EmailService
}

func NewAuthService(db *gorm.DB, jwtCfg *config.JWTConfig, queue TaskQueue, email *EmailService) *AuthService {
	return &AuthService{db: db, jwtConfig: jwtCfg, queue: queue, email: email}
}

type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	Name        string `json:"name" binding:"required"`
	Kind        string `json:"kind" binding:"required,oneof=seeker company"`
	CompanyName string `json:"company_name"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResult struct {
	AccessToken     string
	AccessExpireAt  time.Time
	RefreshToken    string
	RefreshExpireAt time.Time
	User            *models.User
}

type RefreshResult struct {
	AccessToken     string
	AccessExpireAt  time.Time
	RefreshToken    string
	RefreshExpireAt time.Time
}

// Register creates an account. Company accounts also get their Company row and
// an ACCEPTED ADMIN team membership for the owner, all in one transaction.
func (s *AuthService) Register(req *RegisterRequest) (*models.User, error) {
	var existing int64
	s.db.Model(&models.User{}).Where("email = ?", req.Email).Count(&existing)
	if existing > 0 {
		return nil, response.NewConflict("an account with this email already exists")
	}

	if req.Kind == models.UserKindCompany && req.CompanyName == "" {
		return nil, response.NewBadRequest("company_name is required for company accounts")
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Email:    req.Email,
		Password: hash,
		Name:     req.Name,
		Kind:     req.Kind,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		if req.Kind != models.UserKindCompany {
			return nil
		}

		company := models.Company{
			Name:    req.CompanyName,
			OwnerID: user.ID,
		}
		if err := tx.Create(&company).Error; err != nil {
			return err
		}
		if err := tx.Model(&user).Update("company_id", company.ID).Error; err != nil {
			return err
		}
		user.CompanyID = &company.ID

		now := time.Now()
		owner := models.TeamMember{
			CompanyID:  company.ID,
			UserID:     &user.ID,
			Email:      user.Email,
			Name:       user.Name,
			Role:       models.RoleAdmin,
			Status:     models.InviteStatusAccepted,
			InvitedAt:  now,
			AcceptedAt: &now,
		}
		defaults, _ := models.RolePermissions(models.RoleAdmin)
		owner.ApplyPermissions(defaults)
		return tx.Create(&owner).Error
	})
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// Login authenticates by email and password and issues an access token plus a
// rotating refresh token.
func (s *AuthService) Login(req *LoginRequest, clientIP, userAgent string) (*LoginResult, error) {
	var user models.User
	if err := s.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewUnauthorized("invalid email or password")
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, response.NewUnauthorized("account is disabled")
	}
	if !utils.CheckPassword(req.Password, user.Password) {
		return nil, response.NewUnauthorized("invalid email or password")
	}

	token, err := utils.GenerateToken(user.ID, user.Email, user.Kind, s.jwtConfig.AccessExpireHour)
	if err != nil {
		return nil, err
	}

	refreshToken, refreshHash, err := generateRefreshToken()
	if err != nil {
		return nil, err
	}

	refreshExpireAt := time.Now().Add(time.Duration(s.jwtConfig.RefreshExpireHour) * time.Hour)
	refreshRecord := models.RefreshToken{
		UserID:      user.ID,
		TokenHash:   refreshHash,
		ExpiresAt:   refreshExpireAt,
		CreatedByIP: clientIP,
		UserAgent:   userAgent,
	}
	if err := s.db.Create(&refreshRecord).Error; err != nil {
		return nil, err
	}

	now := time.Now()
	user.LastLogin = &now
	s.db.Save(&user)

	return &LoginResult{
		AccessToken:     token,
		AccessExpireAt:  time.Now().Add(time.Duration(s.jwtConfig.AccessExpireHour) * time.Hour),
		RefreshToken:    refreshToken,
		RefreshExpireAt: refreshExpireAt,
		User:            &user,
	}, nil
}

// Refresh rotates a refresh token: the old one is revoked and replaced inside
// one transaction.
func (s *AuthService) Refresh(refreshToken string, clientIP, userAgent string) (*RefreshResult, error) {
	if refreshToken == "" {
		return nil, response.NewBadRequest("refresh token required")
	}

	hash := hashRefreshToken(refreshToken)

	var stored models.RefreshToken
	if err := s.db.Where("token_hash = ?", hash).First(&stored).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewUnauthorized("invalid refresh token")
		}
		return nil, err
	}

	if stored.RevokedAt != nil {
		return nil, response.NewUnauthorized("refresh token revoked")
	}
	if time.Now().After(stored.ExpiresAt) {
		return nil, response.NewUnauthorized("refresh token expired")
	}

	var user models.User
	if err := s.db.First(&user, stored.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewUnauthorized("user not found")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, response.NewUnauthorized("account is disabled")
	}

	newAccessToken, err := utils.GenerateToken(user.ID, user.Email, user.Kind, s.jwtConfig.AccessExpireHour)
	if err != nil {
		return nil, err
	}

	newRefreshToken, newRefreshHash, err := generateRefreshToken()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	newRefresh := models.RefreshToken{
		UserID:      user.ID,
		TokenHash:   newRefreshHash,
		ExpiresAt:   now.Add(time.Duration(s.jwtConfig.RefreshExpireHour) * time.Hour),
		CreatedByIP: clientIP,
		UserAgent:   userAgent,
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&newRefresh).Error; err != nil {
			return err
		}
		return tx.Model(&stored).Updates(map[string]interface{}{
			"revoked_at":           now,
			"replaced_by_token_id": newRefresh.ID,
		}).Error
	}); err != nil {
		return nil, err
	}

	return &RefreshResult{
		AccessToken:     newAccessToken,
		AccessExpireAt:  time.Now().Add(time.Duration(s.jwtConfig.AccessExpireHour) * time.Hour),
		RefreshToken:    newRefreshToken,
		RefreshExpireAt: newRefresh.ExpiresAt,
	}, nil
}

// RevokeRefreshToken revokes a refresh token on logout. Unknown tokens are a
// no-op.
func (s *AuthService) RevokeRefreshToken(refreshToken string) error {
	if refreshToken == "" {
		return nil
	}

	hash := hashRefreshToken(refreshToken)
	now := time.Now()
	return s.db.Model(&models.RefreshToken{}).
		Where("token_hash = ? AND revoked_at IS NULL", hash).
		Update("revoked_at", now).Error
}

// RequestPasswordReset emails a short-lived reset token. Always succeeds from
// the caller's perspective so account existence is not leaked.
func (s *AuthService) RequestPasswordReset(email string) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return
	}

	token, err := utils.GenerateResetToken(user.ID, s.jwtConfig.ResetExpireHour)
	if err != nil {
		logger.Warn().Err(err).Msg("reset token generation failed")
		return
	}

	if s.queue == nil || s.email == nil {
		return
	}
	task := &MailTask{
		To:      []string{user.Email},
		Subject: "[JobKit] Password reset",
		Body:    s.email.ResetBody(user.Name, token),
	}
	if err := s.queue.Enqueue(task); err != nil {
		logger.Warn().Err(err).Str("email", email).Msg("reset mail enqueue failed")
	}
}

// ResetPassword sets a new password from a valid reset token and revokes all
// of the user's refresh tokens.
func (s *AuthService) ResetPassword(token, newPassword string) error {
	if len(newPassword) < 8 {
		return response.NewBadRequest("password must be at least 8 characters")
	}

	userID, err := utils.ParseResetToken(token)
	if err != nil {
		return response.NewUnauthorized("invalid or expired reset token")
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}

	now := time.Now()
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).Where("id = ?", userID).
			Update("password", hash).Error; err != nil {
			return err
		}
		return tx.Model(&models.RefreshToken{}).
			Where("user_id = ? AND revoked_at IS NULL", userID).
			Update("revoked_at", now).Error
	})
}

// ChangePassword verifies the old password before setting a new one.
func (s *AuthService) ChangePassword(userID uint, oldPassword, newPassword string) error {
	if len(newPassword) < 8 {
		return response.NewBadRequest("password must be at least 8 characters")
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return response.NewNotFound("user not found")
	}
	if !utils.CheckPassword(oldPassword, user.Password) {
		return response.NewUnauthorized("current password is incorrect")
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.db.Model(&user).Update("password", hash).Error
}

type ProfileUpdateRequest struct {
	Name     string `json:"name"`
	Avatar   string `json:"avatar"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
}

// UpdateProfile edits the caller's own profile fields.
func (s *AuthService) UpdateProfile(userID uint, req *ProfileUpdateRequest) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("user not found")
		}
		return nil, err
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	user.Avatar = req.Avatar
	user.Phone = req.Phone
	user.Location = req.Location

	if err := s.db.Save(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByID returns a user by id.
func (s *AuthService) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteAccount removes the user and their dependent rows in one transaction.
// Company owners also take their company, its jobs and team with them.
func (s *AuthService) DeleteAccount(userID uint) error {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NewNotFound("user not found")
		}
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.RefreshToken{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Resume{}).Error; err != nil {
			return err
		}
		if err := tx.Where("applicant_id = ?", userID).Delete(&models.JobApplication{}).Error; err != nil {
			return err
		}

		if user.Kind == models.UserKindCompany {
			var company models.Company
			if err := tx.Where("owner_id = ?", userID).First(&company).Error; err == nil {
				if err := tx.Where("company_id = ?", company.ID).Delete(&models.TeamMember{}).Error; err != nil {
					return err
				}
				if err := tx.Where("company_id = ?", company.ID).Delete(&models.Job{}).Error; err != nil {
					return err
				}
				if err := tx.Delete(&company).Error; err != nil {
					return err
				}
			}
		}

		return tx.Delete(&user).Error
	})
}

func generateRefreshToken() (token string, tokenHash string, err error) {
	randomBytes := make([]byte, 32)
	if _, err = rand.Read(randomBytes); err != nil {
		return "", "", err
	}
	token = hex.EncodeToString(randomBytes)
	tokenHash = hashRefreshToken(token)
	return token, tokenHash, nil
}

func hashRefreshToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
