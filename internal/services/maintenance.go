package services

import (
	"time"

	"github.com/jobkit/jobkit/internal/models"
	"github.com/jobkit/jobkit/pkg/logger"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// Retention windows for the nightly sweeps.
const (
	inviteExpiryDays        = 14
	revokedTokenKeepDays    = 30
	notificationKeepDays    = 90
	maintenanceCronSchedule = "30 3 * * *"
)

// MaintenanceService runs the periodic cleanup sweeps: stale invites,
// dead refresh tokens and old notifications.
type MaintenanceService struct {
	db            *gorm.DB
	cronScheduler *cron.Cron
}

func NewMaintenanceService(db *gorm.DB) *MaintenanceService {
	return &MaintenanceService{db: db}
}

func (s *MaintenanceService) StartScheduler() {
	s.cronScheduler = cron.New()

	if _, err := s.cronScheduler.AddFunc(maintenanceCronSchedule, func() {
		s.RunSweeps()
	}); err != nil {
		logger.Error().Err(err).Msg("failed to register maintenance cron")
		return
	}

	s.cronScheduler.Start()
	logger.Info().Str("schedule", maintenanceCronSchedule).Msg("maintenance scheduler started")
}

func (s *MaintenanceService) StopScheduler() {
	if s.cronScheduler != nil {
		s.cronScheduler.Stop()
	}
}

// RunSweeps executes all sweeps once. Each sweep logs and continues on error.
func (s *MaintenanceService) RunSweeps() {
	s.ExpireStaleInvites()
	s.PurgeRefreshTokens()
	s.PurgeOldNotifications()
}

// ExpireStaleInvites flips PENDING invites older than the expiry window to
// EXPIRED.
func (s *MaintenanceService) ExpireStaleInvites() {
	cutoff := time.Now().AddDate(0, 0, -inviteExpiryDays)
	result := s.db.Model(&models.TeamMember{}).
		Where("status = ? AND invited_at < ?", models.InviteStatusPending, cutoff).
		Update("status", models.InviteStatusExpired)
	if result.Error != nil {
		logger.Error().Err(result.Error).Msg("invite expiry sweep failed")
		return
	}
	if result.RowsAffected > 0 {
		logger.Info().Int64("count", result.RowsAffected).Msg("expired stale invites")
	}
}

// PurgeRefreshTokens deletes tokens past expiry and tokens revoked longer
// than the keep window ago.
func (s *MaintenanceService) PurgeRefreshTokens() {
	now := time.Now()
	revokedCutoff := now.AddDate(0, 0, -revokedTokenKeepDays)
	result := s.db.
		Where("expires_at < ? OR (revoked_at IS NOT NULL AND revoked_at < ?)", now, revokedCutoff).
		Delete(&models.RefreshToken{})
	if result.Error != nil {
		logger.Error().Err(result.Error).Msg("refresh token sweep failed")
		return
	}
	if result.RowsAffected > 0 {
		logger.Info().Int64("count", result.RowsAffected).Msg("purged refresh tokens")
	}
}

// PurgeOldNotifications deletes notifications past the retention window.
func (s *MaintenanceService) PurgeOldNotifications() {
	cutoff := time.Now().AddDate(0, 0, -notificationKeepDays)
	result := s.db.Where("created_at < ?", cutoff).Delete(&models.Notification{})
	if result.Error != nil {
		logger.Error().Err(result.Error).Msg("notification sweep failed")
		return
	}
	if result.RowsAffected > 0 {
		logger.Info().Int64("count", result.RowsAffected).Msg("purged old notifications")
	}
}
