package main

import (
	"github.com/jobkit/jobkit/internal/config"
	"github.com/jobkit/jobkit/internal/handlers"
	"github.com/jobkit/jobkit/internal/models"
	"github.com/jobkit/jobkit/internal/services"
	"github.com/jobkit/jobkit/internal/utils"
	"github.com/jobkit/jobkit/pkg/logger"
)

// appServices holds all initialized services and handlers needed by the application.
type appServices struct {
	taskQueue   services.TaskQueue
	worker      *services.Worker
	maintenance *services.MaintenanceService
	sseHub      *services.SSEHub

	authHandler         *handlers.AuthHandler
	companyHandler      *handlers.CompanyHandler
	jobHandler          *handlers.JobHandler
	applicationHandler  *handlers.ApplicationHandler
	teamHandler         *handlers.TeamHandler
	messageHandler      *handlers.MessageHandler
	notificationHandler *handlers.NotificationHandler
	resumeHandler       *handlers.ResumeHandler
	coverLetterHandler  *handlers.CoverLetterHandler
	mediaHandler        *handlers.MediaHandler
	interviewHandler    *handlers.InterviewHandler
	sseHandler          *handlers.SSEHandler
	healthHandler       *handlers.HealthHandler
}

// bootstrap initializes all application dependencies: database, services,
// schedulers.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	// Initialize database
	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto migrate database
	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	db := models.GetDB()

	// Mail side effects run through the task queue: async over Redis when
	// enabled, in-process otherwise.
	emailService := services.NewEmailService(&cfg.SMTP)
	taskQueue := services.NewTaskQueue(cfg)
	if syncQueue, ok := taskQueue.(*services.SyncQueue); ok {
		syncQueue.SetProcessor(emailService.Process)
	}

	var worker *services.Worker
	if cfg.Redis.Enabled {
		worker = services.NewWorker(&cfg.Redis)
		worker.SetProcessor(emailService.Process)
		if err := worker.Start(); err != nil {
			logger.Warn().Err(err).Msg("mail worker failed to start")
		}
	}

	sseHub := services.NewSSEHub()
	notificationService := services.NewNotificationService(db, sseHub)

	authService := services.NewAuthService(db, &cfg.JWT, taskQueue, emailService)
	teamService := services.NewTeamService(db, taskQueue, emailService)
	companyService := services.NewCompanyService(db, teamService)
	jobService := services.NewJobService(db, teamService)
	applicationService := services.NewApplicationService(db, teamService, notificationService, taskQueue, emailService)
	messagingService := services.NewMessagingService(db, notificationService)
	resumeService := services.NewResumeService(db)
	coverLetterService := services.NewCoverLetterService(db, &cfg.LLM, resumeService)
	mediaService := services.NewMediaService(&cfg.Media)
	calendarService := services.NewCalendarService()
	interviewService := services.NewInterviewService(db, teamService, calendarService, notificationService)

	maintenanceService := services.NewMaintenanceService(db)
	maintenanceService.StartScheduler()

	return &appServices{
		taskQueue:   taskQueue,
		worker:      worker,
		maintenance: maintenanceService,
		sseHub:      sseHub,

		authHandler:         handlers.NewAuthHandler(authService),
		companyHandler:      handlers.NewCompanyHandler(companyService),
		jobHandler:          handlers.NewJobHandler(jobService, companyService),
		applicationHandler:  handlers.NewApplicationHandler(applicationService),
		teamHandler:         handlers.NewTeamHandler(teamService, companyService),
		messageHandler:      handlers.NewMessageHandler(messagingService, companyService),
		notificationHandler: handlers.NewNotificationHandler(notificationService),
		resumeHandler:       handlers.NewResumeHandler(resumeService),
		coverLetterHandler:  handlers.NewCoverLetterHandler(coverLetterService),
		mediaHandler:        handlers.NewMediaHandler(mediaService),
		interviewHandler:    handlers.NewInterviewHandler(interviewService, companyService),
		sseHandler:          handlers.NewSSEHandler(sseHub),
		healthHandler:       handlers.NewHealthHandler(db, taskQueue, sseHub),
	}
}

// shutdown gracefully stops all services.
func (s *appServices) shutdown() {
	s.maintenance.StopScheduler()
	logger.Info().Msg("Schedulers stopped")

	if s.worker != nil {
		s.worker.Stop()
	}
	if s.taskQueue != nil {
		s.taskQueue.Close()
	}
}
