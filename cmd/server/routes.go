package main

import (
	"github.com/gin-gonic/gin"
	"github.com/jobkit/jobkit/internal/middleware"
	"github.com/jobkit/jobkit/pkg/logger"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	// Middleware
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS())

	// Rate limiter for unauthenticated auth routes
	authLimiter := middleware.NewRateLimiter(10, 20)

	// Health check
	r.GET("/health", svc.healthHandler.CheckHealth)

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public, rate limited)
		auth := api.Group("/auth", authLimiter.Middleware())
		{
			auth.POST("/register", svc.authHandler.Register)
			auth.POST("/login", svc.authHandler.Login)
			auth.POST("/refresh", svc.authHandler.Refresh)
			auth.POST("/forgot-password", svc.authHandler.ForgotPassword)
			auth.POST("/reset-password", svc.authHandler.ResetPassword)
		}

		// Public catalog
		api.GET("/jobs", svc.jobHandler.List)
		api.GET("/jobs/:id", svc.jobHandler.GetByID)
		api.GET("/companies/:id", svc.companyHandler.GetByID)

		// SSE stream (public route with internal token validation; the
		// browser EventSource API cannot set an Authorization header)
		api.GET("/notifications/stream", svc.sseHandler.Stream)

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired())
		{
			// Auth and profile
			protected.GET("/auth/me", svc.authHandler.Me)
			protected.PUT("/auth/me", svc.authHandler.UpdateProfile)
			protected.DELETE("/auth/me", svc.authHandler.DeleteAccount)
			protected.POST("/auth/logout", svc.authHandler.Logout)
			protected.POST("/auth/change-password", svc.authHandler.ChangePassword)

			// Media
			protected.POST("/media", svc.mediaHandler.Upload)
			protected.DELETE("/media/:id", svc.mediaHandler.Delete)

			// Messaging (both sides)
			protected.POST("/messages/threads", svc.messageHandler.OpenThread)
			protected.GET("/messages/threads", svc.messageHandler.ListThreads)
			protected.GET("/messages/threads/:id", svc.messageHandler.ListMessages)
			protected.POST("/messages/threads/:id", svc.messageHandler.Send)
			protected.GET("/messages/stats", svc.messageHandler.Stats)

			// Notifications
			protected.GET("/notifications", svc.notificationHandler.List)
			protected.PUT("/notifications/read-all", svc.notificationHandler.MarkAllRead)
			protected.PUT("/notifications/:id/read", svc.notificationHandler.MarkRead)
			protected.DELETE("/notifications", svc.notificationHandler.Clear)

			// Interviews (status changes allowed for both sides)
			protected.PUT("/interviews/:id/status", svc.interviewHandler.UpdateStatus)

			// Team invitations land on the invitee's account
			protected.POST("/team/invites/accept", svc.teamHandler.AcceptInvite)
			protected.POST("/team/invites/reject", svc.teamHandler.RejectInvite)
		}

		// Seeker-only routes
		seeker := api.Group("")
		seeker.Use(middleware.AuthRequired(), middleware.SeekerRequired())
		{
			seeker.POST("/applications", svc.applicationHandler.Apply)
			seeker.GET("/applications", svc.applicationHandler.ListMine)
			seeker.GET("/applications/:id", svc.applicationHandler.GetByID)
			seeker.POST("/applications/:id/withdraw", svc.applicationHandler.Withdraw)

			seeker.GET("/resume", svc.resumeHandler.Get)
			seeker.GET("/resume/preview", svc.resumeHandler.Preview)
			seeker.PUT("/resume", svc.resumeHandler.Update)

			seeker.POST("/cover-letters", svc.coverLetterHandler.Generate)

			seeker.GET("/interviews", svc.interviewHandler.ListMine)
		}

		// Company-side routes; fine-grained capabilities are enforced in the
		// services
		company := api.Group("/company")
		company.Use(middleware.AuthRequired(), middleware.CompanyRequired())
		{
			company.GET("", svc.companyHandler.GetMine)
			company.PUT("", svc.companyHandler.Update)

			company.GET("/jobs", svc.jobHandler.ListForCompany)
			company.POST("/jobs", svc.jobHandler.Create)
			company.PUT("/jobs/:id", svc.jobHandler.Update)
			company.DELETE("/jobs/:id", svc.jobHandler.Delete)
			company.GET("/jobs/:id/applications", svc.applicationHandler.ListForJob)

			company.PUT("/applications/:id/status", svc.applicationHandler.UpdateStatus)

			company.GET("/team", svc.teamHandler.List)
			company.POST("/team/invites", svc.teamHandler.Invite)
			company.PUT("/team/:id", svc.teamHandler.Update)
			company.DELETE("/team/:id", svc.teamHandler.Remove)

			company.GET("/interviews", svc.interviewHandler.ListForCompany)
			company.POST("/interviews", svc.interviewHandler.Schedule)
		}
	}
}
