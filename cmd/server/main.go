// Package main runs the volunteer platform HTTP server with graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/greenvolunteer/backend/config"
	"github.com/greenvolunteer/backend/internal/auth"
	"github.com/greenvolunteer/backend/internal/comments"
	"github.com/greenvolunteer/backend/internal/contact"
	"github.com/greenvolunteer/backend/internal/donations"
	"github.com/greenvolunteer/backend/internal/emaillogs"
	"github.com/greenvolunteer/backend/internal/events"
	"github.com/greenvolunteer/backend/internal/favorites"
	"github.com/greenvolunteer/backend/internal/middleware"
	"github.com/greenvolunteer/backend/internal/notifications"
	"github.com/greenvolunteer/backend/internal/organizations"
	"github.com/greenvolunteer/backend/internal/registrations"
	"github.com/greenvolunteer/backend/internal/reports"
	"github.com/greenvolunteer/backend/internal/reviews"
	"github.com/greenvolunteer/backend/internal/stats"
	"github.com/greenvolunteer/backend/internal/volunteers"
	"github.com/greenvolunteer/backend/pkg/database"
	"github.com/greenvolunteer/backend/pkg/queue"
	"github.com/greenvolunteer/backend/pkg/redis"
	"github.com/greenvolunteer/backend/pkg/response"
	"github.com/greenvolunteer/backend/pkg/storage"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	s3Client, err := storage.NewS3(ctx, storage.S3Config{
		Region:          cfg.AWS.Region,
		AccessKeyID:     cfg.AWS.AccessKeyID,
		SecretAccessKey: cfg.AWS.SecretAccessKey,
		UploadsBucket:   cfg.AWS.UploadsBucket,
	}, logger)
	if err != nil {
		logger.Fatal("s3", zap.Error(err))
	}

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)
	jobQueue := queue.NewQueue(rdb.Client, logger)

	// Auth
	authRepo := auth.NewRepository(pool)
	authHandler := auth.NewHandler(authRepo, jwtService, logger)

	// Volunteers
	volunteerRepo := volunteers.NewRepository(pool)
	volunteerHandler := volunteers.NewHandler(volunteerRepo)

	// Organizations
	orgRepo := organizations.NewRepository(pool)
	orgHandler := organizations.NewHandler(orgRepo, s3Client, logger)

	// Events and categories
	eventRepo := events.NewRepository(pool)
	eventHandler := events.NewHandler(eventRepo, orgRepo, s3Client, logger)
	categoryRepo := events.NewCategoryRepository(pool)
	categoryHandler := events.NewCategoryHandler(categoryRepo)

	// Registrations (admission control + decision workflow)
	registrationRepo := registrations.NewRepository(pool)
	registrationSvc := registrations.NewService(registrationRepo, volunteerRepo, logger)
	registrationSvc.SetDecisionNotifier(notifications.NewDecisionNotifier(registrationRepo, eventRepo, jobQueue, logger))
	registrationHandler := registrations.NewHandler(registrationSvc, orgRepo, volunteerRepo, logger)

	// Favorites
	favoriteSvc := favorites.NewService(favorites.NewRepository(pool))
	favoriteHandler := favorites.NewHandler(favoriteSvc, logger)

	// Event comments
	commentSvc := comments.NewService(comments.NewRepository(pool))
	commentHandler := comments.NewHandler(commentSvc, orgRepo, logger)

	// Reports
	reportRepo := reports.NewRepository(pool)
	reportHandler := reports.NewHandler(reportRepo, logger)

	// Reviews
	reviewRepo := reviews.NewRepository(pool)
	reviewHandler := reviews.NewHandler(reviewRepo, orgRepo, logger)

	// Donations (momo gateway)
	donationRepo := donations.NewRepository(pool)
	momoClient := donations.NewMomoClient(cfg.Momo)
	donationHandler := donations.NewHandler(donationRepo, momoClient, logger)

	// Stats and email logs
	statsHandler := stats.NewHandler(stats.NewRepository(pool), logger)
	emailLogsHandler := emaillogs.NewHandler(emaillogs.NewRepository(pool))

	// Contact form
	contactHandler := contact.NewHandler(jobQueue, cfg.Email.ContactInbox, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	// Health
	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	// Auth (public)
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
	}

	// Public browsing
	router.GET("/events", eventHandler.ListPublic)
	router.GET("/events/:id", eventHandler.GetPublic)
	router.GET("/events/:id/registrations/counts", registrationHandler.Counts)
	router.GET("/events/:id/favorites/count", favoriteHandler.Count)
	router.GET("/events/:id/comments", commentHandler.List)
	router.GET("/categories", categoryHandler.List)
	router.GET("/organizations", orgHandler.ListPublic)
	router.GET("/organizations/:id", orgHandler.GetPublic)
	router.GET("/organizations/:id/reviews", reviewHandler.ListByOrganization)

	// Donations and payment gateway callback (public)
	router.POST("/donations", donationHandler.Create)
	router.POST("/payments/momo/ipn", donationHandler.IPN)

	// Contact form (public)
	router.POST("/contact", contactHandler.Submit)

	// Protected API (JWT required)
	api := router.Group("")
	api.Use(middleware.JWT(jwtService))
	{
		// Users (admin only)
		api.GET("/users", middleware.RequireRole("admin"), authHandler.List)

		// Volunteer profile
		api.GET("/me/volunteer", volunteerHandler.GetMe)
		api.PATCH("/me/volunteer", volunteerHandler.UpdateMe)

		// Registrations
		api.POST("/events/:id/register", registrationHandler.Register)
		api.GET("/me/registrations", registrationHandler.ListMine)
		api.GET("/events/:id/registrations", middleware.RequireRole("organizer", "admin"), registrationHandler.ListByEvent)
		api.PATCH("/registrations/:id/approve", middleware.RequireRole("organizer", "admin"), registrationHandler.Approve)
		api.PATCH("/registrations/:id/reject", middleware.RequireRole("organizer", "admin"), registrationHandler.Reject)

		// Favorites and reports
		api.POST("/events/:id/favorite", favoriteHandler.Toggle)
		api.GET("/me/favorites", favoriteHandler.ListMine)
		api.POST("/events/:id/report", reportHandler.Create)

		// Event comments
		api.POST("/events/:id/comments", commentHandler.Post)
		api.DELETE("/comments/:id", commentHandler.Delete)

		// Reviews
		api.POST("/organizations/:id/reviews", reviewHandler.Create)

		// Organization profile
		api.POST("/organizations", middleware.RequireRole("organizer"), orgHandler.Register)
		api.GET("/me/organization", middleware.RequireRole("organizer"), orgHandler.GetMe)
		api.PUT("/me/organization", middleware.RequireRole("organizer"), orgHandler.UpdateMe)

		// Organizer event management
		organizer := api.Group("", middleware.RequireRole("organizer", "admin"))
		{
			organizer.POST("/events", eventHandler.Create)
			organizer.GET("/me/events", eventHandler.ListMine)
			organizer.PUT("/events/:id", eventHandler.Update)
			organizer.DELETE("/events/:id", eventHandler.Delete)
			organizer.PATCH("/events/:id/submit", eventHandler.Submit)
			organizer.PATCH("/events/:id/complete", eventHandler.Complete)
		}

		// Admin
		admin := api.Group("/admin", middleware.RequireRole("admin"))
		{
			admin.GET("/organizations", orgHandler.ListAll)
			admin.PATCH("/organizations/:id/approve", orgHandler.Approve)
			admin.PATCH("/organizations/:id/verify", orgHandler.Verify)
			admin.PATCH("/organizations/:id/deactivate", orgHandler.Deactivate)

			admin.GET("/events", eventHandler.ListAll)
			admin.PATCH("/events/:id/approve", eventHandler.Approve)
			admin.PATCH("/events/:id/reject", eventHandler.Reject)
			admin.PATCH("/events/:id/hide", eventHandler.Hide)
			admin.PATCH("/events/:id/unhide", eventHandler.Unhide)
			admin.GET("/events/:id/reports", reportHandler.ListByEvent)
			admin.GET("/events/:id/emails", emailLogsHandler.ListByEvent)

			admin.GET("/reports", reportHandler.List)
			admin.GET("/reports/:id", reportHandler.Get)
			admin.PATCH("/reports/:id", reportHandler.UpdateStatus)
			admin.DELETE("/reports/:id", reportHandler.Delete)

			admin.DELETE("/reviews/:id", reviewHandler.Delete)

			admin.POST("/categories", categoryHandler.Create)
			admin.DELETE("/categories/:id", categoryHandler.Delete)

			admin.GET("/donations", donationHandler.List)
			admin.GET("/emails", emailLogsHandler.ListRecent)

			admin.GET("/stats/monthly", statsHandler.Monthly)
			admin.GET("/stats/dashboard", statsHandler.Dashboard)
			admin.GET("/stats/top-favorites", statsHandler.TopFavorites)
		}
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
