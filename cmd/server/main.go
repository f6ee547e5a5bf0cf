package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/onegreenvn/campaign-dashboard-backend/docs"
	"github.com/onegreenvn/campaign-dashboard-backend/internal/config"
	"github.com/onegreenvn/campaign-dashboard-backend/internal/database"
	"github.com/onegreenvn/campaign-dashboard-backend/internal/database/repository"
	"github.com/onegreenvn/campaign-dashboard-backend/internal/handlers"
	"github.com/onegreenvn/campaign-dashboard-backend/internal/middleware"
	"github.com/onegreenvn/campaign-dashboard-backend/internal/router"
	"github.com/onegreenvn/campaign-dashboard-backend/internal/services"
	"github.com/onegreenvn/campaign-dashboard-backend/internal/services/auth"
	"github.com/onegreenvn/campaign-dashboard-backend/internal/services/campaign"
	"github.com/onegreenvn/campaign-dashboard-backend/internal/services/excel"
	"github.com/onegreenvn/campaign-dashboard-backend/internal/storage"
	"github.com/onegreenvn/campaign-dashboard-backend/internal/utils"
)

// @title Campaign Dashboard API
// @version 1.0
// @description Accounts, campaign submission and media storage for the campaign dashboard
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://www.one-green.io/support
// @contact.email support@one-green.io

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @BasePath /
// @securityDefinitions.apikey SessionCookie
// @in cookie
// @name localSession

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	docs.SwaggerInfo.BasePath = cfg.BasePath
	configureLogging(cfg.LogLevel)
	gin.SetMode(cfg.GinMode)

	if err := utils.InitSentry(cfg.SentryDSN); err != nil {
		logrus.Warnf("Failed to initialize Sentry: %v", err)
	}
	defer utils.FlushSentry()

	if missing := cfg.Submission.Missing(); len(missing) > 0 {
		// Not fatal: submissions answer with a configuration error instead
		logrus.Warnf("Campaign submission is not configured, missing: %v", missing)
	}

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		logrus.Fatalf("Failed to initialize database: %v", err)
	}
	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db, cfg.Submission); err != nil {
			logrus.Fatalf("Failed to migrate database: %v", err)
		}
	}

	ctx := context.Background()
	objects, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		logrus.Fatalf("Failed to initialize object storage: %v", err)
	}

	// A nil publisher disables campaign events
	var publisher campaign.EventPublisher
	if cfg.RabbitMQURL != "" {
		rabbitMQService, err := services.NewRabbitMQService(cfg.RabbitMQURL,
			campaign.QueueCampaignEvents, campaign.QueueCampaignEnhancement)
		if err != nil {
			logrus.Warnf("Failed to initialize RabbitMQ: %v", err)
		} else {
			logrus.Info("RabbitMQ service initialized")
			defer rabbitMQService.Close()
			publisher = rabbitMQService
		}
	}

	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	bucketRepo := repository.NewBucketRepository(db)
	fileRepo := repository.NewFileRepository(db)

	tokens := auth.NewTokenService(cfg.Submission.SigningKey)
	authService := auth.NewAuthService(userRepo, sessionRepo, tokens, cfg.Session.TTL)

	sessionCleanupService := auth.NewSessionCleanupService(sessionRepo, cfg.Session.CleanupInterval)
	sessionCleanupService.Start()
	defer sessionCleanupService.Stop()

	fileService := services.NewFileService(objects, bucketRepo, fileRepo, cfg.Submission)

	var campaignService *services.CampaignService
	if table, err := database.CampaignTable(cfg.Submission.DatabaseID, cfg.Submission.CollectionID); err != nil {
		logrus.Warnf("Campaign queries disabled: %v", err)
	} else {
		campaignService = services.NewCampaignService(repository.NewCampaignRepository(db, table), authService)
	}

	submitter := campaign.NewSubmitter(cfg.Submission, cfg.Upload, tokens,
		campaign.StorageConnectorFunc(func(ctx context.Context, projectID, apiKey string) (campaign.ObjectStorage, error) {
			return fileService.AdminStorage(ctx, projectID, apiKey)
		}),
		campaign.DocumentConnectorFunc(func(ctx context.Context, sessionSecret string) (campaign.DocumentStore, error) {
			if campaignService == nil {
				return nil, fmt.Errorf("campaign collection is not configured")
			}
			return campaignService.SessionDocuments(ctx, sessionSecret)
		}),
		publisher,
	)

	var queries handlers.CampaignQueries
	if campaignService != nil {
		queries = campaignService
	}

	r := router.SetupRouter(router.Deps{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Session:        middleware.NewSessionMiddleware(tokens, cfg.Session.LocalTTL, cfg.Session.CookieSecure),
		Auth:           handlers.NewAuthHandler(authService, tokens, cfg.Session.CookieSecure),
		Campaigns:      handlers.NewCampaignHandler(submitter, queries, excel.NewExcelService()),
		Storage:        handlers.NewStorageHandler(fileService),
		Platforms:      handlers.NewPlatformHandler(),
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: r,
	}

	go func() {
		logrus.Infof("Server starting on port %s", cfg.Port)
		logrus.Infof("API Health Check: http://localhost:%s/api/v1/health", cfg.Port)
		logrus.Infof("Swagger UI: http://localhost:%s/swagger/index.html", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited properly")
}

func configureLogging(logLevel string) {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
}
