package main

import (
	"context"

	"github.com/repustack/repustack/backend/internal/config"
	"github.com/repustack/repustack/backend/internal/handlers"
	"github.com/repustack/repustack/backend/internal/models"
	"github.com/repustack/repustack/backend/internal/services"
	"github.com/repustack/repustack/backend/internal/utils"
	"github.com/repustack/repustack/backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// appServices holds all initialized services and handlers needed by the application.
type appServices struct {
	cfg          *config.Config
	distribution *services.DistributionService
	responses    *services.ResponseService
	taskQueue    services.TaskQueue
	worker       *services.Worker
	cleanupCron  *cron.Cron
	authHandler  *handlers.AuthHandler
}

// bootstrap initializes all application dependencies: database, services, schedulers.
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

	// Seed default data
	if err := models.SeedDefaultData(); err != nil {
		logger.Warn().Err(err).Msg("Failed to seed default data")
	}

	db := models.GetDB()

	// Initialize activity logger and retention cleanup
	services.InitActivityLogger(db)
	cleanupCron := services.StartLogCleanupScheduler(db, &cfg.Logs)

	// Domain services
	classifier := services.NewClassifier(&cfg.Sentiment)
	registry := services.NewSenderRegistry(cfg)
	distribution := services.NewDistributionService(db, registry, cfg.Public.BaseURL)
	responses := services.NewResponseService(db, classifier)
	requests := services.NewFeedbackRequestService(db)

	// processDistribution is shared by the sync queue and the async
	// worker: deliver the fan-out, then mark the request sent. Partial
	// delivery failure still counts as sent.
	processDistribution := func(ctx context.Context, task *services.DistributionTask) error {
		request, err := requests.GetByID(task.BusinessID, task.RequestID)
		if err != nil {
			return err
		}
		if request.Status != models.StatusPending {
			logger.Infof("[Distribution] request %d already %s, skipping", request.ID, request.Status)
			return nil
		}

		result, err := distribution.Distribute(ctx, request)
		if err != nil {
			return err
		}
		if err := requests.MarkSent(task.BusinessID, task.RequestID); err != nil {
			return err
		}
		logger.Infof("[Distribution] request %d sent: %d delivered, %d failed",
			request.ID, result.SuccessCount, result.FailureCount)
		return nil
	}

	// Initialize task queue (uses Redis if enabled, otherwise sync mode)
	taskQueue := services.InitTaskQueue(cfg)
	if syncQueue, ok := taskQueue.(*services.SyncQueue); ok {
		syncQueue.SetProcessor(processDistribution)
	}

	// Start async worker if Redis is enabled
	var worker *services.Worker
	if cfg.Redis.Enabled {
		worker = services.InitWorker(&cfg.Redis)
		if worker != nil {
			worker.SetProcessor(processDistribution)
			worker.Start()
		}
	}

	// Create default admin user
	authHandler := handlers.NewAuthHandler(db, cfg)
	if err := authHandler.CreateAdminIfNotExists(); err != nil {
		logger.Warn().Err(err).Msg("Failed to create admin user")
	}

	return &appServices{
		cfg:          cfg,
		distribution: distribution,
		responses:    responses,
		taskQueue:    taskQueue,
		worker:       worker,
		cleanupCron:  cleanupCron,
		authHandler:  authHandler,
	}
}

// shutdown gracefully stops all services.
func (s *appServices) shutdown() {
	if s.cleanupCron != nil {
		s.cleanupCron.Stop()
	}
	if s.worker != nil {
		s.worker.Stop()
	}
	if s.taskQueue != nil {
		s.taskQueue.Close()
	}
	logger.Info().Msg("All background services stopped")
}
