package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/odo-atelier/budget-api/docs"
	"github.com/odo-atelier/budget-api/internal/auth"
	"github.com/odo-atelier/budget-api/internal/config"
	"github.com/odo-atelier/budget-api/internal/database"
	"github.com/odo-atelier/budget-api/internal/http/handler"
	"github.com/odo-atelier/budget-api/internal/http/middleware"
	"github.com/odo-atelier/budget-api/internal/http/router"
	"github.com/odo-atelier/budget-api/internal/jobs"
	"github.com/odo-atelier/budget-api/internal/logger"
	"github.com/odo-atelier/budget-api/internal/repository"
	"github.com/odo-atelier/budget-api/internal/service"
	"github.com/odo-atelier/budget-api/internal/storage"
	"github.com/odo-atelier/budget-api/internal/store"
	"go.uber.org/zap"
)

// @title Odo Budget API
// @version 1.0
// @description Cost budgeting and pricing API for the Odò garment workshop
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email suporte@odo.com.br

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-api-key
// @description API Key for system operations
// @Security BearerAuth
// @Security ApiKeyAuth

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load basic configuration first (for logging setup)
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	switch basicCfg.App.Environment {
	case "staging":
		docs.SwaggerInfo.Host = "odo-budget-staging.azurecontainerapps.io"
	case "production":
		docs.SwaggerInfo.Host = "api.odo.com.br"
	default:
		docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)
	}

	// Secrets come from the environment in development and from Key Vault in staging/production
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	db, err := database.NewDatabase(&cfg.Database, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if cfg.Database.AutoMigrate {
		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		log.Info("Database schema migrated automatically")
	}

	fileStorage, err := storage.NewStorage(&cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

	// Repositories
	itemRepo := repository.NewItemRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	exportFileRepo := repository.NewExportFileRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	userRepo := repository.NewUserRepository(db)
	revokedTokenRepo := repository.NewRevokedTokenRepository(db)

	// Services
	notificationService := service.NewNotificationService(notificationRepo, log)
	backend := store.NewRemoteBackend(itemRepo, projectRepo, notificationService, log)
	projectService := service.NewProjectService(projectRepo, backend, notificationService, log)
	budgetService := service.NewBudgetService(log)
	exportService := service.NewExportService(projectService, exportFileRepo, fileStorage, log)
	authService := service.NewAuthService(userRepo, revokedTokenRepo, log)

	var seed func() store.Seed
	if cfg.Workspace.SeedSample {
		seed = store.SampleSeed
	}
	workspaceService := service.NewWorkspaceService(store.NewMemoryRegistry(seed), cfg.Workspace.Name, log)

	// Middleware
	authMiddleware := auth.NewMiddleware(cfg, authService, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Handlers
	handlers := router.Handlers{
		Auth:          handler.NewAuthHandler(authService, log),
		Project:       handler.NewProjectHandler(projectService, log),
		ProjectBudget: handler.NewBudgetHandler(budgetService, exportService, handler.ProjectWorkspace(projectService), log),
		ScratchBudget: handler.NewBudgetHandler(budgetService, exportService, handler.ScratchWorkspace(workspaceService), log),
		Workspace:     handler.NewWorkspaceHandler(workspaceService, budgetService, log),
		Export:        handler.NewExportHandler(exportService, log),
		Notification:  handler.NewNotificationHandler(notificationService, log),
	}

	rt := router.NewRouter(cfg, log, db, authMiddleware, rateLimiter, handlers)

	// Background jobs
	var scheduler *jobs.Scheduler
	if cfg.Jobs.Enabled {
		scheduler = jobs.NewScheduler(log)
		if err := scheduler.Add(cfg.Jobs.ExportArchiveSpec,
			jobs.NewExportArchiveJob(exportService, log, cfg.Jobs.ExportArchiveTimeoutDuration())); err != nil {
			return fmt.Errorf("failed to register export archive job: %w", err)
		}
		if err := scheduler.Add(cfg.Jobs.CleanupSpec,
			jobs.NewCleanupJob(authService, notificationService, cfg.Jobs.NotificationRetention(), log, cfg.Jobs.CleanupTimeoutDuration())); err != nil {
			return fmt.Errorf("failed to register cleanup job: %w", err)
		}
		scheduler.Start()
	} else {
		log.Info("Background jobs disabled")
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		if scheduler != nil {
			<-scheduler.Stop().Done()
			log.Info("Scheduler stopped")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		if err := database.Close(db); err != nil {
			log.Warn("Error closing database connection", zap.Error(err))
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
