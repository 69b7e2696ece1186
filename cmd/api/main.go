package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/veltra-services/fieldservice-api/docs"
	"github.com/veltra-services/fieldservice-api/internal/auth"
	"github.com/veltra-services/fieldservice-api/internal/config"
	"github.com/veltra-services/fieldservice-api/internal/database"
	"github.com/veltra-services/fieldservice-api/internal/directory"
	"github.com/veltra-services/fieldservice-api/internal/http/handler"
	"github.com/veltra-services/fieldservice-api/internal/http/middleware"
	"github.com/veltra-services/fieldservice-api/internal/http/router"
	"github.com/veltra-services/fieldservice-api/internal/jobs"
	"github.com/veltra-services/fieldservice-api/internal/logger"
	"github.com/veltra-services/fieldservice-api/internal/repository"
	"github.com/veltra-services/fieldservice-api/internal/service"
	"github.com/veltra-services/fieldservice-api/internal/storage"
	appsync "github.com/veltra-services/fieldservice-api/internal/sync"
	"go.uber.org/zap"
)

// @title Veltra FieldService API
// @version 1.0
// @description Field service management API for work orders, invoicing, inventory and technician coordination

// @contact.name API Support
// @contact.email support@veltra.no

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token

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

	log, err := logger.New(basicCfg.Logging.Level, basicCfg.Logging.Format)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	// Configure Swagger host based on environment
	switch basicCfg.App.Environment {
	case "staging":
		docs.SwaggerInfo.Host = "fieldservice-staging.veltra.no"
	case "production":
		docs.SwaggerInfo.Host = "api.veltra.no"
	default:
		docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)
	}

	// Load full configuration with secrets.
	// In development: uses environment variables.
	// In staging/production: fetches from Azure Key Vault.
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	db, err := database.NewDatabase(&cfg.Database, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	fileStorage, err := storage.NewStorage(&cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

	// HR directory connection (optional, read-only). The API runs without
	// it; only roster sync degrades.
	var directoryClient *directory.Client
	if cfg.Directory.Enabled {
		directoryClient, err = directory.NewClient(&cfg.Directory, log)
		if err != nil {
			log.Warn("HR directory connection failed, continuing without it",
				zap.Error(err),
			)
			directoryClient = nil
		}
	} else {
		log.Info("HR directory not configured, roster sync disabled")
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	workOrderRepo := repository.NewWorkOrderRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	tradesmanRepo := repository.NewTradesmanRepository(db)
	creditRepo := repository.NewCreditEventRepository(db)
	conversationRepo := repository.NewConversationRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	deletedRepo := repository.NewDeletedItemRepository(db)
	sequenceRepo := repository.NewNumberSequenceRepository(db)

	// Auth
	tokenManager, err := auth.NewTokenManager(&cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to create token manager: %w", err)
	}

	// Services
	notificationService := service.NewNotificationService(notificationRepo, log)
	gamificationService := service.NewGamificationService(tradesmanRepo, creditRepo, userRepo, notificationService, log)
	authService := service.NewAuthService(userRepo, tokenManager, log)
	paymentService := service.NewPaymentService(userRepo, log)
	customerService := service.NewCustomerService(customerRepo, deletedRepo, log)
	workOrderService := service.NewWorkOrderService(workOrderRepo, customerRepo, tradesmanRepo, invoiceRepo, sequenceRepo, deletedRepo, userRepo, gamificationService, notificationService, log)
	invoiceService := service.NewInvoiceService(invoiceRepo, workOrderRepo, sequenceRepo, deletedRepo, log)
	inventoryService := service.NewInventoryService(inventoryRepo, tradesmanRepo, userRepo, notificationService, log)
	tradesmanService := service.NewTradesmanService(tradesmanRepo, creditRepo, log)
	messageService := service.NewMessageService(conversationRepo, userRepo, notificationService, log)
	recycleBinService := service.NewRecycleBinService(deletedRepo, workOrderRepo, customerRepo, tradesmanRepo, invoiceRepo, sequenceRepo, log)
	exportService := service.NewExportService(inventoryRepo, invoiceRepo, log)
	rosterSyncService := service.NewRosterSyncService(directoryClient, tradesmanRepo, log)

	// Sync debouncer: remote-change notifications coalesce into roster
	// sync runs once the window settles.
	debouncer := appsync.NewDebouncer(
		cfg.Sync.DebounceDuration(),
		cfg.Sync.RosterTimeoutDuration(),
		func(ctx context.Context) {
			if _, err := rosterSyncService.Sync(ctx); err != nil {
				log.Error("debounced roster sync failed", zap.Error(err))
			}
		},
		log,
	)
	defer debouncer.Stop()

	// Middleware
	authMiddleware := auth.NewMiddleware(tokenManager, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Handlers
	authHandler := handler.NewAuthHandler(authService, paymentService, log)
	customerHandler := handler.NewCustomerHandler(customerService, log)
	workOrderHandler := handler.NewWorkOrderHandler(workOrderService, fileStorage, cfg.Storage.MaxUploadSizeMB, log)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService, log)
	inventoryHandler := handler.NewInventoryHandler(inventoryService, log)
	tradesmanHandler := handler.NewTradesmanHandler(tradesmanService, log)
	messageHandler := handler.NewMessageHandler(messageService, log)
	notificationHandler := handler.NewNotificationHandler(notificationService, log)
	recycleBinHandler := handler.NewRecycleBinHandler(recycleBinService, log)
	exportHandler := handler.NewExportHandler(exportService, log)
	syncHandler := handler.NewSyncHandler(debouncer, rosterSyncService, log)

	rt := router.NewRouter(
		cfg,
		log,
		db,
		directoryClient,
		authMiddleware,
		rateLimiter,
		authHandler,
		customerHandler,
		workOrderHandler,
		invoiceHandler,
		inventoryHandler,
		tradesmanHandler,
		messageHandler,
		notificationHandler,
		recycleBinHandler,
		exportHandler,
		syncHandler,
	)

	// Background roster sync on a cron schedule, in addition to the
	// debounced change listener.
	var scheduler *jobs.Scheduler
	if directoryClient != nil {
		scheduler = jobs.NewScheduler(log)

		if err := jobs.RegisterRosterSyncJob(
			scheduler,
			rosterSyncService,
			log,
			cfg.Sync.RosterCron,
			cfg.Sync.RosterTimeoutDuration(),
			cfg.Sync.RunStartupSync,
		); err != nil {
			log.Error("Failed to register roster sync job", zap.Error(err))
		} else {
			scheduler.Start()
			log.Info("Scheduler started with roster sync job",
				zap.String("cron_expr", cfg.Sync.RosterCron),
				zap.Duration("timeout", cfg.Sync.RosterTimeoutDuration()),
			)
		}
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
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		if scheduler != nil {
			ctx := scheduler.Stop()
			<-ctx.Done()
			log.Info("Scheduler stopped")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		if directoryClient != nil {
			if err := directoryClient.Close(); err != nil {
				log.Warn("Error closing directory connection", zap.Error(err))
			}
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
