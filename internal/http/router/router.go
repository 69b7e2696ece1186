package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/veltra-services/fieldservice-api/internal/auth"
	"github.com/veltra-services/fieldservice-api/internal/config"
	"github.com/veltra-services/fieldservice-api/internal/database"
	"github.com/veltra-services/fieldservice-api/internal/directory"
	"github.com/veltra-services/fieldservice-api/internal/http/handler"
	"github.com/veltra-services/fieldservice-api/internal/http/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/veltra-services/fieldservice-api/docs" // Import generated swagger docs
)

type Router struct {
	cfg                 *config.Config
	logger              *zap.Logger
	db                  *gorm.DB
	directoryClient     *directory.Client
	authMiddleware      *auth.Middleware
	rateLimiter         *middleware.RateLimiter
	authHandler         *handler.AuthHandler
	customerHandler     *handler.CustomerHandler
	workOrderHandler    *handler.WorkOrderHandler
	invoiceHandler      *handler.InvoiceHandler
	inventoryHandler    *handler.InventoryHandler
	tradesmanHandler    *handler.TradesmanHandler
	messageHandler      *handler.MessageHandler
	notificationHandler *handler.NotificationHandler
	recycleBinHandler   *handler.RecycleBinHandler
	exportHandler       *handler.ExportHandler
	syncHandler         *handler.SyncHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	directoryClient *directory.Client,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	authHandler *handler.AuthHandler,
	customerHandler *handler.CustomerHandler,
	workOrderHandler *handler.WorkOrderHandler,
	invoiceHandler *handler.InvoiceHandler,
	inventoryHandler *handler.InventoryHandler,
	tradesmanHandler *handler.TradesmanHandler,
	messageHandler *handler.MessageHandler,
	notificationHandler *handler.NotificationHandler,
	recycleBinHandler *handler.RecycleBinHandler,
	exportHandler *handler.ExportHandler,
	syncHandler *handler.SyncHandler,
) *Router {
	return &Router{
		cfg:                 cfg,
		logger:              logger,
		db:                  db,
		directoryClient:     directoryClient,
		authMiddleware:      authMiddleware,
		rateLimiter:         rateLimiter,
		authHandler:         authHandler,
		customerHandler:     customerHandler,
		workOrderHandler:    workOrderHandler,
		invoiceHandler:      invoiceHandler,
		inventoryHandler:    inventoryHandler,
		tradesmanHandler:    tradesmanHandler,
		messageHandler:      messageHandler,
		notificationHandler: notificationHandler,
		recycleBinHandler:   recycleBinHandler,
		exportHandler:       exportHandler,
		syncHandler:         syncHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.Limit)

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Database health check (readiness probe with detailed stats)
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		stats, err := database.HealthCheckWithStats(rt.db)
		if err != nil {
			rt.logger.Error("database health check failed", zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "database",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"service": "database",
			"stats": map[string]interface{}{
				"max_open_connections": stats.MaxOpenConnections,
				"open_connections":     stats.OpenConnections,
				"in_use":               stats.InUse,
				"idle":                 stats.Idle,
				"wait_count":           stats.WaitCount,
				"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
			},
		})
	})

	// Combined readiness check (checks all dependencies)
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]interface{})
		allHealthy := true

		if err := database.HealthCheck(rt.db); err != nil {
			rt.logger.Error("database health check failed", zap.Error(err))
			checks["database"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
			allHealthy = false
		} else {
			checks["database"] = map[string]interface{}{
				"status": "healthy",
			}
		}

		// The HR directory is optional; a down directory degrades roster
		// sync but not the API, so it does not flip overall readiness.
		if rt.directoryClient != nil {
			checks["directory"] = rt.directoryClient.HealthCheck(r.Context())
		}

		status := "healthy"
		code := http.StatusOK
		if !allHealthy {
			status = "unhealthy"
			code = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": status,
			"checks": checks,
		})
	})

	// Swagger documentation
	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes (no auth required)
		r.Post("/auth/register", rt.authHandler.Register)
		r.Post("/auth/login", rt.authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)

			// Auth & profile
			r.Get("/auth/me", rt.authHandler.Me)
			r.Post("/auth/link-company", rt.authHandler.LinkCompany)
			r.Put("/auth/me/notification-prefs", rt.authHandler.UpdateNotificationPrefs)
			r.Put("/auth/me/subscription", rt.authHandler.UpdateSubscription)
			r.Put("/auth/me/payment-link", rt.authHandler.UpdatePaymentLink)
			r.Get("/auth/me/payment-qr", rt.authHandler.PaymentQR)
			r.Get("/auth/technicians", rt.authHandler.ListTechnicians)

			// Customers
			r.Route("/customers", func(r chi.Router) {
				r.Get("/", rt.customerHandler.List)
				r.Post("/", rt.customerHandler.Create)
				r.Get("/{id}", rt.customerHandler.GetByID)
				r.Put("/{id}", rt.customerHandler.Update)
				r.Delete("/{id}", rt.customerHandler.Delete)
				r.Get("/{id}/workorders", rt.customerHandler.GetWorkOrders)
			})

			// Work orders
			r.Route("/workorders", func(r chi.Router) {
				r.Get("/", rt.workOrderHandler.List)
				r.Post("/", rt.workOrderHandler.Create)
				r.Get("/{id}", rt.workOrderHandler.GetByID)
				r.Put("/{id}", rt.workOrderHandler.Update)
				r.Delete("/{id}", rt.workOrderHandler.Delete)
				r.Put("/{id}/status", rt.workOrderHandler.ChangeStatus)
				r.Put("/{id}/materials", rt.workOrderHandler.PutMaterials)
				r.Put("/{id}/tradesmen", rt.workOrderHandler.AssignTradesmen)
				r.Post("/{id}/photos", rt.workOrderHandler.UploadPhoto)
				r.Get("/{id}/photos/download", rt.workOrderHandler.DownloadPhoto)
				r.Post("/{id}/tasks", rt.workOrderHandler.AddTask)
				r.Put("/tasks/{taskId}", rt.workOrderHandler.UpdateTask)
				r.Put("/tasks/{taskId}/complete", rt.workOrderHandler.SetTaskComplete)
				r.Delete("/tasks/{taskId}", rt.workOrderHandler.DeleteTask)
			})

			// Invoices
			r.Route("/invoices", func(r chi.Router) {
				r.Get("/", rt.invoiceHandler.List)
				r.Post("/", rt.invoiceHandler.Create)
				r.Get("/{id}", rt.invoiceHandler.GetByID)
				r.Delete("/{id}", rt.invoiceHandler.Delete)
				r.Put("/{id}/services", rt.invoiceHandler.UpdateServices)
				r.Put("/{id}/status", rt.invoiceHandler.SetStatus)
			})

			// Inventory
			r.Route("/inventory", func(r chi.Router) {
				r.Get("/", rt.inventoryHandler.List)
				r.Post("/", rt.inventoryHandler.Create)
				r.Get("/low-stock", rt.inventoryHandler.LowStock)
				r.Get("/{id}", rt.inventoryHandler.GetByID)
				r.Put("/{id}", rt.inventoryHandler.Update)
				r.Delete("/{id}", rt.inventoryHandler.Delete)
				r.Post("/{id}/assign", rt.inventoryHandler.Assign)
				r.Post("/{id}/usage", rt.inventoryHandler.RecordUsage)
			})

			// Tradesmen
			r.Route("/tradesmen", func(r chi.Router) {
				r.Get("/", rt.tradesmanHandler.List)
				r.Post("/", rt.tradesmanHandler.Create)
				r.Get("/leaderboard", rt.tradesmanHandler.Leaderboard)
				r.Get("/{id}", rt.tradesmanHandler.GetByID)
				r.Put("/{id}", rt.tradesmanHandler.Update)
				r.Delete("/{id}", rt.tradesmanHandler.Delete)
				r.Post("/{id}/badges", rt.tradesmanHandler.AwardBadge)
				r.Get("/{id}/credits", rt.tradesmanHandler.CreditHistory)
			})

			// Messaging
			r.Route("/conversations", func(r chi.Router) {
				r.Get("/", rt.messageHandler.ListConversations)
				r.Post("/", rt.messageHandler.CreateConversation)
				r.Get("/{id}", rt.messageHandler.GetConversation)
				r.Delete("/{id}", rt.messageHandler.DeleteConversation)
				r.Get("/{id}/messages", rt.messageHandler.ListMessages)
				r.Post("/{id}/messages", rt.messageHandler.PostMessage)
			})

			// Notifications
			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", rt.notificationHandler.List)
				r.Get("/unread-count", rt.notificationHandler.UnreadCount)
				r.Put("/read-all", rt.notificationHandler.MarkAllRead)
				r.Put("/{id}/read", rt.notificationHandler.MarkRead)
			})

			// Exports
			r.Route("/exports", func(r chi.Router) {
				r.Get("/inventory.csv", rt.exportHandler.InventoryCSV)
				r.Get("/inventory.xlsx", rt.exportHandler.InventoryXLSX)
				r.Get("/invoices.xlsx", rt.exportHandler.InvoicesXLSX)
			})

			// Sync change listener
			r.Post("/sync/notify", rt.syncHandler.Notify)
			r.Get("/sync/state", rt.syncHandler.State)

			// Admin-only
			r.Group(func(r chi.Router) {
				r.Use(rt.authMiddleware.RequireAdmin)

				r.Route("/recycle-bin", func(r chi.Router) {
					r.Get("/", rt.recycleBinHandler.List)
					r.Post("/{id}/restore", rt.recycleBinHandler.Restore)
					r.Delete("/{id}", rt.recycleBinHandler.Purge)
				})

				r.Post("/sync/run", rt.syncHandler.RunNow)
			})
		})
	})

	return r
}
