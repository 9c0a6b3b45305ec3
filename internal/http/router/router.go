package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/odo-atelier/budget-api/internal/auth"
	"github.com/odo-atelier/budget-api/internal/config"
	"github.com/odo-atelier/budget-api/internal/database"
	"github.com/odo-atelier/budget-api/internal/http/handler"
	"github.com/odo-atelier/budget-api/internal/http/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/odo-atelier/budget-api/docs" // Import generated swagger docs
)

// Handlers groups every HTTP handler the router mounts
type Handlers struct {
	Auth          *handler.AuthHandler
	Project       *handler.ProjectHandler
	ProjectBudget *handler.BudgetHandler
	ScratchBudget *handler.BudgetHandler
	Workspace     *handler.WorkspaceHandler
	Export        *handler.ExportHandler
	Notification  *handler.NotificationHandler
}

type Router struct {
	cfg            *config.Config
	logger         *zap.Logger
	db             *gorm.DB
	authMiddleware *auth.Middleware
	rateLimiter    *middleware.RateLimiter
	handlers       Handlers
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	handlers Handlers,
) *Router {
	return &Router{
		cfg:            cfg,
		logger:         logger,
		db:             db,
		authMiddleware: authMiddleware,
		rateLimiter:    rateLimiter,
		handlers:       handlers,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	if rt.cfg.Metrics.Enabled {
		r.Use(middleware.Metrics)
	}
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP) // Apply IP-based rate limiting globally

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Database health check (readiness probe with detailed stats)
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		stats, err := database.HealthCheckWithStats(r.Context(), rt.db)
		if err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			writeHealth(w, http.StatusServiceUnavailable, map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "database",
			})
			return
		}

		writeHealth(w, http.StatusOK, map[string]interface{}{
			"status":  "healthy",
			"service": "database",
			"stats": map[string]interface{}{
				"max_open_connections": stats.MaxOpen,
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
		status := http.StatusOK

		if err := database.HealthCheck(r.Context(), rt.db); err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			checks["database"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
			status = http.StatusServiceUnavailable
		} else {
			checks["database"] = map[string]interface{}{
				"status": "healthy",
			}
		}

		overall := "healthy"
		if status != http.StatusOK {
			overall = "unhealthy"
		}
		writeHealth(w, status, map[string]interface{}{
			"status": overall,
			"checks": checks,
		})
	})

	if rt.cfg.Metrics.Enabled {
		r.Handle(rt.cfg.Metrics.Path, promhttp.Handler())
	}

	// Swagger documentation
	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	h := rt.handlers

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)
			r.Use(rt.rateLimiter.Limit)

			// Project-scoped routes also serve API key automation
			r.Route("/projects/{projectID}", func(r chi.Router) {
				r.Get("/", h.Project.GetByID)
				r.Get("/exports", h.Export.List)
				r.Post("/exports", h.Export.Create)
				r.Get("/exports/{exportID}/download", h.Export.Download)
				h.ProjectBudget.Routes(r)

				r.Group(func(r chi.Router) {
					r.Use(rt.authMiddleware.RequireUser)
					r.Put("/", h.Project.Update)
					r.Delete("/", h.Project.Delete)
					r.Post("/select", h.Project.Select)
				})
			})

			r.Group(func(r chi.Router) {
				r.Use(rt.authMiddleware.RequireUser)

				// Auth
				r.Get("/auth/me", h.Auth.Me)
				r.Post("/auth/sign-out", h.Auth.SignOut)

				// Projects
				r.Get("/projects", h.Project.List)
				r.Post("/projects", h.Project.Create)
				r.Get("/projects/current", h.Project.Current)

				// Scratch workspace kept in memory
				r.Route("/workspace", func(r chi.Router) {
					r.Post("/reset", h.Workspace.Reset)
					h.ScratchBudget.Routes(r)
				})

				// Notifications
				r.Route("/notifications", func(r chi.Router) {
					r.Get("/", h.Notification.List)
					r.Get("/count", h.Notification.UnreadCount)
					r.Put("/read-all", h.Notification.MarkAllRead)
					r.Put("/{id}/read", h.Notification.MarkRead)
				})
			})
		})
	})

	return r
}

func writeHealth(w http.ResponseWriter, status int, body map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
