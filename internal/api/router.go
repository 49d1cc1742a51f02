package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/hibiken/asynq"
	"github.com/hugh/fleet-hub/internal/api/handlers"
	"github.com/hugh/fleet-hub/internal/api/middleware"
	"github.com/hugh/fleet-hub/internal/auth"
	"github.com/hugh/fleet-hub/internal/maintenance"
	"github.com/hugh/fleet-hub/internal/tenant"
	"github.com/hugh/fleet-hub/pkg/crypto"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Router struct {
	chi.Router
}

type RouterConfig struct {
	DB             *gorm.DB
	Redis          *redis.Client
	Logger         *slog.Logger
	JWTService     *auth.JWTService
	AuthService    *auth.Service
	Encryptor      *crypto.Encryptor
	AsynqClient    *asynq.Client
	AllowedOrigins []string // CORS allowed origins
	RateLimitReqs  int      // Rate limit requests per window
	RateLimitSecs  int      // Rate limit window in seconds
}

func NewRouter(cfg RouterConfig) *Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))

	// Rate limiting - applied globally to prevent abuse
	if cfg.RateLimitReqs > 0 {
		r.Use(middleware.RateLimit(cfg.RateLimitReqs, cfg.RateLimitSecs))
	}

	// CORS - restrict to configured origins, or allow all in development
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		// Default to localhost for development - configure in production
		allowedOrigins = []string{"http://localhost:3000", "http://localhost:8080"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Auth-Token"},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize services
	resolver := tenant.NewResolver(cfg.DB, cfg.JWTService)
	maintenanceService := maintenance.NewService(cfg.Logger)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg.DB, cfg.Redis)
	authHandler := handlers.NewAuthHandler(cfg.AuthService)
	vehicleHandler := handlers.NewVehicleHandler()
	logHandler := handlers.NewLogHandler()
	inspectionHandler := handlers.NewInspectionHandler()
	issueHandler := handlers.NewIssueHandler()
	maintenanceHandler := handlers.NewMaintenanceHandler()
	policyHandler := handlers.NewPolicyHandler(maintenanceService)
	dashboardHandler := handlers.NewDashboardHandler()
	notificationHandler := handlers.NewNotificationHandler(cfg.Encryptor, cfg.AsynqClient)

	// Health endpoints (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public auth endpoints
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/logout", authHandler.Logout)

		// Tenant-scoped routes: the resolver runs on every one of these
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(resolver))

			// Vehicles and their nested driver records
			r.Route("/vehicles", func(r chi.Router) {
				r.Get("/", vehicleHandler.List)
				r.Get("/{id}", vehicleHandler.Get)
				r.With(middleware.RequireManager).Post("/", vehicleHandler.Create)
				r.With(middleware.RequireManager).Put("/{id}", vehicleHandler.Update)
				r.With(middleware.RequireManager).Delete("/{id}", vehicleHandler.Delete)

				r.Get("/{id}/logs", logHandler.ListUsageLogs)
				r.Post("/{id}/logs", logHandler.CreateUsageLog)
				r.Get("/{id}/fuel", logHandler.ListFuelEntries)
				r.Post("/{id}/fuel", logHandler.CreateFuelEntry)
				r.Get("/{id}/inspections", inspectionHandler.List)
				r.Post("/{id}/inspections", inspectionHandler.Create)
			})

			// Issues
			r.Route("/issues", func(r chi.Router) {
				r.Get("/", issueHandler.List)
				r.Post("/", issueHandler.Create)
				r.Get("/{id}", issueHandler.Get)
				r.With(middleware.RequireManager).Post("/{id}/resolve", issueHandler.Resolve)
			})

			// Scheduled maintenance
			r.Route("/maintenance", func(r chi.Router) {
				r.Get("/", maintenanceHandler.List)
				r.With(middleware.RequireManager).Post("/", maintenanceHandler.Create)
				r.With(middleware.RequireManager).Post("/{id}/complete", maintenanceHandler.Complete)
			})

			// Maintenance policies (manager only)
			r.Route("/policies", func(r chi.Router) {
				r.Use(middleware.RequireManager)
				r.Get("/", policyHandler.List)
				r.Put("/", policyHandler.Upsert)
				r.Post("/seed", policyHandler.Seed)
				r.Post("/apply", policyHandler.Apply)
			})

			// Dashboard (manager only)
			r.With(middleware.RequireManager).Get("/dashboard", dashboardHandler.Overview)

			// Push notifications
			r.Route("/notifications", func(r chi.Router) {
				r.Post("/subscriptions", notificationHandler.Subscribe)
				r.Delete("/subscriptions", notificationHandler.Unsubscribe)
				r.With(middleware.RequireManager).Post("/", notificationHandler.Send)
			})
		})
	})

	return &Router{r}
}
