package router

import (
	"context"
	"net/http"
	"time"

	_ "jobboard/internal/docs" // registers the API document
	"jobboard/internal/handlers/api/v1/company"
	"jobboard/internal/handlers/api/v1/jobs"
	"jobboard/internal/handlers/api/v1/users"
	"jobboard/internal/handlers/api/v1/webhooks"
	"jobboard/internal/middleware"
	"jobboard/internal/monitoring"
	"jobboard/internal/response"
	"jobboard/internal/services"
	"jobboard/internal/utils/appinfo"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Config holds the HTTP surface settings
type Config struct {
	Environment     string
	CORSOrigins     []string
	EnableSwagger   bool
	MaxLogoSize     int64
	MaxResumeSize   int64
	Logging         *middleware.LoggingConfig
	Response        *response.Config
	AuthRateLimiter *middleware.RateLimiter
}

// Dependencies are the components the routes are served by
type Dependencies struct {
	Services *services.ServiceCollection
	Auth     *middleware.AuthMiddleware
	Feed     *company.Feed
}

// SetupRouter configures all HTTP routes and returns the main handler
func SetupRouter(deps Dependencies, config Config, logger *zap.Logger) http.Handler {
	responseBuilder := response.NewBuilder(config.Response, logger.Named("response"))

	r := chi.NewRouter()
	r.Use(middleware.RequestID(logger))
	r.Use(middleware.Recovery())
	r.Use(middleware.StructuredLogging(config.Logging))
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.CORS(config.CORSOrigins))
	r.Use(response.Middleware(responseBuilder))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.QuickError(w, r, services.NewNotFoundError("Route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		responseBuilder.WriteJSON(w, r, &response.ErrorResponse{
			Success: false,
			Message: "Method not allowed",
			Error:   &response.ErrorDetail{Type: "METHOD_NOT_ALLOWED"},
		}, http.StatusMethodNotAllowed)
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		response.QuickSuccess(w, r, "API Working", response.Payload{
			"name":    appinfo.Name,
			"version": appinfo.GetVersion(),
		})
	})
	reporter := monitoring.NewReporter(deps.Services, appinfo.GetVersion(), config.Environment, logger.Named("health"))
	r.Get("/health", healthHandler(reporter))

	if config.EnableSwagger {
		r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/swagger/index.html", http.StatusMovedPermanently)
		})
		r.Handle("/swagger/*", middleware.SwaggerHandler(middleware.DefaultSwaggerConfig()))
	}

	setupAPIRoutes(r, deps, config, logger)

	logger.Info("Router configured",
		zap.Bool("swagger", config.EnableSwagger),
		zap.Strings("cors_origins", config.CORSOrigins),
	)
	return r
}

func setupAPIRoutes(r chi.Router, deps Dependencies, config Config, logger *zap.Logger) {
	companyController := company.NewCompanyController(deps.Services, deps.Feed, config.MaxLogoSize, logger.Named("company_controller"))
	jobController := jobs.NewJobController(deps.Services, logger.Named("job_controller"))
	userController := users.NewUserController(deps.Services, config.MaxResumeSize, logger.Named("user_controller"))
	webhookController := webhooks.NewWebhookController(deps.Services, logger.Named("webhook_controller"))

	r.Post("/webhooks", webhookController.HandleIdentityEvent)

	r.Route("/api/company", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if config.AuthRateLimiter != nil {
				r.Use(middleware.RateLimit(config.AuthRateLimiter))
			}
			r.Post("/register", companyController.Register)
			r.Post("/login", companyController.Login)
		})

		r.Group(func(r chi.Router) {
			r.Use(deps.Auth.RequireCompany)
			r.Get("/company", companyController.GetProfile)
			r.Post("/update", companyController.UpdateProfile)
			r.Post("/post-job", companyController.PostJob)
			r.Get("/applicants", companyController.ListApplicants)
			r.Get("/list-jobs", companyController.ListJobs)
			r.Post("/change-status", companyController.ChangeStatus)
			r.Post("/change-visibility", companyController.ChangeVisibility)
			r.Get("/stream", companyController.Stream)
		})
	})

	r.Route("/api/jobs", func(r chi.Router) {
		r.Get("/", jobController.ListJobs)
		r.Get("/{id}", jobController.GetJob)
	})

	r.Route("/api/users", func(r chi.Router) {
		r.Use(deps.Auth.RequireUser)
		r.Get("/user", userController.GetUser)
		r.Post("/apply", userController.Apply)
		r.Get("/applications", userController.ListApplications)
		r.Post("/update-resume", userController.UpdateResume)
	})
}

func healthHandler(reporter *monitoring.Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		report := reporter.Report(ctx)
		status := http.StatusOK
		if !report.Healthy() {
			status = http.StatusServiceUnavailable
		}

		response.GetBuilder(r.Context()).WriteJSON(w, r, report, status)
	}
}
