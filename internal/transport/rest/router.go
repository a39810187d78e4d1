package rest

import (
	"log/slog"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/frahmantamala/roster-management/internal/analytics"
	"github.com/frahmantamala/roster-management/internal/catalog"
	"github.com/frahmantamala/roster-management/internal/employee"
	"github.com/frahmantamala/roster-management/internal/report"
	"github.com/frahmantamala/roster-management/internal/salary"
	"github.com/frahmantamala/roster-management/internal/schedule"
	"github.com/frahmantamala/roster-management/internal/transport/middleware"
	"github.com/frahmantamala/roster-management/internal/transport/swagger"
)

type Handlers struct {
	Health    *HealthHandler
	Catalog   *catalog.Handler
	Employees *employee.Handler
	Schedule  *schedule.Handler
	Salaries  *salary.Handler
	Analytics *analytics.Handler
	Export    *report.Handler
}

type Options struct {
	AllowedOrigins []string
	// MetricsPath mounts the prometheus handler; empty disables it.
	MetricsPath string
	// Spec is served at /openapi.yml and backs the Swagger UI when set.
	Spec *swagger.Spec
}

func RegisterAllRoutes(router *chi.Mux, h Handlers, opts Options, logger *slog.Logger) {
	// Apply global middleware
	router.Use(middleware.CORS(opts.AllowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	if opts.Spec != nil {
		router.Get(swagger.SpecPath, opts.Spec.ServeSpec)
		router.Handle("/swagger/*", swagger.Handler())
	}
	if opts.MetricsPath != "" {
		router.Handle(opts.MetricsPath, promhttp.Handler())
	}

	// Mount API under /api/v1 to match the OpenAPI server url
	router.Route("/api/v1", func(r chi.Router) {
		if h.Health != nil {
			r.Get("/health", h.Health.healthCheckHandler)
			r.Get("/ping", h.Health.pingHandler)
		}
		if h.Catalog != nil {
			r.Route("/catalog", h.Catalog.Routes)
		}
		if h.Employees != nil {
			r.Route("/employees", h.Employees.Routes)
		}
		if h.Schedule != nil {
			r.Route("/schedule", h.Schedule.Routes)
		}
		if h.Salaries != nil {
			r.Route("/salaries", h.Salaries.Routes)
		}
		if h.Analytics != nil {
			r.Route("/analytics", h.Analytics.Routes)
		}
		if h.Export != nil {
			r.Route("/export", h.Export.Routes)
		}
	})
}
