package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"ecommerce-dashboard/internal/config"
	"ecommerce-dashboard/internal/ingest"
	"ecommerce-dashboard/internal/middleware"
	"ecommerce-dashboard/internal/observability"
	"ecommerce-dashboard/internal/server"
	"ecommerce-dashboard/internal/services"
	"ecommerce-dashboard/internal/ui/templates"
)

const (
	renderTimeout = 10 * time.Second
	loadTimeout   = 30 * time.Second
	cacheMaxAge   = "public, max-age=300"
)

func dashboardPageHandler(dashboard *services.Dashboard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
		defer cancel()

		w.Header().Set("Cache-Control", cacheMaxAge)
		page := templates.Dashboard(dashboard.AvailableYears(), dashboard.DefaultYear())
		if err := page.Render(ctx, w); err != nil {
			http.Error(w, "render error", http.StatusInternalServerError)
		}
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"version", "1.0.0",
		"config", cfg,
	)

	loader := ingest.NewLoader(logger)
	dashboard := services.NewDashboard(loader, cfg.Dataset.StatusFilter, cfg.Dataset.DefaultYear, logger)

	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()

	start := time.Now()
	if err := dashboard.Load(ctx, cfg.Dataset.DataDir); err != nil {
		logger.Error("failed to load raw tables", "error", err)
		os.Exit(1)
	}
	logger.Info("raw tables loaded successfully", "duration", time.Since(start))

	templateHandlers := &server.TemplateHandlers{
		Dashboard: dashboardPageHandler(dashboard),
	}

	srv := server.NewServer(dashboard, logger, templateHandlers)

	rateLimiter := middleware.NewRateLimiter(cfg.Security)

	middlewareChain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Tracing(),
		middleware.SecurityHeaders(),
		middleware.RateLimit(rateLimiter, logger),
	)

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      middlewareChain(srv),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	gracefulServer := server.NewGracefulServer(httpServer, logger, cfg)

	gracefulServer.RegisterShutdownHook(func(ctx context.Context) error {
		logger.Info("shutting down dashboard service")
		return nil
	})

	if err := gracefulServer.ListenAndServe(); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("application stopped gracefully")
}
