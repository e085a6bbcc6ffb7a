package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bridgei2p/leadportal/cmd/mainconfig"
	"github.com/bridgei2p/leadportal/internal/admin"
	"github.com/bridgei2p/leadportal/internal/api/router"
	"github.com/bridgei2p/leadportal/internal/app/bootstrap"
	appconfig "github.com/bridgei2p/leadportal/internal/config"
	"github.com/bridgei2p/leadportal/internal/http/handlers"
	httpmiddleware "github.com/bridgei2p/leadportal/internal/http/middleware"
	"github.com/bridgei2p/leadportal/internal/landing"
	"github.com/bridgei2p/leadportal/internal/leadapi"
	"github.com/bridgei2p/leadportal/internal/leadform"
	"github.com/bridgei2p/leadportal/internal/observability/metrics"
	"github.com/bridgei2p/leadportal/internal/session"
	"github.com/bridgei2p/leadportal/pkg/logging"
)

func main() {
	// .env is optional; real environment wins.
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger.Info("starting bridgei2p lead portal",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()
	handler, cleanup, err := buildHandler(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to build server", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.BackendTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

func setupMetrics() (http.Handler, *metrics.LeadMetrics) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), metrics.NewLeadMetrics(reg)
}

// buildHandler wires every component behind the router. The returned cleanup
// closes whatever the session store opened.
func buildHandler(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (http.Handler, func(), error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, nil, err
	}
	metricsHandler, leadMetrics := setupMetrics()

	landingAPI, err := leadapi.New(cfg.BackendURL, logger,
		leadapi.WithTimeout(cfg.BackendTimeout),
		leadapi.WithObserver(leadMetrics),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("landing backend: %w", err)
	}
	adminAPI, err := leadapi.New(cfg.AdminBackendURL, logger,
		leadapi.WithTimeout(cfg.BackendTimeout),
		leadapi.WithObserver(leadMetrics),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("admin backend: %w", err)
	}
	logger.Info("lead backends configured", "landing", landingAPI.BaseURL(), "admin", adminAPI.BaseURL())

	var awsCfg *aws.Config
	if mainconfig.NeedsAWS(cfg) {
		loaded, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Warn("failed to load AWS config; SES and export archive disabled", "error", err)
		} else {
			awsCfg = &loaded
		}
	}

	sender := bootstrap.BuildEmailSender(cfg, awsCfg, logger)
	flowOpts := []leadform.Option{leadform.WithMetrics(leadMetrics)}
	if alerter := bootstrap.BuildLeadAlerter(cfg, sender, logger); alerter != nil {
		flowOpts = append(flowOpts, leadform.WithAlerter(alerter))
	}
	if cfg.DemoOTPReveal {
		logger.Warn("DEMO_OTP_REVEAL is on; verification codes will be shown on the page")
		flowOpts = append(flowOpts, leadform.WithOTPReveal(landingAPI))
	}
	flow := leadform.NewFlow(landingAPI, logger, flowOpts...)

	store, closeStore, err := bootstrap.BuildSessionStore(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	sessions := session.NewManager(store, logger,
		session.WithCookie(cfg.SessionCookie, cfg.IsProduction()),
		session.WithCookieTTL(cfg.SessionTTL),
	)

	dashboard := admin.NewDashboard(adminAPI, loc, logger)
	exporter := admin.NewExporter(dashboard, bootstrap.BuildExportArchive(cfg, awsCfg, logger), leadMetrics)

	if cfg.AdminJWTSecret == "" {
		logger.Warn("ADMIN_JWT_SECRET is empty; admin dashboard is unauthenticated")
	}

	var formLimiter *httpmiddleware.RateLimiter
	if cfg.LeadFormRatePerMinute > 0 {
		formLimiter = httpmiddleware.NewRateLimiter(cfg.LeadFormRatePerMinute, cfg.LeadFormRateBurst)
	}

	handler := router.New(&router.Config{
		Logger:             logger,
		Landing:            handlers.NewLandingHandler(flow, sessions, landing.Default(), logger),
		AdminLeads:         handlers.NewAdminLeadsHandler(dashboard, exporter, logger),
		AdminAuthSecret:    cfg.AdminJWTSecret,
		MetricsHandler:     metricsHandler,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		FormLimiter:        formLimiter,
	})

	cleanup := func() {
		if formLimiter != nil {
			formLimiter.Stop()
		}
		if err := closeStore(); err != nil {
			logger.Warn("failed to close session store", "error", err)
		}
	}
	return handler, cleanup, nil
}
