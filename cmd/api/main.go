package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/salinmesh/lead-intake/cmd/mainconfig"
	"github.com/salinmesh/lead-intake/internal/api/router"
	"github.com/salinmesh/lead-intake/internal/app/bootstrap"
	"github.com/salinmesh/lead-intake/internal/botdefense"
	appconfig "github.com/salinmesh/lead-intake/internal/config"
	"github.com/salinmesh/lead-intake/internal/crm"
	"github.com/salinmesh/lead-intake/internal/intake"
	"github.com/salinmesh/lead-intake/internal/notify"
	"github.com/salinmesh/lead-intake/internal/observability/metrics"
	"github.com/salinmesh/lead-intake/internal/ratelimit"
	"github.com/salinmesh/lead-intake/pkg/logging"
)

func main() {
	// Load .env for local development; ignored when absent
	_ = godotenv.Load()

	cfg := appconfig.Load()

	// Initialize logger
	var logger *logging.Logger
	if cfg.Env == "development" {
		logger = logging.NewText(cfg.LogLevel)
	} else {
		logger = logging.New(cfg.LogLevel)
	}
	logger.Info("starting lead-intake API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	// Metrics
	metricsHandler, intakeMetrics := setupIntakeMetrics()

	// Shared rate-limit store: Redis when configured, in-memory otherwise
	redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true)
	store := bootstrap.BuildRateLimitStore(redisClient, cfg, logger)
	limiter := ratelimit.NewLimiter(store, logger)

	// Bot defense
	inspector := botdefense.NewInspector(bootstrap.BuildVerifier(cfg, logger), logger)

	// Email transport
	var sesClient *sesv2.Client
	if cfg.EmailProvider == "ses" || (cfg.EmailProvider == "auto" && cfg.SendGridAPIKey == "") {
		awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			logger.Error("failed to load AWS config", "error", err)
			os.Exit(1)
		}
		sesClient = sesv2.NewFromConfig(awsCfg)
	}
	emailSender := bootstrap.BuildEmailSender(cfg, sesClient, logger)

	// CRM webhook is optional; nil skips the channel
	var crmNotifier notify.CRMNotifier
	if client := crm.NewWebhookClient(cfg.CRMWebhookURL, cfg.NotifyTimeout, logger); client != nil {
		crmNotifier = client
		logger.Info("CRM webhook enabled")
	}

	dispatcher := notify.NewDispatcher(emailSender, crmNotifier, cfg.SalesEmail, cfg.NotifyTimeout, logger, intakeMetrics)
	service := intake.NewService(limiter, inspector, dispatcher, logger, intakeMetrics)

	// Setup router
	r := router.New(&router.Config{
		Logger:             logger,
		IntakeHandler:      intake.NewHandler(service, logger),
		MetricsHandler:     metricsHandler,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
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

	if redisClient != nil {
		redisClient.Close()
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

// setupIntakeMetrics wires the intake metrics onto a dedicated registry and
// returns the /metrics handler alongside them.
func setupIntakeMetrics() (http.Handler, *metrics.IntakeMetrics) {
	registry := prometheus.NewRegistry()
	m := metrics.NewIntakeMetrics(registry)
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{}), m
}
