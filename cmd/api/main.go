package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oakpointclinic/booking-ai/internal/api/router"
	"github.com/oakpointclinic/booking-ai/internal/app/bootstrap"
	"github.com/oakpointclinic/booking-ai/internal/appointments"
	"github.com/oakpointclinic/booking-ai/internal/assistant"
	"github.com/oakpointclinic/booking-ai/internal/availability"
	"github.com/oakpointclinic/booking-ai/internal/booking"
	"github.com/oakpointclinic/booking-ai/internal/calendar"
	appconfig "github.com/oakpointclinic/booking-ai/internal/config"
	"github.com/oakpointclinic/booking-ai/internal/doctors"
	"github.com/oakpointclinic/booking-ai/internal/http/handlers"
	"github.com/oakpointclinic/booking-ai/internal/observability/metrics"
	"github.com/oakpointclinic/booking-ai/internal/patients"
	"github.com/oakpointclinic/booking-ai/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger.Info("starting booking API server", "env", cfg.Env, "port", cfg.Port)

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to create db pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// A database/sql handle for the stats queries.
	statsDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to open stats db", "error", err)
		os.Exit(1)
	}
	defer func() { _ = statsDB.Close() }()

	redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true)
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	// Repositories
	doctorRepo := doctors.NewRepository(pool)
	patientRepo := patients.NewRepository(pool)
	appointmentRepo := appointments.NewRepository(pool)
	availabilityRepo := availability.NewRepository(pool)
	bookingRepo := booking.NewRepository(pool)
	calendarRepo := calendar.NewRepository(pool, cfg.ClinicLocation)

	// Observability
	assistantMetrics := metrics.NewAssistantMetrics(prometheus.DefaultRegisterer)
	bookingMetrics := metrics.NewBookingMetrics(prometheus.DefaultRegisterer)

	mailer := bootstrap.BuildEmailSender(cfg, logger)

	bookingSvc := booking.NewService(
		availabilityRepo, patientRepo, doctorRepo, bookingRepo,
		mailer, bookingMetrics, logger.WithComponent("booking"),
	)

	llm, err := assistant.NewGeminiLLMClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID)
	if err != nil {
		logger.Error("failed to create inference client", "error", err)
		os.Exit(1)
	}
	defer func() { _ = llm.Close() }()

	snapshots := assistant.NewSnapshotSource(doctorRepo, availabilityRepo, redisClient, cfg.SnapshotTTL)
	assistantSvc := assistant.NewService(assistant.Config{
		Snapshots:  snapshots,
		LLM:        llm,
		Model:      cfg.GeminiModelID,
		Timeout:    cfg.AssistantTimeout,
		ClinicName: cfg.ClinicName,
		Booking:    bookingSvc,
		Metrics:    assistantMetrics,
		Logger:     logger.WithComponent("assistant"),
	})

	r := router.New(&router.Config{
		Logger:             logger,
		Assistant:          assistant.NewHandler(assistantSvc, logger.WithComponent("assistant")),
		Booking:            booking.NewHandler(bookingSvc, logger.WithComponent("booking")),
		Calendar:           calendar.NewHandler(calendarRepo, logger.WithComponent("calendar")),
		Doctors:            doctors.NewHandler(doctorRepo, logger.WithComponent("admin")),
		Patients:           patients.NewHandler(patientRepo, logger.WithComponent("admin")),
		Appointments:       appointments.NewHandler(appointmentRepo, logger.WithComponent("admin")),
		AdminStats:         handlers.NewAdminStatsHandler(statsDB, logger.WithComponent("admin")),
		AdminAuthSecret:    cfg.AdminJWTSecret,
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.AssistantTimeout + 15*time.Second,
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
}
