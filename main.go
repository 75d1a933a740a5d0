package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	appLogger "github.com/FACorreiaa/go-trip-images/app/logger"
	"github.com/FACorreiaa/go-trip-images/app/observability/metrics"
	"github.com/FACorreiaa/go-trip-images/app/tracer"
	"github.com/FACorreiaa/go-trip-images/config"
	_ "github.com/FACorreiaa/go-trip-images/docs"
	"github.com/FACorreiaa/go-trip-images/internal/container"
	"github.com/FACorreiaa/go-trip-images/internal/router"
)

// @title        Trip Images API
// @version      1.0
// @description  Location image resolution with a persistent cache and paced batch fetching.
// @host         localhost:8000
// @BasePath     /api/v1
func main() {
	// Use standard log until slog is configured, in case godotenv fails
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("FATAL: Error initializing config: %v", err)
	}

	logger := appLogger.New(cfg.Mode, os.Stdout)
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	serviceName := cfg.Observability.ServiceName
	if serviceName == "" {
		serviceName = "tripimages"
	}
	telemetry, err := tracer.InitTracingAndMetrics(serviceName)
	if err != nil {
		logger.Error("Failed to initialize telemetry", slog.Any("error", err))
		os.Exit(1)
	}
	metrics.InitAppMetrics()

	c, err := container.NewContainer(ctx, &cfg, logger, metrics.Get())
	if err != nil {
		logger.Error("Failed to build application container", slog.Any("error", err))
		os.Exit(1)
	}
	defer c.Close()

	var metricsHandler http.Handler
	if cfg.Observability.MetricsEnabled {
		metricsHandler = telemetry.MetricsHandler
	}
	handler := newHTTPHandler(c, logger, metricsHandler)

	// Batches pace their groups, so the write timeout follows the configured server timeout.
	writeTimeout := cfg.Server.Timeout
	if writeTimeout <= 0 {
		writeTimeout = 60 * time.Second
	}

	serverAddress := fmt.Sprintf(":%s", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         serverAddress,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	go func() {
		logger.Info("Starting HTTP server", slog.String("address", serverAddress))
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server ListenAndServe error", slog.Any("error", err))
			cancel()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutdown signal received, starting graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server graceful shutdown failed", slog.Any("error", err))
	} else {
		logger.Info("HTTP server gracefully stopped")
	}
	if err := telemetry.Shutdown(shutdownCtx); err != nil {
		logger.Error("Telemetry shutdown failed", slog.Any("error", err))
	}

	logger.Info("Application shut down complete.")
}

// newHTTPHandler wraps the API router with the server-wide middleware stack.
func newHTTPHandler(c *container.Container, logger *slog.Logger, metricsHandler http.Handler) http.Handler {
	mainRouter := router.SetupRouter(&router.Config{
		ImagesHandler:  c.ImagesHandler,
		PlacesHandler:  c.PlacesHandler,
		MetricsHandler: metricsHandler,
	})

	r := chi.NewMux()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(appLogger.StructuredLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(middleware.Compress(5, "application/json"))
	r.Mount("/", mainRouter)
	return r
}
