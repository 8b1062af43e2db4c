package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	"github.com/FACorreiaa/go-wanderlust-places/app/observability/metrics"
	"github.com/FACorreiaa/go-wanderlust-places/app/tracer"
	"github.com/FACorreiaa/go-wanderlust-places/config"
	"github.com/FACorreiaa/go-wanderlust-places/internal/container"
	"github.com/FACorreiaa/go-wanderlust-places/internal/router"
)

const serviceName = "wanderlust-places"

// @title                Wanderlust Places API
// @version              1.0
// @description          Landmark search, place details and AI travel recommendations.
// @BasePath             /api
func main() {
	// --- Initial Loading ---
	// Use standard log until slog is configured, in case godotenv fails
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("FATAL: Error initializing config: %v", err)
	}

	// --- Logger Setup ---
	logger := setupLogger(cfg.Mode)
	slog.SetDefault(logger)

	// --- Application Context & Shutdown ---
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// --- Observability ---
	shutdownTelemetry, err := tracer.InitTracingAndMetrics(serviceName, cfg.Handlers.Prometheus.Port, logger)
	if err != nil {
		logger.Error("Failed to initialize telemetry", slog.Any("error", err))
		os.Exit(1)
	}
	metrics.InitAppMetrics()

	// --- Dependency Injection ---
	c, err := container.NewContainer(ctx, &cfg, logger)
	if err != nil {
		logger.Error("Failed to build application container", slog.Any("error", err))
		os.Exit(1)
	}
	defer c.Close()

	handler := router.NewHandler(&router.Config{
		PlacesHandler:    c.PlacesHandler,
		RecommendHandler: c.RecommendHandler,
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		RateLimit:        cfg.Server.RateLimit,
		RequestTimeout:   cfg.Server.Timeout,
		Logger:           logger,
	})

	// --- HTTP Server Setup ---
	ln, err := listenWithRetry(cfg.Server.HTTPPort, cfg.Server.PortRetries, logger)
	if err != nil {
		logger.Error("Failed to bind HTTP port", slog.Any("error", err))
		os.Exit(1)
	}

	srv := &http.Server{
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.Server.Timeout + 5*time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	// --- Start Server Goroutine ---
	go func() {
		logger.Info("Starting HTTP server", slog.String("address", ln.Addr().String()))
		err := srv.Serve(ln)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server Serve error", slog.Any("error", err))
			cancel()
		}
	}()

	// --- Wait for Shutdown Signal ---
	<-ctx.Done()

	// --- Graceful Shutdown ---
	logger.Info("Shutdown signal received, starting graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server graceful shutdown failed", slog.Any("error", err))
	} else {
		logger.Info("HTTP server gracefully stopped")
	}
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		logger.Error("Telemetry shutdown failed", slog.Any("error", err))
	}

	logger.Info("Application shut down complete.")
}

// listenWithRetry binds port, moving to the next port while the current one
// is taken, at most retries times.
func listenWithRetry(port string, retries int, logger *slog.Logger) (net.Listener, error) {
	base, err := strconv.Atoi(port)
	if err != nil {
		return nil, fmt.Errorf("invalid port %q: %w", port, err)
	}
	var lastErr error
	for i := 0; i <= retries; i++ {
		addr := fmt.Sprintf(":%d", base+i)
		ln, err := net.Listen("tcp", addr)
		if err == nil {
			if i > 0 {
				logger.Warn("Configured port busy, using next free port",
					slog.Int("configured", base),
					slog.Int("port", base+i))
			}
			return ln, nil
		}
		if !errors.Is(err, syscall.EADDRINUSE) {
			return nil, err
		}
		logger.Warn("Port in use, trying next", slog.String("address", addr))
		lastErr = err
	}
	return nil, fmt.Errorf("no free port in %d-%d: %w", base, base+retries, lastErr)
}

// setupLogger configures and returns the application logger.
func setupLogger(env string) *slog.Logger {
	var logger *slog.Logger

	if env == "development" || env == "" {
		tintOpts := &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.Kitchen,
			AddSource:  true,
		}
		logger = slog.New(tint.NewHandler(os.Stdout, tintOpts))
		log.Println("Initialized development logger (tint)")
	} else {
		jsonOpts := &slog.HandlerOptions{
			Level:     slog.LevelInfo,
			AddSource: false,
		}
		logger = slog.New(slog.NewJSONHandler(os.Stdout, jsonOpts))
		log.Println("Initialized production logger (JSON)")
	}
	return logger
}
