// Package main provides the entry point for the goUserRegistry service.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chybatronik/goUserRegistry/internal/config"
	"github.com/chybatronik/goUserRegistry/internal/database"
	"github.com/chybatronik/goUserRegistry/internal/handlers"
	"github.com/chybatronik/goUserRegistry/internal/logging"
	"github.com/chybatronik/goUserRegistry/internal/middleware"
	"github.com/chybatronik/goUserRegistry/internal/program"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// Build information (set during build)
	Version   = "dev"
	BuildTime = ""
)

func main() {
	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	logger := logging.NewStructuredLogger(
		appConfig.Logging.Level,
		"goUserRegistry",
		Version,
	).WithServiceContext()

	logger.Startup("goUserRegistry service starting up",
		"environment", appConfig.Application.Environment,
		"log_level", appConfig.Logging.Level,
		"server_host", appConfig.Server.Host,
		"server_port", appConfig.Server.Port,
		"db_host", appConfig.Database.Host,
		"db_name", appConfig.Database.Database,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := database.NewConnectionPool(appConfig)
	if err != nil {
		logger.Error("Failed to create database connection pool", logging.FieldError, err)
		log.Fatalf("FATAL: Failed to create database connection pool: %v", err)
	}
	defer pool.Close()

	if err := database.ValidateConnection(ctx, pool); err != nil {
		logger.Error("Database connection validation failed", logging.FieldError, err)
		log.Fatalf("FATAL: Database connection validation failed: %v", err)
	}

	logger.Database("connection established")

	logger.Startup("Running database migrations...")
	migrationRunner := database.NewMigrationRunner(pool, "./migrations")
	if err := migrationRunner.RunMigrations(ctx); err != nil {
		logger.Error("Database migration failed", logging.FieldError, err)
		log.Fatalf("FATAL: Database migration failed: %v", err)
	}
	logger.Database("migrations completed")

	server := setupHTTPServer(appConfig, pool, logger)

	go func() {
		logger.Startup("HTTP server starting",
			"host", appConfig.Server.Host,
			"port", appConfig.Server.Port,
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed to start", logging.FieldError, err)
			log.Fatalf("FATAL: HTTP server failed to start: %v", err)
		}
	}()

	logger.Startup("goUserRegistry service started successfully")

	gracefulShutdown(server, pool, appConfig.Application.ShutdownTimeout, logger)
}

// setupHTTPServer configures the HTTP server with routes and middleware.
func setupHTTPServer(appConfig *config.Config, pool *pgxpool.Pool, logger *logging.Logger) *http.Server {
	healthHandler := handlers.NewHealthHandler("goUserRegistry", Version, logger)
	if appConfig.HealthCheck.Enabled {
		healthHandler.AddChecker(database.NewHealthChecker(pool))
	}

	userProgram := program.New(pool, logger)
	userHandler := handlers.NewUserHandler(logger, userProgram)

	mux := http.NewServeMux()
	mux.Handle("GET /health", healthHandler)
	mux.HandleFunc("POST /user", userHandler.CreateUser)
	mux.HandleFunc("GET /users", userHandler.GetUsers)
	mux.HandleFunc("DELETE /user/{username}", userHandler.DeleteUser)

	// Middleware chain, outermost first:
	// rate limit -> request ID -> logging -> recovery -> router.
	requestsPerSecond := float64(appConfig.Application.RateLimitRequests) / 60.0
	handler := http.Handler(mux)
	handler = middleware.NewRecoveryMiddleware(logger, handler)
	handler = middleware.NewLoggingMiddleware(logger, handler)
	handler = middleware.RequestIDMiddleware(handler)
	handler = middleware.SecurityRateLimit(requestsPerSecond, appConfig.Application.RateLimitBurst)(handler)

	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", appConfig.Server.Host, appConfig.Server.Port),
		Handler:      handler,
		ReadTimeout:  time.Duration(appConfig.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(appConfig.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(appConfig.Server.IdleTimeout) * time.Second,
	}
}

// gracefulShutdown waits for SIGINT/SIGTERM and shuts the service down.
func gracefulShutdown(server *http.Server, pool *pgxpool.Pool, shutdownTimeout int, logger *logging.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	logger.Startup("Received signal, initiating graceful shutdown", "signal", sig.String())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(shutdownTimeout)*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", logging.FieldError, err)
	} else {
		logger.Startup("HTTP server shutdown completed")
	}

	pool.Close()
	logger.Startup("goUserRegistry service shutdown completed")
}
