// cmd/server/main.go
// This is the entry point for the League Tracker API server.
// In Go, the "main" package and its "main()" function is where the program starts executing.
// The "cmd/server" directory follows a common Go convention: the cmd/ folder holds executable
// binaries, and internal/ holds reusable packages that are not meant to be imported by other projects.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	// fiber is a fast HTTP web framework inspired by Express.js
	"github.com/gofiber/fiber/v2"
	// cors handles Cross-Origin Resource Sharing so browser clients on other origins can call the API
	"github.com/gofiber/fiber/v2/middleware/cors"
	// recover turns a panic in a handler into a 500 instead of crashing the process
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	// Internal packages: our own code, imported by module path
	"github.com/trentd187/league-tracker/internal/config"
	"github.com/trentd187/league-tracker/internal/database"
	"github.com/trentd187/league-tracker/internal/handlers"
	"github.com/trentd187/league-tracker/internal/logger"
	"github.com/trentd187/league-tracker/internal/middleware"
	"github.com/trentd187/league-tracker/internal/store"
)

func main() {
	// Load configuration from environment variables (and optionally a .env file).
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Env, cfg.Debug)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to build logger:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	// Connect and bring the schema up to date: SQL migrations for postgres,
	// GORM AutoMigrate for mysql and sqlite.
	db, err := database.Setup(cfg)
	if err != nil {
		log.Fatal("database setup failed", zap.String("driver", cfg.DBDriver), zap.Error(err))
	}

	// The store is the only thing handlers use to reach the database.
	// It is built once here and passed down; there is no global connection.
	s := store.New(db, log.Named("store"))

	// Create a new Fiber app (our HTTP server).
	// ErrorHandler turns the store's error kinds into status codes and JSON bodies.
	app := fiber.New(fiber.Config{
		AppName:      "League Tracker API",
		ErrorHandler: handlers.ErrorHandler,
	})

	// --- Global middleware ---
	// These run on every request before any route handler, in this order.
	// RequestID must come first so the request logger can include the id.
	app.Use(middleware.RequestID())
	app.Use(middleware.RequestLogger(log.Named("http")))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.CORSOrigins, ","),
	}))

	// GET /health is a liveness check used by load balancers to verify the server is running.
	app.Get("/health", handlers.HealthCheck(s))

	// All API routes live under /api/v1.
	handlers.Register(app.Group("/api/v1"), s)

	// Shut down cleanly on Ctrl+C or a container stop so in-flight requests finish.
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Info("shutting down")
		if err := app.Shutdown(); err != nil {
			log.Error("shutdown failed", zap.Error(err))
		}
	}()

	log.Info("starting server",
		zap.String("port", cfg.Port),
		zap.String("env", cfg.Env),
		zap.String("db_driver", cfg.DBDriver),
	)
	// ":" + cfg.Port produces a string like ":8080", listening on all network interfaces.
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
