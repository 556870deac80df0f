// Package config handles loading and validating runtime configuration for the League Tracker API.
// Configuration values (like the database URL and API port) are read from environment variables
// rather than being hardcoded, so the same binary can run in dev, staging, and production
// without changing any code. Only the environment variables change.
package config

import (
	"errors"
	"fmt"
	"strings"

	// godotenv reads a .env file and loads its key=value pairs into the process environment.
	"github.com/joho/godotenv"
	// viper layers defaults under whatever the environment provides.
	"github.com/spf13/viper"
)

// Supported database drivers for DB_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

// Config holds all runtime configuration values for the application.
type Config struct {
	Port           string   // The TCP port the HTTP server will listen on (e.g., "8080")
	Env            string   // The runtime environment: "development", "staging", or "production"
	Debug          bool     // Lowers the log level to debug and logs SQL statements
	DBDriver       string   // One of postgres, mysql, sqlite
	DatabaseURL    string   // Connection string for the chosen driver
	MigrationsPath string   // Source URL for golang-migrate (e.g., "file://migrations"); postgres only
	AutoMigrate    bool     // Use GORM AutoMigrate instead of SQL migrations
	CORSOrigins    []string // Allowed CORS origins; "*" allows any
}

// Load reads configuration from a .env file (if present) and the environment.
// Environment variables always win over .env values because godotenv never
// overwrites variables that are already set.
func Load() *Config {
	// A missing .env is fine: deployments set real environment variables.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("DEBUG", false)
	v.SetDefault("DB_DRIVER", DriverPostgres)
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("AUTO_MIGRATE", false)
	v.SetDefault("CORS_ORIGINS", "*")

	return &Config{
		Port:           v.GetString("PORT"),
		Env:            v.GetString("ENV"),
		Debug:          v.GetBool("DEBUG"),
		DBDriver:       strings.ToLower(v.GetString("DB_DRIVER")),
		DatabaseURL:    v.GetString("DATABASE_URL"),
		MigrationsPath: v.GetString("MIGRATIONS_PATH"),
		AutoMigrate:    v.GetBool("AUTO_MIGRATE"),
		CORSOrigins:    splitTrimmed(v.GetString("CORS_ORIGINS")),
	}
}

// Validate reports settings the server can't start without.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("config: DATABASE_URL must be set")
	}
	switch c.DBDriver {
	case DriverPostgres, DriverMySQL, DriverSQLite:
	default:
		return fmt.Errorf("config: unknown DB_DRIVER %q", c.DBDriver)
	}
	if c.Port == "" {
		return errors.New("config: PORT must not be empty")
	}
	return nil
}

// UseSQLMigrations reports whether schema changes come from the migrations directory.
// Only the postgres schema is maintained as SQL; other drivers fall back to AutoMigrate.
func (c *Config) UseSQLMigrations() bool {
	return c.DBDriver == DriverPostgres && !c.AutoMigrate
}

func splitTrimmed(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
