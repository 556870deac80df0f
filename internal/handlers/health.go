// Package handlers contains the HTTP route handler functions for the league API.
// Each handler corresponds to one API endpoint and is responsible for reading the
// request, calling the store, and writing a response.
//
// Handlers never talk to the database directly. Every exported function is a
// "handler factory": it takes the *store.Store built in main and returns a
// fiber.Handler that closes over it, so there is no package-level state.
package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/trentd187/league-tracker/internal/store"
)

// healthTimeout bounds how long a health probe waits on the database.
const healthTimeout = 2 * time.Second

// HealthCheck handles GET /health.
// It reports whether the server is up and the database answers a ping.
// It's used by:
//   - Docker/Kubernetes readiness and liveness probes to decide if the container is healthy
//   - Load balancers to check whether to send traffic to this instance
//
// A database that doesn't answer turns the response into 503 so the instance is taken
// out of rotation instead of serving 500s.
func HealthCheck(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
		defer cancel()

		if err := s.Ping(ctx); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status":   "unavailable",
				"database": "unreachable",
			})
		}
		// fiber.Map is just a shorthand for map[string]interface{}.
		return c.JSON(fiber.Map{"status": "ok", "database": "ok"})
	}
}
