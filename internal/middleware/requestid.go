// Package middleware contains HTTP middleware functions for the league API.
// Middleware sits between the HTTP server and route handlers. It runs on every
// request that passes through it, making it the right place for cross-cutting
// concerns like request tracing and logging.
package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"
)

// RequestIDHeader is the header a request id is read from and echoed back on.
const RequestIDHeader = "X-Request-ID"

// requestIDKey is the c.Locals key holding the current request's id.
const requestIDKey = "requestID"

// RequestID returns a middleware that gives every request an id.
//
// A well-formed UUID supplied by the caller (a load balancer or another service) is
// kept so one id follows the request across systems; anything else is replaced with a
// fresh random UUID. The id is stored in c.Locals for downstream handlers and echoed in
// the response header.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		} else {
			// Header values point into fasthttp's buffer and are only valid during this
			// handler call; Locals outlives it, so keep a private copy.
			id = utils.CopyString(id)
		}
		c.Locals(requestIDKey, id)
		c.Set(RequestIDHeader, id)
		return c.Next()
	}
}

// GetRequestID returns the id RequestID assigned to this request, or "" when the
// middleware isn't installed.
func GetRequestID(c *fiber.Ctx) string {
	id, _ := c.Locals(requestIDKey).(string)
	return id
}
