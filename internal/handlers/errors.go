package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/trentd187/league-tracker/internal/rules"
)

// dateLayout is the wire format for calendar dates ("YYYY-MM-DD").
const dateLayout = "2006-01-02"

// ErrorHandler is installed as the app's fiber.Config.ErrorHandler.
// Handlers simply return whatever error the store gave them; this function turns the
// error kind into a status code and writes the usual {"error": "..."} body.
//
//	NotFound                      → 404
//	DuplicateWeek, Conflict       → 409
//	roster, week, validation kinds → 400
//	Persistence and anything else → 500 (details stay in the logs)
func ErrorHandler(c *fiber.Ctx, err error) error {
	status, msg := statusFor(err)
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

func statusFor(err error) (int, string) {
	// *fiber.Error comes from fiber itself (unknown route, bad method) or from
	// handlers rejecting a malformed request before it reaches the store.
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code, fe.Message
	case errors.Is(err, rules.ErrNotFound):
		return fiber.StatusNotFound, err.Error()
	case errors.Is(err, rules.ErrDuplicateWeek), errors.Is(err, rules.ErrConflict):
		return fiber.StatusConflict, err.Error()
	case errors.Is(err, rules.ErrInvalidRosterSize),
		errors.Is(err, rules.ErrOddRosterSize),
		errors.Is(err, rules.ErrInvalidWeekNumber),
		errors.Is(err, rules.ErrValidation):
		return fiber.StatusBadRequest, err.Error()
	default:
		return fiber.StatusInternalServerError, "internal server error"
	}
}

// badRequest builds the error a handler returns for input it can't even hand to the store.
func badRequest(msg string) error {
	return fiber.NewError(fiber.StatusBadRequest, msg)
}

// idParam reads a positive integer route parameter such as :id or :week.
func idParam(c *fiber.Ctx, name string) (int, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id < 1 {
		return 0, badRequest(name + " must be a positive integer")
	}
	return id, nil
}

// optionalIntQuery reads an optional integer query parameter (?week=3).
// Returns nil when the parameter is absent.
func optionalIntQuery(c *fiber.Ctx, name string) (*int, error) {
	if c.Query(name) == "" {
		return nil, nil
	}
	v := c.QueryInt(name, -1)
	if v < 1 {
		return nil, badRequest(name + " must be a positive integer")
	}
	return &v, nil
}

// parseDate parses a required "YYYY-MM-DD" date field.
func parseDate(field, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, badRequest(field + " is required")
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, badRequest(field + " must be in YYYY-MM-DD format")
	}
	return t, nil
}

// formatDate renders a stored date back in the wire format.
func formatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

// formatTimestamp renders a timestamp as RFC 3339 for easy parsing by clients.
func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
