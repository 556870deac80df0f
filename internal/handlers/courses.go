package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/trentd187/league-tracker/internal/models"
	"github.com/trentd187/league-tracker/internal/store"
)

// HoleRequest is one hole of a course in a create or update body.
type HoleRequest struct {
	Number   int `json:"number"`
	Par      int `json:"par"`
	Handicap int `json:"handicap"`
}

// CourseRequest is the JSON body for POST and PUT on courses. Holes are sent inline;
// their ids are assigned by the server and are what scorecards refer to.
type CourseRequest struct {
	Name  string        `json:"name"`
	Holes []HoleRequest `json:"holes"`
}

func (r CourseRequest) holes() []models.Hole {
	holes := make([]models.Hole, len(r.Holes))
	for i, h := range r.Holes {
		holes[i] = models.Hole{Number: h.Number, Par: h.Par, Handicap: h.Handicap}
	}
	return holes
}

// GetCourses returns a handler for GET /api/v1/courses.
func GetCourses(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		courses, err := s.ListCourses(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(courses)
	}
}

// GetCourse returns a handler for GET /api/v1/courses/:id.
func GetCourse(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := idParam(c, "id")
		if err != nil {
			return err
		}
		course, err := s.GetCourse(c.UserContext(), id)
		if err != nil {
			return err
		}
		return c.JSON(course)
	}
}

// CreateCourse returns a handler for POST /api/v1/courses.
func CreateCourse(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req CourseRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest("invalid request body")
		}
		course, err := s.CreateCourse(c.UserContext(), req.Name, req.holes())
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(course)
	}
}

// UpdateCourse returns a handler for PUT /api/v1/courses/:id.
// The body replaces the course's name and full hole layout.
func UpdateCourse(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := idParam(c, "id")
		if err != nil {
			return err
		}
		var req CourseRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest("invalid request body")
		}
		course, err := s.UpdateCourse(c.UserContext(), id, req.Name, req.holes())
		if err != nil {
			return err
		}
		return c.JSON(course)
	}
}

// DeleteCourse returns a handler for DELETE /api/v1/courses/:id.
func DeleteCourse(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := idParam(c, "id")
		if err != nil {
			return err
		}
		if err := s.DeleteCourse(c.UserContext(), id); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"deleted": true, "course_id": id})
	}
}
