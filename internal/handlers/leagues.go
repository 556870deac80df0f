package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/trentd187/league-tracker/internal/store"
)

// LeagueResponse is what we send back for a league.
// We use a dedicated response struct (instead of the store's view) so dates go out as
// plain "YYYY-MM-DD" strings.
type LeagueResponse struct {
	ID            int                 `json:"id"`
	Name          string              `json:"name"`
	CourseID      int                 `json:"course_id"`
	StartDate     string              `json:"start_date"`      // "YYYY-MM-DD"
	NumberOfWeeks int                 `json:"number_of_weeks"` // Highest scheduled week; 0 with no matches
	TeamIDs       []int               `json:"team_ids"`
	Teams         []store.TeamSummary `json:"teams"`
	CreatedAt     string              `json:"created_at"`
}

func leagueResponse(v *store.LeagueView) LeagueResponse {
	return LeagueResponse{
		ID:            v.ID,
		Name:          v.Name,
		CourseID:      v.CourseID,
		StartDate:     formatDate(v.StartDate),
		NumberOfWeeks: v.NumberOfWeeks,
		TeamIDs:       v.TeamIDs,
		Teams:         v.Teams,
		CreatedAt:     formatTimestamp(v.CreatedAt),
	}
}

// LeagueRequest is the JSON body for POST and PUT on leagues.
type LeagueRequest struct {
	Name      string `json:"name"`
	CourseID  int    `json:"course_id"`
	StartDate string `json:"start_date"` // Required: "YYYY-MM-DD"
	TeamIDs   []int  `json:"team_ids"`   // The full roster
}

func (r LeagueRequest) input() (store.LeagueInput, error) {
	start, err := parseDate("start_date", r.StartDate)
	if err != nil {
		return store.LeagueInput{}, err
	}
	return store.LeagueInput{
		Name:      r.Name,
		CourseID:  r.CourseID,
		StartDate: start,
		TeamIDs:   r.TeamIDs,
	}, nil
}

// GetLeagues returns a handler for GET /api/v1/leagues.
func GetLeagues(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		views, err := s.ListLeagues(c.UserContext())
		if err != nil {
			return err
		}
		response := make([]LeagueResponse, 0, len(views))
		for i := range views {
			response = append(response, leagueResponse(&views[i]))
		}
		return c.JSON(response)
	}
}

// GetLeague returns a handler for GET /api/v1/leagues/:id.
// number_of_weeks is never sent by clients; it is derived from the league's matches.
func GetLeague(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := idParam(c, "id")
		if err != nil {
			return err
		}
		view, err := s.GetLeague(c.UserContext(), id)
		if err != nil {
			return err
		}
		return c.JSON(leagueResponse(view))
	}
}

// CreateLeague returns a handler for POST /api/v1/leagues.
// The roster is validated (size 2..30, even, no duplicates, every team exists) before
// anything is written.
func CreateLeague(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req LeagueRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest("invalid request body")
		}
		in, err := req.input()
		if err != nil {
			return err
		}
		view, err := s.CreateLeague(c.UserContext(), in)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(leagueResponse(view))
	}
}

// UpdateLeague returns a handler for PUT /api/v1/leagues/:id.
func UpdateLeague(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := idParam(c, "id")
		if err != nil {
			return err
		}
		var req LeagueRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest("invalid request body")
		}
		in, err := req.input()
		if err != nil {
			return err
		}
		view, err := s.UpdateLeague(c.UserContext(), id, in)
		if err != nil {
			return err
		}
		return c.JSON(leagueResponse(view))
	}
}

// DeleteLeague returns a handler for DELETE /api/v1/leagues/:id.
// Everything scheduled in the league goes with it.
func DeleteLeague(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := idParam(c, "id")
		if err != nil {
			return err
		}
		res, err := s.DeleteLeague(c.UserContext(), id)
		if err != nil {
			return err
		}
		return c.JSON(res)
	}
}

// GetStandings returns a handler for GET /api/v1/leagues/:id/standings.
func GetStandings(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := idParam(c, "id")
		if err != nil {
			return err
		}
		table, err := s.Standings(c.UserContext(), id)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"league_id": id, "standings": table})
	}
}
