package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/trentd187/league-tracker/internal/models"
	"github.com/trentd187/league-tracker/internal/store"
)

// MatchResponse is a scheduled match with its date as "YYYY-MM-DD".
type MatchResponse struct {
	ID         int    `json:"id"`
	LeagueID   int    `json:"league_id"`
	WeekNumber int    `json:"week_number"`
	Team1ID    int    `json:"team1_id"`
	Team2ID    int    `json:"team2_id"`
	Date       string `json:"date"`
}

func matchResponse(m *models.Match) MatchResponse {
	return MatchResponse{
		ID:         m.ID,
		LeagueID:   m.LeagueID,
		WeekNumber: m.WeekNumber,
		Team1ID:    m.Team1ID,
		Team2ID:    m.Team2ID,
		Date:       formatDate(m.Date),
	}
}

func matchResponses(matches []models.Match) []MatchResponse {
	out := make([]MatchResponse, 0, len(matches))
	for i := range matches {
		out = append(out, matchResponse(&matches[i]))
	}
	return out
}

// MatchDetailResponse adds both teams with their players, the league name and the
// course the match is played on.
type MatchDetailResponse struct {
	MatchResponse
	LeagueName string      `json:"league_name"`
	CourseID   int         `json:"course_id"`
	Team1      models.Team `json:"team1"`
	Team2      models.Team `json:"team2"`
}

// MatchRequest is the JSON body for POST /api/v1/leagues/:id/matches and one entry of
// a batch.
type MatchRequest struct {
	WeekNumber int    `json:"week_number"`
	Team1ID    int    `json:"team1_id"`
	Team2ID    int    `json:"team2_id"`
	Date       string `json:"date"` // Required: "YYYY-MM-DD"
}

// input converts the request; field names the date field in error messages.
func (r MatchRequest) input(field string) (store.MatchInput, error) {
	date, err := parseDate(field, r.Date)
	if err != nil {
		return store.MatchInput{}, err
	}
	return store.MatchInput{WeekNumber: r.WeekNumber, Team1ID: r.Team1ID, Team2ID: r.Team2ID, Date: date}, nil
}

// BatchMatchRequest is the JSON body for POST /api/v1/leagues/:id/matches/batch.
type BatchMatchRequest struct {
	Matches []MatchRequest `json:"matches"`
}

// GetMatches returns a handler for GET /api/v1/leagues/:id/matches.
// Optional query param: ?week=N to list a single week.
func GetMatches(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		leagueID, err := idParam(c, "id")
		if err != nil {
			return err
		}
		week, err := optionalIntQuery(c, "week")
		if err != nil {
			return err
		}
		matches, err := s.ListMatches(c.UserContext(), leagueID, week)
		if err != nil {
			return err
		}
		return c.JSON(matchResponses(matches))
	}
}

// CreateMatch returns a handler for POST /api/v1/leagues/:id/matches.
// A second match in a week that already has one is refused with 409.
func CreateMatch(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		leagueID, err := idParam(c, "id")
		if err != nil {
			return err
		}
		var req MatchRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest("invalid request body")
		}
		in, err := req.input("date")
		if err != nil {
			return err
		}
		match, err := s.CreateMatch(c.UserContext(), leagueID, in)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(matchResponse(match))
	}
}

// CreateMatchesBatch returns a handler for POST /api/v1/leagues/:id/matches/batch.
// This is the bulk seeding path: several matches may share a week.
func CreateMatchesBatch(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		leagueID, err := idParam(c, "id")
		if err != nil {
			return err
		}
		var req BatchMatchRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest("invalid request body")
		}
		inputs := make([]store.MatchInput, len(req.Matches))
		for i, m := range req.Matches {
			in, err := m.input(fmt.Sprintf("matches[%d].date", i))
			if err != nil {
				return err
			}
			inputs[i] = in
		}
		matches, err := s.CreateMatchesBulk(c.UserContext(), leagueID, inputs)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(matchResponses(matches))
	}
}

// GetMatch returns a handler for GET /api/v1/matches/:id.
func GetMatch(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := idParam(c, "id")
		if err != nil {
			return err
		}
		detail, err := s.GetMatch(c.UserContext(), id)
		if err != nil {
			return err
		}
		return c.JSON(MatchDetailResponse{
			MatchResponse: matchResponse(&detail.Match),
			LeagueName:    detail.League.Name,
			CourseID:      detail.CourseID,
			Team1:         detail.Team1,
			Team2:         detail.Team2,
		})
	}
}

// DeleteMatch returns a handler for DELETE /api/v1/matches/:id.
func DeleteMatch(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := idParam(c, "id")
		if err != nil {
			return err
		}
		res, err := s.DeleteMatch(c.UserContext(), id)
		if err != nil {
			return err
		}
		return c.JSON(res)
	}
}

// DeleteWeek returns a handler for DELETE /api/v1/leagues/:id/weeks/:week.
// Every match of the week and all their scores are removed together.
func DeleteWeek(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		leagueID, err := idParam(c, "id")
		if err != nil {
			return err
		}
		// Any integer is passed through; the store rejects weeks below 1.
		week, err := c.ParamsInt("week")
		if err != nil {
			return badRequest("week must be an integer")
		}
		res, err := s.DeleteWeek(c.UserContext(), leagueID, week)
		if err != nil {
			return err
		}
		return c.JSON(res)
	}
}
