package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/trentd187/league-tracker/internal/store"
)

// PlayerRequest is the JSON body for POST and PUT on players, and one entry of the
// players list when creating a team.
type PlayerRequest struct {
	FirstName     string   `json:"first_name"`
	LastName      string   `json:"last_name"`
	TeamID        *int     `json:"team_id"`        // Optional; null leaves the player unassigned
	LeagueAverage *float64 `json:"league_average"` // Optional; display only
}

func (r PlayerRequest) input() store.PlayerInput {
	return store.PlayerInput{
		FirstName:     r.FirstName,
		LastName:      r.LastName,
		TeamID:        r.TeamID,
		LeagueAverage: r.LeagueAverage,
	}
}

// TeamRequest is the JSON body for POST /api/v1/teams.
// Any team_id set on the listed players is ignored; they join the new team.
type TeamRequest struct {
	Name    string          `json:"name"`
	Players []PlayerRequest `json:"players"`
}

// GetTeams returns a handler for GET /api/v1/teams.
func GetTeams(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		teams, err := s.ListTeams(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(teams)
	}
}

// GetTeam returns a handler for GET /api/v1/teams/:id.
func GetTeam(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := idParam(c, "id")
		if err != nil {
			return err
		}
		team, err := s.GetTeam(c.UserContext(), id)
		if err != nil {
			return err
		}
		return c.JSON(team)
	}
}

// CreateTeam returns a handler for POST /api/v1/teams.
func CreateTeam(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req TeamRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest("invalid request body")
		}
		players := make([]store.PlayerInput, len(req.Players))
		for i, p := range req.Players {
			players[i] = p.input()
		}
		team, err := s.CreateTeam(c.UserContext(), req.Name, players)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(team)
	}
}

// DeleteTeam returns a handler for DELETE /api/v1/teams/:id.
// The team's players are kept and become unassigned.
func DeleteTeam(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := idParam(c, "id")
		if err != nil {
			return err
		}
		if err := s.DeleteTeam(c.UserContext(), id); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"deleted": true, "team_id": id})
	}
}

// GetPlayers returns a handler for GET /api/v1/players.
// Optional query param: ?team_id=N to list one team's players.
func GetPlayers(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		teamID, err := optionalIntQuery(c, "team_id")
		if err != nil {
			return err
		}
		players, err := s.ListPlayers(c.UserContext(), teamID)
		if err != nil {
			return err
		}
		return c.JSON(players)
	}
}

// GetPlayer returns a handler for GET /api/v1/players/:id.
func GetPlayer(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := idParam(c, "id")
		if err != nil {
			return err
		}
		player, err := s.GetPlayer(c.UserContext(), id)
		if err != nil {
			return err
		}
		return c.JSON(player)
	}
}

// CreatePlayer returns a handler for POST /api/v1/players.
// A player can be created with or without a team and moved later with PUT.
func CreatePlayer(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req PlayerRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest("invalid request body")
		}
		player, err := s.CreatePlayer(c.UserContext(), req.input())
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(player)
	}
}

// UpdatePlayer returns a handler for PUT /api/v1/players/:id.
// The body replaces every editable field; omitting team_id unassigns the player.
func UpdatePlayer(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := idParam(c, "id")
		if err != nil {
			return err
		}
		var req PlayerRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest("invalid request body")
		}
		player, err := s.UpdatePlayer(c.UserContext(), id, req.input())
		if err != nil {
			return err
		}
		return c.JSON(player)
	}
}

// DeletePlayer returns a handler for DELETE /api/v1/players/:id.
func DeletePlayer(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := idParam(c, "id")
		if err != nil {
			return err
		}
		if err := s.DeletePlayer(c.UserContext(), id); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"deleted": true, "player_id": id})
	}
}

// DeleteUnassignedPlayers returns a handler for DELETE /api/v1/players/unassigned.
// It clears out players that have no team and no recorded scores.
func DeleteUnassignedPlayers(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		n, err := s.DeleteUnassignedPlayers(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"deleted_count": n})
	}
}
