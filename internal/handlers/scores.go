package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/trentd187/league-tracker/internal/rules"
	"github.com/trentd187/league-tracker/internal/store"
)

// HoleScoreRequest is the strokes for one hole, identified by the hole's id.
type HoleScoreRequest struct {
	HoleID  int `json:"hole_id"`
	Strokes int `json:"strokes"`
}

// ScorecardRequest is one player's scorecard.
type ScorecardRequest struct {
	PlayerID   int                `json:"player_id"`
	HoleScores []HoleScoreRequest `json:"hole_scores"`
}

// SubmitScoresRequest is the JSON body for POST /api/v1/matches/:id/scores.
type SubmitScoresRequest struct {
	Scores []ScorecardRequest `json:"scores"`
}

// SubmitScores returns a handler for POST /api/v1/matches/:id/scores.
// The whole request is one transaction: if any card is invalid, nothing is stored.
// A card for a player who already has one replaces it (last writer wins), and the
// response carries the freshly computed points.
func SubmitScores(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		matchID, err := idParam(c, "id")
		if err != nil {
			return err
		}
		var req SubmitScoresRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest("invalid request body")
		}

		subs := make([]store.ScoreSubmission, len(req.Scores))
		for i, card := range req.Scores {
			entries := make([]rules.HoleEntry, len(card.HoleScores))
			for j, hs := range card.HoleScores {
				entries[j] = rules.HoleEntry{HoleID: hs.HoleID, Strokes: hs.Strokes}
			}
			subs[i] = store.ScoreSubmission{PlayerID: card.PlayerID, Scores: entries}
		}

		res, err := s.SubmitScores(c.UserContext(), matchID, subs)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}

// GetScores returns a handler for GET /api/v1/matches/:id/scores.
func GetScores(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		matchID, err := idParam(c, "id")
		if err != nil {
			return err
		}
		cards, err := s.ListScores(c.UserContext(), matchID)
		if err != nil {
			return err
		}
		return c.JSON(cards)
	}
}

// GetPoints returns a handler for GET /api/v1/matches/:id/points.
// Points are recomputed from the stored cards on every call.
func GetPoints(s *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		matchID, err := idParam(c, "id")
		if err != nil {
			return err
		}
		res, err := s.MatchPoints(c.UserContext(), matchID)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"match_id":     res.MatchID,
			"team1_points": res.Team1Points,
			"team2_points": res.Team2Points,
			"outcome":      res.Outcome(),
			"hole_results": res.Holes,
		})
	}
}
