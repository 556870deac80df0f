package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/trentd187/league-tracker/internal/store"
)

// Register mounts every /api/v1 route on router.
//
// Route group pattern: router is normally app.Group("/api/v1"), so the paths below are
// relative to that prefix. Fiber matches routes in registration order, which is why the
// literal /players/unassigned comes before /players/:id.
func Register(router fiber.Router, s *store.Store) {
	// Courses
	router.Get("/courses", GetCourses(s))
	router.Post("/courses", CreateCourse(s))
	router.Get("/courses/:id", GetCourse(s))
	router.Put("/courses/:id", UpdateCourse(s))
	router.Delete("/courses/:id", DeleteCourse(s))

	// Teams and players
	router.Get("/teams", GetTeams(s))
	router.Post("/teams", CreateTeam(s))
	router.Get("/teams/:id", GetTeam(s))
	router.Delete("/teams/:id", DeleteTeam(s))

	router.Get("/players", GetPlayers(s))
	router.Post("/players", CreatePlayer(s))
	router.Delete("/players/unassigned", DeleteUnassignedPlayers(s))
	router.Get("/players/:id", GetPlayer(s))
	router.Put("/players/:id", UpdatePlayer(s))
	router.Delete("/players/:id", DeletePlayer(s))

	// Leagues
	router.Get("/leagues", GetLeagues(s))
	router.Post("/leagues", CreateLeague(s))
	router.Get("/leagues/:id", GetLeague(s))
	router.Put("/leagues/:id", UpdateLeague(s))
	router.Delete("/leagues/:id", DeleteLeague(s))
	router.Get("/leagues/:id/standings", GetStandings(s))

	// Matches: scheduled under a league, addressed directly by id afterwards
	router.Get("/leagues/:id/matches", GetMatches(s))
	router.Post("/leagues/:id/matches", CreateMatch(s))
	router.Post("/leagues/:id/matches/batch", CreateMatchesBatch(s))
	router.Delete("/leagues/:id/weeks/:week", DeleteWeek(s))
	router.Get("/matches/:id", GetMatch(s))
	router.Delete("/matches/:id", DeleteMatch(s))

	// Scores
	router.Post("/matches/:id/scores", SubmitScores(s))
	router.Get("/matches/:id/scores", GetScores(s))
	router.Get("/matches/:id/points", GetPoints(s))
}
