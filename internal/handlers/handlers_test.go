package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/trentd187/league-tracker/internal/config"
	"github.com/trentd187/league-tracker/internal/database"
	"github.com/trentd187/league-tracker/internal/store"
)

// newTestApp wires the real routes over a private in-memory SQLite store.
func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.Connect(config.DriverSQLite, fmt.Sprintf("file:%s?mode=memory&cache=shared", name), false)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	s := store.New(db, zap.NewNop())
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/health", HealthCheck(s))
	Register(app.Group("/api/v1"), s)
	return app
}

// call sends a JSON request and decodes the JSON response into out when out is non-nil.
func call(t *testing.T, app *fiber.App, method, path string, body interface{}, out interface{}) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, out), string(raw))
	}
	return resp.StatusCode
}

type errorBody struct {
	Error string `json:"error"`
}

type idBody struct {
	ID      int `json:"id"`
	Players []struct {
		ID int `json:"id"`
	} `json:"players"`
	Holes []struct {
		ID     int `json:"id"`
		Number int `json:"number"`
	} `json:"holes"`
}

// league sets up a two-hole course, two teams (two players and one player) and a
// league over both, returning the created resources.
func league(t *testing.T, app *fiber.App) (course, teamA, teamB idBody, leagueID int) {
	t.Helper()
	require.Equal(t, fiber.StatusCreated, call(t, app, "POST", "/api/v1/courses", CourseRequest{
		Name:  "Pine Valley",
		Holes: []HoleRequest{{Number: 1, Par: 4, Handicap: 2}, {Number: 2, Par: 3, Handicap: 1}},
	}, &course))

	require.Equal(t, fiber.StatusCreated, call(t, app, "POST", "/api/v1/teams", TeamRequest{
		Name: "Aces",
		Players: []PlayerRequest{
			{FirstName: "Ann", LastName: "Hogan"},
			{FirstName: "Bo", LastName: "Snead"},
		},
	}, &teamA))
	require.Equal(t, fiber.StatusCreated, call(t, app, "POST", "/api/v1/teams", TeamRequest{
		Name:    "Birdies",
		Players: []PlayerRequest{{FirstName: "Cy", LastName: "Palmer"}},
	}, &teamB))

	var lg LeagueResponse
	require.Equal(t, fiber.StatusCreated, call(t, app, "POST", "/api/v1/leagues", LeagueRequest{
		Name:      "Tuesday Night",
		CourseID:  course.ID,
		StartDate: "2026-04-07",
		TeamIDs:   []int{teamA.ID, teamB.ID},
	}, &lg))
	return course, teamA, teamB, lg.ID
}

func TestHealthCheck(t *testing.T) {
	app := newTestApp(t)

	var body map[string]string
	assert.Equal(t, fiber.StatusOK, call(t, app, "GET", "/health", nil, &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "ok", body["database"])
}

func TestLeagueRoundTrip(t *testing.T) {
	app := newTestApp(t)
	course, teamA, teamB, leagueID := league(t, app)

	var lg LeagueResponse
	require.Equal(t, fiber.StatusOK, call(t, app, "GET", fmt.Sprintf("/api/v1/leagues/%d", leagueID), nil, &lg))
	assert.Equal(t, "2026-04-07", lg.StartDate)
	assert.Equal(t, course.ID, lg.CourseID)
	assert.Equal(t, []int{teamA.ID, teamB.ID}, lg.TeamIDs)
	assert.Equal(t, 0, lg.NumberOfWeeks)
}

func TestCreateLeagueRosterErrors(t *testing.T) {
	app := newTestApp(t)
	course, teamA, teamB, _ := league(t, app)

	var third idBody
	require.Equal(t, fiber.StatusCreated, call(t, app, "POST", "/api/v1/teams", TeamRequest{Name: "Condors"}, &third))

	var body errorBody
	status := call(t, app, "POST", "/api/v1/leagues", LeagueRequest{
		Name: "Odd", CourseID: course.ID, StartDate: "2026-04-07", TeamIDs: []int{teamA.ID, teamB.ID, third.ID},
	}, &body)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body.Error, "even number of teams")

	status = call(t, app, "POST", "/api/v1/leagues", LeagueRequest{
		Name: "Solo", CourseID: course.ID, StartDate: "2026-04-07", TeamIDs: []int{teamA.ID},
	}, &body)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body.Error, "between 2 and 30")

	status = call(t, app, "POST", "/api/v1/leagues", LeagueRequest{
		Name: "No Date", CourseID: course.ID, StartDate: "07/04/2026", TeamIDs: []int{teamA.ID, teamB.ID},
	}, &body)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body.Error, "start_date")
}

func TestMatchScheduleAndScoring(t *testing.T) {
	app := newTestApp(t)
	course, teamA, teamB, leagueID := league(t, app)
	matchesURL := fmt.Sprintf("/api/v1/leagues/%d/matches", leagueID)

	var match MatchResponse
	require.Equal(t, fiber.StatusCreated, call(t, app, "POST", matchesURL, MatchRequest{
		WeekNumber: 3, Team1ID: teamA.ID, Team2ID: teamB.ID, Date: "2026-04-21",
	}, &match))
	assert.Equal(t, "2026-04-21", match.Date)

	// A second match in week 3 is a duplicate week.
	var body errorBody
	status := call(t, app, "POST", matchesURL, MatchRequest{
		WeekNumber: 3, Team1ID: teamB.ID, Team2ID: teamA.ID, Date: "2026-04-21",
	}, &body)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Contains(t, body.Error, "week 3")

	hole := func(n int) int {
		for _, h := range course.Holes {
			if h.Number == n {
				return h.ID
			}
		}
		t.Fatalf("no hole %d", n)
		return 0
	}
	card := func(player, h1, h2 int) ScorecardRequest {
		return ScorecardRequest{PlayerID: player, HoleScores: []HoleScoreRequest{
			{HoleID: hole(1), Strokes: h1},
			{HoleID: hole(2), Strokes: h2},
		}}
	}

	var submitted store.SubmitResult
	scoresURL := fmt.Sprintf("/api/v1/matches/%d/scores", match.ID)
	require.Equal(t, fiber.StatusCreated, call(t, app, "POST", scoresURL, SubmitScoresRequest{Scores: []ScorecardRequest{
		card(teamA.Players[0].ID, 4, 5),
		card(teamA.Players[1].ID, 3, 6),
		card(teamB.Players[0].ID, 5, 4),
	}}, &submitted))
	assert.Equal(t, 1, submitted.Points.Team1Points)
	assert.Equal(t, 3, submitted.Points.Team2Points)
	assert.Len(t, submitted.Scores, 3)

	var points struct {
		Team1Points int    `json:"team1_points"`
		Team2Points int    `json:"team2_points"`
		Outcome     string `json:"outcome"`
		HoleResults []struct {
			HoleNumber int  `json:"hole_number"`
			Team1Best  *int `json:"team1_best_player_score"`
			Team2Total *int `json:"team2_total_score"`
		} `json:"hole_results"`
	}
	require.Equal(t, fiber.StatusOK, call(t, app, "GET", fmt.Sprintf("/api/v1/matches/%d/points", match.ID), nil, &points))
	assert.Equal(t, "team2", points.Outcome)
	require.Len(t, points.HoleResults, 2)
	assert.Equal(t, 3, *points.HoleResults[0].Team1Best)
	assert.Equal(t, 4, *points.HoleResults[1].Team2Total)

	var standings struct {
		Standings []store.Standing `json:"standings"`
	}
	require.Equal(t, fiber.StatusOK, call(t, app, "GET", fmt.Sprintf("/api/v1/leagues/%d/standings", leagueID), nil, &standings))
	require.Len(t, standings.Standings, 2)
	assert.Equal(t, "Birdies", standings.Standings[0].TeamName)
	assert.Equal(t, 1, standings.Standings[0].Wins)

	var lg LeagueResponse
	require.Equal(t, fiber.StatusOK, call(t, app, "GET", fmt.Sprintf("/api/v1/leagues/%d", leagueID), nil, &lg))
	assert.Equal(t, 3, lg.NumberOfWeeks)

	var deleted store.DeleteWeekResult
	require.Equal(t, fiber.StatusOK, call(t, app, "DELETE", fmt.Sprintf("/api/v1/leagues/%d/weeks/3", leagueID), nil, &deleted))
	assert.Equal(t, store.DeleteWeekResult{LeagueID: leagueID, WeekNumber: 3, DeletedCount: 1}, deleted)

	assert.Equal(t, fiber.StatusNotFound, call(t, app, "GET", scoresURL, nil, &body))
}

func TestSubmitScoresRejectsForeignPlayer(t *testing.T) {
	app := newTestApp(t)
	course, teamA, teamB, leagueID := league(t, app)

	var match MatchResponse
	require.Equal(t, fiber.StatusCreated, call(t, app, "POST", fmt.Sprintf("/api/v1/leagues/%d/matches", leagueID), MatchRequest{
		WeekNumber: 1, Team1ID: teamA.ID, Team2ID: teamB.ID, Date: "2026-04-07",
	}, &match))

	var loner idBody
	require.Equal(t, fiber.StatusCreated, call(t, app, "POST", "/api/v1/players", PlayerRequest{FirstName: "Lee", LastName: "Trevino"}, &loner))

	var body errorBody
	status := call(t, app, "POST", fmt.Sprintf("/api/v1/matches/%d/scores", match.ID), SubmitScoresRequest{Scores: []ScorecardRequest{
		{PlayerID: loner.ID, HoleScores: []HoleScoreRequest{{HoleID: course.Holes[0].ID, Strokes: 4}}},
	}}, &body)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body.Error, "not on either team")

	var cards []json.RawMessage
	require.Equal(t, fiber.StatusOK, call(t, app, "GET", fmt.Sprintf("/api/v1/matches/%d/scores", match.ID), nil, &cards))
	assert.Empty(t, cards)
}

func TestBatchMatchesShareWeeks(t *testing.T) {
	app := newTestApp(t)
	_, teamA, teamB, leagueID := league(t, app)

	var created []MatchResponse
	require.Equal(t, fiber.StatusCreated, call(t, app, "POST", fmt.Sprintf("/api/v1/leagues/%d/matches/batch", leagueID), BatchMatchRequest{
		Matches: []MatchRequest{
			{WeekNumber: 1, Team1ID: teamA.ID, Team2ID: teamB.ID, Date: "2026-04-07"},
			{WeekNumber: 1, Team1ID: teamB.ID, Team2ID: teamA.ID, Date: "2026-04-07"},
		},
	}, &created))
	assert.Len(t, created, 2)

	var week1 []MatchResponse
	require.Equal(t, fiber.StatusOK, call(t, app, "GET", fmt.Sprintf("/api/v1/leagues/%d/matches?week=1", leagueID), nil, &week1))
	assert.Len(t, week1, 2)

	var body errorBody
	status := call(t, app, "POST", fmt.Sprintf("/api/v1/leagues/%d/matches/batch", leagueID), BatchMatchRequest{
		Matches: []MatchRequest{{WeekNumber: 2, Team1ID: teamA.ID, Team2ID: teamB.ID, Date: "soon"}},
	}, &body)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body.Error, "matches[0].date")
}

func TestRequestErrors(t *testing.T) {
	app := newTestApp(t)
	_, _, _, leagueID := league(t, app)

	tests := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{"non-numeric id", "GET", "/api/v1/leagues/abc", fiber.StatusBadRequest},
		{"unknown league", "GET", "/api/v1/leagues/999", fiber.StatusNotFound},
		{"unknown match", "GET", "/api/v1/matches/999/points", fiber.StatusNotFound},
		{"week zero", "DELETE", fmt.Sprintf("/api/v1/leagues/%d/weeks/0", leagueID), fiber.StatusBadRequest},
		{"bad week filter", "GET", fmt.Sprintf("/api/v1/leagues/%d/matches?week=x", leagueID), fiber.StatusBadRequest},
		{"unknown route", "GET", "/api/v1/nowhere", fiber.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body errorBody
			assert.Equal(t, tt.want, call(t, app, tt.method, tt.path, nil, &body))
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestMalformedBody(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest("POST", "/api/v1/courses", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestDeleteUnassignedRouteIsNotAnID(t *testing.T) {
	app := newTestApp(t)
	require.Equal(t, fiber.StatusCreated, call(t, app, "POST", "/api/v1/players", PlayerRequest{FirstName: "Lee", LastName: "Trevino"}, nil))

	var body struct {
		DeletedCount int64 `json:"deleted_count"`
	}
	require.Equal(t, fiber.StatusOK, call(t, app, "DELETE", "/api/v1/players/unassigned", nil, &body))
	assert.Equal(t, int64(1), body.DeletedCount)
}

func TestTeamDeleteConflict(t *testing.T) {
	app := newTestApp(t)
	_, teamA, _, _ := league(t, app)

	var body errorBody
	assert.Equal(t, fiber.StatusConflict, call(t, app, "DELETE", fmt.Sprintf("/api/v1/teams/%d", teamA.ID), nil, &body))
	assert.Contains(t, body.Error, "conflict")
}
