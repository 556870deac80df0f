package store

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/trentd187/league-tracker/internal/config"
	"github.com/trentd187/league-tracker/internal/database"
	"github.com/trentd187/league-tracker/internal/models"
	"github.com/trentd187/league-tracker/internal/rules"
)

var ctx = context.Background()

// newTestStore opens a private in-memory SQLite database for one test.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.Connect(config.DriverSQLite, fmt.Sprintf("file:%s?mode=memory&cache=shared", name), false)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return New(db, zap.NewNop())
}

// fixture is a two-hole course, four teams of two players and a league over all four.
type fixture struct {
	course *models.Course
	teams  []*models.Team
	league *LeagueView
}

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func seed(t *testing.T, s *Store) fixture {
	t.Helper()
	course, err := s.CreateCourse(ctx, "Pine Valley", []models.Hole{
		{Number: 1, Par: 4, Handicap: 2},
		{Number: 2, Par: 3, Handicap: 1},
	})
	require.NoError(t, err)

	var f fixture
	f.course = course
	for _, name := range []string{"Aces", "Birdies", "Condors", "Eagles"} {
		team, err := s.CreateTeam(ctx, name, []PlayerInput{
			{FirstName: name, LastName: "One"},
			{FirstName: name, LastName: "Two"},
		})
		require.NoError(t, err)
		f.teams = append(f.teams, team)
	}

	f.league, err = s.CreateLeague(ctx, LeagueInput{
		Name:      "Tuesday Night",
		CourseID:  course.ID,
		StartDate: date("2026-04-07"),
		TeamIDs:   f.teamIDs(),
	})
	require.NoError(t, err)
	return f
}

func (f fixture) teamIDs() []int {
	ids := make([]int, len(f.teams))
	for i, t := range f.teams {
		ids[i] = t.ID
	}
	return ids
}

func (f fixture) hole(n int) int {
	for _, h := range f.course.Holes {
		if h.Number == n {
			return h.ID
		}
	}
	panic("no such hole")
}

// card builds a submission with strokes listed in hole-number order.
func (f fixture) card(playerID int, strokes ...int) ScoreSubmission {
	sub := ScoreSubmission{PlayerID: playerID}
	for i, s := range strokes {
		sub.Scores = append(sub.Scores, rules.HoleEntry{HoleID: f.hole(i + 1), Strokes: s})
	}
	return sub
}

func (f fixture) match(t *testing.T, s *Store, week, a, b int) *models.Match {
	t.Helper()
	m, err := s.CreateMatch(ctx, f.league.ID, MatchInput{
		WeekNumber: week,
		Team1ID:    f.teams[a].ID,
		Team2ID:    f.teams[b].ID,
		Date:       date("2026-04-07").AddDate(0, 0, 7*(week-1)),
	})
	require.NoError(t, err)
	return m
}

func count(t *testing.T, s *Store, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, s.db.Model(model).Count(&n).Error)
	return n
}
