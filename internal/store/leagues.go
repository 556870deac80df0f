package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/trentd187/league-tracker/internal/models"
	"github.com/trentd187/league-tracker/internal/rules"
	"github.com/trentd187/league-tracker/internal/scoring"
)

// LeagueInput carries the fields used to create or replace a league.
type LeagueInput struct {
	Name      string
	CourseID  int
	StartDate time.Time
	TeamIDs   []int
}

func (in LeagueInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: league name is required", rules.ErrValidation)
	}
	if in.StartDate.IsZero() {
		return fmt.Errorf("%w: start date is required", rules.ErrValidation)
	}
	return rules.ValidateRoster(in.TeamIDs)
}

// TeamSummary is a team reference without its players.
type TeamSummary struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// LeagueView is a league as the API presents it: the stored row plus the derived
// week count and the roster.
type LeagueView struct {
	models.League
	NumberOfWeeks int           `json:"number_of_weeks"`
	TeamIDs       []int         `json:"team_ids"`
	Teams         []TeamSummary `json:"teams"`
}

// DeleteLeagueResult describes what a league deletion removed.
type DeleteLeagueResult struct {
	LeagueID       int    `json:"league_id"`
	Name           string `json:"name"`
	DeletedMatches int    `json:"deleted_matches"`
}

// Standing is one team's line in a league table.
type Standing struct {
	TeamID   int    `json:"team_id"`
	TeamName string `json:"team_name"`
	Played   int    `json:"played"`
	Wins     int    `json:"wins"`
	Losses   int    `json:"losses"`
	Halved   int    `json:"halved"`
	Points   int    `json:"points"`
}

// CreateLeague stores a league and its roster.
func (s *Store) CreateLeague(ctx context.Context, in LeagueInput) (*LeagueView, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	var view *LeagueView
	err := s.transaction(ctx, "league", func(tx *gorm.DB) error {
		if err := first(tx, &models.Course{}, in.CourseID, "course"); err != nil {
			return err
		}
		if err := requireIDs(tx, &models.Team{}, in.TeamIDs, "team"); err != nil {
			return err
		}

		league := models.League{
			Name:      strings.TrimSpace(in.Name),
			CourseID:  in.CourseID,
			StartDate: in.StartDate,
		}
		if err := tx.Create(&league).Error; err != nil {
			return err
		}
		if err := insertRoster(tx, league.ID, in.TeamIDs); err != nil {
			return err
		}

		var err error
		view, err = leagueView(tx, league)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// ListLeagues returns every league with its derived week count and roster.
func (s *Store) ListLeagues(ctx context.Context) ([]LeagueView, error) {
	var views []LeagueView
	err := s.read(ctx, "leagues", func(db *gorm.DB) error {
		var leagues []models.League
		if err := db.Order("id ASC").Find(&leagues).Error; err != nil {
			return err
		}
		views = make([]LeagueView, 0, len(leagues))
		for _, l := range leagues {
			v, err := leagueView(db, l)
			if err != nil {
				return err
			}
			views = append(views, *v)
		}
		return nil
	})
	return views, err
}

// GetLeague returns one league with its derived week count and roster.
func (s *Store) GetLeague(ctx context.Context, id int) (*LeagueView, error) {
	var view *LeagueView
	err := s.read(ctx, "league", func(db *gorm.DB) error {
		var league models.League
		if err := first(db, &league, id, "league"); err != nil {
			return err
		}
		var err error
		view, err = leagueView(db, league)
		return err
	})
	return view, err
}

// UpdateLeague replaces a league's details and roster.
//
// Teams that already have matches scheduled must stay on the roster, and the course
// can't change once scores have been recorded against its holes.
func (s *Store) UpdateLeague(ctx context.Context, id int, in LeagueInput) (*LeagueView, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	var view *LeagueView
	err := s.transaction(ctx, "league", func(tx *gorm.DB) error {
		var league models.League
		if err := first(tx, &league, id, "league"); err != nil {
			return err
		}
		if err := first(tx, &models.Course{}, in.CourseID, "course"); err != nil {
			return err
		}
		if err := requireIDs(tx, &models.Team{}, in.TeamIDs, "team"); err != nil {
			return err
		}

		if in.CourseID != league.CourseID {
			var cards int64
			err := tx.Model(&models.PlayerScore{}).
				Joins("JOIN matches ON matches.id = player_scores.match_id").
				Where("matches.league_id = ?", id).
				Count(&cards).Error
			if err != nil {
				return err
			}
			if cards > 0 {
				return fmt.Errorf("%w: league %d has recorded scores; its course can't change", rules.ErrConflict, id)
			}
		}

		var matches []models.Match
		if err := tx.Where("league_id = ?", id).Find(&matches).Error; err != nil {
			return err
		}
		newRoster := make(map[int]bool, len(in.TeamIDs))
		for _, t := range in.TeamIDs {
			newRoster[t] = true
		}
		for _, m := range matches {
			for _, t := range []int{m.Team1ID, m.Team2ID} {
				if !newRoster[t] {
					return fmt.Errorf("%w: team %d has matches scheduled in league %d", rules.ErrConflict, t, id)
				}
			}
		}

		err := tx.Model(&league).Updates(map[string]interface{}{
			"name":       strings.TrimSpace(in.Name),
			"course_id":  in.CourseID,
			"start_date": in.StartDate,
		}).Error
		if err != nil {
			return err
		}
		if err := tx.Where("league_id = ?", id).Delete(&models.LeagueTeam{}).Error; err != nil {
			return err
		}
		if err := insertRoster(tx, id, in.TeamIDs); err != nil {
			return err
		}

		if err := first(tx, &league, id, "league"); err != nil {
			return err
		}
		view, err = leagueView(tx, league)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// DeleteLeague removes a league and everything scheduled in it: hole scores, player
// scores, match results, matches, and roster rows, in that order, in one transaction.
func (s *Store) DeleteLeague(ctx context.Context, id int) (*DeleteLeagueResult, error) {
	var res DeleteLeagueResult
	err := s.transaction(ctx, "league", func(tx *gorm.DB) error {
		var league models.League
		if err := first(tx, &league, id, "league"); err != nil {
			return err
		}

		var matchIDs []int
		if err := tx.Model(&models.Match{}).Where("league_id = ?", id).Pluck("id", &matchIDs).Error; err != nil {
			return err
		}
		if err := deleteMatchesCascade(tx, matchIDs); err != nil {
			return err
		}
		if err := tx.Where("league_id = ?", id).Delete(&models.LeagueTeam{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&league).Error; err != nil {
			return err
		}

		res = DeleteLeagueResult{LeagueID: id, Name: league.Name, DeletedMatches: len(matchIDs)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("league deleted",
		zap.Int("league_id", id),
		zap.Int("deleted_matches", res.DeletedMatches),
	)
	return &res, nil
}

// NumberOfWeeks derives a league's week count from its matches.
func (s *Store) NumberOfWeeks(ctx context.Context, leagueID int) (int, error) {
	weeks := 0
	err := s.read(ctx, "league", func(db *gorm.DB) error {
		if err := first(db, &models.League{}, leagueID, "league"); err != nil {
			return err
		}
		var err error
		weeks, err = numberOfWeeks(db, leagueID)
		return err
	})
	return weeks, err
}

// Standings builds the league table from stored match results.
// Every roster team appears, including teams that haven't played yet.
// Rows are ordered by points, then wins, then team name.
func (s *Store) Standings(ctx context.Context, leagueID int) ([]Standing, error) {
	var table []Standing
	err := s.read(ctx, "standings", func(db *gorm.DB) error {
		if err := first(db, &models.League{}, leagueID, "league"); err != nil {
			return err
		}
		teams, err := rosterTeams(db, leagueID)
		if err != nil {
			return err
		}
		rows := make(map[int]*Standing, len(teams))
		for _, t := range teams {
			rows[t.ID] = &Standing{TeamID: t.ID, TeamName: t.Name}
		}

		var matches []models.Match
		if err := db.Where("league_id = ?", leagueID).Find(&matches).Error; err != nil {
			return err
		}
		if len(matches) > 0 {
			byID := make(map[int]models.Match, len(matches))
			ids := make([]int, 0, len(matches))
			for _, m := range matches {
				byID[m.ID] = m
				ids = append(ids, m.ID)
			}
			var results []models.MatchResult
			if err := db.Where("match_id IN ?", ids).Find(&results).Error; err != nil {
				return err
			}
			for _, r := range results {
				m := byID[r.MatchID]
				applyResult(rows[m.Team1ID], rows[m.Team2ID], r)
			}
		}

		table = make([]Standing, 0, len(rows))
		for _, row := range rows {
			table = append(table, *row)
		}
		sort.Slice(table, func(i, j int) bool {
			if table[i].Points != table[j].Points {
				return table[i].Points > table[j].Points
			}
			if table[i].Wins != table[j].Wins {
				return table[i].Wins > table[j].Wins
			}
			return table[i].TeamName < table[j].TeamName
		})
		return nil
	})
	return table, err
}

func applyResult(one, two *Standing, r models.MatchResult) {
	outcome := scoring.Result{Team1Points: r.Team1Points, Team2Points: r.Team2Points}.Outcome()
	for _, side := range []struct {
		row       *Standing
		points    int
		win, loss bool
	}{
		{one, r.Team1Points, outcome == scoring.OutcomeTeam1, outcome == scoring.OutcomeTeam2},
		{two, r.Team2Points, outcome == scoring.OutcomeTeam2, outcome == scoring.OutcomeTeam1},
	} {
		// A team removed from the roster isn't listed.
		if side.row == nil {
			continue
		}
		side.row.Played++
		side.row.Points += side.points
		switch {
		case side.win:
			side.row.Wins++
		case side.loss:
			side.row.Losses++
		default:
			side.row.Halved++
		}
	}
}

// lockLeague loads a league and, on databases that support it, locks its row until the
// transaction ends. Scheduling checks that read then write matches take this lock first
// so two requests can't both pass a duplicate-week check for the same league.
func lockLeague(tx *gorm.DB, id int) (*models.League, error) {
	var league models.League
	if err := first(tx.Clauses(clause.Locking{Strength: "UPDATE"}), &league, id, "league"); err != nil {
		return nil, err
	}
	return &league, nil
}

func insertRoster(tx *gorm.DB, leagueID int, teamIDs []int) error {
	rows := make([]models.LeagueTeam, len(teamIDs))
	for i, t := range teamIDs {
		rows[i] = models.LeagueTeam{LeagueID: leagueID, TeamID: t}
	}
	return tx.Create(&rows).Error
}

func rosterIDs(tx *gorm.DB, leagueID int) ([]int, error) {
	var ids []int
	err := tx.Model(&models.LeagueTeam{}).Where("league_id = ?", leagueID).Order("team_id ASC").Pluck("team_id", &ids).Error
	return ids, err
}

func rosterTeams(tx *gorm.DB, leagueID int) ([]models.Team, error) {
	ids, err := rosterIDs(tx, leagueID)
	if err != nil || len(ids) == 0 {
		return nil, err
	}
	var teams []models.Team
	err = tx.Where("id IN ?", ids).Order("id ASC").Find(&teams).Error
	return teams, err
}

// numberOfWeeks reads the league's week numbers and derives the count; never cached.
func numberOfWeeks(tx *gorm.DB, leagueID int) (int, error) {
	var matches []models.Match
	if err := tx.Select("week_number").Where("league_id = ?", leagueID).Find(&matches).Error; err != nil {
		return 0, err
	}
	return rules.NumberOfWeeks(matches), nil
}

func leagueView(tx *gorm.DB, league models.League) (*LeagueView, error) {
	weeks, err := numberOfWeeks(tx, league.ID)
	if err != nil {
		return nil, err
	}
	teams, err := rosterTeams(tx, league.ID)
	if err != nil {
		return nil, err
	}
	view := &LeagueView{
		League:        league,
		NumberOfWeeks: weeks,
		TeamIDs:       make([]int, 0, len(teams)),
		Teams:         make([]TeamSummary, 0, len(teams)),
	}
	for _, t := range teams {
		view.TeamIDs = append(view.TeamIDs, t.ID)
		view.Teams = append(view.Teams, TeamSummary{ID: t.ID, Name: t.Name})
	}
	return view, nil
}
