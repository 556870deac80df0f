package store

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/trentd187/league-tracker/internal/models"
	"github.com/trentd187/league-tracker/internal/rules"
)

// MatchInput carries the fields of a match to schedule.
type MatchInput struct {
	WeekNumber int
	Team1ID    int
	Team2ID    int
	Date       time.Time
}

// MatchDetail is a match with both teams' players and the league it belongs to.
type MatchDetail struct {
	models.Match
	Team1    models.Team   `json:"team1"`
	Team2    models.Team   `json:"team2"`
	League   models.League `json:"league"`
	CourseID int           `json:"course_id"`
}

// DeleteWeekResult echoes the deleted (league, week) key and how many matches went.
type DeleteWeekResult struct {
	LeagueID     int `json:"league_id"`
	WeekNumber   int `json:"week_number"`
	DeletedCount int `json:"deleted_count"`
}

// DeleteMatchResult identifies a deleted match.
type DeleteMatchResult struct {
	MatchID    int `json:"match_id"`
	LeagueID   int `json:"league_id"`
	WeekNumber int `json:"week_number"`
}

// CreateMatch schedules a single match.
// It fails with DuplicateWeek when the league already has a match in that week.
func (s *Store) CreateMatch(ctx context.Context, leagueID int, in MatchInput) (*models.Match, error) {
	if err := rules.ValidateWeekNumber(in.WeekNumber); err != nil {
		return nil, err
	}
	if in.Date.IsZero() {
		return nil, fmt.Errorf("%w: match date is required", rules.ErrValidation)
	}

	match := models.Match{
		LeagueID:   leagueID,
		WeekNumber: in.WeekNumber,
		Team1ID:    in.Team1ID,
		Team2ID:    in.Team2ID,
		Date:       in.Date,
	}
	err := s.transaction(ctx, "match", func(tx *gorm.DB) error {
		if _, err := lockLeague(tx, leagueID); err != nil {
			return err
		}

		var existing []models.Match
		if err := tx.Select("id", "week_number").Where("league_id = ?", leagueID).Find(&existing).Error; err != nil {
			return err
		}
		if err := rules.ValidateWeekSlot(existing, in.WeekNumber); err != nil {
			return err
		}

		roster, err := rosterIDs(tx, leagueID)
		if err != nil {
			return err
		}
		if err := rules.ValidatePairing(in.Team1ID, in.Team2ID, roster); err != nil {
			return err
		}
		return tx.Create(&match).Error
	})
	if err != nil {
		return nil, err
	}
	return &match, nil
}

// CreateMatchesBulk schedules many matches at once, typically a whole season.
//
// This is the unchecked bulk path: it validates week numbers and pairings but does
// NOT apply the one-match-per-week rule that CreateMatch enforces, because a seeded
// schedule normally puts several pairings in every week. Callers must not use it to
// add to weeks that are already populated unless that is what they mean.
func (s *Store) CreateMatchesBulk(ctx context.Context, leagueID int, in []MatchInput) ([]models.Match, error) {
	if len(in) == 0 {
		return nil, fmt.Errorf("%w: no matches to create", rules.ErrValidation)
	}
	for i, m := range in {
		if err := rules.ValidateWeekNumber(m.WeekNumber); err != nil {
			return nil, fmt.Errorf("match %d: %w", i, err)
		}
		if m.Date.IsZero() {
			return nil, fmt.Errorf("%w: match %d: date is required", rules.ErrValidation, i)
		}
	}

	matches := make([]models.Match, len(in))
	err := s.transaction(ctx, "matches", func(tx *gorm.DB) error {
		if _, err := lockLeague(tx, leagueID); err != nil {
			return err
		}
		roster, err := rosterIDs(tx, leagueID)
		if err != nil {
			return err
		}
		for i, m := range in {
			if err := rules.ValidatePairing(m.Team1ID, m.Team2ID, roster); err != nil {
				return fmt.Errorf("match %d: %w", i, err)
			}
			matches[i] = models.Match{
				LeagueID:   leagueID,
				WeekNumber: m.WeekNumber,
				Team1ID:    m.Team1ID,
				Team2ID:    m.Team2ID,
				Date:       m.Date,
			}
		}
		return tx.Create(&matches).Error
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("matches created in bulk", zap.Int("league_id", leagueID), zap.Int("count", len(matches)))
	return matches, nil
}

// ListMatches returns a league's matches ordered by week, optionally for one week only.
func (s *Store) ListMatches(ctx context.Context, leagueID int, week *int) ([]models.Match, error) {
	var matches []models.Match
	err := s.read(ctx, "matches", func(db *gorm.DB) error {
		if err := first(db, &models.League{}, leagueID, "league"); err != nil {
			return err
		}
		q := db.Where("league_id = ?", leagueID)
		if week != nil {
			q = q.Where("week_number = ?", *week)
		}
		return q.Order("week_number ASC, id ASC").Find(&matches).Error
	})
	return matches, err
}

// GetMatch returns a match with its teams, their players, and its league.
func (s *Store) GetMatch(ctx context.Context, id int) (*MatchDetail, error) {
	var detail MatchDetail
	err := s.read(ctx, "match", func(db *gorm.DB) error {
		if err := first(db, &detail.Match, id, "match"); err != nil {
			return err
		}
		if err := first(db, &detail.League, detail.LeagueID, "league"); err != nil {
			return err
		}
		if err := first(db.Preload("Players", playersByID), &detail.Team1, detail.Team1ID, "team"); err != nil {
			return err
		}
		if err := first(db.Preload("Players", playersByID), &detail.Team2, detail.Team2ID, "team"); err != nil {
			return err
		}
		detail.CourseID = detail.League.CourseID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

// DeleteMatch removes one match and its scores, children first:
// hole scores, player scores, the stored result, then the match.
func (s *Store) DeleteMatch(ctx context.Context, id int) (*DeleteMatchResult, error) {
	var res DeleteMatchResult
	err := s.transaction(ctx, "match", func(tx *gorm.DB) error {
		var match models.Match
		if err := first(tx, &match, id, "match"); err != nil {
			return err
		}
		if err := deleteMatchesCascade(tx, []int{id}); err != nil {
			return err
		}
		res = DeleteMatchResult{MatchID: id, LeagueID: match.LeagueID, WeekNumber: match.WeekNumber}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("match deleted", zap.Int("match_id", id), zap.Int("league_id", res.LeagueID))
	return &res, nil
}

// DeleteWeek removes every match of one league week along with all their scores,
// in one transaction. Deleting an empty week succeeds with a count of zero.
func (s *Store) DeleteWeek(ctx context.Context, leagueID, week int) (*DeleteWeekResult, error) {
	if err := rules.ValidateWeekNumber(week); err != nil {
		return nil, err
	}
	var res DeleteWeekResult
	err := s.transaction(ctx, "week", func(tx *gorm.DB) error {
		if _, err := lockLeague(tx, leagueID); err != nil {
			return err
		}
		var matchIDs []int
		err := tx.Model(&models.Match{}).
			Where("league_id = ? AND week_number = ?", leagueID, week).
			Pluck("id", &matchIDs).Error
		if err != nil {
			return err
		}
		if err := deleteMatchesCascade(tx, matchIDs); err != nil {
			return err
		}
		res = DeleteWeekResult{LeagueID: leagueID, WeekNumber: week, DeletedCount: len(matchIDs)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("week deleted",
		zap.Int("league_id", leagueID),
		zap.Int("week_number", week),
		zap.Int("deleted_count", res.DeletedCount),
	)
	return &res, nil
}

// deleteMatchesCascade deletes matches and everything hanging off them, children
// first so no row is ever left pointing at a deleted parent.
func deleteMatchesCascade(tx *gorm.DB, matchIDs []int) error {
	if len(matchIDs) == 0 {
		return nil
	}

	var cardIDs []int
	if err := tx.Model(&models.PlayerScore{}).Where("match_id IN ?", matchIDs).Pluck("id", &cardIDs).Error; err != nil {
		return err
	}
	if len(cardIDs) > 0 {
		if err := tx.Where("player_score_id IN ?", cardIDs).Delete(&models.HoleScore{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id IN ?", cardIDs).Delete(&models.PlayerScore{}).Error; err != nil {
			return err
		}
	}
	if err := tx.Where("match_id IN ?", matchIDs).Delete(&models.MatchResult{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", matchIDs).Delete(&models.Match{}).Error
}
