package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/trentd187/league-tracker/internal/models"
	"github.com/trentd187/league-tracker/internal/rules"
	"github.com/trentd187/league-tracker/internal/scoring"
)

// ScoreSubmission is one player's scorecard as submitted for a match.
type ScoreSubmission struct {
	PlayerID int
	Scores   []rules.HoleEntry
}

// SubmitResult is what a score submission leaves behind: every scorecard now stored
// for the match and the points computed from them.
type SubmitResult struct {
	Scores []models.PlayerScore `json:"scores"`
	Points scoring.Result       `json:"points"`
}

// SubmitScores stores scorecards for a match and recomputes its result.
//
// Everything is validated before the first write: the match and players must exist,
// each player must be on one of the two teams, and every hole must belong to the
// league's course. Writes follow a last-writer-wins policy: resubmitting a card for a
// (match, player) pair replaces its hole scores. The unique (match_id, player_id)
// index turns two simultaneous first submissions into one success and one Conflict.
func (s *Store) SubmitScores(ctx context.Context, matchID int, subs []ScoreSubmission) (*SubmitResult, error) {
	if len(subs) == 0 {
		return nil, fmt.Errorf("%w: no scorecards submitted", rules.ErrValidation)
	}

	var out SubmitResult
	err := s.transaction(ctx, "scores", func(tx *gorm.DB) error {
		match, holes, err := matchAndHoles(tx, matchID)
		if err != nil {
			return err
		}

		teamOf := make(map[int]int, len(subs))
		for _, sub := range subs {
			if _, dup := teamOf[sub.PlayerID]; dup {
				return fmt.Errorf("%w: player %d submitted twice", rules.ErrValidation, sub.PlayerID)
			}
			var player models.Player
			if err := first(tx, &player, sub.PlayerID, "player"); err != nil {
				return err
			}
			if player.TeamID == nil || (*player.TeamID != match.Team1ID && *player.TeamID != match.Team2ID) {
				return fmt.Errorf("%w: player %d is not on either team in match %d", rules.ErrValidation, sub.PlayerID, matchID)
			}
			if err := rules.ValidateScorecard(holes, sub.Scores); err != nil {
				return fmt.Errorf("player %d: %w", sub.PlayerID, err)
			}
			teamOf[sub.PlayerID] = *player.TeamID
		}

		for _, sub := range subs {
			if err := upsertScorecard(tx, matchID, sub, teamOf[sub.PlayerID]); err != nil {
				return err
			}
		}

		cards, stored, err := loadScorecards(tx, matchID, holes)
		if err != nil {
			return err
		}
		out.Scores = stored
		out.Points = scoring.ComputeMatchPoints(matchInfo(match), len(holes), cards)

		if scoring.HasBothSides(matchInfo(match), cards) {
			return saveResult(tx, matchID, out.Points)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("scores submitted",
		zap.Int("match_id", matchID),
		zap.Int("cards", len(subs)),
		zap.Int("team1_points", out.Points.Team1Points),
		zap.Int("team2_points", out.Points.Team2Points),
	)
	return &out, nil
}

// ListScores returns every scorecard stored for a match.
func (s *Store) ListScores(ctx context.Context, matchID int) ([]models.PlayerScore, error) {
	var cards []models.PlayerScore
	err := s.read(ctx, "scores", func(db *gorm.DB) error {
		if err := first(db, &models.Match{}, matchID, "match"); err != nil {
			return err
		}
		return db.Preload("HoleScores", func(db *gorm.DB) *gorm.DB { return db.Order("hole_id ASC") }).
			Where("match_id = ?", matchID).
			Order("team_id ASC, player_id ASC").
			Find(&cards).Error
	})
	return cards, err
}

// MatchPoints computes a match's per-hole points from the scorecards stored right now.
func (s *Store) MatchPoints(ctx context.Context, matchID int) (*scoring.Result, error) {
	var res scoring.Result
	err := s.read(ctx, "points", func(db *gorm.DB) error {
		match, holes, err := matchAndHoles(db, matchID)
		if err != nil {
			return err
		}
		cards, _, err := loadScorecards(db, matchID, holes)
		if err != nil {
			return err
		}
		res = scoring.ComputeMatchPoints(matchInfo(match), len(holes), cards)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func matchInfo(m *models.Match) scoring.MatchInfo {
	return scoring.MatchInfo{MatchID: m.ID, Team1ID: m.Team1ID, Team2ID: m.Team2ID}
}

// matchAndHoles loads a match and the holes of its league's course.
func matchAndHoles(tx *gorm.DB, matchID int) (*models.Match, []models.Hole, error) {
	var match models.Match
	if err := first(tx, &match, matchID, "match"); err != nil {
		return nil, nil, err
	}
	var league models.League
	if err := first(tx, &league, match.LeagueID, "league"); err != nil {
		return nil, nil, err
	}
	holes, err := courseHoles(tx, league.CourseID)
	if err != nil {
		return nil, nil, err
	}
	if len(holes) == 0 {
		return nil, nil, fmt.Errorf("%w: course %d has no holes", rules.ErrValidation, league.CourseID)
	}
	return &match, holes, nil
}

// upsertScorecard writes one player's card, replacing any card already stored for the pair.
func upsertScorecard(tx *gorm.DB, matchID int, sub ScoreSubmission, teamID int) error {
	var card models.PlayerScore
	err := tx.Where("match_id = ? AND player_id = ?", matchID, sub.PlayerID).First(&card).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		card = models.PlayerScore{MatchID: matchID, PlayerID: sub.PlayerID, TeamID: teamID}
		if err := tx.Create(&card).Error; err != nil {
			return err
		}
	case err != nil:
		return err
	default:
		if err := tx.Where("player_score_id = ?", card.ID).Delete(&models.HoleScore{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&card).Update("team_id", teamID).Error; err != nil {
			return err
		}
	}

	rows := make([]models.HoleScore, len(sub.Scores))
	for i, e := range sub.Scores {
		rows[i] = models.HoleScore{PlayerScoreID: card.ID, HoleID: e.HoleID, Strokes: e.Strokes}
	}
	return tx.Create(&rows).Error
}

// loadScorecards reads the stored cards of a match and converts them to engine input,
// translating hole ids to hole numbers.
func loadScorecards(tx *gorm.DB, matchID int, holes []models.Hole) ([]scoring.Scorecard, []models.PlayerScore, error) {
	var stored []models.PlayerScore
	err := tx.Preload("HoleScores", func(db *gorm.DB) *gorm.DB { return db.Order("hole_id ASC") }).
		Where("match_id = ?", matchID).
		Order("team_id ASC, player_id ASC").
		Find(&stored).Error
	if err != nil {
		return nil, nil, err
	}

	number := make(map[int]int, len(holes))
	for _, h := range holes {
		number[h.ID] = h.Number
	}

	cards := make([]scoring.Scorecard, 0, len(stored))
	for _, ps := range stored {
		card := scoring.Scorecard{PlayerID: ps.PlayerID, TeamID: ps.TeamID, Strokes: make(map[int]int, len(ps.HoleScores))}
		for _, hs := range ps.HoleScores {
			if n, ok := number[hs.HoleID]; ok {
				card.Strokes[n] = hs.Strokes
			}
		}
		cards = append(cards, card)
	}
	return cards, stored, nil
}

func saveResult(tx *gorm.DB, matchID int, res scoring.Result) error {
	var row models.MatchResult
	err := tx.Where("match_id = ?", matchID).First(&row).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		row = models.MatchResult{
			MatchID:     matchID,
			Team1Points: res.Team1Points,
			Team2Points: res.Team2Points,
			ComputedAt:  time.Now().UTC(),
		}
		return tx.Create(&row).Error
	case err != nil:
		return err
	default:
		return tx.Model(&row).Updates(map[string]interface{}{
			"team1_points": res.Team1Points,
			"team2_points": res.Team2Points,
			"computed_at":  time.Now().UTC(),
		}).Error
	}
}
