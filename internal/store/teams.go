package store

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/trentd187/league-tracker/internal/models"
	"github.com/trentd187/league-tracker/internal/rules"
)

// PlayerInput carries the editable fields of a player.
type PlayerInput struct {
	FirstName     string
	LastName      string
	TeamID        *int
	LeagueAverage *float64
}

func (in PlayerInput) validate() error {
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return fmt.Errorf("%w: first and last name are required", rules.ErrValidation)
	}
	if in.LeagueAverage != nil && *in.LeagueAverage < 0 {
		return fmt.Errorf("%w: league average can't be negative", rules.ErrValidation)
	}
	return nil
}

func playersByID(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}

// CreateTeam stores a team together with its initial players.
func (s *Store) CreateTeam(ctx context.Context, name string, players []PlayerInput) (*models.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: team name is required", rules.ErrValidation)
	}
	team := models.Team{Name: name, Players: make([]models.Player, 0, len(players))}
	for _, p := range players {
		if err := p.validate(); err != nil {
			return nil, err
		}
		team.Players = append(team.Players, models.Player{
			FirstName:     strings.TrimSpace(p.FirstName),
			LastName:      strings.TrimSpace(p.LastName),
			LeagueAverage: p.LeagueAverage,
		})
	}

	err := s.transaction(ctx, "team", func(tx *gorm.DB) error {
		// Inserts the team and then its players with TeamID filled in.
		return tx.Create(&team).Error
	})
	if err != nil {
		return nil, err
	}
	return &team, nil
}

// ListTeams returns every team with its current players.
func (s *Store) ListTeams(ctx context.Context) ([]models.Team, error) {
	var teams []models.Team
	err := s.read(ctx, "teams", func(db *gorm.DB) error {
		return db.Preload("Players", playersByID).Order("name ASC").Find(&teams).Error
	})
	return teams, err
}

// GetTeam returns one team with its players.
func (s *Store) GetTeam(ctx context.Context, id int) (*models.Team, error) {
	var team models.Team
	err := s.read(ctx, "team", func(db *gorm.DB) error {
		return first(db.Preload("Players", playersByID), &team, id, "team")
	})
	if err != nil {
		return nil, err
	}
	return &team, nil
}

// DeleteTeam removes a team. Its players stay in the system as unassigned players.
// A team that sits on a league roster or appears in a match can't be deleted.
func (s *Store) DeleteTeam(ctx context.Context, id int) error {
	return s.transaction(ctx, "team", func(tx *gorm.DB) error {
		var team models.Team
		if err := first(tx, &team, id, "team"); err != nil {
			return err
		}

		var rosters, matches int64
		if err := tx.Model(&models.LeagueTeam{}).Where("team_id = ?", id).Count(&rosters).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Match{}).Where("team1_id = ? OR team2_id = ?", id, id).Count(&matches).Error; err != nil {
			return err
		}
		if rosters > 0 || matches > 0 {
			return fmt.Errorf("%w: team %d is on %d league roster(s) and in %d match(es)", rules.ErrConflict, id, rosters, matches)
		}

		if err := tx.Model(&models.Player{}).Where("team_id = ?", id).Update("team_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Delete(&team).Error; err != nil {
			return err
		}
		s.log.Info("team deleted", zap.Int("team_id", id), zap.String("name", team.Name))
		return nil
	})
}

// CreatePlayer stores a player, optionally assigned to a team.
func (s *Store) CreatePlayer(ctx context.Context, in PlayerInput) (*models.Player, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	player := models.Player{
		FirstName:     strings.TrimSpace(in.FirstName),
		LastName:      strings.TrimSpace(in.LastName),
		TeamID:        in.TeamID,
		LeagueAverage: in.LeagueAverage,
	}
	err := s.transaction(ctx, "player", func(tx *gorm.DB) error {
		if in.TeamID != nil {
			if err := first(tx, &models.Team{}, *in.TeamID, "team"); err != nil {
				return err
			}
		}
		return tx.Create(&player).Error
	})
	if err != nil {
		return nil, err
	}
	return &player, nil
}

// ListPlayers returns all players, or only those of one team when teamID is set.
func (s *Store) ListPlayers(ctx context.Context, teamID *int) ([]models.Player, error) {
	var players []models.Player
	err := s.read(ctx, "players", func(db *gorm.DB) error {
		q := db.Order("last_name ASC, first_name ASC")
		if teamID != nil {
			q = q.Where("team_id = ?", *teamID)
		}
		return q.Find(&players).Error
	})
	return players, err
}

// GetPlayer returns one player.
func (s *Store) GetPlayer(ctx context.Context, id int) (*models.Player, error) {
	var player models.Player
	if err := s.read(ctx, "player", func(db *gorm.DB) error {
		return first(db, &player, id, "player")
	}); err != nil {
		return nil, err
	}
	return &player, nil
}

// UpdatePlayer overwrites a player's editable fields, including a team move.
// Scorecards already submitted keep the team they were recorded for.
func (s *Store) UpdatePlayer(ctx context.Context, id int, in PlayerInput) (*models.Player, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	var player models.Player
	err := s.transaction(ctx, "player", func(tx *gorm.DB) error {
		if err := first(tx, &player, id, "player"); err != nil {
			return err
		}
		if in.TeamID != nil {
			if err := first(tx, &models.Team{}, *in.TeamID, "team"); err != nil {
				return err
			}
		}
		// A map is used so a nil TeamID or LeagueAverage is written as NULL.
		return tx.Model(&player).Updates(map[string]interface{}{
			"first_name":     strings.TrimSpace(in.FirstName),
			"last_name":      strings.TrimSpace(in.LastName),
			"team_id":        in.TeamID,
			"league_average": in.LeagueAverage,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return s.GetPlayer(ctx, id)
}

// DeletePlayer removes a player that has no recorded scores.
func (s *Store) DeletePlayer(ctx context.Context, id int) error {
	return s.transaction(ctx, "player", func(tx *gorm.DB) error {
		var player models.Player
		if err := first(tx, &player, id, "player"); err != nil {
			return err
		}
		var cards int64
		if err := tx.Model(&models.PlayerScore{}).Where("player_id = ?", id).Count(&cards).Error; err != nil {
			return err
		}
		if cards > 0 {
			return fmt.Errorf("%w: player %d has %d recorded scorecard(s)", rules.ErrConflict, id, cards)
		}
		return tx.Delete(&player).Error
	})
}

// DeleteUnassignedPlayers removes every player without a team and without recorded
// scores, returning how many were deleted.
func (s *Store) DeleteUnassignedPlayers(ctx context.Context) (int64, error) {
	var deleted int64
	err := s.transaction(ctx, "players", func(tx *gorm.DB) error {
		scored := tx.Model(&models.PlayerScore{}).Select("player_id")
		res := tx.Where("team_id IS NULL AND id NOT IN (?)", scored).Delete(&models.Player{})
		deleted = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return 0, err
	}
	s.log.Info("unassigned players deleted", zap.Int64("count", deleted))
	return deleted, nil
}
