// Package models defines the data structures (models) that map to database tables.
// GORM uses these structs to generate SQL queries and map database rows back to Go values.
// The struct field tags (the backtick strings like `gorm:"..."`) tell GORM how to handle
// each field: its column type, constraints, default values, and relationships.
//
// The data model represents a weekly golf league where:
//   - Teams own Players
//   - Courses own Holes
//   - Leagues are played on one Course by a roster of Teams (LeagueTeam)
//   - Matches pair two Teams in one week of a League
//   - PlayerScores hold one player's scorecard for a Match, made of HoleScores
//   - MatchResults hold the points total computed from those scorecards
//
// A League has no stored week count. The number of weeks is always derived from
// its Match rows (see rules.NumberOfWeeks) so it can never go stale.
package models

import "time"

// Course represents a golf course a league plays on.
// Hole numbers within a course form the contiguous range 1..len(Holes).
type Course struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null;uniqueIndex" json:"name"` // Course names are unique across the system
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Holes     []Hole    `gorm:"foreignKey:CourseID" json:"holes"` // One-to-many: ordered by Number when loaded by the store
}

// Hole stores per-hole details for a course.
// The unique index (idx_course_hole) prevents two holes with the same number on one course.
type Hole struct {
	ID       int `gorm:"primaryKey" json:"id"`
	CourseID int `gorm:"not null;uniqueIndex:idx_course_hole" json:"course_id"`
	Number   int `gorm:"not null;uniqueIndex:idx_course_hole" json:"number"` // 1–18
	Par      int `gorm:"not null" json:"par"`                                // 3, 4 or 5
	Handicap int `gorm:"not null" json:"handicap"`                           // Difficulty rank: 1 = hardest hole on the course
}

// Team represents a named team that can be placed on league rosters.
type Team struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	Players   []Player  `gorm:"foreignKey:TeamID" json:"players"`
}

// Player is a golfer. A player belongs to at most one team at a time;
// TeamID is a pointer so it can be NULL for unassigned players.
type Player struct {
	ID            int       `gorm:"primaryKey" json:"id"`
	FirstName     string    `gorm:"size:50;not null" json:"first_name"`
	LastName      string    `gorm:"size:50;not null" json:"last_name"`
	TeamID        *int      `gorm:"index" json:"team_id"`
	LeagueAverage *float64  `json:"league_average"` // Display and seeding only; never used by scoring
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// League is a competition among a fixed roster of teams over a number of weeks, tied to one course.
type League struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	CourseID  int       `gorm:"not null;index" json:"course_id"`
	StartDate time.Time `gorm:"type:date;not null" json:"start_date"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LeagueTeam is the join table placing a Team on a League's roster.
// The composite primary key prevents a team from appearing twice on one roster.
type LeagueTeam struct {
	LeagueID int `gorm:"primaryKey;autoIncrement:false"`
	TeamID   int `gorm:"primaryKey;autoIncrement:false"`
}

// Match is one scheduled head-to-head between two teams in a specific week of a league.
type Match struct {
	ID         int       `gorm:"primaryKey" json:"id"`
	LeagueID   int       `gorm:"not null;index:idx_league_week" json:"league_id"`
	WeekNumber int       `gorm:"not null;index:idx_league_week" json:"week_number"` // 1-based
	Team1ID    int       `gorm:"not null" json:"team1_id"`
	Team2ID    int       `gorm:"not null" json:"team2_id"`
	Date       time.Time `gorm:"type:date;not null" json:"date"`
	CreatedAt  time.Time `json:"created_at"`
}

// PlayerScore is one player's scorecard for one match.
// TeamID snapshots the player's team at submission time so a later roster move
// doesn't change which side the card counted for.
// The unique index (idx_match_player) allows at most one scorecard per player per match.
type PlayerScore struct {
	ID         int         `gorm:"primaryKey" json:"id"`
	MatchID    int         `gorm:"not null;uniqueIndex:idx_match_player" json:"match_id"`
	PlayerID   int         `gorm:"not null;uniqueIndex:idx_match_player" json:"player_id"`
	TeamID     int         `gorm:"not null" json:"team_id"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
	HoleScores []HoleScore `gorm:"foreignKey:PlayerScoreID" json:"hole_scores"`
}

// HoleScore records the strokes one player took on a single hole during a match.
type HoleScore struct {
	ID            int       `gorm:"primaryKey" json:"id"`
	PlayerScoreID int       `gorm:"not null;uniqueIndex:idx_player_score_hole" json:"player_score_id"`
	HoleID        int       `gorm:"not null;uniqueIndex:idx_player_score_hole" json:"hole_id"` // Must be a hole on the match's course
	Strokes       int       `gorm:"not null" json:"strokes"`
	CreatedAt     time.Time `json:"created_at"`
}

// MatchResult stores the points totals last computed for a match.
// It is rewritten inside the same transaction as every score submission for the match.
type MatchResult struct {
	ID          int       `gorm:"primaryKey" json:"id"`
	MatchID     int       `gorm:"not null;uniqueIndex" json:"match_id"`
	Team1Points int       `gorm:"not null" json:"team1_points"`
	Team2Points int       `gorm:"not null" json:"team2_points"`
	ComputedAt  time.Time `gorm:"not null" json:"computed_at"`
}

// All lists every model in dependency order (parents before children).
// It is the single list used for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&Course{},
		&Hole{},
		&Team{},
		&Player{},
		&League{},
		&LeagueTeam{},
		&Match{},
		&PlayerScore{},
		&HoleScore{},
		&MatchResult{},
	}
}
