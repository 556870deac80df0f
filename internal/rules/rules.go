package rules

import (
	"fmt"

	"github.com/trentd187/league-tracker/internal/models"
)

// Roster and course limits.
const (
	MinRosterSize = 2
	MaxRosterSize = 30
	MaxHoles      = 18
	MinPar        = 3
	MaxPar        = 5
)

// ValidateRoster checks the set of teams placed on a league.
// Leagues need an even roster of 2 to 30 teams so every week pairs up in a round-robin.
func ValidateRoster(teamIDs []int) error {
	n := len(teamIDs)
	if n < MinRosterSize || n > MaxRosterSize {
		return fmt.Errorf("%w: got %d", ErrInvalidRosterSize, n)
	}
	if n%2 != 0 {
		return fmt.Errorf("%w: got %d", ErrOddRosterSize, n)
	}
	seen := make(map[int]bool, n)
	for _, id := range teamIDs {
		if seen[id] {
			return fmt.Errorf("%w: team %d listed twice", ErrValidation, id)
		}
		seen[id] = true
	}
	return nil
}

// ValidateWeekNumber rejects week numbers below 1.
func ValidateWeekNumber(week int) error {
	if week < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidWeekNumber, week)
	}
	return nil
}

// ValidateWeekSlot is the single-match scheduling check: a week that already holds a
// match can't take another one through the single-match path.
// existing is the set of matches already stored for the league.
func ValidateWeekSlot(existing []models.Match, week int) error {
	if err := ValidateWeekNumber(week); err != nil {
		return err
	}
	for _, m := range existing {
		if m.WeekNumber == week {
			return fmt.Errorf("%w %d", ErrDuplicateWeek, week)
		}
	}
	return nil
}

// ValidatePairing checks that a match pairs two different teams from the league roster.
func ValidatePairing(team1ID, team2ID int, roster []int) error {
	if team1ID == team2ID {
		return fmt.Errorf("%w: a team can't play itself (team %d)", ErrValidation, team1ID)
	}
	onRoster := make(map[int]bool, len(roster))
	for _, id := range roster {
		onRoster[id] = true
	}
	for _, id := range []int{team1ID, team2ID} {
		if !onRoster[id] {
			return fmt.Errorf("%w: team %d is not in this league", ErrValidation, id)
		}
	}
	return nil
}

// ValidateCourseHoles checks a course layout: hole numbers 1..N with no gaps or repeats,
// par between 3 and 5, and handicap ranks between 1 and 18 with no rank used twice.
// Ranks are not required to be 1..N: a nine-hole course rated on the eighteen-hole
// scale carries ranks like 1, 3, 5 ... 17.
func ValidateCourseHoles(holes []models.Hole) error {
	n := len(holes)
	if n == 0 || n > MaxHoles {
		return fmt.Errorf("%w: a course needs between 1 and %d holes, got %d", ErrValidation, MaxHoles, n)
	}
	numbers := make(map[int]bool, n)
	ranks := make(map[int]bool, n)
	for _, h := range holes {
		if h.Number < 1 || h.Number > n {
			return fmt.Errorf("%w: hole number %d outside 1..%d", ErrValidation, h.Number, n)
		}
		if numbers[h.Number] {
			return fmt.Errorf("%w: hole number %d listed twice", ErrValidation, h.Number)
		}
		numbers[h.Number] = true

		if h.Par < MinPar || h.Par > MaxPar {
			return fmt.Errorf("%w: hole %d par %d outside %d..%d", ErrValidation, h.Number, h.Par, MinPar, MaxPar)
		}
		if h.Handicap < 1 || h.Handicap > MaxHoles {
			return fmt.Errorf("%w: hole %d handicap %d outside 1..%d", ErrValidation, h.Number, h.Handicap, MaxHoles)
		}
		if ranks[h.Handicap] {
			return fmt.Errorf("%w: handicap %d used twice", ErrValidation, h.Handicap)
		}
		ranks[h.Handicap] = true
	}
	return nil
}

// HoleEntry is one submitted (hole, strokes) pair on a scorecard.
type HoleEntry struct {
	HoleID  int
	Strokes int
}

// ValidateScorecard checks one player's submitted entries against the holes of the
// match's course. It runs before anything is written and before the scoring engine
// sees the card, so a hole from another course never reaches the points computation.
func ValidateScorecard(courseHoles []models.Hole, entries []HoleEntry) error {
	if len(entries) == 0 {
		return fmt.Errorf("%w: scorecard has no holes", ErrValidation)
	}
	valid := make(map[int]bool, len(courseHoles))
	for _, h := range courseHoles {
		valid[h.ID] = true
	}
	seen := make(map[int]bool, len(entries))
	for _, e := range entries {
		if !valid[e.HoleID] {
			return fmt.Errorf("%w: hole %d is not on this course", ErrValidation, e.HoleID)
		}
		if seen[e.HoleID] {
			return fmt.Errorf("%w: hole %d scored twice", ErrValidation, e.HoleID)
		}
		seen[e.HoleID] = true
		if e.Strokes < 1 {
			return fmt.Errorf("%w: hole %d strokes must be positive, got %d", ErrValidation, e.HoleID, e.Strokes)
		}
	}
	return nil
}

// NumberOfWeeks derives a league's week count from its matches: the highest week number,
// or 0 when nothing is scheduled. It is never stored.
func NumberOfWeeks(matches []models.Match) int {
	weeks := 0
	for _, m := range matches {
		if m.WeekNumber > weeks {
			weeks = m.WeekNumber
		}
	}
	return weeks
}
