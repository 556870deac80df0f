// Package scoring computes league match points from submitted scorecards.
//
// Each hole is worth up to two points:
//   - 1 point to the team whose best individual score on the hole is strictly lower
//   - 1 point to the team whose combined score on the hole is strictly lower
//
// Ties award nothing. The match total is the sum of the per-hole points.
//
// The engine is a pure function of its inputs. It does no I/O and keeps no state,
// so it can be called from any number of request handlers at once.
package scoring

// Outcome names the side that won a match on points.
type Outcome string

const (
	OutcomeTeam1  Outcome = "team1"
	OutcomeTeam2  Outcome = "team2"
	OutcomeHalved Outcome = "halved"
)

// MatchInfo is the part of a match the engine needs.
type MatchInfo struct {
	MatchID int
	Team1ID int
	Team2ID int
}

// Scorecard is one player's strokes for one match, keyed by hole number.
// TeamID is the side the card counts for. A hole missing from Strokes means the
// player has no score there and the card sits out that hole.
type Scorecard struct {
	PlayerID int
	TeamID   int
	Strokes  map[int]int
}

// HoleResult is the breakdown of a single hole.
// Best and total are nil for a team with no score on the hole; such a hole awards no points.
type HoleResult struct {
	HoleNumber  int  `json:"hole_number"`
	Team1Best   *int `json:"team1_best_player_score"`
	Team2Best   *int `json:"team2_best_player_score"`
	Team1Total  *int `json:"team1_total_score"`
	Team2Total  *int `json:"team2_total_score"`
	Team1Points int  `json:"points_team1"`
	Team2Points int  `json:"points_team2"`
}

// Result is the full points allocation for a match.
type Result struct {
	MatchID     int          `json:"match_id"`
	Team1Points int          `json:"team1_points"`
	Team2Points int          `json:"team2_points"`
	Holes       []HoleResult `json:"hole_results"`
}

// Outcome reports which team won on points.
func (r Result) Outcome() Outcome {
	switch {
	case r.Team1Points > r.Team2Points:
		return OutcomeTeam1
	case r.Team2Points > r.Team1Points:
		return OutcomeTeam2
	default:
		return OutcomeHalved
	}
}

// ComputeMatchPoints scores every hole from 1 to holeCount and sums the points per team.
// Cards whose TeamID matches neither side are ignored. The result doesn't depend on
// the order of cards.
func ComputeMatchPoints(match MatchInfo, holeCount int, cards []Scorecard) Result {
	var team1, team2 []Scorecard
	for _, c := range cards {
		switch c.TeamID {
		case match.Team1ID:
			team1 = append(team1, c)
		case match.Team2ID:
			team2 = append(team2, c)
		}
	}

	res := Result{MatchID: match.MatchID, Holes: make([]HoleResult, 0, max(holeCount, 0))}
	for h := 1; h <= holeCount; h++ {
		hr := scoreHole(h, team1, team2)
		res.Team1Points += hr.Team1Points
		res.Team2Points += hr.Team2Points
		res.Holes = append(res.Holes, hr)
	}
	return res
}

// HasBothSides reports whether each team has at least one card in cards.
// A match result is only meaningful once both sides have submitted.
func HasBothSides(match MatchInfo, cards []Scorecard) bool {
	var one, two bool
	for _, c := range cards {
		one = one || c.TeamID == match.Team1ID
		two = two || c.TeamID == match.Team2ID
	}
	return one && two
}

func scoreHole(hole int, team1, team2 []Scorecard) HoleResult {
	hr := HoleResult{HoleNumber: hole}
	hr.Team1Best, hr.Team1Total = teamHole(hole, team1)
	hr.Team2Best, hr.Team2Total = teamHole(hole, team2)

	// No winner can be determined if a side has nobody on the hole.
	if hr.Team1Best == nil || hr.Team2Best == nil {
		return hr
	}

	switch {
	case *hr.Team1Best < *hr.Team2Best:
		hr.Team1Points++
	case *hr.Team2Best < *hr.Team1Best:
		hr.Team2Points++
	}
	switch {
	case *hr.Team1Total < *hr.Team2Total:
		hr.Team1Points++
	case *hr.Team2Total < *hr.Team1Total:
		hr.Team2Points++
	}
	return hr
}

// teamHole returns the best and summed strokes of a team's cards on one hole,
// or nils when none of the cards has a score there.
func teamHole(hole int, cards []Scorecard) (best, total *int) {
	var b, t int
	found := false
	for _, c := range cards {
		s, ok := c.Strokes[hole]
		if !ok {
			continue
		}
		if !found || s < b {
			b = s
		}
		t += s
		found = true
	}
	if !found {
		return nil, nil
	}
	return &b, &t
}
