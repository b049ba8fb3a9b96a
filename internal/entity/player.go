package entity

// Player holds one player's score history, keyed by display name.
// Scores carries one cumulative total per round played since the player
// joined; RoundScores carries the individual deltas of the current
// round only and is cleared on every round start.
type Player struct {
	Name        string `json:"name"`
	Scores      []int  `json:"scores"`
	RoundScores []int  `json:"current_round_scores,omitempty"`
}

// CurrentTotal returns the trailing cumulative entry, the player's
// running total for the round in progress.
func (that *Player) CurrentTotal() int {
	if len(that.Scores) == 0 {
		return 0
	}

	return that.Scores[len(that.Scores)-1]
}

// Clone returns a deep copy, so callers can hand player state outward
// without exposing the session's backing slices.
func (that *Player) Clone() *Player {
	clone := &Player{Name: that.Name}

	if that.Scores != nil {
		clone.Scores = append([]int(nil), that.Scores...)
	}

	if that.RoundScores != nil {
		clone.RoundScores = append([]int(nil), that.RoundScores...)
	}

	return clone
}
