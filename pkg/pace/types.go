// Package pace turns a stream of live basketball score snapshots into
// discrete wagering trigger signals by comparing the scoring pace a posted
// total requires against the pace the game is actually producing.
package pace

import "time"

// Trigger is the discrete signal derived from one snapshot.
type Trigger string

const (
	// TriggerNone means no actionable signal.
	TriggerNone Trigger = "none"
	// TriggerUnder is the golden-zone under signal: the game needs an
	// unsustainable pace to reach the total.
	TriggerUnder Trigger = "under"
	// TriggerOver fires when current pace persistently exceeds the pace
	// the total requires.
	TriggerOver Trigger = "over"
	// TriggerTripleDipper is an under with a corroborating signal behind
	// it, the strongest state. It supersedes TriggerUnder.
	TriggerTripleDipper Trigger = "tripleDipper"
)

// Snapshot is one observation of a live game, produced by the external feed.
// Immutable once recorded. TotalLine is nil when no total is posted.
type Snapshot struct {
	GameID           string    `json:"game_id"`
	HomeTeam         string    `json:"home_team"`
	AwayTeam         string    `json:"away_team"`
	HomeScore        int       `json:"home_score"`
	AwayScore        int       `json:"away_score"`
	Period           int       `json:"period"`
	Clock            string    `json:"clock"`
	MinutesRemaining float64   `json:"minutes_remaining"`
	TotalLine        *float64  `json:"total_line,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// LiveTotal is the combined score at this snapshot.
func (s Snapshot) LiveTotal() int {
	return s.HomeScore + s.AwayScore
}

// ScoreDiff is the absolute score differential at this snapshot.
func (s Snapshot) ScoreDiff() int {
	d := s.HomeScore - s.AwayScore
	if d < 0 {
		return -d
	}
	return d
}

// Evaluation is the classifier's output for one snapshot. Derived pace
// fields are nil when not computable (no posted line, or no time left, or
// not enough history for a trailing pace), never zero, which would read as
// "no pace needed".
type Evaluation struct {
	GameID   string    `json:"game_id"`
	HomeTeam string    `json:"home_team"`
	AwayTeam string    `json:"away_team"`
	At       time.Time `json:"at"`

	// Trigger is the emitted signal after the directional filter gate.
	Trigger Trigger `json:"trigger"`
	// RawTrigger is the classification before the gate; it differs from
	// Trigger only when a team filter vetoed the signal.
	RawTrigger   Trigger `json:"raw_trigger"`
	FilterReason string  `json:"filter_reason,omitempty"`

	RequiredPPM *float64 `json:"required_ppm,omitempty"`
	CurrentPPM  *float64 `json:"current_ppm,omitempty"`
	// Edge is RequiredPPM minus CurrentPPM; positive means the game runs
	// too slow to hit the over.
	Edge *float64 `json:"edge,omitempty"`

	FoulGameAdjustment     float64  `json:"foul_game_adjustment"`
	AdjustedProjectedTotal *float64 `json:"adjusted_projected_total,omitempty"`
	CouldEnterFoulGame     bool     `json:"could_enter_foul_game"`
}

// Actionable reports whether the evaluation carries a tradeable signal.
func (e Evaluation) Actionable() bool {
	return e.Trigger != TriggerNone
}
