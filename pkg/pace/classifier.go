package pace

import (
	"time"

	"github.com/Take-The-Live-Under/taketheliveunder-new-sub000/pkg/teamfilter"
)

// Config holds the classifier thresholds. Values are fixed constants of the
// strategy, not runtime-tuned knobs; the struct exists so the corroboration
// thresholds left open by the strategy notes stay adjustable.
type Config struct {
	// PaceThreshold is the minimum required PPM for the game to be
	// considered unable to sustain the total (golden-zone precondition).
	PaceThreshold float64
	// GoldenZoneMin/Max bound the required-minus-current edge band. Below
	// the band the gap is trivial; above it the data is suspect.
	GoldenZoneMin float64
	GoldenZoneMax float64
	// MinMinutesRemaining gates every trigger: with less time left the gap
	// cannot matter.
	MinMinutesRemaining float64

	// OverEdgeThreshold is how far current pace must exceed required pace
	// for an over signal. Mirror of the under side, tuned independently.
	OverEdgeThreshold float64

	// PaceWindow is the trailing snapshot count for the current-pace
	// estimate: recent momentum, not full-game average.
	PaceWindow int

	// TripleDipper corroboration: a golden-zone under upgraded when the
	// posted total has dropped at least LineDropMin from its opening, or
	// when ConfirmStreak consecutive evaluations classified under.
	TripleLineDropMin   float64
	TripleConfirmStreak int

	// Foul-game model: inside FoulGameMinutes with the score within
	// FoulGameMaxDiff, intentional fouling adds FoulGameExtraPoints to the
	// projected total. FoulWarnMinutes fires the earlier display-only
	// pre-warning.
	FoulGameMinutes     float64
	FoulGameMaxDiff     int
	FoulGameExtraPoints float64
	FoulWarnMinutes     float64
}

// DefaultConfig returns the strategy's standard thresholds.
func DefaultConfig() *Config {
	return &Config{
		PaceThreshold:       4.5,
		GoldenZoneMin:       1.0,
		GoldenZoneMax:       1.5,
		MinMinutesRemaining: 5,
		OverEdgeThreshold:   1.0,
		PaceWindow:          4,
		TripleLineDropMin:   3.0,
		TripleConfirmStreak: 3,
		FoulGameMinutes:     2,
		FoulGameMaxDiff:     6,
		FoulGameExtraPoints: 4.5,
		FoulWarnMinutes:     5,
	}
}

// Classifier derives trigger states from snapshots and their history.
// Stateless apart from its configuration; the rolling history and
// confirmation streak are owned by the caller (normally a Tracker).
type Classifier struct {
	cfg    Config
	filter *teamfilter.Filter
}

// NewClassifier creates a classifier. A nil config selects DefaultConfig;
// a nil filter disables the directional gate.
func NewClassifier(cfg *Config, filter *teamfilter.Filter) *Classifier {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Classifier{cfg: *cfg, filter: filter}
}

// Config returns the classifier's effective configuration.
func (c *Classifier) Config() Config { return c.cfg }

// Evaluate classifies the most recent snapshot in hist. underStreak is the
// count of consecutive immediately-preceding evaluations whose raw
// classification was under (or stronger); it feeds the triple-dipper
// confirmation condition.
func (c *Classifier) Evaluate(hist *History, underStreak int) Evaluation {
	snap, ok := hist.Last()
	if !ok {
		return Evaluation{Trigger: TriggerNone, RawTrigger: TriggerNone, At: time.Now()}
	}

	eval := Evaluation{
		GameID:     snap.GameID,
		HomeTeam:   snap.HomeTeam,
		AwayTeam:   snap.AwayTeam,
		At:         snap.CreatedAt,
		Trigger:    TriggerNone,
		RawTrigger: TriggerNone,
	}

	// A game with no posted total or at the buzzer cannot be classified:
	// required pace stays nil, not zero.
	if snap.TotalLine != nil && snap.MinutesRemaining > 0 {
		required := (*snap.TotalLine - float64(snap.LiveTotal())) / snap.MinutesRemaining
		eval.RequiredPPM = &required
	}

	eval.CurrentPPM = hist.CurrentPace(c.cfg.PaceWindow)

	if eval.RequiredPPM != nil && eval.CurrentPPM != nil {
		edge := *eval.RequiredPPM - *eval.CurrentPPM
		eval.Edge = &edge
	}

	c.applyFoulGame(&eval, snap)
	eval.RawTrigger = c.rawTrigger(&eval, snap, hist, underStreak)
	eval.Trigger, eval.FilterReason = c.gate(eval.RawTrigger, snap)

	return eval
}

// rawTrigger derives the pre-gate classification.
func (c *Classifier) rawTrigger(eval *Evaluation, snap Snapshot, hist *History, underStreak int) Trigger {
	if eval.Edge == nil || eval.RequiredPPM == nil {
		return TriggerNone
	}
	if snap.MinutesRemaining < c.cfg.MinMinutesRemaining {
		return TriggerNone
	}

	edge := *eval.Edge

	goldenZone := *eval.RequiredPPM >= c.cfg.PaceThreshold &&
		edge >= c.cfg.GoldenZoneMin &&
		edge <= c.cfg.GoldenZoneMax

	if goldenZone {
		if c.corroborated(hist, underStreak) {
			return TriggerTripleDipper
		}
		return TriggerUnder
	}

	// Over side: current pace running ahead of required by the threshold,
	// independent of the under band.
	if -edge >= c.cfg.OverEdgeThreshold {
		return TriggerOver
	}

	return TriggerNone
}

// corroborated reports whether a golden-zone under has the extra signal a
// triple-dipper needs: the market already moving the total down, or the
// condition holding across repeated snapshots.
func (c *Classifier) corroborated(hist *History, underStreak int) bool {
	if drop := hist.LineDrop(); drop != nil && *drop >= c.cfg.TripleLineDropMin {
		return true
	}
	return underStreak+1 >= c.cfg.TripleConfirmStreak
}

// gate runs the directional team filter over a raw trigger. Vetoed triggers
// downgrade to none; the reason is retained for observability.
func (c *Classifier) gate(raw Trigger, snap Snapshot) (Trigger, string) {
	if raw == TriggerNone || c.filter == nil {
		return raw, ""
	}

	direction := teamfilter.TriggerUnder
	if raw == TriggerOver {
		direction = teamfilter.TriggerOver
	}

	if reason, filtered := c.filter.ShouldFilterTrigger(snap.HomeTeam, snap.AwayTeam, direction); filtered {
		return TriggerNone, reason
	}
	return raw, ""
}

// applyFoulGame fills the foul-game fields: inside the late close-game
// window, intentional fouling inflates free-throw scoring, so the projected
// total gets an additive bump.
func (c *Classifier) applyFoulGame(eval *Evaluation, snap Snapshot) {
	closeGame := snap.ScoreDiff() <= c.cfg.FoulGameMaxDiff

	inFoulWindow := snap.MinutesRemaining > 0 &&
		snap.MinutesRemaining <= c.cfg.FoulGameMinutes && closeGame

	eval.CouldEnterFoulGame = snap.MinutesRemaining > c.cfg.FoulGameMinutes &&
		snap.MinutesRemaining <= c.cfg.FoulWarnMinutes && closeGame

	if inFoulWindow {
		eval.FoulGameAdjustment = c.cfg.FoulGameExtraPoints
	}

	if eval.CurrentPPM != nil && snap.MinutesRemaining > 0 {
		projected := float64(snap.LiveTotal()) + *eval.CurrentPPM*snap.MinutesRemaining + eval.FoulGameAdjustment
		eval.AdjustedProjectedTotal = &projected
	}
}
