package pace

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrOutOfOrder is returned when a snapshot arrives with a timestamp
	// earlier than one already recorded for the game. Pace depends on a
	// trailing window, so the caller must re-sequence, not this core.
	ErrOutOfOrder = errors.New("snapshot out of order for game")

	// ErrTooManyGames is returned when tracking a new game would exceed the
	// tracker's bound.
	ErrTooManyGames = errors.New("active game limit reached")
)

// DefaultMaxGames bounds the per-game state map. A full league slate is
// around fifteen games; this leaves generous headroom.
const DefaultMaxGames = 64

type gameState struct {
	history     *History
	lastEval    Evaluation
	evaluated   bool
	underStreak int
}

// Tracker owns the rolling per-game histories and runs the classifier over
// each arriving snapshot. One entry per active game; entries are evicted
// when the feed marks the game completed. Safe for concurrent use.
type Tracker struct {
	mu         sync.Mutex
	classifier *Classifier
	games      map[string]*gameState

	maxGames int
	histCap  int
}

// TrackerOption customizes a Tracker.
type TrackerOption func(*Tracker)

// WithMaxGames bounds the number of simultaneously tracked games.
func WithMaxGames(n int) TrackerOption {
	return func(t *Tracker) { t.maxGames = n }
}

// WithHistoryCapacity sets the per-game snapshot ring capacity.
func WithHistoryCapacity(n int) TrackerOption {
	return func(t *Tracker) { t.histCap = n }
}

// NewTracker creates a tracker over the given classifier.
func NewTracker(classifier *Classifier, opts ...TrackerOption) *Tracker {
	t := &Tracker{
		classifier: classifier,
		games:      make(map[string]*gameState),
		maxGames:   DefaultMaxGames,
		histCap:    DefaultHistoryCapacity,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Observe records a snapshot and returns the evaluation for it. Snapshots
// must arrive in non-decreasing CreatedAt order per game; violations are
// rejected with ErrOutOfOrder and leave the game's state untouched.
func (t *Tracker) Observe(snap Snapshot) (Evaluation, error) {
	if snap.GameID == "" {
		return Evaluation{}, errors.New("snapshot missing game id")
	}
	if snap.MinutesRemaining < 0 {
		return Evaluation{}, fmt.Errorf("snapshot for game %s: negative minutes remaining", snap.GameID)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	state, ok := t.games[snap.GameID]
	if !ok {
		if len(t.games) >= t.maxGames {
			return Evaluation{}, fmt.Errorf("game %s: %w", snap.GameID, ErrTooManyGames)
		}
		state = &gameState{history: NewHistory(t.histCap)}
		t.games[snap.GameID] = state
	}

	if last, ok := state.history.Last(); ok && snap.CreatedAt.Before(last.CreatedAt) {
		return Evaluation{}, fmt.Errorf("game %s: %w", snap.GameID, ErrOutOfOrder)
	}

	state.history.Push(snap)

	eval := t.classifier.Evaluate(state.history, state.underStreak)

	// The confirmation streak counts raw classifications so a filter veto
	// does not reset corroboration.
	if eval.RawTrigger == TriggerUnder || eval.RawTrigger == TriggerTripleDipper {
		state.underStreak++
	} else {
		state.underStreak = 0
	}

	state.lastEval = eval
	state.evaluated = true

	return eval, nil
}

// LastEvaluation returns the most recent evaluation for a game.
func (t *Tracker) LastEvaluation(gameID string) (Evaluation, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	state, ok := t.games[gameID]
	if !ok || !state.evaluated {
		return Evaluation{}, false
	}
	return state.lastEval, true
}

// Evaluations returns the latest evaluation for every tracked game.
func (t *Tracker) Evaluations() []Evaluation {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Evaluation, 0, len(t.games))
	for _, state := range t.games {
		if state.evaluated {
			out = append(out, state.lastEval)
		}
	}
	return out
}

// Complete discards a finished game's history and state. Returns false when
// the game was not tracked.
func (t *Tracker) Complete(gameID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.games[gameID]; !ok {
		return false
	}
	delete(t.games, gameID)
	return true
}

// ActiveGames returns the number of games currently tracked.
func (t *Tracker) ActiveGames() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.games)
}
