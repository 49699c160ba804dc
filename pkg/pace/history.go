package pace

// History is a fixed-capacity ring buffer of one game's snapshots, oldest
// evicted first. It also tracks the opening, high, and low posted total so
// line movement can corroborate a trigger. Owned by a single game's Tracker
// entry; not safe for concurrent use on its own.
type History struct {
	buf   []Snapshot
	head  int // index of oldest
	count int

	openingLine *float64
	highLine    *float64
	lowLine     *float64
}

// DefaultHistoryCapacity holds roughly the last few minutes of a feed
// polling every 20-30 seconds.
const DefaultHistoryCapacity = 12

// NewHistory creates a history with the given snapshot capacity.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}
	return &History{buf: make([]Snapshot, capacity)}
}

// Push appends a snapshot, evicting the oldest when full, and folds any
// posted line into the opening/high/low tracking.
func (h *History) Push(s Snapshot) {
	if h.count == len(h.buf) {
		h.buf[h.head] = s
		h.head = (h.head + 1) % len(h.buf)
	} else {
		h.buf[(h.head+h.count)%len(h.buf)] = s
		h.count++
	}

	if s.TotalLine == nil {
		return
	}
	line := *s.TotalLine
	if h.openingLine == nil {
		v := line
		h.openingLine = &v
	}
	if h.highLine == nil || line > *h.highLine {
		v := line
		h.highLine = &v
	}
	if h.lowLine == nil || line < *h.lowLine {
		v := line
		h.lowLine = &v
	}
}

// Len returns the number of retained snapshots.
func (h *History) Len() int { return h.count }

// At returns the i-th retained snapshot, oldest first.
func (h *History) At(i int) Snapshot {
	return h.buf[(h.head+i)%len(h.buf)]
}

// Last returns the most recent snapshot.
func (h *History) Last() (Snapshot, bool) {
	if h.count == 0 {
		return Snapshot{}, false
	}
	return h.At(h.count - 1), true
}

// OpeningLine returns the first posted total seen for this game, nil if the
// feed never reported one.
func (h *History) OpeningLine() *float64 { return h.openingLine }

// HighLine returns the highest posted total seen.
func (h *History) HighLine() *float64 { return h.highLine }

// LowLine returns the lowest posted total seen.
func (h *History) LowLine() *float64 { return h.lowLine }

// LineDrop returns how far the current posted line sits below the opening
// line. Nil when either side is unknown.
func (h *History) LineDrop() *float64 {
	last, ok := h.Last()
	if !ok || last.TotalLine == nil || h.openingLine == nil {
		return nil
	}
	drop := *h.openingLine - *last.TotalLine
	return &drop
}

// CurrentPace estimates the recent scoring pace in points per minute over a
// trailing window of up to `window` snapshots. It uses game-clock elapsed
// time, not wall time, so stoppages do not distort the rate. Nil when fewer
// than two snapshots exist or no game clock has elapsed across the window.
func (h *History) CurrentPace(window int) *float64 {
	if h.count < 2 {
		return nil
	}
	if window < 2 || window > h.count {
		window = h.count
	}

	first := h.At(h.count - window)
	last := h.At(h.count - 1)

	elapsed := first.MinutesRemaining - last.MinutesRemaining
	if elapsed <= 0 {
		return nil
	}

	pace := float64(last.LiveTotal()-first.LiveTotal()) / elapsed
	return &pace
}
