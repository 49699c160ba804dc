// Package teamfilter holds the hand-curated table of team betting tendencies
// and decides whether a live trigger should be suppressed for the teams
// involved. The table is immutable reference data built once at startup;
// lookups are exact-match after name normalization.
package teamfilter

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Direction classifies a team's historical one-sided tendency.
type Direction string

const (
	// DirectionOverOnly marks teams whose totals have cashed almost
	// exclusively on the over.
	DirectionOverOnly Direction = "over_only"
	// DirectionUnderOnly marks teams whose totals have cashed almost
	// exclusively on the under.
	DirectionUnderOnly Direction = "under_only"
	// DirectionAvoid marks teams too erratic to trigger on in either
	// direction.
	DirectionAvoid Direction = "avoid"
)

// TriggerDirection is the side of the total a live trigger recommends.
type TriggerDirection string

const (
	TriggerUnder TriggerDirection = "under"
	TriggerOver  TriggerDirection = "over"
)

// Entry is one team's tendency record.
type Entry struct {
	TeamName     string    `json:"team_name"`
	Direction    Direction `json:"direction"`
	OverWinRate  float64   `json:"over_win_rate"`
	UnderWinRate float64   `json:"under_win_rate"`
	Warning      string    `json:"warning"`
}

// Filter answers tendency queries against the static table.
type Filter struct {
	byName map[string]*Entry
}

// New builds a filter over the default curated table.
func New() *Filter {
	return NewWithEntries(defaultEntries)
}

// NewWithEntries builds a filter over a caller-supplied table. Useful for
// tests and for hot seasons where the curated list is amended.
func NewWithEntries(entries []Entry) *Filter {
	f := &Filter{byName: make(map[string]*Entry, len(entries))}
	for i := range entries {
		e := entries[i]
		f.byName[normalizeName(e.TeamName)] = &e
	}
	return f
}

// Lookup returns the entry for a team, if one exists.
func (f *Filter) Lookup(team string) (*Entry, bool) {
	e, ok := f.byName[normalizeName(team)]
	return e, ok
}

// Entries returns a copy of every entry in the table.
func (f *Filter) Entries() []Entry {
	out := make([]Entry, 0, len(f.byName))
	for _, e := range f.byName {
		out = append(out, *e)
	}
	return out
}

// ByDirection returns every entry matching a direction.
func (f *Filter) ByDirection(d Direction) []Entry {
	var out []Entry
	for _, e := range f.byName {
		if e.Direction == d {
			out = append(out, *e)
		}
	}
	return out
}

// ShouldFilterTrigger reports whether a trigger must be suppressed for this
// matchup, with a human-readable reason retained for observability.
// A team on the avoid list suppresses every trigger; a one-sided team
// suppresses triggers pointing the other way.
func (f *Filter) ShouldFilterTrigger(home, away string, trigger TriggerDirection) (reason string, filtered bool) {
	for _, team := range []string{home, away} {
		entry, ok := f.Lookup(team)
		if !ok {
			continue
		}
		switch {
		case entry.Direction == DirectionAvoid:
			return fmt.Sprintf("%s is on the avoid list: %s", entry.TeamName, entry.Warning), true
		case entry.Direction == DirectionOverOnly && trigger == TriggerUnder:
			return fmt.Sprintf("%s hits overs (%.0f%%), suppressing under trigger", entry.TeamName, entry.OverWinRate*100), true
		case entry.Direction == DirectionUnderOnly && trigger == TriggerOver:
			return fmt.Sprintf("%s hits unders (%.0f%%), suppressing over trigger", entry.TeamName, entry.UnderWinRate*100), true
		}
	}
	return "", false
}

// normalizeName folds case, accents, and whitespace so feed spellings match
// table keys.
func normalizeName(name string) string {
	name = strings.ToLower(name)

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	name, _, _ = transform.String(t, name)

	return strings.Join(strings.Fields(name), " ")
}
