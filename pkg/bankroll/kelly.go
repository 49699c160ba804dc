// Package bankroll sizes stakes with the fractional Kelly criterion.
package bankroll

import (
	"fmt"

	"github.com/Take-The-Live-Under/taketheliveunder-new-sub000/pkg/odds"
)

const (
	// DefaultKellyFraction is the conservative multiplier applied to the
	// full Kelly stake.
	DefaultKellyFraction = 0.25

	// MaxBankrollPct caps any suggested stake at 10% of bankroll, no matter
	// how confident the model is.
	MaxBankrollPct = 0.10
)

// KellyBetSize returns the suggested stake for a wager at the given American
// odds and true win probability. A zero or negative Kelly fraction (no edge)
// returns a stake of exactly 0.
//
// fraction <= 0 selects DefaultKellyFraction.
func KellyBetSize(bankroll float64, americanOdds int, trueProb, fraction float64) (float64, error) {
	if bankroll <= 0 {
		return 0, fmt.Errorf("invalid bankroll %v: must be positive", bankroll)
	}
	if trueProb <= 0 || trueProb >= 1 {
		return 0, fmt.Errorf("invalid true probability %v: must be in (0, 1)", trueProb)
	}
	if fraction <= 0 {
		fraction = DefaultKellyFraction
	}
	if fraction > 1 {
		return 0, fmt.Errorf("invalid Kelly fraction %v: must be <= 1", fraction)
	}

	dec, err := odds.AmericanToDecimal(americanOdds)
	if err != nil {
		return 0, err
	}

	b := dec - 1.0 // net odds
	p := trueProb
	q := 1.0 - p

	full := (b*p - q) / b
	if full <= 0 {
		return 0, nil
	}

	stake := bankroll * full * fraction
	if ceiling := bankroll * MaxBankrollPct; stake > ceiling {
		stake = ceiling
	}
	return stake, nil
}
