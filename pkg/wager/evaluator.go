// Package wager evaluates single-wager and parlay economics: payout, expected
// value, edge against the market, and combined parlay pricing. Probabilities
// the bettor does not actually have are modeled as absent (nil), never as
// zero, so missing data propagates through every aggregate.
package wager

import (
	"fmt"

	"github.com/Take-The-Live-Under/taketheliveunder-new-sub000/pkg/odds"
)

// Payout returns the profit on a winning wager, excluding the returned stake.
func Payout(american int, wagerAmount float64) (float64, error) {
	dec, err := odds.AmericanToDecimal(american)
	if err != nil {
		return 0, err
	}
	return wagerAmount * (dec - 1.0), nil
}

// TotalReturn returns stake plus profit on a winning wager.
func TotalReturn(american int, wagerAmount float64) (float64, error) {
	dec, err := odds.AmericanToDecimal(american)
	if err != nil {
		return 0, err
	}
	return wagerAmount * dec, nil
}

// EV returns the expected value of a wager given the bettor's true win
// probability. Positive means long-run profitable.
func EV(american int, wagerAmount, trueProb float64) (float64, error) {
	if trueProb <= 0 || trueProb >= 1 {
		return 0, fmt.Errorf("invalid true probability %v: must be in (0, 1)", trueProb)
	}
	profit, err := Payout(american, wagerAmount)
	if err != nil {
		return 0, err
	}
	return trueProb*profit - (1.0-trueProb)*wagerAmount, nil
}

// EVPercent returns expected value for a unit stake, as a percentage.
func EVPercent(american int, trueProb float64) (float64, error) {
	ev, err := EV(american, 1.0, trueProb)
	if err != nil {
		return 0, err
	}
	return ev * 100.0, nil
}

// Edge returns the percentage-point gap between the bettor's true probability
// and the probability implied by the posted price.
func Edge(american int, trueProb float64) (float64, error) {
	if trueProb <= 0 || trueProb >= 1 {
		return 0, fmt.Errorf("invalid true probability %v: must be in (0, 1)", trueProb)
	}
	implied, err := odds.AmericanToImpliedProbability(american)
	if err != nil {
		return 0, err
	}
	return (trueProb - implied) * 100.0, nil
}

// CorrelationAdjustment scales a base probability for same-event correlated
// legs: adjusted = base * (1 + 0.2*correlation), clamped to [0, 1].
//
// This is a deliberately simplified heuristic, not a joint-probability model.
// It exists so correlated same-game parlays are not priced as if independent.
func CorrelationAdjustment(baseProb, correlation float64) float64 {
	adjusted := baseProb * (1.0 + correlation*0.2)
	if adjusted < 0 {
		return 0
	}
	if adjusted > 1 {
		return 1
	}
	return adjusted
}
