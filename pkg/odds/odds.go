// Package odds provides conversions between American odds, decimal odds,
// and implied probability, plus two-way market vig math. All functions are
// pure; invalid inputs are reported through explicit errors rather than
// sentinel values.
package odds

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrZeroAmerican is returned for American odds of 0, which do not exist.
	ErrZeroAmerican = errors.New("invalid American odds: cannot be 0")

	// ErrDecimalRange is returned for decimal odds at or below 1.0.
	ErrDecimalRange = errors.New("invalid decimal odds: must be > 1.0")
)

// AmericanToDecimal converts American odds to a decimal multiplier.
// +150 → 2.50, -150 → 1.667.
func AmericanToDecimal(american int) (float64, error) {
	if american == 0 {
		return 0, ErrZeroAmerican
	}
	if american > 0 {
		return float64(american)/100.0 + 1.0, nil
	}
	return 100.0/float64(-american) + 1.0, nil
}

// DecimalToAmerican converts decimal odds back to the American convention.
// 2.50 → +150, 1.667 → -150.
func DecimalToAmerican(dec float64) (int, error) {
	if dec <= 1.0 {
		return 0, ErrDecimalRange
	}
	if dec >= 2.0 {
		return int(math.Round((dec - 1.0) * 100.0)), nil
	}
	return int(math.Round(-100.0 / (dec - 1.0))), nil
}

// AmericanToImpliedProbability returns the probability embedded in a posted
// American price. Output is in (0, 1) and increases with favorite-ness.
func AmericanToImpliedProbability(american int) (float64, error) {
	if american == 0 {
		return 0, ErrZeroAmerican
	}
	if american < 0 {
		a := float64(-american)
		return a / (a + 100.0), nil
	}
	return 100.0 / (float64(american) + 100.0), nil
}

// ProbabilityToFairOdds returns the vig-free American odds for a win
// probability. The branch sits at p = 0.5: favorites price negative,
// underdogs positive.
func ProbabilityToFairOdds(p float64) (int, error) {
	if p <= 0 || p >= 1 {
		return 0, fmt.Errorf("invalid probability %v: must be in (0, 1)", p)
	}
	if p > 0.5 {
		return int(math.Round(-100.0 * p / (1.0 - p))), nil
	}
	return int(math.Round(100.0 * (1.0 - p) / p)), nil
}

// CalculateVig returns the house edge embedded in a two-sided market as a
// percentage: the sum of both implied probabilities minus 1.
func CalculateVig(a1, a2 int) (float64, error) {
	p1, err := AmericanToImpliedProbability(a1)
	if err != nil {
		return 0, fmt.Errorf("side 1: %w", err)
	}
	p2, err := AmericanToImpliedProbability(a2)
	if err != nil {
		return 0, fmt.Errorf("side 2: %w", err)
	}
	return (p1 + p2 - 1.0) * 100.0, nil
}

// RemoveVig strips the overround from a two-way market by proportional
// normalization. The returned fair probabilities sum to exactly 1.
func RemoveVig(a1, a2 int) (fair1, fair2 float64, err error) {
	p1, err := AmericanToImpliedProbability(a1)
	if err != nil {
		return 0, 0, fmt.Errorf("side 1: %w", err)
	}
	p2, err := AmericanToImpliedProbability(a2)
	if err != nil {
		return 0, 0, fmt.Errorf("side 2: %w", err)
	}
	// Complementing fair1 keeps the pair summing to exactly 1 under
	// floating point, which downstream consumers rely on.
	fair1 = p1 / (p1 + p2)
	return fair1, 1.0 - fair1, nil
}
