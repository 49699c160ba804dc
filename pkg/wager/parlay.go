package wager

import (
	"fmt"

	"github.com/Take-The-Live-Under/taketheliveunder-new-sub000/pkg/odds"
)

// ParlayLeg is a single selection inside a parlay. TrueProbability is the
// bettor's own estimate; when absent the parlay's EV cannot be computed.
type ParlayLeg struct {
	Odds            int      `json:"odds"`
	Description     string   `json:"description"`
	TrueProbability *float64 `json:"true_probability,omitempty"`
}

// ParlayResult is the full economic breakdown of a parlay. Pointer fields are
// nil whenever any leg lacks a true-probability estimate.
type ParlayResult struct {
	CombinedDecimalOdds  float64  `json:"combined_decimal_odds"`
	CombinedAmericanOdds int      `json:"combined_american_odds"`
	ImpliedProbability   float64  `json:"implied_probability"`
	TrueProbability      *float64 `json:"true_probability,omitempty"`
	Payout               float64  `json:"payout"`
	TotalReturn          float64  `json:"total_return"`
	EV                   *float64 `json:"ev,omitempty"`
	EVPercent            *float64 `json:"ev_percent,omitempty"`
	VigPercent           float64  `json:"vig_percent"`
	LegCount             int      `json:"leg_count"`
}

// EvaluateParlay combines legs multiplicatively. Legs are assumed independent;
// correlated same-game legs should be pre-adjusted with
// CorrelationAdjustment before evaluation.
func EvaluateParlay(legs []ParlayLeg, wagerAmount float64) (*ParlayResult, error) {
	if wagerAmount < 0 {
		return nil, fmt.Errorf("invalid wager amount %v: must be >= 0", wagerAmount)
	}

	// Zero legs degenerate to the identity: the stake rides on nothing and
	// comes straight back.
	if len(legs) == 0 {
		return &ParlayResult{
			CombinedDecimalOdds: 1.0,
			ImpliedProbability:  1.0,
			TotalReturn:         wagerAmount,
		}, nil
	}

	combinedDec := 1.0
	impliedProb := 1.0
	trueProb := 1.0
	haveTrueProb := true

	for i, leg := range legs {
		dec, err := odds.AmericanToDecimal(leg.Odds)
		if err != nil {
			return nil, fmt.Errorf("leg %d: %w", i+1, err)
		}
		legImplied, err := odds.AmericanToImpliedProbability(leg.Odds)
		if err != nil {
			return nil, fmt.Errorf("leg %d: %w", i+1, err)
		}

		combinedDec *= dec
		impliedProb *= legImplied

		if leg.TrueProbability == nil {
			haveTrueProb = false
		} else {
			p := *leg.TrueProbability
			if p <= 0 || p >= 1 {
				return nil, fmt.Errorf("leg %d: invalid true probability %v", i+1, p)
			}
			trueProb *= p
		}
	}

	american, err := odds.DecimalToAmerican(combinedDec)
	if err != nil {
		return nil, fmt.Errorf("combined odds: %w", err)
	}

	profit := wagerAmount * (combinedDec - 1.0)

	result := &ParlayResult{
		CombinedDecimalOdds:  combinedDec,
		CombinedAmericanOdds: american,
		ImpliedProbability:   impliedProb,
		Payout:               profit,
		TotalReturn:          wagerAmount * combinedDec,
		VigPercent:           parlayVigPercent(combinedDec, impliedProb),
		LegCount:             len(legs),
	}

	// An estimate missing on any leg leaves the whole parlay's EV unknown.
	// Unknown is not zero: the fields stay nil.
	if haveTrueProb {
		ev := trueProb*profit - (1.0-trueProb)*wagerAmount
		evPct := (trueProb*(combinedDec-1.0) - (1.0 - trueProb)) * 100.0
		result.TrueProbability = &trueProb
		result.EV = &ev
		result.EVPercent = &evPct
	}

	return result, nil
}

// parlayVigPercent measures how far the payable odds fall short of the fair
// odds implied by the compounded probability, clamped at zero so a display
// never shows negative vig.
func parlayVigPercent(combinedDec, impliedProb float64) float64 {
	fairDec := 1.0 / impliedProb
	vig := (fairDec - combinedDec) / fairDec * 100.0
	if vig < 0 {
		return 0
	}
	return vig
}
