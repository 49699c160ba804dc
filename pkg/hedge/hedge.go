// Package hedge solves for the wager on the opposite side of an open
// position that locks in profit regardless of outcome.
package hedge

import (
	"fmt"

	"github.com/Take-The-Live-Under/taketheliveunder-new-sub000/pkg/odds"
)

// Result describes a solved hedge.
type Result struct {
	HedgeWager        float64 `json:"hedge_wager"`
	GuaranteedProfit  float64 `json:"guaranteed_profit"`
	ProfitIfOriginal  float64 `json:"profit_if_original"` // original wager wins
	ProfitIfHedge     float64 `json:"profit_if_hedge"`    // hedge wager wins
	OriginalPayout    float64 `json:"original_payout"`
	TotalAmountStaked float64 `json:"total_amount_staked"`
}

// Calculate solves for the hedge stake against an open wager.
//
// With targetProfit nil, it equalizes profit across both outcomes:
// hedgeWager = (originalPayout + originalWager) / (1 + hedgeDecimal).
// With a target, it solves hedgeWager = (originalPayout - target) /
// hedgeDecimal, clamped at zero so a negative stake is never suggested.
func Calculate(originalWager float64, originalOdds, hedgeOdds int, targetProfit *float64) (*Result, error) {
	if originalWager <= 0 {
		return nil, fmt.Errorf("invalid original wager %v: must be positive", originalWager)
	}

	originalDec, err := odds.AmericanToDecimal(originalOdds)
	if err != nil {
		return nil, fmt.Errorf("original odds: %w", err)
	}
	hedgeDec, err := odds.AmericanToDecimal(hedgeOdds)
	if err != nil {
		return nil, fmt.Errorf("hedge odds: %w", err)
	}

	originalPayout := originalWager * (originalDec - 1.0)

	var hedgeWager float64
	if targetProfit == nil {
		// Equal-profit point: total return on the original side, spread
		// across the hedge price, nets the same amount either way.
		hedgeWager = (originalPayout + originalWager) / hedgeDec
	} else {
		hedgeWager = (originalPayout - *targetProfit) / hedgeDec
		if hedgeWager < 0 {
			hedgeWager = 0
		}
	}

	profitIfOriginal := originalPayout - hedgeWager
	profitIfHedge := hedgeWager*(hedgeDec-1.0) - originalWager

	guaranteed := profitIfOriginal
	if targetProfit != nil {
		guaranteed = *targetProfit
	} else if profitIfHedge < guaranteed {
		guaranteed = profitIfHedge
	}

	return &Result{
		HedgeWager:        hedgeWager,
		GuaranteedProfit:  guaranteed,
		ProfitIfOriginal:  profitIfOriginal,
		ProfitIfHedge:     profitIfHedge,
		OriginalPayout:    originalPayout,
		TotalAmountStaked: originalWager + hedgeWager,
	}, nil
}
