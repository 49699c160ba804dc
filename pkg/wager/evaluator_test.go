package wager

import (
	"math"
	"testing"
)

func TestPayoutAndTotalReturn(t *testing.T) {
	tests := []struct {
		name       string
		odds       int
		wager      float64
		wantPayout float64
		wantReturn float64
	}{
		{name: "plus money", odds: 150, wager: 100, wantPayout: 150, wantReturn: 250},
		{name: "minus money", odds: -110, wager: 110, wantPayout: 100, wantReturn: 210},
		{name: "even", odds: 100, wager: 50, wantPayout: 50, wantReturn: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payout, err := Payout(tt.odds, tt.wager)
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(payout-tt.wantPayout) > 0.01 {
				t.Errorf("Payout = %.2f, want %.2f", payout, tt.wantPayout)
			}

			ret, err := TotalReturn(tt.odds, tt.wager)
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(ret-tt.wantReturn) > 0.01 {
				t.Errorf("TotalReturn = %.2f, want %.2f", ret, tt.wantReturn)
			}
		})
	}
}

func TestEV(t *testing.T) {
	// $100 at +100 with a 55% true probability: 0.55*100 - 0.45*100 = $10.
	ev, err := EV(100, 100, 0.55)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(ev-10.0) > 0.001 {
		t.Errorf("EV = %.4f, want 10.0", ev)
	}

	// Coin flip at fair odds is zero EV.
	ev, err = EV(100, 100, 0.50)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(ev) > 1e-9 {
		t.Errorf("EV = %v, want 0", ev)
	}

	// Negative when the market has it right and charges juice.
	ev, err = EV(-110, 110, 0.50)
	if err != nil {
		t.Fatal(err)
	}
	if ev >= 0 {
		t.Errorf("EV = %.4f, want negative", ev)
	}

	if _, err := EV(100, 100, 1.2); err == nil {
		t.Error("expected error for probability outside (0,1)")
	}
}

func TestEVPercent(t *testing.T) {
	got, err := EVPercent(100, 0.55)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got-10.0) > 0.001 {
		t.Errorf("EVPercent = %.4f, want 10.0", got)
	}
}

func TestEdge(t *testing.T) {
	// -110 implies 52.38%; a 55% estimate is a 2.62 point edge.
	got, err := Edge(-110, 0.55)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got-2.619) > 0.01 {
		t.Errorf("Edge = %.4f, want ~2.62", got)
	}

	// Estimate at the implied probability carries no edge.
	got, err = Edge(100, 0.50)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got) > 1e-9 {
		t.Errorf("Edge = %v, want 0", got)
	}
}

func TestCorrelationAdjustment(t *testing.T) {
	tests := []struct {
		name string
		base float64
		corr float64
		want float64
	}{
		{name: "positive correlation lifts", base: 0.50, corr: 1.0, want: 0.60},
		{name: "negative correlation drags", base: 0.50, corr: -1.0, want: 0.40},
		{name: "no correlation is identity", base: 0.42, corr: 0, want: 0.42},
		{name: "clamped at one", base: 0.95, corr: 1.0, want: 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CorrelationAdjustment(tt.base, tt.corr)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("CorrelationAdjustment(%v, %v) = %v, want %v", tt.base, tt.corr, got, tt.want)
			}
		})
	}
}
