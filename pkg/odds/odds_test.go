package odds

import (
	"math"
	"testing"
)

func TestAmericanToDecimal(t *testing.T) {
	tests := []struct {
		name     string
		american int
		want     float64
		wantErr  bool
	}{
		{name: "underdog", american: 150, want: 2.50},
		{name: "favorite", american: -150, want: 1.6667},
		{name: "standard juice", american: -110, want: 1.9091},
		{name: "even money", american: 100, want: 2.00},
		{name: "zero rejected", american: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AmericanToDecimal(tt.american)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("AmericanToDecimal(%d) = %.4f, want %.4f", tt.american, got, tt.want)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	// decimalToAmerican(americanToDecimal(a)) should recover a exactly for
	// representative prices.
	for _, a := range []int{-150, 200, -110, 100, 264, -575, 1200} {
		dec, err := AmericanToDecimal(a)
		if err != nil {
			t.Fatalf("AmericanToDecimal(%d): %v", a, err)
		}
		back, err := DecimalToAmerican(dec)
		if err != nil {
			t.Fatalf("DecimalToAmerican(%.4f): %v", dec, err)
		}
		if back != a {
			t.Errorf("round trip %d → %.4f → %d", a, dec, back)
		}
	}
}

func TestDecimalToAmerican_Invalid(t *testing.T) {
	for _, d := range []float64{1.0, 0.5, 0, -2} {
		if _, err := DecimalToAmerican(d); err == nil {
			t.Errorf("DecimalToAmerican(%v) expected error", d)
		}
	}
}

func TestAmericanToImpliedProbability(t *testing.T) {
	tests := []struct {
		american int
		want     float64
	}{
		{-110, 0.5238},
		{-150, 0.60},
		{150, 0.40},
		{100, 0.50},
		{-575, 0.8519},
	}

	for _, tt := range tests {
		got, err := AmericanToImpliedProbability(tt.american)
		if err != nil {
			t.Fatalf("AmericanToImpliedProbability(%d): %v", tt.american, err)
		}
		if math.Abs(got-tt.want) > 0.001 {
			t.Errorf("AmericanToImpliedProbability(%d) = %.4f, want %.4f", tt.american, got, tt.want)
		}
		if got <= 0 || got >= 1 {
			t.Errorf("implied probability %v outside (0,1)", got)
		}
	}

	// Monotonically increasing in favorite-ness.
	prev := 0.0
	for _, a := range []int{300, 150, 100, -120, -200, -600} {
		p, _ := AmericanToImpliedProbability(a)
		if p <= prev {
			t.Errorf("implied probability not increasing at %d: %.4f <= %.4f", a, p, prev)
		}
		prev = p
	}
}

func TestProbabilityToFairOdds(t *testing.T) {
	tests := []struct {
		p    float64
		want int
	}{
		{0.60, -150},
		{0.40, 150},
		{0.50, 100}, // boundary prices as the underdog branch
		{0.75, -300},
	}

	for _, tt := range tests {
		got, err := ProbabilityToFairOdds(tt.p)
		if err != nil {
			t.Fatalf("ProbabilityToFairOdds(%v): %v", tt.p, err)
		}
		if got != tt.want {
			t.Errorf("ProbabilityToFairOdds(%v) = %d, want %d", tt.p, got, tt.want)
		}
	}

	for _, p := range []float64{0, 1, -0.2, 1.5} {
		if _, err := ProbabilityToFairOdds(p); err == nil {
			t.Errorf("ProbabilityToFairOdds(%v) expected error", p)
		}
	}
}

func TestCalculateVig(t *testing.T) {
	// Two -110 sides carry the classic 4.76% overround.
	vig, err := CalculateVig(-110, -110)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(vig-4.7619) > 0.001 {
		t.Errorf("CalculateVig(-110, -110) = %.4f, want 4.7619", vig)
	}

	if _, err := CalculateVig(0, -110); err == nil {
		t.Error("expected error for zero odds")
	}
}

func TestRemoveVig(t *testing.T) {
	tests := []struct {
		name     string
		a1, a2   int
		wantFair float64 // fair probability of side 1
	}{
		{name: "symmetric market", a1: -110, a2: -110, wantFair: 0.50},
		{name: "lopsided market", a1: -200, a2: 170, wantFair: 0.6429},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f1, f2, err := RemoveVig(tt.a1, tt.a2)
			if err != nil {
				t.Fatal(err)
			}
			if f1+f2 != 1.0 {
				t.Errorf("fair probabilities sum to %v, want exactly 1", f1+f2)
			}
			if math.Abs(f1-tt.wantFair) > 0.001 {
				t.Errorf("fair1 = %.4f, want %.4f", f1, tt.wantFair)
			}
		})
	}
}
