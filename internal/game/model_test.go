package game

import (
	"math"
	"testing"
)

// seqSource replays draws in order, cycling when exhausted.
type seqSource struct {
	vals []float64
	i    int
}

func (s *seqSource) Float64() float64 {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v
}

func constSource(v float64) *seqSource {
	return &seqSource{vals: []float64{v}}
}

func testPitch(name string, ask, valuation int64, risk, upside float64) Pitch {
	return Pitch{
		Founder: Founder{Name: "Test Founder"},
		Startup: Startup{
			Name:      name,
			Market:    "Testing",
			Risk:      risk,
			Upside:    upside,
			Valuation: valuation,
		},
		Ask: ask,
	}
}

func TestOwnershipCap(t *testing.T) {
	tests := []struct {
		amount, valuation int64
		want              float64
	}{
		{amount: 0, valuation: 100_000, want: 0},
		{amount: 30_000, valuation: 300_000, want: 10},
		{amount: 60_000, valuation: 100_000, want: 49},
		{amount: 500_000, valuation: 100_000, want: 49},
		{amount: 10_000, valuation: 0, want: 0},
	}
	for _, tc := range tests {
		got := Ownership(tc.amount, tc.valuation)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("amount=%d valuation=%d got=%.4f want=%.4f", tc.amount, tc.valuation, got, tc.want)
		}
		if got < 0 || got > OwnershipCapPct {
			t.Fatalf("ownership %.2f outside [0,49]", got)
		}
	}
}

func TestPhase2MinimumsOverfund(t *testing.T) {
	var sum int64
	for _, bps := range DefaultPhase2MinimumBps {
		sum += bps
	}
	if sum <= 10_000 {
		t.Fatalf("phase 2 minimums sum to %d bps, want > 10000", sum)
	}
}

func TestPitchValidate(t *testing.T) {
	good := testPitch("Good", 30_000, 200_000, 0.3, 4)
	if err := good.Validate(); err != nil {
		t.Fatalf("expected valid pitch: %v", err)
	}

	bad := []Pitch{
		testPitch("NoValuation", 30_000, 0, 0.3, 4),
		testPitch("NoAsk", 0, 200_000, 0.3, 4),
		testPitch("AskAboveValuation", 300_000, 200_000, 0.3, 4),
		testPitch("RiskHigh", 30_000, 200_000, 1.2, 4),
		testPitch("RiskNegative", 30_000, 200_000, -0.1, 4),
		testPitch("NoUpside", 30_000, 200_000, 0.3, 0),
	}
	for _, p := range bad {
		if err := p.Validate(); err == nil {
			t.Fatalf("expected %s to fail validation", p.Startup.Name)
		}
	}
}

func TestDefaultRulesFillZeroValues(t *testing.T) {
	r := Rules{}.withDefaults()
	if r.Phase2MinimumBps != DefaultPhase2MinimumBps {
		t.Fatalf("expected default phase 2 schedule, got %v", r.Phase2MinimumBps)
	}
	if r.RetryDelay <= 0 || r.NarrativeAttempts != 2 {
		t.Fatalf("unexpected defaults: %+v", r)
	}
}
