package game

import (
	"math"
	"strings"
	"testing"
)

func TestResolveWinScenario(t *testing.T) {
	p := testPitch("Scenario", 50_000, 300_000, 0.2, 10)
	got := Resolve(p, 30_000, constSource(0.5))
	if !got.IsWin || got.Outcome != 300_000 {
		t.Fatalf("expected win paying 300000, got %+v", got)
	}
	if final := StartingCapital - 30_000 + got.Outcome; final != 370_000 {
		t.Fatalf("expected capital 370000 after reveal, got %d", final)
	}
}

func TestResolveUsesStrictDraw(t *testing.T) {
	p := testPitch("Edge", 50_000, 300_000, 0.4, 3)
	if got := Resolve(p, 30_000, constSource(0.4)); got.IsWin {
		t.Fatalf("draw equal to risk must lose")
	}
	if got := Resolve(p, 30_000, constSource(0.41)); !got.IsWin || got.Outcome != 90_000 {
		t.Fatalf("draw above risk must win 90000, got %+v", got)
	}
}

func TestResolvePassStillDraws(t *testing.T) {
	src := constSource(0.9)
	p := testPitch("Pass", 50_000, 300_000, 0.3, 6)
	got := Resolve(p, 0, src)
	if !got.IsWin || got.Outcome != 0 {
		t.Fatalf("pass should record would-be win with zero outcome, got %+v", got)
	}
	if src.i != 1 {
		t.Fatalf("expected exactly one draw, got %d", src.i)
	}
}

func TestMissedOpportunity(t *testing.T) {
	p := testPitch("Missed", 40_000, 200_000, 0.3, 7.5)
	if got := MissedOpportunity(p, 0, true); got != 300_000 {
		t.Fatalf("passed winner: got %d want 300000", got)
	}
	if got := MissedOpportunity(p, 0, false); got != 0 {
		t.Fatalf("passed loser: got %d want 0", got)
	}
	if got := MissedOpportunity(p, 40_000, true); got != 0 {
		t.Fatalf("invested winner: got %d want 0", got)
	}
}

func TestExitMillionsFloor(t *testing.T) {
	if got := ExitMillions(0); got != 1 {
		t.Fatalf("expected floor of 1, got %d", got)
	}
	if got := ExitMillions(2_400_000); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
}

func TestValuationHistoryWin(t *testing.T) {
	initial, final := int64(200_000), int64(2_000_000)
	for _, draw := range []float64{0, 0.5, 0.999} {
		h := ValuationHistory(initial, final, true, constSource(draw))
		if len(h) != 6 {
			t.Fatalf("expected 6 points, got %d", len(h))
		}
		if h[0] != initial || h[5] != final {
			t.Fatalf("endpoints wrong: %v", h)
		}
		for i := 1; i < 5; i++ {
			base := float64(initial) * math.Pow(10, float64(i)/5)
			lo, hi := base*0.9-1, base*1.1+1
			if float64(h[i]) < lo || float64(h[i]) > hi {
				t.Fatalf("point %d=%d outside jitter band [%.0f, %.0f]", i, h[i], lo, hi)
			}
		}
	}
}

func TestValuationHistoryLoss(t *testing.T) {
	initial := int64(300_000)
	// peak multiple 1.5 + 0.5*2 = 2.5, peak index 2 + floor(0.5*2) = 3
	h := ValuationHistory(initial, 0, false, constSource(0.5))
	want := []int64{300_000, 450_000, 600_000, 750_000, 412_500, 0}
	if len(h) != len(want) {
		t.Fatalf("expected %d points, got %v", len(want), h)
	}
	for i := range want {
		if h[i] != want[i] {
			t.Fatalf("point %d: got %d want %d (%v)", i, h[i], want[i], h)
		}
	}
}

func TestFallbackStory(t *testing.T) {
	p := testPitch("Nimbus", 40_000, 2_000_000, 0.3, 5)
	passedWin := FallbackStory(OutcomeRequest{Pitch: p, IsWin: true}, constSource(0.5))
	if !strings.Contains(passedWin.Narrative, "$10M exit") || passedWin.MissedOpportunity != 200_000 {
		t.Fatalf("unexpected passed-win story: %+v", passedWin)
	}
	if !passedWin.Fallback || len(passedWin.NewsClippings) != 3 {
		t.Fatalf("fallback story missing clippings: %+v", passedWin)
	}

	investedLoss := FallbackStory(OutcomeRequest{Pitch: p, Invested: true, Amount: 40_000}, constSource(0.5))
	if investedLoss.MissedOpportunity != 0 || investedLoss.ExitValuation != 0 {
		t.Fatalf("invested loss should carry no exit: %+v", investedLoss)
	}
	if last := investedLoss.ValuationHistory[len(investedLoss.ValuationHistory)-1]; last != 0 {
		t.Fatalf("loss history must end at zero, got %d", last)
	}
}
