package game

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"
)

func fixedNow() time.Time {
	return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
}

type stubSupplier struct {
	failures int
	calls    int
	phases   []int
	next     func(phase, call int) Pitch
}

func (s *stubSupplier) GeneratePitch(_ context.Context, phase int) (Pitch, error) {
	s.calls++
	s.phases = append(s.phases, phase)
	if s.calls <= s.failures {
		return Pitch{}, errors.New("supplier down")
	}
	if s.next != nil {
		return s.next(phase, s.calls), nil
	}
	if phase == 1 {
		return testPitch(fmt.Sprintf("Early%d", s.calls), 50_000, 250_000, 0.3, 4), nil
	}
	return testPitch(fmt.Sprintf("Later%d", s.calls), 500_000, 5_000_000, 0.3, 4), nil
}

type stubNarrator struct {
	failures int
	calls    map[string]int
}

func (n *stubNarrator) Narrate(_ context.Context, req OutcomeRequest) (Story, error) {
	if n.calls == nil {
		n.calls = map[string]int{}
	}
	n.calls[req.Pitch.Startup.Name]++
	if n.failures > 0 {
		n.failures--
		return Story{}, errors.New("narrator down")
	}
	return Story{
		Narrative:         "story of " + req.Pitch.Startup.Name,
		ValuationHistory:  []int64{1, 2, 3, 4},
		MissedOpportunity: 999,
	}, nil
}

type stubStore struct {
	err   error
	saved []Result
}

func (s *stubStore) SaveResult(_ context.Context, r Result) (PersistedResult, error) {
	if s.err != nil {
		return PersistedResult{}, s.err
	}
	s.saved = append(s.saved, r)
	return PersistedResult{ID: int64(len(s.saved)), Result: r}, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testEngine(sup PitchSupplier, nar Narrator, store ResultStore, rng RandomSource) *Engine {
	rules := DefaultRules()
	rules.RetryDelay = time.Millisecond
	rules.EasterEggChance = 0
	return NewEngine(Deps{
		Pitches:  sup,
		Narrator: nar,
		Results:  store,
		Random:   rng,
		Logger:   quietLogger(),
		Now:      fixedNow,
		NewID:    func() string { return "session-1" },
	}, rules)
}

func revealAll(t *testing.T, e *Engine, s *Session) {
	t.Helper()
	for s.State == StateRevealing {
		if err := e.Advance(context.Background(), s); err != nil {
			t.Fatalf("advance: %v", err)
		}
	}
}

func TestEngineFullGameConservesCapital(t *testing.T) {
	ctx := context.Background()
	store := &stubStore{}
	nar := &stubNarrator{}
	// alternate win/loss draws against risk 0.3
	rng := &seqSource{vals: []float64{0.9, 0.1}}
	e := testEngine(&stubSupplier{}, nar, store, rng)

	s, err := e.Start(ctx)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if s.State != StatePlaying || s.Capital != StartingCapital || s.Round != 1 || s.Phase != 1 {
		t.Fatalf("unexpected start state: %+v", s)
	}

	var phase1Spent int64
	for round := 1; round <= 5; round++ {
		if s.Round != round {
			t.Fatalf("expected round %d, got %d", round, s.Round)
		}
		amount := ComputeLimits(s, *s.CurrentPitch, e.Rules()).Min
		if _, err := e.Decide(ctx, s, amount); err != nil {
			t.Fatalf("round %d decide: %v", round, err)
		}
		phase1Spent += amount
	}
	if s.State != StateRevealing || s.Phase != 1 {
		t.Fatalf("expected phase 1 reveal, got state=%s phase=%d", s.State, s.Phase)
	}
	if phase1Spent != StartingCapital || s.Capital != 0 {
		t.Fatalf("capital must only be debited before reveal: spent=%d capital=%d", phase1Spent, s.Capital)
	}

	revealAll(t, e, s)
	if s.Phase != 2 || s.Round != 6 || s.State != StatePlaying {
		t.Fatalf("expected phase 2 round 6 playing, got phase=%d round=%d state=%s", s.Phase, s.Round, s.State)
	}
	if s.Phase2StartingCapital != s.Capital || s.Capital != s.Score() {
		t.Fatalf("phase 2 capital %d should equal score %d", s.Phase2StartingCapital, s.Score())
	}

	for s.State == StatePlaying {
		amount := int64(0)
		if l := ComputeLimits(s, *s.CurrentPitch, e.Rules()); l.CanInvest() {
			amount = l.Min
		}
		if _, err := e.Decide(ctx, s, amount); err != nil {
			t.Fatalf("round %d decide: %v", s.Round, err)
		}
	}
	revealAll(t, e, s)

	if s.State != StateFinished {
		t.Fatalf("expected finished, got %s", s.State)
	}
	if len(s.Investments) != TotalRounds {
		t.Fatalf("expected 10 investments, got %d", len(s.Investments))
	}
	var invested, returned int64
	for _, inv := range s.Investments {
		invested += inv.Amount
		returned += inv.Outcome
		if inv.Story == nil {
			t.Fatalf("round %d revealed without story", inv.Round)
		}
	}
	if want := StartingCapital - invested + returned; s.FinalScore != want || s.Capital != want {
		t.Fatalf("final score %d capital %d want %d", s.FinalScore, s.Capital, want)
	}
	if s.Archetype != Classify(s.Investments, s.FinalScore) {
		t.Fatalf("archetype %q does not match classification", s.Archetype)
	}
	if len(store.saved) != 1 || s.ResultID != 1 {
		t.Fatalf("expected one persisted result, got %d (id %d)", len(store.saved), s.ResultID)
	}
	if got := store.saved[0]; got.Score != s.FinalScore || len(got.Details) != TotalRounds {
		t.Fatalf("persisted result mismatch: %+v", got)
	}
	for name, n := range nar.calls {
		if n != 1 {
			t.Fatalf("narrator called %d times for %s", n, name)
		}
	}
}

func TestEngineRejectsInvalidDecisionWithoutMutation(t *testing.T) {
	ctx := context.Background()
	e := testEngine(&stubSupplier{}, nil, nil, constSource(0.5))
	s, err := e.Start(ctx)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	before := *s
	pitch := *s.CurrentPitch

	for _, amount := range []int64{-5, 10_000, 60_000} {
		if _, err := e.Decide(ctx, s, amount); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("amount %d: expected ErrInvalidAmount, got %v", amount, err)
		}
	}
	if s.Capital != before.Capital || s.Round != before.Round || len(s.Investments) != 0 || s.State != StatePlaying {
		t.Fatalf("rejected decision mutated session: %+v", s)
	}
	if s.CurrentPitch == nil || s.CurrentPitch.Startup.Name != pitch.Startup.Name {
		t.Fatalf("rejected decision replaced the pitch")
	}
}

func TestEngineForcedPassScenario(t *testing.T) {
	ctx := context.Background()
	e := testEngine(&stubSupplier{}, nil, nil, constSource(0.0))
	p := testPitch("Later", 500_000, 5_000_000, 0.5, 3)
	s := &Session{
		ID:                    "forced",
		State:                 StatePlaying,
		Phase:                 2,
		Round:                 6,
		Capital:               150_000,
		Phase2StartingCapital: 150_000,
		CurrentPitch:          &p,
	}
	for _, amount := range []int64{42_000, 39_000, 36_000, 33_000} {
		if _, err := e.Decide(ctx, s, amount); err != nil {
			t.Fatalf("round %d: %v", s.Round, err)
		}
	}
	if s.Round != 10 || s.Capital != 0 {
		t.Fatalf("expected round 10 with 0 capital, got round=%d capital=%d", s.Round, s.Capital)
	}
	if !s.IsForcedPass(e.Rules()) {
		t.Fatalf("round 10 must be a forced pass")
	}
	if _, err := e.Decide(ctx, s, 30_000); !errors.Is(err, ErrForcedPass) {
		t.Fatalf("expected ErrForcedPass, got %v", err)
	}
	if _, err := e.Decide(ctx, s, 0); err != nil {
		t.Fatalf("pass under forced pass: %v", err)
	}
	if s.State != StateRevealing {
		t.Fatalf("expected revealing after round 10, got %s", s.State)
	}
}

func TestEngineRetriesPitchSupply(t *testing.T) {
	sup := &stubSupplier{failures: 3}
	e := testEngine(sup, nil, nil, constSource(0.5))
	s, err := e.Start(context.Background())
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if sup.calls != 4 || s.State != StatePlaying {
		t.Fatalf("expected 4 supplier calls and playing, got %d calls state=%s", sup.calls, s.State)
	}
}

func TestEngineRetriesInvalidPitch(t *testing.T) {
	sup := &stubSupplier{next: func(phase, call int) Pitch {
		if call == 1 {
			return testPitch("Broken", 900_000, 100_000, 0.3, 4)
		}
		return testPitch("Fixed", 50_000, 250_000, 0.3, 4)
	}}
	e := testEngine(sup, nil, nil, constSource(0.5))
	s, err := e.Start(context.Background())
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if s.CurrentPitch.Startup.Name != "Fixed" {
		t.Fatalf("invalid pitch should have been retried, got %s", s.CurrentPitch.Startup.Name)
	}
}

func TestEngineSupplyCancelledKeepsLoading(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	e := testEngine(&stubSupplier{failures: 1 << 30}, nil, nil, constSource(0.5))
	s, err := e.Start(ctx)
	if err == nil {
		t.Fatalf("expected error once context expired")
	}
	if s.State != StateLoading || s.Capital != StartingCapital {
		t.Fatalf("cancelled load corrupted session: %+v", s)
	}
}

func TestEngineRevealCachesStoryAndPinsNumbers(t *testing.T) {
	ctx := context.Background()
	nar := &stubNarrator{}
	sup := &stubSupplier{}
	e := testEngine(sup, nar, nil, constSource(0.9))
	s, _ := e.Start(ctx)
	for i := 0; i < 5; i++ {
		amount := int64(0)
		if i == 0 {
			amount = 30_000
		}
		if _, err := e.Decide(ctx, s, amount); err != nil {
			t.Fatalf("decide: %v", err)
		}
	}
	first, err := e.Reveal(ctx, s)
	if err != nil {
		t.Fatalf("reveal: %v", err)
	}
	again, _ := e.Reveal(ctx, s)
	if nar.calls[first.Pitch.Startup.Name] != 1 || again.Story != first.Story {
		t.Fatalf("story should be generated once and cached")
	}
	if first.Story.MissedOpportunity != 0 {
		t.Fatalf("invested deal cannot have a missed opportunity, got %d", first.Story.MissedOpportunity)
	}
	if first.Story.ExitValuation != 1_000_000 {
		t.Fatalf("exit valuation should be pinned to 1000000, got %d", first.Story.ExitValuation)
	}

	if err := e.Advance(ctx, s); err != nil {
		t.Fatalf("advance: %v", err)
	}
	passed, _ := e.Reveal(ctx, s)
	if passed.Story.MissedOpportunity != 200_000 {
		t.Fatalf("passed winner missed opportunity: got %d want 200000", passed.Story.MissedOpportunity)
	}
}

func TestEngineNarrativeRetryThenFallback(t *testing.T) {
	ctx := context.Background()

	nar := &stubNarrator{failures: 1}
	e := testEngine(&stubSupplier{}, nar, nil, constSource(0.9))
	s, _ := e.Start(ctx)
	for i := 0; i < 5; i++ {
		_, _ = e.Decide(ctx, s, 0)
	}
	inv, err := e.Reveal(ctx, s)
	if err != nil {
		t.Fatalf("reveal: %v", err)
	}
	if inv.Story.Fallback || nar.calls[inv.Pitch.Startup.Name] != 2 {
		t.Fatalf("one failure should be retried, calls=%d story=%+v", nar.calls[inv.Pitch.Startup.Name], inv.Story)
	}

	nar = &stubNarrator{failures: 2}
	e = testEngine(&stubSupplier{}, nar, nil, constSource(0.9))
	s, _ = e.Start(ctx)
	for i := 0; i < 5; i++ {
		_, _ = e.Decide(ctx, s, 0)
	}
	before := s.Investments[0]
	inv, err = e.Reveal(ctx, s)
	if err != nil {
		t.Fatalf("reveal: %v", err)
	}
	if !inv.Story.Fallback || len(inv.Story.ValuationHistory) != 6 {
		t.Fatalf("expected fallback story, got %+v", inv.Story)
	}
	if inv.IsWin != before.IsWin || inv.Outcome != before.Outcome {
		t.Fatalf("narrative failure changed the resolved outcome")
	}
}

func TestEngineCancelledRevealKeepsStoryPending(t *testing.T) {
	ctx := context.Background()
	nar := &stubNarrator{}
	e := testEngine(&stubSupplier{}, nar, nil, constSource(0.9))
	s, _ := e.Start(ctx)
	for i := 0; i < 5; i++ {
		_, _ = e.Decide(ctx, s, 0)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := e.Reveal(cancelled, s); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if s.Investments[0].Story != nil {
		t.Fatalf("cancelled reveal cached a story: %+v", s.Investments[0].Story)
	}
	if err := e.Advance(cancelled, s); !errors.Is(err, context.Canceled) {
		t.Fatalf("advance should surface cancellation, got %v", err)
	}
	if s.RevealIndex != 0 || s.State != StateRevealing {
		t.Fatalf("cancelled advance moved the reveal: index=%d state=%s", s.RevealIndex, s.State)
	}

	inv, err := e.Reveal(ctx, s)
	if err != nil {
		t.Fatalf("reveal: %v", err)
	}
	if inv.Story == nil || inv.Story.Fallback || inv.Story.Narrative != "story of "+inv.Pitch.Startup.Name {
		t.Fatalf("expected narrator story after retry, got %+v", inv.Story)
	}
}

func TestEnginePersistenceFailureStillFinishes(t *testing.T) {
	ctx := context.Background()
	store := &stubStore{err: errors.New("db down")}
	e := testEngine(&stubSupplier{}, nil, store, constSource(0.1))
	s, _ := e.Start(ctx)
	for s.State != StateFinished {
		switch s.State {
		case StatePlaying:
			if _, err := e.Decide(ctx, s, 0); err != nil {
				t.Fatalf("decide: %v", err)
			}
		case StateRevealing:
			if err := e.Advance(ctx, s); err != nil {
				t.Fatalf("advance: %v", err)
			}
		default:
			t.Fatalf("unexpected state %s", s.State)
		}
	}
	if s.FinalScore != StartingCapital || s.Archetype != ArchetypeAngel || s.ResultID != 0 {
		t.Fatalf("unexpected all-pass finish: score=%d archetype=%q id=%d", s.FinalScore, s.Archetype, s.ResultID)
	}
}

func TestEngineInvalidStateTransitions(t *testing.T) {
	ctx := context.Background()
	e := testEngine(&stubSupplier{}, nil, nil, constSource(0.5))
	s, _ := e.Start(ctx)
	if _, err := e.Reveal(ctx, s); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("reveal while playing: expected ErrInvalidState, got %v", err)
	}
	if err := e.Advance(ctx, s); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("advance while playing: expected ErrInvalidState, got %v", err)
	}
	if err := e.LoadPitch(ctx, s); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("load while playing: expected ErrInvalidState, got %v", err)
	}
}

func TestEngineEasterEggOncePerSession(t *testing.T) {
	ctx := context.Background()
	rules := DefaultRules()
	rules.EasterEggChance = 1
	rules.RetryDelay = time.Millisecond
	e := NewEngine(Deps{Pitches: &stubSupplier{}, Random: constSource(0.5), Logger: quietLogger()}, rules)

	s, err := e.Start(ctx)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if !s.CurrentPitch.IsEasterEgg || !s.EasterEggTriggered {
		t.Fatalf("expected the easter egg pitch first")
	}
	if s.CurrentPitch.Startup.Upside != 12 {
		t.Fatalf("upside draw 0.5 should give 12x, got %.1f", s.CurrentPitch.Startup.Upside)
	}
	eggs := 1
	for s.State == StatePlaying && s.Phase == 1 {
		if _, err := e.Decide(ctx, s, 0); err != nil {
			t.Fatalf("decide: %v", err)
		}
		if s.CurrentPitch != nil && s.CurrentPitch.IsEasterEgg {
			eggs++
		}
	}
	if eggs != 1 {
		t.Fatalf("easter egg issued %d times", eggs)
	}

	other, _ := e.Start(ctx)
	if !other.CurrentPitch.IsEasterEgg {
		t.Fatalf("easter egg flag must not leak across sessions")
	}
}

func TestEngineAdvanceCreditsCapitalPerReveal(t *testing.T) {
	ctx := context.Background()
	sup := &stubSupplier{next: func(phase, call int) Pitch {
		return testPitch(fmt.Sprintf("Deal%d", call), 50_000, 250_000, 0.2, 10)
	}}
	e := testEngine(sup, &stubNarrator{}, nil, constSource(0.9))
	s, _ := e.Start(ctx)
	if _, err := e.Decide(ctx, s, 30_000); err != nil {
		t.Fatalf("decide: %v", err)
	}
	for i := 0; i < 4; i++ {
		_, _ = e.Decide(ctx, s, 0)
	}
	if s.Capital != 70_000 {
		t.Fatalf("expected 70000 before reveal, got %d", s.Capital)
	}
	if err := e.Advance(ctx, s); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if s.Capital != 370_000 || s.RevealIndex != 1 {
		t.Fatalf("expected 370000 after first reveal, got %d (index %d)", s.Capital, s.RevealIndex)
	}
}
