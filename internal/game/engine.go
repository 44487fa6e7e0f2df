package game

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

type PitchSupplier interface {
	GeneratePitch(ctx context.Context, phase int) (Pitch, error)
}

type Narrator interface {
	Narrate(ctx context.Context, req OutcomeRequest) (Story, error)
}

type ResultStore interface {
	SaveResult(ctx context.Context, r Result) (PersistedResult, error)
}

type Deps struct {
	Pitches  PitchSupplier
	Narrator Narrator
	Results  ResultStore
	Random   RandomSource
	Logger   *slog.Logger
	Now      func() time.Time
	NewID    func() string
}

// Engine drives sessions through their lifecycle. It holds no session
// state of its own and may be shared across sessions.
type Engine struct {
	pitches  PitchSupplier
	narrator Narrator
	results  ResultStore
	rng      RandomSource
	log      *slog.Logger
	now      func() time.Time
	newID    func() string
	rules    Rules
}

func NewEngine(deps Deps, rules Rules) *Engine {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Random == nil {
		deps.Random = NewRandom(0)
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.NewID == nil {
		deps.NewID = uuid.NewString
	}
	return &Engine{
		pitches:  deps.Pitches,
		narrator: deps.Narrator,
		results:  deps.Results,
		rng:      deps.Random,
		log:      deps.Logger,
		now:      deps.Now,
		newID:    deps.NewID,
		rules:    rules.withDefaults(),
	}
}

func (e *Engine) Rules() Rules {
	return e.rules
}

// Start creates a session and loads its first pitch. If ctx ends before a
// pitch arrives the session is returned in the loading state.
func (e *Engine) Start(ctx context.Context) (*Session, error) {
	s := NewSession(e.newID(), e.now())
	if err := e.LoadPitch(ctx, s); err != nil {
		return s, err
	}
	return s, nil
}

// Resume loads a pitch for a session left in the loading state.
func (e *Engine) Resume(ctx context.Context, s *Session) error {
	if s.State != StateLoading {
		return nil
	}
	return e.LoadPitch(ctx, s)
}

// LoadPitch asks the supplier for the current round's pitch, retrying
// failures and contract violations on a fixed delay until ctx ends.
func (e *Engine) LoadPitch(ctx context.Context, s *Session) error {
	if s.State != StateLoading {
		return fmt.Errorf("%w: load pitch in %s", ErrInvalidState, s.State)
	}
	if s.Phase == 1 && !s.EasterEggTriggered && e.rules.EasterEggChance > 0 && e.rng.Float64() < e.rules.EasterEggChance {
		s.EasterEggTriggered = true
		p := EasterEggPitch(e.rng)
		e.issue(s, p)
		return nil
	}
	if e.pitches == nil {
		return ErrNoPitchSource
	}

	for attempt := 1; ; attempt++ {
		p, err := e.pitches.GeneratePitch(ctx, s.Phase)
		if err == nil {
			err = p.Validate()
		}
		if err == nil {
			e.issue(s, p)
			return nil
		}
		if ctx.Err() != nil {
			return fmt.Errorf("load pitch: %w", ctx.Err())
		}
		e.log.Warn("pitch supply failed", "session_id", s.ID, "round", s.Round, "attempt", attempt, "err", err)
		if err := sleepWithContext(ctx, e.rules.RetryDelay); err != nil {
			return fmt.Errorf("load pitch: %w", err)
		}
	}
}

func (e *Engine) issue(s *Session, p Pitch) {
	s.CurrentPitch = &p
	s.State = StatePlaying
}

// Decide commits an invest or pass on the current pitch. Invalid amounts
// are rejected before anything changes. The outcome is resolved here,
// never at reveal. A committed decision stays committed even if the next
// pitch is still loading when ctx ends.
func (e *Engine) Decide(ctx context.Context, s *Session, amount int64) (Investment, error) {
	if s.State != StatePlaying {
		return Investment{}, fmt.Errorf("%w: decide in %s", ErrInvalidState, s.State)
	}
	if s.CurrentPitch == nil {
		return Investment{}, ErrNoPitch
	}
	if amount < 0 {
		return Investment{}, fmt.Errorf("%w: amount must be >= 0", ErrInvalidAmount)
	}
	p := *s.CurrentPitch
	if err := ComputeLimits(s, p, e.rules).Check(amount); err != nil {
		return Investment{}, err
	}

	res := Resolve(p, amount, e.rng)
	inv := Investment{
		Round:     s.Round,
		Phase:     s.Phase,
		Pitch:     p,
		Amount:    amount,
		Ownership: Ownership(amount, p.Startup.Valuation),
		IsWin:     res.IsWin,
		Outcome:   res.Outcome,
	}
	s.Investments = append(s.Investments, inv)
	s.Capital -= amount
	s.CurrentPitch = nil

	if s.IsPhaseBoundary() {
		s.State = StateRevealing
		return inv, nil
	}
	s.Round++
	s.State = StateLoading
	if err := e.LoadPitch(ctx, s); err != nil {
		e.log.Warn("next pitch pending", "session_id", s.ID, "round", s.Round, "err", err)
	}
	return inv, nil
}

// Reveal returns the investment being revealed, enriching it with a story
// on first view.
func (e *Engine) Reveal(ctx context.Context, s *Session) (Investment, error) {
	if s.State != StateRevealing {
		return Investment{}, fmt.Errorf("%w: reveal in %s", ErrInvalidState, s.State)
	}
	if s.RevealIndex >= len(s.Investments) {
		return Investment{}, fmt.Errorf("%w: nothing left to reveal", ErrInvalidState)
	}
	inv := &s.Investments[s.RevealIndex]
	if inv.Story == nil {
		story, err := e.narrate(ctx, s.ID, *inv)
		if err != nil {
			return Investment{}, fmt.Errorf("reveal: %w", err)
		}
		inv.Story = &story
	}
	return *inv, nil
}

// Advance acknowledges the current reveal, credits its outcome and moves
// on: to the next reveal, to phase 2, or to the finished state.
func (e *Engine) Advance(ctx context.Context, s *Session) error {
	if _, err := e.Reveal(ctx, s); err != nil {
		return err
	}
	inv := s.Investments[s.RevealIndex]
	s.Capital += inv.Outcome
	s.RevealIndex++

	if s.RevealIndex < s.revealEnd() {
		return nil
	}
	if s.Phase == 1 {
		s.Phase2StartingCapital = s.Capital
		s.Phase = 2
		s.Round = RoundsPerPhase + 1
		s.State = StateLoading
		if err := e.LoadPitch(ctx, s); err != nil {
			e.log.Warn("phase 2 pitch pending", "session_id", s.ID, "err", err)
		}
		return nil
	}
	e.finish(ctx, s)
	return nil
}

func (e *Engine) finish(ctx context.Context, s *Session) {
	now := e.now().UTC()
	s.FinalScore = s.Score()
	s.Archetype = Classify(s.Investments, s.FinalScore)
	s.FinishedAt = &now
	s.State = StateFinished
	e.log.Info("game finished", "session_id", s.ID, "score", s.FinalScore, "archetype", s.Archetype)

	if e.results == nil {
		return
	}
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	saved, err := e.results.SaveResult(saveCtx, s.Result())
	if err != nil {
		e.log.Error("save result failed", "session_id", s.ID, "err", err)
		return
	}
	s.ResultID = saved.ID
}

// narrate falls back to the template story only when the narrator fails.
// If ctx ends first nothing is cached and the reveal can be retried.
func (e *Engine) narrate(ctx context.Context, sessionID string, inv Investment) (Story, error) {
	req := requestFor(inv)
	if e.narrator != nil {
		for attempt := 1; attempt <= e.rules.NarrativeAttempts; attempt++ {
			if err := ctx.Err(); err != nil {
				return Story{}, err
			}
			story, err := e.narrator.Narrate(ctx, req)
			if err == nil {
				return e.normalize(story, inv), nil
			}
			if ctx.Err() != nil {
				return Story{}, ctx.Err()
			}
			e.log.Warn("narrative failed", "session_id", sessionID, "round", inv.Round, "attempt", attempt, "err", err)
		}
	}
	return FallbackStory(req, e.rng), nil
}

// normalize pins the numbers a narrator may not override.
func (e *Engine) normalize(story Story, inv Investment) Story {
	exit := ExitValuation(inv.Pitch, inv.IsWin)
	story.ExitValuation = exit
	story.MissedOpportunity = MissedOpportunity(inv.Pitch, inv.Amount, inv.IsWin)
	if len(story.ValuationHistory) < 2 {
		story.ValuationHistory = ValuationHistory(inv.Pitch.Startup.Valuation, exit, inv.IsWin, e.rng)
	}
	if story.Narrative == "" {
		story.Narrative = FallbackStory(requestFor(inv), e.rng).Narrative
	}
	return story
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
