package game

import "fmt"

// Limits is the legal investment range for one pitch. A pass (amount 0)
// is always legal and is not bounded by Min.
type Limits struct {
	Min        int64 `json:"min"`
	Max        int64 `json:"max"`
	ForcedPass bool  `json:"forced_pass"`
}

// ComputeLimits derives the investment range for the session's current
// round. Phase 1 clamps the minimum down to what is affordable and askable
// so it never forces a pass. Phase 2 minimums are never clamped.
func ComputeLimits(s *Session, p Pitch, rules Rules) Limits {
	rules = rules.withDefaults()
	ceiling := p.Ask
	if rules.MaxTicket > 0 && rules.MaxTicket < ceiling {
		ceiling = rules.MaxTicket
	}

	if s.Phase == 1 {
		minimum := EarlyMinimum
		if s.Round <= 2 {
			minimum = OpeningMinimum
		}
		maximum := min(s.Capital, ceiling)
		if maximum < 0 {
			maximum = 0
		}
		if minimum > maximum {
			minimum = maximum
		}
		return Limits{Min: minimum, Max: maximum}
	}

	r := s.PhaseRoundNumber()
	if r < 1 || r > RoundsPerPhase {
		return Limits{ForcedPass: true}
	}
	minimum := basisPoints(s.Phase2StartingCapital, rules.Phase2MinimumBps[r-1])
	if s.Capital < minimum {
		return Limits{Min: minimum, Max: s.Capital, ForcedPass: true}
	}
	// The ask is a soft cap in phase 2: it never pushes the ceiling under
	// the round minimum.
	return Limits{Min: minimum, Max: min(s.Capital, max(ceiling, minimum))}
}

func (l Limits) CanInvest() bool {
	return !l.ForcedPass && l.Max > 0 && l.Min <= l.Max
}

func (l Limits) Allows(amount int64) bool {
	if amount == 0 {
		return true
	}
	if amount < 0 || !l.CanInvest() {
		return false
	}
	return amount >= l.Min && amount <= l.Max
}

// Check explains why amount is not legal, or returns nil.
func (l Limits) Check(amount int64) error {
	switch {
	case amount == 0:
		return nil
	case amount > 0 && l.ForcedPass:
		return ErrForcedPass
	case !l.Allows(amount):
		return fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidAmount, amount, l.Min, l.Max)
	}
	return nil
}
