package game

import (
	"errors"
	"math"
	"time"
)

const (
	StartingCapital = int64(100_000)

	RoundsPerPhase = 5
	TotalRounds    = 2 * RoundsPerPhase

	// Phase 1 minimums. Rounds 1-2 use the opening minimum.
	OpeningMinimum = int64(30_000)
	EarlyMinimum   = int64(20_000)

	OwnershipCapPct = 49.0

	historyPoints = 6
)

// Phase 2 minimums in basis points of the capital the phase started with.
// They sum to 12000, so funding every minimum from one pool is impossible.
var DefaultPhase2MinimumBps = [RoundsPerPhase]int64{2800, 2600, 2400, 2200, 2000}

var (
	ErrInvalidState  = errors.New("action not allowed in current game state")
	ErrInvalidAmount = errors.New("investment amount outside allowed range")
	ErrForcedPass    = errors.New("capital below round minimum: only a pass is allowed")
	ErrInvalidPitch  = errors.New("pitch violates supplier contract")
	ErrNoPitch       = errors.New("no pitch available for this round")
	ErrNoPitchSource = errors.New("no pitch supplier configured")
)

// Rules holds the tunable balance constants of a playthrough.
type Rules struct {
	Phase2MinimumBps [RoundsPerPhase]int64
	// MaxTicket is a hard ceiling on a single investment. Zero disables it.
	MaxTicket         int64
	RetryDelay        time.Duration
	EasterEggChance   float64
	NarrativeAttempts int
}

func DefaultRules() Rules {
	return Rules{
		Phase2MinimumBps:  DefaultPhase2MinimumBps,
		RetryDelay:        time.Second,
		EasterEggChance:   0.05,
		NarrativeAttempts: 2,
	}
}

func (r Rules) withDefaults() Rules {
	var zero [RoundsPerPhase]int64
	if r.Phase2MinimumBps == zero {
		r.Phase2MinimumBps = DefaultPhase2MinimumBps
	}
	if r.RetryDelay <= 0 {
		r.RetryDelay = time.Second
	}
	if r.NarrativeAttempts <= 0 {
		r.NarrativeAttempts = 2
	}
	if r.EasterEggChance < 0 {
		r.EasterEggChance = 0
	}
	return r
}

// Ownership is the equity percentage bought by amount, never above 49%.
func Ownership(amount, valuation int64) float64 {
	if amount <= 0 || valuation <= 0 {
		return 0
	}
	pct := float64(amount) / float64(valuation) * 100
	return math.Min(pct, OwnershipCapPct)
}

func basisPoints(v, bps int64) int64 {
	return int64(math.Round(float64(v) * float64(bps) / 10_000))
}
