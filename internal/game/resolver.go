package game

import (
	"math"
	mathrand "math/rand"
	"sync"
	"time"
)

// RandomSource yields uniform draws in [0,1).
type RandomSource interface {
	Float64() float64
}

type lockedRand struct {
	mu   sync.Mutex
	rand *mathrand.Rand
}

// NewRandom returns a RandomSource safe for concurrent use. A zero seed
// seeds from the clock.
func NewRandom(seed int64) RandomSource {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &lockedRand{rand: mathrand.New(mathrand.NewSource(seed))}
}

func (r *lockedRand) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

type Resolution struct {
	IsWin   bool
	Outcome int64
}

// Resolve fixes win/loss and payout for a decision. The draw is taken for
// passes too so a missed opportunity can be shown later.
func Resolve(p Pitch, amount int64, rng RandomSource) Resolution {
	isWin := rng.Float64() > p.Startup.Risk
	var outcome int64
	if isWin && amount > 0 {
		outcome = int64(math.Round(float64(amount) * p.Startup.Upside))
	}
	return Resolution{IsWin: isWin, Outcome: outcome}
}

// MissedOpportunity is the payout the full ask would have earned on a
// passed deal that won.
func MissedOpportunity(p Pitch, amount int64, isWin bool) int64 {
	if amount > 0 || !isWin {
		return 0
	}
	ask := p.Ask
	if ask <= 0 {
		ask = int64(math.Round(float64(p.Startup.Valuation) * 0.15))
	}
	return int64(math.Round(float64(ask) * p.Startup.Upside))
}

func ExitValuation(p Pitch, isWin bool) int64 {
	if !isWin {
		return 0
	}
	return int64(math.Round(float64(p.Startup.Valuation) * p.Startup.Upside))
}

// ExitMillions is the exit valuation in whole millions, at least 1.
func ExitMillions(exitValuation int64) int64 {
	return max(1, int64(math.Round(float64(exitValuation)/1_000_000)))
}
