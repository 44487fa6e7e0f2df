package game

import "time"

type State string

const (
	StateLoading   State = "loading"
	StatePlaying   State = "playing"
	StateRevealing State = "revealing"
	StateFinished  State = "finished"
)

// Session is one playthrough. It is not safe for concurrent use; callers
// serialize access per session.
type Session struct {
	ID                    string       `json:"id"`
	State                 State        `json:"state"`
	Capital               int64        `json:"capital"`
	Round                 int          `json:"round"`
	Phase                 int          `json:"phase"`
	Phase2StartingCapital int64        `json:"phase2_starting_capital"`
	Investments           []Investment `json:"investments"`
	CurrentPitch          *Pitch       `json:"current_pitch,omitempty"`
	RevealIndex           int          `json:"reveal_index"`
	EasterEggTriggered    bool         `json:"easter_egg_triggered"`
	Archetype             Archetype    `json:"archetype,omitempty"`
	FinalScore            int64        `json:"final_score"`
	ResultID              int64        `json:"result_id,omitempty"`
	CreatedAt             time.Time    `json:"created_at"`
	FinishedAt            *time.Time   `json:"finished_at,omitempty"`
}

func NewSession(id string, now time.Time) *Session {
	return &Session{
		ID:        id,
		State:     StateLoading,
		Capital:   StartingCapital,
		Round:     1,
		Phase:     1,
		CreatedAt: now.UTC(),
	}
}

// PhaseRoundNumber is the 1-based round within the current phase.
func (s *Session) PhaseRoundNumber() int {
	if s.Phase == 2 {
		return s.Round - RoundsPerPhase
	}
	return s.Round
}

// IsPhaseBoundary reports whether the current round is the last of its phase.
func (s *Session) IsPhaseBoundary() bool {
	return s.PhaseRoundNumber() == RoundsPerPhase
}

func (s *Session) IsForcedPass(rules Rules) bool {
	if s.CurrentPitch == nil {
		return false
	}
	return ComputeLimits(s, *s.CurrentPitch, rules).ForcedPass
}

// Score is the authoritative final score, independent of reveal progress.
func (s *Session) Score() int64 {
	score := StartingCapital
	for _, inv := range s.Investments {
		score += inv.Outcome - inv.Amount
	}
	return score
}

// revealEnd is the exclusive investment index the current reveal runs to.
func (s *Session) revealEnd() int {
	if s.Phase == 1 {
		return RoundsPerPhase
	}
	return TotalRounds
}

func (s *Session) Result() Result {
	details := make([]ResultDetail, 0, len(s.Investments))
	for _, inv := range s.Investments {
		details = append(details, ResultDetail{
			Name:     inv.Pitch.Startup.Name,
			Win:      inv.IsWin,
			Gain:     inv.Outcome,
			Invested: inv.Amount,
		})
	}
	createdAt := s.CreatedAt
	if s.FinishedAt != nil {
		createdAt = *s.FinishedAt
	}
	return Result{
		SessionID: s.ID,
		Score:     s.FinalScore,
		Archetype: s.Archetype,
		Details:   details,
		CreatedAt: createdAt,
	}
}

// Snapshot is a read-only view of a session for display layers.
type Snapshot struct {
	ID                    string       `json:"id"`
	State                 State        `json:"state"`
	Capital               int64        `json:"capital"`
	Round                 int          `json:"round"`
	Phase                 int          `json:"phase"`
	PhaseRound            int          `json:"phase_round"`
	Phase2StartingCapital int64        `json:"phase2_starting_capital,omitempty"`
	Pitch                 *Pitch       `json:"pitch,omitempty"`
	Limits                *Limits      `json:"limits,omitempty"`
	RevealIndex           int          `json:"reveal_index"`
	Investments           []Investment `json:"investments"`
	Archetype             Archetype    `json:"archetype,omitempty"`
	FinalScore            int64        `json:"final_score,omitempty"`
}

func (s *Session) Snapshot(rules Rules) Snapshot {
	out := Snapshot{
		ID:                    s.ID,
		State:                 s.State,
		Capital:               s.Capital,
		Round:                 s.Round,
		Phase:                 s.Phase,
		PhaseRound:            s.PhaseRoundNumber(),
		Phase2StartingCapital: s.Phase2StartingCapital,
		RevealIndex:           s.RevealIndex,
		Investments:           append([]Investment(nil), s.Investments...),
		Archetype:             s.Archetype,
		FinalScore:            s.FinalScore,
	}
	if s.State == StatePlaying && s.CurrentPitch != nil {
		p := *s.CurrentPitch
		limits := ComputeLimits(s, p, rules)
		out.Pitch = &p
		out.Limits = &limits
	}
	return out
}
