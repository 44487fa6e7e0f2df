package game

import (
	"fmt"
	"time"
)

type Founder struct {
	Name        string   `json:"name"`
	Photo       string   `json:"photo,omitempty"`
	Country     string   `json:"country,omitempty"`
	Gender      string   `json:"gender,omitempty"`
	Credentials []string `json:"credentials,omitempty"`
	Conviction  string   `json:"conviction,omitempty"`
}

type Traction struct {
	Users         int64 `json:"users"`
	MonthlyGrowth int64 `json:"monthly_growth"`
	Revenue       int64 `json:"revenue"`
}

type Startup struct {
	Name      string   `json:"name"`
	Pitch     string   `json:"pitch"`
	Market    string   `json:"market"`
	Traction  Traction `json:"traction"`
	Risk      float64  `json:"risk"`
	Upside    float64  `json:"upside"`
	Valuation int64    `json:"valuation"`
}

// Pitch is immutable once issued for a round.
type Pitch struct {
	Founder         Founder  `json:"founder"`
	Startup         Startup  `json:"startup"`
	Ask             int64    `json:"ask"`
	News            []string `json:"news,omitempty"`
	WhiteboardNotes []string `json:"whiteboard_notes,omitempty"`
	OutcomeSummary  string   `json:"outcome_summary,omitempty"`
	IsEasterEgg     bool     `json:"is_easter_egg,omitempty"`
}

func (p Pitch) Validate() error {
	switch {
	case p.Startup.Valuation <= 0:
		return fmt.Errorf("%w: valuation must be > 0", ErrInvalidPitch)
	case p.Ask <= 0:
		return fmt.Errorf("%w: ask must be > 0", ErrInvalidPitch)
	case p.Ask > p.Startup.Valuation:
		return fmt.Errorf("%w: ask %d exceeds valuation %d", ErrInvalidPitch, p.Ask, p.Startup.Valuation)
	case p.Startup.Risk < 0 || p.Startup.Risk > 1:
		return fmt.Errorf("%w: risk %.2f not in [0,1]", ErrInvalidPitch, p.Startup.Risk)
	case p.Startup.Upside <= 0:
		return fmt.Errorf("%w: upside must be > 0", ErrInvalidPitch)
	}
	return nil
}

// EquityOnAsk is the stake the founder is offering for the full ask.
func (p Pitch) EquityOnAsk() float64 {
	return Ownership(p.Ask, p.Startup.Valuation)
}

type NewsClipping struct {
	Source   string `json:"source"`
	Headline string `json:"headline"`
}

// Story is the reveal-time embellishment of a resolved investment.
type Story struct {
	Narrative         string         `json:"narrative"`
	NewsClippings     []NewsClipping `json:"news_clippings"`
	ValuationHistory  []int64        `json:"valuation_history"`
	MissedOpportunity int64          `json:"missed_opportunity"`
	ExitValuation     int64          `json:"exit_valuation"`
	Fallback          bool           `json:"fallback,omitempty"`
}

type Investment struct {
	Round     int     `json:"round"`
	Phase     int     `json:"phase"`
	Pitch     Pitch   `json:"pitch"`
	Amount    int64   `json:"amount"`
	Ownership float64 `json:"ownership"`
	IsWin     bool    `json:"is_win"`
	Outcome   int64   `json:"outcome"`
	Story     *Story  `json:"story,omitempty"`
}

func (i Investment) Passed() bool {
	return i.Amount == 0
}

// OutcomeRequest is what a Narrator receives for one investment.
type OutcomeRequest struct {
	Pitch     Pitch   `json:"pitch"`
	Invested  bool    `json:"invested"`
	Amount    int64   `json:"amount"`
	Ownership float64 `json:"ownership"`
	IsWin     bool    `json:"is_win"`
	Payout    int64   `json:"payout"`
}

func requestFor(inv Investment) OutcomeRequest {
	return OutcomeRequest{
		Pitch:     inv.Pitch,
		Invested:  inv.Amount > 0,
		Amount:    inv.Amount,
		Ownership: inv.Ownership,
		IsWin:     inv.IsWin,
		Payout:    inv.Outcome,
	}
}

type ResultDetail struct {
	Name     string `json:"name"`
	Win      bool   `json:"win"`
	Gain     int64  `json:"gain"`
	Invested int64  `json:"invested"`
}

type Result struct {
	SessionID string         `json:"session_id"`
	Score     int64          `json:"score"`
	Archetype Archetype      `json:"archetype"`
	Details   []ResultDetail `json:"details"`
	CreatedAt time.Time      `json:"created_at"`
}

type PersistedResult struct {
	ID int64 `json:"id"`
	Result
}

type LeaderboardRow struct {
	Rank      int64     `json:"rank"`
	Score     int64     `json:"score"`
	Archetype Archetype `json:"archetype"`
	CreatedAt time.Time `json:"created_at"`
}
