package game

type Archetype string

const (
	ArchetypeMogul        Archetype = "The Mogul"
	ArchetypeVisionary    Archetype = "The Visionary"
	ArchetypeShark        Archetype = "The Shark"
	ArchetypeGoldenTouch  Archetype = "The Golden Touch"
	ArchetypeOptimist     Archetype = "The Optimist"
	ArchetypeConcentrated Archetype = "The Concentrated Player"
	ArchetypeDiversifier  Archetype = "The Diversifier"
	ArchetypeCautious     Archetype = "The Cautious Investor"
	ArchetypeLearning     Archetype = "The Learning Investor"
	ArchetypeAngel        Archetype = "The Angel Investor"
)

type PortfolioStats struct {
	Wins         int     `json:"wins"`
	Losses       int     `json:"losses"`
	Invested     int     `json:"invested"`
	AvgOwnership float64 `json:"avg_ownership"`
	WinRate      float64 `json:"win_rate"`
}

// Stats summarizes a portfolio. Wins count every winning pitch, passes
// included; the win rate divides by funded deals only.
func Stats(investments []Investment) PortfolioStats {
	var st PortfolioStats
	var ownership float64
	for _, inv := range investments {
		if inv.IsWin {
			st.Wins++
		}
		if inv.Amount > 0 {
			st.Invested++
			if !inv.IsWin {
				st.Losses++
			}
		}
		ownership += inv.Ownership
	}
	if len(investments) > 0 {
		st.AvgOwnership = ownership / float64(len(investments))
	}
	if st.Invested > 0 {
		st.WinRate = float64(st.Wins) / float64(st.Invested) * 100
	}
	return st
}

// Classify maps a finished portfolio to an archetype. Rules overlap, so
// the order below is the tie-break. Ownership rules need at least one
// funded deal: an all-pass portfolio has no ownership profile.
func Classify(investments []Investment, finalScore int64) Archetype {
	st := Stats(investments)
	funded := st.Invested > 0
	switch {
	case finalScore > 1_000_000:
		return ArchetypeMogul
	case finalScore > 500_000:
		return ArchetypeVisionary
	case finalScore > 300_000 && st.AvgOwnership > 15:
		return ArchetypeShark
	case st.WinRate > 60 && st.Wins >= 4:
		return ArchetypeGoldenTouch
	case st.WinRate > 50 && finalScore > 150_000:
		return ArchetypeOptimist
	case funded && st.AvgOwnership > 12 && st.Losses <= 3:
		return ArchetypeConcentrated
	case funded && st.AvgOwnership < 8 && st.Losses <= 2:
		return ArchetypeDiversifier
	case finalScore > 120_000 && st.Losses <= 2:
		return ArchetypeCautious
	case finalScore < 50_000:
		return ArchetypeLearning
	default:
		return ArchetypeAngel
	}
}

type ArchetypeProfile struct {
	Description string `json:"description"`
	Reflection  string `json:"reflection"`
}

var archetypeProfiles = map[Archetype]ArchetypeProfile{
	ArchetypeMogul:        {"High conviction, concentrated bets.", "A few big decisions made all the difference."},
	ArchetypeVisionary:    {"Strong portfolio, smart timing.", "You concentrated capital early and stayed patient."},
	ArchetypeShark:        {"Aggressive but calculated.", "You leaned into risk when others wouldn't."},
	ArchetypeGoldenTouch:  {"Exceptional winner-picking.", "Most of your bets paid off. That's rare."},
	ArchetypeDiversifier:  {"Balanced, risk-managed portfolio.", "Steady spreading across opportunities. Smart."},
	ArchetypeConcentrated: {"High conviction, all-in approach.", "You bet big on select opportunities."},
	ArchetypeAngel:        {"Balanced approach across deals.", "Spread risk across diverse opportunities."},
	ArchetypeOptimist:     {"Mostly winners.", "You spotted potential before others did."},
	ArchetypeCautious:     {"Conservative, measured bets.", "Not all wins, but stable returns."},
	ArchetypeLearning:     {"Early stage lessons.", "The startup world is tougher than it looks. That's how you learn."},
}

func (a Archetype) Profile() ArchetypeProfile {
	if p, ok := archetypeProfiles[a]; ok {
		return p
	}
	return archetypeProfiles[ArchetypeAngel]
}
