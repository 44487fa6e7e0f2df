package game

import (
	"fmt"
	"math"
)

// ValuationHistory synthesizes a six-point trajectory from initial to final.
// Wins climb geometrically with ±10% jitter and land exactly on final.
// Losses rise to a 1.5-3.5x peak at point 2 or 3, then fall to zero.
func ValuationHistory(initial, final int64, isWin bool, rng RandomSource) []int64 {
	if initial <= 0 {
		initial = 100_000
	}
	n := historyPoints - 1
	points := make([]int64, 0, historyPoints)
	points = append(points, initial)

	if isWin {
		if final <= 0 {
			final = initial
		}
		growth := math.Pow(float64(final)/float64(initial), 1/float64(n))
		for i := 1; i <= n; i++ {
			base := float64(initial) * math.Pow(growth, float64(i))
			points = append(points, int64(math.Round(base*(0.9+rng.Float64()*0.2))))
		}
		points[n] = final
		return points
	}

	peakMultiple := 1.5 + rng.Float64()*2
	peakIndex := 2 + int(math.Floor(rng.Float64()*2))
	for i := 1; i <= n; i++ {
		if i <= peakIndex {
			progress := float64(i) / float64(peakIndex)
			points = append(points, int64(math.Round(float64(initial)*(1+(peakMultiple-1)*progress))))
			continue
		}
		decline := float64(i-peakIndex) / float64(n-peakIndex)
		points = append(points, int64(math.Round(float64(initial)*peakMultiple*(1-decline*0.9))))
	}
	points[n] = 0
	return points
}

// FallbackStory is the deterministic story used when no narrator answers.
func FallbackStory(req OutcomeRequest, rng RandomSource) Story {
	p := req.Pitch
	name := p.Startup.Name
	exit := ExitValuation(p, req.IsWin)
	millions := ExitMillions(exit)

	var narrative string
	switch {
	case !req.Invested && req.IsWin:
		narrative = fmt.Sprintf("%s went on to a $%dM exit. You missed this one.", name, millions)
	case !req.Invested:
		narrative = fmt.Sprintf("%s failed to find product-market fit. Smart pass.", name)
	case req.IsWin:
		narrative = fmt.Sprintf("%s exited at $%dM. Your %.1f%% stake paid out.", name, millions, req.Ownership)
	default:
		narrative = fmt.Sprintf("%s ran out of runway. The investment was written off.", name)
	}

	return Story{
		Narrative:         narrative,
		NewsClippings:     fallbackNews(name, req.IsWin, millions),
		ValuationHistory:  ValuationHistory(p.Startup.Valuation, exit, req.IsWin, rng),
		MissedOpportunity: MissedOpportunity(p, req.Amount, req.IsWin),
		ExitValuation:     exit,
		Fallback:          true,
	}
}

func fallbackNews(name string, isWin bool, millions int64) []NewsClipping {
	if isWin {
		return []NewsClipping{
			{Source: "TechCrunch", Headline: fmt.Sprintf("%s exits at $%dM", name, millions)},
			{Source: "Forbes", Headline: fmt.Sprintf("How %s built a $%dM business in just 3 years", name, millions)},
			{Source: "Bloomberg", Headline: fmt.Sprintf("%s deal signals market consolidation", name)},
		}
	}
	return []NewsClipping{
		{Source: "TechCrunch", Headline: fmt.Sprintf("%s shuts down after failing to raise Series B", name)},
		{Source: "The Information", Headline: fmt.Sprintf("Inside the collapse of %s", name)},
		{Source: "Forbes", Headline: fmt.Sprintf("What went wrong at %s? Founders speak out", name)},
	}
}
