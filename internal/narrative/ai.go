package narrative

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"seedround/internal/ai"
	"seedround/internal/game"
)

const (
	investedSystemPrompt = "You are a startup news generator. Create specific, realistic outcomes and news headlines that sound like real Forbes/TechCrunch articles. Include specific dollar amounts, company names, and details."
	passedSystemPrompt   = "Generate realistic startup outcomes for deals investors passed on. Make success feel like missed opportunity, failure feel like smart pass."
)

var errIncompleteStory = errors.New("story missing narrative")

// AI asks an LLM for narrative and headlines. Numbers are computed
// locally; the model only writes copy.
type AI struct {
	provider ai.Provider
	model    string
	rng      game.RandomSource
}

func NewAI(provider ai.Provider, model string, rng game.RandomSource) *AI {
	if rng == nil {
		rng = game.NewRandom(0)
	}
	return &AI{provider: provider, model: model, rng: rng}
}

type wireStory struct {
	Narrative     string              `json:"narrative"`
	NewsClippings []game.NewsClipping `json:"newsClippings"`
}

func (a *AI) Narrate(ctx context.Context, req game.OutcomeRequest) (game.Story, error) {
	p := req.Pitch
	exit := game.ExitValuation(p, req.IsWin)
	acquirer := pick(a.rng, acquirers)

	system, prompt := investedSystemPrompt, investedPrompt(req, exit, acquirer)
	if !req.Invested {
		system, prompt = passedSystemPrompt, passedPrompt(req, exit, acquirer)
	}
	var w wireStory
	if err := ai.CompleteInto(ctx, a.provider, a.model, system, prompt, &w); err != nil {
		return game.Story{}, fmt.Errorf("ai narrative: %w", err)
	}
	if strings.TrimSpace(w.Narrative) == "" {
		return game.Story{}, errIncompleteStory
	}
	clippings := w.NewsClippings
	if len(clippings) == 0 {
		clippings = news(p.Startup.Name, req.IsWin, acquirer, game.ExitMillions(exit))
	}
	return game.Story{
		Narrative:         strings.TrimSpace(w.Narrative),
		NewsClippings:     clippings,
		ValuationHistory:  game.ValuationHistory(p.Startup.Valuation, exit, req.IsWin, a.rng),
		MissedOpportunity: game.MissedOpportunity(p, req.Amount, req.IsWin),
		ExitValuation:     exit,
	}, nil
}

func riskLabel(risk float64) string {
	switch {
	case risk > 0.6:
		return "HIGH"
	case risk > 0.35:
		return "MEDIUM"
	}
	return "LOW"
}

func investedPrompt(req game.OutcomeRequest, exit int64, acquirer string) string {
	p := req.Pitch
	var b strings.Builder
	fmt.Fprintf(&b, "Generate outcome data for a startup investment. Return ONLY valid JSON.\n\n")
	fmt.Fprintf(&b, "Company: %s (%s)\nRisk Level: %s\n", p.Startup.Name, p.Startup.Market, riskLabel(p.Startup.Risk))
	if req.IsWin {
		fmt.Fprintf(&b, "Outcome: SUCCESS - company succeeded\n")
		fmt.Fprintf(&b, "Investment: %s for %.1f%% equity\n", game.FormatDollars(req.Amount), req.Ownership)
		fmt.Fprintf(&b, "Exit multiple: %.1fx, Final valuation: $%dM, Investor payout: %s\n", p.Startup.Upside, game.ExitMillions(exit), game.FormatDollars(req.Payout))
		fmt.Fprintf(&b, "Acquirer (if acquisition): %s\n", acquirer)
	} else {
		fmt.Fprintf(&b, "Outcome: FAILURE - company failed\n")
		fmt.Fprintf(&b, "Investment: %s for %.1f%% equity\nTotal loss of investment\n", game.FormatDollars(req.Amount), req.Ownership)
	}
	b.WriteString(storyShape)
	return b.String()
}

func passedPrompt(req game.OutcomeRequest, exit int64, acquirer string) string {
	p := req.Pitch
	var b strings.Builder
	fmt.Fprintf(&b, "Generate outcome data for a startup the investor PASSED ON. Return ONLY valid JSON.\n\n")
	fmt.Fprintf(&b, "Company: %s (%s)\n", p.Startup.Name, p.Startup.Market)
	if req.IsWin {
		fmt.Fprintf(&b, "Outcome: SUCCESS - company became huge\nFinal valuation: $%dM, Acquired by %s\n", game.ExitMillions(exit), acquirer)
		fmt.Fprintf(&b, "Missed opportunity: about %s if they had invested\n", game.FormatDollars(game.MissedOpportunity(p, 0, true)))
		b.WriteString("Make the investor feel they missed a huge opportunity.\n")
	} else {
		b.WriteString("Outcome: FAILURE - company shut down\nMake the investor feel smart for passing.\n")
	}
	b.WriteString(storyShape)
	return b.String()
}

const storyShape = `
Return JSON with:
{
  "narrative": "1-2 sentence specific story about what happened.",
  "newsClippings": [
    {"source": "Forbes/TechCrunch/NYT/Bloomberg/WSJ", "headline": "Realistic headline"},
    {"source": "Different source", "headline": "Another realistic headline"},
    {"source": "Different source", "headline": "Third headline"}
  ]
}
`
