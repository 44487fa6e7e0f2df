package narrative

import (
	"context"
	"fmt"
	"strings"

	"seedround/internal/game"
)

var successOutcomes = []string{
	"Acquired by {acquirer} for ${amount}M after explosive growth.",
	"IPO'd at ${amount}M valuation. Early investors made {multiple}x.",
	"Strategic acquisition by {acquirer}. Clean exit.",
	"Series C at ${amount}M valuation. Your stake worth {payout}.",
	"Profitable and growing. Secondary sale at {multiple}x your investment.",
	"Market leader in {market}. Acquired for ${amount}M.",
	"Unicorn status achieved. Your {equity}% now worth {payout}.",
	"Sold to private equity for ${amount}M. Solid return.",
	"Merger with competitor created market giant. {multiple}x exit.",
	"Global expansion succeeded. Acquired by {acquirer} for ${amount}M.",
}

var failureOutcomes = []string{
	"Ran out of runway after Series A. Assets liquidated.",
	"Regulatory changes killed the business model.",
	"Key competitor launched first. Lost market window.",
	"Co-founder conflict led to company dissolution.",
	"Customer acquisition costs never came down. Shut down.",
	"Pivoted twice, burned through cash. Acqui-hired for talent only.",
	"Market timing was wrong. Idea ahead of its time.",
	"Unit economics never worked. Investors wrote it off.",
	"Failed to raise Series B. Wound down operations.",
	"Supply chain issues proved insurmountable. Closed.",
	"Viral growth but zero retention. Users churned out.",
	"Tech worked, but couldn't find product-market fit.",
	"Founder burnout led to shutdown despite traction.",
	"Down-round wiped out early investors. Zombie company.",
}

var acquirers = []string{"Google", "Amazon", "Microsoft", "Meta", "Apple", "Salesforce", "Shopify", "Uber", "DoorDash", "Stripe", "Block", "Airbnb"}

var easterEggNarratives = []string{
	"Lumora became a staple for people who took sleep seriously, turning nightly routines into a premium habit.",
	"What started as a sleep mask evolved into a daily ritual, with retention driven by comfort and habit, not hype.",
	"Lumora's blend of hardware and wellness features resonated with users looking for better sleep without pills or gimmicks.",
	"Lumora's loyal user base and proprietary sleep tech made it an attractive acquisition in the premium wellness space.",
}

// Scripted supplies hand-written stories for known startups.
type Scripted interface {
	Story(name string, isWin bool) (game.Story, bool)
}

// Local builds stories from templates. It never fails.
type Local struct {
	rng     game.RandomSource
	scripts Scripted
}

func NewLocal(rng game.RandomSource, scripts Scripted) *Local {
	if rng == nil {
		rng = game.NewRandom(0)
	}
	return &Local{rng: rng, scripts: scripts}
}

func (l *Local) Narrate(ctx context.Context, req game.OutcomeRequest) (game.Story, error) {
	if err := ctx.Err(); err != nil {
		return game.Story{}, err
	}
	p := req.Pitch
	exit := game.ExitValuation(p, req.IsWin)
	story := game.Story{
		ExitValuation:     exit,
		MissedOpportunity: game.MissedOpportunity(p, req.Amount, req.IsWin),
		ValuationHistory:  game.ValuationHistory(p.Startup.Valuation, exit, req.IsWin, l.rng),
	}

	if l.scripts != nil {
		if scripted, ok := l.scripts.Story(p.Startup.Name, req.IsWin); ok {
			story.Narrative = scripted.Narrative
			story.NewsClippings = scripted.NewsClippings
			if len(scripted.ValuationHistory) > 1 {
				story.ValuationHistory = scripted.ValuationHistory
			}
			return story, nil
		}
	}

	if p.IsEasterEgg && req.IsWin {
		story.Narrative = pick(l.rng, easterEggNarratives)
		story.NewsClippings = []game.NewsClipping{
			{Source: "TechCrunch", Headline: p.Startup.Name + " raises Series A to expand luxury sleep mask line"},
			{Source: "Forbes", Headline: fmt.Sprintf("How %s turned better sleep into a $%dM exit", p.Startup.Name, game.ExitMillions(exit))},
			{Source: "Fast Company", Headline: "The sleep tech startup that grew through habit, not hype"},
		}
		return story, nil
	}

	acquirer := pick(l.rng, acquirers)
	millions := game.ExitMillions(exit)
	story.NewsClippings = news(p.Startup.Name, req.IsWin, acquirer, millions)

	switch {
	case !req.Invested && req.IsWin:
		story.Narrative = fmt.Sprintf("%s went on to a $%dM exit. You missed this one.", p.Startup.Name, millions)
	case !req.Invested:
		story.Narrative = fmt.Sprintf("%s failed to find product-market fit. Smart pass.", p.Startup.Name)
	case req.IsWin:
		story.Narrative = fill(pick(l.rng, successOutcomes), map[string]string{
			"{acquirer}": acquirer,
			"{amount}":   fmt.Sprint(millions),
			"{multiple}": fmt.Sprintf("%.0f", p.Startup.Upside),
			"{payout}":   game.FormatDollars(req.Payout),
			"{equity}":   fmt.Sprintf("%.1f", req.Ownership),
			"{market}":   p.Startup.Market,
		})
	default:
		story.Narrative = pick(l.rng, failureOutcomes)
	}
	return story, nil
}

func news(name string, isWin bool, acquirer string, millions int64) []game.NewsClipping {
	if isWin {
		return []game.NewsClipping{
			{Source: "TechCrunch", Headline: fmt.Sprintf("%s acquired by %s for $%dM", name, acquirer, millions)},
			{Source: "Forbes", Headline: fmt.Sprintf("How %s built a $%dM business in just 3 years", name, millions)},
			{Source: "Bloomberg", Headline: fmt.Sprintf("%s's %s deal signals market consolidation", acquirer, name)},
		}
	}
	return []game.NewsClipping{
		{Source: "TechCrunch", Headline: fmt.Sprintf("%s shuts down after failing to raise Series B", name)},
		{Source: "The Information", Headline: fmt.Sprintf("Inside the collapse of %s", name)},
		{Source: "Forbes", Headline: fmt.Sprintf("What went wrong at %s? Founders speak out", name)},
	}
}

func fill(template string, values map[string]string) string {
	for k, v := range values {
		template = strings.ReplaceAll(template, k, v)
	}
	return template
}

func pick[T any](rng game.RandomSource, items []T) T {
	i := int(rng.Float64() * float64(len(items)))
	if i >= len(items) {
		i = len(items) - 1
	}
	return items[i]
}
