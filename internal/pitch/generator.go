package pitch

import (
	"context"
	"fmt"
	"math"

	"seedround/internal/game"
)

// Generator builds pitches locally from the idea catalogue. It never fails.
type Generator struct {
	rng game.RandomSource
}

func NewGenerator(rng game.RandomSource) *Generator {
	if rng == nil {
		rng = game.NewRandom(0)
	}
	return &Generator{rng: rng}
}

func (g *Generator) GeneratePitch(ctx context.Context, phase int) (game.Pitch, error) {
	if err := ctx.Err(); err != nil {
		return game.Pitch{}, err
	}
	pb, ok := bandsByPhase[phase]
	if !ok {
		return game.Pitch{}, fmt.Errorf("unknown phase %d", phase)
	}
	idea := pick(g.rng, ideas)
	rb := bandsByProfile[idea.Profile]

	risk := roundTo(g.draw(rb.risk), 2)
	upside := roundTo(g.draw(rb.upside), 1)
	valuation := roundStep(g.draw(pb.valuation), valuationStep(phase))
	ask := roundStep(g.draw(pb.ask), 1_000)
	if ask > valuation {
		ask = valuation
	}

	return game.Pitch{
		Founder: game.Founder{
			Name:        pick(g.rng, firstNames) + " " + pick(g.rng, lastNames),
			Country:     "United States",
			Gender:      pick(g.rng, []string{"male", "female"}),
			Conviction:  pick(g.rng, convictionByProfile[idea.Profile]),
			Credentials: g.credentials(pick(g.rng, founderLocations)),
		},
		Startup: game.Startup{
			Name:      pick(g.rng, namePrefix) + " " + pick(g.rng, nameSuffix),
			Pitch:     fmt.Sprintf("%s. Built for a %s market that is still underserved.", idea.Description, idea.Market),
			Market:    idea.Market,
			Traction:  g.traction(idea.Profile, phase, risk, pb.revenue),
			Risk:      risk,
			Upside:    upside,
			Valuation: valuation,
		},
		Ask:             ask,
		News:            g.news(idea.Market),
		WhiteboardNotes: g.notes(idea.Profile),
	}, nil
}

func (g *Generator) draw(b band) float64 {
	return b.lo + g.rng.Float64()*(b.hi-b.lo)
}

// credentials follow a 30/70 split between elite and regional backgrounds.
func (g *Generator) credentials(location string) []string {
	first := pick(g.rng, plainCredentials)
	if g.rng.Float64() < 0.3 {
		first = pick(g.rng, eliteCredentials)
	}
	return []string{first, "Based in " + location}
}

func (g *Generator) traction(profile RiskProfile, phase int, risk float64, revenue band) game.Traction {
	users := band{10_000, 50_000}
	switch profile {
	case RiskMedium:
		users = band{50_000, 200_000}
	case RiskHigh:
		users = band{1_000, 100_000}
	}
	count := g.draw(users)
	if phase == 2 {
		count *= g.draw(band{10, 50})
	}
	return game.Traction{
		Users:         int64(math.Round(count)),
		MonthlyGrowth: int64(math.Round(2 + g.rng.Float64()*(10+48*risk))),
		Revenue:       roundStep(g.draw(revenue), 1_000),
	}
}

func (g *Generator) news(market string) []string {
	out := make([]string, 0, 2)
	start := int(g.rng.Float64() * float64(len(newsTemplates)))
	for i := 0; i < 2; i++ {
		out = append(out, fmt.Sprintf(newsTemplates[(start+i)%len(newsTemplates)], market))
	}
	return out
}

// notes always include a skeptical line; riskier deals get two.
func (g *Generator) notes(profile RiskProfile) []string {
	out := []string{pick(g.rng, bullishNotes), pick(g.rng, skepticalNotes)}
	if profile == RiskHigh {
		out = append(out, pick(g.rng, skepticalNotes))
	} else {
		out = append(out, pick(g.rng, bullishNotes))
	}
	return out
}

func valuationStep(phase int) int64 {
	if phase == 2 {
		return 100_000
	}
	return 5_000
}

func pick[T any](rng game.RandomSource, items []T) T {
	i := int(rng.Float64() * float64(len(items)))
	if i >= len(items) {
		i = len(items) - 1
	}
	return items[i]
}

func roundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}

func roundStep(v float64, step int64) int64 {
	return int64(math.Round(v/float64(step))) * step
}
