package pitch

import (
	"context"
	"fmt"
	"math"
	"strings"

	"seedround/internal/ai"
	"seedround/internal/game"
)

const pitchSystemPrompt = "You are a creative game engine generating realistic startup pitches. Return ONLY valid JSON. Generate creative, memorable startup names that sound like real companies."

// AISupplier asks an LLM for a pitch seeded from the idea catalogue.
type AISupplier struct {
	provider ai.Provider
	model    string
	rng      game.RandomSource
}

func NewAISupplier(provider ai.Provider, model string, rng game.RandomSource) *AISupplier {
	if rng == nil {
		rng = game.NewRandom(0)
	}
	return &AISupplier{provider: provider, model: model, rng: rng}
}

type wirePitch struct {
	Founder struct {
		Name        string   `json:"name"`
		Country     string   `json:"country"`
		Gender      string   `json:"gender"`
		Conviction  string   `json:"conviction"`
		Credentials []string `json:"credentials"`
	} `json:"founder"`
	Startup struct {
		Name     string `json:"name"`
		Pitch    string `json:"pitch"`
		Market   string `json:"market"`
		Traction struct {
			Users         float64 `json:"users"`
			MonthlyGrowth float64 `json:"monthlyGrowth"`
			Revenue       float64 `json:"revenue"`
		} `json:"traction"`
		Risk      float64 `json:"risk"`
		Upside    float64 `json:"upside"`
		Valuation float64 `json:"valuation"`
	} `json:"startup"`
	Ask             float64  `json:"ask"`
	News            []string `json:"news"`
	WhiteboardNotes []string `json:"whiteboardNotes"`
}

func (s *AISupplier) GeneratePitch(ctx context.Context, phase int) (game.Pitch, error) {
	pb, ok := bandsByPhase[phase]
	if !ok {
		return game.Pitch{}, fmt.Errorf("unknown phase %d", phase)
	}
	idea := pick(s.rng, ideas)
	location := pick(s.rng, founderLocations)
	conviction := pick(s.rng, convictionByProfile[idea.Profile])

	var w wirePitch
	if err := ai.CompleteInto(ctx, s.provider, s.model, pitchSystemPrompt, pitchPrompt(idea, location, conviction, phase, pb), &w); err != nil {
		return game.Pitch{}, fmt.Errorf("ai pitch: %w", err)
	}
	valuation := int64(math.Round(w.Startup.Valuation))
	if float64(valuation) < pb.valuation.lo/2 || float64(valuation) > pb.valuation.hi*2 {
		return game.Pitch{}, fmt.Errorf("%w: valuation %d out of phase %d range", game.ErrInvalidPitch, valuation, phase)
	}

	gender := strings.ToLower(strings.TrimSpace(w.Founder.Gender))
	if gender != "female" {
		gender = "male"
	}
	portraits := "men"
	if gender == "female" {
		portraits = "women"
	}
	p := game.Pitch{
		Founder: game.Founder{
			Name:        w.Founder.Name,
			Photo:       fmt.Sprintf("https://randomuser.me/api/portraits/%s/%d.jpg", portraits, int(s.rng.Float64()*99)),
			Country:     w.Founder.Country,
			Gender:      gender,
			Conviction:  w.Founder.Conviction,
			Credentials: w.Founder.Credentials,
		},
		Startup: game.Startup{
			Name:   w.Startup.Name,
			Pitch:  w.Startup.Pitch,
			Market: w.Startup.Market,
			Traction: game.Traction{
				Users:         int64(math.Round(w.Startup.Traction.Users)),
				MonthlyGrowth: int64(math.Round(w.Startup.Traction.MonthlyGrowth)),
				Revenue:       int64(math.Round(w.Startup.Traction.Revenue)),
			},
			Risk:      w.Startup.Risk,
			Upside:    w.Startup.Upside,
			Valuation: valuation,
		},
		Ask:             int64(math.Round(w.Ask)),
		News:            w.News,
		WhiteboardNotes: w.WhiteboardNotes,
	}
	if p.Startup.Market == "" {
		p.Startup.Market = idea.Market
	}
	return p, p.Validate()
}

func pitchPrompt(idea Idea, location, conviction string, phase int, pb phaseBands) string {
	stage := "Early Stage"
	if phase == 2 {
		stage = "Later Stage"
	}
	rb := bandsByProfile[idea.Profile]
	var b strings.Builder
	fmt.Fprintf(&b, "Generate a realistic startup pitch for an investment game. Create a JSON response ONLY.\n\n")
	fmt.Fprintf(&b, "Startup idea: %q\nDescription: %q\nFounder location: %s\nMarket: %s\nRisk profile: %s\nGame Phase: %d (%s)\n\n",
		idea.Idea, idea.Description, location, idea.Market, idea.Profile, phase, stage)
	fmt.Fprintf(&b, "Return ONLY valid JSON (no markdown) with this shape:\n")
	fmt.Fprintf(&b, `{"founder":{"name":"First Last","country":"United States","gender":"male|female","conviction":%q,"credentials":["line 1","line 2"]},`, conviction)
	fmt.Fprintf(&b, `"startup":{"name":"","pitch":"2-3 sentences","market":%q,"traction":{"users":0,"monthlyGrowth":0,"revenue":0},`, idea.Market)
	fmt.Fprintf(&b, `"risk":%.2f-%.2f,"upside":%.0f-%.0f,"valuation":%.0f-%.0f},"ask":%.0f-%.0f,"news":["",""],"whiteboardNotes":["","",""]}`+"\n\n",
		rb.risk.lo, rb.risk.hi, rb.upside.lo, rb.upside.hi, pb.valuation.lo, pb.valuation.hi, pb.ask.lo, pb.ask.hi)
	fmt.Fprintf(&b, "Rules:\n- Valuation and ask MUST fall in the ranges above.\n- Traction must match risk level and phase.\n")
	fmt.Fprintf(&b, "- Credentials: only 30%% elite, 70%% regional or self-taught.\n- WhiteboardNotes: 3-4 short sentences, at least one skeptical.\n")
	return b.String()
}
