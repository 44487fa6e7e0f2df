package pitch

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"seedround/internal/game"
)

type demoEntry struct {
	name, tagline, industry, stage, traction string
	ask, valuation                           int64
	founder, background, pitch               string
	conviction                               string
	success                                  bool
	multiplier                               float64
	narrative                                string
	news                                     []game.NewsClipping
	history                                  []int64
}

// Demo pitches carry scripted stories. Risk leans toward the scripted
// outcome and losers use their peak valuation ratio as upside.
var earlyDeck = []demoEntry{
	{
		name: "Petwise", tagline: "AI-powered pet health monitoring", industry: "Pet Tech", stage: "Pre-seed",
		traction: "2,400 beta users, 78% weekly retention", ask: 35_000, valuation: 150_000,
		founder: "Sarah Chen", background: "Former veterinarian, 8 years clinical experience",
		pitch:      "Every pet owner worries about their furry friend's health. Petwise uses computer vision to detect early signs of illness through daily photo check-ins.",
		conviction: "high", success: true, multiplier: 8.5,
		narrative: "Petwise caught the attention of pet insurance companies looking to reduce claims through early detection. After Series A, they partnered with three major insurers and expanded to cats.",
		news: []game.NewsClipping{
			{Source: "TechCrunch", Headline: "Petwise raises $12M Series A to expand AI pet diagnostics"},
			{Source: "VentureBeat", Headline: "How one startup is changing preventive pet care"},
		},
		history: []int64{150_000, 800_000, 4_200_000},
	},
	{
		name: "CarbonTrace", tagline: "Supply chain emissions tracking", industry: "Climate Tech", stage: "Seed",
		traction: "3 enterprise pilots, $180K ARR", ask: 40_000, valuation: 280_000,
		founder: "Marcus Webb", background: "Ex-McKinsey sustainability practice, MIT MBA",
		pitch:      "Companies are under pressure to report Scope 3 emissions but have no way to track them. We integrate with ERP systems to automatically calculate supply chain carbon footprint.",
		conviction: "medium", success: false,
		narrative: "Despite strong early interest, CarbonTrace struggled with enterprise sales cycles. When EU regulations were delayed, their runway ran out before they could close enough contracts.",
		news: []game.NewsClipping{
			{Source: "CleanTech", Headline: "Carbon accounting startup CarbonTrace shuts down amid funding crunch"},
		},
		history: []int64{280_000, 420_000, 0},
	},
	{
		name: "Moodly", tagline: "Emotion tracking for remote teams", industry: "HR Tech", stage: "Pre-seed",
		traction: "800 daily active users across 12 companies", ask: 30_000, valuation: 120_000,
		founder: "Priya Patel", background: "Psychologist turned product manager at Slack",
		pitch:      "Remote work made it harder to read the room. Moodly gives managers a daily pulse on team sentiment without intrusive surveys.",
		conviction: "low", success: true, multiplier: 3.2,
		narrative: "Moodly found its niche with mid-size remote-first companies. They were acquired by a larger HR platform looking to add engagement features to their suite.",
		news: []game.NewsClipping{
			{Source: "HR Dive", Headline: "Culture Amp acquires Moodly to bolster engagement toolkit"},
		},
		history: []int64{120_000, 280_000, 380_000},
	},
	{
		name: "FreshRoute", tagline: "Last-mile grocery optimization", industry: "Logistics", stage: "Seed",
		traction: "$45K MRR, 8 grocery chains on platform", ask: 35_000, valuation: 200_000,
		founder: "David Kim", background: "10 years at Amazon logistics, built their fresh delivery routing",
		pitch:      "Grocery delivery has a spoilage problem. Our routing algorithm prioritizes temperature-sensitive items and reduces waste by 23%.",
		conviction: "high", success: false,
		narrative: "FreshRoute gained traction but couldn't compete when major delivery platforms built similar features in-house. Their grocery partners consolidated to larger providers.",
		news: []game.NewsClipping{
			{Source: "Grocery Dive", Headline: "Small grocery tech players struggle as giants build in-house"},
		},
		history: []int64{200_000, 350_000, 0},
	},
	{
		name: "TinyLegal", tagline: "AI contract review for small businesses", industry: "Legal Tech", stage: "Pre-seed",
		traction: "1,200 contracts reviewed, 4.8 star rating", ask: 30_000, valuation: 180_000,
		founder: "Jennifer Walsh", background: "Former small business attorney, frustrated by access gap",
		pitch:      "Small businesses sign contracts they don't understand because lawyers are too expensive. TinyLegal flags risky clauses and explains terms in plain English.",
		conviction: "medium", success: true, multiplier: 15.4,
		narrative: "TinyLegal rode the AI wave perfectly. As models improved, their product got dramatically better. They expanded to lease reviews and became the default tool for solo entrepreneurs.",
		news: []game.NewsClipping{
			{Source: "Forbes", Headline: "This AI startup is democratizing legal review for small business"},
			{Source: "TechCrunch", Headline: "TinyLegal hits $5M ARR with AI-powered contract analysis"},
		},
		history: []int64{180_000, 1_200_000, 12_500_000},
	},
}

var laterDeck = []demoEntry{
	{
		name: "Stellarize", tagline: "Developer productivity analytics", industry: "DevTools", stage: "Series A",
		traction: "$2.1M ARR, 340 enterprise customers", ask: 180_000, valuation: 8_500_000,
		founder: "Alex Torres", background: "Staff engineer at Google, built internal dev metrics",
		pitch:      "Engineering managers fly blind. Stellarize analyzes git, Jira and Slack to surface actionable insights without surveillance vibes.",
		conviction: "high", success: true, multiplier: 4.8,
		narrative: "The developer productivity space heated up. Stellarize's privacy-first approach resonated with engineering leaders, and they were acquired by GitLab to enhance their platform analytics.",
		news: []game.NewsClipping{
			{Source: "The Information", Headline: "GitLab acquires Stellarize for $185M"},
			{Source: "VentureBeat", Headline: "Developer analytics consolidation continues with GitLab-Stellarize deal"},
		},
		history: []int64{8_500_000, 22_000_000, 42_000_000},
	},
	{
		name: "HomeChef AI", tagline: "Personalized meal planning with smart pantry", industry: "Consumer App", stage: "Series A",
		traction: "890K downloads, 12% paid conversion", ask: 150_000, valuation: 6_200_000,
		founder: "Maria Santos", background: "Former Blue Apron head of product",
		pitch:      "Meal planning apps fail because they ignore what's already in your fridge. HomeChef AI scans your pantry, learns your taste, and generates recipes that minimize waste.",
		conviction: "medium", success: false,
		narrative: "Consumer app economics proved brutal. Despite good retention, customer acquisition costs kept rising. When their Series B fell through, they couldn't sustain marketing spend.",
		news: []game.NewsClipping{
			{Source: "TechCrunch", Headline: "HomeChef AI joins list of consumer app casualties in funding winter"},
		},
		history: []int64{6_200_000, 8_100_000, 0},
	},
	{
		name: "Quantum Shield", tagline: "Post-quantum encryption for enterprises", industry: "Cybersecurity", stage: "Series A",
		traction: "$3.8M ARR, DOD pilot contract", ask: 220_000, valuation: 12_000_000,
		founder: "Dr. Nathan Park", background: "PhD quantum computing Stanford, NSA contractor",
		pitch:      "Quantum computers will break current encryption within 10 years. We're the only solution with a DOD pilot and we're 3x faster than competitors.",
		conviction: "high", success: true, multiplier: 7.2,
		narrative: "When major breaches made quantum threats feel real, Quantum Shield's early positioning paid off. They became the standard for government contractors and expanded into financial services.",
		news: []game.NewsClipping{
			{Source: "WSJ", Headline: "Pentagon mandates quantum-safe encryption for contractors"},
			{Source: "Wired", Headline: "The race to quantum-proof the internet is accelerating"},
		},
		history: []int64{12_000_000, 45_000_000, 95_000_000},
	},
	{
		name: "Verdant", tagline: "Indoor farming automation", industry: "AgTech", stage: "Series A",
		traction: "14 facilities using platform, $1.9M ARR", ask: 200_000, valuation: 9_800_000,
		founder: "James Liu", background: "Founder sold previous AgTech startup to John Deere",
		pitch:      "Indoor farms are the future but they're too expensive to operate. Our AI optimizes lighting, nutrients and harvest timing to cut operating costs 40%.",
		conviction: "medium", success: true, multiplier: 2.1,
		narrative: "Verdant grew steadily but the indoor farming market consolidated. They merged with a larger competitor rather than risk a down round, giving investors a modest return.",
		news: []game.NewsClipping{
			{Source: "AgFunder", Headline: "Verdant merges with AppHarvest in indoor farming consolidation"},
		},
		history: []int64{9_800_000, 14_500_000, 18_200_000},
	},
	{
		name: "Lexicon", tagline: "Real-time language translation for video calls", industry: "Enterprise SaaS", stage: "Series A",
		traction: "$4.2M ARR, Zoom partnership announced", ask: 250_000, valuation: 15_000_000,
		founder: "Yuki Tanaka", background: "Led Google Translate ML team for 6 years",
		pitch:      "Global teams waste hours on language barriers. Lexicon provides real-time dubbing for video calls with lip sync.",
		conviction: "high", success: true, multiplier: 12.5,
		narrative: "The Zoom partnership unlocked massive distribution. Lexicon became the default translation layer for enterprise video, and they IPO'd as part of the AI infrastructure boom.",
		news: []game.NewsClipping{
			{Source: "Bloomberg", Headline: "Lexicon IPO prices above range as AI translation demand surges"},
			{Source: "Fortune", Headline: "How Lexicon became the Babel fish for business"},
		},
		history: []int64{15_000_000, 85_000_000, 380_000_000},
	},
}

func (d demoEntry) toPitch() game.Pitch {
	risk, upside := 0.25, d.multiplier
	if !d.success {
		risk = 0.7
		upside = float64(d.history[1]) / float64(d.history[0])
	}
	return game.Pitch{
		Founder: game.Founder{
			Name:        d.founder,
			Country:     "United States",
			Conviction:  d.conviction + " conviction",
			Credentials: []string{d.background},
		},
		Startup: game.Startup{
			Name:      d.name,
			Pitch:     d.pitch,
			Market:    d.industry,
			Risk:      risk,
			Upside:    upside,
			Valuation: d.valuation,
		},
		Ask:             d.ask,
		OutcomeSummary:  d.tagline,
		WhiteboardNotes: []string{d.stage + ": " + d.traction},
	}
}

// Deck serves the fixed demo pitches in order, five per phase, cycling.
type Deck struct {
	mu   sync.Mutex
	next map[int]int
}

func NewDeck() *Deck {
	return &Deck{next: map[int]int{}}
}

func (d *Deck) GeneratePitch(ctx context.Context, phase int) (game.Pitch, error) {
	if err := ctx.Err(); err != nil {
		return game.Pitch{}, err
	}
	entries, err := deckFor(phase)
	if err != nil {
		return game.Pitch{}, err
	}
	d.mu.Lock()
	i := d.next[phase]
	d.next[phase] = (i + 1) % len(entries)
	d.mu.Unlock()
	return entries[i].toPitch(), nil
}

// Story returns the scripted story for a demo startup when the resolved
// outcome agrees with the script.
func (d *Deck) Story(name string, isWin bool) (game.Story, bool) {
	for _, set := range [][]demoEntry{earlyDeck, laterDeck} {
		for _, e := range set {
			if !strings.EqualFold(e.name, name) || e.success != isWin {
				continue
			}
			return game.Story{
				Narrative:        e.narrative,
				NewsClippings:    append([]game.NewsClipping(nil), e.news...),
				ValuationHistory: append([]int64(nil), e.history...),
			}, true
		}
	}
	return game.Story{}, false
}

func deckFor(phase int) ([]demoEntry, error) {
	switch phase {
	case 1:
		return earlyDeck, nil
	case 2:
		return laterDeck, nil
	default:
		return nil, fmt.Errorf("unknown phase %d", phase)
	}
}
