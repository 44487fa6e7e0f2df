package pitch

type RiskProfile string

const (
	RiskLow    RiskProfile = "low"
	RiskMedium RiskProfile = "medium"
	RiskHigh   RiskProfile = "high"
)

type band struct {
	lo, hi float64
}

type profileBands struct {
	risk   band
	upside band
}

var bandsByProfile = map[RiskProfile]profileBands{
	RiskLow:    {risk: band{0.15, 0.35}, upside: band{2, 8}},
	RiskMedium: {risk: band{0.35, 0.60}, upside: band{8, 20}},
	RiskHigh:   {risk: band{0.60, 0.85}, upside: band{25, 100}},
}

type phaseBands struct {
	valuation band
	ask       band
	revenue   band
}

var bandsByPhase = map[int]phaseBands{
	1: {valuation: band{150_000, 400_000}, ask: band{30_000, 60_000}, revenue: band{0, 150_000}},
	2: {valuation: band{2_000_000, 15_000_000}, ask: band{100_000, 500_000}, revenue: band{500_000, 5_000_000}},
}

type Idea struct {
	Idea        string
	Description string
	Market      string
	Profile     RiskProfile
}

var ideas = []Idea{
	{"hyperlocal meals", "Ghost kitchen delivering restaurant-quality meals in 15 mins", "Food Tech", RiskMedium},
	{"sleep tech", "AI sleep coach that optimizes your bedroom environment", "Health Tech", RiskLow},
	{"micro-mobility", "Electric scooter sharing with ML-based station placement", "Mobility", RiskMedium},
	{"influencer marketplace", "Automated brand partnerships for micro-influencers", "E-Commerce", RiskMedium},
	{"API analytics", "Real-time monitoring and optimization for API performance", "Enterprise SaaS", RiskLow},
	{"vertical farming automation", "Robotics + AI for indoor crop management at scale", "AgriTech", RiskHigh},
	{"instant checkout", "Cashierless payment for retail using computer vision", "FinTech", RiskHigh},
	{"autonomous delivery", "Sidewalk robots for last-mile food and package delivery", "Logistics", RiskHigh},
	{"precision meditation", "Meditation app using biometric feedback (heart rate, breathing)", "HealthTech", RiskLow},
	{"web3 gaming", "Play-to-earn with real-world tournament prizes in crypto", "Gaming", RiskHigh},
	{"recruiter AI", "AI that finds hidden talent for hard-to-fill tech roles", "Enterprise SaaS", RiskMedium},
	{"sustainable packaging", "Edible, compostable packaging that dissolves in water", "Fashion Tech", RiskHigh},
	{"flying taxi", "Urban air mobility for next-gen commuting", "Mobility", RiskHigh},
	{"carbon credit trading", "Blockchain-based marketplace for verified carbon offsets", "Enterprise SaaS", RiskHigh},
	{"cultured meat", "Lab-grown meat at price parity with conventional beef", "Food Tech", RiskHigh},
}

var founderLocations = []string{
	"San Francisco, CA", "Los Angeles, CA", "New York, NY", "Seattle, WA",
	"Austin, TX", "Denver, CO", "Boston, MA", "Miami, FL",
	"Chicago, IL", "San Diego, CA", "Portland, OR", "Dallas, TX",
}

var convictionByProfile = map[RiskProfile][]string{
	RiskHigh: {
		"Overconfident, buzzword-heavy",
		"Charismatic, light on details",
		"Vision-driven, execution unclear",
		"Confident, avoids hard questions",
		"Aggressive, dismissive of risks",
		"Optimistic, hand-wavy projections",
		"Polished, says all the right things",
		"Big ideas, small evidence",
		"Sounds smart, says little",
		"More pitch than plan",
	},
	RiskMedium: {
		"Measured, cautiously optimistic",
		"Thoughtful, still figuring things out",
		"Understands the problem, unsure on scale",
		"Honest, limited experience",
		"Technical, poor communicator",
		"Energetic, unfocused pitch",
		"Clear product, fuzzy go-to-market",
		"Reasonable assumptions, early days",
		"Smart, but stretching the story",
		"Knows the space, not the path",
	},
	RiskLow: {
		"Calm, data-backed",
		"Grounded, realistic expectations",
		"Understated, quietly confident",
		"Clear strategy, disciplined thinking",
		"Knows the numbers cold",
		"Careful, conservative assumptions",
		"Direct, transparent about risks",
		"Strong fundamentals, no hype",
		"Focused, execution-oriented",
		"Lets the data do the talking",
	},
}

var (
	firstNames = []string{"Maya", "Jordan", "Priya", "Diego", "Hannah", "Kwame", "Lena", "Omar", "Grace", "Mateo", "Aisha", "Ethan"}
	lastNames  = []string{"Nguyen", "Okafor", "Reyes", "Lindqvist", "Patel", "Brooks", "Haddad", "Kim", "Moreno", "Fischer", "Abara", "Walsh"}
	namePrefix = []string{"Nimbus", "Atlas", "Lumen", "Kindred", "Vela", "Orbit", "Juniper", "Pylon", "Cobalt", "Sprout", "Harbor", "Quill", "Tandem", "Beacon", "Ember"}
	nameSuffix = []string{"Labs", "AI", "Works", "HQ", "Stack", "Loop", "Grid", "Co"}

	eliteCredentials = []string{"Stanford CS", "Ex-Google engineer", "YC alum", "MIT Media Lab"}
	plainCredentials = []string{
		"ASU business grad", "Ran a local marketing agency", "Self-taught developer",
		"Freelance product designer", "Community college, then 6 years in ops",
		"Former restaurant manager", "Regional sales lead", "Bootcamp grad",
	}

	bullishNotes = []string{
		"Retention curve flattens nicely after month two",
		"Founder clearly knows the customer",
		"Pricing leaves room to expand margins",
		"Distribution partner could be a real moat",
		"Early revenue is real, not pilots",
	}
	skepticalNotes = []string{
		"CAC math only works if virality holds",
		"Big incumbents could copy this in a quarter",
		"Growth is mostly paid, organic is thin",
		"Regulatory exposure nobody has priced in",
		"Team has never sold to this buyer before",
		"Burn multiple looks ugly for this stage",
	}

	newsTemplates = []string{
		"%s funding up 30%% year over year",
		"Investors pile into %s as valuations reset",
		"%s startups face tougher diligence in 2025",
		"Why %s is the sector to watch this year",
	}
)
