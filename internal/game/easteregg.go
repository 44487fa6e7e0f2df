package game

import "math"

const EasterEggStartup = "Lumora Sleep"

// EasterEggPitch is the hidden phase 1 pitch. Its upside is drawn from
// 4x-20x and rounded to one decimal.
func EasterEggPitch(rng RandomSource) Pitch {
	upside := math.Round((4+rng.Float64()*16)*10) / 10
	return Pitch{
		Founder: Founder{
			Name:        "Rehan & Ben",
			Country:     "United States",
			Gender:      "male",
			Conviction:  "Calm, data-backed",
			Credentials: []string{"Sleep technology enthusiasts", "Product designers"},
		},
		Startup: Startup{
			Name:      EasterEggStartup,
			Pitch:     "Lumora Sleep reimagines rest through a luxury sleep mask with adaptive thermal control, bone-conduction audio and a gentle sunrise wake light, turning better sleep into a nightly ritual.",
			Market:    "Health Tech",
			Traction:  Traction{Users: 3200, MonthlyGrowth: 22, Revenue: 28000},
			Risk:      0.2,
			Upside:    upside,
			Valuation: 200_000,
		},
		Ask: 50_000,
		News: []string{
			"Sleep tech market projected to reach $32B by 2027",
			"Wearable wellness devices see 40% YoY growth",
		},
		WhiteboardNotes: []string{
			"Premium positioning in crowded sleep market",
			"Strong retention metrics - users become habitual",
			"Hardware + wellness hybrid could attract acquirers",
			"Unit economics look solid at current price point",
		},
		IsEasterEgg: true,
	}
}
