package pitch

import (
	"context"
	"fmt"
	"strings"

	"seedround/internal/ai"
	"seedround/internal/game"
)

const (
	founderSystemPrompt = "You are a startup founder responding authentically to investor questions. Keep responses concise and data-driven."
	cannedAnswer        = "We're focused on execution and expect strong results soon."
)

// AskFounder answers an investor question in the founder's voice. It never
// fails: without a provider, or on error, a canned answer is returned.
func AskFounder(ctx context.Context, provider ai.Provider, model string, p game.Pitch, question string) string {
	question = strings.TrimSpace(question)
	if provider == nil || question == "" {
		return cannedAnswer
	}
	t := p.Startup.Traction
	prompt := fmt.Sprintf(`You are a founder answering an investor's question during a pitch meeting.

Company: %s
Market: %s
Pitch: %q
Users: %d
Monthly Growth: %d%%
MRR: $%d

Investor question: %q

Respond as the founder would: authentic, confident and specific to the startup's actual metrics. Keep it to 1-2 sentences.`,
		p.Startup.Name, p.Startup.Market, p.Startup.Pitch, t.Users, t.MonthlyGrowth, t.Revenue, question)

	answer, err := provider.CompleteWithSystem(ctx, model, founderSystemPrompt, prompt)
	if err != nil || strings.TrimSpace(answer) == "" {
		return cannedAnswer
	}
	return strings.TrimSpace(answer)
}
