package tui

import (
	"fmt"
	"strings"

	"seedround/internal/game"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F7B801"))
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	goodStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")).Bold(true)
	badStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	boxStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#5B8DEF")).
			Padding(0, 1)
)

func (m *Model) View() string {
	if m.quit && m.session == nil {
		if m.err != nil {
			return badStyle.Render("error: "+m.err.Error()) + "\n"
		}
		return ""
	}
	if m.busy {
		return fmt.Sprintf("\n %s %s\n", m.spinner.View(), mutedStyle.Render(m.busyMsg))
	}
	if m.session == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n\n")
	switch m.session.State {
	case game.StatePlaying:
		b.WriteString(m.pitchView())
	case game.StateRevealing:
		b.WriteString(m.revealView())
	case game.StateFinished:
		b.WriteString(m.finishedView())
	case game.StateLoading:
		b.WriteString(mutedStyle.Render("Waiting for the next founder. Press esc to quit."))
	}
	if m.err != nil {
		b.WriteString("\n" + badStyle.Render(m.err.Error()))
	}
	b.WriteString("\n")
	return b.String()
}

func (m *Model) header() string {
	s := m.session
	return titleStyle.Render("SEED ROUND") + "  " + mutedStyle.Render(fmt.Sprintf(
		"Phase %d · Round %d/%d · Capital %s",
		s.Phase, s.PhaseRoundNumber(), game.RoundsPerPhase, game.FormatDollars(s.Capital),
	))
}

func (m *Model) boxWidth() int {
	if m.width <= 0 {
		return 72
	}
	return max(40, min(m.width-4, 96))
}

func (m *Model) pitchView() string {
	p := m.session.CurrentPitch
	if p == nil {
		return ""
	}
	f, st := p.Founder, p.Startup
	lines := []string{
		titleStyle.Render(st.Name) + mutedStyle.Render("  "+st.Market),
		st.Pitch,
		"",
		fmt.Sprintf("Founder: %s (%s)", f.Name, f.Country),
	}
	if len(f.Credentials) > 0 {
		lines = append(lines, "         "+strings.Join(f.Credentials, " · "))
	}
	if f.Conviction != "" {
		lines = append(lines, mutedStyle.Render("\""+f.Conviction+"\""))
	}
	lines = append(lines,
		"",
		fmt.Sprintf("Users %s · Growth %d%%/mo · MRR %s",
			commaInt(st.Traction.Users), st.Traction.MonthlyGrowth, game.FormatDollars(st.Traction.Revenue)),
		fmt.Sprintf("Valuation %s · Ask %s for %.1f%%",
			game.FormatCompact(st.Valuation), game.FormatDollars(p.Ask), p.EquityOnAsk()),
	)
	for _, n := range p.News {
		lines = append(lines, accentStyle.Render("▸ ")+n)
	}
	for _, n := range p.WhiteboardNotes {
		lines = append(lines, mutedStyle.Render("✎ "+n))
	}

	var b strings.Builder
	b.WriteString(boxStyle.Width(m.boxWidth()).Render(strings.Join(lines, "\n")))
	b.WriteString("\n\n")

	limits := game.ComputeLimits(m.session, *p, m.engine.Rules())
	if limits.ForcedPass {
		b.WriteString(badStyle.Render(fmt.Sprintf(
			"Minimum check this round is above your %s. Enter 0 to pass.", game.FormatDollars(m.session.Capital))))
	} else {
		b.WriteString(fmt.Sprintf("Invest %s to %s, or 0 to pass.",
			game.FormatDollars(limits.Min), game.FormatDollars(limits.Max)))
	}
	b.WriteString("\n")
	if m.answer != "" {
		b.WriteString(accentStyle.Render(m.answer) + "\n")
	}
	if m.status != "" {
		b.WriteString(mutedStyle.Render(m.status) + "\n")
	}
	b.WriteString(m.input.View())
	return b.String()
}

func (m *Model) revealView() string {
	inv := m.reveal
	if inv == nil {
		return mutedStyle.Render("Press enter to see how it went.")
	}
	pos := m.session.RevealIndex%game.RoundsPerPhase + 1
	lines := []string{
		mutedStyle.Render(fmt.Sprintf("Result %d of %d", pos, game.RoundsPerPhase)),
		titleStyle.Render(inv.Pitch.Startup.Name),
	}
	switch {
	case inv.Passed() && inv.IsWin:
		lines = append(lines, badStyle.Render("You passed. It won."))
	case inv.Passed():
		lines = append(lines, goodStyle.Render("You passed. Good call."))
	case inv.IsWin:
		lines = append(lines, goodStyle.Render(fmt.Sprintf("WIN  %s → %s", game.FormatDollars(inv.Amount), game.FormatDollars(inv.Outcome))))
	default:
		lines = append(lines, badStyle.Render(fmt.Sprintf("LOSS  %s written off", game.FormatDollars(inv.Amount))))
	}
	if inv.Story != nil {
		story := inv.Story
		lines = append(lines, "", story.Narrative, "")
		for _, n := range story.NewsClippings {
			lines = append(lines, accentStyle.Render(n.Source+": ")+n.Headline)
		}
		if len(story.ValuationHistory) > 0 {
			points := make([]string, 0, len(story.ValuationHistory))
			for _, v := range story.ValuationHistory {
				points = append(points, game.FormatCompact(v))
			}
			lines = append(lines, "", mutedStyle.Render(strings.Join(points, " → ")))
		}
		if story.MissedOpportunity > 0 {
			lines = append(lines, badStyle.Render("Missed: "+game.FormatDollars(story.MissedOpportunity)))
		}
	}
	return boxStyle.Width(m.boxWidth()).Render(strings.Join(lines, "\n")) + "\n\n" +
		mutedStyle.Render("enter to continue")
}

func (m *Model) finishedView() string {
	s := m.session
	st := game.Stats(s.Investments)
	profile := s.Archetype.Profile()
	gain := s.FinalScore - game.StartingCapital
	gainText, gainStyle := "+"+game.FormatDollars(gain), goodStyle
	if gain < 0 {
		gainText, gainStyle = game.FormatDollars(gain), badStyle
	}
	lines := []string{
		titleStyle.Render(string(s.Archetype)),
		profile.Description,
		mutedStyle.Render(profile.Reflection),
		"",
		"Final portfolio  " + game.FormatDollars(s.FinalScore) + "  " + gainStyle.Render("("+gainText+")"),
		fmt.Sprintf("Deals funded %d · Wins %d · Losses %d · Win rate %.0f%%", st.Invested, st.Wins, st.Losses, st.WinRate),
		"",
	}
	for _, inv := range s.Investments {
		mark := mutedStyle.Render("pass")
		switch {
		case inv.Amount > 0 && inv.IsWin:
			mark = goodStyle.Render("+" + game.FormatDollars(inv.Outcome-inv.Amount))
		case inv.Amount > 0:
			mark = badStyle.Render("-" + game.FormatDollars(inv.Amount))
		}
		lines = append(lines, fmt.Sprintf("%2d. %-22s %s", inv.Round, inv.Pitch.Startup.Name, mark))
	}
	lines = append(lines, "")
	if s.ResultID > 0 {
		lines = append(lines, goodStyle.Render(fmt.Sprintf("Saved as result #%d", s.ResultID)))
	} else {
		lines = append(lines, mutedStyle.Render("Result not saved yet. Run `sr sync` once you are online."))
	}
	return boxStyle.Width(m.boxWidth()).Render(strings.Join(lines, "\n")) + "\n\n" +
		mutedStyle.Render("enter to exit")
}

func commaInt(v int64) string {
	return strings.TrimPrefix(game.FormatDollars(v), "$")
}
