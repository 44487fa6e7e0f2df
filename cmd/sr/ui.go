package main

import (
	"fmt"
	"strings"

	cl "seedround/internal/cli"
	"seedround/internal/game"

	"github.com/fatih/color"
)

var (
	accent  = color.New(color.FgCyan, color.Bold)
	success = color.New(color.FgGreen, color.Bold)
	warn    = color.New(color.FgYellow, color.Bold)
	danger  = color.New(color.FgRed, color.Bold)
	neutral = color.New(color.FgHiWhite)
	muted   = color.New(color.FgHiBlack)
)

func printSuccess(msg string) {
	success.Println(msg)
}

func printWarn(msg string) {
	warn.Println(msg)
}

func printError(msg string) {
	danger.Println(msg)
}

func printInfo(msg string) {
	neutral.Println(msg)
}

func renderGame(view cl.GameView) error {
	g := view.Game
	accent.Printf("\n== PHASE %d · ROUND %d/%d ==\n", g.Phase, g.PhaseRound, game.RoundsPerPhase)
	fmt.Printf("Capital: %s\n", game.FormatDollars(g.Capital))

	switch g.State {
	case game.StateLoading:
		printWarn("The next founder is on the way. Run `sr status` again in a moment.")
	case game.StatePlaying:
		if g.Pitch == nil || g.Limits == nil {
			printWarn("No pitch on the table yet.")
			return nil
		}
		renderPitch(*g.Pitch, *g.Limits)
	case game.StateRevealing:
		printWarn("Reveal in progress. Run `sr reveal`.")
	case game.StateFinished:
		renderSummary(g.Investments, g.FinalScore, g.Archetype)
		if view.ResultID > 0 {
			printSuccess(fmt.Sprintf("Saved as result #%d.", view.ResultID))
		}
	}
	fmt.Println()
	return nil
}

func renderPitch(p game.Pitch, limits game.Limits) {
	st, f := p.Startup, p.Founder
	fmt.Println()
	accent.Printf("%s", st.Name)
	muted.Printf("  %s\n", st.Market)
	fmt.Println(st.Pitch)
	fmt.Printf("Founder:   %s (%s)\n", f.Name, f.Country)
	if len(f.Credentials) > 0 {
		fmt.Printf("           %s\n", strings.Join(f.Credentials, " · "))
	}
	if f.Conviction != "" {
		muted.Printf("           %q\n", f.Conviction)
	}
	fmt.Printf("Traction:  %s users · %d%%/mo · %s MRR\n",
		strings.TrimPrefix(game.FormatDollars(st.Traction.Users), "$"), st.Traction.MonthlyGrowth, game.FormatDollars(st.Traction.Revenue))
	fmt.Printf("Terms:     %s for %.1f%% at %s\n", game.FormatDollars(p.Ask), p.EquityOnAsk(), game.FormatCompact(st.Valuation))
	for _, n := range p.News {
		fmt.Printf("  ▸ %s\n", n)
	}
	for _, n := range p.WhiteboardNotes {
		muted.Printf("  ✎ %s\n", n)
	}
	fmt.Println()
	if limits.ForcedPass {
		printError("This round's minimum is above your capital. Run `sr pass`.")
		return
	}
	fmt.Printf("Invest %s to %s with `sr invest AMOUNT`, or `sr pass`.\n",
		game.FormatDollars(limits.Min), game.FormatDollars(limits.Max))
}

func renderReveal(view cl.RevealView) error {
	inv := view.Investment
	accent.Printf("\n== RESULT %d OF %d: %s ==\n", view.Position, view.Of, strings.ToUpper(inv.Pitch.Startup.Name))
	switch {
	case inv.Passed() && inv.IsWin:
		printError("You passed. It won.")
	case inv.Passed():
		printSuccess("You passed. Good call.")
	case inv.IsWin:
		printSuccess(fmt.Sprintf("WIN: %s became %s (%s)", game.FormatDollars(inv.Amount), game.FormatDollars(inv.Outcome), colorizeDollars(inv.Outcome-inv.Amount)))
	default:
		printError(fmt.Sprintf("LOSS: %s written off", game.FormatDollars(inv.Amount)))
	}
	if inv.Story != nil {
		s := inv.Story
		fmt.Println()
		fmt.Println(s.Narrative)
		for _, n := range s.NewsClippings {
			fmt.Printf("  %s %s\n", accent.Sprint(n.Source+":"), n.Headline)
		}
		if len(s.ValuationHistory) > 0 {
			points := make([]string, 0, len(s.ValuationHistory))
			for _, v := range s.ValuationHistory {
				points = append(points, game.FormatCompact(v))
			}
			muted.Printf("  %s\n", strings.Join(points, " → "))
		}
		if s.MissedOpportunity > 0 {
			printWarn("Missed opportunity: " + game.FormatDollars(s.MissedOpportunity))
		}
	}
	fmt.Println()
	printInfo("Run `sr next` to continue.")
	return nil
}

func renderSummary(investments []game.Investment, score int64, archetype game.Archetype) {
	st := game.Stats(investments)
	profile := archetype.Profile()
	fmt.Println()
	accent.Println(strings.ToUpper(string(archetype)))
	fmt.Println(profile.Description)
	muted.Println(profile.Reflection)
	fmt.Println()
	fmt.Printf("Final portfolio: %s (%s)\n", game.FormatDollars(score), colorizeDollars(score-game.StartingCapital))
	fmt.Printf("Funded %d · Wins %d · Losses %d · Win rate %.0f%%\n\n", st.Invested, st.Wins, st.Losses, st.WinRate)
	fmt.Printf("%-4s %-22s %12s %14s\n", "RND", "STARTUP", "INVESTED", "RETURN")
	for _, inv := range investments {
		ret := muted.Sprint("pass")
		if inv.Amount > 0 {
			ret = colorizeDollars(inv.Outcome - inv.Amount)
		}
		fmt.Printf("%-4d %-22s %12s %14s\n", inv.Round, truncate(inv.Pitch.Startup.Name, 22), game.FormatDollars(inv.Amount), ret)
	}
}

func renderFinal(s *game.Session) {
	renderSummary(s.Investments, s.FinalScore, s.Archetype)
	fmt.Println()
	if s.ResultID > 0 {
		printSuccess(fmt.Sprintf("Saved as result #%d.", s.ResultID))
		return
	}
	printWarn("Result not saved yet. Run `sr sync` when the server is reachable.")
}

func renderLeaderboard(rows []game.LeaderboardRow) error {
	accent.Println("\n== LEADERBOARD ==")
	if len(rows) == 0 {
		printInfo("No leaderboard rows yet.")
		return nil
	}
	fmt.Printf("%-6s %14s  %-26s %s\n", "RANK", "SCORE", "ARCHETYPE", "DATE")
	for _, row := range rows {
		fmt.Printf("%-6d %14s  %-26s %s\n",
			row.Rank,
			game.FormatDollars(row.Score),
			truncate(string(row.Archetype), 26),
			row.CreatedAt.Local().Format("2006-01-02"),
		)
	}
	fmt.Println()
	return nil
}

func colorizeDollars(v int64) string {
	switch {
	case v > 0:
		return success.Sprint("+" + game.FormatDollars(v))
	case v < 0:
		return danger.Sprint(game.FormatDollars(v))
	default:
		return neutral.Sprint(game.FormatDollars(v))
	}
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
