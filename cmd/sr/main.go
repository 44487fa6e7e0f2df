package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	cl "seedround/internal/cli"
	"seedround/internal/config"
	"seedround/internal/game"
	"seedround/internal/narrative"
	"seedround/internal/pitch"
	"seedround/internal/syncq"
	"seedround/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	cfg := config.LoadCLIFromEnv()
	apiBase := cfg.APIBaseURL

	root := &cobra.Command{
		Use:          "sr",
		Short:        "Seed Round: back ten startups with $100,000",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&apiBase, "api", apiBase, "API base URL")

	root.AddCommand(
		newNewCmd(&apiBase),
		newStatusCmd(&apiBase),
		newInvestCmd(&apiBase),
		newPassCmd(&apiBase),
		newRevealCmd(&apiBase),
		newNextCmd(&apiBase),
		newAskCmd(&apiBase),
		newLeaderboardCmd(&apiBase),
		newPlayCmd(&apiBase, cfg.PitchSource),
		newSyncCmd(&apiBase),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newClient(apiBase *string) *cl.Client {
	return cl.NewClient(strings.TrimRight(strings.TrimSpace(*apiBase), "/"))
}

func newNewCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "new",
		Short: "Start a new game on the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 90*time.Second)
			defer cancel()
			out, err := newClient(apiBase).NewGame(ctx)
			if err != nil {
				return err
			}
			if err := cl.SaveCurrent(cl.Current{GameID: out.Game.ID, APIBaseURL: *apiBase, StartedAt: time.Now().UTC()}); err != nil {
				return err
			}
			printSuccess("New game started. You have " + game.FormatDollars(out.Game.Capital) + " to deploy.")
			return renderGame(out)
		},
	}
}

func newStatusCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current pitch or game state",
		RunE: func(cmd *cobra.Command, args []string) error {
			cur, err := cl.LoadCurrent()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			out, err := newClient(apiBase).Game(ctx, cur.GameID)
			if err != nil {
				return err
			}
			return renderGame(out)
		},
	}
}

func newInvestCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "invest AMOUNT",
		Short: "Invest in the current pitch (e.g. 30000, 30k, $25,000)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := game.ParseDollars(args[0])
			if err != nil {
				return err
			}
			if amount == 0 {
				printWarn("Investing $0 is a pass.")
			}
			return decide(cmd, apiBase, amount)
		},
	}
}

func newPassCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "pass",
		Short: "Pass on the current pitch",
		RunE: func(cmd *cobra.Command, args []string) error {
			return decide(cmd, apiBase, 0)
		},
	}
}

func decide(cmd *cobra.Command, apiBase *string, amount int64) error {
	cur, err := cl.LoadCurrent()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), 90*time.Second)
	defer cancel()
	out, err := newClient(apiBase).Decide(ctx, cur.GameID, amount)
	if err != nil {
		return err
	}
	if amount == 0 {
		printInfo("Passed.")
	} else {
		printSuccess("Invested " + game.FormatDollars(amount) + ".")
	}
	if out.Game.State == game.StateRevealing {
		printWarn("Phase complete. Run `sr reveal` to see how your bets played out.")
		return nil
	}
	return renderGame(out)
}

func newRevealCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "reveal",
		Short: "Show the outcome being revealed",
		RunE: func(cmd *cobra.Command, args []string) error {
			cur, err := cl.LoadCurrent()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
			defer cancel()
			out, err := newClient(apiBase).Reveal(ctx, cur.GameID)
			if err != nil {
				return err
			}
			return renderReveal(out)
		},
	}
}

func newNextCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "next",
		Short: "Acknowledge the current reveal and move on",
		RunE: func(cmd *cobra.Command, args []string) error {
			cur, err := cl.LoadCurrent()
			if err != nil {
				return err
			}
			client := newClient(apiBase)
			ctx, cancel := context.WithTimeout(cmd.Context(), 90*time.Second)
			defer cancel()
			out, err := client.Advance(ctx, cur.GameID)
			if err != nil {
				return err
			}
			if out.Game.State == game.StateRevealing {
				rev, err := client.Reveal(ctx, cur.GameID)
				if err != nil {
					return err
				}
				return renderReveal(rev)
			}
			if out.Game.State == game.StateFinished {
				if err := cl.ClearCurrent(); err != nil {
					return err
				}
			}
			return renderGame(out)
		},
	}
}

func newAskCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "ask QUESTION",
		Short: "Ask the current founder a question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cur, err := cl.LoadCurrent()
			if err != nil {
				return err
			}
			question := strings.Join(args, " ")
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			answer, err := newClient(apiBase).Ask(ctx, cur.GameID, question)
			if err != nil {
				return err
			}
			accent.Print("Founder: ")
			printInfo(answer)
			return nil
		},
	}
}

func newLeaderboardCmd(apiBase *string) *cobra.Command {
	var limit int
	lb := &cobra.Command{
		Use:   "leaderboard",
		Short: "Top scores",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()
			rows, err := newClient(apiBase).Leaderboard(ctx, limit)
			if err != nil {
				return err
			}
			return renderLeaderboard(rows)
		},
	}
	lb.Flags().IntVar(&limit, "limit", 20, "rows to show")
	return lb
}

func newPlayCmd(apiBase *string, defaultSource string) *cobra.Command {
	var (
		source  string
		seed    int64
		offline bool
	)
	play := &cobra.Command{
		Use:   "play",
		Short: "Play a full game in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !term.IsTerminal(int(os.Stdout.Fd())) || !term.IsTerminal(int(os.Stdin.Fd())) {
				return errors.New("play needs an interactive terminal; use `sr new` for step-by-step play")
			}
			logger, closeLog := playLogger()
			defer closeLog()

			rng := game.NewRandom(seed)
			deck := pitch.NewDeck()
			var supplier game.PitchSupplier = pitch.NewGenerator(rng)
			var scripts narrative.Scripted
			if source == config.PitchSourceDemo {
				supplier, scripts = deck, deck
			}
			var results game.ResultStore
			if !offline {
				results = cl.RemoteStore{Client: newClient(apiBase)}
			}
			engine := game.NewEngine(game.Deps{
				Pitches:  supplier,
				Narrator: narrative.NewLocal(rng, scripts),
				Results:  results,
				Random:   rng,
				Logger:   logger,
			}, game.DefaultRules())

			model := tui.New(tui.Options{Engine: engine, Context: cmd.Context()})
			if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run(); err != nil {
				return err
			}
			if s := model.Session(); s != nil && s.State == game.StateFinished {
				renderFinal(s)
			}
			return nil
		},
	}
	play.Flags().StringVar(&source, "source", defaultSource, "pitch source: generated or demo")
	play.Flags().Int64Var(&seed, "seed", 0, "random seed (0 uses the clock)")
	play.Flags().BoolVar(&offline, "offline", false, "do not save the result")
	return play
}

func playLogger() (*slog.Logger, func()) {
	discard := slog.New(slog.NewTextHandler(io.Discard, nil))
	home, err := os.UserHomeDir()
	if err != nil {
		return discard, func() {}
	}
	dir := filepath.Join(home, ".seedround")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return discard, func() {}
	}
	f, err := os.OpenFile(filepath.Join(dir, "play.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return discard, func() {}
	}
	return slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelInfo})), func() { _ = f.Close() }
}

func newSyncCmd(apiBase *string) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Upload results saved while offline",
		RunE: func(cmd *cobra.Command, args []string) error {
			queue, err := syncq.Load()
			if err != nil {
				return err
			}
			if len(queue) == 0 {
				printInfo("Sync queue is empty.")
				return nil
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
			defer cancel()
			store := cl.RemoteStore{Client: newClient(apiBase)}
			sent, err := store.Replay(ctx)
			remaining := len(queue) - sent
			if err != nil {
				printError(fmt.Sprintf("Some results failed to sync: %v", err))
			}
			printSuccess(fmt.Sprintf("Sync complete: replayed=%d remaining=%d", sent, remaining))
			return nil
		},
	}
}
