package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"seedround/internal/ai"
	"seedround/internal/ai/openai"
	"seedround/internal/api"
	"seedround/internal/config"
	"seedround/internal/db"
	"seedround/internal/game"
	"seedround/internal/narrative"
	"seedround/internal/pitch"
	"seedround/internal/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadAPIFromEnv()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	var results store.Store = store.NewMemory()
	if cfg.DatabaseURL != "" {
		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("db connect failed", "err", err)
			os.Exit(1)
		}
		defer pool.Close()
		if err := db.EnsureSchema(ctx, pool); err != nil {
			logger.Error("schema init failed", "err", err)
			os.Exit(1)
		}
		results = store.NewPostgres(pool)
	} else {
		logger.Warn("DATABASE_URL not set, results kept in memory")
	}

	rng := game.NewRandom(0)
	var provider ai.Provider
	if cfg.OpenAIKey != "" {
		provider = openai.New(cfg.OpenAIKey, cfg.OpenAIBaseURL)
	}

	deck := pitch.NewDeck()
	var pitches game.PitchSupplier
	var scripts narrative.Scripted
	switch cfg.PitchSource {
	case config.PitchSourceAI:
		pitches = pitch.Chain{pitch.NewAISupplier(provider, cfg.Model, rng), pitch.NewGenerator(rng)}
	case config.PitchSourceDemo:
		pitches = deck
		scripts = deck
	default:
		pitches = pitch.NewGenerator(rng)
	}

	var narrator game.Narrator = narrative.NewLocal(rng, scripts)
	if cfg.NarrativeSource == config.NarrativeSourceAI {
		narrator = narrative.Chain{narrative.NewAI(provider, cfg.Model, rng), narrator}
	}

	rules := game.DefaultRules()
	rules.RetryDelay = cfg.RetryDelay
	rules.MaxTicket = cfg.MaxTicket
	rules.EasterEggChance = cfg.EasterEggChance

	engine := game.NewEngine(game.Deps{
		Pitches:  pitches,
		Narrator: narrator,
		Results:  results,
		Random:   rng,
		Logger:   logger,
	}, rules)

	server := api.New(cfg, logger, api.Deps{
		Engine:   engine,
		Results:  results,
		Pitches:  pitches,
		Narrator: narrator,
		Founder:  provider,
		Random:   rng,
	})
	go server.Sessions().RunJanitor(ctx, cfg.JanitorEvery, cfg.SessionTTL, logger)

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info("seedround api listening", "addr", cfg.Addr, "pitch_source", cfg.PitchSource, "narrative_source", cfg.NarrativeSource)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed", "err", err)
		os.Exit(1)
	}
}
