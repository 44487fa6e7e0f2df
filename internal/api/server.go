package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"seedround/internal/ai"
	"seedround/internal/config"
	"seedround/internal/game"
	"seedround/internal/pitch"
	"seedround/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

type Deps struct {
	Engine   *game.Engine
	Sessions *Registry
	Results  store.Store
	Pitches  game.PitchSupplier
	Narrator game.Narrator
	// Founder answers investor questions. Nil means canned answers only.
	Founder ai.Provider
	Random  game.RandomSource
}

type Server struct {
	cfg      config.APIConfig
	log      *slog.Logger
	engine   *game.Engine
	sessions *Registry
	results  store.Store
	pitches  game.PitchSupplier
	narrator game.Narrator
	founder  ai.Provider
	rng      game.RandomSource
	mux      *chi.Mux
}

func New(cfg config.APIConfig, logger *slog.Logger, deps Deps) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if deps.Sessions == nil {
		deps.Sessions = NewRegistry(nil)
	}
	if deps.Random == nil {
		deps.Random = game.NewRandom(0)
	}
	s := &Server{
		cfg:      cfg,
		log:      logger,
		engine:   deps.Engine,
		sessions: deps.Sessions,
		results:  deps.Results,
		pitches:  deps.Pitches,
		narrator: deps.Narrator,
		founder:  deps.Founder,
		rng:      deps.Random,
		mux:      chi.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) Sessions() *Registry {
	return s.sessions
}

func (s *Server) routes() {
	r := s.mux
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Post("/games", s.handleStartGame)
		r.Get("/games/{id}", s.handleGameState)
		r.Post("/games/{id}/decisions", s.handleDecision)
		r.Get("/games/{id}/reveal", s.handleReveal)
		r.Post("/games/{id}/reveal/advance", s.handleAdvance)
		r.Post("/games/{id}/questions", s.handleQuestion)

		r.Post("/pitches", s.handleGeneratePitch)
		r.Post("/outcomes", s.handleGenerateOutcome)

		r.Post("/results", s.handleSaveResult)
		r.Get("/results/{id}", s.handleResult)
		r.Get("/leaderboard", s.handleLeaderboard)
	})
}

func (s *Server) handleStartGame(w http.ResponseWriter, r *http.Request) {
	sess, err := s.engine.Start(r.Context())
	if sess == nil || errors.Is(err, game.ErrNoPitchSource) {
		writeDomainError(w, err)
		return
	}
	s.sessions.Put(sess)
	if err != nil {
		s.log.Warn("first pitch pending", "session_id", sess.ID, "err", err)
		writeJSON(w, http.StatusAccepted, gameView(sess, s.engine.Rules()))
		return
	}
	s.log.Info("game started", "session_id", sess.ID)
	writeJSON(w, http.StatusCreated, gameView(sess, s.engine.Rules()))
}

func (s *Server) handleGameState(w http.ResponseWriter, r *http.Request) {
	var out map[string]any
	err := s.sessions.With(chi.URLParam(r, "id"), func(sess *game.Session) error {
		if err := s.engine.Resume(r.Context(), sess); err != nil {
			s.log.Warn("pitch still loading", "session_id", sess.ID, "err", err)
		}
		out = gameView(sess, s.engine.Rules())
		return nil
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDecision(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Amount int64 `json:"amount"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var out map[string]any
	err := s.sessions.With(chi.URLParam(r, "id"), func(sess *game.Session) error {
		inv, err := s.engine.Decide(r.Context(), sess, in.Amount)
		if err != nil {
			return err
		}
		s.log.Info("decision committed", "session_id", sess.ID, "round", inv.Round, "amount", inv.Amount)
		out = gameView(sess, s.engine.Rules())
		return nil
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleReveal(w http.ResponseWriter, r *http.Request) {
	var out map[string]any
	err := s.sessions.With(chi.URLParam(r, "id"), func(sess *game.Session) error {
		inv, err := s.engine.Reveal(r.Context(), sess)
		if err != nil {
			return err
		}
		out = map[string]any{
			"investment": inv,
			"position":   sess.RevealIndex%game.RoundsPerPhase + 1,
			"of":         game.RoundsPerPhase,
			"game":       gameView(sess, s.engine.Rules()),
		}
		return nil
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAdvance(w http.ResponseWriter, r *http.Request) {
	var out map[string]any
	err := s.sessions.With(chi.URLParam(r, "id"), func(sess *game.Session) error {
		if err := s.engine.Advance(r.Context(), sess); err != nil {
			return err
		}
		out = gameView(sess, s.engine.Rules())
		return nil
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleQuestion(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Question string `json:"question"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(in.Question) == "" {
		writeError(w, http.StatusBadRequest, "question is required")
		return
	}
	var current game.Pitch
	err := s.sessions.With(chi.URLParam(r, "id"), func(sess *game.Session) error {
		if sess.State != game.StatePlaying || sess.CurrentPitch == nil {
			return fmt.Errorf("%w: questions need an open pitch", game.ErrInvalidState)
		}
		current = *sess.CurrentPitch
		return nil
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	answer := pitch.AskFounder(r.Context(), s.founder, s.cfg.Model, current, in.Question)
	writeJSON(w, http.StatusOK, map[string]any{"answer": answer})
}

func (s *Server) handleGeneratePitch(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Phase int `json:"phase"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if in.Phase != 1 && in.Phase != 2 {
		writeError(w, http.StatusBadRequest, "phase must be 1 or 2")
		return
	}
	if s.pitches == nil {
		writeDomainError(w, game.ErrNoPitchSource)
		return
	}
	p, err := s.pitches.GeneratePitch(r.Context(), in.Phase)
	if err == nil {
		err = p.Validate()
	}
	if err != nil {
		s.log.Warn("pitch generation failed", "phase", in.Phase, "err", err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleGenerateOutcome(w http.ResponseWriter, r *http.Request) {
	var in game.OutcomeRequest
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := in.Pitch.Validate(); err != nil {
		writeDomainError(w, err)
		return
	}
	if in.Amount < 0 || (in.Invested && in.Amount == 0) {
		writeError(w, http.StatusBadRequest, "invested outcomes need a positive amount")
		return
	}
	var story game.Story
	var err error
	if s.narrator != nil {
		story, err = s.narrator.Narrate(r.Context(), in)
	}
	if s.narrator == nil || err != nil {
		if err != nil {
			s.log.Warn("outcome generation fell back", "startup", in.Pitch.Startup.Name, "err", err)
		}
		story = game.FallbackStory(in, s.rng)
	}
	writeJSON(w, http.StatusOK, story)
}

func (s *Server) handleSaveResult(w http.ResponseWriter, r *http.Request) {
	var in game.Result
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if in.SessionID == "" {
		in.SessionID = idempotencyKey(r)
	}
	if in.Archetype == "" {
		in.Archetype = game.ArchetypeAngel
	}
	if in.CreatedAt.IsZero() {
		in.CreatedAt = time.Now().UTC()
	}
	saved, err := s.results.SaveResult(r.Context(), in)
	if err != nil {
		s.log.Error("save result failed", "session_id", in.SessionID, "err", err)
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid result id")
		return
	}
	out, err := s.results.Result(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := store.DefaultLeaderboardLimit
	if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}
	out, err := s.results.Leaderboard(r.Context(), limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rows": out})
}

// gameView hides outcomes that have not been revealed yet.
func gameView(sess *game.Session, rules game.Rules) map[string]any {
	snap := sess.Snapshot(rules)
	for i := snap.RevealIndex; i < len(snap.Investments); i++ {
		snap.Investments[i].IsWin = false
		snap.Investments[i].Outcome = 0
		snap.Investments[i].Story = nil
	}
	out := map[string]any{"game": snap}
	if sess.ResultID > 0 {
		out["result_id"] = sess.ResultID
	}
	if sess.State == game.StateFinished {
		out["profile"] = sess.Archetype.Profile()
	}
	return out
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrInvalidAmount), errors.Is(err, game.ErrForcedPass), errors.Is(err, game.ErrInvalidPitch):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, game.ErrInvalidState), errors.Is(err, game.ErrNoPitch):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, game.ErrNoPitchSource):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, err.Error())
	case err == nil:
		writeError(w, http.StatusInternalServerError, "unknown error")
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func decodeJSON(r *http.Request, out any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": strings.TrimSpace(message)})
}

func idempotencyKey(r *http.Request) string {
	key := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	if key != "" {
		return key
	}
	return uuid.NewString()
}
