package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"seedround/internal/config"
	"seedround/internal/game"
	"seedround/internal/narrative"
	"seedround/internal/pitch"
	"seedround/internal/store"
)

func testServer(t *testing.T) (*Server, *store.Memory) {
	t.Helper()
	rng := game.NewRandom(7)
	deck := pitch.NewDeck()
	results := store.NewMemory()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	engine := game.NewEngine(game.Deps{
		Pitches:  deck,
		Narrator: narrative.NewLocal(rng, deck),
		Results:  results,
		Random:   rng,
		Logger:   logger,
	}, game.Rules{RetryDelay: time.Millisecond})
	srv := New(config.APIConfig{Model: "gpt-4o"}, logger, Deps{
		Engine:   engine,
		Results:  results,
		Pitches:  deck,
		Narrator: narrative.NewLocal(rng, nil),
		Random:   rng,
	})
	return srv, results
}

func do(t *testing.T, h http.Handler, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Idempotency-Key", "test-key")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	out := map[string]any{}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %s %s: %v (%s)", method, path, err, rec.Body.String())
	}
	return rec.Code, out
}

func gameField(t *testing.T, out map[string]any, key string) any {
	t.Helper()
	g, ok := out["game"].(map[string]any)
	if !ok {
		t.Fatalf("response has no game: %v", out)
	}
	return g[key]
}

func TestFullGameOverHTTP(t *testing.T) {
	srv, results := testServer(t)
	h := srv.Handler()

	code, out := do(t, h, http.MethodPost, "/v1/games", nil)
	if code != http.StatusCreated {
		t.Fatalf("start: %d %v", code, out)
	}
	id := gameField(t, out, "id").(string)
	if gameField(t, out, "state") != string(game.StatePlaying) {
		t.Fatalf("expected playing, got %v", gameField(t, out, "state"))
	}
	if gameField(t, out, "limits") == nil {
		t.Fatalf("playing state must expose limits")
	}

	code, out = do(t, h, http.MethodPost, "/v1/games/"+id+"/decisions", map[string]any{"amount": 1})
	if code != http.StatusBadRequest {
		t.Fatalf("expected 400 for sub-minimum amount, got %d %v", code, out)
	}

	for phase := 1; phase <= 2; phase++ {
		for i := 0; i < game.RoundsPerPhase; i++ {
			code, out = do(t, h, http.MethodPost, "/v1/games/"+id+"/decisions", map[string]any{"amount": 0})
			if code != http.StatusOK {
				t.Fatalf("pass: %d %v", code, out)
			}
		}
		if gameField(t, out, "state") != string(game.StateRevealing) {
			t.Fatalf("phase %d should end in revealing, got %v", phase, gameField(t, out, "state"))
		}
		for i := 0; i < game.RoundsPerPhase; i++ {
			code, out = do(t, h, http.MethodGet, "/v1/games/"+id+"/reveal", nil)
			if code != http.StatusOK || out["investment"] == nil {
				t.Fatalf("reveal: %d %v", code, out)
			}
			code, out = do(t, h, http.MethodPost, "/v1/games/"+id+"/reveal/advance", nil)
			if code != http.StatusOK {
				t.Fatalf("advance: %d %v", code, out)
			}
		}
	}

	if gameField(t, out, "state") != string(game.StateFinished) {
		t.Fatalf("expected finished, got %v", gameField(t, out, "state"))
	}
	if gameField(t, out, "archetype") != string(game.ArchetypeAngel) {
		t.Fatalf("all passes should classify as angel, got %v", gameField(t, out, "archetype"))
	}
	if out["result_id"] != float64(1) {
		t.Fatalf("expected persisted result id 1, got %v", out["result_id"])
	}

	rows, _ := results.Leaderboard(t.Context(), 10)
	if len(rows) != 1 || rows[0].Score != game.StartingCapital {
		t.Fatalf("unexpected leaderboard %+v", rows)
	}
}

func TestUnrevealedOutcomesAreHidden(t *testing.T) {
	srv, _ := testServer(t)
	sess := game.NewSession("s1", time.Now())
	sess.State = game.StateRevealing
	sess.Investments = []game.Investment{{Round: 1, Phase: 1, IsWin: true, Outcome: 500_000}}
	srv.Sessions().Put(sess)

	code, out := do(t, srv.Handler(), http.MethodGet, "/v1/games/s1", nil)
	if code != http.StatusOK {
		t.Fatalf("state: %d %v", code, out)
	}
	invs := gameField(t, out, "investments").([]any)
	first := invs[0].(map[string]any)
	if first["is_win"] != false || first["outcome"] != float64(0) {
		t.Fatalf("outcome leaked before reveal: %v", first)
	}
}

func TestErrorMapping(t *testing.T) {
	srv, _ := testServer(t)
	h := srv.Handler()

	if code, _ := do(t, h, http.MethodGet, "/v1/games/missing", nil); code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", code)
	}
	if code, _ := do(t, h, http.MethodPost, "/v1/pitches", map[string]any{"phase": 3}); code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad phase, got %d", code)
	}
	if code, _ := do(t, h, http.MethodPost, "/v1/pitches", map[string]any{"phase": 1, "extra": true}); code != http.StatusBadRequest {
		t.Fatalf("unknown fields must be rejected, got %d", code)
	}

	sess := game.NewSession("s2", time.Now())
	sess.State = game.StateRevealing
	srv.Sessions().Put(sess)
	if code, _ := do(t, h, http.MethodPost, "/v1/games/s2/questions", map[string]any{"question": "why now?"}); code != http.StatusConflict {
		t.Fatalf("expected 409 without an open pitch, got %d", code)
	}
	if code, _ := do(t, h, http.MethodPost, "/v1/games/s2/decisions", map[string]any{"amount": 0}); code != http.StatusConflict {
		t.Fatalf("expected 409 for decision while revealing, got %d", code)
	}
	if code, _ := do(t, h, http.MethodGet, "/v1/results/abc", nil); code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad result id, got %d", code)
	}
	if code, _ := do(t, h, http.MethodGet, "/v1/results/42", nil); code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown result, got %d", code)
	}
}

func TestGeneratorEndpoints(t *testing.T) {
	srv, _ := testServer(t)
	h := srv.Handler()

	code, out := do(t, h, http.MethodPost, "/v1/pitches", map[string]any{"phase": 2})
	if code != http.StatusOK || out["startup"] == nil {
		t.Fatalf("pitch: %d %v", code, out)
	}

	req := game.OutcomeRequest{
		Pitch: game.Pitch{
			Startup: game.Startup{Name: "Nimbus", Market: "Health Tech", Risk: 0.3, Upside: 6, Valuation: 2_000_000},
			Ask:     50_000,
		},
		IsWin: true,
	}
	code, out = do(t, h, http.MethodPost, "/v1/outcomes", req)
	if code != http.StatusOK || out["narrative"] == "" {
		t.Fatalf("outcome: %d %v", code, out)
	}
	if out["missed_opportunity"] != float64(300_000) {
		t.Fatalf("unexpected missed opportunity %v", out["missed_opportunity"])
	}

	code, _ = do(t, h, http.MethodPost, "/v1/outcomes", game.OutcomeRequest{})
	if code != http.StatusBadRequest {
		t.Fatalf("invalid pitch should be rejected, got %d", code)
	}
}

func TestSaveResultIsIdempotent(t *testing.T) {
	srv, _ := testServer(t)
	h := srv.Handler()
	body := map[string]any{"score": 240_000, "archetype": string(game.ArchetypeShark)}

	code, first := do(t, h, http.MethodPost, "/v1/results", body)
	if code != http.StatusCreated {
		t.Fatalf("save: %d %v", code, first)
	}
	_, again := do(t, h, http.MethodPost, "/v1/results", body)
	if first["id"] != again["id"] || first["session_id"] != "test-key" {
		t.Fatalf("replay should reuse the stored row: %v vs %v", first, again)
	}

	code, out := do(t, h, http.MethodGet, "/v1/leaderboard?limit=5", nil)
	rows, _ := out["rows"].([]any)
	if code != http.StatusOK || len(rows) != 1 {
		t.Fatalf("leaderboard: %d %v", code, out)
	}
	if code, _ := do(t, h, http.MethodGet, "/v1/leaderboard?limit=-1", nil); code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad limit, got %d", code)
	}
}

func TestRegistrySweep(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	reg := NewRegistry(func() time.Time { return now })
	reg.Put(game.NewSession("old", now))
	now = now.Add(3 * time.Hour)
	reg.Put(game.NewSession("fresh", now))

	if n := reg.Sweep(2 * time.Hour); n != 1 {
		t.Fatalf("expected one eviction, got %d", n)
	}
	if err := reg.With("old", func(*game.Session) error { return nil }); err != ErrSessionNotFound {
		t.Fatalf("old session should be gone, got %v", err)
	}
	if reg.Len() != 1 {
		t.Fatalf("fresh session should survive")
	}
}

func TestRegistrySweepSparesSessionInUse(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	reg := NewRegistry(func() time.Time { return now })
	reg.Put(game.NewSession("edge", now))
	now = now.Add(3 * time.Hour)

	err := reg.With("edge", func(*game.Session) error {
		done := make(chan int)
		go func() { done <- reg.Sweep(2 * time.Hour) }()
		if n := <-done; n != 0 {
			t.Errorf("sweep evicted a session in use: %d", n)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("with: %v", err)
	}
	if n := reg.Sweep(2 * time.Hour); n != 0 {
		t.Fatalf("lookup should refresh the idle clock, evicted %d", n)
	}
	if err := reg.With("edge", func(*game.Session) error { return nil }); err != nil {
		t.Fatalf("session should still be live, got %v", err)
	}
}
