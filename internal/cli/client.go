package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"seedround/internal/game"
)

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// GameView is the server's view of a session.
type GameView struct {
	Game     game.Snapshot          `json:"game"`
	ResultID int64                  `json:"result_id,omitempty"`
	Profile  *game.ArchetypeProfile `json:"profile,omitempty"`
}

type RevealView struct {
	Investment game.Investment `json:"investment"`
	Position   int             `json:"position"`
	Of         int             `json:"of"`
	Game       GameView        `json:"game"`
}

func (c *Client) NewGame(ctx context.Context) (GameView, error) {
	var out GameView
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/games", nil, &out, "")
	return out, err
}

func (c *Client) Game(ctx context.Context, id string) (GameView, error) {
	var out GameView
	err := c.jsonRequest(ctx, http.MethodGet, gamePath(id, ""), nil, &out, "")
	return out, err
}

func (c *Client) Decide(ctx context.Context, id string, amount int64) (GameView, error) {
	var out GameView
	err := c.jsonRequest(ctx, http.MethodPost, gamePath(id, "/decisions"), map[string]any{
		"amount": amount,
	}, &out, "")
	return out, err
}

func (c *Client) Reveal(ctx context.Context, id string) (RevealView, error) {
	var out RevealView
	err := c.jsonRequest(ctx, http.MethodGet, gamePath(id, "/reveal"), nil, &out, "")
	return out, err
}

func (c *Client) Advance(ctx context.Context, id string) (GameView, error) {
	var out GameView
	err := c.jsonRequest(ctx, http.MethodPost, gamePath(id, "/reveal/advance"), nil, &out, "")
	return out, err
}

func (c *Client) Ask(ctx context.Context, id, question string) (string, error) {
	var out struct {
		Answer string `json:"answer"`
	}
	err := c.jsonRequest(ctx, http.MethodPost, gamePath(id, "/questions"), map[string]any{
		"question": question,
	}, &out, "")
	return out.Answer, err
}

func (c *Client) Leaderboard(ctx context.Context, limit int) ([]game.LeaderboardRow, error) {
	path := "/v1/leaderboard"
	if limit > 0 {
		path = fmt.Sprintf("%s?limit=%d", path, limit)
	}
	var out struct {
		Rows []game.LeaderboardRow `json:"rows"`
	}
	err := c.jsonRequest(ctx, http.MethodGet, path, nil, &out, "")
	return out.Rows, err
}

// SaveResult posts a finished game. The session ID doubles as the
// idempotency key so replays from the offline queue never double count.
func (c *Client) SaveResult(ctx context.Context, r game.Result) (game.PersistedResult, error) {
	var out game.PersistedResult
	err := c.jsonRequest(ctx, http.MethodPost, "/v1/results", r, &out, r.SessionID)
	return out, err
}

func (c *Client) Health(ctx context.Context) error {
	return c.jsonRequest(ctx, http.MethodGet, "/healthz", nil, nil, "")
}

func gamePath(id, suffix string) string {
	return "/v1/games/" + url.PathEscape(id) + suffix
}

func (c *Client) jsonRequest(ctx context.Context, method, path string, in any, out any, idem string) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if idem != "" {
		req.Header.Set("Idempotency-Key", idem)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api status %d: %s", e.Code, e.Body)
}
