package syncq

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"seedround/internal/game"
)

// Pending is a finished game whose result has not reached the server yet.
type Pending struct {
	Result         game.Result `json:"result"`
	IdempotencyKey string      `json:"idempotency_key"`
	QueuedAt       time.Time   `json:"queued_at"`
	Attempts       int         `json:"attempts"`
	LastError      string      `json:"last_error,omitempty"`
}

func queuePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".seedround")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return filepath.Join(dir, "queue.json"), nil
}

func Load() ([]Pending, error) {
	path, err := queuePath()
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []Pending{}, nil
		}
		return nil, err
	}
	if len(raw) == 0 {
		return []Pending{}, nil
	}
	var out []Pending
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func Save(items []Pending) error {
	path, err := queuePath()
	if err != nil {
		return err
	}
	raw, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o600)
}

// Push queues a result. A result already queued under the same key is
// replaced rather than duplicated.
func Push(p Pending) error {
	items, err := Load()
	if err != nil {
		return err
	}
	if p.IdempotencyKey == "" {
		p.IdempotencyKey = p.Result.SessionID
	}
	if p.QueuedAt.IsZero() {
		p.QueuedAt = time.Now().UTC()
	}
	for i := range items {
		if items[i].IdempotencyKey == p.IdempotencyKey && p.IdempotencyKey != "" {
			items[i] = p
			return Save(items)
		}
	}
	items = append(items, p)
	return Save(items)
}

// Drain hands every queued result to send and keeps the ones that failed.
// It stops early when ctx ends.
func Drain(ctx context.Context, send func(context.Context, Pending) error) (int, error) {
	items, err := Load()
	if err != nil {
		return 0, err
	}
	var (
		kept []Pending
		errs []error
		sent int
	)
	for i, p := range items {
		if ctx.Err() != nil {
			kept = append(kept, items[i:]...)
			errs = append(errs, ctx.Err())
			break
		}
		if err := send(ctx, p); err != nil {
			p.Attempts++
			p.LastError = err.Error()
			kept = append(kept, p)
			errs = append(errs, err)
			continue
		}
		sent++
	}
	if kept == nil {
		kept = []Pending{}
	}
	if err := Save(kept); err != nil {
		return sent, err
	}
	return sent, errors.Join(errs...)
}
