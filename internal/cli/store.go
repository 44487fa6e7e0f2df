package cli

import (
	"context"
	"errors"
	"fmt"

	"seedround/internal/game"
	"seedround/internal/syncq"
)

var ErrQueued = errors.New("result queued for sync")

// RemoteStore saves results through the API and falls back to the local
// queue when the server cannot be reached.
type RemoteStore struct {
	Client *Client
}

func (s RemoteStore) SaveResult(ctx context.Context, r game.Result) (game.PersistedResult, error) {
	saved, err := s.Client.SaveResult(ctx, r)
	if err == nil {
		return saved, nil
	}
	var status *StatusError
	if errors.As(err, &status) && status.Code < 500 {
		return game.PersistedResult{}, err
	}
	if qerr := syncq.Push(syncq.Pending{Result: r, IdempotencyKey: r.SessionID, LastError: err.Error()}); qerr != nil {
		return game.PersistedResult{}, errors.Join(err, fmt.Errorf("queue result: %w", qerr))
	}
	return game.PersistedResult{}, fmt.Errorf("%w: %v", ErrQueued, err)
}

// Replay pushes queued results to the server.
func (s RemoteStore) Replay(ctx context.Context) (int, error) {
	return syncq.Drain(ctx, func(ctx context.Context, p syncq.Pending) error {
		if p.Result.SessionID == "" {
			p.Result.SessionID = p.IdempotencyKey
		}
		_, err := s.Client.SaveResult(ctx, p.Result)
		return err
	})
}
