package store

import (
	"context"
	"errors"

	"seedround/internal/game"
)

var ErrNotFound = errors.New("result not found")

// Store persists finished games and serves them back.
type Store interface {
	game.ResultStore
	Result(ctx context.Context, id int64) (game.PersistedResult, error)
	Leaderboard(ctx context.Context, limit int) ([]game.LeaderboardRow, error)
}

const (
	DefaultLeaderboardLimit = 20
	MaxLeaderboardLimit     = 100
)

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLeaderboardLimit
	}
	return min(limit, MaxLeaderboardLimit)
}
