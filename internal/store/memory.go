package store

import (
	"context"
	"sort"
	"sync"

	"seedround/internal/game"
)

// Memory keeps results in process. Used when no database is configured.
type Memory struct {
	mu        sync.Mutex
	results   []game.PersistedResult
	bySession map[string]int64
}

func NewMemory() *Memory {
	return &Memory{bySession: map[string]int64{}}
}

func (m *Memory) SaveResult(_ context.Context, r game.Result) (game.PersistedResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.SessionID != "" {
		if id, ok := m.bySession[r.SessionID]; ok {
			return m.results[id-1], nil
		}
	}
	saved := game.PersistedResult{ID: int64(len(m.results) + 1), Result: r}
	saved.Details = append([]game.ResultDetail(nil), r.Details...)
	m.results = append(m.results, saved)
	if r.SessionID != "" {
		m.bySession[r.SessionID] = saved.ID
	}
	return saved, nil
}

func (m *Memory) Result(_ context.Context, id int64) (game.PersistedResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id < 1 || id > int64(len(m.results)) {
		return game.PersistedResult{}, ErrNotFound
	}
	return m.results[id-1], nil
}

func (m *Memory) Leaderboard(_ context.Context, limit int) ([]game.LeaderboardRow, error) {
	m.mu.Lock()
	sorted := append([]game.PersistedResult(nil), m.results...)
	m.mu.Unlock()

	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Score != sorted[j].Score {
			return sorted[i].Score > sorted[j].Score
		}
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})
	limit = min(clampLimit(limit), len(sorted))
	out := make([]game.LeaderboardRow, 0, limit)
	for i := 0; i < limit; i++ {
		out = append(out, game.LeaderboardRow{
			Rank:      int64(i + 1),
			Score:     sorted[i].Score,
			Archetype: sorted[i].Archetype,
			CreatedAt: sorted[i].CreatedAt,
		})
	}
	return out, nil
}
