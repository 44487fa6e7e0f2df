package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"seedround/internal/game"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Postgres struct {
	db *pgxpool.Pool
}

func NewPostgres(db *pgxpool.Pool) *Postgres {
	return &Postgres{db: db}
}

// SaveResult is idempotent per session: replays return the stored row.
func (p *Postgres) SaveResult(ctx context.Context, r game.Result) (game.PersistedResult, error) {
	details, err := json.Marshal(r.Details)
	if err != nil {
		return game.PersistedResult{}, fmt.Errorf("encode details: %w", err)
	}
	var id int64
	err = p.db.QueryRow(ctx, `
		INSERT INTO game.results (session_id, score, archetype, details, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (session_id) DO UPDATE SET session_id = EXCLUDED.session_id
		RETURNING id
	`, r.SessionID, r.Score, string(r.Archetype), details, r.CreatedAt).Scan(&id)
	if err != nil {
		return game.PersistedResult{}, fmt.Errorf("insert result: %w", err)
	}
	return game.PersistedResult{ID: id, Result: r}, nil
}

func (p *Postgres) Result(ctx context.Context, id int64) (game.PersistedResult, error) {
	var (
		out       game.PersistedResult
		archetype string
		details   []byte
	)
	err := p.db.QueryRow(ctx, `
		SELECT id, session_id, score, archetype, details, created_at
		FROM game.results
		WHERE id = $1
	`, id).Scan(&out.ID, &out.SessionID, &out.Score, &archetype, &details, &out.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return out, ErrNotFound
	}
	if err != nil {
		return out, err
	}
	out.Archetype = game.Archetype(archetype)
	if err := json.Unmarshal(details, &out.Details); err != nil {
		return out, fmt.Errorf("decode details: %w", err)
	}
	return out, nil
}

func (p *Postgres) Leaderboard(ctx context.Context, limit int) ([]game.LeaderboardRow, error) {
	rows, err := p.db.Query(ctx, `
		SELECT score, archetype, created_at
		FROM game.results
		ORDER BY score DESC, created_at ASC
		LIMIT $1
	`, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []game.LeaderboardRow{}
	var rank int64 = 1
	for rows.Next() {
		var (
			r         game.LeaderboardRow
			archetype string
		)
		if err := rows.Scan(&r.Score, &archetype, &r.CreatedAt); err != nil {
			return nil, err
		}
		r.Archetype = game.Archetype(archetype)
		r.Rank = rank
		rank++
		out = append(out, r)
	}
	return out, rows.Err()
}
