package scores

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres stores results in a single table via pgx.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// EnsureSchema creates the scores table if it does not exist yet.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS high_scores (
    id         BIGSERIAL PRIMARY KEY,
    name       TEXT NOT NULL,
    score      BIGINT NOT NULL,
    health     INT NOT NULL,
    reputation INT NOT NULL,
    ended_at   TIMESTAMPTZ NOT NULL DEFAULT now()
)`)
	if err != nil {
		return fmt.Errorf("ensure high_scores schema: %w", err)
	}
	return nil
}

func (p *Postgres) Record(ctx context.Context, e Entry) error {
	_, err := p.pool.Exec(ctx, `
INSERT INTO high_scores (name, score, health, reputation, ended_at)
VALUES ($1, $2, $3, $4, $5)`,
		e.Name, e.Score, e.Health, e.Reputation, e.EndedAt)
	if err != nil {
		return fmt.Errorf("record score: %w", err)
	}
	return nil
}

func (p *Postgres) Top(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = TopSize
	}
	rows, err := p.pool.Query(ctx, `
SELECT name, score, health, reputation, ended_at
FROM high_scores
ORDER BY score DESC, ended_at ASC
LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query top scores: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Name, &e.Score, &e.Health, &e.Reputation, &e.EndedAt); err != nil {
			return nil, fmt.Errorf("scan score row: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate score rows: %w", err)
	}
	return out, nil
}
