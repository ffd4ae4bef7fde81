// Package scores persists finished-game results behind a small store
// interface, with in-memory and Postgres implementations.
package scores

import (
	"context"
	"time"
)

// Entry is one finished game on the leaderboard.
type Entry struct {
	Name       string    `json:"name"`
	Score      int       `json:"score"`
	Health     int       `json:"health"`
	Reputation int       `json:"fame"`
	EndedAt    time.Time `json:"ended_at"`
}

// TopSize is the leaderboard depth.
const TopSize = 10

// Store records results and serves the leaderboard.
type Store interface {
	Record(ctx context.Context, e Entry) error
	Top(ctx context.Context, limit int) ([]Entry, error)
}
