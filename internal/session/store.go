// Package session owns the in-memory registry of running games. Each
// game has one canonical id key plus a token secondary index, and a
// handle that serializes all access to the underlying game state, so the
// core never needs locks of its own.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"yoloterm/internal/game"
	"yoloterm/internal/metrics"
)

var ErrNotFound = errors.New("game not found")

const (
	// MaxNameLen is the longest accepted player name.
	MaxNameLen = 10

	// DefaultIdleTTL is how long an untouched game survives before the
	// janitor evicts it.
	DefaultIdleTTL = 24 * time.Hour
)

// Handle is the owned view of one game. All reads and writes go through
// Do, which serializes callers per game.
type Handle struct {
	ID    string
	Token string

	mu       sync.Mutex
	sess     *game.Session
	lastUsed time.Time
}

// Do runs fn with exclusive access to the game session and refreshes the
// idle clock.
func (h *Handle) Do(fn func(*game.Session) error) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastUsed = time.Now()
	return fn(h.sess)
}

// Store maps game ids and tokens to handles.
type Store struct {
	log     *slog.Logger
	idleTTL time.Duration

	mu      sync.RWMutex
	byID    map[string]*Handle
	byToken map[string]*Handle
	rng     *rand.Rand
}

func NewStore(logger *slog.Logger, idleTTL time.Duration) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}
	return &Store{
		log:     logger,
		idleTTL: idleTTL,
		byID:    make(map[string]*Handle),
		byToken: make(map[string]*Handle),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ValidateName rejects empty, overlong and non-ASCII player names.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("player name is required")
	}
	if len(name) > MaxNameLen {
		return fmt.Errorf("player name must be at most %d characters", MaxNameLen)
	}
	for _, r := range name {
		if r > 127 {
			return fmt.Errorf("player name must be ASCII only (no emoji)")
		}
	}
	return nil
}

// Create registers a new game under a fresh five-digit id and a token.
func (s *Store) Create(name string) (*Handle, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)

	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextIDLocked()
	h := &Handle{
		ID:       id,
		Token:    uuid.NewString(),
		sess:     game.NewSession(name),
		lastUsed: time.Now(),
	}
	s.byID[id] = h
	s.byToken[h.Token] = h
	metrics.ActiveGames.Set(float64(len(s.byID)))
	s.log.Info("game created", "game_id", id, "player", name)
	return h, nil
}

// Get resolves a game by id or by token.
func (s *Store) Get(key string) (*Handle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if h, ok := s.byID[key]; ok {
		return h, nil
	}
	if h, ok := s.byToken[key]; ok {
		return h, nil
	}
	return nil, ErrNotFound
}

// Len reports the number of live games.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// Sweep evicts games idle longer than the TTL and returns how many were
// dropped.
func (s *Store) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	evicted := 0
	for id, h := range s.byID {
		h.mu.Lock()
		idle := now.Sub(h.lastUsed)
		h.mu.Unlock()
		if idle < s.idleTTL {
			continue
		}
		delete(s.byID, id)
		delete(s.byToken, h.Token)
		evicted++
	}
	metrics.ActiveGames.Set(float64(len(s.byID)))
	if evicted > 0 {
		s.log.Info("idle games evicted", "count", evicted, "remaining", len(s.byID))
	}
	return evicted
}

// Janitor sweeps on the given interval until the context ends.
func (s *Store) Janitor(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.Sweep(now)
		}
	}
}

// nextIDLocked draws five-digit ids until one is free. Callers hold the
// store lock.
func (s *Store) nextIDLocked() string {
	for {
		id := fmt.Sprintf("%d", 10000+s.rng.Intn(90000))
		if _, ok := s.byID[id]; !ok {
			return id
		}
	}
}
