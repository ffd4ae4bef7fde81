package session

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"yoloterm/internal/game"
	"yoloterm/internal/metrics"
)

func TestStoreCreateAndLookup(t *testing.T) {
	s := NewStore(nil, time.Hour)
	h, err := s.Create("mandy")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(h.ID) != 5 {
		t.Fatalf("id=%q want five digits", h.ID)
	}
	if h.Token == "" {
		t.Fatalf("missing token")
	}

	byID, err := s.Get(h.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	byToken, err := s.Get(h.Token)
	if err != nil {
		t.Fatalf("get by token: %v", err)
	}
	if byID != h || byToken != h {
		t.Fatalf("id and token must resolve to the same handle")
	}

	if _, err := s.Get("00000"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestStoreNameValidation(t *testing.T) {
	s := NewStore(nil, time.Hour)
	if _, err := s.Create(""); err == nil {
		t.Fatalf("empty name should fail")
	}
	if _, err := s.Create("unreasonably-long-name"); err == nil {
		t.Fatalf("overlong name should fail")
	}
	if _, err := s.Create("emoji😀"); err == nil {
		t.Fatalf("non-ASCII name should fail")
	}

	// A name at the limit passes validation and is stored verbatim,
	// trimmed of surrounding whitespace.
	h, err := s.Create("  maxlen4049  ")
	if err != nil {
		t.Fatalf("max-length name: %v", err)
	}
	if err := h.Do(func(sess *game.Session) error {
		if sess.Player().Name != "maxlen4049" {
			t.Errorf("name=%q want %q", sess.Player().Name, "maxlen4049")
		}
		return nil
	}); err != nil {
		t.Fatalf("do: %v", err)
	}
}

func TestStoreSweep(t *testing.T) {
	s := NewStore(nil, time.Minute)
	h, err := s.Create("mandy")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got := testutil.ToFloat64(metrics.ActiveGames); got != 1 {
		t.Fatalf("active games gauge=%v want 1", got)
	}
	if n := s.Sweep(time.Now()); n != 0 {
		t.Fatalf("fresh game evicted: %d", n)
	}
	if n := s.Sweep(time.Now().Add(2 * time.Minute)); n != 1 {
		t.Fatalf("evicted=%d want 1", n)
	}
	if s.Len() != 0 {
		t.Fatalf("len=%d want 0", s.Len())
	}
	if _, err := s.Get(h.Token); !errors.Is(err, ErrNotFound) {
		t.Fatalf("token index not cleaned: %v", err)
	}
	// Eviction keeps the gauge honest without waiting for a create.
	if got := testutil.ToFloat64(metrics.ActiveGames); got != 0 {
		t.Fatalf("active games gauge=%v want 0", got)
	}
}

func TestHandleDoSerializes(t *testing.T) {
	s := NewStore(nil, time.Hour)
	h, err := s.Create("mandy")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Hammer one session from many goroutines; the used counter must
	// stay consistent with the deposits performed.
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = h.Do(func(sess *game.Session) error {
				return sess.Deposit(10)
			})
		}()
	}
	wg.Wait()

	if err := h.Do(func(sess *game.Session) error {
		if sess.Player().BankSavings != 500 {
			t.Errorf("savings=%d want 500", sess.Player().BankSavings)
		}
		if sess.Player().Cash != game.StartingCash-500 {
			t.Errorf("cash=%d", sess.Player().Cash)
		}
		return nil
	}); err != nil {
		t.Fatalf("do: %v", err)
	}
}
