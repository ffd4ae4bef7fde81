package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"yoloterm/internal/config"
	"yoloterm/internal/scores"
	"yoloterm/internal/session"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store := session.NewStore(nil, time.Hour)
	srv := NewServer(config.APIConfig{}, nil, store, scores.NewMemory())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url string, body any) (int, map[string]json.RawMessage) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	var out map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp.StatusCode, out
}

func createGame(t *testing.T, ts *httptest.Server) (gameID, token string) {
	t.Helper()
	status, out := doJSON(t, http.MethodPost, ts.URL+"/v1/games", map[string]string{"player_name": "mandy"})
	if status != http.StatusCreated {
		t.Fatalf("new game status=%d", status)
	}
	if err := json.Unmarshal(out["game_id"], &gameID); err != nil {
		t.Fatalf("game_id: %v", err)
	}
	if err := json.Unmarshal(out["token"], &token); err != nil {
		t.Fatalf("token: %v", err)
	}
	return gameID, token
}

func TestNewGameAndSnapshot(t *testing.T) {
	ts := newTestServer(t)
	gameID, token := createGame(t, ts)
	if len(gameID) != 5 {
		t.Fatalf("game id %q not five digits", gameID)
	}

	// Both the id and the token resolve the same game.
	for _, key := range []string{gameID, token} {
		status, out := doJSON(t, http.MethodGet, ts.URL+"/v1/games/"+key, nil)
		if status != http.StatusOK {
			t.Fatalf("snapshot via %q status=%d", key, status)
		}
		var state struct {
			Player struct {
				Name     string `json:"name"`
				Cash     int    `json:"cash"`
				DaysLeft int    `json:"days_left"`
			} `json:"player"`
			Quotes []struct {
				ID int `json:"id"`
			} `json:"available_stocks"`
		}
		if err := json.Unmarshal(out["state"], &state); err != nil {
			t.Fatalf("state: %v", err)
		}
		if state.Player.Name != "mandy" || state.Player.Cash != 2000 || state.Player.DaysLeft != 40 {
			t.Fatalf("unexpected player state %+v", state.Player)
		}
		if len(state.Quotes) != 8 {
			t.Fatalf("quotes=%d want 8 on day one", len(state.Quotes))
		}
	}
}

func TestNewGameRejectsBadNames(t *testing.T) {
	ts := newTestServer(t)
	for _, name := range []string{"", "waytoolongname", "émile"} {
		status, _ := doJSON(t, http.MethodPost, ts.URL+"/v1/games", map[string]string{"player_name": name})
		if status != http.StatusBadRequest {
			t.Fatalf("name %q status=%d want 400", name, status)
		}
	}
}

func TestBuyAndBankFlow(t *testing.T) {
	ts := newTestServer(t)
	gameID, _ := createGame(t, ts)
	base := ts.URL + "/v1/games/" + gameID

	// Cato Coin costs at most 55 on day one, always affordable.
	status, out := doJSON(t, http.MethodPost, base+"/buy", map[string]int{"id": 2, "amount": 1})
	if status != http.StatusOK {
		t.Fatalf("buy status=%d body=%v", status, out)
	}
	var trade struct {
		Symbol   string `json:"symbol"`
		Quantity int    `json:"quantity"`
		Total    int    `json:"total"`
	}
	if err := json.Unmarshal(out["trade"], &trade); err != nil {
		t.Fatalf("trade: %v", err)
	}
	if trade.Symbol != "CATO" || trade.Quantity != 1 || trade.Total < 5 || trade.Total > 55 {
		t.Fatalf("unexpected trade %+v", trade)
	}

	status, _ = doJSON(t, http.MethodPost, base+"/bank", map[string]any{"action": "deposit", "amount": 500})
	if status != http.StatusOK {
		t.Fatalf("deposit status=%d", status)
	}
	status, _ = doJSON(t, http.MethodPost, base+"/bank", map[string]any{"action": "withdraw", "amount": 10000})
	if status != http.StatusBadRequest {
		t.Fatalf("overdrawn withdraw status=%d want 400", status)
	}
	status, _ = doJSON(t, http.MethodPost, base+"/bank", map[string]any{"action": "gamble", "amount": 1})
	if status != http.StatusBadRequest {
		t.Fatalf("unknown action status=%d want 400", status)
	}
}

func TestErrorMapping(t *testing.T) {
	ts := newTestServer(t)
	gameID, _ := createGame(t, ts)
	base := ts.URL + "/v1/games/" + gameID

	status, _ := doJSON(t, http.MethodGet, ts.URL+"/v1/games/00000", nil)
	if status != http.StatusNotFound {
		t.Fatalf("missing game status=%d want 404", status)
	}
	status, _ = doJSON(t, http.MethodPost, base+"/buy", map[string]int{"id": 2, "amount": 0})
	if status != http.StatusBadRequest {
		t.Fatalf("zero amount status=%d want 400", status)
	}
	status, _ = doJSON(t, http.MethodPost, base+"/buy", map[string]int{"id": 99, "amount": 1})
	if status != http.StatusNotFound {
		t.Fatalf("unknown instrument status=%d want 404", status)
	}
	status, _ = doJSON(t, http.MethodPost, base+"/sell", map[string]int{"id": 3, "amount": 1})
	if status != http.StatusNotFound {
		t.Fatalf("sell unheld status=%d want 404", status)
	}
	status, _ = doJSON(t, http.MethodPost, base+"/buy", map[string]any{"bogus": true})
	if status != http.StatusBadRequest {
		t.Fatalf("unknown field status=%d want 400", status)
	}
}

func TestAdvanceAndChart(t *testing.T) {
	ts := newTestServer(t)
	gameID, _ := createGame(t, ts)
	base := ts.URL + "/v1/games/" + gameID

	status, out := doJSON(t, http.MethodPost, base+"/advance", nil)
	if status != http.StatusOK {
		t.Fatalf("advance status=%d", status)
	}
	var report struct {
		Day   int  `json:"day"`
		Ended bool `json:"ended"`
	}
	if err := json.Unmarshal(out["report"], &report); err != nil {
		t.Fatalf("report: %v", err)
	}
	if report.Day != 2 || report.Ended {
		t.Fatalf("unexpected report %+v", report)
	}

	status, out = doJSON(t, http.MethodGet, base+"/chart", nil)
	if status != http.StatusOK {
		t.Fatalf("chart status=%d", status)
	}
	var history []struct {
		Day int `json:"day"`
	}
	if err := json.Unmarshal(out["history"], &history); err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 || history[0].Day != 1 || history[1].Day != 2 {
		t.Fatalf("unexpected history %+v", history)
	}
}

func TestFullRunRecordsHighScore(t *testing.T) {
	ts := newTestServer(t)
	gameID, _ := createGame(t, ts)
	base := ts.URL + "/v1/games/" + gameID

	ended := false
	for i := 0; i < 60 && !ended; i++ {
		status, out := doJSON(t, http.MethodPost, base+"/advance", nil)
		if status == http.StatusConflict {
			break
		}
		if status != http.StatusOK {
			t.Fatalf("advance %d status=%d", i, status)
		}
		var report struct {
			Ended bool `json:"ended"`
		}
		if err := json.Unmarshal(out["report"], &report); err != nil {
			t.Fatalf("report: %v", err)
		}
		ended = report.Ended
	}
	if !ended {
		t.Fatalf("game never ended")
	}

	status, _ := doJSON(t, http.MethodPost, base+"/advance", nil)
	if status != http.StatusConflict {
		t.Fatalf("advance after end status=%d want 409", status)
	}

	status, out := doJSON(t, http.MethodGet, ts.URL+"/v1/scores", nil)
	if status != http.StatusOK {
		t.Fatalf("scores status=%d", status)
	}
	var entries []struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(out["scores"], &entries); err != nil {
		t.Fatalf("scores: %v", err)
	}
	// Death before day 40 keeps the player off the board.
	status, chart := doJSON(t, http.MethodGet, base+"/chart", nil)
	if status != http.StatusOK {
		t.Fatalf("chart status=%d", status)
	}
	var reason string
	if raw, ok := chart["reason"]; ok {
		if err := json.Unmarshal(raw, &reason); err != nil {
			t.Fatalf("reason: %v", err)
		}
	}
	if reason == "DAYS_OVER" {
		if len(entries) != 1 || entries[0].Name != "mandy" {
			t.Fatalf("expected mandy on the board, got %+v", entries)
		}
	} else if len(entries) != 0 {
		t.Fatalf("expected empty board after %s, got %+v", reason, entries)
	}
}

func TestDarkwebAndHospital(t *testing.T) {
	ts := newTestServer(t)
	gameID, _ := createGame(t, ts)
	base := ts.URL + "/v1/games/" + gameID

	for i := 0; i < 3; i++ {
		status, out := doJSON(t, http.MethodPost, base+"/darkweb", nil)
		if status != http.StatusOK {
			t.Fatalf("darkweb visit %d status=%d body=%v", i, status, out)
		}
		var tips []string
		if err := json.Unmarshal(out["tips"], &tips); err != nil {
			t.Fatalf("tips: %v", err)
		}
		if len(tips) != 3 {
			t.Fatalf("tips=%d want 3", len(tips))
		}
	}
	status, _ := doJSON(t, http.MethodPost, base+"/darkweb", nil)
	if status != http.StatusBadRequest {
		t.Fatalf("fourth visit status=%d want 400", status)
	}

	// Darkweb visits dent health, so treatment is purchasable if cash
	// allows; at full health it is a 400.
	status, out := doJSON(t, http.MethodPost, base+"/hospital", nil)
	if status == http.StatusOK {
		var cost int
		if err := json.Unmarshal(out["cost"], &cost); err != nil {
			t.Fatalf("cost: %v", err)
		}
		if cost < 200 {
			t.Fatalf("cost=%d below copay", cost)
		}
		status, _ = doJSON(t, http.MethodPost, base+"/hospital", nil)
		if status != http.StatusBadRequest {
			t.Fatalf("second visit status=%d want 400", status)
		}
	} else if status != http.StatusBadRequest {
		t.Fatalf("hospital status=%d", status)
	}

	status, out = doJSON(t, http.MethodPost, base+"/darkweb/hack", nil)
	if status != http.StatusOK {
		t.Fatalf("hack status=%d", status)
	}
	var enabled bool
	if err := json.Unmarshal(out["enabled"], &enabled); err != nil {
		t.Fatalf("enabled: %v", err)
	}
	if !enabled {
		t.Fatalf("first hack call should flip the latch")
	}
	status, out = doJSON(t, http.MethodPost, base+"/darkweb/hack", nil)
	if status != http.StatusOK {
		t.Fatalf("second hack status=%d", status)
	}
	if err := json.Unmarshal(out["enabled"], &enabled); err != nil {
		t.Fatalf("enabled: %v", err)
	}
	if enabled {
		t.Fatalf("latch is one way")
	}
}

func TestTradingAppUpgrade(t *testing.T) {
	ts := newTestServer(t)
	gameID, _ := createGame(t, ts)
	base := fmt.Sprintf("%s/v1/games/%s", ts.URL, gameID)

	// Sticker price is far beyond starting cash.
	status, _ := doJSON(t, http.MethodPost, base+"/trading-app", nil)
	if status != http.StatusBadRequest {
		t.Fatalf("broke upgrade status=%d want 400", status)
	}
}
