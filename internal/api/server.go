// Package api exposes the game over HTTP: one route per in-game action,
// a snapshot endpoint, the high-score board and a spectator WebSocket.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"yoloterm/internal/config"
	"yoloterm/internal/game"
	"yoloterm/internal/metrics"
	"yoloterm/internal/scores"
	"yoloterm/internal/session"
)

type Server struct {
	cfg    config.APIConfig
	log    *slog.Logger
	store  *session.Store
	scores scores.Store
	hub    *wsHub
	mux    *chi.Mux
}

func NewServer(cfg config.APIConfig, logger *slog.Logger, store *session.Store, scoreStore scores.Store) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:    cfg,
		log:    logger,
		store:  store,
		scores: scoreStore,
		hub:    newWSHub(logger),
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler { return s.mux }

// Run starts the hub's broadcast loop. Must be called once before
// serving traffic.
func (s *Server) Run() { go s.hub.Run() }

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	if s.cfg.EnableMetrics {
		r.Use(metrics.Middleware)
		r.Method(http.MethodGet, "/metrics", metrics.Handler())
	}

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/games", s.handleNewGame)
		r.Get("/scores", s.handleHighScores)

		r.Route("/games/{key}", func(r chi.Router) {
			r.Get("/", s.handleSnapshot)
			r.Get("/chart", s.handleChart)
			r.Get("/ws", s.handleWS)
			r.Post("/advance", s.handleAdvance)
			r.Post("/buy", s.handleBuy)
			r.Post("/sell", s.handleSell)
			r.Post("/bank", s.handleBank)
			r.Post("/hospital", s.handleHospital)
			r.Post("/trading-app", s.handleTradingApp)
			r.Post("/darkweb", s.handleDarkweb)
			r.Post("/darkweb/hack", s.handleDarkwebHack)
		})
	})

	s.mux = r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type newGameRequest struct {
	PlayerName string `json:"player_name"`
}

type newGameResponse struct {
	GameID string        `json:"game_id"`
	Token  string        `json:"token"`
	State  game.Snapshot `json:"state"`
}

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h, err := s.store.Create(req.PlayerName)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	metrics.GamesStarted.Inc()

	var snap game.Snapshot
	_ = h.Do(func(sess *game.Session) error {
		snap = sess.Snapshot()
		return nil
	})
	writeJSON(w, http.StatusCreated, newGameResponse{GameID: h.ID, Token: h.Token, State: snap})
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	h, err := s.store.Get(chi.URLParam(r, "key"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	var snap game.Snapshot
	_ = h.Do(func(sess *game.Session) error {
		snap = sess.Snapshot()
		return nil
	})
	writeJSON(w, http.StatusOK, map[string]any{"game_id": h.ID, "state": snap})
}

type advanceResponse struct {
	Report game.AdvanceResult `json:"report"`
	State  game.Snapshot      `json:"state"`
}

func (s *Server) handleAdvance(w http.ResponseWriter, r *http.Request) {
	h, err := s.store.Get(chi.URLParam(r, "key"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	var (
		res  game.AdvanceResult
		snap game.Snapshot
	)
	err = h.Do(func(sess *game.Session) error {
		var err error
		res, err = sess.AdvanceDay()
		if err != nil {
			return err
		}
		snap = sess.Snapshot()
		return nil
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	metrics.DaysAdvanced.Inc()
	metrics.EventsFired.Add(float64(len(res.Messages)))

	s.hub.Broadcast(DayReport{
		GameID:      h.ID,
		Day:         res.Day,
		Messages:    res.Messages,
		NetWorth:    res.NetWorth,
		TotalAssets: res.TotalAssets,
		Ended:       res.Ended,
		Reason:      string(res.Reason),
	})

	if res.Ended {
		metrics.GamesEnded.WithLabelValues(string(res.Reason)).Inc()
		if res.Reason == game.EndDaysExhausted {
			s.recordScore(r.Context(), snap, res)
		}
	}
	writeJSON(w, http.StatusOK, advanceResponse{Report: res, State: snap})
}

func (s *Server) recordScore(ctx context.Context, snap game.Snapshot, res game.AdvanceResult) {
	entry := scores.Entry{
		Name:       snap.Player.Name,
		Score:      res.FinalScore,
		Health:     snap.Player.Health,
		Reputation: snap.Player.Reputation,
		EndedAt:    time.Now().UTC(),
	}
	if err := s.scores.Record(ctx, entry); err != nil {
		s.log.Error("record high score", "player", entry.Name, "err", err)
	}
}

type tradeRequest struct {
	ID     int `json:"id"`
	Amount int `json:"amount"`
}

func (s *Server) handleBuy(w http.ResponseWriter, r *http.Request) {
	s.handleTrade(w, r, "buy", func(sess *game.Session, req tradeRequest) (game.TradeResult, error) {
		return sess.Buy(req.ID, req.Amount)
	})
}

func (s *Server) handleSell(w http.ResponseWriter, r *http.Request) {
	s.handleTrade(w, r, "sell", func(sess *game.Session, req tradeRequest) (game.TradeResult, error) {
		return sess.Sell(req.ID, req.Amount)
	})
}

func (s *Server) handleTrade(w http.ResponseWriter, r *http.Request, side string, exec func(*game.Session, tradeRequest) (game.TradeResult, error)) {
	h, err := s.store.Get(chi.URLParam(r, "key"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	var req tradeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var (
		trade game.TradeResult
		snap  game.Snapshot
	)
	err = h.Do(func(sess *game.Session) error {
		var err error
		trade, err = exec(sess, req)
		if err != nil {
			return err
		}
		snap = sess.Snapshot()
		return nil
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	metrics.TradesTotal.WithLabelValues(side).Inc()
	writeJSON(w, http.StatusOK, map[string]any{"trade": trade, "state": snap})
}

type bankRequest struct {
	Action string `json:"action"`
	Amount int    `json:"amount"`
}

func (s *Server) handleBank(w http.ResponseWriter, r *http.Request) {
	h, err := s.store.Get(chi.URLParam(r, "key"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	var req bankRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var (
		repaid int
		snap   game.Snapshot
	)
	err = h.Do(func(sess *game.Session) error {
		var err error
		switch req.Action {
		case "deposit":
			err = sess.Deposit(req.Amount)
		case "withdraw":
			err = sess.Withdraw(req.Amount)
		case "repay":
			repaid, err = sess.Repay(req.Amount)
		default:
			return errUnknownBankAction
		}
		if err != nil {
			return err
		}
		snap = sess.Snapshot()
		return nil
	})
	if errors.Is(err, errUnknownBankAction) {
		writeError(w, http.StatusBadRequest, "action must be deposit, withdraw or repay")
		return
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := map[string]any{"state": snap}
	if req.Action == "repay" {
		resp["repaid"] = repaid
	}
	writeJSON(w, http.StatusOK, resp)
}

var errUnknownBankAction = errors.New("unknown bank action")

func (s *Server) handleHospital(w http.ResponseWriter, r *http.Request) {
	h, err := s.store.Get(chi.URLParam(r, "key"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	var (
		cost int
		snap game.Snapshot
	)
	err = h.Do(func(sess *game.Session) error {
		var err error
		cost, err = sess.HospitalVisit()
		if err != nil {
			return err
		}
		snap = sess.Snapshot()
		return nil
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"cost": cost, "state": snap})
}

func (s *Server) handleTradingApp(w http.ResponseWriter, r *http.Request) {
	h, err := s.store.Get(chi.URLParam(r, "key"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	var (
		cost int
		snap game.Snapshot
	)
	err = h.Do(func(sess *game.Session) error {
		var err error
		cost, err = sess.UpgradeCapacity()
		if err != nil {
			return err
		}
		snap = sess.Snapshot()
		return nil
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"cost": cost, "state": snap})
}

func (s *Server) handleDarkweb(w http.ResponseWriter, r *http.Request) {
	h, err := s.store.Get(chi.URLParam(r, "key"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	var (
		reward, penalty int
		tips, news      []string
		snap            game.Snapshot
	)
	err = h.Do(func(sess *game.Session) error {
		var err error
		reward, penalty, err = sess.DarkwebVisit()
		if err != nil {
			return err
		}
		tips = sess.RandomTips(3)
		news = sess.RandomNews(2)
		snap = sess.Snapshot()
		return nil
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"reward":  reward,
		"penalty": penalty,
		"tips":    tips,
		"news":    news,
		"state":   snap,
	})
}

func (s *Server) handleDarkwebHack(w http.ResponseWriter, r *http.Request) {
	h, err := s.store.Get(chi.URLParam(r, "key"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	var enabled bool
	err = h.Do(func(sess *game.Session) error {
		var err error
		enabled, err = sess.EnableHacking()
		return err
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"enabled": enabled})
}

type chartResponse struct {
	PlayerName    string         `json:"player_name"`
	History       []game.DayStat `json:"history"`
	GameCompleted bool           `json:"game_completed"`
	Reason        game.EndReason `json:"reason,omitempty"`
	NetWorth      int            `json:"net_worth"`
	TotalAssets   int            `json:"total_assets"`
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	h, err := s.store.Get(chi.URLParam(r, "key"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	var resp chartResponse
	_ = h.Do(func(sess *game.Session) error {
		p := sess.Player()
		resp = chartResponse{
			PlayerName:    p.Name,
			History:       sess.History(),
			GameCompleted: sess.Ended(),
			Reason:        sess.Reason(),
			NetWorth:      p.NetWorth(),
			TotalAssets:   p.NetWorth() + sess.PortfolioValue(),
		}
		return nil
	})
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHighScores(w http.ResponseWriter, r *http.Request) {
	top, err := s.scores.Top(r.Context(), scores.TopSize)
	if err != nil {
		s.log.Error("load high scores", "err", err)
		writeError(w, http.StatusInternalServerError, "could not load high scores")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"scores": top})
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	h, err := s.store.Get(chi.URLParam(r, "key"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	s.hub.HandleWS(h.ID, w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.New("invalid JSON body")
	}
	return nil
}

// writeDomainError maps game errors onto HTTP status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrNotFound),
		errors.Is(err, game.ErrInstrumentNotFound),
		errors.Is(err, game.ErrNotHeld):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, game.ErrGameOver):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, game.ErrInvalidAmount),
		errors.Is(err, game.ErrInsufficientFunds),
		errors.Is(err, game.ErrInsufficientSavings),
		errors.Is(err, game.ErrInsufficientQuantity),
		errors.Is(err, game.ErrNotTradable),
		errors.Is(err, game.ErrCapacityExceeded),
		errors.Is(err, game.ErrCapacityMaxed),
		errors.Is(err, game.ErrFullHealth),
		errors.Is(err, game.ErrVisitsExhausted),
		errors.Is(err, game.ErrInvalidEffect):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
