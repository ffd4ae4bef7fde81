package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"yoloterm/internal/metrics"
)

// DayReport is the JSON payload pushed to spectators after each day
// advance of the game they watch.
type DayReport struct {
	GameID      string   `json:"game_id"`
	Day         int      `json:"day"`
	Messages    []string `json:"messages"`
	NetWorth    int      `json:"net_worth"`
	TotalAssets int      `json:"total_assets"`
	Ended       bool     `json:"ended"`
	Reason      string   `json:"reason,omitempty"`
}

const (
	wsWriteWait    = 10 * time.Second
	wsPongWait     = 60 * time.Second
	wsPingInterval = 30 * time.Second
)

type wsSubscription struct {
	conn   *websocket.Conn
	gameID string
}

// wsHub fans day reports out to spectators. Each connection watches a
// single game id.
type wsHub struct {
	log          *slog.Logger
	clients      map[*websocket.Conn]string
	broadcast    chan []byte
	register     chan wsSubscription
	unregister   chan *websocket.Conn
	pingInterval time.Duration
	mu           sync.RWMutex
}

func newWSHub(logger *slog.Logger) *wsHub {
	if logger == nil {
		logger = slog.Default()
	}
	return &wsHub{
		log:          logger,
		clients:      make(map[*websocket.Conn]string),
		broadcast:    make(chan []byte, 256),
		register:     make(chan wsSubscription),
		unregister:   make(chan *websocket.Conn),
		pingInterval: wsPingInterval,
	}
}

// Run starts the hub's main event loop. Must be called in a goroutine.
func (h *wsHub) Run() {
	for {
		select {
		case sub := <-h.register:
			h.mu.Lock()
			h.clients[sub.conn] = sub.gameID
			h.mu.Unlock()
			metrics.WebSocketClients.Inc()
			h.log.Info("ws client connected", "game_id", sub.gameID)

		case conn := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
				metrics.WebSocketClients.Dec()
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			var report DayReport
			if err := json.Unmarshal(msg, &report); err != nil {
				continue
			}
			h.mu.Lock()
			for conn, gameID := range h.clients {
				if gameID != report.GameID {
					continue
				}
				if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
					conn.Close()
					delete(h.clients, conn)
					metrics.WebSocketClients.Dec()
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast queues a day report for delivery, dropping it when the
// buffer is full so advances never block on slow spectators.
func (h *wsHub) Broadcast(report DayReport) {
	data, err := json.Marshal(report)
	if err != nil {
		return
	}
	select {
	case h.broadcast <- data:
	default:
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

// HandleWS upgrades a spectator connection for one game id.
func (h *wsHub) HandleWS(gameID string, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("ws upgrade failed", "err", err)
		return
	}

	h.register <- wsSubscription{conn: conn, gameID: gameID}

	// Read pump: keep the connection alive and detect disconnects.
	go func() {
		defer func() { h.unregister <- conn }()
		conn.SetReadDeadline(time.Now().Add(wsPongWait))
		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(wsPongWait))
			return nil
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()

	// Ping ticker to keep the connection alive through proxies. Data
	// frames go out on the hub loop only; pings use WriteControl, which
	// is safe alongside a concurrent writer.
	go func() {
		ticker := time.NewTicker(h.pingInterval)
		defer ticker.Stop()
		for range ticker.C {
			h.mu.RLock()
			_, ok := h.clients[conn]
			h.mu.RUnlock()
			if !ok {
				return
			}
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return
			}
		}
	}()
}
