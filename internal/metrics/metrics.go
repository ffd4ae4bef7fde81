// Package metrics provides Prometheus instrumentation for the game API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// GamesStarted counts games created.
	GamesStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "yoloterm_games_started_total",
		Help: "Total number of games created",
	})

	// GamesEnded counts finished games by end reason.
	GamesEnded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yoloterm_games_ended_total",
		Help: "Total number of games finished",
	}, []string{"reason"})

	// DaysAdvanced counts day transitions across all games.
	DaysAdvanced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "yoloterm_days_advanced_total",
		Help: "Total number of day advances",
	})

	// EventsFired counts random-event messages produced by day advances.
	EventsFired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "yoloterm_events_fired_total",
		Help: "Total number of random events fired",
	})

	// TradesTotal counts executed trades by side.
	TradesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yoloterm_trades_total",
		Help: "Total number of trades executed",
	}, []string{"side"})

	// ActiveGames tracks live sessions in the store.
	ActiveGames = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "yoloterm_active_games",
		Help: "Number of games currently in memory",
	})

	// WebSocketClients tracks connected spectators.
	WebSocketClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "yoloterm_websocket_clients",
		Help: "Number of connected WebSocket clients",
	})

	// HTTPRequestsTotal counts HTTP requests by method, path, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yoloterm_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "path", "status"})

	// HTTPRequestDuration tracks request duration by method and path.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "yoloterm_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
	}, []string{"method", "path"})
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware returns an HTTP middleware that records request metrics.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusWriter{ResponseWriter: w, status: 200}
		next.ServeHTTP(wrapped, r)
		duration := time.Since(start).Seconds()

		path := r.URL.Path
		HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.status)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
