// Package chi wires the HTTP surface: realtime websocket endpoint, health,
// metrics, and the static web client.
package chi

import (
	"context"
	"encoding/json"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	logpkg "github.com/lunavoice/luna/internal/logger"
	"github.com/lunavoice/luna/internal/metrics"
)

// Pinger is a connectivity check against a backing store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server builds the HTTP routing surface.
type Server struct {
	realtime  http.Handler
	flights   Pinger
	kb        Pinger
	staticDir string
	logger    *zap.Logger
}

// NewServer creates the HTTP server surface.
func NewServer(realtime http.Handler, flights, kb Pinger, staticDir string, logger *zap.Logger) *Server {
	return &Server{
		realtime:  realtime,
		flights:   flights,
		kb:        kb,
		staticDir: staticDir,
		logger:    logger,
	}
}

// Router assembles the chi router. The realtime endpoint is mounted outside
// the metrics middleware: the websocket upgrade needs the raw response writer
// to support hijacking.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(s.logger))

	r.Handle("/realtime", s.realtime)

	r.Group(func(r chi.Router) {
		r.Use(metrics.Middleware())

		r.Get("/healthz", s.healthCheck)
		r.Handle("/metrics", promhttp.Handler())

		r.Get("/", func(w http.ResponseWriter, req *http.Request) {
			http.ServeFile(w, req, filepath.Join(s.staticDir, "index.html"))
		})
		r.Handle("/*", http.FileServer(http.Dir(s.staticDir)))
	})

	return r
}

// healthCheck reports connectivity to the flight database and the search
// index.
func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{
		"flights": "ok",
		"kb":      "ok",
	}
	status := http.StatusOK

	if err := s.flights.Ping(r.Context()); err != nil {
		s.logger.Warn("flight database unhealthy", zap.Error(err))
		checks["flights"] = "unavailable"
		status = http.StatusServiceUnavailable
	}
	if err := s.kb.Ping(r.Context()); err != nil {
		s.logger.Warn("knowledge base unhealthy", zap.Error(err))
		checks["kb"] = "unavailable"
		status = http.StatusServiceUnavailable
	}

	state := "healthy"
	if status != http.StatusOK {
		state = "unhealthy"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status": state,
		"checks": checks,
	})
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain
// text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates
// X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
