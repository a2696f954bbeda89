package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"routeopt/internal/metrics"
)

// metricPath collapses record ids out of paths so metric label cardinality
// stays bounded.
func metricPath(p string) string {
	switch {
	case strings.HasPrefix(p, "/v1/solves/"):
		rest := strings.TrimPrefix(p, "/v1/solves/")
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			return "/v1/solves/{id}/" + rest[i+1:]
		}
		return "/v1/solves/{id}"
	case strings.HasPrefix(p, "/v1/subscriptions/"):
		return "/v1/subscriptions/{id}"
	}
	return p
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

// WithMiddleware wraps the mux with rate limiting, request logging, and
// Prometheus instrumentation. WebSocket upgrades bypass the recorder since
// they hijack the connection.
func (s *Server) WithMiddleware(next http.Handler) http.Handler {
	limiter := rate.NewLimiter(rate.Limit(s.Cfg.Server.RateLimitRPS), s.Cfg.Server.RateBurst)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			writeProblem(w, http.StatusTooManyRequests, "Rate limited", "too many requests", r.URL.Path)
			return
		}
		if strings.HasPrefix(r.URL.Path, "/v1/") {
			if _, ok := s.authorize(r); !ok {
				writeProblem(w, http.StatusUnauthorized, "Unauthorized", "valid bearer token with solve access required", r.URL.Path)
				return
			}
		}
		if r.Header.Get("Upgrade") == "websocket" {
			next.ServeHTTP(w, r)
			return
		}
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		dur := time.Since(start)

		status := strconv.Itoa(rec.status)
		path := metricPath(r.URL.Path)
		metrics.HTTPRequests.WithLabelValues(r.Method, path, status).Inc()
		metrics.HTTPDuration.WithLabelValues(r.Method, path, status).Observe(dur.Seconds())
		logrus.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": dur.String(),
			"remote":   r.RemoteAddr,
		}).Info("request")
	})
}
