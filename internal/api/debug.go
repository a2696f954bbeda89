package api

import (
	"net/http"
	"os"
	"time"

	"routeopt/internal/buildinfo"
)

// DebugJSON reports build and runtime configuration. Secrets are reported
// only as presence flags.
func (s *Server) DebugJSON(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"build": buildinfo.Info(),
		"time":  time.Now().UTC().Format(time.RFC3339),
		"config": map[string]any{
			"addr":                 s.Cfg.Server.Addr,
			"solver_seed":          s.Cfg.Solver.Seed,
			"solver_max_rounds":    s.Cfg.Solver.MaxRounds,
			"solver_speed":         s.Cfg.Solver.Speed,
			"auth_mode":            os.Getenv("AUTH_MODE"),
			"webhook_max_attempts": os.Getenv("WEBHOOK_MAX_ATTEMPTS"),
			"has_database_url":     os.Getenv("DATABASE_URL") != "",
			"has_redis_url":        os.Getenv("REDIS_URL") != "",
		},
	})
}
