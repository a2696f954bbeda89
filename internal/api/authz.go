package api

import (
	"net/http"
	"strings"

	"routeopt/internal/auth"
)

// authorize enforces bearer auth on mutating API calls when a verifier is
// configured. Reads stay open; solves and subscription changes need a role
// that can solve.
func (s *Server) authorize(r *http.Request) (auth.Principal, bool) {
	if s.Auth == nil || !s.Auth.Enabled() {
		return auth.Principal{Role: "admin"}, true
	}
	if r.Method == http.MethodGet {
		return auth.Principal{}, true
	}
	authz := r.Header.Get("Authorization")
	if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
		return auth.Principal{}, false
	}
	pr, err := s.Auth.Verify(strings.TrimSpace(authz[len("Bearer "):]))
	if err != nil || !pr.CanSolve() {
		return auth.Principal{}, false
	}
	return pr, true
}
