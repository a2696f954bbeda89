package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"routeopt/internal/model"
	"routeopt/internal/solver"
	"routeopt/internal/store"
)

// Problem represents an RFC7807 problem details response body.
type Problem struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeProblem(w http.ResponseWriter, status int, title, detail, instance string) {
	writeJSON(w, status, Problem{
		Type:     "about:blank",
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: instance,
	})
}

// solveStatus maps solver failures to HTTP statuses. Malformed input is the
// caller's fault; an infeasible fleet is a valid request the solver cannot
// satisfy, so it gets 422.
func solveStatus(err error) (int, string) {
	switch {
	case errors.Is(err, model.ErrMalformedTime):
		return http.StatusBadRequest, "Invalid time window"
	case errors.Is(err, solver.ErrCapacityInfeasible):
		return http.StatusUnprocessableEntity, "Infeasible fleet"
	case errors.Is(err, solver.ErrDataInconsistency):
		return http.StatusBadRequest, "Inconsistent distance data"
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, "Not Found"
	default:
		return http.StatusInternalServerError, "Solve failed"
	}
}
