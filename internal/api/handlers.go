package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"routeopt/internal/metrics"
	"routeopt/internal/model"
	"routeopt/internal/solver"
	"routeopt/internal/store"
	"routeopt/internal/webhooks"
)

// ClustersHandler handles POST /v1/clusters: sweep clustering only, no
// routing. Useful for previewing fleet usage before a full solve.
func (s *Server) ClustersHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req model.SolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
		return
	}
	if err := validateSolveRequest(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid solve request", err.Error(), r.URL.Path)
		return
	}
	clusters, used, err := solver.BuildClusters(req.Instance)
	if err != nil {
		status, title := solveStatus(err)
		writeProblem(w, status, title, err.Error(), r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, model.ClusterReport{
		TotalClusters: len(clusters),
		Clusters:      clusters,
		FleetUsage:    used,
	})
}

// SolveHandler handles POST /v1/solve: the full pipeline, synchronous.
func (s *Server) SolveHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req model.SolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
		return
	}
	if err := validateSolveRequest(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid solve request", err.Error(), r.URL.Path)
		return
	}
	rec, result, err := s.runSolve(r, req)
	if err != nil {
		status, title := solveStatus(err)
		writeProblem(w, status, title, err.Error(), r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": rec.ID, "createdAt": rec.CreatedAt, "result": result})
}

// runSolve executes the pipeline with config defaults, persists the record,
// and fans out completion events.
func (s *Server) runSolve(r *http.Request, req model.SolveRequest) (store.SolveRecord, *model.SolveResult, error) {
	opts := solver.Options{
		Seed:      s.Cfg.Solver.Seed,
		MaxRounds: s.Cfg.Solver.MaxRounds,
		Speed:     s.Cfg.Solver.Speed,
	}
	if req.Seed != 0 {
		opts.Seed = req.Seed
	}
	if req.MaxRounds != 0 {
		opts.MaxRounds = req.MaxRounds
	}
	if req.Speed != 0 {
		opts.Speed = req.Speed
	}

	start := time.Now()
	result, err := solver.Solve(req.Instance, req.Distances, opts)
	metrics.SolveDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.SolveRuns.WithLabelValues("error").Inc()
		s.Pub.Emit(r.Context(), webhooks.EventSolveFailed, map[string]any{"error": err.Error()})
		return store.SolveRecord{}, nil, err
	}
	metrics.SolveRuns.WithLabelValues("ok").Inc()
	if before := result.Summary.DistanceBefore; before > 0 {
		metrics.DistanceImprovement.Observe((before - result.Summary.DistanceAfter) / before)
	}

	rec, err := s.Store.SaveSolve(r.Context(), req, result)
	if err != nil {
		return store.SolveRecord{}, nil, fmt.Errorf("save solve: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"solve":          rec.ID,
		"clusters":       result.Clustering.TotalClusters,
		"distance_after": result.Summary.DistanceAfter,
	}).Info("solve completed")

	data := map[string]any{
		"solveId":  rec.ID,
		"clusters": result.Clustering.TotalClusters,
		"summary":  result.Summary,
	}
	s.Broker.Publish(rec.ID, SolveEvent{Type: webhooks.EventSolveCompleted, Data: data})
	s.Pub.Emit(r.Context(), webhooks.EventSolveCompleted, data)
	return rec, result, nil
}

// SolvesIndexHandler handles GET /v1/solves
func (s *Server) SolvesIndexHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	cursor := r.URL.Query().Get("cursor")
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		fmt.Sscanf(v, "%d", &limit)
	}
	items, next, err := s.Store.ListSolves(r.Context(), cursor, limit)
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "List solves failed", err.Error(), r.URL.Path)
		return
	}
	if items == nil {
		items = []store.SolveSummary{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "nextCursor": next})
}

// SolveByIDHandler handles GET /v1/solves/{id}, POST /v1/solves/{id}/rerun,
// and GET /v1/solves/{id}/events/ws.
func (s *Server) SolveByIDHandler(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/solves/")
	if rest == r.URL.Path || rest == "" {
		writeProblem(w, http.StatusNotFound, "Not Found", "missing id", r.URL.Path)
		return
	}
	parts := strings.Split(rest, "/")
	id := parts[0]

	if len(parts) > 2 && parts[1] == "events" && parts[2] == "ws" {
		s.solveEventsWS(w, r, id)
		return
	}
	if len(parts) > 1 && parts[1] == "rerun" {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		rec, err := s.Store.GetSolve(r.Context(), id)
		if err != nil {
			status, title := solveStatus(err)
			writeProblem(w, status, title, err.Error(), r.URL.Path)
			return
		}
		s.Broker.Publish(id, SolveEvent{Type: "solve.rerun.started", Data: map[string]any{"solveId": id}})
		newRec, result, err := s.runSolve(r, rec.Request)
		if err != nil {
			s.Broker.Publish(id, SolveEvent{Type: webhooks.EventSolveFailed, Data: map[string]any{"solveId": id, "error": err.Error()}})
			status, title := solveStatus(err)
			writeProblem(w, status, title, err.Error(), r.URL.Path)
			return
		}
		// mirror completion onto the original id channel for watchers
		s.Broker.Publish(id, SolveEvent{Type: webhooks.EventSolveCompleted, Data: map[string]any{
			"solveId": newRec.ID, "rerunOf": id, "summary": result.Summary,
		}})
		writeJSON(w, http.StatusOK, map[string]any{"id": newRec.ID, "rerunOf": id, "result": result})
		return
	}

	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	rec, err := s.Store.GetSolve(r.Context(), id)
	if err != nil {
		status, title := solveStatus(err)
		writeProblem(w, status, title, err.Error(), r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// SubscriptionsHandler handles POST/GET /v1/subscriptions
func (s *Server) SubscriptionsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var req model.SubscriptionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error(), r.URL.Path)
			return
		}
		if req.URL == "" || len(req.Events) == 0 {
			writeProblem(w, http.StatusBadRequest, "Invalid subscription", "url and events are required", r.URL.Path)
			return
		}
		sub, err := s.Store.CreateSubscription(r.Context(), req)
		if err != nil {
			writeProblem(w, http.StatusInternalServerError, "Create subscription failed", err.Error(), r.URL.Path)
			return
		}
		writeJSON(w, http.StatusCreated, sub)
	case http.MethodGet:
		subs, err := s.Store.ListSubscriptions(r.Context())
		if err != nil {
			writeProblem(w, http.StatusInternalServerError, "List subscriptions failed", err.Error(), r.URL.Path)
			return
		}
		if subs == nil {
			subs = []model.Subscription{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": subs})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// SubscriptionByIDHandler handles DELETE /v1/subscriptions/{id}
func (s *Server) SubscriptionByIDHandler(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/subscriptions/")
	if id == "" || r.Method != http.MethodDelete {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := s.Store.DeleteSubscription(r.Context(), id); err != nil {
		status, title := solveStatus(err)
		writeProblem(w, status, title, err.Error(), r.URL.Path)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) ReadyHandler(w http.ResponseWriter, r *http.Request) {
	// readiness probes the store with one cheap list call
	if _, _, err := s.Store.ListSolves(r.Context(), "", 1); err != nil {
		writeProblem(w, http.StatusServiceUnavailable, "Store unavailable", err.Error(), r.URL.Path)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
