package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/gray-logic-dock/internal/dock"
	"github.com/nerrad567/gray-logic-dock/internal/grid"
)

// healthCheckTimeout bounds each dependency check run by GET /health.
const healthCheckTimeout = 2 * time.Second

// InvokeRequest is the body of POST /invoke.
type InvokeRequest struct {
	// Argument is "Update" to enter automatic mode, or an optional
	// connector name for a manual dock/undock run.
	Argument string `json:"argument"`
}

// handleHealth reports overall health and the result of each dependency check.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	names := make([]string, 0, len(s.checks))
	for name := range s.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := "ok"
	components := make(map[string]string, len(names))
	for _, name := range names {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		err := s.checks[name].HealthCheck(ctx)
		cancel()
		if err != nil {
			status = "degraded"
			components[name] = err.Error()
			continue
		}
		components[name] = "ok"
	}

	code := http.StatusOK
	if status != "ok" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]any{
		"status":     status,
		"version":    s.version,
		"components": components,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.controller.Snapshot())
}

// handleInvoke runs the controller once. An empty body is a manual run with
// the configured connector name.
func (s *Server) handleInvoke(w http.ResponseWriter, r *http.Request) {
	var req InvokeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	s.logger.Info("invoke requested",
		"argument", req.Argument,
		"request_id", requestID(r.Context()),
	)
	s.controller.Invoke(r.Context(), dock.Invocation{
		Argument: req.Argument,
		Source:   dock.SourceAPI,
	})

	writeJSON(w, http.StatusOK, s.controller.Snapshot())
}

func (s *Server) handleListTransitions(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeUnavailable(w, "transition history is not configured")
		return
	}

	limit := dock.DefaultTransitionLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeBadRequest(w, "limit must be a positive integer")
			return
		}
		limit = min(n, dock.MaxTransitionLimit)
	}

	transitions, err := s.history.ListTransitions(r.Context(), limit)
	if err != nil {
		s.logger.Error("listing transitions", "error", err)
		writeInternalError(w, "failed to list transitions")
		return
	}
	if transitions == nil {
		transitions = []dock.Transition{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"transitions": transitions,
		"count":       len(transitions),
	})
}

func (s *Server) handleGetTransition(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeUnavailable(w, "transition history is not configured")
		return
	}

	id := chi.URLParam(r, "id")
	t, err := s.history.GetTransition(r.Context(), id)
	if err != nil {
		if errors.Is(err, dock.ErrTransitionNotFound) {
			writeNotFound(w, "transition not found")
			return
		}
		s.logger.Error("getting transition", "id", id, "error", err)
		writeInternalError(w, "failed to get transition")
		return
	}

	writeJSON(w, http.StatusOK, t)
}

// handleListGrids lists the grids known to the inventory.
func (s *Server) handleListGrids(w http.ResponseWriter, _ *http.Request) {
	if s.blocks == nil {
		writeUnavailable(w, "block inventory is not configured")
		return
	}

	grids := s.blocks.Grids()
	writeJSON(w, http.StatusOK, map[string]any{
		"grids": grids,
		"count": len(grids),
	})
}

// handleListBlocks lists inventory blocks, optionally for one grid.
func (s *Server) handleListBlocks(w http.ResponseWriter, r *http.Request) {
	if s.blocks == nil {
		writeUnavailable(w, "block inventory is not configured")
		return
	}

	blocks := s.blocks.Snapshot(grid.ID(r.URL.Query().Get("grid")))
	writeJSON(w, http.StatusOK, map[string]any{
		"blocks": blocks,
		"count":  len(blocks),
	})
}
