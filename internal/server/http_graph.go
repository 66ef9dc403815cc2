package server

import (
	"net/http"
	"strconv"

	"github.com/harkline/taskdeck/internal/model"
)

// handleGetGraph handles GET /v1/graph.
// Returns tasks as nodes, dependency edges, and aggregate stats for
// visualization.
func (s *TaskServer) handleGetGraph(w http.ResponseWriter, r *http.Request) {
	limit := 500
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	graph, err := s.store.GetGraph(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get graph")
		return
	}

	writeJSON(w, http.StatusOK, graph)
}

// handleGetStats handles GET /v1/stats.
func (s *TaskServer) handleGetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.GetStats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// handleGetReady handles GET /v1/ready.
// Returns pending tasks whose blocking dependencies are all completed,
// ordered by priority.
func (s *TaskServer) handleGetReady(w http.ResponseWriter, r *http.Request) {
	limit := 200
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	tasks, _, err := s.store.ListTasks(r.Context(), model.TaskFilter{
		Status: []model.Status{model.StatusPending},
		Sort:   "-priority",
		Limit:  limit,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list tasks")
		return
	}

	var ready []*model.Task
	for _, t := range tasks {
		startable, _, err := canStart(r.Context(), s.store, t.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to check dependencies")
			return
		}
		if startable {
			ready = append(ready, t)
		}
	}

	if ready == nil {
		ready = []*model.Task{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"tasks": ready,
		"total": len(ready),
	})
}

// blockedTask pairs a task with the reasons it cannot start.
type blockedTask struct {
	Task            *model.Task `json:"task"`
	BlockingReasons []string    `json:"blocking_reasons"`
}

// handleGetBlocked handles GET /v1/blocked.
// Returns pending tasks that are waiting on incomplete blockers, with the
// reasons spelled out.
func (s *TaskServer) handleGetBlocked(w http.ResponseWriter, r *http.Request) {
	limit := 200
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	tasks, _, err := s.store.ListTasks(r.Context(), model.TaskFilter{
		Status: []model.Status{model.StatusPending},
		Sort:   "-priority",
		Limit:  limit,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list tasks")
		return
	}

	blocked := []*blockedTask{}
	for _, t := range tasks {
		startable, reasons, err := canStart(r.Context(), s.store, t.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to check dependencies")
			return
		}
		if !startable {
			blocked = append(blocked, &blockedTask{Task: t, BlockingReasons: reasons})
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"tasks": blocked,
		"total": len(blocked),
	})
}
