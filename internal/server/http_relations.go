package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/harkline/taskdeck/internal/events"
	"github.com/harkline/taskdeck/internal/model"
)

// handleGetDependencies handles GET /v1/tasks/{id}/dependencies.
// The response groups edges by direction and includes the startability
// verdict for the task.
func (s *TaskServer) handleGetDependencies(w http.ResponseWriter, r *http.Request) {
	taskID := r.PathValue("id")
	if taskID == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	view, err := s.getDependencyView(r.Context(), taskID)
	if err != nil {
		writeServiceError(w, err, "task")
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// addDependencyRequest is the JSON body for POST /v1/tasks/{id}/dependencies.
type addDependencyRequest struct {
	DependsOnID string `json:"depends_on_id"`
	CreatedBy   string `json:"created_by"`
}

// handleAddDependency handles POST /v1/tasks/{id}/dependencies.
func (s *TaskServer) handleAddDependency(w http.ResponseWriter, r *http.Request) {
	taskID := r.PathValue("id")
	if taskID == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	var req addDependencyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	dep, err := s.addDependency(r.Context(), taskID, req.DependsOnID, req.CreatedBy)
	if err != nil {
		writeServiceError(w, err, "task")
		return
	}

	writeJSON(w, http.StatusCreated, dep)
}

// handleRemoveDependency handles DELETE /v1/tasks/{id}/dependencies.
// depends_on_id is taken from a query parameter.
func (s *TaskServer) handleRemoveDependency(w http.ResponseWriter, r *http.Request) {
	taskID := r.PathValue("id")
	if taskID == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	q := r.URL.Query()
	dependsOnID := q.Get("depends_on_id")
	if dependsOnID == "" {
		writeError(w, http.StatusBadRequest, "depends_on_id query parameter is required")
		return
	}

	if err := s.removeDependencyBetween(r.Context(), taskID, dependsOnID, q.Get("actor")); err != nil {
		writeServiceError(w, err, "dependency")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleRemoveDependencyByID handles DELETE /v1/dependencies/{id}.
func (s *TaskServer) handleRemoveDependencyByID(w http.ResponseWriter, r *http.Request) {
	idStr := r.PathValue("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid dependency id")
		return
	}

	if err := s.removeDependencyByID(r.Context(), id, r.URL.Query().Get("actor")); err != nil {
		writeServiceError(w, err, "dependency")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleGetComments handles GET /v1/tasks/{id}/comments.
func (s *TaskServer) handleGetComments(w http.ResponseWriter, r *http.Request) {
	taskID := r.PathValue("id")
	if taskID == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	comments, err := s.store.GetComments(r.Context(), taskID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get comments")
		return
	}

	if comments == nil {
		comments = []*model.Comment{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"comments": comments})
}

// addCommentRequest is the JSON body for POST /v1/tasks/{id}/comments.
type addCommentRequest struct {
	Author string `json:"author"`
	Text   string `json:"text"`
}

// handleAddComment handles POST /v1/tasks/{id}/comments.
func (s *TaskServer) handleAddComment(w http.ResponseWriter, r *http.Request) {
	taskID := r.PathValue("id")
	if taskID == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	var req addCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	if _, err := s.getTask(r.Context(), taskID); err != nil {
		writeServiceError(w, err, "task")
		return
	}

	comment := &model.Comment{
		TaskID:    taskID,
		Author:    req.Author,
		Text:      req.Text,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.store.AddComment(r.Context(), comment); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to add comment")
		return
	}

	s.recordAndPublish(r.Context(), events.TopicCommentAdded, &model.Activity{
		TaskID: comment.TaskID,
		Actor:  comment.Author,
		Kind:   model.ActivityCommentAdded,
	}, events.CommentAdded{Comment: comment})

	writeJSON(w, http.StatusCreated, comment)
}

// handleGetActivity handles GET /v1/tasks/{id}/activity.
func (s *TaskServer) handleGetActivity(w http.ResponseWriter, r *http.Request) {
	taskID := r.PathValue("id")
	if taskID == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	acts, err := s.store.GetActivity(r.Context(), taskID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get activity")
		return
	}

	if acts == nil {
		acts = []*model.Activity{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"activity": acts})
}
