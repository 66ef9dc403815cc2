package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/harkline/taskdeck/internal/events"
	"github.com/harkline/taskdeck/internal/idgen"
	"github.com/harkline/taskdeck/internal/model"
)

// createUserRequest is the JSON body for POST /v1/users.
type createUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// handleCreateUser handles POST /v1/users.
func (s *TaskServer) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	id, err := idgen.GenerateWithPrefix(idgen.UserPrefix)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate ID")
		return
	}

	user := &model.User{
		ID:        id,
		Name:      req.Name,
		Email:     req.Email,
		CreatedAt: time.Now().UTC(),
	}

	if err := model.ValidateUser(user); err != nil {
		writeError(w, http.StatusBadRequest, "invalid user: "+err.Error())
		return
	}

	if err := s.store.CreateUser(r.Context(), user); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	s.publish(r.Context(), events.TopicUserCreated, events.UserCreated{User: user})

	writeJSON(w, http.StatusCreated, user)
}

// handleListUsers handles GET /v1/users.
func (s *TaskServer) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.store.ListUsers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list users")
		return
	}
	if users == nil {
		users = []*model.User{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": users})
}

// handleGetUser handles GET /v1/users/{id}.
func (s *TaskServer) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.store.GetUser(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err, "user")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// updateUserRequest is the JSON body for PATCH /v1/users/{id}.
type updateUserRequest struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

// handleUpdateUser handles PATCH /v1/users/{id}.
func (s *TaskServer) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	user, err := s.store.GetUser(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "user")
		return
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		user.Email = *req.Email
	}

	if err := model.ValidateUser(user); err != nil {
		writeError(w, http.StatusBadRequest, "invalid user: "+err.Error())
		return
	}

	if err := s.store.UpdateUser(r.Context(), user); err != nil {
		writeServiceError(w, err, "user")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// handleDeleteUser handles DELETE /v1/users/{id}.
func (s *TaskServer) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := s.store.DeleteUser(r.Context(), id); err != nil {
		writeServiceError(w, err, "user")
		return
	}

	s.publish(r.Context(), events.TopicUserDeleted, events.UserDeleted{UserID: id})

	w.WriteHeader(http.StatusNoContent)
}

// createCategoryRequest is the JSON body for POST /v1/categories.
type createCategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// handleCreateCategory handles POST /v1/categories.
func (s *TaskServer) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	id, err := idgen.GenerateWithPrefix(idgen.CategoryPrefix)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate ID")
		return
	}

	category := &model.Category{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		CreatedAt:   time.Now().UTC(),
	}

	if err := model.ValidateCategory(category); err != nil {
		writeError(w, http.StatusBadRequest, "invalid category: "+err.Error())
		return
	}

	if err := s.store.CreateCategory(r.Context(), category); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create category")
		return
	}

	s.publish(r.Context(), events.TopicCategoryCreated, events.CategoryCreated{Category: category})

	writeJSON(w, http.StatusCreated, category)
}

// handleListCategories handles GET /v1/categories.
func (s *TaskServer) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.store.ListCategories(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list categories")
		return
	}
	if categories == nil {
		categories = []*model.Category{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": categories})
}

// handleGetCategory handles GET /v1/categories/{id}.
func (s *TaskServer) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	category, err := s.store.GetCategory(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err, "category")
		return
	}
	writeJSON(w, http.StatusOK, category)
}

// updateCategoryRequest is the JSON body for PATCH /v1/categories/{id}.
type updateCategoryRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// handleUpdateCategory handles PATCH /v1/categories/{id}.
func (s *TaskServer) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req updateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	category, err := s.store.GetCategory(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "category")
		return
	}

	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.Description != nil {
		category.Description = *req.Description
	}

	if err := model.ValidateCategory(category); err != nil {
		writeError(w, http.StatusBadRequest, "invalid category: "+err.Error())
		return
	}

	if err := s.store.UpdateCategory(r.Context(), category); err != nil {
		writeServiceError(w, err, "category")
		return
	}

	writeJSON(w, http.StatusOK, category)
}

// handleDeleteCategory handles DELETE /v1/categories/{id}.
// Tasks referencing the category keep existing; their category link is
// cleared by the foreign key.
func (s *TaskServer) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := s.store.DeleteCategory(r.Context(), id); err != nil {
		writeServiceError(w, err, "category")
		return
	}

	s.publish(r.Context(), events.TopicCategoryDeleted, events.CategoryDeleted{CategoryID: id})

	w.WriteHeader(http.StatusNoContent)
}
