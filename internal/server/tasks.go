package server

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/harkline/taskdeck/internal/events"
	"github.com/harkline/taskdeck/internal/idgen"
	"github.com/harkline/taskdeck/internal/model"
	"github.com/harkline/taskdeck/internal/store"
)

// createTaskInput holds transport-agnostic parameters for creating a task.
type createTaskInput struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    int        `json:"priority"`
	Assignee    string     `json:"assignee"`
	CategoryID  string     `json:"category_id"`
	CreatedBy   string     `json:"created_by"`
	DueAt       *time.Time `json:"due_at,omitempty"`
}

// createTask validates input, persists a new pending task, and publishes a
// TaskCreated event. Returns inputError for validation failures.
func (s *TaskServer) createTask(ctx context.Context, in createTaskInput) (*model.Task, error) {
	if in.Title == "" {
		return nil, inputError("title is required")
	}

	now := time.Now().UTC()
	id, err := idgen.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate ID: %w", err)
	}

	task := &model.Task{
		ID:          id,
		Title:       in.Title,
		Description: in.Description,
		Status:      model.StatusPending,
		Priority:    in.Priority,
		Assignee:    in.Assignee,
		CategoryID:  in.CategoryID,
		CreatedAt:   now,
		CreatedBy:   in.CreatedBy,
		UpdatedAt:   now,
		DueAt:       in.DueAt,
	}

	if err := model.ValidateTask(task); err != nil {
		return nil, inputError("invalid task: " + err.Error())
	}

	if err := s.store.CreateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.recordAndPublish(ctx, events.TopicTaskCreated, &model.Activity{
		TaskID:      task.ID,
		Actor:       task.CreatedBy,
		Kind:        model.ActivityTaskCreated,
		Description: "created " + task.Title,
	}, events.TaskCreated{Task: task})

	return task, nil
}

// updateTaskInput holds transport-agnostic parameters for updating a task.
// Pointer fields indicate optionality: nil means "don't change".
type updateTaskInput struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Status      *string    `json:"status,omitempty"`
	Priority    *int       `json:"priority,omitempty"`
	Assignee    *string    `json:"assignee,omitempty"`
	CategoryID  *string    `json:"category_id,omitempty"`
	DueAt       *time.Time `json:"due_at,omitempty"`
	Actor       string     `json:"actor,omitempty"`

	// dueAtSet tracks whether the field was provided at all (a nil
	// *time.Time means "clear the field", distinct from "not provided").
	dueAtSet bool
}

// updateTask applies partial updates to an existing task. Status changes are
// validated against the transition policy and the dependency graph inside a
// serializable transaction, so a concurrent edge insert or blocker reopen
// cannot slip between the check and the write.
func (s *TaskServer) updateTask(ctx context.Context, id string, in updateTaskInput) (*model.Task, error) {
	var (
		task      *model.Task
		changes   map[string]any
		oldStatus model.Status
	)

	err := s.store.RunInTransaction(ctx, func(tx store.Store) error {
		var err error
		task, err = tx.GetTask(ctx, id)
		if err != nil {
			return err
		}
		oldStatus = task.Status

		changes = make(map[string]any)

		if in.Title != nil {
			task.Title = *in.Title
			changes["title"] = task.Title
		}
		if in.Description != nil {
			task.Description = *in.Description
			changes["description"] = task.Description
		}
		if in.Priority != nil {
			task.Priority = *in.Priority
			changes["priority"] = task.Priority
		}
		if in.Assignee != nil {
			task.Assignee = *in.Assignee
			changes["assignee"] = task.Assignee
		}
		if in.CategoryID != nil {
			task.CategoryID = *in.CategoryID
			changes["category_id"] = task.CategoryID
		}
		if in.dueAtSet {
			if in.DueAt != nil && in.DueAt.IsZero() {
				task.DueAt = nil
			} else {
				task.DueAt = in.DueAt
			}
			changes["due_at"] = task.DueAt
		}

		if in.Status != nil {
			to := model.Status(*in.Status)
			if err := checkStatusChange(ctx, tx, task, to); err != nil {
				return err
			}
			if to != task.Status {
				task.Status = to
				changes["status"] = task.Status
			}
		}

		// Reconcile CompletedAt with status changes.
		now := time.Now().UTC()
		if task.Status == model.StatusCompleted && task.CompletedAt == nil {
			task.CompletedAt = &now
			changes["completed_at"] = task.CompletedAt
		}
		if task.Status != model.StatusCompleted && task.CompletedAt != nil {
			task.CompletedAt = nil
			changes["completed_at"] = task.CompletedAt
		}

		task.UpdatedAt = now

		if err := model.ValidateTask(task); err != nil {
			return inputError("invalid task: " + err.Error())
		}

		return tx.UpdateTask(ctx, task)
	})
	if err != nil {
		return nil, err
	}

	s.recordAndPublish(ctx, events.TopicTaskUpdated, &model.Activity{
		TaskID: task.ID,
		Actor:  in.Actor,
		Kind:   model.ActivityTaskUpdated,
	}, events.TaskUpdated{Task: task, Changes: changes})

	if _, ok := changes["status"]; ok {
		s.recordAndPublish(ctx, events.TopicTaskStatusChanged, &model.Activity{
			TaskID:   task.ID,
			Actor:    in.Actor,
			Kind:     model.ActivityStatusChanged,
			OldValue: oldStatus.String(),
			NewValue: task.Status.String(),
		}, events.TaskStatusChanged{Task: task, OldStatus: oldStatus, NewStatus: task.Status})
	}

	return task, nil
}

// deleteTask removes a task and publishes a TaskDeleted event. Dependency
// edges and comments go with it via foreign key cascade.
func (s *TaskServer) deleteTask(ctx context.Context, id, actor string) error {
	if err := s.store.DeleteTask(ctx, id); err != nil {
		return err
	}

	s.recordAndPublish(ctx, events.TopicTaskDeleted, &model.Activity{
		TaskID: id,
		Actor:  actor,
		Kind:   model.ActivityTaskDeleted,
	}, events.TaskDeleted{TaskID: id})

	return nil
}

// getTask fetches a task with its dependencies and comments attached.
func (s *TaskServer) getTask(ctx context.Context, id string) (*model.Task, error) {
	task, err := s.store.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, sql.ErrNoRows
	}
	return task, nil
}
