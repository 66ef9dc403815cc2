package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/harkline/taskdeck/internal/model"
	"github.com/harkline/taskdeck/internal/store"
)

// header is the first JSONL record written by ExportJSONL.
type header struct {
	Version       string    `json:"version"`
	Type          string    `json:"type"`
	Timestamp     time.Time `json:"timestamp"`
	TaskCount     int       `json:"task_count"`
	UserCount     int       `json:"user_count"`
	CategoryCount int       `json:"category_count"`
}

// record wraps a single JSONL line with a type discriminator.
type record struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// ExportJSONL writes all tasks, users, and categories from the store as JSONL
// to w. Tasks are sorted by ID and include embedded dependencies and comments.
func ExportJSONL(ctx context.Context, s store.Store, w io.Writer) error {
	// Fetch all tasks (no filter, no limit).
	tasks, _, err := s.ListTasks(ctx, model.TaskFilter{Sort: "created_at"})
	if err != nil {
		return fmt.Errorf("list tasks: %w", err)
	}

	// Populate relational data for each task.
	for _, t := range tasks {
		deps, err := s.GetDependencies(ctx, t.ID)
		if err != nil {
			return fmt.Errorf("get dependencies for %s: %w", t.ID, err)
		}
		t.Dependencies = deps

		comments, err := s.GetComments(ctx, t.ID)
		if err != nil {
			return fmt.Errorf("get comments for %s: %w", t.ID, err)
		}
		t.Comments = comments
	}

	// Sort tasks by ID.
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].ID < tasks[j].ID
	})

	users, err := s.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}

	categories, err := s.ListCategories(ctx)
	if err != nil {
		return fmt.Errorf("list categories: %w", err)
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	// Write header.
	if err := enc.Encode(header{
		Version:       "1",
		Type:          "header",
		Timestamp:     time.Now().UTC(),
		TaskCount:     len(tasks),
		UserCount:     len(users),
		CategoryCount: len(categories),
	}); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}

	for _, t := range tasks {
		if err := enc.Encode(record{Type: "task", Data: t}); err != nil {
			return fmt.Errorf("encode task %s: %w", t.ID, err)
		}
	}

	for _, u := range users {
		if err := enc.Encode(record{Type: "user", Data: u}); err != nil {
			return fmt.Errorf("encode user %s: %w", u.ID, err)
		}
	}

	for _, c := range categories {
		if err := enc.Encode(record{Type: "category", Data: c}); err != nil {
			return fmt.Errorf("encode category %s: %w", c.ID, err)
		}
	}

	return nil
}
