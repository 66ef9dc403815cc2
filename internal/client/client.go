// Package client provides a transport-agnostic interface for the taskdeck
// service and an HTTP/JSON implementation that talks to the taskdeck REST API.
package client

import (
	"context"
	"time"

	"github.com/harkline/taskdeck/internal/model"
)

// TaskClient is the interface that all taskdeck CLI commands use to
// communicate with the server. It is implemented by HTTPClient.
type TaskClient interface {
	// Task CRUD
	CreateTask(ctx context.Context, req *CreateTaskRequest) (*model.Task, error)
	GetTask(ctx context.Context, id string) (*model.Task, error)
	ListTasks(ctx context.Context, req *ListTasksRequest) (*ListTasksResponse, error)
	UpdateTask(ctx context.Context, id string, req *UpdateTaskRequest) (*model.Task, error)
	DeleteTask(ctx context.Context, id string) error

	// Dependencies
	AddDependency(ctx context.Context, req *AddDependencyRequest) (*model.Dependency, error)
	RemoveDependency(ctx context.Context, taskID, dependsOnID string) error
	GetDependencies(ctx context.Context, taskID string) (*DependencyView, error)

	// Comments
	AddComment(ctx context.Context, taskID, author, text string) (*model.Comment, error)
	GetComments(ctx context.Context, taskID string) ([]*model.Comment, error)

	// Activity
	GetActivity(ctx context.Context, taskID string) ([]*model.Activity, error)

	// Users
	CreateUser(ctx context.Context, name, email string) (*model.User, error)
	ListUsers(ctx context.Context) ([]*model.User, error)
	DeleteUser(ctx context.Context, id string) error

	// Categories
	CreateCategory(ctx context.Context, name, description string) (*model.Category, error)
	ListCategories(ctx context.Context) ([]*model.Category, error)
	DeleteCategory(ctx context.Context, id string) error

	// Views
	GetReady(ctx context.Context, limit int) (*ListTasksResponse, error)
	GetBlocked(ctx context.Context, limit int) ([]*BlockedTask, error)
	GetStats(ctx context.Context) (*model.GraphStats, error)

	// Health
	Health(ctx context.Context) (string, error)

	// Lifecycle
	Close() error
}

// CreateTaskRequest holds parameters for creating a task.
type CreateTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Priority    int        `json:"priority"`
	Assignee    string     `json:"assignee,omitempty"`
	CategoryID  string     `json:"category_id,omitempty"`
	CreatedBy   string     `json:"created_by,omitempty"`
	DueAt       *time.Time `json:"due_at,omitempty"`
}

// ListTasksRequest holds parameters for listing tasks.
type ListTasksRequest struct {
	Status     []string `json:"status,omitempty"`
	Assignee   string   `json:"assignee,omitempty"`
	CategoryID string   `json:"category_id,omitempty"`
	Search     string   `json:"search,omitempty"`
	Sort       string   `json:"sort,omitempty"`
	Priority   *int     `json:"priority,omitempty"`
	Limit      int      `json:"limit,omitempty"`
	Offset     int      `json:"offset,omitempty"`
}

// ListTasksResponse is the response from ListTasks.
type ListTasksResponse struct {
	Tasks []*model.Task `json:"tasks"`
	Total int           `json:"total"`
}

// UpdateTaskRequest holds optional parameters for updating a task.
// Nil pointer fields mean "don't change".
type UpdateTaskRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Status      *string    `json:"status,omitempty"`
	Priority    *int       `json:"priority,omitempty"`
	Assignee    *string    `json:"assignee,omitempty"`
	CategoryID  *string    `json:"category_id,omitempty"`
	DueAt       *time.Time `json:"due_at,omitempty"`
	Actor       string     `json:"actor,omitempty"`
}

// AddDependencyRequest holds parameters for adding a dependency.
type AddDependencyRequest struct {
	TaskID      string `json:"task_id"`
	DependsOnID string `json:"depends_on_id"`
	CreatedBy   string `json:"created_by,omitempty"`
}

// DependencyLink pairs an edge with the task on its far end.
type DependencyLink struct {
	Dependency *model.Dependency `json:"dependency"`
	Task       *model.Task       `json:"task"`
}

// DependencyView is the aggregated graph neighborhood of a task.
type DependencyView struct {
	BlockedBy       []*DependencyLink `json:"blocked_by"`
	Blocks          []*DependencyLink `json:"blocks"`
	CanStart        bool              `json:"can_start"`
	BlockingReasons []string          `json:"blocking_reasons"`
}

// BlockedTask pairs a task with the reasons it cannot start.
type BlockedTask struct {
	Task            *model.Task `json:"task"`
	BlockingReasons []string    `json:"blocking_reasons"`
}
