package store

import (
	"context"

	"github.com/harkline/taskdeck/internal/model"
)

// Store defines the persistence interface for taskdeck.
type Store interface {
	// Task CRUD
	CreateTask(ctx context.Context, task *model.Task) error
	GetTask(ctx context.Context, id string) (*model.Task, error)
	ListTasks(ctx context.Context, filter model.TaskFilter) ([]*model.Task, int, error) // returns tasks, total count, error
	UpdateTask(ctx context.Context, task *model.Task) error
	DeleteTask(ctx context.Context, id string) error

	// Dependency graph. Edges read "TaskID depends on DependsOnID".
	AddDependency(ctx context.Context, dep *model.Dependency) error
	RemoveDependency(ctx context.Context, id int64) (*model.Dependency, error)
	RemoveDependencyBetween(ctx context.Context, taskID, dependsOnID string) (*model.Dependency, error)
	GetDependencies(ctx context.Context, taskID string) ([]*model.Dependency, error) // edges where taskID is the dependent
	GetDependents(ctx context.Context, taskID string) ([]*model.Dependency, error)   // edges where taskID is the blocker
	DependencyExists(ctx context.Context, taskID, dependsOnID string) (bool, error)
	HasDependencyPath(ctx context.Context, fromID, toID string) (bool, error)

	// Users
	CreateUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, id string) (*model.User, error)
	ListUsers(ctx context.Context) ([]*model.User, error)
	UpdateUser(ctx context.Context, user *model.User) error
	DeleteUser(ctx context.Context, id string) error

	// Categories
	CreateCategory(ctx context.Context, category *model.Category) error
	GetCategory(ctx context.Context, id string) (*model.Category, error)
	ListCategories(ctx context.Context) ([]*model.Category, error)
	UpdateCategory(ctx context.Context, category *model.Category) error
	DeleteCategory(ctx context.Context, id string) error

	// Comments
	AddComment(ctx context.Context, comment *model.Comment) error
	GetComments(ctx context.Context, taskID string) ([]*model.Comment, error)

	// Activity log
	RecordActivity(ctx context.Context, activity *model.Activity) error
	GetActivity(ctx context.Context, taskID string) ([]*model.Activity, error)

	// Graph views
	GetGraph(ctx context.Context, limit int) (*model.GraphResponse, error)
	GetStats(ctx context.Context) (*model.GraphStats, error)

	// Transaction support
	RunInTransaction(ctx context.Context, fn func(tx Store) error) error

	// Lifecycle
	Close() error
}
