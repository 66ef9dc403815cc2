package events

import (
	"context"

	"github.com/harkline/taskdeck/internal/model"
)

// Event topic constants
const (
	TopicTaskCreated       = "taskdeck.task.created"
	TopicTaskUpdated       = "taskdeck.task.updated"
	TopicTaskStatusChanged = "taskdeck.task.status_changed"
	TopicTaskDeleted       = "taskdeck.task.deleted"
	TopicDependencyAdded   = "taskdeck.dependency.added"
	TopicDependencyRemoved = "taskdeck.dependency.removed"
	TopicCommentAdded      = "taskdeck.comment.added"
	TopicUserCreated       = "taskdeck.user.created"
	TopicUserDeleted       = "taskdeck.user.deleted"
	TopicCategoryCreated   = "taskdeck.category.created"
	TopicCategoryDeleted   = "taskdeck.category.deleted"
)

// Event types

type TaskCreated struct {
	Task *model.Task `json:"task"`
}

type TaskUpdated struct {
	Task    *model.Task    `json:"task"`
	Changes map[string]any `json:"changes"` // field name -> new value
}

type TaskStatusChanged struct {
	Task      *model.Task  `json:"task"`
	OldStatus model.Status `json:"old_status"`
	NewStatus model.Status `json:"new_status"`
}

type TaskDeleted struct {
	TaskID string `json:"task_id"`
}

type DependencyAdded struct {
	Dependency *model.Dependency `json:"dependency"`
}

type DependencyRemoved struct {
	DependencyID int64  `json:"dependency_id"`
	TaskID       string `json:"task_id"`
	DependsOnID  string `json:"depends_on_id"`
}

type CommentAdded struct {
	Comment *model.Comment `json:"comment"`
}

type UserCreated struct {
	User *model.User `json:"user"`
}

type UserDeleted struct {
	UserID string `json:"user_id"`
}

type CategoryCreated struct {
	Category *model.Category `json:"category"`
}

type CategoryDeleted struct {
	CategoryID string `json:"category_id"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
