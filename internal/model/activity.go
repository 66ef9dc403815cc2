package model

import "time"

// Activity kinds recorded in the audit trail.
const (
	ActivityTaskCreated       = "task.created"
	ActivityTaskUpdated       = "task.updated"
	ActivityStatusChanged     = "task.status_changed"
	ActivityTaskDeleted       = "task.deleted"
	ActivityDependencyAdded   = "dependency.added"
	ActivityDependencyRemoved = "dependency.removed"
	ActivityCommentAdded      = "comment.added"
)

// Activity is a persisted audit record, mirroring what is published to NATS.
// Writes are best-effort: a failed append never rolls back the mutation that
// produced it.
type Activity struct {
	ID          int64     `json:"id"`
	TaskID      string    `json:"task_id"`
	Actor       string    `json:"actor,omitempty"`
	Kind        string    `json:"kind"`
	Description string    `json:"description,omitempty"`
	OldValue    string    `json:"old_value,omitempty"`
	NewValue    string    `json:"new_value,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
