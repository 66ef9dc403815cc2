package model

import "time"

// Dependency is a directed edge in the task dependency graph: TaskID depends
// on (is blocked by) DependsOnID. Direction is stored exactly once; the
// "blocked_by"/"blocks" labels callers see are derived at read time.
type Dependency struct {
	ID          int64     `json:"id"`
	TaskID      string    `json:"task_id"`
	DependsOnID string    `json:"depends_on_id"`
	CreatedAt   time.Time `json:"created_at"`
	CreatedBy   string    `json:"created_by,omitempty"`
}

// Direction labels for presenting an edge relative to a task.
const (
	DirBlockedBy = "blocked_by"
	DirBlocks    = "blocks"
)

// DirectionFor returns how this edge reads from the perspective of taskID:
// DirBlockedBy when taskID is the dependent, DirBlocks when it is the blocker.
func (d *Dependency) DirectionFor(taskID string) string {
	if d.TaskID == taskID {
		return DirBlockedBy
	}
	return DirBlocks
}
