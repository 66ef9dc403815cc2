package server

import (
	"context"
	"fmt"
	"strings"

	"github.com/harkline/taskdeck/internal/model"
	"github.com/harkline/taskdeck/internal/store"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// canStart reports whether a task's blocking dependencies are all completed.
// When it is not startable, reasons holds one human-readable entry per
// incomplete blocker, e.g. `requires "Design schema" (td-abc123) to be completed`.
func canStart(ctx context.Context, st store.Store, taskID string) (bool, []string, error) {
	deps, err := st.GetDependencies(ctx, taskID)
	if err != nil {
		return false, nil, fmt.Errorf("get dependencies: %w", err)
	}

	var reasons []string
	for _, d := range deps {
		blocker, err := st.GetTask(ctx, d.DependsOnID)
		if err != nil {
			return false, nil, fmt.Errorf("get blocker %s: %w", d.DependsOnID, err)
		}
		if blocker.Status != model.StatusCompleted {
			reasons = append(reasons, fmt.Sprintf("requires %q (%s) to be completed", blocker.Title, blocker.ID))
		}
	}

	return len(reasons) == 0, reasons, nil
}

// activeDependents returns the tasks depending on taskID whose status would
// be invalidated by reopening it (in progress or completed).
func activeDependents(ctx context.Context, st store.Store, taskID string) ([]*model.Task, error) {
	edges, err := st.GetDependents(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("get dependents: %w", err)
	}

	var active []*model.Task
	for _, e := range edges {
		dep, err := st.GetTask(ctx, e.TaskID)
		if err != nil {
			return nil, fmt.Errorf("get dependent %s: %w", e.TaskID, err)
		}
		if dep.Status == model.StatusInProgress || dep.Status == model.StatusCompleted {
			active = append(active, dep)
		}
	}

	return active, nil
}

// checkStatusChange enforces the transition policy for moving task to the
// given status. It consults the policy table for the required precondition
// and evaluates it against the dependency graph through st, which should be
// the transaction the status write will happen in.
func checkStatusChange(ctx context.Context, st store.Store, task *model.Task, to model.Status) error {
	precond, ok := model.TransitionPrecondition(task.Status, to)
	if !ok {
		return status.Errorf(codes.InvalidArgument, "invalid status %q", to)
	}

	switch precond {
	case model.PrecondNone:
		return nil

	case model.PrecondStart:
		startable, reasons, err := canStart(ctx, st, task.ID)
		if err != nil {
			return status.Errorf(codes.Internal, "check dependencies: %v", err)
		}
		if !startable {
			return status.Errorf(codes.FailedPrecondition,
				"task %s cannot move to %s: %s", task.ID, to, strings.Join(reasons, "; "))
		}
		return nil

	case model.PrecondReopen:
		active, err := activeDependents(ctx, st, task.ID)
		if err != nil {
			return status.Errorf(codes.Internal, "check dependents: %v", err)
		}
		if len(active) > 0 {
			parts := make([]string, 0, len(active))
			for _, d := range active {
				parts = append(parts, fmt.Sprintf("%q (%s) is %s", d.Title, d.ID, d.Status))
			}
			return status.Errorf(codes.FailedPrecondition,
				"task %s cannot be reopened: %s", task.ID, strings.Join(parts, "; "))
		}
		return nil
	}

	return nil
}
