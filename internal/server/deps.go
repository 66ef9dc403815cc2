package server

import (
	"context"
	"fmt"
	"time"

	"github.com/harkline/taskdeck/internal/events"
	"github.com/harkline/taskdeck/internal/model"
	"github.com/harkline/taskdeck/internal/store"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// addDependency records that taskID depends on (is blocked by) dependsOnID.
// Both endpoints must exist, the edge must not duplicate an existing one or
// point at the task itself, and it must not close a cycle. All checks run in
// the same serializable transaction as the insert, so two concurrent inserts
// cannot each pass the cycle check and together form a loop.
func (s *TaskServer) addDependency(ctx context.Context, taskID, dependsOnID, createdBy string) (*model.Dependency, error) {
	if taskID == "" {
		return nil, status.Error(codes.InvalidArgument, "task_id is required")
	}
	if dependsOnID == "" {
		return nil, status.Error(codes.InvalidArgument, "depends_on_id is required")
	}
	if taskID == dependsOnID {
		return nil, status.Error(codes.InvalidArgument, "a task cannot depend on itself")
	}

	dep := &model.Dependency{
		TaskID:      taskID,
		DependsOnID: dependsOnID,
		CreatedAt:   time.Now().UTC(),
		CreatedBy:   createdBy,
	}

	err := s.store.RunInTransaction(ctx, func(tx store.Store) error {
		if _, err := tx.GetTask(ctx, taskID); err != nil {
			return storeError(err, "task "+taskID)
		}
		if _, err := tx.GetTask(ctx, dependsOnID); err != nil {
			return storeError(err, "task "+dependsOnID)
		}

		exists, err := tx.DependencyExists(ctx, taskID, dependsOnID)
		if err != nil {
			return status.Errorf(codes.Internal, "check dependency: %v", err)
		}
		if exists {
			return status.Errorf(codes.AlreadyExists, "task %s already depends on %s", taskID, dependsOnID)
		}

		// The new edge reads taskID -> dependsOnID; it closes a cycle
		// exactly when dependsOnID can already reach taskID.
		reachable, err := tx.HasDependencyPath(ctx, dependsOnID, taskID)
		if err != nil {
			return status.Errorf(codes.Internal, "check cycle: %v", err)
		}
		if reachable {
			return status.Errorf(codes.FailedPrecondition,
				"dependency %s -> %s would create a cycle", taskID, dependsOnID)
		}

		return tx.AddDependency(ctx, dep)
	})
	if err != nil {
		return nil, err
	}

	s.recordAndPublish(ctx, events.TopicDependencyAdded, &model.Activity{
		TaskID:      dep.TaskID,
		Actor:       dep.CreatedBy,
		Kind:        model.ActivityDependencyAdded,
		Description: "now depends on " + dep.DependsOnID,
	}, events.DependencyAdded{Dependency: dep})

	return dep, nil
}

// removeDependencyBetween deletes the edge from taskID to dependsOnID.
func (s *TaskServer) removeDependencyBetween(ctx context.Context, taskID, dependsOnID, actor string) error {
	if taskID == "" {
		return status.Error(codes.InvalidArgument, "task_id is required")
	}
	if dependsOnID == "" {
		return status.Error(codes.InvalidArgument, "depends_on_id is required")
	}

	dep, err := s.store.RemoveDependencyBetween(ctx, taskID, dependsOnID)
	if err != nil {
		return storeError(err, "dependency")
	}

	s.recordAndPublish(ctx, events.TopicDependencyRemoved, &model.Activity{
		TaskID:      taskID,
		Actor:       actor,
		Kind:        model.ActivityDependencyRemoved,
		Description: "no longer depends on " + dependsOnID,
	}, events.DependencyRemoved{
		DependencyID: dep.ID,
		TaskID:       dep.TaskID,
		DependsOnID:  dep.DependsOnID,
	})

	return nil
}

// removeDependencyByID deletes an edge by its numeric id.
func (s *TaskServer) removeDependencyByID(ctx context.Context, id int64, actor string) error {
	dep, err := s.store.RemoveDependency(ctx, id)
	if err != nil {
		return storeError(err, "dependency")
	}

	s.recordAndPublish(ctx, events.TopicDependencyRemoved, &model.Activity{
		TaskID:      dep.TaskID,
		Actor:       actor,
		Kind:        model.ActivityDependencyRemoved,
		Description: "no longer depends on " + dep.DependsOnID,
	}, events.DependencyRemoved{
		DependencyID: dep.ID,
		TaskID:       dep.TaskID,
		DependsOnID:  dep.DependsOnID,
	})

	return nil
}

// dependencyView is the aggregated graph neighborhood of a single task.
type dependencyView struct {
	BlockedBy       []*dependencyLink `json:"blocked_by"`
	Blocks          []*dependencyLink `json:"blocks"`
	CanStart        bool              `json:"can_start"`
	BlockingReasons []string          `json:"blocking_reasons"`
}

// dependencyLink pairs an edge with the task on its far end.
type dependencyLink struct {
	Dependency *model.Dependency `json:"dependency"`
	Task       *model.Task       `json:"task"`
}

// getDependencyView assembles both directions of a task's edges plus its
// startability verdict.
func (s *TaskServer) getDependencyView(ctx context.Context, taskID string) (*dependencyView, error) {
	if _, err := s.store.GetTask(ctx, taskID); err != nil {
		return nil, storeError(err, "task")
	}

	view := &dependencyView{
		BlockedBy:       []*dependencyLink{},
		Blocks:          []*dependencyLink{},
		BlockingReasons: []string{},
	}

	blockedBy, err := s.store.GetDependencies(ctx, taskID)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "get dependencies: %v", err)
	}
	for _, d := range blockedBy {
		blocker, err := s.store.GetTask(ctx, d.DependsOnID)
		if err != nil {
			return nil, storeError(err, "task "+d.DependsOnID)
		}
		view.BlockedBy = append(view.BlockedBy, &dependencyLink{Dependency: d, Task: blocker})
		if blocker.Status != model.StatusCompleted {
			view.BlockingReasons = append(view.BlockingReasons,
				fmt.Sprintf("requires %q (%s) to be completed", blocker.Title, blocker.ID))
		}
	}
	view.CanStart = len(view.BlockingReasons) == 0

	blocks, err := s.store.GetDependents(ctx, taskID)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "get dependents: %v", err)
	}
	for _, d := range blocks {
		dependent, err := s.store.GetTask(ctx, d.TaskID)
		if err != nil {
			return nil, storeError(err, "task "+d.TaskID)
		}
		view.Blocks = append(view.Blocks, &dependencyLink{Dependency: d, Task: dependent})
	}

	return view, nil
}
