package server

import (
	"context"
	"log/slog"

	"github.com/harkline/taskdeck/internal/events"
	"github.com/harkline/taskdeck/internal/model"
	"github.com/harkline/taskdeck/internal/store"
)

// TaskServer implements the taskdeck service operations over a Store and
// an event Publisher. Transport adapters (HTTP handlers, the CLI client)
// call into the transport-agnostic methods defined here and in the
// sibling files.
type TaskServer struct {
	store     store.Store
	publisher events.Publisher
}

// NewTaskServer returns a new TaskServer backed by the given store and publisher.
func NewTaskServer(s store.Store, p events.Publisher) *TaskServer {
	return &TaskServer{
		store:     s,
		publisher: p,
	}
}

// recordAndPublish appends an activity record and publishes the matching
// event to NATS. Both operations are best-effort; failures are logged but
// do not block the caller.
func (s *TaskServer) recordAndPublish(ctx context.Context, topic string, act *model.Activity, event any) {
	if err := s.store.RecordActivity(ctx, act); err != nil {
		slog.Warn("failed to record activity", "kind", act.Kind, "task_id", act.TaskID, "error", err)
	}
	if err := s.publisher.Publish(ctx, topic, event); err != nil {
		slog.Warn("failed to publish event", "topic", topic, "task_id", act.TaskID, "error", err)
	}
}

// publish emits an event without an activity record, for mutations that are
// not tied to a task. Best-effort like recordAndPublish.
func (s *TaskServer) publish(ctx context.Context, topic string, event any) {
	if err := s.publisher.Publish(ctx, topic, event); err != nil {
		slog.Warn("failed to publish event", "topic", topic, "error", err)
	}
}

// inputError indicates invalid user input.
// Transport layers map this to 400 / InvalidArgument.
type inputError string

func (e inputError) Error() string { return string(e) }
