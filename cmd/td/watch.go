package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/harkline/taskdeck/internal/client"
	"github.com/harkline/taskdeck/internal/events"
	"github.com/harkline/taskdeck/internal/model"
	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:     "watch",
	Short:   "Watch for new and changed tasks",
	GroupID: "views",
	RunE: func(cmd *cobra.Command, args []string) error {
		interval, _ := cmd.Flags().GetDuration("interval")
		once, _ := cmd.Flags().GetBool("once")

		status, _ := cmd.Flags().GetStringSlice("status")
		assignee, _ := cmd.Flags().GetString("assignee")
		category, _ := cmd.Flags().GetString("category")
		sort, _ := cmd.Flags().GetString("sort")
		limit, _ := cmd.Flags().GetInt("limit")

		req := &client.ListTasksRequest{
			Status:     status,
			Assignee:   assignee,
			CategoryID: category,
			Sort:       sort,
			Limit:      limit,
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		seen := make(map[string]time.Time)

		// Initial query.
		if err := queryAndPrint(ctx, req, seen); err != nil {
			return err
		}
		if once {
			return nil
		}

		// Event-driven when a NATS URL is known, polling otherwise.
		natsURL := os.Getenv("TASKDECK_NATS_URL")
		if natsURL == "" {
			natsURL = activeRemoteNATSURL()
		}
		if natsURL != "" {
			return watchNATS(ctx, natsURL, req, seen)
		}
		return watchPoll(ctx, interval, req, seen)
	},
}

// watchNATS subscribes to NATS events and re-queries on changes with debounce.
func watchNATS(ctx context.Context, natsURL string, req *client.ListTasksRequest, seen map[string]time.Time) error {
	// reconnectCh receives a signal when the NATS client reconnects after
	// a disconnect, so we can immediately re-query for missed events.
	reconnectCh := make(chan struct{}, 1)

	sub, err := events.NewNATSSubscriber(natsURL,
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Printf("nats: disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			log.Printf("nats: reconnected")
			select {
			case reconnectCh <- struct{}{}:
			default:
			}
		}),
	)
	if err != nil {
		return fmt.Errorf("connecting to NATS: %w", err)
	}
	defer sub.Close()

	ch, cancel, err := sub.Subscribe("taskdeck.>")
	if err != nil {
		return fmt.Errorf("subscribing to events: %w", err)
	}
	defer cancel()

	debounce := time.NewTimer(0)
	debounce.Stop()
	// Drain the timer channel in case it fired between NewTimer and Stop.
	select {
	case <-debounce.C:
	default:
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-ch:
			if !ok {
				return nil
			}
			debounce.Reset(200 * time.Millisecond)
		case <-reconnectCh:
			debounce.Reset(0) // immediate re-query
		case <-debounce.C:
			if err := queryAndPrint(ctx, req, seen); err != nil {
				return err
			}
		}
	}
}

// watchPoll polls for changes at the given interval.
func watchPoll(ctx context.Context, interval time.Duration, req *client.ListTasksRequest, seen map[string]time.Time) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(interval):
		}
		if err := queryAndPrint(ctx, req, seen); err != nil {
			return err
		}
	}
}

// queryAndPrint calls ListTasks, diffs against the seen map, and prints any changes.
func queryAndPrint(ctx context.Context, req *client.ListTasksRequest, seen map[string]time.Time) error {
	changed, total, err := queryAndDiff(ctx, req, seen)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(changed) > 0 {
		if jsonOutput {
			printJSON(changed)
		} else {
			printTaskListTable(changed, total)
		}
	}
	return nil
}

// queryAndDiff calls ListTasks and returns tasks that are new or changed since
// last seen. It updates the seen map in place.
func queryAndDiff(ctx context.Context, req *client.ListTasksRequest, seen map[string]time.Time) ([]*model.Task, int, error) {
	resp, err := taskClient.ListTasks(ctx, req)
	if err != nil {
		return nil, 0, err
	}

	changed := diffTasks(resp.Tasks, seen)
	return changed, resp.Total, nil
}

// diffTasks compares tasks against the seen map and returns those that are new
// or have a different updated_at timestamp. It updates seen in place.
func diffTasks(tasks []*model.Task, seen map[string]time.Time) []*model.Task {
	var changed []*model.Task
	for _, t := range tasks {
		prev, ok := seen[t.ID]
		if !ok || !t.UpdatedAt.Equal(prev) {
			changed = append(changed, t)
		}
		seen[t.ID] = t.UpdatedAt
	}
	return changed
}

func init() {
	watchCmd.Flags().Duration("interval", 5*time.Second, "polling interval")
	watchCmd.Flags().Bool("once", false, "exit after first query")
	watchCmd.Flags().StringSliceP("status", "s", nil, "filter by status (repeatable)")
	watchCmd.Flags().String("assignee", "", "filter by assignee")
	watchCmd.Flags().StringP("category", "c", "", "filter by category ID")
	watchCmd.Flags().String("sort", "", "sort column, prefix with - for descending")
	watchCmd.Flags().Int("limit", 20, "maximum number of tasks to return")
}
