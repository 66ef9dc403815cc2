package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/harkline/taskdeck/internal/model"
)

func TestExportJSONL_Empty(t *testing.T) {
	ms := newMockStore()
	var buf bytes.Buffer
	if err := ExportJSONL(context.Background(), ms, &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := nonEmptyLines(buf.String())
	if len(lines) != 1 {
		t.Fatalf("expected 1 line (header only), got %d", len(lines))
	}

	var h header
	if err := json.Unmarshal([]byte(lines[0]), &h); err != nil {
		t.Fatalf("unmarshal header: %v", err)
	}
	if h.Version != "1" || h.Type != "header" || h.TaskCount != 0 || h.UserCount != 0 || h.CategoryCount != 0 {
		t.Fatalf("unexpected header: %+v", h)
	}
}

func TestExportJSONL_WithTasksAndUsers(t *testing.T) {
	ms := newMockStore()
	now := time.Now().UTC()

	// Add tasks out of ID order to verify sorting.
	ms.tasks["td-zzz"] = &model.Task{ID: "td-zzz", Title: "Second", Status: model.StatusPending, CreatedAt: now, UpdatedAt: now}
	ms.tasks["td-aaa"] = &model.Task{ID: "td-aaa", Title: "First", Status: model.StatusInProgress, CreatedAt: now, UpdatedAt: now}

	// Add relational data for td-aaa.
	ms.deps["td-aaa"] = []*model.Dependency{{ID: 1, TaskID: "td-aaa", DependsOnID: "td-zzz", CreatedAt: now}}
	ms.comments["td-aaa"] = []*model.Comment{{ID: 1, TaskID: "td-aaa", Author: "alice", Text: "Fix this", CreatedAt: now}}

	ms.users["usr-1"] = &model.User{ID: "usr-1", Name: "Alice", Email: "alice@example.com", CreatedAt: now}
	ms.categories["cat-1"] = &model.Category{ID: "cat-1", Name: "Backend", CreatedAt: now}

	var buf bytes.Buffer
	if err := ExportJSONL(context.Background(), ms, &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := nonEmptyLines(buf.String())
	// 1 header + 2 tasks + 1 user + 1 category = 5 lines
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d:\n%s", len(lines), buf.String())
	}

	// Verify header counts.
	var h header
	if err := json.Unmarshal([]byte(lines[0]), &h); err != nil {
		t.Fatalf("unmarshal header: %v", err)
	}
	if h.TaskCount != 2 || h.UserCount != 1 || h.CategoryCount != 1 {
		t.Fatalf("header counts: task=%d user=%d category=%d", h.TaskCount, h.UserCount, h.CategoryCount)
	}

	// Verify tasks are sorted by ID (td-aaa before td-zzz).
	var rec1, rec2 record
	if err := json.Unmarshal([]byte(lines[1]), &rec1); err != nil {
		t.Fatalf("unmarshal line 1: %v", err)
	}
	if err := json.Unmarshal([]byte(lines[2]), &rec2); err != nil {
		t.Fatalf("unmarshal line 2: %v", err)
	}
	if rec1.Type != "task" || rec2.Type != "task" {
		t.Fatalf("expected task types, got %q and %q", rec1.Type, rec2.Type)
	}

	data1, _ := json.Marshal(rec1.Data)
	data2, _ := json.Marshal(rec2.Data)
	var t1, t2 model.Task
	if err := json.Unmarshal(data1, &t1); err != nil {
		t.Fatalf("unmarshal t1: %v", err)
	}
	if err := json.Unmarshal(data2, &t2); err != nil {
		t.Fatalf("unmarshal t2: %v", err)
	}

	if t1.ID != "td-aaa" || t2.ID != "td-zzz" {
		t.Fatalf("tasks not sorted: got %q, %q", t1.ID, t2.ID)
	}

	// Verify td-aaa has embedded relations.
	if len(t1.Dependencies) != 1 {
		t.Fatalf("expected 1 dependency for td-aaa, got %d", len(t1.Dependencies))
	}
	if len(t1.Comments) != 1 {
		t.Fatalf("expected 1 comment for td-aaa, got %d", len(t1.Comments))
	}

	// Verify trailing record types.
	var rec3, rec4 record
	if err := json.Unmarshal([]byte(lines[3]), &rec3); err != nil {
		t.Fatalf("unmarshal line 3: %v", err)
	}
	if err := json.Unmarshal([]byte(lines[4]), &rec4); err != nil {
		t.Fatalf("unmarshal line 4: %v", err)
	}
	if rec3.Type != "user" {
		t.Fatalf("expected user type, got %q", rec3.Type)
	}
	if rec4.Type != "category" {
		t.Fatalf("expected category type, got %q", rec4.Type)
	}
}

func nonEmptyLines(s string) []string {
	var result []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			result = append(result, line)
		}
	}
	return result
}
