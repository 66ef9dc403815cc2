package server

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/harkline/taskdeck/internal/events"
	"github.com/harkline/taskdeck/internal/model"
	"github.com/harkline/taskdeck/internal/store"
)

type mockStore struct {
	tasks      map[string]*model.Task
	users      map[string]*model.User
	categories map[string]*model.Category
	deps       []*model.Dependency
	comments   map[string][]*model.Comment
	activity   []*model.Activity

	depNextID     int64
	commentNextID int64
}

func newMockStore() *mockStore {
	return &mockStore{
		tasks:      make(map[string]*model.Task),
		users:      make(map[string]*model.User),
		categories: make(map[string]*model.Category),
		comments:   make(map[string][]*model.Comment),
	}
}

func (m *mockStore) CreateTask(_ context.Context, task *model.Task) error {
	m.tasks[task.ID] = task
	return nil
}

func (m *mockStore) GetTask(_ context.Context, id string) (*model.Task, error) {
	t, ok := m.tasks[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *t
	return &clone, nil
}

func (m *mockStore) ListTasks(_ context.Context, filter model.TaskFilter) ([]*model.Task, int, error) {
	var result []*model.Task
	for _, t := range m.tasks {
		if len(filter.Status) > 0 {
			found := false
			for _, s := range filter.Status {
				if t.Status == s {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		if filter.Priority != nil && t.Priority != *filter.Priority {
			continue
		}
		if filter.Assignee != "" && t.Assignee != filter.Assignee {
			continue
		}
		if filter.CategoryID != "" && t.CategoryID != filter.CategoryID {
			continue
		}
		if filter.Search != "" {
			if !strings.Contains(strings.ToLower(t.Title), strings.ToLower(filter.Search)) &&
				!strings.Contains(strings.ToLower(t.Description), strings.ToLower(filter.Search)) {
				continue
			}
		}
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, len(result), nil
}

func (m *mockStore) UpdateTask(_ context.Context, task *model.Task) error {
	if _, ok := m.tasks[task.ID]; !ok {
		return sql.ErrNoRows
	}
	m.tasks[task.ID] = task
	return nil
}

func (m *mockStore) DeleteTask(_ context.Context, id string) error {
	if _, ok := m.tasks[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.tasks, id)
	// Mirror the foreign key cascade.
	var kept []*model.Dependency
	for _, d := range m.deps {
		if d.TaskID != id && d.DependsOnID != id {
			kept = append(kept, d)
		}
	}
	m.deps = kept
	delete(m.comments, id)
	return nil
}

func (m *mockStore) AddDependency(_ context.Context, dep *model.Dependency) error {
	m.depNextID++
	dep.ID = m.depNextID
	m.deps = append(m.deps, dep)
	return nil
}

func (m *mockStore) RemoveDependency(_ context.Context, id int64) (*model.Dependency, error) {
	for i, d := range m.deps {
		if d.ID == id {
			m.deps = append(m.deps[:i], m.deps[i+1:]...)
			return d, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockStore) RemoveDependencyBetween(_ context.Context, taskID, dependsOnID string) (*model.Dependency, error) {
	for i, d := range m.deps {
		if d.TaskID == taskID && d.DependsOnID == dependsOnID {
			m.deps = append(m.deps[:i], m.deps[i+1:]...)
			return d, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockStore) GetDependencies(_ context.Context, taskID string) ([]*model.Dependency, error) {
	var result []*model.Dependency
	for _, d := range m.deps {
		if d.TaskID == taskID {
			result = append(result, d)
		}
	}
	return result, nil
}

func (m *mockStore) GetDependents(_ context.Context, taskID string) ([]*model.Dependency, error) {
	var result []*model.Dependency
	for _, d := range m.deps {
		if d.DependsOnID == taskID {
			result = append(result, d)
		}
	}
	return result, nil
}

func (m *mockStore) DependencyExists(_ context.Context, taskID, dependsOnID string) (bool, error) {
	for _, d := range m.deps {
		if d.TaskID == taskID && d.DependsOnID == dependsOnID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockStore) HasDependencyPath(_ context.Context, fromID, toID string) (bool, error) {
	if fromID == toID {
		return true, nil
	}
	visited := map[string]bool{fromID: true}
	frontier := []string{fromID}
	for len(frontier) > 0 {
		cur := frontier[0]
		frontier = frontier[1:]
		for _, d := range m.deps {
			if d.TaskID != cur || visited[d.DependsOnID] {
				continue
			}
			if d.DependsOnID == toID {
				return true, nil
			}
			visited[d.DependsOnID] = true
			frontier = append(frontier, d.DependsOnID)
		}
	}
	return false, nil
}

func (m *mockStore) CreateUser(_ context.Context, user *model.User) error {
	m.users[user.ID] = user
	return nil
}

func (m *mockStore) GetUser(_ context.Context, id string) (*model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return u, nil
}

func (m *mockStore) ListUsers(_ context.Context) ([]*model.User, error) {
	var result []*model.User
	for _, u := range m.users {
		result = append(result, u)
	}
	return result, nil
}

func (m *mockStore) UpdateUser(_ context.Context, user *model.User) error {
	if _, ok := m.users[user.ID]; !ok {
		return sql.ErrNoRows
	}
	m.users[user.ID] = user
	return nil
}

func (m *mockStore) DeleteUser(_ context.Context, id string) error {
	if _, ok := m.users[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.users, id)
	return nil
}

func (m *mockStore) CreateCategory(_ context.Context, category *model.Category) error {
	m.categories[category.ID] = category
	return nil
}

func (m *mockStore) GetCategory(_ context.Context, id string) (*model.Category, error) {
	c, ok := m.categories[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return c, nil
}

func (m *mockStore) ListCategories(_ context.Context) ([]*model.Category, error) {
	var result []*model.Category
	for _, c := range m.categories {
		result = append(result, c)
	}
	return result, nil
}

func (m *mockStore) UpdateCategory(_ context.Context, category *model.Category) error {
	if _, ok := m.categories[category.ID]; !ok {
		return sql.ErrNoRows
	}
	m.categories[category.ID] = category
	return nil
}

func (m *mockStore) DeleteCategory(_ context.Context, id string) error {
	if _, ok := m.categories[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.categories, id)
	return nil
}

func (m *mockStore) AddComment(_ context.Context, comment *model.Comment) error {
	m.commentNextID++
	comment.ID = m.commentNextID
	m.comments[comment.TaskID] = append(m.comments[comment.TaskID], comment)
	return nil
}

func (m *mockStore) GetComments(_ context.Context, taskID string) ([]*model.Comment, error) {
	return m.comments[taskID], nil
}

func (m *mockStore) RecordActivity(_ context.Context, act *model.Activity) error {
	act.ID = int64(len(m.activity) + 1)
	m.activity = append(m.activity, act)
	return nil
}

func (m *mockStore) GetActivity(_ context.Context, taskID string) ([]*model.Activity, error) {
	var result []*model.Activity
	for _, a := range m.activity {
		if a.TaskID == taskID {
			result = append(result, a)
		}
	}
	return result, nil
}

func (m *mockStore) GetGraph(ctx context.Context, limit int) (*model.GraphResponse, error) {
	tasks, _, _ := m.ListTasks(ctx, model.TaskFilter{Limit: limit})
	idSet := make(map[string]struct{}, len(tasks))
	for _, t := range tasks {
		idSet[t.ID] = struct{}{}
	}
	edges := []*model.GraphEdge{}
	for _, d := range m.deps {
		if _, ok := idSet[d.TaskID]; !ok {
			continue
		}
		if _, ok := idSet[d.DependsOnID]; !ok {
			continue
		}
		edges = append(edges, &model.GraphEdge{Source: d.TaskID, Target: d.DependsOnID})
	}
	stats, _ := m.GetStats(ctx)
	if tasks == nil {
		tasks = []*model.Task{}
	}
	return &model.GraphResponse{Nodes: tasks, Edges: edges, Stats: stats}, nil
}

func (m *mockStore) GetStats(_ context.Context) (*model.GraphStats, error) {
	stats := &model.GraphStats{}
	for _, t := range m.tasks {
		switch t.Status {
		case model.StatusPending:
			stats.TotalPending++
		case model.StatusInProgress:
			stats.TotalInProgress++
		case model.StatusCompleted:
			stats.TotalCompleted++
		case model.StatusCancelled:
			stats.TotalCancelled++
		}
	}
	return stats, nil
}

func (m *mockStore) RunInTransaction(_ context.Context, fn func(tx store.Store) error) error {
	return fn(m)
}

func (m *mockStore) Close() error {
	return nil
}

// newTestServer returns a fresh server, its mock store, and an HTTP handler.
func newTestServer() (*TaskServer, *mockStore, http.Handler) {
	ms := newMockStore()
	s := NewTaskServer(ms, &events.NoopPublisher{})
	return s, ms, s.NewHTTPHandler("")
}

// addTask seeds the mock store with a task in the given status.
func addTask(ms *mockStore, id, title string, status model.Status) *model.Task {
	t := &model.Task{
		ID:        id,
		Title:     title,
		Status:    status,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	ms.tasks[id] = t
	return t
}

// addDep seeds the mock store with an edge taskID -> dependsOnID.
func addDep(ms *mockStore, taskID, dependsOnID string) {
	ms.depNextID++
	ms.deps = append(ms.deps, &model.Dependency{
		ID:          ms.depNextID,
		TaskID:      taskID,
		DependsOnID: dependsOnID,
		CreatedAt:   time.Now().UTC(),
	})
}

// doJSON performs an HTTP request with an optional JSON body and returns the recorder.
func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		b, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

// requireStatus asserts the recorder has the expected HTTP status code.
func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, code int) {
	t.Helper()
	if rec.Code != code {
		t.Fatalf("expected status %d, got %d; body: %s", code, rec.Code, rec.Body.String())
	}
}

// decodeJSON decodes the recorder's response body into v.
func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}

func TestHandleHTTPErrors(t *testing.T) {
	for _, tc := range []struct {
		name      string
		method    string
		path      string
		body      any
		code      int
		wantError string
	}{
		{"CreateTask/MissingTitle", "POST", "/v1/tasks", map[string]any{"priority": 1}, 400, "title is required"},
		{"GetTask/NotFound", "GET", "/v1/tasks/nonexistent", nil, 404, "task not found"},
		{"UpdateTask/NotFound", "PATCH", "/v1/tasks/nonexistent", map[string]any{"title": "x"}, 404, "task not found"},
		{"DeleteTask/NotFound", "DELETE", "/v1/tasks/nonexistent", nil, 404, ""},
		{"AddComment/MissingText", "POST", "/v1/tasks/td-x/comments", map[string]any{"author": "alice"}, 400, ""},
		{"AddDependency/MissingDependsOnID", "POST", "/v1/tasks/td-a/dependencies", map[string]any{}, 400, ""},
		{"RemoveDependency/MissingDependsOnID", "DELETE", "/v1/tasks/td-a/dependencies", nil, 400, ""},
		{"RemoveDependencyByID/BadID", "DELETE", "/v1/dependencies/abc", nil, 400, ""},
		{"GetUser/NotFound", "GET", "/v1/users/nonexistent", nil, 404, ""},
		{"GetCategory/NotFound", "GET", "/v1/categories/nonexistent", nil, 404, ""},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, _, h := newTestServer()
			rec := doJSON(t, h, tc.method, tc.path, tc.body)
			requireStatus(t, rec, tc.code)
			if tc.wantError != "" {
				var body map[string]string
				decodeJSON(t, rec, &body)
				if body["error"] != tc.wantError {
					t.Fatalf("expected error=%q, got %q", tc.wantError, body["error"])
				}
			}
		})
	}
}

func TestHandleHealth(t *testing.T) {
	_, _, h := newTestServer()
	rec := doJSON(t, h, "GET", "/v1/health", nil)
	requireStatus(t, rec, 200)
	var body map[string]string
	decodeJSON(t, rec, &body)
	if body["status"] != "ok" {
		t.Fatalf("expected status=ok, got %q", body["status"])
	}
}

func TestHandleCreateTask(t *testing.T) {
	_, ms, h := newTestServer()
	rec := doJSON(t, h, "POST", "/v1/tasks", map[string]any{
		"title": "Write release notes", "priority": 2, "assignee": "alice",
	})
	requireStatus(t, rec, 201)
	var task model.Task
	decodeJSON(t, rec, &task)
	if task.ID == "" {
		t.Fatal("expected task to have an ID")
	}
	if task.Title != "Write release notes" || task.Status != model.StatusPending || task.Priority != 2 {
		t.Fatalf("got title=%q status=%q priority=%d", task.Title, task.Status, task.Priority)
	}
	if len(ms.activity) != 1 || ms.activity[0].Kind != model.ActivityTaskCreated {
		t.Fatalf("expected a task.created activity record, got %+v", ms.activity)
	}
}

func TestHandleListTasks(t *testing.T) {
	_, ms, h := newTestServer()
	addTask(ms, "td-1", "One", model.StatusPending)
	addTask(ms, "td-2", "Two", model.StatusCompleted)
	addTask(ms, "td-3", "Three", model.StatusPending)

	rec := doJSON(t, h, "GET", "/v1/tasks?status=pending", nil)
	requireStatus(t, rec, 200)
	var body struct {
		Tasks []*model.Task `json:"tasks"`
		Total int           `json:"total"`
	}
	decodeJSON(t, rec, &body)
	if body.Total != 2 || len(body.Tasks) != 2 {
		t.Fatalf("expected 2 pending tasks, got total=%d len=%d", body.Total, len(body.Tasks))
	}
}

func TestHandleUpdateTaskFields(t *testing.T) {
	_, ms, h := newTestServer()
	addTask(ms, "td-1", "Old title", model.StatusPending)

	rec := doJSON(t, h, "PATCH", "/v1/tasks/td-1", map[string]any{
		"title": "New title", "priority": 3,
	})
	requireStatus(t, rec, 200)
	var task model.Task
	decodeJSON(t, rec, &task)
	if task.Title != "New title" || task.Priority != 3 {
		t.Fatalf("got title=%q priority=%d", task.Title, task.Priority)
	}
	if ms.tasks["td-1"].Title != "New title" {
		t.Fatalf("store not updated: %q", ms.tasks["td-1"].Title)
	}
}

func TestHandleDeleteTask(t *testing.T) {
	_, ms, h := newTestServer()
	addTask(ms, "td-1", "Doomed", model.StatusPending)
	addTask(ms, "td-2", "Dependent", model.StatusPending)
	addDep(ms, "td-2", "td-1")

	rec := doJSON(t, h, "DELETE", "/v1/tasks/td-1", nil)
	requireStatus(t, rec, 204)
	if _, ok := ms.tasks["td-1"]; ok {
		t.Fatal("task still in store")
	}
	if len(ms.deps) != 0 {
		t.Fatalf("expected cascade to drop edges, got %d", len(ms.deps))
	}
}

func TestHandleGetStats(t *testing.T) {
	_, ms, h := newTestServer()
	addTask(ms, "td-1", "A", model.StatusPending)
	addTask(ms, "td-2", "B", model.StatusInProgress)
	addTask(ms, "td-3", "C", model.StatusCompleted)
	addTask(ms, "td-4", "D", model.StatusCancelled)
	addTask(ms, "td-5", "E", model.StatusPending)

	rec := doJSON(t, h, "GET", "/v1/stats", nil)
	requireStatus(t, rec, 200)
	var stats model.GraphStats
	decodeJSON(t, rec, &stats)
	if stats.TotalPending != 2 || stats.TotalInProgress != 1 || stats.TotalCompleted != 1 || stats.TotalCancelled != 1 {
		t.Fatalf("got stats %+v", stats)
	}
}

func TestHandleGetGraph(t *testing.T) {
	_, ms, h := newTestServer()
	addTask(ms, "td-1", "A", model.StatusPending)
	addTask(ms, "td-2", "B", model.StatusPending)
	addDep(ms, "td-1", "td-2")

	rec := doJSON(t, h, "GET", "/v1/graph", nil)
	requireStatus(t, rec, 200)
	var graph model.GraphResponse
	decodeJSON(t, rec, &graph)
	if len(graph.Nodes) != 2 || len(graph.Edges) != 1 {
		t.Fatalf("got %d nodes, %d edges", len(graph.Nodes), len(graph.Edges))
	}
	if graph.Edges[0].Source != "td-1" || graph.Edges[0].Target != "td-2" {
		t.Fatalf("got edge %+v", graph.Edges[0])
	}
}

func TestHandleUsersCRUD(t *testing.T) {
	_, _, h := newTestServer()

	rec := doJSON(t, h, "POST", "/v1/users", map[string]any{"name": "Alice", "email": "alice@example.com"})
	requireStatus(t, rec, 201)
	var user model.User
	decodeJSON(t, rec, &user)
	if user.ID == "" || user.Name != "Alice" {
		t.Fatalf("got user %+v", user)
	}

	rec = doJSON(t, h, "PATCH", "/v1/users/"+user.ID, map[string]any{"name": "Alice B"})
	requireStatus(t, rec, 200)

	rec = doJSON(t, h, "GET", "/v1/users/"+user.ID, nil)
	requireStatus(t, rec, 200)
	decodeJSON(t, rec, &user)
	if user.Name != "Alice B" {
		t.Fatalf("got name=%q", user.Name)
	}

	rec = doJSON(t, h, "DELETE", "/v1/users/"+user.ID, nil)
	requireStatus(t, rec, 204)

	rec = doJSON(t, h, "GET", "/v1/users/"+user.ID, nil)
	requireStatus(t, rec, 404)
}

func TestHandleCreateUserInvalidEmail(t *testing.T) {
	_, _, h := newTestServer()
	rec := doJSON(t, h, "POST", "/v1/users", map[string]any{"name": "Bob", "email": "not-an-email"})
	requireStatus(t, rec, 400)
}

func TestHandleCategoriesCRUD(t *testing.T) {
	_, _, h := newTestServer()

	rec := doJSON(t, h, "POST", "/v1/categories", map[string]any{"name": "Backend"})
	requireStatus(t, rec, 201)
	var cat model.Category
	decodeJSON(t, rec, &cat)
	if cat.ID == "" || cat.Name != "Backend" {
		t.Fatalf("got category %+v", cat)
	}

	rec = doJSON(t, h, "GET", "/v1/categories", nil)
	requireStatus(t, rec, 200)
	var body struct {
		Categories []*model.Category `json:"categories"`
	}
	decodeJSON(t, rec, &body)
	if len(body.Categories) != 1 {
		t.Fatalf("expected 1 category, got %d", len(body.Categories))
	}

	rec = doJSON(t, h, "DELETE", "/v1/categories/"+cat.ID, nil)
	requireStatus(t, rec, 204)
}

func TestHandleComments(t *testing.T) {
	_, ms, h := newTestServer()
	addTask(ms, "td-1", "Commented", model.StatusPending)

	rec := doJSON(t, h, "POST", "/v1/tasks/td-1/comments", map[string]any{"author": "bob", "text": "Looks good"})
	requireStatus(t, rec, 201)
	var comment model.Comment
	decodeJSON(t, rec, &comment)
	if comment.ID == 0 || comment.Text != "Looks good" {
		t.Fatalf("got comment %+v", comment)
	}

	rec = doJSON(t, h, "GET", "/v1/tasks/td-1/comments", nil)
	requireStatus(t, rec, 200)
	var body struct {
		Comments []*model.Comment `json:"comments"`
	}
	decodeJSON(t, rec, &body)
	if len(body.Comments) != 1 {
		t.Fatalf("expected 1 comment, got %d", len(body.Comments))
	}
}

func TestHandleCommentOnMissingTask(t *testing.T) {
	_, _, h := newTestServer()
	rec := doJSON(t, h, "POST", "/v1/tasks/td-missing/comments", map[string]any{"text": "hi"})
	requireStatus(t, rec, 404)
}

func TestHandleGetActivity(t *testing.T) {
	_, ms, h := newTestServer()
	addTask(ms, "td-1", "Busy", model.StatusPending)
	ms.activity = []*model.Activity{
		{ID: 1, TaskID: "td-1", Kind: model.ActivityTaskCreated},
		{ID: 2, TaskID: "td-2", Kind: model.ActivityTaskCreated},
		{ID: 3, TaskID: "td-1", Kind: model.ActivityStatusChanged},
	}

	rec := doJSON(t, h, "GET", "/v1/tasks/td-1/activity", nil)
	requireStatus(t, rec, 200)
	var body struct {
		Activity []*model.Activity `json:"activity"`
	}
	decodeJSON(t, rec, &body)
	if len(body.Activity) != 2 {
		t.Fatalf("expected 2 records, got %d", len(body.Activity))
	}
}
