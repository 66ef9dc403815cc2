package sync

import (
	"context"
	"database/sql"
	"sort"

	"github.com/harkline/taskdeck/internal/model"
	"github.com/harkline/taskdeck/internal/store"
)

// mockStore is a minimal in-memory store for sync tests.
type mockStore struct {
	tasks      map[string]*model.Task
	users      map[string]*model.User
	categories map[string]*model.Category
	deps       map[string][]*model.Dependency
	comments   map[string][]*model.Comment
}

func newMockStore() *mockStore {
	return &mockStore{
		tasks:      make(map[string]*model.Task),
		users:      make(map[string]*model.User),
		categories: make(map[string]*model.Category),
		deps:       make(map[string][]*model.Dependency),
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
	return t, nil
}

func (m *mockStore) ListTasks(_ context.Context, _ model.TaskFilter) ([]*model.Task, int, error) {
	var result []*model.Task
	for _, t := range m.tasks {
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result, len(result), nil
}

func (m *mockStore) UpdateTask(_ context.Context, task *model.Task) error {
	m.tasks[task.ID] = task
	return nil
}

func (m *mockStore) DeleteTask(_ context.Context, id string) error {
	delete(m.tasks, id)
	return nil
}

func (m *mockStore) AddDependency(_ context.Context, dep *model.Dependency) error {
	m.deps[dep.TaskID] = append(m.deps[dep.TaskID], dep)
	return nil
}

func (m *mockStore) RemoveDependency(_ context.Context, _ int64) (*model.Dependency, error) {
	return nil, sql.ErrNoRows
}

func (m *mockStore) RemoveDependencyBetween(_ context.Context, _, _ string) (*model.Dependency, error) {
	return nil, sql.ErrNoRows
}

func (m *mockStore) GetDependencies(_ context.Context, taskID string) ([]*model.Dependency, error) {
	return m.deps[taskID], nil
}

func (m *mockStore) GetDependents(_ context.Context, _ string) ([]*model.Dependency, error) {
	return nil, nil
}

func (m *mockStore) DependencyExists(_ context.Context, _, _ string) (bool, error) {
	return false, nil
}

func (m *mockStore) HasDependencyPath(_ context.Context, _, _ string) (bool, error) {
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
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (m *mockStore) UpdateUser(_ context.Context, user *model.User) error {
	m.users[user.ID] = user
	return nil
}

func (m *mockStore) DeleteUser(_ context.Context, id string) error {
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
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (m *mockStore) UpdateCategory(_ context.Context, category *model.Category) error {
	m.categories[category.ID] = category
	return nil
}

func (m *mockStore) DeleteCategory(_ context.Context, id string) error {
	delete(m.categories, id)
	return nil
}

func (m *mockStore) AddComment(_ context.Context, comment *model.Comment) error {
	m.comments[comment.TaskID] = append(m.comments[comment.TaskID], comment)
	return nil
}

func (m *mockStore) GetComments(_ context.Context, taskID string) ([]*model.Comment, error) {
	return m.comments[taskID], nil
}

func (m *mockStore) RecordActivity(_ context.Context, _ *model.Activity) error {
	return nil
}

func (m *mockStore) GetActivity(_ context.Context, _ string) ([]*model.Activity, error) {
	return nil, nil
}

func (m *mockStore) GetGraph(_ context.Context, _ int) (*model.GraphResponse, error) {
	return &model.GraphResponse{Nodes: []*model.Task{}, Edges: []*model.GraphEdge{}, Stats: &model.GraphStats{}}, nil
}

func (m *mockStore) GetStats(_ context.Context) (*model.GraphStats, error) {
	return &model.GraphStats{}, nil
}

func (m *mockStore) RunInTransaction(_ context.Context, fn func(tx store.Store) error) error {
	return fn(m)
}

func (m *mockStore) Close() error {
	return nil
}
