package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/harkline/taskdeck/internal/model"
)

// taskColumns is the column list used for SELECT statements on the tasks table.
const taskColumns = `id, title, description, status, priority, assignee, category_id,
	created_at, created_by, updated_at, completed_at, due_at`

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func queryCreateTask(ctx context.Context, db executor, t *model.Task) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO tasks (
			id, title, description, status, priority, assignee, category_id,
			created_at, created_by, updated_at, completed_at, due_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7,
			$8, $9, $10, $11, $12
		)`,
		t.ID,
		t.Title,
		t.Description,
		string(t.Status),
		t.Priority,
		t.Assignee,
		nullString(t.CategoryID),
		t.CreatedAt,
		t.CreatedBy,
		t.UpdatedAt,
		nullTimePtr(t.CompletedAt),
		nullTimePtr(t.DueAt),
	)
	return err
}

func queryGetTask(ctx context.Context, db executor, id string) (*model.Task, error) {
	row := db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id)
	t, err := scanTask(row)
	if err != nil {
		return nil, err
	}

	// Fetch dependencies.
	deps, err := queryGetDependencies(ctx, db, id)
	if err != nil {
		return nil, err
	}
	t.Dependencies = deps

	// Fetch comments.
	comments, err := queryGetComments(ctx, db, id)
	if err != nil {
		return nil, err
	}
	t.Comments = comments

	return t, nil
}

func queryListTasks(ctx context.Context, db executor, filter model.TaskFilter) ([]*model.Task, int, error) {
	var (
		whereClauses []string
		args         []any
		argIdx       int
	)

	nextArg := func() string {
		argIdx++
		return fmt.Sprintf("$%d", argIdx)
	}

	if len(filter.Status) > 0 {
		placeholders := make([]string, len(filter.Status))
		for i, s := range filter.Status {
			placeholders[i] = nextArg()
			args = append(args, string(s))
		}
		whereClauses = append(whereClauses, "status IN ("+strings.Join(placeholders, ", ")+")")
	}

	if filter.Priority != nil {
		whereClauses = append(whereClauses, "priority = "+nextArg())
		args = append(args, *filter.Priority)
	}

	if filter.Assignee != "" {
		whereClauses = append(whereClauses, "assignee = "+nextArg())
		args = append(args, filter.Assignee)
	}

	if filter.CategoryID != "" {
		whereClauses = append(whereClauses, "category_id = "+nextArg())
		args = append(args, filter.CategoryID)
	}

	if filter.Search != "" {
		p := nextArg()
		whereClauses = append(whereClauses,
			fmt.Sprintf("(title ILIKE '%%' || %s || '%%' OR description ILIKE '%%' || %s || '%%')", p, p))
		args = append(args, filter.Search)
	}

	whereSQL := ""
	if len(whereClauses) > 0 {
		whereSQL = " WHERE " + strings.Join(whereClauses, " AND ")
	}

	// Single query with COUNT(*) OVER() to get total and rows atomically.
	dataQuery := "SELECT COUNT(*) OVER() AS total_count, " + taskColumns + " FROM tasks" + whereSQL + " ORDER BY " + parseSortClause(filter.Sort)

	if filter.Limit > 0 {
		dataQuery += " LIMIT " + nextArg()
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		dataQuery += " OFFSET " + nextArg()
		args = append(args, filter.Offset)
	}

	rows, err := db.QueryContext(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*model.Task
	var total int
	for rows.Next() {
		t, n, err := scanTaskWithTotal(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan tasks: %w", err)
		}
		total = n
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("scan tasks: %w", err)
	}

	return tasks, total, nil
}

func queryUpdateTask(ctx context.Context, db executor, t *model.Task) error {
	return db.QueryRowContext(ctx, `
		UPDATE tasks SET
			title = $2,
			description = $3,
			status = $4,
			priority = $5,
			assignee = $6,
			category_id = $7,
			updated_at = NOW(),
			completed_at = $8,
			due_at = $9
		WHERE id = $1
		RETURNING updated_at`,
		t.ID,
		t.Title,
		t.Description,
		string(t.Status),
		t.Priority,
		t.Assignee,
		nullString(t.CategoryID),
		nullTimePtr(t.CompletedAt),
		nullTimePtr(t.DueAt),
	).Scan(&t.UpdatedAt)
}

func queryDeleteTask(ctx context.Context, db executor, id string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func queryCreateUser(ctx context.Context, db executor, u *model.User) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, created_at)
		VALUES ($1, $2, $3, $4)`,
		u.ID, u.Name, u.Email, u.CreatedAt,
	)
	return err
}

func queryGetUser(ctx context.Context, db executor, id string) (*model.User, error) {
	row := db.QueryRowContext(ctx, `
		SELECT id, name, email, created_at FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func queryListUsers(ctx context.Context, db executor) ([]*model.User, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, name, email, created_at FROM users ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

func queryUpdateUser(ctx context.Context, db executor, u *model.User) error {
	res, err := db.ExecContext(ctx, `
		UPDATE users SET name = $2, email = $3 WHERE id = $1`,
		u.ID, u.Name, u.Email,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func queryDeleteUser(ctx context.Context, db executor, id string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func queryCreateCategory(ctx context.Context, db executor, c *model.Category) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO categories (id, name, description, created_at)
		VALUES ($1, $2, $3, $4)`,
		c.ID, c.Name, c.Description, c.CreatedAt,
	)
	return err
}

func queryGetCategory(ctx context.Context, db executor, id string) (*model.Category, error) {
	row := db.QueryRowContext(ctx, `
		SELECT id, name, description, created_at FROM categories WHERE id = $1`, id)
	return scanCategory(row)
}

func queryListCategories(ctx context.Context, db executor) ([]*model.Category, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, name, description, created_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCategories(rows)
}

func queryUpdateCategory(ctx context.Context, db executor, c *model.Category) error {
	res, err := db.ExecContext(ctx, `
		UPDATE categories SET name = $2, description = $3 WHERE id = $1`,
		c.ID, c.Name, c.Description,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func queryDeleteCategory(ctx context.Context, db executor, id string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func queryAddComment(ctx context.Context, db executor, c *model.Comment) error {
	return db.QueryRowContext(ctx, `
		INSERT INTO comments (task_id, author, text)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		c.TaskID, c.Author, c.Text,
	).Scan(&c.ID, &c.CreatedAt)
}

func queryGetComments(ctx context.Context, db executor, taskID string) ([]*model.Comment, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, task_id, author, text, created_at
		FROM comments
		WHERE task_id = $1
		ORDER BY created_at ASC`,
		taskID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComments(rows)
}

func queryRecordActivity(ctx context.Context, db executor, a *model.Activity) error {
	return db.QueryRowContext(ctx, `
		INSERT INTO activity (task_id, actor, kind, description, old_value, new_value)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		a.TaskID, a.Actor, a.Kind, a.Description, a.OldValue, a.NewValue,
	).Scan(&a.ID, &a.CreatedAt)
}

func queryGetActivity(ctx context.Context, db executor, taskID string) ([]*model.Activity, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, task_id, actor, kind, description, old_value, new_value, created_at
		FROM activity
		WHERE task_id = $1
		ORDER BY created_at ASC`,
		taskID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanActivities(rows)
}

func queryGetGraph(ctx context.Context, db executor, limit int) (*model.GraphResponse, error) {
	if limit <= 0 {
		limit = 500
	}

	tasks, _, err := queryListTasks(ctx, db, model.TaskFilter{
		Limit: limit,
		Sort:  "-updated_at",
	})
	if err != nil {
		return nil, fmt.Errorf("graph: list tasks: %w", err)
	}

	// Build a set of task IDs for edge filtering.
	idSet := make(map[string]struct{}, len(tasks))
	for _, t := range tasks {
		idSet[t.ID] = struct{}{}
	}

	// Fetch all dependencies in one query (not per-task N+1).
	depRows, err := db.QueryContext(ctx, `
		SELECT id, task_id, depends_on_id, created_at, created_by
		FROM dependencies`)
	if err != nil {
		return nil, fmt.Errorf("graph: fetch dependencies: %w", err)
	}
	defer depRows.Close()

	var edges []*model.GraphEdge
	depMap := make(map[string][]*model.Dependency)
	for depRows.Next() {
		d, err := scanDependency(depRows)
		if err != nil {
			return nil, fmt.Errorf("graph: scan dependency: %w", err)
		}
		depMap[d.TaskID] = append(depMap[d.TaskID], d)

		// Only include edges where both endpoints are in the node set.
		_, srcOK := idSet[d.TaskID]
		_, tgtOK := idSet[d.DependsOnID]
		if srcOK && tgtOK {
			edges = append(edges, &model.GraphEdge{
				Source: d.TaskID,
				Target: d.DependsOnID,
			})
		}
	}
	if err := depRows.Err(); err != nil {
		return nil, fmt.Errorf("graph: dependency rows: %w", err)
	}

	// Attach dependencies to tasks.
	for _, t := range tasks {
		if deps, ok := depMap[t.ID]; ok {
			t.Dependencies = deps
		}
	}

	stats, err := queryGetStats(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("graph: %w", err)
	}

	if tasks == nil {
		tasks = []*model.Task{}
	}
	if edges == nil {
		edges = []*model.GraphEdge{}
	}

	return &model.GraphResponse{
		Nodes: tasks,
		Edges: edges,
		Stats: stats,
	}, nil
}

func queryGetStats(ctx context.Context, db executor) (*model.GraphStats, error) {
	stats := &model.GraphStats{}
	err := db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'in_progress' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'completed' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'cancelled' THEN 1 ELSE 0 END), 0)
		FROM tasks`).Scan(
		&stats.TotalPending,
		&stats.TotalInProgress,
		&stats.TotalCompleted,
		&stats.TotalCancelled,
	)
	if err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	return stats, nil
}

func parseSortClause(sort string) string {
	if sort == "" {
		return "created_at DESC"
	}
	desc := strings.HasPrefix(sort, "-")
	col := strings.TrimPrefix(sort, "-")
	allowed := map[string]bool{
		"priority": true, "created_at": true, "updated_at": true,
		"title": true, "status": true, "due_at": true,
	}
	if !allowed[col] {
		return "created_at DESC"
	}
	if desc {
		return col + " DESC"
	}
	return col + " ASC"
}
