package postgres

import (
	"database/sql"
	"time"

	"github.com/harkline/taskdeck/internal/model"
)

// scannable is the interface satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

// scanTask scans a single row into a model.Task.
// The row must contain columns in the order defined by taskColumns.
func scanTask(row scannable) (*model.Task, error) {
	var t model.Task
	var (
		description sql.NullString
		assignee    sql.NullString
		categoryID  sql.NullString
		createdBy   sql.NullString
		completedAt sql.NullTime
		dueAt       sql.NullTime
	)

	err := row.Scan(
		&t.ID,
		&t.Title,
		&description,
		&t.Status,
		&t.Priority,
		&assignee,
		&categoryID,
		&t.CreatedAt,
		&createdBy,
		&t.UpdatedAt,
		&completedAt,
		&dueAt,
	)
	if err != nil {
		return nil, err
	}

	t.Description = description.String
	t.Assignee = assignee.String
	t.CategoryID = categoryID.String
	t.CreatedBy = createdBy.String

	if completedAt.Valid {
		ts := completedAt.Time
		t.CompletedAt = &ts
	}
	if dueAt.Valid {
		ts := dueAt.Time
		t.DueAt = &ts
	}

	return &t, nil
}

// scanTaskWithTotal scans a row that has a leading total_count column
// followed by the standard task columns. Used by queryListTasks with
// COUNT(*) OVER().
func scanTaskWithTotal(row scannable) (*model.Task, int, error) {
	var total int
	var t model.Task
	var (
		description sql.NullString
		assignee    sql.NullString
		categoryID  sql.NullString
		createdBy   sql.NullString
		completedAt sql.NullTime
		dueAt       sql.NullTime
	)

	err := row.Scan(
		&total,
		&t.ID,
		&t.Title,
		&description,
		&t.Status,
		&t.Priority,
		&assignee,
		&categoryID,
		&t.CreatedAt,
		&createdBy,
		&t.UpdatedAt,
		&completedAt,
		&dueAt,
	)
	if err != nil {
		return nil, 0, err
	}

	t.Description = description.String
	t.Assignee = assignee.String
	t.CategoryID = categoryID.String
	t.CreatedBy = createdBy.String

	if completedAt.Valid {
		ts := completedAt.Time
		t.CompletedAt = &ts
	}
	if dueAt.Valid {
		ts := dueAt.Time
		t.DueAt = &ts
	}

	return &t, total, nil
}

// scanDependency scans a single dependency row.
func scanDependency(row scannable) (*model.Dependency, error) {
	var d model.Dependency
	var createdBy sql.NullString

	err := row.Scan(
		&d.ID,
		&d.TaskID,
		&d.DependsOnID,
		&d.CreatedAt,
		&createdBy,
	)
	if err != nil {
		return nil, err
	}

	d.CreatedBy = createdBy.String
	return &d, nil
}

// scanDependencies scans all rows into a slice of dependencies.
func scanDependencies(rows *sql.Rows) ([]*model.Dependency, error) {
	var deps []*model.Dependency
	for rows.Next() {
		d, err := scanDependency(rows)
		if err != nil {
			return nil, err
		}
		deps = append(deps, d)
	}
	return deps, rows.Err()
}

// scanUser scans a single user row.
func scanUser(row scannable) (*model.User, error) {
	var u model.User
	var email sql.NullString

	if err := row.Scan(&u.ID, &u.Name, &email, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.Email = email.String
	return &u, nil
}

func scanUsers(rows *sql.Rows) ([]*model.User, error) {
	var users []*model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// scanCategory scans a single category row.
func scanCategory(row scannable) (*model.Category, error) {
	var c model.Category
	var description sql.NullString

	if err := row.Scan(&c.ID, &c.Name, &description, &c.CreatedAt); err != nil {
		return nil, err
	}
	c.Description = description.String
	return &c, nil
}

func scanCategories(rows *sql.Rows) ([]*model.Category, error) {
	var categories []*model.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// scanComment scans a single comment row.
func scanComment(row scannable) (*model.Comment, error) {
	var c model.Comment
	var author sql.NullString

	if err := row.Scan(&c.ID, &c.TaskID, &author, &c.Text, &c.CreatedAt); err != nil {
		return nil, err
	}
	c.Author = author.String
	return &c, nil
}

func scanComments(rows *sql.Rows) ([]*model.Comment, error) {
	var comments []*model.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// scanActivity scans a single activity row.
func scanActivity(row scannable) (*model.Activity, error) {
	var a model.Activity
	var (
		actor       sql.NullString
		description sql.NullString
		oldValue    sql.NullString
		newValue    sql.NullString
	)

	err := row.Scan(
		&a.ID,
		&a.TaskID,
		&actor,
		&a.Kind,
		&description,
		&oldValue,
		&newValue,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.Actor = actor.String
	a.Description = description.String
	a.OldValue = oldValue.String
	a.NewValue = newValue.String
	return &a, nil
}

func scanActivities(rows *sql.Rows) ([]*model.Activity, error) {
	var activities []*model.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

// nullTimePtr converts a *time.Time into a sql.NullTime.
func nullTimePtr(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// nullString converts an empty string into a SQL NULL.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
