package postgres

import (
	"context"
	"fmt"

	"github.com/harkline/taskdeck/internal/model"
)

// maxDependencyDepth bounds the recursive path traversal so a pathological
// edge set cannot turn the reachability check into an unbounded query.
const maxDependencyDepth = 100

func queryAddDependency(ctx context.Context, db executor, dep *model.Dependency) error {
	return db.QueryRowContext(ctx, `
		INSERT INTO dependencies (task_id, depends_on_id, created_at, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		dep.TaskID,
		dep.DependsOnID,
		dep.CreatedAt,
		dep.CreatedBy,
	).Scan(&dep.ID)
}

func queryRemoveDependency(ctx context.Context, db executor, id int64) (*model.Dependency, error) {
	row := db.QueryRowContext(ctx, `
		DELETE FROM dependencies
		WHERE id = $1
		RETURNING id, task_id, depends_on_id, created_at, created_by`,
		id,
	)
	return scanDependency(row)
}

func queryRemoveDependencyBetween(ctx context.Context, db executor, taskID, dependsOnID string) (*model.Dependency, error) {
	row := db.QueryRowContext(ctx, `
		DELETE FROM dependencies
		WHERE task_id = $1 AND depends_on_id = $2
		RETURNING id, task_id, depends_on_id, created_at, created_by`,
		taskID, dependsOnID,
	)
	return scanDependency(row)
}

func queryGetDependencies(ctx context.Context, db executor, taskID string) ([]*model.Dependency, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, task_id, depends_on_id, created_at, created_by
		FROM dependencies
		WHERE task_id = $1`,
		taskID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDependencies(rows)
}

func queryGetDependents(ctx context.Context, db executor, taskID string) ([]*model.Dependency, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, task_id, depends_on_id, created_at, created_by
		FROM dependencies
		WHERE depends_on_id = $1`,
		taskID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDependencies(rows)
}

func queryDependencyExists(ctx context.Context, db executor, taskID, dependsOnID string) (bool, error) {
	var exists bool
	err := db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM dependencies
			WHERE task_id = $1 AND depends_on_id = $2
		)`,
		taskID, dependsOnID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("dependency exists: %w", err)
	}
	return exists, nil
}

// queryHasDependencyPath reports whether a directed path exists from fromID to
// toID along the depends-on adjacency. A zero-length path (fromID == toID)
// counts as reachable. Used by the dependency guard: inserting edge
// (task -> dependsOn) is safe only when no path exists from dependsOn back to
// task, otherwise the new edge closes a cycle.
func queryHasDependencyPath(ctx context.Context, db executor, fromID, toID string) (bool, error) {
	if fromID == toID {
		return true, nil
	}

	var reachable bool
	err := db.QueryRowContext(ctx, `
		WITH RECURSIVE paths AS (
			SELECT task_id, depends_on_id, 1 AS depth
			FROM dependencies
			WHERE task_id = $1

			UNION ALL

			SELECT d.task_id, d.depends_on_id, p.depth + 1
			FROM dependencies d
			JOIN paths p ON d.task_id = p.depends_on_id
			WHERE p.depth < $2
		)
		SELECT EXISTS(
			SELECT 1 FROM paths WHERE depends_on_id = $3
		)`,
		fromID, maxDependencyDepth, toID,
	).Scan(&reachable)
	if err != nil {
		return false, fmt.Errorf("dependency path check: %w", err)
	}
	return reachable, nil
}
