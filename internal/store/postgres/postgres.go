// Package postgres implements the store.Store interface backed by PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"

	"github.com/harkline/taskdeck/internal/model"
	"github.com/harkline/taskdeck/internal/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresStore implements store.Store backed by a PostgreSQL database.
type PostgresStore struct {
	db *sql.DB
}

// Compile-time check that PostgresStore implements store.Store.
var _ store.Store = (*PostgresStore)(nil)

// New opens a connection to the PostgreSQL database at the given URL,
// configures the connection pool, and runs any pending migrations.
func New(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	dbDriver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// Close closes the underlying database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) CreateTask(ctx context.Context, task *model.Task) error {
	return queryCreateTask(ctx, s.db, task)
}

func (s *PostgresStore) GetTask(ctx context.Context, id string) (*model.Task, error) {
	return queryGetTask(ctx, s.db, id)
}

func (s *PostgresStore) ListTasks(ctx context.Context, filter model.TaskFilter) ([]*model.Task, int, error) {
	return queryListTasks(ctx, s.db, filter)
}

func (s *PostgresStore) UpdateTask(ctx context.Context, task *model.Task) error {
	return queryUpdateTask(ctx, s.db, task)
}

func (s *PostgresStore) DeleteTask(ctx context.Context, id string) error {
	return queryDeleteTask(ctx, s.db, id)
}

func (s *PostgresStore) AddDependency(ctx context.Context, dep *model.Dependency) error {
	return queryAddDependency(ctx, s.db, dep)
}

func (s *PostgresStore) RemoveDependency(ctx context.Context, id int64) (*model.Dependency, error) {
	return queryRemoveDependency(ctx, s.db, id)
}

func (s *PostgresStore) RemoveDependencyBetween(ctx context.Context, taskID, dependsOnID string) (*model.Dependency, error) {
	return queryRemoveDependencyBetween(ctx, s.db, taskID, dependsOnID)
}

func (s *PostgresStore) GetDependencies(ctx context.Context, taskID string) ([]*model.Dependency, error) {
	return queryGetDependencies(ctx, s.db, taskID)
}

func (s *PostgresStore) GetDependents(ctx context.Context, taskID string) ([]*model.Dependency, error) {
	return queryGetDependents(ctx, s.db, taskID)
}

func (s *PostgresStore) DependencyExists(ctx context.Context, taskID, dependsOnID string) (bool, error) {
	return queryDependencyExists(ctx, s.db, taskID, dependsOnID)
}

func (s *PostgresStore) HasDependencyPath(ctx context.Context, fromID, toID string) (bool, error) {
	return queryHasDependencyPath(ctx, s.db, fromID, toID)
}

func (s *PostgresStore) CreateUser(ctx context.Context, user *model.User) error {
	return queryCreateUser(ctx, s.db, user)
}

func (s *PostgresStore) GetUser(ctx context.Context, id string) (*model.User, error) {
	return queryGetUser(ctx, s.db, id)
}

func (s *PostgresStore) ListUsers(ctx context.Context) ([]*model.User, error) {
	return queryListUsers(ctx, s.db)
}

func (s *PostgresStore) UpdateUser(ctx context.Context, user *model.User) error {
	return queryUpdateUser(ctx, s.db, user)
}

func (s *PostgresStore) DeleteUser(ctx context.Context, id string) error {
	return queryDeleteUser(ctx, s.db, id)
}

func (s *PostgresStore) CreateCategory(ctx context.Context, category *model.Category) error {
	return queryCreateCategory(ctx, s.db, category)
}

func (s *PostgresStore) GetCategory(ctx context.Context, id string) (*model.Category, error) {
	return queryGetCategory(ctx, s.db, id)
}

func (s *PostgresStore) ListCategories(ctx context.Context) ([]*model.Category, error) {
	return queryListCategories(ctx, s.db)
}

func (s *PostgresStore) UpdateCategory(ctx context.Context, category *model.Category) error {
	return queryUpdateCategory(ctx, s.db, category)
}

func (s *PostgresStore) DeleteCategory(ctx context.Context, id string) error {
	return queryDeleteCategory(ctx, s.db, id)
}

func (s *PostgresStore) AddComment(ctx context.Context, comment *model.Comment) error {
	return queryAddComment(ctx, s.db, comment)
}

func (s *PostgresStore) GetComments(ctx context.Context, taskID string) ([]*model.Comment, error) {
	return queryGetComments(ctx, s.db, taskID)
}

func (s *PostgresStore) RecordActivity(ctx context.Context, activity *model.Activity) error {
	return queryRecordActivity(ctx, s.db, activity)
}

func (s *PostgresStore) GetActivity(ctx context.Context, taskID string) ([]*model.Activity, error) {
	return queryGetActivity(ctx, s.db, taskID)
}

func (s *PostgresStore) GetGraph(ctx context.Context, limit int) (*model.GraphResponse, error) {
	return queryGetGraph(ctx, s.db, limit)
}

func (s *PostgresStore) GetStats(ctx context.Context) (*model.GraphStats, error) {
	return queryGetStats(ctx, s.db)
}

// RunInTransaction begins a serializable database transaction, creates a
// txStore that delegates to it, calls fn, and commits on success or rolls
// back on error. Serializable isolation is what makes the check-then-insert
// sequences in the dependency guard and status validator safe under
// concurrent requests.
func (s *PostgresStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	txS := &txStore{tx: tx}
	if err := fn(txS); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// txStore implements store.Store using a *sql.Tx.
type txStore struct {
	tx *sql.Tx
}

// Compile-time check that txStore implements store.Store.
var _ store.Store = (*txStore)(nil)

func (s *txStore) CreateTask(ctx context.Context, task *model.Task) error {
	return queryCreateTask(ctx, s.tx, task)
}

func (s *txStore) GetTask(ctx context.Context, id string) (*model.Task, error) {
	return queryGetTask(ctx, s.tx, id)
}

func (s *txStore) ListTasks(ctx context.Context, filter model.TaskFilter) ([]*model.Task, int, error) {
	return queryListTasks(ctx, s.tx, filter)
}

func (s *txStore) UpdateTask(ctx context.Context, task *model.Task) error {
	return queryUpdateTask(ctx, s.tx, task)
}

func (s *txStore) DeleteTask(ctx context.Context, id string) error {
	return queryDeleteTask(ctx, s.tx, id)
}

func (s *txStore) AddDependency(ctx context.Context, dep *model.Dependency) error {
	return queryAddDependency(ctx, s.tx, dep)
}

func (s *txStore) RemoveDependency(ctx context.Context, id int64) (*model.Dependency, error) {
	return queryRemoveDependency(ctx, s.tx, id)
}

func (s *txStore) RemoveDependencyBetween(ctx context.Context, taskID, dependsOnID string) (*model.Dependency, error) {
	return queryRemoveDependencyBetween(ctx, s.tx, taskID, dependsOnID)
}

func (s *txStore) GetDependencies(ctx context.Context, taskID string) ([]*model.Dependency, error) {
	return queryGetDependencies(ctx, s.tx, taskID)
}

func (s *txStore) GetDependents(ctx context.Context, taskID string) ([]*model.Dependency, error) {
	return queryGetDependents(ctx, s.tx, taskID)
}

func (s *txStore) DependencyExists(ctx context.Context, taskID, dependsOnID string) (bool, error) {
	return queryDependencyExists(ctx, s.tx, taskID, dependsOnID)
}

func (s *txStore) HasDependencyPath(ctx context.Context, fromID, toID string) (bool, error) {
	return queryHasDependencyPath(ctx, s.tx, fromID, toID)
}

func (s *txStore) CreateUser(ctx context.Context, user *model.User) error {
	return queryCreateUser(ctx, s.tx, user)
}

func (s *txStore) GetUser(ctx context.Context, id string) (*model.User, error) {
	return queryGetUser(ctx, s.tx, id)
}

func (s *txStore) ListUsers(ctx context.Context) ([]*model.User, error) {
	return queryListUsers(ctx, s.tx)
}

func (s *txStore) UpdateUser(ctx context.Context, user *model.User) error {
	return queryUpdateUser(ctx, s.tx, user)
}

func (s *txStore) DeleteUser(ctx context.Context, id string) error {
	return queryDeleteUser(ctx, s.tx, id)
}

func (s *txStore) CreateCategory(ctx context.Context, category *model.Category) error {
	return queryCreateCategory(ctx, s.tx, category)
}

func (s *txStore) GetCategory(ctx context.Context, id string) (*model.Category, error) {
	return queryGetCategory(ctx, s.tx, id)
}

func (s *txStore) ListCategories(ctx context.Context) ([]*model.Category, error) {
	return queryListCategories(ctx, s.tx)
}

func (s *txStore) UpdateCategory(ctx context.Context, category *model.Category) error {
	return queryUpdateCategory(ctx, s.tx, category)
}

func (s *txStore) DeleteCategory(ctx context.Context, id string) error {
	return queryDeleteCategory(ctx, s.tx, id)
}

func (s *txStore) AddComment(ctx context.Context, comment *model.Comment) error {
	return queryAddComment(ctx, s.tx, comment)
}

func (s *txStore) GetComments(ctx context.Context, taskID string) ([]*model.Comment, error) {
	return queryGetComments(ctx, s.tx, taskID)
}

func (s *txStore) RecordActivity(ctx context.Context, activity *model.Activity) error {
	return queryRecordActivity(ctx, s.tx, activity)
}

func (s *txStore) GetActivity(ctx context.Context, taskID string) ([]*model.Activity, error) {
	return queryGetActivity(ctx, s.tx, taskID)
}

func (s *txStore) GetGraph(ctx context.Context, limit int) (*model.GraphResponse, error) {
	return queryGetGraph(ctx, s.tx, limit)
}

func (s *txStore) GetStats(ctx context.Context) (*model.GraphStats, error) {
	return queryGetStats(ctx, s.tx)
}

// RunInTransaction on a txStore reuses the existing transaction (no nesting).
func (s *txStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	return fn(s)
}

// Close is a no-op for a transaction store; the parent store owns the connection.
func (s *txStore) Close() error {
	return nil
}
