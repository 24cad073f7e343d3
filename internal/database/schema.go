package database

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"postboard/internal/middleware"

	"gorm.io/gorm"
)

// Table names managed by the schema manager, in dependency order.
const (
	TableUsers = "users"
	TablePosts = "posts"
	TableLikes = "likes"
)

var tableMigrations = map[string]int{
	TableUsers: 1,
	TablePosts: 2,
	TableLikes: 3,
}

// SchemaManager idempotently creates the application tables. Successful
// ensures are remembered until Forget sees a table go missing; failures are
// retried on the next call.
type SchemaManager struct {
	db *gorm.DB

	mu      sync.Mutex
	ensured map[string]bool
}

// NewSchemaManager creates a SchemaManager over db.
func NewSchemaManager(db *gorm.DB) *SchemaManager {
	return &SchemaManager{db: db, ensured: make(map[string]bool)}
}

// EnsureUsersTable creates users if missing.
func (s *SchemaManager) EnsureUsersTable(ctx context.Context) error {
	return s.ensure(ctx, TableUsers)
}

// EnsurePostsTable creates users and posts if missing.
func (s *SchemaManager) EnsurePostsTable(ctx context.Context) error {
	return s.ensure(ctx, TableUsers, TablePosts)
}

// EnsureLikesTable creates users, posts and likes if missing.
func (s *SchemaManager) EnsureLikesTable(ctx context.Context) error {
	return s.ensure(ctx, TableUsers, TablePosts, TableLikes)
}

// EnsureAll creates every application table if missing.
func (s *SchemaManager) EnsureAll(ctx context.Context) error {
	return s.EnsureLikesTable(ctx)
}

// ApplySchema runs the migration runner and marks every table as ensured.
func (s *SchemaManager) ApplySchema(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := RunMigrations(ctx, s.db); err != nil {
		return fmt.Errorf("run sql migrations: %w", err)
	}
	for table := range tableMigrations {
		s.ensured[table] = true
	}
	return nil
}

// Forget clears every remembered ensure when err reports an undefined table,
// so the next ensure recreates whatever was dropped underneath the process.
// It reports whether the memo was cleared.
func (s *SchemaManager) Forget(err error) bool {
	if !IsUndefinedTable(err) {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.ensured)
	middleware.Logger.Warn("Table missing after ensure, schema will be re-ensured", slog.String("error", err.Error()))
	return true
}

func (s *SchemaManager) ensure(ctx context.Context, tables ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var pending []string
	for _, table := range tables {
		if !s.ensured[table] {
			pending = append(pending, table)
		}
	}
	if len(pending) == 0 {
		return nil
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockSchema(tx); err != nil {
			return err
		}
		for _, table := range pending {
			m := GetMigrationByVersion(tableMigrations[table])
			if m == nil {
				return fmt.Errorf("no migration registered for table %s", table)
			}
			if err := tx.Exec(m.UpScript).Error; err != nil {
				return fmt.Errorf("ensure %s table: %w", table, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, table := range pending {
		s.ensured[table] = true
	}
	middleware.Logger.Debug("Schema ensured", slog.Any("tables", pending))
	return nil
}

// SchemaStatus summarizes which migrations the database has applied.
type SchemaStatus struct {
	AppliedVersions   []int
	PendingMigrations []Migration
}

// GetSchemaStatus compares migration_logs with the embedded migrations.
func GetSchemaStatus(ctx context.Context, db *gorm.DB) (*SchemaStatus, error) {
	applied, err := NewMigrationStore(db).GetAppliedMigrations(ctx)
	if err != nil {
		return nil, err
	}

	status := &SchemaStatus{AppliedVersions: applied}
	appliedSet := make(map[int]bool, len(applied))
	for _, version := range applied {
		appliedSet[version] = true
	}
	for _, m := range GetMigrations() {
		if !appliedSet[m.Version] {
			status.PendingMigrations = append(status.PendingMigrations, m)
		}
	}
	return status, nil
}
