package database

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"postboard/internal/middleware"

	"gorm.io/gorm"
)

// schemaLockKey is the pg_advisory_xact_lock key serializing every DDL path.
const schemaLockKey int64 = 0x706f7374626f6172

const ensureMigrationLogTableSQL = `
CREATE TABLE IF NOT EXISTS migration_logs (
	version BIGINT PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

// MigrationStore defines the interface for tracking and applying migrations.
type MigrationStore interface {
	GetAppliedMigrations(ctx context.Context) ([]int, error)
	ApplyMigration(ctx context.Context, version int, name, sql string) error
	RemoveMigration(ctx context.Context, version int) error
}

type migrationStore struct {
	db *gorm.DB
}

// MigrationLog represents a record of an applied migration in the database.
type MigrationLog struct {
	Version   int       `gorm:"primaryKey;autoIncrement:false"`
	Name      string    `gorm:"size:255"`
	AppliedAt time.Time `gorm:"autoCreateTime"`
}

// TableName returns the database table name for MigrationLog.
func (MigrationLog) TableName() string {
	return "migration_logs"
}

// NewMigrationStore creates a new MigrationStore instance.
func NewMigrationStore(db *gorm.DB) MigrationStore {
	return &migrationStore{db: db}
}

func (s *migrationStore) GetAppliedMigrations(ctx context.Context) ([]int, error) {
	var versions []int
	if err := s.db.WithContext(ctx).Model(&MigrationLog{}).Order("version ASC").Pluck("version", &versions).Error; err != nil {
		if IsUndefinedTable(err) {
			return []int{}, nil
		}
		return nil, fmt.Errorf("failed to get applied migrations: %w", err)
	}
	return versions, nil
}

func (s *migrationStore) ApplyMigration(ctx context.Context, version int, name, sql string) error {
	if err := s.db.WithContext(ctx).Exec(sql).Error; err != nil {
		return fmt.Errorf("failed to apply migration %d (%s): %w", version, name, err)
	}

	entry := MigrationLog{Version: version, Name: name}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to record migration %d: %w", version, err)
	}

	middleware.Logger.Info("Migration applied", slog.Int("version", version), slog.String("name", name))
	return nil
}

func (s *migrationStore) RemoveMigration(ctx context.Context, version int) error {
	if err := s.db.WithContext(ctx).Where("version = ?", version).Delete(&MigrationLog{}).Error; err != nil {
		return fmt.Errorf("failed to remove migration record %d: %w", version, err)
	}
	middleware.Logger.Info("Migration rolled back", slog.Int("version", version))
	return nil
}

func lockSchema(tx *gorm.DB) error {
	if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", schemaLockKey).Error; err != nil {
		return fmt.Errorf("failed to acquire schema lock: %w", err)
	}
	return nil
}

// RunMigrations applies every pending migration in one transaction under the
// schema advisory lock, recording each step in migration_logs.
func RunMigrations(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockSchema(tx); err != nil {
			return err
		}
		if err := tx.Exec(ensureMigrationLogTableSQL).Error; err != nil {
			return fmt.Errorf("failed to ensure migration logs table: %w", err)
		}

		store := NewMigrationStore(tx)
		applied, err := store.GetAppliedMigrations(ctx)
		if err != nil {
			return err
		}
		if err := validateAppliedVersions(applied, migrations); err != nil {
			return err
		}

		appliedSet := make(map[int]bool, len(applied))
		for _, v := range applied {
			appliedSet[v] = true
		}

		for _, m := range migrations {
			if appliedSet[m.Version] {
				middleware.Logger.Debug("Migration already applied", slog.Int("version", m.Version), slog.String("name", m.Name))
				continue
			}
			middleware.Logger.Info("Applying migration", slog.Int("version", m.Version), slog.String("name", m.Name))
			if err := store.ApplyMigration(ctx, m.Version, m.Name, m.UpScript); err != nil {
				return err
			}
		}
		return nil
	})
}

func validateAppliedVersions(applied []int, registered []Migration) error {
	if len(applied) == 0 {
		return nil
	}
	known := make(map[int]struct{}, len(registered))
	for _, m := range registered {
		known[m.Version] = struct{}{}
	}

	var unknown []int
	for _, version := range applied {
		if _, ok := known[version]; !ok {
			unknown = append(unknown, version)
		}
	}
	if len(unknown) == 0 {
		return nil
	}

	sort.Ints(unknown)
	parts := make([]string, 0, len(unknown))
	for _, version := range unknown {
		parts = append(parts, fmt.Sprintf("%06d", version))
	}
	return fmt.Errorf("migration_logs contains unknown versions not present in this build: %s", strings.Join(parts, ", "))
}

// RollbackMigration runs the down script of the latest applied migration and
// removes its log entry. Versions must be rolled back newest first.
func RollbackMigration(ctx context.Context, db *gorm.DB, version int) error {
	m := GetMigrationByVersion(version)
	if m == nil {
		return fmt.Errorf("migration version %d not found", version)
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockSchema(tx); err != nil {
			return err
		}

		store := NewMigrationStore(tx)
		applied, err := store.GetAppliedMigrations(ctx)
		if err != nil {
			return err
		}

		found := false
		var later []string
		for _, v := range applied {
			switch {
			case v == version:
				found = true
			case v > version:
				later = append(later, fmt.Sprintf("%06d", v))
			}
		}
		if !found {
			return fmt.Errorf("migration %d has not been applied", version)
		}
		// Later tables reference earlier ones; dropping out of order would strip their foreign keys.
		if len(later) > 0 {
			return fmt.Errorf("migration %d cannot be rolled back while later migrations are applied: %s", version, strings.Join(later, ", "))
		}

		middleware.Logger.Info("Rolling back migration", slog.Int("version", version), slog.String("name", m.Name))
		if err := tx.Exec(m.DownScript).Error; err != nil {
			return fmt.Errorf("failed to run rollback SQL for migration %d (%s): %w", version, m.Name, err)
		}
		return store.RemoveMigration(ctx, version)
	})
}
