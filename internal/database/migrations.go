package database

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migration represents a single SQL migration file.
type Migration struct {
	Version    string
	Filename   string
	SQLContent string
	Checksum   string
}

// calculateChecksum computes the SHA256 checksum of migration content.
func calculateChecksum(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}

// MigrationRunner executes database migrations from a directory of
// version-prefixed SQL files (001_*.sql, 002_*.sql, ...).
type MigrationRunner struct {
	db  *pgxpool.Pool
	dir string
}

// NewMigrationRunner creates a new migration runner.
func NewMigrationRunner(db *pgxpool.Pool, migrationsDir string) *MigrationRunner {
	return &MigrationRunner{
		db:  db,
		dir: migrationsDir,
	}
}

// RunMigrations executes all pending migrations in order.
func (m *MigrationRunner) RunMigrations(ctx context.Context) error {
	if err := m.createMigrationsTable(ctx); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	migrations, err := m.loadMigrationFiles()
	if err != nil {
		return fmt.Errorf("failed to load migration files: %w", err)
	}

	executed, err := m.GetExecutedMigrations(ctx)
	if err != nil {
		return fmt.Errorf("failed to get executed migrations: %w", err)
	}

	for _, migration := range migrations {
		if executed[migration.Version] {
			continue
		}

		log.Printf("[MIGRATION] Executing %s (%s)", migration.Version, migration.Filename)
		if err := m.executeMigration(ctx, migration); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", migration.Version, err)
		}
	}

	if err := m.verifyMigrationIntegrity(ctx, migrations); err != nil {
		return fmt.Errorf("migration integrity verification failed: %w", err)
	}

	return nil
}

// createMigrationsTable creates the table that tracks migration execution.
func (m *MigrationRunner) createMigrationsTable(ctx context.Context) error {
	_, err := m.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version VARCHAR(255) PRIMARY KEY,
			executed_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			checksum VARCHAR(64)
		)
	`)
	return err
}

// LoadMigrationFiles loads the up migrations from the migrations directory.
func (m *MigrationRunner) LoadMigrationFiles() ([]Migration, error) {
	return m.loadMigrationFiles()
}

func (m *MigrationRunner) loadMigrationFiles() ([]Migration, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var migrations []Migration
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}

		filename := entry.Name()

		// Down migrations run only through explicit rollback.
		if strings.Contains(filename, "_down_") {
			continue
		}

		content, err := os.ReadFile(filepath.Join(m.dir, filename))
		if err != nil {
			return nil, fmt.Errorf("failed to read migration file %s: %w", filename, err)
		}

		contentStr := string(content)
		migrations = append(migrations, Migration{
			Version:    strings.TrimSuffix(filename, ".sql"),
			Filename:   filename,
			SQLContent: contentStr,
			Checksum:   calculateChecksum(contentStr),
		})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})

	return migrations, nil
}

// GetExecutedMigrations returns the set of already-executed migration versions.
func (m *MigrationRunner) GetExecutedMigrations(ctx context.Context) (map[string]bool, error) {
	rows, err := m.db.Query(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	executed := make(map[string]bool)
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		executed[version] = true
	}

	return executed, rows.Err()
}

// executeMigration runs one migration and records it atomically.
func (m *MigrationRunner) executeMigration(ctx context.Context, migration Migration) error {
	tx, err := m.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin migration transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, migration.SQLContent); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO schema_migrations (version, checksum) VALUES ($1, $2)`,
		migration.Version, migration.Checksum); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// verifyMigrationIntegrity checks that executed migrations still match the
// checksums of the files on disk.
func (m *MigrationRunner) verifyMigrationIntegrity(ctx context.Context, migrations []Migration) error {
	for _, migration := range migrations {
		var storedChecksum *string
		err := m.db.QueryRow(ctx,
			`SELECT checksum FROM schema_migrations WHERE version = $1`,
			migration.Version).Scan(&storedChecksum)
		if err != nil {
			return fmt.Errorf("failed to read checksum for %s: %w", migration.Version, err)
		}

		if storedChecksum == nil || *storedChecksum != migration.Checksum {
			return fmt.Errorf("checksum mismatch for migration %s: file was modified after execution", migration.Version)
		}
	}
	return nil
}

// RollbackLastMigration executes the down file for the most recently executed
// migration and removes its record. The down file is named
// <version>_down_*.sql alongside the up file.
func (m *MigrationRunner) RollbackLastMigration(ctx context.Context) error {
	var version string
	err := m.db.QueryRow(ctx,
		`SELECT version FROM schema_migrations ORDER BY executed_at DESC LIMIT 1`).Scan(&version)
	if err != nil {
		return fmt.Errorf("failed to find last executed migration: %w", err)
	}

	downFile, err := m.findDownFile(version)
	if err != nil {
		return err
	}

	content, err := os.ReadFile(downFile)
	if err != nil {
		return fmt.Errorf("failed to read down migration %s: %w", downFile, err)
	}

	tx, err := m.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin rollback transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, string(content)); err != nil {
		return fmt.Errorf("failed to execute down migration for %s: %w", version, err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM schema_migrations WHERE version = $1`, version); err != nil {
		return fmt.Errorf("failed to remove migration record %s: %w", version, err)
	}

	return tx.Commit(ctx)
}

// findDownFile locates the down migration file for a version.
func (m *MigrationRunner) findDownFile(version string) (string, error) {
	prefix := versionPrefix(version)

	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return "", fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, prefix) && strings.Contains(name, "_down_") && strings.HasSuffix(name, ".sql") {
			return filepath.Join(m.dir, name), nil
		}
	}

	return "", fmt.Errorf("no down migration found for version %s", version)
}

// versionPrefix extracts the numeric prefix of a version ("001_create_users"
// → "001").
func versionPrefix(version string) string {
	if idx := strings.Index(version, "_"); idx > 0 {
		return version[:idx]
	}
	return version
}
