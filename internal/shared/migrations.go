package shared

import (
	"database/sql"
	"embed"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

//go:embed sql/*.sql
var migrationFiles embed.FS

// Migration represents a database migration with up and down SQL.
type Migration struct {
	Version int
	Up      string
	Down    string
}

// loadMigrations reads all migration files from the embedded filesystem and returns them sorted by version.
//
// Filenames follow the pattern "0000_description_up.sql" / "0000_description_down.sql".
func loadMigrations() ([]Migration, error) {
	entries, err := migrationFiles.ReadDir("sql")
	if err != nil {
		return nil, fmt.Errorf("failed to read migration directory: %w", err)
	}

	migrationMap := make(map[int]*Migration)

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if !strings.HasSuffix(name, ".sql") {
			continue
		}

		parts := strings.Split(name, "_")
		if len(parts) < 2 {
			continue
		}

		version, err := strconv.Atoi(parts[0])
		if err != nil {
			continue
		}

		content, err := migrationFiles.ReadFile(filepath.Join("sql", name))
		if err != nil {
			return nil, fmt.Errorf("failed to read migration file %s: %w", name, err)
		}

		if migrationMap[version] == nil {
			migrationMap[version] = &Migration{Version: version}
		}

		if strings.Contains(name, "_up.sql") {
			migrationMap[version].Up = string(content)
		} else if strings.Contains(name, "_down.sql") {
			migrationMap[version].Down = string(content)
		}
	}

	var migrations []Migration
	for _, migration := range migrationMap {
		if migration.Up == "" || migration.Down == "" {
			return nil, fmt.Errorf("incomplete migration for version %d", migration.Version)
		}
		migrations = append(migrations, *migration)
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})

	return migrations, nil
}

// currentVersion returns the highest applied migration version, or -1 if none.
func currentVersion(db *sql.DB) (int, error) {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (version INTEGER PRIMARY KEY, applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP)`); err != nil {
		return -1, fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	var version sql.NullInt64
	if err := db.QueryRow(`SELECT MAX(version) FROM schema_migrations`).Scan(&version); err != nil {
		return -1, fmt.Errorf("failed to query schema version: %w", err)
	}

	if !version.Valid {
		return -1, nil
	}
	return int(version.Int64), nil
}

// Migrate applies all pending migrations to the database in version order.
func Migrate(db *sql.DB) error {
	migrations, err := loadMigrations()
	if err != nil {
		return err
	}

	applied, err := currentVersion(db)
	if err != nil {
		return err
	}

	for _, migration := range migrations {
		if migration.Version <= applied {
			continue
		}

		if err := applyStep(db, migration.Up, `INSERT INTO schema_migrations (version) VALUES (?)`, migration.Version); err != nil {
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}
	}

	return nil
}

// applyStep runs one migration statement and its bookkeeping in a transaction
// so a failed migration never leaves the version table out of sync.
func applyStep(db *sql.DB, stmt, record string, version int) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(stmt); err != nil {
		tx.Rollback()
		return err
	}
	if _, err := tx.Exec(record, version); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

// Rollback reverts the most recently applied migration.
func Rollback(db *sql.DB) error {
	migrations, err := loadMigrations()
	if err != nil {
		return err
	}

	applied, err := currentVersion(db)
	if err != nil {
		return err
	}
	if applied < 0 {
		return fmt.Errorf("no migrations to roll back")
	}

	for i := len(migrations) - 1; i >= 0; i-- {
		migration := migrations[i]
		if migration.Version != applied {
			continue
		}

		if err := applyStep(db, migration.Down, `DELETE FROM schema_migrations WHERE version = ?`, migration.Version); err != nil {
			return fmt.Errorf("rollback of migration %d failed: %w", migration.Version, err)
		}

		return nil
	}

	return fmt.Errorf("migration %d not found in embedded files", applied)
}
