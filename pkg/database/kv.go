package database

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"
)

// The application persists its whole state as JSON snapshots under string
// keys, so the schema is a single key-value table plus a version tracker.
var schemaStatements = []struct {
	version int
	name    string
	sql     string
}{
	{
		version: 1,
		name:    "create_kv_store",
		sql: `CREATE TABLE IF NOT EXISTS kv_store (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
	},
}

// InitSchema applies pending schema statements. Safe to run on every startup.
func (db *DB) InitSchema() error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied := make(map[int]bool)
	rows, err := db.Query("SELECT version FROM schema_migrations")
	if err != nil {
		return fmt.Errorf("failed to read applied migrations: %w", err)
	}
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			rows.Close()
			return err
		}
		applied[v] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, stmt := range schemaStatements {
		if applied[stmt.version] {
			continue
		}
		err := db.WithTransaction(func(tx *sql.Tx) error {
			if _, err := tx.Exec(stmt.sql); err != nil {
				return fmt.Errorf("migration %d (%s) failed: %w", stmt.version, stmt.name, err)
			}
			_, err := tx.Exec("INSERT INTO schema_migrations (version, name) VALUES (?, ?)", stmt.version, stmt.name)
			return err
		})
		if err != nil {
			return err
		}
		db.logger.Info("Applied migration",
			zap.Int("version", stmt.version),
			zap.String("name", stmt.name))
	}

	return nil
}

// GetValue returns the value stored under key. The second return value is
// false when the key is absent.
func (db *DB) GetValue(key string) (string, bool, error) {
	var value string
	err := db.QueryRow("SELECT value FROM kv_store WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read key %q: %w", key, err)
	}
	return value, true, nil
}

// SetValue upserts a value under key.
func (db *DB) SetValue(tx *sql.Tx, key, value string) error {
	query := `INSERT INTO kv_store (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`

	var err error
	if tx != nil {
		_, err = tx.Exec(query, key, value)
	} else {
		_, err = db.Exec(query, key, value)
	}
	if err != nil {
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}
	return nil
}

// DeleteValue removes a key. Deleting an absent key is not an error.
func (db *DB) DeleteValue(tx *sql.Tx, key string) error {
	var err error
	if tx != nil {
		_, err = tx.Exec("DELETE FROM kv_store WHERE key = ?", key)
	} else {
		_, err = db.Exec("DELETE FROM kv_store WHERE key = ?", key)
	}
	if err != nil {
		return fmt.Errorf("failed to delete key %q: %w", key, err)
	}
	return nil
}
