// Package rubricstore persists named rubric configurations in sqlite so a
// tuned rubric survives process restarts and can be shared between runs.
package rubricstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/woolshed/flockmark/internal/domain/scoring"
)

// Sentinel kinds for rubric store errors.
var (
	ErrNotFound = errors.New("rubric not found")
)

// DB wraps the sqlite handle.
type DB struct {
	sql *sql.DB
}

// Open opens (creating if needed) the rubric database at path.
func Open(path string) (*DB, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS rubrics (
  name       TEXT PRIMARY KEY,
  definition TEXT NOT NULL,
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
	`); err != nil {
		return nil, err
	}
	return &DB{sql: db}, nil
}

// Close releases the database handle.
func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

// Save validates and upserts a rubric under name.
func (d *DB) Save(ctx context.Context, name string, rubric scoring.Rubric) error {
	if name == "" {
		return errors.New("rubric name must not be empty")
	}
	if err := rubric.Validate(); err != nil {
		return err
	}
	definition, err := json.Marshal(rubric)
	if err != nil {
		return fmt.Errorf("encode rubric: %w", err)
	}
	_, err = d.sql.ExecContext(ctx, `
INSERT INTO rubrics(name, definition, updated_at) VALUES(?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(name) DO UPDATE SET definition = excluded.definition, updated_at = CURRENT_TIMESTAMP
	`, name, string(definition))
	return err
}

// Get returns the rubric saved under name.
func (d *DB) Get(ctx context.Context, name string) (scoring.Rubric, error) {
	var definition string
	err := d.sql.QueryRowContext(ctx, "SELECT definition FROM rubrics WHERE name = ?", name).Scan(&definition)
	if errors.Is(err, sql.ErrNoRows) {
		return scoring.Rubric{}, ErrNotFound
	}
	if err != nil {
		return scoring.Rubric{}, err
	}
	var rubric scoring.Rubric
	if err := json.Unmarshal([]byte(definition), &rubric); err != nil {
		return scoring.Rubric{}, fmt.Errorf("decode rubric %q: %w", name, err)
	}
	return rubric, nil
}

// List returns the saved rubric names in alphabetical order.
func (d *DB) List(ctx context.Context) ([]string, error) {
	rows, err := d.sql.QueryContext(ctx, "SELECT name FROM rubrics ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return names, nil
}

// Delete removes the rubric saved under name.
func (d *DB) Delete(ctx context.Context, name string) error {
	res, err := d.sql.ExecContext(ctx, "DELETE FROM rubrics WHERE name = ?", name)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
