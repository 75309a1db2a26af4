// Package tombstone tracks locally-deleted entity ids so a stale or
// racing server snapshot cannot resurrect them. Tombstones live in a
// small sqlite database to survive restarts and are garbage collected
// once the server has confirmed absence often enough.
package tombstone

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// A tombstone is dropped after the id has been missing from this many
// consecutive successful snapshots.
const confirmThreshold = 3

type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open tombstone db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS tombstones (
			entity_type  TEXT NOT NULL,
			id           TEXT NOT NULL,
			deleted_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			absent_count INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (entity_type, id)
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate tombstone db: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Load returns the tombstoned ids per entity type.
func (s *Store) Load(ctx context.Context) (map[string]map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT entity_type, id FROM tombstones`)
	if err != nil {
		return nil, fmt.Errorf("load tombstones: %w", err)
	}
	defer rows.Close()

	result := map[string]map[string]bool{}
	for rows.Next() {
		var entityType, id string
		if err := rows.Scan(&entityType, &id); err != nil {
			return nil, err
		}
		if result[entityType] == nil {
			result[entityType] = map[string]bool{}
		}
		result[entityType][id] = true
	}
	return result, rows.Err()
}

// Add records a local deletion.
func (s *Store) Add(ctx context.Context, entityType, id string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tombstones (entity_type, id, deleted_at, absent_count)
		VALUES (?, ?, ?, 0)
		ON CONFLICT (entity_type, id) DO NOTHING
	`, entityType, id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("add tombstone: %w", err)
	}
	return nil
}

// Remove clears a tombstone, e.g. when an id reappears locally through
// undo or recreation.
func (s *Store) Remove(ctx context.Context, entityType, id string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM tombstones WHERE entity_type = ? AND id = ?
	`, entityType, id)
	if err != nil {
		return fmt.Errorf("remove tombstone: %w", err)
	}
	return nil
}

// RecordSnapshot notes one successful server snapshot for an entity
// type. Tombstones absent from the snapshot move one step closer to
// collection; tombstones the server still mentions are reset. Returns
// the ids whose tombstones expired.
func (s *Store) RecordSnapshot(ctx context.Context, entityType string, present map[string]bool) ([]string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("record snapshot: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, `
		SELECT id, absent_count FROM tombstones WHERE entity_type = ?
	`, entityType)
	if err != nil {
		return nil, err
	}

	type entry struct {
		id    string
		count int
	}
	var entries []entry
	for rows.Next() {
		var e entry
		if err := rows.Scan(&e.id, &e.count); err != nil {
			rows.Close()
			return nil, err
		}
		entries = append(entries, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var expired []string
	for _, e := range entries {
		switch {
		case present[e.id]:
			if _, err := tx.ExecContext(ctx, `
				UPDATE tombstones SET absent_count = 0 WHERE entity_type = ? AND id = ?
			`, entityType, e.id); err != nil {
				return nil, err
			}
		case e.count+1 >= confirmThreshold:
			if _, err := tx.ExecContext(ctx, `
				DELETE FROM tombstones WHERE entity_type = ? AND id = ?
			`, entityType, e.id); err != nil {
				return nil, err
			}
			expired = append(expired, e.id)
		default:
			if _, err := tx.ExecContext(ctx, `
				UPDATE tombstones SET absent_count = absent_count + 1 WHERE entity_type = ? AND id = ?
			`, entityType, e.id); err != nil {
				return nil, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("record snapshot: %w", err)
	}
	return expired, nil
}
