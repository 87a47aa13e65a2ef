// Package settings is the local, single-file draft store used when no database is configured.
package settings

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/udisondev/customloads/internal/model"
	"github.com/udisondev/customloads/internal/settings/migrations"
)

// Store keeps each draft record as a JSON row in SQLite.
type Store struct {
	db   *sql.DB
	mu   sync.Mutex
	path string
}

// Open opens (creating if needed) and migrates the store at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("storage path is required")
	}
	path = filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create dirs: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, db, migrations.FS)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating migration provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// LoadDrafts returns the stored records in library order.
func (s *Store) LoadDrafts(ctx context.Context) ([]model.DraftRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, payload FROM drafts ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("select drafts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []model.DraftRecord
	for rows.Next() {
		var name string
		var payload []byte
		if err := rows.Scan(&name, &payload); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		var rec model.DraftRecord
		if err := json.Unmarshal(payload, &rec); err != nil {
			slog.Error("skipping undecodable draft", "name", name, "error", err)
			continue
		}
		if rec.Parts == nil {
			rec.Parts = make(map[string]string)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating drafts: %w", err)
	}
	return records, nil
}

// SaveDrafts upserts every record and removes the ones no longer in the library.
func (s *Store) SaveDrafts(ctx context.Context, records []model.DraftRecord) (retErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UnixMilli()
	keep := make([]any, 0, len(records))
	for i, rec := range records {
		payload, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encode %s: %w", rec.Name, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO drafts(name, position, payload, updated_at) VALUES(?, ?, ?, ?)
			 ON CONFLICT(name) DO UPDATE SET
			    position = excluded.position,
			    payload = excluded.payload,
			    updated_at = excluded.updated_at`,
			rec.Name, i, payload, now,
		); err != nil {
			return fmt.Errorf("upsert %s: %w", rec.Name, err)
		}
		keep = append(keep, rec.Name)
	}

	del := `DELETE FROM drafts`
	if len(keep) > 0 {
		del += ` WHERE name NOT IN (?` + strings.Repeat(", ?", len(keep)-1) + `)`
	}
	if _, err := tx.ExecContext(ctx, del, keep...); err != nil {
		return fmt.Errorf("delete removed drafts: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
