// Package store persists received messages to a local SQLite history
// database, replacing them oldest-first once the configured cap is reached.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nhle/tempmail-watcher/internal/model"
)

// Store is the SQLite-backed message history.
type Store struct {
	db         *sqlx.DB
	maxEntries int
}

// HistoryEntry is one stored message with its local receive time.
type HistoryEntry struct {
	RecordID   string        `json:"record_id"`
	Message    model.Message `json:"message"`
	ReceivedAt time.Time     `json:"received_at"`
}

// Open opens (or creates) the history database at dbPath, enables WAL mode,
// and runs any pending schema migrations. maxEntries caps the number of
// retained messages; zero or negative disables trimming.
func Open(dbPath string, maxEntries int) (*Store, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &Store{db: db, maxEntries: maxEntries}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *Store) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// SaveMessage appends a received message to the history and trims the
// oldest entries beyond the configured cap.
func (s *Store) SaveMessage(ctx context.Context, msg model.Message) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO messages (
			id, message_id, provider, address,
			sender, subject, date, body, raw_data, received_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), msg.ID, string(msg.Provider), msg.Address,
		msg.From, msg.Subject, msg.Date, msg.Body, msg.Raw, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("saving message %s: %w", msg.ID, err)
	}

	if s.maxEntries > 0 {
		_, err = s.db.ExecContext(ctx, `
			DELETE FROM messages WHERE id NOT IN (
				SELECT id FROM messages
				ORDER BY received_at DESC, rowid DESC
				LIMIT ?
			)`, s.maxEntries)
		if err != nil {
			return fmt.Errorf("trimming history: %w", err)
		}
	}

	return nil
}

// ListMessages retrieves stored messages, newest first. A non-positive
// limit returns everything.
func (s *Store) ListMessages(ctx context.Context, limit int) ([]HistoryEntry, error) {
	query := `
		SELECT id, message_id, provider, address,
		       sender, subject, date, body, raw_data, received_at
		FROM messages
		ORDER BY received_at DESC, rowid DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// CountMessages returns the number of stored messages.
func (s *Store) CountMessages(ctx context.Context) (int, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM messages"); err != nil {
		return 0, fmt.Errorf("counting messages: %w", err)
	}
	return count, nil
}

// Clear removes all stored messages.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM messages"); err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}
	return nil
}

// ExportJSON writes the full history to w as indented JSON, oldest first.
func (s *Store) ExportJSON(ctx context.Context, w io.Writer) (int, error) {
	entries, err := s.ListMessages(ctx, 0)
	if err != nil {
		return 0, err
	}

	// Flip to chronological order for the export file.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return 0, fmt.Errorf("encoding history export: %w", err)
	}

	return len(entries), nil
}

// scanEntry scans a history row from a sqlx.Rows result set.
func scanEntry(rows *sqlx.Rows) (HistoryEntry, error) {
	var (
		entry      HistoryEntry
		provider   string
		receivedAt time.Time
	)

	err := rows.Scan(
		&entry.RecordID, &entry.Message.ID, &provider, &entry.Message.Address,
		&entry.Message.From, &entry.Message.Subject, &entry.Message.Date,
		&entry.Message.Body, &entry.Message.Raw, &receivedAt,
	)
	if err != nil {
		return HistoryEntry{}, fmt.Errorf("scanning message row: %w", err)
	}

	entry.Message.Provider = model.ProviderType(provider)
	entry.ReceivedAt = receivedAt

	return entry, nil
}
