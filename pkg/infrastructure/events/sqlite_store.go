package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite" // pure go sqlite driver
)

// SQLiteEventStore persists events to a single append-only table. Event payloads
// are stored as JSON and read back as json.RawMessage; subscribers see the original payload.
type SQLiteEventStore struct {
	*dispatcher
	db   *sql.DB
	mu   sync.Mutex
	path string
}

var _ EventStore = (*SQLiteEventStore)(nil)

// NewSQLiteEventStore opens (or creates) the event database at path
func NewSQLiteEventStore(path string, logger zerolog.Logger) (*SQLiteEventStore, error) {
	if path == "" {
		path = "supplydesk-events.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS events (
		position INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		stream TEXT NOT NULL,
		version INTEGER NOT NULL,
		type TEXT NOT NULL,
		payload BLOB NOT NULL,
		recorded_at TEXT NOT NULL,
		UNIQUE (stream, version)
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create events table: %w", err)
	}

	return &SQLiteEventStore{
		dispatcher: newDispatcher(logger.With().Str("component", "event_store").Logger()),
		db:         db,
		path:       path,
	}, nil
}

// Path returns the database file backing the store
func (s *SQLiteEventStore) Path() string {
	return s.path
}

// Close releases the database handle
func (s *SQLiteEventStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteEventStore) AppendEvent(ctx context.Context, streamID string, event Event) (retErr error) {
	payload, err := json.Marshal(event.Data())
	if err != nil {
		return fmt.Errorf("encode event %s: %w", event.Type(), err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin append: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	var version int
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(version), 0) FROM events WHERE stream = ?`, streamID,
	).Scan(&version); err != nil {
		return fmt.Errorf("select stream version: %w", err)
	}
	version++

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO events (id, stream, version, type, payload, recorded_at) VALUES (?, ?, ?, ?, ?, ?)`,
		event.ID(), streamID, version, event.Type(), payload, event.Timestamp().UTC().Format(time.RFC3339Nano),
	); err != nil {
		return fmt.Errorf("insert event: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit append: %w", err)
	}

	s.notify(BaseEvent{
		EventID:      event.ID(),
		EventType:    event.Type(),
		Stream:       streamID,
		EventData:    event.Data(),
		EventTime:    event.Timestamp(),
		EventVersion: version,
	})
	return nil
}

func (s *SQLiteEventStore) ReadEvents(ctx context.Context, streamID string, fromVersion int) ([]Event, error) {
	if fromVersion < 1 {
		fromVersion = 1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, stream, version, type, payload, recorded_at FROM events
		 WHERE stream = ? AND version >= ? ORDER BY version`,
		streamID, fromVersion)
	if err != nil {
		return nil, fmt.Errorf("select stream events: %w", err)
	}
	return scanEvents(rows)
}

func (s *SQLiteEventStore) ReadAllEvents(ctx context.Context, fromPosition int) ([]Event, error) {
	if fromPosition < 0 {
		fromPosition = 0
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, stream, version, type, payload, recorded_at FROM events
		 ORDER BY position LIMIT -1 OFFSET ?`,
		fromPosition)
	if err != nil {
		return nil, fmt.Errorf("select events: %w", err)
	}
	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]Event, error) {
	defer func() { _ = rows.Close() }()

	events := make([]Event, 0)
	for rows.Next() {
		var (
			event      BaseEvent
			payload    []byte
			recordedAt string
		)
		if err := rows.Scan(&event.EventID, &event.Stream, &event.EventVersion, &event.EventType, &payload, &recordedAt); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		ts, err := time.Parse(time.RFC3339Nano, recordedAt)
		if err != nil {
			return nil, fmt.Errorf("decode recorded_at for event %s: %w", event.EventID, err)
		}
		event.EventTime = ts
		event.EventData = json.RawMessage(payload)
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}
