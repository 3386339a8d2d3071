package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/MadhuvanthiSriPad/github-issue-automation/internal/domain"
	autoerrors "github.com/MadhuvanthiSriPad/github-issue-automation/internal/errors"
)

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// Open creates (if needed) and opens a SQLite-backed repository.
func Open(dbPath string) (Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, autoerrors.Wrap(autoerrors.ErrCodeStoreOpen, "create database directory", err)
	}

	// WAL mode for better concurrency between CLI runs and the dashboard.
	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, autoerrors.Wrap(autoerrors.ErrCodeStoreOpen, "open database", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, autoerrors.Wrap(autoerrors.ErrCodeStoreOpen, "ping database", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS stage_results (
		key TEXT PRIMARY KEY,
		ticket_ref TEXT NOT NULL,
		stage TEXT NOT NULL,
		payload_json TEXT NOT NULL,
		session_id TEXT,
		session_url TEXT,
		used_fallback INTEGER NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_stage_results_ticket ON stage_results(ticket_ref);
	CREATE INDEX IF NOT EXISTS idx_stage_results_created ON stage_results(created_at);
	`
	if _, err := s.db.Exec(query); err != nil {
		return autoerrors.Wrap(autoerrors.ErrCodeStoreOpen, "create schema", err)
	}
	return nil
}

// Put upserts a stage result; a re-run of the same stage for the same ticket
// replaces the previous record.
func (s *SQLiteStore) Put(ctx context.Context, ticket domain.Ticket, stage Stage, payload any, prov domain.Provenance) error {
	data, err := marshalPayload(payload)
	if err != nil {
		return autoerrors.Wrap(autoerrors.ErrCodeStoreQuery, "encode stage result", err)
	}

	query := `
	INSERT INTO stage_results (key, ticket_ref, stage, payload_json, session_id, session_url, used_fallback, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET
		payload_json = excluded.payload_json,
		session_id = excluded.session_id,
		session_url = excluded.session_url,
		used_fallback = excluded.used_fallback,
		created_at = excluded.created_at`

	usedFallback := 0
	if prov.UsedFallback {
		usedFallback = 1
	}

	_, err = s.db.ExecContext(ctx, query,
		CacheKey(ticket, stage), ticket.Ref(), string(stage), string(data),
		prov.SessionID, prov.SessionURL, usedFallback, time.Now().Unix(),
	)
	if err != nil {
		return autoerrors.Wrap(autoerrors.ErrCodeStoreQuery, "upsert stage result", err)
	}
	return nil
}

// Get returns the stored record for a ticket+stage, or nil when absent.
func (s *SQLiteStore) Get(ctx context.Context, ticket domain.Ticket, stage Stage) (*Record, error) {
	query := `
	SELECT key, ticket_ref, stage, payload_json, session_id, session_url, used_fallback, created_at
	FROM stage_results WHERE key = ?`

	row := s.db.QueryRowContext(ctx, query, CacheKey(ticket, stage))
	record, err := scanRecord(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, autoerrors.Wrap(autoerrors.ErrCodeStoreQuery, "scan stage result", err)
	}
	return record, nil
}

// ListByTicket returns every stored stage result for a ticket reference,
// newest first.
func (s *SQLiteStore) ListByTicket(ctx context.Context, ticketRef string) ([]Record, error) {
	query := `
	SELECT key, ticket_ref, stage, payload_json, session_id, session_url, used_fallback, created_at
	FROM stage_results WHERE ticket_ref = ? ORDER BY created_at DESC`

	return s.queryRecords(ctx, query, ticketRef)
}

// Recent returns the most recent stage results across all tickets.
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
	SELECT key, ticket_ref, stage, payload_json, session_id, session_url, used_fallback, created_at
	FROM stage_results ORDER BY created_at DESC LIMIT ?`

	return s.queryRecords(ctx, query, limit)
}

func (s *SQLiteStore) queryRecords(ctx context.Context, query string, args ...any) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, autoerrors.Wrap(autoerrors.ErrCodeStoreQuery, "query stage results", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		record, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, autoerrors.Wrap(autoerrors.ErrCodeStoreQuery, "scan stage result row", err)
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, autoerrors.Wrap(autoerrors.ErrCodeStoreQuery, "iterate stage results", err)
	}
	return records, nil
}

func scanRecord(scan func(...any) error) (*Record, error) {
	var record Record
	var payload string
	var sessionID, sessionURL sql.NullString
	var usedFallback int
	var createdAt int64

	err := scan(
		&record.Key, &record.TicketRef, (*string)(&record.Stage), &payload,
		&sessionID, &sessionURL, &usedFallback, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	record.Payload = []byte(payload)
	record.SessionID = sessionID.String
	record.SessionURL = sessionURL.String
	record.UsedFallback = usedFallback != 0
	record.CreatedAt = time.Unix(createdAt, 0)
	return &record, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}
