package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/devbush/vid2brief/internal/domain"
	"github.com/devbush/vid2brief/internal/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS processing_records (
	video_id      TEXT NOT NULL,
	date          TEXT NOT NULL,
	status        TEXT NOT NULL,
	document_path TEXT NOT NULL DEFAULT '',
	created_at    TIMESTAMP NOT NULL,
	PRIMARY KEY (video_id, date)
);
`

// SQLite is the persistent Ledger implementation.
type SQLite struct {
	db *sql.DB
}

// Open returns a ledger at path. When the database cannot be opened or
// its schema cannot be ensured, a warning is logged and an in-memory
// ledger is returned instead: a broken ledger degrades dedup for this
// process run but never blocks report generation.
func Open(path string, logger *slog.Logger) ports.Ledger {
	if logger == nil {
		logger = slog.Default()
	}
	l, err := OpenSQLite(path)
	if err != nil {
		logger.Warn("ledger unavailable, falling back to in-memory dedup", "path", path, "error", err)
		return NewMemory()
	}
	return l
}

// OpenSQLite opens the database, ensuring the schema.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	// Single connection; sqlite handles one writer at a time anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure ledger schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (l *SQLite) Lookup(ctx context.Context, videoID, date string) (*domain.ProcessingRecord, error) {
	row := l.db.QueryRowContext(ctx,
		`SELECT video_id, date, status, document_path, created_at
		 FROM processing_records WHERE video_id = ? AND date = ?`,
		videoID, date)

	var rec domain.ProcessingRecord
	var status string
	err := row.Scan(&rec.VideoID, &rec.Date, &status, &rec.DocumentPath, &rec.Timestamp)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ledger lookup: %w", err)
	}
	rec.Status = domain.ProcessingStatus(status)
	return &rec, nil
}

func (l *SQLite) RecordCompleted(ctx context.Context, videoID, date, documentPath string) error {
	return l.upsert(ctx, videoID, date, domain.StatusCompleted, documentPath)
}

func (l *SQLite) RecordSkipped(ctx context.Context, videoID, date string, status domain.ProcessingStatus) error {
	return l.upsert(ctx, videoID, date, status, "")
}

func (l *SQLite) upsert(ctx context.Context, videoID, date string, status domain.ProcessingStatus, documentPath string) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO processing_records (video_id, date, status, document_path, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (video_id, date) DO UPDATE SET
		   status = excluded.status,
		   document_path = excluded.document_path,
		   created_at = excluded.created_at`,
		videoID, date, string(status), documentPath, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("ledger upsert: %w", err)
	}
	return nil
}

func (l *SQLite) List(ctx context.Context, limit int) ([]*domain.ProcessingRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := l.db.QueryContext(ctx,
		`SELECT video_id, date, status, document_path, created_at
		 FROM processing_records ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("ledger list: %w", err)
	}
	defer rows.Close()

	var records []*domain.ProcessingRecord
	for rows.Next() {
		var rec domain.ProcessingRecord
		var status string
		if err := rows.Scan(&rec.VideoID, &rec.Date, &status, &rec.DocumentPath, &rec.Timestamp); err != nil {
			return nil, fmt.Errorf("ledger scan: %w", err)
		}
		rec.Status = domain.ProcessingStatus(status)
		records = append(records, &rec)
	}
	return records, rows.Err()
}

func (l *SQLite) Close() error {
	return l.db.Close()
}

var _ ports.Ledger = (*SQLite)(nil)
