package ports

import (
	"context"

	"github.com/devbush/vid2brief/internal/domain"
)

// Ledger is the persisted idempotency store keyed by (videoID, date).
// It enforces at-most-once report generation per video per day.
type Ledger interface {
	// Lookup returns the record for a key, or domain.ErrRecordNotFound.
	Lookup(ctx context.Context, videoID, date string) (*domain.ProcessingRecord, error)

	// RecordCompleted upserts a Completed record. Calling twice with the
	// same key overwrites rather than duplicating.
	RecordCompleted(ctx context.Context, videoID, date, documentPath string) error

	// RecordSkipped upserts a terminal non-content record so the same
	// video is not re-resolved within the same day.
	RecordSkipped(ctx context.Context, videoID, date string, status domain.ProcessingStatus) error

	// List returns the most recent records, newest first.
	List(ctx context.Context, limit int) ([]*domain.ProcessingRecord, error)

	// Close releases the backing store.
	Close() error
}
