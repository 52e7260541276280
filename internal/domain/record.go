package domain

import "time"

// ProcessingStatus is the terminal outcome persisted for a (video, date) pair
type ProcessingStatus string

const (
	StatusCompleted        ProcessingStatus = "completed"
	StatusSkippedNoContent ProcessingStatus = "skipped_no_content"
	StatusSkippedDuplicate ProcessingStatus = "skipped_duplicate"
)

// ProcessingRecord is the durable ledger entry keyed by (VideoID, Date).
// It is what survives process restarts and enforces at-most-once
// report generation.
type ProcessingRecord struct {
	VideoID      string
	Date         string // YYYY-MM-DD
	Status       ProcessingStatus
	DocumentPath string
	Timestamp    time.Time
}
